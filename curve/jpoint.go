package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// JPoint is a point in Jacobian coordinates, (X, Y, Z) standing for the
// affine (X/Z^2, Y/Z^3).  Z == 0 is the point at infinity.
type JPoint struct {
	curve   *Short
	x, y, z *bn.Int
	zOne    bool
}

// IsInfinity reports whether p is the point at infinity.
func (p *JPoint) IsInfinity() bool { return p.z.IsZero() }

// ToP converts p to affine form.
func (p *JPoint) ToP() *Point {
	if p.IsInfinity() {
		return p.curve.Infinity()
	}
	zinv := mustInv(p.z)
	zinv2 := zinv.RedSqr()
	ax := p.x.RedMul(zinv2)
	ay := p.y.RedMul(zinv2).RedMul(zinv)
	return p.curve.point(ax, ay)
}

// Neg returns -p.
func (p *JPoint) Neg() *JPoint {
	return p.curve.jpoint(p.x, p.y.RedNeg(), p.z)
}

// Add returns p + q.
func (p *JPoint) Add(q *JPoint) *JPoint {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}

	// 12M + 4S + 7A
	pz2 := q.z.RedSqr()
	z2 := p.z.RedSqr()
	u1 := p.x.RedMul(pz2)
	u2 := q.x.RedMul(z2)
	s1 := p.y.RedMul(pz2.RedMul(q.z))
	s2 := q.y.RedMul(z2.RedMul(p.z))

	h := u1.RedSub(u2)
	r := s1.RedSub(s2)
	if h.IsZero() {
		if !r.IsZero() {
			return p.curve.JInfinity()
		}
		return p.Dbl()
	}

	h2 := h.RedSqr()
	h3 := h2.RedMul(h)
	v := u1.RedMul(h2)

	nx := r.RedSqr().RedIAdd(h3).RedISub(v).RedISub(v)
	ny := r.RedMul(v.RedSub(nx)).RedISub(s1.RedMul(h3))
	nz := p.z.RedMul(q.z).RedMul(h)
	return p.curve.jpoint(nx, ny, nz)
}

// MixedAdd returns p + q for an affine q.
func (p *JPoint) MixedAdd(q *Point) *JPoint {
	if p.IsInfinity() {
		return q.ToJ()
	}
	if q.inf {
		return p
	}

	// 8M + 3S + 7A
	z2 := p.z.RedSqr()
	u1 := p.x
	u2 := q.x.RedMul(z2)
	s1 := p.y
	s2 := q.y.RedMul(z2).RedMul(p.z)

	h := u1.RedSub(u2)
	r := s1.RedSub(s2)
	if h.IsZero() {
		if !r.IsZero() {
			return p.curve.JInfinity()
		}
		return p.Dbl()
	}

	h2 := h.RedSqr()
	h3 := h2.RedMul(h)
	v := u1.RedMul(h2)

	nx := r.RedSqr().RedIAdd(h3).RedISub(v).RedISub(v)
	ny := r.RedMul(v.RedSub(nx)).RedISub(s1.RedMul(h3))
	nz := p.z.RedMul(h)
	return p.curve.jpoint(nx, ny, nz)
}

// DblP returns 2^k p.
func (p *JPoint) DblP(k int) *JPoint {
	if k == 0 || p.IsInfinity() {
		return p
	}
	r := p
	for i := 0; i < k; i++ {
		r = r.Dbl()
	}
	return r
}

// Dbl returns 2p.
func (p *JPoint) Dbl() *JPoint {
	if p.IsInfinity() {
		return p
	}
	switch {
	case p.curve.zeroA:
		return p.zeroDbl()
	case p.curve.threeA:
		return p.threeDbl()
	default:
		return p.dbl()
	}
}

func twice(v *bn.Int) *bn.Int { return v.RedAdd(v) }

func thrice(v *bn.Int) *bn.Int { return v.RedAdd(v).RedIAdd(v) }

func eightTimes(v *bn.Int) *bn.Int { return twice(twice(twice(v))) }

// zeroDbl doubles on a curve with a == 0.
func (p *JPoint) zeroDbl() *JPoint {
	var nx, ny, nz *bn.Int
	if p.zOne {
		// mdbl-2007-bl, 1M + 5S + 14A
		xx := p.x.RedSqr()
		yy := p.y.RedSqr()
		yyyy := yy.RedSqr()
		// S = 2 * ((X1 + YY)^2 - XX - YYYY)
		s := twice(p.x.RedAdd(yy).RedSqr().RedISub(xx).RedISub(yyyy))
		// M = 3 * XX
		m := thrice(xx)
		// T = M^2 - 2 * S
		t := m.RedSqr().RedISub(s).RedISub(s)

		nx = t
		ny = m.RedMul(s.RedSub(t)).RedISub(eightTimes(yyyy))
		nz = twice(p.y)
	} else {
		// dbl-2009-l, 2M + 5S + 13A
		a := p.x.RedSqr()
		b := p.y.RedSqr()
		c := b.RedSqr()
		// D = 2 * ((X1 + B)^2 - A - C)
		d := twice(p.x.RedAdd(b).RedSqr().RedISub(a).RedISub(c))
		e := thrice(a)
		f := e.RedSqr()

		nx = f.RedSub(d).RedISub(d)
		ny = e.RedMul(d.RedSub(nx)).RedISub(eightTimes(c))
		nz = twice(p.y.RedMul(p.z))
	}
	return p.curve.jpoint(nx, ny, nz)
}

// threeDbl doubles on a curve with a == -3.
func (p *JPoint) threeDbl() *JPoint {
	var nx, ny, nz *bn.Int
	if p.zOne {
		// mdbl-2007-bl, 1M + 5S + 15A
		xx := p.x.RedSqr()
		yy := p.y.RedSqr()
		yyyy := yy.RedSqr()
		s := twice(p.x.RedAdd(yy).RedSqr().RedISub(xx).RedISub(yyyy))
		// M = 3 * XX + a
		m := thrice(xx).RedIAdd(p.curve.a)
		t := m.RedSqr().RedISub(s).RedISub(s)

		nx = t
		ny = m.RedMul(s.RedSub(t)).RedISub(eightTimes(yyyy))
		nz = twice(p.y)
	} else {
		// dbl-2001-b, 3M + 5S
		delta := p.z.RedSqr()
		gamma := p.y.RedSqr()
		beta := p.x.RedMul(gamma)
		// alpha = 3 * (X1 - delta) * (X1 + delta)
		alpha := thrice(p.x.RedSub(delta).RedMul(p.x.RedAdd(delta)))
		beta4 := twice(twice(beta))
		// X3 = alpha^2 - 8 * beta
		nx = alpha.RedSqr().RedISub(twice(beta4))
		// Z3 = (Y1 + Z1)^2 - gamma - delta
		nz = p.y.RedAdd(p.z).RedSqr().RedISub(gamma).RedISub(delta)
		// Y3 = alpha * (4 * beta - X3) - 8 * gamma^2
		ny = alpha.RedMul(beta4.RedSub(nx)).RedISub(eightTimes(gamma.RedSqr()))
	}
	return p.curve.jpoint(nx, ny, nz)
}

// dbl doubles on a curve with arbitrary a.
func (p *JPoint) dbl() *JPoint {
	jx, jy, jz := p.x, p.y, p.z
	jz4 := jz.RedSqr().RedSqr()
	jx2 := jx.RedSqr()
	jy2 := jy.RedSqr()

	c := thrice(jx2).RedIAdd(p.curve.a.RedMul(jz4))
	t1 := twice(twice(jx)).RedMul(jy2)
	nx := c.RedSqr().RedISub(twice(t1))
	t2 := t1.RedSub(nx)
	ny := c.RedMul(t2).RedISub(eightTimes(jy2.RedSqr()))
	nz := twice(jy).RedMul(jz)
	return p.curve.jpoint(nx, ny, nz)
}

// Mul returns k*p.
func (p *JPoint) Mul(k *bn.Int) *JPoint {
	if k.IsNeg() {
		return p.Neg().Mul(k.Neg())
	}
	return p.curve.wnafMul(p, p.curve.JInfinity(), k).(*JPoint)
}

// Eq reports whether p and q are the same point.
func (p *JPoint) Eq(q *JPoint) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	// x1 * z2^2 == x2 * z1^2
	z2 := p.z.RedSqr()
	pz2 := q.z.RedSqr()
	if !p.x.RedMul(pz2).Eq(q.x.RedMul(z2)) {
		return false
	}
	// y1 * z2^3 == y2 * z1^3
	z3 := z2.RedMul(p.z)
	pz3 := pz2.RedMul(q.z)
	return p.y.RedMul(pz3).Eq(q.y.RedMul(z3))
}

// EqXToP reports whether the affine x coordinate of p, reduced modulo the
// group order, equals x.  When p/n is small the comparison stays in
// Jacobian coordinates and tries x, x+n, ... below p.
func (p *JPoint) EqXToP(x *bn.Int) bool {
	if p.IsInfinity() {
		return false
	}
	c := p.curve
	if !c.maxwell || x.IsNeg() || x.Cmp(c.p) >= 0 {
		return p.ToP().X().UMod(c.n).Eq(x)
	}

	zs := p.z.RedSqr()
	rx := x.ToRed(c.red).RedMul(zs)
	if p.x.Eq(rx) {
		return true
	}
	xc := x.Clone()
	t := c.redN.RedMul(zs)
	for {
		xc.IAdd(c.n)
		if xc.Cmp(c.p) >= 0 {
			return false
		}
		rx = rx.RedAdd(t)
		if p.x.Eq(rx) {
			return true
		}
	}
}

// String returns a human-readable form of p.
func (p *JPoint) String() string {
	if p.IsInfinity() {
		return "<EC JPoint Infinity>"
	}
	return fmt.Sprintf("<EC JPoint x: %s y: %s z: %s>",
		p.x.FromRed().Hex(), p.y.FromRed().Hex(), p.z.FromRed().Hex())
}

// groupElement methods.

func (p *JPoint) negate() groupElement       { return p.Neg() }
func (p *JPoint) double() groupElement       { return p.Dbl() }
func (p *JPoint) doubleN(k int) groupElement { return p.DblP(k) }
func (p *JPoint) toAcc() groupElement        { return p }
func (p *JPoint) tables() *precomputed       { return nil }

func (p *JPoint) addTo(q groupElement) groupElement {
	switch o := q.(type) {
	case *JPoint:
		return p.Add(o)
	case *Point:
		return p.MixedAdd(o)
	}
	panic("curve: mixed curve families")
}

func (p *JPoint) combine(q groupElement) [4]groupElement {
	o, ok := q.(*Point)
	if !ok {
		o = q.(*JPoint).ToP()
	}
	return p.ToP().combine(o)
}
