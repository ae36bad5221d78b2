package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// EdwardsConfig describes a twisted Edwards curve
// ax^2 + y^2 = c^2(1 + dx^2y^2).  Numeric fields are hex strings and may
// carry a leading minus sign.  C defaults to 1.
type EdwardsConfig struct {
	Name  string
	Prime string

	P, A, C, D string
	N, H       string
	Gx, Gy     string
}

// Edwards is a twisted Edwards curve.  With a == -1 points use extended
// coordinates (X, Y, Z, T), otherwise projective (X, Y, Z).
type Edwards struct {
	base

	a, c, c2, d, dd *bn.Int

	twisted  bool
	mOneA    bool
	extended bool
	oneC     bool

	g *EdPoint
}

var _ Curve = (*Edwards)(nil)

// NewEdwards builds a twisted Edwards curve from cfg.
func NewEdwards(cfg EdwardsConfig) (*Edwards, error) {
	b, err := newBase(cfg.Name, cfg.Prime, cfg.P, cfg.N, cfg.H)
	if err != nil {
		return nil, err
	}
	e := &Edwards{base: b}

	a, err := parseHex("a", cfg.A)
	if err != nil {
		return nil, err
	}
	cs := cfg.C
	if cs == "" {
		cs = "1"
	}
	c, err := parseHex("c", cs)
	if err != nil {
		return nil, err
	}
	d, err := parseHex("d", cfg.D)
	if err != nil {
		return nil, err
	}

	e.a = e.toField(a)
	e.c = e.toField(c)
	e.c2 = e.c.RedSqr()
	e.d = e.toField(d)
	e.dd = e.d.RedAdd(e.d)

	e.twisted = !e.a.Eq(e.one)
	e.mOneA = e.twisted && e.a.Eq(e.one.RedNeg())
	e.extended = e.mOneA
	e.oneC = e.c.Eq(e.one)
	if e.twisted && !e.oneC {
		return nil, makeError(ErrInvalidCurve, "twisted curves need c == 1")
	}
	if e.d.IsZero() {
		return nil, makeError(ErrInvalidCurve, "d must be nonzero")
	}

	gx, err := parseHex("gx", cfg.Gx)
	if err != nil {
		return nil, err
	}
	gy, err := parseHex("gy", cfg.Gy)
	if err != nil {
		return nil, err
	}
	e.g, err = e.NewPoint(gx, gy)
	if err != nil {
		return nil, Error{Err: ErrInvalidCurve,
			Description: fmt.Sprintf("generator: %v", err)}
	}
	return e, nil
}

// Family returns FamilyEdwards.
func (e *Edwards) Family() Family { return FamilyEdwards }

// G returns the base point.
func (e *Edwards) G() *EdPoint { return e.g }

// EncodingLen returns the length of an RFC 8032 point encoding.
func (e *Edwards) EncodingLen() int { return (e.p.BitLen() + 8) / 8 }

// Infinity returns the neutral element (0, c).
func (e *Edwards) Infinity() *EdPoint {
	return e.point(e.zero, e.c, e.one, e.zero)
}

func (e *Edwards) mulA(v *bn.Int) *bn.Int {
	if e.mOneA {
		return v.RedNeg()
	}
	return e.a.RedMul(v)
}

func (e *Edwards) mulC(v *bn.Int) *bn.Int {
	if e.oneC {
		return v
	}
	return e.c.RedMul(v)
}

// point builds a point from field elements.  t may be nil, in which case
// it is derived for extended curves.
func (e *Edwards) point(x, y, z, t *bn.Int) *EdPoint {
	p := &EdPoint{curve: e, x: x, y: y, z: z, t: t, zOne: z.Eq(e.one)}
	if e.extended && p.t == nil {
		p.t = x.RedMul(y)
		if !p.zOne {
			p.t = p.t.RedMul(mustInv(z))
		}
	}
	return p
}

// NewPoint returns the point (x, y), which must be on the curve.
func (e *Edwards) NewPoint(x, y *bn.Int) (*EdPoint, error) {
	for _, v := range []*bn.Int{x, y} {
		if v.IsNeg() || v.Cmp(e.p) >= 0 {
			return nil, makeError(ErrCoordinateTooBig,
				"coordinate is not below the field prime")
		}
	}
	p := e.point(x.ToRed(e.red), y.ToRed(e.red), e.one, nil)
	if !e.Validate(p) {
		return nil, makeError(ErrPointNotOnCurve, "point is not on the curve")
	}
	return p, nil
}

// PointFromX returns the point with the given x whose y has the requested
// parity.
func (e *Edwards) PointFromX(x *bn.Int, odd bool) (*EdPoint, error) {
	if x.IsNeg() || x.Cmp(e.p) >= 0 {
		return nil, makeError(ErrCoordinateTooBig, "x is not below the field prime")
	}
	xr := x.ToRed(e.red)
	x2 := xr.RedSqr()
	rhs := e.c2.RedSub(e.a.RedMul(x2))
	lhs := e.one.RedSub(e.c2.RedMul(e.d).RedMul(x2))
	lhsInv, err := lhs.RedInvm()
	if err != nil {
		return nil, makeError(ErrInvalidPoint, "no point with this x")
	}
	y, err := rhs.RedMul(lhsInv).RedSqrt()
	if err != nil {
		return nil, Error{Err: ErrInvalidPoint,
			Description: fmt.Sprintf("no point with x %s: %v", x.Hex(), err)}
	}
	if y.IsZero() {
		if odd {
			return nil, makeError(ErrInvalidPoint, "y is zero and cannot be odd")
		}
	} else if y.FromRed().IsOdd() != odd {
		y = y.RedNeg()
	}
	return e.point(xr, y, e.one, nil), nil
}

// PointFromY returns the point with the given y whose x has the requested
// parity.
func (e *Edwards) PointFromY(y *bn.Int, odd bool) (*EdPoint, error) {
	if y.IsNeg() || y.Cmp(e.p) >= 0 {
		return nil, makeError(ErrCoordinateTooBig, "y is not below the field prime")
	}
	yr := y.ToRed(e.red)

	// x^2 = (y^2 - c^2) / (c^2 d y^2 - a)
	y2 := yr.RedSqr()
	lhs := y2.RedSub(e.c2)
	rhs := y2.RedMul(e.d).RedMul(e.c2).RedSub(e.a)
	rhsInv, err := rhs.RedInvm()
	if err != nil {
		return nil, makeError(ErrInvalidPoint, "no point with this y")
	}
	x2 := lhs.RedMul(rhsInv)
	if x2.IsZero() {
		if odd {
			return nil, makeError(ErrInvalidPoint, "x is zero and cannot be odd")
		}
		return e.point(e.zero, yr, e.one, nil), nil
	}

	x, err := x2.RedSqrt()
	if err != nil {
		return nil, Error{Err: ErrInvalidPoint,
			Description: fmt.Sprintf("no point with y %s: %v", y.Hex(), err)}
	}
	if x.FromRed().IsOdd() != odd {
		x = x.RedNeg()
	}
	return e.point(x, yr, e.one, nil), nil
}

// Validate reports whether p satisfies the curve equation.
func (e *Edwards) Validate(p *EdPoint) bool {
	if p.IsInfinity() {
		return true
	}
	n := p.normalize()
	x2 := n.x.RedSqr()
	y2 := n.y.RedSqr()
	lhs := x2.RedMul(e.a).RedAdd(y2)
	rhs := e.c2.RedMul(e.one.RedAdd(e.d.RedMul(x2).RedMul(y2)))
	return lhs.Eq(rhs)
}

// DecodePoint parses an RFC 8032 encoding: y little endian with the parity
// of x in the top bit of the last byte.
func (e *Edwards) DecodePoint(b []byte) (*EdPoint, error) {
	if len(b) != e.EncodingLen() {
		return nil, makeError(ErrUnknownPointFormat,
			fmt.Sprintf("encoded point must be %d bytes, got %d", e.EncodingLen(), len(b)))
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	last := len(buf) - 1
	odd := buf[last]&0x80 != 0
	buf[last] &^= 0x80
	y := bn.FromBytes(buf, bn.LittleEndian)
	return e.PointFromY(y, odd)
}

// EdPoint is a point on a twisted Edwards curve.  Points are immutable.
type EdPoint struct {
	curve      *Edwards
	x, y, z, t *bn.Int
	zOne       bool
	pre        *precomputed
}

// Curve returns the curve p lies on.
func (p *EdPoint) Curve() *Edwards { return p.curve }

// IsInfinity reports whether p is the neutral element.
func (p *EdPoint) IsInfinity() bool {
	return p.x.IsZero() && p.y.Eq(p.curve.mulC(p.z))
}

// normalize returns p scaled to z == 1.
func (p *EdPoint) normalize() *EdPoint {
	if p.zOne {
		return p
	}
	zi := mustInv(p.z)
	n := &EdPoint{curve: p.curve, x: p.x.RedMul(zi), y: p.y.RedMul(zi),
		z: p.curve.one, zOne: true, pre: p.pre}
	if p.t != nil {
		n.t = p.t.RedMul(zi)
	}
	return n
}

// ToAffine returns p with z == 1.
func (p *EdPoint) ToAffine() *EdPoint { return p.normalize() }

// X returns the affine x coordinate.
func (p *EdPoint) X() *bn.Int { return p.normalize().x.FromRed() }

// Y returns the affine y coordinate.
func (p *EdPoint) Y() *bn.Int { return p.normalize().y.FromRed() }

// Eq reports whether p and q are the same point.
func (p *EdPoint) Eq(q *EdPoint) bool {
	if p == q {
		return true
	}
	return p.x.RedMul(q.z).Eq(q.x.RedMul(p.z)) && p.y.RedMul(q.z).Eq(q.y.RedMul(p.z))
}

// Neg returns -p.  Precomputed tables follow the point.
func (p *EdPoint) Neg() *EdPoint {
	var t *bn.Int
	if p.t != nil {
		t = p.t.RedNeg()
	}
	res := &EdPoint{curve: p.curve, x: p.x.RedNeg(), y: p.y, z: p.z, t: t, zOne: p.zOne}
	if p.pre != nil {
		res.pre = mapPrecomputed(p.pre, func(e groupElement) groupElement {
			return e.negate()
		})
	}
	return res
}

// Dbl returns 2p.
func (p *EdPoint) Dbl() *EdPoint {
	if p.IsInfinity() {
		return p
	}
	if p.curve.extended {
		return p.extDbl()
	}
	return p.projDbl()
}

// extDbl is dbl-2008-hwcd, 4M + 4S.
func (p *EdPoint) extDbl() *EdPoint {
	e := p.curve
	a := p.x.RedSqr()
	b := p.y.RedSqr()
	c := twice(p.z.RedSqr())
	d := e.mulA(a)
	// E = (X1 + Y1)^2 - A - B
	ee := p.x.RedAdd(p.y).RedSqr().RedISub(a).RedISub(b)
	g := d.RedAdd(b)
	f := g.RedSub(c)
	h := d.RedSub(b)

	nx := ee.RedMul(f)
	ny := g.RedMul(h)
	nt := ee.RedMul(h)
	nz := f.RedMul(g)
	return e.point(nx, ny, nz, nt)
}

// projDbl is dbl-2008-bbjlp for twisted curves and dbl-2007-bl otherwise.
func (p *EdPoint) projDbl() *EdPoint {
	e := p.curve
	b := p.x.RedAdd(p.y).RedSqr()
	c := p.x.RedSqr()
	d := p.y.RedSqr()

	var nx, ny, nz *bn.Int
	if e.twisted {
		ee := e.mulA(c)
		f := ee.RedAdd(d)
		if p.zOne {
			nx = b.RedSub(c).RedSub(d).RedMul(f.RedSub(e.two))
			ny = f.RedMul(ee.RedSub(d))
			nz = f.RedSqr().RedSub(f).RedSub(f)
		} else {
			h := p.z.RedSqr()
			j := f.RedSub(h).RedISub(h)
			nx = b.RedSub(c).RedISub(d).RedMul(j)
			ny = f.RedMul(ee.RedSub(d))
			nz = f.RedMul(j)
		}
	} else {
		ee := c.RedAdd(d)
		h := e.mulC(p.z).RedSqr()
		j := ee.RedSub(h).RedSub(h)
		nx = e.mulC(b.RedSub(ee)).RedMul(j)
		ny = e.mulC(ee).RedMul(c.RedSub(d))
		nz = ee.RedMul(j)
	}
	return e.point(nx, ny, nz, nil)
}

// Add returns p + q.
func (p *EdPoint) Add(q *EdPoint) *EdPoint {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	if p.curve.extended {
		return p.extAdd(q)
	}
	return p.projAdd(q)
}

// extAdd is add-2008-hwcd-3, 8M.
func (p *EdPoint) extAdd(q *EdPoint) *EdPoint {
	e := p.curve
	a := p.y.RedSub(p.x).RedMul(q.y.RedSub(q.x))
	b := p.y.RedAdd(p.x).RedMul(q.y.RedAdd(q.x))
	c := p.t.RedMul(e.dd).RedMul(q.t)
	d := p.z.RedMul(twice(q.z))
	ee := b.RedSub(a)
	f := d.RedSub(c)
	g := d.RedAdd(c)
	h := b.RedAdd(a)

	nx := ee.RedMul(f)
	ny := g.RedMul(h)
	nt := ee.RedMul(h)
	nz := f.RedMul(g)
	return e.point(nx, ny, nz, nt)
}

// projAdd is add-2008-bbjlp for twisted curves and add-2007-bl otherwise.
func (p *EdPoint) projAdd(q *EdPoint) *EdPoint {
	e := p.curve
	a := p.z.RedMul(q.z)
	b := a.RedSqr()
	c := p.x.RedMul(q.x)
	d := p.y.RedMul(q.y)
	ee := e.d.RedMul(c).RedMul(d)
	f := b.RedSub(ee)
	g := b.RedAdd(ee)
	tmp := p.x.RedAdd(p.y).RedMul(q.x.RedAdd(q.y)).RedISub(c).RedISub(d)
	nx := a.RedMul(f).RedMul(tmp)

	var ny, nz *bn.Int
	if e.twisted {
		ny = a.RedMul(g).RedMul(d.RedSub(e.mulA(c)))
		nz = f.RedMul(g)
	} else {
		ny = a.RedMul(g).RedMul(d.RedSub(c))
		nz = e.mulC(f).RedMul(g)
	}
	return e.point(nx, ny, nz, nil)
}

// Mul returns k*p.
func (p *EdPoint) Mul(k *bn.Int) *EdPoint {
	if k.IsNeg() {
		return p.Neg().Mul(k.Neg())
	}
	e := p.curve
	if hasDoubles(p, k) {
		return e.fixedNafMul(p, e.Infinity(), k).(*EdPoint)
	}
	return e.wnafMul(p, e.Infinity(), k).(*EdPoint)
}

// MulAdd returns k1*p + k2*q.
func (p *EdPoint) MulAdd(k1 *bn.Int, q *EdPoint, k2 *bn.Int) *EdPoint {
	if k1.IsNeg() {
		p, k1 = p.Neg(), k1.Neg()
	}
	if k2.IsNeg() {
		q, k2 = q.Neg(), k2.Neg()
	}
	return p.curve.wnafMulAdd(1, []groupElement{p, q}, []*bn.Int{k1, k2},
		p.curve.Infinity()).(*EdPoint)
}

// Precompute returns a copy of p carrying tables for fixed base
// multiplication of scalars up to power bits.
func (p *EdPoint) Precompute(power int) *EdPoint {
	bare := p.normalize()
	bare = &EdPoint{curve: bare.curve, x: bare.x, y: bare.y, z: bare.z, t: bare.t, zOne: true}
	pre := &precomputed{
		naf: &nafTable{wnd: precomputeNAFWindow,
			points: oddMultiples(bare, precomputeNAFWindow)},
		doubles: doublesOf(bare, precomputeDoubleStep, power),
	}
	res := *bare
	res.pre = pre
	return &res
}

// Encode returns the RFC 8032 encoding of p.
func (p *EdPoint) Encode() []byte {
	n := p.normalize()
	out, err := n.y.FromRed().ToArrayLike(bn.LittleEndian, p.curve.EncodingLen())
	if err != nil {
		panic("curve: y does not fit its encoding")
	}
	if n.x.FromRed().IsOdd() {
		out[len(out)-1] |= 0x80
	}
	return out
}

// String returns a human-readable form of p.
func (p *EdPoint) String() string {
	if p.IsInfinity() {
		return "<EC Point Infinity>"
	}
	return fmt.Sprintf("<EC Point x: %s y: %s>", p.X().Hex(), p.Y().Hex())
}

// groupElement methods.

func (p *EdPoint) negate() groupElement { return p.Neg() }
func (p *EdPoint) double() groupElement { return p.Dbl() }
func (p *EdPoint) toAcc() groupElement  { return p }
func (p *EdPoint) tables() *precomputed { return p.pre }

func (p *EdPoint) doubleN(k int) groupElement {
	r := p
	for i := 0; i < k; i++ {
		r = r.Dbl()
	}
	return r
}

func (p *EdPoint) addTo(q groupElement) groupElement {
	return p.Add(q.(*EdPoint))
}

func (p *EdPoint) combine(q groupElement) [4]groupElement {
	o := q.(*EdPoint)
	return [4]groupElement{p, p.Add(o), p.Add(o.Neg()), o}
}
