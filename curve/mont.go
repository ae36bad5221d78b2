package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// MontConfig describes a Montgomery curve by^2 = x^3 + ax^2 + x.  Only the
// x coordinate of the base point is needed.
type MontConfig struct {
	Name  string
	Prime string

	P, A, B string
	N, H    string
	Gx      string
}

// Mont is a Montgomery curve.  Points carry only (X : Z) and support the
// ladder operations: doubling, differential addition and scalar
// multiplication.
type Mont struct {
	base

	a, b *bn.Int
	a24  *bn.Int
	binv *bn.Int

	g *MontPoint
}

var _ Curve = (*Mont)(nil)

// NewMont builds a Montgomery curve from cfg.
func NewMont(cfg MontConfig) (*Mont, error) {
	b, err := newBase(cfg.Name, cfg.Prime, cfg.P, cfg.N, cfg.H)
	if err != nil {
		return nil, err
	}
	m := &Mont{base: b}

	a, err := parseHex("a", cfg.A)
	if err != nil {
		return nil, err
	}
	bb, err := parseHex("b", cfg.B)
	if err != nil {
		return nil, err
	}
	m.a = m.toField(a)
	m.b = m.toField(bb)
	if m.b.IsZero() {
		return nil, makeError(ErrInvalidCurve, "b must be nonzero")
	}
	m.binv = mustInv(m.b)

	// a24 = (a + 2) / 4
	i4 := mustInv(bn.New(4).ToRed(m.red))
	m.a24 = i4.RedMul(m.a.RedAdd(m.two))

	gx, err := parseHex("gx", cfg.Gx)
	if err != nil {
		return nil, err
	}
	m.g, err = m.NewPoint(gx)
	if err != nil {
		return nil, Error{Err: ErrInvalidCurve,
			Description: fmt.Sprintf("generator: %v", err)}
	}
	return m, nil
}

// Family returns FamilyMont.
func (m *Mont) Family() Family { return FamilyMont }

// G returns the base point.
func (m *Mont) G() *MontPoint { return m.g }

// Infinity returns the point at infinity, (1 : 0).
func (m *Mont) Infinity() *MontPoint {
	return &MontPoint{curve: m, x: m.one, z: m.zero}
}

func (m *Mont) point(x, z *bn.Int) *MontPoint {
	return &MontPoint{curve: m, x: x, z: z}
}

// NewPoint returns the point with affine x coordinate x, which must belong
// to a point on the curve rather than its twist.
func (m *Mont) NewPoint(x *bn.Int) (*MontPoint, error) {
	if x.IsNeg() || x.Cmp(m.p) >= 0 {
		return nil, makeError(ErrCoordinateTooBig, "x is not below the field prime")
	}
	p := m.point(x.ToRed(m.red), m.one)
	if !m.Validate(p) {
		return nil, makeError(ErrPointNotOnCurve, "x does not belong to a curve point")
	}
	return p, nil
}

// Validate reports whether (x^3 + ax^2 + x) / b is a square, so that a y
// exists for the x coordinate of p.
func (m *Mont) Validate(p *MontPoint) bool {
	if p.IsInfinity() {
		return true
	}
	x := p.normalize().x
	x2 := x.RedSqr()
	rhs := x2.RedMul(x).RedAdd(x2.RedMul(m.a)).RedAdd(x).RedMul(m.binv)
	_, err := rhs.RedSqrt()
	return err == nil
}

// DecodePoint parses a big endian x coordinate of ByteLen bytes.
func (m *Mont) DecodePoint(b []byte) (*MontPoint, error) {
	if len(b) != m.byteLen {
		return nil, makeError(ErrUnknownPointFormat,
			fmt.Sprintf("encoded point must be %d bytes, got %d", m.byteLen, len(b)))
	}
	return m.NewPoint(bn.FromBytes(b, bn.BigEndian))
}

// MontPoint is an x-only point (X : Z) on a Montgomery curve.  Z == 0 is
// the point at infinity.  Points are immutable.
type MontPoint struct {
	curve *Mont
	x, z  *bn.Int
}

// Curve returns the curve p lies on.
func (p *MontPoint) Curve() *Mont { return p.curve }

// IsInfinity reports whether p is the point at infinity.
func (p *MontPoint) IsInfinity() bool { return p.z.IsZero() }

func (p *MontPoint) normalize() *MontPoint {
	if p.z.Eq(p.curve.one) {
		return p
	}
	return p.curve.point(p.x.RedMul(mustInv(p.z)), p.curve.one)
}

// X returns the affine x coordinate, X * Z^(p-2), which is zero for the
// point at infinity.
func (p *MontPoint) X() *bn.Int {
	e := p.curve.p.SubN(2)
	return p.x.RedMul(p.z.RedPow(e)).FromRed()
}

// Eq reports whether p and q have the same x coordinate.
func (p *MontPoint) Eq(q *MontPoint) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	return p.x.RedMul(q.z).Eq(q.x.RedMul(p.z))
}

// Dbl returns 2p.
func (p *MontPoint) Dbl() *MontPoint {
	// 2M + 2S + 4A
	a := p.x.RedAdd(p.z)
	aa := a.RedSqr()
	b := p.x.RedSub(p.z)
	bb := b.RedSqr()
	c := aa.RedSub(bb)
	nx := aa.RedMul(bb)
	nz := c.RedMul(bb.RedAdd(p.curve.a24.RedMul(c)))
	return p.curve.point(nx, nz)
}

// DiffAdd returns p + q given diff = p - q.
func (p *MontPoint) DiffAdd(q, diff *MontPoint) *MontPoint {
	// 4M + 2S + 6A
	a := p.x.RedAdd(p.z)
	b := p.x.RedSub(p.z)
	c := q.x.RedAdd(q.z)
	d := q.x.RedSub(q.z)
	da := d.RedMul(a)
	cb := c.RedMul(b)
	nx := diff.z.RedMul(da.RedAdd(cb).RedSqr())
	nz := diff.x.RedMul(da.RedSub(cb).RedSqr())
	return p.curve.point(nx, nz)
}

// Mul returns k*p with the Montgomery ladder.  The sign of k is ignored,
// since x(-P) == x(P).
func (p *MontPoint) Mul(k *bn.Int) *MontPoint {
	if p.IsInfinity() {
		return p
	}
	if p.x.IsZero() {
		// (0, 0) has order two and breaks the differential addition.
		if k.IsOdd() {
			return p
		}
		return p.curve.Infinity()
	}

	t := k.Abs()
	a := p                  // (N/2)*Q + Q
	b := p.curve.Infinity() // (N/2)*Q
	for i := t.BitLen() - 1; i >= 0; i-- {
		if !t.TestBit(i) {
			a = a.DiffAdd(b, p)
			b = b.Dbl()
		} else {
			b = a.DiffAdd(b, p)
			a = a.Dbl()
		}
	}
	return b
}

// Encode returns the big endian x coordinate in ByteLen bytes.
func (p *MontPoint) Encode() []byte {
	out := make([]byte, p.curve.byteLen)
	fill(out, p.X())
	return out
}

// String returns a human-readable form of p.
func (p *MontPoint) String() string {
	if p.IsInfinity() {
		return "<EC Point Infinity>"
	}
	return fmt.Sprintf("<EC Point x: %s>", p.X().Hex())
}
