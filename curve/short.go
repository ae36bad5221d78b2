package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// ShortConfig describes a short Weierstrass curve y^2 = x^3 + ax + b.
// Numeric fields are hex strings; A, B and the basis entries may carry a
// leading minus sign.
type ShortConfig struct {
	Name string

	// Prime names a registered pseudo-Mersenne prime (k256, p224, p192,
	// p25519) to reduce with.  When empty the field uses Montgomery
	// reduction.
	Prime string

	P, A, B string
	N, H    string
	Gx, Gy  string

	// Endomorphism requests the GLV endomorphism.  Beta, Lambda and Basis
	// supply its parameters; any left empty are derived.
	Endomorphism bool
	Beta         string
	Lambda       string
	Basis        [][2]string
}

// Short is a short Weierstrass curve.
type Short struct {
	base

	a, b   *bn.Int
	zeroA  bool
	threeA bool

	endo *endomorphism
	g    *Point
}

var _ Curve = (*Short)(nil)

// NewShort builds a short Weierstrass curve from cfg.  The generator must
// lie on the curve.
func NewShort(cfg ShortConfig) (*Short, error) {
	b, err := newBase(cfg.Name, cfg.Prime, cfg.P, cfg.N, cfg.H)
	if err != nil {
		return nil, err
	}
	c := &Short{base: b}

	a, err := parseHex("a", cfg.A)
	if err != nil {
		return nil, err
	}
	bb, err := parseHex("b", cfg.B)
	if err != nil {
		return nil, err
	}
	c.a = c.toField(a)
	c.b = c.toField(bb)

	plainA := c.a.FromRed()
	c.zeroA = plainA.IsZero()
	c.threeA = plainA.Sub(c.p).EqN(-3)

	gx, err := parseHex("gx", cfg.Gx)
	if err != nil {
		return nil, err
	}
	gy, err := parseHex("gy", cfg.Gy)
	if err != nil {
		return nil, err
	}
	c.g, err = c.NewPoint(gx, gy)
	if err != nil {
		return nil, Error{Err: ErrInvalidCurve,
			Description: fmt.Sprintf("generator: %v", err)}
	}

	if cfg.Endomorphism || cfg.Beta != "" {
		c.endo, err = c.newEndomorphism(cfg)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Family returns FamilyShort.
func (c *Short) Family() Family { return FamilyShort }

// A returns the a coefficient.
func (c *Short) A() *bn.Int { return c.a.FromRed() }

// B returns the b coefficient.
func (c *Short) B() *bn.Int { return c.b.FromRed() }

// G returns the base point.
func (c *Short) G() *Point { return c.g }

// HasEndomorphism reports whether scalar multiplication uses GLV.
func (c *Short) HasEndomorphism() bool { return c.endo != nil }

// Infinity returns the point at infinity.
func (c *Short) Infinity() *Point {
	return &Point{curve: c, x: c.zero, y: c.zero, inf: true}
}

// JInfinity returns the point at infinity in Jacobian form.
func (c *Short) JInfinity() *JPoint {
	return &JPoint{curve: c, x: c.one, y: c.one, z: c.zero}
}

func (c *Short) point(x, y *bn.Int) *Point {
	return &Point{curve: c, x: x, y: y}
}

func (c *Short) jpoint(x, y, z *bn.Int) *JPoint {
	return &JPoint{curve: c, x: x, y: y, z: z, zOne: z.Eq(c.one)}
}

// checkCoordinate rejects values outside [0, p).
func (c *Short) checkCoordinate(v *bn.Int) error {
	if v.IsNeg() || v.Cmp(c.p) >= 0 {
		return makeError(ErrCoordinateTooBig, "coordinate is not below the field prime")
	}
	return nil
}

// NewPoint returns the point (x, y), which must be on the curve.
func (c *Short) NewPoint(x, y *bn.Int) (*Point, error) {
	if err := c.checkCoordinate(x); err != nil {
		return nil, err
	}
	if err := c.checkCoordinate(y); err != nil {
		return nil, err
	}
	p := c.point(x.ToRed(c.red), y.ToRed(c.red))
	if !c.Validate(p) {
		return nil, makeError(ErrPointNotOnCurve, "point is not on the curve")
	}
	return p, nil
}

// rhs returns x^3 + ax + b.
func (c *Short) rhs(x *bn.Int) *bn.Int {
	r := x.RedSqr().RedMul(x).RedAdd(c.b)
	if !c.zeroA {
		r = r.RedAdd(c.a.RedMul(x))
	}
	return r
}

// PointFromX returns the point with the given x coordinate whose y has the
// requested parity.
func (c *Short) PointFromX(x *bn.Int, odd bool) (*Point, error) {
	if err := c.checkCoordinate(x); err != nil {
		return nil, err
	}
	xr := x.ToRed(c.red)
	y, err := c.rhs(xr).RedSqrt()
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
	return c.point(xr, y), nil
}

// Validate reports whether p satisfies the curve equation.  The point at
// infinity is valid.
func (c *Short) Validate(p *Point) bool {
	if p.inf {
		return true
	}
	return p.y.RedSqr().Eq(c.rhs(p.x))
}

// DecodePoint parses a SEC1 encoded point: 0x02/0x03 compressed,
// 0x04 uncompressed, 0x06/0x07 hybrid, or the single byte 0x00 for the
// point at infinity.
func (c *Short) DecodePoint(b []byte) (*Point, error) {
	n := c.byteLen
	switch {
	case len(b) == 1 && b[0] == 0x00:
		return c.Infinity(), nil

	case len(b) == 1+2*n && (b[0] == 0x04 || b[0] == 0x06 || b[0] == 0x07):
		odd := b[len(b)-1]&1 == 1
		if b[0] == 0x06 && odd || b[0] == 0x07 && !odd {
			return nil, makeError(ErrHybridParity, "hybrid prefix does not match y parity")
		}
		x := bn.FromBytes(b[1:1+n], bn.BigEndian)
		y := bn.FromBytes(b[1+n:], bn.BigEndian)
		return c.NewPoint(x, y)

	case len(b) == 1+n && (b[0] == 0x02 || b[0] == 0x03):
		x := bn.FromBytes(b[1:], bn.BigEndian)
		return c.PointFromX(x, b[0] == 0x03)
	}

	var prefix byte
	if len(b) > 0 {
		prefix = b[0]
	}
	return nil, makeError(ErrUnknownPointFormat,
		fmt.Sprintf("unknown point format: prefix 0x%02x, length %d", prefix, len(b)))
}

// Point is an affine point on a short Weierstrass curve.  Points are
// immutable.
type Point struct {
	curve *Short
	x, y  *bn.Int
	inf   bool
	pre   *precomputed
}

// Curve returns the curve p lies on.
func (p *Point) Curve() *Short { return p.curve }

// IsInfinity reports whether p is the point at infinity.
func (p *Point) IsInfinity() bool { return p.inf }

// X returns the affine x coordinate, or zero for the point at infinity.
func (p *Point) X() *bn.Int { return p.x.FromRed() }

// Y returns the affine y coordinate, or zero for the point at infinity.
func (p *Point) Y() *bn.Int { return p.y.FromRed() }

// Eq reports whether p and q are the same point.
func (p *Point) Eq(q *Point) bool {
	if p == q {
		return true
	}
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.x.Eq(q.x) && p.y.Eq(q.y)
}

// Neg returns -p.  Precomputed tables follow the point.
func (p *Point) Neg() *Point {
	if p.inf {
		return p
	}
	res := p.curve.point(p.x, p.y.RedNeg())
	if p.pre != nil {
		res.pre = mapPrecomputed(p.pre, func(e groupElement) groupElement {
			return e.negate()
		})
		if p.pre.beta != nil {
			res.pre.beta = p.pre.beta.negate()
		}
	}
	return res
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	switch {
	case p.inf:
		return q
	case q.inf:
		return p
	case p.Eq(q):
		return p.Dbl()
	case p.x.Eq(q.x):
		// Same x, different y: q == -p.
		return p.curve.Infinity()
	}

	c := p.y.RedSub(q.y)
	if !c.IsZero() {
		c = c.RedMul(mustInv(p.x.RedSub(q.x)))
	}
	nx := c.RedSqr().RedSub(p.x).RedSub(q.x)
	ny := c.RedMul(p.x.RedSub(nx)).RedSub(p.y)
	return p.curve.point(nx, ny)
}

// Dbl returns 2p.
func (p *Point) Dbl() *Point {
	if p.inf {
		return p
	}
	ys1 := p.y.RedAdd(p.y)
	if ys1.IsZero() {
		return p.curve.Infinity()
	}

	x2 := p.x.RedSqr()
	c := x2.RedAdd(x2).RedAdd(x2).RedAdd(p.curve.a).RedMul(mustInv(ys1))
	nx := c.RedSqr().RedSub(p.x.RedAdd(p.x))
	ny := c.RedMul(p.x.RedSub(nx)).RedSub(p.y)
	return p.curve.point(nx, ny)
}

// ToJ returns p in Jacobian form.
func (p *Point) ToJ() *JPoint {
	if p.inf {
		return p.curve.JInfinity()
	}
	return &JPoint{curve: p.curve, x: p.x, y: p.y, z: p.curve.one, zOne: true}
}

// Mul returns k*p.  A negative k multiplies -p by |k|.
func (p *Point) Mul(k *bn.Int) *Point {
	if k.IsNeg() {
		return p.Neg().Mul(k.Neg())
	}
	if p.inf {
		return p
	}
	c := p.curve
	switch {
	case hasDoubles(p, k):
		return c.fixedNafMul(p, c.JInfinity(), k).(*JPoint).ToP()
	case c.endo != nil:
		return c.endoWnafMulAdd([]*Point{p}, []*bn.Int{k}).ToP()
	default:
		return c.wnafMul(p, c.JInfinity(), k).(*JPoint).ToP()
	}
}

// MulAdd returns k1*p + k2*p2.
func (p *Point) MulAdd(k1 *bn.Int, p2 *Point, k2 *bn.Int) *Point {
	return p.JMulAdd(k1, p2, k2).ToP()
}

// JMulAdd returns k1*p + k2*p2 in Jacobian form.
func (p *Point) JMulAdd(k1 *bn.Int, p2 *Point, k2 *bn.Int) *JPoint {
	points := []*Point{p, p2}
	coeffs := []*bn.Int{k1, k2}
	for i, k := range coeffs {
		if k.IsNeg() {
			points[i] = points[i].Neg()
			coeffs[i] = k.Neg()
		}
	}

	c := p.curve
	if c.endo != nil {
		return c.endoWnafMulAdd(points, coeffs)
	}
	elems := []groupElement{points[0], points[1]}
	return c.wnafMulAdd(1, elems, coeffs, c.JInfinity()).(*JPoint)
}

// Precompute returns a copy of p carrying tables for fixed base
// multiplication of scalars up to power bits.  The tables are never
// modified, so the result may be shared between goroutines.
func (p *Point) Precompute(power int) *Point {
	if p.inf {
		return p
	}
	c := p.curve
	bare := c.point(p.x, p.y)
	pre := &precomputed{
		naf: &nafTable{wnd: precomputeNAFWindow,
			points: oddMultiples(bare, precomputeNAFWindow)},
		doubles: doublesOf(bare, precomputeDoubleStep, power),
	}
	if c.endo != nil {
		beta := c.endoMap(bare)
		beta.pre = mapPrecomputed(pre, func(e groupElement) groupElement {
			return c.endoMap(e.(*Point))
		})
		pre.beta = beta
	}
	return &Point{curve: c, x: p.x, y: p.y, pre: pre}
}

// Encode returns the SEC1 encoding of p, compressed when compact is set.
// The point at infinity encodes as the single byte 0x00.
func (p *Point) Encode(compact bool) []byte {
	if p.inf {
		return []byte{0x00}
	}
	n := p.curve.byteLen
	x := p.X()
	if compact {
		out := make([]byte, 1+n)
		out[0] = 0x02
		if p.y.FromRed().IsOdd() {
			out[0] = 0x03
		}
		fill(out[1:], x)
		return out
	}
	out := make([]byte, 1+2*n)
	out[0] = 0x04
	fill(out[1:1+n], x)
	fill(out[1+n:], p.Y())
	return out
}

// fill writes v big endian into dst, which is large enough by
// construction.
func fill(dst []byte, v *bn.Int) {
	b, err := v.FillBytes(len(dst))
	if err != nil {
		panic("curve: coordinate does not fit its encoding")
	}
	copy(dst, b)
}

// String returns a human-readable form of p.
func (p *Point) String() string {
	if p.inf {
		return "<EC Point Infinity>"
	}
	return fmt.Sprintf("<EC Point x: %s y: %s>", p.X().Hex(), p.Y().Hex())
}

// groupElement methods.

func (p *Point) negate() groupElement       { return p.Neg() }
func (p *Point) double() groupElement       { return p.Dbl() }
func (p *Point) toAcc() groupElement        { return p.ToJ() }
func (p *Point) tables() *precomputed       { return p.pre }
func (p *Point) doubleN(k int) groupElement { return p.ToJ().DblP(k) }

func (p *Point) addTo(q groupElement) groupElement {
	switch o := q.(type) {
	case *Point:
		return p.Add(o)
	case *JPoint:
		return o.MixedAdd(p)
	}
	panic("curve: mixed curve families")
}

func (p *Point) combine(q groupElement) [4]groupElement {
	o := q.(*Point)
	var c [4]groupElement
	c[0], c[3] = p, o
	switch {
	case p.y.Eq(o.y):
		c[1] = p.Add(o)
		c[2] = p.ToJ().MixedAdd(o.Neg())
	case p.y.Eq(o.y.RedNeg()):
		c[1] = p.ToJ().MixedAdd(o)
		c[2] = p.Add(o.Neg())
	default:
		c[1] = p.ToJ().MixedAdd(o)
		c[2] = p.ToJ().MixedAdd(o.Neg())
	}
	return c
}
