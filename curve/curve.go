// Package curve implements elliptic curve groups over prime fields in the
// three common forms: short Weierstrass, Montgomery and twisted Edwards.
//
// Field elements are bn.Int values carried in a bn.Red reduction context.
// Every curve shares the scalar multiplication engine in mul.go, which
// offers windowed NAF, a fixed base comb over precomputed doubles, and
// Shamir's trick with joint sparse form for linear combinations.  Short
// Weierstrass curves with an efficiently computable endomorphism also use
// the GLV decomposition.
package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// Family names the equation a curve is written in.
type Family int

const (
	// FamilyShort is y^2 = x^3 + ax + b.
	FamilyShort Family = iota

	// FamilyMont is by^2 = x^3 + ax^2 + x.
	FamilyMont

	// FamilyEdwards is ax^2 + y^2 = c^2(1 + dx^2y^2).
	FamilyEdwards
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyShort:
		return "short"
	case FamilyMont:
		return "mont"
	case FamilyEdwards:
		return "edwards"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Curve is the behaviour common to all curve families.
type Curve interface {
	// Name returns the curve name, or the empty string for ad hoc curves.
	Name() string

	// Family returns the equation family.
	Family() Family

	// Field returns the reduction context for field elements.
	Field() *bn.Red

	// P returns the field prime.
	P() *bn.Int

	// N returns the order of the base point.
	N() *bn.Int

	// H returns the cofactor.
	H() *bn.Int

	// ByteLen returns the byte length of a field element.
	ByteLen() int
}

// base carries the parameters every family shares.
type base struct {
	name string
	p    *bn.Int
	red  *bn.Red
	n    *bn.Int
	h    *bn.Int

	zero, one, two *bn.Int

	// Maxwell's trick compares x(R) against r + k*n in the field without
	// converting R to affine form.  It applies when p/n is small.
	redN    *bn.Int
	maxwell bool

	bitLen  int
	byteLen int
}

const maxwellAdjust = 100

func newBase(name, prime, p, n, h string) (base, error) {
	var b base
	b.name = name

	pi, err := parseHex("p", p)
	if err != nil {
		return b, err
	}
	if pi.CmpN(3) < 0 || pi.IsEven() {
		return b, makeError(ErrInvalidCurve, "field prime must be odd and greater than two")
	}
	b.p = pi

	if prime != "" {
		b.red, err = bn.NewPrimeRed(prime)
		if err != nil {
			return b, Error{Err: ErrInvalidCurve, Description: err.Error()}
		}
		if !b.red.Modulus().Eq(pi) {
			return b, makeError(ErrInvalidCurve,
				fmt.Sprintf("prime %q does not match the field modulus", prime))
		}
	} else {
		b.red, err = bn.NewMontRed(pi)
		if err != nil {
			return b, Error{Err: ErrInvalidCurve, Description: err.Error()}
		}
	}

	b.n, err = parseHex("n", n)
	if err != nil {
		return b, err
	}
	if b.n.CmpN(1) <= 0 {
		return b, makeError(ErrInvalidCurve, "group order must be greater than one")
	}
	if h == "" {
		b.h = bn.New(1)
	} else if b.h, err = parseHex("h", h); err != nil {
		return b, err
	}

	b.zero = bn.New(0).ToRed(b.red)
	b.one = bn.New(1).ToRed(b.red)
	b.two = bn.New(2).ToRed(b.red)

	if adjust := pi.Div(b.n); adjust.CmpN(maxwellAdjust) <= 0 {
		b.redN = b.n.ToRed(b.red)
		b.maxwell = true
	}

	b.bitLen = b.n.BitLen()
	b.byteLen = pi.ByteLen()
	return b, nil
}

// Name returns the curve name.
func (b *base) Name() string { return b.name }

// Field returns the reduction context for field elements.
func (b *base) Field() *bn.Red { return b.red }

// P returns a copy of the field prime.
func (b *base) P() *bn.Int { return b.p.Clone() }

// N returns a copy of the group order.
func (b *base) N() *bn.Int { return b.n.Clone() }

// H returns a copy of the cofactor.
func (b *base) H() *bn.Int { return b.h.Clone() }

// ByteLen returns the byte length of a field element.
func (b *base) ByteLen() int { return b.byteLen }

// toField converts a plain integer into the field, leaving values that are
// already in the field context untouched.
func (b *base) toField(x *bn.Int) *bn.Int {
	if x.Red() != nil {
		return x
	}
	return x.ToRed(b.red)
}

// parseHex parses a hex parameter which may carry a leading minus sign.
func parseHex(what, s string) (*bn.Int, error) {
	if s == "" {
		return nil, makeError(ErrInvalidCurve, fmt.Sprintf("missing parameter %s", what))
	}
	v, err := bn.FromString(s, 16)
	if err != nil {
		return nil, Error{Err: ErrInvalidCurve,
			Description: fmt.Sprintf("parameter %s: %v", what, err)}
	}
	return v, nil
}

// mustInv inverts a field element the caller knows is nonzero.
func mustInv(x *bn.Int) *bn.Int {
	r, err := x.RedInvm()
	if err != nil {
		panic("curve: inverse of zero field element")
	}
	return r
}
