package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// endomorphism is the GLV map (x, y) -> (beta*x, y), which acts on the
// group as multiplication by lambda.
type endomorphism struct {
	beta   *bn.Int
	lambda *bn.Int
	basis  [2]basisVector
}

// basisVector is a short vector (a, b) with a + b*lambda == 0 mod n.
type basisVector struct {
	a, b *bn.Int
}

// newEndomorphism loads or derives the endomorphism parameters.  It needs
// a == 0 and p == 1 mod 3, and the generator must already be set.
func (c *Short) newEndomorphism(cfg ShortConfig) (*endomorphism, error) {
	if !c.zeroA || c.p.ModN(3) != 1 {
		return nil, makeError(ErrNoEndomorphism,
			"endomorphism needs a == 0 and p == 1 mod 3")
	}

	e := &endomorphism{}
	if cfg.Beta != "" {
		beta, err := parseHex("beta", cfg.Beta)
		if err != nil {
			return nil, err
		}
		e.beta = c.toField(beta)
	} else {
		roots, err := endoRoots(c.p, c.red)
		if err != nil {
			return nil, err
		}
		e.beta = bn.Min(roots[0], roots[1]).ToRed(c.red)
	}

	gxBeta := c.g.x.RedMul(e.beta)
	if cfg.Lambda != "" {
		lambda, err := parseHex("lambda", cfg.Lambda)
		if err != nil {
			return nil, err
		}
		e.lambda = lambda
	} else {
		redN, err := bn.NewMontRed(c.n)
		if err != nil {
			return nil, Error{Err: ErrNoEndomorphism, Description: err.Error()}
		}
		lambdas, err := endoRoots(c.n, redN)
		if err != nil {
			return nil, err
		}
		e.lambda = lambdas[1]
		if c.g.Mul(lambdas[0]).x.Eq(gxBeta) {
			e.lambda = lambdas[0]
		}
	}
	if !c.g.Mul(e.lambda).x.Eq(gxBeta) {
		return nil, makeError(ErrNoEndomorphism, "lambda does not match beta")
	}

	if len(cfg.Basis) > 0 {
		if len(cfg.Basis) != 2 {
			return nil, makeError(ErrInvalidCurve, "basis needs exactly two vectors")
		}
		for i, vec := range cfg.Basis {
			a, err := parseHex(fmt.Sprintf("basis[%d].a", i), vec[0])
			if err != nil {
				return nil, err
			}
			b, err := parseHex(fmt.Sprintf("basis[%d].b", i), vec[1])
			if err != nil {
				return nil, err
			}
			e.basis[i] = basisVector{a: a, b: b}
		}
	} else {
		basis, err := c.endoBasis(e.lambda)
		if err != nil {
			return nil, err
		}
		e.basis = basis
	}
	return e, nil
}

// endoRoots returns the two nontrivial cube roots of unity modulo num,
// (-1 +- sqrt(-3)) / 2, using the reduction context red for num.
func endoRoots(num *bn.Int, red *bn.Red) ([2]*bn.Int, error) {
	tinv, err := bn.New(2).ToRed(red).RedInvm()
	if err != nil {
		return [2]*bn.Int{}, Error{Err: ErrNoEndomorphism, Description: err.Error()}
	}
	ntinv := tinv.RedNeg()
	s, err := bn.New(3).ToRed(red).RedNeg().RedSqrt()
	if err != nil {
		return [2]*bn.Int{}, Error{Err: ErrNoEndomorphism,
			Description: fmt.Sprintf("-3 has no square root modulo %s", num.Hex())}
	}
	s = s.RedMul(tinv)
	return [2]*bn.Int{ntinv.RedAdd(s).FromRed(), ntinv.RedSub(s).FromRed()}, nil
}

// endoBasis finds two short vectors of the lattice {(a, b) : a + b*lambda
// == 0 mod n} with the extended Euclidean algorithm, stopping once the
// remainders drop below sqrt(n).
func (c *Short) endoBasis(lambda *bn.Int) ([2]basisVector, error) {
	aprxSqrt := c.n.Shrn(uint(c.n.BitLen() / 2))

	u := lambda.Clone()
	v := c.n.Clone()
	x1, y1 := bn.New(1), bn.New(0)
	x2, y2 := bn.New(0), bn.New(1)

	var a0, b0, a1, b1, a2, b2 *bn.Int
	var prevR, r, x *bn.Int
	i := 0
	for !u.IsZero() {
		q := v.Div(u)
		r = v.Sub(q.Mul(u))
		x = x2.Sub(q.Mul(x1))
		y := y2.Sub(q.Mul(y1))

		if a1 == nil && r.Cmp(aprxSqrt) < 0 {
			if prevR == nil {
				return [2]basisVector{}, makeError(ErrNoEndomorphism,
					"lambda is too small to derive a basis")
			}
			a0, b0 = prevR.Neg(), x1
			a1, b1 = r.Neg(), x
		} else if a1 != nil {
			i++
			if i == 2 {
				break
			}
		}
		prevR = r

		v, u = u, r
		x2, x1 = x1, x
		y2, y1 = y1, y
	}
	if a1 == nil {
		return [2]basisVector{}, makeError(ErrNoEndomorphism, "no short basis found")
	}
	a2, b2 = r.Neg(), x

	len1 := a1.Sqr().Add(b1.Sqr())
	len2 := a2.Sqr().Add(b2.Sqr())
	if len2.Cmp(len1) >= 0 {
		a2, b2 = a0, b0
	}

	if a1.IsNeg() {
		a1, b1 = a1.Neg(), b1.Neg()
	}
	if a2.IsNeg() {
		a2, b2 = a2.Neg(), b2.Neg()
	}
	return [2]basisVector{{a: a1, b: b1}, {a: a2, b: b2}}, nil
}

// endoSplit writes k as k1 + k2*lambda mod n with k1 and k2 of about half
// the bit length of n.  Either part may be negative.
func (c *Short) endoSplit(k *bn.Int) (k1, k2 *bn.Int) {
	v1 := c.endo.basis[0]
	v2 := c.endo.basis[1]

	c1 := v2.b.Mul(k).DivRound(c.n)
	c2 := v1.b.Neg().Mul(k).DivRound(c.n)

	p1 := c1.Mul(v1.a)
	p2 := c2.Mul(v2.a)
	q1 := c1.Mul(v1.b)
	q2 := c2.Mul(v2.b)

	k1 = k.Sub(p1).Sub(p2)
	k2 = q1.Add(q2).Neg()
	return k1, k2
}

// endoMap applies (x, y) -> (beta*x, y).
func (c *Short) endoMap(p *Point) *Point {
	if p.inf {
		return p
	}
	return c.point(p.x.RedMul(c.endo.beta), p.y)
}

// beta returns the image of p under the endomorphism, with tables when p
// was precomputed.
func (p *Point) beta() *Point {
	if p.pre != nil && p.pre.beta != nil {
		return p.pre.beta.(*Point)
	}
	return p.curve.endoMap(p)
}

// endoWnafMulAdd computes sum coeffs[i]*points[i] by splitting every
// coefficient in two and running the halves through the joint ladder.
func (c *Short) endoWnafMulAdd(points []*Point, coeffs []*bn.Int) *JPoint {
	npoints := make([]groupElement, 0, 2*len(points))
	ncoeffs := make([]*bn.Int, 0, 2*len(points))
	for i, p := range points {
		k1, k2 := c.endoSplit(coeffs[i])
		beta := p.beta()
		if k1.IsNeg() {
			k1.INeg()
			p = p.Neg()
		}
		if k2.IsNeg() {
			k2.INeg()
			beta = beta.Neg()
		}
		npoints = append(npoints, p, beta)
		ncoeffs = append(ncoeffs, k1, k2)
	}
	return c.wnafMulAdd(1, npoints, ncoeffs, c.JInfinity()).(*JPoint)
}
