package bn

// Gcd returns the greatest common divisor of |x| and |y| using the binary
// algorithm.
func (x *Int) Gcd(y *Int) *Int {
	if x.IsZero() {
		return y.Abs()
	}
	if y.IsZero() {
		return x.Abs()
	}
	a, b := x.Abs(), y.Abs()
	a.red, b.red = nil, nil

	shift := uint(0)
	for a.IsEven() && b.IsEven() {
		a.IShrn(1)
		b.IShrn(1)
		shift++
	}
	for {
		for a.IsEven() {
			a.IShrn(1)
		}
		for b.IsEven() {
			b.IShrn(1)
		}
		r := a.Cmp(b)
		if r < 0 {
			a, b = b, a
		} else if r == 0 || b.EqN(1) {
			break
		}
		a.ISub(b)
	}
	return b.IShln(shift)
}

// EGcd runs the binary extended Euclidean algorithm (HAC 14.61) on x and
// the positive modulus p.  It returns a, b and g with a*x + b*p == g ==
// gcd(x, p), where x is first reduced into [0, p) when negative.
func (x *Int) EGcd(p *Int) (a, b, g *Int) {
	if p.negative || p.IsZero() {
		panic("bn: egcd needs a positive modulus")
	}
	var u *Int
	if x.negative {
		u = x.UMod(p)
	} else {
		u = x.Clone()
	}
	u.red = nil
	v := p.Clone()
	v.red = nil

	A, B, C, D := New(1), New(0), New(0), New(1)
	shift := uint(0)
	for u.IsEven() && v.IsEven() && !u.IsZero() {
		u.IShrn(1)
		v.IShrn(1)
		shift++
	}
	yp, xp := v.Clone(), u.Clone()

	for !u.IsZero() {
		for u.IsEven() {
			u.IShrn(1)
			if A.IsOdd() || B.IsOdd() {
				A.IAdd(yp)
				B.ISub(xp)
			}
			A.IShrn(1)
			B.IShrn(1)
		}
		for v.IsEven() {
			v.IShrn(1)
			if C.IsOdd() || D.IsOdd() {
				C.IAdd(yp)
				D.ISub(xp)
			}
			C.IShrn(1)
			D.IShrn(1)
		}
		if u.Cmp(v) >= 0 {
			u.ISub(v)
			A.ISub(C)
			B.ISub(D)
		} else {
			v.ISub(u)
			C.ISub(A)
			D.ISub(B)
		}
	}
	return C, D, v.IShln(shift)
}

// Invm returns the inverse of x modulo the positive modulus m, reduced into
// [0, m).
func (x *Int) Invm(m *Int) (*Int, error) {
	if m.negative || m.IsZero() {
		return nil, makeError(ErrInvalidModulus, "modulus must be positive")
	}
	a, _, g := x.EGcd(m)
	if !g.EqN(1) {
		return nil, makeError(ErrNotInvertible, "value shares a factor with the modulus")
	}
	return a.UMod(m), nil
}

// invmp computes the inverse of x modulo the odd positive p with the binary
// almost-inverse algorithm.  The result lies in [0, p).
func (x *Int) invmp(p *Int) (*Int, error) {
	var a *Int
	if x.negative {
		a = x.UMod(p)
	} else {
		a = x.Clone()
	}
	a.red = nil
	b := p.Clone()
	b.red = nil
	if a.IsZero() {
		return nil, makeError(ErrNotInvertible, "zero has no inverse")
	}

	x1, x2 := New(1), New(0)
	delta := b.Clone()
	for a.CmpN(1) > 0 && b.CmpN(1) > 0 {
		for a.IsEven() {
			a.IShrn(1)
			if x1.IsOdd() {
				x1.IAdd(delta)
			}
			x1.IShrn(1)
		}
		for b.IsEven() {
			b.IShrn(1)
			if x2.IsOdd() {
				x2.IAdd(delta)
			}
			x2.IShrn(1)
		}
		if a.Cmp(b) >= 0 {
			a.ISub(b)
			x1.ISub(x2)
		} else {
			b.ISub(a)
			x2.ISub(x1)
		}
	}

	var res *Int
	switch {
	case a.EqN(1):
		res = x1
	case b.EqN(1):
		res = x2
	default:
		return nil, makeError(ErrNotInvertible, "value shares a factor with the modulus")
	}
	return res.UMod(p), nil
}
