package bn

// ToRed converts x into the reduction context ctx.
func (x *Int) ToRed(ctx *Red) *Int {
	if x.red != nil {
		panic("bn: value is already in a reduction context")
	}
	return ctx.ConvertTo(x)
}

// FromRed converts x out of its reduction context.
func (x *Int) FromRed() *Int {
	return x.ctx().ConvertFrom(x)
}

// ForceRed tags x with ctx without converting it.  x must already be the
// context's representation of a value.
func (x *Int) ForceRed(ctx *Red) *Int {
	if x.red != nil {
		panic("bn: value is already in a reduction context")
	}
	x.red = ctx
	return x
}

func (x *Int) ctx() *Red {
	if x.red == nil {
		panic("bn: value is not in a reduction context")
	}
	return x.red
}

// RedAdd returns x + y in the reduction context of x.
func (x *Int) RedAdd(y *Int) *Int { return x.ctx().Add(x, y) }

// RedIAdd sets x = x + y.
func (x *Int) RedIAdd(y *Int) *Int { return x.ctx().IAdd(x, y) }

// RedSub returns x - y.
func (x *Int) RedSub(y *Int) *Int { return x.ctx().Sub(x, y) }

// RedISub sets x = x - y.
func (x *Int) RedISub(y *Int) *Int { return x.ctx().ISub(x, y) }

// RedShl returns x * 2^n.
func (x *Int) RedShl(n uint) *Int { return x.ctx().Shl(x, n) }

// RedMul returns x * y.
func (x *Int) RedMul(y *Int) *Int { return x.ctx().Mul(x, y) }

// RedIMul sets x = x * y.
func (x *Int) RedIMul(y *Int) *Int { return x.ctx().IMul(x, y) }

// RedSqr returns x * x.
func (x *Int) RedSqr() *Int { return x.ctx().Sqr(x) }

// RedISqr sets x = x * x.
func (x *Int) RedISqr() *Int { return x.ctx().ISqr(x) }

// RedNeg returns -x.
func (x *Int) RedNeg() *Int { return x.ctx().Neg(x) }

// RedPow returns x^e.
func (x *Int) RedPow(e *Int) *Int { return x.ctx().Pow(x, e) }

// RedSqrt returns a square root of x.
func (x *Int) RedSqrt() (*Int, error) { return x.ctx().Sqrt(x) }

// RedInvm returns the inverse of x.
func (x *Int) RedInvm() (*Int, error) { return x.ctx().Invm(x) }
