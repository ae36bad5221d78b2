package bn

import "math/bits"

// DivMod returns the truncated quotient and remainder of x / y, so the
// remainder takes the sign of x.  When positive is set a negative remainder
// is shifted by |y| into [0, |y|).
func (x *Int) DivMod(y *Int, positive bool) (*Int, *Int, error) {
	if y.IsZero() {
		return nil, nil, makeError(ErrDivisionByZero, "division by zero")
	}
	q, r := x.divmod(y)
	if positive && r.negative {
		if y.negative {
			r.ISub(y)
		} else {
			r.IAdd(y)
		}
	}
	return q, r, nil
}

// divmod divides magnitudes and fixes the signs up afterwards.  y must be
// nonzero.
func (x *Int) divmod(y *Int) (*Int, *Int) {
	if x.IsZero() {
		return New(0), New(0)
	}
	var q, r *Int
	switch {
	case x.Ucmp(y) < 0:
		q, r = New(0), x.Abs()
	case len(y.words) == 1:
		q = x.Abs()
		rem := q.idivn(y.words[0])
		r = NewUint64(uint64(rem))
	default:
		q, r = wordDiv(x, y)
	}
	q.red, r.red = nil, nil
	if x.negative != y.negative {
		q.INeg()
	}
	if x.negative {
		r.INeg()
	}
	return q, r
}

func (x *Int) mustDivMod(y *Int) (*Int, *Int) {
	if y.IsZero() {
		panic("bn: division by zero")
	}
	return x.divmod(y)
}

// Div returns the quotient x / y truncated towards zero.  It panics if y is
// zero; DivMod reports that case as an error instead.
func (x *Int) Div(y *Int) *Int {
	q, _ := x.mustDivMod(y)
	return q
}

// Mod returns the remainder of x / y, which has the sign of x.  It panics
// if y is zero.
func (x *Int) Mod(y *Int) *Int {
	_, r := x.mustDivMod(y)
	return r
}

// UMod returns the remainder of x / y reduced into [0, |y|).  It panics if y
// is zero.
func (x *Int) UMod(y *Int) *Int {
	_, r := x.mustDivMod(y)
	if r.negative {
		r.negative = false
		r = y.Abs().ISub(r)
	}
	return r
}

// DivRound returns x / y rounded to the nearest integer, with halves
// rounded away from zero.  It panics if y is zero.
func (x *Int) DivRound(y *Int) *Int {
	q, r := x.mustDivMod(y)
	if r.IsZero() {
		return q
	}
	// Compare 2|r| with |y| to decide whether to round the magnitude up.
	twice := r.Abs().IShln(1)
	if twice.Ucmp(y) < 0 {
		return q
	}
	if x.negative != y.negative {
		return q.ISubN(1)
	}
	return q.IAddN(1)
}

// IDivN sets z = z / n truncated towards zero, for a nonzero n with
// |n| < 2^32.
func (z *Int) IDivN(n int) *Int {
	neg := n < 0
	m := n
	if neg {
		m = -n
	}
	if m == 0 || uint64(m) > 0xffffffff {
		panic("bn: divisor out of range")
	}
	z.idivn(uint32(m))
	if neg {
		z.INeg()
	}
	return z
}

// DivN returns x / n truncated towards zero.
func (x *Int) DivN(n int) *Int {
	z := x.Clone()
	z.red = nil
	return z.IDivN(n)
}

// idivn divides the magnitude of z by n in place and returns the remainder
// of the magnitude.
func (z *Int) idivn(n uint32) uint32 {
	var carry uint64
	for i := len(z.words) - 1; i >= 0; i-- {
		w := uint64(z.words[i]) + carry<<wordBits
		z.words[i] = uint32(w / uint64(n))
		carry = w % uint64(n)
	}
	z.strip()
	return uint32(carry)
}

// ModN returns the magnitude of x modulo n, for 0 < n < 2^32.
func (x *Int) ModN(n int) int {
	if n <= 0 || uint64(n) > 0xffffffff {
		panic("bn: modulus out of range")
	}
	m := uint64(n)
	var acc uint64
	for i := len(x.words) - 1; i >= 0; i-- {
		acc = (acc<<wordBits + uint64(x.words[i])) % m
	}
	return int(acc)
}

// wordDiv divides the magnitude of a by the magnitude of b, which has at
// least two limbs, using Knuth's algorithm D.  The divisor is normalized so
// its top limb has the high bit set, which bounds the error of every
// quotient estimate to two.
func wordDiv(a, b *Int) (*Int, *Int) {
	shift := uint(wordBits - bits.Len32(b.words[len(b.words)-1]))
	v := b.Abs()
	v.red = nil
	v.IShln(shift)
	u := a.Abs()
	u.red = nil
	u.IShln(shift)
	u.words = append(u.words, 0)

	n := len(v.words)
	m := len(u.words) - n - 1
	vw, uw := v.words, u.words
	vtop := uint64(vw[n-1])
	vnext := uint64(vw[n-2])

	q := make([]uint32, m+1)
	for j := m; j >= 0; j-- {
		num := uint64(uw[j+n])<<wordBits | uint64(uw[j+n-1])
		qhat := num / vtop
		rhat := num % vtop
		for qhat > wordMask || qhat*vnext > (rhat<<wordBits|uint64(uw[j+n-2])) {
			qhat--
			rhat += vtop
			if rhat > wordMask {
				break
			}
		}

		// Multiply and subtract.
		var borrow int64
		var carry uint64
		for i := 0; i < n; i++ {
			p := qhat*uint64(vw[i]) + carry
			carry = p >> wordBits
			t := int64(uw[i+j]) - int64(p&wordMask) + borrow
			uw[i+j] = uint32(t & wordMask)
			borrow = t >> wordBits
		}
		t := int64(uw[j+n]) - int64(carry) + borrow
		uw[j+n] = uint32(t & wordMask)

		// The estimate was one too large, add the divisor back.
		if t < 0 {
			qhat--
			var c uint32
			for i := 0; i < n; i++ {
				s := uw[i+j] + vw[i] + c
				uw[i+j] = s & wordMask
				c = s >> wordBits
			}
			uw[j+n] = (uw[j+n] + c) & wordMask
		}
		q[j] = uint32(qhat)
	}

	quo := &Int{words: q}
	quo.strip()
	rem := &Int{words: uw[:n]}
	rem.strip()
	rem.IShrn(shift)
	return quo, rem
}
