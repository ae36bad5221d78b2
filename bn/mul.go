package bn

// Multiplication is tiered by operand size.  Two ten limb operands (the
// 256-bit case) go through the unrolled comb, short products through the
// column-wise schoolbook loop, medium ones through the row-wise loop and
// anything with a thousand or more limbs through the FFT.
const (
	smallMulLimit = 63
	bigMulLimit   = 1024
)

// MulTo sets out = x * y and returns out.  out must not alias x or y.
func (x *Int) MulTo(y, out *Int) *Int {
	n := len(x.words) + len(y.words)
	switch {
	case len(x.words) == 10 && len(y.words) == 10:
		comb10MulTo(x, y, out)
	case n < smallMulLimit:
		smallMulTo(x, y, out)
	case n < bigMulLimit:
		bigMulTo(x, y, out)
	default:
		jumboMulTo(x, y, out)
	}
	return out
}

// Mul returns x * y.
func (x *Int) Mul(y *Int) *Int {
	return x.MulTo(y, new(Int))
}

// MulF returns x * y computed with the FFT regardless of operand size.
func (x *Int) MulF(y *Int) *Int {
	out := new(Int)
	jumboMulTo(x, y, out)
	return out
}

// IMul sets z = z * x.
func (z *Int) IMul(x *Int) *Int {
	red := z.red
	z.Clone().MulTo(x, z)
	z.red = red
	return z
}

// Sqr returns x * x.
func (x *Int) Sqr() *Int {
	return x.Mul(x)
}

// ISqr sets z = z * z.
func (z *Int) ISqr() *Int {
	return z.IMul(z)
}

// IMulN sets z = z * n.
func (z *Int) IMulN(n int) *Int {
	neg := n < 0
	m := n
	if neg {
		m = -n
	}
	if m > wordMask {
		return z.IMul(New(int64(n)))
	}
	var carry uint64
	for i, w := range z.words {
		t := uint64(w)*uint64(m) + carry
		z.words[i] = uint32(t & wordMask)
		carry = t >> wordBits
	}
	if carry != 0 {
		z.words = append(z.words, uint32(carry))
	}
	if neg {
		z.negative = !z.negative
	}
	return z.strip()
}

// MulN returns x * n.
func (x *Int) MulN(n int) *Int {
	z := x.Clone()
	z.red = nil
	return z.IMulN(n)
}

// Pow returns x**e for a non-negative exponent e.
func (x *Int) Pow(e *Int) *Int {
	res := New(1)
	for i := e.BitLen() - 1; i >= 0; i-- {
		res = res.Sqr()
		if e.TestBit(i) {
			res = res.Mul(x)
		}
	}
	return res
}

// smallMulTo is the column-wise schoolbook product.  Each output limb sums
// every partial product of its column before carrying, which stays inside
// 64 bits for fewer than 63 limbs in total.
func smallMulTo(x, y, out *Int) {
	a, b := x.words, y.words
	n := len(a) + len(b)
	w := make([]uint32, n)
	var carry uint64
	for k := 0; k < n-1; k++ {
		ncarry := carry >> wordBits
		rword := carry & wordMask
		maxJ := min(k, len(b)-1)
		for j := max(0, k-len(a)+1); j <= maxJ; j++ {
			r := uint64(a[k-j])*uint64(b[j]) + rword
			ncarry += r >> wordBits
			rword = r & wordMask
		}
		w[k] = uint32(rword)
		carry = ncarry
	}
	w[n-1] = uint32(carry)
	out.words = w
	out.negative = x.negative != y.negative
	out.red = nil
	out.strip()
}

// bigMulTo is the row-wise schoolbook product used for medium operands.
func bigMulTo(x, y, out *Int) {
	a, b := x.words, y.words
	w := make([]uint32, len(a)+len(b))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			t := uint64(w[i+j]) + uint64(ai)*uint64(bj) + carry
			w[i+j] = uint32(t & wordMask)
			carry = t >> wordBits
		}
		for k := i + len(b); carry != 0; k++ {
			t := uint64(w[k]) + carry
			w[k] = uint32(t & wordMask)
			carry = t >> wordBits
		}
	}
	out.words = w
	out.negative = x.negative != y.negative
	out.red = nil
	out.strip()
}
