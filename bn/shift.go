package bn

// Shifts and bit operations act on the magnitude and keep the sign.

// IShln sets z = z << n.
func (z *Int) IShln(n uint) *Int {
	r := n % wordBits
	s := int(n / wordBits)
	if r != 0 {
		var carry uint32
		for i, w := range z.words {
			next := w >> (wordBits - r)
			z.words[i] = (w<<r)&wordMask | carry
			carry = next
		}
		if carry != 0 {
			z.words = append(z.words, carry)
		}
	}
	if s != 0 && !z.IsZero() {
		w := make([]uint32, s, s+len(z.words))
		z.words = append(w, z.words...)
	}
	return z.strip()
}

// IShrn sets z = z >> n.
func (z *Int) IShrn(n uint) *Int {
	s := int(n / wordBits)
	r := n % wordBits
	if s >= len(z.words) {
		return z.setZero()
	}
	if s != 0 {
		z.words = append(z.words[:0], z.words[s:]...)
	}
	if r != 0 {
		last := len(z.words) - 1
		for i := 0; i < last; i++ {
			z.words[i] = z.words[i]>>r | (z.words[i+1]<<(wordBits-r))&wordMask
		}
		z.words[last] >>= r
	}
	return z.strip()
}

// Shln returns x << n.
func (x *Int) Shln(n uint) *Int {
	z := x.Clone()
	z.red = nil
	return z.IShln(n)
}

// Shrn returns x >> n.
func (x *Int) Shrn(n uint) *Int {
	z := x.Clone()
	z.red = nil
	return z.IShrn(n)
}

// TestBit reports whether bit n of the magnitude of x is set.
func (x *Int) TestBit(n int) bool {
	s := n / wordBits
	if s >= len(x.words) {
		return false
	}
	return x.words[s]>>(uint(n)%wordBits)&1 == 1
}

// SetBit sets bit n of the magnitude of z to v.
func (z *Int) SetBit(n int, v bool) *Int {
	s := n / wordBits
	z.expand(s + 1)
	if v {
		z.words[s] |= 1 << (uint(n) % wordBits)
	} else {
		z.words[s] &^= 1 << (uint(n) % wordBits)
	}
	return z.strip()
}

// Andln returns the low bits of the magnitude of x masked by m, for
// m < 2^26.
func (x *Int) Andln(m int) int {
	return int(x.words[0]) & m
}

// IMaskn keeps the low n bits of the magnitude of z.
func (z *Int) IMaskn(n uint) *Int {
	r := n % wordBits
	s := int(n / wordBits)
	if len(z.words) <= s {
		return z
	}
	if r != 0 {
		s++
	}
	if s == 0 {
		return z.setZero()
	}
	z.words = z.words[:min(s, len(z.words))]
	if r != 0 {
		z.words[len(z.words)-1] &= wordMask >> (wordBits - r)
	}
	return z.strip()
}

// Maskn returns the low n bits of the magnitude of x.
func (x *Int) Maskn(n uint) *Int {
	z := x.Clone()
	z.red = nil
	return z.IMaskn(n)
}

// BIncn adds 2^n to z.
func (z *Int) BIncn(n uint) *Int {
	return z.IAdd(New(1).IShln(n))
}

// INotN flips the low width bits of the magnitude of z and drops the rest.
func (z *Int) INotN(width int) *Int {
	s := (width + wordBits - 1) / wordBits
	z.expand(s)
	z.words = z.words[:max(s, 1)]
	for i := 0; i < s; i++ {
		z.words[i] = ^z.words[i] & wordMask
	}
	if r := width % wordBits; r != 0 {
		z.words[s-1] &= wordMask >> (wordBits - r)
	}
	return z.strip()
}

// NotN returns the low width bits of the magnitude of x flipped.
func (x *Int) NotN(width int) *Int {
	z := x.Clone()
	z.red = nil
	return z.INotN(width)
}

// ToTwos returns the two's complement encoding of x in width bits.
func (x *Int) ToTwos(width int) *Int {
	if x.negative {
		return x.Abs().INotN(width).IAddN(1)
	}
	return x.Clone()
}

// FromTwos interprets the low width bits of x as a two's complement value.
func (x *Int) FromTwos(width int) *Int {
	if x.TestBit(width - 1) {
		return x.NotN(width).IAddN(1).INeg()
	}
	return x.Clone()
}
