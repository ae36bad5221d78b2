package bn

// comb10MulTo multiplies two ten limb operands with a fully unrolled
// column comb.  Every column sums at most ten 52-bit partial products plus
// the incoming carry, so no column overflows 64 bits.
func comb10MulTo(x, y, out *Int) {
	a, b := x.words, y.words
	a0, a1, a2, a3, a4 := uint64(a[0]), uint64(a[1]), uint64(a[2]), uint64(a[3]), uint64(a[4])
	a5, a6, a7, a8, a9 := uint64(a[5]), uint64(a[6]), uint64(a[7]), uint64(a[8]), uint64(a[9])
	b0, b1, b2, b3, b4 := uint64(b[0]), uint64(b[1]), uint64(b[2]), uint64(b[3]), uint64(b[4])
	b5, b6, b7, b8, b9 := uint64(b[5]), uint64(b[6]), uint64(b[7]), uint64(b[8]), uint64(b[9])
	w := make([]uint32, 20)
	var c, t uint64
	t = c + a0*b0
	w[0] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b1 + a1*b0
	w[1] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b2 + a1*b1 + a2*b0
	w[2] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b3 + a1*b2 + a2*b1 + a3*b0
	w[3] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b4 + a1*b3 + a2*b2 + a3*b1 + a4*b0
	w[4] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b5 + a1*b4 + a2*b3 + a3*b2 + a4*b1 + a5*b0
	w[5] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b6 + a1*b5 + a2*b4 + a3*b3 + a4*b2 + a5*b1 + a6*b0
	w[6] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b7 + a1*b6 + a2*b5 + a3*b4 + a4*b3 + a5*b2 + a6*b1 + a7*b0
	w[7] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b8 + a1*b7 + a2*b6 + a3*b5 + a4*b4 + a5*b3 + a6*b2 + a7*b1 + a8*b0
	w[8] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a0*b9 + a1*b8 + a2*b7 + a3*b6 + a4*b5 + a5*b4 + a6*b3 + a7*b2 + a8*b1 + a9*b0
	w[9] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a1*b9 + a2*b8 + a3*b7 + a4*b6 + a5*b5 + a6*b4 + a7*b3 + a8*b2 + a9*b1
	w[10] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a2*b9 + a3*b8 + a4*b7 + a5*b6 + a6*b5 + a7*b4 + a8*b3 + a9*b2
	w[11] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a3*b9 + a4*b8 + a5*b7 + a6*b6 + a7*b5 + a8*b4 + a9*b3
	w[12] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a4*b9 + a5*b8 + a6*b7 + a7*b6 + a8*b5 + a9*b4
	w[13] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a5*b9 + a6*b8 + a7*b7 + a8*b6 + a9*b5
	w[14] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a6*b9 + a7*b8 + a8*b7 + a9*b6
	w[15] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a7*b9 + a8*b8 + a9*b7
	w[16] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a8*b9 + a9*b8
	w[17] = uint32(t & wordMask)
	c = t >> wordBits
	t = c + a9*b9
	w[18] = uint32(t & wordMask)
	c = t >> wordBits
	w[19] = uint32(c)
	out.words = w
	out.negative = x.negative != y.negative
	out.red = nil
	out.strip()
}
