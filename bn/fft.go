package bn

import (
	"math"
	"math/bits"
)

// jumboMulTo multiplies through a floating point FFT.  Limbs are split into
// 13-bit halves so every convolution coefficient stays well inside the 53
// bits a float64 represents exactly.
func jumboMulTo(x, y, out *Int) {
	n := 2 * guessLen13b(len(x.words), len(y.words))
	rbt := makeRBT(n)
	stub := make([]float64, n)

	rws := make([]float64, n)
	rwst := make([]float64, n)
	iwst := make([]float64, n)
	nrws := make([]float64, n)
	nrwst := make([]float64, n)
	niwst := make([]float64, n)
	rmws := make([]float64, n)

	convert13b(x.words, rws)
	convert13b(y.words, nrws)

	transform(rws, stub, rwst, iwst, rbt)
	clear(stub)
	transform(nrws, stub, nrwst, niwst, rbt)

	for i := 0; i < n; i++ {
		rx := rwst[i]*nrwst[i] - iwst[i]*niwst[i]
		iwst[i] = rwst[i]*niwst[i] + iwst[i]*nrwst[i]
		rwst[i] = rx
	}

	conjugate(rwst, iwst)
	clear(stub)
	transform(rwst, iwst, rmws, stub, rbt)
	conjugate(rmws, stub)

	w := normalize13b(rmws)
	out.words = w[:len(x.words)+len(y.words)]
	out.negative = x.negative != y.negative
	out.red = nil
	out.strip()
}

// guessLen13b returns a power of two large enough to hold the 13-bit
// convolution of operands with n and m limbs.
func guessLen13b(n, m int) int {
	l := max(n, m) | 1
	odd := l & 1
	i := 0
	for l = l / 2; l != 0; l >>= 1 {
		i++
	}
	return 1 << (i + 1 + odd)
}

// makeRBT returns the bit reversal permutation table for size n.
func makeRBT(n int) []int {
	t := make([]int, n)
	l := bits.Len(uint(n)) - 1
	for i := range t {
		t[i] = revBin(i, l, n)
	}
	return t
}

func revBin(x, l, n int) int {
	if x == 0 || x == n-1 {
		return x
	}
	rb := 0
	for i := 0; i < l; i++ {
		rb |= (x & 1) << (l - i - 1)
		x >>= 1
	}
	return rb
}

// transform is an iterative radix-2 Cooley-Tukey FFT writing into rtws and
// itws.
func transform(rws, iws, rtws, itws []float64, rbt []int) {
	n := len(rbt)
	for i := 0; i < n; i++ {
		rtws[i] = rws[rbt[i]]
		itws[i] = iws[rbt[i]]
	}
	for s := 1; s < n; s <<= 1 {
		l := s << 1
		rtwdf := math.Cos(2 * math.Pi / float64(l))
		itwdf := math.Sin(2 * math.Pi / float64(l))
		for p := 0; p < n; p += l {
			rt := rtwdf
			it := itwdf
			for j := 0; j < s; j++ {
				re := rtws[p+j]
				ie := itws[p+j]
				ro := rtws[p+j+s]
				io := itws[p+j+s]

				rx := rt*ro - it*io
				io = rt*io + it*ro
				ro = rx

				rtws[p+j] = re + ro
				itws[p+j] = ie + io
				rtws[p+j+s] = re - ro
				itws[p+j+s] = ie - io

				rx = rtwdf*rt - itwdf*it
				it = rtwdf*it + itwdf*rt
				rt = rx
			}
		}
	}
}

// conjugate reverses the vector and negates its imaginary part, turning a
// forward transform into an inverse one.
func conjugate(rws, iws []float64) {
	n := len(rws)
	if n <= 1 {
		return
	}
	for i := 0; i < n/2; i++ {
		rws[i], rws[n-i-1] = rws[n-i-1], rws[i]
		t := iws[i]
		iws[i] = -iws[n-i-1]
		iws[n-i-1] = -t
	}
}

// convert13b splits 26-bit limbs into 13-bit coefficients.
func convert13b(ws []uint32, rws []float64) {
	var carry uint32
	for i, w := range ws {
		carry += w
		rws[2*i] = float64(carry & 0x1fff)
		carry >>= 13
		rws[2*i+1] = float64(carry & 0x1fff)
		carry >>= 13
	}
	for i := 2 * len(ws); i < len(rws); i++ {
		rws[i] = 0
	}
}

// normalize13b scales the inverse transform, rounds the coefficients and
// recombines pairs of 13-bit values into carried 26-bit limbs.
func normalize13b(ws []float64) []uint32 {
	n := float64(len(ws))
	out := make([]uint32, len(ws)/2)
	var carry int64
	for i := range out {
		w := int64(math.Round(ws[2*i+1]/n))*0x2000 + int64(math.Round(ws[2*i]/n)) + carry
		out[i] = uint32(w & wordMask)
		carry = w >> wordBits
	}
	return out
}
