// Package bn implements signed arbitrary-precision integers stored as
// little-endian 26-bit limbs, together with modular reduction contexts
// (generic, pseudo-Mersenne and Montgomery) used for finite field
// arithmetic.
//
// Methods prefixed with I mutate the receiver in place and return it.  The
// remaining arithmetic methods leave their operands untouched and return a
// fresh value.  Unless a method documents otherwise, an in-place operation
// may be given its own receiver as the operand (x.IAdd(x) doubles x).
package bn

import (
	"math/bits"
)

const (
	wordBits = 26
	wordMask = 1<<wordBits - 1
)

// Endian selects the byte order of a byte encoding.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

// Int is a signed arbitrary-precision integer.
//
// The magnitude is held as 26-bit limbs, least significant first.  The
// canonical form has no high zero limbs except the single limb of zero, and
// zero is never negative.  Values must be created through New, FromString or
// FromBytes; the zero value of Int is not ready for use.
type Int struct {
	words    []uint32
	negative bool

	// red is the reduction context the value belongs to, or nil for a plain
	// integer.
	red *Red
}

// New returns a new Int set to x.
func New(x int64) *Int {
	return new(Int).SetInt64(x)
}

// NewUint64 returns a new Int set to x.
func NewUint64(x uint64) *Int {
	z := new(Int)
	z.setUint64(x)
	return z
}

// SetInt64 sets z to x and returns z.
func (z *Int) SetInt64(x int64) *Int {
	neg := x < 0
	u := uint64(x)
	if neg {
		u = uint64(-x)
	}
	z.setUint64(u)
	z.negative = neg
	z.red = nil
	return z.normSign()
}

func (z *Int) setUint64(u uint64) {
	z.words = z.words[:0]
	for {
		z.words = append(z.words, uint32(u&wordMask))
		u >>= wordBits
		if u == 0 {
			break
		}
	}
	z.negative = false
	z.red = nil
}

// Set sets z to x, including its reduction context, and returns z.
func (z *Int) Set(x *Int) *Int {
	if z == x {
		return z
	}
	z.words = append(z.words[:0], x.words...)
	z.negative = x.negative
	z.red = x.red
	return z
}

// Clone returns a copy of x.
func (x *Int) Clone() *Int {
	z := &Int{
		words:    make([]uint32, len(x.words)),
		negative: x.negative,
		red:      x.red,
	}
	copy(z.words, x.words)
	return z
}

// Copy copies x into dst.
func (x *Int) Copy(dst *Int) {
	dst.Set(x)
}

// expand grows the limb slice to at least n limbs, zero filling.
func (z *Int) expand(n int) {
	for len(z.words) < n {
		z.words = append(z.words, 0)
	}
}

// strip removes high zero limbs and restores the canonical form.
func (z *Int) strip() *Int {
	n := len(z.words)
	for n > 1 && z.words[n-1] == 0 {
		n--
	}
	if n == 0 {
		z.words = append(z.words[:0], 0)
		n = 1
	}
	z.words = z.words[:n]
	return z.normSign()
}

// normSign clears the sign of zero.
func (z *Int) normSign() *Int {
	if len(z.words) == 1 && z.words[0] == 0 {
		z.negative = false
	}
	return z
}

// setZero sets z to zero, keeping its reduction context.
func (z *Int) setZero() *Int {
	z.words = append(z.words[:0], 0)
	z.negative = false
	return z
}

// IsZero reports whether x is zero.
func (x *Int) IsZero() bool {
	return len(x.words) == 1 && x.words[0] == 0
}

// IsNeg reports whether x is negative.
func (x *Int) IsNeg() bool {
	return x.negative
}

// IsOdd reports whether x is odd.
func (x *Int) IsOdd() bool {
	return x.words[0]&1 == 1
}

// IsEven reports whether x is even.
func (x *Int) IsEven() bool {
	return x.words[0]&1 == 0
}

// Sign returns -1, 0 or 1 depending on the sign of x.
func (x *Int) Sign() int {
	switch {
	case x.negative:
		return -1
	case x.IsZero():
		return 0
	}
	return 1
}

// BitLen returns the length of the magnitude of x in bits.  The bit length
// of zero is 0.
func (x *Int) BitLen() int {
	hi := len(x.words) - 1
	return hi*wordBits + bits.Len32(x.words[hi])
}

// ZeroBits returns the number of trailing zero bits of x.  Zero has no
// trailing zero bits.
func (x *Int) ZeroBits() int {
	if x.IsZero() {
		return 0
	}
	r := 0
	for _, w := range x.words {
		if w != 0 {
			return r + bits.TrailingZeros32(w)
		}
		r += wordBits
	}
	return r
}

// ByteLen returns the number of bytes needed for the magnitude of x.
func (x *Int) ByteLen() int {
	return (x.BitLen() + 7) / 8
}

// IsInt64 reports whether x can be represented as an int64.
func (x *Int) IsInt64() bool {
	if x.BitLen() < 64 {
		return true
	}
	return x.negative && x.BitLen() == 64 && x.ZeroBits() == 63
}

// Int64 returns the int64 value of x.  The result is undefined when
// IsInt64 reports false.
func (x *Int) Int64() int64 {
	var u uint64
	for i := len(x.words) - 1; i >= 0; i-- {
		u = u<<wordBits | uint64(x.words[i])
	}
	if x.negative {
		return -int64(u)
	}
	return int64(u)
}

// Red returns the reduction context x belongs to, or nil.
func (x *Int) Red() *Red {
	return x.red
}

// Ucmp compares the magnitudes of x and y and returns -1, 0 or 1.
func (x *Int) Ucmp(y *Int) int {
	if len(x.words) != len(y.words) {
		if len(x.words) > len(y.words) {
			return 1
		}
		return -1
	}
	for i := len(x.words) - 1; i >= 0; i-- {
		a, b := x.words[i], y.words[i]
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Cmp compares x and y and returns -1, 0 or 1.
func (x *Int) Cmp(y *Int) int {
	if x.negative != y.negative {
		if x.negative {
			return -1
		}
		return 1
	}
	r := x.Ucmp(y)
	if x.negative {
		return -r
	}
	return r
}

// CmpN compares x with the small integer n and returns -1, 0 or 1.
func (x *Int) CmpN(n int64) int {
	neg := n < 0
	if x.negative != neg {
		if x.negative {
			return -1
		}
		return 1
	}
	m := uint64(n)
	if neg {
		m = uint64(-n)
	}
	var r int
	if m > wordMask || len(x.words) > 1 {
		r = x.Ucmp(NewUint64(m))
	} else {
		w := uint64(x.words[0])
		switch {
		case w > m:
			r = 1
		case w < m:
			r = -1
		}
	}
	if neg {
		return -r
	}
	return r
}

// Eq reports whether x == y.
func (x *Int) Eq(y *Int) bool { return x.Cmp(y) == 0 }

// EqN reports whether x == n.
func (x *Int) EqN(n int64) bool { return x.CmpN(n) == 0 }

// Lt reports whether x < y.
func (x *Int) Lt(y *Int) bool { return x.Cmp(y) < 0 }

// Lte reports whether x <= y.
func (x *Int) Lte(y *Int) bool { return x.Cmp(y) <= 0 }

// Gt reports whether x > y.
func (x *Int) Gt(y *Int) bool { return x.Cmp(y) > 0 }

// Gte reports whether x >= y.
func (x *Int) Gte(y *Int) bool { return x.Cmp(y) >= 0 }

// Min returns the smaller of x and y.
func Min(x, y *Int) *Int {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max(x, y *Int) *Int {
	if x.Cmp(y) >= 0 {
		return x
	}
	return y
}

// INeg negates z in place.
func (z *Int) INeg() *Int {
	if !z.IsZero() {
		z.negative = !z.negative
	}
	return z
}

// Neg returns -x.
func (x *Int) Neg() *Int {
	return x.Clone().INeg()
}

// IAbs sets z to |z|.
func (z *Int) IAbs() *Int {
	z.negative = false
	return z
}

// Abs returns |x|.
func (x *Int) Abs() *Int {
	return x.Clone().IAbs()
}

// iuadd sets |z| = |z| + |x|.
func (z *Int) iuadd(x *Int) {
	b := x.words
	if len(z.words) < len(b) {
		z.expand(len(b))
	}
	a := z.words
	var carry uint32
	i := 0
	for ; i < len(b); i++ {
		s := a[i] + b[i] + carry
		a[i] = s & wordMask
		carry = s >> wordBits
	}
	for ; carry != 0 && i < len(a); i++ {
		s := a[i] + carry
		a[i] = s & wordMask
		carry = s >> wordBits
	}
	if carry != 0 {
		z.words = append(z.words, carry)
	}
}

// iusub sets |z| = ||z| - |x|| and reports whether |x| was the larger
// magnitude, in which case the caller owns fixing up the sign.
func (z *Int) iusub(x *Int) bool {
	c := z.Ucmp(x)
	if c == 0 {
		z.setZero()
		return false
	}
	a, b := z.words, x.words
	if c < 0 {
		a, b = x.words, z.words
	}
	out := z.words
	if len(out) < len(a) {
		out = append(out, make([]uint32, len(a)-len(out))...)
	}
	var borrow int32
	i := 0
	for ; i < len(b); i++ {
		d := int32(a[i]) - int32(b[i]) + borrow
		borrow = d >> wordBits
		out[i] = uint32(d) & wordMask
	}
	for ; i < len(a); i++ {
		d := int32(a[i]) + borrow
		borrow = d >> wordBits
		out[i] = uint32(d) & wordMask
	}
	z.words = out[:len(a)]
	z.strip()
	return c < 0
}

// IAdd sets z = z + x.
func (z *Int) IAdd(x *Int) *Int {
	if z.negative == x.negative {
		z.iuadd(x)
		return z
	}
	if z.iusub(x) {
		z.negative = !z.negative
	}
	return z.normSign()
}

// ISub sets z = z - x.
func (z *Int) ISub(x *Int) *Int {
	if z.negative != x.negative {
		z.iuadd(x)
		return z
	}
	if z.iusub(x) {
		z.negative = !z.negative
	}
	return z.normSign()
}

// Add returns x + y.
func (x *Int) Add(y *Int) *Int {
	z := x.Clone()
	z.red = nil
	return z.IAdd(y)
}

// Sub returns x - y.
func (x *Int) Sub(y *Int) *Int {
	z := x.Clone()
	z.red = nil
	return z.ISub(y)
}

// IAddN sets z = z + n.
func (z *Int) IAddN(n int) *Int {
	if n < 0 {
		return z.ISubN(-n)
	}
	if n > wordMask {
		return z.IAdd(New(int64(n)))
	}
	if z.negative {
		// -|z| + n == -(|z| - n)
		z.negative = false
		z.ISubN(n)
		z.negative = !z.negative
		return z.normSign()
	}
	carry := uint32(n)
	for i := 0; carry != 0; i++ {
		if i == len(z.words) {
			z.words = append(z.words, carry)
			break
		}
		s := z.words[i] + carry
		z.words[i] = s & wordMask
		carry = s >> wordBits
	}
	return z
}

// ISubN sets z = z - n.
func (z *Int) ISubN(n int) *Int {
	if n < 0 {
		return z.IAddN(-n)
	}
	if n > wordMask {
		return z.ISub(New(int64(n)))
	}
	if z.negative {
		// -|z| - n == -(|z| + n)
		z.negative = false
		z.IAddN(n)
		z.negative = true
		return z.normSign()
	}
	w := uint32(n)
	if len(z.words) == 1 && z.words[0] < w {
		z.words[0] = w - z.words[0]
		z.negative = true
		return z
	}
	borrow := int64(w)
	for i := 0; borrow != 0 && i < len(z.words); i++ {
		d := int64(z.words[i]) - borrow
		if d < 0 {
			z.words[i] = uint32(d + 1<<wordBits)
			borrow = 1
		} else {
			z.words[i] = uint32(d)
			borrow = 0
		}
	}
	return z.strip()
}

// AddN returns x + n.
func (x *Int) AddN(n int) *Int {
	z := x.Clone()
	z.red = nil
	return z.IAddN(n)
}

// SubN returns x - n.
func (x *Int) SubN(n int) *Int {
	z := x.Clone()
	z.red = nil
	return z.ISubN(n)
}
