package bn

import "fmt"

// Reduction names the strategy a Red context reduces with.
type Reduction int

const (
	// Generic reduces with a full division by the modulus.
	Generic Reduction = iota

	// PseudoMersenne folds the high bits of 2^n - k moduli back in with a
	// multiplication by k.
	PseudoMersenne

	// Montgomery keeps values as x*R mod m and multiplies with REDC.
	Montgomery
)

// String returns the name of the strategy.
func (r Reduction) String() string {
	switch r {
	case Generic:
		return "generic"
	case PseudoMersenne:
		return "pseudo-mersenne"
	case Montgomery:
		return "montgomery"
	}
	return fmt.Sprintf("Reduction(%d)", int(r))
}

// Red is a reduction context bound to a modulus.  Values enter the context
// with ToRed and leave it with FromRed; every reduced value lies in
// [0, modulus) and remembers its context, so mixing values of different
// contexts panics.  A Red is immutable after construction and safe for
// concurrent use.
type Red struct {
	m     *Int
	kind  Reduction
	prime *MPrime

	// Montgomery constants, R = 2^shift.
	shift uint
	r     *Int
	r2    *Int
	rinv  *Int
	minv  *Int
}

// NewRed returns a generic reduction context for m > 1.
func NewRed(m *Int) (*Red, error) {
	if m.CmpN(1) <= 0 {
		return nil, makeError(ErrInvalidModulus, "modulus must be greater than one")
	}
	mod := m.Clone()
	mod.red = nil
	return &Red{m: mod, kind: Generic}, nil
}

// NewPrimeRed returns a pseudo-Mersenne reduction context for one of the
// registered named primes: k256, p224, p192 or p25519.
func NewPrimeRed(name string) (*Red, error) {
	p, err := Prime(name)
	if err != nil {
		return nil, err
	}
	return &Red{m: p.p, kind: PseudoMersenne, prime: p}, nil
}

// NewMontRed returns a Montgomery reduction context for an odd m > 1.
func NewMontRed(m *Int) (*Red, error) {
	if m.CmpN(1) <= 0 || m.IsEven() {
		return nil, makeError(ErrInvalidModulus, "montgomery modulus must be odd and greater than one")
	}
	ctx := &Red{m: m.Clone(), kind: Montgomery}
	ctx.m.red = nil

	ctx.shift = uint(m.BitLen())
	if rem := ctx.shift % wordBits; rem != 0 {
		ctx.shift += wordBits - rem
	}
	ctx.r = New(1).IShln(ctx.shift)
	ctx.r2 = ctx.r.Sqr().UMod(ctx.m)
	rinv, err := ctx.r.invmp(ctx.m)
	if err != nil {
		return nil, err
	}
	ctx.rinv = rinv

	// minv = m^-1 mod R, derived from R*rinv - 1 == k*m.
	k := rinv.Mul(ctx.r).ISubN(1).Div(ctx.m)
	ctx.minv = ctx.r.Sub(k.UMod(ctx.r))
	return ctx, nil
}

// Modulus returns a copy of the modulus.
func (r *Red) Modulus() *Int {
	return r.m.Clone()
}

// Kind reports the reduction strategy.
func (r *Red) Kind() Reduction {
	return r.kind
}

func (r *Red) verify1(a *Int) {
	if a.negative {
		panic("bn: reduced value is negative")
	}
	if a.red == nil {
		panic("bn: value is not in a reduction context")
	}
	if a.red != r {
		panic("bn: value belongs to another reduction context")
	}
}

func (r *Red) verify2(a, b *Int) {
	r.verify1(a)
	r.verify1(b)
}

// imod reduces a in place and tags it with the context.
func (r *Red) imod(a *Int) *Int {
	if r.prime != nil && !a.negative {
		r.prime.ireduce(a)
	} else {
		a.Set(a.UMod(r.m))
	}
	a.red = r
	return a
}

// ConvertTo brings x into the context.  Negative values are reduced into
// [0, m) first.
func (r *Red) ConvertTo(x *Int) *Int {
	if r.kind == Montgomery {
		t := x.UMod(r.m)
		return r.imod(t.IShln(r.shift))
	}
	t := x.UMod(r.m)
	t.red = r
	return t
}

// ConvertFrom takes a reduced value out of the context.
func (r *Red) ConvertFrom(x *Int) *Int {
	r.verify1(x)
	if r.kind == Montgomery {
		t := r.imod(x.Mul(r.rinv))
		t.red = nil
		return t
	}
	t := x.Clone()
	t.red = nil
	return t
}

// One returns the multiplicative identity of the context.
func (r *Red) One() *Int {
	return r.ConvertTo(New(1))
}

// Zero returns the additive identity of the context.
func (r *Red) Zero() *Int {
	z := New(0)
	z.red = r
	return z
}

// Add returns a + b.
func (r *Red) Add(a, b *Int) *Int {
	r.verify2(a, b)
	res := a.Add(b)
	if res.Cmp(r.m) >= 0 {
		res.ISub(r.m)
	}
	res.red = r
	return res
}

// IAdd sets a = a + b.
func (r *Red) IAdd(a, b *Int) *Int {
	r.verify2(a, b)
	a.IAdd(b)
	if a.Cmp(r.m) >= 0 {
		a.ISub(r.m)
	}
	return a
}

// Sub returns a - b.
func (r *Red) Sub(a, b *Int) *Int {
	r.verify2(a, b)
	res := a.Sub(b)
	if res.negative {
		res.IAdd(r.m)
	}
	res.red = r
	return res
}

// ISub sets a = a - b.
func (r *Red) ISub(a, b *Int) *Int {
	r.verify2(a, b)
	a.ISub(b)
	if a.negative {
		a.IAdd(r.m)
	}
	return a
}

// Shl returns a * 2^n.
func (r *Red) Shl(a *Int, n uint) *Int {
	r.verify1(a)
	return r.imod(a.Shln(n))
}

// Neg returns -a.
func (r *Red) Neg(a *Int) *Int {
	r.verify1(a)
	if a.IsZero() {
		return a.Clone()
	}
	res := r.m.Sub(a)
	res.red = r
	return res
}

// Mul returns a * b.
func (r *Red) Mul(a, b *Int) *Int {
	r.verify2(a, b)
	if r.kind == Montgomery {
		return r.montMul(a.Mul(b))
	}
	return r.imod(a.Mul(b))
}

// IMul sets a = a * b.
func (r *Red) IMul(a, b *Int) *Int {
	r.verify2(a, b)
	if r.kind == Montgomery {
		return a.Set(r.montMul(a.Mul(b)))
	}
	return r.imod(a.IMul(b))
}

// Sqr returns a * a.
func (r *Red) Sqr(a *Int) *Int {
	return r.Mul(a, a)
}

// ISqr sets a = a * a.
func (r *Red) ISqr(a *Int) *Int {
	return r.IMul(a, a)
}

// Invm returns the multiplicative inverse of a.  Zero, or any value
// sharing a factor with the modulus, has no inverse.
func (r *Red) Invm(a *Int) (*Int, error) {
	r.verify1(a)
	if a.IsZero() {
		return nil, makeError(ErrNotInvertible, "zero has no inverse")
	}
	var inv *Int
	var err error
	if r.m.IsOdd() {
		inv, err = a.invmp(r.m)
	} else {
		inv, err = a.Invm(r.m)
	}
	if err != nil {
		return nil, err
	}
	if r.kind == Montgomery {
		return r.imod(inv.IMul(r.r2)), nil
	}
	inv.red = r
	return inv, nil
}

// Pow returns a^e for a non-negative exponent using a 4-bit fixed window.
func (r *Red) Pow(a, e *Int) *Int {
	r.verify1(a)
	if e.IsZero() {
		return r.One()
	}
	if e.EqN(1) {
		return a.Clone()
	}

	const windowSize = 4
	var wnd [1 << windowSize]*Int
	wnd[0] = r.One()
	wnd[1] = a
	for i := 2; i < len(wnd); i++ {
		wnd[i] = r.Mul(wnd[i-1], a)
	}

	res := wnd[0]
	started := false
	current, currentLen := 0, 0
	for i := e.BitLen() - 1; i >= 0; i-- {
		if started {
			res = r.Sqr(res)
		}
		bit := 0
		if e.TestBit(i) {
			bit = 1
		}
		if bit == 0 && current == 0 {
			currentLen = 0
			continue
		}
		current = current<<1 | bit
		currentLen++
		if currentLen != windowSize && i != 0 {
			continue
		}
		res = r.Mul(res, wnd[current])
		started = true
		current, currentLen = 0, 0
	}
	return res
}

// maxNonResidueSearch bounds the walk for a quadratic non-residue, which
// for a prime modulus ends within a handful of steps.
const maxNonResidueSearch = 1 << 16

// Sqrt returns a square root of a for an odd prime modulus.  Moduli
// congruent to 3 mod 4 take the a^((m+1)/4) shortcut and the rest run
// Tonelli-Shanks.  Values without a root report ErrNotQuadraticResidue.
func (r *Red) Sqrt(a *Int) (*Int, error) {
	r.verify1(a)
	if a.IsZero() {
		return a.Clone(), nil
	}
	if r.m.IsEven() {
		return nil, makeError(ErrInvalidModulus, "square roots need an odd modulus")
	}

	var root *Int
	if r.m.Andln(3) == 3 {
		root = r.Pow(a, r.m.AddN(1).IShrn(2))
	} else {
		var err error
		root, err = r.tonelliShanks(a)
		if err != nil {
			return nil, err
		}
	}
	if !r.Sqr(root).Eq(a) {
		return nil, makeError(ErrNotQuadraticResidue, "value has no square root")
	}
	return root, nil
}

func (r *Red) tonelliShanks(a *Int) (*Int, error) {
	// m - 1 == q * 2^s with q odd.
	q := r.m.SubN(1)
	s := 0
	for !q.IsZero() && q.IsEven() {
		s++
		q.IShrn(1)
	}

	one := r.One()
	nOne := r.Neg(one)
	lpow := r.m.SubN(1).IShrn(1)
	bl := r.m.BitLen()
	z := r.ConvertTo(New(int64(2 * bl * bl)))
	for i := 0; !r.Pow(z, lpow).Eq(nOne); i++ {
		if i == maxNonResidueSearch {
			return nil, makeError(ErrInvalidModulus, "no quadratic non-residue found")
		}
		r.IAdd(z, nOne)
	}

	c := r.Pow(z, q)
	res := r.Pow(a, q.AddN(1).IShrn(1))
	t := r.Pow(a, q)
	m := s
	for !t.Eq(one) {
		tmp := t
		i := 0
		for ; i < m && !tmp.Eq(one); i++ {
			tmp = r.Sqr(tmp)
		}
		if i >= m {
			return nil, makeError(ErrNotQuadraticResidue, "value has no square root")
		}
		b := r.Pow(c, New(1).IShln(uint(m-i-1)))
		res = r.Mul(res, b)
		c = r.Sqr(b)
		t = r.Mul(t, c)
		m = i
	}
	return res, nil
}

// montMul performs REDC on the double width product t.
func (r *Red) montMul(t *Int) *Int {
	if t.IsZero() {
		t.red = r
		return t
	}
	c := t.Maskn(r.shift).IMul(r.minv).IMaskn(r.shift).IMul(r.m)
	u := t.ISub(c).IShrn(r.shift)
	if u.Cmp(r.m) >= 0 {
		u.ISub(r.m)
	} else if u.negative {
		u.IAdd(r.m)
	}
	u.red = r
	return u
}
