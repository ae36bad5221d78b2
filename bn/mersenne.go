package bn

import (
	"fmt"
	"sync"
)

// MPrime is a pseudo-Mersenne prime p = 2^n - k with a small k.  Reduction
// splits a value at bit n and folds the high part back in multiplied by k,
// which avoids a division.
type MPrime struct {
	name string
	p    *Int
	n    uint
	k    *Int

	// imulK multiplies its argument by k in place.
	imulK func(*Int) *Int
}

func newMPrime(name, p string, imulK func(*Int) *Int) *MPrime {
	mp := &MPrime{name: name, p: MustFromString(p, 16)}
	mp.n = uint(mp.p.BitLen())
	mp.k = New(1).IShln(mp.n).ISub(mp.p)
	mp.imulK = imulK
	if mp.imulK == nil {
		mp.imulK = func(x *Int) *Int { return x.IMul(mp.k) }
	}
	return mp
}

// Name returns the registry name of the prime.
func (mp *MPrime) Name() string { return mp.name }

// P returns a copy of the prime.
func (mp *MPrime) P() *Int { return mp.p.Clone() }

// ireduce reduces the non-negative num modulo p in place.
func (mp *MPrime) ireduce(num *Int) *Int {
	for {
		lo := num.Maskn(mp.n)
		num.IShrn(mp.n)
		mp.imulK(num)
		num.IAdd(lo)
		if num.BitLen() <= int(mp.n) {
			break
		}
	}
	// Below 2^n the value exceeds p by less than k, one subtraction is enough.
	if num.BitLen() == int(mp.n) {
		switch num.Ucmp(mp.p) {
		case 0:
			num.setZero()
		case 1:
			num.ISub(mp.p)
		}
	}
	return num
}

// k256MulK multiplies by 0x1000003d1 limb by limb.  k is 0x40 * 2^26 +
// 0x3d1, so each limb contributes 0x3d1 to its own position and 0x40 to the
// next one.
func k256MulK(num *Int) *Int {
	num.words = append(num.words, 0, 0)
	var lo uint64
	for i, w := range num.words {
		lo += uint64(w) * 0x3d1
		num.words[i] = uint32(lo & wordMask)
		lo = uint64(w)*0x40 + lo>>wordBits
	}
	return num.strip()
}

// p25519MulK multiplies by 19.
func p25519MulK(num *Int) *Int {
	return num.IMulN(19)
}

var (
	primesOnce sync.Once
	primes     map[string]*MPrime
)

func loadPrimes() {
	primes = map[string]*MPrime{
		"k256": newMPrime("k256",
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffff"+
				"fefffffc2f", k256MulK),
		"p224": newMPrime("p224",
			"ffffffffffffffffffffffffffffffff000000000000000000000001",
			nil),
		"p192": newMPrime("p192",
			"fffffffffffffffffffffffffffffffeffffffffffffffff", nil),
		"p25519": newMPrime("p25519",
			"7fffffffffffffffffffffffffffffffffffffffffffffffffffffff"+
				"ffffffed", p25519MulK),
	}
}

// Prime returns the registered pseudo-Mersenne prime with the given name.
// The registry is built once on first use.
func Prime(name string) (*MPrime, error) {
	primesOnce.Do(loadPrimes)
	p, ok := primes[name]
	if !ok {
		str := fmt.Sprintf("no pseudo-mersenne prime named %q", name)
		return nil, makeError(ErrUnknownPrime, str)
	}
	return p, nil
}
