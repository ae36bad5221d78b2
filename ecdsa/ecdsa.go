// Package ecdsa implements ECDSA over the short Weierstrass curves of the
// curve package: deterministic RFC 6979 signing with low-S normalization,
// verification, public key recovery and ECDH.
//
// An EC binds a curve to the hash used for messages and nonce derivation.
// It holds no mutable state and may be shared between goroutines.
package ecdsa

import (
	"fmt"

	"eccore.mleku.dev/bn"
	"eccore.mleku.dev/curve"
	"eccore.mleku.dev/drbg"
	"eccore.mleku.dev/hashes"
	"eccore.mleku.dev/internal/logger"
)

// maxNonceIterations bounds the nonce rejection loop.  Each candidate is
// rejected with probability about 2^-128 on the preset curves.
const maxNonceIterations = 64

// EC is an ECDSA context for one curve.
type EC struct {
	curve     *curve.Short
	hash      hashes.Func
	n         *bn.Int
	nh        *bn.Int
	g         *curve.Point
	scalarLen int
}

// New returns the context for the named preset curve using the preset's
// hash.
func New(name string) (*EC, error) {
	p, err := curve.Get(name)
	if err != nil {
		return nil, err
	}
	c, err := p.Short()
	if err != nil {
		return nil, err
	}
	return NewWithCurve(c, p.Hash), nil
}

// NewWithCurve returns a context for an arbitrary short Weierstrass curve.
func NewWithCurve(c *curve.Short, h hashes.Func) *EC {
	n := c.N()
	return &EC{
		curve:     c,
		hash:      h,
		n:         n,
		nh:        n.Shrn(1),
		g:         c.G(),
		scalarLen: (n.BitLen() + 7) / 8,
	}
}

// Curve returns the underlying curve.
func (ec *EC) Curve() *curve.Short { return ec.curve }

// Hash returns the message hash constructor.
func (ec *EC) Hash() hashes.Func { return ec.hash }

// N returns the group order.
func (ec *EC) N() *bn.Int { return ec.n.Clone() }

// ScalarLen is the byte length of the group order, which is the width of
// private keys and of r and s in compact signatures.
func (ec *EC) ScalarLen() int { return ec.scalarLen }

// HashMessage returns the digest of msg under the context's hash.
func (ec *EC) HashMessage(msg []byte) []byte {
	h := ec.hash()
	h.Write(msg)
	return h.Sum(nil)
}

// truncateToN keeps the leftmost n.BitLen() bits of the bitLen bit value v
// and, unless truncOnly is set, reduces the result below n.
func (ec *EC) truncateToN(v *bn.Int, truncOnly bool, bitLen int) *bn.Int {
	if delta := bitLen - ec.n.BitLen(); delta > 0 {
		v = v.Shrn(uint(delta))
	}
	if !truncOnly && v.Cmp(ec.n) >= 0 {
		return v.Sub(ec.n)
	}
	return v
}

// digestToInt is bits2int followed by a reduction modulo n.  The bit
// length is that of the digest, not of its value, so leading zero bytes
// count.
func (ec *EC) digestToInt(hash []byte) *bn.Int {
	return ec.truncateToN(bn.FromBytes(hash, bn.BigEndian), false, len(hash)*8)
}

func (ec *EC) inRange(v *bn.Int) bool {
	return v.Sign() > 0 && v.Cmp(ec.n) < 0
}

// SignOptions adjusts signing.  The zero value gives RFC 6979 nonces and
// low-S signatures.
type SignOptions struct {
	// ExtraEntropy is added to the nonce derivation as the DRBG
	// personalization string, per RFC 6979 section 3.6.
	ExtraEntropy []byte

	// NoLowS keeps s as computed instead of replacing s > n/2 with n - s.
	NoLowS bool

	// K supplies the nonce candidate for each iteration in place of the
	// DRBG.  A nil result counts as a rejected candidate.
	K func(iter int) *bn.Int

	// Accept, when set, must approve each in-range nonce candidate before
	// it is used.
	Accept func(k *bn.Int) bool
}

// Sign signs the message digest hash with the private key of key.
func (ec *EC) Sign(hash []byte, key *KeyPair, opts *SignOptions) (*Signature, error) {
	if len(hash) == 0 {
		return nil, signatureError(ErrInvalidDigest, "message digest is empty")
	}
	if key == nil || key.priv == nil {
		return nil, signatureError(ErrInvalidPrivateKey, "key pair has no private key")
	}
	if opts == nil {
		opts = &SignOptions{}
	}

	e := ec.digestToInt(hash)
	priv := key.priv

	var gen *drbg.DRBG
	if opts.K == nil {
		bkey, err := priv.FillBytes(ec.scalarLen)
		if err != nil {
			return nil, err
		}
		nonce, err := e.FillBytes(ec.scalarLen)
		if err != nil {
			return nil, err
		}
		gen, err = drbg.New(drbg.Config{
			Hash:    ec.hash,
			Entropy: bkey,
			Nonce:   nonce,
			Pers:    opts.ExtraEntropy,
		})
		clear(bkey)
		if err != nil {
			return nil, err
		}
		defer gen.Clear()
	}

	log := logger.L()
	reject := func(iter int, reason string) {
		log.Debug().Str("curve", ec.curve.Name()).Int("iteration", iter).
			Str("reason", reason).Msg("ecdsa nonce rejected")
	}

	for iter := 0; iter < maxNonceIterations; iter++ {
		var k *bn.Int
		if opts.K != nil {
			if k = opts.K(iter); k == nil {
				reject(iter, "no candidate")
				continue
			}
		} else {
			b, err := gen.Generate(ec.scalarLen, nil)
			if err != nil {
				return nil, err
			}
			k = bn.FromBytes(b, bn.BigEndian)
			clear(b)
		}
		k = ec.truncateToN(k, true, ec.scalarLen*8)
		if !ec.inRange(k) {
			reject(iter, "nonce out of range")
			continue
		}
		if opts.Accept != nil && !opts.Accept(k.Clone()) {
			reject(iter, "nonce refused by caller")
			continue
		}

		kp := ec.g.Mul(k)
		if kp.IsInfinity() {
			reject(iter, "nonce point at infinity")
			continue
		}
		kpX := kp.X()
		r := kpX.UMod(ec.n)
		if r.IsZero() {
			reject(iter, "r is zero")
			continue
		}

		kinv, err := k.Invm(ec.n)
		if err != nil {
			reject(iter, "nonce not invertible")
			continue
		}
		s := kinv.Mul(r.Mul(priv).IAdd(e)).UMod(ec.n)
		if s.IsZero() {
			reject(iter, "s is zero")
			continue
		}

		recovery := 0
		if kp.Y().IsOdd() {
			recovery |= 1
		}
		if !kpX.Eq(r) {
			recovery |= 2
		}
		if !opts.NoLowS && s.Cmp(ec.nh) > 0 {
			// -k gives the same r with the opposite y parity.
			s = ec.n.Sub(s)
			recovery ^= 1
		}
		return &Signature{r: r, s: s, recovery: recovery, hasRecovery: true}, nil
	}
	return nil, signatureError(ErrNonceExhausted,
		fmt.Sprintf("no usable nonce after %d candidates", maxNonceIterations))
}

// Verify reports whether sig is a valid signature of the digest hash under
// pub.  Malformed or out of range signatures simply fail to verify.
func (ec *EC) Verify(hash []byte, sig *Signature, pub *curve.Point) bool {
	if len(hash) == 0 || sig == nil || pub == nil || pub.IsInfinity() {
		return false
	}
	if !ec.inRange(sig.r) || !ec.inRange(sig.s) {
		return false
	}

	e := ec.digestToInt(hash)
	sinv, err := sig.s.Invm(ec.n)
	if err != nil {
		return false
	}
	u1 := sinv.Mul(e).UMod(ec.n)
	u2 := sinv.Mul(sig.r).UMod(ec.n)

	p := ec.g.JMulAdd(u1, pub, u2)
	if p.IsInfinity() {
		return false
	}
	return p.EqXToP(sig.r)
}

// RecoverPublicKey returns the public key that produced sig over hash,
// selected by the recovery code j: bit 0 is the parity of R.y and bit 1
// says R.x was r + n.
func (ec *EC) RecoverPublicKey(hash []byte, sig *Signature, j int) (*curve.Point, error) {
	if j < 0 || j > 3 {
		return nil, signatureError(ErrSigInvalidRecoveryCode,
			fmt.Sprintf("recovery code %d is not in [0, 3]", j))
	}
	if err := ec.checkScalar(sig.r, rKinds); err != nil {
		return nil, err
	}
	if err := ec.checkScalar(sig.s, sKinds); err != nil {
		return nil, err
	}

	x := sig.r
	if j&2 != 0 {
		x = sig.r.Add(ec.n)
		if x.Cmp(ec.curve.P()) >= 0 {
			return nil, signatureError(ErrNoRecoveryCandidate,
				"r + n is not below the field prime")
		}
	}
	rp, err := ec.curve.PointFromX(x, j&1 == 1)
	if err != nil {
		return nil, signatureError(ErrRecoveryFailed,
			fmt.Sprintf("r does not belong to a curve point: %v", err))
	}

	// Q = r^-1 (sR - eG)
	e := ec.digestToInt(hash)
	rinv, err := sig.r.Invm(ec.n)
	if err != nil {
		return nil, signatureError(ErrRecoveryFailed, err.Error())
	}
	u1 := ec.n.Sub(e).Mul(rinv).UMod(ec.n)
	u2 := sig.s.Mul(rinv).UMod(ec.n)
	q := ec.g.MulAdd(u1, rp, u2)
	if q.IsInfinity() {
		return nil, signatureError(ErrRecoveryFailed,
			"recovered public key is the point at infinity")
	}
	return q, nil
}

// GetKeyRecoveryParam returns the recovery code under which sig over hash
// recovers to q.
func (ec *EC) GetKeyRecoveryParam(hash []byte, sig *Signature, q *curve.Point) (int, error) {
	for j := 0; j < 4; j++ {
		cand, err := ec.RecoverPublicKey(hash, sig, j)
		if err != nil {
			continue
		}
		if cand.Eq(q) {
			return j, nil
		}
	}
	return -1, signatureError(ErrRecoveryFailed, "unable to find valid recovery factor")
}
