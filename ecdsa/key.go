package ecdsa

import (
	"fmt"
	"io"
	"sync"

	"eccore.mleku.dev/bn"
	"eccore.mleku.dev/curve"
	"eccore.mleku.dev/drbg"
)

// KeyPair holds a private scalar, a public point, or both.  The public
// point of a private key is derived on first use.
type KeyPair struct {
	ec   *EC
	priv *bn.Int

	once sync.Once
	pub  *curve.Point
}

// KeyFromPrivate returns the key pair for the big endian private scalar b,
// which must lie in [1, n-1].
func (ec *EC) KeyFromPrivate(b []byte) (*KeyPair, error) {
	return ec.KeyFromScalar(bn.FromBytes(b, bn.BigEndian))
}

// KeyFromScalar returns the key pair for the private scalar d in [1, n-1].
func (ec *EC) KeyFromScalar(d *bn.Int) (*KeyPair, error) {
	if !ec.inRange(d) {
		return nil, signatureError(ErrInvalidPrivateKey,
			"private key must be in [1, n-1]")
	}
	return &KeyPair{ec: ec, priv: d.Clone()}, nil
}

// KeyFromPublic returns a public-only key pair from a SEC1 encoded point.
func (ec *EC) KeyFromPublic(b []byte) (*KeyPair, error) {
	p, err := ec.curve.DecodePoint(b)
	if err != nil {
		return nil, err
	}
	return ec.KeyFromPoint(p)
}

// KeyFromPoint returns a public-only key pair for p after validating it.
func (ec *EC) KeyFromPoint(p *curve.Point) (*KeyPair, error) {
	k := &KeyPair{ec: ec, pub: p}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// GenKeyPair draws a private key from an HMAC-DRBG seeded with entropy
// read from rand.
func (ec *EC) GenKeyPair(rand io.Reader) (*KeyPair, error) {
	entropy := make([]byte, max(drbg.DefaultMinEntropy, ec.scalarLen))
	if _, err := io.ReadFull(rand, entropy); err != nil {
		return nil, fmt.Errorf("reading entropy: %w", err)
	}
	nonce, err := ec.n.FillBytes(ec.scalarLen)
	if err != nil {
		return nil, err
	}
	gen, err := drbg.New(drbg.Config{Hash: ec.hash, Entropy: entropy, Nonce: nonce})
	clear(entropy)
	if err != nil {
		return nil, err
	}
	defer gen.Clear()

	ns2 := ec.n.SubN(2)
	for i := 0; i < maxNonceIterations; i++ {
		b, err := gen.Generate(ec.scalarLen, nil)
		if err != nil {
			return nil, err
		}
		d := ec.truncateToN(bn.FromBytes(b, bn.BigEndian), true, ec.scalarLen*8)
		clear(b)
		if d.Cmp(ns2) > 0 {
			continue
		}
		return &KeyPair{ec: ec, priv: d.IAddN(1)}, nil
	}
	return nil, signatureError(ErrNonceExhausted, "no private key candidate in range")
}

// EC returns the context the key belongs to.
func (k *KeyPair) EC() *EC { return k.ec }

// Private returns the private scalar, or nil for a public-only key.
func (k *KeyPair) Private() *bn.Int {
	if k.priv == nil {
		return nil
	}
	return k.priv.Clone()
}

// PrivateBytes returns the private scalar big endian in ScalarLen bytes,
// or nil for a public-only key.
func (k *KeyPair) PrivateBytes() []byte {
	if k.priv == nil {
		return nil
	}
	b, _ := k.priv.FillBytes(k.ec.scalarLen)
	return b
}

// Public returns the public point.
func (k *KeyPair) Public() *curve.Point {
	k.once.Do(func() {
		if k.pub == nil {
			k.pub = k.ec.g.Mul(k.priv)
		}
	})
	return k.pub
}

// PublicBytes returns the SEC1 encoding of the public point.
func (k *KeyPair) PublicBytes(compressed bool) []byte {
	return k.Public().Encode(compressed)
}

// Validate checks that the public point is a finite curve point of order
// n.
func (k *KeyPair) Validate() error {
	pub := k.Public()
	if pub == nil || pub.IsInfinity() {
		return signatureError(ErrInvalidPublicKey, "public key is the point at infinity")
	}
	if pub.Curve() != k.ec.curve || !k.ec.curve.Validate(pub) {
		return signatureError(ErrInvalidPublicKey, "public key is not a point on the curve")
	}
	if !pub.Mul(k.ec.n).IsInfinity() {
		return signatureError(ErrInvalidPublicKey, "public key * n is not the point at infinity")
	}
	return nil
}

// Sign signs the message digest hash.
func (k *KeyPair) Sign(hash []byte, opts *SignOptions) (*Signature, error) {
	return k.ec.Sign(hash, k, opts)
}

// Verify reports whether sig is valid for hash under the public key.
func (k *KeyPair) Verify(hash []byte, sig *Signature) bool {
	return k.ec.Verify(hash, sig, k.Public())
}
