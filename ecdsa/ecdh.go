package ecdsa

import (
	"io"

	"golang.org/x/crypto/hkdf"

	"eccore.mleku.dev/bn"
	"eccore.mleku.dev/curve"
)

// sharedPoint returns priv * pub after checking both halves of the
// exchange.
func (k *KeyPair) sharedPoint(pub *curve.Point) (*curve.Point, error) {
	if k.priv == nil {
		return nil, signatureError(ErrInvalidPrivateKey, "key pair has no private key")
	}
	if pub == nil || pub.IsInfinity() || pub.Curve() != k.ec.curve ||
		!k.ec.curve.Validate(pub) {

		return nil, signatureError(ErrInvalidPublicKey, "public point not validated")
	}
	s := pub.Mul(k.priv)
	if s.IsInfinity() {
		return nil, signatureError(ErrInvalidPublicKey, "shared point is the point at infinity")
	}
	return s, nil
}

// Derive returns the x coordinate of priv * pub, the raw ECDH secret.
func (k *KeyPair) Derive(pub *curve.Point) (*bn.Int, error) {
	s, err := k.sharedPoint(pub)
	if err != nil {
		return nil, err
	}
	return s.X(), nil
}

// SharedSecret returns the hash of the compressed shared point, the
// version byte 0x02 | (y & 1) followed by x.  With SHA-256 on secp256k1
// this is the libsecp256k1 default ECDH output.
func (k *KeyPair) SharedSecret(pub *curve.Point) ([]byte, error) {
	s, err := k.sharedPoint(pub)
	if err != nil {
		return nil, err
	}
	h := k.ec.hash()
	h.Write(s.Encode(true))
	return h.Sum(nil), nil
}

// DeriveKey expands the shared secret with pub into size bytes of key
// material using HKDF (RFC 5869) over the context's hash.  An empty salt
// means a string of zeros.
func (k *KeyPair) DeriveKey(pub *curve.Point, salt, info []byte, size int) ([]byte, error) {
	secret, err := k.SharedSecret(pub)
	if err != nil {
		return nil, err
	}
	defer clear(secret)

	out := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(k.ec.hash, secret, salt, info), out); err != nil {
		return nil, err
	}
	return out, nil
}
