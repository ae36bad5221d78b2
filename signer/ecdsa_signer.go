package signer

import (
	"crypto/rand"
	"errors"

	"eccore.mleku.dev/ecdsa"
)

var (
	errNoSecret = errors.New("no secret key available")
	errNoPublic = errors.New("no public key available for verification")
)

// ECDSASigner implements I with the eccore ecdsa package on any short
// Weierstrass preset.
type ECDSASigner struct {
	ec  *ecdsa.EC
	key *ecdsa.KeyPair
}

var _ I = (*ECDSASigner)(nil)

// NewECDSASigner returns an empty signer for the named curve.
func NewECDSASigner(curve string) (*ECDSASigner, error) {
	ec, err := ecdsa.New(curve)
	if err != nil {
		return nil, err
	}
	return &ECDSASigner{ec: ec}, nil
}

// Generate creates a fresh key pair from crypto/rand.
func (s *ECDSASigner) Generate() error {
	key, err := s.ec.GenKeyPair(rand.Reader)
	if err != nil {
		return err
	}
	s.key = key
	return nil
}

// InitSec initialises the secret key from the raw bytes, which must be
// ScalarLen bytes long.
func (s *ECDSASigner) InitSec(sec []byte) error {
	if len(sec) != s.ec.ScalarLen() {
		return errors.New("secret key has the wrong length")
	}
	key, err := s.ec.KeyFromPrivate(sec)
	if err != nil {
		return err
	}
	s.key = key
	return nil
}

// InitPub initialises a verification-only key from a SEC1 point.
func (s *ECDSASigner) InitPub(pub []byte) error {
	key, err := s.ec.KeyFromPublic(pub)
	if err != nil {
		return err
	}
	s.key = key
	return nil
}

// Sec returns the secret key bytes.
func (s *ECDSASigner) Sec() []byte {
	if s.key == nil {
		return nil
	}
	return s.key.PrivateBytes()
}

// Pub returns the compressed public key.
func (s *ECDSASigner) Pub() []byte {
	if s.key == nil {
		return nil
	}
	return s.key.PublicBytes(true)
}

// Sign returns the low-S DER signature of hash.
func (s *ECDSASigner) Sign(hash []byte) (sig []byte, err error) {
	if s.key == nil || s.key.Private() == nil {
		return nil, errNoSecret
	}
	signature, err := s.key.Sign(hash, nil)
	if err != nil {
		return nil, err
	}
	return signature.ToDER(), nil
}

// Verify checks a DER signature.  A signature that does not parse is an
// error, one that parses but does not match is reported as invalid.
func (s *ECDSASigner) Verify(hash, sig []byte) (valid bool, err error) {
	if s.key == nil {
		return false, errNoPublic
	}
	signature, err := s.ec.ParseDER(sig)
	if err != nil {
		return false, err
	}
	return s.key.Verify(hash, signature), nil
}

// Zero drops the key.
func (s *ECDSASigner) Zero() {
	s.key = nil
}

// ECDH returns the x coordinate of the shared point, ByteLen bytes long.
func (s *ECDSASigner) ECDH(pub []byte) (secret []byte, err error) {
	if s.key == nil || s.key.Private() == nil {
		return nil, errNoSecret
	}
	peer, err := s.ec.KeyFromPublic(pub)
	if err != nil {
		return nil, err
	}
	x, err := s.key.Derive(peer.Public())
	if err != nil {
		return nil, err
	}
	return x.FillBytes(s.ec.Curve().ByteLen())
}
