package signer

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// BtcecSigner implements I on secp256k1 using btcec.
type BtcecSigner struct {
	privKey *btcec.PrivateKey
	pubKey  *btcec.PublicKey
}

var _ I = (*BtcecSigner)(nil)

// NewBtcecSigner creates a new BtcecSigner instance
func NewBtcecSigner() *BtcecSigner {
	return &BtcecSigner{}
}

// Generate creates a fresh new key pair from system entropy
func (s *BtcecSigner) Generate() error {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	s.privKey = privKey
	s.pubKey = privKey.PubKey()
	return nil
}

// InitSec initialises the secret key from the raw bytes, and also derives
// the public key
func (s *BtcecSigner) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return errors.New("secret key must be 32 bytes")
	}
	var k btcec.ModNScalar
	if overflow := k.SetByteSlice(sec); overflow || k.IsZero() {
		return errors.New("secret key out of range")
	}
	privKey, pubKey := btcec.PrivKeyFromBytes(sec)
	s.privKey = privKey
	s.pubKey = pubKey
	return nil
}

// InitPub initializes the public key from SEC1 bytes
func (s *BtcecSigner) InitPub(pub []byte) error {
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return err
	}
	s.pubKey = pubKey
	s.privKey = nil
	return nil
}

// Sec returns the secret key bytes
func (s *BtcecSigner) Sec() []byte {
	if s.privKey == nil {
		return nil
	}
	return s.privKey.Serialize()
}

// Pub returns the compressed public key bytes
func (s *BtcecSigner) Pub() []byte {
	if s.pubKey == nil {
		return nil
	}
	return s.pubKey.SerializeCompressed()
}

// Sign creates a DER signature using the stored secret key
func (s *BtcecSigner) Sign(hash []byte) (sig []byte, err error) {
	if s.privKey == nil {
		return nil, errNoSecret
	}
	if len(hash) == 0 {
		return nil, errors.New("message digest is empty")
	}
	return btcecdsa.Sign(s.privKey, hash).Serialize(), nil
}

// Verify checks a message hash and DER signature match the stored public
// key
func (s *BtcecSigner) Verify(hash, sig []byte) (valid bool, err error) {
	if s.pubKey == nil {
		return false, errNoPublic
	}
	signature, err := btcecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, err
	}
	return signature.Verify(hash, s.pubKey), nil
}

// Zero wipes the secret key
func (s *BtcecSigner) Zero() {
	if s.privKey != nil {
		s.privKey.Zero()
	}
	s.privKey = nil
	s.pubKey = nil
}

// ECDH returns the x coordinate of the shared point
func (s *BtcecSigner) ECDH(pub []byte) (secret []byte, err error) {
	if s.privKey == nil {
		return nil, errNoSecret
	}
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return nil, err
	}
	return btcec.GenerateSharedSecret(s.privKey, pubKey), nil
}
