// Package signer abstracts ECDSA signing keys behind a small interface so
// callers can swap the eccore implementation for another backend.
//
// Public keys are compressed SEC1 points, signatures are DER, and ECDH
// returns the big endian x coordinate of the shared point.
package signer

// I is a signing key.  An I initialised with InitPub can only verify.
type I interface {
	// Generate creates a fresh key pair from system entropy.
	Generate() error

	// InitSec sets the secret key from its big endian bytes and derives the
	// public key.
	InitSec(sec []byte) error

	// InitPub sets a verification-only public key from SEC1 bytes.
	InitPub(pub []byte) error

	// Sec returns the secret key bytes, or nil.
	Sec() []byte

	// Pub returns the compressed public key.
	Pub() []byte

	// Sign signs a message digest.
	Sign(hash []byte) (sig []byte, err error)

	// Verify checks a DER signature over a message digest.
	Verify(hash, sig []byte) (valid bool, err error)

	// Zero wipes the secret key.
	Zero()

	// ECDH returns the shared secret with the SEC1 public key pub.
	ECDH(pub []byte) (secret []byte, err error)
}
