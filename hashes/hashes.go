// Package hashes provides the digest functions consumed by the curve and
// signature packages.  Every constructor returns a fresh hash.Hash so it can
// be handed to code that needs a hash factory, such as the HMAC-DRBG.
package hashes

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160"
)

// Func constructs a fresh hash state.
type Func func() hash.Hash

// ErrUnknownHash is returned by ByName for unregistered hash names.
var ErrUnknownHash = errors.New("unknown hash")

// NewSHA256 returns a SHA-256 state backed by sha256-simd.
func NewSHA256() hash.Hash {
	return sha256simd.New()
}

// NewSHA384 returns a SHA-384 state.
func NewSHA384() hash.Hash {
	return sha512.New384()
}

// NewSHA512 returns a SHA-512 state.
func NewSHA512() hash.Hash {
	return sha512.New()
}

// SHA256 returns the SHA-256 digest of the concatenated inputs.
func SHA256(data ...[]byte) [32]byte {
	h := sha256simd.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// SHA512 returns the SHA-512 digest of the concatenated inputs.
func SHA512(data ...[]byte) [64]byte {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [64]byte
	h.Sum(out[:0])
	return out
}

// Hash256 returns SHA-256(SHA-256(data)).
func Hash256(data []byte) [32]byte {
	return chainhash.DoubleHashH(data)
}

// Hash160 returns RIPEMD-160(SHA-256(data)).
func Hash160(data []byte) [20]byte {
	sum := SHA256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	var out [20]byte
	h.Sum(out[:0])
	return out
}

// ByName returns the hash constructor registered under name: sha256, sha384
// or sha512.  Names are case insensitive and may contain a dash.
func ByName(name string) (Func, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "") {
	case "sha256":
		return NewSHA256, nil
	case "sha384":
		return NewSHA384, nil
	case "sha512":
		return NewSHA512, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHash, name)
}
