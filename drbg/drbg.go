// Package drbg implements the HMAC-DRBG of NIST SP 800-90A over an arbitrary
// hash, which is the generator RFC 6979 builds deterministic ECDSA nonces
// from.
//
// Seeding with the private key as entropy, the reduced message digest as
// nonce and optional extra data as personalization string yields exactly
// the RFC 6979 section 3.2 nonce stream: the first Generate call returns
// the first candidate and every further call returns the next candidate
// of step h.3.
package drbg

import (
	"fmt"

	"eccore.mleku.dev/hashes"
	"eccore.mleku.dev/internal/logger"
)

const (
	// ReseedInterval is the number of Generate calls allowed between
	// reseeds.
	ReseedInterval = uint64(1) << 48

	// DefaultMinEntropy is the minimum entropy length in bytes used when
	// Config.MinEntropy is zero, matching the 192 bit security strength of
	// the SHA-2 family.
	DefaultMinEntropy = 24
)

// Config holds the seed material for a new generator.
type Config struct {
	// Hash constructs the underlying hash.  Required.
	Hash hashes.Func

	Entropy []byte
	Nonce   []byte
	Pers    []byte

	// MinEntropy is the minimum accepted length of Entropy in bytes.
	MinEntropy int
}

// DRBG is an HMAC-DRBG instance.  It is not safe for concurrent use.
type DRBG struct {
	hash       hashes.Func
	k, v       []byte
	reseed     uint64
	minEntropy int
	cleared    bool
}

// New instantiates a generator from cfg.
func New(cfg Config) (*DRBG, error) {
	if cfg.Hash == nil {
		return nil, makeError(ErrMissingHash, "no hash constructor configured")
	}
	d := &DRBG{hash: cfg.Hash, minEntropy: cfg.MinEntropy}
	if d.minEntropy <= 0 {
		d.minEntropy = DefaultMinEntropy
	}
	if err := d.checkEntropy(cfg.Entropy); err != nil {
		return nil, err
	}

	size := cfg.Hash().Size()
	d.k = make([]byte, size)
	d.v = make([]byte, size)
	for i := range d.v {
		d.v[i] = 0x01
	}

	d.update(cfg.Entropy, cfg.Nonce, cfg.Pers)
	d.reseed = 1
	return d, nil
}

func (d *DRBG) checkEntropy(entropy []byte) error {
	if len(entropy) < d.minEntropy {
		return makeError(ErrEntropyTooShort,
			fmt.Sprintf("entropy must be at least %d bytes, got %d",
				d.minEntropy, len(entropy)))
	}
	return nil
}

func (d *DRBG) mac() *hashes.HMAC {
	return hashes.NewHMAC(d.hash, d.k)
}

// macOf returns HMAC_K(data).
func (d *DRBG) macOf(data []byte) []byte {
	m := d.mac()
	m.Write(data)
	return m.Sum(nil)
}

// update runs the HMAC-DRBG update function over the concatenation of
// seed.  With no seed material only the first half runs.
func (d *DRBG) update(seed ...[]byte) {
	empty := true
	for _, s := range seed {
		if len(s) > 0 {
			empty = false
			break
		}
	}

	m := d.mac()
	m.Write(d.v)
	m.Write([]byte{0x00})
	for _, s := range seed {
		m.Write(s)
	}
	d.k = m.Sum(nil)
	d.v = d.macOf(d.v)
	if empty {
		return
	}

	m = d.mac()
	m.Write(d.v)
	m.Write([]byte{0x01})
	for _, s := range seed {
		m.Write(s)
	}
	d.k = m.Sum(nil)
	d.v = d.macOf(d.v)
}

// Reseed mixes fresh entropy and optional additional input into the state
// and resets the reseed counter.
func (d *DRBG) Reseed(entropy, add []byte) error {
	if d.cleared {
		return makeError(ErrCleared, "generator state has been cleared")
	}
	if err := d.checkEntropy(entropy); err != nil {
		return err
	}
	d.update(entropy, add)
	d.reseed = 1
	return nil
}

// Generate returns n pseudorandom bytes.  Optional additional input is
// mixed into the state before and after generation.
func (d *DRBG) Generate(n int, add []byte) ([]byte, error) {
	if d.cleared {
		return nil, makeError(ErrCleared, "generator state has been cleared")
	}
	if d.reseed > ReseedInterval {
		logger.L().Debug().Uint64("requests", d.reseed).
			Msg("hmac-drbg reseed limit reached")
		return nil, makeError(ErrReseedRequired, "reseed is required")
	}
	if len(add) > 0 {
		d.update(add)
	}

	out := make([]byte, 0, n+len(d.v))
	for len(out) < n {
		d.v = d.macOf(d.v)
		out = append(out, d.v...)
	}

	d.update(add)
	d.reseed++
	return out[:n], nil
}

// Read fills p with generator output, so a DRBG can stand in for an
// io.Reader of random bytes.
func (d *DRBG) Read(p []byte) (int, error) {
	b, err := d.Generate(len(p), nil)
	if err != nil {
		return 0, err
	}
	return copy(p, b), nil
}

// Clear zeroes the internal state.  Generate and Reseed fail with
// ErrCleared afterwards.
func (d *DRBG) Clear() {
	clear(d.k)
	clear(d.v)
	d.reseed = 0
	d.cleared = true
}
