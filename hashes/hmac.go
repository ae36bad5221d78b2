package hashes

import "hash"

// HMAC is an RFC 2104 keyed hash over any block hash.  It implements
// hash.Hash; Sum leaves the running state untouched.
type HMAC struct {
	inner, outer hash.Hash
	opad         []byte
}

// NewHMAC returns an HMAC keyed with key over the hash built by h.  Keys
// longer than the block size are hashed first.
func NewHMAC(h Func, key []byte) *HMAC {
	inner, outer := h(), h()
	blockSize := inner.BlockSize()

	rkey := make([]byte, blockSize)
	if len(key) > blockSize {
		kh := h()
		kh.Write(key)
		kh.Sum(rkey[:0])
	} else {
		copy(rkey, key)
	}

	m := &HMAC{inner: inner, outer: outer, opad: make([]byte, blockSize)}
	for i := range rkey {
		m.opad[i] = rkey[i] ^ 0x5c
		rkey[i] ^= 0x36
	}
	m.inner.Write(rkey)
	clear(rkey)
	return m
}

// Write adds data to the running MAC.
func (m *HMAC) Write(p []byte) (int, error) {
	return m.inner.Write(p)
}

// Sum appends the MAC of the data written so far to b.
func (m *HMAC) Sum(b []byte) []byte {
	in := m.inner.Sum(nil)
	m.outer.Reset()
	m.outer.Write(m.opad)
	m.outer.Write(in)
	return m.outer.Sum(b)
}

// Reset restarts the MAC with the same key.
func (m *HMAC) Reset() {
	ipad := make([]byte, len(m.opad))
	for i := range ipad {
		ipad[i] = m.opad[i] ^ 0x5c ^ 0x36
	}
	m.inner.Reset()
	m.inner.Write(ipad)
	clear(ipad)
}

// Size returns the MAC length in bytes.
func (m *HMAC) Size() int { return m.outer.Size() }

// BlockSize returns the block size of the underlying hash.
func (m *HMAC) BlockSize() int { return m.inner.BlockSize() }

// Clear wipes the key material.  The HMAC must not be used afterwards.
func (m *HMAC) Clear() {
	clear(m.opad)
	m.inner.Reset()
	m.outer.Reset()
}

// MAC computes HMAC(key, data[0] || data[1] || ...) in one call.
func MAC(h Func, key []byte, data ...[]byte) []byte {
	m := NewHMAC(h, key)
	for _, d := range data {
		m.Write(d)
	}
	out := m.Sum(nil)
	m.Clear()
	return out
}
