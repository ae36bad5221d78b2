package curve

import (
	"fmt"

	"eccore.mleku.dev/bn"
)

// X25519Size is the length of X25519 scalars and u coordinates.
const X25519Size = 32

var x25519Basepoint = [X25519Size]byte{9}

// X25519 computes the RFC 7748 function over curve25519: the clamped
// scalar times the point with little endian u coordinate.  The top bit of
// u is ignored and non-canonical values are reduced.  An all-zero result,
// which means the input had low order, is an error.
func X25519(scalar, u []byte) ([]byte, error) {
	if len(scalar) != X25519Size {
		return nil, makeError(ErrInvalidScalar,
			fmt.Sprintf("scalar must be %d bytes, got %d", X25519Size, len(scalar)))
	}
	if len(u) != X25519Size {
		return nil, makeError(ErrUnknownPointFormat,
			fmt.Sprintf("u coordinate must be %d bytes, got %d", X25519Size, len(u)))
	}
	c, err := MustGet("curve25519").Mont()
	if err != nil {
		return nil, err
	}

	var k, uu [X25519Size]byte
	copy(k[:], scalar)
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
	copy(uu[:], u)
	uu[31] &= 127

	x := bn.FromBytes(uu[:], bn.LittleEndian).ToRed(c.red)
	r := c.point(x, c.one).Mul(bn.FromBytes(k[:], bn.LittleEndian))
	clear(k[:])

	out, err := r.X().ToArrayLike(bn.LittleEndian, X25519Size)
	if err != nil {
		return nil, err
	}
	var acc byte
	for _, b := range out {
		acc |= b
	}
	if acc == 0 {
		return nil, makeError(ErrLowOrderPoint, "x25519 result is the all-zero value")
	}
	return out, nil
}

// X25519Base returns X25519(scalar, 9), the public key for scalar.
func X25519Base(scalar []byte) ([]byte, error) {
	return X25519(scalar, x25519Basepoint[:])
}
