package bn

import "fmt"

// FromBytes interprets b as an unsigned integer in the given byte order.
func FromBytes(b []byte, endian Endian) *Int {
	return new(Int).SetBytes(b, endian)
}

// SetBytes sets z to the unsigned integer encoded by b.
func (z *Int) SetBytes(b []byte, endian Endian) *Int {
	z.words = z.words[:0]
	z.negative = false
	z.red = nil
	var acc uint64
	var accBits uint
	for i := range b {
		c := b[i]
		if endian == BigEndian {
			c = b[len(b)-1-i]
		}
		acc |= uint64(c) << accBits
		accBits += 8
		if accBits >= wordBits {
			z.words = append(z.words, uint32(acc&wordMask))
			acc >>= wordBits
			accBits -= wordBits
		}
	}
	if accBits > 0 {
		z.words = append(z.words, uint32(acc))
	}
	return z.strip()
}

// ToArrayLike encodes the magnitude of x into exactly length bytes in the
// given byte order, zero padding as needed.  A zero length selects the
// minimal encoding of at least one byte.  It fails when the value does not
// fit in length bytes.
func (x *Int) ToArrayLike(endian Endian, length int) ([]byte, error) {
	byteLen := x.ByteLen()
	reqLen := length
	if reqLen == 0 {
		reqLen = max(1, byteLen)
	}
	if reqLen < 0 || byteLen > reqLen {
		str := fmt.Sprintf("value needs %d bytes, only %d requested", byteLen,
			reqLen)
		return nil, makeError(ErrBufferTooSmall, str)
	}

	out := make([]byte, reqLen)
	put := func(pos int, c byte) {
		if endian == BigEndian {
			out[reqLen-1-pos] = c
		} else {
			out[pos] = c
		}
	}
	var acc uint64
	var accBits uint
	pos := 0
	for _, w := range x.words {
		acc |= uint64(w) << accBits
		accBits += wordBits
		for accBits >= 8 && pos < reqLen {
			put(pos, byte(acc))
			pos++
			acc >>= 8
			accBits -= 8
		}
	}
	for acc != 0 && pos < reqLen {
		put(pos, byte(acc))
		pos++
		acc >>= 8
	}
	return out, nil
}

// Bytes returns the minimal big-endian encoding of the magnitude of x.
func (x *Int) Bytes() []byte {
	b, _ := x.ToArrayLike(BigEndian, 0)
	return b
}

// FillBytes encodes the magnitude of x big-endian into exactly size bytes.
func (x *Int) FillBytes(size int) ([]byte, error) {
	return x.ToArrayLike(BigEndian, size)
}
