package ecdsa

import (
	"fmt"

	"eccore.mleku.dev/bn"
	"eccore.mleku.dev/curve"
)

const (
	// asn1SequenceID is the ASN.1 identifier for a sequence and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1IntegerID = 0x02

	// asn1LongLen1 introduces a DER length carried in one following byte.
	asn1LongLen1 = 0x81

	// compactSigMagicOffset is a value used when creating the compact
	// signature recovery code inherited from Bitcoin and has no meaning, but
	// has been retained for compatibility.
	compactSigMagicOffset = 27

	// compactSigCompPubKey is a value used when creating the compact
	// signature recovery code to indicate the original public key was
	// compressed.
	compactSigCompPubKey = 4
)

// Signature is an ECDSA signature (r, s).  Signatures made by Sign also
// carry the public key recovery code.
type Signature struct {
	r, s        *bn.Int
	recovery    int
	hasRecovery bool
}

// NewSignature returns the signature with components r and s.  The values
// are not range checked; Verify rejects out of range components.
func NewSignature(r, s *bn.Int) *Signature {
	return &Signature{r: r.Clone(), s: s.Clone()}
}

// R returns the r component.
func (sig *Signature) R() *bn.Int { return sig.r.Clone() }

// S returns the s component.
func (sig *Signature) S() *bn.Int { return sig.s.Clone() }

// RecoveryParam returns the public key recovery code, if known.
func (sig *Signature) RecoveryParam() (int, bool) {
	return sig.recovery, sig.hasRecovery
}

// IsEqual reports whether both signatures have the same r and s.
func (sig *Signature) IsEqual(other *Signature) bool {
	return sig.r.Eq(other.r) && sig.s.Eq(other.s)
}

// derInt returns the minimal DER content bytes of a non-negative integer.
func derInt(v *bn.Int) []byte {
	b := v.Bytes()
	if b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return b
}

func appendDERLen(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}
	return append(dst, asn1LongLen1, byte(n))
}

// ToDER returns the signature in the Distinguished Encoding Rules format:
//
//	0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
//
// Integers are minimal and big endian, with a leading zero only when the
// high bit of the first byte would otherwise be set.  Lengths of 128 and
// more, which only the larger curves need, use the 0x81 long form.
func (sig *Signature) ToDER() []byte {
	rb, sb := derInt(sig.r), derInt(sig.s)

	body := make([]byte, 0, len(rb)+len(sb)+6)
	body = append(body, asn1IntegerID)
	body = appendDERLen(body, len(rb))
	body = append(body, rb...)
	body = append(body, asn1IntegerID)
	body = appendDERLen(body, len(sb))
	body = append(body, sb...)

	b := make([]byte, 0, len(body)+3)
	b = append(b, asn1SequenceID)
	b = appendDERLen(b, len(body))
	return append(b, body...)
}

// ToCompact returns r || s with each component big endian in size bytes.
func (sig *Signature) ToCompact(size int) ([]byte, error) {
	rb, err := sig.r.FillBytes(size)
	if err != nil {
		return nil, err
	}
	sb, err := sig.s.FillBytes(size)
	if err != nil {
		return nil, err
	}
	return append(rb, sb...), nil
}

// scalarKinds names the error kinds reported for one signature component.
type scalarKinds struct {
	name                string
	id, length, zeroLen ErrorKind
	negative, padding   ErrorKind
	zero, tooBig        ErrorKind
}

var (
	rKinds = scalarKinds{
		name:     "R",
		id:       ErrSigInvalidRIntID,
		length:   ErrSigInvalidRLen,
		zeroLen:  ErrSigZeroRLen,
		negative: ErrSigNegativeR,
		padding:  ErrSigTooMuchRPadding,
		zero:     ErrSigRIsZero,
		tooBig:   ErrSigRTooBig,
	}
	sKinds = scalarKinds{
		name:     "S",
		id:       ErrSigInvalidSIntID,
		length:   ErrSigInvalidSLen,
		zeroLen:  ErrSigZeroSLen,
		negative: ErrSigNegativeS,
		padding:  ErrSigTooMuchSPadding,
		zero:     ErrSigSIsZero,
		tooBig:   ErrSigSTooBig,
	}
)

// checkScalar enforces 1 <= v < n.
func (ec *EC) checkScalar(v *bn.Int, k scalarKinds) error {
	if v.Sign() <= 0 {
		return signatureError(k.zero, fmt.Sprintf("invalid signature: %s is 0", k.name))
	}
	if v.Cmp(ec.n) >= 0 {
		return signatureError(k.tooBig,
			fmt.Sprintf("invalid signature: %s >= group order", k.name))
	}
	return nil
}

// maxDERLen is the length of a DER signature whose components both need
// the full scalar width plus a sign byte.
func (ec *EC) maxDERLen() int {
	body := 2 * (2 + ec.scalarLen + 1)
	if body < 0x80 {
		return body + 2
	}
	return body + 3
}

// parseDERLen reads a DER length at off.  Only the short form and the one
// byte long form are accepted, each only where it is minimal.
func parseDERLen(b []byte, off int, missing ErrorKind) (int, int, error) {
	if off >= len(b) {
		return 0, 0, signatureError(missing, "malformed signature: length missing")
	}
	l := int(b[off])
	off++
	if l < 0x80 {
		return l, off, nil
	}
	if l != asn1LongLen1 {
		return 0, 0, signatureError(ErrSigNonMinimalLen,
			fmt.Sprintf("malformed signature: unsupported length form %#x", l))
	}
	if off >= len(b) {
		return 0, 0, signatureError(missing, "malformed signature: length missing")
	}
	l = int(b[off])
	off++
	if l < 0x80 {
		return 0, 0, signatureError(ErrSigNonMinimalLen,
			fmt.Sprintf("malformed signature: length %d in long form", l))
	}
	return l, off, nil
}

// parseDERInt reads one ASN.1 integer at off and range checks it.
func (ec *EC) parseDERInt(b []byte, off int, k scalarKinds) (*bn.Int, int, error) {
	if off >= len(b) || b[off] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: %s integer marker missing", k.name)
		if off < len(b) {
			str = fmt.Sprintf("malformed signature: %s integer marker: %#x != %#x",
				k.name, b[off], asn1IntegerID)
		}
		return nil, 0, signatureError(k.id, str)
	}
	l, off, err := parseDERLen(b, off+1, k.length)
	if err != nil {
		return nil, 0, err
	}
	if l == 0 {
		return nil, 0, signatureError(k.zeroLen,
			fmt.Sprintf("malformed signature: %s length is zero", k.name))
	}
	if off+l > len(b) {
		return nil, 0, signatureError(k.length,
			fmt.Sprintf("malformed signature: invalid %s length", k.name))
	}
	v := b[off : off+l]

	// The integer must not be negative, and a leading zero is only allowed
	// in front of a byte with the high bit set.
	if v[0]&0x80 != 0 {
		return nil, 0, signatureError(k.negative,
			fmt.Sprintf("malformed signature: %s is negative", k.name))
	}
	if l > 1 && v[0] == 0x00 && v[1]&0x80 == 0 {
		return nil, 0, signatureError(k.padding,
			fmt.Sprintf("malformed signature: %s value has too much padding", k.name))
	}

	x := bn.FromBytes(v, bn.BigEndian)
	if err := ec.checkScalar(x, k); err != nil {
		return nil, 0, err
	}
	return x, off + l, nil
}

// ParseDER parses a strict DER signature and requires r and s in
// [1, n-1].  BER relaxations such as padded integers, non-minimal lengths
// or trailing bytes are rejected.
func (ec *EC) ParseDER(sig []byte) (*Signature, error) {
	// minSigLen is the length when both R and S are 1 byte each.
	const minSigLen = 8

	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			minSigLen)
		return nil, signatureError(ErrSigTooShort, str)
	}
	if maxSigLen := ec.maxDERLen(); sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			maxSigLen)
		return nil, signatureError(ErrSigTooLong, str)
	}

	if sig[0] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[0])
		return nil, signatureError(ErrSigInvalidSeqID, str)
	}
	dataLen, off, err := parseDERLen(sig, 1, ErrSigInvalidDataLen)
	if err != nil {
		return nil, err
	}
	if dataLen != sigLen-off {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			dataLen, sigLen-off)
		return nil, signatureError(ErrSigInvalidDataLen, str)
	}

	r, off, err := ec.parseDERInt(sig, off, rKinds)
	if err != nil {
		return nil, err
	}
	s, off, err := ec.parseDERInt(sig, off, sKinds)
	if err != nil {
		return nil, err
	}
	if off != sigLen {
		str := fmt.Sprintf("malformed signature: %d bytes after S", sigLen-off)
		return nil, signatureError(ErrSigTrailingData, str)
	}
	return &Signature{r: r, s: s}, nil
}

// CompactLen is the length of r || s compact signatures.
func (ec *EC) CompactLen() int { return 2 * ec.scalarLen }

// ParseCompact parses r || s, each ScalarLen bytes big endian, and requires
// both in [1, n-1].
func (ec *EC) ParseCompact(sig []byte) (*Signature, error) {
	if len(sig) != ec.CompactLen() {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(sig), ec.CompactLen())
		return nil, signatureError(ErrSigInvalidLen, str)
	}
	r := bn.FromBytes(sig[:ec.scalarLen], bn.BigEndian)
	s := bn.FromBytes(sig[ec.scalarLen:], bn.BigEndian)
	if err := ec.checkScalar(r, rKinds); err != nil {
		return nil, err
	}
	if err := ec.checkScalar(s, sKinds); err != nil {
		return nil, err
	}
	return &Signature{r: r, s: s}, nil
}

// SignCompactRecoverable signs hash and returns
//
//	<1-byte recovery code><R><S>
//
// where the code is 27 + the public key recovery code, plus 4 when
// compressed says the public key is shared in compressed form.
func (ec *EC) SignCompactRecoverable(hash []byte, key *KeyPair, compressed bool) ([]byte, error) {
	sig, err := ec.Sign(hash, key, nil)
	if err != nil {
		return nil, err
	}
	code := byte(compactSigMagicOffset + sig.recovery)
	if compressed {
		code += compactSigCompPubKey
	}
	body, err := sig.ToCompact(ec.scalarLen)
	if err != nil {
		return nil, err
	}
	return append([]byte{code}, body...), nil
}

// RecoverCompact recovers the public key from a signature made by
// SignCompactRecoverable, and reports whether the key was marked
// compressed.
func (ec *EC) RecoverCompact(signature, hash []byte) (*curve.Point, bool, error) {
	if len(signature) != 1+ec.CompactLen() {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(signature), 1+ec.CompactLen())
		return nil, false, signatureError(ErrSigInvalidLen, str)
	}

	const (
		minValidCode = compactSigMagicOffset
		maxValidCode = compactSigMagicOffset + compactSigCompPubKey + 3
	)
	code := signature[0]
	if code < minValidCode || code > maxValidCode {
		str := fmt.Sprintf("invalid signature: recovery code %d", code)
		return nil, false, signatureError(ErrSigInvalidRecoveryCode, str)
	}
	code -= compactSigMagicOffset
	compressed := code&compactSigCompPubKey != 0

	sig, err := ec.ParseCompact(signature[1:])
	if err != nil {
		return nil, false, err
	}
	q, err := ec.RecoverPublicKey(hash, sig, int(code&3))
	if err != nil {
		return nil, false, err
	}
	return q, compressed, nil
}
