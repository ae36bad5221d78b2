package signer

import (
	"testing"
)

// These benchmarks compare the two signer implementations on the same key,
// digest and peer.

var benchMsghash = []byte{
	0x4b, 0x68, 0x8d, 0xf4, 0x0b, 0xce, 0xdb, 0xe6,
	0x41, 0xdd, 0xb1, 0x6f, 0xf0, 0xa1, 0x84, 0x2d,
	0x9c, 0x67, 0xea, 0x1c, 0x3b, 0xf6, 0x3f, 0x3e,
	0x04, 0x71, 0xba, 0xa6, 0x64, 0x53, 0x1d, 0x1a,
}

type benchPair struct {
	signer, peer I
	sig          []byte
}

func newBenchPair(b *testing.B, mk func() I) *benchPair {
	b.Helper()
	s := mk()
	if err := s.InitSec(testSeckey()); err != nil {
		b.Fatalf("failed to create signer: %v", err)
	}
	peer := mk()
	if err := peer.Generate(); err != nil {
		b.Fatalf("failed to create peer: %v", err)
	}
	sig, err := s.Sign(benchMsghash)
	if err != nil {
		b.Fatalf("failed to sign: %v", err)
	}
	return &benchPair{signer: s, peer: peer, sig: sig}
}

func eccoreSigner() I {
	s, err := NewECDSASigner("secp256k1")
	if err != nil {
		panic(err)
	}
	return s
}

func btcecSigner() I { return NewBtcecSigner() }

func benchmarkPubkeyDerivation(b *testing.B, mk func() I) {
	seckey := testSeckey()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := mk()
		if err := s.InitSec(seckey); err != nil {
			b.Fatalf("failed to create signer: %v", err)
		}
		_ = s.Pub()
	}
}

func benchmarkSign(b *testing.B, mk func() I) {
	p := newBenchPair(b, mk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.signer.Sign(benchMsghash); err != nil {
			b.Fatalf("failed to sign: %v", err)
		}
	}
}

func benchmarkVerify(b *testing.B, mk func() I) {
	p := newBenchPair(b, mk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		valid, err := p.signer.Verify(benchMsghash, p.sig)
		if err != nil {
			b.Fatalf("verification error: %v", err)
		}
		if !valid {
			b.Fatalf("verification failed")
		}
	}
}

func benchmarkECDH(b *testing.B, mk func() I) {
	p := newBenchPair(b, mk)
	pub := p.peer.Pub()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.signer.ECDH(pub); err != nil {
			b.Fatalf("ECDH failed: %v", err)
		}
	}
}

func BenchmarkPubkeyDerivation_ECDSA(b *testing.B) { benchmarkPubkeyDerivation(b, eccoreSigner) }
func BenchmarkPubkeyDerivation_Btcec(b *testing.B) { benchmarkPubkeyDerivation(b, btcecSigner) }
func BenchmarkSign_ECDSA(b *testing.B)             { benchmarkSign(b, eccoreSigner) }
func BenchmarkSign_Btcec(b *testing.B)             { benchmarkSign(b, btcecSigner) }
func BenchmarkVerify_ECDSA(b *testing.B)           { benchmarkVerify(b, eccoreSigner) }
func BenchmarkVerify_Btcec(b *testing.B)           { benchmarkVerify(b, btcecSigner) }
func BenchmarkECDH_ECDSA(b *testing.B)             { benchmarkECDH(b, eccoreSigner) }
func BenchmarkECDH_Btcec(b *testing.B)             { benchmarkECDH(b, btcecSigner) }
