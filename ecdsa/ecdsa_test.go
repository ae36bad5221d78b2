package ecdsa

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"eccore.mleku.dev/bn"
	"eccore.mleku.dev/curve"
	"eccore.mleku.dev/hashes"
)

func mustEC(t testing.TB, name string) *EC {
	t.Helper()
	ec, err := New(name)
	if err != nil {
		t.Fatalf("New(%q): %v", name, err)
	}
	return ec
}

func hexInt(s string) *bn.Int {
	return bn.MustFromString(s, 16)
}

var shortCurves = []string{"p192", "p224", "p256", "p384", "p521", "secp256k1"}

// randKey returns a key with a private scalar drawn from rng.
func randKey(t testing.TB, ec *EC, rng *rand.Rand) *KeyPair {
	t.Helper()
	k, err := ec.GenKeyPair(rng)
	if err != nil {
		t.Fatalf("GenKeyPair failed: %v", err)
	}
	return k
}

func randDigest(ec *EC, rng *rand.Rand) []byte {
	h := make([]byte, ec.Hash()().Size())
	rng.Read(h)
	return h
}

// wantKind fails the test unless err carries the error kind want.
func wantKind(t testing.TB, err error, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("got error %v, want %v", err, want)
	}
}

// RFC 6979 appendix A.2 vectors for message "sample" (and "test" on
// P-256), with the s values as generated, before low-S normalization.
func TestRFC6979Vectors(t *testing.T) {
	testCases := []struct {
		name     string
		curve    string
		hash     hashes.Func
		priv     string
		msg      string
		r, s     string
		recovery int
	}{
		{
			name: "P-192 SHA-256", curve: "p192", hash: hashes.NewSHA256,
			priv: "6fab034934e4c0fc9ae67f5b5659a9d7d1fefd187ee09fd4", msg: "sample",
			r:        "4b0b8ce98a92866a2820e20aa6b75b56382e0f9bfd5ecb55",
			s:        "ccdb006926ea9565cbadc840829d8c384e06de1f1e381b85",
			recovery: 0,
		},
		{
			name: "P-224 SHA-256", curve: "p224", hash: hashes.NewSHA256,
			priv: "f220266e1105bfe3083e03ec7a3a654651f45e37167e88600bf257c1", msg: "sample",
			r:        "61aa3da010e8e8406c656bc477a7a7189895e7e840cdfe8ff42307ba",
			s:        "bc814050dab5d23770879494f9e0a680dc1af7161991bde692b10101",
			recovery: 1,
		},
		{
			name: "P-256 SHA-256 sample", curve: "p256", hash: hashes.NewSHA256,
			priv: "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721", msg: "sample",
			r:        "efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716",
			s:        "f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8",
			recovery: 0,
		},
		{
			name: "P-256 SHA-256 test", curve: "p256", hash: hashes.NewSHA256,
			priv: "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721", msg: "test",
			r:        "f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d38367",
			s:        "019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
			recovery: 0,
		},
		{
			name: "P-384 SHA-384", curve: "p384", hash: hashes.NewSHA384,
			priv: "6b9d3dad2e1b8c1c05b19875b6659f4de23c3b667bf297ba9aa47740787137d8" +
				"96d5724e4c70a825f872c9ea60d2edf5",
			msg: "sample",
			r: "94edbb92a5ecb8aad4736e56c691916b3f88140666ce9fa73d64c4ea95ad133c" +
				"81a648152e44acf96e36dd1e80fabe46",
			s: "99ef4aeb15f178cea1fe40db2603138f130e740a19624526203b6351d0a3a94f" +
				"a329c145786e679e7b82c71a38628ac8",
			recovery: 1,
		},
		{
			name: "P-521 SHA-512", curve: "p521", hash: hashes.NewSHA512,
			priv: "0fad06daa62ba3b25d2fb40133da757205de67f5bb0018fee8c86e1b68c7e75c" +
				"aa896eb32f1f47c70855836a6d16fcc1466f6d8fbec67db89ec0c08b0e996b83538",
			msg: "sample",
			r: "0c328fafcbd79dd77850370c46325d987cb525569fb63c5d3bc53950e6d4c5f1" +
				"74e25a1ee9017b5d450606add152b534931d7d4e8455cc91f9b15bf05ec36e377fa",
			s: "0617cce7cf5064806c467f678d3b4080d6f1cc50af26ca209417308281b68af2" +
				"82623eaa63e5b5c0723d8b8c37ff0777b1a20f8ccb1dccc43997f1ee0e44da4a67a",
			recovery: 0,
		},
		{
			// A digest shorter than the order exercises bits2int without a
			// shift.
			name: "P-521 SHA-256", curve: "p521", hash: hashes.NewSHA256,
			priv: "0fad06daa62ba3b25d2fb40133da757205de67f5bb0018fee8c86e1b68c7e75c" +
				"aa896eb32f1f47c70855836a6d16fcc1466f6d8fbec67db89ec0c08b0e996b83538",
			msg: "sample",
			r: "1511bb4d675114fe266fc4372b87682baecc01d3cc62cf2303c92b3526012659" +
				"d16876e25c7c1e57648f23b73564d67f61c6f14d527d54972810421e7d87589e1a7",
			s: "04a171143a83163d6df460aaf61522695f207a58b95c0644d87e52aa1a347916" +
				"e4f7a72930b1bc06dbe22ce3f58264afd23704cbb63b29b931f7de6c9d949a7ecfc",
			recovery: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := curve.MustGet(tc.curve).Short()
			if err != nil {
				t.Fatal(err)
			}
			ec := NewWithCurve(c, tc.hash)
			key, err := ec.KeyFromScalar(hexInt(tc.priv))
			if err != nil {
				t.Fatal(err)
			}
			digest := ec.HashMessage([]byte(tc.msg))

			sig, err := ec.Sign(digest, key, &SignOptions{NoLowS: true})
			if err != nil {
				t.Fatalf("failed to sign: %v", err)
			}
			if !sig.R().Eq(hexInt(tc.r)) {
				t.Errorf("r = %s, want %s", sig.R().Hex(), tc.r)
			}
			if !sig.S().Eq(hexInt(tc.s)) {
				t.Errorf("s = %s, want %s", sig.S().Hex(), tc.s)
			}
			recovery, ok := sig.RecoveryParam()
			if !ok || recovery != tc.recovery {
				t.Errorf("recovery = %d (%v), want %d", recovery, ok, tc.recovery)
			}
			if !ec.Verify(digest, sig, key.Public()) {
				t.Error("signature verification failed")
			}

			// The default low-S signature shares r and uses min(s, n-s).
			low, err := ec.Sign(digest, key, nil)
			if err != nil {
				t.Fatalf("failed to sign: %v", err)
			}
			if !low.R().Eq(sig.R()) {
				t.Errorf("low-S r = %s, want %s", low.R().Hex(), sig.R().Hex())
			}
			wantS := hexInt(tc.s)
			if wantS.Cmp(ec.N().Shrn(1)) > 0 {
				wantS = ec.N().Sub(wantS)
			}
			if !low.S().Eq(wantS) {
				t.Errorf("low s = %s, want %s", low.S().Hex(), wantS.Hex())
			}
			if !ec.Verify(digest, low, key.Public()) {
				t.Error("low-S signature verification failed")
			}
		})
	}
}

func TestP256PublicKeyVector(t *testing.T) {
	ec := mustEC(t, "p256")
	pub := "04" +
		"60fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6" +
		"7903fe1008b8bc99a41ae9e95628bc64f2f1b20c2d7e9f5177a3c294d4462299"
	key, err := ec.KeyFromPrivate(hexBytes(t,
		"c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"))
	if err != nil {
		t.Fatal(err)
	}
	if got := key.PublicBytes(false); !bytes.Equal(got, hexBytes(t, pub)) {
		t.Errorf("public key = %x, want %s", got, pub)
	}

	pubOnly, err := ec.KeyFromPublic(hexBytes(t, pub))
	if err != nil {
		t.Fatal(err)
	}
	if pubOnly.Private() != nil || pubOnly.PrivateBytes() != nil {
		t.Error("public-only key has a private part")
	}

	digest := ec.HashMessage([]byte("sample"))
	sig := NewSignature(
		hexInt("efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716"),
		hexInt("f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8"))
	if !pubOnly.Verify(digest, sig) {
		t.Error("signature verification failed")
	}
	if _, ok := sig.RecoveryParam(); ok {
		t.Error("parsed signature should carry no recovery param")
	}

	_, err = pubOnly.Sign(digest, nil)
	wantKind(t, err, ErrInvalidPrivateKey)
}

func TestSignVerify(t *testing.T) {
	rng := rand.New(rand.NewSource(50))
	for _, name := range shortCurves {
		t.Run(name, func(t *testing.T) {
			ec := mustEC(t, name)
			for i := 0; i < 3; i++ {
				key := randKey(t, ec, rng)
				digest := randDigest(ec, rng)

				sig, err := key.Sign(digest, nil)
				if err != nil {
					t.Fatalf("failed to sign: %v", err)
				}
				if !key.Verify(digest, sig) {
					t.Fatal("signature verification failed")
				}
				if sig.S().Cmp(ec.N().Shrn(1)) > 0 {
					t.Error("s is not low")
				}

				again, err := key.Sign(digest, nil)
				if err != nil {
					t.Fatalf("failed to sign: %v", err)
				}
				if !bytes.Equal(sig.ToDER(), again.ToDER()) {
					t.Error("signing is not deterministic")
				}

				// Extra entropy changes the nonce.
				extra, err := key.Sign(digest, &SignOptions{ExtraEntropy: []byte("extra")})
				if err != nil {
					t.Fatalf("failed to sign: %v", err)
				}
				if extra.R().Eq(sig.R()) {
					t.Error("extra entropy did not change the nonce")
				}
				if !key.Verify(digest, extra) {
					t.Error("extra entropy signature verification failed")
				}

				other := bytes.Clone(digest)
				other[0] ^= 0x01
				if key.Verify(other, sig) {
					t.Error("signature verification should fail with wrong message")
				}

				bit := rng.Intn(ec.N().BitLen() - 1)
				if key.Verify(digest, NewSignature(flipBit(sig.R(), bit), sig.S())) {
					t.Errorf("r with bit %d flipped verified", bit)
				}
				if key.Verify(digest, NewSignature(sig.R(), flipBit(sig.S(), bit))) {
					t.Errorf("s with bit %d flipped verified", bit)
				}

				bad := map[string]*Signature{
					"r = 0": NewSignature(bn.New(0), sig.S()),
					"s = 0": NewSignature(sig.R(), bn.New(0)),
					"r + n": NewSignature(sig.R().Add(ec.N()), sig.S()),
					"s < 0": NewSignature(sig.R(), sig.S().Neg()),
				}
				for what, b := range bad {
					if key.Verify(digest, b) {
						t.Errorf("signature with %s verified", what)
					}
				}
				if key.Verify(nil, sig) {
					t.Error("nil digest verified")
				}

				if randKey(t, ec, rng).Verify(digest, sig) {
					t.Error("signature verification should fail with wrong key")
				}
			}
		})
	}
}

func flipBit(v *bn.Int, bit int) *bn.Int {
	return v.Clone().SetBit(bit, !v.TestBit(bit))
}

func TestSignErrors(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	key, err := ec.KeyFromScalar(bn.New(7))
	if err != nil {
		t.Fatal(err)
	}

	_, err = key.Sign(nil, nil)
	wantKind(t, err, ErrInvalidDigest)

	_, err = key.Sign(make([]byte, 32), &SignOptions{
		K: func(int) *bn.Int { return nil },
	})
	wantKind(t, err, ErrNonceExhausted)

	// Candidates 0 and n are rejected and the third one is used.
	var tried []int
	sig, err := key.Sign(make([]byte, 32), &SignOptions{
		K: func(iter int) *bn.Int {
			tried = append(tried, iter)
			switch iter {
			case 0:
				return bn.New(0)
			case 1:
				return ec.N()
			}
			return bn.New(3)
		},
	})
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if !reflect.DeepEqual(tried, []int{0, 1, 2}) {
		t.Errorf("tried candidates %v", tried)
	}
	if !sig.R().Eq(ec.Curve().G().Mul(bn.New(3)).X()) {
		t.Error("r does not come from k = 3")
	}
	if !key.Verify(make([]byte, 32), sig) {
		t.Error("signature verification failed")
	}
}

func TestSignAccept(t *testing.T) {
	ec := mustEC(t, "p256")
	key, err := ec.KeyFromScalar(bn.New(99))
	if err != nil {
		t.Fatal(err)
	}
	digest := ec.HashMessage([]byte("accept"))

	first, err := key.Sign(digest, nil)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	// Refusing the first candidate moves on to the next one in the DRBG
	// stream.
	var seen []*bn.Int
	sig, err := key.Sign(digest, &SignOptions{
		Accept: func(k *bn.Int) bool {
			seen = append(seen, k)
			return len(seen) > 1
		},
	})
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("saw %d candidates, want 2", len(seen))
	}
	if seen[0].Eq(seen[1]) {
		t.Error("second candidate repeats the first")
	}
	if !first.R().Eq(ec.Curve().G().Mul(seen[0]).X().UMod(ec.N())) {
		t.Error("default signature does not use the first candidate")
	}
	if !sig.R().Eq(ec.Curve().G().Mul(seen[1]).X().UMod(ec.N())) {
		t.Error("signature does not use the accepted candidate")
	}
	if !key.Verify(digest, sig) {
		t.Error("signature verification failed")
	}

	_, err = key.Sign(digest, &SignOptions{Accept: func(*bn.Int) bool { return false }})
	wantKind(t, err, ErrNonceExhausted)
}

func TestRecoverPublicKey(t *testing.T) {
	rng := rand.New(rand.NewSource(51))
	for _, name := range shortCurves {
		t.Run(name, func(t *testing.T) {
			ec := mustEC(t, name)
			key := randKey(t, ec, rng)
			digest := randDigest(ec, rng)
			sig, err := key.Sign(digest, nil)
			if err != nil {
				t.Fatalf("failed to sign: %v", err)
			}

			j, ok := sig.RecoveryParam()
			if !ok {
				t.Fatal("fresh signature carries no recovery param")
			}
			q, err := ec.RecoverPublicKey(digest, sig, j)
			if err != nil {
				t.Fatalf("RecoverPublicKey failed: %v", err)
			}
			if !q.Eq(key.Public()) {
				t.Errorf("recovered %v, want %v", q, key.Public())
			}

			got, err := ec.GetKeyRecoveryParam(digest, sig, key.Public())
			if err != nil {
				t.Fatalf("GetKeyRecoveryParam failed: %v", err)
			}
			if got != j {
				t.Errorf("recovery param %d, want %d", got, j)
			}

			// The other parity recovers a different key.
			q, err = ec.RecoverPublicKey(digest, sig, j^1)
			if err != nil {
				t.Fatalf("RecoverPublicKey failed: %v", err)
			}
			if q.Eq(key.Public()) {
				t.Error("opposite parity recovered the signing key")
			}

			_, err = ec.RecoverPublicKey(digest, sig, 4)
			wantKind(t, err, ErrSigInvalidRecoveryCode)
			_, err = ec.RecoverPublicKey(digest, NewSignature(bn.New(0), sig.S()), 0)
			wantKind(t, err, ErrSigRIsZero)

			_, err = ec.GetKeyRecoveryParam(digest, sig, randKey(t, ec, rng).Public())
			wantKind(t, err, ErrRecoveryFailed)
		})
	}

	// On secp256k1 p - n is about 2^128, so r + n is out of range.
	ec := mustEC(t, "secp256k1")
	key := randKey(t, ec, rng)
	sig, err := key.Sign(make([]byte, 32), nil)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	_, err = ec.RecoverPublicKey(make([]byte, 32), sig, 2)
	wantKind(t, err, ErrNoRecoveryCandidate)
}

func TestKeyPair(t *testing.T) {
	ec := mustEC(t, "secp256k1")

	one := make([]byte, 32)
	one[31] = 1
	key, err := ec.KeyFromPrivate(one)
	if err != nil {
		t.Fatal(err)
	}
	g := hexBytes(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	if got := key.PublicBytes(true); !bytes.Equal(got, g) {
		t.Errorf("public key = %x, want %x", got, g)
	}
	if !bytes.Equal(key.PrivateBytes(), one) {
		t.Errorf("private key = %x", key.PrivateBytes())
	}
	if err := key.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if key.EC() != ec {
		t.Error("key does not report its context")
	}

	for _, bad := range []*bn.Int{bn.New(0), ec.N(), ec.N().AddN(5), bn.New(-1)} {
		if _, err := ec.KeyFromScalar(bad); !errors.Is(err, ErrInvalidPrivateKey) {
			t.Errorf("scalar %s: got %v, want %v", bad, err, ErrInvalidPrivateKey)
		}
	}

	_, err = ec.KeyFromPublic([]byte{0x00})
	wantKind(t, err, ErrInvalidPublicKey)
	_, err = ec.KeyFromPublic([]byte{0x05, 0x01})
	wantKind(t, err, curve.ErrUnknownPointFormat)

	// A point of another curve is rejected.
	p256, err := curve.MustGet("p256").Short()
	if err != nil {
		t.Fatal(err)
	}
	_, err = ec.KeyFromPoint(p256.G())
	wantKind(t, err, ErrInvalidPublicKey)

	pub, err := ec.KeyFromPublic(key.PublicBytes(false))
	if err != nil {
		t.Fatal(err)
	}
	if !pub.Public().Eq(key.Public()) {
		t.Error("uncompressed round trip changed the key")
	}
}

func TestGenKeyPair(t *testing.T) {
	rng := rand.New(rand.NewSource(52))
	for _, name := range shortCurves {
		ec := mustEC(t, name)
		a := randKey(t, ec, rng)
		b := randKey(t, ec, rng)
		if err := a.Validate(); err != nil {
			t.Errorf("%s: Validate failed: %v", name, err)
		}
		if a.Private().Eq(b.Private()) {
			t.Errorf("%s: two keys from the same stream are equal", name)
		}
		if !ec.inRange(a.Private()) {
			t.Errorf("%s: private key out of range", name)
		}
	}

	// The same entropy yields the same key.
	ec := mustEC(t, "p256")
	a, err := ec.GenKeyPair(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ec.GenKeyPair(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Private().Eq(b.Private()) {
		t.Error("same entropy gave different keys")
	}

	if _, err := ec.GenKeyPair(bytes.NewReader(make([]byte, 5))); err == nil {
		t.Error("short entropy source accepted")
	}
}

func TestConcurrentSign(t *testing.T) {
	ec := mustEC(t, "secp256k1")
	key, err := ec.KeyFromScalar(bn.New(123456789))
	if err != nil {
		t.Fatal(err)
	}
	digest := ec.HashMessage([]byte("concurrent"))
	want, err := key.Sign(digest, nil)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, err := key.Sign(digest, nil)
			if err != nil {
				errs <- err
				return
			}
			if !sig.IsEqual(want) || !key.Verify(digest, sig) {
				errs <- errors.New("signature mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func benchmarkSign(b *testing.B, name string) {
	ec := mustEC(b, name)
	key, err := ec.KeyFromScalar(bn.MustFromString("1234567890abcdef", 16))
	if err != nil {
		b.Fatal(err)
	}
	digest := ec.HashMessage([]byte("benchmark"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := key.Sign(digest, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkVerify(b *testing.B, name string) {
	ec := mustEC(b, name)
	key, err := ec.KeyFromScalar(bn.MustFromString("1234567890abcdef", 16))
	if err != nil {
		b.Fatal(err)
	}
	digest := ec.HashMessage([]byte("benchmark"))
	sig, err := key.Sign(digest, nil)
	if err != nil {
		b.Fatal(err)
	}
	pub := key.Public()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !ec.Verify(digest, sig, pub) {
			b.Fatal("verify failed")
		}
	}
}

func BenchmarkSignSecp256k1(b *testing.B)   { benchmarkSign(b, "secp256k1") }
func BenchmarkSignP256(b *testing.B)        { benchmarkSign(b, "p256") }
func BenchmarkVerifySecp256k1(b *testing.B) { benchmarkVerify(b, "secp256k1") }
func BenchmarkVerifyP256(b *testing.B)      { benchmarkVerify(b, "p256") }
