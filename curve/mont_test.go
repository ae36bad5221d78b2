package curve

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"golang.org/x/crypto/curve25519"

	"eccore.mleku.dev/bn"
)

func mustMont(t testing.TB) *Mont {
	t.Helper()
	c, err := MustGet("curve25519").Mont()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestX25519Vectors(t *testing.T) {
	// RFC 7748 section 5.2.
	testCases := []struct {
		scalar, u, out string
	}{
		{
			scalar: "a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4",
			u:      "e6db6867583030db3594c1a424b15f7c726624ec26b3353b10a903a6d0ab1c4c",
			out:    "c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552",
		},
		{
			scalar: "4b66e9d4d1b4673c5ad22691957d6af5c11b6421e0ea01d42ca4169e7918ba0d",
			u:      "e5210f12786811d3f4b7959d0538ae2c31dbe7106fc03c3efc4cd549c715a493",
			out:    "95cbde9476e8907d7ade45cb4b873f88b595a68799fa152f6f8f7647aac7957c",
		},
	}
	for i, tc := range testCases {
		got, err := X25519(mustHex(t, tc.scalar), mustHex(t, tc.u))
		if err != nil {
			t.Fatalf("vector %d: %v", i, err)
		}
		if !bytes.Equal(got, mustHex(t, tc.out)) {
			t.Errorf("vector %d: got %x, want %s", i, got, tc.out)
		}
	}
}

func TestX25519AgainstXCrypto(t *testing.T) {
	rng := rand.New(rand.NewSource(30))
	for i := 0; i < 16; i++ {
		scalar := make([]byte, 32)
		rng.Read(scalar)

		pub, err := X25519Base(scalar)
		if err != nil {
			t.Fatal(err)
		}
		want, err := curve25519.X25519(scalar, curve25519.Basepoint)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(pub, want) {
			t.Fatalf("base: got %x, want %x", pub, want)
		}

		// Arbitrary u values, including twist points and the top bit set.
		u := make([]byte, 32)
		rng.Read(u)
		got, err := X25519(scalar, u)
		if err != nil {
			t.Fatal(err)
		}
		want, err = curve25519.X25519(scalar, u)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("u=%x: got %x, want %x", u, got, want)
		}
	}
}

func TestX25519Errors(t *testing.T) {
	scalar := bytes.Repeat([]byte{1}, 32)
	if _, err := X25519(scalar, make([]byte, 32)); !errors.Is(err, ErrLowOrderPoint) {
		t.Errorf("u = 0: got %v", err)
	}
	if _, err := X25519(scalar[:31], make([]byte, 32)); !errors.Is(err, ErrInvalidScalar) {
		t.Errorf("short scalar: got %v", err)
	}
	if _, err := X25519(scalar, make([]byte, 33)); !errors.Is(err, ErrUnknownPointFormat) {
		t.Errorf("long u: got %v", err)
	}
}

func TestMontLadder(t *testing.T) {
	c := mustMont(t)
	g := c.G()
	if !g.Mul(c.N()).IsInfinity() {
		t.Error("n*G is not infinity")
	}

	// Ladder against repeated doubling and differential addition.
	g2 := g.Dbl()
	g3 := g2.DiffAdd(g, g)
	if !g.Mul(bn.New(2)).Eq(g2) || !g.Mul(bn.New(3)).Eq(g3) {
		t.Error("ladder disagrees with Dbl/DiffAdd")
	}
	if !g.Mul(bn.New(-3)).Eq(g3) {
		t.Error("x(-3G) differs from x(3G)")
	}
	g5 := g3.DiffAdd(g2, g)
	if !g.Mul(bn.New(5)).Eq(g5) {
		t.Error("5G mismatch")
	}
	if g.Mul(bn.New(5)).Eq(g3) {
		t.Error("5G equals 3G")
	}
	if !c.Validate(g5.normalize()) {
		t.Error("5G is not on the curve")
	}
	if !c.Infinity().Mul(bn.New(7)).IsInfinity() {
		t.Error("k*infinity is not infinity")
	}
	if c.Infinity().X().Sign() != 0 {
		t.Error("x of infinity should be zero")
	}
}

func TestMontOrderTwoPoint(t *testing.T) {
	c := mustMont(t)
	p, err := c.NewPoint(bn.New(0))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Mul(bn.New(5)); !got.Eq(p) || got.IsInfinity() {
		t.Errorf("odd multiple of (0, 0) = %v", got)
	}
	if got := p.Mul(bn.New(4)); !got.IsInfinity() {
		t.Errorf("even multiple of (0, 0) = %v", got)
	}
}

func TestMontCodec(t *testing.T) {
	c := mustMont(t)
	p := c.G().Mul(bn.New(1234567))
	enc := p.Encode()
	if len(enc) != 32 {
		t.Fatalf("encoding length %d", len(enc))
	}
	dec, err := c.DecodePoint(enc)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Eq(p) {
		t.Errorf("round trip gave %v, want %v", dec, p)
	}

	if _, err := c.DecodePoint(enc[:31]); !errors.Is(err, ErrUnknownPointFormat) {
		t.Errorf("short encoding: %v", err)
	}
	twist := make([]byte, 32)
	twist[31] = 2
	if _, err := c.DecodePoint(twist); !errors.Is(err, ErrPointNotOnCurve) {
		t.Errorf("twist point: %v", err)
	}
	if _, err := c.DecodePoint(bytes.Repeat([]byte{0xff}, 32)); !errors.Is(err, ErrCoordinateTooBig) {
		t.Errorf("x above p: %v", err)
	}
}
