package curve

import (
	"bytes"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"math/big"
	"math/rand"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/davecgh/go-spew/spew"

	"eccore.mleku.dev/bn"
)

func mustShort(t testing.TB, name string) *Short {
	t.Helper()
	p, err := Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	c, err := p.Short()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// bareG returns the generator without precomputed tables.
func bareG(t testing.TB, c *Short) *Point {
	t.Helper()
	g, err := c.NewPoint(c.G().X(), c.G().Y())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

var shortPresets = []string{"p192", "p224", "p256", "p384", "p521", "secp256k1"}

func TestShortPresets(t *testing.T) {
	for _, name := range shortPresets {
		t.Run(name, func(t *testing.T) {
			c := mustShort(t, name)
			if !c.Validate(c.G()) {
				t.Fatal("generator is not on the curve")
			}
			if r := c.G().Mul(c.N()); !r.IsInfinity() {
				t.Errorf("n*G = %v, want infinity", r)
			}
			if r := bareG(t, c).Mul(c.N()); !r.IsInfinity() {
				t.Errorf("n*G without tables = %v, want infinity", r)
			}
			if c.Family() != FamilyShort || c.Name() != name {
				t.Errorf("unexpected identity %v %q", c.Family(), c.Name())
			}
		})
	}
}

func TestSecp256k1Generator(t *testing.T) {
	c := Secp256k1()
	want := mustHex(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	got := c.G().Mul(bn.New(1)).Encode(true)
	if !bytes.Equal(got, want) {
		t.Fatalf("1*G encodes to %x, want %x", got, want)
	}
	if !c.HasEndomorphism() {
		t.Error("secp256k1 should use the endomorphism")
	}
}

func TestShortMulAgainstStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	testCases := []struct {
		name  string
		curve elliptic.Curve
	}{
		{"p224", elliptic.P224()},
		{"p256", elliptic.P256()},
		{"p384", elliptic.P384()},
		{"p521", elliptic.P521()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := mustShort(t, tc.name)
			g := bareG(t, c)
			for i := 0; i < 8; i++ {
				k := randScalar(rng, c.N().BitLen()-1)
				kb := k.Bytes()

				wx, wy := tc.curve.ScalarBaseMult(kb)
				for _, p := range []*Point{c.G().Mul(k), g.Mul(k)} {
					if bigOf(p.X()).Cmp(wx) != 0 || bigOf(p.Y()).Cmp(wy) != 0 {
						t.Fatalf("k=%s: got %v, want (%x, %x)", k.Hex(), p, wx, wy)
					}
				}

				// Multiply a point that is not the generator.
				q := g.Mul(bn.New(int64(i + 2)))
				qx, qy := tc.curve.ScalarMult(bigOf(q.X()), bigOf(q.Y()), kb)
				r := q.Mul(k)
				if bigOf(r.X()).Cmp(qx) != 0 || bigOf(r.Y()).Cmp(qy) != 0 {
					t.Fatalf("k*Q mismatch for k=%s", k.Hex())
				}
			}
		})
	}
}

func TestSecp256k1AgainstBtcec(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	c := Secp256k1()
	g := bareG(t, c)
	for i := 0; i < 16; i++ {
		priv := make([]byte, 32)
		rng.Read(priv)
		priv[0] &= 0x7f
		_, pub := btcec.PrivKeyFromBytes(priv)
		want := pub.SerializeCompressed()

		k := bn.FromBytes(priv, bn.BigEndian)
		if got := c.G().Mul(k).Encode(true); !bytes.Equal(got, want) {
			t.Fatalf("comb: priv %x: got %x, want %x", priv, got, want)
		}
		if got := g.Mul(k).Encode(true); !bytes.Equal(got, want) {
			t.Fatalf("glv: priv %x: got %x, want %x", priv, got, want)
		}
		if got := c.wnafMul(g, c.JInfinity(), k).(*JPoint).ToP().Encode(true); !bytes.Equal(got, want) {
			t.Fatalf("wnaf: priv %x: got %x, want %x", priv, got, want)
		}
		if got := g.ToJ().Mul(k).ToP().Encode(false); !bytes.Equal(got, pub.SerializeUncompressed()) {
			t.Fatalf("jacobian: priv %x: got %x", priv, got)
		}
	}
}

func TestMulAdd(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, name := range []string{"p256", "secp256k1"} {
		t.Run(name, func(t *testing.T) {
			c := mustShort(t, name)
			g := bareG(t, c)
			q := g.Mul(randScalar(rng, 200))
			for i := 0; i < 10; i++ {
				k1 := randScalar(rng, c.N().BitLen())
				k2 := randScalar(rng, c.N().BitLen())
				if i == 1 {
					k1 = bn.New(0)
				}
				if i == 2 {
					k2 = k2.Neg()
				}
				want := c.G().Mul(k1).Add(q.Mul(k2))

				got := c.G().MulAdd(k1, q, k2)
				if !got.Eq(want) {
					t.Fatalf("MulAdd mismatch:\n%s", spew.Sdump(got.X(), got.Y(), want.X(), want.Y()))
				}
				if got := g.MulAdd(k1, q, k2); !got.Eq(want) {
					t.Fatalf("MulAdd without tables mismatch: %v vs %v", got, want)
				}
				if got := g.JMulAdd(k1, q, k2); !got.Eq(want.ToJ()) {
					t.Fatalf("JMulAdd mismatch: %v vs %v", got, want)
				}
			}
		})
	}
}

func TestNegativeScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for _, name := range []string{"p256", "secp256k1"} {
		c := mustShort(t, name)
		k := randScalar(rng, 250)
		want := c.G().Mul(k).Neg()
		if got := c.G().Mul(k.Neg()); !got.Eq(want) {
			t.Errorf("%s: (-k)*G = %v, want %v", name, got, want)
		}
		if got := bareG(t, c).Mul(k.Neg()); !got.Eq(want) {
			t.Errorf("%s: (-k)*G without tables = %v, want %v", name, got, want)
		}
	}
}

func TestPointArithmetic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, name := range []string{"p192", "p256", "secp256k1"} {
		c := mustShort(t, name)
		g := bareG(t, c)
		p := g.Mul(randScalar(rng, 100))
		q := g.Mul(randScalar(rng, 100))

		if got := p.ToJ().Add(q.ToJ()).ToP(); !got.Eq(p.Add(q)) {
			t.Errorf("%s: Jacobian add disagrees with affine add", name)
		}
		if got := p.ToJ().MixedAdd(q).ToP(); !got.Eq(p.Add(q)) {
			t.Errorf("%s: mixed add disagrees with affine add", name)
		}
		if got := p.ToJ().Dbl().ToP(); !got.Eq(p.Dbl()) {
			t.Errorf("%s: Jacobian double disagrees with affine double", name)
		}
		// Non-unit z exercises the general doubling branch.
		pj := p.ToJ().Add(q.ToJ())
		if got := pj.Dbl().ToP(); !got.Eq(p.Add(q).Dbl()) {
			t.Errorf("%s: Jacobian double with z != 1 is wrong", name)
		}
		if got := pj.DblP(5).ToP(); !got.Eq(p.Add(q).Mul(bn.New(32))) {
			t.Errorf("%s: DblP(5) is not 32*P", name)
		}
		if !p.Add(p.Neg()).IsInfinity() {
			t.Errorf("%s: P + (-P) is not infinity", name)
		}
		if !p.ToJ().Add(p.Neg().ToJ()).IsInfinity() {
			t.Errorf("%s: Jacobian P + (-P) is not infinity", name)
		}
		if got := p.Add(p); !got.Eq(p.Dbl()) {
			t.Errorf("%s: P + P is not 2P", name)
		}
		inf := c.Infinity()
		if !inf.Add(p).Eq(p) || !p.Add(inf).Eq(p) || !inf.Dbl().IsInfinity() {
			t.Errorf("%s: infinity is not neutral", name)
		}
		if !c.JInfinity().MixedAdd(p).ToP().Eq(p) {
			t.Errorf("%s: Jacobian infinity is not neutral", name)
		}
		if !p.ToJ().Eq(p.ToJ().Add(c.JInfinity())) {
			t.Errorf("%s: JPoint.Eq failed", name)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for _, name := range shortPresets {
		t.Run(name, func(t *testing.T) {
			c := mustShort(t, name)
			for i := 0; i < 5; i++ {
				p := c.G().Mul(randScalar(rng, c.N().BitLen()-1))
				for _, compact := range []bool{true, false} {
					enc := p.Encode(compact)
					got, err := c.DecodePoint(enc)
					if err != nil {
						t.Fatalf("decode %x: %v", enc, err)
					}
					if !got.Eq(p) {
						t.Fatalf("round trip of %x gave %v", enc, got)
					}
				}

				// Hybrid encoding carries the y parity in the prefix.
				hyb := p.Encode(false)
				hyb[0] = 0x06
				if p.Y().IsOdd() {
					hyb[0] = 0x07
				}
				got, err := c.DecodePoint(hyb)
				if err != nil || !got.Eq(p) {
					t.Fatalf("hybrid decode: %v, %v", got, err)
				}
			}

			inf, err := c.DecodePoint(c.Infinity().Encode(true))
			if err != nil || !inf.IsInfinity() {
				t.Errorf("infinity round trip: %v, %v", inf, err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	c := Secp256k1()
	g := c.G().Encode(false)

	badY := append([]byte(nil), g...)
	badY[len(badY)-1] ^= 0x01

	wrongParity := append([]byte(nil), g...)
	wrongParity[0] = 0x07 // G has an even y

	bigX := append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)
	noRoot := make([]byte, 33)
	noRoot[0] = 0x02
	noRoot[32] = 5

	testCases := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrUnknownPointFormat},
		{"bad prefix", append([]byte{0x05}, g[1:]...), ErrUnknownPointFormat},
		{"short compressed", g[:32], ErrUnknownPointFormat},
		{"long uncompressed", append(g, 0x00), ErrUnknownPointFormat},
		{"not on curve", badY, ErrPointNotOnCurve},
		{"hybrid parity", wrongParity, ErrHybridParity},
		{"x too big", bigX, ErrCoordinateTooBig},
		{"no square root", noRoot, ErrInvalidPoint},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.DecodePoint(tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("got error %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEqXToP(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, name := range []string{"p256", "secp256k1", "p384"} {
		c := mustShort(t, name)
		for i := 0; i < 5; i++ {
			r := c.G().JMulAdd(randScalar(rng, 250), c.G(), randScalar(rng, 250))
			x := r.ToP().X().UMod(c.N())
			if !r.EqXToP(x) {
				t.Errorf("%s: EqXToP(x) is false", name)
			}
			if r.EqXToP(x.AddN(1).UMod(c.N())) {
				t.Errorf("%s: EqXToP(x+1) is true", name)
			}
		}
		if c.JInfinity().EqXToP(bn.New(0)) {
			t.Errorf("%s: infinity matched an x coordinate", name)
		}
	}
}

func TestEndomorphismDerivation(t *testing.T) {
	cfg := secp256k1Config
	cfg.Beta, cfg.Lambda, cfg.Basis = "", "", nil
	derived, err := NewShort(cfg)
	if err != nil {
		t.Fatal(err)
	}
	preset := Secp256k1()

	if !derived.endo.beta.Eq(preset.endo.beta) {
		t.Errorf("beta %s, want %s", derived.endo.beta.FromRed().Hex(),
			preset.endo.beta.FromRed().Hex())
	}
	if !derived.endo.lambda.Eq(preset.endo.lambda) {
		t.Errorf("lambda %s, want %s", derived.endo.lambda.Hex(), preset.endo.lambda.Hex())
	}
	for i := range derived.endo.basis {
		d, p := derived.endo.basis[i], preset.endo.basis[i]
		if !d.a.Eq(p.a) || !d.b.Eq(p.b) {
			t.Errorf("basis[%d] = (%s, %s), want (%s, %s)", i,
				d.a.Hex(), d.b.Hex(), p.a.Hex(), p.b.Hex())
		}
	}
}

func TestEndoSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	c := Secp256k1()
	n := bigOf(c.N())
	lambda := bigOf(c.endo.lambda)
	limit := new(big.Int).Lsh(big.NewInt(1), 129)
	for i := 0; i < 100; i++ {
		k := randScalar(rng, 256).UMod(c.N())
		k1, k2 := c.endoSplit(k)

		b1, _ := new(big.Int).SetString(k1.Text(16), 16)
		b2, _ := new(big.Int).SetString(k2.Text(16), 16)
		sum := new(big.Int).Mul(b2, lambda)
		sum.Add(sum, b1).Mod(sum, n)
		if sum.Cmp(bigOf(k)) != 0 {
			t.Fatalf("k1 + k2*lambda != k for k=%s", k.Hex())
		}
		if new(big.Int).Abs(b1).Cmp(limit) >= 0 || new(big.Int).Abs(b2).Cmp(limit) >= 0 {
			t.Fatalf("split of %s is not short: %s, %s", k.Hex(), k1.Hex(), k2.Hex())
		}
	}
}

func TestNoEndomorphism(t *testing.T) {
	cfg := p256Config
	cfg.Endomorphism = true
	if _, err := NewShort(cfg); !errors.Is(err, ErrNoEndomorphism) {
		t.Errorf("got %v, want ErrNoEndomorphism", err)
	}
}

func TestNewShortErrors(t *testing.T) {
	bad := secp256k1Config
	bad.Gy = "1"
	if _, err := NewShort(bad); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("generator off the curve: got %v", err)
	}
	bad = secp256k1Config
	bad.P = "zz"
	if _, err := NewShort(bad); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("malformed prime: got %v", err)
	}
	bad = p256Config
	bad.Prime = "k256"
	if _, err := NewShort(bad); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("mismatched named prime: got %v", err)
	}
}

func TestPresetRegistry(t *testing.T) {
	if _, err := Get("p1000"); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("got %v, want ErrUnknownCurve", err)
	}
	names := Names()
	if len(names) != 8 || names[0] != "curve25519" {
		t.Errorf("unexpected names %v", names)
	}
	p := MustGet("ed25519")
	if _, err := p.Short(); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("ed25519 as short: %v", err)
	}
	if p.Hash().Size() != 64 {
		t.Errorf("ed25519 hash size %d", p.Hash().Size())
	}
	if MustGet("p384").Hash().Size() != 48 {
		t.Error("p384 should default to sha384")
	}
}

func TestConcurrentMul(t *testing.T) {
	c := Secp256k1()
	want := c.G().Mul(bn.New(12345)).Encode(true)
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.G().Mul(bn.New(12345)).Encode(true); !bytes.Equal(got, want) {
				errs <- hex.EncodeToString(got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent result %s differs", e)
	}
}

func BenchmarkMulBase(b *testing.B) {
	c := Secp256k1()
	k := randScalar(rand.New(rand.NewSource(11)), 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.G().Mul(k)
	}
}

func BenchmarkMulVar(b *testing.B) {
	c := Secp256k1()
	rng := rand.New(rand.NewSource(12))
	p := bareG(b, c).Mul(randScalar(rng, 256))
	k := randScalar(rng, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Mul(k)
	}
}

func BenchmarkMulAdd(b *testing.B) {
	c := Secp256k1()
	rng := rand.New(rand.NewSource(13))
	p := bareG(b, c).Mul(randScalar(rng, 256))
	k1, k2 := randScalar(rng, 256), randScalar(rng, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.G().JMulAdd(k1, p, k2)
	}
}

// TestGeneralA runs the arbitrary-a doubling formula on an ad hoc curve
// through (2, 3) over the P-256 field.
func TestGeneralA(t *testing.T) {
	p := bigOf(bn.MustFromString(p256Config.P, 16))
	x, y, a := big.NewInt(2), big.NewInt(3), big.NewInt(5)
	b := new(big.Int).Mul(y, y)
	b.Sub(b, new(big.Int).Exp(x, big.NewInt(3), nil))
	b.Sub(b, new(big.Int).Mul(a, x))
	b.Mod(b, p)

	c, err := NewShort(ShortConfig{
		P: p256Config.P, A: "5", B: b.Text(16),
		N: p256Config.N, Gx: "2", Gy: "3",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.zeroA || c.threeA {
		t.Fatal("expected the general doubling formula")
	}

	g := c.G()
	q := g.Dbl().Add(g)
	for i, pt := range []*Point{g, q} {
		j := pt.ToJ().Add(g.Dbl().ToJ())
		want := pt.Add(g.Dbl()).Dbl()
		if got := j.Dbl().ToP(); !got.Eq(want) {
			t.Errorf("case %d: got %v, want %v", i, got, want)
		}
	}
	if got := g.Mul(bn.New(7)); !got.Eq(g.Dbl().Dbl().Dbl().Add(g.Neg())) {
		t.Errorf("7G mismatch: %v", got)
	}
}

// TestPointFromXZeroY builds y^2 = x^3 + 5x - 18 over the P-256 prime,
// where (2, 0) has order two and no odd y.
func TestPointFromXZeroY(t *testing.T) {
	c, err := NewShort(ShortConfig{
		P: p256Config.P, A: "5", B: "-12",
		N: p256Config.N, Gx: "2", Gy: "0",
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.PointFromX(bn.New(2), false)
	if err != nil {
		t.Fatalf("even y: %v", err)
	}
	if !p.Eq(c.G()) || !p.Y().IsZero() {
		t.Errorf("PointFromX(2, even) = %v", p)
	}
	if _, err := c.PointFromX(bn.New(2), true); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("odd y: got %v, want %v", err, ErrInvalidPoint)
	}

	enc := c.G().Encode(true)
	if enc[0] != 0x02 {
		t.Fatalf("compressed prefix %#x", enc[0])
	}
	enc[0] = 0x03
	if _, err := c.DecodePoint(enc); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("decode with odd prefix: got %v, want %v", err, ErrInvalidPoint)
	}
}

func TestFamily(t *testing.T) {
	testCases := []struct {
		preset string
		family Family
		name   string
	}{
		{"secp256k1", FamilyShort, "short"},
		{"curve25519", FamilyMont, "mont"},
		{"ed25519", FamilyEdwards, "edwards"},
	}
	for _, tc := range testCases {
		c := MustGet(tc.preset).Curve
		if c.Family() != tc.family {
			t.Errorf("%s: family %v, want %v", tc.preset, c.Family(), tc.family)
		}
		if got := c.Family().String(); got != tc.name {
			t.Errorf("%s: family name %q, want %q", tc.preset, got, tc.name)
		}
	}
	if got := Family(7).String(); got != "Family(7)" {
		t.Errorf("unknown family name %q", got)
	}
}
