package curve

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"eccore.mleku.dev/hashes"
	"eccore.mleku.dev/internal/logger"
)

// Preset is a named curve with its default message hash.  The generator of
// a preset carries precomputed tables, so presets are expensive to build
// and are constructed once on first use.
type Preset struct {
	Name  string
	Hash  hashes.Func
	Curve Curve
}

// Short returns the preset curve as a short Weierstrass curve.
func (p *Preset) Short() (*Short, error) {
	if c, ok := p.Curve.(*Short); ok {
		return c, nil
	}
	return nil, makeError(ErrInvalidCurve,
		fmt.Sprintf("curve %s is not a short Weierstrass curve", p.Name))
}

// Edwards returns the preset curve as a twisted Edwards curve.
func (p *Preset) Edwards() (*Edwards, error) {
	if c, ok := p.Curve.(*Edwards); ok {
		return c, nil
	}
	return nil, makeError(ErrInvalidCurve,
		fmt.Sprintf("curve %s is not an Edwards curve", p.Name))
}

// Mont returns the preset curve as a Montgomery curve.
func (p *Preset) Mont() (*Mont, error) {
	if c, ok := p.Curve.(*Mont); ok {
		return c, nil
	}
	return nil, makeError(ErrInvalidCurve,
		fmt.Sprintf("curve %s is not a Montgomery curve", p.Name))
}

type presetEntry struct {
	once   sync.Once
	build  func() (*Preset, error)
	preset *Preset
	err    error
}

var presets = map[string]*presetEntry{
	"p192":       {build: shortPreset(p192Config, hashes.NewSHA256)},
	"p224":       {build: shortPreset(p224Config, hashes.NewSHA256)},
	"p256":       {build: shortPreset(p256Config, hashes.NewSHA256)},
	"p384":       {build: shortPreset(p384Config, hashes.NewSHA384)},
	"p521":       {build: shortPreset(p521Config, hashes.NewSHA512)},
	"secp256k1":  {build: shortPreset(secp256k1Config, hashes.NewSHA256)},
	"curve25519": {build: montPreset(curve25519Config, hashes.NewSHA256)},
	"ed25519":    {build: edwardsPreset(ed25519Config, hashes.NewSHA512)},
}

// Get returns the named preset, building it on first use.
func Get(name string) (*Preset, error) {
	e, ok := presets[name]
	if !ok {
		return nil, makeError(ErrUnknownCurve, fmt.Sprintf("unknown curve %q", name))
	}
	e.once.Do(func() {
		start := time.Now()
		e.preset, e.err = e.build()
		log := logger.L()
		if e.err != nil {
			log.Debug().Str("curve", name).Err(e.err).Msg("curve preset failed")
			return
		}
		log.Debug().Str("curve", name).Dur("elapsed", time.Since(start)).
			Msg("curve preset built")
	})
	return e.preset, e.err
}

// MustGet is like Get but panics on error.  It is meant for names known at
// compile time.
func MustGet(name string) *Preset {
	p, err := Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Secp256k1 returns the secp256k1 curve.
func Secp256k1() *Short {
	c, err := MustGet("secp256k1").Short()
	if err != nil {
		panic(err)
	}
	return c
}

func shortPreset(cfg ShortConfig, h hashes.Func) func() (*Preset, error) {
	return func() (*Preset, error) {
		c, err := NewShort(cfg)
		if err != nil {
			return nil, err
		}
		c.g = c.g.Precompute(c.n.BitLen() + 1)
		return &Preset{Name: cfg.Name, Hash: h, Curve: c}, nil
	}
}

func edwardsPreset(cfg EdwardsConfig, h hashes.Func) func() (*Preset, error) {
	return func() (*Preset, error) {
		c, err := NewEdwards(cfg)
		if err != nil {
			return nil, err
		}
		c.g = c.g.Precompute(c.n.BitLen() + 1)
		return &Preset{Name: cfg.Name, Hash: h, Curve: c}, nil
	}
}

func montPreset(cfg MontConfig, h hashes.Func) func() (*Preset, error) {
	return func() (*Preset, error) {
		c, err := NewMont(cfg)
		if err != nil {
			return nil, err
		}
		return &Preset{Name: cfg.Name, Hash: h, Curve: c}, nil
	}
}

var p192Config = ShortConfig{
	Name:  "p192",
	Prime: "p192",
	P:     "fffffffffffffffffffffffffffffffeffffffffffffffff",
	A:     "fffffffffffffffffffffffffffffffefffffffffffffffc",
	B:     "64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1",
	N:     "ffffffffffffffffffffffff99def836146bc9b1b4d22831",
	H:     "1",
	Gx:    "188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012",
	Gy:    "07192b95ffc8da78631011ed6b24cdd573f977a11e794811",
}

var p224Config = ShortConfig{
	Name:  "p224",
	Prime: "p224",
	P:     "ffffffffffffffffffffffffffffffff000000000000000000000001",
	A:     "fffffffffffffffffffffffffffffffefffffffffffffffffffffffe",
	B:     "b4050a850c04b3abf54132565044b0b7d7bfd8ba270b39432355ffb4",
	N:     "ffffffffffffffffffffffffffff16a2e0b8f03e13dd29455c5c2a3d",
	H:     "1",
	Gx:    "b70e0cbd6bb4bf7f321390b94a03c1d356c21122343280d6115c1d21",
	Gy:    "bd376388b5f723fb4c22dfe6cd4375a05a07476444d5819985007e34",
}

var p256Config = ShortConfig{
	Name: "p256",
	P:    "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
	A:    "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
	B:    "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
	N:    "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
	H:    "1",
	Gx:   "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
	Gy:   "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
}

var p384Config = ShortConfig{
	Name: "p384",
	P: "ffffffffffffffffffffffffffffffffffffffffffffffff" +
		"fffffffffffffffeffffffff0000000000000000ffffffff",
	A: "ffffffffffffffffffffffffffffffffffffffffffffffff" +
		"fffffffffffffffeffffffff0000000000000000fffffffc",
	B: "b3312fa7e23ee7e4988e056be3f82d19181d9c6efe814112" +
		"0314088f5013875ac656398d8a2ed19d2a85c8edd3ec2aef",
	N: "ffffffffffffffffffffffffffffffffffffffffffffffff" +
		"c7634d81f4372ddf581a0db248b0a77aecec196accc52973",
	H: "1",
	Gx: "aa87ca22be8b05378eb1c71ef320ad746e1d3b628ba79b98" +
		"59f741e082542a385502f25dbf55296c3a545e3872760ab7",
	Gy: "3617de4a96262c6f5d9e98bf9292dc29f8f41dbd289a147c" +
		"e9da3113b5f0b8c00a60b1ce1d7e819d7a431d7c90ea0e5f",
}

var p521Config = ShortConfig{
	Name: "p521",
	P: "1ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff" +
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	A: "1ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff" +
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffc",
	B: "051953eb9618e1c9a1f929a21a0b68540eea2da725b99b315f3b8b489918ef109" +
		"e156193951ec7e937b1652c0bd3bb1bf073573df883d2c34f1ef451fd46b503f00",
	N: "1ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff" +
		"fa51868783bf2f966b7fcc0148f709a5d03bb5c9b8899c47aebb6fb71e91386409",
	H: "1",
	Gx: "0c6858e06b70404e9cd9e3ecb662395b4429c648139053fb521f828af606b4d3d" +
		"baa14b5e77efe75928fe1dc127a2ffa8de3348b3c1856a429bf97e7e31c2e5bd66",
	Gy: "11839296a789a3bc0045c8a5fb42c7d1bd998f54449579b446817afbd17273e66" +
		"2c97ee72995ef42640c550b9013fad0761353c7086a272c24088be94769fd16650",
}

var secp256k1Config = ShortConfig{
	Name:  "secp256k1",
	Prime: "k256",
	P:     "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
	A:     "0",
	B:     "7",
	N:     "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
	H:     "1",
	Gx:    "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
	Gy:    "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",

	Endomorphism: true,
	Beta:         "7ae96a2b657c07106e64479eac3434e99cf0497512f58995c1396c28719501ee",
	Lambda:       "5363ad4cc05c30e0a5261c028812645a122e22ea20816678df02967c1b23bd72",
	Basis: [][2]string{
		{"3086d221a7d46bcde86c90e49284eb15", "-e4437ed6010e88286f547fa90abfe4c3"},
		{"114ca50f7a8e2f3f657c1108d9d44cfd8", "3086d221a7d46bcde86c90e49284eb15"},
	},
}

var curve25519Config = MontConfig{
	Name:  "curve25519",
	Prime: "p25519",
	P:     "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
	A:     "76d06",
	B:     "1",
	N:     "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed",
	H:     "8",
	Gx:    "9",
}

var ed25519Config = EdwardsConfig{
	Name:  "ed25519",
	Prime: "p25519",
	P:     "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
	A:     "-1",
	C:     "1",
	D:     "52036cee2b6ffe738cc740797779e89800700a4d4141d8ab75eb4dca135978a3",
	N:     "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed",
	H:     "8",
	Gx:    "216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a",
	Gy:    "6666666666666666666666666666666666666666666666666666666666666658",
}
