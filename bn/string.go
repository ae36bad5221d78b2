package bn

import (
	"fmt"
	"strconv"
	"strings"
)

// chunkFor returns how many digits of base fit in a single limb and the
// value of base raised to that count.
func chunkFor(base int) (digits int, pow int) {
	pow = 1
	for pow*base <= wordMask {
		pow *= base
		digits++
	}
	return digits, pow
}

func checkBase(base int) error {
	if base < 2 || base > 36 {
		str := fmt.Sprintf("base %d out of range [2, 36]", base)
		return makeError(ErrInvalidBase, str)
	}
	return nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// FromString parses s in the given base.  A leading '-' marks a negative
// value.
func FromString(s string, base int) (*Int, error) {
	return new(Int).SetString(s, base)
}

// MustFromString is like FromString but panics on malformed input.  It is
// intended for constants.
func MustFromString(s string, base int) *Int {
	z, err := FromString(s, base)
	if err != nil {
		panic(err)
	}
	return z
}

// SetString sets z to the value of s in the given base.
func (z *Int) SetString(s string, base int) (*Int, error) {
	if err := checkBase(base); err != nil {
		return nil, err
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) == 0 {
		return nil, makeError(ErrEmptyString, "no digits to parse")
	}

	digits, _ := chunkFor(base)
	z.setZero()
	z.red = nil
	first := len(s) % digits
	if first == 0 {
		first = digits
	}
	for start, end := 0, first; start < len(s); start, end = end, end+digits {
		word, mul := 0, 1
		for i := start; i < end; i++ {
			d := digitValue(s[i])
			if d >= base {
				str := fmt.Sprintf("invalid character %q for base %d", s[i],
					base)
				return nil, makeError(ErrInvalidCharacter, str)
			}
			word = word*base + d
			mul *= base
		}
		z.IMulN(mul)
		z.IAddN(word)
	}
	if neg {
		z.INeg()
	}
	return z, nil
}

// ToString formats x in the given base, left padding the digits with zeros
// to a multiple of padding.
func (x *Int) ToString(base, padding int) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	padding = max(padding, 1)

	var out string
	if x.IsZero() {
		out = "0"
	} else {
		digits, pow := chunkFor(base)
		c := x.Abs()
		c.red = nil
		var groups []string
		for !c.IsZero() {
			r := c.idivn(uint32(pow))
			g := strconv.FormatUint(uint64(r), base)
			if !c.IsZero() {
				g = strings.Repeat("0", digits-len(g)) + g
			}
			groups = append(groups, g)
		}
		var sb strings.Builder
		for i := len(groups) - 1; i >= 0; i-- {
			sb.WriteString(groups[i])
		}
		out = sb.String()
	}
	if rem := len(out) % padding; rem != 0 {
		out = strings.Repeat("0", padding-rem) + out
	}
	if x.negative {
		out = "-" + out
	}
	return out, nil
}

// Text formats x in base, which must lie in [2, 36].
func (x *Int) Text(base int) string {
	s, err := x.ToString(base, 1)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the decimal representation of x.
func (x *Int) String() string {
	return x.Text(10)
}

// Hex returns the hexadecimal representation of x.
func (x *Int) Hex() string {
	return x.Text(16)
}

// MarshalText implements encoding.TextMarshaler using hexadecimal.
func (x *Int) MarshalText() ([]byte, error) {
	return []byte(x.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using hexadecimal.
func (z *Int) UnmarshalText(text []byte) error {
	_, err := z.SetString(string(text), 16)
	return err
}

// Format implements fmt.Formatter.  It understands the verbs b, o, d, x, X
// and v (decimal).
func (x *Int) Format(s fmt.State, ch rune) {
	var base int
	switch ch {
	case 'b':
		base = 2
	case 'o':
		base = 8
	case 'd', 'v', 's':
		base = 10
	case 'x', 'X':
		base = 16
	default:
		fmt.Fprintf(s, "%%!%c(bn.Int=%s)", ch, x.String())
		return
	}
	out := x.Text(base)
	if ch == 'X' {
		out = strings.ToUpper(out)
	}
	if s.Flag('#') {
		prefix := map[int]string{2: "0b", 8: "0", 16: "0x"}[base]
		if strings.HasPrefix(out, "-") {
			out = "-" + prefix + out[1:]
		} else {
			out = prefix + out
		}
	}
	if w, ok := s.Width(); ok && len(out) < w {
		pad := " "
		if s.Flag('0') {
			pad = "0"
		}
		if s.Flag('-') {
			out += strings.Repeat(" ", w-len(out))
		} else {
			out = strings.Repeat(pad, w-len(out)) + out
		}
	}
	fmt.Fprint(s, out)
}
