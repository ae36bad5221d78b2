package curve

import "eccore.mleku.dev/bn"

// getNAF returns the width-w non-adjacent form of a non-negative k, least
// significant digit first.  Every nonzero digit is odd and lies in
// (-2^w, 2^w), and any w consecutive digits hold at most one nonzero.  The
// result has max(k.BitLen(), bits)+1 digits, zero padded.
func getNAF(k *bn.Int, w, bits int) []int {
	n := k.BitLen()
	if bits > n {
		n = bits
	}
	naf := make([]int, n+1)

	ws := 1 << (w + 1)
	mask := ws - 1
	half := ws >> 1
	kk := k.Clone()
	for i := 0; i < len(naf); i++ {
		var z int
		mod := kk.Andln(mask)
		if kk.IsOdd() {
			if mod > half-1 {
				z = half - mod
			} else {
				z = mod
			}
			kk.ISubN(z)
		}
		naf[i] = z
		kk.IShrn(1)
	}
	return naf
}

// getJSF returns the joint sparse form of the non-negative pair (k1, k2),
// least significant digit first.  Digits are in {-1, 0, 1} and the two
// rows have equal length.
func getJSF(k1, k2 *bn.Int) [2][]int {
	var jsf [2][]int

	k1 = k1.Clone()
	k2 = k2.Clone()
	d1, d2 := 0, 0
	for k1.CmpN(int64(-d1)) > 0 || k2.CmpN(int64(-d2)) > 0 {
		// First phase.
		m14 := (k1.Andln(3) + d1) & 3
		m24 := (k2.Andln(3) + d2) & 3
		if m14 == 3 {
			m14 = -1
		}
		if m24 == 3 {
			m24 = -1
		}

		var u1 int
		if m14&1 != 0 {
			m8 := (k1.Andln(7) + d1) & 7
			if (m8 == 3 || m8 == 5) && m24 == 2 {
				u1 = -m14
			} else {
				u1 = m14
			}
		}
		jsf[0] = append(jsf[0], u1)

		var u2 int
		if m24&1 != 0 {
			m8 := (k2.Andln(7) + d2) & 7
			if (m8 == 3 || m8 == 5) && m14 == 2 {
				u2 = -m24
			} else {
				u2 = m24
			}
		}
		jsf[1] = append(jsf[1], u2)

		// Second phase.
		if 2*d1 == u1+1 {
			d1 = 1 - d1
		}
		if 2*d2 == u2+1 {
			d2 = 1 - d2
		}
		k1.IShrn(1)
		k2.IShrn(1)
	}
	return jsf
}

// digitAt returns the digit at position i, or zero past the end.
func digitAt(digits []int, i int) int {
	if i < 0 || i >= len(digits) {
		return 0
	}
	return digits[i]
}
