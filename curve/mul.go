package curve

import "eccore.mleku.dev/bn"

// groupElement is the view of a point the shared multiplication routines
// work with.  Affine points feed tables; accumulators come from toAcc and
// absorb either kind through addTo.
type groupElement interface {
	IsInfinity() bool
	negate() groupElement
	double() groupElement
	doubleN(k int) groupElement
	addTo(q groupElement) groupElement
	toAcc() groupElement
	tables() *precomputed

	// combine returns {p, p+q, p-q, q} for the joint sparse form ladder.
	combine(q groupElement) [4]groupElement
}

// nafTable holds the odd multiples P, 3P, ..., (2^w - 1)P.
type nafTable struct {
	wnd    int
	points []groupElement
}

// doublesTable holds P, 2^step P, 2^(2 step) P, ...
type doublesTable struct {
	step   int
	points []groupElement
}

// precomputed is attached to a point by Precompute and never mutated
// afterwards, so points sharing it are safe for concurrent use.
type precomputed struct {
	naf     *nafTable
	doubles *doublesTable
	beta    groupElement
}

const (
	precomputeDoubleStep = 4
	precomputeNAFWindow  = 8
	defaultWindow        = 4
)

// oddMultiples returns the 2^(w-1) odd multiples of p.
func oddMultiples(p groupElement, w int) []groupElement {
	n := 1 << (w - 1)
	res := make([]groupElement, n)
	res[0] = p
	if n == 1 {
		return res
	}
	dbl := p.double()
	for i := 1; i < n; i++ {
		res[i] = res[i-1].addTo(dbl)
	}
	return res
}

// doublesOf returns p doubled step times repeatedly, enough entries to
// cover a scalar of power bits.
func doublesOf(p groupElement, step, power int) *doublesTable {
	n := (power+step-1)/step + 1
	pts := make([]groupElement, 0, n)
	pts = append(pts, p)
	acc := p
	for i := 1; i < n; i++ {
		for j := 0; j < step; j++ {
			acc = acc.double()
		}
		pts = append(pts, acc)
	}
	return &doublesTable{step: step, points: pts}
}

// mapTable applies f to every entry of pts.
func mapTable(pts []groupElement, f func(groupElement) groupElement) []groupElement {
	out := make([]groupElement, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

// mapPrecomputed returns a copy of pre with f applied to the naf and
// doubles tables.  The beta entry is dropped.
func mapPrecomputed(pre *precomputed, f func(groupElement) groupElement) *precomputed {
	if pre == nil {
		return nil
	}
	out := &precomputed{}
	if pre.naf != nil {
		out.naf = &nafTable{wnd: pre.naf.wnd, points: mapTable(pre.naf.points, f)}
	}
	if pre.doubles != nil {
		out.doubles = &doublesTable{step: pre.doubles.step,
			points: mapTable(pre.doubles.points, f)}
	}
	return out
}

// hasDoubles reports whether the doubles table of p covers k.
func hasDoubles(p groupElement, k *bn.Int) bool {
	pre := p.tables()
	if pre == nil || pre.doubles == nil {
		return false
	}
	d := pre.doubles
	return len(d.points) >= (k.BitLen()+1+d.step-1)/d.step
}

// nafPoints returns the precomputed odd multiples of p, or builds a table
// of window w.
func nafPoints(p groupElement, w int) *nafTable {
	if pre := p.tables(); pre != nil && pre.naf != nil {
		return pre.naf
	}
	return &nafTable{wnd: w, points: oddMultiples(p, w)}
}

// pick returns table entry for the nonzero odd digit z, negated if z < 0.
func pick(points []groupElement, z int) groupElement {
	if z > 0 {
		return points[(z-1)>>1]
	}
	return points[(-z-1)>>1].negate()
}

// fixedNafMul computes k*p with the comb method over the doubles table of
// p.  k must be non-negative and covered by the table.
func (b *base) fixedNafMul(p groupElement, inf groupElement, k *bn.Int) groupElement {
	doubles := p.tables().doubles
	step := doubles.step

	naf := getNAF(k, 1, b.bitLen)

	// Each window of step NAF digits collapses to one signed integer.
	var repr []int
	for j := 0; j < len(naf); j += step {
		nafW := 0
		for l := j + step - 1; l >= j; l-- {
			nafW = nafW<<1 + digitAt(naf, l)
		}
		repr = append(repr, nafW)
	}

	top := 1<<(step+1) - 1
	if step%2 == 0 {
		top--
	}
	top /= 3

	a := inf
	acc := inf
	for i := top; i > 0; i-- {
		for j, w := range repr {
			switch w {
			case i:
				acc = acc.addTo(doubles.points[j])
			case -i:
				acc = acc.addTo(doubles.points[j].negate())
			}
		}
		a = a.addTo(acc)
	}
	return a
}

// wnafMul computes k*p with a width-w NAF.  k must be non-negative.
func (b *base) wnafMul(p groupElement, inf groupElement, k *bn.Int) groupElement {
	t := nafPoints(p, defaultWindow)
	naf := getNAF(k, t.wnd, b.bitLen)

	acc := inf
	for i := len(naf) - 1; i >= 0; i-- {
		// Count the run of zeros ahead of the next digit.
		l := 0
		for ; i >= 0 && naf[i] == 0; i-- {
			l++
		}
		if i >= 0 {
			l++
		}
		acc = acc.doubleN(l)
		if i < 0 {
			break
		}
		acc = acc.addTo(pick(t.points, naf[i]))
	}
	return acc
}

// jsfIndex maps a pair of JSF digits (3*(d1+1) + (d2+1)) to a signed index
// into the combined table {p, p+q, p-q, q}.
var jsfIndex = [9]int{-3, -1, -5, -7, 0, 7, 5, 1, 3}

// wnafMulAdd computes sum coeffs[i]*points[i] with interleaved NAFs.
// Pairs of points without precomputed tables are merged into one joint
// sparse form table.  Coefficients must be non-negative.
func (b *base) wnafMulAdd(defW int, points []groupElement, coeffs []*bn.Int,
	inf groupElement) groupElement {

	n := len(points)
	wnd := make([][]groupElement, n)
	widths := make([]int, n)
	nafs := make([][]int, n)
	for i, p := range points {
		t := nafPoints(p, defW)
		widths[i] = t.wnd
		wnd[i] = t.points
	}

	maxLen := 0
	if n%2 == 1 {
		nafs[0] = getNAF(coeffs[0], widths[0], b.bitLen)
		maxLen = len(nafs[0])
	}
	for i := n - 1; i >= 1; i -= 2 {
		a, c := i-1, i
		if widths[a] != 1 || widths[c] != 1 {
			nafs[a] = getNAF(coeffs[a], widths[a], b.bitLen)
			nafs[c] = getNAF(coeffs[c], widths[c], b.bitLen)
			maxLen = max(maxLen, len(nafs[a]), len(nafs[c]))
			continue
		}

		comb := points[a].combine(points[c])
		jsf := getJSF(coeffs[a], coeffs[c])
		maxLen = max(maxLen, len(jsf[0]))
		nafs[a] = make([]int, maxLen)
		nafs[c] = make([]int, maxLen)
		for j := 0; j < maxLen; j++ {
			ja := digitAt(jsf[0], j)
			jb := digitAt(jsf[1], j)
			nafs[a][j] = jsfIndex[(ja+1)*3+(jb+1)]
		}
		wnd[a] = comb[:]
	}

	acc := inf
	tmp := make([]int, n)
	for i := maxLen; i >= 0; i-- {
		k := 0
		for i >= 0 {
			zero := true
			for j := range nafs {
				tmp[j] = digitAt(nafs[j], i)
				if tmp[j] != 0 {
					zero = false
				}
			}
			if !zero {
				break
			}
			k++
			i--
		}
		if i >= 0 {
			k++
		}
		acc = acc.doubleN(k)
		if i < 0 {
			break
		}

		for j, z := range tmp {
			if z == 0 {
				continue
			}
			acc = acc.addTo(pick(wnd[j], z))
		}
	}
	return acc
}
