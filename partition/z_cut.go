package partition

// computeZCut implements update_Z_cut: Z_cut[i][j] sums, over every
// cutpoint c on the forward arc from i to j, the product of the two
// Z_linear segments that cutpoint splits the arc into. It is the only
// recursion with no loop-length gate and no base-pair-type loop: chain
// breaks don't form base pairs, so there is nothing to gate or choose a
// type for.
func (p *partition) computeZCut(i, j int, capture bool) (value, deriv float64, contribs []contribution) {
	n := p.seq.n
	offset := mod(j-i, n)

	for c := i; c < i+offset; c++ {
		if !p.seq.isCutpoint[mod(c, n)] {
			continue
		}

		zSeg1, dSeg1 := 1.0, 0.0
		var branches []branch
		if c != i {
			zSeg1 = p.zLinear.get(i+1, c)
			dSeg1 = p.zLinear.getDeriv(i+1, c)
			branches = append(branches, branch{tableZLinear, mod(i+1, n), mod(c, n)})
		}

		zSeg2, dSeg2 := 1.0, 0.0
		if mod(c+1, n) != mod(j, n) {
			zSeg2 = p.zLinear.get(c+1, j-1)
			dSeg2 = p.zLinear.getDeriv(c+1, j-1)
			branches = append(branches, branch{tableZLinear, mod(c+1, n), mod(j-1, n)})
		}

		w := zSeg1 * zSeg2
		dw := dSeg1*zSeg2 + zSeg1*dSeg2
		value += w
		deriv += dw
		if capture && w != 0 {
			contribs = append(contribs, contribution{weight: w, branches: branches})
		}
	}

	return value, deriv, contribs
}
