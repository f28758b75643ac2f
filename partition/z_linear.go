package partition

// computeZLinear implements update_Z_linear: Z_linear[i][j] is the
// partition function of the strand segment from i to j forming no
// pseudoknots and no loop back to i, i.e. any arrangement of a trailing
// unpaired residue, a base pair or coaxial stack spanning the whole
// segment, or a base pair or coaxial stack spanning a suffix of it preceded
// by a (possibly empty) linear segment.
func (p *partition) computeZLinear(i, j int, capture bool) (value, deriv float64, contribs []contribution) {
	n := p.seq.n
	offset := mod(j-i, n)

	add := func(w, dw float64, branches []branch) {
		value += w
		deriv += dw
		if capture && w != 0 {
			contribs = append(contribs, contribution{weight: w, branches: branches})
		}
	}

	// step 1: extend by one unpaired residue
	if !p.seq.isCutpoint[mod(j-1, n)] {
		v, dv := p.zLinear.get(i, j-1), p.zLinear.getDeriv(i, j-1)
		add(v, dv, []branch{{tableZLinear, mod(i, n), mod(j-1, n)}})
	}

	// step 2: j paired directly with i
	{
		v, dv := p.zBP.get(i, j), p.zBP.getDeriv(i, j)
		add(v, dv, []branch{{tableZBP, mod(i, n), mod(j, n)}})
	}

	// step 3: j paired with some k strictly after i
	for k := i + 1; k < i+offset; k++ {
		if p.seq.isCutpoint[mod(k-1, n)] {
			continue
		}
		a, da := p.zLinear.get(i, k-1), p.zLinear.getDeriv(i, k-1)
		b, db := p.zBP.get(k, j), p.zBP.getDeriv(k, j)
		add(a*b, da*b+a*db, []branch{
			{tableZLinear, mod(i, n), mod(k-1, n)},
			{tableZBP, mod(k, n), mod(j, n)},
		})
	}

	// step 4: j coax-stacked directly with i
	{
		v, dv := p.zCoax.get(i, j), p.zCoax.getDeriv(i, j)
		add(v, dv, []branch{{tableZCoax, mod(i, n), mod(j, n)}})
	}

	// step 5: j coax-stacked with some k strictly after i
	for k := i + 1; k < i+offset; k++ {
		if p.seq.isCutpoint[mod(k-1, n)] {
			continue
		}
		a, da := p.zLinear.get(i, k-1), p.zLinear.getDeriv(i, k-1)
		b, db := p.zCoax.get(k, j), p.zCoax.getDeriv(k, j)
		add(a*b, da*b+a*db, []branch{
			{tableZLinear, mod(i, n), mod(k-1, n)},
			{tableZCoax, mod(k, n), mod(j, n)},
		})
	}

	return value, deriv, contribs
}
