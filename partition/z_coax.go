package partition

// computeZCoax implements update_Z_coax: the weight of two base
// pairs (i, k) and (k+1, j) stacking directly on top of one another with no
// intervening loop, summed over every split point k (skipping any k that
// falls on a chain break, since a coaxial stack cannot span one).
func (p *partition) computeZCoax(i, j int, capture bool) (value, deriv float64, contribs []contribution) {
	n := p.seq.n
	offset := mod(j-i, n)
	kCoax := p.params.KCoax

	for k := i + 1; k < i+offset-1; k++ {
		if p.seq.isCutpoint[mod(k, n)] {
			continue
		}
		a, da := p.zBP.get(i, k), p.zBP.getDeriv(i, k)
		b, db := p.zBP.get(k+1, j), p.zBP.getDeriv(k+1, j)

		w := a * b * kCoax
		dw := (da*b + a*db) * kCoax
		value += w
		deriv += dw
		if capture && w != 0 {
			contribs = append(contribs, contribution{weight: w, branches: []branch{
				{tableZBP, mod(i, n), mod(k, n)},
				{tableZBP, mod(k+1, n), mod(j, n)},
			}})
		}
	}

	return value, deriv, contribs
}
