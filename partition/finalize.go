package partition

// getZFinal implements get_Z_final: for every origin i, it sums the
// ways the whole cyclic (or linear) molecule can close back on itself
// starting at i: either trivially (a single chain-break arc), or via a
// baseline ligation-junction term, an interior chain-break split, a single
// stacked pair spanning the junction, or two base pairs coaxially stacked
// across the junction with a loop or a chain break between them. Every
// origin should agree up to floating-point tolerance; crosscheck.go
// asserts this.
//
// capture controls whether each origin's contribution ledger is recorded
// for traceback; getZFinal is called once without capture at the end of
// the forward pass, and again with capture enabled the first time a
// traceback is requested.
func (p *partition) getZFinal(capture bool) {
	n := p.seq.n
	params := p.params

	zFinal := make([]float64, n)
	dzFinal := make([]float64, n)
	var zFinalContrib [][]contribution
	if capture {
		zFinalContrib = make([][]contribution, n)
	}

	var cEffForCoax *table
	var cEffForCoaxID tableID
	if params.AllowStrained3WJ {
		cEffForCoax, cEffForCoaxID = p.cEff, tableCEff
	} else {
		cEffForCoax, cEffForCoaxID = p.cEffNoBPSinglet, tableCEffNoBPSinglet
	}

	for i := 0; i < n; i++ {
		var value, deriv float64
		var contribs []contribution
		add := func(w, dw float64, branches []branch) {
			value += w
			deriv += dw
			if capture && w != 0 {
				contribs = append(contribs, contribution{weight: w, branches: branches})
			}
		}

		if p.seq.isCutpoint[mod(i+n-1, n)] {
			// the residue just before i is itself a chain break: the whole
			// molecule is one linear arc with nothing closing back on i.
			v, dv := p.zLinear.get(i, i-1), p.zLinear.getDeriv(i, i-1)
			add(v, dv, []branch{{tableZLinear, mod(i, n), mod(i-1, n)}})

			// Z_linear(i, i-1) only counts structures where every strand
			// boundary inside this span is bridged by a base pair: it is a
			// covalently-connected-unit function by construction, so it
			// cannot see the configuration where an interior chain break is
			// left entirely unbridged (e.g. two strands present but not
			// interacting at all). Fold in the same interior chain-break
			// split the non-trivial branch below uses, so that origin
			// invariance holds even when every residue is its own strand
			// (every origin then takes this branch, and only this branch).
			for c := i; c < i+n-1; c++ {
				if !p.seq.isCutpoint[mod(c, n)] {
					continue
				}
				a, da := p.zLinear.get(i, c), p.zLinear.getDeriv(i, c)
				b, db := p.zLinear.get(c+1, i-1), p.zLinear.getDeriv(c+1, i-1)
				add(a*b, da*b+a*db, []branch{
					{tableZLinear, mod(i, n), mod(c, n)},
					{tableZLinear, mod(c+1, n), mod(i-1, n)},
				})
			}
		} else {
			// baseline ligation-junction term
			v, dv := p.cEffNoCoaxSinglet.get(i, i-1), p.cEffNoCoaxSinglet.getDeriv(i, i-1)
			coef := params.L / params.CStd
			add(v*coef, dv*coef, []branch{{tableCEffNoCoaxSinglet, mod(i, n), mod(i-1, n)}})

			// interior chain-break split
			for c := i; c < i+n-1; c++ {
				if !p.seq.isCutpoint[mod(c, n)] {
					continue
				}
				a, da := p.zLinear.get(i, c), p.zLinear.getDeriv(i, c)
				b, db := p.zLinear.get(c+1, i-1), p.zLinear.getDeriv(c+1, i-1)
				add(a*b, da*b+a*db, []branch{
					{tableZLinear, mod(i, n), mod(c, n)},
					{tableZLinear, mod(c+1, n), mod(i-1, n)},
				})
			}

			// a single stacked pair spanning the junction
			for j := i + 1; j < i+n-1; j++ {
				if p.seq.isCutpoint[mod(j, n)] {
					continue
				}
				a, da := p.zBP.get(i, j), p.zBP.getDeriv(i, j)
				b, db := p.zBP.get(j+1, i-1), p.zBP.getDeriv(j+1, i-1)
				coef := params.CEffStackedPair
				add(a*b*coef, (da*b+a*db)*coef, []branch{
					{tableZBP, mod(i, n), mod(j, n)},
					{tableZBP, mod(j+1, n), mod(i-1, n)},
				})
			}

			// two coaxially stacked pairs connected by a loop across the junction
			coaxLoopCoef := params.L * params.L * params.LCoax * params.KCoax
			for j := i + 1; j < i+n-2; j++ {
				if p.seq.isCutpoint[mod(j, n)] {
					continue
				}
				for k := j + 2; k < i+n-1; k++ {
					if p.seq.isCutpoint[mod(k-1, n)] {
						continue
					}
					a, da := p.zBP.get(i, j), p.zBP.getDeriv(i, j)
					b, db := cEffForCoax.get(j+1, k-1), cEffForCoax.getDeriv(j+1, k-1)
					c, dc := p.zBP.get(k, i-1), p.zBP.getDeriv(k, i-1)
					add(a*b*c*coaxLoopCoef, (da*b*c+a*db*c+a*b*dc)*coaxLoopCoef, []branch{
						{tableZBP, mod(i, n), mod(j, n)},
						{cEffForCoaxID, mod(j+1, n), mod(k-1, n)},
						{tableZBP, mod(k, n), mod(i-1, n)},
					})
				}
			}

			// two coaxially stacked pairs connected by a chain break across the junction
			for j := i + 1; j < i+n-2; j++ {
				for k := j + 1; k < i+n-1; k++ {
					a, da := p.zBP.get(i, j), p.zBP.getDeriv(i, j)
					b, db := p.zCut.get(j, k), p.zCut.getDeriv(j, k)
					c, dc := p.zBP.get(k, i-1), p.zBP.getDeriv(k, i-1)
					add(a*b*c*params.KCoax, (da*b*c+a*db*c+a*b*dc)*params.KCoax, []branch{
						{tableZBP, mod(i, n), mod(j, n)},
						{tableZCut, mod(j, n), mod(k, n)},
						{tableZBP, mod(k, n), mod(i-1, n)},
					})
				}
			}
		}

		zFinal[i] = value
		dzFinal[i] = deriv
		if capture {
			zFinalContrib[i] = contribs
		}
	}

	p.zFinal = zFinal
	p.dzFinal = dzFinal
	if capture {
		p.zFinalContrib = zFinalContrib
	}
}

// getBPPMatrix implements get_bpp_matrix: the probability that
// positions i and j are paired is the product of the forward and reverse
// Z_BP sub-sums, scaled by Kd_BP and normalized by the total partition
// function. Multiplying by the shared Kd_BP here (rather than per base-pair
// type) is exact because every base-pair type in the registry is
// constructed with the same Kd_BP (basepair.go); a registry with
// type-specific dissociation constants would need to normalize per type
// before summing.
func (p *partition) getBPPMatrix() {
	n := p.seq.n
	bpp := make([][]float64, n)
	for i := range bpp {
		bpp[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			bpp[i][j] = p.zBP.get(i, j) * p.zBP.get(j, i) * p.params.KdBP / p.zFinal[0]
		}
	}
	p.bpp = bpp
}
