package partition

// computeZBP implements update_Z_BP: the probability-weighted sum,
// over every base-pair type that nucleotides i and j can form, of every way
// a base pair (i, j) can close a loop, stack on an adjacent pair, bring two
// strands together at a chain break, or coaxially stack with a neighboring
// helix. Each base-pair type keeps its own sub-table (Z_BPq) so the
// aggregation into Z_BP is just a sum.
//
// When strained three-way-junctions are disallowed, the closure terms
// (hairpin/interior loop and left/right coaxial stack) read from the
// singlet-exclusion tables instead of plain C_eff, so a base pair can never
// close directly onto a bare stacked pair or bare coaxial stack with zero
// intervening loop; see c_eff.go.
func (p *partition) computeZBP(i, j int, capture bool) (value, deriv float64, contribs []contribution) {
	n := p.seq.n
	offset := mod(j-i, n)
	params := p.params

	if !p.seq.anyInterveningCutpoint[i][j] && mod(j-i-1, n) < params.MinLoopLength {
		return 0, 0, nil
	}
	if !p.seq.anyInterveningCutpoint[j][i] && mod(i-j-1, n) < params.MinLoopLength {
		return 0, 0, nil
	}

	var cEffForBP, cEffForCoax *table
	var cEffForBPID, cEffForCoaxID tableID
	if params.AllowStrained3WJ {
		cEffForBP, cEffForBPID = p.cEff, tableCEff
		cEffForCoax, cEffForCoaxID = p.cEff, tableCEff
	} else {
		cEffForBP, cEffForBPID = p.cEffNoCoaxSinglet, tableCEffNoCoaxSinglet
		cEffForCoax, cEffForCoaxID = p.cEffNoBPSinglet, tableCEffNoBPSinglet
	}

	iNotCut := !p.seq.isCutpoint[mod(i, n)]
	jm1NotCut := !p.seq.isCutpoint[mod(j-1, n)]

	for _, bpt := range p.basePairTypes {
		if !bpt.matches(p.seq.sequence, mod(i, n), mod(j, n)) {
			continue
		}
		kd := bpt.kdBP

		var qValue, dValue float64
		var termContribs []contribution
		add := func(w, dw float64, branches []branch) {
			qValue += w
			dValue += dw
			if capture && w != 0 {
				termContribs = append(termContribs, contribution{weight: w, branches: branches})
			}
		}

		if iNotCut && jm1NotCut {
			// term 1: hairpin/interior closure
			cv := cEffForBP.get(i+1, j-1)
			coef := params.L * params.L * params.LBP / kd
			add(cv*coef, cEffForBP.getDeriv(i+1, j-1)*coef, []branch{{cEffForBPID, mod(i+1, n), mod(j-1, n)}})

			// term 2: stacked pair
			zv := p.zBP.get(i+1, j-1)
			coef = params.CEffStackedPair / kd
			add(zv*coef, p.zBP.getDeriv(i+1, j-1)*coef, []branch{{tableZBP, mod(i+1, n), mod(j-1, n)}})
		}

		// term 3: inter-strand pairing via a chain break (no loop-length gate)
		{
			zv := p.zCut.get(i, j)
			coef := params.CStd / kd
			add(zv*coef, p.zCut.getDeriv(i, j)*coef, []branch{{tableZCut, mod(i, n), mod(j, n)}})
		}

		if iNotCut && jm1NotCut {
			coaxCoef := params.L * params.L * params.LCoax * params.KCoax / kd

			// term 4: left coaxial stack, right-closed loop
			for k := i + 2; k < i+offset-1; k++ {
				if p.seq.isCutpoint[mod(k, n)] {
					continue
				}
				a, da := p.zBP.get(i+1, k), p.zBP.getDeriv(i+1, k)
				b, db := cEffForCoax.get(k+1, j-1), cEffForCoax.getDeriv(k+1, j-1)
				add(a*b*coaxCoef, (da*b+a*db)*coaxCoef, []branch{
					{tableZBP, mod(i+1, n), mod(k, n)},
					{cEffForCoaxID, mod(k+1, n), mod(j-1, n)},
				})
			}

			// term 5: left-closed loop, right coaxial stack
			for k := i + 2; k < i+offset-1; k++ {
				if p.seq.isCutpoint[mod(k-1, n)] {
					continue
				}
				a, da := cEffForCoax.get(i+1, k-1), cEffForCoax.getDeriv(i+1, k-1)
				b, db := p.zBP.get(k, j-1), p.zBP.getDeriv(k, j-1)
				add(a*b*coaxCoef, (da*b+a*db)*coaxCoef, []branch{
					{cEffForCoaxID, mod(i+1, n), mod(k-1, n)},
					{tableZBP, mod(k, n), mod(j-1, n)},
				})
			}
		}

		cutCoaxCoef := params.CStd * params.KCoax / kd

		// term 6: left coaxial stack, open right via a chain break
		if iNotCut {
			for k := i + 2; k < i+offset; k++ {
				a, da := p.zBP.get(i+1, k), p.zBP.getDeriv(i+1, k)
				b, db := p.zCut.get(k, j), p.zCut.getDeriv(k, j)
				add(a*b*cutCoaxCoef, (da*b+a*db)*cutCoaxCoef, []branch{
					{tableZBP, mod(i+1, n), mod(k, n)},
					{tableZCut, mod(k, n), mod(j, n)},
				})
			}
		}

		// term 7: open left via a chain break, right coaxial stack
		if jm1NotCut {
			for k := i; k < i+offset-1; k++ {
				a, da := p.zCut.get(i, k), p.zCut.getDeriv(i, k)
				b, db := p.zBP.get(k, j-1), p.zBP.getDeriv(k, j-1)
				add(a*b*cutCoaxCoef, (da*b+a*db)*cutCoaxCoef, []branch{
					{tableZCut, mod(i, n), mod(k, n)},
					{tableZBP, mod(k, n), mod(j-1, n)},
				})
			}
		}

		// closed-form derivative contribution from the explicit 1/Kd_BPq
		// prefactor common to every term above.
		dValue += -(1.0 / kd) * qValue

		if capture {
			bpt.z.setContrib(i, j, termContribs)
		}
		bpt.z.set(i, j, qValue, dValue)

		value += qValue
		deriv += dValue
		if capture {
			contribs = append(contribs, termContribs...)
		}
	}

	return value, deriv, contribs
}
