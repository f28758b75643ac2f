package partition

// cEffResult is the value, derivative, and (when capturing) contribution
// ledger of one of the three tables computeCEff produces together: the
// full C_eff, and the two singlet-exclusion snapshots taken before the
// self-pair and self-coax terms are folded in.
type cEffResult struct {
	value, deriv float64
	contribs     []contribution
}

// computeCEff implements update_C_eff. C_eff[i][j] extends by one
// unpaired residue, by a base pair closing at j with any partner k, or by a
// coaxial stack closing at j with any partner k. Two derived tables are
// snapshotted from the running partial sum after those three terms but
// before the final two (self-pair and self-coax with i itself are folded
// in last): C_eff_no_coax_singlet omits the bare self-coax term, and
// C_eff_no_BP_singlet omits the bare self-pair term. These are what
// computeZBP reads from when strained three-way-junctions are disallowed,
// so a new base pair can never close directly onto a bare coaxial stack (or
// a coaxial stack directly onto a bare base pair) with no spacer residue.
// computeCEff reads them itself (in steps 2 and 3) only for the outermost
// cell, offset N-1 with j not a cutpoint; every other cell uses plain C_eff.
func (p *partition) computeCEff(i, j int, capture bool) (full, noCoaxSinglet, noBPSinglet cEffResult) {
	n := p.seq.n
	offset := mod(j-i, n)
	params := p.params

	excludeStrained3WJ := !params.AllowStrained3WJ && offset == n-1 && !p.seq.isCutpoint[mod(j, n)]

	var partialValue, partialDeriv float64
	var partialContribs []contribution
	add := func(w, dw float64, branches []branch) {
		partialValue += w
		partialDeriv += dw
		if capture && w != 0 {
			partialContribs = append(partialContribs, contribution{weight: w, branches: branches})
		}
	}

	// step 1: extend by one unpaired residue
	if !p.seq.isCutpoint[mod(j-1, n)] {
		v, dv := p.cEff.get(i, j-1), p.cEff.getDeriv(i, j-1)
		add(v*params.L, dv*params.L, []branch{{tableCEff, mod(i, n), mod(j-1, n)}})
	}

	var cEffForBP *table
	var cEffForBPID tableID
	if excludeStrained3WJ {
		cEffForBP, cEffForBPID = p.cEffNoCoaxSinglet, tableCEffNoCoaxSinglet
	} else {
		cEffForBP, cEffForBPID = p.cEff, tableCEff
	}
	// step 2: j paired with some k > i
	for k := i + 1; k < i+offset; k++ {
		if p.seq.isCutpoint[mod(k-1, n)] {
			continue
		}
		a, da := cEffForBP.get(i, k-1), cEffForBP.getDeriv(i, k-1)
		b, db := p.zBP.get(k, j), p.zBP.getDeriv(k, j)
		coef := params.L * params.LBP
		add(a*b*coef, (da*b+a*db)*coef, []branch{
			{cEffForBPID, mod(i, n), mod(k-1, n)},
			{tableZBP, mod(k, n), mod(j, n)},
		})
	}

	var cEffForCoax *table
	var cEffForCoaxID tableID
	if excludeStrained3WJ {
		cEffForCoax, cEffForCoaxID = p.cEffNoBPSinglet, tableCEffNoBPSinglet
	} else {
		cEffForCoax, cEffForCoaxID = p.cEff, tableCEff
	}
	// step 3: j coax-stacked with some k > i
	for k := i + 1; k < i+offset; k++ {
		if p.seq.isCutpoint[mod(k-1, n)] {
			continue
		}
		a, da := cEffForCoax.get(i, k-1), cEffForCoax.getDeriv(i, k-1)
		b, db := p.zCoax.get(k, j), p.zCoax.getDeriv(k, j)
		coef := params.L * params.LCoax
		add(a*b*coef, (da*b+a*db)*coef, []branch{
			{cEffForCoaxID, mod(i, n), mod(k-1, n)},
			{tableZCoax, mod(k, n), mod(j, n)},
		})
	}

	zbpSelf, dzbpSelf := p.zBP.get(i, j), p.zBP.getDeriv(i, j)
	zcoaxSelf, dzcoaxSelf := p.zCoax.get(i, j), p.zCoax.getDeriv(i, j)

	bpSelfTerm := params.CInit * params.LBP
	coaxSelfTerm := params.CInit * params.LCoax

	noCoaxSinglet = cEffResult{
		value: partialValue + bpSelfTerm*zbpSelf,
		deriv: partialDeriv + bpSelfTerm*dzbpSelf,
	}
	if capture {
		noCoaxSinglet.contribs = append(append([]contribution{}, partialContribs...),
			contribution{weight: bpSelfTerm * zbpSelf, branches: []branch{{tableZBP, mod(i, n), mod(j, n)}}})
	}

	noBPSinglet = cEffResult{
		value: partialValue + coaxSelfTerm*zcoaxSelf,
		deriv: partialDeriv + coaxSelfTerm*dzcoaxSelf,
	}
	if capture {
		noBPSinglet.contribs = append(append([]contribution{}, partialContribs...),
			contribution{weight: coaxSelfTerm * zcoaxSelf, branches: []branch{{tableZCoax, mod(i, n), mod(j, n)}}})
	}

	full = cEffResult{
		value: noCoaxSinglet.value + coaxSelfTerm*zcoaxSelf,
		deriv: noCoaxSinglet.deriv + coaxSelfTerm*dzcoaxSelf,
	}
	if capture {
		full.contribs = append(append([]contribution{}, noCoaxSinglet.contribs...),
			contribution{weight: coaxSelfTerm * zcoaxSelf, branches: []branch{{tableZCoax, mod(i, n), mod(j, n)}}})
	}

	return full, noCoaxSinglet, noBPSinglet
}
