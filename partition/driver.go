/*
Package partition implements the zetafold-style statistical-mechanical
partition-function engine for RNA (or generic nucleotide) secondary
structure: given one or more interacting strands, it fills five
interdependent dynamic-programming tables in a fixed per-cell order,
derives the total partition function, the base-pair probability matrix,
the minimum-free-energy structure, and (optionally) the analytical
derivative of the partition function with respect to the base-pair
dissociation constant.

The recursions, their loop-length and cutpoint gating, and the coaxial
stacking and strained-three-way-junction exclusion logic all mirror a
known published recursion set; this package is a clean-room Go port of
that recursion structure, not a translation of any particular reference
implementation's control flow.
*/
package partition

// partition is the internal engine state: the five core DP tables, the
// two derived singlet-exclusion tables, the base-pair-type registry, and
// (once computed) the per-origin Z_final/dZ_final arrays and the BPP
// matrix. One partition is built per Run/New call and is never reused
// across sequences.
type partition struct {
	seq       *sequenceTopology
	params    *AlphaFoldParams
	circle    bool
	calcDeriv bool

	zBP, zCoax, cEff, zLinear, zCut    *table
	cEffNoCoaxSinglet, cEffNoBPSinglet *table
	basePairTypes                      []*basePairType

	zFinal        []float64
	dzFinal       []float64
	zFinalContrib [][]contribution

	bpp [][]float64
}

func newPartition(sequences []string, params *AlphaFoldParams, circle bool, calcDeriv bool) (*partition, error) {
	seq, err := newSequenceTopology(sequences, circle)
	if err != nil {
		return nil, err
	}
	n := seq.n

	p := &partition{
		seq:       seq,
		params:    params,
		circle:    circle,
		calcDeriv: calcDeriv,
		zBP:       newTable(n),
		zCoax:     newTable(n),
		cEff:      newTable(n),
		zLinear:   newTable(n),
		zCut:      newTable(n),

		basePairTypes: newBasePairTypeRegistry(n, params.KdBP),
	}

	// diagonal boundary conditions: an empty span (offset 0) contributes a
	// Z_linear of 1 (the empty structure) and a C_eff seeded by C_init.
	for i := 0; i < n; i++ {
		p.zLinear.set(i, i, 1, 0)
		p.cEff.set(i, i, params.CInit, 0)
	}
	p.cEffNoCoaxSinglet = cloneTable(p.cEff)
	p.cEffNoBPSinglet = cloneTable(p.cEff)

	return p, nil
}

// run executes the DP driver: for every offset from 1 to N-1, for
// every starting index i, fill cell (i, j=i+offset mod N) of all five
// tables in the fixed order Z_cut, Z_BP, Z_coax, C_eff, Z_linear. Offset 0
// (the diagonal) is never re-entered once initialized above. The order
// matters: each table's recursion at a given offset depends only on cells
// at strictly smaller offsets, plus the four tables already updated at the
// same offset earlier in this list.
func (p *partition) run() {
	n := p.seq.n
	for offset := 1; offset < n; offset++ {
		for i := 0; i < n; i++ {
			j := mod(i+offset, n)
			p.updateZCutCell(i, j)
			p.updateZBPCell(i, j)
			p.updateZCoaxCell(i, j)
			p.updateCEffCell(i, j)
			p.updateZLinearCell(i, j)
		}
	}
	p.getZFinal(false)
	p.getBPPMatrix()
}

func (p *partition) updateZCutCell(i, j int) {
	v, dv, _ := p.computeZCut(i, j, false)
	p.zCut.set(i, j, v, dv)
}

func (p *partition) updateZBPCell(i, j int) {
	v, dv, _ := p.computeZBP(i, j, false)
	p.zBP.set(i, j, v, dv)
}

func (p *partition) updateZCoaxCell(i, j int) {
	v, dv, _ := p.computeZCoax(i, j, false)
	p.zCoax.set(i, j, v, dv)
}

func (p *partition) updateCEffCell(i, j int) {
	full, noCoax, noBP := p.computeCEff(i, j, false)
	p.cEff.set(i, j, full.value, full.deriv)
	p.cEffNoCoaxSinglet.set(i, j, noCoax.value, noCoax.deriv)
	p.cEffNoBPSinglet.set(i, j, noBP.value, noBP.deriv)
}

func (p *partition) updateZLinearCell(i, j int) {
	v, dv, _ := p.computeZLinear(i, j, false)
	p.zLinear.set(i, j, v, dv)
}

// expandBranch recomputes, with contribution capture enabled, whichever
// cell a traceback branch points at: rather than storing a contribution
// ledger for every cell up front (which is memory-prohibitive for large N),
// traceback recomputes exactly the cells it visits. Diagonal cells are the
// boundary conditions set in newPartition, not recursion results, so a
// branch into one is a leaf: Z_linear and the C_eff tables yield a single
// branch-free contribution, and the other tables (zero on the diagonal)
// yield none.
func (p *partition) expandBranch(b branch) []contribution {
	if mod(b.i, p.seq.n) == mod(b.j, p.seq.n) {
		switch b.table {
		case tableZLinear, tableCEff, tableCEffNoCoaxSinglet, tableCEffNoBPSinglet:
			return []contribution{{weight: 1}}
		}
		return nil
	}
	switch b.table {
	case tableZBP:
		_, _, c := p.computeZBP(b.i, b.j, true)
		return c
	case tableZCut:
		_, _, c := p.computeZCut(b.i, b.j, true)
		return c
	case tableZCoax:
		_, _, c := p.computeZCoax(b.i, b.j, true)
		return c
	case tableZLinear:
		_, _, c := p.computeZLinear(b.i, b.j, true)
		return c
	case tableCEff, tableCEffNoCoaxSinglet, tableCEffNoBPSinglet:
		return p.recomputeCEff(b.table, b.i, b.j)
	default:
		panic("partition: traceback branch references an unknown table")
	}
}

func (p *partition) recomputeCEff(which tableID, i, j int) []contribution {
	full, noCoax, noBP := p.computeCEff(i, j, true)
	switch which {
	case tableCEff:
		return full.contribs
	case tableCEffNoCoaxSinglet:
		return noCoax.contribs
	case tableCEffNoBPSinglet:
		return noBP.contribs
	default:
		panic("partition: recomputeCEff called with a non-C_eff table id")
	}
}
