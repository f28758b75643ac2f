package partition

import "fmt"

// BasePair is a single base-pair assignment, 0-indexed into the
// concatenation of the input strands in the order they were given.
type BasePair struct {
	FivePrimeIdx, ThreePrimeIdx int
}

// StructureProbability pairs one secondary structure with its normalized
// Boltzmann probability, as produced by Enumerate.
type StructureProbability struct {
	BasePairs   []BasePair
	Probability float64
}

// Result is the one-shot summary output of Run.
type Result struct {
	ZFinal       float64
	BPP          [][]float64
	MFEBasePairs []BasePair
	DZFinal      float64
}

// Engine owns the DP tables built from a single forward pass and
// supports repeated traceback queries against them. Build one with New, use
// it as many times as you like, then discard it; it holds no state beyond
// what its own sequence and parameters determine.
type Engine struct {
	p *partition
}

// New runs the forward DP pass over sequences (one string per interacting
// strand) and returns an Engine ready for Z/BPP/MFE/Enumerate/
// BoltzmannSample queries. circle marks the (single- or multi-strand)
// molecule as closed into a cycle rather than linear. calcDeriv enables the
// analytical derivative of Z with respect to Kd_BP, which BPP's
// cross-check and DZ depend on; callers that don't need either may
// pass false, which skips the derivative cross-checks and makes DZ report
// 0 (the derivative tables are still filled). params may be nil, in which
// case NewDefaultAlphaFoldParams is used.
func New(sequences []string, params *AlphaFoldParams, circle bool, calcDeriv bool) (*Engine, error) {
	if params == nil {
		params = NewDefaultAlphaFoldParams()
	}
	p, err := newPartition(sequences, params, circle, calcDeriv)
	if err != nil {
		return nil, err
	}
	p.run()
	p.runCrossChecks()
	return &Engine{p: p}, nil
}

// Z returns the total partition function, computed from origin 0.
func (e *Engine) Z() float64 { return e.p.zFinal[0] }

// DZ returns dZ/dKd_BP, computed from origin 0. Only meaningful if New was
// called with calcDeriv true; otherwise it is 0.
func (e *Engine) DZ() float64 {
	if !e.p.calcDeriv {
		return 0
	}
	return e.p.dzFinal[0]
}

// BPP returns the base-pair probability matrix.
func (e *Engine) BPP() [][]float64 { return e.p.bpp }

// MFE returns the minimum-free-energy structure: the single highest-weight
// path through the contribution ledger rooted at origin 0, and its
// Boltzmann probability. The underlying traceback must be unique (total
// weight of exactly one path); a failure of that invariant panics rather
// than returning an error, for the same reason the checks in crosscheck.go
// do.
//
// As a stronger check (grounded in _calc_mfe's own per-origin
// re-derivation in the original source), MFE also retraces from
// a second origin when the sequence is long enough to have one, and panics
// if the two origins disagree on the MFE probability beyond the same
// 1e-5 relative tolerance crosscheck.go uses elsewhere. A disagreement
// here means the recursions themselves are inconsistent, not that the
// caller passed bad input.
func (e *Engine) MFE() ([]BasePair, float64, error) {
	paths := e.p.tracebackFromOrigin(0, MFE)
	if len(paths) != 1 {
		panic(fmt.Sprintf("partition: MFE traceback returned %d structures, want exactly 1", len(paths)))
	}

	if altOrigin := e.p.seq.n / 2; altOrigin != 0 {
		altPaths := e.p.tracebackFromOrigin(altOrigin, MFE)
		if len(altPaths) != 1 {
			panic(fmt.Sprintf("partition: MFE traceback from origin %d returned %d structures, want exactly 1", altOrigin, len(altPaths)))
		}
		if relDiff(altPaths[0].probability, paths[0].probability) >= relTolerance {
			panic(fmt.Sprintf("partition: MFE probability disagrees across origins: origin 0=%v, origin %d=%v",
				paths[0].probability, altOrigin, altPaths[0].probability))
		}
	}

	return toBasePairs(paths[0].basePairs), paths[0].probability, nil
}

// BoltzmannSample draws one structure from the Boltzmann ensemble rooted at
// origin 0. If seed is 0, a seed is derived deterministically from the
// sequence and circularization flag (seed.go) so repeated calls for the
// same input (with an unspecified seed) still agree; pass a nonzero seed
// for an explicitly reproducible draw.
func (e *Engine) BoltzmannSample(seed int64) ([]BasePair, float64, error) {
	if seed == 0 {
		seed = seedFromSequence(e.p.seq.sequence, e.p.circle)
	}
	seedStochasticSource(seed)
	paths := e.p.tracebackFromOrigin(0, Stochastic)
	if len(paths) != 1 {
		panic(fmt.Sprintf("partition: stochastic traceback returned %d structures, want exactly 1", len(paths)))
	}
	return toBasePairs(paths[0].basePairs), paths[0].probability, nil
}

// Enumerate returns every structure reachable from origin 0, each tagged
// with its normalized Boltzmann probability. The probabilities always sum
// to 1; this is only practical for short sequences, as the ensemble size
// grows combinatorially with length.
func (e *Engine) Enumerate() []StructureProbability {
	paths := e.p.tracebackFromOrigin(0, Enumerative)
	result := make([]StructureProbability, len(paths))
	for i, path := range paths {
		result[i] = StructureProbability{BasePairs: toBasePairs(path.basePairs), Probability: path.probability}
	}
	return result
}

func (p *partition) tracebackFromOrigin(origin int, mode TracebackMode) []weightedPath {
	if p.zFinalContrib == nil {
		p.getZFinal(true)
	}
	return p.traceback(p.zFinalContrib[origin], mode)
}

func toBasePairs(pairs [][2]int) []BasePair {
	result := make([]BasePair, len(pairs))
	for i, pr := range pairs {
		result[i] = BasePair{FivePrimeIdx: pr[0], ThreePrimeIdx: pr[1]}
	}
	return result
}

// Run is a convenience wrapper around New for callers that only need the
// one-shot summary outputs.
func Run(sequences []string, params *AlphaFoldParams, circle bool, calcDeriv bool) (Result, error) {
	e, err := New(sequences, params, circle, calcDeriv)
	if err != nil {
		return Result{}, err
	}
	mfeBasePairs, _, err := e.MFE()
	if err != nil {
		return Result{}, err
	}
	return Result{
		ZFinal:       e.Z(),
		BPP:          e.BPP(),
		MFEBasePairs: mfeBasePairs,
		DZFinal:      e.DZ(),
	}, nil
}
