package partition

import (
	"math"
	"math/rand"

	weightedrand "github.com/mroth/weightedrand"
)

// TracebackMode selects how a cell's contribution ledger is resolved into
// one or more secondary structures.
type TracebackMode int

const (
	// Enumerative expands every contribution at every branch, producing the
	// full Boltzmann ensemble of structures reachable from the starting
	// cell, each tagged with its normalized probability.
	Enumerative TracebackMode = iota
	// MFE follows, at every branch, the single highest-weight contribution,
	// producing the one minimum-free-energy structure.
	MFE
	// Stochastic follows, at every branch, one contribution drawn with
	// probability proportional to its weight, producing one sample from the
	// Boltzmann ensemble.
	Stochastic
)

// weightedPath is one fully-resolved path through the contribution ledger:
// a probability (relative to the cell traceback started from) and the base
// pairs it implies.
type weightedPath struct {
	probability float64
	basePairs   [][2]int
}

// traceback resolves a cell's contribution list into weighted paths. Each
// contribution's weight is normalized against the sum of all contributions
// at this cell; a contribution whose branches reference other cells
// recurses into expandBranch for each, and the branches combine by taking
// the Cartesian product of their own resolved sub-paths, multiplying
// probabilities and concatenating base-pair lists. A branch into Z_BP
// additionally contributes the base pair (i, j) itself.
func (p *partition) traceback(contribs []contribution, mode TracebackMode) []weightedPath {
	if len(contribs) == 0 {
		return nil
	}

	var total float64
	for _, c := range contribs {
		total += c.weight
	}
	if total == 0 {
		return nil
	}

	var chosen []contribution
	switch mode {
	case MFE:
		chosen = []contribution{maxContribution(contribs)}
	case Stochastic:
		chosen = []contribution{p.sampleContribution(contribs, total)}
	default:
		chosen = contribs
	}

	var paths []weightedPath
	for _, c := range chosen {
		if c.weight == 0 {
			continue
		}
		branchPaths := []weightedPath{{probability: c.weight / total}}

		for _, b := range c.branches {
			if b.table == tableZBP {
				pair := [2]int{mod(b.i, p.seq.n), mod(b.j, p.seq.n)}
				for idx := range branchPaths {
					branchPaths[idx].basePairs = append(
						append([][2]int{}, branchPaths[idx].basePairs...), pair)
				}
			}

			component := p.traceback(p.expandBranch(b), mode)
			if len(component) == 0 {
				continue
			}

			merged := make([]weightedPath, 0, len(branchPaths)*len(component))
			for _, left := range branchPaths {
				for _, right := range component {
					merged = append(merged, weightedPath{
						probability: left.probability * right.probability,
						basePairs:   concatBasePairs(left.basePairs, right.basePairs),
					})
				}
			}
			branchPaths = merged
		}

		paths = append(paths, branchPaths...)
	}
	return paths
}

func maxContribution(contribs []contribution) contribution {
	best := contribs[0]
	for _, c := range contribs[1:] {
		if c.weight > best.weight {
			best = c
		}
	}
	return best
}

// sampleContribution draws one contribution with probability proportional
// to its weight, using the pack's weighted-choice library. weightedrand
// works in integer weights and in terms of the global math/rand source, so
// weights are rescaled to a fixed-point integer range and the caller is
// expected to have seeded math/rand (see seed.go) before traceback runs in
// Stochastic mode.
func (p *partition) sampleContribution(contribs []contribution, total float64) contribution {
	const precision = 1 << 24

	choices := make([]weightedrand.Choice, 0, len(contribs))
	for idx, c := range contribs {
		w := uint(math.Round(c.weight / total * precision))
		if w == 0 {
			continue
		}
		choices = append(choices, weightedrand.NewChoice(idx, w))
	}
	if len(choices) == 0 {
		return contribs[0]
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		for _, c := range contribs {
			if c.weight > 0 {
				return c
			}
		}
		return contribs[0]
	}

	idx, _ := chooser.Pick().(int)
	return contribs[idx]
}

// seedStochasticSource seeds the global math/rand source that weightedrand
// draws from, so a Boltzmann sample is reproducible for a given seed.
func seedStochasticSource(seed int64) {
	rand.Seed(seed)
}

func concatBasePairs(a, b [][2]int) [][2]int {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([][2]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
