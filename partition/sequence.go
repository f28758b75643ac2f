package partition

import (
	"fmt"
	"strings"
)

// sequenceTopology holds the immutable sequence and cutpoint state derived
// from the caller's strand list: the concatenated
// sequence, which positions are chain breaks ("cutpoints"), and a
// precomputed "is there any cutpoint strictly between i and j going
// forward" table that every recursion operator's loop-length gate reads.
type sequenceTopology struct {
	sequence               string
	n                      int
	isCutpoint             []bool
	anyInterveningCutpoint [][]bool
}

const rnaAlphabet = "ACGUacgu"

func newSequenceTopology(sequences []string, circle bool) (*sequenceTopology, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("partition: no strands given")
	}
	var sb strings.Builder
	for _, s := range sequences {
		if len(s) == 0 {
			return nil, fmt.Errorf("partition: strand list contains an empty strand")
		}
		sb.WriteString(s)
	}
	sequence := sb.String()
	if err := validateAlphabet(sequence); err != nil {
		return nil, err
	}
	n := len(sequence)

	isCutpoint := make([]bool, n)
	length := 0
	for k := 0; k < len(sequences)-1; k++ {
		length += len(sequences[k])
		isCutpoint[length-1] = true
	}
	if !circle {
		isCutpoint[n-1] = true
	}

	return &sequenceTopology{
		sequence:               sequence,
		n:                      n,
		isCutpoint:             isCutpoint,
		anyInterveningCutpoint: computeAnyInterveningCutpoint(isCutpoint),
	}, nil
}

// validateAlphabet accepts the four canonical RNA bases plus their
// lowercase forms, which the generic wildcard base-pair type (basepair.go)
// matches as a self-pairing "unknown nucleotide" placeholder.
func validateAlphabet(sequence string) error {
	for idx := 0; idx < len(sequence); idx++ {
		if strings.IndexByte(rnaAlphabet, sequence[idx]) < 0 {
			return fmt.Errorf("partition: invalid nucleotide %q at position %d", sequence[idx], idx)
		}
	}
	return nil
}

// computeAnyInterveningCutpoint builds, for every ordered pair (i, j), a
// flag for whether a cutpoint lies on the forward cyclic arc strictly
// between i and j. update_Z_BP's loop-length gate uses this to allow
// short hairpin-sized loops to be skipped while still letting genuinely
// inter-strand pairs (which have no minimum loop-length requirement) form.
func computeAnyInterveningCutpoint(isCutpoint []bool) [][]bool {
	n := len(isCutpoint)
	result := make([][]bool, n)
	for i := range result {
		result[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		foundCutpoint := false
		for offset := 0; offset < n; offset++ {
			j := mod(i+offset, n)
			result[i][j] = foundCutpoint
			if isCutpoint[j] {
				foundCutpoint = true
			}
		}
	}
	return result
}
