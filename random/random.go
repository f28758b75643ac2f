/*
Package random provides functions to generate random RNA sequences and
multi-strand sequence sets, used to drive property-based tests of the
partition package.
*/
package random

import (
	"math/rand"
)

var rnaAlphabet = []rune("ACUG")

// RNASequence returns a random RNA sequence string of a given length and seed.
func RNASequence(length int, seed int64) string {
	return randomNucleotideSequence(length, seed)
}

// RNAStrands returns a set of nStrands independently-seeded random RNA
// sequences, each of the given length. Useful for generating multi-strand
// inputs that exercise the partition engine's cutpoint handling.
func RNAStrands(nStrands, length int, seed int64) []string {
	strands := make([]string, nStrands)
	for i := 0; i < nStrands; i++ {
		strands[i] = randomNucleotideSequence(length, seed+int64(i))
	}
	return strands
}

func randomNucleotideSequence(length int, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	sequence := make([]rune, length)
	for i := range sequence {
		sequence[i] = rnaAlphabet[r.Intn(len(rnaAlphabet))]
	}
	return string(sequence)
}
