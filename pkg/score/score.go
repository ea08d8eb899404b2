// 14 Jan 2026

// Package score rates the quality of a multiple sequence alignment.
// Each metric walks the columns of the alignment and boils them down
// to one number. A caller has to look at IsMinimization to know which
// way round that number is better, since two of the historical metrics
// declare directions one would not guess.
package score

import (
	"errors"
	"fmt"
)

// ErrNotAligned is returned when the input sequences do not all have
// the same length, so they cannot come from one alignment.
var ErrNotAligned = errors.New("sequences are not aligned")

// Score is what every metric looks like. Evaluate gets sequences that
// have already been through CheckAligned, so it cannot fail.
type Score interface {
	Evaluate(seqs [][]byte) float64
	IsMinimization() bool
	Name() string
}

// CheckAligned says whether a set of sequences could be an alignment.
// Everything must be the same length as the first sequence and there
// has to be at least one sequence with at least one site. Without the
// site check, the percentage metrics would divide by zero.
func CheckAligned(seqs [][]byte) error {
	if len(seqs) == 0 {
		return fmt.Errorf("%w: no sequences given", ErrNotAligned)
	}
	want := len(seqs[0])
	if want == 0 {
		return fmt.Errorf("%w: sequences have no sites", ErrNotAligned)
	}
	for i, s := range seqs {
		if len(s) != want {
			return fmt.Errorf("%w: sequence %d has %d sites, first has %d",
				ErrNotAligned, i, len(s), want)
		}
	}
	return nil
}

// Compute is the entry point shared by all metrics. It validates the
// input once, then hands over to the metric.
func Compute(sc Score, seqs [][]byte) (float64, error) {
	if err := CheckAligned(seqs); err != nil {
		return 0, fmt.Errorf("%s: %w", sc.Name(), err)
	}
	return sc.Evaluate(seqs), nil
}

// column collects the symbols at site k across all sequences, in input
// order. The caller's buffer is reused so the column loops do not
// allocate.
func column(seqs [][]byte, k int, buf []byte) []byte {
	buf = buf[:0]
	for _, s := range seqs {
		buf = append(buf, s[k])
	}
	return buf
}
