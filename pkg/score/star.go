// 14 Jan 2026

package score

import (
	"github.com/andrew-torda/msa_qual/pkg/submat"
)

// Star compares every symbol of a column with the column's most
// frequent symbol, the majority symbol included, and adds up the
// substitution scores.
type Star struct {
	submat *submat.Submat
}

// NewStar returns a Star scorer. A nil matrix means PAM250, the
// traditional default for these metrics.
func NewStar(sm *submat.Submat) Star {
	if sm == nil {
		sm = submat.PAM250()
	}
	return Star{submat: sm}
}

// mostFrequent returns the majority symbol of a column. On a tied
// count, the symbol that appears first in the column wins. The strict
// ">" below is what makes that deterministic: a later symbol only
// displaces an earlier one with a strictly higher count.
func mostFrequent(col []byte) byte {
	var counts [256]int
	for _, c := range col {
		counts[c]++
	}
	max := 0
	var most byte
	for _, c := range col {
		if counts[c] > max {
			max = counts[c]
			most = c
		}
	}
	return most
}

func (st Star) Evaluate(seqs [][]byte) float64 {
	final := 0
	buf := make([]byte, 0, len(seqs))
	for k := 0; k < len(seqs[0]); k++ {
		col := column(seqs, k, buf)
		most := mostFrequent(col)
		for _, c := range col {
			final += st.submat.Score(most, c)
		}
	}
	return float64(final)
}

func (Star) IsMinimization() bool { return false }

func (Star) Name() string { return "Star" }
