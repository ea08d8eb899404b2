// 14 Jan 2026

package score

import (
	"github.com/andrew-torda/msa_qual/pkg/submat"
)

// SumOfPairs adds up the substitution score over every unordered pair
// of symbols in each column. That is C(n,2) pairs per column, no self
// pairs and nothing counted twice, so the cost is quadratic in the
// number of sequences.
type SumOfPairs struct {
	submat *submat.Submat
}

// NewSumOfPairs returns a SumOfPairs scorer. A nil matrix means
// PAM250.
func NewSumOfPairs(sm *submat.Submat) SumOfPairs {
	if sm == nil {
		sm = submat.PAM250()
	}
	return SumOfPairs{submat: sm}
}

func (sp SumOfPairs) Evaluate(seqs [][]byte) float64 {
	final := 0
	buf := make([]byte, 0, len(seqs))
	for k := 0; k < len(seqs[0]); k++ {
		col := column(seqs, k, buf)
		for i := 0; i < len(col); i++ {
			for j := i + 1; j < len(col); j++ {
				final += sp.submat.Score(col[i], col[j])
			}
		}
	}
	return float64(final)
}

func (SumOfPairs) IsMinimization() bool { return false }

func (SumOfPairs) Name() string { return "SumOfPairs" }
