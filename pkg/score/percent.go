// 14 Jan 2026

package score

import (
	"log/slog"

	. "github.com/andrew-torda/msa_qual/pkg/seq/common"
)

// PercentageOfNonGaps reports how much of the alignment is residues
// rather than gap characters. No gaps at all gives 100, all gaps gives
// 0.
type PercentageOfNonGaps struct{}

func (PercentageOfNonGaps) Evaluate(seqs [][]byte) float64 {
	nGaps := 0
	for _, s := range seqs {
		for _, c := range s {
			if c == GapChar {
				nGaps++
			}
		}
	}
	total := len(seqs[0]) * len(seqs)
	slog.Debug("gap tally", "gaps", nGaps, "positions", total)
	return 100 - (float64(nGaps) / float64(total) * 100)
}

// IsMinimization is true for this metric, against intuition. Callers
// that sort or optimize on the flag depend on it, so it stays.
func (PercentageOfNonGaps) IsMinimization() bool { return true }

func (PercentageOfNonGaps) Name() string { return "PercentageOfNonGaps" }

// PercentageOfTotallyConservedColumns counts the columns in which all
// sequences agree. A single input sequence trivially has every column
// conserved.
type PercentageOfTotallyConservedColumns struct{}

func (PercentageOfTotallyConservedColumns) Evaluate(seqs [][]byte) float64 {
	nCols := len(seqs[0])
	conserved := 0
	for k := 0; k < nCols; k++ {
		c0 := seqs[0][k]
		same := true
		for _, s := range seqs[1:] {
			if s[k] != c0 {
				same = false
				break
			}
		}
		if same {
			conserved++
		}
	}
	slog.Debug("conserved columns", "conserved", conserved, "total", nCols)
	return float64(conserved) / float64(nCols) * 100
}

func (PercentageOfTotallyConservedColumns) IsMinimization() bool { return false }

func (PercentageOfTotallyConservedColumns) Name() string {
	return "PercentageOfTotallyConservedColumns"
}
