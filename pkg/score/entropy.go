// 14 Jan 2026

package score

import (
	"log/slog"
	"math"
)

// Entropy accumulates f*ln(f) over the columns, where f is a symbol's
// empirical frequency within its column. The term is added once per
// occurrence, not once per distinct symbol: a symbol seen m times in a
// column of n contributes m*(m/n)*ln(m/n), so this is not textbook
// Shannon entropy. The sum is never positive and a fully conserved
// column contributes exactly 0.
type Entropy struct{}

func (Entropy) Evaluate(seqs [][]byte) float64 {
	n := float64(len(seqs))
	var counts [256]int
	final := 0.0

	for k := 0; k < len(seqs[0]); k++ {
		for _, s := range seqs {
			counts[s[k]]++
		}
		colEnt := 0.0
		for _, s := range seqs { // once per occurrence
			f := float64(counts[s[k]]) / n
			colEnt += f * math.Log(f)
		}
		slog.Debug("column entropy", "site", k, "entropy", colEnt)
		final += colEnt
		for _, s := range seqs { // reset only what we touched
			counts[s[k]] = 0
		}
	}
	return final
}

// IsMinimization is false here by the original declared convention.
// Values are <= 0 and closer to 0 means better conserved.
func (Entropy) IsMinimization() bool { return false }

func (Entropy) Name() string { return "Entropy" }
