// 9 Jan 2026
// seqcalc does simple, common calculations on a set of sequences.
// The functions have to live in this package, since they
// need access to the internals of a sequence.

package seq

import (
	"math"

	"github.com/andrew-torda/matrix"
	. "github.com/andrew-torda/msa_qual/pkg/seq/common"
)

const (
	badMap = math.MaxUint8 // marks a symbol as not seen
)

// SetSymUsed fills out the bool slice which says whether or not a
// symbol was used.
func (seqgrp *SeqGrp) SetSymUsed() {
	for _, ss := range seqgrp.seqs {
		for _, c := range ss.GetSeq() {
			seqgrp.symUsed[c] = true
		}
	}
	seqgrp.usedKnwn = true
}

// GetType looks at a set of sequences and returns its best guess
// as to the type of file.
func (seqgrp *SeqGrp) GetType() SeqType {
	if seqgrp.stype != Unchecked { // If the sequence type has been
		return seqgrp.stype //      set, just return it.
	}

	if seqgrp.usedKnwn != true {
		seqgrp.SetSymUsed()
	}
	protType := []byte{
		'D', 'E', 'F', 'H', 'I', 'K', 'L', 'M',
		'N', 'P', 'Q', 'R', 'S', 'V', 'W', 'Y'}

	used := seqgrp.symUsed
	for _, c := range protType { // If we see an amino acid code,
		if used[c] { //          just return protein type.
			return Protein
		}
	}

	if used['T'] && used['U'] {
		return Ntide
	}
	// If we have ACG, but neither T or U, it is a nucleotide
	// but we cannot tell if it is RNA or DNA
	if used['A'] && used['C'] && used['G'] && !used['T'] && !used['U'] {
		return Ntide
	}
	if used['T'] {
		return DNA
	}
	if used['U'] {
		return RNA
	}

	return Unknown
}

// mapsyms looks at the symbols (characters, bases, residues) used in a
// seqgrp. It then makes a little array for mapping.
func (seqgrp *SeqGrp) mapsyms() {
	if seqgrp.usedKnwn != true {
		seqgrp.SetSymUsed()
	}
	for i := range seqgrp.mapping { // Initialise with bad value, to
		seqgrp.mapping[i] = badMap // trap errors later
	}

	var n uint8
	for i := range seqgrp.symUsed {
		if seqgrp.symUsed[i] {
			seqgrp.mapping[i] = n
			if n >= badMap {
				panic("program bug")
			}
			seqgrp.revmap = append(seqgrp.revmap, uint8(i))
			n++
		}
	}
}

// UsageSite counts how many of each symbol/character appear at
// each site in the alignment.
// counts.Mat looks like [number_of_types][length_of_seq]
// We store it as a float32, since it will later usually be normalised
// and converted to a fraction.
func (seqgrp *SeqGrp) UsageSite() {
	if len(seqgrp.revmap) == 0 {
		seqgrp.mapsyms()
	}
	nrow := len(seqgrp.revmap)
	ncol := len(seqgrp.seqs[0].GetSeq())
	seqgrp.counts = matrix.NewFMatrix2d(nrow, ncol)
	for _, ss := range seqgrp.seqs {
		for i, c := range ss.GetSeq() {
			cmap := seqgrp.mapping[c]
			seqgrp.counts.Mat[cmap][i] += 1
		}
	}
}

// UsageFrac converts counts to normalised frequencies. If letter 'A'
// occurs 2 times in five positions, its count entry will be changed from
// 2 to 2/5 = 0.4
// If gapsAreChar is true, gaps ("-") are treated as a valid character
// type. Otherwise they are removed from the tallies, a symbol's
// fraction is the fraction of non-gaps in which you find this symbol
// and the gap's fraction is the fraction of the total number of
// residues in which one finds a gap.
func (seqgrp *SeqGrp) UsageFrac(gapsAreChar bool) {
	if seqgrp.freqKnwn { // counts have already been normalised
		return
	}
	if seqgrp.counts == nil {
		seqgrp.UsageSite()
	}
	counts := seqgrp.counts
	gappos := seqgrp.mapping[GapChar]
	thereAreGaps := gappos != badMap

	nrow, ncol := counts.Size()
	total := make([]float32, ncol) // total observations in each column
	for icol := 0; icol < ncol; icol++ {
		for irow := 0; irow < nrow; irow++ {
			total[icol] += counts.Mat[irow][icol]
		}
	}
	var savedGapFrac []float32
	if thereAreGaps && gapsAreChar == false {
		savedGapFrac = make([]float32, ncol)
		for icol := range savedGapFrac {
			savedGapFrac[icol] = counts.Mat[gappos][icol] / total[icol]
		}
		for icol := 0; icol < ncol; icol++ { // Remove gaps from the totals
			total[icol] -= counts.Mat[gappos][icol]
		}
	}
	for icol := 0; icol < ncol; icol++ { // Normalise the counts
		for irow := 0; irow < nrow; irow++ {
			if total[icol] != 0 {
				counts.Mat[irow][icol] /= total[icol]
			}
		}
	}
	// The gaps have to be corrected. They have to be a fraction of the
	// original column totals
	for icol := range savedGapFrac {
		counts.Mat[gappos][icol] = savedGapFrac[icol]
	}
	seqgrp.freqKnwn = true
}

// GapFrac looks in a SeqGrp and returns a slice with the fraction
// of gap characters at each position. If there are no gaps, there
// is no slice so we quietly return nil without signalling an error.
func (seqgrp *SeqGrp) GapFrac() []float32 {
	if !seqgrp.freqKnwn {
		gapsAreChar := true // Does not matter what we say here
		seqgrp.UsageFrac(gapsAreChar)
	}
	gappos := seqgrp.mapping[GapChar]
	if gappos == badMap {
		return nil
	}
	return seqgrp.counts.Mat[gappos]
}
