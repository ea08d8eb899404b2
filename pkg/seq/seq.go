// 9 Jan 2026

// Package seq holds sequences, which begin their lives in fasta format.
// Here they are always part of a multiple sequence alignment, so the
// interesting operations are reading a group of them, checking they
// really are aligned and tallying the symbols at each site.
package seq

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/msa_qual/pkg/zwrap"
)

// seq is one sequence with its fasta comment.
type seq struct {
	cmmt string
	seq  []byte
}

// A marker to say what type of sequence we have, protein, DNA, ...
type SeqType byte

const (
	Unchecked SeqType = iota // Has not been looked at yet
	Unknown                  // Really unknown, not a protein or nucleotide
	Protein                  //
	DNA                      //
	RNA                      //
	Ntide                    // Nucleotide
)

// We only read ascii characters, so anything bigger than this is not
// valid.
const (
	MaxSym uint8 = 127
)

// Options contains all the choices passed in from the caller.
type Options struct {
	DiffLenSeq bool // false, unless we expect sequences of different lengths
	RmvGapsRd  bool // Remove gaps upon reading. For alignments, leave false.
}

const cmmtChar byte = '>' // introduces comments in fasta format

// SeqGrp is a group of sequences, together with information such as
// what type (protein, nucleotide) they are and tallies of the symbols
// used at each site.
type SeqGrp struct {
	symUsed  [MaxSym]bool  // which symbols are actually used
	mapping  [MaxSym]uint8 // mapping['C'] tells me the index used for C
	revmap   []uint8       // revmap[2] tells me the character in place 2
	seqs     []seq
	counts   *matrix.FMatrix2d
	stype    SeqType
	usedKnwn bool // Do we know which symbols are used ?
	freqKnwn bool // are counts of symbols converted to fractional probabilities ?
}

// GetSeq returns the sequence as the original byte slice
func (s seq) GetSeq() []byte { return s.seq }

// GetCmmt returns the comment, without the leading ">"
func (s seq) GetCmmt() string { return s.cmmt }

// Len returns the length of one sequence
func (s seq) Len() int { return len(s.seq) }

// GeneID returns the gene identifier for a sequence.
// Of course it does not really do that. It just returns the first
// word in the comment which is likely to be the gene identifier.
func (s seq) GeneID() string {
	tmp := strings.Fields(s.cmmt)
	if len(tmp) == 0 {
		return ""
	}
	return tmp[0]
}

// trimStr trims a string to n bytes if it is longer
func trimStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Upper changes a sequence to upper case, in place.
// It only works with bytes, not runes.
// It can return an error if it encounters a symbol it does
// not like (value higher than 127).
func (s *seq) Upper() error {
	const diff = 'a' - 'A'
	const symerr = "bad sym \"%c\" at position %d starting \"%s\""
	t := s.GetSeq()
	for i := 0; i < len(t); i++ {
		c := t[i]
		if c >= MaxSym {
			return fmt.Errorf(symerr, c, i, trimStr(s.GetCmmt(), 40))
		}
		if 'a' <= c && c <= 'z' {
			t[i] -= diff
		}
	}
	return nil
}

// GetLen returns the length of the first sequence.
// For a multiple sequence alignment, this is the length
// of all sequences.
func (seqgrp *SeqGrp) GetLen() int { return len(seqgrp.seqs[0].GetSeq()) }

// GetNSeq returns the number of sequences
func (seqgrp *SeqGrp) GetNSeq() int { return len(seqgrp.seqs) }

// SeqSlc returns the slice of sequences
func (seqgrp *SeqGrp) SeqSlc() []seq { return seqgrp.seqs }

// SeqBytes returns the raw aligned sequences, one slice per sequence,
// in input order. This is what the scoring functions eat.
func (seqgrp *SeqGrp) SeqBytes() [][]byte {
	out := make([][]byte, len(seqgrp.seqs))
	for i, s := range seqgrp.seqs {
		out[i] = s.GetSeq()
	}
	return out
}

// GeneIDs returns the first word of each comment, in input order.
// The strike score wants these as structure identifiers.
func (seqgrp *SeqGrp) GeneIDs() []string {
	out := make([]string, len(seqgrp.seqs))
	for i, s := range seqgrp.seqs {
		out[i] = s.GeneID()
	}
	return out
}

// GetRevmap returns the non-exported revmap. Element i is the symbol
// whose tallies sit in row i of the counts matrix.
func (seqgrp *SeqGrp) GetRevmap() []uint8 { return seqgrp.revmap }

// GetCounts gives us the normally non-exported counts
func (seqgrp *SeqGrp) GetCounts() *matrix.FMatrix2d {
	if seqgrp.counts == nil {
		seqgrp.UsageSite()
	}
	return seqgrp.counts
}

// GetNSym returns the number of symbols used in a seqgrp.
func (seqgrp *SeqGrp) GetNSym() int {
	if len(seqgrp.revmap) == 0 {
		seqgrp.mapsyms()
	}
	return len(seqgrp.revmap)
}

// Upper uppercases all the members of a group of sequences.
func (seqgrp *SeqGrp) Upper() error {
	for _, ss := range seqgrp.seqs {
		if err := ss.Upper(); err != nil {
			return err
		}
	}
	return nil
}

// FindNdx returns the index of the sequence containing a string.
// Numbering starts from zero. We remove any ">", space or tab at the start.
func (seqgrp *SeqGrp) FindNdx(s string) int {
	s = strings.TrimLeft(s, " >\t")
	for i, seq := range seqgrp.seqs {
		if strings.Contains(seq.GetCmmt(), s) {
			return i
		}
	}
	return -1
}

// CheckLengths should be called when sequences come from a gapped
// alignment, so they must all be the same length.
func (seqgrp *SeqGrp) CheckLengths() error {
	const msg = `sequence lengths differ. First sequence has %d sites, but
sequence %d has %d. Sequence starts "%s"`
	if len(seqgrp.seqs) == 0 {
		return fmt.Errorf("no sequences to check")
	}
	iwant := seqgrp.GetLen()
	for i := 1; i < len(seqgrp.seqs); i++ {
		if ilen := seqgrp.seqs[i].Len(); ilen != iwant {
			return fmt.Errorf(msg, iwant, i, ilen, trimStr(seqgrp.seqs[i].GetCmmt(), 40))
		}
	}
	return nil
}

// Readfile takes a filename and reads sequences from it. An empty name
// means standard input. Gzipped files are handled quietly.
// It returns a SeqGrp and error.
func Readfile(fname string, s_opts *Options) (*SeqGrp, error) {
	seqgrp := new(SeqGrp)
	var fp io.ReadCloser

	if fname != "" {
		f, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		if fp, err = zwrap.WrapMaybe(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("looking at start of %s: %w", fname, err)
		}
	} else {
		fp = os.Stdin
	}
	defer fp.Close()

	if err := ReadFasta(fp, seqgrp, s_opts); err != nil {
		return seqgrp, fmt.Errorf("file %s: %w", fname, err)
	}
	if !s_opts.DiffLenSeq {
		if err := seqgrp.CheckLengths(); err != nil {
			return seqgrp, err
		}
	}
	return seqgrp, nil
}

// Str2SeqGrp takes some strings and returns them as a seqgrp.
// sIn is a slice of strings which are the sequences.
// prefix is an optional argument. Sequences need names/comments. If
// prefix is not given, sequences will be called "s0", "s1", ...
func Str2SeqGrp(sIn []string, prefix ...string) *SeqGrp {
	base := "s"
	if prefix != nil {
		base = prefix[0]
	}
	seqgrp := new(SeqGrp)
	for i, s := range sIn {
		f := seq{cmmt: fmt.Sprint(base, i), seq: []byte(s)}
		seqgrp.seqs = append(seqgrp.seqs, f)
	}
	return seqgrp
}
