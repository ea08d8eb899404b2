// Reader for fasta format files.

package seq

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	. "github.com/andrew-torda/msa_qual/pkg/seq/common"
)

// isWhite covers the characters we throw away while reading sequence
// lines. The comment character is in the set so a ">" buried mid-line
// does not end up inside a sequence.
var isWhite = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
	cmmtChar: true,
}

// appendResidues copies the wanted bytes of line onto dst. Gap
// characters are kept or thrown away depending on rmvGaps.
func appendResidues(dst, line []byte, rmvGaps bool) []byte {
	for _, c := range line {
		if isWhite[c] {
			continue
		}
		if rmvGaps && c == GapChar {
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

// ReadFasta reads fasta formatted sequences from rdr into seqgrp.
// The first non-blank byte must be the comment character. Sequences
// may be spread over any number of lines and contain any amount of
// white space.
func ReadFasta(rdr io.Reader, seqgrp *SeqGrp, s_opts *Options) error {
	brdr := bufio.NewReader(rdr)
	var cmmt string
	var cur []byte
	inseq := false
	nc := 0

	flush := func() error {
		if !inseq {
			return nil
		}
		if len(cur) == 0 {
			return errors.New("zero length sequence after \"" + trimStr(cmmt, 40) + "\"")
		}
		seqgrp.seqs = append(seqgrp.seqs, seq{cmmt: cmmt, seq: cur})
		cmmt, cur, inseq = "", nil, false
		return nil
	}

	for {
		line, rerr := brdr.ReadBytes('\n')
		if len(line) > 0 {
			nc++
			trimmed := bytes.TrimSpace(line)
			switch {
			case len(trimmed) == 0: // blank line, keep going
			case trimmed[0] == cmmtChar:
				if err := flush(); err != nil {
					return err
				}
				inseq = true
				cmmt = string(bytes.TrimSpace(trimmed[1:]))
			default:
				if !inseq {
					return fmt.Errorf("line %d: residues before any \"%c\" comment line", nc, cmmtChar)
				}
				cur = appendResidues(cur, trimmed, s_opts.RmvGapsRd)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if seqgrp.GetNSeq() == 0 {
		return errors.New("no sequences found")
	}
	return nil
}
