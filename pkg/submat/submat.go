// 10 Jan 2026
// Read and look up substitution matrices. The file format is the NCBI
// one: an alphabet line, then one row per symbol. Anything after a "#"
// is a comment. The matrices ship with a gap policy taken over from
// common practice with gapped alignments: comparing a gap with a gap
// scores 1, comparing a gap with a residue scores the gap penalty.

package submat

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/andrew-torda/matrix"
	. "github.com/andrew-torda/msa_qual/pkg/seq/common"
)

// Submat is the exported type. Its internals do not have to be exported.
type Submat struct {
	mat        *matrix.FMatrix2d
	cmap       [128]int8
	gapPenalty int
	name       string
}

const notset int8 = -1

// Name says where the matrix came from ("pam250", a filename, ...).
func (submat *Submat) Name() string { return submat.name }

// GapPenalty returns the score for comparing a gap with a residue.
func (submat *Submat) GapPenalty() int { return submat.gapPenalty }

// String prints out a substitution matrix. Useful during debugging.
func (submat *Submat) String() (s string) {
	cmap := submat.cmap[:]
	s = "Mapping\n"
	n := 10
	for i := range cmap {
		if cmap[i] != notset {
			s = s + fmt.Sprintf("%4s%4d", string(rune(i)), cmap[i])
			if n--; n == 0 {
				n = 10
				s = s + "\n"
			}
		}
	}
	s += "\nThe matrix\n" + fmt.Sprintf("%4s", " ")
	for c := '*'; c <= 'Z'; c++ {
		if cmap[c] != notset {
			s += fmt.Sprintf("%4s", string(c))
		}
	}
	s += "\n"
	for c := '*'; c <= 'Z'; c++ {
		if cmap[c] == notset {
			continue
		}
		s += fmt.Sprintf("%4s", string(c))
		for d := '*'; d <= 'Z'; d++ {
			if cmap[d] != notset {
				s += fmt.Sprintf("%4.0f", submat.mat.Mat[cmap[c]][cmap[d]])
			}
		}
		s += "\n"
	}
	return s
}

// CmmtScanner is a wrapper around bufio.Scanner that will ignore anything
// after a comment character and remove leading and trailing white space.
type CmmtScanner struct {
	bufio.Scanner
	cmmt byte // Comment character
}

// NewCmmtScanner is a wrapper around scanner, but
//   - jumps over blank lines
//   - removes leading spaces
//   - removes anything after a comment character
func NewCmmtScanner(r io.Reader, cmmt byte) *CmmtScanner {
	s := bufio.NewScanner(r)
	return &CmmtScanner{*s, cmmt}
}

// CBytes presents exactly the same interface as scanner.Bytes, but
// has to do a bit more work.
// Before returning, we remove anything after the comment symbol and
// strip leading and trailing white space.
// If this leaves us with an empty string, we call Scan again.
// Like the Bytes function, this works directly in the i/o buffer
// and does not allocate any memory. If you like the string it returns,
// you have to save it somewhere.
func (s *CmmtScanner) CBytes() []byte {
	ok := true
	for b := s.Bytes(); ok; ok, b = s.Scan(), s.Bytes() {
		for i := 0; i < len(b); i++ {
			if b[i] == s.cmmt {
				b = b[:i]
				break
			}
		}
		b = bytes.TrimSpace(b)
		if len(b) > 0 {
			return b
		}
	}
	return nil
}

// The first non-comment line of the substitution matrix file
// contains a list of the allowed characters. Each field has to be
// one character long.
func alfbtLine(inline []byte, submat *Submat) (nAlfbt int, err error) {
	cmap := submat.cmap[:]
	for i := range submat.cmap {
		cmap[i] = notset
	}
	f := bytes.Fields(inline)
	if len(f) == 0 {
		return 0, errors.New("alphabet line: no fields found")
	}
	for _, c := range f {
		if len(c) != 1 {
			return 0, errors.New("alphabet line: expected a single character, got " + string(c))
		}
		if c[0] >= 128 {
			return 0, errors.New("alphabet line: saw a non-ascii character in " + string(inline))
		}
	}
	for i, c := range f {
		cmap[c[0]] = int8(i)
	}
	for i, c := range f { // If not set, set both upper and lower case
		l := (bytes.ToLower(c))[0] // This is safe, since we have checked
		u := (bytes.ToUpper(c))[0] // that c is one byte long
		if cmap[l] == notset {
			cmap[l] = int8(i)
		}
		if cmap[u] == notset {
			cmap[u] = int8(i)
		}
	}
	return len(f), nil
}

// Read reads a substitution matrix from an io.Reader. The name is only
// used in error messages and reporting. The gap penalty is the score
// for comparing a gap with a residue.
func Read(rdr io.Reader, name string, gapPenalty int) (*Submat, error) {
	submat := &Submat{gapPenalty: gapPenalty, name: name}
	scnr := NewCmmtScanner(rdr, '#')
	scnr.Scan()
	nAlfbt, err := alfbtLine(scnr.CBytes(), submat)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	submat.mat = matrix.NewFMatrix2d(nAlfbt, nAlfbt)
	nc := 0
	for scnr.Scan() {
		line := scnr.CBytes()
		if len(line) == 0 {
			continue
		}
		fields := bytes.Fields(line)
		if len(fields) != nAlfbt+1 {
			return nil, fmt.Errorf("reading %s: wrong number of items on line:\n%s", name, line)
		}
		if len(fields[0]) != 1 || fields[0][0] >= 128 {
			return nil, fmt.Errorf("reading %s: invalid row label on line:\n%s", name, line)
		}
		i := submat.cmap[fields[0][0]]
		if i == notset {
			return nil, fmt.Errorf("reading %s: row label %q not in alphabet", name, fields[0])
		}
		for j := 0; j < nAlfbt; j++ {
			f, e := strconv.ParseFloat(string(fields[j+1]), 32)
			if e != nil {
				return nil, fmt.Errorf("reading %s: %w", name, e)
			}
			x := float32(f)
			submat.mat.Mat[i][j], submat.mat.Mat[j][i] = x, x
		}
		nc++
	}
	if err := scnr.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if nc != nAlfbt {
		return nil, fmt.Errorf("reading %s: have %d symbols, but only %d matrix rows", name, nAlfbt, nc)
	}
	return submat, nil
}

// ReadFile reads a substitution matrix from a named file.
func ReadFile(fname string, gapPenalty int) (*Submat, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Read(fp, fname, gapPenalty)
}

// Score returns the similarity score of bytes a and b, given
// a specific scoring matrix. Gap characters get the gap policy:
// gap against gap is 1, gap against residue is the gap penalty.
// A symbol the matrix has never heard of scores as 'X' would, or 0
// if the matrix has no wildcard row.
func (submat *Submat) Score(a, b byte) int {
	if a == GapChar || b == GapChar {
		if a == b {
			return 1
		}
		return submat.gapPenalty
	}
	i := submat.lookup(a)
	j := submat.lookup(b)
	if i == notset || j == notset {
		return 0
	}
	return int(submat.mat.Mat[i][j])
}

func (submat *Submat) lookup(c byte) int8 {
	if c >= 128 {
		return notset
	}
	if i := submat.cmap[c]; i != notset {
		return i
	}
	return submat.cmap['X']
}
