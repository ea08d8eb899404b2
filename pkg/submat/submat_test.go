// 11 Jan 2026

package submat_test

import (
	"os"
	"strings"
	"testing"

	. "github.com/andrew-torda/msa_qual/pkg/seq/common"
	. "github.com/andrew-torda/msa_qual/pkg/submat"
)

const smallMat = `# a little matrix with a comment line
# and another one
  A C G T   # trailing comment on the alphabet line
A 2 -1 -1 -1
C -1 2 -1 -1
G -1 -1 2 -1
T -1 -1 -1 2
`

func TestReadSmall(t *testing.T) {
	sm, err := Read(strings.NewReader(smallMat), "small", -4)
	if err != nil {
		t.Fatal("reading small matrix:", err)
	}
	for _, c := range []byte("ACGT") {
		if got := sm.Score(c, c); got != 2 {
			t.Fatalf("Score(%c,%c) wanted 2 got %d", c, c, got)
		}
	}
	if got := sm.Score('A', 'T'); got != -1 {
		t.Fatal("Score(A,T) wanted -1 got", got)
	}
	// Lower case maps onto the same entries
	if got := sm.Score('a', 'g'); got != -1 {
		t.Fatal("Score(a,g) wanted -1 got", got)
	}
	if sm.Name() != "small" {
		t.Fatal("name lost, got", sm.Name())
	}
}

func TestGapPolicy(t *testing.T) {
	sm, err := Read(strings.NewReader(smallMat), "small", -4)
	if err != nil {
		t.Fatal(err)
	}
	if got := sm.Score(GapChar, GapChar); got != 1 {
		t.Fatal("gap against gap wanted 1 got", got)
	}
	if got := sm.Score('A', GapChar); got != -4 {
		t.Fatal("residue against gap wanted the penalty -4, got", got)
	}
	if got := sm.Score(GapChar, 'C'); got != -4 {
		t.Fatal("gap against residue wanted -4 got", got)
	}
}

func TestReadBad(t *testing.T) {
	bad := []string{
		"",                      // nothing at all
		"AB CD\nA 1 2\nC 3 4\n", // multi-char alphabet fields
		"  A C\nA 1\nC 1 1\n",   // wrong number of items on a row
		"  A C\nA 1 x\nC 0 1\n", // not a number
		"  A C\nA 1 0\n",        // not enough rows
		"  A C\nQ 1 0\nC 0 1\n", // row label not in the alphabet
	}
	for i, s := range bad {
		if _, err := Read(strings.NewReader(s), "bad", -1); err == nil {
			t.Fatal("case", i, "should have failed")
		}
	}
}

func TestBuiltins(t *testing.T) {
	pam := PAM250()
	for _, tc := range []struct {
		a, b byte
		want int
	}{
		{'A', 'A', 2}, {'W', 'W', 17}, {'A', 'R', -2}, {'C', 'C', 12},
		{'R', 'A', -2}, // symmetric
	} {
		if got := pam.Score(tc.a, tc.b); got != tc.want {
			t.Fatalf("pam250 Score(%c,%c) wanted %d got %d", tc.a, tc.b, tc.want, got)
		}
	}
	bl := Blosum62()
	for _, tc := range []struct {
		a, b byte
		want int
	}{
		{'A', 'A', 4}, {'W', 'W', 11}, {'E', 'E', 5}, {'N', 'B', 3},
	} {
		if got := bl.Score(tc.a, tc.b); got != tc.want {
			t.Fatalf("blosum62 Score(%c,%c) wanted %d got %d", tc.a, tc.b, tc.want, got)
		}
	}
	if pam.GapPenalty() != DfltGapPenalty {
		t.Fatal("pam250 gap penalty, got", pam.GapPenalty())
	}
	// The two calls must hand back the same parsed table.
	if PAM250() != pam {
		t.Fatal("PAM250 re-parsed on second call")
	}
}

func TestUnknownSymbol(t *testing.T) {
	// A symbol the little matrix has never heard of, with no wildcard
	// row, scores 0.
	sm, err := Read(strings.NewReader(smallMat), "small", -4)
	if err != nil {
		t.Fatal(err)
	}
	if got := sm.Score('J', 'A'); got != 0 {
		t.Fatal("unknown symbol wanted 0 got", got)
	}
	// The big tables map unknowns through their X row.
	if got := PAM250().Score('J', 'A'); got != PAM250().Score('X', 'A') {
		t.Fatal("unknown symbol should score as X, got", got)
	}
}

func TestReadFile(t *testing.T) {
	fname, err := WrtTemp(smallMat)
	if err != nil {
		t.Fatal("fail writing test file")
	}
	defer os.Remove(fname)
	sm, err := ReadFile(fname, -4)
	if err != nil {
		t.Fatal("reading matrix file:", err)
	}
	if got := sm.Score('G', 'G'); got != 2 {
		t.Fatal("Score(G,G) from file wanted 2 got", got)
	}
}

func TestString(t *testing.T) {
	sm, err := Read(strings.NewReader(smallMat), "small", -4)
	if err != nil {
		t.Fatal(err)
	}
	s := sm.String()
	if !strings.Contains(s, "Mapping") || !strings.Contains(s, "matrix") {
		t.Fatal("String output looks wrong:\n", s)
	}
}
