// Built-in matrices. These are the two everybody asks for, embedded in
// the same text format that ReadFile accepts, so they go through the
// same parser as user-supplied files.

package submat

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed pam250.txt
var pam250Txt string

//go:embed blosum62.txt
var blosum62Txt string

// The classic gap penalty used with both built-in tables.
const DfltGapPenalty = -8

var (
	oncePam    sync.Once
	onceBlosum sync.Once
	pam250M    *Submat
	blosum62M  *Submat
)

func mustRead(txt, name string, gapPenalty int) *Submat {
	sm, err := Read(strings.NewReader(txt), name, gapPenalty)
	if err != nil { // Embedded data, so this is a build mistake,
		panic(err) // not something a caller can fix.
	}
	return sm
}

// PAM250 returns the built-in PAM250 matrix.
func PAM250() *Submat {
	oncePam.Do(func() { pam250M = mustRead(pam250Txt, "pam250", DfltGapPenalty) })
	return pam250M
}

// Blosum62 returns the built-in BLOSUM62 matrix.
func Blosum62() *Submat {
	onceBlosum.Do(func() { blosum62M = mustRead(blosum62Txt, "blosum62", DfltGapPenalty) })
	return blosum62M
}
