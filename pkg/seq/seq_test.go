// 10 Jan 2026

package seq_test

import (
	"compress/gzip"
	"os"
	"strings"
	"testing"

	. "github.com/andrew-torda/msa_qual/pkg/seq"
	"github.com/andrew-torda/msa_qual/pkg/seq/common"
)

var seqstring = `>s1
ACGT
> s2
-CGT
> s3
-GGT`

func cmmtHelp(got, want string, t *testing.T) {
	t.Helper()
	if got != want {
		t.Fatalf("checking comments wanted \"%s\" got \"%s\"", want, got)
	}
}

// TestComment is to check that comments are read correctly
func TestComment(t *testing.T) {
	c0 := "testcomment no space"
	c1 := "testcomment with space at start"
	s := "aaa\n"
	seqs := ">" + c0 + "\n" + s + "> " + c1 + "\n" + s
	var seqgrp SeqGrp
	var s_opts Options

	if err := ReadFasta(strings.NewReader(seqs), &seqgrp, &s_opts); err != nil {
		t.Fatal("bust reading simple seqs in TestComment", err)
	}
	slc := seqgrp.SeqSlc()
	cmmtHelp(slc[0].GetCmmt(), c0, t)
	cmmtHelp(slc[1].GetCmmt(), c1, t)
}

// Sequences spread over many lines, with white space buried in them,
// must come out as one clean sequence each.
func TestMultiLine(t *testing.T) {
	s := `> s1
ACG T
ACGT

> s2
AC
GTAC
GT`
	var seqgrp SeqGrp
	if err := ReadFasta(strings.NewReader(s), &seqgrp, &Options{}); err != nil {
		t.Fatal("reading multi-line seqs:", err)
	}
	for i, ss := range seqgrp.SeqSlc() {
		if string(ss.GetSeq()) != "ACGTACGT" {
			t.Fatal("seq", i, "came out as", string(ss.GetSeq()))
		}
	}
}

func TestGapsKeptOrRemoved(t *testing.T) {
	var kept, removed SeqGrp
	if err := ReadFasta(strings.NewReader(seqstring), &kept, &Options{}); err != nil {
		t.Fatal(err)
	}
	if kept.GetLen() != 4 {
		t.Fatal("gaps should be kept by default, len", kept.GetLen())
	}
	s_opts := &Options{RmvGapsRd: true, DiffLenSeq: true}
	if err := ReadFasta(strings.NewReader(seqstring), &removed, s_opts); err != nil {
		t.Fatal(err)
	}
	if got := removed.SeqSlc()[1].Len(); got != 3 {
		t.Fatal("gaps not removed, second seq len", got)
	}
}

func TestCheckLengths(t *testing.T) {
	s := `> s1
ACG
> s2
ACGT`
	var seqgrp SeqGrp
	if err := ReadFasta(strings.NewReader(s), &seqgrp, &Options{}); err != nil {
		t.Fatal("reading:", err)
	}
	if err := seqgrp.CheckLengths(); err == nil {
		t.Fatal("different lengths should not pass CheckLengths")
	}
}

func TestReadfileErrors(t *testing.T) {
	if _, err := Readfile("/nonexistent/no/such/file", &Options{}); err == nil {
		t.Fatal("wanted an error for a missing file")
	}
	fname, err := common.WrtTemp("not fasta at all\n")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	if _, err := Readfile(fname, &Options{}); err == nil {
		t.Fatal("wanted an error for residues before any comment")
	}
}

func TestReadfilePlainAndGzip(t *testing.T) {
	fname, err := common.WrtTemp(seqstring)
	if err != nil {
		t.Fatal("fail writing test file")
	}
	defer os.Remove(fname)
	seqgrp, err := Readfile(fname, &Options{})
	if err != nil {
		t.Fatal("plain file:", err)
	}
	if seqgrp.GetNSeq() != 3 {
		t.Fatal("plain file wanted 3 seqs got", seqgrp.GetNSeq())
	}

	fgz, err := os.CreateTemp("", "_del_me_testing*.gz")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fgz.Name())
	zw := gzip.NewWriter(fgz)
	if _, err := zw.Write([]byte(seqstring)); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	fgz.Close()
	seqgrp, err = Readfile(fgz.Name(), &Options{})
	if err != nil {
		t.Fatal("gzipped file:", err)
	}
	if seqgrp.GetNSeq() != 3 {
		t.Fatal("gzipped file wanted 3 seqs got", seqgrp.GetNSeq())
	}
}

func TestStr2SeqGrpAndBytes(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"ACGT", "AC-T"}, "tt")
	if seqgrp.GetNSeq() != 2 || seqgrp.GetLen() != 4 {
		t.Fatal("Str2SeqGrp built the wrong group")
	}
	b := seqgrp.SeqBytes()
	if string(b[1]) != "AC-T" {
		t.Fatal("SeqBytes gave", string(b[1]))
	}
	ids := seqgrp.GeneIDs()
	if ids[0] != "tt0" || ids[1] != "tt1" {
		t.Fatal("GeneIDs gave", ids)
	}
}

func TestGapFrac(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"A-", "A-", "AC", "AC"})
	gapfrac := seqgrp.GapFrac()
	if gapfrac == nil {
		t.Fatal("there are gaps, wanted a slice")
	}
	if gapfrac[0] != 0 || gapfrac[1] != 0.5 {
		t.Fatal("gap fractions wrong:", gapfrac)
	}
	nogaps := Str2SeqGrp([]string{"AC", "AC"})
	if nogaps.GapFrac() != nil {
		t.Fatal("no gaps, wanted nil")
	}
}

// TestUsageFrac checks the normalisation with gaps excluded. A
// symbol's fraction must be over the residues at its site, while the
// gap row keeps its fraction of the whole column.
func TestUsageFrac(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"A-", "AC"})
	gapsAreChar := false
	seqgrp.UsageFrac(gapsAreChar)
	counts := seqgrp.GetCounts()
	revmap := seqgrp.GetRevmap()
	if string(revmap) != "-AC" {
		t.Fatal("revmap came out as", string(revmap))
	}
	want := [][]float32{
		{0, 0.5}, // gaps, as a fraction of all sequences
		{1, 0},   // A is every residue at site 0
		{0, 1},   // C is the only residue at site 1
	}
	for irow := range want {
		for icol := range want[irow] {
			if counts.Mat[irow][icol] != want[irow][icol] {
				t.Fatalf("row %c site %d wanted %.2f got %.2f",
					revmap[irow], icol, want[irow][icol], counts.Mat[irow][icol])
			}
		}
	}
	// A second call must not normalise the fractions again.
	seqgrp.UsageFrac(gapsAreChar)
	if counts.Mat[1][0] != 1 {
		t.Fatal("second UsageFrac changed the tallies")
	}
	if gapfrac := seqgrp.GapFrac(); gapfrac[1] != 0.5 {
		t.Fatal("GapFrac disagrees with the gap row:", gapfrac)
	}
}

func TestGetType(t *testing.T) {
	for _, tc := range []struct {
		seqs []string
		want SeqType
	}{
		{[]string{"ACGT", "ACGT"}, DNA},
		{[]string{"ACGU", "ACGU"}, RNA},
		{[]string{"ACG", "ACG"}, Ntide},
		{[]string{"ACDEFGHIKLMNPQRSTVWY"}, Protein},
	} {
		seqgrp := Str2SeqGrp(tc.seqs)
		if got := seqgrp.GetType(); got != tc.want {
			t.Fatal("seqs", tc.seqs, "wanted type", tc.want, "got", got)
		}
	}
}

func TestUpperAndFindNdx(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"acgt", "ACGT"}, "name")
	if err := seqgrp.Upper(); err != nil {
		t.Fatal("upper:", err)
	}
	if string(seqgrp.SeqSlc()[0].GetSeq()) != "ACGT" {
		t.Fatal("upper did not uppercase")
	}
	if ndx := seqgrp.FindNdx("name1"); ndx != 1 {
		t.Fatal("FindNdx wanted 1 got", ndx)
	}
	if ndx := seqgrp.FindNdx("no such"); ndx != -1 {
		t.Fatal("FindNdx wanted -1 got", ndx)
	}
}

func TestGetNSym(t *testing.T) {
	seqgrp := Str2SeqGrp([]string{"aaaa", "abab", "acbb", "adbb"})
	if n := seqgrp.GetNSym(); n != 4 {
		t.Fatal("wanted 4 symbols got", n)
	}
}
