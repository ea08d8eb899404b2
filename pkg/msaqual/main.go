// 24 Jan 2026
// Read up a multiple sequence alignment and report quality scores
// for it, column based metrics and optionally the structure based
// strike score.

package msaqual

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrew-torda/msa_qual/pkg/score"
	"github.com/andrew-torda/msa_qual/pkg/seq"
	"github.com/andrew-torda/msa_qual/pkg/strike"
	"github.com/andrew-torda/msa_qual/pkg/submat"
)

// CmdFlag is filled out by the command line wrapper.
type CmdFlag struct {
	Scores     []string // which metrics to run, empty means all of them
	Matrix     string   // "pam250", "blosum62" or a matrix file
	GapPenalty *int     // gap-residue score when Matrix is a file, nil means default
	Strike     bool     // also run the structure based score
	Config     string   // optional yaml config file
	Verbose    bool     // per-column diagnostics
	Time       bool     // print run time at the end
}

// config is what the yaml file may carry. Command line flags win over
// anything set here.
type config struct {
	Scores     []string      `yaml:"scores"`
	Matrix     string        `yaml:"matrix"`
	GapPenalty *int          `yaml:"gap_penalty"`
	Strike     *strikeConfig `yaml:"strike"`
}

type strikeConfig struct {
	ExePath    string        `yaml:"exe_path"`
	Dir        string        `yaml:"dir"`
	BaseURL    string        `yaml:"base_url"`
	Structures []strikeEntry `yaml:"structures"`
}

// strikeEntry pairs a structure identifier with a chain letter, in the
// order of the sequences in the alignment.
type strikeEntry struct {
	ID    string `yaml:"id"`
	Chain string `yaml:"chain"`
}

func readConfig(fname string) (*config, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	cfg := new(config)
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", fname, err)
	}
	return cfg, nil
}

// chooseMatrix turns a name into a matrix. Anything that is not a
// built-in name is treated as a file to read. The gap penalty is a
// pointer so a caller can ask for zero, which is not the default.
func chooseMatrix(name string, gapPenalty *int) (*submat.Submat, error) {
	switch strings.ToLower(name) {
	case "", "pam250":
		return submat.PAM250(), nil
	case "blosum62":
		return submat.Blosum62(), nil
	default:
		gp := submat.DfltGapPenalty
		if gapPenalty != nil {
			gp = *gapPenalty
		}
		return submat.ReadFile(name, gp)
	}
}

// buildScores maps metric names to scorers. Names are matched without
// regard to case.
func buildScores(names []string, sm *submat.Submat) ([]score.Score, error) {
	all := []score.Score{
		score.Entropy{},
		score.NewStar(sm),
		score.NewSumOfPairs(sm),
		score.PercentageOfNonGaps{},
		score.PercentageOfTotallyConservedColumns{},
	}
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]score.Score)
	for _, sc := range all {
		byName[strings.ToLower(sc.Name())] = sc
	}
	var out []score.Score
	for _, n := range names {
		sc, ok := byName[strings.ToLower(n)]
		if !ok {
			return nil, fmt.Errorf("no score called \"%s\"", n)
		}
		out = append(out, sc)
	}
	return out, nil
}

// warnExists checks if a filename exists and prints a warning
// if we will trash a file. It does not return an error.
func warnExists(fname string) {
	if _, err := os.Stat(fname); err == nil {
		fmt.Fprintln(os.Stderr, "Warning, trashing old version of", fname)
	}
}

func direction(minimize bool) string {
	if minimize {
		return "minimize"
	}
	return "maximize"
}

// wrtScore writes one result row.
func wrtScore(fp io.Writer, name string, v float64, minimize bool) {
	fmt.Fprintf(fp, "%-36s %14.4f  %s\n", name, v, direction(minimize))
}

// strikeInputs decides which ids and chains go with the sequences.
// Explicit entries from the config win. Without them, the fasta
// identifiers are used and every chain is "A".
func strikeInputs(seqgrp *seq.SeqGrp, scfg *strikeConfig) (ids, chains []string, err error) {
	n := seqgrp.GetNSeq()
	if scfg != nil && len(scfg.Structures) > 0 {
		if len(scfg.Structures) != n {
			return nil, nil, fmt.Errorf("config lists %d structures, alignment has %d sequences",
				len(scfg.Structures), n)
		}
		for _, e := range scfg.Structures {
			ids = append(ids, e.ID)
			chains = append(chains, e.Chain)
		}
		return ids, chains, nil
	}
	ids = seqgrp.GeneIDs()
	for i, id := range ids {
		if id == "" {
			return nil, nil, fmt.Errorf("sequence %d has no identifier for the strike score", i)
		}
		chains = append(chains, "A")
	}
	return ids, chains, nil
}

// runStrike wires up and runs the structure based score.
func runStrike(ctx context.Context, fp io.Writer, seqgrp *seq.SeqGrp, scfg *strikeConfig) error {
	opts := &strike.Options{}
	if scfg != nil {
		opts.ExePath = scfg.ExePath
		opts.Dir = scfg.Dir
		opts.BaseURL = scfg.BaseURL
	}
	st, err := strike.New(opts)
	if err != nil {
		return err
	}
	ids, chains, err := strikeInputs(seqgrp, scfg)
	if err != nil {
		return err
	}
	v, err := st.Compute(ctx, seqgrp.SeqBytes(), ids, chains)
	if err != nil {
		return err
	}
	wrtScore(fp, st.Name(), v, st.IsMinimization())
	return nil
}

// wrtSymFrac prints the fractional usage of each symbol at each site.
// A symbol's fraction is over the residues at its site. The gap
// column, if the alignment has gaps, is the fraction of all sequences
// which gap there. This is the verbose, advisory output, not part of
// the score report proper.
func wrtSymFrac(fp io.Writer, seqgrp *seq.SeqGrp) {
	gapsAreChar := false
	seqgrp.UsageFrac(gapsAreChar)
	counts := seqgrp.GetCounts()
	revmap := seqgrp.GetRevmap()

	fmt.Fprint(fp, `"site"`)
	for _, c := range revmap {
		fmt.Fprintf(fp, ",%q", string(c))
	}
	fmt.Fprintln(fp)
	_, ncol := counts.Size()
	for icol := 0; icol < ncol; icol++ {
		fmt.Fprintf(fp, "%d", icol+1)
		for irow := range revmap {
			fmt.Fprintf(fp, ",%.2f", counts.Mat[irow][icol])
		}
		fmt.Fprintln(fp)
	}
}

// wrtGapFrac prints the fraction of gaps at each site.
func wrtGapFrac(fp io.Writer, seqgrp *seq.SeqGrp) {
	gapfrac := seqgrp.GapFrac()
	if gapfrac == nil {
		fmt.Fprintln(fp, "# no gaps anywhere in the alignment")
		return
	}
	fmt.Fprintln(fp, `"site","frac gaps"`)
	for i, v := range gapfrac {
		fmt.Fprintf(fp, "%d,%.2f\n", i+1, v)
	}
}

// Mymain is the main function for scoring an alignment and writing a
// report. An empty infile means stdin, an empty or "-" outfile means
// stdout.
func Mymain(flags *CmdFlag, infile, outfile string) error {
	if flags.Time {
		startTime := time.Now()
		end := func() { // Wrapping in a closure is helpful. Gives the right time.
			fmt.Println("finished after", time.Since(startTime).Milliseconds(), "ms")
		}
		defer end()
	}
	if flags.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	var cfg *config
	if flags.Config != "" {
		var err error
		if cfg, err = readConfig(flags.Config); err != nil {
			return err
		}
		if len(flags.Scores) == 0 {
			flags.Scores = cfg.Scores
		}
		if flags.Matrix == "" {
			flags.Matrix = cfg.Matrix
		}
		if flags.GapPenalty == nil {
			flags.GapPenalty = cfg.GapPenalty
		}
	}

	s_opts := &seq.Options{} // gaps are kept, the sequences are aligned
	seqgrp, err := seq.Readfile(infile, s_opts)
	if err != nil {
		return fmt.Errorf("fail reading sequences: %w", err)
	}
	if err := seqgrp.Upper(); err != nil {
		return err
	}

	sm, err := chooseMatrix(flags.Matrix, flags.GapPenalty)
	if err != nil {
		return err
	}
	scorers, err := buildScores(flags.Scores, sm)
	if err != nil {
		return err
	}

	var fp io.WriteCloser
	if outfile != "" && outfile != "-" {
		warnExists(outfile)
		if fp, err = os.Create(outfile); err != nil {
			return fmt.Errorf("output file %v: %w", outfile, err)
		}
		defer fp.Close()
	} else {
		fp = os.Stdout
	}

	seqs := seqgrp.SeqBytes()
	for _, sc := range scorers {
		v, err := score.Compute(sc, seqs)
		if err != nil {
			return err
		}
		wrtScore(fp, sc.Name(), v, sc.IsMinimization())
	}

	if flags.Strike {
		var scfg *strikeConfig
		if cfg != nil {
			scfg = cfg.Strike
		}
		if err := runStrike(context.Background(), fp, seqgrp, scfg); err != nil {
			return err
		}
	}

	if flags.Verbose {
		wrtSymFrac(fp, seqgrp)
		wrtGapFrac(fp, seqgrp)
	}
	return nil
}
