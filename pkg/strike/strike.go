// 20 Jan 2026

// Package strike scores an alignment with the external "strike"
// program, which judges an alignment against known protein structures.
// We stage two files for it, a connectivity file naming a structure
// file and chain per sequence, and the alignment in fasta format, then
// run the program and read its score. Structure files we do not have
// yet are fetched from a public archive.
package strike

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/andrew-torda/msa_qual/pkg/score"
)

// ErrArgumentLengths is returned when the sequence, identifier and
// chain lists do not pair up one to one.
var ErrArgumentLengths = errors.New("sequence, id and chain lists must have the same length")

const (
	DfltExePath = "/usr/local/bin/strike"
	DfltDir     = "strike"
	DfltBaseURL = "https://files.rcsb.org/download/"
	conFname    = "in.con"
	alnFname    = "aln.fa"
)

// Options are the knobs one can turn on a Strike scorer. Zero values
// mean the defaults above and the default http client.
type Options struct {
	ExePath string
	Dir     string // staging directory
	BaseURL string // structure archive, "<BaseURL><id>.pdb"
	Client  *http.Client
}

// Strike is the one scorer with state. It remembers whether its
// staging files have been written, so a second Compute call on the
// same instance goes straight to the external program. Stale files are
// never refreshed within one instance's lifetime.
type Strike struct {
	exePath string
	dir     string
	baseURL string
	client  *http.Client
	conPath string
	alnPath string
	staged  bool
}

// New returns a Strike scorer. opts may be nil.
func New(opts *Options) (*Strike, error) {
	st := &Strike{
		exePath: DfltExePath,
		dir:     DfltDir,
		baseURL: DfltBaseURL,
		client:  http.DefaultClient,
	}
	if opts != nil {
		if opts.ExePath != "" {
			st.exePath = opts.ExePath
		}
		if opts.Dir != "" {
			st.dir = opts.Dir
		}
		if opts.BaseURL != "" {
			st.baseURL = opts.BaseURL
		}
		if opts.Client != nil {
			st.client = opts.Client
		}
	}
	var err error
	if st.dir, err = filepath.Abs(st.dir); err != nil {
		return nil, err
	}
	st.conPath = filepath.Join(st.dir, conFname)
	st.alnPath = filepath.Join(st.dir, alnFname)
	return st, nil
}

func (st *Strike) IsMinimization() bool { return false }

func (st *Strike) Name() string { return "Strike" }

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Compute stages the input files if necessary, runs the external
// program and returns its score. seqs are the aligned sequences, ids
// the structure identifiers and chains the chain letter for each
// sequence, all in the same order.
func (st *Strike) Compute(ctx context.Context, seqs [][]byte, ids []string, chains []string) (float64, error) {
	if len(seqs) != len(ids) || len(seqs) != len(chains) {
		return 0, fmt.Errorf("%w: %d sequences, %d ids, %d chains",
			ErrArgumentLengths, len(seqs), len(ids), len(chains))
	}
	if err := score.CheckAligned(seqs); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(st.dir, 0o755); err != nil {
		return 0, fmt.Errorf("staging directory: %w", err)
	}

	// Skip the whole staging step if a previous run, or a previous
	// call on this instance, has already written the files.
	if !st.staged && !isFile(st.conPath) && !isFile(st.alnPath) {
		if err := st.stage(ctx, seqs, ids, chains); err != nil {
			return 0, err
		}
	}
	st.staged = true

	return st.run(ctx)
}

// stage writes the connectivity and alignment files, downloading any
// structure files we are missing. The files are created exclusively,
// so two scorers pointed at one directory cannot both half-write the
// same file. If someone else got there first, we treat the directory
// as staged. Any other failure removes the partial files, so a retry
// starts clean.
func (st *Strike) stage(ctx context.Context, seqs [][]byte, ids []string, chains []string) (err error) {
	excl := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	cFile, err := os.OpenFile(st.conPath, excl, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil // lost the race, other writer owns the files
		}
		return fmt.Errorf("connectivity file: %w", err)
	}
	aFile, err := os.OpenFile(st.alnPath, excl, 0o644)
	if err != nil {
		cFile.Close()
		os.Remove(st.conPath)
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("alignment file: %w", err)
	}
	defer func() {
		cFile.Close()
		aFile.Close()
		if err != nil {
			os.Remove(st.conPath)
			os.Remove(st.alnPath)
		}
	}()

	for i := range seqs {
		pdbPath, gerr := st.getPDB(ctx, ids[i])
		if gerr != nil {
			return gerr
		}
		if _, err = fmt.Fprintf(cFile, "%s %s %s\n", ids[i], pdbPath, chains[i]); err != nil {
			return fmt.Errorf("connectivity file: %w", err)
		}
		if _, err = fmt.Fprintf(aFile, ">%s\n%s\n", ids[i], seqs[i]); err != nil {
			return fmt.Errorf("alignment file: %w", err)
		}
	}
	return nil
}

// run invokes the external program on the staged files and parses its
// output. A failure of the program itself is passed back with its
// stderr attached.
func (st *Strike) run(ctx context.Context) (float64, error) {
	cmd := exec.CommandContext(ctx, st.exePath, "-c", st.conPath, "-a", st.alnPath)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, fmt.Errorf("strike failed: %w: %s", err, bytes.TrimSpace(exitErr.Stderr))
		}
		return 0, fmt.Errorf("running strike: %w", err)
	}
	return parseScore(out)
}

// parseScore digs the score out of the program's output. The program
// prints diagnostics first, so the score is the last line that parses
// as a number.
func parseScore(out []byte) (float64, error) {
	lines := bytes.Split(out, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		s := string(bytes.TrimSpace(lines[i]))
		if s == "" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no numeric score in strike output: %q", bytes.TrimSpace(out))
}

// ConPath says where the connectivity file is staged. Handy in tests
// and when cleaning up.
func (st *Strike) ConPath() string { return st.conPath }

// AlnPath says where the alignment file is staged.
func (st *Strike) AlnPath() string { return st.alnPath }
