// 24 Jan 2026
// Command line wrapper. All of the work is done in pkg/msaqual.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/msa_qual/pkg/msaqual"
	. "github.com/andrew-torda/msa_qual/pkg/seq/common"
)

var flags msaqual.CmdFlag
var gapPenalty int // only passed on if the flag was given, so 0 stays usable

var rootCmd = &cobra.Command{
	Use:   "msaqual [infile [outfile]]",
	Short: "score the quality of a multiple sequence alignment",
	Long: `Read a multiple sequence alignment in fasta format and report
quality scores for it. Given no arguments, read from stdin and write to
stdout. Given one argument, read from the named file. Given two, write
the report to the second. Do not just type the command name with no
input. It will sit waiting on stdin.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var infile, outfile string
		if len(args) > 0 {
			infile = args[0]
		}
		if len(args) > 1 {
			outfile = args[1]
		}
		if cmd.Flags().Changed("gap-penalty") {
			flags.GapPenalty = &gapPenalty
		}
		return msaqual.Mymain(&flags, infile, outfile)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringSliceVarP(&flags.Scores, "score", "s", nil,
		"metric to run, repeatable, default is all of them")
	f.StringVarP(&flags.Matrix, "matrix", "m", "",
		"substitution matrix: pam250, blosum62 or a file")
	f.IntVarP(&gapPenalty, "gap-penalty", "g", 0,
		"gap against residue score when the matrix comes from a file")
	f.BoolVar(&flags.Strike, "strike", false,
		"also run the structure based strike score")
	f.StringVarP(&flags.Config, "config", "c", "",
		"yaml config file with scores, matrix and strike settings")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false,
		"per-column diagnostics on top of the report")
	f.BoolVarP(&flags.Time, "time", "t", false,
		"print out timing information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
