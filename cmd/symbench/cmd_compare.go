package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdCompare = &cobra.Command{
	Use:   "compare BASE CURRENT",
	Short: "Compare two benchmark recordings",
	Long: `
The "compare" command compares every metric shared by two recordings made with
"symbench run". A change of 5% or more in the wrong direction is a significant
regression.

EXIT STATUS
===========

Exit status is 0 if no significant regression was found, and non-zero otherwise.
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(args[0], args[1], compareOptions)
	},
}

// CompareOptions bundles all options for the compare command.
type CompareOptions struct {
	Out string
}

var compareOptions CompareOptions

func init() {
	cmdRoot.AddCommand(cmdCompare)

	f := cmdCompare.Flags()
	f.StringVar(&compareOptions.Out, "out", "", "also write the comparison as JSON to this file")
}

func runCompare(basePath, currentPath string, opts CompareOptions) error {
	base, err := loadSummary(basePath)
	if err != nil {
		return err
	}
	current, err := loadSummary(currentPath)
	if err != nil {
		return err
	}

	summary := compareSummaries(base, current)
	printComparison(os.Stdout, summary)

	if opts.Out != "" {
		if err := writeJSON(opts.Out, summary); err != nil {
			return err
		}
	}

	if summary.SignificantRegressions > 0 {
		return errors.Errorf("%d significant regressions", summary.SignificantRegressions)
	}
	return nil
}
