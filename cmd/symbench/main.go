package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var verbose bool

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:     "symbench",
	Short:   "Benchmark and compare symbol table runs",
	Version: version,
	Long: `
symbench fills symbol tables with generated keys, records insertion, lookup
and removal rates as JSON, and compares two such recordings.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func init() {
	cmdRoot.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log table growth and progress")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
