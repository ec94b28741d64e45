// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/schemer/repl"
	"github.com/spf13/cobra"
)

var replMarkers bool

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Long: `Start an interactive read-eval-print loop.

Input is evaluated once its brackets balance, so an expression may span
several lines.  Every input is evaluated in the same environment, so
definitions persist.  Line editing, history and completion of special forms
and defined symbols are supported via readline.  Use Ctrl-D to exit.

Example REPL session:
  schemer> (define lunch (hotdogs and chips))
  ()
  schemer> (car lunch)
  hotdogs
  schemer> (cond ((null? lunch) hungry)
                 ((atom? lunch) odd)
                 (true (cdr lunch)))
  (and chips)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := envConfig(newLogger())
		if err != nil {
			return err
		}
		return repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithColor(colorMode()),
			repl.WithMarkers(replMarkers),
			repl.WithEnvConfig(config...),
		)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replMarkers, "markers", false,
		`Print "Bad scheme!" or "Bad eval!" in place of diagnostics`)
}
