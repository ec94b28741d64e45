// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/schemer/docs"
	"github.com/luthersystems/schemer/lisp"
	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc [form]",
	Short: "Show documentation",
	Long: `Show the documentation of a special form, or with no argument the
language reference.

Examples:
  schemer doc            Print the language reference
  schemer doc cond       Show documentation for cond`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
			return err
		}
		return writeFormDoc(cmd.OutOrStdout(), args[0])
	},
}

func writeFormDoc(w io.Writer, name string) error {
	op, ok := lisp.LookupSpecialOp(name)
	if !ok {
		return fmt.Errorf("unknown special form %q (known: %s)", name, strings.Join(lisp.SpecialOpNames(), " "))
	}
	operands := fmt.Sprint(op.Arity)
	if op.Arity < 0 {
		operands = "all remaining"
	}
	_, err := fmt.Fprintf(w, "%s (operands: %s)\n\n  %s\n", op.Name, operands, strings.Join(strings.Fields(op.Doc), " "))
	return err
}

func init() {
	rootCmd.AddCommand(docCmd)
}
