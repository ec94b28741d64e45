// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"

	"github.com/luthersystems/schemer/parser/lexer"
	"github.com/luthersystems/schemer/parser/token"
	"github.com/spf13/cobra"
)

var checkExpression bool

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Classify the token sequence of each input",
	Long: `Tokenize each input and report whether its token sequence is a single
atom, a balanced list and an S-expression.  Nothing is read or evaluated.

Examples:
  schemer check -e 'hotdogs' '(a (b) c)' '(a))'
  schemer check lunch.scm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readInputs(args, checkExpression, nil, cmd.InOrStdin())
		if err != nil {
			return err
		}
		for _, in := range inputs {
			if len(inputs) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", in.name) //nolint:errcheck // best-effort CLI output
			}
			writeShape(cmd.OutOrStdout(), in)
		}
		return nil
	},
}

func writeShape(w io.Writer, in input) {
	tokens := lexer.Tokenize(in.name, in.text)
	fmt.Fprintf(w, "is-atom: %t\n", token.IsAtom(tokens))                 //nolint:errcheck // best-effort CLI output
	fmt.Fprintf(w, "is-list: %t\n", token.IsList(tokens))                 //nolint:errcheck // best-effort CLI output
	fmt.Fprintf(w, "is-s-expression: %t\n", token.IsSExpression(tokens)) //nolint:errcheck // best-effort CLI output
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkExpression, "expression", "e", false,
		"Interpret arguments as source text")
}
