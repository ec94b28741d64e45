// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"

	"github.com/luthersystems/schemer/parser/lexer"
	"github.com/spf13/cobra"
)

var tokensExpression bool

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] [files...]",
	Short: "Print the tokens of each input",
	Long: `Print each token of each input with its source location.

Example:
  schemer tokens -e '(car x)'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readInputs(args, tokensExpression, nil, cmd.InOrStdin())
		if err != nil {
			return err
		}
		for _, in := range inputs {
			writeTokens(cmd.OutOrStdout(), in)
		}
		return nil
	},
}

func writeTokens(w io.Writer, in input) {
	for _, tok := range lexer.Tokenize(in.name, in.text) {
		fmt.Fprintf(w, "%s\t%v\n", tok.Source, tok) //nolint:errcheck // best-effort CLI output
	}
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().BoolVarP(&tokensExpression, "expression", "e", false,
		"Interpret arguments as source text")
}
