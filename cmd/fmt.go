// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/schemer/lisp"
	"github.com/spf13/cobra"
)

var (
	fmtWrite    bool
	fmtDiff     bool
	fmtList     bool
	fmtExcludes []string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [files...]",
	Short: "Format source files",
	Long: `Print the canonical form of the expression in each source file: a
single line with one space between the elements of each list.  Nothing is
evaluated.  The formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  schemer fmt file.scm               Print formatted output
  schemer fmt -w src/...             Format every .scm file under src
  schemer fmt -l *.scm               List files needing formatting
  cat file.scm | schemer fmt         Format from stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := newReader()
		if err != nil {
			return err
		}
		inputs, err := readInputs(args, false, fmtExcludes, cmd.InOrStdin())
		if err != nil {
			return err
		}
		f := &formatter{
			reader: reader,
			out:    cmd.OutOrStdout(),
			errOut: cmd.ErrOrStderr(),
			write:  fmtWrite,
			diff:   fmtDiff,
			list:   fmtList,
		}
		exitCode := 0
		for _, in := range inputs {
			changed, err := f.file(in)
			if err != nil {
				var perr *parseError
				if errors.As(err, &perr) {
					renderError(f.errOut, perr.err, in)
				} else {
					fmt.Fprintln(f.errOut, err) //nolint:errcheck // best-effort CLI output
				}
				exitCode = 1
			} else if fmtList && changed {
				exitCode = 1
			}
		}
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return nil
	},
}

type formatter struct {
	reader lisp.Reader
	out    io.Writer
	errOut io.Writer
	write  bool
	diff   bool
	list   bool
}

// parseError wraps a failure to read the input being formatted.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// format returns the canonical form of the expression in src.
func (f *formatter) format(name, src string) (string, error) {
	expr, err := f.reader.Read(name, strings.NewReader(src))
	if err != nil {
		return "", &parseError{err: err}
	}
	return expr.String() + "\n", nil
}

func (f *formatter) file(in input) (bool, error) {
	out, err := f.format(in.name, in.text)
	if err != nil {
		return false, err
	}
	changed := in.text != out

	switch {
	case f.list:
		if changed {
			fmt.Fprintln(f.out, in.name) //nolint:errcheck // best-effort CLI output
		}
		return changed, nil
	case f.diff:
		if changed {
			printUnifiedDiff(f.out, in.name, in.text, out)
		}
		return changed, nil
	case f.write && in.name != stdinName:
		if !changed {
			return false, nil
		}
		info, err := os.Stat(in.name)
		if err != nil {
			return false, fmt.Errorf("%s: %w", in.name, err)
		}
		return true, os.WriteFile(in.name, []byte(out), info.Mode().Perm())
	}

	// Default: print to stdout
	_, err = io.WriteString(f.out, out)
	return changed, err
}

func printUnifiedDiff(w io.Writer, path string, original, formatted string) {
	// Simple line-by-line diff output
	fmt.Fprintf(w, "--- %s\n", path) //nolint:errcheck // best-effort CLI output
	fmt.Fprintf(w, "+++ %s\n", path) //nolint:errcheck // best-effort CLI output

	origLines := splitLines(original)
	fmtLines := splitLines(formatted)

	i, j := 0, 0
	for i < len(origLines) || j < len(fmtLines) {
		if i < len(origLines) && j < len(fmtLines) && origLines[i] == fmtLines[j] {
			fmt.Fprintf(w, " %s\n", origLines[i]) //nolint:errcheck // best-effort CLI output
			i++
			j++
		} else if i < len(origLines) {
			fmt.Fprintf(w, "-%s\n", origLines[i]) //nolint:errcheck // best-effort CLI output
			i++
		} else {
			fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck // best-effort CLI output
			j++
		}
	}
}

func splitLines(data string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"List files whose formatting differs from schemer fmt's.")
	fmtCmd.Flags().StringArrayVar(&fmtExcludes, "exclude", nil,
		"Glob pattern for files to exclude from dir/... (may be repeated).")
}
