// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/schemerutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runExpression bool
	runMarkers    bool
	runSession    bool
	runExcludes   []string
	runProfile    profileOptions
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [files...]",
	Short: "Evaluate expressions",
	Long: `Evaluate the expression in each file, or each argument with -e, and
print its value.  With no arguments the expression is read from stdin.

Each input is evaluated in a new environment unless --session is given, in
which case definitions made by one input are visible to the inputs which
follow it.

With --markers, failures print "Bad scheme!" for input which cannot be read
and "Bad eval!" for an expression which fails to evaluate, instead of a
diagnostic.

Examples:
  schemer run lunch.scm
  schemer run -e '(car (hotdogs and))'
  schemer run --session -e '(define lunch (hotdogs))' '(car lunch)'
  schemer run --profiler callgrind --profile-output out.callgrind lunch.scm
  schemer run --trace lunch.scm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readInputs(args, runExpression, runExcludes, cmd.InOrStdin())
		if err != nil {
			return err
		}
		logger := newLogger()
		config, err := envConfig(logger)
		if err != nil {
			return err
		}
		profile := runProfile
		profile.trace = viper.GetBool(keyTrace)
		r := &runner{
			out:     cmd.OutOrStdout(),
			errOut:  cmd.ErrOrStderr(),
			config:  config,
			logger:  logger,
			markers: runMarkers,
			session: runSession,
			profile: profile,
		}
		ok, err := r.run(inputs)
		if err != nil {
			return err
		}
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

type runner struct {
	out     io.Writer
	errOut  io.Writer
	config  []lisp.Config
	logger  *logrus.Logger
	markers bool
	session bool
	profile profileOptions
}

// run evaluates inputs and reports whether all of them succeeded.  The error
// is non-nil only if evaluation could not be set up.
func (r *runner) run(inputs []input) (bool, error) {
	if r.profile.enabled() && len(inputs) > 1 && !r.session {
		return false, errors.New("profiling multiple inputs requires --session")
	}
	ok := true
	var s *schemerutil.Session
	stop := func() error { return nil }
	for _, in := range inputs {
		if s == nil || !r.session {
			var err error
			s, err = schemerutil.NewSession(r.config...)
			if err != nil {
				return false, fmt.Errorf("language initialization failure: %w", err)
			}
			stop, err = startProfiler(r.profile, s.Env().Runtime, r.logger)
			if err != nil {
				return false, err
			}
		}
		if !r.eval(s, in) {
			ok = false
		}
		if !r.session {
			if err := stop(); err != nil {
				return false, err
			}
		}
	}
	if r.session && s != nil {
		if err := stop(); err != nil {
			return false, err
		}
	}
	return ok, nil
}

func (r *runner) eval(s *schemerutil.Session, in input) bool {
	r.logger.WithField("input", in.name).Debug("evaluate")
	if r.markers && in.text == "" {
		fmt.Fprintln(r.out) //nolint:errcheck // best-effort CLI output
		return true
	}
	out, err := s.EvalString(in.name, in.text)
	if err != nil {
		if r.markers {
			fmt.Fprintln(r.out, schemerutil.MarkerFor(err)) //nolint:errcheck // best-effort CLI output
		} else {
			renderError(r.errOut, err, in)
		}
		return false
	}
	fmt.Fprintln(r.out, out) //nolint:errcheck // best-effort CLI output
	return true
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as expressions")
	flags.BoolVar(&runMarkers, "markers", false,
		`Print "Bad scheme!" or "Bad eval!" in place of diagnostics`)
	flags.BoolVar(&runSession, "session", false,
		"Evaluate all inputs in one environment")
	flags.StringArrayVar(&runExcludes, "exclude", nil,
		"Glob pattern for files to exclude from dir/... (may be repeated)")
	flags.StringVar(&runProfile.kind, "profiler", "",
		`Profile special forms: "callgrind", "pprof", "opentelemetry" or "opencensus"`)
	flags.StringVar(&runProfile.output, "profile-output", "",
		"Output file for the callgrind and pprof profilers")
	flags.BoolVar(&runProfile.sourceLabels, "profile-source-labels", false,
		"Label profiled forms with their source location")
	flags.Bool(keyTrace, false, "Log an opentelemetry span for each special form")
	if err := viper.BindPFlag(keyTrace, flags.Lookup(keyTrace)); err != nil {
		panic(err)
	}
}
