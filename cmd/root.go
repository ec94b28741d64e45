// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each key may be set by flag, by an environment
// variable with the SCHEMER_ prefix (e.g. SCHEMER_MAX_DEPTH) or in the
// config file.
const (
	keyColor          = "color"
	keyLogLevel       = "log-level"
	keyVerbose        = "verbose"
	keyMaxDepth       = "max-depth"
	keyStrictEquality = "strict-equality"
	keyReader         = "reader"
	keyTrace          = "trace"
)

// Reader names accepted by the reader key.
const (
	readerRD     = "rd"
	readerParsec = "parsec"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schemer",
	Short: "schemer: a minimal S-expression evaluator",
	Long: `schemer reads a single S-expression and evaluates it.

Getting started:
  schemer run file.scm                  Evaluate the expression in a file
  schemer run -e '(car (a b c))'        Evaluate an expression
  schemer repl                          Start an interactive REPL
  schemer fmt file.scm                  Print the canonical form of a file
  schemer check -e '((a) b)'            Classify a token sequence
  schemer tokens -e '(car x)'           Print the tokens of an expression

Language overview:
  Atoms are runs of printable ASCII characters other than brackets.  There
  are no numbers or strings.  A list is scanned left to right; a special
  form consumes the children following it and its value becomes the value
  of the whole list.  The special forms are quote ('), car, cdr, cons,
  null?, atom?, eq?, lat?, cond and define.  The atom true is the only
  truthy value.

Configuration is read from $HOME/.schemer.yaml and SCHEMER_* environment
variables, for example SCHEMER_MAX_DEPTH=500.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.schemer.yaml)")
	flags.String(keyColor, "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String(keyLogLevel, "warn", "Log level (trace, debug, info, warn, error).")
	flags.BoolP(keyVerbose, "v", false, "Log at debug level.")
	flags.Int(keyMaxDepth, lisp.DefaultMaxDepth, "Maximum evaluation depth (0 for no limit).")
	flags.Bool(keyStrictEquality, false, "Compare every pair of list elements in eq?.")
	flags.String(keyReader, readerRD, `Reader implementation: "rd" or "parsec".`)
	for _, key := range []string{keyColor, keyLogLevel, keyVerbose, keyMaxDepth, keyStrictEquality, keyReader} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".schemer" (without extension).
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".schemer")
	}

	viper.SetEnvPrefix("SCHEMER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		newLogger().WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// newLogger returns a logger writing to stderr at the configured level.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logLevel())
	return logger
}

func logLevel() logrus.Level {
	if viper.GetBool(keyVerbose) {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(viper.GetString(keyLogLevel))
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// newReader returns the configured reader implementation.
func newReader() (lisp.Reader, error) {
	switch name := viper.GetString(keyReader); name {
	case "", readerRD:
		return parser.NewReader(), nil
	case readerParsec:
		return parser.NewReader(parser.WithCombinator()), nil
	default:
		return nil, fmt.Errorf("unknown reader %q (want %q or %q)", name, readerRD, readerParsec)
	}
}

// envConfig returns the environment configuration selected by flags,
// environment variables and the config file.
func envConfig(logger *logrus.Logger) ([]lisp.Config, error) {
	reader, err := newReader()
	if err != nil {
		return nil, err
	}
	config := []lisp.Config{
		lisp.WithReader(reader),
		lisp.WithLogger(logger),
		lisp.WithMaxDepth(viper.GetInt(keyMaxDepth)),
	}
	if viper.GetBool(keyStrictEquality) {
		config = append(config, lisp.WithStrictEquality())
	}
	return config, nil
}
