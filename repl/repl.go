// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop.  Input lines
// are accumulated until their brackets balance and are then evaluated in a
// single session, so definitions persist between inputs.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/lexer"
	"github.com/luthersystems/schemer/parser/token"
	"github.com/luthersystems/schemer/schemerutil"
)

// InputName is the source name attributed to REPL input.
const InputName = "stdin"

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile *string
	color       diagnostic.ColorMode
	markers     bool
	envConfig   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

func (c *config) output() io.Writer {
	if c.stderr != nil {
		return c.stderr
	}
	return os.Stderr
}

func (c *config) history() string {
	if c.historyFile != nil {
		return *c.historyFile
	}
	return historyPath()
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file where input history is kept.  An empty path
// disables history.  The default is ~/.schemer_history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = &path
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithMarkers prints the Bad scheme!/Bad eval! markers in place of error
// diagnostics.
func WithMarkers(markers bool) Option {
	return func(c *config) {
		c.markers = markers
	}
}

// WithEnvConfig configures the environment created by RunRepl.
func WithEnvConfig(envConfig ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, envConfig...)
	}
}

// RunRepl runs a repl in a new session.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envConfig := cfg.envConfig
	if cfg.stderr != nil {
		envConfig = append([]lisp.Config{lisp.WithStderr(cfg.stderr)}, envConfig...)
	}
	s, err := schemerutil.NewSession(envConfig...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunSession(s, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunSession runs a repl which evaluates input in s.  The cont prompt is
// shown while an input has unclosed brackets.  RunSession returns when
// input is exhausted.
func RunSession(s *schemerutil.Session, prompt, cont string, opts ...Option) error {
	cfg := newConfig(opts...)
	out := cfg.output()

	history := cfg.history()
	ensureHistoryFilePermissions(history)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: s.Env()},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	r := &repl{session: s, out: out, cfg: cfg}
	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			buf.Reset()
			continue
		}
		if err != nil {
			if strings.TrimSpace(buf.String()) != "" {
				r.eval(buf.String())
			}
			return nil
		}
		if buf.Len() == 0 && strings.TrimSpace(string(line)) == "" {
			continue
		}
		buf.Write(line)
		buf.WriteByte('\n')
		text := buf.String()
		if token.Depth(lexer.Tokenize(InputName, text)) > 0 {
			continue
		}
		buf.Reset()
		r.eval(text)
	}
}

type repl struct {
	session *schemerutil.Session
	out     io.Writer
	cfg     *config
}

func (r *repl) eval(text string) {
	result, err := r.session.EvalString(InputName, text)
	if err == nil {
		fmt.Fprintln(r.out, result) //nolint:errcheck // best-effort REPL output
		return
	}
	if r.cfg.markers {
		fmt.Fprintln(r.out, schemerutil.MarkerFor(err)) //nolint:errcheck // best-effort REPL output
		return
	}
	renderError(r.out, text, err, r.cfg.color)
}

// renderError renders err as a diagnostic annotating the REPL input text.
func renderError(w io.Writer, text string, err error, color diagnostic.ColorMode) {
	d := schemerutil.Diagnostic(err)
	dr := &diagnostic.Renderer{
		Color: color,
		SourceReader: func(name string) ([]byte, error) {
			if name != InputName {
				return nil, os.ErrNotExist
			}
			return []byte(text), nil
		},
	}
	_ = dr.Render(w, d)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".schemer_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // user history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
