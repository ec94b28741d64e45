// Copyright © 2024 The ELPS authors

package cmd

import (
	"testing"

	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSettings(t *testing.T, settings map[string]interface{}) {
	t.Helper()
	saved := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		saved[k] = viper.Get(k)
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			viper.Set(k, v)
		}
	})
}

func TestEnvConfig(t *testing.T) {
	withSettings(t, map[string]interface{}{
		keyMaxDepth:       7,
		keyStrictEquality: true,
		keyReader:         readerParsec,
	})
	config, err := envConfig(logrus.New())
	require.NoError(t, err)

	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeEnv(env, config...)
	require.NotEqual(t, lisp.LError, lerr.Type)
	assert.Equal(t, 7, env.Runtime.MaxDepth)
	assert.True(t, env.Runtime.StrictEquality)
	assert.NotNil(t, env.Runtime.Reader)

	v := env.LoadString("test", "(eq? (a b) (a c))")
	assert.Equal(t, "false", v.String())
}

func TestNewReaderUnknown(t *testing.T) {
	withSettings(t, map[string]interface{}{keyReader: "lalr"})
	_, err := newReader()
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	withSettings(t, map[string]interface{}{keyLogLevel: "info", keyVerbose: false})
	assert.Equal(t, logrus.InfoLevel, logLevel())

	withSettings(t, map[string]interface{}{keyVerbose: true})
	assert.Equal(t, logrus.DebugLevel, logLevel())

	withSettings(t, map[string]interface{}{keyLogLevel: "loud", keyVerbose: false})
	assert.Equal(t, logrus.WarnLevel, logLevel())
}

func TestColorMode(t *testing.T) {
	withSettings(t, map[string]interface{}{keyColor: "never"})
	assert.Equal(t, diagnostic.ColorNever, colorMode())

	withSettings(t, map[string]interface{}{keyColor: "sometimes"})
	assert.Equal(t, diagnostic.ColorAuto, colorMode())
}

func TestCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"run", "repl", "fmt", "check", "tokens", "doc", "lsp"} {
		assert.True(t, names[name], "missing command: %s", name)
	}

	cmd := LSPCommand()
	for _, name := range []string{"stdio", "port"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}
