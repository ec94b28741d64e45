// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFormatter() (*formatter, *bytes.Buffer) {
	var out bytes.Buffer
	return &formatter{reader: parser.NewReader(), out: &out, errOut: &out}, &out
}

func TestFormat(t *testing.T) {
	f, _ := testFormatter()
	tests := []struct {
		src  string
		want string
	}{
		{"(car\n   (a    b))", "(car (a b))\n"},
		{"hotdogs", "hotdogs\n"},
		{"( )", "()\n"},
		{"(car (a b))\n", "(car (a b))\n"},
	}
	for _, tc := range tests {
		got, err := f.format("test", tc.src)
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, got, tc.src)

		again, err := f.format("test", got)
		require.NoError(t, err)
		assert.Equal(t, got, again, "formatting is not idempotent for %q", tc.src)
	}

	_, err := f.format("test", "(car (a b)")
	require.Error(t, err)
	var perr *parseError
	require.ErrorAs(t, err, &perr)
	lerr, ok := lisp.AsErrorVal(perr.err)
	require.True(t, ok)
	assert.Equal(t, lisp.CondUnmatchedSyntax, lerr.Condition())
}

func TestFormatFileModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lunch.scm")
	src := "(car\n  lunch)"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	in := input{name: path, text: src}

	f, out := testFormatter()
	f.list = true
	changed, err := f.file(in)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, path+"\n", out.String())

	f, out = testFormatter()
	f.diff = true
	_, err = f.file(in)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "-(car\n")
	assert.Contains(t, out.String(), "+(car lunch)\n")

	f, _ = testFormatter()
	f.write = true
	changed, err = f.file(in)
	require.NoError(t, err)
	assert.True(t, changed)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "(car lunch)\n", string(b))

	f, out = testFormatter()
	changed, err = f.file(input{name: path, text: string(b)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "(car lunch)\n", out.String())
}
