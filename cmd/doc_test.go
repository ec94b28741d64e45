// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"testing"

	"github.com/luthersystems/schemer/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormDoc(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFormDoc(&buf, "cons"))
	assert.Equal(t, "cons (operands: 2)\n\n  Returns a new list with the first operand prepended to the second.\n", buf.String())

	buf.Reset()
	require.NoError(t, writeFormDoc(&buf, "cond"))
	assert.Contains(t, buf.String(), "cond (operands: all remaining)")

	err := writeFormDoc(&buf, "lambda")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "car")
}

func TestLangGuide(t *testing.T) {
	assert.Contains(t, docs.LangGuide, "# schemer language reference")
	for _, name := range []string{"quote", "car", "cdr", "cons", "null?", "atom?", "eq?", "lat?", "cond", "define"} {
		assert.Contains(t, docs.LangGuide, "`"+name+"`")
	}
}
