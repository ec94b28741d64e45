// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"

	"github.com/luthersystems/schemer/schemerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolCompleter(t *testing.T) {
	s, err := schemerutil.NewSession()
	require.NoError(t, err)
	_, err = s.EvalString("test", "((define cdr-of-lunch x) (define lunch hotdogs))")
	require.NoError(t, err)

	c := &symbolCompleter{env: s.Env()}

	candidates, offset := c.Do([]rune("(c"), 2)
	assert.Equal(t, 1, offset)
	assert.Equal(t, [][]rune{[]rune("ar"), []rune("dr"), []rune("dr-of-lunch"), []rune("ond"), []rune("ons")}, candidates)

	candidates, offset = c.Do([]rune("(car lu"), 7)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("nch")}, candidates)

	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Empty(t, candidates)

	candidates, offset = c.Do([]rune("(car "), 5)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, offset)
}
