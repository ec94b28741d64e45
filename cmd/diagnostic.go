// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/schemerutil"
	"github.com/spf13/viper"
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(viper.GetString(keyColor))
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

// newRenderer returns a renderer which reads the source of inputs from
// memory and falls back to the filesystem.
func newRenderer(inputs ...input) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: colorMode(),
		SourceReader: func(name string) ([]byte, error) {
			for _, in := range inputs {
				if in.name == name {
					return []byte(in.text), nil
				}
			}
			return os.ReadFile(name) //nolint:gosec // CLI tool reads user-specified files
		},
	}
}

// renderError renders err with diagnostic formatting.
func renderError(w io.Writer, err error, inputs ...input) {
	_ = newRenderer(inputs...).Render(w, schemerutil.Diagnostic(err))
}
