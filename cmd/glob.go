// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sourceExt is the extension of source files found by "dir/..." patterns.
const sourceExt = ".scm"

// stdinName is the source name given to input read from stdin.
const stdinName = "<stdin>"

// input is a named source text.
type input struct {
	name string
	text string
}

// readInputs returns the inputs named by args.  With expression set, each
// argument is itself an input named by its position.  Otherwise arguments
// are files, with "dir/..." patterns expanded and excludes filtered out.  No
// arguments reads stdin.
func readInputs(args []string, expression bool, excludes []string, stdin io.Reader) ([]input, error) {
	if expression {
		inputs := make([]input, len(args))
		for i, arg := range args {
			inputs[i] = input{name: fmt.Sprintf("expr%d", i+1), text: arg}
		}
		return inputs, nil
	}
	if len(args) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []input{{name: stdinName, text: string(b)}}, nil
	}
	paths, err := expandArgs(args, excludes)
	if err != nil {
		return nil, err
	}
	inputs := make([]input, len(paths))
	for i, path := range paths {
		b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return nil, err
		}
		inputs[i] = input{name: path, text: string(b)}
	}
	return inputs, nil
}

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// source files found recursively under the given directory.  Non-pattern
// arguments pass through unchanged.  Expanded files matching an exclude
// pattern are dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findSourceFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, filterExcludes(files, excludes)...)
		} else {
			out = append(out, arg)
		}
	}
	return out, nil
}

func findSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == sourceExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths matching any of the exclude patterns.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path, its base name or any of its directory
// components match one of patterns.
func matchesAny(path string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, c := range splitPath(path) {
			if ok, _ := filepath.Match(pat, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of path.
func splitPath(path string) []string {
	var parts []string
	for {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append(parts, file)
		}
		dir = strings.TrimSuffix(dir, string(filepath.Separator))
		if dir == "" || dir == path {
			return parts
		}
		path = dir
	}
}
