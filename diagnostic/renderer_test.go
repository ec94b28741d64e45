// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"lunch.scm": "(car hotdogs)",
	})

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "car-error: car of atom: hotdogs",
		Spans: []Span{
			{File: "lunch.scm", Line: 1, Col: 6, Label: "not a list"},
		},
	})

	assertContains(t, got, "error: car-error: car of atom: hotdogs")
	assertContains(t, got, "--> lunch.scm:1:6")
	assertContains(t, got, " 1 |  (car hotdogs)\n")
	assertContains(t, got, "   |       ^^^^^^^ not a list\n")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"lunch.scm": "(define a b)\n(define a c)",
	})

	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "a is already bound",
		Spans: []Span{
			{File: "lunch.scm", Line: 2, Col: 1, EndCol: 12},
		},
	})
	assertContains(t, got, "warning: a is already bound")
	assertContains(t, got, "--> lunch.scm:2:1")
	assertContains(t, got, "(define a c)")
	assertContains(t, got, "^^^^^^^^^^^^")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "<stdin>", Line: 5, Col: 3},
		},
	})
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(nil)
	r.Width = 40

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "cond-error: no clause matched",
		Notes: []string{
			"short note",
			"every clause test evaluated to something other than the atom true",
		},
	})
	assertContains(t, got, "   = note: short note\n")
	assertContains(t, got, "   = note: every clause test evaluated\n")
	assertContains(t, got, "\n           to something other than the\n")
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 40 {
			t.Errorf("line exceeds width: %q", line)
		}
	}

	r.Width = -1
	got = render(t, r, Diagnostic{
		Severity: SeverityNote,
		Message:  "unwrapped",
		Notes:    []string{"every clause test evaluated to something other than the atom true"},
	})
	assertContains(t, got, "note: unwrapped")
	assertContains(t, got, "= note: every clause test evaluated to something other than the atom true\n")
}

func TestDetectEndCol(t *testing.T) {
	tests := []struct {
		source string
		col    int
		end    int
	}{
		{"(car hotdogs)", 1, 1},
		{"(car hotdogs)", 2, 4},
		{"(car hotdogs)", 6, 12},
		{"(car hotdogs)", 13, 13},
		{"(café au lait)", 7, 8},
		{"(a\tb)", 3, 3},
		{"abc", 9, 9},
	}
	for i, test := range tests {
		if end := detectEndCol(test.source, test.col); end != test.end {
			t.Errorf("test %d: detectEndCol(%q, %d) = %d (expected %d)", i, test.source, test.col, end, test.end)
		}
	}
}

func TestRenderUnicodeColumn(t *testing.T) {
	r := testRenderer(map[string]string{
		"cafe.scm": "(café au lait)",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "bad",
		Spans:    []Span{{File: "cafe.scm", Line: 1, Col: 7}},
	})
	assertContains(t, got, "   |        ^^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"lunch.scm": "(car a)\n(cdr a)",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityError,
			Message:  "car-error: car of atom: a",
			Spans:    []Span{{File: "lunch.scm", Line: 1, Col: 2}},
		},
		{
			Severity: SeverityError,
			Message:  "cdr-error: cdr of atom: a",
			Spans:    []Span{{File: "lunch.scm", Line: 2, Col: 2}},
		},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "car-error: car of atom: a")
	assertContains(t, got, "cdr-error: cdr of atom: a")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "open lunch.scm: no such file or directory",
	})
	assertContains(t, got, "error: open lunch.scm: no such file or directory")
	assertNotContains(t, got, "-->")
}

func TestParseColorMode(t *testing.T) {
	for _, mode := range []ColorMode{ColorAuto, ColorAlways, ColorNever} {
		parsed, err := ParseColorMode(mode.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != mode {
			t.Errorf("ParseColorMode(%q) = %v", mode.String(), parsed)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Errorf("expected error for invalid color mode")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
