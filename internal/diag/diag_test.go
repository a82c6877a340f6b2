package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/msto63/microscheme/internal/parser"
)

func TestLineCol(t *testing.T) {
	tests := []struct {
		name   string
		source string
		offset int
		want   Position
	}{
		{"start", "(a b)", 0, Position{1, 1}},
		{"same line", "(a b)", 3, Position{1, 4}},
		{"second line", "(a\n b)", 4, Position{2, 2}},
		{"right after newline", "a\nb", 2, Position{2, 1}},
		{"end of input", "(1 2", 4, Position{1, 5}},
		{"past end is clamped", "ab", 10, Position{1, 3}},
		{"columns count runes", "(λλ x)", 6, Position{1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineCol(tt.source, tt.offset); got != tt.want {
				t.Errorf("LineCol(%q, %d) = %v, want %v", tt.source, tt.offset, got, tt.want)
			}
		})
	}
}

func render(t *testing.T, name, source string) string {
	t.Helper()
	_, errs := parser.Parse(source)
	if len(errs) == 0 {
		t.Fatalf("Parse(%q) returned no errors", source)
	}
	var buf bytes.Buffer
	if err := (Renderer{}).RenderAll(&buf, name, source, errs); err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}
	return buf.String()
}

func TestRender_UnexpectedToken(t *testing.T) {
	got := render(t, "repl", "(1 ))")
	want := strings.Join([]string{
		"error: Unexpected token )",
		"  --> repl:1:5",
		"   |",
		" 1 | (1 ))",
		"   |     ^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_EOFOnLaterLine(t *testing.T) {
	got := render(t, "a.scm", "(define x\n  (f 1")

	for _, want := range []string{
		"error: Unexpected EOF",
		"--> a.scm:2:7",
		" 2 |   (f 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRender_SpanWidth(t *testing.T) {
	got := render(t, "repl", `(a "open`)
	if !strings.Contains(got, "   ^^^^^") {
		t.Errorf("caret should cover the unterminated string:\n%s", got)
	}
	if !strings.Contains(got, "unterminated string literal") {
		t.Errorf("missing custom message:\n%s", got)
	}
}

func TestRenderAll_Separates(t *testing.T) {
	got := render(t, "repl", "($ %)")
	if n := strings.Count(got, "error:"); n != 2 {
		t.Errorf("rendered %d errors, want 2:\n%s", n, got)
	}
	if !strings.Contains(got, "\n\nerror:") {
		t.Errorf("errors should be separated by a blank line:\n%s", got)
	}
}
