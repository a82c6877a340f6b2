// File: diag.go
// Title: Source Diagnostics
// Description: Maps parser errors onto source lines and renders them with
//              a caret underline, optionally coloured with lipgloss.
// Created: 2026-10-17

package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/microscheme/internal/parser"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	caretStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Position is a 1-based line and rune column
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// LineCol converts a byte offset in source into a Position. Offsets past the
// end are clamped to the end of source.
func LineCol(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	return Position{
		Line:   strings.Count(source[:offset], "\n") + 1,
		Column: utf8.RuneCountInString(source[lineStart:offset]) + 1,
	}
}

// lineAt returns the text of the line containing offset and its start
func lineAt(source string, offset int) (string, int) {
	if offset > len(source) {
		offset = len(source)
	}
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	end := strings.IndexByte(source[start:], '\n')
	if end < 0 {
		end = len(source) - start
	}
	return strings.TrimRight(source[start:start+end], "\r"), start
}

// Renderer writes diagnostics for one source text
type Renderer struct {
	Color bool
}

// Render writes a single error in the form
//
//	error: Unexpected token )
//	  --> repl:1:5
//	   |
//	 1 | (1 ))
//	   |     ^
func (r Renderer) Render(w io.Writer, name, source string, err *parser.SyntaxError) error {
	pos := LineCol(source, err.Span.Start)
	line, lineStart := lineAt(source, err.Span.Start)

	// caret covers the span up to the end of its first line
	end := err.Span.End
	if end > lineStart+len(line) {
		end = lineStart + len(line)
	}
	width := 1
	if end > err.Span.Start {
		width = utf8.RuneCountInString(source[err.Span.Start:end])
	}

	num := fmt.Sprint(pos.Line)
	pad := strings.Repeat(" ", len(num))
	caret := strings.Repeat(" ", pos.Column-1) + strings.Repeat("^", width)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.style(errorStyle, "error:"), err.Message())
	fmt.Fprintf(&b, "%s %s %s:%s\n", pad, r.style(gutterStyle, "-->"), name, pos)
	fmt.Fprintf(&b, " %s %s\n", pad, r.style(gutterStyle, "|"))
	fmt.Fprintf(&b, " %s %s %s\n", r.style(gutterStyle, num), r.style(gutterStyle, "|"), line)
	fmt.Fprintf(&b, " %s %s %s\n", pad, r.style(gutterStyle, "|"), r.style(caretStyle, caret))

	_, werr := io.WriteString(w, b.String())
	return werr
}

// RenderAll renders errs in order, separated by blank lines
func (r Renderer) RenderAll(w io.Writer, name, source string, errs []*parser.SyntaxError) error {
	for i, err := range errs {
		if i > 0 {
			if _, werr := io.WriteString(w, "\n"); werr != nil {
				return werr
			}
		}
		if werr := r.Render(w, name, source, err); werr != nil {
			return werr
		}
	}
	return nil
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}
