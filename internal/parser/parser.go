// File: parser.go
// Title: Grammar and Recovery
// Description: Lists, quotes, top-level forms and junk skipping.
// Created: 2026-10-17

package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msto63/microscheme/internal/ast"
	mslog "github.com/msto63/microscheme/pkg/core/log"
)

const (
	// DefaultMaxInputLength bounds the source size accepted by a Parser
	DefaultMaxInputLength = 1 << 20

	// DefaultMaxDepth bounds list nesting
	DefaultMaxDepth = 4096

	quoteKeyword = "quote"
)

// Options configures a Parser
type Options struct {
	// Logger defaults to the package default logger at call time
	Logger *mslog.Logger

	// MaxInputLength in bytes; 0 means DefaultMaxInputLength, negative
	// means unlimited
	MaxInputLength int

	// MaxDepth of nested lists; 0 means DefaultMaxDepth
	MaxDepth int
}

// Parser holds limits only; every call runs on fresh state, so a Parser is
// safe for concurrent use.
type Parser struct {
	logger   *mslog.Logger
	maxInput int
	maxDepth int
}

// New creates a parser
func New(opts Options) *Parser {
	p := &Parser{
		logger:   opts.Logger,
		maxInput: opts.MaxInputLength,
		maxDepth: opts.MaxDepth,
	}
	if p.maxInput == 0 {
		p.maxInput = DefaultMaxInputLength
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	return p
}

var defaultParser = New(Options{})

// Parse parses the first form of source with the default parser
func Parse(source string) (ast.Expr, []*SyntaxError) {
	return defaultParser.Parse(source)
}

// ParseAll parses every top-level form of source with the default parser
func ParseAll(source string) ([]ast.Expr, []*SyntaxError) {
	return defaultParser.ParseAll(source)
}

// Parse returns the first form of source. Input after it is reported once
// as unexpected; its forms are still parsed so their own errors are
// collected. If the first form fails there is no tree, even when a later
// form parses. Empty input yields no tree and an Unexpected EOF error.
func (p *Parser) Parse(source string) (ast.Expr, []*SyntaxError) {
	if err := p.checkSize(source); err != nil {
		return nil, []*SyntaxError{err}
	}

	s := p.newState(source)
	s.skipSpace()
	if s.eof() {
		s.errs = append(s.errs, unexpectedEOF(len(source), expected(true, false)))
	}

	// Only the first attempt may become the tree. When it fails, later
	// forms are parsed for their errors alone.
	var tree ast.Expr
	attempted, trailing := false, false
	for !s.eof() {
		start := s.pos
		first, _ := s.peek()
		e, ok := s.parseExpr(true, false)
		switch {
		case !attempted:
			attempted = true
			if ok {
				tree = e
			}
		case ok && tree != nil && !trailing:
			trailing = true
			s.errs = append(s.errs, unexpected(start, s.pos, first, []string{"end of input"}))
		}
		s.skipSpace()
	}

	sortErrors(s.errs)
	p.log().Debug("parse finished", mslog.Fields{
		"bytes":  len(source),
		"tree":   tree != nil,
		"errors": len(s.errs),
	})
	return tree, s.errs
}

// ParseAll returns every top-level form of source in order. Empty input
// yields no forms and no errors.
func (p *Parser) ParseAll(source string) ([]ast.Expr, []*SyntaxError) {
	if err := p.checkSize(source); err != nil {
		return nil, []*SyntaxError{err}
	}

	s := p.newState(source)
	var forms []ast.Expr
	for s.skipSpace(); !s.eof(); s.skipSpace() {
		if e, ok := s.parseExpr(true, false); ok {
			forms = append(forms, e)
		}
	}

	sortErrors(s.errs)
	p.log().Debug("parse finished", mslog.Fields{
		"bytes":  len(source),
		"forms":  len(forms),
		"errors": len(s.errs),
	})
	return forms, s.errs
}

func (p *Parser) checkSize(source string) *SyntaxError {
	if p.maxInput < 0 || len(source) <= p.maxInput {
		return nil
	}
	return custom(p.maxInput, len(source), "input", fmt.Sprintf("input exceeds %d bytes", p.maxInput))
}

func (p *Parser) log() *mslog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return mslog.GetDefault()
}

func (p *Parser) newState(source string) *state {
	return &state{src: source, maxDepth: p.maxDepth}
}

// state is the cursor of a single parse call
type state struct {
	src      string
	pos      int
	depth    int
	maxDepth int
	errs     []*SyntaxError
}

func (s *state) eof() bool { return s.pos >= len(s.src) }

// peek returns the rune at the cursor and its width; width is 0 at EOF
func (s *state) peek() (rune, int) {
	if s.eof() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s.src[s.pos:])
}

func (s *state) skipSpace() {
	for {
		r, w := s.peek()
		if w == 0 || !isSpace(r) {
			return
		}
		s.pos += w
	}
}

// parseExpr parses one expression at a non-space, non-EOF cursor. With
// allowQuote false it is sexpr_noquote. On failure the error is recorded,
// at least one rune has been consumed and ok is false.
func (s *state) parseExpr(allowQuote, inList bool) (ast.Expr, bool) {
	r, w := s.peek()
	switch {
	case r == '(':
		return s.parseList(allowQuote)
	case allowQuote && r == '\'':
		return s.parseQuote(w, false, inList)
	case allowQuote && s.atQuoteKeyword():
		return s.parseQuote(len(quoteKeyword), true, inList)
	case canStartAtom(r):
		return s.parseAtom()
	}
	s.skipJunk(allowQuote, inList)
	return nil, false
}

func (s *state) parseList(allowQuote bool) (ast.Expr, bool) {
	open := s.pos
	s.pos++ // '('

	if s.depth >= s.maxDepth {
		s.errs = append(s.errs, custom(open, open+1, "list", fmt.Sprintf("lists nested deeper than %d", s.maxDepth)))
		s.skipBalanced()
		return nil, false
	}
	s.depth++
	defer func() { s.depth-- }()

	items := []ast.Expr{}
	for {
		s.skipSpace()
		r, w := s.peek()
		if w == 0 {
			err := unexpectedEOF(len(s.src), expected(allowQuote, true))
			err.Label = "unclosed list"
			s.errs = append(s.errs, err)
			return ast.NewList(items...), true
		}
		if r == ')' {
			s.pos += w
			return ast.NewList(items...), true
		}
		if e, ok := s.parseExpr(allowQuote, true); ok {
			items = append(items, e)
		}
	}
}

// parseQuote consumes the prefix (' or the keyword) and one sexpr_noquote
func (s *state) parseQuote(prefix int, keyword, inList bool) (ast.Expr, bool) {
	s.pos += prefix
	if keyword {
		s.skipSpace()
	}

	r, w := s.peek()
	if w == 0 {
		s.errs = append(s.errs, unexpectedEOF(s.pos, expected(false, false)))
		return nil, false
	}
	// leave a closing paren for the enclosing list
	if isSpace(r) || (inList && r == ')') {
		s.errs = append(s.errs, unexpected(s.pos, s.pos+w, r, expected(false, false)))
		return nil, false
	}

	inner, ok := s.parseExpr(false, inList)
	if !ok {
		return nil, false
	}
	return ast.NewQuote(inner), true
}

// atQuoteKeyword reports whether the cursor is at "quote", whitespace and
// the start of a quotable form. Anything else reads as the symbol quote.
func (s *state) atQuoteKeyword() bool {
	if !strings.HasPrefix(s.src[s.pos:], quoteKeyword) {
		return false
	}
	i := s.pos + len(quoteKeyword)
	sawSpace := false
	for i < len(s.src) {
		r, w := utf8.DecodeRuneInString(s.src[i:])
		if !isSpace(r) {
			return sawSpace && (r == '(' || canStartAtom(r))
		}
		sawSpace = true
		i += w
	}
	return false
}

// skipJunk consumes a run of runes that cannot start an expression and
// records a single error for it. A ')' ends the run inside a list.
func (s *state) skipJunk(allowQuote, inList bool) {
	start := s.pos
	first, w := s.peek()
	s.pos += w
	for {
		r, w := s.peek()
		if w == 0 || isSpace(r) || r == '(' || canStartAtom(r) ||
			(allowQuote && r == '\'') || (inList && r == ')') {
			break
		}
		s.pos += w
	}
	s.errs = append(s.errs, unexpected(start, s.pos, first, expected(allowQuote, inList)))
}

// skipBalanced skips to just past the ')' matching an already consumed '('
func (s *state) skipBalanced() {
	depth := 1
	for s.pos < len(s.src) && depth > 0 {
		switch s.src[s.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}
		s.pos++
	}
}

func expected(allowQuote, inList bool) []string {
	out := []string{"("}
	if allowQuote {
		out = append(out, "'", quoteKeyword)
	}
	out = append(out, "symbol", "string", "#t", "#f", "number")
	if inList {
		out = append(out, ")")
	}
	return out
}
