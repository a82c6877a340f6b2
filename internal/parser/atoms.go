// File: atoms.go
// Title: Lexical Atoms
// Description: Symbols, strings, booleans, integers and floats.
// Created: 2026-10-17

package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/msto63/microscheme/internal/ast"
)

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpace(r rune) bool { return unicode.IsSpace(r) }

func isSymbolRune(r rune) bool { return unicode.IsLetter(r) }

func canStartAtom(r rune) bool {
	return isSymbolRune(r) || r == '"' || r == '#' || isDigit(r)
}

// parseAtom tries symbol, string, bool and number in that order. The caller
// guarantees canStartAtom for the current rune.
func (s *state) parseAtom() (ast.Expr, bool) {
	r, _ := s.peek()
	switch {
	case isSymbolRune(r):
		return s.parseSymbol(), true
	case r == '"':
		return s.parseString()
	case r == '#':
		return s.parseBool()
	default:
		return s.parseNumber()
	}
}

func (s *state) parseSymbol() ast.Expr {
	start := s.pos
	for {
		r, w := s.peek()
		if w == 0 || !isSymbolRune(r) {
			break
		}
		s.pos += w
	}
	return ast.NewSymbol(s.src[start:s.pos])
}

// parseString keeps the delimiting quotes in the token text
func (s *state) parseString() (ast.Expr, bool) {
	start := s.pos
	closing := strings.IndexByte(s.src[start+1:], '"')
	if closing < 0 {
		s.pos = len(s.src)
		s.errs = append(s.errs, custom(start, s.pos, "parsing strings", "unterminated string literal"))
		return nil, false
	}
	s.pos = start + 1 + closing + 1
	return ast.NewString(s.src[start:s.pos]), true
}

func (s *state) parseBool() (ast.Expr, bool) {
	s.pos++ // '#'
	r, w := s.peek()
	switch {
	case w == 0:
		err := unexpectedEOF(s.pos, []string{"t", "f"})
		err.Label = "boolean"
		s.errs = append(s.errs, err)
		return nil, false
	case r == 't' || r == 'f':
		s.pos += w
		return ast.NewBool(r == 't'), true
	}

	err := unexpected(s.pos, s.pos+w, r, []string{"t", "f"})
	err.Label = "boolean"
	s.errs = append(s.errs, err)
	if !isSpace(r) && r != '(' && r != ')' {
		s.pos += w
	}
	return nil, false
}

// parseNumber reads digit+ ('.' digit+)?. A dot without following digits
// ends the integer and is left for the caller.
func (s *state) parseNumber() (ast.Expr, bool) {
	start := s.pos
	s.skipDigits()
	intEnd := s.pos

	if s.pos+1 < len(s.src) && s.src[s.pos] == '.' && isDigit(rune(s.src[s.pos+1])) {
		s.pos++
		s.skipDigits()
		f, err := strconv.ParseFloat(s.src[start:s.pos], 64)
		if err != nil {
			s.errs = append(s.errs, custom(start, s.pos, "number", "float literal out of range"))
			return nil, false
		}
		return ast.NewFloat(f), true
	}

	n, err := strconv.ParseInt(s.src[start:intEnd], 10, 64)
	if err != nil {
		s.errs = append(s.errs, custom(start, intEnd, "number", "integer literal out of range"))
		return nil, false
	}
	return ast.NewInteger(n), true
}

func (s *state) skipDigits() {
	for s.pos < len(s.src) && isDigit(rune(s.src[s.pos])) {
		s.pos++
	}
}
