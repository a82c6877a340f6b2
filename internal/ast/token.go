// File: token.go
// Title: Tokens
// Description: Leaf values of the syntax tree.
// Created: 2026-10-17

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind identifies which field of a Token is meaningful
type TokenKind int

const (
	KindInteger TokenKind = iota
	KindFloat
	KindSymbol
	KindString
	KindBool
)

// String returns the variant name
func (k TokenKind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindSymbol:
		return "Symbol"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Token is a leaf value. Only the field selected by Kind is set; Text holds
// symbol names and string literals (the latter including their quotes).
type Token struct {
	Kind  TokenKind
	Int   int64
	Float float64
	Text  string
	Bool  bool
}

// IntegerToken creates an Integer token
func IntegerToken(v int64) Token { return Token{Kind: KindInteger, Int: v} }

// FloatToken creates a Float token
func FloatToken(v float64) Token { return Token{Kind: KindFloat, Float: v} }

// SymbolToken creates a Symbol token
func SymbolToken(name string) Token { return Token{Kind: KindSymbol, Text: name} }

// StringToken creates a String token. lit is stored verbatim.
func StringToken(lit string) Token { return Token{Kind: KindString, Text: lit} }

// BoolToken creates a Bool token
func BoolToken(v bool) Token { return Token{Kind: KindBool, Bool: v} }

// IsSymbol reports whether the token is a symbol
func (t Token) IsSymbol() bool { return t.Kind == KindSymbol }

// Equal compares kind and the selected value
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindInteger:
		return t.Int == o.Int
	case KindFloat:
		return t.Float == o.Float
	case KindBool:
		return t.Bool == o.Bool
	default:
		return t.Text == o.Text
	}
}

// String returns the token as it would appear in source
func (t Token) String() string {
	switch t.Kind {
	case KindInteger:
		return strconv.FormatInt(t.Int, 10)
	case KindFloat:
		return formatFloat(t.Float)
	case KindBool:
		if t.Bool {
			return "#t"
		}
		return "#f"
	default:
		return t.Text
	}
}

// Dump returns the debug form, e.g. Integer(42) or Symbol("a")
func (t Token) Dump() string {
	switch t.Kind {
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case KindFloat:
		return "Float(" + formatFloat(t.Float) + ")"
	case KindBool:
		return fmt.Sprintf("Bool(%t)", t.Bool)
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
}

// formatFloat always keeps a decimal point so the text reads back as a float
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}
