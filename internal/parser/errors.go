// File: errors.go
// Title: Syntax Errors
// Description: Diagnostics collected while parsing.
// Created: 2026-10-17

package parser

import (
	"fmt"
	"sort"
	"strconv"
	"unicode"
)

// Span is a half-open byte range [Start, End) into the source
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Reason classifies a SyntaxError
type Reason int

const (
	// ReasonUnexpected means an unexpected rune or the end of input was found
	ReasonUnexpected Reason = iota

	// ReasonCustom carries a message from a lexical rule
	ReasonCustom
)

// String returns the reason name
func (r Reason) String() string {
	if r == ReasonCustom {
		return "custom"
	}
	return "unexpected"
}

// SyntaxError is one parse diagnostic
type SyntaxError struct {
	Span   Span
	Reason Reason

	// Found is the offending rune; meaningless when EOF is set
	Found rune
	EOF   bool

	// Expected lists what would have been accepted at Span.Start
	Expected []string

	// Label names the rule that produced the error, if any
	Label string

	// Msg is the text of a ReasonCustom error
	Msg string
}

// Message returns the user facing text: "Unexpected token X",
// "Unexpected EOF" or the custom message
func (e *SyntaxError) Message() string {
	if e.Reason == ReasonCustom {
		return e.Msg
	}
	if e.EOF {
		return "Unexpected EOF"
	}
	return "Unexpected token " + displayRune(e.Found)
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d..%d: %s", e.Span.Start, e.Span.End, e.Message())
}

func displayRune(r rune) string {
	if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
		return string(r)
	}
	return strconv.QuoteRune(r)
}

func unexpected(start, end int, found rune, expected []string) *SyntaxError {
	return &SyntaxError{
		Span:     Span{Start: start, End: end},
		Reason:   ReasonUnexpected,
		Found:    found,
		Expected: expected,
	}
}

func unexpectedEOF(at int, expected []string) *SyntaxError {
	return &SyntaxError{
		Span:     Span{Start: at, End: at},
		Reason:   ReasonUnexpected,
		EOF:      true,
		Expected: expected,
	}
}

func custom(start, end int, label, msg string) *SyntaxError {
	return &SyntaxError{
		Span:   Span{Start: start, End: end},
		Reason: ReasonCustom,
		Label:  label,
		Msg:    msg,
	}
}

// sortErrors orders errors by start offset, keeping discovery order for ties
func sortErrors(errs []*SyntaxError) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Span.Start < errs[j].Span.Start
	})
}
