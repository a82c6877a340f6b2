// File: doc.go
// Title: S-expression Parser
// Description: Recursive descent parser with local error recovery.
// Created: 2026-10-17

/*
Package parser turns microscheme source text into syntax trees.

Grammar, tried in order at every expression site:

	sexpr   := list | quote | atom
	list    := '(' (sexpr ws*)* ')'
	quote   := ( "'" | "quote" ws+ ) sexpr_noquote
	atom    := symbol | string | bool | number
	symbol  := letter+
	string  := '"' (any rune except '"')* '"'
	bool    := '#' ('t' | 'f')
	number  := digit+ '.' digit+ | digit+

Inside a quoted form quote sugar is not recognised again, so '(a '(b)) reports
the inner quote as unexpected and keeps (a (b)).

Parsing never fails as a whole. Each mismatch is recorded as a SyntaxError
and the offending input is skipped; an unclosed list is returned as far as it
got. Parse returns the first form of the input, ParseAll every top-level form.
*/
package parser
