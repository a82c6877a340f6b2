// File: doc.go
// Title: S-expression Syntax Tree
// Description: Value types produced by the parser: tokens, atoms, lists and
//              quoted forms, with structural equality, printers and a visitor.
// Created: 2026-10-17

/*
Package ast defines the syntax tree for microscheme source.

A tree is built bottom-up by the parser and never mutated afterwards, so
sub-trees may be shared freely (a Quote's child is handed to the IR as-is).

	tree := ast.NewList(ast.NewSymbol("a"), ast.NewQuote(ast.NewInteger(1)))
	fmt.Println(tree)          // (a '1)
	fmt.Println(ast.Dump(tree)) // List([Atom(Symbol("a")), Quote(Atom(Integer(1)))])
*/
package ast
