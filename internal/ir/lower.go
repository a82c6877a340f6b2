// File: lower.go
// Title: Lowering
// Description: Tree to instruction stream.
// Created: 2026-10-17

package ir

import (
	"github.com/msto63/microscheme/internal/ast"
)

// Lower flattens tree into instructions followed by exactly one Stop. A nil
// tree lowers to just Stop.
func Lower(tree ast.Expr) []Instruction {
	l := &lowerer{}
	if tree != nil {
		tree.Accept(l)
	}
	return append(l.out, Stop())
}

// LowerProgram lowers each form in order and appends a single Stop
func LowerProgram(forms []ast.Expr) []Instruction {
	l := &lowerer{}
	for _, form := range forms {
		if form != nil {
			form.Accept(l)
		}
	}
	return append(l.out, Stop())
}

// lowerer implements ast.Visitor, appending to out
type lowerer struct {
	out []Instruction
}

func (l *lowerer) VisitAtom(atom *ast.Atom) interface{} {
	if atom.Token.IsSymbol() {
		l.out = append(l.out, LoadGlobal(atom.Token.Text))
	} else {
		l.out = append(l.out, LoadConstant(atom))
	}
	return nil
}

func (l *lowerer) VisitList(list *ast.List) interface{} {
	for _, item := range list.Items {
		item.Accept(l)
	}
	return nil
}

// VisitQuote loads the quoted tree as data without descending into it
func (l *lowerer) VisitQuote(quote *ast.Quote) interface{} {
	l.out = append(l.out, LoadConstant(quote.Expr))
	return nil
}
