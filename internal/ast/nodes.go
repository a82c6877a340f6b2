// File: nodes.go
// Title: Syntax Tree Nodes
// Description: Atom, List and Quote, the three variants of Expr.
// Created: 2026-10-17

package ast

import (
	"strings"
)

// Expr is a node of the syntax tree: *Atom, *List or *Quote
type Expr interface {
	// String returns the node as S-expression source
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	exprNode()
}

// Atom is a leaf holding one token
type Atom struct {
	Token Token
}

// List is an ordered, possibly empty sequence of expressions
type List struct {
	Items []Expr
}

// Quote marks its single child as literal data
type Quote struct {
	Expr Expr
}

func (*Atom) exprNode()  {}
func (*List) exprNode()  {}
func (*Quote) exprNode() {}

// NewAtom wraps a token
func NewAtom(t Token) *Atom { return &Atom{Token: t} }

// NewInteger creates an integer atom
func NewInteger(v int64) *Atom { return NewAtom(IntegerToken(v)) }

// NewFloat creates a float atom
func NewFloat(v float64) *Atom { return NewAtom(FloatToken(v)) }

// NewSymbol creates a symbol atom
func NewSymbol(name string) *Atom { return NewAtom(SymbolToken(name)) }

// NewString creates a string atom; lit is the literal including its quotes
func NewString(lit string) *Atom { return NewAtom(StringToken(lit)) }

// NewBool creates a boolean atom
func NewBool(v bool) *Atom { return NewAtom(BoolToken(v)) }

// NewList creates a list. A nil argument list yields an empty, non-nil list.
func NewList(items ...Expr) *List {
	if items == nil {
		items = []Expr{}
	}
	return &List{Items: items}
}

// NewQuote wraps inner
func NewQuote(inner Expr) *Quote { return &Quote{Expr: inner} }

func (a *Atom) String() string { return a.Token.String() }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (q *Quote) String() string { return "'" + q.Expr.String() }

func (a *Atom) Accept(v Visitor) interface{}  { return v.VisitAtom(a) }
func (l *List) Accept(v Visitor) interface{}  { return v.VisitList(l) }
func (q *Quote) Accept(v Visitor) interface{} { return v.VisitQuote(q) }

// Equal reports whether two trees are structurally identical
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Atom:
		y, ok := b.(*Atom)
		return ok && x.Token.Equal(y.Token)
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Quote:
		y, ok := b.(*Quote)
		return ok && Equal(x.Expr, y.Expr)
	case nil:
		return b == nil
	default:
		return false
	}
}

// Dump renders the debug form used by the compiler report,
// e.g. List([Atom(Integer(42))])
func Dump(e Expr) string {
	var b strings.Builder
	dump(&b, e)
	return b.String()
}

func dump(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Atom:
		b.WriteString("Atom(")
		b.WriteString(n.Token.Dump())
		b.WriteByte(')')
	case *List:
		b.WriteString("List([")
		for i, item := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			dump(b, item)
		}
		b.WriteString("])")
	case *Quote:
		b.WriteString("Quote(")
		dump(b, n.Expr)
		b.WriteByte(')')
	default:
		b.WriteString("<nil>")
	}
}
