// File: visitor.go
// Title: Tree Traversal
// Description: Visitor interface plus Walk and Count helpers.
// Created: 2026-10-17

package ast

// Visitor receives one call per node kind
type Visitor interface {
	VisitAtom(atom *Atom) interface{}
	VisitList(list *List) interface{}
	VisitQuote(quote *Quote) interface{}
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *List:
		for _, item := range n.Items {
			Walk(item, fn)
		}
	case *Quote:
		Walk(n.Expr, fn)
	}
}

// Stats counts nodes by kind
type Stats struct {
	Atoms  int
	Lists  int
	Quotes int
	Depth  int
}

// Count returns node counts for the whole tree, quoted data included
func Count(e Expr) Stats {
	var s Stats
	count(e, 1, &s)
	return s
}

func count(e Expr, depth int, s *Stats) {
	if e == nil {
		return
	}
	if depth > s.Depth {
		s.Depth = depth
	}
	switch n := e.(type) {
	case *Atom:
		s.Atoms++
	case *List:
		s.Lists++
		for _, item := range n.Items {
			count(item, depth+1, s)
		}
	case *Quote:
		s.Quotes++
		count(n.Expr, depth+1, s)
	}
}
