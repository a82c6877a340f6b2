// File: json.go
// Title: JSON Form
// Description: Tagged JSON representation of a tree, used by the compile
//              service responses.
// Created: 2026-10-17

package ast

import (
	"fmt"
)

// Node is the JSON form of an Expr
type Node struct {
	Kind  string      `json:"kind"`
	Value interface{} `json:"value,omitempty"`
	Items []*Node     `json:"items,omitempty"`
	Expr  *Node       `json:"expr,omitempty"`
}

// Encode converts e to its JSON form. Atoms carry their token kind in
// lower case ("integer", "symbol", ...).
func Encode(e Expr) *Node {
	switch n := e.(type) {
	case *Atom:
		node := &Node{}
		switch n.Token.Kind {
		case KindInteger:
			node.Kind, node.Value = "integer", n.Token.Int
		case KindFloat:
			node.Kind, node.Value = "float", n.Token.Float
		case KindSymbol:
			node.Kind, node.Value = "symbol", n.Token.Text
		case KindString:
			node.Kind, node.Value = "string", n.Token.Text
		case KindBool:
			node.Kind, node.Value = "bool", n.Token.Bool
		}
		return node
	case *List:
		node := &Node{Kind: "list", Items: make([]*Node, 0, len(n.Items))}
		for _, item := range n.Items {
			node.Items = append(node.Items, Encode(item))
		}
		return node
	case *Quote:
		return &Node{Kind: "quote", Expr: Encode(n.Expr)}
	default:
		return nil
	}
}

// Decode converts a JSON form back to a tree. Numbers decoded by
// encoding/json arrive as float64 and are accepted for integer nodes.
func Decode(n *Node) (Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("nil node")
	}
	switch n.Kind {
	case "integer":
		switch v := n.Value.(type) {
		case int64:
			return NewInteger(v), nil
		case float64:
			return NewInteger(int64(v)), nil
		}
	case "float":
		if v, ok := n.Value.(float64); ok {
			return NewFloat(v), nil
		}
	case "symbol", "string":
		if v, ok := n.Value.(string); ok {
			if n.Kind == "symbol" {
				return NewSymbol(v), nil
			}
			return NewString(v), nil
		}
	case "bool":
		if v, ok := n.Value.(bool); ok {
			return NewBool(v), nil
		}
	case "list":
		items := make([]Expr, 0, len(n.Items))
		for _, item := range n.Items {
			e, err := Decode(item)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
		return NewList(items...), nil
	case "quote":
		inner, err := Decode(n.Expr)
		if err != nil {
			return nil, err
		}
		return NewQuote(inner), nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
	return nil, fmt.Errorf("invalid value %v for %s node", n.Value, n.Kind)
}
