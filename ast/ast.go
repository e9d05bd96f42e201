// Package ast defines the syntax tree produced by the docscript parser.
package ast

import "github.com/dhamidi/docscript/lexer"

// Node is implemented by every syntax tree node. The set of implementations
// is closed; consumers switch over the concrete types.
type Node interface {
	node()
}

// Document is the root of a parsed file: the top-level blocks in source
// order.
type Document struct {
	Blocks []Node
}

// Param is one key:value pair of a named-parameter call.
type Param struct {
	Key   string
	Value Node
}

// FunctionWithNamedParams is a call written as .name(key: value, ...).
// Params keeps keys in the order they first appeared.
type FunctionWithNamedParams struct {
	Name   string
	Params []Param
	Line   int
}

func (*FunctionWithNamedParams) node() {}

// Set assigns value to key. A key that is already present keeps its
// position and gets the new value.
func (f *FunctionWithNamedParams) Set(key string, value Node) {
	for i := range f.Params {
		if f.Params[i].Key == key {
			f.Params[i].Value = value
			return
		}
	}
	f.Params = append(f.Params, Param{Key: key, Value: value})
}

// Get returns the value stored under key.
func (f *FunctionWithNamedParams) Get(key string) (Node, bool) {
	for _, p := range f.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// FunctionWithPositionalArgs is a call written as .name(a, b) or .name a.
type FunctionWithPositionalArgs struct {
	Name string
	Args []Node
	Line int
}

func (*FunctionWithPositionalArgs) node() {}

// Paragraph is a block of running text.
type Paragraph struct {
	Children []Node
}

func (*Paragraph) node() {}

// Content is a parenthesized group of inline nodes.
//
// The parser assembles Content back to front with PushFront. Until the node
// has been normalized, Children holds the children in reverse source order.
type Content struct {
	Children []Node
	reversed bool
}

func (*Content) node() {}

// PushFront adds n in front of the children recognized so far.
func (c *Content) PushFront(n Node) {
	if len(c.Children) > 0 && !c.reversed {
		reverse(c.Children)
	}
	c.Children = append(c.Children, n)
	c.reversed = true
}

// Reversed reports whether Children is still in back-to-front order.
func (c *Content) Reversed() bool {
	return c.reversed
}

// Ordered returns the children in source order without modifying c.
func (c *Content) Ordered() []Node {
	return ordered(c.Children, c.reversed)
}

// Vector is a bracketed, comma separated list. Like Content it is built back
// to front.
type Vector struct {
	Elements []Node
	reversed bool
}

func (*Vector) node() {}

// PushFront adds n in front of the elements recognized so far.
func (v *Vector) PushFront(n Node) {
	if len(v.Elements) > 0 && !v.reversed {
		reverse(v.Elements)
	}
	v.Elements = append(v.Elements, n)
	v.reversed = true
}

// Reversed reports whether Elements is still in back-to-front order.
func (v *Vector) Reversed() bool {
	return v.reversed
}

// Ordered returns the elements in source order without modifying v.
func (v *Vector) Ordered() []Node {
	return ordered(v.Elements, v.reversed)
}

// Symbol is a leaf holding one lexical symbol.
type Symbol struct {
	Symbol lexer.Symbol
}

func (*Symbol) node() {}

// Literal is a double-quoted run of symbols, kept verbatim.
type Literal struct {
	Symbols []lexer.Symbol
}

func (*Literal) node() {}

// Empty stands in for something that failed to parse.
type Empty struct {
	Reason string
}

func (*Empty) node() {}

func reverse(nodes []Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func ordered(nodes []Node, reversed bool) []Node {
	if !reversed {
		return nodes
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}
