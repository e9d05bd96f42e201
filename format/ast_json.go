package format

import (
	"github.com/dhamidi/docscript/ast"
)

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Name     string         `json:"name,omitempty"`
	Line     int            `json:"line,omitempty"`
	Symbol   *jsonSymbol    `json:"symbol,omitempty"`
	Symbols  []jsonSymbol   `json:"symbols,omitempty"`
	Params   []astJSONParam `json:"params,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}

type astJSONParam struct {
	Key   string       `json:"key"`
	Value *astJSONNode `json:"value"`
}

func documentToJSON(doc *ast.Document) *astJSONNode {
	root := &astJSONNode{Kind: "document"}
	if doc == nil {
		return root
	}
	for _, b := range doc.Blocks {
		root.Children = append(root.Children, nodeToJSON(b))
	}
	return root
}

func nodeToJSON(n ast.Node) *astJSONNode {
	switch n := n.(type) {
	case *ast.FunctionWithNamedParams:
		jn := &astJSONNode{Kind: "named", Name: n.Name, Line: n.Line}
		for _, p := range n.Params {
			jn.Params = append(jn.Params, astJSONParam{Key: p.Key, Value: nodeToJSON(p.Value)})
		}
		return jn
	case *ast.FunctionWithPositionalArgs:
		return &astJSONNode{Kind: "positional", Name: n.Name, Line: n.Line, Children: nodesToJSON(n.Args)}
	case *ast.Paragraph:
		return &astJSONNode{Kind: "paragraph", Children: nodesToJSON(n.Children)}
	case *ast.Content:
		return &astJSONNode{Kind: "content", Children: nodesToJSON(n.Ordered())}
	case *ast.Vector:
		return &astJSONNode{Kind: "vector", Children: nodesToJSON(n.Ordered())}
	case *ast.Symbol:
		s := n.Symbol
		return &astJSONNode{Kind: "symbol", Symbol: &jsonSymbol{Line: s.Line, Kind: s.Kind.String(), Value: s.Value}}
	case *ast.Literal:
		jn := &astJSONNode{Kind: "literal"}
		for _, s := range n.Symbols {
			jn.Symbols = append(jn.Symbols, jsonSymbol{Line: s.Line, Kind: s.Kind.String(), Value: s.Value})
		}
		return jn
	case *ast.Empty:
		return &astJSONNode{Kind: "empty", Reason: n.Reason}
	}
	return &astJSONNode{Kind: "empty"}
}

func nodesToJSON(nodes []ast.Node) []*astJSONNode {
	var out []*astJSONNode
	for _, n := range nodes {
		out = append(out, nodeToJSON(n))
	}
	return out
}
