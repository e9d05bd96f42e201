package ast

import (
	"fmt"
	"strings"
)

// Format renders doc as an indented tree, one node per line, with children
// in source order. It is meant for debugging and tests.
func Format(doc *Document) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range doc.Blocks {
		formatNode(&sb, b, 0)
	}
	return sb.String()
}

// FormatNode renders a single subtree the way Format does.
func FormatNode(n Node) string {
	var sb strings.Builder
	formatNode(&sb, n, 0)
	return sb.String()
}

func formatNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *FunctionWithNamedParams:
		fmt.Fprintf(sb, "%snamed %s\n", indent, n.Name)
		for _, p := range n.Params {
			fmt.Fprintf(sb, "%s  %s:\n", indent, p.Key)
			formatNode(sb, p.Value, depth+2)
		}
	case *FunctionWithPositionalArgs:
		fmt.Fprintf(sb, "%spositional %s\n", indent, n.Name)
		for _, a := range n.Args {
			formatNode(sb, a, depth+1)
		}
	case *Paragraph:
		fmt.Fprintf(sb, "%sparagraph\n", indent)
		for _, c := range n.Children {
			formatNode(sb, c, depth+1)
		}
	case *Content:
		fmt.Fprintf(sb, "%scontent\n", indent)
		for _, c := range n.Ordered() {
			formatNode(sb, c, depth+1)
		}
	case *Vector:
		fmt.Fprintf(sb, "%svector\n", indent)
		for _, e := range n.Ordered() {
			formatNode(sb, e, depth+1)
		}
	case *Symbol:
		fmt.Fprintf(sb, "%ssymbol %s\n", indent, n.Symbol)
	case *Literal:
		parts := make([]string, len(n.Symbols))
		for i, s := range n.Symbols {
			parts[i] = s.String()
		}
		fmt.Fprintf(sb, "%sliteral [%s]\n", indent, strings.Join(parts, " "))
	case *Empty:
		if n.Reason == "" {
			fmt.Fprintf(sb, "%sempty\n", indent)
		} else {
			fmt.Fprintf(sb, "%sempty (%s)\n", indent, n.Reason)
		}
	case nil:
		fmt.Fprintf(sb, "%s<nil>\n", indent)
	}
}
