package ast

// Inspect traverses the tree rooted at n depth-first, calling f for every
// node before its children. Children are visited in the order they are
// stored. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct children of n as stored.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *FunctionWithNamedParams:
		out := make([]Node, len(n.Params))
		for i, p := range n.Params {
			out[i] = p.Value
		}
		return out
	case *FunctionWithPositionalArgs:
		return n.Args
	case *Paragraph:
		return n.Children
	case *Content:
		return n.Children
	case *Vector:
		return n.Elements
	case *Symbol, *Literal, *Empty:
		return nil
	}
	return nil
}

// Normalize puts every Content and Vector under doc into source order. Each
// node is reversed at most once; calling Normalize again is a no-op.
func Normalize(doc *Document) {
	for _, b := range doc.Blocks {
		Inspect(b, func(n Node) bool {
			switch n := n.(type) {
			case *Content:
				if n.reversed {
					reverse(n.Children)
					n.reversed = false
				}
			case *Vector:
				if n.reversed {
					reverse(n.Elements)
					n.reversed = false
				}
			}
			return true
		})
	}
}
