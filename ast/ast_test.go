package ast

import (
	"reflect"
	"testing"

	"github.com/dhamidi/docscript/lexer"
)

func text(v string) *Symbol {
	return &Symbol{Symbol: lexer.Symbol{Kind: lexer.SymbolText, Value: v}}
}

func values(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		if s, ok := n.(*Symbol); ok {
			out = append(out, s.Symbol.Value)
		}
	}
	return out
}

func TestContentPushFront(t *testing.T) {
	c := &Content{}
	for _, v := range []string{"c", "b", "a"} {
		c.PushFront(text(v))
	}

	if !c.Reversed() {
		t.Fatal("Reversed() = false after PushFront")
	}
	if got, want := values(c.Ordered()), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered() = %v, want %v", got, want)
	}
	if got, want := values(c.Children), []string{"c", "b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Children = %v, want %v (Ordered must not mutate)", got, want)
	}
}

func TestPushFrontOnForwardList(t *testing.T) {
	v := &Vector{Elements: []Node{text("b"), text("c")}}
	v.PushFront(text("a"))
	if got, want := values(v.Ordered()), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ordered() = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	inner := &Vector{}
	inner.PushFront(text("y"))
	inner.PushFront(text("x"))

	outer := &Content{}
	outer.PushFront(inner)
	outer.PushFront(text("b"))
	outer.PushFront(text("a"))

	doc := &Document{Blocks: []Node{
		&FunctionWithPositionalArgs{Name: "f", Args: []Node{outer}},
	}}

	Normalize(doc)
	if outer.Reversed() || inner.Reversed() {
		t.Fatal("Normalize left a node marked reversed")
	}
	if got, want := values(outer.Children), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("outer.Children = %v, want %v", got, want)
	}
	if got, want := values(inner.Elements), []string{"x", "y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("inner.Elements = %v, want %v", got, want)
	}

	before := Format(doc)
	Normalize(doc)
	if after := Format(doc); after != before {
		t.Errorf("second Normalize changed the tree:\n%s\nwant\n%s", after, before)
	}
}

func TestNamedParamsSet(t *testing.T) {
	f := &FunctionWithNamedParams{Name: "figure"}
	f.Set("source", text("a.png"))
	f.Set("caption", text("A"))
	f.Set("source", text("b.png"))

	var keys []string
	for _, p := range f.Params {
		keys = append(keys, p.Key)
	}
	if want := []string{"source", "caption"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	v, ok := f.Get("source")
	if !ok {
		t.Fatal("Get(source) not found")
	}
	if got := v.(*Symbol).Symbol.Value; got != "b.png" {
		t.Errorf("Get(source) = %q, want %q", got, "b.png")
	}
	if _, ok := f.Get("width"); ok {
		t.Error("Get(width) found a value")
	}
}

func TestFormat(t *testing.T) {
	doc := &Document{Blocks: []Node{
		&FunctionWithNamedParams{Name: "figure", Params: []Param{
			{Key: "source", Value: text("img.png")},
			{Key: "caption", Value: &Literal{Symbols: []lexer.Symbol{
				{Kind: lexer.SymbolText, Value: "A"},
				{Kind: lexer.SymbolText, Value: "B"},
			}}},
		}},
		&Paragraph{Children: []Node{text("hi"), &Empty{Reason: "bad value"}}},
	}}

	want := `named figure
  source:
    symbol TEXT("img.png")
  caption:
    literal [TEXT("A") TEXT("B")]
paragraph
  symbol TEXT("hi")
  empty (bad value)
`
	if got := Format(doc); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	doc := &Paragraph{Children: []Node{
		&FunctionWithPositionalArgs{Name: "b", Args: []Node{text("inner")}},
		text("outer"),
	}}

	var seen []string
	Inspect(doc, func(n Node) bool {
		switch n := n.(type) {
		case *Symbol:
			seen = append(seen, n.Symbol.Value)
		case *FunctionWithPositionalArgs:
			return false
		}
		return true
	})
	if want := []string{"outer"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("visited = %v, want %v", seen, want)
	}
}
