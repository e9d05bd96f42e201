package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/docscript/lexer"
	src "github.com/dhamidi/docscript/source"
	"golang.org/x/exp/ebnf"
)

func TestVerify(t *testing.T) {
	if err := Verify(); err != nil {
		for _, e := range Errors(err) {
			t.Error(e)
		}
	}
}

func TestTerminalsAreSymbolKinds(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	kinds := make(map[string]bool)
	for k := lexer.SymbolText; k <= lexer.SymbolEOF; k++ {
		kinds[k.String()] = true
	}
	for name, prod := range g {
		tok, ok := prod.Expr.(*ebnf.Token)
		if !ok {
			continue
		}
		if !kinds[tok.String] {
			t.Errorf("terminal %s = %q is not a symbol kind", name, tok.String)
		}
	}
}

func symbols(input string) []lexer.Symbol {
	return lexer.Tokenize(src.String(input), nil)
}

func TestMatchDocument(t *testing.T) {
	accepted := []string{
		"",
		".h1(Title)",
		`.figure(source: img.png, caption: "A B")`,
		"see .b(bold) now, (really) [ok]",
		".h2 Intro\n\nHello world.",
		"x .list([1, two words, @2024-01-15])",
		".figure(\nsource: a)",
		"x .f(a (b, c) d, e)",
		"x .set lang: en",
		"'quoted' text",
	}
	for _, in := range accepted {
		if err := MatchDocument(symbols(in)); err != nil {
			t.Errorf("MatchDocument(%q) error = %v", in, err)
		}
	}
}

func TestMatchDocumentRejects(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`x "unterminated`, "END_OF_INPUT"},
		{`x "a .b c"`, "TOKEN"},
		{"x \"a\n\nb\"", "PARAGRAPH_BREAK"},
	}
	for _, tt := range tests {
		err := MatchDocument(symbols(tt.input))
		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("MatchDocument(%q) error = %v, want *MismatchError", tt.input, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("MatchDocument(%q) error = %v, want it to mention %s", tt.input, err, tt.want)
		}
	}
}

func TestMatchUnknownStart(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := Match(g, "Nope", nil); err == nil {
		t.Error("Match() with unknown start error = nil")
	}
}

func TestSourceIsCopy(t *testing.T) {
	src := Source()
	src[0] = 'X'
	if Source()[0] == 'X' {
		t.Error("Source() returned the embedded slice")
	}
}
