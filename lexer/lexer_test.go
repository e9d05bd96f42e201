package lexer

import (
	"reflect"
	"testing"

	"github.com/dhamidi/docscript/diag"
)

// runs encodes s the way the sanitizer does: consecutive identical runes
// become one token with a count.
func runs(s string) []Token {
	var out []Token
	for _, r := range s {
		if n := len(out); n > 0 && out[n-1].Rune == r {
			out[n-1].Count++
			continue
		}
		out = append(out, Token{Rune: r, Count: 1, Newline: r == '\n'})
	}
	return append(out, Token{EOF: true})
}

func kinds(symbols []Symbol) []SymbolKind {
	out := make([]SymbolKind, len(symbols))
	for i, s := range symbols {
		out[i] = s.Kind
	}
	return out
}

func strip(symbols []Symbol) []Symbol {
	out := make([]Symbol, len(symbols))
	for i, s := range symbols {
		out[i] = Symbol{Kind: s.Kind, Value: s.Value}
	}
	return out
}

func tokenize(t *testing.T, input string) []Symbol {
	t.Helper()
	return strip(Tokenize(runs(input), diag.NewReporter("test.ds", nil)))
}

var (
	pb  = Symbol{Kind: SymbolParagraphBreak}
	eof = Symbol{Kind: SymbolEOF}
)

func text(v string) Symbol   { return Symbol{Kind: SymbolText, Value: v} }
func token(v string) Symbol  { return Symbol{Kind: SymbolToken, Value: v} }
func number(v string) Symbol { return Symbol{Kind: SymbolNumber, Value: v} }
func of(k SymbolKind) Symbol { return Symbol{Kind: k} }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Symbol
	}{
		{
			name:  "directive with argument",
			input: ".h1(Title)",
			want:  []Symbol{token("H1"), of(SymbolOpen), text("Title"), of(SymbolClose), eof},
		},
		{
			name:  "escaped dots",
			input: "......",
			want:  []Symbol{pb, text("..."), eof},
		},
		{
			name:  "named parameters",
			input: `.figure(source: img.png, caption: "A B")`,
			want: []Symbol{
				token("FIGURE"), of(SymbolOpen),
				text("source"), of(SymbolKey), text("img.png"), of(SymbolSeparator),
				text("caption"), of(SymbolKey),
				of(SymbolDoubleQuote), text("A"), text("B"), of(SymbolDoubleQuote),
				of(SymbolClose), eof,
			},
		},
		{
			name:  "directive inside text",
			input: "see .b(bold) now",
			want:  []Symbol{pb, text("see"), token("B"), of(SymbolOpen), text("bold"), of(SymbolClose), text("now"), eof},
		},
		{
			name:  "directive at end of input",
			input: ".toc",
			want:  []Symbol{token("TOC"), eof},
		},
		{
			name:  "number with decimal point",
			input: "pi 3.14 x",
			want:  []Symbol{pb, text("pi"), number("3.14"), text("x"), eof},
		},
		{
			name:  "number ending a sentence",
			input: "costs 12.\n",
			want:  []Symbol{pb, text("costs"), number("12"), text("."), eof},
		},
		{
			name:  "version number",
			input: "release 12.3.4 is out",
			want:  []Symbol{pb, text("release"), number("12.3.4"), text("is"), text("out"), eof},
		},
		{
			name:  "address keeps every dot",
			input: "192.168.1.1",
			want:  []Symbol{number("192.168.1.1"), eof},
		},
		{
			name:  "dotted number ending a sentence",
			input: "see 1.2.3.",
			want:  []Symbol{pb, text("see"), number("1.2.3"), text("."), eof},
		},
		{
			name:  "number before a space ending a sentence",
			input: "chapter 3. Next",
			want:  []Symbol{pb, text("chapter"), number("3"), text("."), text("Next"), eof},
		},
		{
			name:  "dot between number and word",
			input: "3.x",
			want:  []Symbol{number("3"), text("."), text("x"), eof},
		},
		{
			name:  "date ending a sentence",
			input: "on @2024-01-01.",
			want:  []Symbol{pb, text("on"), {Kind: SymbolDatetime, Value: "2024-01-01T00:00:00"}, text("."), eof},
		},
		{
			name:  "timestamp ending a sentence",
			input: "at @2020-01-01T12:30:00Z.\n",
			want:  []Symbol{pb, text("at"), {Kind: SymbolDatetime, Value: "2020-01-01T12:30:00Z"}, text("."), eof},
		},
		{
			name:  "bare date",
			input: "@2024-01-15 x",
			want:  []Symbol{{Kind: SymbolDatetime, Value: "2024-01-15T00:00:00"}, text("x"), eof},
		},
		{
			name:  "utc timestamp",
			input: "@2020-01-01T12:30:00Z",
			want:  []Symbol{{Kind: SymbolDatetime, Value: "2020-01-01T12:30:00Z"}, eof},
		},
		{
			name:  "timestamp with offset",
			input: "@2024-01-15T10:00:00+02:00",
			want:  []Symbol{{Kind: SymbolDatetime, Value: "2024-01-15T10:00:00+02:00"}, eof},
		},
		{
			name:  "at sign that is not a date",
			input: "@home",
			want:  []Symbol{pb, text("@home"), eof},
		},
		{
			name:  "truncated date",
			input: "@2024-1x y",
			want:  []Symbol{pb, text("@2024-1x"), text("y"), eof},
		},
		{
			name:  "verbatim with doubled quote",
			input: "'it''s'",
			want:  []Symbol{{Kind: SymbolVerbatim, Value: "it's"}, eof},
		},
		{
			name:  "pair of single quotes",
			input: "''",
			want:  []Symbol{{Kind: SymbolSingleQuote, Value: "'"}, eof},
		},
		{
			name:  "dot space",
			input: ". x",
			want:  []Symbol{pb, text("\u00a0"), text("x"), eof},
		},
		{
			name:  "dot tab",
			input: ".\tx",
			want:  []Symbol{pb, text("\u2192"), text("x"), eof},
		},
		{
			name:  "escaped parenthesis",
			input: ".(x",
			want:  []Symbol{pb, text("(x"), eof},
		},
		{
			name:  "dot after close",
			input: "(a).",
			want:  []Symbol{of(SymbolOpen), text("a"), of(SymbolClose), text("."), eof},
		},
		{
			name:  "dot after quote",
			input: `"q".`,
			want:  []Symbol{of(SymbolDoubleQuote), text("q"), of(SymbolDoubleQuote), text("."), eof},
		},
		{
			name:  "line start label",
			input: "x\nsource: a",
			want:  []Symbol{pb, text("x"), {Kind: SymbolKey, Value: "source"}, text("a"), eof},
		},
		{
			name:  "line start word",
			input: "x\nHello there",
			want:  []Symbol{pb, text("x"), text("Hello"), text("there"), eof},
		},
		{
			name:  "paragraphs",
			input: "a\n\nb",
			want:  []Symbol{pb, text("a"), pb, text("b"), eof},
		},
		{
			name:  "vector",
			input: "[1, x]",
			want:  []Symbol{of(SymbolVectorOpen), number("1"), of(SymbolSeparator), text("x"), of(SymbolVectorClose), eof},
		},
		{
			name:  "empty input",
			input: "",
			want:  []Symbol{eof},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q)\n got %v\nwant %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeUnterminatedQuote(t *testing.T) {
	r := diag.NewReporter("test.ds", nil)
	got := strip(Tokenize(runs("'abc"), r))
	want := []Symbol{{Kind: SymbolVerbatim, Value: "abc"}, eof}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
	if r.Len() != 1 {
		t.Fatalf("diagnostics = %v, want one warning", r.Diagnostics())
	}
	if d := r.Diagnostics()[0]; d.Severity != diag.Warning || d.Line != 1 {
		t.Errorf("diagnostic = %+v, want warning on line 1", d)
	}
}

func TestTokenizeQuoteCrossingLine(t *testing.T) {
	r := diag.NewReporter("test.ds", nil)
	got := strip(Tokenize(runs("'ab\ncd"), r))
	want := []Symbol{{Kind: SymbolVerbatim, Value: "ab"}, text("cd"), eof}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
	if r.Len() != 1 {
		t.Errorf("diagnostics = %v, want one warning", r.Diagnostics())
	}
}

func TestTokenizeLineNumbers(t *testing.T) {
	got := Tokenize(runs("a\n\nb\nc"), nil)
	want := map[string]int{"a": 1, "b": 3, "c": 4}
	for _, s := range got {
		if s.Kind != SymbolText {
			continue
		}
		if s.Line != want[s.Value] {
			t.Errorf("line of %q = %d, want %d", s.Value, s.Line, want[s.Value])
		}
	}
}

func TestTokenizeDeduplicatesParagraphBreaks(t *testing.T) {
	tokens := []Token{
		{Rune: 'a', Count: 1},
		{Rune: '\n', Count: 2, Newline: true},
		{Rune: ' ', Count: 1},
		{Rune: '\n', Count: 3, Newline: true},
		{Rune: 'b', Count: 1},
		{EOF: true},
	}
	got := strip(Tokenize(tokens, nil))
	want := []Symbol{pb, text("a"), pb, text("b"), eof}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeWithoutEOFToken(t *testing.T) {
	got := strip(Tokenize([]Token{{Rune: 'x', Count: 1}}, nil))
	want := []Symbol{pb, text("x"), eof}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestPutAfterEOFIsIgnored(t *testing.T) {
	tz := NewTokenizer(nil)
	if !tz.Put(Token{EOF: true}, Token{}) {
		t.Fatal("Put(EOF) = false, want true")
	}
	if !tz.Put(Token{Rune: 'x', Count: 1}, Token{EOF: true}) {
		t.Error("Put after EOF = false, want true")
	}
	if got := kinds(tz.Symbols()); !reflect.DeepEqual(got, []SymbolKind{SymbolEOF}) {
		t.Errorf("Symbols() = %v, want [END_OF_INPUT]", got)
	}
}

func TestPutRequestsRedispatch(t *testing.T) {
	tz := NewTokenizer(nil)
	x := Token{Rune: 'x', Count: 1}
	if tz.Put(x, Token{}) {
		t.Fatal("Put('x') in Start = true, want false (re-dispatch into Text)")
	}
	if tz.State() != StateText {
		t.Fatalf("State() = %v, want Text", tz.State())
	}
	if !tz.Put(x, Token{}) {
		t.Fatal("second Put('x') = false, want true")
	}
	open := Token{Rune: '(', Count: 1}
	if tz.Put(open, x) {
		t.Error("Put('(') in Text = true, want false")
	}
	if got := kinds(tz.Symbols()); !reflect.DeepEqual(got, []SymbolKind{SymbolParagraphBreak, SymbolText}) {
		t.Errorf("Symbols() = %v", got)
	}
}

func TestStepTransitions(t *testing.T) {
	ch := func(r rune) Token { return Token{Rune: r, Count: 1} }
	nl := Token{Rune: '\n', Count: 1, Newline: true}

	tests := []struct {
		name    string
		m       machine
		tok     Token
		prev    Token
		state   State
		advance bool
		emit    []SymbolKind
	}{
		{"start drops space", idle(), ch(' '), Token{}, StateStart, true, nil},
		{"start dot", idle(), ch('.'), Token{}, StateDot, true, nil},
		{"start digit", idle(), ch('4'), Token{}, StateNumber, false, nil},
		{"start at", idle(), ch('@'), Token{}, StateDatetime, true, nil},
		{"start letter", idle(), ch('a'), Token{}, StateText, false, nil},
		{"start letter after newline", idle(), ch('a'), nl, StateToken, false, nil},
		{"start close", idle(), ch(')'), Token{}, StateDetect, true, []SymbolKind{SymbolClose}},
		{"start quote", idle(), ch('"'), Token{}, StateDetect, true, []SymbolKind{SymbolDoubleQuote}},
		{"start single quote", idle(), ch('\''), Token{}, StateQuote, true, nil},
		{"start paragraph", idle(), Token{Rune: '\n', Count: 2, Newline: true}, Token{}, StateStart, true, []SymbolKind{SymbolParagraphBreak}},
		{"dot letter", machine{state: StateDot}, ch('b'), Token{}, StateToken, false, nil},
		{"dot other", machine{state: StateDot}, ch('*'), Token{}, StateText, true, nil},
		{"token terminator", machine{state: StateToken, buf: []rune("B")}, ch('('), Token{}, StateStart, false, []SymbolKind{SymbolToken}},
		{"label colon", machine{state: StateToken, buf: []rune("key"), label: true}, ch(':'), Token{}, StateStart, true, []SymbolKind{SymbolKey}},
		{"label becomes text", machine{state: StateToken, buf: []rune("key"), label: true}, ch(' '), Token{}, StateText, false, nil},
		{"number second dot", machine{state: StateNumber, buf: []rune("1.2")}, ch('.'), Token{}, StateNumber, true, nil},
		{"number double dot", machine{state: StateNumber, buf: []rune("1.")}, ch('.'), Token{}, StateStart, false, []SymbolKind{SymbolNumber, SymbolText}},
		{"datetime then dot", machine{state: StateDatetime, buf: []rune("2024-01-01")}, ch('.'), Token{}, StateStart, true, []SymbolKind{SymbolDatetime, SymbolText}},
		{"detect non dot", machine{state: StateDetect}, ch('x'), Token{}, StateStart, false, nil},
		{"done ignores input", machine{state: StateDone}, ch('x'), Token{}, StateDone, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := step(tt.m, tt.tok, tt.prev)
			if tr.next.state != tt.state {
				t.Errorf("next state = %v, want %v", tr.next.state, tt.state)
			}
			if tr.advance != tt.advance {
				t.Errorf("advance = %v, want %v", tr.advance, tt.advance)
			}
			if got := kinds(tr.emit); len(got) != len(tt.emit) || (len(got) > 0 && !reflect.DeepEqual(got, tt.emit)) {
				t.Errorf("emit = %v, want %v", got, tt.emit)
			}
		})
	}
}

func checkStream(t *testing.T, symbols []Symbol) {
	t.Helper()
	eofs := 0
	for i, s := range symbols {
		if s.Kind == SymbolEOF {
			eofs++
		}
		if i > 0 && s.Kind == SymbolParagraphBreak && symbols[i-1].Kind == SymbolParagraphBreak {
			t.Errorf("consecutive PARAGRAPH_BREAK at %d", i)
		}
	}
	if eofs != 1 || symbols[len(symbols)-1].Kind != SymbolEOF {
		t.Errorf("stream %v does not end with exactly one END_OF_INPUT", symbols)
	}
}

var streamSeeds = []string{
	"", " ", "\n\n\n", ".", "..", "...", "'", "\"", "@", "@2024", "@2024-01-15T",
	".h1(Title)\n\nSome text .b(bold).\n\n\n",
	"1.2.3.4", "12.\n\n", "(((", ")))", "[a, [b, c]]",
	".figure(source: img.png, caption: \"A B\")",
	"key:\nvalue:x\n\n.x:", "'unterminated\n\n'again",
	"\t\t.\t.\t", "こんにちは .b(世界)",
}

func TestTokenizeStreamInvariants(t *testing.T) {
	for _, input := range streamSeeds {
		t.Run(input, func(t *testing.T) {
			checkStream(t, Tokenize(runs(input), nil))
		})
	}
}

func FuzzTokenize(f *testing.F) {
	for _, s := range streamSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		checkStream(t, Tokenize(runs(input), nil))
	})
}
