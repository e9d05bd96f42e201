package lexer

import (
	"github.com/dhamidi/docscript/diag"
	"github.com/tliron/commonlog"
)

// maxRedispatch bounds how often a single token may be handed back by the
// state machine. Every chain of re-dispatches ends in Start within a few
// steps; hitting the bound means the machine is broken for this input.
const maxRedispatch = 8

// Tokenizer turns a stream of Tokens into Symbols. It is driven one token at
// a time through Put and owns the symbols it has emitted until Symbols is
// called.
type Tokenizer struct {
	m        machine
	reporter *diag.Reporter
	line     int
	symbols  []Symbol
	done     bool
}

// NewTokenizer returns a tokenizer that reports anomalies to r. A nil
// reporter gets one of its own with no file name.
func NewTokenizer(r *diag.Reporter) *Tokenizer {
	if r == nil {
		r = diag.NewReporter("", commonlog.GetLogger("docscript.lexer"))
	}
	return &Tokenizer{m: idle(), reporter: r, line: 1}
}

// Put feeds tok to the state machine. prev is the token that was fed before
// tok. Put returns false when the state changed without consuming tok; the
// caller must then call Put again with the same arguments.
func (t *Tokenizer) Put(tok, prev Token) bool {
	if t.done {
		return true
	}
	tr := step(t.m, tok, prev)
	t.m = tr.next
	for _, s := range tr.emit {
		t.emit(s)
	}
	if tr.warning != "" {
		t.reporter.Warnf(t.line, "%s", tr.warning)
	}
	if tr.advance && tok.Newline {
		t.line += tok.Count
	}
	return tr.advance
}

func (t *Tokenizer) emit(s Symbol) {
	if t.done {
		return
	}
	s.Line = t.line
	switch s.Kind {
	case SymbolParagraphBreak:
		if n := len(t.symbols); n > 0 && t.symbols[n-1].Kind == SymbolParagraphBreak {
			return
		}
	case SymbolText:
		// A document that opens with text opens inside a paragraph.
		if len(t.symbols) == 0 {
			t.symbols = append(t.symbols, Symbol{Kind: SymbolParagraphBreak, Line: t.line})
		}
	case SymbolEOF:
		t.done = true
	}
	t.symbols = append(t.symbols, s)
}

// Close terminates the symbol stream if the input ended without an EOF
// token.
func (t *Tokenizer) Close() {
	if !t.done {
		t.feed(Token{EOF: true}, Token{})
	}
	t.emit(Symbol{Kind: SymbolEOF})
}

// Done reports whether END_OF_INPUT has been emitted.
func (t *Tokenizer) Done() bool {
	return t.done
}

// State returns the current state of the machine.
func (t *Tokenizer) State() State {
	return t.m.state
}

// Symbols returns the symbols emitted so far.
func (t *Tokenizer) Symbols() []Symbol {
	return t.symbols
}

func (t *Tokenizer) feed(tok, prev Token) {
	for i := 0; !t.Put(tok, prev); i++ {
		if i == maxRedispatch {
			t.reporter.Errorf(t.line, "tokenizer stuck in %s on %s, token dropped", t.m.state, tok)
			t.m = idle()
			return
		}
	}
}

// Tokenize runs a fresh Tokenizer over tokens and returns the complete
// symbol stream, always terminated by exactly one END_OF_INPUT.
func Tokenize(tokens []Token, r *diag.Reporter) []Symbol {
	t := NewTokenizer(r)
	var prev Token
	for _, tok := range tokens {
		t.feed(tok, prev)
		if t.done {
			break
		}
		prev = tok
	}
	t.Close()
	return t.Symbols()
}
