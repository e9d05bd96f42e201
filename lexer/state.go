package lexer

import (
	"strings"
	"unicode"
)

type State int

const (
	StateStart State = iota
	StateText
	StateDot
	StateToken
	StateNumber
	StateDatetime
	StateQuote
	StateDetect
	StateDone
)

var stateNames = [...]string{
	StateStart:    "Start",
	StateText:     "Text",
	StateDot:      "Dot",
	StateToken:    "Token",
	StateNumber:   "Number",
	StateDatetime: "Datetime",
	StateQuote:    "Quote",
	StateDetect:   "Detect",
	StateDone:     "Done",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

const (
	nonBreakingSpace = "\u00a0"
	tabArrow         = "\u2192"
)

// machine is the complete tokenizer state. It is passed and returned by
// value; step never mutates the machine it was given except through the
// buffer it hands over to the returned one.
type machine struct {
	state State
	buf   []rune

	// label is set in StateToken when the name started a line instead of
	// following a '.'.
	label bool
}

// transition is the result of feeding one token to a machine. When advance
// is false the caller must feed the same token again to next.
type transition struct {
	next    machine
	emit    []Symbol
	advance bool
	warning string
}

func consume(next machine, emit ...Symbol) transition {
	return transition{next: next, emit: emit, advance: true}
}

func redispatch(next machine, emit ...Symbol) transition {
	return transition{next: next, emit: emit}
}

func idle() machine {
	return machine{state: StateStart}
}

func sym(kind SymbolKind, value string) Symbol {
	return Symbol{Kind: kind, Value: value}
}

func repeat(r rune, n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return out
}

// step is the tokenizer's transition function.
func step(m machine, tok, prev Token) transition {
	switch m.state {
	case StateStart:
		return stepStart(tok, prev)
	case StateText:
		return stepText(m, tok)
	case StateDot:
		return stepDot(tok)
	case StateToken:
		return stepToken(m, tok)
	case StateNumber:
		return stepNumber(m, tok)
	case StateDatetime:
		return stepDatetime(m, tok)
	case StateQuote:
		return stepQuote(m, tok)
	case StateDetect:
		return stepDetect(tok)
	}
	return consume(m)
}

func stepStart(tok, prev Token) transition {
	switch {
	case tok.EOF:
		return consume(machine{state: StateDone}, sym(SymbolEOF, ""))
	case tok.Newline:
		if tok.Count > 1 {
			return consume(idle(), sym(SymbolParagraphBreak, ""))
		}
		return consume(idle())
	case isSpace(tok.Rune):
		return consume(idle())
	}

	r, n := tok.Rune, tok.Count
	switch {
	case r == '.':
		literal := strings.Repeat(".", n/2)
		if n%2 == 0 {
			return consume(machine{state: StateText, buf: []rune(literal)})
		}
		if literal != "" {
			return consume(machine{state: StateDot}, sym(SymbolText, literal))
		}
		return consume(machine{state: StateDot})
	case isDigit(r):
		return redispatch(machine{state: StateNumber})
	case r == '"':
		quotes := make([]Symbol, n)
		for i := range quotes {
			quotes[i] = sym(SymbolDoubleQuote, "")
		}
		return consume(machine{state: StateDetect}, quotes...)
	case r == '\'':
		if n%2 == 0 {
			return consume(idle(), sym(SymbolSingleQuote, strings.Repeat("'", n/2)))
		}
		return consume(machine{state: StateQuote, buf: repeat('\'', (n-1)/2)})
	case r == '@':
		if n > 1 {
			return consume(machine{state: StateText, buf: repeat('@', n)})
		}
		return consume(machine{state: StateDatetime})
	}

	if kind, ok := punctuation[r]; ok {
		out := make([]Symbol, n)
		for i := range out {
			out[i] = sym(kind, "")
		}
		if r == ')' {
			return consume(machine{state: StateDetect}, out...)
		}
		return consume(idle(), out...)
	}

	if prev.Newline && isNameStart(r) {
		return redispatch(machine{state: StateToken, label: true})
	}
	return redispatch(machine{state: StateText})
}

func stepText(m machine, tok Token) transition {
	flush := sym(SymbolText, string(m.buf))
	if tok.EOF || tok.Newline || isSpace(tok.Rune) {
		return redispatch(idle(), flush)
	}
	switch r := tok.Rune; {
	case r == '\'':
		if tok.Count%2 != 0 {
			return redispatch(idle(), flush)
		}
		m.buf = append(m.buf, repeat('\'', tok.Count/2)...)
		return consume(m)
	case r == '"':
		return redispatch(idle(), flush)
	default:
		if _, ok := punctuation[r]; ok {
			return redispatch(idle(), flush)
		}
	}
	m.buf = append(m.buf, repeat(tok.Rune, tok.Count)...)
	return consume(m)
}

func stepDot(tok Token) transition {
	switch {
	case tok.EOF || tok.Newline:
		return redispatch(idle(), sym(SymbolText, "."))
	case tok.Rune == ' ':
		return consume(idle(), sym(SymbolText, nonBreakingSpace))
	case tok.Rune == '\t':
		return consume(idle(), sym(SymbolText, tabArrow))
	case isNameStart(tok.Rune):
		return redispatch(machine{state: StateToken})
	}
	return consume(machine{state: StateText, buf: repeat(tok.Rune, tok.Count)})
}

func stepToken(m machine, tok Token) transition {
	if !tok.EOF && !tok.Newline && isNameChar(tok.Rune) {
		r := tok.Rune
		if !m.label {
			r = unicode.ToUpper(r)
		}
		m.buf = append(m.buf, repeat(r, tok.Count)...)
		return consume(m)
	}
	if !m.label {
		return redispatch(idle(), sym(SymbolToken, string(m.buf)))
	}
	if !tok.EOF && !tok.Newline && tok.Rune == ':' && tok.Count == 1 {
		return consume(idle(), sym(SymbolKey, string(m.buf)))
	}
	// Not a label after all: the word is ordinary running text.
	return redispatch(machine{state: StateText, buf: m.buf})
}

func stepNumber(m machine, tok Token) transition {
	if !tok.EOF && !tok.Newline {
		switch {
		case isDigit(tok.Rune):
			m.buf = append(m.buf, repeat(tok.Rune, tok.Count)...)
			return consume(m)
		case tok.Rune == '.' && tok.Count == 1 && len(m.buf) > 0 && isDigit(m.buf[len(m.buf)-1]):
			// Further dots stay in the literal: 12.3.4 is one NUMBER that
			// the generator cannot read as a float.
			m.buf = append(m.buf, '.')
			return consume(m)
		}
	}

	// A dot that is not followed by a digit ends the sentence, not the number.
	if last := len(m.buf) - 1; last > 0 && m.buf[last] == '.' {
		return redispatch(idle(), sym(SymbolNumber, string(m.buf[:last])), sym(SymbolText, "."))
	}
	return redispatch(idle(), sym(SymbolNumber, string(m.buf)))
}

// datetimeLengths are the buffer lengths at which a datetime literal is
// complete: date, date and time, UTC suffix, numeric offset.
var datetimeLengths = map[int]bool{10: true, 19: true, 20: true, 25: true}

func datetimeAccepts(buf []rune, r rune) bool {
	i := len(buf)
	if i >= 20 && buf[19] == 'Z' {
		return false
	}
	switch i {
	case 4, 7:
		return r == '-'
	case 10:
		return r == 'T'
	case 13, 16, 22:
		return r == ':'
	case 19:
		return r == 'Z' || r == '+' || r == '-'
	}
	return i < 25 && isDigit(r)
}

func stepDatetime(m machine, tok Token) transition {
	if !tok.EOF && !tok.Newline {
		buf, ok := m.buf, true
		for i := 0; ok && i < tok.Count; i++ {
			if ok = datetimeAccepts(buf, tok.Rune); ok {
				buf = append(buf, tok.Rune)
			}
		}
		if ok {
			m.buf = buf
			return consume(m)
		}
	}

	if datetimeLengths[len(m.buf)] {
		value := string(m.buf)
		if len(m.buf) == 10 {
			value += "T00:00:00"
		}
		if endsDatetime(tok) {
			return redispatch(idle(), sym(SymbolDatetime, value))
		}
		// A single dot right after a complete datetime ends the sentence.
		if !tok.EOF && !tok.Newline && tok.Rune == '.' && tok.Count == 1 {
			return consume(idle(), sym(SymbolDatetime, value), sym(SymbolText, "."))
		}
	}

	// Not a datetime: hand everything seen so far, '@' included, to Text.
	buf := append([]rune{'@'}, m.buf...)
	return redispatch(machine{state: StateText, buf: buf})
}

func endsDatetime(tok Token) bool {
	if tok.EOF || tok.Newline || isSpace(tok.Rune) || tok.Rune == '"' || tok.Rune == '\'' {
		return true
	}
	_, ok := punctuation[tok.Rune]
	return ok
}

func stepQuote(m machine, tok Token) transition {
	switch {
	case tok.EOF:
		t := redispatch(idle(), sym(SymbolVerbatim, string(m.buf)))
		t.warning = "unterminated quoted literal at end of input"
		return t
	case tok.Newline:
		t := redispatch(idle(), sym(SymbolVerbatim, string(m.buf)))
		t.warning = "quoted literal closed at end of line"
		return t
	case tok.Rune == '\'':
		m.buf = append(m.buf, repeat('\'', tok.Count/2)...)
		if tok.Count%2 == 0 {
			return consume(m)
		}
		return consume(idle(), sym(SymbolVerbatim, string(m.buf)))
	}
	m.buf = append(m.buf, repeat(tok.Rune, tok.Count)...)
	return consume(m)
}

func stepDetect(tok Token) transition {
	if !tok.EOF && !tok.Newline && tok.Rune == '.' {
		return consume(machine{state: StateText, buf: repeat('.', tok.Count)})
	}
	return redispatch(idle())
}

var punctuation = map[rune]SymbolKind{
	'(': SymbolOpen,
	')': SymbolClose,
	',': SymbolSeparator,
	':': SymbolKey,
	'[': SymbolVectorOpen,
	']': SymbolVectorClose,
}

func isSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameChar(r rune) bool {
	return isNameStart(r) || isDigit(r)
}
