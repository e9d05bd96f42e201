package lexer

import (
	"fmt"
	"strconv"
)

// Token is one unit of sanitized input: a codepoint together with the number
// of consecutive times it occurred. Newline tokens carry the number of line
// breaks in Count. The final token of a stream has EOF set.
type Token struct {
	Rune    rune
	Count   int
	Newline bool
	EOF     bool
}

func (t Token) String() string {
	switch {
	case t.EOF:
		return "EOF"
	case t.Newline:
		return fmt.Sprintf("NEWLINE×%d", t.Count)
	}
	return fmt.Sprintf("%q×%d", t.Rune, t.Count)
}

type SymbolKind int

const (
	SymbolUnknown SymbolKind = iota
	SymbolText
	SymbolToken
	SymbolNumber
	SymbolDatetime
	SymbolVerbatim
	SymbolDoubleQuote
	SymbolSingleQuote
	SymbolOpen
	SymbolClose
	SymbolSeparator
	SymbolKey
	SymbolVectorOpen
	SymbolVectorClose
	SymbolParagraphBreak
	SymbolEOF
)

var symbolKindNames = map[SymbolKind]string{
	SymbolUnknown:        "UNKNOWN",
	SymbolText:           "TEXT",
	SymbolToken:          "TOKEN",
	SymbolNumber:         "NUMBER",
	SymbolDatetime:       "DATETIME",
	SymbolVerbatim:       "VERBATIM",
	SymbolDoubleQuote:    "DOUBLE_QUOTE",
	SymbolSingleQuote:    "SINGLE_QUOTE",
	SymbolOpen:           "OPEN",
	SymbolClose:          "CLOSE",
	SymbolSeparator:      "SEPARATOR",
	SymbolKey:            "KEY",
	SymbolVectorOpen:     "VECTOR_OPEN",
	SymbolVectorClose:    "VECTOR_CLOSE",
	SymbolParagraphBreak: "PARAGRAPH_BREAK",
	SymbolEOF:            "END_OF_INPUT",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "SymbolKind(" + strconv.Itoa(int(k)) + ")"
}

// Symbol is a classified lexical unit. Value holds the accumulated text for
// symbols that carry one; for KEY it is empty unless the key was written as a
// line-start label.
type Symbol struct {
	Kind  SymbolKind
	Value string
	Line  int
}

// Literal returns the source text the symbol stands for, used when a symbol
// ends up in running text.
func (s Symbol) Literal() string {
	switch s.Kind {
	case SymbolToken:
		return "." + s.Value
	case SymbolDoubleQuote:
		return `"`
	case SymbolOpen:
		return "("
	case SymbolClose:
		return ")"
	case SymbolSeparator:
		return ","
	case SymbolKey:
		return s.Value + ":"
	case SymbolVectorOpen:
		return "["
	case SymbolVectorClose:
		return "]"
	case SymbolParagraphBreak, SymbolEOF:
		return ""
	}
	return s.Value
}

func (s Symbol) String() string {
	if s.Value == "" {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", s.Kind, s.Value)
}
