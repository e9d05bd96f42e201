// Package source turns raw document bytes into the run-length token stream
// the lexer consumes.
package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/docscript/lexer"
)

// Scan reads r to the end and returns its tokens. Invalid UTF-8 decodes to
// U+FFFD. CRLF and lone CR become LF. Horizontal whitespace at the end of a
// line is dropped. Consecutive identical runes collapse into one token and
// the stream ends with a single EOF token.
func Scan(r io.Reader) ([]lexer.Token, error) {
	s := &scanner{}
	br := bufio.NewReader(r)
	for {
		c, size, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		if c == utf8.RuneError && size == 1 {
			c = unicode.ReplacementChar
		}
		if c == '\r' {
			if next, _, err := br.ReadRune(); err == nil && next != '\n' {
				if err := br.UnreadRune(); err != nil {
					return nil, fmt.Errorf("source: %w", err)
				}
			}
			c = '\n'
		}
		s.put(c)
	}
	return s.finish(), nil
}

// String is Scan over an in-memory document.
func String(text string) []lexer.Token {
	tokens, _ := Scan(strings.NewReader(text))
	return tokens
}

type scanner struct {
	tokens []lexer.Token
	// blank holds horizontal whitespace that is only emitted once something
	// other than a line break follows it.
	blank []rune
}

func (s *scanner) put(c rune) {
	switch {
	case c == '\n':
		s.blank = s.blank[:0]
		s.add(c)
	case unicode.IsSpace(c):
		s.blank = append(s.blank, c)
	default:
		s.flushBlank()
		s.add(c)
	}
}

func (s *scanner) flushBlank() {
	for _, b := range s.blank {
		s.add(b)
	}
	s.blank = s.blank[:0]
}

func (s *scanner) add(c rune) {
	if n := len(s.tokens); n > 0 && s.tokens[n-1].Rune == c {
		s.tokens[n-1].Count++
		return
	}
	s.tokens = append(s.tokens, lexer.Token{Rune: c, Count: 1, Newline: c == '\n'})
}

func (s *scanner) finish() []lexer.Token {
	return append(s.tokens, lexer.Token{EOF: true})
}
