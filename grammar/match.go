package grammar

import (
	"fmt"
	"sort"

	"github.com/dhamidi/docscript/lexer"
	"golang.org/x/exp/ebnf"
)

// MismatchError reports where a symbol stream stopped matching the grammar.
type MismatchError struct {
	Symbol lexer.Symbol
	Offset int
}

func (e *MismatchError) Error() string {
	if e.Symbol.Line > 0 {
		return fmt.Sprintf("line %d: unexpected %s", e.Symbol.Line, e.Symbol)
	}
	return fmt.Sprintf("symbol %d: unexpected %s", e.Offset, e.Symbol)
}

// Match checks symbols against g starting from start. It returns a
// *MismatchError naming the furthest symbol that could not be matched.
func Match(g ebnf.Grammar, start string, symbols []lexer.Symbol) error {
	if g[start] == nil {
		return fmt.Errorf("grammar: no production %s", start)
	}
	m := &matcher{
		g:       g,
		symbols: symbols,
		memo:    make(map[memoKey][]int),
		active:  make(map[memoKey]bool),
	}
	for _, end := range m.match(&ebnf.Name{String: start}, 0) {
		if end == len(symbols) {
			return nil
		}
	}
	at := m.furthest
	if at >= len(symbols) {
		return &MismatchError{Symbol: lexer.Symbol{Kind: lexer.SymbolEOF}, Offset: at}
	}
	return &MismatchError{Symbol: symbols[at], Offset: at}
}

// MatchDocument checks symbols against the embedded grammar.
func MatchDocument(symbols []lexer.Symbol) error {
	g, err := Load()
	if err != nil {
		return err
	}
	return Match(g, Start, symbols)
}

type memoKey struct {
	name string
	pos  int
}

// matcher recognizes by computing, for an expression and a start offset,
// the set of offsets where a match can end. Results per production and
// offset are memoized.
type matcher struct {
	g        ebnf.Grammar
	symbols  []lexer.Symbol
	memo     map[memoKey][]int
	active   map[memoKey]bool
	furthest int
}

func (m *matcher) match(expr ebnf.Expression, pos int) []int {
	switch e := expr.(type) {
	case nil:
		return []int{pos}
	case *ebnf.Name:
		return m.production(e.String, pos)
	case *ebnf.Token:
		return m.terminal(e.String, pos)
	case ebnf.Sequence:
		ends := []int{pos}
		for _, item := range e {
			var next []int
			for _, p := range ends {
				next = append(next, m.match(item, p)...)
			}
			ends = unique(next)
			if len(ends) == 0 {
				return nil
			}
		}
		return ends
	case ebnf.Alternative:
		var ends []int
		for _, alt := range e {
			ends = append(ends, m.match(alt, pos)...)
		}
		return unique(ends)
	case *ebnf.Group:
		return m.match(e.Body, pos)
	case *ebnf.Option:
		return unique(append([]int{pos}, m.match(e.Body, pos)...))
	case *ebnf.Repetition:
		seen := map[int]bool{pos: true}
		frontier := []int{pos}
		for len(frontier) > 0 {
			var next []int
			for _, p := range frontier {
				for _, end := range m.match(e.Body, p) {
					if !seen[end] {
						seen[end] = true
						next = append(next, end)
					}
				}
			}
			frontier = next
		}
		ends := make([]int, 0, len(seen))
		for p := range seen {
			ends = append(ends, p)
		}
		return unique(ends)
	}
	return nil
}

func (m *matcher) production(name string, pos int) []int {
	key := memoKey{name, pos}
	if ends, ok := m.memo[key]; ok {
		return ends
	}
	if m.active[key] {
		// Left recursion: no progress down this path.
		return nil
	}
	prod := m.g[name]
	if prod == nil {
		return nil
	}
	m.active[key] = true
	ends := m.match(prod.Expr, pos)
	delete(m.active, key)
	m.memo[key] = ends
	return ends
}

// terminal matches one symbol whose kind is named by kind.
func (m *matcher) terminal(kind string, pos int) []int {
	if pos < len(m.symbols) && m.symbols[pos].Kind.String() == kind {
		if pos+1 > m.furthest {
			m.furthest = pos + 1
		}
		return []int{pos + 1}
	}
	return nil
}

func unique(ends []int) []int {
	if len(ends) < 2 {
		return ends
	}
	sort.Ints(ends)
	out := ends[:1]
	for _, e := range ends[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}
