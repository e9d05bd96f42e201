package parser

import (
	"errors"
	"strings"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/diag"
	"github.com/dhamidi/docscript/directive"
	"github.com/dhamidi/docscript/lexer"
	"github.com/tliron/commonlog"
)

// ErrNestingTooDeep is returned by Parse when calls, groups and vectors are
// nested deeper than the configured limit.
var ErrNestingTooDeep = errors.New("parser: nesting too deep")

const (
	// DefaultMaxDepth is the nesting limit used when WithMaxDepth is not
	// given.
	DefaultMaxDepth = 256

	// maxRecoverySkip bounds how many symbols one recovery may discard.
	maxRecoverySkip = 64
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithDirectives sets the classifier deciding which directives are
// standalone. Without it no directive is.
func WithDirectives(c directive.Classifier) Option {
	return func(p *Parser) {
		p.directives = c
	}
}

func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithReporter makes the parser report into r instead of a reporter of its
// own, so diagnostics of several stages end up in one list.
func WithReporter(r *diag.Reporter) Option {
	return func(p *Parser) {
		p.reporter = r
	}
}

type Parser struct {
	file       string
	symbols    []lexer.Symbol
	pos        int
	directives directive.Classifier
	reporter   *diag.Reporter
	maxDepth   int
	depth      int
	tooDeep    bool
}

// New returns a parser over symbols. The slice is not modified.
func New(symbols []lexer.Symbol, opts ...Option) *Parser {
	p := &Parser{
		symbols:    symbols,
		directives: &directive.Table{},
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.reporter == nil {
		p.reporter = diag.NewReporter(p.file, commonlog.GetLogger("docscript.parser"))
	}
	return p
}

// Diagnostics returns everything reported so far.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	return p.reporter.Diagnostics()
}

// Parse builds the document. It always returns a document; the error is
// ErrNestingTooDeep when parsing was cut short.
func (p *Parser) Parse() (*ast.Document, error) {
	doc := &ast.Document{}
	for !p.check(lexer.SymbolEOF) {
		progress := p.mustProgress()
		if block := p.parseBlock(); block != nil {
			doc.Blocks = append(doc.Blocks, block)
		}
		progress()
	}
	ast.Normalize(doc)
	if p.tooDeep {
		return doc, ErrNestingTooDeep
	}
	return doc, nil
}

func (p *Parser) peek() lexer.Symbol {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) lexer.Symbol {
	if p.pos+n >= len(p.symbols) {
		line := 0
		if len(p.symbols) > 0 {
			line = p.symbols[len(p.symbols)-1].Line
		}
		return lexer.Symbol{Kind: lexer.SymbolEOF, Line: line}
	}
	return p.symbols[p.pos+n]
}

func (p *Parser) advance() lexer.Symbol {
	sym := p.peek()
	if p.pos < len(p.symbols) {
		p.pos++
	}
	return sym
}

func (p *Parser) check(kinds ...lexer.SymbolKind) bool {
	k := p.peek().Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// match consumes the next symbol. When it is not of the expected kind a
// warning is reported; the symbol is consumed all the same.
func (p *Parser) match(kind lexer.SymbolKind) bool {
	sym := p.advance()
	if sym.Kind != kind {
		p.warnf(sym.Line, "expected %s, got %s", kind, sym)
		return false
	}
	return true
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration and call the returned function at
// the end; when nothing was consumed it skips one symbol and returns false.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(lexer.SymbolEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

// resync skips symbols until a separator, closing parenthesis, paragraph
// break or the end of input. It reports whether one was reached before the
// skip limit.
func (p *Parser) resync() bool {
	for i := 0; i < maxRecoverySkip; i++ {
		if p.check(lexer.SymbolSeparator, lexer.SymbolClose, lexer.SymbolParagraphBreak, lexer.SymbolEOF) {
			return true
		}
		p.advance()
	}
	return p.check(lexer.SymbolSeparator, lexer.SymbolClose, lexer.SymbolParagraphBreak, lexer.SymbolEOF)
}

// enter accounts for one more level of nesting. Past the limit it reports
// the error once, jumps to the end of input so every open construct winds
// down, and returns false.
func (p *Parser) enter(line int) bool {
	if p.depth >= p.maxDepth {
		if !p.tooDeep {
			p.reporter.Errorf(line, "nesting deeper than %d levels, rest of document skipped", p.maxDepth)
			p.tooDeep = true
		}
		p.pos = len(p.symbols)
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) warnf(line int, format string, args ...any) {
	if p.tooDeep {
		return
	}
	p.reporter.Warnf(line, format, args...)
}

func (p *Parser) isStandalone(sym lexer.Symbol) bool {
	return sym.Kind == lexer.SymbolToken && p.directives.IsStandalone(strings.ToLower(sym.Value))
}
