// Package compile runs the whole docscript front end over one document:
// source bytes to tokens, tokens to symbols, symbols to a syntax tree and
// the tree to a program.
package compile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/diag"
	"github.com/dhamidi/docscript/directive"
	"github.com/dhamidi/docscript/lexer"
	"github.com/dhamidi/docscript/parser"
	"github.com/dhamidi/docscript/source"
	"github.com/tliron/commonlog"
)

// Result holds the output of every stage.
type Result struct {
	Symbols     []lexer.Symbol
	Document    *ast.Document
	Program     *codegen.Program
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

type Option func(*options)

type options struct {
	directives *directive.Table
	flags      codegen.Flags
	maxDepth   int
	log        commonlog.Logger
}

// WithDirectives replaces the built-in directive table.
func WithDirectives(t *directive.Table) Option {
	return func(o *options) {
		o.directives = t
	}
}

func WithFlags(f codegen.Flags) Option {
	return func(o *options) {
		o.flags = f
	}
}

func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithLogger sets where diagnostics are logged as they are reported.
func WithLogger(log commonlog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Source compiles the document read from r. name is used in diagnostics
// and recorded in the program. The error is non-nil only when r fails;
// problems with the document itself are diagnostics.
func Source(name string, r io.Reader, opts ...Option) (*Result, error) {
	tokens, err := source.Scan(r)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return Tokens(name, tokens, opts...), nil
}

// Bytes compiles an in-memory document.
func Bytes(name string, data []byte, opts ...Option) *Result {
	res, err := Source(name, bytes.NewReader(data), opts...)
	if err != nil {
		// bytes.Reader does not fail.
		panic(err)
	}
	return res
}

// Tokens compiles an already scanned token stream.
func Tokens(name string, tokens []lexer.Token, opts ...Option) *Result {
	o := options{directives: directive.Default(), maxDepth: parser.DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = commonlog.GetLogger("docscript.compile")
	}

	reporter := diag.NewReporter(name, o.log)
	symbols := lexer.Tokenize(tokens, reporter)

	p := parser.New(symbols,
		parser.WithFile(name),
		parser.WithDirectives(o.directives),
		parser.WithMaxDepth(o.maxDepth),
		parser.WithReporter(reporter),
	)
	doc, err := p.Parse()
	if err != nil && !errors.Is(err, parser.ErrNestingTooDeep) {
		reporter.Errorf(0, "%v", err)
	}

	gen := codegen.New(o.directives, codegen.WithSource(name), codegen.WithLogger(o.log))
	return &Result{
		Symbols:     symbols,
		Document:    doc,
		Program:     gen.Generate(doc, o.flags),
		Diagnostics: reporter.Diagnostics(),
	}
}
