// Package codegen walks a docscript syntax tree and emits the instruction
// sequence executed by the document VM.
package codegen

import (
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/directive"
	"github.com/dhamidi/docscript/lexer"
	"github.com/tliron/commonlog"
)

// Names of the native functions the generator calls on its own account.
// The backend supplies all of them.
const (
	FuncFile      = "generate.file"
	FuncMeta      = "generate.meta"
	FuncIndex     = "generate.index"
	FuncParagraph = "paragraph"
	FuncAlpha     = "convert.alpha"
	FuncNumeric   = "convert.numeric"
)

// Datetime layouts tried in order. A literal without a zone is UTC.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
}

// Flags select the optional parts of the file envelope.
type Flags struct {
	Meta  bool
	Index bool
}

type Option func(*Generator)

func WithLogger(log commonlog.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// WithSource records the name of the compiled file in generated programs.
func WithSource(name string) Option {
	return func(g *Generator) {
		g.source = name
	}
}

// Generator turns documents into programs. It holds configuration only, so
// one Generator may be used for any number of documents.
type Generator struct {
	arity  directive.Arity
	log    commonlog.Logger
	source string
}

// New returns a generator that sizes calls with arity. A nil arity gives
// every function one return value.
func New(arity directive.Arity, opts ...Option) *Generator {
	if arity == nil {
		arity = &directive.Table{}
	}
	g := &Generator{arity: arity}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = commonlog.GetLogger("docscript.codegen")
	}
	return g
}

// Generate emits the program for doc. The body is wrapped in a call to
// generate.file; the meta and index calls, when requested, are its last
// arguments.
func (g *Generator) Generate(doc *ast.Document, flags Flags) *Program {
	e := &emitter{g: g}
	e.call(FuncFile, g.arity.ExpectedReturns(FuncFile), func() {
		if doc != nil {
			for _, b := range doc.Blocks {
				e.node(b)
			}
		}
		if flags.Meta {
			e.call(FuncMeta, g.arity.ExpectedReturns(FuncMeta), nil)
		}
		if flags.Index {
			e.call(FuncIndex, g.arity.ExpectedReturns(FuncIndex), nil)
		}
	})
	return &Program{Version: ProgramVersion, Source: g.source, Instructions: e.code}
}

// GenerateNode emits the code for a single subtree, without the file
// envelope.
func (g *Generator) GenerateNode(n ast.Node) *Program {
	e := &emitter{g: g}
	e.node(n)
	return &Program{Version: ProgramVersion, Source: g.source, Instructions: e.code}
}

// emitter holds the state of one Generate call.
type emitter struct {
	g    *Generator
	code []Instruction
}

func (e *emitter) emit(in Instruction) {
	e.code = append(e.code, in)
}

// call emits a complete call of name with returns return slots. args emits
// the arguments inside the frame. It returns the number of values the call
// leaves behind.
func (e *emitter) call(name string, returns int, args func()) int {
	for i := 0; i < returns; i++ {
		e.emit(Instruction{Op: OpPushReturnSlot})
	}
	e.emit(Instruction{Op: OpEnterFrame})
	if args != nil {
		args()
	}
	e.emit(Instruction{Op: OpInvoke, Name: name, Count: returns})
	e.emit(Instruction{Op: OpExitFrame})
	return returns
}

func (e *emitter) convert(name, value string) int {
	return e.call(name, 1, func() {
		e.emit(Instruction{Op: OpPushString, Str: value})
	})
}

// node emits n and returns how many values it pushes.
func (e *emitter) node(n ast.Node) int {
	switch n := n.(type) {
	case *ast.FunctionWithNamedParams:
		return e.call(n.Name, e.g.arity.ExpectedReturns(n.Name), func() {
			count := 0
			for _, p := range n.Params {
				if e.node(p.Value) == 0 {
					e.g.log.Debug("parameter without value", "function", n.Name, "key", p.Key)
					continue
				}
				e.emit(Instruction{Op: OpAssembleParameter, Name: p.Key})
				count++
			}
			e.emit(Instruction{Op: OpAssembleParameterMap, Count: count})
		})
	case *ast.FunctionWithPositionalArgs:
		return e.call(n.Name, e.g.arity.ExpectedReturns(n.Name), func() {
			e.nodes(n.Args)
		})
	case *ast.Paragraph:
		if len(n.Children) == 0 {
			return 0
		}
		return e.call(FuncParagraph, 1, func() {
			e.nodes(n.Children)
		})
	case *ast.Content:
		e.emit(Instruction{Op: OpAssembleVector, Count: e.nodes(n.Ordered())})
		return 1
	case *ast.Vector:
		e.emit(Instruction{Op: OpAssembleVector, Count: e.nodes(n.Ordered())})
		return 1
	case *ast.Literal:
		count := 0
		for _, s := range n.Symbols {
			count += e.symbol(s)
		}
		e.emit(Instruction{Op: OpAssembleTuple, Count: count})
		return 1
	case *ast.Symbol:
		return e.symbol(n.Symbol)
	case *ast.Empty:
		e.g.log.Debug("no code for empty node", "reason", n.Reason)
		return 0
	}
	e.g.log.Debugf("no code for node %T", n)
	return 0
}

func (e *emitter) nodes(nodes []ast.Node) int {
	count := 0
	for _, n := range nodes {
		count += e.node(n)
	}
	return count
}

func (e *emitter) symbol(s lexer.Symbol) int {
	switch s.Kind {
	case lexer.SymbolText:
		switch {
		case strings.EqualFold(s.Value, "true"):
			e.emit(Instruction{Op: OpPushBool, Bool: true})
			return 1
		case strings.EqualFold(s.Value, "false"):
			e.emit(Instruction{Op: OpPushBool, Bool: false})
			return 1
		}
		return e.convert(FuncAlpha, s.Value)
	case lexer.SymbolNumber:
		return e.number(s.Value)
	case lexer.SymbolDatetime:
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, s.Value); err == nil {
				e.emit(Instruction{Op: OpPushTimestamp, Time: &t})
				return 1
			}
		}
		e.g.log.Debug("unparsable datetime", "value", s.Value, "line", s.Line)
		return e.convert(FuncAlpha, s.Value)
	case lexer.SymbolVerbatim:
		e.emit(Instruction{Op: OpPushString, Str: s.Value})
		return 1
	case lexer.SymbolDoubleQuote, lexer.SymbolSingleQuote, lexer.SymbolOpen, lexer.SymbolClose,
		lexer.SymbolSeparator, lexer.SymbolKey, lexer.SymbolVectorOpen, lexer.SymbolVectorClose:
		return e.convert(FuncAlpha, s.Literal())
	}
	e.g.log.Debug("no code for symbol", "symbol", s.String(), "line", s.Line)
	return 0
}

func (e *emitter) number(v string) int {
	switch strings.Count(v, ".") {
	case 0:
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			e.emit(Instruction{Op: OpPushUint, Uint: u})
			return 1
		}
	case 1:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			e.emit(Instruction{Op: OpPushFloat, Float: f})
			return 1
		}
	}
	return e.convert(FuncNumeric, v)
}
