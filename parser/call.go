package parser

import (
	"strings"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/lexer"
)

func (p *Parser) parseCall() ast.Node {
	tok := p.advance()
	name := strings.ToLower(tok.Value)
	if !p.enter(tok.Line) {
		return &ast.Empty{Reason: "nesting too deep"}
	}
	defer p.leave()

	switch p.peek().Kind {
	case lexer.SymbolParagraphBreak, lexer.SymbolEOF,
		lexer.SymbolClose, lexer.SymbolSeparator, lexer.SymbolVectorClose:
		return &ast.FunctionWithPositionalArgs{Name: name, Line: tok.Line}
	case lexer.SymbolOpen:
		if p.peekN(1).Kind == lexer.SymbolClose {
			p.advance()
			p.advance()
			return &ast.FunctionWithPositionalArgs{Name: name, Line: tok.Line}
		}
		if p.namedAt(1) {
			return p.parseNamedParams(name, tok.Line, true)
		}
		return p.parsePositionalArgs(name, tok.Line, true)
	}
	if p.namedAt(0) {
		return p.parseNamedParams(name, tok.Line, false)
	}
	return p.parsePositionalArgs(name, tok.Line, false)
}

// namedAt reports whether the argument starting n symbols ahead is a
// key:value pair.
func (p *Parser) namedAt(n int) bool {
	if first := p.peekN(n); first.Kind == lexer.SymbolKey && first.Value != "" {
		return true
	}
	return p.peekN(n+1).Kind == lexer.SymbolKey
}

func (p *Parser) parseNamedParams(name string, line int, paren bool) ast.Node {
	fn := &ast.FunctionWithNamedParams{Name: name, Line: line}
	if paren {
		p.match(lexer.SymbolOpen)
	}
	for {
		key, value, ok := p.parseParameter(name)
		if ok {
			fn.Set(key, value)
		}
		if !paren {
			return fn
		}

		sym := p.peek()
		switch sym.Kind {
		case lexer.SymbolSeparator:
			p.advance()
			continue
		case lexer.SymbolClose:
			p.advance()
			return fn
		case lexer.SymbolParagraphBreak, lexer.SymbolEOF:
			p.warnf(line, "unterminated parameter list of .%s", name)
			return fn
		}
		if p.namedAt(0) {
			// An invalid value has already swallowed the comma.
			if _, invalid := value.(*ast.Empty); !invalid {
				p.warnf(sym.Line, "missing ',' before %s in parameters of .%s", sym, name)
			}
			continue
		}
		p.warnf(sym.Line, "expected ',' or ')' in parameters of .%s, got %s", name, sym)
		if !p.resync() {
			p.warnf(sym.Line, "giving up on parameters of .%s", name)
			return fn
		}
	}
}

// parseParameter reads one key:value pair. ok is false when there was no
// key to read; nothing is consumed in that case.
func (p *Parser) parseParameter(fn string) (key string, value ast.Node, ok bool) {
	sym := p.peek()
	switch {
	case sym.Kind == lexer.SymbolKey && sym.Value != "":
		p.advance()
		key = sym.Value
	case p.peekN(1).Kind == lexer.SymbolKey:
		p.advance()
		p.advance()
		key = sym.Literal()
	default:
		if sym.Kind != lexer.SymbolClose {
			p.warnf(sym.Line, "expected key: in parameters of .%s, got %s", fn, sym)
		}
		return "", nil, false
	}
	return key, p.parseValue(fn, key), true
}

func (p *Parser) parseValue(fn, key string) ast.Node {
	sym := p.peek()
	switch sym.Kind {
	case lexer.SymbolToken:
		return p.parseCall()
	case lexer.SymbolDoubleQuote:
		return p.parseLiteral()
	case lexer.SymbolOpen:
		return p.parseContent()
	case lexer.SymbolVectorOpen:
		return p.parseVector()
	case lexer.SymbolText, lexer.SymbolNumber, lexer.SymbolDatetime,
		lexer.SymbolVerbatim, lexer.SymbolSingleQuote:
		return &ast.Symbol{Symbol: p.advance()}
	case lexer.SymbolClose, lexer.SymbolEOF:
		p.warnf(sym.Line, "missing value for %s: in .%s", key, fn)
		return &ast.Empty{Reason: "missing value"}
	}
	p.warnf(sym.Line, "invalid value %s for %s: in .%s", sym, key, fn)
	p.advance()
	return &ast.Empty{Reason: "invalid value " + sym.Kind.String()}
}

func (p *Parser) parsePositionalArgs(name string, line int, paren bool) ast.Node {
	fn := &ast.FunctionWithPositionalArgs{Name: name, Line: line}
	if !paren {
		fn.Args = []ast.Node{p.parseBareArg()}
		return fn
	}

	p.match(lexer.SymbolOpen)
	for {
		fn.Args = append(fn.Args, p.parseArgument(lexer.SymbolClose))
		switch p.peek().Kind {
		case lexer.SymbolSeparator:
			p.advance()
		case lexer.SymbolClose:
			p.advance()
			return fn
		default:
			p.warnf(line, "unterminated argument list of .%s", name)
			return fn
		}
	}
}

// parseBareArg reads the single argument of a call written without
// parentheses.
func (p *Parser) parseBareArg() ast.Node {
	switch p.peek().Kind {
	case lexer.SymbolToken:
		return p.parseCall()
	case lexer.SymbolDoubleQuote:
		return p.parseLiteral()
	case lexer.SymbolVectorOpen:
		return p.parseVector()
	}
	return &ast.Symbol{Symbol: p.advance()}
}

// parseArgument reads one comma separated element of an argument list or
// vector closed by closer. A single inline node is returned as is; several
// are grouped into a Content.
func (p *Parser) parseArgument(closer lexer.SymbolKind) ast.Node {
	line := p.peek().Line
	nodes := p.parseRun(closer, true)
	switch len(nodes) {
	case 0:
		p.warnf(line, "empty argument")
		return &ast.Empty{Reason: "empty argument"}
	case 1:
		return nodes[0]
	}
	return content(nodes)
}

// parseContent reads a parenthesized group. Commas inside are text.
func (p *Parser) parseContent() ast.Node {
	open := p.advance()
	if !p.enter(open.Line) {
		return &ast.Empty{Reason: "nesting too deep"}
	}
	defer p.leave()

	nodes := p.parseRun(lexer.SymbolClose, false)
	if p.check(lexer.SymbolClose) {
		p.advance()
	} else {
		p.warnf(open.Line, "unterminated group, expected ')'")
	}
	return content(nodes)
}

func (p *Parser) parseVector() ast.Node {
	open := p.advance()
	if !p.enter(open.Line) {
		return &ast.Empty{Reason: "nesting too deep"}
	}
	defer p.leave()

	var elements []ast.Node
	if p.check(lexer.SymbolVectorClose) {
		p.advance()
		return &ast.Vector{}
	}
	for {
		elements = append(elements, p.parseArgument(lexer.SymbolVectorClose))
		if p.check(lexer.SymbolSeparator) {
			p.advance()
			continue
		}
		if p.check(lexer.SymbolVectorClose) {
			p.advance()
		} else {
			p.warnf(open.Line, "unterminated vector, expected ']'")
		}
		break
	}

	v := &ast.Vector{}
	for i := len(elements) - 1; i >= 0; i-- {
		v.PushFront(elements[i])
	}
	return v
}

// parseRun collects inline nodes until closer at nesting level zero, a
// paragraph break or the end of input. Parentheses that open inside the run
// are counted and kept as text. When commas is set a top-level comma also
// ends the run. A ')' at level zero always ends it.
func (p *Parser) parseRun(closer lexer.SymbolKind, commas bool) []ast.Node {
	var nodes []ast.Node
	level := 0
	for {
		sym := p.peek()
		switch sym.Kind {
		case lexer.SymbolParagraphBreak, lexer.SymbolEOF:
			return nodes
		case lexer.SymbolSeparator:
			if commas && level == 0 {
				return nodes
			}
		case lexer.SymbolClose:
			if level == 0 {
				return nodes
			}
			level--
		case lexer.SymbolOpen:
			level++
		case lexer.SymbolVectorClose:
			if closer == lexer.SymbolVectorClose && level == 0 {
				return nodes
			}
		case lexer.SymbolToken:
			nodes = append(nodes, p.parseCall())
			continue
		case lexer.SymbolDoubleQuote:
			nodes = append(nodes, p.parseLiteral())
			continue
		case lexer.SymbolVectorOpen:
			nodes = append(nodes, p.parseVector())
			continue
		}
		nodes = append(nodes, &ast.Symbol{Symbol: p.advance()})
	}
}

// content assembles nodes back to front.
func content(nodes []ast.Node) *ast.Content {
	c := &ast.Content{}
	for i := len(nodes) - 1; i >= 0; i-- {
		c.PushFront(nodes[i])
	}
	return c
}
