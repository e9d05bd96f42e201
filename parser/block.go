package parser

import (
	"strings"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/lexer"
)

func (p *Parser) parseBlock() ast.Node {
	sym := p.peek()
	switch sym.Kind {
	case lexer.SymbolParagraphBreak:
		p.advance()
		if p.isStandalone(p.peek()) {
			return p.parseCall()
		}
		return p.paragraph()
	case lexer.SymbolToken:
		if p.isStandalone(sym) {
			return p.parseCall()
		}
	}
	p.warnf(sym.Line, "missing paragraph before %s", sym)
	return p.paragraph()
}

// paragraph returns the next paragraph, or nil when it would be empty.
func (p *Parser) paragraph() ast.Node {
	para := p.parseParagraph()
	if len(para.Children) == 0 {
		return nil
	}
	return para
}

// parseParagraph collects inline nodes up to the next paragraph break. Only
// directives and double quotes have structure here; any other symbol,
// punctuation included, is running text.
func (p *Parser) parseParagraph() *ast.Paragraph {
	para := &ast.Paragraph{}
	for !p.check(lexer.SymbolParagraphBreak, lexer.SymbolEOF) {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case lexer.SymbolToken:
			para.Children = append(para.Children, p.parseCall())
		case lexer.SymbolDoubleQuote:
			para.Children = append(para.Children, p.parseLiteral())
		default:
			para.Children = append(para.Children, &ast.Symbol{Symbol: p.advance()})
		}
		progress()
	}
	return para
}

// parseLiteral reads a double-quoted run. Symbols inside are kept verbatim;
// a directive name inside is dropped.
func (p *Parser) parseLiteral() ast.Node {
	open := p.advance()
	lit := &ast.Literal{}
	for {
		sym := p.peek()
		switch sym.Kind {
		case lexer.SymbolDoubleQuote:
			p.advance()
			return lit
		case lexer.SymbolParagraphBreak, lexer.SymbolEOF:
			p.warnf(open.Line, "unterminated double-quoted literal")
			return lit
		case lexer.SymbolToken:
			p.warnf(sym.Line, "directive .%s inside quotes ignored", strings.ToLower(sym.Value))
		default:
			lit.Symbols = append(lit.Symbols, sym)
		}
		p.advance()
	}
}
