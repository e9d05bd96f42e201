package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/lexer"
)

// LineEncoder writes one item per line: symbols as tab separated line,
// kind and value, documents as an indented tree, programs as a listing.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) EncodeSymbols(symbols []lexer.Symbol) error {
	var sb strings.Builder
	for _, s := range symbols {
		if s.Value == "" {
			fmt.Fprintf(&sb, "%d\t%s\n", s.Line, s.Kind)
			continue
		}
		fmt.Fprintf(&sb, "%d\t%s\t%q\n", s.Line, s.Kind, s.Value)
	}
	return e.write(sb.String())
}

func (e *LineEncoder) EncodeDocument(doc *ast.Document) error {
	return e.write(ast.Format(doc))
}

func (e *LineEncoder) EncodeProgram(p *codegen.Program) error {
	return e.write(codegen.Disassemble(p))
}

func (e *LineEncoder) write(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}
