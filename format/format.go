// Package format renders the products of each compiler stage for people
// and tools.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/lexer"
)

type Encoder interface {
	EncodeSymbols(symbols []lexer.Symbol) error
	EncodeDocument(doc *ast.Document) error
	EncodeProgram(p *codegen.Program) error
}

// Names lists the encoders accepted by New.
var Names = []string{"text", "json"}

// New returns the encoder called name writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text", "listing":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names)
}
