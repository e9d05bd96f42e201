package format

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dhamidi/docscript/ast"
	"github.com/dhamidi/docscript/codegen"
	"github.com/dhamidi/docscript/lexer"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

type jsonSymbol struct {
	Line  int    `json:"line"`
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

type jsonProgram struct {
	Version      int               `json:"version"`
	Source       string            `json:"source,omitempty"`
	Instructions []jsonInstruction `json:"instructions"`
}

type jsonInstruction struct {
	Op    string `json:"op"`
	Name  string `json:"name,omitempty"`
	Count *int   `json:"count,omitempty"`
	Value any    `json:"value,omitempty"`
}

func (e *JSONEncoder) EncodeSymbols(symbols []lexer.Symbol) error {
	out := make([]jsonSymbol, len(symbols))
	for i, s := range symbols {
		out[i] = jsonSymbol{Line: s.Line, Kind: s.Kind.String(), Value: s.Value}
	}
	return e.encode(out)
}

func (e *JSONEncoder) EncodeDocument(doc *ast.Document) error {
	return e.encode(documentToJSON(doc))
}

func (e *JSONEncoder) EncodeProgram(p *codegen.Program) error {
	out := jsonProgram{
		Version:      p.Version,
		Source:       p.Source,
		Instructions: make([]jsonInstruction, len(p.Instructions)),
	}
	for i, in := range p.Instructions {
		out.Instructions[i] = instructionToJSON(in)
	}
	return e.encode(out)
}

func instructionToJSON(in codegen.Instruction) jsonInstruction {
	ji := jsonInstruction{Op: in.Op.String()}
	count := in.Count
	switch in.Op {
	case codegen.OpAssembleParameter:
		ji.Name = in.Name
	case codegen.OpAssembleParameterMap, codegen.OpAssembleVector, codegen.OpAssembleTuple:
		ji.Count = &count
	case codegen.OpInvoke:
		ji.Name = in.Name
		ji.Count = &count
	case codegen.OpPushUint:
		ji.Value = in.Uint
	case codegen.OpPushFloat:
		ji.Value = in.Float
	case codegen.OpPushBool:
		ji.Value = in.Bool
	case codegen.OpPushTimestamp:
		if in.Time != nil {
			ji.Value = in.Time.Format(time.RFC3339)
		}
	case codegen.OpPushString:
		ji.Value = in.Str
	}
	return ji
}

func (e *JSONEncoder) encode(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
