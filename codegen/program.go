package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProgramVersion is written into every program and checked when one is
// decoded.
const ProgramVersion = 1

// Instruction is one opcode with its immediate operands. Which operand
// fields are meaningful depends on Op.
type Instruction struct {
	Op    Opcode     `cbor:"1,keyasint"`
	Name  string     `cbor:"2,keyasint,omitempty"`
	Count int        `cbor:"3,keyasint,omitempty"`
	Uint  uint64     `cbor:"4,keyasint,omitempty"`
	Float float64    `cbor:"5,keyasint,omitempty"`
	Bool  bool       `cbor:"6,keyasint,omitempty"`
	Time  *time.Time `cbor:"7,keyasint,omitempty"`
	Str   string     `cbor:"8,keyasint,omitempty"`
}

func (in Instruction) String() string {
	switch in.Op {
	case OpAssembleParameter:
		return fmt.Sprintf("%s %s", in.Op, in.Name)
	case OpAssembleParameterMap, OpAssembleVector, OpAssembleTuple:
		return fmt.Sprintf("%s %d", in.Op, in.Count)
	case OpInvoke:
		return fmt.Sprintf("%s %s %d", in.Op, in.Name, in.Count)
	case OpPushUint:
		return fmt.Sprintf("%s %d", in.Op, in.Uint)
	case OpPushFloat:
		return fmt.Sprintf("%s %s", in.Op, strconv.FormatFloat(in.Float, 'g', -1, 64))
	case OpPushBool:
		return fmt.Sprintf("%s %t", in.Op, in.Bool)
	case OpPushTimestamp:
		if in.Time == nil {
			return in.Op.String()
		}
		return fmt.Sprintf("%s %s", in.Op, in.Time.Format(time.RFC3339))
	case OpPushString:
		return fmt.Sprintf("%s %q", in.Op, in.Str)
	}
	return in.Op.String()
}

// Program is the output of the generator: a flat instruction sequence.
type Program struct {
	Version      int           `cbor:"1,keyasint"`
	Source       string        `cbor:"2,keyasint,omitempty"`
	Instructions []Instruction `cbor:"3,keyasint"`
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Disassemble renders p one instruction per line, prefixed by its offset.
func Disassemble(p *Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; docscript program v%d\n", p.Version)
	if p.Source != "" {
		fmt.Fprintf(&sb, "; source: %s\n", p.Source)
	}
	depth := 0
	for i, in := range p.Instructions {
		if in.Op == OpInvoke && depth > 0 {
			depth--
		}
		fmt.Fprintf(&sb, "%04d  %s%s\n", i, strings.Repeat("  ", depth), in)
		if in.Op == OpEnterFrame {
			depth++
		}
	}
	return sb.String()
}
