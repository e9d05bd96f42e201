package codegen

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode encodes canonically so that equal programs encode to equal
// bytes. Timestamps keep their zone offset.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("codegen: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalProgram serializes p to CBOR bytes.
func MarshalProgram(p *Program) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// UnmarshalProgram deserializes a program and checks its version and
// opcodes.
func UnmarshalProgram(data []byte) (*Program, error) {
	var p Program
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("codegen: unmarshal program: %w", err)
	}
	if p.Version != ProgramVersion {
		return nil, fmt.Errorf("codegen: unsupported program version %d", p.Version)
	}
	for i, in := range p.Instructions {
		if !in.Op.Valid() {
			return nil, fmt.Errorf("codegen: instruction %d: unknown opcode 0x%02X", i, byte(in.Op))
		}
	}
	return &p, nil
}
