package codegen

import "fmt"

// Opcode identifies an instruction of the document VM. Opcodes are grouped
// into ranges by category.
type Opcode byte

const (
	// ========================================================================
	// Frames (0x00-0x0F)
	// ========================================================================

	OpPushReturnSlot Opcode = 0x01 // Reserve a slot for one return value
	OpEnterFrame     Opcode = 0x02 // Open the argument frame of a call
	OpExitFrame      Opcode = 0x03 // Close the frame opened by the matching OpEnterFrame

	// ========================================================================
	// Assembly (0x10-0x1F)
	// ========================================================================

	OpAssembleParameter    Opcode = 0x10 // Pop a value and bind it to Name
	OpAssembleParameterMap Opcode = 0x11 // Pop Count bound parameters into one map
	OpAssembleVector       Opcode = 0x12 // Pop Count values into a vector
	OpAssembleTuple        Opcode = 0x13 // Pop Count values into a tuple

	// ========================================================================
	// Calls (0x20-0x2F)
	// ========================================================================

	OpInvoke Opcode = 0x20 // Call native function Name, filling Count return slots

	// ========================================================================
	// Literals (0x30-0x3F)
	// ========================================================================

	OpPushUint      Opcode = 0x30 // Push Uint
	OpPushFloat     Opcode = 0x31 // Push Float
	OpPushBool      Opcode = 0x32 // Push Bool
	OpPushTimestamp Opcode = 0x33 // Push Time
	OpPushString    Opcode = 0x34 // Push Str
)

var opcodeNames = map[Opcode]string{
	OpPushReturnSlot:       "PUSH_RETURN_SLOT",
	OpEnterFrame:           "ENTER_FRAME",
	OpExitFrame:            "EXIT_FRAME",
	OpAssembleParameter:    "ASSEMBLE_PARAMETER",
	OpAssembleParameterMap: "ASSEMBLE_PARAMETER_MAP",
	OpAssembleVector:       "ASSEMBLE_VECTOR",
	OpAssembleTuple:        "ASSEMBLE_TUPLE",
	OpInvoke:               "INVOKE",
	OpPushUint:             "PUSH_UINT",
	OpPushFloat:            "PUSH_FLOAT",
	OpPushBool:             "PUSH_BOOL",
	OpPushTimestamp:        "PUSH_TIMESTAMP",
	OpPushString:           "PUSH_STRING",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_%02X", byte(op))
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}
