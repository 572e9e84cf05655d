package hw

import "fmt"

// UnimplementedOpcodeError is returned by CPU.Step when the opcode at PC has
// no handler. The CPU state is left as it was before the fetch.
type UnimplementedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode $%02X at $%04X", e.Opcode, e.PC)
}
