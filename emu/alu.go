// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"
	"io"
)

// ALUOp selects an ALU operation.
type ALUOp uint8

// ALU operations.
const (
	ALUAdd ALUOp = iota
	ALUSub
	ALUAnd
	ALUOr
	ALUXor
	ALUSll
	ALUSrl
	ALUSra
	ALUSlt
	ALUSltu
)

// ALU evaluates RV32I integer primitives on 32-bit values.
type ALU struct {
	diag io.Writer
}

// NewALU creates a new ALU. Diagnostics about unknown operations are
// written to diag.
func NewALU(diag io.Writer) *ALU {
	if diag == nil {
		diag = io.Discard
	}
	return &ALU{diag: diag}
}

// Execute applies op to a and b and returns the 32-bit result along with
// a zero flag (result == 0). Addition and subtraction wrap modulo 2^32;
// shift counts use the low five bits of b; SRA sign-fills from bit 31;
// SLT compares two's-complement views, SLTU unsigned. An unknown op is
// reported and yields zero.
func (u *ALU) Execute(op ALUOp, a, b uint32) (uint32, bool) {
	var result uint32

	switch op {
	case ALUAdd:
		result = a + b
	case ALUSub:
		result = a - b
	case ALUAnd:
		result = a & b
	case ALUOr:
		result = a | b
	case ALUXor:
		result = a ^ b
	case ALUSll:
		result = a << (b & 0x1F)
	case ALUSrl:
		result = a >> (b & 0x1F)
	case ALUSra:
		result = uint32(int32(a) >> (b & 0x1F))
	case ALUSlt:
		if int32(a) < int32(b) {
			result = 1
		}
	case ALUSltu:
		if a < b {
			result = 1
		}
	default:
		fmt.Fprintf(u.diag, "alu: unknown operation %d\n", op)
	}

	return result, result == 0
}
