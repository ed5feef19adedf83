// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. It supports:
//   - R-format register arithmetic: ADD, SUB, AND, OR, XOR, SLL, SRL, SRA, SLT, SLTU
//   - I-format immediate arithmetic, loads, and JALR
//   - S-format stores, B-format branches, U-format LUI/AUIPC, J-format JAL
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500093) // ADDI x1, x0, 5
//	fmt.Printf("%s rd=%d rs1=%d imm=%d\n", insts.Name(inst), inst.Rd, inst.Rs1, inst.Imm)
package insts
