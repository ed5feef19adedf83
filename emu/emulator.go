// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv32sim/insts"
)

// HaltWordEncoding is the machine encoding of JAL x0, 0, an infinite
// self-loop used as the program termination sentinel.
const HaltWordEncoding uint32 = 0x0000006F

// DefaultMaxCycles bounds a run when no explicit budget is configured.
const DefaultMaxCycles uint64 = 1000

// HaltReason records why a run stopped.
type HaltReason uint8

const (
	// HaltNone means the machine has not halted.
	HaltNone HaltReason = iota
	// HaltWord means the halt sentinel was fetched.
	HaltWord
	// HaltZeroWord means execution ran into an all-zero word.
	HaltZeroWord
	// HaltMaxCycles means the cycle budget was exhausted.
	HaltMaxCycles
)

// String returns a short description of the halt reason.
func (r HaltReason) String() string {
	switch r {
	case HaltWord:
		return "halt instruction"
	case HaltZeroWord:
		return "reached uninitialized memory"
	case HaltMaxCycles:
		return "cycle budget exhausted"
	}
	return "running"
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the machine stopped on this step.
	Halted bool

	// Reason is set when Halted is true.
	Reason HaltReason
}

// Emulator executes RV32I instructions functionally. It owns one
// register file, one memory, the program counter, a cycle counter, and a
// halted flag, and drives the fetch-decode-execute loop.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	alu     *ALU

	pc         uint32
	cycles     uint64
	halted     bool
	haltReason HaltReason

	maxCycles  uint64
	verbose    bool
	haltOnZero bool

	stdout io.Writer
	stderr io.Writer
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer for the verbose trace.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithStderr sets a custom writer for diagnostics.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithMaxCycles sets the cycle budget for Run.
func WithMaxCycles(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxCycles = max
	}
}

// WithVerbose enables a per-instruction trace on stdout.
func WithVerbose(verbose bool) EmulatorOption {
	return func(e *Emulator) {
		e.verbose = verbose
	}
}

// WithHaltOnZeroWord controls whether fetching an all-zero word halts
// the machine. It defaults to true; when disabled, a zero word is
// treated as an ordinary unknown instruction.
func WithHaltOnZeroWord(halt bool) EmulatorOption {
	return func(e *Emulator) {
		e.haltOnZero = halt
	}
}

// NewEmulator creates a new RV32I emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		decoder:    insts.NewDecoder(),
		maxCycles:  DefaultMaxCycles,
		haltOnZero: true,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	// Apply options first (may set stdout/stderr)
	for _, opt := range opts {
		opt(e)
	}

	e.regFile = NewRegFile(e.stderr)
	e.memory = NewMemory()
	e.alu = NewALU(e.stderr)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// PC returns the current program counter.
func (e *Emulator) PC() uint32 {
	return e.pc
}

// Cycles returns the number of cycles consumed so far.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// Halted reports whether the machine has halted.
func (e *Emulator) Halted() bool {
	return e.halted
}

// LoadProgram writes the instruction words into memory starting at
// start, advancing by 4 per word, and sets the PC to start.
func (e *Emulator) LoadProgram(start uint32, words []uint32) {
	for i, word := range words {
		e.memory.WriteWord(start+uint32(i)*4, word)
	}
	e.pc = start
}

// Reset restores the power-on state: zeroed registers, empty memory,
// PC 0, cycle counter 0, not halted.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.memory.Clear()
	e.pc = 0
	e.cycles = 0
	e.halted = false
	e.haltReason = HaltNone
}

// Step executes a single instruction. The cycle counter advances on
// every step, including the one that detects a halt condition.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true, Reason: e.haltReason}
	}

	// 1. Fetch
	word := e.memory.ReadWord(e.pc)
	e.cycles++

	// 2. Halt checks, in order: the halt sentinel, then uninitialized
	// memory.
	if word == HaltWordEncoding {
		e.halted = true
		e.haltReason = HaltWord
		return StepResult{Halted: true, Reason: HaltWord}
	}
	if word == 0 && e.haltOnZero {
		e.halted = true
		e.haltReason = HaltZeroWord
		return StepResult{Halted: true, Reason: HaltZeroWord}
	}

	// 3. Decode
	inst := e.decoder.Decode(word)

	if e.verbose {
		fmt.Fprintf(e.stdout, "[%d] PC=0x%08X | %08X | %s\n",
			e.cycles-1, e.pc, word, insts.Name(inst))
	}

	// 4. Execute
	e.execute(inst)

	return StepResult{}
}

// Run executes instructions until a halt word, a zero word, or the
// cycle budget stops the machine, and returns the halt reason.
func (e *Emulator) Run() HaltReason {
	for !e.halted && e.cycles < e.maxCycles {
		if result := e.Step(); result.Halted {
			return result.Reason
		}
	}

	if !e.halted {
		e.halted = true
		e.haltReason = HaltMaxCycles
	}
	return e.haltReason
}

// execute dispatches one decoded instruction. Branch and jump handlers
// assign the PC themselves; everything else falls through to PC += 4.
func (e *Emulator) execute(inst *insts.Instruction) {
	switch inst.Opcode {
	case insts.OpcodeOP:
		e.executeOP(inst)
	case insts.OpcodeOPImm:
		e.executeOPImm(inst)
	case insts.OpcodeLoad:
		e.executeLoad(inst)
	case insts.OpcodeStore:
		e.executeStore(inst)
	case insts.OpcodeBranch:
		e.executeBranch(inst)
		return // PC already updated
	case insts.OpcodeJAL:
		e.executeJAL(inst)
		return // PC already updated
	case insts.OpcodeJALR:
		e.executeJALR(inst)
		return // PC already updated
	case insts.OpcodeLUI:
		// The U immediate already has its low 12 bits zero.
		e.regFile.Write(inst.Rd, uint32(inst.Imm))
	case insts.OpcodeAUIPC:
		e.regFile.Write(inst.Rd, e.pc+uint32(inst.Imm))
	default:
		fmt.Fprintf(e.stderr, "emu: unknown opcode 0x%02X at PC=0x%08X\n",
			inst.Opcode, e.pc)
	}

	e.pc += 4
}

// executeOP executes R-format register-register arithmetic.
func (e *Emulator) executeOP(inst *insts.Instruction) {
	a := e.regFile.Read(inst.Rs1)
	b := e.regFile.Read(inst.Rs2)

	var op ALUOp
	switch {
	case inst.Funct3 == 0x0 && inst.Funct7 == 0x00:
		op = ALUAdd
	case inst.Funct3 == 0x0 && inst.Funct7 == 0x20:
		op = ALUSub
	case inst.Funct3 == 0x1:
		op = ALUSll
	case inst.Funct3 == 0x2:
		op = ALUSlt
	case inst.Funct3 == 0x3:
		op = ALUSltu
	case inst.Funct3 == 0x4:
		op = ALUXor
	case inst.Funct3 == 0x5 && inst.Funct7 == 0x00:
		op = ALUSrl
	case inst.Funct3 == 0x5 && inst.Funct7 == 0x20:
		op = ALUSra
	case inst.Funct3 == 0x6:
		op = ALUOr
	case inst.Funct3 == 0x7:
		op = ALUAnd
	default:
		fmt.Fprintf(e.stderr,
			"emu: unknown R-type funct3=0x%X funct7=0x%02X at PC=0x%08X\n",
			inst.Funct3, inst.Funct7, e.pc)
		return
	}

	result, _ := e.alu.Execute(op, a, b)
	e.regFile.Write(inst.Rd, result)
}

// executeOPImm executes I-format register-immediate arithmetic. The
// sign-extended immediate is used as an unsigned bit pattern.
func (e *Emulator) executeOPImm(inst *insts.Instruction) {
	a := e.regFile.Read(inst.Rs1)
	imm := uint32(inst.Imm)

	var op ALUOp
	b := imm
	switch inst.Funct3 {
	case 0x0:
		op = ALUAdd
	case 0x1: // SLLI
		op = ALUSll
		b = imm & 0x1F
	case 0x2:
		op = ALUSlt
	case 0x3:
		op = ALUSltu
	case 0x4:
		op = ALUXor
	case 0x5:
		// SRLI and SRAI share funct3; bit 10 of the raw 12-bit
		// immediate (the top of the funct7 field) splits them.
		if (imm>>10)&0x1 == 0 {
			op = ALUSrl
		} else {
			op = ALUSra
		}
		b = imm & 0x1F
	case 0x6:
		op = ALUOr
	case 0x7:
		op = ALUAnd
	}

	result, _ := e.alu.Execute(op, a, b)
	e.regFile.Write(inst.Rd, result)
}

// executeLoad executes I-format loads. Only LW moves data; the sub-word
// widths (LB, LH, LBU, LHU) decode but are intentionally not implemented
// and leave rd untouched.
func (e *Emulator) executeLoad(inst *insts.Instruction) {
	addr := e.regFile.Read(inst.Rs1) + uint32(inst.Imm)

	if inst.Funct3 == 0x2 { // LW
		e.regFile.Write(inst.Rd, e.memory.ReadWord(addr))
	}
}

// executeStore executes S-format stores. Only SW moves data; SB and SH
// decode but are intentionally not implemented.
func (e *Emulator) executeStore(inst *insts.Instruction) {
	addr := e.regFile.Read(inst.Rs1) + uint32(inst.Imm)

	if inst.Funct3 == 0x2 { // SW
		e.memory.WriteWord(addr, e.regFile.Read(inst.Rs2))
	}
}

// executeBranch executes B-format conditional branches.
func (e *Emulator) executeBranch(inst *insts.Instruction) {
	a := e.regFile.Read(inst.Rs1)
	b := e.regFile.Read(inst.Rs2)

	var taken bool
	switch inst.Funct3 {
	case 0x0: // BEQ
		taken = a == b
	case 0x1: // BNE
		taken = a != b
	case 0x4: // BLT, signed
		taken = int32(a) < int32(b)
	case 0x5: // BGE, signed
		taken = int32(a) >= int32(b)
	default:
		fmt.Fprintf(e.stderr, "emu: unknown branch funct3=0x%X at PC=0x%08X\n",
			inst.Funct3, e.pc)
	}

	if taken {
		e.pc += uint32(inst.Imm)
	} else {
		e.pc += 4
	}
}

// executeJAL saves the return address and jumps PC-relative.
func (e *Emulator) executeJAL(inst *insts.Instruction) {
	e.regFile.Write(inst.Rd, e.pc+4)
	e.pc += uint32(inst.Imm)
}

// executeJALR branches to (rs1 + imm) with bit 0 cleared, per the
// 2-byte alignment rule. rs1 is read before rd is written, so
// JALR x1, x1, imm is well-defined.
func (e *Emulator) executeJALR(inst *insts.Instruction) {
	target := (e.regFile.Read(inst.Rs1) + uint32(inst.Imm)) & 0xFFFFFFFE
	e.regFile.Write(inst.Rd, e.pc+4)
	e.pc = target
}

// DumpState writes the cycle count, final PC, a full register dump, and
// a sparse dump of non-zero memory to w.
func (e *Emulator) DumpState(w io.Writer) {
	fmt.Fprintf(w, "Cycles: %d\n", e.cycles)
	fmt.Fprintf(w, "Final PC: 0x%08X\n", e.pc)

	fmt.Fprintln(w, "\nRegisters:")
	e.regFile.Dump(w)

	fmt.Fprintln(w, "\nMemory (non-zero):")
	if e.memory.NonZeroCount() == 0 {
		fmt.Fprintln(w, "  (nothing written)")
		return
	}
	e.memory.Dump(w)
}
