// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"
	"io"
)

// NumRegs is the number of integer registers in the RV32I register file.
const NumRegs = 32

// RegFile represents the RV32I integer register file.
// Register x0 is hardwired to zero: it reads as 0 and ignores writes.
type RegFile struct {
	x    [NumRegs]uint32
	diag io.Writer
}

// NewRegFile creates a zero-initialized register file. Diagnostics about
// invalid register indices are written to diag.
func NewRegFile(diag io.Writer) *RegFile {
	if diag == nil {
		diag = io.Discard
	}
	return &RegFile{diag: diag}
}

// Read returns the value of register reg. Out-of-range indices are
// reported and read as zero.
func (r *RegFile) Read(reg uint8) uint32 {
	if reg >= NumRegs {
		fmt.Fprintf(r.diag, "regfile: invalid register x%d\n", reg)
		return 0
	}
	return r.x[reg]
}

// Write stores value into register reg. Writes to x0 are ignored;
// out-of-range indices are reported and leave the file unchanged.
func (r *RegFile) Write(reg uint8, value uint32) {
	if reg == 0 {
		return
	}
	if reg >= NumRegs {
		fmt.Fprintf(r.diag, "regfile: invalid register x%d\n", reg)
		return
	}
	r.x[reg] = value
}

// Reset clears all registers to zero.
func (r *RegFile) Reset() {
	r.x = [NumRegs]uint32{}
}

// Dump writes all register values to w, four per line.
func (r *RegFile) Dump(w io.Writer) {
	for i := 0; i < NumRegs; i += 4 {
		fmt.Fprintf(w, "x%02d-x%02d:", i, i+3)
		for j := i; j < i+4; j++ {
			fmt.Fprintf(w, " 0x%08X", r.x[j])
		}
		fmt.Fprintln(w)
	}
}
