package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("ALU", func() {
	var (
		alu  *emu.ALU
		diag *bytes.Buffer
	)

	BeforeEach(func() {
		diag = &bytes.Buffer{}
		alu = emu.NewALU(diag)
	})

	Describe("Addition and subtraction", func() {
		It("should add", func() {
			result, zero := alu.Execute(emu.ALUAdd, 5, 10)

			Expect(result).To(Equal(uint32(15)))
			Expect(zero).To(BeFalse())
		})

		It("should wrap addition modulo 2^32", func() {
			result, zero := alu.Execute(emu.ALUAdd, 0xFFFFFFFF, 1)

			Expect(result).To(Equal(uint32(0)))
			Expect(zero).To(BeTrue())
		})

		It("should wrap subtraction below zero", func() {
			result, _ := alu.Execute(emu.ALUSub, 0, 1)

			Expect(result).To(Equal(uint32(0xFFFFFFFF)))
		})
	})

	Describe("Bitwise operations", func() {
		It("should and", func() {
			result, _ := alu.Execute(emu.ALUAnd, 0xFF00FF00, 0x0FF00FF0)
			Expect(result).To(Equal(uint32(0x0F000F00)))
		})

		It("should or", func() {
			result, _ := alu.Execute(emu.ALUOr, 0xFF00FF00, 0x0FF00FF0)
			Expect(result).To(Equal(uint32(0xFFF0FFF0)))
		})

		It("should xor", func() {
			result, _ := alu.Execute(emu.ALUXor, 0xFF00FF00, 0x0FF00FF0)
			Expect(result).To(Equal(uint32(0xF0F0F0F0)))
		})
	})

	Describe("Shifts", func() {
		It("should shift left", func() {
			result, _ := alu.Execute(emu.ALUSll, 1, 4)
			Expect(result).To(Equal(uint32(16)))
		})

		It("should drop bits shifted past bit 31", func() {
			result, _ := alu.Execute(emu.ALUSll, 0x80000001, 1)
			Expect(result).To(Equal(uint32(2)))
		})

		It("should mask the shift count to five bits", func() {
			result, _ := alu.Execute(emu.ALUSll, 1, 33)
			Expect(result).To(Equal(uint32(2)))
		})

		It("should zero-fill on logical right shift", func() {
			result, _ := alu.Execute(emu.ALUSrl, 0x80000000, 4)
			Expect(result).To(Equal(uint32(0x08000000)))
		})

		It("should sign-fill on arithmetic right shift", func() {
			result, _ := alu.Execute(emu.ALUSra, 0x80000000, 1)
			Expect(result).To(Equal(uint32(0xC0000000)))
		})

		It("should keep -1 at -1 under arithmetic shift", func() {
			result, _ := alu.Execute(emu.ALUSra, 0xFFFFFFFF, 4)
			Expect(result).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should match SRL for non-negative values", func() {
			sra, _ := alu.Execute(emu.ALUSra, 0x7FFFFFFF, 7)
			srl, _ := alu.Execute(emu.ALUSrl, 0x7FFFFFFF, 7)
			Expect(sra).To(Equal(srl))
		})
	})

	Describe("Comparisons", func() {
		It("should treat -1 as less than 1 under SLT", func() {
			result, _ := alu.Execute(emu.ALUSlt, 0xFFFFFFFF, 1)
			Expect(result).To(Equal(uint32(1)))
		})

		It("should treat 0xFFFFFFFF as greater than 1 under SLTU", func() {
			result, _ := alu.Execute(emu.ALUSltu, 0xFFFFFFFF, 1)
			Expect(result).To(Equal(uint32(0)))
		})

		It("should return 0 for equal operands", func() {
			slt, _ := alu.Execute(emu.ALUSlt, 42, 42)
			sltu, _ := alu.Execute(emu.ALUSltu, 42, 42)
			Expect(slt).To(Equal(uint32(0)))
			Expect(sltu).To(Equal(uint32(0)))
		})

		It("should agree with SLTU when both operands are non-negative", func() {
			slt, _ := alu.Execute(emu.ALUSlt, 3, 7)
			sltu, _ := alu.Execute(emu.ALUSltu, 3, 7)
			Expect(slt).To(Equal(uint32(1)))
			Expect(sltu).To(Equal(uint32(1)))
		})
	})

	Describe("Unknown operations", func() {
		It("should report and return zero", func() {
			result, zero := alu.Execute(emu.ALUOp(0xFF), 1, 2)

			Expect(result).To(Equal(uint32(0)))
			Expect(zero).To(BeTrue())
			Expect(diag.String()).To(ContainSubstring("unknown operation"))
		})
	})
})
