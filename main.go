// Package main provides the entry point for rv32sim.
// rv32sim is a user-mode RV32I instruction set interpreter.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32I Instruction Set Interpreter")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] [program.hex]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --max-cycles    Cycle budget for the run")
	fmt.Println("  --start-addr    Load address of the first instruction word")
	fmt.Println("  --halt-on-zero  Halt when execution reaches an all-zero word")
	fmt.Println("  -v              Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
