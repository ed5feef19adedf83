// Package main provides the command-line interface for rv32sim, a
// user-mode RV32I instruction set interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
)

// defaultProgram is the hex image used when no path is given.
const defaultProgram = "test_base.hex"

var (
	maxCycles  uint64
	startAddr  uint32
	verbose    bool
	haltOnZero bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rv32sim [program.hex]",
		Short: "rv32sim executes RV32I hex program images",
		Long: `rv32sim is a user-mode RV32I interpreter. It loads a flat image of
32-bit instruction words (one hex word per line), executes them until a
halt condition is reached, and reports the final register and memory
state.

A program halts on the sentinel 0x0000006F (jal x0, 0), on running into
an all-zero word, or when the cycle budget is exhausted.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", emu.DefaultMaxCycles,
		"cycle budget for the run")
	cmd.Flags().Uint32Var(&startAddr, "start-addr", 0,
		"load address of the first instruction word")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"trace every executed instruction")
	cmd.Flags().BoolVar(&haltOnZero, "halt-on-zero", true,
		"halt when execution reaches an all-zero word")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	path := defaultProgram
	if len(args) > 0 {
		path = args[0]
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	prog, err := loader.Load(path, startAddr, errOut)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d instructions from %s\n", len(prog.Words), path)

	e := emu.NewEmulator(
		emu.WithStdout(out),
		emu.WithStderr(errOut),
		emu.WithMaxCycles(maxCycles),
		emu.WithVerbose(verbose),
		emu.WithHaltOnZeroWord(haltOnZero),
	)
	e.LoadProgram(prog.StartAddr, prog.Words)

	reason := e.Run()

	fmt.Fprintf(out, "\nFinished after %d cycles (%s)\n", e.Cycles(), reason)
	e.DumpState(out)

	return nil
}
