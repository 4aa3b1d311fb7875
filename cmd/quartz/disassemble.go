package main

import (
	"fmt"
	"strings"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/bytecodeio"
)

// cmdDisassemble implements `quartz disassemble FILE`: FILE may be a
// `.bc` file (disassembled directly, with its `.meta.yaml` provenance
// printed first if present) or a source file (compiled, unoptimized,
// then disassembled so the output matches what the compiler actually
// emits for each form).
func cmdDisassemble(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: quartz disassemble FILE")
	}
	path := args[0]

	var prog *bytecode.Program
	if strings.HasSuffix(path, ".bc") {
		var err error
		prog, err = bytecodeio.ReadFile(path)
		if err != nil {
			return err
		}
		if meta, ok, err := bytecodeio.ReadMeta(path); err == nil && ok {
			fmt.Printf("; source: %s\n; version: %d\n; optimizer_ran: %t\n\n",
				meta.Source, meta.Version, meta.OptimizerRan)
		}
	} else {
		var err error
		prog, err = compileSource(path, false)
		if err != nil {
			return err
		}
	}

	fmt.Print(bytecode.DisassembleProgram(prog))
	return nil
}
