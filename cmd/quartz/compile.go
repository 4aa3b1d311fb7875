package main

import (
	"fmt"

	"github.com/quartzlang/quartz/internal/bytecodeio"
)

// cmdCompile implements `quartz compile FILE.lisp -o OUT.bc [-O0]`: it
// writes the serialized bytecode plus a best-effort `.meta.yaml`
// provenance sidecar next to it (bytecodeio.WriteMeta), never required
// to execute the program.
func cmdCompile(args []string) error {
	var src, out string
	optimize := true

	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a path", args[i])
			}
			out = args[i+1]
			i++
		case "-O0":
			optimize = false
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) < 1 {
		return fmt.Errorf("usage: quartz compile FILE.lisp -o OUT.bc [-O0]")
	}
	src = positional[0]
	if out == "" {
		out = src + ".bc"
	}

	prog, err := compileSource(src, optimize)
	if err != nil {
		return err
	}
	if err := bytecodeio.WriteFile(out, prog); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := bytecodeio.WriteMeta(out, bytecodeio.Meta{
		Source:       src,
		Version:      int(bytecodeio.Version),
		OptimizerRan: optimize,
	}); err != nil {
		fmt.Println("warning: could not write build provenance sidecar:", err)
	}
	return nil
}
