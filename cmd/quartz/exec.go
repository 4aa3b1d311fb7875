package main

import (
	"fmt"

	"github.com/quartzlang/quartz/internal/bytecodeio"
)

// cmdExec implements `quartz exec FILE.bc [args...]`: load an
// already-compiled program and run it directly, skipping the
// parser/compiler entirely.
func cmdExec(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: quartz exec FILE.bc [args...]")
	}
	path, scriptArgs := args[0], args[1:]

	prog, err := bytecodeio.ReadFile(path)
	if err != nil {
		return err
	}
	return runProgram(prog, scriptArgs)
}
