package main

import "fmt"

// cmdRun implements `quartz run FILE.lisp [args...]`: compile and
// execute in one step, with the optimizer on by default.
func cmdRun(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: quartz run FILE.lisp [args...]")
	}
	path, scriptArgs := args[0], args[1:]

	prog, err := compileSource(path, true)
	if err != nil {
		return err
	}
	return runProgram(prog, scriptArgs)
}
