package main

import (
	"fmt"
	"os"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/compiler"
	"github.com/quartzlang/quartz/internal/diagnostics"
	"github.com/quartzlang/quartz/internal/optimizer"
	"github.com/quartzlang/quartz/internal/parser"
	"github.com/quartzlang/quartz/internal/vm"
)

// compileSource runs a source file through the parser and compiler,
// rendering a located diagnostic (source line + caret) on failure
// rather than a bare Go error, per spec.md §7.
func compileSource(path string, optimize bool) (*bytecode.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src := string(data)

	forms, err := parser.Parse(src, path)
	if err != nil {
		if located, ok := err.(diagnostics.LocatedError); ok {
			diagnostics.RenderLocated(os.Stderr, located, src)
			return nil, fmt.Errorf("parse failed")
		}
		return nil, err
	}

	prog, err := compiler.Compile(forms)
	if err != nil {
		if located, ok := err.(diagnostics.LocatedError); ok {
			diagnostics.RenderLocated(os.Stderr, located, src)
			return nil, fmt.Errorf("compile failed")
		}
		return nil, err
	}

	if optimize {
		prog = optimizer.Optimize(prog, optimizer.Default())
	}
	return prog, nil
}

// runProgram executes prog to completion, rendering a runtime error's
// call stack newest-first on failure per spec.md §7.
func runProgram(prog *bytecode.Program, args []string) error {
	machine := vm.New(prog.Functions)
	machine.SetArgs(args)
	_, err := machine.RunProgram(prog)
	if err != nil {
		if rerr, ok := err.(*vm.RuntimeError); ok {
			diagnostics.RenderCallStack(os.Stderr, rerr.Message, rerr.CallStack)
			return fmt.Errorf("runtime error")
		}
		return err
	}
	return nil
}
