// Command quartz is the command-line entry point for the Lisp
// implemented by this module: it drives source or bytecode files
// through the parser, compiler, optimizer, and VM, the same way
// cmd/funxy drives its own pipeline, down to the manual os.Args
// dispatch and panic-recovery wrapper (see original cmd/funxy/main.go).
package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  quartz run FILE.lisp [args...]        compile and execute a source file")
	fmt.Fprintln(os.Stderr, "  quartz compile FILE.lisp -o OUT.bc    compile to a bytecode file")
	fmt.Fprintln(os.Stderr, "  quartz exec FILE.bc [args...]         execute a compiled bytecode file")
	fmt.Fprintln(os.Stderr, "  quartz repl                           start an interactive session")
	fmt.Fprintln(os.Stderr, "  quartz disassemble FILE               print disassembly (source or .bc)")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	verb, rest := os.Args[1], os.Args[2:]
	var err error
	switch verb {
	case "run":
		err = cmdRun(rest)
	case "compile":
		err = cmdCompile(rest)
	case "exec":
		err = cmdExec(rest)
	case "repl":
		err = cmdRepl(rest)
	case "disassemble", "disasm":
		err = cmdDisassemble(rest)
	case "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
