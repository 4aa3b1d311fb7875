package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/diagnostics"
	"github.com/quartzlang/quartz/internal/vm"
)

// cmdRepl implements `quartz repl`: a single VM instance evaluates one
// line at a time via vm.Eval, so functions from defun accumulate across
// inputs. Each line is compiled by a fresh compiler: a def global or a
// defmacro macro is known only within the line that defines it, and
// later lines that name it do not see it. The prompt and result echo are
// only printed when stdout is a real terminal (mattn/go-isatty), so
// piping a script into `quartz repl` behaves like a silent batch run —
// the same distinction the teacher draws around interactive vs.
// redirected output in its own builtins_term.go.
func cmdRepl(_ []string) error {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	machine := vm.New(make(map[string]*bytecode.Chunk))
	scanner := bufio.NewScanner(os.Stdin)

	for n := 1; ; n++ {
		if interactive {
			fmt.Print("quartz> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && err != io.EOF {
				return err
			}
			if interactive {
				fmt.Println()
			}
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		sourceName := fmt.Sprintf("<repl:%d>", n)
		result, err := machine.Eval(line, sourceName)
		if err != nil {
			if located, ok := err.(diagnostics.LocatedError); ok {
				diagnostics.RenderLocated(os.Stderr, located, line)
				continue
			}
			if rerr, ok := err.(*vm.RuntimeError); ok {
				diagnostics.RenderCallStack(os.Stderr, rerr.Message, rerr.CallStack)
				continue
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if interactive {
			fmt.Println(result.Inspect())
		}
	}
}
