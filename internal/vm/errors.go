// Package vm implements the stack machine that executes bytecode
// compiled by internal/compiler: tail-call frame reuse, closure
// invocation, loop/recur back-edges, and the dynamic typing discipline
// at operator boundaries (spec.md §4.1-§4.10).
package vm

import (
	"fmt"
	"strings"
)

// RuntimeError is the `{message, call_stack}` record spec.md §4.10/§7
// mandates for every runtime failure: stack underflow, unknown opcode,
// division/modulo by zero, arity mismatch, out-of-bounds indexing,
// missing function/global, type mismatch, and "no matching clause".
// There is no in-language try/catch; every runtime error halts
// execution.
type RuntimeError struct {
	Message   string
	CallStack []string // oldest first, per spec.md §7
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error: %s", e.Message)
}

func newRuntimeError(vm *VM, format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), CallStack: vm.callStack()}
}

// typeError formats the "type error: 'op' expects X, got Y" message
// spec.md §4.10 requires of every type-dispatched instruction.
func typeError(vm *VM, op, expected, got string) *RuntimeError {
	return newRuntimeError(vm, "type error: %q expects %s, got %s", op, expected, got)
}

// callStack renders the active frames oldest-first as function names.
func (vm *VM) callStack() []string {
	names := make([]string, 0, len(vm.frames))
	for _, f := range vm.frames {
		name := f.functionName
		if name == "" {
			name = "<main>"
		}
		names = append(names, name)
	}
	return names
}

// FormatCallStack renders a call stack newest-first for user-visible
// output (spec.md §7: "user output renders it newest-first").
func FormatCallStack(stack []string) string {
	var sb strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteString("  at ")
		sb.WriteString(stack[i])
		sb.WriteByte('\n')
	}
	return sb.String()
}
