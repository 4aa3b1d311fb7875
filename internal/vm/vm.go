package vm

import (
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// VM is a single-threaded stack machine: one value stack, one call
// stack (frames), a function table, and a global table, all
// single-writer (spec.md §5's concurrency model).
type VM struct {
	stack  []value.Value
	frames []*frame

	functions map[string]*bytecode.Chunk
	globals   map[string]value.Value

	// loaded tracks canonical paths already executed via RequireFile so
	// a repeated require is a no-op (spec.md §4.9).
	loaded map[string]bool

	args []string // program arguments exposed via GetArgs
}

// New creates a VM sharing the given function table (the compiled
// program's Functions map) and an empty global table.
func New(functions map[string]*bytecode.Chunk) *VM {
	return &VM{
		functions: functions,
		globals:   make(map[string]value.Value),
		loaded:    make(map[string]bool),
	}
}

// SetArgs sets the program argument vector exposed to running code via
// GetArgs (spec.md §4.9's `(current-args)`-style builtin).
func (vm *VM) SetArgs(args []string) { vm.args = args }

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (value.Value, error) {
	if len(vm.stack) == 0 {
		return value.Value{}, newRuntimeError(vm, "stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

func (vm *VM) popN(n int) ([]value.Value, error) {
	if len(vm.stack) < n {
		return nil, newRuntimeError(vm, "stack underflow")
	}
	out := make([]value.Value, n)
	copy(out, vm.stack[len(vm.stack)-n:])
	vm.stack = vm.stack[:len(vm.stack)-n]
	return out, nil
}

func (vm *VM) top() (value.Value, error) {
	if len(vm.stack) == 0 {
		return value.Value{}, newRuntimeError(vm, "stack underflow")
	}
	return vm.stack[len(vm.stack)-1], nil
}

func (vm *VM) currentFrame() *frame { return vm.frames[len(vm.frames)-1] }

// RunProgram executes a compiled Program's main chunk to completion,
// returning the final value left on the stack (or Nil if the program
// produced none before Halt).
func (vm *VM) RunProgram(p *bytecode.Program) (value.Value, error) {
	for name, chunk := range p.Functions {
		vm.functions[name] = chunk
	}
	return vm.run(p.Main, nil, nil, "<main>")
}

// run pushes a synthetic frame executing chunk with the given locals
// and captured values, and drives the fetch-decode-execute loop until
// Ret unwinds back past this frame or Halt is reached.
func (vm *VM) run(chunk *bytecode.Chunk, locals, captured []value.Value, functionName string) (value.Value, error) {
	baseFrameDepth := len(vm.frames)
	f := &frame{
		chunk:        chunk,
		locals:       locals,
		captured:     captured,
		stackBase:    len(vm.stack),
		functionName: functionName,
	}
	vm.frames = append(vm.frames, f)

	for len(vm.frames) > baseFrameDepth {
		halted, err := vm.step()
		if err != nil {
			return value.Value{}, err
		}
		if halted {
			vm.frames = vm.frames[:baseFrameDepth]
			break
		}
	}
	if len(vm.stack) > f.stackBase {
		return vm.stack[len(vm.stack)-1], nil
	}
	return value.Nil, nil
}
