package vm

import (
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

const maxFrameDepth = 4096

func (vm *VM) opCall(name string, argc int) error {
	args, err := vm.popN(argc)
	if err != nil {
		return err
	}
	chunk, ok := vm.functions[name]
	if !ok {
		return newRuntimeError(vm, "undefined function %q", name)
	}
	if len(vm.frames) >= maxFrameDepth {
		return newRuntimeError(vm, "stack overflow")
	}
	caller := vm.currentFrame()
	vm.frames = append(vm.frames, &frame{
		chunk: chunk, locals: args, stackBase: len(vm.stack),
		functionName: name, returnAddress: caller.ip, returnChunk: caller.chunk,
	})
	return nil
}

// opTailCall implements spec.md §4.2's frame-reuse contract: truncate
// the value stack to stack_base, overwrite locals/function_name/chunk
// on the *existing* frame, preserve return_address/return_chunk/
// stack_base, reset ip. No new frame is pushed, so tail-recursive
// self-calls use O(1) call-stack depth.
func (vm *VM) opTailCall(name string, argc int) error {
	args, err := vm.popN(argc)
	if err != nil {
		return err
	}
	chunk, ok := vm.functions[name]
	if !ok {
		return newRuntimeError(vm, "undefined function %q", name)
	}
	f := vm.currentFrame()
	vm.stack = vm.stack[:f.stackBase]
	f.locals = args
	f.captured = nil
	f.functionName = name
	f.chunk = chunk
	f.ip = 0
	f.hasLoop = false
	return nil
}

func (vm *VM) opCallClosure(argc int) error {
	args, err := vm.popN(argc)
	if err != nil {
		return err
	}
	callee, err := vm.pop()
	if err != nil {
		return err
	}
	if callee.IsFunction() {
		for _, a := range args {
			vm.push(a)
		}
		return vm.opCall(callee.AsFunction().Name, len(args))
	}
	if !callee.IsClosure() {
		return typeError(vm, "call", "closure or function", callee.Kind().String())
	}
	cl := callee.AsClosure()
	required, variadic := cl.Arity()
	// Rest-argument packing, if any, is done by the closure body's own
	// leading PackRestArgs instruction (emitted by compileLambda) —
	// exactly the same division of labor opCall relies on for named
	// functions. Only the arity bound is checked here.
	if variadic {
		if len(args) < required {
			return newRuntimeError(vm, "arity mismatch: %s expects at least %d arguments, got %d", cl.DebugName(), required, len(args))
		}
	} else if len(args) != required {
		return newRuntimeError(vm, "arity mismatch: %s expects %d arguments, got %d", cl.DebugName(), required, len(args))
	}
	chunk, ok := cl.Body.(*bytecode.Chunk)
	if !ok {
		return newRuntimeError(vm, "malformed closure body")
	}
	if len(vm.frames) >= maxFrameDepth {
		return newRuntimeError(vm, "stack overflow")
	}
	captured := make([]value.Value, len(cl.Captured))
	for i, cb := range cl.Captured {
		captured[i] = cb.Value
	}
	caller := vm.currentFrame()
	vm.frames = append(vm.frames, &frame{
		chunk: chunk, locals: args, captured: captured, stackBase: len(vm.stack),
		functionName: cl.DebugName(), returnAddress: caller.ip, returnChunk: caller.chunk,
	})
	return nil
}

// opApply implements the variadic-argument-list call form used by the
// metaprogramming surface: pops a list of arguments and a closure,
// then behaves like CallClosure with that list's elements as args.
func (vm *VM) opApply() error {
	argListVal, err := vm.pop()
	if err != nil {
		return err
	}
	closureVal, err := vm.pop()
	if err != nil {
		return err
	}
	if !argListVal.IsList() {
		return typeError(vm, "apply", "list", argListVal.Kind().String())
	}
	args := argListVal.AsList().Slice()
	vm.push(closureVal)
	for _, a := range args {
		vm.push(a)
	}
	return vm.opCallClosure(len(args))
}

func (vm *VM) opMakeClosure(params []string, body *bytecode.Chunk, capturedCount int) error {
	captured, err := vm.popN(capturedCount)
	if err != nil {
		return err
	}
	bindings := make([]value.CapturedBinding, capturedCount)
	for i, v := range captured {
		bindings[i] = value.CapturedBinding{Name: syntheticCaptureName(i), Value: v}
	}
	vm.push(value.NewClosure(params, nil, body, bindings))
	return nil
}

func (vm *VM) opMakeVariadicClosure(params []string, rest string, body *bytecode.Chunk, capturedCount int) error {
	captured, err := vm.popN(capturedCount)
	if err != nil {
		return err
	}
	bindings := make([]value.CapturedBinding, capturedCount)
	for i, v := range captured {
		bindings[i] = value.CapturedBinding{Name: syntheticCaptureName(i), Value: v}
	}
	restName := rest
	vm.push(value.NewClosure(params, &restName, body, bindings))
	return nil
}

func syntheticCaptureName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "__captured_" + string(digits[i])
	}
	// Falls back to a decimal expansion for the rare closure capturing
	// ten or more variables.
	var buf []byte
	n := i
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "__captured_" + string(buf)
}

func (vm *VM) opPackRestArgs(requiredCount int) error {
	f := vm.currentFrame()
	if len(f.locals) < requiredCount {
		return newRuntimeError(vm, "arity mismatch: expected at least %d arguments, got %d", requiredCount, len(f.locals))
	}
	rest := value.ListOf(f.locals[requiredCount:]...)
	locals := make([]value.Value, requiredCount+1)
	copy(locals, f.locals[:requiredCount])
	locals[requiredCount] = rest
	f.locals = locals
	return nil
}

func (vm *VM) opRet() error {
	result, err := vm.pop()
	if err != nil {
		return err
	}
	f := vm.currentFrame()
	vm.stack = vm.stack[:f.stackBase]
	vm.push(result)
	retAddr, retChunk := f.returnAddress, f.returnChunk
	vm.frames = vm.frames[:len(vm.frames)-1]
	if retChunk != nil && len(vm.frames) > 0 {
		caller := vm.currentFrame()
		caller.chunk = retChunk
		caller.ip = retAddr
	}
	return nil
}
