package vm

import (
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// invoke runs a single-argument-list call to completion on a fresh
// transient VM sharing the current function table, the same "clone
// the function table, give each worker its own stacks" contract
// spec.md §5 assigns to the external parallel-collection runner. Since
// the Non-goals exclude a real OS thread pool, pmap/pfilter/preduce
// below call this once per element sequentially: the worker-VM
// boundary is exercised even though no goroutines cross it.
func (vm *VM) invoke(callable value.Value, args []value.Value) (value.Value, error) {
	switch {
	case callable.IsFunction():
		// opCall's own convention: pass args through untouched and let
		// the chunk's own CheckArity/PackRestArgs instructions do any
		// dispatch or rest-packing. No arity check here for the same
		// reason opCall has none: a multi-clause function's real arity
		// depends on which clause matches, decided inside the chunk.
		name := callable.AsFunction().Name
		chunk, ok := vm.functions[name]
		if !ok {
			return value.Value{}, newRuntimeError(vm, "undefined function %q", name)
		}
		worker := New(vm.functions)
		return worker.run(chunk, args, nil, name)
	case callable.IsClosure():
		cl := callable.AsClosure()
		chunk, ok := cl.Body.(*bytecode.Chunk)
		if !ok {
			return value.Value{}, newRuntimeError(vm, "malformed closure body")
		}
		required, variadic := cl.Arity()
		if variadic {
			if len(args) < required {
				return value.Value{}, newRuntimeError(vm, "arity mismatch: %s expects at least %d arguments, got %d", cl.DebugName(), required, len(args))
			}
		} else if len(args) != required {
			return value.Value{}, newRuntimeError(vm, "arity mismatch: %s expects %d arguments, got %d", cl.DebugName(), required, len(args))
		}
		captured := make([]value.Value, len(cl.Captured))
		for i, cb := range cl.Captured {
			captured[i] = cb.Value
		}
		worker := New(vm.functions)
		return worker.run(chunk, args, captured, cl.DebugName())
	default:
		return value.Value{}, typeError(vm, "call", "closure or function", callable.Kind().String())
	}
}

// opPMap implements `(pmap f list)`: apply f to every element in
// order, collecting the results into a new list.
func (vm *VM) opPMap() error {
	lst, err := vm.pop()
	if err != nil {
		return err
	}
	fn, err := vm.pop()
	if err != nil {
		return err
	}
	if !lst.IsList() {
		return typeError(vm, "pmap", "list", lst.Kind().String())
	}
	items := lst.AsList().Slice()
	out := make([]value.Value, len(items))
	for i, item := range items {
		result, err := vm.invoke(fn, []value.Value{item})
		if err != nil {
			return err
		}
		out[i] = result
	}
	vm.push(value.ListOf(out...))
	return nil
}

// opPFilter implements `(pfilter pred list)`: keep elements for which
// pred returns a strictly boolean true, matching JmpIfFalse's own
// boolean-only condition contract.
func (vm *VM) opPFilter() error {
	lst, err := vm.pop()
	if err != nil {
		return err
	}
	fn, err := vm.pop()
	if err != nil {
		return err
	}
	if !lst.IsList() {
		return typeError(vm, "pfilter", "list", lst.Kind().String())
	}
	items := lst.AsList().Slice()
	var out []value.Value
	for _, item := range items {
		result, err := vm.invoke(fn, []value.Value{item})
		if err != nil {
			return err
		}
		if !result.IsBoolean() {
			return typeError(vm, "pfilter", "a predicate returning boolean", result.Kind().String())
		}
		if result.AsBool() {
			out = append(out, item)
		}
	}
	vm.push(value.ListOf(out...))
	return nil
}

// opPReduce implements `(preduce f init list)`: fold f over list left
// to right starting from init.
func (vm *VM) opPReduce() error {
	lst, err := vm.pop()
	if err != nil {
		return err
	}
	init, err := vm.pop()
	if err != nil {
		return err
	}
	fn, err := vm.pop()
	if err != nil {
		return err
	}
	if !lst.IsList() {
		return typeError(vm, "preduce", "list", lst.Kind().String())
	}
	acc := init
	for _, item := range lst.AsList().Slice() {
		acc, err = vm.invoke(fn, []value.Value{acc, item})
		if err != nil {
			return err
		}
	}
	vm.push(acc)
	return nil
}
