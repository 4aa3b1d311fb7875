package vm

// opSlide implements spec.md §4.1's Slide(n): pop the top result, pop
// n binding values below it, push the result back. It is how `let`
// and `loop` unwind their binding slots while keeping the body's
// value.
func (vm *VM) opSlide(n int) error {
	result, err := vm.pop()
	if err != nil {
		return err
	}
	if len(vm.stack) < n {
		return newRuntimeError(vm, "stack underflow")
	}
	vm.stack = vm.stack[:len(vm.stack)-n]
	vm.push(result)
	return nil
}

// opJmpIfFalse implements spec.md §4.2: fails if the top of the value
// stack is not a boolean; pops and jumps on false, pops and falls
// through on true.
func (vm *VM) opJmpIfFalse(f *frame, addr int) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsBoolean() {
		return typeError(vm, "if", "boolean", v.Kind().String())
	}
	if !v.AsBool() {
		f.ip = addr
	}
	return nil
}

// opCheckArity implements spec.md §4.2: inspect the current frame's
// locals length; on mismatch jump to the next clause, otherwise fall
// through. This is the pattern-dispatch primitive for multi-clause
// functions.
func (vm *VM) opCheckArity(f *frame, expected, addr int) {
	if len(f.locals) != expected {
		f.ip = addr
	}
}

func (vm *VM) opLoadArg(f *frame, i int) error {
	if i < 0 || i >= len(f.locals) {
		return newRuntimeError(vm, "LoadArg(%d) out of bounds for %s (%d args)", i, f.functionName, len(f.locals))
	}
	vm.push(f.locals[i])
	return nil
}

func (vm *VM) opGetLocal(f *frame, pos int) error {
	idx := f.stackBase + pos
	if idx < 0 || idx >= len(vm.stack) {
		return newRuntimeError(vm, "GetLocal(%d) out of bounds", pos)
	}
	vm.push(vm.stack[idx])
	return nil
}

func (vm *VM) opSetLocal(f *frame, pos int) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	idx := f.stackBase + pos
	if idx < 0 || idx >= len(vm.stack) {
		return newRuntimeError(vm, "SetLocal(%d) out of bounds", pos)
	}
	vm.stack[idx] = v
	return nil
}

func (vm *VM) opLoadCaptured(f *frame, i int) error {
	if i < 0 || i >= len(f.captured) {
		return newRuntimeError(vm, "LoadCaptured(%d) out of bounds for %s", i, f.functionName)
	}
	vm.push(f.captured[i])
	return nil
}

func (vm *VM) opLoadGlobal(name string) error {
	v, ok := vm.globals[name]
	if !ok {
		return newRuntimeError(vm, "undefined global %q", name)
	}
	vm.push(v)
	return nil
}

func (vm *VM) opStoreGlobal(name string) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.globals[name] = v
	return nil
}
