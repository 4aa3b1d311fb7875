package vm

// opBeginLoop implements spec.md §4.3: the top bindingCount values on
// the value stack are the loop's mutable bindings. Their base offset
// from stack_base is recorded, and loop_start is set to the
// instruction right after BeginLoop (already true of f.ip, since the
// caller advances ip before dispatch).
func (vm *VM) opBeginLoop(bindingCount int) error {
	f := vm.currentFrame()
	if len(vm.stack)-f.stackBase < bindingCount {
		return newRuntimeError(vm, "stack underflow")
	}
	f.loopBindingsBase = len(vm.stack) - bindingCount - f.stackBase
	f.loopBindingsCount = bindingCount
	f.loopStart = f.ip
	f.hasLoop = true
	return nil
}

// opRecur implements spec.md §4.3: pop the new values, write them into
// the recorded binding slots in order, and jump to loop_start. It is a
// backward branch within the enclosing frame, not a call.
func (vm *VM) opRecur(argCount int) error {
	f := vm.currentFrame()
	if !f.hasLoop {
		return newRuntimeError(vm, "recur used outside of a loop")
	}
	if argCount != f.loopBindingsCount {
		return newRuntimeError(vm, "recur expects %d arguments, got %d", f.loopBindingsCount, argCount)
	}
	newValues, err := vm.popN(argCount)
	if err != nil {
		return err
	}
	base := f.stackBase + f.loopBindingsBase
	for i, v := range newValues {
		vm.stack[base+i] = v
	}
	f.ip = f.loopStart
	return nil
}
