package vm

import "github.com/quartzlang/quartz/internal/bytecode"

// step executes the instruction at the current frame's ip, advancing
// ip first so every control-flow opcode (Jmp, Call, Ret, Recur, ...)
// can overwrite it with an absolute target. It returns halted=true
// only for OpHalt; any other opcode either falls through to the next
// instruction or has already rewritten ip itself.
func (vm *VM) step() (halted bool, err error) {
	f := vm.currentFrame()
	if f.ip < 0 || f.ip >= len(f.chunk.Code) {
		return false, newRuntimeError(vm, "instruction pointer ran past the end of %q", f.functionName)
	}
	instr := f.chunk.Code[f.ip]
	f.ip++

	switch instr.Op {
	case bytecode.OpHalt:
		return true, nil

	// Stack
	case bytecode.OpPush:
		vm.push(instr.Value)
	case bytecode.OpPopN:
		_, err = vm.popN(instr.Int)
	case bytecode.OpSlide:
		err = vm.opSlide(instr.Int)

	// Arithmetic / compare
	case bytecode.OpAdd:
		err = vm.opAdd()
	case bytecode.OpSub:
		err = vm.opSub()
	case bytecode.OpMul:
		err = vm.opMul()
	case bytecode.OpDiv:
		err = vm.opDiv()
	case bytecode.OpMod:
		err = vm.opMod()
	case bytecode.OpNeg:
		err = vm.opNeg()
	case bytecode.OpLeq:
		err = vm.opLeq()
	case bytecode.OpLt:
		err = vm.opLt()
	case bytecode.OpGt:
		err = vm.opGt()
	case bytecode.OpGte:
		err = vm.opGte()
	case bytecode.OpEq:
		err = vm.opEq()
	case bytecode.OpNeq:
		err = vm.opNeq()

	// Control
	case bytecode.OpJmp:
		f.ip = instr.Addr
	case bytecode.OpJmpIfFalse:
		err = vm.opJmpIfFalse(f, instr.Addr)
	case bytecode.OpCheckArity:
		vm.opCheckArity(f, instr.Int, instr.Addr)
	case bytecode.OpRet:
		err = vm.opRet()
	case bytecode.OpNoMatchingClause:
		err = newRuntimeError(vm, "no matching clause for %s with %d arguments", f.functionName, len(f.locals))

	// Call
	case bytecode.OpCall:
		err = vm.opCall(instr.Name, instr.Int)
	case bytecode.OpTailCall:
		err = vm.opTailCall(instr.Name, instr.Int)
	case bytecode.OpCallClosure:
		err = vm.opCallClosure(instr.Int)
	case bytecode.OpApply:
		err = vm.opApply()

	// Frame access
	case bytecode.OpLoadArg:
		err = vm.opLoadArg(f, instr.Int)
	case bytecode.OpGetLocal:
		err = vm.opGetLocal(f, instr.Int)
	case bytecode.OpSetLocal:
		err = vm.opSetLocal(f, instr.Int)
	case bytecode.OpLoadCaptured:
		err = vm.opLoadCaptured(f, instr.Int)
	case bytecode.OpLoadGlobal:
		err = vm.opLoadGlobal(instr.Name)
	case bytecode.OpStoreGlobal:
		err = vm.opStoreGlobal(instr.Name)

	// Closure construction
	case bytecode.OpMakeClosure:
		err = vm.opMakeClosure(instr.Params, instr.Body, instr.Int)
	case bytecode.OpMakeVariadicClosure:
		err = vm.opMakeVariadicClosure(instr.Params, instr.Rest, instr.Body, instr.Int)
	case bytecode.OpPackRestArgs:
		err = vm.opPackRestArgs(instr.Int)

	// Loop
	case bytecode.OpBeginLoop:
		err = vm.opBeginLoop(instr.Int)
	case bytecode.OpRecur:
		err = vm.opRecur(instr.Int)

	// List data
	case bytecode.OpCons:
		err = vm.opCons()
	case bytecode.OpCar:
		err = vm.opCar()
	case bytecode.OpCdr:
		err = vm.opCdr()
	case bytecode.OpMakeList:
		err = vm.opMakeList(instr.Int)
	case bytecode.OpAppend:
		err = vm.opAppend()
	case bytecode.OpListRef:
		err = vm.opListRef()
	case bytecode.OpListLength:
		err = vm.opListLength()

	// Vector data
	case bytecode.OpMakeVector:
		err = vm.opMakeVector(instr.Int)
	case bytecode.OpVectorGet:
		err = vm.opVectorGet()
	case bytecode.OpVectorSet:
		err = vm.opVectorSet()
	case bytecode.OpVectorPush:
		err = vm.opVectorPush()
	case bytecode.OpVectorPop:
		err = vm.opVectorPop()
	case bytecode.OpVectorLength:
		err = vm.opVectorLength()

	// HashMap data
	case bytecode.OpMakeHashMap:
		err = vm.opMakeHashMap(instr.Int)
	case bytecode.OpHashMapGet:
		err = vm.opHashMapGet()
	case bytecode.OpHashMapSet:
		err = vm.opHashMapSet()
	case bytecode.OpHashMapKeys:
		err = vm.opHashMapKeys()
	case bytecode.OpHashMapValues:
		err = vm.opHashMapValues()
	case bytecode.OpHashMapContainsKey:
		err = vm.opHashMapContainsKey()

	default:
		err = vm.stepExtended(instr)
	}
	return false, err
}
