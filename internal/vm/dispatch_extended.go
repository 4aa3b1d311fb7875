package vm

import "github.com/quartzlang/quartz/internal/bytecode"

// stepExtended dispatches the opcodes step's switch leaves to its
// default case: predicates/conversions, strings, metaprogramming,
// side effects, and the parallel collection primitives. Split into its
// own file purely to keep step.go's primary dispatch (stack, control,
// call, frame access, data) readable; this is still the same flat
// switch-per-instruction design, just continued.
func (vm *VM) stepExtended(instr bytecode.Instruction) error {
	switch instr.Op {
	// Predicates / conversions
	case bytecode.OpIsInteger:
		return vm.opIsInteger()
	case bytecode.OpIsFloat:
		return vm.opIsFloat()
	case bytecode.OpIsNumber:
		return vm.opIsNumber()
	case bytecode.OpIsBoolean:
		return vm.opIsBoolean()
	case bytecode.OpIsList:
		return vm.opIsList()
	case bytecode.OpIsString:
		return vm.opIsString()
	case bytecode.OpIsSymbol:
		return vm.opIsSymbol()
	case bytecode.OpIsFunction:
		return vm.opIsFunction()
	case bytecode.OpIsClosure:
		return vm.opIsClosure()
	case bytecode.OpIsProcedure:
		return vm.opIsProcedure()
	case bytecode.OpIsVector:
		return vm.opIsVector()
	case bytecode.OpIsHashMap:
		return vm.opIsHashMap()
	case bytecode.OpSymbolToString:
		return vm.opSymbolToString()
	case bytecode.OpStringToSymbol:
		return vm.opStringToSymbol()
	case bytecode.OpStringToNumber:
		return vm.opStringToNumber()
	case bytecode.OpNumberToString:
		return vm.opNumberToString()
	case bytecode.OpIntToFloat:
		return vm.opIntToFloat()
	case bytecode.OpFloatToInt:
		return vm.opFloatToInt()
	case bytecode.OpListToVector:
		return vm.opListToVector()
	case bytecode.OpVectorToList:
		return vm.opVectorToList()
	case bytecode.OpStringToList:
		return vm.opStringToList()
	case bytecode.OpListToString:
		return vm.opListToString()

	// String
	case bytecode.OpStringLength:
		return vm.opStringLength()
	case bytecode.OpSubstring:
		return vm.opSubstring()
	case bytecode.OpStringAppend:
		return vm.opStringAppend()
	case bytecode.OpCharCode:
		return vm.opCharCode()
	case bytecode.OpStringSplit:
		return vm.opStringSplit()
	case bytecode.OpStringJoin:
		return vm.opStringJoin()
	case bytecode.OpStringTrim:
		return vm.opStringTrim()
	case bytecode.OpStringReplace:
		return vm.opStringReplace()
	case bytecode.OpStringStartsWith:
		return vm.opStringStartsWith()
	case bytecode.OpStringEndsWith:
		return vm.opStringEndsWith()
	case bytecode.OpStringContains:
		return vm.opStringContains()
	case bytecode.OpStringUpcase:
		return vm.opStringUpcase()
	case bytecode.OpStringDowncase:
		return vm.opStringDowncase()
	case bytecode.OpFormat:
		return vm.opFormat()

	// Metaprogramming
	case bytecode.OpEval:
		return vm.opEval()
	case bytecode.OpFunctionArity:
		return vm.opFunctionArity()
	case bytecode.OpFunctionParams:
		return vm.opFunctionParams()
	case bytecode.OpClosureCaptured:
		return vm.opClosureCaptured()
	case bytecode.OpFunctionName:
		return vm.opFunctionName()
	case bytecode.OpTypeOf:
		return vm.opTypeOf()
	case bytecode.OpGenSym:
		return vm.opGenSym()

	// Side effects
	case bytecode.OpPrint:
		return vm.opPrint()
	case bytecode.OpReadFile:
		return vm.opReadFile()
	case bytecode.OpWriteFile:
		return vm.opWriteFile()
	case bytecode.OpWriteBinaryFile:
		return vm.opWriteBinaryFile()
	case bytecode.OpFileExists:
		return vm.opFileExists()
	case bytecode.OpLoadFile:
		return vm.opLoadFile()
	case bytecode.OpRequireFile:
		return vm.opRequireFile()
	case bytecode.OpGetArgs:
		return vm.opGetArgs()
	case bytecode.OpCurrentTimestamp:
		return vm.opCurrentTimestamp()
	case bytecode.OpFormatTimestamp:
		return vm.opFormatTimestamp()

	// Parallel collection primitives
	case bytecode.OpPMap:
		return vm.opPMap()
	case bytecode.OpPFilter:
		return vm.opPFilter()
	case bytecode.OpPReduce:
		return vm.opPReduce()
	}
	return newRuntimeError(vm, "unimplemented opcode %s", instr.Op)
}
