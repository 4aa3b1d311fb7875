package bytecode

import "github.com/quartzlang/quartz/internal/value"

// Instruction is one bytecode instruction: an opcode with its operand
// inlined in the same record, per spec.md §3 ("a flat enumeration with
// an inline operand"). Not every field is used by every opcode; see the
// per-opcode comments on the constructor functions below for which
// fields are live.
type Instruction struct {
	Op Opcode

	Int    int    // PopN/Slide count, argc, index/pos, binding/required count, CheckArity's expected arity
	Addr   int    // Jmp/JmpIfFalse/CheckArity jump target (an index into the owning Chunk's Code)
	Name   string // Call/TailCall/LoadGlobal/StoreGlobal name
	Value  value.Value // Push operand
	Params []string    // MakeClosure/MakeVariadicClosure required parameter names
	Rest   string      // MakeVariadicClosure rest-parameter name
	Body   *Chunk      // MakeClosure/MakeVariadicClosure compiled body

	Line, Column int // source position, for runtime error / disassembly output
}

// Convenience constructors. Each names exactly the operands spec.md §3
// assigns to that instruction; omitted fields are left zero.

func Push(v value.Value) Instruction       { return Instruction{Op: OpPush, Value: v} }
func PopN(n int) Instruction                { return Instruction{Op: OpPopN, Int: n} }
func Slide(n int) Instruction               { return Instruction{Op: OpSlide, Int: n} }
func Simple(op Opcode) Instruction          { return Instruction{Op: op} }
func Jmp(addr int) Instruction              { return Instruction{Op: OpJmp, Addr: addr} }
func JmpIfFalse(addr int) Instruction       { return Instruction{Op: OpJmpIfFalse, Addr: addr} }
func CheckArity(expected, addr int) Instruction {
	return Instruction{Op: OpCheckArity, Int: expected, Addr: addr}
}
func Call(name string, argc int) Instruction     { return Instruction{Op: OpCall, Name: name, Int: argc} }
func TailCall(name string, argc int) Instruction { return Instruction{Op: OpTailCall, Name: name, Int: argc} }
func CallClosure(argc int) Instruction           { return Instruction{Op: OpCallClosure, Int: argc} }
func LoadArg(i int) Instruction                  { return Instruction{Op: OpLoadArg, Int: i} }
func GetLocal(pos int) Instruction               { return Instruction{Op: OpGetLocal, Int: pos} }
func SetLocal(pos int) Instruction               { return Instruction{Op: OpSetLocal, Int: pos} }
func LoadCaptured(i int) Instruction             { return Instruction{Op: OpLoadCaptured, Int: i} }
func LoadGlobal(name string) Instruction         { return Instruction{Op: OpLoadGlobal, Name: name} }
func StoreGlobal(name string) Instruction        { return Instruction{Op: OpStoreGlobal, Name: name} }
func MakeClosure(params []string, body *Chunk, capturedCount int) Instruction {
	return Instruction{Op: OpMakeClosure, Params: params, Body: body, Int: capturedCount}
}
func MakeVariadicClosure(params []string, rest string, body *Chunk, capturedCount int) Instruction {
	return Instruction{Op: OpMakeVariadicClosure, Params: params, Rest: rest, Body: body, Int: capturedCount}
}
func PackRestArgs(requiredCount int) Instruction { return Instruction{Op: OpPackRestArgs, Int: requiredCount} }
func BeginLoop(bindingCount int) Instruction      { return Instruction{Op: OpBeginLoop, Int: bindingCount} }
func Recur(argCount int) Instruction              { return Instruction{Op: OpRecur, Int: argCount} }
func MakeList(n int) Instruction                  { return Instruction{Op: OpMakeList, Int: n} }
func MakeVector(n int) Instruction                { return Instruction{Op: OpMakeVector, Int: n} }
func MakeHashMap(n int) Instruction               { return Instruction{Op: OpMakeHashMap, Int: n} }

// WithPos attaches a source position to an instruction for diagnostics.
func (i Instruction) WithPos(line, col int) Instruction {
	i.Line, i.Column = line, col
	return i
}
