package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a chunk as human-readable text, following the
// teacher's OFFSET LINE OPCODE operand layout (internal/vm/disasm.go in
// funvibe/funxy), adapted to our struct-per-instruction encoding instead
// of a packed byte stream.
func Disassemble(c *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)
	lastLine := -1
	for i, instr := range c.Code {
		fmt.Fprintf(&sb, "%04d ", i)
		if instr.Line != 0 && instr.Line == lastLine {
			sb.WriteString("   | ")
		} else {
			fmt.Fprintf(&sb, "%4d ", instr.Line)
			lastLine = instr.Line
		}
		sb.WriteString(describe(instr))
		sb.WriteByte('\n')
		if instr.Op == OpMakeClosure || instr.Op == OpMakeVariadicClosure {
			nested := Disassemble(instr.Body, instr.Body.Name+" (closure body)")
			for _, line := range strings.Split(strings.TrimRight(nested, "\n"), "\n") {
				sb.WriteString("       ")
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// DisassembleProgram renders every function plus main.
func DisassembleProgram(p *Program) string {
	var sb strings.Builder
	for name, chunk := range p.Functions {
		sb.WriteString(Disassemble(chunk, name))
		sb.WriteByte('\n')
	}
	sb.WriteString(Disassemble(p.Main, "main"))
	return sb.String()
}

func describe(i Instruction) string {
	switch i.Op {
	case OpPush:
		return fmt.Sprintf("%-16s %s", i.Op, i.Value.Inspect())
	case OpPopN, OpSlide, OpLoadArg, OpGetLocal, OpSetLocal, OpLoadCaptured,
		OpCallClosure, OpApply, OpMakeList, OpMakeVector, OpMakeHashMap,
		OpPackRestArgs, OpBeginLoop, OpRecur:
		return fmt.Sprintf("%-16s %d", i.Op, i.Int)
	case OpJmp, OpJmpIfFalse:
		return fmt.Sprintf("%-16s -> %04d", i.Op, i.Addr)
	case OpCheckArity:
		return fmt.Sprintf("%-16s arity=%d -> %04d", i.Op, i.Int, i.Addr)
	case OpCall, OpTailCall:
		return fmt.Sprintf("%-16s %s/%d", i.Op, i.Name, i.Int)
	case OpLoadGlobal, OpStoreGlobal:
		return fmt.Sprintf("%-16s %s", i.Op, i.Name)
	case OpMakeClosure:
		return fmt.Sprintf("%-16s params=%v captured=%d", i.Op, i.Params, i.Int)
	case OpMakeVariadicClosure:
		return fmt.Sprintf("%-16s params=%v rest=%s captured=%d", i.Op, i.Params, i.Rest, i.Int)
	default:
		return i.Op.String()
	}
}
