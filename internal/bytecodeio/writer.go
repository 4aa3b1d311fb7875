package bytecodeio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// Write serializes p to w in the format spec.md §6 defines: magic,
// version byte, function count, then each (name, instructions) pair,
// then the main chunk's instructions.
func Write(w io.Writer, p *bytecode.Program) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if err := writeByte(w, Version); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(p.Functions))); err != nil {
		return err
	}
	for name, chunk := range p.Functions {
		if err := writeString(w, name); err != nil {
			return err
		}
		if err := writeChunk(w, chunk); err != nil {
			return fmt.Errorf("function %q: %w", name, err)
		}
	}
	if err := writeChunk(w, p.Main); err != nil {
		return fmt.Errorf("main: %w", err)
	}
	return nil
}

// writeChunk persists exactly what spec.md §6 specifies for a function
// record: an instruction count followed by the instructions
// themselves. A Chunk's RequiredParams/RestParam (used at compile time
// for FunctionArity/FunctionParams and by the disassembler) are
// compiler-internal bookkeeping outside the documented wire format and
// are not round-tripped; see bytecode.ChunksEqual.
func writeChunk(w io.Writer, c *bytecode.Chunk) error {
	if err := writeUint32(w, uint32(len(c.Code))); err != nil {
		return err
	}
	for _, instr := range c.Code {
		if err := writeInstruction(w, instr); err != nil {
			return err
		}
	}
	return nil
}

func writeInstruction(w io.Writer, i bytecode.Instruction) error {
	if !i.Op.Valid() {
		return fmt.Errorf("refusing to serialize unknown opcode %d", i.Op)
	}
	if err := writeByte(w, byte(i.Op)); err != nil {
		return err
	}
	switch i.Op {
	case bytecode.OpPush:
		return writeValue(w, i.Value)
	case bytecode.OpPopN, bytecode.OpSlide, bytecode.OpLoadArg, bytecode.OpGetLocal,
		bytecode.OpSetLocal, bytecode.OpLoadCaptured, bytecode.OpCallClosure,
		bytecode.OpMakeList, bytecode.OpMakeVector, bytecode.OpMakeHashMap,
		bytecode.OpPackRestArgs, bytecode.OpBeginLoop, bytecode.OpRecur:
		return writeInt(w, i.Int)
	case bytecode.OpJmp, bytecode.OpJmpIfFalse:
		return writeInt(w, i.Addr)
	case bytecode.OpCheckArity:
		if err := writeInt(w, i.Int); err != nil {
			return err
		}
		return writeInt(w, i.Addr)
	case bytecode.OpCall, bytecode.OpTailCall:
		if err := writeString(w, i.Name); err != nil {
			return err
		}
		return writeInt(w, i.Int)
	case bytecode.OpLoadGlobal, bytecode.OpStoreGlobal:
		return writeString(w, i.Name)
	case bytecode.OpMakeClosure:
		if err := writeStrings(w, i.Params); err != nil {
			return err
		}
		if err := writeChunk(w, i.Body); err != nil {
			return err
		}
		return writeInt(w, i.Int)
	case bytecode.OpMakeVariadicClosure:
		if err := writeStrings(w, i.Params); err != nil {
			return err
		}
		if err := writeString(w, i.Rest); err != nil {
			return err
		}
		if err := writeChunk(w, i.Body); err != nil {
			return err
		}
		return writeInt(w, i.Int)
	default:
		return nil // no operand
	}
}

func writeValue(w io.Writer, v value.Value) error {
	switch v.Kind() {
	case value.KindInteger:
		if err := writeByte(w, byte(tagInteger)); err != nil {
			return err
		}
		return writeInt64(w, v.AsInt())
	case value.KindFloat:
		if err := writeByte(w, byte(tagFloat)); err != nil {
			return err
		}
		return writeFloat64(w, v.AsFloat())
	case value.KindBoolean:
		if err := writeByte(w, byte(tagBoolean)); err != nil {
			return err
		}
		b := byte(0)
		if v.AsBool() {
			b = 1
		}
		return writeByte(w, b)
	case value.KindString:
		if err := writeByte(w, byte(tagString)); err != nil {
			return err
		}
		return writeString(w, v.AsString())
	case value.KindSymbol:
		if err := writeByte(w, byte(tagSymbol)); err != nil {
			return err
		}
		return writeString(w, v.AsSymbol())
	case value.KindFunction:
		if err := writeByte(w, byte(tagFunction)); err != nil {
			return err
		}
		return writeString(w, v.AsFunction().Name)
	case value.KindList:
		if err := writeByte(w, byte(tagList)); err != nil {
			return err
		}
		items := v.AsList().Slice()
		if err := writeUint32(w, uint32(len(items))); err != nil {
			return err
		}
		for _, item := range items {
			if err := writeValue(w, item); err != nil {
				return err
			}
		}
		return nil
	case value.KindVector:
		if err := writeByte(w, byte(tagVector)); err != nil {
			return err
		}
		items := v.AsVector().Slice()
		if err := writeUint32(w, uint32(len(items))); err != nil {
			return err
		}
		for _, item := range items {
			if err := writeValue(w, item); err != nil {
				return err
			}
		}
		return nil
	case value.KindHashMap:
		if err := writeByte(w, byte(tagHashMap)); err != nil {
			return err
		}
		h := v.AsHashMap()
		keys := h.Keys()
		if err := writeUint32(w, uint32(len(keys))); err != nil {
			return err
		}
		for _, k := range keys {
			if err := writeString(w, k); err != nil {
				return err
			}
			val, _ := h.Get(k)
			if err := writeValue(w, val); err != nil {
				return err
			}
		}
		return nil
	case value.KindClosure:
		if err := writeByte(w, byte(tagClosure)); err != nil {
			return err
		}
		return writeClosure(w, v.AsClosure())
	default:
		return fmt.Errorf("opaque runtime handles are not serializable")
	}
}

func writeClosure(w io.Writer, cl *value.Closure) error {
	if err := writeStrings(w, cl.RequiredParams); err != nil {
		return err
	}
	hasRest := byte(0)
	rest := ""
	if cl.RestParam != nil {
		hasRest = 1
		rest = *cl.RestParam
	}
	if err := writeByte(w, hasRest); err != nil {
		return err
	}
	if hasRest == 1 {
		if err := writeString(w, rest); err != nil {
			return err
		}
	}
	body, ok := cl.Body.(*bytecode.Chunk)
	if !ok {
		return fmt.Errorf("closure body is not a *bytecode.Chunk")
	}
	if err := writeChunk(w, body); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(cl.Captured))); err != nil {
		return err
	}
	for _, cb := range cl.Captured {
		if err := writeString(w, cb.Name); err != nil {
			return err
		}
		if err := writeValue(w, cb.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeStrings(w io.Writer, ss []string) error {
	if err := writeUint32(w, uint32(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeInt(w io.Writer, n int) error  { return writeUint32(w, uint32(int32(n))) }
func writeInt64(w io.Writer, n int64) error {
	return binary.Write(w, binary.LittleEndian, n)
}
func writeFloat64(w io.Writer, f float64) error {
	return binary.Write(w, binary.LittleEndian, f)
}
func writeUint32(w io.Writer, n uint32) error {
	return binary.Write(w, binary.LittleEndian, n)
}
func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}
