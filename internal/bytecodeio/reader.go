package bytecodeio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// Read deserializes a Program from r, validating the magic and
// version byte first. Malformed input (short reads, an unknown
// opcode byte, a bad version) is a runtime error per spec.md §7
// ("malformed bytecode during deserialization").
func Read(r io.Reader) (*bytecode.Program, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("not a quartz bytecode file (bad magic %q)", magic)
	}
	version, err := readByte(r)
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("unsupported bytecode version %d (expected %d)", version, Version)
	}
	fnCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading function count: %w", err)
	}
	functions := make(map[string]*bytecode.Chunk, fnCount)
	for i := uint32(0); i < fnCount; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("reading function name: %w", err)
		}
		chunk, err := readChunk(r, name)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", name, err)
		}
		functions[name] = chunk
	}
	main, err := readChunk(r, "")
	if err != nil {
		return nil, fmt.Errorf("main: %w", err)
	}
	return &bytecode.Program{Functions: functions, Main: main}, nil
}

func readChunk(r io.Reader, name string) (*bytecode.Chunk, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	c := bytecode.NewChunk(name)
	for i := uint32(0); i < count; i++ {
		instr, err := readInstruction(r)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		c.Emit(instr)
	}
	return c, nil
}

func readInstruction(r io.Reader) (bytecode.Instruction, error) {
	opByte, err := readByte(r)
	if err != nil {
		return bytecode.Instruction{}, err
	}
	op := bytecode.Opcode(opByte)
	if !op.Valid() {
		return bytecode.Instruction{}, fmt.Errorf("unknown opcode byte %d", opByte)
	}
	switch op {
	case bytecode.OpPush:
		v, err := readValue(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.Push(v), nil
	case bytecode.OpPopN:
		n, err := readInt(r)
		return bytecode.PopN(n), err
	case bytecode.OpSlide:
		n, err := readInt(r)
		return bytecode.Slide(n), err
	case bytecode.OpLoadArg:
		n, err := readInt(r)
		return bytecode.LoadArg(n), err
	case bytecode.OpGetLocal:
		n, err := readInt(r)
		return bytecode.GetLocal(n), err
	case bytecode.OpSetLocal:
		n, err := readInt(r)
		return bytecode.SetLocal(n), err
	case bytecode.OpLoadCaptured:
		n, err := readInt(r)
		return bytecode.LoadCaptured(n), err
	case bytecode.OpCallClosure:
		n, err := readInt(r)
		return bytecode.CallClosure(n), err
	case bytecode.OpMakeList:
		n, err := readInt(r)
		return bytecode.MakeList(n), err
	case bytecode.OpMakeVector:
		n, err := readInt(r)
		return bytecode.MakeVector(n), err
	case bytecode.OpMakeHashMap:
		n, err := readInt(r)
		return bytecode.MakeHashMap(n), err
	case bytecode.OpPackRestArgs:
		n, err := readInt(r)
		return bytecode.PackRestArgs(n), err
	case bytecode.OpBeginLoop:
		n, err := readInt(r)
		return bytecode.BeginLoop(n), err
	case bytecode.OpRecur:
		n, err := readInt(r)
		return bytecode.Recur(n), err
	case bytecode.OpJmp:
		addr, err := readInt(r)
		return bytecode.Jmp(addr), err
	case bytecode.OpJmpIfFalse:
		addr, err := readInt(r)
		return bytecode.JmpIfFalse(addr), err
	case bytecode.OpCheckArity:
		expected, err := readInt(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		addr, err := readInt(r)
		return bytecode.CheckArity(expected, addr), err
	case bytecode.OpCall:
		name, err := readString(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		argc, err := readInt(r)
		return bytecode.Call(name, argc), err
	case bytecode.OpTailCall:
		name, err := readString(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		argc, err := readInt(r)
		return bytecode.TailCall(name, argc), err
	case bytecode.OpLoadGlobal:
		name, err := readString(r)
		return bytecode.LoadGlobal(name), err
	case bytecode.OpStoreGlobal:
		name, err := readString(r)
		return bytecode.StoreGlobal(name), err
	case bytecode.OpMakeClosure:
		params, err := readStrings(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		body, err := readChunk(r, "")
		if err != nil {
			return bytecode.Instruction{}, err
		}
		capturedCount, err := readInt(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.MakeClosure(params, body, capturedCount), nil
	case bytecode.OpMakeVariadicClosure:
		params, err := readStrings(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		rest, err := readString(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		body, err := readChunk(r, "")
		if err != nil {
			return bytecode.Instruction{}, err
		}
		capturedCount, err := readInt(r)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.MakeVariadicClosure(params, rest, body, capturedCount), nil
	default:
		return bytecode.Simple(op), nil
	}
}

func readValue(r io.Reader) (value.Value, error) {
	tagByte, err := readByte(r)
	if err != nil {
		return value.Value{}, err
	}
	switch valueTag(tagByte) {
	case tagInteger:
		n, err := readInt64(r)
		return value.Integer(n), err
	case tagFloat:
		f, err := readFloat64(r)
		return value.Float(f), err
	case tagBoolean:
		b, err := readByte(r)
		return value.Boolean(b != 0), err
	case tagString:
		s, err := readString(r)
		return value.String(s), err
	case tagSymbol:
		s, err := readString(r)
		return value.Symbol(s), err
	case tagFunction:
		s, err := readString(r)
		return value.Function(s), err
	case tagList:
		n, err := readUint32(r)
		if err != nil {
			return value.Value{}, err
		}
		items := make([]value.Value, n)
		for i := range items {
			items[i], err = readValue(r)
			if err != nil {
				return value.Value{}, err
			}
		}
		return value.ListOf(items...), nil
	case tagVector:
		n, err := readUint32(r)
		if err != nil {
			return value.Value{}, err
		}
		items := make([]value.Value, n)
		for i := range items {
			items[i], err = readValue(r)
			if err != nil {
				return value.Value{}, err
			}
		}
		return value.NewVector(items), nil
	case tagHashMap:
		n, err := readUint32(r)
		if err != nil {
			return value.Value{}, err
		}
		entries := make(map[string]value.Value, n)
		for i := uint32(0); i < n; i++ {
			k, err := readString(r)
			if err != nil {
				return value.Value{}, err
			}
			v, err := readValue(r)
			if err != nil {
				return value.Value{}, err
			}
			entries[k] = v
		}
		return value.NewHashMap(entries), nil
	case tagClosure:
		return readClosure(r)
	default:
		return value.Value{}, fmt.Errorf("unknown value type tag %d", tagByte)
	}
}

func readClosure(r io.Reader) (value.Value, error) {
	params, err := readStrings(r)
	if err != nil {
		return value.Value{}, err
	}
	hasRest, err := readByte(r)
	if err != nil {
		return value.Value{}, err
	}
	var rest *string
	if hasRest == 1 {
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		rest = &s
	}
	body, err := readChunk(r, "")
	if err != nil {
		return value.Value{}, err
	}
	capturedCount, err := readUint32(r)
	if err != nil {
		return value.Value{}, err
	}
	captured := make([]value.CapturedBinding, capturedCount)
	for i := range captured {
		name, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		v, err := readValue(r)
		if err != nil {
			return value.Value{}, err
		}
		captured[i] = value.CapturedBinding{Name: name, Value: v}
	}
	return value.NewClosure(params, rest, body, captured), nil
}

func readStrings(r io.Reader) ([]string, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		out[i], err = readString(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readInt(r io.Reader) (int, error) {
	n, err := readUint32(r)
	return int(int32(n)), err
}

func readInt64(r io.Reader) (int64, error) {
	var n int64
	err := binary.Read(r, binary.LittleEndian, &n)
	return n, err
}

func readFloat64(r io.Reader) (float64, error) {
	var f float64
	err := binary.Read(r, binary.LittleEndian, &f)
	return f, err
}

func readUint32(r io.Reader) (uint32, error) {
	var n uint32
	err := binary.Read(r, binary.LittleEndian, &n)
	return n, err
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
