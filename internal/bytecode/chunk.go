package bytecode

// Chunk is a linear sequence of instructions: a function body, a
// closure body, or the main program's top-level code. It implements
// value.CodeObject so a Closure can hold one without an import cycle
// between the value and bytecode packages (see value/closure.go).
type Chunk struct {
	Code []Instruction
	// Name is the function this chunk belongs to ("" for main/anonymous).
	Name string

	// RequiredParams and RestParam describe a named function's surface
	// arity for the metaprogramming instructions FunctionArity/
	// FunctionParams (spec.md §3's instruction list). A multi-clause
	// defun's positional __argN names (spec.md §4.6) are recorded here
	// at the clause set's max arity; RestParam is nil unless the
	// function was a single-clause variadic defun.
	RequiredParams []string
	RestParam      *string
}

// codeObject satisfies value.CodeObject.
func (*Chunk) codeObject() {}

// NewChunk returns an empty chunk.
func NewChunk(name string) *Chunk {
	return &Chunk{Name: name}
}

// Emit appends an instruction and returns its index within the chunk.
func (c *Chunk) Emit(instr Instruction) int {
	c.Code = append(c.Code, instr)
	return len(c.Code) - 1
}

// Len returns the number of instructions currently in the chunk.
func (c *Chunk) Len() int { return len(c.Code) }

// Patch overwrites the jump-target address of a previously emitted
// control-flow instruction (Jmp/JmpIfFalse/CheckArity). Used by the
// compiler to back-patch forward jumps once the target address is
// known.
func (c *Chunk) Patch(index, addr int) {
	c.Code[index].Addr = addr
}

// Program is a complete compiled unit: the function table plus the
// top-level ("main") chunk, the artefact the VM runs and the
// serializer/disassembler consume. It corresponds to spec.md §2's
// "(function table, main bytecode)".
type Program struct {
	Functions map[string]*Chunk
	Main      *Chunk
}

func NewProgram() *Program {
	return &Program{Functions: make(map[string]*Chunk), Main: NewChunk("")}
}
