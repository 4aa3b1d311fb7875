package value

import "fmt"

// CodeObject is implemented by the bytecode package's compiled function
// body type. It is declared here, rather than importing the bytecode
// package directly, because Instruction (in package bytecode) embeds
// Value operands for Push: bytecode already depends on value, so value
// cannot depend back on bytecode. Declaring the interface here and
// letting bytecode.Chunk implement it breaks the cycle while
// keeping Closure.Body concretely typed from the bytecode package's
// point of view.
type CodeObject interface {
	codeObject()
}

// CapturedBinding is one (name, value) pair snapshotted into a closure
// at MakeClosure time, per spec.md §3 and §4.4.
type CapturedBinding struct {
	Name  string
	Value Value
}

// Closure is a shared closure record: spec.md §3's
// Closure(data) = { required_params, rest_param, body, captured }.
type Closure struct {
	RequiredParams []string
	RestParam      *string // nil if not variadic
	Body           CodeObject
	Captured       []CapturedBinding
	Name           string // display name; NewClosure leaves it "", so DebugName falls back to anonymous@<addr>
}

func (*Closure) objKind() Kind { return KindClosure }

func NewClosure(required []string, rest *string, body CodeObject, captured []CapturedBinding) Value {
	return fromObj(&Closure{RequiredParams: required, RestParam: rest, Body: body, Captured: captured})
}

func (v Value) AsClosure() *Closure { return v.obj.(*Closure) }

// IsVariadic reports whether the closure accepts a rest parameter.
func (c *Closure) IsVariadic() bool { return c.RestParam != nil }

// Arity returns the required-argument count and whether more are
// accepted (variadic).
func (c *Closure) Arity() (required int, variadic bool) {
	return len(c.RequiredParams), c.RestParam != nil
}

func (c *Closure) DebugName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("anonymous@%p", c)
}
