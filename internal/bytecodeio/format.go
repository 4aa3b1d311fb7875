// Package bytecodeio implements the length-prefixed binary bytecode
// file format described in spec.md §6: a "LISP" magic, a version
// byte, a function table, and the main chunk, with every integer
// little-endian and every string/nested-instruction-list
// length-prefixed. It is a pure projection of a *bytecode.Program —
// it never touches the AST, the compiler, or the VM directly.
//
// Grounded on the teacher's (funvibe/funxy) absence of a binary
// bundle format for its own VM and, for the general "versioned magic
// + length-prefixed records" shape, on original_source/src/bytecode.rs
// (see original_source/_INDEX.md), translated into Go's encoding/binary
// idiom the way mna-nenuphar's lang/compiler/asm.go encodes its own
// assembler output.
package bytecodeio

// Magic is the fixed 4-byte file header spec.md §6 mandates.
const Magic = "LISP"

// Version is the format version byte. Bumping it is a breaking change
// to the wire format; Read refuses to load any other version.
const Version = 0x07

// valueTag identifies the runtime Kind of an embedded Push value, in
// the exact order spec.md §6 specifies.
type valueTag byte

const (
	tagInteger valueTag = 0
	tagBoolean valueTag = 1
	tagList    valueTag = 2
	tagSymbol  valueTag = 3
	tagString  valueTag = 4
	tagFunction valueTag = 5
	tagClosure valueTag = 6
	tagHashMap valueTag = 7
	tagVector  valueTag = 8
	tagFloat   valueTag = 9
)
