// Package optimizer implements the peephole bytecode optimizer spec.md
// §1 lists as an external collaborator of the core: constant folding,
// dead code elimination after terminators, jump-chain collapsing, and
// a handful of algebraic identities. It runs between code generation
// and execution (spec.md §2's "optional optimizer transforms bytecode
// between the last two stages") and is a pure function from one
// bytecode.Program to another — it never touches the AST or the VM.
//
// Grounded on the original Rust implementation's src/optimizer.rs (see
// original_source/_INDEX.md) and, for the general peephole-pass
// structure over a flat instruction slice, on the teacher's own
// internal/vm bytecode shape (funvibe/funxy has no standalone
// optimizer package, so the pass structure here follows
// mna-nenuphar's lang/machine assembler-level rewriting idiom of
// repeatedly running independent passes to a fixpoint).
package optimizer

import "github.com/quartzlang/quartz/internal/bytecode"

// Options selects which passes run. All default to enabled; the CLI
// (cmd/quartz compile -O0) can only skip the optimizer as a whole, not
// individual passes.
type Options struct {
	ConstantFold    bool
	DeadCode        bool
	JumpChains      bool
	AlgebraicIdents bool
}

// Default enables every pass.
func Default() Options {
	return Options{ConstantFold: true, DeadCode: true, JumpChains: true, AlgebraicIdents: true}
}

// Optimize rewrites every chunk in p (each function body, each nested
// closure body, and the main chunk) in place and returns p for
// convenience. Passes run to a fixpoint per chunk since one pass can
// expose opportunities for another (e.g. algebraic simplification
// turning an operation into a literal that constant folding then
// merges into a neighboring Push).
func Optimize(p *bytecode.Program, opts Options) *bytecode.Program {
	for _, chunk := range p.Functions {
		optimizeChunk(chunk, opts)
	}
	optimizeChunk(p.Main, opts)
	return p
}

func optimizeChunk(c *bytecode.Chunk, opts Options) {
	for _, instr := range c.Code {
		if instr.Op == bytecode.OpMakeClosure || instr.Op == bytecode.OpMakeVariadicClosure {
			optimizeChunk(instr.Body, opts)
		}
	}

	for {
		changed := false
		if opts.AlgebraicIdents && algebraicIdentities(c) {
			changed = true
		}
		if opts.ConstantFold && constantFold(c) {
			changed = true
		}
		if opts.JumpChains && collapseJumpChains(c) {
			changed = true
		}
		if opts.DeadCode && eliminateDeadCode(c) {
			changed = true
		}
		if !changed {
			return
		}
	}
}

// removeAt deletes the instruction at index i and fixes up every
// Addr field in the chunk that referenced an index past i, since
// addresses are absolute indices into c.Code. An Addr that pointed
// exactly at the removed slot is left unchanged, so it now addresses
// the instruction that followed the removed one.
func removeAt(c *bytecode.Chunk, i int) {
	c.Code = append(c.Code[:i], c.Code[i+1:]...)
	for j := range c.Code {
		if isJumpish(c.Code[j].Op) && c.Code[j].Addr > i {
			c.Code[j].Addr--
		}
	}
}

func isJumpish(op bytecode.Opcode) bool {
	return op == bytecode.OpJmp || op == bytecode.OpJmpIfFalse || op == bytecode.OpCheckArity
}
