package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// bindPattern destructures pat against the value already addressable at
// loc, recording each bound leaf name in fs.bindings. Supported shapes
// (spec.md §4.5): a bare symbol binds the whole value; `_` binds
// nothing; a proper list binds each element positionally; a dotted
// list binds the head elements and a LocRest for the remainder. It
// returns an undo function that restores any shadowed bindings.
func bindPattern(fs *fnState, pat ast.Node, loc ValueLocation) (func(), error) {
	switch p := pat.(type) {
	case *ast.Symbol:
		if p.Name == "_" {
			return func() {}, nil
		}
		return fs.bind(p.Name, loc), nil
	case *ast.List:
		if p.Dotted {
			return bindDottedPattern(fs, p, loc)
		}
		var undos []func()
		for i, item := range p.Items {
			undo, err := bindAnyPattern(fs, item, elementLoc(loc, i))
			if err != nil {
				undoAll(undos)
				return nil, err
			}
			undos = append(undos, undo)
		}
		return func() { undoAll(undos) }, nil
	default:
		return nil, errAt(pat.Pos(), "invalid binding pattern")
	}
}

// bindDottedPattern handles `(a b . rest)`-shaped patterns: the fixed
// head patterns followed by the tail binding. ast.List as parsed
// represents dotted lists with
// Dotted=true and the final Items entry being the tail pattern itself
// (mirroring the parser's dotted-list representation), so the fixed
// head count is len(Items)-1.
func bindDottedPattern(fs *fnState, list *ast.List, loc ValueLocation) (func(), error) {
	head := list.Items[:len(list.Items)-1]
	tail := list.Items[len(list.Items)-1]
	var undos []func()
	for i, item := range head {
		undo, err := bindAnyPattern(fs, item, elementLoc(loc, i))
		if err != nil {
			undoAll(undos)
			return nil, err
		}
		undos = append(undos, undo)
	}
	undo, err := bindAnyPattern(fs, tail, restLoc(loc, len(head)))
	if err != nil {
		undoAll(undos)
		return nil, err
	}
	undos = append(undos, undo)
	return func() { undoAll(undos) }, nil
}

// bindAnyPattern dispatches a pattern node to the dotted or plain
// binder depending on its shape.
func bindAnyPattern(fs *fnState, pat ast.Node, loc ValueLocation) (func(), error) {
	if list, ok := pat.(*ast.List); ok && list.Dotted {
		return bindDottedPattern(fs, list, loc)
	}
	return bindPattern(fs, pat, loc)
}

func undoAll(undos []func()) {
	for i := len(undos) - 1; i >= 0; i-- {
		undos[i]()
	}
}

// emitEqLiteral emits code testing whether the value already on the
// stack equals a literal pattern: the caller emits the load (LoadArg(i)
// or equivalent) first, then this appends Push(lit) and Eq.
func emitEqLiteral(chunk *bytecode.Chunk, lit ast.Node) error {
	v, err := literalToValue(lit)
	if err != nil {
		return err
	}
	chunk.Emit(bytecode.Push(v))
	chunk.Emit(bytecode.Simple(bytecode.OpEq))
	return nil
}

// emitListShapeGuard emits the shape check spec.md §4.6 step 3 requires
// for a non-literal list pattern before any of its elements are bound:
// IsList, then either ListLength == len(Items) for a proper list or
// ListLength >= head-count for a dotted one. It returns the indices of
// the JmpIfFalse instructions emitted, which the caller patches to the
// start of the next clause (appending them to failJumps alongside the
// literal-pattern checks).
func emitListShapeGuard(chunk *bytecode.Chunk, list *ast.List, loc ValueLocation) []int {
	var jumps []int
	emitLoad(chunk, loc)
	chunk.Emit(bytecode.Simple(bytecode.OpIsList))
	jumps = append(jumps, chunk.Emit(bytecode.JmpIfFalse(0)))

	if list.Dotted {
		headCount := len(list.Items) - 1
		emitLoad(chunk, loc)
		chunk.Emit(bytecode.Simple(bytecode.OpListLength))
		chunk.Emit(bytecode.Push(value.Integer(int64(headCount))))
		chunk.Emit(bytecode.Simple(bytecode.OpGte))
	} else {
		emitLoad(chunk, loc)
		chunk.Emit(bytecode.Simple(bytecode.OpListLength))
		chunk.Emit(bytecode.Push(value.Integer(int64(len(list.Items)))))
		chunk.Emit(bytecode.Simple(bytecode.OpEq))
	}
	jumps = append(jumps, chunk.Emit(bytecode.JmpIfFalse(0)))
	return jumps
}

// isLiteralPattern reports whether pat is a self-evaluating literal
// (integer/float/boolean/empty-list) or a quoted-symbol form, which
// multi-clause defun compiles as an equality test rather than a bind
// (spec.md §4.6).
func isLiteralPattern(pat ast.Node) bool {
	switch p := pat.(type) {
	case *ast.Integer, *ast.Float, *ast.Boolean:
		return true
	case *ast.Quote:
		return true
	case *ast.List:
		return len(p.Items) == 0 && !p.Dotted
	}
	return false
}
