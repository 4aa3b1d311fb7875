package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
)

// parseBindingPairs validates and returns the `((pattern value) ...)`
// form shared by `let` and `loop`.
func parseBindingPairs(node ast.Node) ([]*ast.List, error) {
	bindingsList, ok := node.(*ast.List)
	if !ok {
		return nil, errAt(node.Pos(), "expected a list of bindings")
	}
	pairs := make([]*ast.List, 0, len(bindingsList.Items))
	for _, b := range bindingsList.Items {
		pair, ok := b.(*ast.List)
		if !ok || len(pair.Items) != 2 {
			return nil, errAt(b.Pos(), "each binding must be a (pattern value) pair")
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// compileBindings compiles each binding's value expression (never in
// tail position) in order, records stack_depth for GetLocal addressing,
// and binds the pattern. Returns the undo function and the count of
// value-stack slots the bindings occupy.
func (c *Compiler) compileBindings(fs *fnState, pairs []*ast.List) (func(), int, error) {
	var undos []func()
	for _, pair := range pairs {
		pattern, valueExpr := pair.Items[0], pair.Items[1]
		if err := c.compileOperand(fs, valueExpr); err != nil {
			undoAll(undos)
			return nil, 0, err
		}
		loc := localLoc(fs.nextLocal)
		fs.nextLocal++
		undo, err := bindAnyPattern(fs, pattern, loc)
		if err != nil {
			undoAll(undos)
			return nil, 0, err
		}
		undos = append(undos, undo)
	}
	n := len(pairs)
	return func() { undoAll(undos); fs.nextLocal -= n }, n, nil
}

// compileLet implements `let ((p v) ...) body`: compile bindings, then
// body (inheriting tail position), then Slide(n) to discard the
// binding slots while keeping the body's result (spec.md §4.5).
func compileLet(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 1 {
		return errAt(list.Pos(), "let expects a binding list and a body")
	}
	pairs, err := parseBindingPairs(args[0])
	if err != nil {
		return err
	}
	undo, n, err := c.compileBindings(fs, pairs)
	if err != nil {
		return err
	}
	defer undo()
	if err := c.compileBody(fs, args[1:]); err != nil {
		return err
	}
	if n > 0 {
		fs.chunk.Emit(bytecode.Slide(n))
	}
	return nil
}

// compileLoop implements `loop bindings body`: compile the initial
// bindings like let, emit BeginLoop(n) to mark the binding slots as
// the recur target, compile body in tail position (recur calls inside
// become Recur(n) via fs.loopStack), then Slide(n) to unwind.
func compileLoop(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 1 {
		return errAt(list.Pos(), "loop expects a binding list and a body")
	}
	pairs, err := parseBindingPairs(args[0])
	if err != nil {
		return err
	}
	undo, n, err := c.compileBindings(fs, pairs)
	if err != nil {
		return err
	}
	defer undo()
	fs.chunk.Emit(bytecode.BeginLoop(n))
	fs.loopStack = append(fs.loopStack, n)
	defer func() { fs.loopStack = fs.loopStack[:len(fs.loopStack)-1] }()
	if err := c.compileBody(fs, args[1:]); err != nil {
		return err
	}
	if n > 0 {
		fs.chunk.Emit(bytecode.Slide(n))
	}
	return nil
}

// compileRecur implements `(recur v ...)`: the enclosing loop's
// binding count must match arg count exactly (spec.md §4.3). Arguments
// compile in non-tail position; recur itself is only valid in tail
// position within the loop body, but that is a VM-enforced invariant
// rather than a compile-time check here since nested forms (if/cond)
// may legally contain it in their own tail slot.
func compileRecur(c *Compiler, fs *fnState, list *ast.List) error {
	if len(fs.loopStack) == 0 {
		return errAt(list.Pos(), "recur used outside of a loop")
	}
	expected := fs.loopStack[len(fs.loopStack)-1]
	args := list.Items[1:]
	if len(args) != expected {
		return errAt(list.Pos(), "recur expects %d arguments, got %d", expected, len(args))
	}
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.Recur(expected))
	return nil
}
