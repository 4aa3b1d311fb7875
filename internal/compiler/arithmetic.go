package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
)

var arithmeticOps = map[string]bytecode.Opcode{
	"+": bytecode.OpAdd, "-": bytecode.OpSub, "*": bytecode.OpMul,
	"/": bytecode.OpDiv, "%": bytecode.OpMod,
}

var comparisonOps = map[string]bytecode.Opcode{
	"<": bytecode.OpLt, "<=": bytecode.OpLeq, ">": bytecode.OpGt,
	">=": bytecode.OpGte, "==": bytecode.OpEq, "!=": bytecode.OpNeq,
}

// compileArithmetic implements spec.md §4.5: arity >= 2, left-associative
// folding — emit the first operand, then each subsequent operand
// followed by the operator.
func compileArithmetic(c *Compiler, fs *fnState, list *ast.List) error {
	op := list.Items[0].(*ast.Symbol).Name
	args := list.Items[1:]
	if len(args) < 2 {
		return errAt(list.Pos(), "%s expects at least 2 arguments, got %d", op, len(args))
	}
	if err := c.compileOperand(fs, args[0]); err != nil {
		return err
	}
	for _, a := range args[1:] {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
		fs.chunk.Emit(bytecode.Simple(arithmeticOps[op]))
	}
	return nil
}

// compileComparison implements binary comparisons: emit both operands
// then the op.
func compileComparison(c *Compiler, fs *fnState, list *ast.List) error {
	op := list.Items[0].(*ast.Symbol).Name
	args := list.Items[1:]
	if len(args) != 2 {
		return errAt(list.Pos(), "%s expects exactly 2 arguments, got %d", op, len(args))
	}
	if err := c.compileOperand(fs, args[0]); err != nil {
		return err
	}
	if err := c.compileOperand(fs, args[1]); err != nil {
		return err
	}
	fs.chunk.Emit(bytecode.Simple(comparisonOps[op]))
	return nil
}

// compileNeg implements unary negation.
func compileNeg(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 1 {
		return errAt(list.Pos(), "neg expects exactly 1 argument, got %d", len(args))
	}
	if err := c.compileOperand(fs, args[0]); err != nil {
		return err
	}
	fs.chunk.Emit(bytecode.Simple(bytecode.OpNeg))
	return nil
}

// compileOperand compiles a sub-expression that is never itself in tail
// position (spec.md §4.5: "set false at argument evaluations, condition
// evaluations, and binding right-hand sides").
func (c *Compiler) compileOperand(fs *fnState, node ast.Node) error {
	saved := fs.inTail
	fs.inTail = false
	err := c.compileForm(fs, node)
	fs.inTail = saved
	return err
}
