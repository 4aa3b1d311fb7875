package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// compileQuasiquoteForm implements `(quasiquote x)`, equivalent to the
// `` `x `` reader macro handled by ast.Quasiquote.
func compileQuasiquoteForm(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 1 {
		return errAt(list.Pos(), "quasiquote expects exactly 1 argument, got %d", len(args))
	}
	return c.compileQuasiquote(fs, args[0])
}

// compileQuasiquote implements spec.md §4.5: a subtree with no
// unquote/unquote-splicing anywhere folds to a single Push of the
// literal value, exactly like `quote`. Otherwise an `(unquote x)`
// element compiles x directly; an `(unquote-splicing x)` element
// requires runtime list concatenation, so a containing list switches
// to building its result by accumulating `MakeList(1)` (for plain
// elements) and `Append` (for both kinds) starting from Nil.
func (c *Compiler) compileQuasiquote(fs *fnState, node ast.Node) error {
	if !containsUnquote(node) {
		return c.compileQuote(fs, node)
	}
	switch n := node.(type) {
	case *ast.Unquote:
		return c.compileOperand(fs, n.Value)
	case *ast.UnquoteSplicing:
		return errAt(n.Pos(), "unquote-splicing is only valid as a list element")
	case *ast.List:
		return c.compileQuasiquoteList(fs, n)
	default:
		return c.compileQuote(fs, node)
	}
}

func (c *Compiler) compileQuasiquoteList(fs *fnState, list *ast.List) error {
	fs.chunk.Emit(bytecode.Push(value.Nil))

	items := list.Items
	fixedLen := len(items)
	var tailNode ast.Node
	if list.Dotted {
		fixedLen--
		tailNode = items[fixedLen]
	}

	for i := 0; i < fixedLen; i++ {
		item := items[i]
		if splice, ok := item.(*ast.UnquoteSplicing); ok {
			if err := c.compileOperand(fs, splice.Value); err != nil {
				return err
			}
		} else {
			if err := c.compileOperand2(fs, item); err != nil {
				return err
			}
			fs.chunk.Emit(bytecode.MakeList(1))
		}
		fs.chunk.Emit(bytecode.Simple(bytecode.OpAppend))
	}

	if tailNode != nil {
		if err := c.compileOperand2(fs, tailNode); err != nil {
			return err
		}
		fs.chunk.Emit(bytecode.Simple(bytecode.OpAppend))
	}
	return nil
}

// compileOperand2 compiles a quasiquote list element, which may itself
// contain further unquotes, in non-tail position.
func (c *Compiler) compileOperand2(fs *fnState, node ast.Node) error {
	saved := fs.inTail
	fs.inTail = false
	err := c.compileQuasiquote(fs, node)
	fs.inTail = saved
	return err
}

// containsUnquote reports whether node contains an unquote or
// unquote-splicing anywhere in its subtree; a nested quasiquote is
// walked the same way as a plain list, a deliberate simplification
// (nested quasiquote depth tracking is not implemented).
func containsUnquote(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Unquote, *ast.UnquoteSplicing:
		return true
	case *ast.List:
		for _, item := range n.Items {
			if containsUnquote(item) {
				return true
			}
		}
		return false
	case *ast.Quasiquote:
		return containsUnquote(n.Value)
	default:
		return false
	}
}
