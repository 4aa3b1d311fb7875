package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// compileQuoteForm implements the `(quote x)` list-form special form,
// equivalent to the `'x` reader macro handled by compileQuote.
func compileQuoteForm(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 1 {
		return errAt(list.Pos(), "quote expects exactly 1 argument, got %d", len(args))
	}
	return c.compileQuote(fs, args[0])
}

// compileQuote converts node to a runtime Value at compile time and
// emits a single Push (spec.md §4.5).
func (c *Compiler) compileQuote(fs *fnState, node ast.Node) error {
	v, err := quoteToValue(node)
	if err != nil {
		return err
	}
	fs.chunk.Emit(bytecode.Push(v))
	return nil
}

// quoteToValue recursively converts a quoted AST subtree into a
// runtime Value: symbols become Symbol, lists become List (dotted
// lists cons the trailing element onto the tail rather than as a
// final list element), atoms convert directly.
func quoteToValue(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Integer:
		return value.Integer(n.Value), nil
	case *ast.Float:
		return value.Float(n.Value), nil
	case *ast.Boolean:
		return value.Boolean(n.Value), nil
	case *ast.String:
		return value.String(n.Value), nil
	case *ast.Symbol:
		return value.Symbol(n.Name), nil
	case *ast.Quote:
		// A nested quote inside a quoted form is data: `(quote x)` as a
		// two-element list headed by the symbol `quote`.
		inner, err := quoteToValue(n.Value)
		if err != nil {
			return value.Value{}, err
		}
		return value.ListOf(value.Symbol("quote"), inner), nil
	case *ast.List:
		return quoteList(n)
	default:
		return value.Value{}, errAt(node.Pos(), "cannot quote %T", node)
	}
}

func quoteList(list *ast.List) (value.Value, error) {
	if !list.Dotted {
		items := make([]value.Value, len(list.Items))
		for i, item := range list.Items {
			v, err := quoteToValue(item)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.ListOf(items...), nil
	}
	// Dotted: every item but the last is a head element; the last item
	// is the tail the list is consed onto.
	head := list.Items[:len(list.Items)-1]
	tailNode := list.Items[len(list.Items)-1]
	tail, err := quoteToValue(tailNode)
	if err != nil {
		return value.Value{}, err
	}
	for i := len(head) - 1; i >= 0; i-- {
		v, err := quoteToValue(head[i])
		if err != nil {
			return value.Value{}, err
		}
		tail = value.Cons(v, tail)
	}
	return tail, nil
}

// literalToValue converts a self-evaluating literal pattern node (used
// by multi-clause defun's equality-test patterns) into a Value.
// unwrapQuote should be applied first so a `'sym` pattern is passed
// here as its underlying Symbol node.
func literalToValue(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Integer:
		return value.Integer(n.Value), nil
	case *ast.Float:
		return value.Float(n.Value), nil
	case *ast.Boolean:
		return value.Boolean(n.Value), nil
	case *ast.Symbol:
		return value.Symbol(n.Name), nil
	case *ast.List:
		if len(n.Items) == 0 && !n.Dotted {
			return value.Nil, nil
		}
	}
	return value.Value{}, errAt(node.Pos(), "not a literal pattern")
}

// unwrapQuote strips a single ast.Quote wrapper, exposing the literal
// or symbol a quoted pattern denotes.
func unwrapQuote(node ast.Node) ast.Node {
	if q, ok := node.(*ast.Quote); ok {
		return q.Value
	}
	return node
}
