package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/token"
	"github.com/quartzlang/quartz/internal/value"
	"github.com/quartzlang/quartz/internal/vm"
)

// compileDefmacro implements `(defmacro name (params) body)`: the body
// is stored unevaluated (spec.md §4.5, "not emitted to bytecode") and
// consulted by compileList before any special form or call compiles.
func compileDefmacro(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 2 {
		return errAt(list.Pos(), "defmacro expects a name, a parameter list, and a body")
	}
	sym, ok := args[0].(*ast.Symbol)
	if !ok {
		return errAt(args[0].Pos(), "defmacro requires a symbol name")
	}
	params, ok := args[1].(*ast.List)
	if !ok {
		return errAt(args[1].Pos(), "defmacro requires a parameter list")
	}
	paramNames := make([]string, 0, len(params.Items))
	for _, p := range params.Items {
		ps, ok := p.(*ast.Symbol)
		if !ok {
			return errAt(p.Pos(), "macro parameter names must be symbols")
		}
		paramNames = append(paramNames, ps.Name)
	}
	var body ast.Node
	if len(args) == 3 {
		body = args[2]
	} else {
		doForm := append([]ast.Node{ast.NewSymbol(list.Pos(), "do")}, args[2:]...)
		body = ast.NewList(list.Pos(), doForm, false)
	}
	c.Macros[sym.Name] = &MacroDef{Name: sym.Name, Params: paramNames, Body: body}
	return nil
}

// compileMacroexpand implements `(macroexpand form)` as a first-class
// operation: expand the named macro call exactly once (spec.md §9's
// Open Question resolution — "the source expands once") and push the
// expansion as quoted data, without recursively expanding further
// macro calls the result might itself contain. A form that is not a
// call to a known macro is pushed quoted, unchanged.
func compileMacroexpand(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 1 {
		return errAt(list.Pos(), "macroexpand expects exactly 1 argument, got %d", len(args))
	}
	formList, ok := args[0].(*ast.List)
	if !ok || len(formList.Items) == 0 {
		return c.compileQuote(fs, args[0])
	}
	head, ok := formList.Items[0].(*ast.Symbol)
	if !ok {
		return c.compileQuote(fs, args[0])
	}
	macro, ok := c.Macros[head.Name]
	if !ok {
		return c.compileQuote(fs, args[0])
	}
	expanded, err := c.expandMacro(macro, formList, list.Pos())
	if err != nil {
		return err
	}
	return c.compileQuote(fs, expanded)
}

// expandMacro implements spec.md §4.7: compile the macro body into a
// standalone chunk (parameters bound positionally, ending in Ret),
// run it on a transient VM with the call's unevaluated argument forms
// converted to Values, then convert the resulting Value back into an
// AST node.
func (c *Compiler) expandMacro(macro *MacroDef, callList *ast.List, pos token.Pos) (ast.Node, error) {
	callArgs := callList.Items[1:]
	if len(callArgs) != len(macro.Params) {
		return nil, errAt(pos, "macro %s expects %d arguments, got %d", macro.Name, len(macro.Params), len(callArgs))
	}

	chunk := bytecode.NewChunk("__macro_" + macro.Name)
	fs := newFnState(chunk)
	for i, p := range macro.Params {
		fs.bind(p, argLoc(i))
	}
	if err := c.compileForm(fs, macro.Body); err != nil {
		return nil, err
	}
	chunk.Emit(bytecode.Simple(bytecode.OpRet))

	argValues := make([]value.Value, len(callArgs))
	for i, a := range callArgs {
		v, err := quoteToValue(a)
		if err != nil {
			return nil, err
		}
		argValues[i] = v
	}

	result, err := vm.RunChunk(chunk, c.Functions, argValues)
	if err != nil {
		return nil, errAt(pos, "macro %s expansion failed: %v", macro.Name, err)
	}
	return valueToAST(result, pos)
}

// valueToAST converts a runtime Value produced by macro expansion back
// into a compilable AST node. Because Value already distinguishes
// KindString from KindSymbol, no sentinel-prefix disambiguation is
// needed for strings here (a simplification over implementations whose
// value model conflates the two).
func valueToAST(v value.Value, pos token.Pos) (ast.Node, error) {
	switch v.Kind() {
	case value.KindInteger:
		return ast.NewInteger(pos, v.AsInt()), nil
	case value.KindFloat:
		return ast.NewFloat(pos, v.AsFloat()), nil
	case value.KindBoolean:
		return ast.NewBoolean(pos, v.AsBool()), nil
	case value.KindString:
		return ast.NewString(pos, v.AsString()), nil
	case value.KindSymbol:
		return ast.NewSymbol(pos, v.AsSymbol()), nil
	case value.KindList:
		list := v.AsList()
		items := make([]ast.Node, 0, list.Len()+1)
		for cur := list; cur != nil; cur = cur.Tail {
			item, err := valueToAST(cur.Head, pos)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if tailAtom, improper := list.ImproperTail(); improper {
			tail, err := valueToAST(tailAtom, pos)
			if err != nil {
				return nil, err
			}
			items = append(items, tail)
			return ast.NewList(pos, items, true), nil
		}
		return ast.NewList(pos, items, false), nil
	default:
		return nil, errAt(pos, "macro expansion produced a non-datum value of kind %s", v.Kind())
	}
}
