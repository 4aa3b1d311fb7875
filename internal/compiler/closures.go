package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
)

// parseParamList parses a lambda/defun parameter list, which may be a
// proper list `(a b c)`, a dotted list `(a b . rest)`, or `(. rest)`
// for a fully variadic function. It returns the required parameter
// names and, if present, the rest parameter name.
func parseParamList(node ast.Node) (required []string, rest *string, err error) {
	list, ok := node.(*ast.List)
	if !ok {
		return nil, nil, errAt(node.Pos(), "expected a parameter list")
	}
	items := list.Items
	if list.Dotted {
		if len(items) == 0 {
			return nil, nil, errAt(node.Pos(), "malformed dotted parameter list")
		}
		restSym, ok := items[len(items)-1].(*ast.Symbol)
		if !ok {
			return nil, nil, errAt(items[len(items)-1].Pos(), "rest parameter must be a symbol")
		}
		items = items[:len(items)-1]
		restName := restSym.Name
		rest = &restName
	}
	for _, item := range items {
		sym, ok := item.(*ast.Symbol)
		if !ok {
			return nil, nil, errAt(item.Pos(), "parameter names must be symbols")
		}
		required = append(required, sym.Name)
	}
	return required, rest, nil
}

// compileLambda implements spec.md §4.4: walk the body for free
// variables, push their current outer-scope values, then emit
// MakeClosure/MakeVariadicClosure with a freshly compiled body chunk.
func compileLambda(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 1 {
		return errAt(list.Pos(), "lambda expects a parameter list and a body")
	}
	required, rest, err := parseParamList(args[0])
	if err != nil {
		return err
	}
	body := args[1:]

	paramSet := map[string]bool{}
	for _, p := range required {
		paramSet[p] = true
	}
	if rest != nil {
		paramSet[*rest] = true
	}
	captureNames := []string{}
	for _, name := range freeVars(body, paramSet) {
		if _, ok := fs.bindings[name]; ok {
			captureNames = append(captureNames, name)
		}
	}
	for _, name := range captureNames {
		emitLoad(fs.chunk, fs.bindings[name])
	}

	bodyChunk := bytecode.NewChunk("")
	bodyChunk.RequiredParams = required
	bodyChunk.RestParam = rest
	inner := newFnState(bodyChunk)
	for i, p := range required {
		inner.bind(p, argLoc(i))
	}
	if rest != nil {
		bodyChunk.Emit(bytecode.PackRestArgs(len(required)))
		inner.bind(*rest, argLoc(len(required)))
	}
	for i, name := range captureNames {
		inner.bind(name, capturedLoc(i))
	}
	if err := c.compileBody(inner, body); err != nil {
		return err
	}
	bodyChunk.Emit(bytecode.Simple(bytecode.OpRet))

	if rest != nil {
		fs.chunk.Emit(bytecode.MakeVariadicClosure(required, *rest, bodyChunk, len(captureNames)))
	} else {
		fs.chunk.Emit(bytecode.MakeClosure(required, bodyChunk, len(captureNames)))
	}
	return nil
}
