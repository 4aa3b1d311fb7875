package compiler

import (
	"fmt"

	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
)

// compileDef implements `(def name value)`: compile value in non-tail
// position, emit StoreGlobal under the module-qualified name, and
// register the name as immutable. Redefining an existing global is a
// compile error (spec.md §7).
func compileDef(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 2 {
		return errAt(list.Pos(), "def expects a name and a value, got %d arguments", len(args))
	}
	sym, ok := args[0].(*ast.Symbol)
	if !ok {
		return errAt(args[0].Pos(), "def requires a symbol name")
	}
	qualified := c.Modules.Qualify(sym.Name)
	if c.Globals[qualified] {
		return errAt(list.Pos(), "%s is already defined", qualified)
	}
	if err := c.compileOperand(fs, args[1]); err != nil {
		return err
	}
	fs.chunk.Emit(bytecode.StoreGlobal(qualified))
	c.Globals[qualified] = true
	return nil
}

// compileDefun dispatches to the single- or multi-clause compiler
// depending on whether the form's second element is a parameter list
// (symbol-headed clauses) or a list of (patterns body) clauses
// (spec.md §4.6).
func compileDefun(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 2 {
		return errAt(list.Pos(), "defun expects a name and at least one clause")
	}
	sym, ok := args[0].(*ast.Symbol)
	if !ok {
		return errAt(args[0].Pos(), "defun requires a symbol name")
	}
	qualified := c.Modules.Qualify(sym.Name)

	clause, err := isClauseForm(args[1])
	if err != nil {
		return err
	}
	if clause {
		return c.compileMultiClauseDefun(qualified, args[1:], list)
	}
	return c.compileSingleClauseDefun(qualified, args[1], args[2:], list)
}

// isClauseForm reports whether node is shaped like a `(patterns
// body...)` clause: its own first element is itself a list (the
// pattern list), rather than a bare symbol (a parameter name, which
// would mark this as the single-clause parameter list instead). node
// must itself be a parameter list or a clause list; anything else
// (e.g. a bare symbol in `(defun f x)`) is a located compile error
// rather than a panic.
func isClauseForm(node ast.Node) (bool, error) {
	list, ok := node.(*ast.List)
	if !ok {
		return false, errAt(node.Pos(), "defun expects a parameter list or a list of (patterns body) clauses")
	}
	if len(list.Items) == 0 {
		return false, nil
	}
	_, ok = list.Items[0].(*ast.List)
	return ok, nil
}

// compileSingleClauseDefun implements the legacy `(defun name (params)
// body)` shape: a plain function, no CheckArity dispatch.
func (c *Compiler) compileSingleClauseDefun(qualified string, paramsNode ast.Node, body []ast.Node, list *ast.List) error {
	required, rest, err := parseParamList(paramsNode)
	if err != nil {
		return err
	}
	chunk := bytecode.NewChunk(qualified)
	chunk.RequiredParams = required
	chunk.RestParam = rest
	inner := newFnState(chunk)
	for i, p := range required {
		inner.bind(p, argLoc(i))
	}
	if rest != nil {
		chunk.Emit(bytecode.PackRestArgs(len(required)))
		inner.bind(*rest, argLoc(len(required)))
	}
	if err := c.compileBody(inner, body); err != nil {
		return err
	}
	chunk.Emit(bytecode.Simple(bytecode.OpRet))
	c.Functions[qualified] = chunk
	return nil
}

// compileMultiClauseDefun implements spec.md §4.6: a CheckArity guard
// at the head of every clause, then per-clause pattern checks and
// bindings, chained by jump-patches to the next clause on mismatch.
func (c *Compiler) compileMultiClauseDefun(qualified string, clauseNodes []ast.Node, list *ast.List) error {
	type clause struct {
		patterns []ast.Node
		body     []ast.Node
		pos      ast.Node
	}
	clauses := make([]clause, 0, len(clauseNodes))
	for _, cn := range clauseNodes {
		cl, ok := cn.(*ast.List)
		if !ok || len(cl.Items) < 1 {
			return errAt(cn.Pos(), "invalid defun clause")
		}
		patternsList, ok := cl.Items[0].(*ast.List)
		if !ok {
			return errAt(cl.Items[0].Pos(), "defun clause must start with a pattern list")
		}
		clauses = append(clauses, clause{patterns: patternsList.Items, body: cl.Items[1:], pos: cn})
	}

	chunk := bytecode.NewChunk(qualified)
	maxArity := 0
	for _, cl := range clauses {
		if len(cl.patterns) > maxArity {
			maxArity = len(cl.patterns)
		}
	}
	chunk.RequiredParams = make([]string, maxArity)
	for i := range chunk.RequiredParams {
		chunk.RequiredParams[i] = fmt.Sprintf("__arg%d", i)
	}
	var prevClauseJump = -1 // index of the most recent pending "arity/pattern mismatch" jump

	for _, cl := range clauses {
		fs := newFnState(chunk)
		fs.inTail = true

		arityJump := chunk.Emit(bytecode.CheckArity(len(cl.patterns), 0))
		if prevClauseJump >= 0 {
			chunk.Patch(prevClauseJump, chunk.Len()-1)
		}
		prevClauseJump = arityJump

		var failJumps []int
		var undos []func()
		for i, pat := range cl.patterns {
			loc := argLoc(i)
			if isLiteralPattern(pat) {
				emitLoad(chunk, loc)
				if err := emitEqLiteral(chunk, unwrapQuote(pat)); err != nil {
					undoAll(undos)
					return err
				}
				failJumps = append(failJumps, chunk.Emit(bytecode.JmpIfFalse(0)))
				continue
			}
			if sym, ok := pat.(*ast.Symbol); ok && sym.Name == "_" {
				continue
			}
			if list, ok := pat.(*ast.List); ok {
				failJumps = append(failJumps, emitListShapeGuard(chunk, list, loc)...)
			}
			undo, err := bindAnyPattern(fs, pat, loc)
			if err != nil {
				undoAll(undos)
				return err
			}
			undos = append(undos, undo)
		}

		if err := c.compileBody(fs, cl.body); err != nil {
			undoAll(undos)
			return err
		}
		undoAll(undos)
		chunk.Emit(bytecode.Simple(bytecode.OpRet))

		for _, fj := range failJumps {
			chunk.Patch(fj, chunk.Len())
		}
	}

	if prevClauseJump >= 0 {
		chunk.Patch(prevClauseJump, chunk.Len())
	}
	chunk.Emit(bytecode.Simple(bytecode.OpNoMatchingClause))
	chunk.Emit(bytecode.Simple(bytecode.OpRet))

	c.Functions[qualified] = chunk
	return nil
}

// compileModuleStmt implements `(module name)`.
func compileModuleStmt(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 1 {
		return errAt(list.Pos(), "module expects exactly one name")
	}
	sym, ok := args[0].(*ast.Symbol)
	if !ok {
		return errAt(args[0].Pos(), "module name must be a symbol")
	}
	c.Modules.SetModule(sym.Name)
	return nil
}

// compileImportStmt implements `(import module)` and
// `(import module as alias)`.
func compileImportStmt(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 1 && len(args) != 3 {
		return errAt(list.Pos(), "import expects a module name, optionally followed by `as alias`")
	}
	modSym, ok := args[0].(*ast.Symbol)
	if !ok {
		return errAt(args[0].Pos(), "import module name must be a symbol")
	}
	alias := modSym.Name
	if len(args) == 3 {
		asSym, ok := args[1].(*ast.Symbol)
		if !ok || asSym.Name != "as" {
			return errAt(args[1].Pos(), "expected `as` in import form")
		}
		aliasSym, ok := args[2].(*ast.Symbol)
		if !ok {
			return errAt(args[2].Pos(), "import alias must be a symbol")
		}
		alias = aliasSym.Name
	}
	c.Modules.AddImport(modSym.Name, alias)
	return nil
}
