package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// compileIf implements spec.md §4.5's `if`: the condition is never in
// tail position; both branches inherit the enclosing tail-position
// flag. Missing else compiles to a literal false.
func compileIf(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) != 2 && len(args) != 3 {
		return errAt(list.Pos(), "if expects 2 or 3 arguments, got %d", len(args))
	}
	var elseNode ast.Node
	if len(args) == 3 {
		elseNode = args[2]
	}
	return c.emitIf(fs, args[0], args[1], elseNode)
}

// emitIf is the shared if/cond/when/unless code shape: compile cond
// (never tail), JmpIfFalse to a placeholder, compile then (inherits
// tail), Jmp past else, compile else (inherits tail; a literal false if
// elseNode is nil).
func (c *Compiler) emitIf(fs *fnState, condNode, thenNode, elseNode ast.Node) error {
	if err := c.compileOperand(fs, condNode); err != nil {
		return err
	}
	jmpIfFalseIdx := fs.chunk.Emit(bytecode.JmpIfFalse(0))
	if err := c.compileForm(fs, thenNode); err != nil {
		return err
	}
	jmpEndIdx := fs.chunk.Emit(bytecode.Jmp(0))
	fs.chunk.Patch(jmpIfFalseIdx, fs.chunk.Len())
	if elseNode != nil {
		if err := c.compileForm(fs, elseNode); err != nil {
			return err
		}
	} else {
		fs.chunk.Emit(bytecode.Push(value.Boolean(false)))
	}
	fs.chunk.Patch(jmpEndIdx, fs.chunk.Len())
	return nil
}

// compileAnd rewrites (and a b c ...) into a chain of nested ifs with
// short-circuit semantics: (and) = true; (and a) = a;
// (and a rest...) = (if a (and rest...) false).
func compileAnd(c *Compiler, fs *fnState, list *ast.List) error {
	return c.compileAndOr(fs, list.Items[1:], true)
}

// compileOr: (or) = false; (or a) = a; (or a rest...) = (if a true (or rest...)).
func compileOr(c *Compiler, fs *fnState, list *ast.List) error {
	return c.compileAndOr(fs, list.Items[1:], false)
}

func (c *Compiler) compileAndOr(fs *fnState, args []ast.Node, isAnd bool) error {
	if len(args) == 0 {
		fs.chunk.Emit(bytecode.Push(value.Boolean(isAnd)))
		return nil
	}
	if len(args) == 1 {
		return c.compileForm(fs, args[0])
	}
	if isAnd {
		return c.emitIfFuncs(fs, args[0],
			func() error { return c.compileAndOr(fs, args[1:], isAnd) },
			func() error { fs.chunk.Emit(bytecode.Push(value.Boolean(false))); return nil })
	}
	return c.emitIfFuncs(fs, args[0],
		func() error { fs.chunk.Emit(bytecode.Push(value.Boolean(true))); return nil },
		func() error { return c.compileAndOr(fs, args[1:], isAnd) })
}

// emitIfFuncs is emitIf generalized to closures, used where the
// then/else bodies are synthesized rather than literal AST sub-nodes
// (and/or/cond desugaring).
func (c *Compiler) emitIfFuncs(fs *fnState, condNode ast.Node, thenFn, elseFn func() error) error {
	if err := c.compileOperand(fs, condNode); err != nil {
		return err
	}
	jmpIfFalseIdx := fs.chunk.Emit(bytecode.JmpIfFalse(0))
	if err := thenFn(); err != nil {
		return err
	}
	jmpEndIdx := fs.chunk.Emit(bytecode.Jmp(0))
	fs.chunk.Patch(jmpIfFalseIdx, fs.chunk.Len())
	if err := elseFn(); err != nil {
		return err
	}
	fs.chunk.Patch(jmpEndIdx, fs.chunk.Len())
	return nil
}

// compileCond scans clauses in order; each is (predicate body...) except
// a trailing (else body...). Tail position flows into each clause body.
func compileCond(c *Compiler, fs *fnState, list *ast.List) error {
	return c.condRec(fs, list.Items[1:])
}

func (c *Compiler) condRec(fs *fnState, clauses []ast.Node) error {
	if len(clauses) == 0 {
		fs.chunk.Emit(bytecode.Push(value.Nil))
		return nil
	}
	clauseList, ok := clauses[0].(*ast.List)
	if !ok || len(clauseList.Items) < 1 {
		return errAt(clauses[0].Pos(), "invalid cond clause")
	}
	head := clauseList.Items[0]
	body := clauseList.Items[1:]
	if sym, ok := head.(*ast.Symbol); ok && sym.Name == "else" {
		return c.compileBody(fs, body)
	}
	return c.emitIfFuncs(fs, head,
		func() error { return c.compileBody(fs, body) },
		func() error { return c.condRec(fs, clauses[1:]) })
}

// compileWhen/compileUnless are sugar over if, per spec.md §4.5: when
// yields a literal false if the condition is false, unless yields a
// literal false if the condition is true.
func compileWhen(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 1 {
		return errAt(list.Pos(), "when expects a condition and a body")
	}
	return c.emitIfFuncs(fs, args[0],
		func() error { return c.compileBody(fs, args[1:]) },
		func() error { fs.chunk.Emit(bytecode.Push(value.Boolean(false))); return nil })
}

func compileUnless(c *Compiler, fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if len(args) < 1 {
		return errAt(list.Pos(), "unless expects a condition and a body")
	}
	return c.emitIfFuncs(fs, args[0],
		func() error { fs.chunk.Emit(bytecode.Push(value.Boolean(false))); return nil },
		func() error { return c.compileBody(fs, args[1:]) })
}

// compileDo evaluates each expression, discarding all but the last
// result; the last inherits tail position.
func compileDo(c *Compiler, fs *fnState, list *ast.List) error {
	return c.compileBody(fs, list.Items[1:])
}

// compileBody compiles a sequence of expressions as a single result:
// all but the last are compiled in non-tail position and their result
// discarded with PopN(1); the last inherits the caller's tail flag.
func (c *Compiler) compileBody(fs *fnState, body []ast.Node) error {
	if len(body) == 0 {
		fs.chunk.Emit(bytecode.Push(value.Nil))
		return nil
	}
	for _, expr := range body[:len(body)-1] {
		if err := c.compileOperand(fs, expr); err != nil {
			return err
		}
		fs.chunk.Emit(bytecode.PopN(1))
	}
	return c.compileForm(fs, body[len(body)-1])
}
