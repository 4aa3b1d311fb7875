// Package compiler lowers the located AST into bytecode, performing
// closure-capture analysis, pattern-matching dispatch compilation,
// quasiquote expansion, tail-call marking, and compile-time macro
// expansion — spec.md §4.5–§4.8.
package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/token"
	"github.com/quartzlang/quartz/internal/value"
	"github.com/quartzlang/quartz/internal/vm"
)

// init wires this package's Compile function into internal/vm, so
// Eval/LoadFile/RequireFile can compile source text read at runtime
// without internal/vm importing internal/compiler back (see the
// astCompiler indirection documented in internal/vm/meta.go).
func init() {
	vm.RegisterCompiler(Compile)
}

// MacroDef is an unexpanded macro body, stored rather than compiled
// (spec.md §4.5, "defmacro ... not emitted to bytecode").
type MacroDef struct {
	Name   string
	Params []string
	Body   ast.Node
}

// Compiler holds the state that persists across an entire compilation:
// the function table being accumulated, the macro table, the set of
// already-defined (immutable) global names, and the module/import
// resolver (spec.md §4.5).
type Compiler struct {
	Functions map[string]*bytecode.Chunk
	Macros    map[string]*MacroDef
	Globals   map[string]bool
	Modules   *moduleResolver

	gensym uint64
}

func New() *Compiler {
	return &Compiler{
		Functions: make(map[string]*bytecode.Chunk),
		Macros:    make(map[string]*MacroDef),
		Globals:   make(map[string]bool),
		Modules:   newModuleResolver(),
	}
}

// fnState is the mutable context for the function or main chunk
// currently being assembled. Closure bodies, single/multi-clause defun
// bodies, and the top-level program each get their own fnState.
type fnState struct {
	chunk      *bytecode.Chunk
	bindings   map[string]ValueLocation
	nextLocal  int
	inTail     bool
	loopStack  []int // binding counts of enclosing loops, innermost last
}

func newFnState(chunk *bytecode.Chunk) *fnState {
	return &fnState{chunk: chunk, bindings: make(map[string]ValueLocation), inTail: true}
}

// bind records a new name -> location and returns an undo function that
// restores whatever (if anything) shadowed.
func (fs *fnState) bind(name string, loc ValueLocation) func() {
	prev, had := fs.bindings[name]
	fs.bindings[name] = loc
	return func() {
		if had {
			fs.bindings[name] = prev
		} else {
			delete(fs.bindings, name)
		}
	}
}

// Compile lowers a full program (a sequence of top-level forms) into a
// Program: a function table plus the main chunk, per spec.md §2.
func Compile(forms []ast.Node) (*bytecode.Program, error) {
	c := New()
	main := bytecode.NewChunk("")
	fs := newFnState(main)
	fs.inTail = false // top-level expressions are not in any function's tail position
	for _, f := range forms {
		if err := c.compileForm(fs, f); err != nil {
			return nil, err
		}
	}
	main.Emit(bytecode.Simple(bytecode.OpHalt))
	return &bytecode.Program{Functions: c.Functions, Main: main}, nil
}

// compileForm compiles one AST node into fs.chunk, honoring fs.inTail
// for forms that can end in a tail call.
func (c *Compiler) compileForm(fs *fnState, node ast.Node) error {
	switch n := node.(type) {
	case *ast.Integer:
		fs.chunk.Emit(bytecode.Push(value.Integer(n.Value)).WithPos(n.Pos().Line, n.Pos().Column))
		return nil
	case *ast.Float:
		fs.chunk.Emit(bytecode.Push(value.Float(n.Value)))
		return nil
	case *ast.Boolean:
		fs.chunk.Emit(bytecode.Push(value.Boolean(n.Value)))
		return nil
	case *ast.String:
		fs.chunk.Emit(bytecode.Push(value.String(n.Value)))
		return nil
	case *ast.Symbol:
		return c.compileSymbolRef(fs, n)
	case *ast.Quote:
		return c.compileQuote(fs, n.Value)
	case *ast.Quasiquote:
		return c.compileQuasiquote(fs, n.Value)
	case *ast.Unquote:
		return errAt(n.Pos(), "unquote is only valid inside quasiquote")
	case *ast.UnquoteSplicing:
		return errAt(n.Pos(), "unquote-splicing is only valid inside quasiquote")
	case *ast.List:
		return c.compileList(fs, n)
	default:
		return errAt(node.Pos(), "unrecognized AST node %T", node)
	}
}

// compileSymbolRef resolves a bare symbol reference per spec.md §4.5's
// lookup order: local/pattern/captured bindings, parameter names,
// global variables, function names, else a compile error (with a
// did-you-mean suggestion when a close name exists).
func (c *Compiler) compileSymbolRef(fs *fnState, sym *ast.Symbol) error {
	name := sym.Name
	if loc, ok := fs.bindings[name]; ok {
		emitLoad(fs.chunk, loc)
		return nil
	}
	if resolved, ok := c.Modules.ResolveAlias(name); ok {
		name = resolved
	}
	qualified := c.Modules.Qualify(name)
	if c.Globals[qualified] {
		fs.chunk.Emit(bytecode.LoadGlobal(qualified))
		return nil
	}
	if c.Globals[name] {
		fs.chunk.Emit(bytecode.LoadGlobal(name))
		return nil
	}
	if _, ok := c.Functions[qualified]; ok {
		fs.chunk.Emit(bytecode.Push(value.Function(qualified)))
		return nil
	}
	if _, ok := c.Functions[name]; ok {
		fs.chunk.Emit(bytecode.Push(value.Function(name)))
		return nil
	}
	candidates := append(sortedKeys(c.Globals), allFunctionNames(c.Functions)...)
	err := errAt(sym.Pos(), "undefined variable %q", sym.Name)
	err.Suggestion = suggest(sym.Name, candidates)
	return err
}

func allFunctionNames(fns map[string]*bytecode.Chunk) []string {
	out := make([]string, 0, len(fns))
	for k := range fns {
		out = append(out, k)
	}
	return out
}

// compileList dispatches a parenthesized form on its head symbol.
func (c *Compiler) compileList(fs *fnState, list *ast.List) error {
	if len(list.Items) == 0 {
		fs.chunk.Emit(bytecode.Push(value.Nil))
		return nil
	}
	head, isSym := list.Items[0].(*ast.Symbol)
	if isSym {
		if macro, ok := c.Macros[head.Name]; ok {
			expanded, err := c.expandMacro(macro, list, list.Pos())
			if err != nil {
				return err
			}
			return c.compileForm(fs, expanded)
		}
		if handler, ok := specialForms[head.Name]; ok {
			return handler(c, fs, list)
		}
	}
	return c.compileCallForm(fs, list)
}

func exprPos(n ast.Node) token.Pos { return n.Pos() }
