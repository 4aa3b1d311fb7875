package vm

import (
	"github.com/google/uuid"

	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/parser"
	"github.com/quartzlang/quartz/internal/value"
)

// astCompiler is populated by internal/compiler's own init(), via
// RegisterCompiler. internal/compiler imports internal/vm to drive
// macro-expansion's transient VM (RunChunk below), so internal/vm
// cannot import internal/compiler back; this indirection is the
// break in that cycle, letting Eval/LoadFile/RequireFile compile
// source text read at runtime.
var astCompiler func(forms []ast.Node) (*bytecode.Program, error)

// RegisterCompiler wires the AST-to-bytecode compiler into the VM
// package. Called from internal/compiler's init().
func RegisterCompiler(fn func(forms []ast.Node) (*bytecode.Program, error)) {
	astCompiler = fn
}

// RunChunk drives a freshly compiled chunk (a macro body, typically)
// to completion on a transient VM sharing the given function table,
// per spec.md §4.7 step 4.
func RunChunk(chunk *bytecode.Chunk, functions map[string]*bytecode.Chunk, args []value.Value) (value.Value, error) {
	transient := New(functions)
	return transient.run(chunk, args, nil, chunk.Name)
}

// Eval parses, compiles, and runs one chunk of source text under this
// VM, the same way opEval does for the in-language `eval` builtin.
// Unlike opEval, parse/compile failures are returned as their original
// located error values (not wrapped into a RuntimeError) so a caller
// such as cmd/quartz's REPL can render them with diagnostics.RenderLocated.
func (vm *VM) Eval(source, sourceName string) (value.Value, error) {
	if astCompiler == nil {
		return value.Value{}, newRuntimeError(vm, "%s: no compiler registered", sourceName)
	}
	forms, err := parser.Parse(source, sourceName)
	if err != nil {
		return value.Value{}, err
	}
	program, err := astCompiler(forms)
	if err != nil {
		return value.Value{}, err
	}
	for name, chunk := range program.Functions {
		vm.functions[name] = chunk
	}
	return vm.run(program.Main, nil, nil, sourceName)
}

// compileAndRun parses and compiles source text, merges the resulting
// function table into vm, and executes its main chunk to completion
// under the current VM instance, returning whatever value.Nil or real
// result it left behind. Shared by Eval, LoadFile, and RequireFile
// (spec.md §4.9: "install its function table entries into the VM,
// execute its top-level bytecode under the same VM").
func (vm *VM) compileAndRun(source, sourceName string) (value.Value, error) {
	if astCompiler == nil {
		return value.Value{}, newRuntimeError(vm, "%s: no compiler registered", sourceName)
	}
	forms, err := parser.Parse(source, sourceName)
	if err != nil {
		return value.Value{}, newRuntimeError(vm, "%s: parse error: %v", sourceName, err)
	}
	program, err := astCompiler(forms)
	if err != nil {
		return value.Value{}, newRuntimeError(vm, "%s: compile error: %v", sourceName, err)
	}
	for name, chunk := range program.Functions {
		vm.functions[name] = chunk
	}
	return vm.run(program.Main, nil, nil, sourceName)
}

// opEval implements the `eval` metaprogramming instruction: parse,
// compile, and run a string of source text under the current VM, so
// the text can call already-defined functions by name. It is compiled
// by a fresh compiler, so globals and macros defined outside the text
// are unknown to it.
func (vm *VM) opEval() error {
	code, err := vm.pop()
	if err != nil {
		return err
	}
	if !code.IsString() {
		return typeError(vm, "eval", "string", code.Kind().String())
	}
	result, err := vm.compileAndRun(code.AsString(), "<eval>")
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

// opFunctionArity implements spec.md §4's FunctionArity: -1 means
// variadic, otherwise the exact required-argument count.
func (vm *VM) opFunctionArity() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	switch {
	case v.IsFunction():
		chunk, ok := vm.functions[v.AsFunction().Name]
		if !ok {
			return newRuntimeError(vm, "undefined function %q", v.AsFunction().Name)
		}
		if chunk.RestParam != nil {
			vm.push(value.Integer(-1))
		} else {
			vm.push(value.Integer(int64(len(chunk.RequiredParams))))
		}
	case v.IsClosure():
		cl := v.AsClosure()
		if cl.IsVariadic() {
			vm.push(value.Integer(-1))
		} else {
			vm.push(value.Integer(int64(len(cl.RequiredParams))))
		}
	default:
		return typeError(vm, "function-arity", "a function or closure", v.Kind().String())
	}
	return nil
}

// opFunctionParams returns the ordered parameter names, with a
// `". rest"`-prefixed final entry when the callable is variadic.
func (vm *VM) opFunctionParams() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	var required []string
	var rest *string
	switch {
	case v.IsFunction():
		chunk, ok := vm.functions[v.AsFunction().Name]
		if !ok {
			return newRuntimeError(vm, "undefined function %q", v.AsFunction().Name)
		}
		required, rest = chunk.RequiredParams, chunk.RestParam
	case v.IsClosure():
		cl := v.AsClosure()
		required, rest = cl.RequiredParams, cl.RestParam
	default:
		return typeError(vm, "function-params", "a function or closure", v.Kind().String())
	}
	items := make([]value.Value, 0, len(required)+1)
	for _, p := range required {
		items = append(items, value.String(p))
	}
	if rest != nil {
		items = append(items, value.String(". "+*rest))
	}
	vm.push(value.ListOf(items...))
	return nil
}

func (vm *VM) opClosureCaptured() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if v.IsFunction() {
		vm.push(value.Nil)
		return nil
	}
	if !v.IsClosure() {
		return typeError(vm, "closure-captured", "a function or closure", v.Kind().String())
	}
	cl := v.AsClosure()
	pairs := make([]value.Value, len(cl.Captured))
	for i, cb := range cl.Captured {
		pairs[i] = value.ListOf(value.String(cb.Name), cb.Value)
	}
	vm.push(value.ListOf(pairs...))
	return nil
}

func (vm *VM) opFunctionName() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsFunction() {
		return typeError(vm, "function-name", "a named function", v.Kind().String())
	}
	vm.push(value.String(v.AsFunction().Name))
	return nil
}

func (vm *VM) opTypeOf() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.push(value.Symbol(v.Kind().String()))
	return nil
}

// opGenSym produces a fresh, process-unique symbol named "G__"
// followed by a random uuid. This is the only use of the uuid
// dependency; the compiler does not generate names with it.
func (vm *VM) opGenSym() error {
	vm.push(value.Symbol("G__" + uuid.New().String()))
	return nil
}
