package compiler

import (
	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/bytecode"
)

// builtinOp describes a fixed-arity builtin: compile every argument
// left to right, then emit a single opcode with no inline operand. The
// VM's own op* implementations (internal/vm/data.go, predicates.go,
// strings.go, meta.go, effects.go, calls.go) each pop their arguments
// in the reverse of this push order, so no argument reordering is
// needed here — it falls out of stack discipline for free.
type builtinOp struct {
	op    bytecode.Opcode
	arity int
}

var builtinOps = map[string]builtinOp{
	// List data
	"cons":        {bytecode.OpCons, 2},
	"car":         {bytecode.OpCar, 1},
	"cdr":         {bytecode.OpCdr, 1},
	"append":      {bytecode.OpAppend, 2},
	"list-ref":    {bytecode.OpListRef, 2},
	"list-length": {bytecode.OpListLength, 1},

	// Vector data
	"vector-get":    {bytecode.OpVectorGet, 2},
	"vector-set":    {bytecode.OpVectorSet, 3},
	"vector-push":   {bytecode.OpVectorPush, 2},
	"vector-pop":    {bytecode.OpVectorPop, 1},
	"vector-length": {bytecode.OpVectorLength, 1},

	// HashMap data
	"hash-map-get":          {bytecode.OpHashMapGet, 2},
	"hash-map-set":          {bytecode.OpHashMapSet, 3},
	"hash-map-keys":         {bytecode.OpHashMapKeys, 1},
	"hash-map-values":       {bytecode.OpHashMapValues, 1},
	"hash-map-contains-key?": {bytecode.OpHashMapContainsKey, 2},

	// Predicates / conversions
	"integer?":   {bytecode.OpIsInteger, 1},
	"float?":     {bytecode.OpIsFloat, 1},
	"number?":    {bytecode.OpIsNumber, 1},
	"boolean?":   {bytecode.OpIsBoolean, 1},
	"list?":      {bytecode.OpIsList, 1},
	"string?":    {bytecode.OpIsString, 1},
	"symbol?":    {bytecode.OpIsSymbol, 1},
	"function?":  {bytecode.OpIsFunction, 1},
	"closure?":   {bytecode.OpIsClosure, 1},
	"procedure?": {bytecode.OpIsProcedure, 1},
	"vector?":    {bytecode.OpIsVector, 1},
	"hash-map?":  {bytecode.OpIsHashMap, 1},

	"symbol->string": {bytecode.OpSymbolToString, 1},
	"string->symbol": {bytecode.OpStringToSymbol, 1},
	"string->number": {bytecode.OpStringToNumber, 1},
	"number->string": {bytecode.OpNumberToString, 1},
	"int->float":     {bytecode.OpIntToFloat, 1},
	"float->int":     {bytecode.OpFloatToInt, 1},
	"list->vector":   {bytecode.OpListToVector, 1},
	"vector->list":   {bytecode.OpVectorToList, 1},
	"string->list":   {bytecode.OpStringToList, 1},
	"list->string":   {bytecode.OpListToString, 1},

	// String
	"string-length":       {bytecode.OpStringLength, 1},
	"substring":           {bytecode.OpSubstring, 3},
	"string-append":       {bytecode.OpStringAppend, 2},
	"char-code":           {bytecode.OpCharCode, 1},
	"string-split":        {bytecode.OpStringSplit, 2},
	"string-join":         {bytecode.OpStringJoin, 2},
	"string-trim":         {bytecode.OpStringTrim, 1},
	"string-replace":      {bytecode.OpStringReplace, 3},
	"string-starts-with?": {bytecode.OpStringStartsWith, 2},
	"string-ends-with?":   {bytecode.OpStringEndsWith, 2},
	"string-contains?":    {bytecode.OpStringContains, 2},
	"string-upcase":       {bytecode.OpStringUpcase, 1},
	"string-downcase":     {bytecode.OpStringDowncase, 1},

	// Metaprogramming
	"eval":             {bytecode.OpEval, 1},
	"function-arity":   {bytecode.OpFunctionArity, 1},
	"function-params":  {bytecode.OpFunctionParams, 1},
	"closure-captured": {bytecode.OpClosureCaptured, 1},
	"function-name":    {bytecode.OpFunctionName, 1},
	"type-of":          {bytecode.OpTypeOf, 1},
	"gen-sym":          {bytecode.OpGenSym, 0},

	// Side effects
	"print":              {bytecode.OpPrint, 1},
	"read-file":          {bytecode.OpReadFile, 1},
	"write-file":         {bytecode.OpWriteFile, 2},
	"write-binary-file":  {bytecode.OpWriteBinaryFile, 2},
	"file-exists?":       {bytecode.OpFileExists, 1},
	"load-file":          {bytecode.OpLoadFile, 1},
	"require-file":       {bytecode.OpRequireFile, 1},
	"get-args":           {bytecode.OpGetArgs, 0},
	"current-timestamp":  {bytecode.OpCurrentTimestamp, 0},
	"format-timestamp":   {bytecode.OpFormatTimestamp, 2},

	"apply": {bytecode.OpApply, 2},

	// Parallel collection primitives (internal/vm/parallel.go)
	"pmap":    {bytecode.OpPMap, 2},
	"pfilter": {bytecode.OpPFilter, 2},
	"preduce": {bytecode.OpPReduce, 3},
}

// compileCallForm compiles `(f a b ...)` once the head has already
// been checked against the macro table and specialForms: a builtin
// instruction, a variadic data constructor, a named function call, or
// — when the head is a locally bound name, not a builtin or global
// function — a closure call through CallClosure.
func (c *Compiler) compileCallForm(fs *fnState, list *ast.List) error {
	args := list.Items[1:]
	if sym, ok := list.Items[0].(*ast.Symbol); ok {
		if _, isBound := fs.bindings[sym.Name]; !isBound {
			switch sym.Name {
			case "make-list":
				return c.compileMakeList(fs, args)
			case "make-vector":
				return c.compileMakeVector(fs, args)
			case "make-hash-map":
				return c.compileMakeHashMap(fs, args, list)
			case "format":
				return c.compileFormat(fs, args, list)
			}
			if b, ok := builtinOps[sym.Name]; ok {
				return c.compileBuiltinCall(fs, b, args, sym.Name, list)
			}
			return c.compileNamedCall(fs, sym.Name, args, list)
		}
	}
	return c.compileClosureCall(fs, list.Items[0], args)
}

func (c *Compiler) compileBuiltinCall(fs *fnState, b builtinOp, args []ast.Node, name string, list *ast.List) error {
	if len(args) != b.arity {
		return errAt(list.Pos(), "%s expects %d argument(s), got %d", name, b.arity, len(args))
	}
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.Simple(b.op))
	return nil
}

func (c *Compiler) compileMakeList(fs *fnState, args []ast.Node) error {
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.MakeList(len(args)))
	return nil
}

func (c *Compiler) compileMakeVector(fs *fnState, args []ast.Node) error {
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.MakeVector(len(args)))
	return nil
}

// compileMakeHashMap expects a flat, even-length list of key/value
// expressions: (make-hash-map k1 v1 k2 v2 ...).
func (c *Compiler) compileMakeHashMap(fs *fnState, args []ast.Node, list *ast.List) error {
	if len(args)%2 != 0 {
		return errAt(list.Pos(), "make-hash-map expects an even number of key/value arguments, got %d", len(args))
	}
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.MakeHashMap(len(args) / 2))
	return nil
}

// compileFormat compiles the format string, then the variadic
// arguments collected into a list (MakeList), matching opFormat's
// pop order: the args list on top, the format string beneath it.
func (c *Compiler) compileFormat(fs *fnState, args []ast.Node, list *ast.List) error {
	if len(args) < 1 {
		return errAt(list.Pos(), "format expects a format string and zero or more arguments")
	}
	if err := c.compileOperand(fs, args[0]); err != nil {
		return err
	}
	for _, a := range args[1:] {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.MakeList(len(args) - 1))
	fs.chunk.Emit(bytecode.Simple(bytecode.OpFormat))
	return nil
}

// compileNamedCall resolves the module-qualified name the same way
// compileSymbolRef resolves a bare reference, then emits Call or
// TailCall depending on the current tail position. The callee need
// not already exist in c.Functions: a forward reference (mutual
// recursion, or simply defined later in the file) resolves fine here
// because the real existence check happens at runtime in opCall.
func (c *Compiler) compileNamedCall(fs *fnState, name string, args []ast.Node, list *ast.List) error {
	qualified := name
	if resolved, ok := c.Modules.ResolveAlias(name); ok {
		qualified = resolved
	} else {
		qualified = c.Modules.Qualify(name)
	}
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	if fs.inTail {
		fs.chunk.Emit(bytecode.TailCall(qualified, len(args)))
	} else {
		fs.chunk.Emit(bytecode.Call(qualified, len(args)))
	}
	return nil
}

// compileClosureCall handles a call whose head is not a bare global
// name: either a locally bound variable holding a closure/function
// value, or a nested form (e.g. ((lambda (x) x) 1)) evaluating to one.
// Frame reuse is never attempted here — only named self/sibling calls
// go through TailCall — so a closure held in a loop accumulator is not
// O(1) tail-recursive; that limitation is inherent to CallClosure
// always pushing a fresh frame.
func (c *Compiler) compileClosureCall(fs *fnState, head ast.Node, args []ast.Node) error {
	if err := c.compileOperand(fs, head); err != nil {
		return err
	}
	for _, a := range args {
		if err := c.compileOperand(fs, a); err != nil {
			return err
		}
	}
	fs.chunk.Emit(bytecode.CallClosure(len(args)))
	return nil
}
