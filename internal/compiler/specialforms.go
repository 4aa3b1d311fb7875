package compiler

import "github.com/quartzlang/quartz/internal/ast"

// specialForms maps a head symbol to its compiling function. Anything
// not in this table and not a known macro falls through to
// compileCallForm (spec.md §4.5/§4.6).
var specialForms = map[string]func(*Compiler, *fnState, *ast.List) error{
	"if":     compileIf,
	"and":    compileAnd,
	"or":     compileOr,
	"cond":   compileCond,
	"when":   compileWhen,
	"unless": compileUnless,
	"do":     compileDo,
	"begin":  compileDo,

	"+": compileArithmetic, "-": compileArithmetic, "*": compileArithmetic,
	"/": compileArithmetic, "%": compileArithmetic,
	"<": compileComparison, "<=": compileComparison, ">": compileComparison,
	">=": compileComparison, "==": compileComparison, "!=": compileComparison,
	"neg": compileNeg,

	"let":         compileLet,
	"loop":        compileLoop,
	"recur":       compileRecur,
	"lambda":      compileLambda,
	"fn":          compileLambda,
	"def":         compileDef,
	"defun":       compileDefun,
	"defmacro":    compileDefmacro,
	"macroexpand": compileMacroexpand,
	"quote":       compileQuoteForm,
	"quasiquote":  compileQuasiquoteForm,
	"module":      compileModuleStmt,
	"import":      compileImportStmt,
}
