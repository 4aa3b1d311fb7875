package vm_test

// End-to-end pipeline tests: source text through parser.Parse,
// compiler.Compile, and vm.New().RunProgram. This is the table spec.md
// §8 calls for — universal properties the implementation must satisfy,
// plus the worked example programs the spec gives as acceptance cases.

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/compiler"
	"github.com/quartzlang/quartz/internal/optimizer"
	"github.com/quartzlang/quartz/internal/parser"
	"github.com/quartzlang/quartz/internal/value"
	"github.com/quartzlang/quartz/internal/vm"
)

func evalSource(t *testing.T, src string) value.Value {
	t.Helper()
	forms, err := parser.Parse(src, "<test>")
	require.NoError(t, err)
	prog, err := compiler.Compile(forms)
	require.NoError(t, err)
	result, err := vm.New(prog.Functions).RunProgram(prog)
	require.NoError(t, err)
	return result
}

func requireRuntimeError(t *testing.T, src string) {
	t.Helper()
	forms, err := parser.Parse(src, "<test>")
	require.NoError(t, err)
	prog, err := compiler.Compile(forms)
	require.NoError(t, err)
	_, err = vm.New(prog.Functions).RunProgram(prog)
	require.Error(t, err)
}

// --- spec.md §8 worked examples ---

func TestFactorialViaMultiClauseDefun(t *testing.T) {
	got := evalSource(t, `
		(defun fact
		  ((0) 1)
		  ((n) (* n (fact (- n 1)))))
		(fact 5)
	`)
	require.True(t, got.IsInteger())
	require.Equal(t, int64(120), got.AsInt())
}

// A destructuring list pattern must check IsList/ListLength before
// binding, falling through to a later clause when the call's argument
// isn't a list or is the wrong length, rather than matching on arity
// alone (spec.md §4.6 step 3).
func TestMultiClauseDefunDestructuringListPatternFallsThrough(t *testing.T) {
	src := `
		(defun f
		  (((a b)) (+ a b))
		  ((x) x))
		(make-list (f '(1 2)) (f 5) (list-length (f '(1 2 3))))
	`
	got := evalSource(t, src)
	require.True(t, got.IsList())
	elems := got.AsList().Slice()
	require.Len(t, elems, 3)
	require.Equal(t, int64(3), elems[0].AsInt()) // (1 2) destructures and sums
	require.Equal(t, int64(5), elems[1].AsInt()) // 5 isn't a list: falls through to (x)
	require.Equal(t, int64(3), elems[2].AsInt()) // (1 2 3) has length 3, not 2: falls through, (x) returns it whole
}

func TestFibonacci(t *testing.T) {
	got := evalSource(t, `
		(defun fib
		  ((0) 0)
		  ((1) 1)
		  ((n) (+ (fib (- n 1)) (fib (- n 2)))))
		(fib 10)
	`)
	require.Equal(t, int64(55), got.AsInt())
}

func TestTailRecursiveSumDoesNotOverflowTheCallStack(t *testing.T) {
	got := evalSource(t, `
		(defun sum-to
		  ((n acc) (if (== n 0) acc (sum-to (- n 1) (+ acc n)))))
		(sum-to 100000 0)
	`)
	require.Equal(t, int64(5000050000), got.AsInt())
}

func TestNestedClosureMakeAdder(t *testing.T) {
	got := evalSource(t, `
		(let ((make-adder (lambda (x) (lambda (y) (+ x y)))))
		  ((make-adder 10) 5))
	`)
	require.Equal(t, int64(15), got.AsInt())
}

func TestDefmacroUnless2(t *testing.T) {
	got := evalSource(t, "(defmacro unless2 (c b) (quasiquote (if (unquote c) false (unquote b)))) (unless2 false 42)")
	require.Equal(t, int64(42), got.AsInt())
}

func TestLoopRecurSummingZeroToNine(t *testing.T) {
	got := evalSource(t, `
		(loop ((i 0) (acc 0))
		  (if (== i 10) acc (recur (+ i 1) (+ acc i))))
	`)
	require.Equal(t, int64(45), got.AsInt())
}

// --- spec.md §8 universal properties ---

// Tail calls run in constant stack space: a tail-recursive loop of
// 100000 iterations must not exhaust maxFrameDepth (internal/vm/calls.go).
func TestTailCallConstantSpace(t *testing.T) {
	got := evalSource(t, `
		(defun count-down
		  ((0) 0)
		  ((n) (count-down (- n 1))))
		(count-down 500000)
	`)
	require.Equal(t, int64(0), got.AsInt())
}

// Closures capture the *value* bound at creation time, not a
// reference to the enclosing binding's storage cell.
func TestClosureCapturesValueNotReference(t *testing.T) {
	got := evalSource(t, `
		(let ((x 1))
		  (let ((capture (lambda () x)))
		    (let ((x 2))
		      (capture))))
	`)
	require.Equal(t, int64(1), got.AsInt())
}

// Redefining a global via def is a compile error (globals are immutable).
func TestGlobalRedefinitionIsACompileError(t *testing.T) {
	forms, err := parser.Parse(`
		(def x 1)
		(def x 2)
	`, "<test>")
	require.NoError(t, err)
	_, err = compiler.Compile(forms)
	require.Error(t, err)
}

// Vectors are copy-on-write: vector-set never mutates a value already
// observed by an earlier reader.
func TestVectorSetDoesNotMutatePriorReaders(t *testing.T) {
	got := evalSource(t, `
		(let ((v (make-vector 1 2 3)))
		  (let ((original v))
		    (let ((_ (vector-set v 0 99)))
		      (vector-get original 0))))
	`)
	require.Equal(t, int64(1), got.AsInt())
}

// quote round-trips structurally: the quoted form, read back, equals
// the literal data it denotes.
func TestQuoteRoundTrip(t *testing.T) {
	got := evalSource(t, `'(1 2 3)`)
	require.True(t, got.IsList())
	require.Equal(t, 3, got.AsList().Len())
}

// append is associative: (append (append a b) c) == (append a (append b c)).
func TestAppendIsAssociative(t *testing.T) {
	left := evalSource(t, `(append (append '(1 2) '(3 4)) '(5 6))`)
	right := evalSource(t, `(append '(1 2) (append '(3 4) '(5 6)))`)
	require.True(t, left.Equals(right))
}

// Macro expansion runs each expansion on its own transient VM (the
// macro-hygiene envelope): one macro's expansion-time state can't leak
// into another's, or into the surrounding program's globals.
func TestMacroExpansionHasNoSharedExpansionState(t *testing.T) {
	got := evalSource(t, "(defmacro twice (x) (quasiquote (+ (unquote x) (unquote x)))) (+ (twice 3) (twice 10))")
	require.Equal(t, int64(26), got.AsInt())
}

// Bytecode idempotence: compiling the same source twice produces
// structurally identical programs (modulo source positions).
func TestCompilingTheSameSourceTwiceIsIdempotent(t *testing.T) {
	src := `
		(defun fact ((0) 1) ((n) (* n (fact (- n 1)))))
		(fact 6)
	`
	forms1, err := parser.Parse(src, "<test>")
	require.NoError(t, err)
	prog1, err := compiler.Compile(forms1)
	require.NoError(t, err)

	forms2, err := parser.Parse(src, "<test>")
	require.NoError(t, err)
	prog2, err := compiler.Compile(forms2)
	require.NoError(t, err)

	require.True(t, bytecode.ProgramsEqual(prog1, prog2))

	opt1 := optimizer.Optimize(prog1, optimizer.Default())
	opt2 := optimizer.Optimize(prog2, optimizer.Default())
	require.True(t, bytecode.ProgramsEqual(opt1, opt2))
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	requireRuntimeError(t, `(/ 1 0)`)
}

func TestUndefinedFunctionCallIsARuntimeError(t *testing.T) {
	requireRuntimeError(t, `(totally-undefined-thing 1 2)`)
}

func TestNoMatchingClauseIsARuntimeError(t *testing.T) {
	requireRuntimeError(t, `
		(defun only-zero ((0) "zero"))
		(only-zero 5)
	`)
}
