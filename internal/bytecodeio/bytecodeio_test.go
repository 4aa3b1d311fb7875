package bytecodeio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/compiler"
	"github.com/quartzlang/quartz/internal/parser"
	"github.com/quartzlang/quartz/internal/value"
)

func compileSource(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	forms, err := parser.Parse(src, "<test>")
	require.NoError(t, err)
	p, err := compiler.Compile(forms)
	require.NoError(t, err)
	return p
}

func TestRoundTripSimpleProgram(t *testing.T) {
	p := compileSource(t, `(+ 1 2)`)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	got, err := Read(&buf)
	require.NoError(t, err)

	require.True(t, bytecode.ProgramsEqual(p, got))
}

func TestRoundTripFunctionsAndClosures(t *testing.T) {
	p := compileSource(t, `
		(defun fact ((0) 1) ((n) (* n (fact (- n 1)))))
		(let ((make-adder (lambda (x) (lambda (y) (+ x y)))))
		  ((make-adder 10) 5))
	`)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	got, err := Read(&buf)
	require.NoError(t, err)

	require.True(t, bytecode.ProgramsEqual(p, got))
}

func TestRoundTripQuotedCompoundData(t *testing.T) {
	p := compileSource(t, "'(1 2.5 \"three\" four (five six) true)")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	got, err := Read(&buf)
	require.NoError(t, err)
	require.True(t, bytecode.ProgramsEqual(p, got))
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("NOPE\x07")))
	require.Error(t, err)
}

func TestReadRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(0xFF)
	require.NoError(t, writeUint32(&buf, 0))
	require.NoError(t, writeUint32(&buf, 0))
	_, err := Read(&buf)
	require.Error(t, err)
}

func TestWriteRejectsOpaqueHandle(t *testing.T) {
	main := bytecode.NewChunk("")
	main.Emit(bytecode.Push(value.NewHandle("tcp", nil)))
	p := &bytecode.Program{Functions: map[string]*bytecode.Chunk{}, Main: main}

	var buf bytes.Buffer
	err := Write(&buf, p)
	require.Error(t, err)
}
