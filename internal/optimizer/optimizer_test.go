package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

func TestConstantFold(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.Push(value.Integer(2)))
	c.Emit(bytecode.Push(value.Integer(3)))
	c.Emit(bytecode.Simple(bytecode.OpAdd))
	c.Emit(bytecode.Simple(bytecode.OpRet))

	changed := constantFold(c)
	require.True(t, changed)
	require.Len(t, c.Code, 2)
	require.Equal(t, bytecode.OpPush, c.Code[0].Op)
	require.True(t, c.Code[0].Value.Equals(value.Integer(5)))
	require.Equal(t, bytecode.OpRet, c.Code[1].Op)
}

func TestConstantFoldSkipsDivisionByLiteralZero(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.Push(value.Integer(1)))
	c.Emit(bytecode.Push(value.Integer(0)))
	c.Emit(bytecode.Simple(bytecode.OpDiv))

	changed := constantFold(c)
	require.False(t, changed)
	require.Len(t, c.Code, 3)
}

func TestAlgebraicIdentityAddZero(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.LoadArg(0))
	c.Emit(bytecode.Push(value.Integer(0)))
	c.Emit(bytecode.Simple(bytecode.OpAdd))
	c.Emit(bytecode.Simple(bytecode.OpRet))

	changed := algebraicIdentities(c)
	require.True(t, changed)
	require.Equal(t, []bytecode.Opcode{bytecode.OpLoadArg, bytecode.OpRet}, opcodesOf(c))
}

func TestAlgebraicIdentityMulOne(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.Push(value.Integer(1)))
	c.Emit(bytecode.LoadArg(0))
	c.Emit(bytecode.Simple(bytecode.OpMul))

	changed := algebraicIdentities(c)
	require.True(t, changed)
	require.Equal(t, []bytecode.Opcode{bytecode.OpLoadArg}, opcodesOf(c))
}

func TestCollapseJumpChains(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.Jmp(1))             // 0: -> 1
	c.Emit(bytecode.Jmp(2))             // 1: -> 2
	c.Emit(bytecode.Simple(bytecode.OpRet)) // 2

	changed := collapseJumpChains(c)
	require.True(t, changed)
	require.Equal(t, 2, c.Code[0].Addr)
}

func TestDeadCodeAfterReturn(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.Simple(bytecode.OpRet))
	c.Emit(bytecode.Push(value.Integer(99))) // unreachable

	changed := eliminateDeadCode(c)
	require.True(t, changed)
	require.Len(t, c.Code, 1)
}

func TestDeadCodePreservesJumpTargets(t *testing.T) {
	c := bytecode.NewChunk("")
	c.Emit(bytecode.Jmp(1))                 // 0: -> 1
	c.Emit(bytecode.Push(value.Integer(1))) // 1: reachable, jump target
	c.Emit(bytecode.Simple(bytecode.OpRet)) // 2

	changed := eliminateDeadCode(c)
	require.False(t, changed)
	require.Len(t, c.Code, 3)
}

func TestOptimizeProgramDescendsIntoClosureBodies(t *testing.T) {
	body := bytecode.NewChunk("__closure")
	body.Emit(bytecode.Push(value.Integer(2)))
	body.Emit(bytecode.Push(value.Integer(2)))
	body.Emit(bytecode.Simple(bytecode.OpAdd))
	body.Emit(bytecode.Simple(bytecode.OpRet))

	main := bytecode.NewChunk("")
	main.Emit(bytecode.MakeClosure(nil, body, 0))
	main.Emit(bytecode.Simple(bytecode.OpHalt))

	p := &bytecode.Program{Functions: map[string]*bytecode.Chunk{}, Main: main}
	Optimize(p, Default())

	require.Len(t, body.Code, 2)
	require.True(t, body.Code[0].Value.Equals(value.Integer(4)))
}

func opcodesOf(c *bytecode.Chunk) []bytecode.Opcode {
	out := make([]bytecode.Opcode, len(c.Code))
	for i, instr := range c.Code {
		out[i] = instr.Op
	}
	return out
}
