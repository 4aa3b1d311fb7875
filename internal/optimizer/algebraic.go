package optimizer

import "github.com/quartzlang/quartz/internal/bytecode"

// algebraicIdentities rewrites a handful of identity operations that
// don't require both operands to be literal (so they apply even when
// constantFold can't): `x + 0`, `0 + x`, `x - 0`, `x * 1`, `1 * x`.
// Each match removes the identity operand's Push and the operator,
// keeping x's instruction. `x * 0` and `0 * x` are not rewritten.
func algebraicIdentities(c *bytecode.Chunk) bool {
	changed := false
	for i := 0; i+2 < len(c.Code); i++ {
		a, b, op := c.Code[i], c.Code[i+1], c.Code[i+2]

		switch {
		case op.Op == bytecode.OpAdd && isZero(b) && a.Op != bytecode.OpPush:
			// x + 0: drop the trailing Push(0) and the Add, keep x.
			removeAt(c, i+2)
			removeAt(c, i+1)
			changed = true
		case op.Op == bytecode.OpAdd && isZero(a) && b.Op != bytecode.OpPush:
			// 0 + x: drop the leading Push(0) and the Add, keep x.
			removeAt(c, i+2)
			removeAt(c, i)
			changed = true
		case op.Op == bytecode.OpSub && isZero(b):
			// x - 0
			removeAt(c, i+2)
			removeAt(c, i+1)
			changed = true
		case op.Op == bytecode.OpMul && isOne(b) && a.Op != bytecode.OpPush:
			removeAt(c, i+2)
			removeAt(c, i+1)
			changed = true
		case op.Op == bytecode.OpMul && isOne(a) && b.Op != bytecode.OpPush:
			removeAt(c, i+2)
			removeAt(c, i)
			changed = true
		default:
			continue
		}
		i--
	}
	return changed
}

func isZero(i bytecode.Instruction) bool {
	return i.Op == bytecode.OpPush && i.Value.IsNumber() && i.Value.NumberAsFloat() == 0
}

func isOne(i bytecode.Instruction) bool {
	return i.Op == bytecode.OpPush && i.Value.IsNumber() && i.Value.NumberAsFloat() == 1
}
