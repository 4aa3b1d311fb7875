package optimizer

import (
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// constantFold collapses `Push(a) Push(b) Op` into a single `Push`
// when Op is a pure arithmetic/compare instruction and both operands
// are literal numbers, per spec.md §1's "constant folding". Integer
// division and modulo by a literal zero are left unfolded so the
// runtime error still fires at the original instruction's reported
// line; float division by zero folds to ±Inf/NaN, as the VM computes.
func constantFold(c *bytecode.Chunk) bool {
	changed := false
	for i := 0; i+2 < len(c.Code); i++ {
		a, b, op := c.Code[i], c.Code[i+1], c.Code[i+2]
		if a.Op != bytecode.OpPush || b.Op != bytecode.OpPush {
			continue
		}
		if !a.Value.IsNumber() || !b.Value.IsNumber() {
			continue
		}
		folded, ok := foldBinary(op.Op, a.Value, b.Value)
		if !ok {
			continue
		}
		// Replace the three instructions with one Push carrying the
		// first instruction's source position (closest to the original
		// expression's start).
		c.Code[i] = bytecode.Push(folded).WithPos(a.Line, a.Column)
		removeAt(c, i+1)
		removeAt(c, i+1) // the op instruction, now at the same index as b was
		changed = true
		i-- // re-examine from the folded instruction in case it chains further
	}
	return changed
}

// foldBinary evaluates a single arithmetic/compare opcode over two
// literal numeric values, matching the VM's own type-dispatch rule
// (internal/vm/arithmetic.go): an all-integer pair folds to an
// integer, otherwise to a float. Integer division by a literal zero,
// and modulo with a zero divisor or a float operand, are rejected
// (ok=false) so the unfolded instructions still run in the VM.
func foldBinary(op bytecode.Opcode, a, b value.Value) (value.Value, bool) {
	bothInt := a.IsInteger() && b.IsInteger()
	ai, bi := a.AsInt(), b.AsInt()
	af, bf := a.NumberAsFloat(), b.NumberAsFloat()

	switch op {
	case bytecode.OpAdd:
		if bothInt {
			return value.Integer(ai + bi), true
		}
		return value.Float(af + bf), true
	case bytecode.OpSub:
		if bothInt {
			return value.Integer(ai - bi), true
		}
		return value.Float(af - bf), true
	case bytecode.OpMul:
		if bothInt {
			return value.Integer(ai * bi), true
		}
		return value.Float(af * bf), true
	case bytecode.OpDiv:
		if bothInt {
			if bi == 0 {
				return value.Value{}, false
			}
			return value.Integer(ai / bi), true
		}
		return value.Float(af / bf), true
	case bytecode.OpMod:
		if !bothInt || bi == 0 {
			return value.Value{}, false
		}
		return value.Integer(ai % bi), true
	case bytecode.OpLt:
		return value.Boolean(af < bf), true
	case bytecode.OpLeq:
		return value.Boolean(af <= bf), true
	case bytecode.OpGt:
		return value.Boolean(af > bf), true
	case bytecode.OpGte:
		return value.Boolean(af >= bf), true
	case bytecode.OpEq:
		return value.Boolean(af == bf), true
	case bytecode.OpNeq:
		return value.Boolean(af != bf), true
	default:
		return value.Value{}, false
	}
}
