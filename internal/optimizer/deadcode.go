package optimizer

import "github.com/quartzlang/quartz/internal/bytecode"

// eliminateDeadCode drops unreachable instructions immediately
// following an unconditional terminator (Jmp, Ret, Halt,
// NoMatchingClause, Recur) up to the next jump target or the end of the
// chunk, per spec.md §1's "dead code after terminators". A later
// instruction is never removed if some other instruction still jumps
// to it.
func eliminateDeadCode(c *bytecode.Chunk) bool {
	changed := false
	for i := 0; i < len(c.Code)-1; i++ {
		if !isTerminator(c.Code[i].Op) {
			continue
		}
		// Recomputed on every removal: removeAt shifts every later
		// index down by one, which would otherwise stale this set.
		if jumpTargets(c)[i+1] {
			continue
		}
		removeAt(c, i+1)
		changed = true
		i--
	}
	return changed
}

func isTerminator(op bytecode.Opcode) bool {
	switch op {
	case bytecode.OpJmp, bytecode.OpRet, bytecode.OpHalt, bytecode.OpNoMatchingClause, bytecode.OpRecur:
		return true
	default:
		return false
	}
}

func jumpTargets(c *bytecode.Chunk) map[int]bool {
	out := make(map[int]bool)
	for _, instr := range c.Code {
		if isJumpish(instr.Op) {
			out[instr.Addr] = true
		}
	}
	return out
}
