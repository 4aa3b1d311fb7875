package optimizer

import "github.com/quartzlang/quartz/internal/bytecode"

// collapseJumpChains retargets any Jmp/JmpIfFalse/CheckArity whose
// target is itself an unconditional Jmp to that Jmp's own target,
// following the chain to its end. This shortens "jump to a jump"
// sequences the compiler's forward-patching can leave behind (e.g. a
// cond clause's Jmp-to-end landing on another clause's Jmp-to-end).
func collapseJumpChains(c *bytecode.Chunk) bool {
	changed := false
	for i := range c.Code {
		if !isJumpish(c.Code[i].Op) {
			continue
		}
		target := c.Code[i].Addr
		final := followChain(c, target, len(c.Code))
		if final != target {
			c.Code[i].Addr = final
			changed = true
		}
	}
	return changed
}

// followChain walks a sequence of unconditional Jmp targets, bounded
// by the chunk length to guard against a pathological self-loop
// (e.g. a Jmp whose own target is itself).
func followChain(c *bytecode.Chunk, addr, limit int) int {
	seen := map[int]bool{}
	for limit > 0 {
		if addr < 0 || addr >= len(c.Code) || seen[addr] {
			return addr
		}
		seen[addr] = true
		instr := c.Code[addr]
		if instr.Op != bytecode.OpJmp {
			return addr
		}
		addr = instr.Addr
		limit--
	}
	return addr
}
