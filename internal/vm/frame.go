package vm

import (
	"github.com/quartzlang/quartz/internal/bytecode"
	"github.com/quartzlang/quartz/internal/value"
)

// frame is a single call activation, per spec.md §4.2's Frame fields.
type frame struct {
	returnAddress int
	returnChunk   *bytecode.Chunk
	chunk         *bytecode.Chunk // current_bytecode for this activation
	ip            int

	locals       []value.Value // argument values, indexed by LoadArg
	captured     []value.Value // flat vector indexed by LoadCaptured
	stackBase    int           // value-stack length at entry; anchors GetLocal/SetLocal
	functionName string        // for stack traces

	// Loop state, set by BeginLoop; valid only once a loop has begun in
	// this frame (spec.md §4.3).
	loopStart         int
	loopBindingsBase  int
	loopBindingsCount int
	hasLoop           bool
}
