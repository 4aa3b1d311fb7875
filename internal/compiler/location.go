package compiler

import "github.com/quartzlang/quartz/internal/bytecode"

// LocationKind identifies which addressing mode a ValueLocation uses,
// per spec.md §4.5's ValueLocation sum type.
type LocationKind int

const (
	LocArg LocationKind = iota
	LocLocal
	LocCaptured
	LocElement // navigate to parent, then Cdr x Index, then Car
	LocRest    // navigate to parent, then Cdr x Index
)

// ValueLocation records how to re-load a bound name's current value.
// Element/Rest compose over a Parent location so nested destructuring
// patterns in `let` and defun clauses resolve without ever allocating
// an intermediate list (spec.md §9, "Pattern compilation via
// navigational accessors").
type ValueLocation struct {
	Kind   LocationKind
	Index  int // Arg: argument index; Local: stack pos; Captured: capture index; Element: car-depth; Rest: cdr-depth
	Parent *ValueLocation
}

func argLoc(i int) ValueLocation      { return ValueLocation{Kind: LocArg, Index: i} }
func localLoc(pos int) ValueLocation  { return ValueLocation{Kind: LocLocal, Index: pos} }
func capturedLoc(i int) ValueLocation { return ValueLocation{Kind: LocCaptured, Index: i} }
func elementLoc(parent ValueLocation, i int) ValueLocation {
	return ValueLocation{Kind: LocElement, Index: i, Parent: &parent}
}
func restLoc(parent ValueLocation, n int) ValueLocation {
	return ValueLocation{Kind: LocRest, Index: n, Parent: &parent}
}

// emitLoad writes the instructions that push loc's current value.
func emitLoad(chunk *bytecode.Chunk, loc ValueLocation) {
	switch loc.Kind {
	case LocArg:
		chunk.Emit(bytecode.LoadArg(loc.Index))
	case LocLocal:
		chunk.Emit(bytecode.GetLocal(loc.Index))
	case LocCaptured:
		chunk.Emit(bytecode.LoadCaptured(loc.Index))
	case LocElement:
		emitLoad(chunk, *loc.Parent)
		for i := 0; i < loc.Index; i++ {
			chunk.Emit(bytecode.Simple(bytecode.OpCdr))
		}
		chunk.Emit(bytecode.Simple(bytecode.OpCar))
	case LocRest:
		emitLoad(chunk, *loc.Parent)
		for i := 0; i < loc.Index; i++ {
			chunk.Emit(bytecode.Simple(bytecode.OpCdr))
		}
	}
}
