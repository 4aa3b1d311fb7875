// Package diagnostics centralizes user-facing error rendering so the
// CLI has one formatting path regardless of which pipeline stage
// failed, per spec.md §7: parse/compile errors print a location and an
// underlined source line; runtime errors print the message and the
// call stack. Grounded on original_source/src/lib.rs's
// CompileError::format/RuntimeError::format, translated into Go's
// error-value idiom: each error type implements Error() for plain
// display, RenderLocated additionally prints the source-line pointer
// when given the original text, and RenderCallStack prints a runtime
// error with its call stack.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/quartzlang/quartz/internal/token"
)

// LocatedError is implemented by parse and compile errors.
type LocatedError interface {
	error
	Position() token.Pos
}

// RenderLocated writes a located error plus, when source is non-empty,
// the offending line with a caret under the reported column.
func RenderLocated(w io.Writer, err LocatedError, source string) {
	pos := err.Position()
	fmt.Fprintf(w, "%s\n", err.Error())
	line := sourceLine(source, pos.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  | %s\n", line)
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(w, "  | %s^\n", strings.Repeat(" ", col))
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// RenderCallStack writes a runtime error message followed by its call
// stack rendered newest-call-first, per spec.md §7.
func RenderCallStack(w io.Writer, message string, callStackOldestFirst []string) {
	fmt.Fprintf(w, "Runtime error: %s\n", message)
	if len(callStackOldestFirst) == 0 {
		return
	}
	fmt.Fprintln(w, "\nCall stack:")
	for i := len(callStackOldestFirst) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "  #%d: %s\n", len(callStackOldestFirst)-1-i, callStackOldestFirst[i])
	}
}
