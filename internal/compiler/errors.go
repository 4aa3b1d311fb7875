package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quartzlang/quartz/internal/token"
)

// Error is a compile-time error: undefined variable, arity mismatch in
// a special form, dotted list outside a pattern, redefinition of a
// global, invalid `let` pattern, or macro-expansion failure
// (spec.md §7). Suggestion, when non-empty, is a "did you mean X?"
// hint computed from the set of names in scope.
type Error struct {
	Message    string
	Pos        token.Pos
	Suggestion string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: compile error: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Position implements diagnostics.LocatedError.
func (e *Error) Position() token.Pos { return e.Pos }

func errAt(pos token.Pos, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// suggest picks the closest name to target by Levenshtein distance,
// returning "" if nothing is reasonably close.
func suggest(target string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein(target, c)
		if bestDist == -1 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > 2 || best == "" {
		return ""
	}
	return best
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// sortedKeys is a small helper used when building candidate lists for
// did-you-mean suggestions so output is deterministic.
func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func trimModulePrefix(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
