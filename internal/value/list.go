package value

import "strings"

// List is a persistent singly-linked cons list. A nil *List is Nil (the
// canonical empty list, per spec.md §3); a non-nil *List is a Cons cell
// holding Head and a shared Tail. Tails are never copied on read, so
// cdr and sharing a common suffix across lists are both O(1).
//
// A proper list's final cell has Tail == nil and improperEnd == false.
// Quoting a dotted literal whose tail is an atom, e.g. `(a . b)`,
// instead cons onto that atom (spec.md §4.5's quote rule): the final
// cell records it in tailAtom rather than chasing a (non-existent)
// further List cell, making the list improper.
type List struct {
	Head Value
	Tail *List

	improperEnd bool
	tailAtom    Value
}

func (*List) objKind() Kind { return KindList }

// Nil is the empty list value.
var Nil = fromObj((*List)(nil))

// IsNilList reports whether l represents the empty list.
func IsNilList(l *List) bool { return l == nil }

// Cons builds a new list value by prepending head onto tail. When tail
// is itself list data, the result is a proper extension of it;
// otherwise tail becomes the new cell's improper (dotted) end.
func Cons(head Value, tail Value) Value {
	if tail.IsList() {
		return fromObj(&List{Head: head, Tail: tail.obj.(*List)})
	}
	return fromObj(&List{Head: head, improperEnd: true, tailAtom: tail})
}

// ListOf builds a proper list from a Go slice, in order.
func ListOf(items ...Value) Value {
	v := Nil
	for i := len(items) - 1; i >= 0; i-- {
		v = Cons(items[i], v)
	}
	return v
}

func (v Value) AsList() *List { return v.obj.(*List) }

// Car returns the head of a non-empty list.
func (l *List) Car() (Value, bool) {
	if l == nil {
		return Value{}, false
	}
	return l.Head, true
}

// Cdr returns the tail of a non-empty list as a Value: another list
// for a proper cell, or the dotted atom for an improper list's last
// cell.
func (l *List) Cdr() Value {
	if l == nil {
		return Nil
	}
	if l.Tail == nil {
		if l.improperEnd {
			return l.tailAtom
		}
		return Nil
	}
	return fromObj(l.Tail)
}

// IsImproper reports whether l's last cell ends in a non-list atom
// rather than Nil.
func (l *List) IsImproper() bool {
	_, improper := l.ImproperTail()
	return improper
}

// ImproperTail returns the dotted atom l's last cell ends in, and
// true, or (Nil, false) if l is a proper list.
func (l *List) ImproperTail() (Value, bool) {
	c := l
	for c != nil && c.Tail != nil {
		c = c.Tail
	}
	if c != nil && c.improperEnd {
		return c.tailAtom, true
	}
	return Nil, false
}

// Len returns the count of proper elements, stopping before any
// dotted tail atom; O(n).
func (l *List) Len() int {
	n := 0
	for c := l; c != nil; c = c.Tail {
		n++
	}
	return n
}

// Slice materializes the list's proper elements into a Go slice,
// excluding any dotted tail atom (use Cdr on the last cell, or
// IsImproper, to recover it).
func (l *List) Slice() []Value {
	out := make([]Value, 0, l.Len())
	for c := l; c != nil; c = c.Tail {
		out = append(out, c.Head)
	}
	return out
}

// Append concatenates two lists. It is O(len(a)) and shares b's
// structure entirely, satisfying the associativity property in
// spec.md §8.
func Append(a, b Value) Value {
	aList := a.obj.(*List)
	items := aList.Slice()
	result := b
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result
}

func (l *List) Equals(o *List) bool {
	a, b := l, o
	for {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		if !a.Head.Equals(b.Head) {
			return false
		}
		if a.Tail == nil || b.Tail == nil {
			if a.Tail != nil || b.Tail != nil {
				return false
			}
			if a.improperEnd != b.improperEnd {
				return false
			}
			return !a.improperEnd || a.tailAtom.Equals(b.tailAtom)
		}
		a, b = a.Tail, b.Tail
	}
}

func (l *List) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('(')
	c := l
	for first := true; c != nil; c, first = c.Tail, false {
		if !first {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Head.Inspect())
		if c.Tail == nil && c.improperEnd {
			sb.WriteString(" . ")
			sb.WriteString(c.tailAtom.Inspect())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
