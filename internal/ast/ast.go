// Package ast defines the tagged, located syntax tree the parser produces
// and the code generator consumes. Every node carries a token.Pos so
// compile errors can point back at source text.
package ast

import "github.com/quartzlang/quartz/internal/token"

// Node is any AST node.
type Node interface {
	Pos() token.Pos
	node()
}

type base struct {
	At token.Pos
}

func (b base) Pos() token.Pos { return b.At }
func (base) node()            {}

// Integer is a literal integer atom.
type Integer struct {
	base
	Value int64
}

// Float is a literal floating point atom.
type Float struct {
	base
	Value float64
}

// Boolean is a literal true/false atom.
type Boolean struct {
	base
	Value bool
}

// String is a literal string atom.
type String struct {
	base
	Value string
}

// Symbol is an identifier atom, used both for variable references and as
// the head of a special-form/call-form list.
type Symbol struct {
	base
	Name string
}

// List is a parenthesized form: either a special form, a function call,
// or (under quote) literal list data. Dotted is true when the source used
// a trailing ". rest" tail (e.g. (a b . rest)); when Dotted, the final
// element of Items is the tail rather than a proper list element.
type List struct {
	base
	Items  []Node
	Dotted bool
}

// Quote is (quote x) / 'x.
type Quote struct {
	base
	Value Node
}

// Quasiquote is (quasiquote x) / `x.
type Quasiquote struct {
	base
	Value Node
}

// Unquote is (unquote x) / ,x. Only meaningful inside a Quasiquote.
type Unquote struct {
	base
	Value Node
}

// UnquoteSplicing is (unquote-splicing x) / ,@x. Only meaningful as a
// direct element of a list inside a Quasiquote.
type UnquoteSplicing struct {
	base
	Value Node
}

func NewInteger(p token.Pos, v int64) *Integer   { return &Integer{base{p}, v} }
func NewFloat(p token.Pos, v float64) *Float     { return &Float{base{p}, v} }
func NewBoolean(p token.Pos, v bool) *Boolean     { return &Boolean{base{p}, v} }
func NewString(p token.Pos, v string) *String     { return &String{base{p}, v} }
func NewSymbol(p token.Pos, name string) *Symbol  { return &Symbol{base{p}, name} }
func NewList(p token.Pos, items []Node, dotted bool) *List {
	return &List{base{p}, items, dotted}
}
