// Package parser builds the located ast.Node tree from a token stream.
// It is a direct recursive-descent reader over internal/lexer's tokens,
// following the structure of original_source/src/parser.rs (flat token
// list + position cursor) but extended per spec.md §6's reader syntax:
// quote/quasiquote/unquote macros, dotted-pair tails, string literals,
// and floats.
package parser

import (
	"fmt"

	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/lexer"
	"github.com/quartzlang/quartz/internal/token"
)

// Error is a parse error: malformed tokens or unclosed forms, reported
// with file, line, column, per spec.md §7.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: parse error: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
}

// Position implements diagnostics.LocatedError.
func (e *Error) Position() token.Pos { return e.Pos }

// Parser reads a fixed token slice into top-level forms.
type Parser struct {
	tokens []token.Token
	pos    int
}

// Parse tokenizes and parses src in one call, returning every top-level
// form in source order.
func Parse(src, file string) ([]ast.Node, error) {
	toks, err := lexer.New(src, file).Tokens()
	if err != nil {
		return nil, err
	}
	return New(toks).ParseAll()
}

// New builds a Parser directly from a token stream (used by the REPL,
// which tokenizes incrementally).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseAll reads every top-level form until EOF.
func (p *Parser) ParseAll() ([]ast.Node, error) {
	var forms []ast.Node
	for p.cur().Kind != token.EOF {
		form, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) parseExpr() (ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case token.EOF:
		return nil, &Error{Message: "unexpected end of input", Pos: t.Pos}
	case token.LParen:
		return p.parseList()
	case token.RParen:
		return nil, &Error{Message: "unexpected ')'", Pos: t.Pos}
	case token.Quote:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Quote{Value: inner}, nil
	case token.Quasiquote:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Quasiquote{Value: inner}, nil
	case token.Unquote:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Unquote{Value: inner}, nil
	case token.UnquoteSplice:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnquoteSplicing{Value: inner}, nil
	case token.Dot:
		return nil, &Error{Message: "unexpected '.' outside a list tail", Pos: t.Pos}
	case token.Boolean:
		p.advance()
		return ast.NewBoolean(t.Pos, t.Literal == "true"), nil
	case token.Integer:
		p.advance()
		return parseInt(t)
	case token.Float:
		p.advance()
		return parseFloat(t)
	case token.String:
		p.advance()
		return ast.NewString(t.Pos, t.Literal), nil
	case token.Symbol:
		p.advance()
		return ast.NewSymbol(t.Pos, t.Literal), nil
	default:
		return nil, &Error{Message: fmt.Sprintf("unexpected token %q", t.Literal), Pos: t.Pos}
	}
}

func (p *Parser) parseList() (ast.Node, error) {
	start := p.advance() // consume '('
	var items []ast.Node
	dotted := false

	for {
		t := p.cur()
		if t.Kind == token.EOF {
			return nil, &Error{Message: "unclosed list: missing ')'", Pos: start.Pos}
		}
		if t.Kind == token.RParen {
			p.advance()
			return ast.NewList(start.Pos, items, dotted), nil
		}
		if t.Kind == token.Dot {
			p.advance()
			tail, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.cur().Kind != token.RParen {
				return nil, &Error{Message: "expected ')' after dotted tail", Pos: p.cur().Pos}
			}
			p.advance()
			items = append(items, tail)
			dotted = true
			return ast.NewList(start.Pos, items, dotted), nil
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func parseInt(t token.Token) (ast.Node, error) {
	var v int64
	_, err := fmt.Sscanf(t.Literal, "%d", &v)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("invalid integer literal %q", t.Literal), Pos: t.Pos}
	}
	return ast.NewInteger(t.Pos, v), nil
}

func parseFloat(t token.Token) (ast.Node, error) {
	var v float64
	_, err := fmt.Sscanf(t.Literal, "%g", &v)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("invalid float literal %q", t.Literal), Pos: t.Pos}
	}
	return ast.NewFloat(t.Pos, v), nil
}
