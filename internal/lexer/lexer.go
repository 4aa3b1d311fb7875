// Package lexer tokenizes Quartz source text into a flat token stream.
//
// The tokenizer is a single left-to-right scan, grounded on the
// char-by-char accumulation technique in original_source/src/parser.rs:
// unterminated "current" text is flushed to a token whenever a
// delimiter, quote character, or whitespace is seen, and line/column
// are tracked so the parser (and later, diagnostics) can point at the
// exact source position of every token.
package lexer

import (
	"fmt"
	"strings"

	"github.com/quartzlang/quartz/internal/token"
)

// Lexer scans one source file into tokens.
type Lexer struct {
	input  []rune
	pos    int
	line   int
	column int
	file   string
}

// New creates a Lexer over src, attributing positions to file (used only
// for diagnostics; pass "<input>" for REPL/ad hoc snippets).
func New(src, file string) *Lexer {
	return &Lexer{input: []rune(src), pos: 0, line: 1, column: 1, file: file}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.input[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) posHere() token.Pos {
	return token.Pos{Line: l.line, Column: l.column, File: l.file}
}

// Tokens scans the entire input and returns every token, including a
// trailing EOF token, or the first lexical error encountered.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

func (l *Lexer) next() (token.Token, error) {
	l.skipAtmosphere()
	pos := l.posHere()

	if l.pos >= len(l.input) {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	switch ch := l.peek(); {
	case ch == '(':
		l.advance()
		return token.Token{Kind: token.LParen, Literal: "(", Pos: pos}, nil
	case ch == ')':
		l.advance()
		return token.Token{Kind: token.RParen, Literal: ")", Pos: pos}, nil
	case ch == '\'':
		l.advance()
		return token.Token{Kind: token.Quote, Literal: "'", Pos: pos}, nil
	case ch == '`':
		l.advance()
		return token.Token{Kind: token.Quasiquote, Literal: "`", Pos: pos}, nil
	case ch == ',':
		l.advance()
		if l.peek() == '@' {
			l.advance()
			return token.Token{Kind: token.UnquoteSplice, Literal: ",@", Pos: pos}, nil
		}
		return token.Token{Kind: token.Unquote, Literal: ",", Pos: pos}, nil
	case ch == '"':
		return l.scanString(pos)
	default:
		return l.scanAtom(pos)
	}
}

func (l *Lexer) skipAtmosphere() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == ';':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanString(pos token.Pos) (token.Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token.Token{}, fmt.Errorf("%s:%d:%d: unterminated string literal", pos.File, pos.Line, pos.Column)
		}
		ch := l.advance()
		if ch == '"' {
			return token.Token{Kind: token.String, Literal: sb.String(), Pos: pos}, nil
		}
		if ch == '\\' {
			if l.pos >= len(l.input) {
				return token.Token{}, fmt.Errorf("%s:%d:%d: unterminated string escape", pos.File, pos.Line, pos.Column)
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(ch)
	}
}

func isDelimiter(ch rune) bool {
	switch ch {
	case 0, '(', ')', '\'', '`', ',', '"', ' ', '\t', '\r', '\n', ';':
		return true
	}
	return false
}

func (l *Lexer) scanAtom(pos token.Pos) (token.Token, error) {
	// A bare "." is the dotted-pair marker; a longer run starting with
	// '.' (such as ".5") is not numeric and scans as a symbol.
	if l.peek() == '.' && isDelimiter(l.peekAt(1)) {
		l.advance()
		return token.Token{Kind: token.Dot, Literal: ".", Pos: pos}, nil
	}

	var sb strings.Builder
	for l.pos < len(l.input) && !isDelimiter(l.peek()) {
		sb.WriteRune(l.advance())
	}
	text := sb.String()

	switch {
	case text == "true" || text == "false":
		return token.Token{Kind: token.Boolean, Literal: text, Pos: pos}, nil
	case isNumeric(text):
		if strings.Contains(text, ".") {
			return token.Token{Kind: token.Float, Literal: text, Pos: pos}, nil
		}
		return token.Token{Kind: token.Integer, Literal: text, Pos: pos}, nil
	default:
		return token.Token{Kind: token.Symbol, Literal: text, Pos: pos}, nil
	}
}

// isNumeric matches -?\d+(\.\d+)? per spec.md's reader syntax.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	intDigits, fracDigits := 0, 0
	sawDot := false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			if sawDot {
				fracDigits++
			} else {
				intDigits++
			}
		case s[i] == '.' && !sawDot:
			sawDot = true
		default:
			return false
		}
	}
	return intDigits > 0 && (!sawDot || fracDigits > 0)
}
