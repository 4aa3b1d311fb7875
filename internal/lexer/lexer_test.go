package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlang/quartz/internal/lexer"
	"github.com/quartzlang/quartz/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := lexer.New(src, "<test>").Tokens()
	require.NoError(t, err)
	var out []token.Kind
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokensOnSimpleList(t *testing.T) {
	got := kinds(t, "(+ 1 2.5 true \"hi\")")
	require.Equal(t, []token.Kind{
		token.LParen, token.Symbol, token.Integer, token.Float,
		token.Boolean, token.String, token.RParen, token.EOF,
	}, got)
}

func TestTokensRecognizeReaderMacros(t *testing.T) {
	got := kinds(t, "'a `b ,c ,@d")
	require.Equal(t, []token.Kind{
		token.Quote, token.Symbol,
		token.Quasiquote, token.Symbol,
		token.Unquote, token.Symbol,
		token.UnquoteSplice, token.Symbol,
		token.EOF,
	}, got)
}

func TestTokensRecognizeDottedTailMarker(t *testing.T) {
	got := kinds(t, "(a . b)")
	require.Equal(t, []token.Kind{
		token.LParen, token.Symbol, token.Dot, token.Symbol, token.RParen, token.EOF,
	}, got)
}

func TestCommentsAreSkipped(t *testing.T) {
	got := kinds(t, "1 ; this is a comment\n2")
	require.Equal(t, []token.Kind{token.Integer, token.Integer, token.EOF}, got)
}

func TestNegativeNumberLiteral(t *testing.T) {
	toks, err := lexer.New("-5 -2.5", "<test>").Tokens()
	require.NoError(t, err)
	require.Equal(t, token.Integer, toks[0].Kind)
	require.Equal(t, "-5", toks[0].Literal)
	require.Equal(t, token.Float, toks[1].Kind)
	require.Equal(t, "-2.5", toks[1].Literal)
}

func TestStringEscapes(t *testing.T) {
	toks, err := lexer.New(`"a\nb\t\"c\""`, "<test>").Tokens()
	require.NoError(t, err)
	require.Equal(t, "a\nb\t\"c\"", toks[0].Literal)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	_, err := lexer.New(`"unterminated`, "<test>").Tokens()
	require.Error(t, err)
}

func TestSymbolsWithOperatorCharacters(t *testing.T) {
	got := kinds(t, "<= >= != make-vector vector-set!")
	require.Equal(t, []token.Kind{
		token.Symbol, token.Symbol, token.Symbol, token.Symbol, token.Symbol, token.EOF,
	}, got)
}
