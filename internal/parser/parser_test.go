package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlang/quartz/internal/ast"
	"github.com/quartzlang/quartz/internal/parser"
)

func TestParseAtoms(t *testing.T) {
	forms, err := parser.Parse(`42 3.5 true false "hi" sym`, "<test>")
	require.NoError(t, err)
	require.Len(t, forms, 6)

	require.Equal(t, int64(42), forms[0].(*ast.Integer).Value)
	require.Equal(t, 3.5, forms[1].(*ast.Float).Value)
	require.True(t, forms[2].(*ast.Boolean).Value)
	require.False(t, forms[3].(*ast.Boolean).Value)
	require.Equal(t, "hi", forms[4].(*ast.String).Value)
	require.Equal(t, "sym", forms[5].(*ast.Symbol).Name)
}

func TestParseNestedList(t *testing.T) {
	forms, err := parser.Parse(`(+ 1 (* 2 3))`, "<test>")
	require.NoError(t, err)
	require.Len(t, forms, 1)

	outer := forms[0].(*ast.List)
	require.Len(t, outer.Items, 3)
	require.Equal(t, "+", outer.Items[0].(*ast.Symbol).Name)
	inner := outer.Items[2].(*ast.List)
	require.Equal(t, "*", inner.Items[0].(*ast.Symbol).Name)
}

func TestParseDottedList(t *testing.T) {
	forms, err := parser.Parse(`(a b . c)`, "<test>")
	require.NoError(t, err)
	list := forms[0].(*ast.List)
	require.True(t, list.Dotted)
	require.Len(t, list.Items, 3)
	require.Equal(t, "c", list.Items[2].(*ast.Symbol).Name)
}

func TestParseQuoteShorthand(t *testing.T) {
	forms, err := parser.Parse(`'x`, "<test>")
	require.NoError(t, err)
	q := forms[0].(*ast.Quote)
	require.Equal(t, "x", q.Value.(*ast.Symbol).Name)
}

func TestParseQuasiquoteAndUnquote(t *testing.T) {
	forms, err := parser.Parse("`(a ,b ,@c)", "<test>")
	require.NoError(t, err)
	qq := forms[0].(*ast.Quasiquote)
	list := qq.Value.(*ast.List)
	require.Len(t, list.Items, 3)
	require.IsType(t, &ast.Symbol{}, list.Items[0])
	require.IsType(t, &ast.Unquote{}, list.Items[1])
	require.IsType(t, &ast.UnquoteSplicing{}, list.Items[2])
}

func TestParseUnclosedListIsAnError(t *testing.T) {
	_, err := parser.Parse(`(+ 1 2`, "<test>")
	require.Error(t, err)
}

func TestParseUnexpectedClosingParenIsAnError(t *testing.T) {
	_, err := parser.Parse(`)`, "<test>")
	require.Error(t, err)
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := parser.Parse("(+ 1\n  2", "<test>")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "<test>", perr.Pos.File)
}
