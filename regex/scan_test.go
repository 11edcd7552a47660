package regex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, expr string) []token {
	t.Helper()
	tokens, err := newTokenizer(expr).tokenize()
	require.NoError(t, err)
	return tokens
}

func ops(tokens []token) []tokOp {
	result := make([]tokOp, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.op
	}
	return result
}

func TestScanSymbols(t *testing.T) {
	tokens := scan(t, "ab")
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol}, ops(tokens))
	assert.Equal(t, "a", tokens[0].value)
	assert.Equal(t, "b", tokens[1].value)
}

func TestScanOperators(t *testing.T) {
	tokens := scan(t, "a|b*&?~@,:+()-")
	want := []tokOp{tokSymbol, tokUnion, tokSymbol, tokStar, tokIntersection,
		tokOptional, tokComplement, tokCompose, tokComma, tokCP, tokPlus,
		tokLParen, tokRParen, tokMinus}
	assert.Equal(t, want, ops(tokens))
}

func TestScanEscaped(t *testing.T) {
	tokens := scan(t, `\*a`)
	require.Len(t, tokens, 2)
	assert.Equal(t, tokSymbol, tokens[0].op)
	assert.Equal(t, "*", tokens[0].value)
}

func TestScanQuoted(t *testing.T) {
	tokens := scan(t, `'abc'x`)
	require.Len(t, tokens, 2)
	assert.Equal(t, tokSymbol, tokens[0].op)
	assert.Equal(t, "abc", tokens[0].value)
	assert.Equal(t, "x", tokens[1].value)
}

func TestScanQuotedApostrophe(t *testing.T) {
	tokens := scan(t, `'a\'b'`)
	require.Len(t, tokens, 1)
	assert.Equal(t, "a'b", tokens[0].value)
}

func TestScanUnterminatedQuote(t *testing.T) {
	_, err := newTokenizer("'abc").tokenize()
	require.Error(t, err)
	assert.Equal(t, LexError, err.(*Error).Kind)
}

func TestScanWeight(t *testing.T) {
	tokens := scan(t, "a<1.5>")
	require.Len(t, tokens, 2)
	assert.Equal(t, tokWeight, tokens[1].op)
	assert.Equal(t, "1.5", tokens[1].value)
	tokens = scan(t, "a<-2>")
	assert.Equal(t, "-2", tokens[1].value)
}

func TestScanWeightFallback(t *testing.T) {
	// '<' without a well-formed weight is a plain symbol
	tokens := scan(t, "a<b")
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol, tokSymbol}, ops(tokens))
}

func TestScanRange(t *testing.T) {
	for expr, want := range map[string]string{
		"a{3}":   "3",
		"a{2,3}": "2,3",
		"a{2,}":  "2,",
		"a{,3}":  ",3",
	} {
		tokens := scan(t, expr)
		require.Len(t, tokens, 2, expr)
		assert.Equal(t, tokRange, tokens[1].op, expr)
		assert.Equal(t, want, tokens[1].value, expr)
	}
}

func TestScanRangeFallback(t *testing.T) {
	tokens := scan(t, "a{b}")
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol, tokSymbol, tokSymbol}, ops(tokens))
}

func TestScanCharClass(t *testing.T) {
	tokens := scan(t, "[a-c]")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokCharClass, tokens[0].op)
	assert.Equal(t, "a-c", tokens[0].value)
	tokens = scan(t, "[^a-c]")
	assert.Equal(t, "^a-c", tokens[0].value)
}

func TestScanUnterminatedCharClass(t *testing.T) {
	_, err := newTokenizer("[abc").tokenize()
	require.Error(t, err)
	assert.Equal(t, LexError, err.(*Error).Kind)
}

func TestScanVariableAndFunc(t *testing.T) {
	tokens := scan(t, "$x")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokVariable, tokens[0].op)
	assert.Equal(t, "x", tokens[0].value)

	tokens = scan(t, "$^rev(a)")
	require.Len(t, tokens, 4)
	assert.Equal(t, tokFunc, tokens[0].op)
	assert.Equal(t, "rev", tokens[0].value)
	assert.Equal(t, tokLParen, tokens[1].op)
}

func TestScanFuncNeedsParen(t *testing.T) {
	// $^name without a following parenthesis degrades to symbols
	tokens := scan(t, "$^rev")
	assert.Equal(t, tokSymbol, tokens[0].op)
	assert.Equal(t, "$", tokens[0].value)
}

func TestScanPositions(t *testing.T) {
	tokens := scan(t, "ab\ncd")
	require.Len(t, tokens, 4)
	assert.Equal(t, 1, tokens[0].line)
	assert.Equal(t, 0, tokens[0].col)
	assert.Equal(t, 2, tokens[2].line)
	assert.Equal(t, 0, tokens[2].col)
	assert.Equal(t, 1, tokens[3].col)
}

func TestScanSkipsWhitespace(t *testing.T) {
	tokens := scan(t, "a \t b")
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol}, ops(tokens))
}

func TestAddConcat(t *testing.T) {
	tokens := addConcat(scan(t, "ab"))
	assert.Equal(t, []tokOp{tokSymbol, tokConcat, tokSymbol}, ops(tokens))

	tokens = addConcat(scan(t, "a|b"))
	assert.Equal(t, []tokOp{tokSymbol, tokUnion, tokSymbol}, ops(tokens))

	tokens = addConcat(scan(t, "a*b"))
	assert.Equal(t, []tokOp{tokSymbol, tokStar, tokConcat, tokSymbol}, ops(tokens))

	tokens = addConcat(scan(t, "(a)(b)"))
	assert.Equal(t, []tokOp{tokLParen, tokSymbol, tokRParen, tokConcat,
		tokLParen, tokSymbol, tokRParen}, ops(tokens))

	tokens = addConcat(scan(t, "a~b"))
	assert.Equal(t, []tokOp{tokSymbol, tokConcat, tokComplement, tokSymbol}, ops(tokens))
}

func TestParsePostfix(t *testing.T) {
	postfix, err := parse(addConcat(scan(t, "a|bc")), "a|bc")
	require.NoError(t, err)
	// bc binds tighter than the union
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol, tokSymbol, tokConcat, tokUnion},
		ops(postfix))
}

func TestParseParens(t *testing.T) {
	postfix, err := parse(addConcat(scan(t, "(a|b)c")), "(a|b)c")
	require.NoError(t, err)
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol, tokUnion, tokSymbol, tokConcat},
		ops(postfix))
}

func TestParseTooManyClosing(t *testing.T) {
	_, err := parse(addConcat(scan(t, "a)")), "a)")
	require.Error(t, err)
	assert.Equal(t, ParseError, err.(*Error).Kind)
}

func TestParseFuncCall(t *testing.T) {
	postfix, err := parse(addConcat(scan(t, "$^rev(ab,x)")), "$^rev(ab,x)")
	require.NoError(t, err)
	assert.Equal(t, []tokOp{tokSymbol, tokSymbol, tokConcat, tokSymbol,
		tokComma, tokFunc}, ops(postfix))
}
