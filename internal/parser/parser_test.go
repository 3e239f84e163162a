package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opfog/fogsat/internal/fog"
)

func mustParse(t *testing.T, ctx *fog.Context, src string) *fog.Node {
	t.Helper()
	n, err := Parse(ctx, src)
	require.NoError(t, err, "parsing %q", src)
	return n
}

func TestParseAtomsAndConstants(t *testing.T) {
	ctx := fog.NewContext()

	n := mustParse(t, ctx, "T")
	assert.Equal(t, fog.TagTrue, n.Tag())

	n = mustParse(t, ctx, "F")
	assert.Equal(t, fog.TagFalse, n.Tag())

	n = mustParse(t, ctx, "x=y")
	assert.Equal(t, fog.TagEq, n.Tag())

	n = mustParse(t, ctx, "x<y")
	assert.Equal(t, fog.TagLt, n.Tag())

	n = mustParse(t, ctx, "edg(x,y)")
	assert.Equal(t, fog.TagEdg, n.Tag())

	n = mustParse(t, ctx, "p@1")
	assert.Equal(t, fog.TagVar, n.Tag())
}

func TestParseEqAndEdgNormalizeArgumentOrder(t *testing.T) {
	ctx := fog.NewContext()
	xy := mustParse(t, ctx, "x=y")
	yx := mustParse(t, ctx, "y=x")
	assert.Same(t, xy, yx, "eq should share a node regardless of surface argument order")

	e1 := mustParse(t, ctx, "edg(x,y)")
	e2 := mustParse(t, ctx, "edg(y,x)")
	assert.Same(t, e1, e2, "edg should share a node regardless of surface argument order")
}

func TestParseLtDoesNotNormalizeArgumentOrder(t *testing.T) {
	ctx := fog.NewContext()
	xy := mustParse(t, ctx, "x<y")
	yx := mustParse(t, ctx, "y<x")
	assert.NotSame(t, xy, yx)
}

func TestParseConnectivesAreLeftAssociative(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "x=y & y=z & x<z")
	require.Equal(t, fog.TagAnd, n.Tag())
	outerRight := n.Right()
	require.Equal(t, fog.TagLt, outerRight.Tag())
	inner := n.Left()
	require.Equal(t, fog.TagAnd, inner.Tag())
	assert.Equal(t, fog.TagEq, inner.Left().Tag())
	assert.Equal(t, fog.TagEq, inner.Right().Tag())
}

func TestParsePrecedenceAndTighterThanOr(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "x=y | y=z & x<z")
	require.Equal(t, fog.TagOr, n.Tag())
	assert.Equal(t, fog.TagEq, n.Left().Tag())
	require.Equal(t, fog.TagAnd, n.Right().Tag())
}

func TestParseOrTighterThanImplies(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "x=y -> y=z | x<z")
	require.Equal(t, fog.TagImplies, n.Tag())
	assert.Equal(t, fog.TagEq, n.Left().Tag())
	require.Equal(t, fog.TagOr, n.Right().Tag())
}

func TestParseImpliesTighterThanIff(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "x=y <-> y=z -> x<z")
	require.Equal(t, fog.TagIff, n.Tag())
	assert.Equal(t, fog.TagEq, n.Left().Tag())
	require.Equal(t, fog.TagImplies, n.Right().Tag())
}

func TestParseNotAndQuantifiersShareEqualRightAssociativePrecedence(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "~![x]:x=y")
	require.Equal(t, fog.TagNot, n.Tag())
}

func TestParseQuantifierBindsTighterThanConnectives(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "![x]:x=y & x<y")
	require.Equal(t, fog.TagAnd, n.Tag())
	require.Equal(t, fog.TagForall, n.Left().Tag())
	assert.Equal(t, fog.TagEq, n.Left().Left().Tag())
}

func TestParseQuantifierBodyTakesNestedUnaryOperators(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "![x]:~?[y]:x=y")
	require.Equal(t, fog.TagForall, n.Tag())
	not := n.Left()
	require.Equal(t, fog.TagNot, not.Tag())
	require.Equal(t, fog.TagExists, not.Left().Tag())
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	ctx := fog.NewContext()
	n := mustParse(t, ctx, "(x=y | y=z) & x<z")
	require.Equal(t, fog.TagAnd, n.Tag())
	assert.Equal(t, fog.TagOr, n.Left().Tag())
}

func TestParseRejectsBareNonBooleanTerm(t *testing.T) {
	ctx := fog.NewContext()
	_, err := Parse(ctx, "x")
	require.Error(t, err)
	var synErr *SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	ctx := fog.NewContext()
	_, err := Parse(ctx, "T T")
	assert.Error(t, err)
}

func TestParseRejectsUnbalancedParen(t *testing.T) {
	ctx := fog.NewContext()
	_, err := Parse(ctx, "(x=y")
	assert.Error(t, err)
}

func TestParseRejectsUppercasePropositionalVariablePrefix(t *testing.T) {
	ctx := fog.NewContext()
	_, err := Parse(ctx, "P@1")
	assert.Error(t, err)
}

func TestParseRejectsZeroPropositionalVariablePosition(t *testing.T) {
	ctx := fog.NewContext()
	_, err := Parse(ctx, "p@0")
	assert.Error(t, err)
}

func TestParseRejectsUnknownCharacter(t *testing.T) {
	ctx := fog.NewContext()
	_, err := Parse(ctx, "x=y % x<y")
	assert.Error(t, err)
}

func TestParseDistinctPropositionalVariablePositionsAreDistinctNodes(t *testing.T) {
	ctx := fog.NewContext()
	p1 := mustParse(t, ctx, "p@1")
	p2 := mustParse(t, ctx, "p@2")
	assert.NotSame(t, p1, p2)
	p1Again := mustParse(t, ctx, "p@1")
	assert.Same(t, p1, p1Again)
}
