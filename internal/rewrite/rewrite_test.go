package rewrite

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opfog/fogsat/internal/fog"
)

// fakeOracle is a tiny in-memory GraphOracle over an explicit domain
// and adjacency/order relation, used to drive Reduce and
// ExpandQuantifiers without depending on internal/grst.
type fakeOracle struct {
	domain []int
	adj    map[[2]int]bool
}

func (o *fakeOracle) Equal(i, j int) (bool, error) { return i == j, nil }
func (o *fakeOracle) Adjacent(i, j int) (bool, error) {
	return o.adj[[2]int{i, j}] || o.adj[[2]int{j, i}], nil
}
func (o *fakeOracle) Less(i, j int) (bool, error) { return i < j, nil }
func (o *fakeOracle) Domain() []int               { return o.domain }

func newFixture(t *testing.T) (*fog.Context, *fakeOracle, int, int, int, int) {
	t.Helper()
	ctx := fog.NewContext()
	a, err := ctx.Names.LookupIndex("A")
	require.NoError(t, err)
	b, err := ctx.Names.LookupIndex("B")
	require.NoError(t, err)
	c, err := ctx.Names.LookupIndex("C")
	require.NoError(t, err)
	x, err := ctx.Names.LookupIndex("x")
	require.NoError(t, err)

	oracle := &fakeOracle{
		domain: []int{a, b, c},
		adj:    map[[2]int]bool{{a, b}: true},
	}
	return ctx, oracle, a, b, c, x
}

// --- NNF ---

func TestNNFEliminatesImpliesAndIff(t *testing.T) {
	ctx, _, a, b, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)
	edg, err := ctx.Edg(a, b)
	require.NoError(t, err)

	implies := ctx.Implies(eq, edg)
	n := NNF(ctx, implies)
	assert.Equal(t, fog.TagOr, n.Tag())
	assert.Equal(t, fog.TagNot, n.Left().Tag())
	assert.Same(t, eq, n.Left().Left())
	assert.Same(t, edg, n.Right())

	iff := ctx.Iff(eq, edg)
	n = NNF(ctx, iff)
	assert.Equal(t, fog.TagAnd, n.Tag())
	assert.Equal(t, fog.TagOr, n.Left().Tag())
	assert.Equal(t, fog.TagOr, n.Right().Tag())
}

func TestNNFPushesNegationThroughDeMorgan(t *testing.T) {
	ctx, _, a, b, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)
	edg, err := ctx.Edg(a, b)
	require.NoError(t, err)

	n := NNF(ctx, ctx.Not(ctx.And(eq, edg)))
	require.Equal(t, fog.TagOr, n.Tag())
	assert.Equal(t, fog.TagNot, n.Left().Tag())
	assert.Equal(t, fog.TagNot, n.Right().Tag())

	n = NNF(ctx, ctx.Not(ctx.Or(eq, edg)))
	require.Equal(t, fog.TagAnd, n.Tag())
	assert.Equal(t, fog.TagNot, n.Left().Tag())
	assert.Equal(t, fog.TagNot, n.Right().Tag())
}

func TestNNFDoubleNegationCancels(t *testing.T) {
	ctx, _, a, b, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)
	n := NNF(ctx, ctx.Not(ctx.Not(eq)))
	assert.Same(t, eq, n)
}

// evalProp evaluates a quantifier-free, first-order-atom-free formula
// built from TagTrue/False/Var/Not/And/Or/Iff under an explicit
// variable assignment.
func evalProp(n *fog.Node, assign map[int]bool) bool {
	switch n.Tag() {
	case fog.TagTrue:
		return true
	case fog.TagFalse:
		return false
	case fog.TagVar:
		return assign[n.VarIndex()]
	case fog.TagNot:
		return !evalProp(n.Left(), assign)
	case fog.TagAnd:
		return evalProp(n.Left(), assign) && evalProp(n.Right(), assign)
	case fog.TagOr:
		return evalProp(n.Left(), assign) || evalProp(n.Right(), assign)
	case fog.TagIff:
		return evalProp(n.Left(), assign) == evalProp(n.Right(), assign)
	default:
		panic("evalProp: unsupported tag " + n.Tag().String())
	}
}

func TestNNFOfNegatedIffMatchesTruthTable(t *testing.T) {
	ctx := fog.NewContext()
	pa, err := ctx.Names.LookupIndex("p@1")
	require.NoError(t, err)
	pb, err := ctx.Names.LookupIndex("p@2")
	require.NoError(t, err)
	a := ctx.Var(pa)
	b := ctx.Var(pb)

	notIff := ctx.Not(ctx.Iff(a, b))
	n := NNF(ctx, notIff)

	// Structurally: (a|b) & (~a|~b), not the buggy (~a|~b) & (~a|~b).
	require.Equal(t, fog.TagAnd, n.Tag())
	assert.NotSame(t, n.Left(), n.Right(), "negated iff must not collapse both conjuncts to the same clause")

	for _, av := range []bool{false, true} {
		for _, bv := range []bool{false, true} {
			assign := map[int]bool{pa: av, pb: bv}
			want := !(av == bv)
			got := evalProp(n, assign)
			assert.Equal(t, want, got, "~(a<->b) at a=%v,b=%v", av, bv)
		}
	}
}

func TestNNFFlipsQuantifierUnderNegation(t *testing.T) {
	ctx, _, a, b, _, x := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)
	forall, err := ctx.Forall(x, eq)
	require.NoError(t, err)

	n := NNF(ctx, ctx.Not(forall))
	require.Equal(t, fog.TagExists, n.Tag())
	assert.Equal(t, fog.TagNot, n.Left().Tag())
}

// --- Reduce ---

func TestReduceFoldsSelfEqualityAndLoops(t *testing.T) {
	ctx, _, a, _, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, a)
	require.NoError(t, err)
	edg, err := ctx.Edg(a, a)
	require.NoError(t, err)
	lt, err := ctx.Lt(a, a)
	require.NoError(t, err)

	assert.Same(t, ctx.True(), Reduce(ctx, eq, nil))
	assert.Same(t, ctx.False(), Reduce(ctx, edg, nil))
	assert.Same(t, ctx.False(), Reduce(ctx, lt, nil))
}

func TestReduceConsultsOracleForGroundAtoms(t *testing.T) {
	ctx, oracle, a, b, c, _ := newFixture(t)
	edgAB, err := ctx.Edg(a, b)
	require.NoError(t, err)
	edgAC, err := ctx.Edg(a, c)
	require.NoError(t, err)

	assert.Same(t, ctx.True(), Reduce(ctx, edgAB, oracle))
	assert.Same(t, ctx.False(), Reduce(ctx, edgAC, oracle))
	// without an oracle, the atom is left symbolic
	assert.Same(t, edgAB, Reduce(ctx, edgAB, nil))
}

func TestReduceSimplifiesAndOr(t *testing.T) {
	ctx, _, a, b, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)

	assert.Same(t, ctx.False(), Reduce(ctx, ctx.And(eq, ctx.False()), nil))
	assert.Same(t, eq, Reduce(ctx, ctx.And(eq, ctx.True()), nil))
	assert.Same(t, ctx.True(), Reduce(ctx, ctx.Or(eq, ctx.True()), nil))
	assert.Same(t, eq, Reduce(ctx, ctx.Or(eq, ctx.False()), nil))
	assert.Same(t, eq, Reduce(ctx, ctx.And(eq, eq), nil))
	assert.Same(t, eq, Reduce(ctx, ctx.Or(eq, eq), nil))
}

func TestReduceSimplifiesImpliesIff(t *testing.T) {
	ctx, _, a, b, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)
	edg, err := ctx.Edg(a, b)
	require.NoError(t, err)

	assert.Same(t, ctx.True(), Reduce(ctx, ctx.Implies(ctx.False(), eq), nil))
	assert.Same(t, eq, Reduce(ctx, ctx.Implies(ctx.True(), eq), nil))
	assert.Same(t, ctx.True(), Reduce(ctx, ctx.Implies(eq, eq), nil))
	assert.Same(t, ctx.True(), Reduce(ctx, ctx.Iff(eq, eq), nil))
	assert.Equal(t, Reduce(ctx, ctx.Not(eq), nil), Reduce(ctx, ctx.Iff(eq, ctx.False()), nil))
	_ = edg
}

func TestReduceSharesWorkAcrossSharedSubformulas(t *testing.T) {
	ctx, _, a, b, _, _ := newFixture(t)
	eq, err := ctx.Eq(a, b)
	require.NoError(t, err)
	shared := ctx.And(eq, eq)
	whole := ctx.And(shared, shared)
	n := Reduce(ctx, whole, nil)
	assert.Same(t, eq, n)
}

func TestReduceQuantifierOverNonemptyDomain(t *testing.T) {
	ctx, oracle, _, _, _, x := newFixture(t)
	forallTrue, err := ctx.Forall(x, ctx.True())
	require.NoError(t, err)
	forallFalse, err := ctx.Forall(x, ctx.False())
	require.NoError(t, err)
	existsTrue, err := ctx.Exists(x, ctx.True())
	require.NoError(t, err)
	existsFalse, err := ctx.Exists(x, ctx.False())
	require.NoError(t, err)

	assert.Same(t, ctx.True(), Reduce(ctx, forallTrue, oracle))
	assert.Same(t, ctx.False(), Reduce(ctx, forallFalse, oracle))
	assert.Same(t, ctx.True(), Reduce(ctx, existsTrue, oracle))
	assert.Same(t, ctx.False(), Reduce(ctx, existsFalse, oracle))
}

func TestReduceQuantifierOverEmptyDomainFlips(t *testing.T) {
	ctx, _, _, _, _, x := newFixture(t)
	empty := &fakeOracle{}
	forallFalse, err := ctx.Forall(x, ctx.False())
	require.NoError(t, err)
	existsTrue, err := ctx.Exists(x, ctx.True())
	require.NoError(t, err)

	assert.Same(t, ctx.True(), Reduce(ctx, forallFalse, empty), "vacuous forall over empty domain is true")
	assert.Same(t, ctx.False(), Reduce(ctx, existsTrue, empty), "exists over empty domain is false")
}

// --- Substitute ---

func TestSubstituteReplacesFreeOccurrences(t *testing.T) {
	ctx, _, a, b, _, x := newFixture(t)
	eq, err := ctx.Eq(x, a)
	require.NoError(t, err)
	want, err := ctx.Eq(b, a)
	require.NoError(t, err)

	got := Substitute(ctx, eq, x, b)
	assert.Same(t, want, got)
}

func TestSubstituteSkipsShadowedOccurrences(t *testing.T) {
	ctx, _, a, b, _, x := newFixture(t)
	eqXA, err := ctx.Eq(x, a)
	require.NoError(t, err)
	bound, err := ctx.Forall(x, eqXA)
	require.NoError(t, err)

	got := Substitute(ctx, bound, x, b)
	assert.Same(t, bound, got, "substitution must not reach inside a quantifier rebinding the same variable")
}

func TestSubstituteReachesFreeOccurrenceOutsideNestedBinder(t *testing.T) {
	ctx, _, a, _, _, x := newFixture(t)
	y, err := ctx.Names.LookupIndex("y")
	require.NoError(t, err)
	b2, err := ctx.Names.LookupIndex("B")
	require.NoError(t, err)

	eqXA, err := ctx.Eq(x, a)
	require.NoError(t, err)
	innerBound, err := ctx.Forall(y, eqXA)
	require.NoError(t, err)

	got := Substitute(ctx, innerBound, x, b2)
	want, err := ctx.Eq(b2, a)
	require.NoError(t, err)
	require.Equal(t, fog.TagForall, got.Tag())
	assert.Same(t, want, got.Left())
}

// --- FreeVars ---

func TestFreeVarsCollectsVariablesNotConstants(t *testing.T) {
	ctx, _, a, _, _, x := newFixture(t)
	y, err := ctx.Names.LookupIndex("y")
	require.NoError(t, err)

	eqXA, err := ctx.Eq(x, a)
	require.NoError(t, err)
	eqXY, err := ctx.Eq(x, y)
	require.NoError(t, err)
	formula := ctx.And(eqXA, eqXY)

	got := FreeVars(ctx, formula)
	sort.Ints(got)
	want := []int{x, y}
	sort.Ints(want)
	assert.Equal(t, want, got)
}

func TestFreeVarsExcludesBoundVariable(t *testing.T) {
	ctx, _, a, _, _, x := newFixture(t)
	eqXA, err := ctx.Eq(x, a)
	require.NoError(t, err)
	bound, err := ctx.Forall(x, eqXA)
	require.NoError(t, err)

	got := FreeVars(ctx, bound)
	assert.Empty(t, got)
}

func TestFreeVarsReturnsVariableFreeOutsideAShadowingBinder(t *testing.T) {
	ctx, _, a, _, _, x := newFixture(t)
	y, err := ctx.Names.LookupIndex("y")
	require.NoError(t, err)

	eqXA, err := ctx.Eq(x, a)
	require.NoError(t, err)
	innerBoundY, err := ctx.Forall(y, eqXA)
	require.NoError(t, err)

	got := FreeVars(ctx, innerBoundY)
	assert.Equal(t, []int{x}, got)
}

func TestFreeVarsDeduplicates(t *testing.T) {
	ctx, _, a, b, _, x := newFixture(t)
	eq1, err := ctx.Eq(x, a)
	require.NoError(t, err)
	eq2, err := ctx.Eq(x, b)
	require.NoError(t, err)
	formula := ctx.And(eq1, eq2)

	got := FreeVars(ctx, formula)
	require.Len(t, got, 1)
	assert.Equal(t, x, got[0])
}

// --- ExpandQuantifiers ---

func TestExpandQuantifiersRequiresAnOracle(t *testing.T) {
	ctx, _, a, _, _, x := newFixture(t)
	eq, err := ctx.Eq(x, a)
	require.NoError(t, err)
	forall, err := ctx.Forall(x, eq)
	require.NoError(t, err)

	_, err = ExpandQuantifiers(ctx, forall, nil)
	assert.Error(t, err)
}

func TestExpandQuantifiersBuildsConjunctionOverDomain(t *testing.T) {
	ctx, oracle, a, b, c, x := newFixture(t)
	eq, err := ctx.Eq(x, a)
	require.NoError(t, err)
	forall, err := ctx.Forall(x, eq)
	require.NoError(t, err)

	got, err := ExpandQuantifiers(ctx, forall, oracle)
	require.NoError(t, err)

	wantA, err := ctx.Eq(a, a)
	require.NoError(t, err)
	wantB, err := ctx.Eq(b, a)
	require.NoError(t, err)
	wantC, err := ctx.Eq(c, a)
	require.NoError(t, err)
	want := ctx.And(ctx.And(wantA, wantB), wantC)
	assert.Same(t, want, got)
}

func TestExpandQuantifiersBuildsDisjunctionForExists(t *testing.T) {
	ctx, oracle, a, _, _, x := newFixture(t)
	eq, err := ctx.Eq(x, a)
	require.NoError(t, err)
	exists, err := ctx.Exists(x, eq)
	require.NoError(t, err)

	got, err := ExpandQuantifiers(ctx, exists, oracle)
	require.NoError(t, err)
	assert.Equal(t, fog.TagOr, got.Tag())
}
