package rewrite

import "github.com/opfog/fogsat/internal/fog"

// GraphOracle is the subset of a graph structure's decision
// procedures Reduce and ExpandQuantifiers need. *grst.GrSt satisfies
// it; rewrite does not import grst to keep instantiating a formula
// layer independent from choosing a particular encoding.
type GraphOracle interface {
	Equal(i, j int) (bool, error)
	Adjacent(i, j int) (bool, error)
	Less(i, j int) (bool, error)
	Domain() []int
}

func negate(ctx *fog.Context, n *fog.Node) *fog.Node {
	switch n.Tag() {
	case fog.TagTrue:
		return ctx.False()
	case fog.TagFalse:
		return ctx.True()
	case fog.TagNot:
		return n.Left()
	default:
		return ctx.Not(n)
	}
}

// Reduce applies a set of algebraic simplifications in postfix order
// with hash-cons-backed node sharing (a memoized recursive walk gives
// skip_shared=true semantics: a shared subformula is reduced once).
// g may be nil; atom-level ground facts (equality, adjacency, order)
// are then left symbolic instead of being decided.
func Reduce(ctx *fog.Context, n *fog.Node, g GraphOracle) *fog.Node {
	memo := make(map[*fog.Node]*fog.Node)
	var rec func(*fog.Node) *fog.Node
	rec = func(m *fog.Node) *fog.Node {
		if r, ok := memo[m]; ok {
			return r
		}
		var result *fog.Node
		switch m.Tag() {
		case fog.TagTrue, fog.TagFalse, fog.TagVar:
			result = m

		case fog.TagEq, fog.TagEdg, fog.TagLt:
			result = reduceAtom(ctx, m, g)

		case fog.TagNot:
			result = negate(ctx, rec(m.Left()))

		case fog.TagAnd:
			result = reduceAnd(ctx, rec(m.Left()), rec(m.Right()))
		case fog.TagOr:
			result = reduceOr(ctx, rec(m.Left()), rec(m.Right()))
		case fog.TagImplies:
			result = reduceImplies(ctx, rec(m.Left()), rec(m.Right()))
		case fog.TagIff:
			result = reduceIff(ctx, rec(m.Left()), rec(m.Right()))

		case fog.TagForall, fog.TagExists:
			result = reduceQf(ctx, m.Tag(), rec(m.Left()), m.BoundVar(), g)
		}
		memo[m] = result
		return result
	}
	return rec(n)
}

func reduceAtom(ctx *fog.Context, m *fog.Node, g GraphOracle) *fog.Node {
	a := m.Aux()
	x, y := a[0], a[1]
	if x == y {
		switch m.Tag() {
		case fog.TagEq:
			return ctx.True()
		default: // edg(x,x), x<x
			return ctx.False()
		}
	}
	if g != nil {
		xc, _ := ctx.Names.IsConstant(x)
		yc, _ := ctx.Names.IsConstant(y)
		if xc && yc {
			var v bool
			var err error
			switch m.Tag() {
			case fog.TagEq:
				v, err = g.Equal(x, y)
			case fog.TagEdg:
				v, err = g.Adjacent(x, y)
			case fog.TagLt:
				v, err = g.Less(x, y)
			}
			if err == nil {
				if v {
					return ctx.True()
				}
				return ctx.False()
			}
		}
	}
	return m
}

func reduceAnd(ctx *fog.Context, l, r *fog.Node) *fog.Node {
	switch {
	case l.Tag() == fog.TagFalse || r.Tag() == fog.TagFalse:
		return ctx.False()
	case l.Tag() == fog.TagTrue:
		return r
	case r.Tag() == fog.TagTrue:
		return l
	case l == r:
		return l
	default:
		return ctx.And(l, r)
	}
}

func reduceOr(ctx *fog.Context, l, r *fog.Node) *fog.Node {
	switch {
	case l.Tag() == fog.TagTrue || r.Tag() == fog.TagTrue:
		return ctx.True()
	case l.Tag() == fog.TagFalse:
		return r
	case r.Tag() == fog.TagFalse:
		return l
	case l == r:
		return l
	default:
		return ctx.Or(l, r)
	}
}

func reduceImplies(ctx *fog.Context, l, r *fog.Node) *fog.Node {
	switch {
	case l.Tag() == fog.TagFalse:
		return ctx.True()
	case l.Tag() == fog.TagTrue:
		return r
	case r.Tag() == fog.TagTrue:
		return ctx.True()
	case l == r:
		return ctx.True()
	case r.Tag() == fog.TagFalse:
		return negate(ctx, l)
	default:
		return ctx.Implies(l, r)
	}
}

func reduceIff(ctx *fog.Context, l, r *fog.Node) *fog.Node {
	switch {
	case l == r:
		return ctx.True()
	case l.Tag() == fog.TagTrue:
		return r
	case r.Tag() == fog.TagTrue:
		return l
	case l.Tag() == fog.TagFalse:
		return negate(ctx, r)
	case r.Tag() == fog.TagFalse:
		return negate(ctx, l)
	default:
		return ctx.Iff(l, r)
	}
}

func reduceQf(ctx *fog.Context, tag fog.Tag, body *fog.Node, v int, g GraphOracle) *fog.Node {
	domainEmpty := func() bool {
		return g != nil && len(g.Domain()) == 0
	}
	if tag == fog.TagForall {
		switch body.Tag() {
		case fog.TagTrue:
			return ctx.True()
		case fog.TagFalse:
			if domainEmpty() {
				return ctx.True()
			}
			return ctx.False()
		}
	} else {
		switch body.Tag() {
		case fog.TagFalse:
			return ctx.False()
		case fog.TagTrue:
			if domainEmpty() {
				return ctx.False()
			}
			return ctx.True()
		}
	}
	return mustQf(ctx, tag, body, v)
}
