package rewrite

import "github.com/opfog/fogsat/internal/fog"

// Substitute replaces every free occurrence of first-order symbol x
// by y in n. A quantifier that rebinds x shadows the substitution on
// its body, tracked with a bind-depth counter rather than by skipping
// shared subtrees, since the same *fog.Node can occur both free and
// bound along different paths of the DAG; the traversal below is
// therefore deliberately unmemoized.
func Substitute(ctx *fog.Context, n *fog.Node, x, y int) *fog.Node {
	return substitute(ctx, n, x, y, 0)
}

func substitute(ctx *fog.Context, n *fog.Node, x, y, depth int) *fog.Node {
	switch n.Tag() {
	case fog.TagTrue, fog.TagFalse, fog.TagVar:
		return n

	case fog.TagEq, fog.TagEdg, fog.TagLt:
		a := n.Aux()
		nx, ny := a[0], a[1]
		if depth == 0 {
			if nx == x {
				nx = y
			}
			if ny == x {
				ny = y
			}
		}
		var result *fog.Node
		var err error
		switch n.Tag() {
		case fog.TagEq:
			result, err = ctx.Eq(nx, ny)
		case fog.TagEdg:
			result, err = ctx.Edg(nx, ny)
		case fog.TagLt:
			result, err = ctx.Lt(nx, ny)
		}
		if err != nil {
			// nx/ny were registered symbols on the input node; renaming
			// x to y (itself a previously registered symbol) cannot
			// introduce an unregistered reference.
			panic(err)
		}
		return result

	case fog.TagNot:
		return ctx.Not(substitute(ctx, n.Left(), x, y, depth))

	case fog.TagAnd:
		return ctx.And(substitute(ctx, n.Left(), x, y, depth), substitute(ctx, n.Right(), x, y, depth))
	case fog.TagOr:
		return ctx.Or(substitute(ctx, n.Left(), x, y, depth), substitute(ctx, n.Right(), x, y, depth))
	case fog.TagImplies:
		return ctx.Implies(substitute(ctx, n.Left(), x, y, depth), substitute(ctx, n.Right(), x, y, depth))
	case fog.TagIff:
		return ctx.Iff(substitute(ctx, n.Left(), x, y, depth), substitute(ctx, n.Right(), x, y, depth))

	case fog.TagForall, fog.TagExists:
		next := depth
		if n.BoundVar() == x {
			next++
		}
		body := substitute(ctx, n.Left(), x, y, next)
		return mustQf(ctx, n.Tag(), body, n.BoundVar())

	default:
		return n
	}
}
