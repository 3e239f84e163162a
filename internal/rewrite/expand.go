package rewrite

import (
	"fmt"

	"github.com/opfog/fogsat/internal/fog"
)

// ExpandQuantifiers replaces every quantifier in n with a finite
// conjunction or disjunction over g's domain, using Substitute and
// Context.BinopBatch. It fails if g is nil, since expansion has no
// meaning without a domain.
func ExpandQuantifiers(ctx *fog.Context, n *fog.Node, g GraphOracle) (*fog.Node, error) {
	if g == nil {
		return nil, fmt.Errorf("rewrite: quantifier expansion requires a graph structure")
	}
	memo := make(map[*fog.Node]*fog.Node)
	var rec func(*fog.Node) (*fog.Node, error)
	rec = func(m *fog.Node) (*fog.Node, error) {
		if r, ok := memo[m]; ok {
			return r, nil
		}
		var result *fog.Node
		switch m.Tag() {
		case fog.TagTrue, fog.TagFalse, fog.TagVar, fog.TagEq, fog.TagEdg, fog.TagLt:
			result = m

		case fog.TagNot:
			c, err := rec(m.Left())
			if err != nil {
				return nil, err
			}
			result = ctx.Not(c)

		case fog.TagAnd, fog.TagOr, fog.TagImplies, fog.TagIff:
			l, err := rec(m.Left())
			if err != nil {
				return nil, err
			}
			r, err := rec(m.Right())
			if err != nil {
				return nil, err
			}
			result = ctx.Binop(m.Tag(), l, r)

		case fog.TagForall, fog.TagExists:
			body, err := rec(m.Left())
			if err != nil {
				return nil, err
			}
			domain := g.Domain()
			parts := make([]*fog.Node, len(domain))
			for i, d := range domain {
				parts[i] = Substitute(ctx, body, m.BoundVar(), d)
			}
			tag := fog.TagAnd
			if m.Tag() == fog.TagExists {
				tag = fog.TagOr
			}
			result = ctx.BinopBatch(tag, parts)
		}
		memo[m] = result
		return result, nil
	}
	return rec(n)
}
