// Package boolenc implements a Boolean encoder: it expands
// quantifiers against a graph structure and replaces every remaining
// atomic predicate by that structure's propositional encoding,
// producing a formula DAG ready for Tseitin conversion.
package boolenc

import (
	"github.com/opfog/fogsat/internal/fog"
	"github.com/opfog/fogsat/internal/rewrite"
)

// Encoder is the subset of *grst.GrSt the Boolean encoder needs:
// quantifier expansion's domain plus atom encoding.
type Encoder interface {
	rewrite.GraphOracle
	Encode(n *fog.Node) (*fog.Node, error)
}

// Perform expands quantifiers in phi over enc's domain, then walks the
// resulting quantifier-free formula replacing every atom with its
// propositional encoding and every connective with its propositional
// counterpart. The walk memoizes by node identity (skip_shared=true),
// so a shared atom is encoded once and its result reused.
func Perform(ctx *fog.Context, phi *fog.Node, enc Encoder) (*fog.Node, error) {
	expanded, err := rewrite.ExpandQuantifiers(ctx, phi, enc)
	if err != nil {
		return nil, err
	}

	memo := make(map[*fog.Node]*fog.Node)
	var rec func(*fog.Node) (*fog.Node, error)
	rec = func(m *fog.Node) (*fog.Node, error) {
		if r, ok := memo[m]; ok {
			return r, nil
		}
		var result *fog.Node
		var err error
		switch m.Tag() {
		case fog.TagTrue, fog.TagFalse, fog.TagEq, fog.TagEdg, fog.TagLt:
			result, err = enc.Encode(m)

		case fog.TagVar:
			result = m

		case fog.TagNot:
			var c *fog.Node
			c, err = rec(m.Left())
			if err == nil {
				result = ctx.Not(c)
			}

		case fog.TagAnd, fog.TagOr, fog.TagImplies, fog.TagIff:
			var l, r *fog.Node
			l, err = rec(m.Left())
			if err == nil {
				r, err = rec(m.Right())
			}
			if err == nil {
				result = ctx.Binop(m.Tag(), l, r)
			}

		default:
			result, err = nil, &UnsupportedNodeError{Tag: m.Tag()}
		}
		if err != nil {
			return nil, err
		}
		memo[m] = result
		return result, nil
	}
	return rec(expanded)
}

// UnsupportedNodeError reports a node the Boolean encoder cannot
// process, which should only happen if a quantifier survived
// expansion.
type UnsupportedNodeError struct {
	Tag fog.Tag
}

func (e *UnsupportedNodeError) Error() string {
	return "boolenc: cannot encode a " + e.Tag.String() + " node (quantifiers must be expanded first)"
}
