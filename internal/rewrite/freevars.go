package rewrite

import "github.com/opfog/fogsat/internal/fog"

// FreeVars returns the first-order variable symbols (as opposed to
// constant symbols) that occur free in n (in an eq/edg/lt atom,
// outside any quantifier binding them), sorted ascending with no
// duplicates. A quantifier shadows its bound variable on its body,
// tracked with the same bind-depth counter Substitute uses.
func FreeVars(ctx *fog.Context, n *fog.Node) []int {
	seen := make(map[int]bool)
	freeVars(ctx, n, make(map[int]int), seen)
	result := make([]int, 0, len(seen))
	for v := range seen {
		result = append(result, v)
	}
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j-1] > result[j]; j-- {
			result[j-1], result[j] = result[j], result[j-1]
		}
	}
	return result
}

func freeVars(ctx *fog.Context, n *fog.Node, bound map[int]int, seen map[int]bool) {
	switch n.Tag() {
	case fog.TagTrue, fog.TagFalse, fog.TagVar:

	case fog.TagEq, fog.TagEdg, fog.TagLt:
		a := n.Aux()
		for _, x := range a {
			if bound[x] != 0 {
				continue
			}
			if isVar, err := ctx.Names.IsVariable(x); err == nil && isVar {
				seen[x] = true
			}
		}

	case fog.TagNot:
		freeVars(ctx, n.Left(), bound, seen)

	case fog.TagAnd, fog.TagOr, fog.TagImplies, fog.TagIff:
		freeVars(ctx, n.Left(), bound, seen)
		freeVars(ctx, n.Right(), bound, seen)

	case fog.TagForall, fog.TagExists:
		v := n.BoundVar()
		bound[v]++
		freeVars(ctx, n.Left(), bound, seen)
		bound[v]--
	}
}
