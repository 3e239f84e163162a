// Package atmost builds an at-most-r cardinality constraint over a list
// of literals as a formula DAG, using a totalizer-tree construction:
// a balanced binary tree over the inputs where each internal node
// carries "at least i" signals, bounded to r+1 per node so the whole
// tree stays O(n*r).
//
// The tree is built directly as hash-consed fog.Node formulas rather
// than as raw clauses; because Context.intern shares identical
// subformulas, and the CNF converter in internal/cnf Tseitin-converts
// with skip_shared=true, a repeated "at least i" signal still gets a
// single Tseitin variable and a single set of defining clauses, which
// is what makes the tree shape worth building in the first place.
package atmost

import "github.com/opfog/fogsat/internal/fog"

// AtMostR returns a formula equivalent to "at most r of lits are true".
// Degenerate r are short-circuited: r<0 is unsatisfiable (False), r=0
// forces every literal false, and r>=len(lits) is trivially true.
func AtMostR(ctx *fog.Context, lits []*fog.Node, r int) *fog.Node {
	n := len(lits)
	switch {
	case r < 0:
		return ctx.False()
	case r >= n:
		return ctx.True()
	case r == 0:
		acc := ctx.True()
		for _, l := range lits {
			acc = ctx.And(acc, ctx.Not(l))
		}
		return acc
	}

	cap := r + 1
	signals := buildTree(ctx, lits, cap)
	// n > r was checked above, so n >= r+1 == cap and signals has
	// exactly cap entries; signals[cap-1] means "at least r+1 true".
	return ctx.Not(signals[cap-1])
}

// buildTree returns up to cap "at least i" signals (1-indexed, stored
// 0-indexed) for a balanced binary split of lits.
func buildTree(ctx *fog.Context, lits []*fog.Node, cap int) []*fog.Node {
	n := len(lits)
	if n == 1 {
		if cap >= 1 {
			return []*fog.Node{lits[0]}
		}
		return nil
	}
	mid := n / 2
	left := buildTree(ctx, lits[:mid], cap)
	right := buildTree(ctx, lits[mid:], cap)
	return merge(ctx, left, right, cap)
}

// merge combines a left and right child's signal lists into the
// signal list of their parent, capped at cap entries.
func merge(ctx *fog.Context, left, right []*fog.Node, cap int) []*fog.Node {
	p, q := len(left), len(right)
	total := p + q
	if total > cap {
		total = cap
	}

	atLeast := func(signals []*fog.Node, i int) *fog.Node {
		switch {
		case i == 0:
			return ctx.True()
		case i <= len(signals):
			return signals[i-1]
		default:
			return ctx.False()
		}
	}

	out := make([]*fog.Node, total)
	for k := 1; k <= total; k++ {
		var terms []*fog.Node
		for i := 0; i <= k; i++ {
			j := k - i
			if i > p || j > q {
				continue
			}
			switch {
			case i == 0:
				terms = append(terms, atLeast(right, j))
			case j == 0:
				terms = append(terms, atLeast(left, i))
			default:
				terms = append(terms, ctx.And(atLeast(left, i), atLeast(right, j)))
			}
		}
		out[k-1] = ctx.BinopBatch(fog.TagOr, terms)
	}
	return out
}
