// Package rewrite implements formula rewriters: negation-normal-form
// conversion, algebraic reduction (optionally consulting a graph
// structure), free-variable substitution, and quantifier expansion
// over a finite domain.
package rewrite

import "github.com/opfog/fogsat/internal/fog"

// work item kinds for the explicit NNF stack machine.
type nnfOp int

const (
	opVisit nnfOp = iota // visit a (node, negated) pair
	opNot                // pop 1 result, apply Not and push
	opAnd                // pop 2 results, apply And/Or per polarity and push
	opOr
	opForall // pop 1 result, wrap in Forall/Exists bound to a var
	opExists
)

type nnfTask struct {
	op  nnfOp
	n   *fog.Node
	neg bool
	v   int // bound variable, for opForall/opExists
}

// NNF pushes negation down to the atoms of n, eliminating -> and <->
// along the way. It is built from an explicit work stack and an
// output stack of deferred constructors instead of native recursion.
func NNF(ctx *fog.Context, n *fog.Node) *fog.Node {
	var work []nnfTask
	var out []*fog.Node

	push := func(t nnfTask) { work = append(work, t) }
	pop := func() nnfTask { t := work[len(work)-1]; work = work[:len(work)-1]; return t }
	popOut := func() *fog.Node { r := out[len(out)-1]; out = out[:len(out)-1]; return r }

	push(nnfTask{op: opVisit, n: n, neg: false})

	for len(work) > 0 {
		t := pop()
		switch t.op {
		case opNot:
			out = append(out, ctx.Not(popOut()))
		case opAnd:
			r, l := popOut(), popOut()
			out = append(out, ctx.And(l, r))
		case opOr:
			r, l := popOut(), popOut()
			out = append(out, ctx.Or(l, r))
		case opForall:
			out = append(out, mustQf(ctx, fog.TagForall, popOut(), t.v))
		case opExists:
			out = append(out, mustQf(ctx, fog.TagExists, popOut(), t.v))

		case opVisit:
			m, neg := t.n, t.neg
			switch m.Tag() {
			case fog.TagTrue, fog.TagFalse, fog.TagVar, fog.TagEq, fog.TagEdg, fog.TagLt:
				if neg {
					out = append(out, ctx.Not(m))
				} else {
					out = append(out, m)
				}

			case fog.TagNot:
				push(nnfTask{op: opVisit, n: m.Left(), neg: !neg})

			case fog.TagAnd, fog.TagOr:
				combinator := opAnd
				if (m.Tag() == fog.TagAnd) == neg {
					combinator = opOr
				}
				push(nnfTask{op: combinator})
				push(nnfTask{op: opVisit, n: m.Right(), neg: neg})
				push(nnfTask{op: opVisit, n: m.Left(), neg: neg})

			case fog.TagImplies:
				// a -> b == ~a | b; negated: a & ~b
				if !neg {
					push(nnfTask{op: opOr})
					push(nnfTask{op: opVisit, n: m.Right(), neg: false})
					push(nnfTask{op: opVisit, n: m.Left(), neg: true})
				} else {
					push(nnfTask{op: opAnd})
					push(nnfTask{op: opVisit, n: m.Right(), neg: true})
					push(nnfTask{op: opVisit, n: m.Left(), neg: false})
				}

			case fog.TagIff:
				if !neg {
					// a <-> b == (~a|b) & (~b|a)
					push(nnfTask{op: opAnd})
					push(nnfTask{op: opOr})
					push(nnfTask{op: opVisit, n: m.Right(), neg: false})
					push(nnfTask{op: opVisit, n: m.Left(), neg: true})
					push(nnfTask{op: opOr})
					push(nnfTask{op: opVisit, n: m.Left(), neg: false})
					push(nnfTask{op: opVisit, n: m.Right(), neg: true})
				} else {
					// ~(a <-> b) == (a|b) & (~a|~b)
					push(nnfTask{op: opAnd})
					push(nnfTask{op: opOr})
					push(nnfTask{op: opVisit, n: m.Right(), neg: true})
					push(nnfTask{op: opVisit, n: m.Left(), neg: true})
					push(nnfTask{op: opOr})
					push(nnfTask{op: opVisit, n: m.Left(), neg: false})
					push(nnfTask{op: opVisit, n: m.Right(), neg: false})
				}

			case fog.TagForall, fog.TagExists:
				opcode := opForall
				if m.Tag() == fog.TagExists {
					opcode = opExists
				}
				if neg {
					if opcode == opForall {
						opcode = opExists
					} else {
						opcode = opForall
					}
				}
				push(nnfTask{op: opcode, v: m.BoundVar()})
				push(nnfTask{op: opVisit, n: m.Left(), neg: neg})
			}
		}
	}
	return popOut()
}

func mustQf(ctx *fog.Context, tag fog.Tag, body *fog.Node, v int) *fog.Node {
	n, err := ctx.Qf(tag, body, v)
	if err != nil {
		// v was already a validated bound variable on the input node,
		// so re-binding it under the same tag cannot fail.
		panic(err)
	}
	return n
}
