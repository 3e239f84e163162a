// Package cnf implements a Tseitin CNF converter: it turns a set of
// quantifier-free, implication-free propositional formula DAGs into a
// CNF ready for an external SAT solver, with a renumbering that keeps
// "decodable" variables (those tied to a first-order variable's
// Boolean code) in a dense low range, and a Decoder that reverses a
// SAT model back through that renumbering into a vertex assignment.
package cnf

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/opfog/fogsat/internal/fog"
	"github.com/opfog/fogsat/internal/rewrite"
)

// DecodeSource is the subset of *grst.GrSt the converter and decoder
// need: which internal variables came from a Boolean encoding (as
// opposed to a Tseitin auxiliary), and how to resolve a first-order
// variable's true code positions back into a vertex.
type DecodeSource interface {
	IsDecodableVar(k int) bool
	VariablePositionPair(k int) (symbol, pos int, ok bool)
	ResolveVertex(truePositions []int) (int, error)
}

// CNF is a conjunctive normal form over densely, externally numbered
// variables 1..NVars; variables 1..NDecodable are the ones a caller
// may want to read back via Decoder.
type CNF struct {
	NVars      int
	NDecodable int
	Clauses    [][]int
}

// unsat is the trivially unsatisfiable CNF, a single empty clause.
func unsat() *CNF { return &CNF{Clauses: [][]int{{}}} }

// Convert Tseitin-converts the conjunction of formulas (already
// boolean-encoded and negation-normalized: no Implies/Iff, no
// quantifiers, no first-order atoms) into a CNF, and returns a
// Decoder able to recover a vertex assignment from a model of it.
func Convert(ctx *fog.Context, formulas []*fog.Node, src DecodeSource) (*CNF, *Decoder, error) {
	var live []*fog.Node
	for _, f := range formulas {
		r := rewrite.Reduce(ctx, f, nil)
		switch r.Tag() {
		case fog.TagFalse:
			return unsat(), newDecoder(nil, src), nil
		case fog.TagTrue:
			continue
		default:
			live = append(live, r)
		}
	}

	var out [][]int
	nodeVar := make(map[*fog.Node]int)

	freshVar := func() int { return ctx.Names.GetAuxIndex() }

	var emit func(n *fog.Node) (int, error)
	emit = func(n *fog.Node) (int, error) {
		if v, ok := nodeVar[n]; ok {
			return v, nil
		}
		var v int
		switch n.Tag() {
		case fog.TagVar:
			v = n.VarIndex()

		case fog.TagNot:
			a, err := emit(n.Left())
			if err != nil {
				return 0, err
			}
			v = freshVar()
			out = append(out, []int{-v, -a}, []int{v, a})

		case fog.TagAnd:
			a, err := emit(n.Left())
			if err != nil {
				return 0, err
			}
			b, err := emit(n.Right())
			if err != nil {
				return 0, err
			}
			v = freshVar()
			out = append(out, []int{-v, a}, []int{-v, b}, []int{v, -a, -b})

		case fog.TagOr:
			a, err := emit(n.Left())
			if err != nil {
				return 0, err
			}
			b, err := emit(n.Right())
			if err != nil {
				return 0, err
			}
			v = freshVar()
			out = append(out, []int{v, -a}, []int{v, -b}, []int{-v, a, b})

		default:
			return 0, fmt.Errorf("cnf: node tag %s must not appear (implications/iffs/quantifiers/first-order atoms must be eliminated first)", n.Tag())
		}
		nodeVar[n] = v
		return v, nil
	}

	var roots []int
	var errs *multierror.Error
	for _, f := range live {
		v, err := emit(f)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		roots = append(roots, v)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	for _, v := range roots {
		out = append(out, []int{v})
	}

	internalVars := make(map[int]bool)
	for _, cl := range out {
		for _, lit := range cl {
			if lit < 0 {
				lit = -lit
			}
			internalVars[lit] = true
		}
	}

	var decodable, aux []int
	for v := range internalVars {
		if src != nil && src.IsDecodableVar(v) {
			decodable = append(decodable, v)
		} else {
			aux = append(aux, v)
		}
	}
	sort.Ints(decodable)
	sort.Ints(aux)

	extOf := make(map[int]int, len(internalVars))
	next := 1
	for _, v := range decodable {
		extOf[v] = next
		next++
	}
	n1 := next - 1
	for _, v := range aux {
		extOf[v] = next
		next++
	}

	extClauses := make([][]int, len(out))
	for i, cl := range out {
		renamed := make([]int, len(cl))
		for j, lit := range cl {
			if lit < 0 {
				renamed[j] = -extOf[-lit]
			} else {
				renamed[j] = extOf[lit]
			}
		}
		extClauses[i] = renamed
	}

	result := &CNF{NVars: next - 1, NDecodable: n1, Clauses: extClauses}

	intOf := make(map[int]int, len(extOf))
	for internal, ext := range extOf {
		intOf[ext] = internal
	}
	return result, newDecoder(intOf, src), nil
}
