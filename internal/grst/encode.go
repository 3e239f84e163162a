package grst

import (
	"fmt"

	"github.com/opfog/fogsat/internal/atmost"
	"github.com/opfog/fogsat/internal/fog"
)

// BooleanVar returns the Boolean variable index encoding symbol i at
// code position pos (0-based, below CodeLength), allocating a fresh
// auxiliary name registry entry on first use.
func (g *GrSt) BooleanVar(i, pos int) (int, error) {
	if pos < 0 || pos >= g.codeLen {
		return 0, fmt.Errorf("grst: code position must range from 0 to %d, got %d", g.codeLen-1, pos)
	}
	k := [2]int{i, pos}
	if v, ok := g.beEncode[k]; ok {
		return v, nil
	}
	v := g.ctx.Names.GetAuxIndex()
	g.beEncode[k] = v
	g.beDecode[v] = k
	return v, nil
}

// BooleanVarList returns the full CodeLength-sized Boolean encoding of
// symbol i.
func (g *GrSt) BooleanVarList(i int) ([]int, error) {
	vars := make([]int, g.codeLen)
	for pos := 0; pos < g.codeLen; pos++ {
		v, err := g.BooleanVar(i, pos)
		if err != nil {
			return nil, err
		}
		vars[pos] = v
	}
	return vars, nil
}

// VariablePositionPair decodes a Boolean variable index produced by
// BooleanVar back into its (symbol, position) pair.
func (g *GrSt) VariablePositionPair(k int) (symbol, pos int, ok bool) {
	p, ok := g.beDecode[k]
	if !ok {
		return 0, 0, false
	}
	return p[0], p[1], true
}

// IsDecodableVar reports whether k was produced by BooleanVar (as
// opposed to a Tseitin auxiliary introduced later by internal/cnf).
func (g *GrSt) IsDecodableVar(k int) bool {
	_, ok := g.beDecode[k]
	return ok
}

// litList returns the CodeLength-sized vector of literals for symbol
// i: fixed True/False nodes if i is a domain constant, or fresh
// Boolean variables if i is a first-order variable.
func (g *GrSt) litList(i int) ([]*fog.Node, error) {
	if err := g.requireObject(i); err == nil {
		code, _ := g.GetCode(i)
		has := make(map[int]bool, len(code))
		for _, p := range code {
			has[p] = true
		}
		lits := make([]*fog.Node, g.codeLen)
		for pos := 0; pos < g.codeLen; pos++ {
			if has[pos+1] {
				lits[pos] = g.ctx.True()
			} else {
				lits[pos] = g.ctx.False()
			}
		}
		return lits, nil
	}
	vars, err := g.BooleanVarList(i)
	if err != nil {
		return nil, err
	}
	lits := make([]*fog.Node, len(vars))
	for pos, v := range vars {
		lits[pos] = g.ctx.Var(v)
	}
	return lits, nil
}

// EncodeEq returns the propositional encoding of eq(x,y).
func (g *GrSt) EncodeEq(x, y int) (*fog.Node, error) {
	lx, err := g.litList(x)
	if err != nil {
		return nil, err
	}
	ly, err := g.litList(y)
	if err != nil {
		return nil, err
	}
	acc := g.ctx.True()
	for i := range lx {
		acc = g.ctx.And(acc, g.ctx.Iff(lx[i], ly[i]))
	}
	return acc, nil
}

// suffixOr returns px[i+1] | px[i+2] | ... | px[L-1] (False for the
// last position): whether the code has a true bit above position i.
func (g *GrSt) suffixOr(lits []*fog.Node, i int) *fog.Node {
	acc := g.ctx.False()
	for k := i + 1; k < len(lits); k++ {
		acc = g.ctx.Or(acc, lits[k])
	}
	return acc
}

// EncodeEdg returns the propositional encoding of edg(x,y).
func (g *GrSt) EncodeEdg(x, y int) (*fog.Node, error) {
	lx, err := g.litList(x)
	if err != nil {
		return nil, err
	}
	ly, err := g.litList(y)
	if err != nil {
		return nil, err
	}
	eq, err := g.EncodeEq(x, y)
	if err != nil {
		return nil, err
	}
	notEq := g.ctx.Not(eq)

	switch g.encoding {
	case Edge, Clique:
		acc := g.ctx.False()
		for i := range lx {
			acc = g.ctx.Or(acc, g.ctx.And(lx[i], ly[i]))
		}
		return g.ctx.And(notEq, acc), nil

	case Direct:
		acc := g.ctx.False()
		for _, e := range g.edges {
			pv, _ := g.vertexPos(e[0])
			pw, _ := g.vertexPos(e[1])
			term := g.ctx.Or(
				g.ctx.And(lx[pv], ly[pw]),
				g.ctx.And(lx[pw], ly[pv]),
			)
			acc = g.ctx.Or(acc, term)
		}
		return acc, nil

	case Log:
		acc := g.ctx.False()
		for _, e := range g.edges {
			ov, err := g.VertexToObject(e[0])
			if err != nil {
				return nil, err
			}
			ow, err := g.VertexToObject(e[1])
			if err != nil {
				return nil, err
			}
			eqXV, _ := g.EncodeEq(x, ov)
			eqYW, _ := g.EncodeEq(y, ow)
			eqXW, _ := g.EncodeEq(x, ow)
			eqYV, _ := g.EncodeEq(y, ov)
			term := g.ctx.Or(g.ctx.And(eqXV, eqYW), g.ctx.And(eqXW, eqYV))
			acc = g.ctx.Or(acc, term)
		}
		return g.ctx.And(acc, notEq), nil

	case Vertex:
		// A vertex's highest code position is its own, so a shared
		// position that is the highest of x or of y means adjacency.
		acc := g.ctx.False()
		for i := range lx {
			sx := g.suffixOr(lx, i)
			sy := g.suffixOr(ly, i)
			term := g.ctx.And(lx[i], g.ctx.And(ly[i], g.ctx.Or(g.ctx.Not(sx), g.ctx.Not(sy))))
			acc = g.ctx.Or(acc, term)
		}
		return g.ctx.And(notEq, acc), nil

	default:
		return nil, fmt.Errorf("grst: encode_edg: unsupported encoding %s", g.encoding)
	}
}

// EncodeLt returns the propositional encoding of lt(x,y): a
// lexicographic comparison of their code bit-vectors, most-significant
// position first, built from a prefix-equality chain (t[0]=True
// forced, t[i]=t[i-1] & (px[i]<->py[i])).
func (g *GrSt) EncodeLt(x, y int) (*fog.Node, error) {
	lx, err := g.litList(x)
	if err != nil {
		return nil, err
	}
	ly, err := g.litList(y)
	if err != nil {
		return nil, err
	}
	prefixEq := g.ctx.True()
	acc := g.ctx.False()
	for i := len(lx) - 1; i >= 0; i-- {
		term := g.ctx.And(prefixEq, g.ctx.And(g.ctx.Not(lx[i]), ly[i]))
		acc = g.ctx.Or(acc, term)
		prefixEq = g.ctx.And(prefixEq, g.ctx.Iff(lx[i], ly[i]))
	}
	return acc, nil
}

// EncodeTrue and EncodeFalse encode the propositional constants.
func (g *GrSt) EncodeTrue() *fog.Node  { return g.ctx.True() }
func (g *GrSt) EncodeFalse() *fog.Node { return g.ctx.False() }

// Encode dispatches an atomic fog.Node (or propositional constant) to
// its propositional encoding; non-atomic nodes are rejected.
func (g *GrSt) Encode(n *fog.Node) (*fog.Node, error) {
	switch n.Tag() {
	case fog.TagTrue:
		return g.EncodeTrue(), nil
	case fog.TagFalse:
		return g.EncodeFalse(), nil
	case fog.TagVar:
		return nil, fmt.Errorf("grst: encode: propositional variable atoms are not first-order atoms")
	case fog.TagEq:
		a := n.Aux()
		return g.EncodeEq(a[0], a[1])
	case fog.TagEdg:
		a := n.Aux()
		return g.EncodeEdg(a[0], a[1])
	case fog.TagLt:
		a := n.Aux()
		return g.EncodeLt(a[0], a[1])
	default:
		return nil, fmt.Errorf("grst: encode: %s is not an atomic tag", n.Tag())
	}
}

// DomainConstraint returns the formula constraining first-order
// variable v to range over this structure's domain.
func (g *GrSt) DomainConstraint(v int) (*fog.Node, error) {
	isVar, err := g.ctx.Names.IsVariable(v)
	if err != nil {
		return nil, err
	}
	if !isVar {
		return nil, fmt.Errorf("grst: domain constraint: symbol index %d is not a variable symbol", v)
	}

	switch g.encoding {
	case Direct:
		lits, err := g.litList(v)
		if err != nil {
			return nil, err
		}
		atLeastOne := g.ctx.False()
		for _, l := range lits {
			atLeastOne = g.ctx.Or(atLeastOne, l)
		}
		atMostOne := atmost.AtMostR(g.ctx, lits, 1)
		return g.ctx.And(atMostOne, atLeastOne), nil

	case Log:
		vmax, err := g.MaxObject()
		if err != nil {
			return nil, err
		}
		lt, err := g.EncodeLt(v, vmax)
		if err != nil {
			return nil, err
		}
		eq, err := g.EncodeEq(v, vmax)
		if err != nil {
			return nil, err
		}
		return g.ctx.Or(lt, eq), nil

	case Edge, Clique, Vertex:
		// Edge/clique codes are genuine relation-membership hyperedge
		// duals, so "x is some vertex" is exactly the disjunction of
		// equalities. Vertex encoding's domain constraint would need a
		// one-hot reconstruction of the lower-triangular code that has
		// no grounding in the original source (its grst.py never
		// implements a vertex encoding); this DNF form is logically
		// equivalent and reuses the same machinery.
		acc := g.ctx.False()
		for _, obj := range g.objects {
			eq, err := g.EncodeEq(v, obj)
			if err != nil {
				return nil, err
			}
			acc = g.ctx.Or(acc, eq)
		}
		return acc, nil

	default:
		return nil, fmt.Errorf("grst: domain constraint: unsupported encoding %s", g.encoding)
	}
}

// ResolveVertex completes a SAT-model decode: given the sorted
// 1-based code positions found true for a first-order variable's
// Boolean encoding, it looks up the matching domain object and
// returns its vertex id.
func (g *GrSt) ResolveVertex(truePositions []int) (int, error) {
	pos, ok := g.posOfCode[codeKey(truePositions)]
	if !ok {
		return 0, fmt.Errorf("grst: no domain object matches code %v", truePositions)
	}
	return g.ObjectToVertex(g.objects[pos])
}
