// Package grst implements a graph relational structure: it assigns
// every vertex of a finite graph a unique bit-code under one of five
// encoding schemes (direct, log, vertex, edge, clique), and uses those
// codes both to interpret the atomic predicates eq/edg/lt over
// first-order variables and to recover a vertex assignment from a SAT
// model.
package grst

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/opfog/fogsat/internal/ecc"
	"github.com/opfog/fogsat/internal/fog"
)

// Encoding selects how vertices are assigned bit-codes.
type Encoding int

const (
	Direct Encoding = iota
	Log
	Vertex
	Edge
	Clique
)

func (e Encoding) String() string {
	switch e {
	case Direct:
		return "direct"
	case Log:
		return "log"
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	case Clique:
		return "clique"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// GrSt is a graph relational structure over a fixed vertex set: a
// domain of constant symbols (one per vertex, "{prefix}{vertex}"),
// each assigned a code under encoding, plus the machinery to encode
// atomic predicates over that domain and to decode a SAT model back
// into a vertex assignment.
type GrSt struct {
	ctx      *fog.Context
	encoding Encoding
	prefix   string

	verts []int // vertex ids, in position order
	edges [][2]int

	objects []int       // constant symbol index per position
	posOf   map[int]int // object symbol index -> position
	adj     map[int]map[int]bool

	codes     [][]int // code per position: sorted 1-based bit positions
	codeLen   int
	posOfCode map[string]int

	beEncode map[[2]int]int // (symbol index, code pos) -> boolean var index
	beDecode map[int][2]int // boolean var index -> (symbol index, code pos)
}

func canon2(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

// New validates vertices/edges and builds a GrSt assigning every
// vertex a code under encoding. prefix must be a non-empty uppercase
// alphabetic string, used to name each vertex's constant symbol.
func New(ctx *fog.Context, vertices []int, edges [][2]int, encoding Encoding, prefix string) (*GrSt, error) {
	if prefix == "" {
		return nil, fmt.Errorf("grst: prefix must not be empty")
	}
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return nil, fmt.Errorf("grst: prefix %q must be all uppercase letters", prefix)
		}
	}

	vset := make(map[int]bool, len(vertices))
	for _, v := range vertices {
		if vset[v] {
			return nil, fmt.Errorf("grst: duplicate vertex found: %d", v)
		}
		vset[v] = true
	}

	g := &GrSt{
		ctx:      ctx,
		encoding: encoding,
		prefix:   prefix,
		verts:    append([]int(nil), vertices...),
		adj:      make(map[int]map[int]bool, len(vertices)),
		beEncode: make(map[[2]int]int),
		beDecode: make(map[int][2]int),
	}
	for _, v := range vertices {
		g.adj[v] = make(map[int]bool)
	}

	seenEdge := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		u, v := e[0], e[1]
		if u == v {
			return nil, fmt.Errorf("grst: loop is not allowed: (%d,%d)", u, v)
		}
		if !vset[u] || !vset[v] {
			return nil, fmt.Errorf("grst: invalid vertex found in edge (%d,%d)", u, v)
		}
		k := canon2(u, v)
		if seenEdge[k] {
			return nil, fmt.Errorf("grst: duplicate edge found: (%d,%d)", u, v)
		}
		seenEdge[k] = true
		g.edges = append(g.edges, k)
		g.adj[u][v] = true
		g.adj[v][u] = true
	}

	names := make([]string, len(g.verts))
	for pos, v := range g.verts {
		names[pos] = prefix + strconv.Itoa(v)
	}
	objects, err := ctx.Names.LookupIndices(names)
	if err != nil {
		return nil, fmt.Errorf("grst: registering vertex constants: %w", err)
	}
	g.objects = objects
	g.posOf = make(map[int]int, len(g.verts))
	for pos, obj := range g.objects {
		g.posOf[obj] = pos
	}

	if err := g.buildCodes(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GrSt) vertexPos(v int) (int, bool) {
	for pos, w := range g.verts {
		if w == v {
			return pos, true
		}
	}
	return 0, false
}

func (g *GrSt) buildCodes() error {
	n := len(g.verts)
	codes := make([][]int, n)

	switch g.encoding {
	case Direct:
		for pos := range g.verts {
			codes[pos] = []int{pos + 1}
		}
		g.codeLen = n

	case Log:
		l := 0
		for (1 << l) < n {
			l++
		}
		for pos := range g.verts {
			var code []int
			for bit := 0; bit < l; bit++ {
				if pos&(1<<bit) != 0 {
					code = append(code, bit+1)
				}
			}
			codes[pos] = code
		}
		g.codeLen = l

	case Vertex:
		for pos, v := range g.verts {
			var code []int
			for p2, w := range g.verts {
				if p2 > pos {
					continue
				}
				if w == v || g.adj[v][w] {
					code = append(code, p2+1)
				}
			}
			sort.Ints(code)
			codes[pos] = code
		}
		g.codeLen = n

	case Edge:
		for k, e := range g.edges {
			for _, v := range e {
				pos, _ := g.vertexPos(v)
				codes[pos] = append(codes[pos], k+1)
			}
		}
		for pos := range codes {
			sort.Ints(codes[pos])
		}
		g.codeLen = len(g.edges)

	case Clique:
		edgeList := make([][2]int, len(g.edges))
		copy(edgeList, g.edges)
		eg, err := ecc.New(g.verts, edgeList)
		if err != nil {
			return fmt.Errorf("grst: clique encoding: %w", err)
		}
		cliques := eg.SeparatingCover(nil)
		for k, q := range cliques {
			for _, v := range q {
				pos, _ := g.vertexPos(v)
				codes[pos] = append(codes[pos], k+1)
			}
		}
		for pos := range codes {
			sort.Ints(codes[pos])
		}
		g.codeLen = len(cliques)

	default:
		return fmt.Errorf("grst: unsupported encoding type: %s", g.encoding)
	}

	g.codes = codes
	g.posOfCode = make(map[string]int, n)
	for pos, code := range codes {
		k := codeKey(code)
		if other, ok := g.posOfCode[k]; ok {
			return fmt.Errorf("grst: the codes of position %d and %d coincide: %v", other, pos, code)
		}
		g.posOfCode[k] = pos
	}
	return nil
}

func codeKey(code []int) string {
	parts := make([]string, len(code))
	for i, c := range code {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// CodeLength returns the bit-vector length L codes are expressed over.
func (g *GrSt) CodeLength() int { return g.codeLen }

// Domain returns the constant symbol index of every vertex, in
// position order.
func (g *GrSt) Domain() []int { return append([]int(nil), g.objects...) }

// VertexToObject returns the constant symbol index registered for v.
func (g *GrSt) VertexToObject(v int) (int, error) {
	if _, ok := g.vertexPos(v); !ok {
		return 0, fmt.Errorf("grst: invalid vertex: %d", v)
	}
	return g.ctx.Names.LookupIndex(g.prefix + strconv.Itoa(v))
}

// ObjectToVertex returns the vertex a constant symbol index names.
func (g *GrSt) ObjectToVertex(obj int) (int, error) {
	n, err := g.ctx.Names.LookupName(obj)
	if err != nil {
		return 0, err
	}
	if !strings.HasPrefix(n, g.prefix) {
		return 0, fmt.Errorf("grst: %s is not a vertex name", n)
	}
	v, err := strconv.Atoi(n[len(g.prefix):])
	if err != nil {
		return 0, fmt.Errorf("grst: %s is not a vertex name", n)
	}
	return v, nil
}

func (g *GrSt) requireObject(obj int) error {
	if _, ok := g.posOf[obj]; !ok {
		return fmt.Errorf("grst: %d is not a domain object", obj)
	}
	return nil
}

// Adjacent reports whether the vertices named by constant symbols i
// and j are joined by an edge.
func (g *GrSt) Adjacent(i, j int) (bool, error) {
	if err := g.requireObject(i); err != nil {
		return false, err
	}
	if err := g.requireObject(j); err != nil {
		return false, err
	}
	u, err := g.ObjectToVertex(i)
	if err != nil {
		return false, err
	}
	v, err := g.ObjectToVertex(j)
	if err != nil {
		return false, err
	}
	return g.adj[u][v], nil
}

// Equal reports whether two constant symbols name the same vertex.
func (g *GrSt) Equal(i, j int) (bool, error) {
	if err := g.requireObject(i); err != nil {
		return false, err
	}
	if err := g.requireObject(j); err != nil {
		return false, err
	}
	return i == j, nil
}

// GetCode returns the code assigned to a constant symbol's vertex.
func (g *GrSt) GetCode(obj int) ([]int, error) {
	if err := g.requireObject(obj); err != nil {
		return nil, err
	}
	return append([]int(nil), g.codes[g.posOf[obj]]...), nil
}

// Less implements the internal strict order over the domain: compare
// the code bit-vectors most-significant position first (position
// codeLen down to 1), the first differing bit decides (0 before 1).
func (g *GrSt) Less(i, j int) (bool, error) {
	ci, err := g.GetCode(i)
	if err != nil {
		return false, err
	}
	cj, err := g.GetCode(j)
	if err != nil {
		return false, err
	}
	hasI := make(map[int]bool, len(ci))
	for _, p := range ci {
		hasI[p] = true
	}
	hasJ := make(map[int]bool, len(cj))
	for _, p := range cj {
		hasJ[p] = true
	}
	for pos := g.codeLen; pos >= 1; pos-- {
		bi, bj := hasI[pos], hasJ[pos]
		if bi == bj {
			continue
		}
		return !bi && bj, nil
	}
	return false, nil
}

// MaxObject returns the order-maximal domain object, used by log
// encoding's domain constraint.
func (g *GrSt) MaxObject() (int, error) {
	if len(g.objects) == 0 {
		return 0, fmt.Errorf("grst: empty domain")
	}
	best := g.objects[0]
	for _, obj := range g.objects[1:] {
		less, err := g.Less(best, obj)
		if err != nil {
			return 0, err
		}
		if less {
			best = obj
		}
	}
	return best, nil
}
