// Package ecc computes a separating edge clique cover of a simple
// graph, a heuristic after Conte et al., used by the clique
// vertex-encoding scheme in internal/grst.
package ecc

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/hashicorp/go-set/v3"
)

// edgeKey is a canonical (sorted) representation of an undirected edge.
type edgeKey [2]int

func canon(u, v int) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// Graph is a simple undirected graph over integer vertex identifiers,
// validated against the edge-clique-cover preconditions: no loops, no
// duplicate vertices or edges, no isolated vertex, no isolated edge.
type Graph struct {
	vertices []int
	edges    []edgeKey
	adj      map[int]*set.Set[int]
}

// New validates and builds a Graph from a vertex list and an edge list
// (unordered pairs).
func New(vertices []int, edges [][2]int) (*Graph, error) {
	vset := set.From(vertices)
	if vset.Size() != len(vertices) {
		return nil, fmt.Errorf("ecc: duplicate vertex in %v", vertices)
	}

	g := &Graph{
		vertices: append([]int(nil), vertices...),
		adj:      make(map[int]*set.Set[int], len(vertices)),
	}
	for _, v := range vertices {
		g.adj[v] = set.New[int](4)
	}

	seen := set.New[edgeKey](len(edges))
	for _, e := range edges {
		u, v := e[0], e[1]
		if u == v {
			return nil, fmt.Errorf("ecc: loop is not allowed: (%d,%d)", u, v)
		}
		if !vset.Contains(u) || !vset.Contains(v) {
			return nil, fmt.Errorf("ecc: invalid vertex found in edge (%d,%d)", u, v)
		}
		k := canon(u, v)
		if seen.Contains(k) {
			return nil, fmt.Errorf("ecc: duplicate edge found: (%d,%d)", u, v)
		}
		seen.Insert(k)
		g.edges = append(g.edges, k)
		g.adj[u].Insert(v)
		g.adj[v].Insert(u)
	}

	for _, v := range vertices {
		if g.adj[v].Size() == 0 {
			return nil, fmt.Errorf("ecc: isolated vertex is not allowed: %d", v)
		}
	}
	for _, e := range g.edges {
		if g.adj[e[0]].Size() == 1 && g.adj[e[1]].Size() == 1 {
			return nil, fmt.Errorf("ecc: isolated edge is not allowed: (%d,%d)", e[0], e[1])
		}
	}

	return g, nil
}

func (g *Graph) neighbors(v int) *set.Set[int] {
	return g.adj[v]
}

func choose(rng *rand.Rand, xs []int) int {
	return xs[rng.Intn(len(xs))]
}

func chooseEdge(rng *rand.Rand, xs []edgeKey) edgeKey {
	return xs[rng.Intn(len(xs))]
}

// extractNode picks a vertex from p at random, returning (v, true), or
// (0, false) if p is empty.
func extractNode(rng *rand.Rand, p *set.Set[int]) (int, bool) {
	if p.Empty() {
		return 0, false
	}
	xs := p.Slice()
	sort.Ints(xs) // deterministic iteration order before the random pick
	return choose(rng, xs), true
}

func (g *Graph) findCliqueCovering(rng *rand.Rand, u, v int) []int {
	q := []int{u, v}
	p := g.neighbors(u).Intersect(g.neighbors(v))
	for {
		z, ok := extractNode(rng, p)
		if !ok {
			break
		}
		q = append(q, z)
		p = p.Intersect(g.neighbors(z))
	}
	sort.Ints(q)
	return q
}

// Cover computes an (unseparated) edge clique cover: every edge of g is
// contained in at least one returned clique.
func (g *Graph) Cover(rng *rand.Rand) [][]int {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	uncovered := set.New[edgeKey](len(g.edges))
	uncovered.InsertSlice(g.edges)

	var cover [][]int
	for !uncovered.Empty() {
		xs := uncovered.Slice()
		sort.Slice(xs, func(i, j int) bool {
			if xs[i][0] != xs[j][0] {
				return xs[i][0] < xs[j][0]
			}
			return xs[i][1] < xs[j][1]
		})
		e := chooseEdge(rng, xs)
		q := g.findCliqueCovering(rng, e[0], e[1])
		cover = append(cover, q)
		for i := 0; i < len(q); i++ {
			for j := i + 1; j < len(q); j++ {
				uncovered.Remove(canon(q[i], q[j]))
			}
		}
	}
	return cover
}

func (g *Graph) findCliqueSeparating(rng *rand.Rand, s []int) []int {
	u := choose(rng, s)
	var rest []int
	for _, w := range s {
		if w != u {
			rest = append(rest, w)
		}
	}
	v := choose(rng, rest)
	if g.neighbors(u).Size() == 1 {
		u, v = v, u
	}

	q := []int{u}
	p := g.neighbors(u).Copy()
	p.Remove(v)
	for {
		z, ok := extractNode(rng, p)
		if !ok {
			break
		}
		q = append(q, z)
		p = p.Intersect(g.neighbors(z))
	}
	sort.Ints(q)
	return q
}

func separateBlocks(clique []int, blocks [][]int) [][]int {
	inClique := set.From(clique)
	var out [][]int
	for _, s := range blocks {
		var in, notIn []int
		for _, w := range s {
			if inClique.Contains(w) {
				in = append(in, w)
			} else {
				notIn = append(notIn, w)
			}
		}
		if len(notIn) > 1 {
			out = append(out, notIn)
		}
		if len(in) > 1 {
			out = append(out, in)
		}
	}
	return out
}

// SeparatingCover computes a separating edge clique cover: in addition
// to Cover's guarantee, every pair of distinct vertices is separated by
// at least one of the returned cliques (one contains exactly one member
// of the pair).
func (g *Graph) SeparatingCover(rng *rand.Rand) [][]int {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	cliques := g.Cover(rng)

	blocks := [][]int{append([]int(nil), g.vertices...)}
	for _, q := range cliques {
		blocks = separateBlocks(q, blocks)
	}

	for len(blocks) > 0 {
		s := blocks[rng.Intn(len(blocks))]
		q := g.findCliqueSeparating(rng, s)
		cliques = append(cliques, q)
		// q holds exactly one of the two vertices of s it was grown for,
		// so re-splitting every block, s included, always shrinks s.
		blocks = separateBlocks(q, blocks)
	}
	return cliques
}
