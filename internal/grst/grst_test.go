package grst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opfog/fogsat/internal/fog"
)

func TestNewValidation(t *testing.T) {
	type tc struct {
		Name     string
		Vertices []int
		Edges    [][2]int
		Prefix   string
		WantErr  bool
	}

	for _, tt := range []tc{
		{Name: "valid", Vertices: []int{1, 2, 3}, Edges: [][2]int{{1, 2}}, Prefix: "V"},
		{Name: "empty prefix", Vertices: []int{1}, Prefix: "", WantErr: true},
		{Name: "lowercase prefix", Vertices: []int{1}, Prefix: "v", WantErr: true},
		{Name: "duplicate vertex", Vertices: []int{1, 1}, Prefix: "V", WantErr: true},
		{Name: "loop", Vertices: []int{1, 2}, Edges: [][2]int{{1, 1}}, Prefix: "V", WantErr: true},
		{Name: "invalid edge vertex", Vertices: []int{1, 2}, Edges: [][2]int{{1, 3}}, Prefix: "V", WantErr: true},
		{Name: "duplicate edge", Vertices: []int{1, 2}, Edges: [][2]int{{1, 2}, {2, 1}}, Prefix: "V", WantErr: true},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			ctx := fog.NewContext()
			_, err := New(ctx, tt.Vertices, tt.Edges, Direct, tt.Prefix)
			if tt.WantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func allEncodings() []Encoding {
	return []Encoding{Direct, Log, Vertex, Edge, Clique}
}

func TestCodeRoundTripsToVertexUnderEveryEncoding(t *testing.T) {
	for _, enc := range allEncodings() {
		t.Run(enc.String(), func(t *testing.T) {
			ctx := fog.NewContext()
			g, err := New(ctx, g7Vertices, g7Edges, enc, "V")
			require.NoError(t, err)
			require.Greater(t, g.CodeLength(), 0)

			for _, v := range g7Vertices {
				obj, err := g.VertexToObject(v)
				require.NoError(t, err)
				code, err := g.GetCode(obj)
				require.NoError(t, err)
				got, err := g.ResolveVertex(code)
				require.NoError(t, err)
				assert.Equal(t, v, got, "encoding %s: round trip for vertex %d", enc, v)
			}
		})
	}
}

func TestCodesAreDistinctUnderEveryEncoding(t *testing.T) {
	for _, enc := range allEncodings() {
		t.Run(enc.String(), func(t *testing.T) {
			ctx := fog.NewContext()
			g, err := New(ctx, g7Vertices, g7Edges, enc, "V")
			require.NoError(t, err)

			seen := make(map[string]int)
			for _, v := range g7Vertices {
				obj, err := g.VertexToObject(v)
				require.NoError(t, err)
				code, err := g.GetCode(obj)
				require.NoError(t, err)
				k := codeKey(code)
				if other, ok := seen[k]; ok {
					t.Fatalf("encoding %s: vertices %d and %d share a code", enc, other, v)
				}
				seen[k] = v
			}
		})
	}
}

func TestAdjacentMatchesG7Edges(t *testing.T) {
	ctx := fog.NewContext()
	g, err := New(ctx, g7Vertices, g7Edges, Direct, "V")
	require.NoError(t, err)

	adjPairs := map[[2]int]bool{}
	for _, e := range g7Edges {
		adjPairs[[2]int{e[0], e[1]}] = true
		adjPairs[[2]int{e[1], e[0]}] = true
	}
	for _, u := range g7Vertices {
		for _, v := range g7Vertices {
			ou, err := g.VertexToObject(u)
			require.NoError(t, err)
			ov, err := g.VertexToObject(v)
			require.NoError(t, err)
			adj, err := g.Adjacent(ou, ov)
			require.NoError(t, err)
			assert.Equal(t, adjPairs[[2]int{u, v}], adj, "adjacency of (%d,%d)", u, v)
		}
	}
}

func TestLessIsAStrictTotalOrderOverTheDomain(t *testing.T) {
	ctx := fog.NewContext()
	g, err := New(ctx, g7Vertices, g7Edges, Log, "V")
	require.NoError(t, err)

	objs := make([]int, len(g7Vertices))
	for i, v := range g7Vertices {
		objs[i], err = g.VertexToObject(v)
		require.NoError(t, err)
	}

	for _, a := range objs {
		lt, err := g.Less(a, a)
		require.NoError(t, err)
		assert.False(t, lt, "strict order must be irreflexive")
	}

	for _, a := range objs {
		for _, b := range objs {
			if a == b {
				continue
			}
			ab, err := g.Less(a, b)
			require.NoError(t, err)
			ba, err := g.Less(b, a)
			require.NoError(t, err)
			assert.True(t, ab != ba, "exactly one of a<b, b<a must hold for distinct a,b")
		}
	}
}

func TestLessComparesLogCodesMostSignificantBitFirst(t *testing.T) {
	ctx := fog.NewContext()
	g, err := New(ctx, fiveVertices, fiveEdges, Log, "V")
	require.NoError(t, err)
	require.Equal(t, 3, g.CodeLength())

	// Log codes are the vertices' positions in binary (position i's
	// code is the bits of i), so Less under an MSB-first comparison
	// must reduce to plain numeric order over those positions.
	objs := make([]int, len(fiveVertices))
	for i, v := range fiveVertices {
		objs[i], err = g.VertexToObject(v)
		require.NoError(t, err)
	}
	for i, oi := range objs {
		for j, oj := range objs {
			lt, err := g.Less(oi, oj)
			require.NoError(t, err)
			assert.Equal(t, i < j, lt, "Less(%d,%d) must match numeric order", i, j)
		}
	}
}

func TestMaxObjectIsDomainMaximal(t *testing.T) {
	ctx := fog.NewContext()
	g, err := New(ctx, g7Vertices, g7Edges, Log, "V")
	require.NoError(t, err)

	max, err := g.MaxObject()
	require.NoError(t, err)

	for _, v := range g7Vertices {
		obj, err := g.VertexToObject(v)
		require.NoError(t, err)
		if obj == max {
			continue
		}
		lt, err := g.Less(obj, max)
		require.NoError(t, err)
		assert.True(t, lt, "every other domain object must be less than MaxObject")
	}
}
