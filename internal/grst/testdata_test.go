package grst

// g7Vertices and g7Edges are the seven-vertex, triangle-free graph
// spec.md's testable-properties section phrases its concrete
// scenarios over: vertices 1..7, edges
// {(1,2),(1,3),(2,4),(2,5),(3,6),(4,7),(5,7)}.
var g7Vertices = []int{1, 2, 3, 4, 5, 6, 7}

var g7Edges = [][2]int{
	{1, 2},
	{1, 3},
	{2, 4},
	{2, 5},
	{3, 6},
	{4, 7},
	{5, 7},
}

// fiveVertices is a graph whose vertex count isn't of the form 2^l-1,
// so its Log encoding (3 bits) has non-vertex codes that aren't the
// lexicographic maximum under every bit order, unlike g7Vertices.
var fiveVertices = []int{1, 2, 3, 4, 5}

var fiveEdges = [][2]int{
	{1, 2},
	{2, 3},
	{3, 4},
	{4, 5},
}
