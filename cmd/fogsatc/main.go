// Command fogsatc compiles a first-order formula over a finite graph
// into CNF and, optionally, hands it to an embedded SAT solver and
// decodes the model back into a vertex assignment.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/opfog/fogsat/internal/boolenc"
	"github.com/opfog/fogsat/internal/cnf"
	"github.com/opfog/fogsat/internal/fog"
	"github.com/opfog/fogsat/internal/grst"
	"github.com/opfog/fogsat/internal/parser"
	"github.com/opfog/fogsat/internal/rewrite"
)

var (
	formula = pflag.String(
		"formula", "", "first-order formula to compile, e.g. \"![x]:(~edg(x,x))\"")

	encodingName = pflag.String(
		"encoding", "edge", "vertex encoding scheme: direct, log, vertex, edge, or clique")

	vertexPrefix = pflag.String(
		"vertex-prefix", "V", "uppercase prefix used to name vertex constant symbols")

	vertices = pflag.String(
		"vertices", "", "comma separated vertex ids, e.g. \"0,1,2,3\"")

	edges = pflag.String(
		"edges", "", "comma separated edges as endpoint pairs, e.g. \"0-1,1-2,2-0\"")

	solve = pflag.Bool(
		"solve", false, "solve the compiled CNF and print a decoded vertex assignment")

	debug = pflag.Bool(
		"debug", false, "use debug log level")
)

func main() {
	pflag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(logger); err != nil {
		logger.Errorf("fogsatc: %v", err)
		os.Exit(1)
	}
}

func run(logger *logrus.Logger) error {
	if *formula == "" {
		return fmt.Errorf("--formula is required")
	}

	vs, err := parseVertices(*vertices)
	if err != nil {
		return fmt.Errorf("--vertices: %w", err)
	}
	es, err := parseEdges(*edges)
	if err != nil {
		return fmt.Errorf("--edges: %w", err)
	}
	enc, err := parseEncoding(*encodingName)
	if err != nil {
		return fmt.Errorf("--encoding: %w", err)
	}
	logger.WithField("stage", "graph").Debugf("%d vertices, %d edges, %s encoding", len(vs), len(es), enc)

	ctx := fog.NewContext()
	g, err := grst.New(ctx, vs, es, enc, *vertexPrefix)
	if err != nil {
		return fmt.Errorf("building graph structure: %w", err)
	}

	phi, err := parser.Parse(ctx, *formula)
	if err != nil {
		return fmt.Errorf("parsing formula: %w", err)
	}
	logger.WithField("stage", "parse").Debugf("parsed: %s", ctx.Infix(phi))

	nnf := rewrite.NNF(ctx, phi)
	reduced := rewrite.Reduce(ctx, nnf, g)
	logger.WithField("stage", "reduce").Debugf("reduced: %s", ctx.Infix(reduced))

	free := rewrite.FreeVars(ctx, reduced)

	encoded, err := boolenc.Perform(ctx, reduced, g)
	if err != nil {
		return fmt.Errorf("encoding formula: %w", err)
	}
	for _, v := range free {
		dc, err := g.DomainConstraint(v)
		if err != nil {
			return fmt.Errorf("building domain constraint: %w", err)
		}
		encoded = ctx.And(encoded, dc)
	}
	logger.WithField("stage", "encode").Debugf("%d free variable(s) domain-constrained", len(free))

	// Encoding introduces <-> (equality of code bit vectors); CNF
	// conversion only accepts the ~/&/| fragment, so push it back out
	// through another NNF pass before Tseitin-converting.
	encoded = rewrite.NNF(ctx, encoded)

	result, decoder, err := cnf.Convert(ctx, []*fog.Node{encoded}, g)
	if err != nil {
		return fmt.Errorf("converting to CNF: %w", err)
	}
	logger.WithField("stage", "cnf").Debugf("%d variables (%d decodable), %d clauses",
		result.NVars, result.NDecodable, len(result.Clauses))

	comments := []string{
		fmt.Sprintf("fogsatc: %s encoding over %d vertices", enc, len(vs)),
	}
	if err := cnf.WriteDIMACS(os.Stdout, result, comments); err != nil {
		return fmt.Errorf("writing DIMACS: %w", err)
	}

	if !*solve {
		return nil
	}
	return solveAndDecode(logger, result, decoder)
}

func solveAndDecode(logger *logrus.Logger, c *cnf.CNF, decoder *cnf.Decoder) error {
	s := gini.New()
	for _, clause := range c.Clauses {
		for _, lit := range clause {
			s.Add(z.Dimacs2Lit(lit))
		}
		s.Add(z.LitNull)
	}

	switch result := s.Solve(); result {
	case 1:
		logger.WithField("stage", "solve").Debug("satisfiable")
	case -1:
		fmt.Println("UNSATISFIABLE")
		return nil
	default:
		return fmt.Errorf("solver returned an unknown result")
	}

	model := make([]int, 0, c.NVars)
	for v := 1; v <= c.NVars; v++ {
		lit := z.Dimacs2Lit(v)
		if s.Value(lit) {
			model = append(model, v)
		} else {
			model = append(model, -v)
		}
	}

	assignment, err := decoder.DecodeAssignment(model)
	if err != nil {
		return fmt.Errorf("decoding model: %w", err)
	}
	fmt.Println("SATISFIABLE")
	for symbol, vertex := range assignment {
		fmt.Printf("variable[%d] = vertex %d\n", symbol, vertex)
	}
	return nil
}

func parseVertices(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("at least one vertex is required")
	}
	parts := strings.Split(s, ",")
	vs := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid vertex %q: %w", p, err)
		}
		vs[i] = v
	}
	return vs, nil
}

func parseEdges(s string) ([][2]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	es := make([][2]int, len(parts))
	for i, p := range parts {
		endpoints := strings.SplitN(strings.TrimSpace(p), "-", 2)
		if len(endpoints) != 2 {
			return nil, fmt.Errorf("invalid edge %q, expected \"u-v\"", p)
		}
		u, err := strconv.Atoi(strings.TrimSpace(endpoints[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid edge %q: %w", p, err)
		}
		v, err := strconv.Atoi(strings.TrimSpace(endpoints[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid edge %q: %w", p, err)
		}
		es[i] = [2]int{u, v}
	}
	return es, nil
}

func parseEncoding(s string) (grst.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return grst.Direct, nil
	case "log":
		return grst.Log, nil
	case "vertex":
		return grst.Vertex, nil
	case "edge":
		return grst.Edge, nil
	case "clique":
		return grst.Clique, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}
