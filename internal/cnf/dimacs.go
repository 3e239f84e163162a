package cnf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDIMACS writes c in DIMACS CNF format to w. The given comment
// lines are written after the "p cnf" header and before the clauses,
// each verbatim after a "c " prefix. Nothing else is annotated: no
// per-vertex code lines and no per-variable encoding lines are written
// unless the caller passes them as comments (cmd/fogsatc passes a
// single line naming the encoding and the vertex count).
//
// An empty CNF (no variables or no clauses) is rejected rather than
// written out as a degenerate "p cnf 0 0" header.
func WriteDIMACS(w io.Writer, c *CNF, comments []string) error {
	if c.NVars == 0 || len(c.Clauses) == 0 {
		return fmt.Errorf("cnf: WriteDIMACS: cnf has no variable or no clause")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", c.NVars, len(c.Clauses))
	for _, line := range comments {
		sb.WriteString("c ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for _, clause := range c.Clauses {
		parts := make([]string, len(clause)+1)
		for i, lit := range clause {
			parts[i] = strconv.Itoa(lit)
		}
		parts[len(clause)] = "0"
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
