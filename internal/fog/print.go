package fog

import (
	"fmt"
	"strings"
)

func (c *Context) atomString(n *Node) string {
	switch n.tag {
	case TagTrue:
		return "T"
	case TagFalse:
		return "F"
	case TagVar:
		nm, err := c.Names.LookupName(n.VarIndex())
		if err != nil {
			return fmt.Sprintf("var(%d)", n.VarIndex())
		}
		return nm
	case TagEq, TagEdg, TagLt:
		a := n.Aux()
		xn, _ := c.Names.LookupName(a[0])
		yn, _ := c.Names.LookupName(a[1])
		if n.tag == TagEdg {
			return fmt.Sprintf("edg(%s,%s)", xn, yn)
		}
		return fmt.Sprintf("%s%s%s", xn, n.tag.String(), yn)
	default:
		return "?"
	}
}

// Prefix renders n in prefix notation, e.g. "(& p q)".
func (c *Context) Prefix(n *Node) string {
	var sb strings.Builder
	Walk(n, false, VisitorFuncs{
		EnterFunc: func(m *Node) {
			switch {
			case m.tag.IsAtom():
				sb.WriteString(c.atomString(m))
			case m.tag.IsUnary():
				fmt.Fprintf(&sb, "(%s ", m.tag)
			case m.tag.IsQuantifier():
				nm, _ := c.Names.LookupName(m.BoundVar())
				fmt.Fprintf(&sb, "(%s[%s] : ", m.tag, nm)
			case m.tag.IsBinary():
				fmt.Fprintf(&sb, "(%s ", m.tag)
			}
		},
		BetweenFunc: func(m *Node) { sb.WriteString(" ") },
		LeaveFunc: func(m *Node) {
			if !m.tag.IsAtom() {
				sb.WriteString(")")
			}
		},
	})
	return sb.String()
}

// Infix renders n in infix notation, e.g. "(p & q)", matching the
// surface syntax the parser accepts.
func (c *Context) Infix(n *Node) string {
	var sb strings.Builder
	Walk(n, false, VisitorFuncs{
		EnterFunc: func(m *Node) {
			switch {
			case m.tag.IsAtom():
				sb.WriteString(c.atomString(m))
			case m.tag.IsUnary():
				fmt.Fprintf(&sb, "(~")
			case m.tag.IsQuantifier():
				nm, _ := c.Names.LookupName(m.BoundVar())
				qf := "?"
				if m.tag == TagForall {
					qf = "!"
				}
				fmt.Fprintf(&sb, "(%s[%s] : ", qf, nm)
			case m.tag.IsBinary():
				sb.WriteString("(")
			}
		},
		BetweenFunc: func(m *Node) {
			var op string
			switch m.tag {
			case TagAnd:
				op = " & "
			case TagOr:
				op = " | "
			case TagImplies:
				op = " -> "
			case TagIff:
				op = " <-> "
			}
			sb.WriteString(op)
		},
		LeaveFunc: func(m *Node) {
			if !m.tag.IsAtom() {
				sb.WriteString(")")
			}
		},
	})
	return sb.String()
}

// Postfix renders n in postfix notation, e.g. "(p q &)".
func (c *Context) Postfix(n *Node) string {
	var sb strings.Builder
	Walk(n, false, VisitorFuncs{
		EnterFunc: func(m *Node) {
			if m.tag.IsBinary() || m.tag.IsUnary() || m.tag.IsQuantifier() {
				sb.WriteString("(")
			}
		},
		BetweenFunc: func(m *Node) { sb.WriteString(" ") },
		LeaveFunc: func(m *Node) {
			switch {
			case m.tag.IsAtom():
				sb.WriteString(c.atomString(m))
			case m.tag.IsUnary():
				fmt.Fprintf(&sb, " %s)", m.tag)
			case m.tag.IsQuantifier():
				nm, _ := c.Names.LookupName(m.BoundVar())
				fmt.Fprintf(&sb, " %s[%s])", m.tag, nm)
			case m.tag.IsBinary():
				fmt.Fprintf(&sb, " %s)", m.tag)
			}
		},
	})
	return sb.String()
}

// DOT renders n as a Graphviz DOT digraph, sharing nodes the way the
// hash-cons table shares them (a DAG, not unrolled into a tree).
func (c *Context) DOT(n *Node) string {
	var sb strings.Builder
	sb.WriteString("digraph fog {\n")
	ids := make(map[*Node]int)
	next := 0
	idOf := func(m *Node) int {
		if id, ok := ids[m]; ok {
			return id
		}
		ids[m] = next
		next++
		return ids[m]
	}
	Walk(n, true, VisitorFuncs{
		EnterFunc: func(m *Node) {
			id := idOf(m)
			label := m.tag.String()
			if m.tag.IsAtom() {
				label = c.atomString(m)
			} else if m.tag.IsQuantifier() {
				nm, _ := c.Names.LookupName(m.BoundVar())
				label = m.tag.String() + "[" + nm + "]"
			}
			fmt.Fprintf(&sb, "  n%d [label=%q];\n", id, label)
			if m.left != nil {
				fmt.Fprintf(&sb, "  n%d -> n%d;\n", id, idOf(m.left))
			}
			if m.right != nil {
				fmt.Fprintf(&sb, "  n%d -> n%d;\n", id, idOf(m.right))
			}
		},
	})
	sb.WriteString("}\n")
	return sb.String()
}
