// Package fog implements a hash-consed formula DAG: a single node type
// shared by structural equality, covering both the propositional
// fragment and its first-order-logic-over-graphs extension (equality,
// adjacency, strict order, quantifiers).
package fog

import (
	"fmt"

	"github.com/opfog/fogsat/internal/name"
)

// Tag identifies the shape of a Node. Closed over a small enum rather
// than an open interface hierarchy, so the rewrite packages can switch
// over it exhaustively.
type Tag int

const (
	// Propositional tags.
	TagTrue Tag = iota
	TagFalse
	TagVar
	TagNot
	TagAnd
	TagOr
	TagImplies
	TagIff
	// First-order tags.
	TagEq
	TagEdg
	TagLt
	TagForall
	TagExists
)

func (t Tag) String() string {
	switch t {
	case TagTrue:
		return "T"
	case TagFalse:
		return "F"
	case TagVar:
		return "var"
	case TagNot:
		return "~"
	case TagAnd:
		return "&"
	case TagOr:
		return "|"
	case TagImplies:
		return "->"
	case TagIff:
		return "<->"
	case TagEq:
		return "="
	case TagEdg:
		return "edg"
	case TagLt:
		return "<"
	case TagForall:
		return "!"
	case TagExists:
		return "?"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// IsAtom reports whether t is an atomic tag (no operands).
func (t Tag) IsAtom() bool {
	switch t {
	case TagTrue, TagFalse, TagVar, TagEq, TagEdg, TagLt:
		return true
	}
	return false
}

// IsUnary reports whether t takes exactly one operand.
func (t Tag) IsUnary() bool {
	return t == TagNot
}

// IsBinary reports whether t takes exactly two operands.
func (t Tag) IsBinary() bool {
	switch t {
	case TagAnd, TagOr, TagImplies, TagIff:
		return true
	}
	return false
}

// IsQuantifier reports whether t binds a variable over a single body.
func (t Tag) IsQuantifier() bool {
	return t == TagForall || t == TagExists
}

// Node is a tagged formula tree node, shared by structural equality: two
// requests to build a node with the same (tag, left, right, aux) return
// the identical *Node (see Context.intern). Nodes are never mutated or
// freed once built; a compilation's Context owns their lifetime.
type Node struct {
	tag   Tag
	left  *Node
	right *Node
	aux   [2]int // atom arguments, or [boundVar, 0] for quantifiers
	naux  int    // number of meaningful entries in aux
}

// Tag returns the receiver's tag.
func (n *Node) Tag() Tag { return n.tag }

// Left returns the receiver's left operand, or nil if it has none.
func (n *Node) Left() *Node { return n.left }

// Right returns the receiver's right operand, or nil if it has none.
func (n *Node) Right() *Node { return n.right }

// Aux returns the receiver's small integer tuple: atom arguments for
// eq/edg/lt/var, or a single bound-variable index for quantifiers.
func (n *Node) Aux() []int { return n.aux[:n.naux] }

// BoundVar returns the bound-variable index of a quantifier node. It
// panics if the receiver is not a quantifier; callers are expected to
// switch on Tag first.
func (n *Node) BoundVar() int {
	if !n.tag.IsQuantifier() {
		panic("fog: BoundVar called on non-quantifier node")
	}
	return n.aux[0]
}

// VarIndex returns the registry index of a TagVar node.
func (n *Node) VarIndex() int {
	if n.tag != TagVar {
		panic("fog: VarIndex called on non-var node")
	}
	return n.aux[0]
}

type nodeKey struct {
	tag         Tag
	left, right *Node
	a0, a1      int
	naux        int
}

// Context is the explicit, non-global home for a single compilation's
// interned nodes and its Names registry: dropping a Context ends its
// lifecycle in place of a global clear().
type Context struct {
	Names *name.Registry

	cache map[nodeKey]*Node
	// BipartiteOrder controls how BinopBatch folds a list of formulas:
	// false folds left-associatively, true folds by balanced halving
	// (shallower trees, so shorter Tseitin chains for long conjunctions
	// and disjunctions produced by quantifier expansion).
	BipartiteOrder bool
}

// NewContext returns a Context backed by a fresh name Registry.
func NewContext() *Context {
	return &Context{
		Names: name.NewRegistry(),
		cache: make(map[nodeKey]*Node),
	}
}

func (c *Context) intern(k nodeKey) *Node {
	if n, ok := c.cache[k]; ok {
		return n
	}
	n := &Node{tag: k.tag, left: k.left, right: k.right, naux: k.naux}
	n.aux[0], n.aux[1] = k.a0, k.a1
	c.cache[k] = n
	return n
}

// True returns the shared T node.
func (c *Context) True() *Node { return c.intern(nodeKey{tag: TagTrue}) }

// False returns the shared F node.
func (c *Context) False() *Node { return c.intern(nodeKey{tag: TagFalse}) }

// Var returns the propositional-variable atom for registry index i.
func (c *Context) Var(i int) *Node {
	return c.intern(nodeKey{tag: TagVar, a0: i, naux: 1})
}

// Not returns the negation of x.
func (c *Context) Not(x *Node) *Node {
	return c.intern(nodeKey{tag: TagNot, left: x})
}

// Binop returns the node for l <tag> r, for one of And/Or/Implies/Iff.
// It panics if tag is not a binary tag; use the named constructors
// (And, Or, Implies, Iff) when the tag is known statically.
func (c *Context) Binop(tag Tag, l, r *Node) *Node {
	if !tag.IsBinary() {
		panic("fog: Binop called with non-binary tag " + tag.String())
	}
	return c.intern(nodeKey{tag: tag, left: l, right: r})
}

func (c *Context) And(l, r *Node) *Node     { return c.Binop(TagAnd, l, r) }
func (c *Context) Or(l, r *Node) *Node      { return c.Binop(TagOr, l, r) }
func (c *Context) Implies(l, r *Node) *Node { return c.Binop(TagImplies, l, r) }
func (c *Context) Iff(l, r *Node) *Node     { return c.Binop(TagIff, l, r) }

// cmpNames orders two registered symbols by their textual name. It is
// used only to normalize the argument order of symmetric relations.
func (c *Context) cmpNames(x, y int) int {
	nx, _ := c.Names.LookupName(x)
	ny, _ := c.Names.LookupName(y)
	switch {
	case nx < ny:
		return -1
	case nx > ny:
		return 1
	default:
		return 0
	}
}

// Atom returns the atomic formula with the given tag and two symbol
// arguments. Symmetric relations (eq, edg) normalize argument order by
// symbol name before interning, so eq(x,y) and eq(y,x) share a node;
// lt does not normalize.
func (c *Context) Atom(tag Tag, x, y int) (*Node, error) {
	if !c.Names.HasName(x) || !c.Names.HasName(y) {
		return nil, fmt.Errorf("fog: atom %s(%d,%d) references an unregistered symbol", tag, x, y)
	}
	switch tag {
	case TagEq, TagEdg:
		if c.cmpNames(y, x) < 0 {
			x, y = y, x
		}
	case TagLt:
		// argument order is significant; no normalization.
	default:
		return nil, fmt.Errorf("fog: %s is not a binary-relation atom tag", tag)
	}
	return c.intern(nodeKey{tag: tag, a0: x, a1: y, naux: 2}), nil
}

func (c *Context) Eq(x, y int) (*Node, error)  { return c.Atom(TagEq, x, y) }
func (c *Context) Edg(x, y int) (*Node, error) { return c.Atom(TagEdg, x, y) }
func (c *Context) Lt(x, y int) (*Node, error)  { return c.Atom(TagLt, x, y) }

// Qf returns the quantifier node binding symbol x over body, for tag
// Forall or Exists.
func (c *Context) Qf(tag Tag, body *Node, x int) (*Node, error) {
	if !tag.IsQuantifier() {
		return nil, fmt.Errorf("fog: %s is not a quantifier tag", tag)
	}
	if ok, err := c.Names.IsVariable(x); err != nil || !ok {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("fog: quantifier bound symbol %d is not a first-order variable", x)
	}
	return c.intern(nodeKey{tag: tag, left: body, a0: x, naux: 1}), nil
}

func (c *Context) Forall(x int, body *Node) (*Node, error) { return c.Qf(TagForall, body, x) }
func (c *Context) Exists(x int, body *Node) (*Node, error) { return c.Qf(TagExists, body, x) }

// BinopBatch folds xs into a single node under tag (And or Or), either
// left-associatively or by balanced halving depending on
// Context.BipartiteOrder. It returns the tag's identity element (True
// for And, False for Or) when xs is empty, and xs[0] unchanged when it
// holds a single element.
func (c *Context) BinopBatch(tag Tag, xs []*Node) *Node {
	if len(xs) == 0 {
		if tag == TagAnd {
			return c.True()
		}
		return c.False()
	}
	if len(xs) == 1 {
		return xs[0]
	}
	if !c.BipartiteOrder {
		acc := xs[0]
		for _, x := range xs[1:] {
			acc = c.Binop(tag, acc, x)
		}
		return acc
	}
	mid := len(xs) / 2
	left := c.BinopBatch(tag, xs[:mid])
	right := c.BinopBatch(tag, xs[mid:])
	return c.Binop(tag, left, right)
}
