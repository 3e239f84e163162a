package parser

import (
	"fmt"
	"strconv"

	"github.com/opfog/fogsat/internal/fog"
)

type parser struct {
	ctx  *fog.Context
	toks []token
	pos  int
}

// Parse parses src under the package's grammar and returns the
// resulting formula DAG node, built in ctx.
func Parse(ctx *fog.Context, src string) (*fog.Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{ctx: ctx, toks: toks}
	n, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input %q", p.peek().text)
	}
	return n, nil
}

func (p *parser) peek() token           { return p.toks[p.pos] }
func (p *parser) peekKind(off int) tokenKind {
	i := p.pos + off
	if i >= len(p.toks) {
		return tokEOF
	}
	return p.toks[i].kind
}
func (p *parser) advance() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.peek().pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.peek().kind != k {
		return token{}, p.errorf("expected %s, found %q", what, p.peek().text)
	}
	return p.advance(), nil
}

// parseIff, parseImplies, parseOr, parseAnd implement left-associative
// binary precedence levels, lowest (<->) to highest (&) before unary.
func (p *parser) parseIff() (*fog.Node, error) {
	n, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIff {
		p.advance()
		r, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		n = p.ctx.Iff(n, r)
	}
	return n, nil
}

func (p *parser) parseImplies() (*fog.Node, error) {
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokImplies {
		p.advance()
		r, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		n = p.ctx.Implies(n, r)
	}
	return n, nil
}

func (p *parser) parseOr() (*fog.Node, error) {
	n, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.advance()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		n = p.ctx.Or(n, r)
	}
	return n, nil
}

func (p *parser) parseAnd() (*fog.Node, error) {
	n, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.advance()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n = p.ctx.And(n, r)
	}
	return n, nil
}

// parseUnary handles the tightest, right-associative tier: ~, the two
// quantifiers, and parenthesized/atomic primaries, all at equal
// precedence.
func (p *parser) parseUnary() (*fog.Node, error) {
	switch p.peek().kind {
	case tokNot:
		p.advance()
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.ctx.Not(body), nil

	case tokForall, tokExists:
		tag := fog.TagForall
		if p.peek().kind == tokExists {
			tag = fog.TagExists
		}
		p.advance()
		if _, err := p.expect(tokLBracket, "'['"); err != nil {
			return nil, err
		}
		v, err := p.expect(tokLowerID, "bound variable")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		idx, err := p.ctx.Names.LookupIndex(v.text)
		if err != nil {
			return nil, err
		}
		return p.ctx.Qf(tag, body, idx)

	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (*fog.Node, error) {
	if p.peek().kind == tokLParen {
		p.advance()
		n, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return n, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (*fog.Node, error) {
	t := p.peek()

	if t.kind == tokLowerID && t.text == "edg" && p.peekKind(1) == tokLParen {
		p.advance()
		p.advance()
		x, err := p.parseTermName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokComma, "','"); err != nil {
			return nil, err
		}
		y, err := p.parseTermName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		xi, err := p.ctx.Names.LookupIndex(x)
		if err != nil {
			return nil, err
		}
		yi, err := p.ctx.Names.LookupIndex(y)
		if err != nil {
			return nil, err
		}
		return p.ctx.Edg(xi, yi)
	}

	if t.kind != tokLowerID && t.kind != tokUpperID {
		return nil, p.errorf("expected atom, found %q", t.text)
	}
	name, err := p.parseTermName()
	if err != nil {
		return nil, err
	}

	switch p.peek().kind {
	case tokAt:
		if t.kind != tokLowerID {
			return nil, p.errorf("propositional variable prefix must be a lowercase identifier, found %q", name)
		}
		p.advance()
		num, err := p.expect(tokNumber, "position")
		if err != nil {
			return nil, err
		}
		n, convErr := strconv.Atoi(num.text)
		if convErr != nil || n < 1 {
			return nil, &SyntaxError{Pos: num.pos, Message: "propositional variable position must be >= 1"}
		}
		idx, err := p.ctx.Names.LookupIndex(name + "@" + num.text)
		if err != nil {
			return nil, err
		}
		return p.ctx.Var(idx), nil

	case tokEq:
		p.advance()
		rhs, err := p.parseTermName()
		if err != nil {
			return nil, err
		}
		xi, err := p.ctx.Names.LookupIndex(name)
		if err != nil {
			return nil, err
		}
		yi, err := p.ctx.Names.LookupIndex(rhs)
		if err != nil {
			return nil, err
		}
		return p.ctx.Eq(xi, yi)

	case tokLt:
		p.advance()
		rhs, err := p.parseTermName()
		if err != nil {
			return nil, err
		}
		xi, err := p.ctx.Names.LookupIndex(name)
		if err != nil {
			return nil, err
		}
		yi, err := p.ctx.Names.LookupIndex(rhs)
		if err != nil {
			return nil, err
		}
		return p.ctx.Lt(xi, yi)

	default:
		switch name {
		case "T":
			return p.ctx.True(), nil
		case "F":
			return p.ctx.False(), nil
		default:
			return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("bare term %q is not a valid atom; expected @, =, < or edg(...)", name)}
		}
	}
}

func (p *parser) parseTermName() (string, error) {
	t := p.peek()
	if t.kind != tokLowerID && t.kind != tokUpperID {
		return "", p.errorf("expected a term, found %q", t.text)
	}
	p.advance()
	return t.text, nil
}
