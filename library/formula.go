package library

import (
	"fmt"
	"strings"

	"github.com/vlsicore/subnet/internal/truth"
)

// ParseFormula evaluates a Liberty-style Boolean function string over
// pins (in the order used as the resulting Table's variable indices)
// into a truth.Table (spec §6: "a formula expression language with the
// operators {!, ^, &, |, constant, subscript}").
//
// Grammar (highest to lowest precedence): a parenthesized expression or
// a pin name or a '0'/'1' constant; then prefix '!'; then '&' (and the
// implicit-AND produced by juxtaposition or '*'); then '^'; then '|'
// (and '+', an accepted synonym). Pin names may carry a numeric
// subscript (e.g. "A1") to name one of several same-letter pins, which
// this parser treats as an ordinary identifier match against pins.
func ParseFormula(expr string, pins []string) (truth.Table, error) {
	p := &formulaParser{src: expr, pins: pins}
	p.skipSpace()
	t, err := p.parseOr()
	if err != nil {
		return truth.Table{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return truth.Table{}, fmt.Errorf("library: unexpected trailing input %q in formula %q", p.src[p.pos:], expr)
	}
	return t, nil
}

type formulaParser struct {
	src  string
	pos  int
	pins []string
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseOr: xor ( ('|' | '+') xor )*
func (p *formulaParser) parseOr() (truth.Table, error) {
	left, err := p.parseXor()
	if err != nil {
		return truth.Table{}, err
	}
	for {
		p.skipSpace()
		if p.peek() == '|' || p.peek() == '+' {
			p.pos++
			right, err := p.parseXor()
			if err != nil {
				return truth.Table{}, err
			}
			left = left.Or(right)
			continue
		}
		break
	}
	return left, nil
}

// parseXor: and ( '^' and )*
func (p *formulaParser) parseXor() (truth.Table, error) {
	left, err := p.parseAnd()
	if err != nil {
		return truth.Table{}, err
	}
	for {
		p.skipSpace()
		if p.peek() == '^' {
			p.pos++
			right, err := p.parseAnd()
			if err != nil {
				return truth.Table{}, err
			}
			left = left.Xor(right)
			continue
		}
		break
	}
	return left, nil
}

// parseAnd: not ( ('&' | '*' | implicit-juxtaposition) not )*
func (p *formulaParser) parseAnd() (truth.Table, error) {
	left, err := p.parseNot()
	if err != nil {
		return truth.Table{}, err
	}
	for {
		p.skipSpace()
		c := p.peek()
		if c == '&' || c == '*' {
			p.pos++
			right, err := p.parseNot()
			if err != nil {
				return truth.Table{}, err
			}
			left = left.And(right)
			continue
		}
		if c == '(' || isIdentStart(c) {
			right, err := p.parseNot()
			if err != nil {
				return truth.Table{}, err
			}
			left = left.And(right)
			continue
		}
		break
	}
	return left, nil
}

// parseNot: '!' not | atom
func (p *formulaParser) parseNot() (truth.Table, error) {
	p.skipSpace()
	if p.peek() == '!' {
		p.pos++
		inner, err := p.parseNot()
		if err != nil {
			return truth.Table{}, err
		}
		return inner.Not(), nil
	}
	return p.parseAtom()
}

// parseAtom: '(' or ')' | '0' | '1' | identifier
func (p *formulaParser) parseAtom() (truth.Table, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return truth.Table{}, fmt.Errorf("library: unexpected end of formula")
	}
	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		t, err := p.parseOr()
		if err != nil {
			return truth.Table{}, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return truth.Table{}, fmt.Errorf("library: missing closing paren in formula %q", p.src)
		}
		p.pos++
		return t, nil
	case c == '0':
		p.pos++
		return truth.Constant(len(p.pins), false), nil
	case c == '1':
		p.pos++
		return truth.Constant(len(p.pins), true), nil
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		name := p.src[start:p.pos]
		idx := indexOf(p.pins, name)
		if idx < 0 {
			return truth.Table{}, fmt.Errorf("library: formula references unknown pin %q", name)
		}
		return truth.Var(len(p.pins), idx), nil
	default:
		return truth.Table{}, fmt.Errorf("library: unexpected character %q in formula %q", c, p.src)
	}
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}
