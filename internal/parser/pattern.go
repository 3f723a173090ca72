package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// parsePattern parses the single pattern grammar shared by is
// expressions and switch arms: or/and/not combinators over
// relational, constant, type, var, discard, property, positional,
// and list patterns.
func (p *Parser) parsePattern(sp source.Span) (source.Span, ast.Pattern, error) {
	return p.parseOrPattern(sp)
}

func (p *Parser) parseOrPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	rest, left, err := p.parseAndPattern(sp)
	if err != nil {
		return sp, nil, err
	}
	for {
		next, err := p.contextualKw(p.ws(rest), "or")
		if err != nil {
			return rest, left, nil
		}
		rightSp, right, err := p.parseAndPattern(next)
		if err != nil {
			return sp, nil, err
		}
		left = &ast.OrPattern{Left: left, Right: right}
		rest = rightSp
	}
}

func (p *Parser) parseAndPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	rest, left, err := p.parseUnaryPattern(sp)
	if err != nil {
		return sp, nil, err
	}
	for {
		next, err := p.contextualKw(p.ws(rest), "and")
		if err != nil {
			return rest, left, nil
		}
		rightSp, right, err := p.parseUnaryPattern(next)
		if err != nil {
			return sp, nil, err
		}
		left = &ast.AndPattern{Left: left, Right: right}
		rest = rightSp
	}
}

func (p *Parser) parseUnaryPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	if rest, err := p.contextualKw(p.ws(sp), "not"); err == nil {
		next, operand, err := p.parseUnaryPattern(rest)
		if err != nil {
			return sp, nil, err
		}
		return next, &ast.NotPattern{Operand: operand}, nil
	}
	return p.parsePrimaryPattern(sp)
}

func (p *Parser) parsePrimaryPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	sp = p.ws(sp)
	c := sp.First()

	switch c {
	case '(':
		return p.parseParenOrPositionalPattern(sp)
	case '[':
		return p.parseListPattern(sp)
	case '{':
		return p.parsePropertyPatternBody(sp, nil)
	case '<', '>':
		return p.parseRelationalPattern(sp)
	}

	// Literal constants, including signed numbers.
	if isDigit(c) || c == '"' || c == '\'' ||
		((c == '-' || c == '+') && isDigit(p.ws(sp.Advance(1)).First())) {
		return p.parseConstantPattern(sp)
	}

	word, _ := peekWord(sp)
	switch word {
	case "true", "false", "null":
		return p.parseConstantPattern(sp)
	case "_":
		rest, _, _ := p.ident(sp)
		return rest, &ast.DiscardPattern{}, nil
	case "var":
		rest, _ := p.contextualKw(sp, "var")
		next, des, err := p.parseDesignation(rest)
		if err != nil {
			return sp, nil, err
		}
		return next, &ast.VarPattern{Designation: des}, nil
	}

	return p.parseTypeBasedPattern(sp)
}

func (p *Parser) parseRelationalPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	var op ast.BinaryOp
	var rest source.Span
	switch {
	case sp.HasPrefix("<="):
		op, rest = ast.OpLessEqual, sp.Advance(2)
	case sp.HasPrefix(">="):
		op, rest = ast.OpGreaterEqual, sp.Advance(2)
	case sp.First() == '<':
		op, rest = ast.OpLess, sp.Advance(1)
	case sp.First() == '>':
		op, rest = ast.OpGreater, sp.Advance(1)
	default:
		return sp, nil, expect(sp, "relational pattern")
	}
	next, value, err := p.parseShift(rest)
	if err != nil {
		return sp, nil, err
	}
	return next, &ast.RelationalPattern{Op: op, Value: value}, nil
}

// parseConstantPattern parses a constant expression pattern at shift
// precedence, so case 1 + 2: works while case x when ...: does not
// swallow the guard.
func (p *Parser) parseConstantPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	rest, value, err := p.parseShift(sp)
	if err != nil {
		return sp, nil, err
	}
	return rest, &ast.ConstantPattern{Value: value}, nil
}

// parseTypeBasedPattern parses patterns that open with a type: type
// tests with optional designation, positional and property patterns
// with explicit types, and dotted constants (enum members).
func (p *Parser) parseTypeBasedPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	rest, t, err := p.parseTypeInExpr(sp)
	if err != nil {
		return sp, nil, expect(sp, "pattern")
	}

	after := p.ws(rest)
	switch after.First() {
	case '(':
		return p.parsePositionalPatternBody(after, t)
	case '{':
		return p.parsePropertyPatternBody(after, t)
	}

	if next, des, err := p.parseDesignation(rest); err == nil && des.Present() {
		return next, &ast.TypePattern{Type: t, Designation: des}, nil
	}

	// A bare dotted name with no designation reads as a constant
	// (enum members, named constants); single identifiers and
	// composed types stay type tests.
	if named, ok := t.(*ast.NamedType); ok && len(named.TypeArgs) == 0 && len(named.Parts) > 1 {
		return rest, &ast.ConstantPattern{
			Value: &ast.NameExpr{Global: named.Global, Parts: named.Parts},
		}, nil
	}
	return rest, &ast.TypePattern{Type: t}, nil
}

// parseDesignation parses an optional binding after a pattern: a
// fresh name or the discard. Absence is not an error; the zero
// designation comes back.
func (p *Parser) parseDesignation(sp source.Span) (source.Span, ast.Designation, error) {
	rest, name, err := p.ident(sp)
	if err != nil {
		return sp, ast.Designation{}, nil
	}
	switch name {
	case "_":
		return rest, ast.Designation{Discard: true}, nil
	case "and", "or", "when":
		// Combinator keywords never bind.
		return sp, ast.Designation{}, nil
	}
	return rest, ast.Designation{Name: name}, nil
}

func (p *Parser) parseParenOrPositionalPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	start := sp
	rest := p.ws(sp.Advance(1))

	rest, pats, err := commaSep(p, rest, p.parsePattern)
	if err != nil {
		return start, nil, err
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return start, nil, err
	}
	if len(pats) == 1 {
		return rest, &ast.ParenthesizedPattern{Operand: pats[0]}, nil
	}
	out := &ast.PositionalPattern{Subpatterns: pats}
	next, des, _ := p.parseDesignation(rest)
	if des.Present() {
		out.Designation = des
		rest = next
	}
	return rest, out, nil
}

func (p *Parser) parsePositionalPatternBody(sp source.Span, t ast.TypeNode) (source.Span, ast.Pattern, error) {
	start := sp
	rest := p.ws(sp.Advance(1))

	out := &ast.PositionalPattern{Type: t}
	if rest.First() != ')' {
		var err error
		rest, out.Subpatterns, err = commaSep(p, rest, p.parsePattern)
		if err != nil {
			return start, nil, err
		}
	}
	rest, err := p.tok(rest, ")")
	if err != nil {
		return start, nil, err
	}

	if p.peekTok(rest, "{") {
		propSp, props, err := p.parsePropertySubpatterns(p.ws(rest))
		if err != nil {
			return start, nil, err
		}
		out.Properties = props
		rest = propSp
	}
	next, des, _ := p.parseDesignation(rest)
	if des.Present() {
		out.Designation = des
		rest = next
	}
	return rest, out, nil
}

func (p *Parser) parsePropertyPatternBody(sp source.Span, t ast.TypeNode) (source.Span, ast.Pattern, error) {
	rest, props, err := p.parsePropertySubpatterns(sp)
	if err != nil {
		return sp, nil, err
	}
	out := &ast.PropertyPattern{Type: t, Subpatterns: props}
	next, des, _ := p.parseDesignation(rest)
	if des.Present() {
		out.Designation = des
		rest = next
	}
	return rest, out, nil
}

func (p *Parser) parsePropertySubpatterns(sp source.Span) (source.Span, []*ast.PropertySubpattern, error) {
	start := sp
	rest := p.ws(sp)
	if rest.First() != '{' {
		return start, nil, expect(rest, "'{'")
	}
	rest = p.ws(rest.Advance(1))
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	var props []*ast.PropertySubpattern
	if rest.First() != '}' {
		var err error
		rest, props, err = commaSep(p, rest, func(sp source.Span) (source.Span, *ast.PropertySubpattern, error) {
			rest, name, err := p.ident(sp)
			if err != nil {
				return sp, nil, err
			}
			rest, err = p.tok(rest, ":")
			if err != nil {
				return sp, nil, err
			}
			rest, pat, err := p.parsePattern(rest)
			if err != nil {
				return sp, nil, err
			}
			return rest, &ast.PropertySubpattern{Name: name, Pattern: pat}, nil
		})
		if err != nil {
			return start, nil, err
		}
	}
	rest, err := p.tok(rest, "}")
	if err != nil {
		return start, nil, err
	}
	return rest, props, nil
}

func (p *Parser) parseListPattern(sp source.Span) (source.Span, ast.Pattern, error) {
	start := sp
	rest := p.ws(sp.Advance(1))

	out := &ast.ListPattern{}
	for {
		rest = p.ws(rest)
		if rest.First() == ']' {
			rest = rest.Advance(1)
			break
		}
		if rest.EOF() {
			return start, nil, expect(rest, "']'")
		}
		if rest.HasPrefix("..") {
			elem := ast.ListPatternElement{Slice: true}
			next := p.ws(rest.Advance(2))
			if next.First() != ',' && next.First() != ']' {
				patSp, pat, err := p.parsePattern(next)
				if err != nil {
					return start, nil, err
				}
				elem.Pattern = pat
				next = patSp
			}
			out.Elements = append(out.Elements, elem)
			rest = next
		} else {
			patSp, pat, err := p.parsePattern(rest)
			if err != nil {
				return start, nil, err
			}
			out.Elements = append(out.Elements, ast.ListPatternElement{Pattern: pat})
			rest = patSp
		}
		rest = p.ws(rest)
		if rest.First() == ',' {
			rest = rest.Advance(1)
		}
	}

	next, des, _ := p.parseDesignation(rest)
	if des.Present() {
		out.Designation = des
		rest = next
	}
	return rest, out, nil
}
