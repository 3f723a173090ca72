package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// tryQuery speculatively recognizes a LINQ query expression. The
// parse commits only once the complete initial from clause has been
// read, so an ordinary variable named from still parses as a name.
func (p *Parser) tryQuery(sp source.Span) (source.Span, ast.Expression, bool) {
	rest, from, ok := p.tryFromClause(sp)
	if !ok {
		return sp, nil, false
	}

	out := &ast.QueryExpr{Clauses: []ast.QueryClause{from}}
	next, err := p.parseQueryBody(rest, out)
	if err != nil {
		return sp, nil, false
	}
	return next, out, true
}

func (p *Parser) tryFromClause(sp source.Span) (source.Span, *ast.FromClause, bool) {
	rest, err := p.contextualKw(sp, "from")
	if err != nil {
		return sp, nil, false
	}
	clause := &ast.FromClause{}

	// from T name in src, or from name in src. Try the typed form
	// first; a bare name whose next word is in wins the untyped read.
	if typeSp, t, err := p.parseType(rest); err == nil {
		if nameSp, name, err := p.ident(typeSp); err == nil {
			if inSp, err := p.kw(nameSp, "in"); err == nil {
				srcSp, src, err := p.parseExpressionNoQuery(inSp)
				if err == nil {
					clause.Type = t
					clause.Name = name
					clause.Source = src
					return srcSp, clause, true
				}
			}
		}
	}

	nameSp, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, false
	}
	inSp, err := p.kw(nameSp, "in")
	if err != nil {
		return sp, nil, false
	}
	srcSp, src, err := p.parseExpressionNoQuery(inSp)
	if err != nil {
		return sp, nil, false
	}
	clause.Name = name
	clause.Source = src
	return srcSp, clause, true
}

// parseExpressionNoQuery parses an expression for use inside query
// clauses, where the next query keyword must terminate the operand
// rather than be swallowed as an identifier.
func (p *Parser) parseExpressionNoQuery(sp source.Span) (source.Span, ast.Expression, error) {
	return p.parseConditional(sp)
}

// parseQueryBody parses clauses after the initial from until the
// terminal select or group, following continuations (into) back into
// the clause list.
func (p *Parser) parseQueryBody(sp source.Span, out *ast.QueryExpr) (source.Span, error) {
	rest := sp
	for {
		rest = p.ws(rest)
		word, _ := peekWord(rest)
		switch word {
		case "from":
			next, from, ok := p.tryFromClause(rest)
			if !ok {
				return sp, expect(rest, "from clause")
			}
			out.Clauses = append(out.Clauses, from)
			rest = next

		case "let":
			next, _ := p.contextualKw(rest, "let")
			next, name, err := p.ident(next)
			if err != nil {
				return sp, err
			}
			next, err = p.opTok(p.ws(next), "=", "=>")
			if err != nil {
				return sp, err
			}
			next, value, err := p.parseExpressionNoQuery(next)
			if err != nil {
				return sp, err
			}
			out.Clauses = append(out.Clauses, &ast.LetClause{Name: name, Value: value})
			rest = next

		case "where":
			next, _ := p.contextualKw(rest, "where")
			next, cond, err := p.parseExpressionNoQuery(next)
			if err != nil {
				return sp, err
			}
			out.Clauses = append(out.Clauses, &ast.WhereClause{Cond: cond})
			rest = next

		case "join":
			next, join, err := p.parseJoinClause(rest)
			if err != nil {
				return sp, err
			}
			out.Clauses = append(out.Clauses, join)
			rest = next

		case "orderby":
			next, _ := p.contextualKw(rest, "orderby")
			next, orderings, err := commaSep(p, next, p.parseOrdering)
			if err != nil {
				return sp, err
			}
			out.Clauses = append(out.Clauses, &ast.OrderByClause{Orderings: orderings})
			rest = next

		case "select":
			next, _ := p.contextualKw(rest, "select")
			next, value, err := p.parseExpressionNoQuery(next)
			if err != nil {
				return sp, err
			}
			clause := &ast.SelectClause{Value: value}
			out.Clauses = append(out.Clauses, clause)
			if intoSp, name, ok := p.tryInto(next); ok {
				clause.Into = name
				rest = intoSp
				continue
			}
			return next, nil

		case "group":
			next, _ := p.contextualKw(rest, "group")
			next, value, err := p.parseExpressionNoQuery(next)
			if err != nil {
				return sp, err
			}
			next, err = p.contextualKw(p.ws(next), "by")
			if err != nil {
				return sp, err
			}
			next, key, err := p.parseExpressionNoQuery(next)
			if err != nil {
				return sp, err
			}
			clause := &ast.GroupClause{Value: value, Key: key}
			out.Clauses = append(out.Clauses, clause)
			if intoSp, name, ok := p.tryInto(next); ok {
				clause.Into = name
				rest = intoSp
				continue
			}
			return next, nil

		default:
			return sp, expect(rest, "query clause")
		}
	}
}

func (p *Parser) tryInto(sp source.Span) (source.Span, string, bool) {
	rest, err := p.contextualKw(p.ws(sp), "into")
	if err != nil {
		return sp, "", false
	}
	next, name, err := p.ident(rest)
	if err != nil {
		return sp, "", false
	}
	return next, name, true
}

func (p *Parser) parseJoinClause(sp source.Span) (source.Span, *ast.JoinClause, error) {
	rest, _ := p.contextualKw(sp, "join")
	clause := &ast.JoinClause{}

	if typeSp, t, err := p.parseType(rest); err == nil {
		if nameSp, name, err := p.ident(typeSp); err == nil {
			if p.peekKw(nameSp, "in") {
				clause.Type = t
				clause.Name = name
				rest = nameSp
			}
		}
	}
	if clause.Name == "" {
		nameSp, name, err := p.ident(rest)
		if err != nil {
			return sp, nil, err
		}
		clause.Name = name
		rest = nameSp
	}

	rest, err := p.kw(rest, "in")
	if err != nil {
		return sp, nil, err
	}
	rest, src, err := p.parseExpressionNoQuery(rest)
	if err != nil {
		return sp, nil, err
	}
	clause.Source = src

	rest, err = p.contextualKw(p.ws(rest), "on")
	if err != nil {
		return sp, nil, err
	}
	rest, left, err := p.parseExpressionNoQuery(rest)
	if err != nil {
		return sp, nil, err
	}
	clause.Left = left

	rest, err = p.contextualKw(p.ws(rest), "equals")
	if err != nil {
		return sp, nil, err
	}
	rest, right, err := p.parseExpressionNoQuery(rest)
	if err != nil {
		return sp, nil, err
	}
	clause.Right = right

	if intoSp, name, ok := p.tryInto(rest); ok {
		clause.Into = name
		rest = intoSp
	}
	return rest, clause, nil
}

func (p *Parser) parseOrdering(sp source.Span) (source.Span, ast.Ordering, error) {
	rest, key, err := p.parseExpressionNoQuery(sp)
	if err != nil {
		return sp, ast.Ordering{}, err
	}
	ord := ast.Ordering{Key: key}
	if next, err := p.contextualKw(p.ws(rest), "descending"); err == nil {
		ord.Descending = true
		rest = next
	} else if next, err := p.contextualKw(p.ws(rest), "ascending"); err == nil {
		rest = next
	}
	return rest, ord, nil
}
