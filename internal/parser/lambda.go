package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// tryLambda speculatively recognizes the three lambda shapes: a bare
// parameter (x => e), a parenthesized parameter list ((a, b) => e),
// and anonymous methods (delegate(...) {...}). The parse is bounded:
// nothing commits until => (or the delegate keyword) is seen, so a
// failed attempt leaves the input untouched for the tuple and
// grouping interpretations.
func (p *Parser) tryLambda(sp source.Span) (source.Span, ast.Expression, bool, error) {
	sp = p.ws(sp)
	async := false
	body := sp
	if rest, err := p.contextualKw(sp, "async"); err == nil {
		async = true
		body = rest
	}

	if rest, lambda, ok, err := p.tryDelegateLambda(body, async); err != nil || ok {
		return rest, lambda, ok, err
	}
	if rest, lambda, ok, err := p.trySimpleLambda(body, async); err != nil || ok {
		return rest, lambda, ok, err
	}
	if rest, lambda, ok, err := p.tryParenLambda(body, async); err != nil || ok {
		return rest, lambda, ok, err
	}
	return sp, nil, false, nil
}

// trySimpleLambda matches ident => body.
func (p *Parser) trySimpleLambda(sp source.Span, async bool) (source.Span, ast.Expression, bool, error) {
	rest, name, err := p.ident(sp)
	if err != nil {
		return sp, nil, false, nil
	}
	if !p.peekTok(rest, "=>") {
		return sp, nil, false, nil
	}
	arrow, _ := p.tok(rest, "=>")
	return p.finishLambda(arrow, &ast.LambdaExpr{
		Async:      async,
		Parameters: []*ast.LambdaParameter{{Name: name}},
	})
}

// tryParenLambda matches ( params ) => body.
func (p *Parser) tryParenLambda(sp source.Span, async bool) (source.Span, ast.Expression, bool, error) {
	start := p.ws(sp)
	if start.First() != '(' {
		return sp, nil, false, nil
	}
	rest := p.ws(start.Advance(1))

	var params []*ast.LambdaParameter
	if rest.First() != ')' {
		var err error
		rest, params, err = commaSep(p, rest, p.parseLambdaParameter)
		if err != nil {
			return sp, nil, false, nil
		}
		rest = p.ws(rest)
	}
	if rest.First() != ')' {
		return sp, nil, false, nil
	}
	rest = rest.Advance(1)
	if !p.peekTok(rest, "=>") {
		return sp, nil, false, nil
	}
	arrow, _ := p.tok(rest, "=>")
	return p.finishLambda(arrow, &ast.LambdaExpr{Async: async, Parameters: params})
}

// tryDelegateLambda matches delegate [(params)] { body }. The shape
// delegate* is a function pointer type, not a lambda.
func (p *Parser) tryDelegateLambda(sp source.Span, async bool) (source.Span, ast.Expression, bool, error) {
	rest, err := p.kw(sp, "delegate")
	if err != nil || p.peekTok(rest, "*") {
		return sp, nil, false, nil
	}

	var params []*ast.LambdaParameter
	if p.peekTok(rest, "(") {
		openSp, _ := p.tok(rest, "(")
		openSp = p.ws(openSp)
		if openSp.First() != ')' {
			var err error
			openSp, params, err = commaSep(p, openSp, p.parseLambdaParameter)
			if err != nil {
				return sp, nil, false, cut(err)
			}
		}
		closeSp, err := p.tok(openSp, ")")
		if err != nil {
			return sp, nil, false, cut(err)
		}
		rest = closeSp
	}

	bodySp, block, err := p.parseBlock(rest)
	if err != nil {
		return sp, nil, false, cut(err)
	}
	return bodySp, &ast.LambdaExpr{
		Async:      async,
		IsDelegate: true,
		Parameters: params,
		Body:       block,
	}, true, nil
}

// parseLambdaParameter parses [ref|out|in] [type] name. A lone name
// is untyped; when two words appear the first run is the type.
func (p *Parser) parseLambdaParameter(sp source.Span) (source.Span, *ast.LambdaParameter, error) {
	param := &ast.LambdaParameter{}
	rest := p.ws(sp)

	for _, mod := range []string{"ref", "out", "in"} {
		if next, err := p.kw(rest, mod); err == nil {
			param.Modifier = mod
			rest = next
			break
		}
	}

	if typeSp, t, err := p.parseType(rest); err == nil {
		if nameSp, name, err := p.ident(typeSp); err == nil {
			param.Type = t
			param.Name = name
			return nameSp, param, nil
		}
	}

	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, err
	}
	param.Name = name
	return rest, param, nil
}

// finishLambda parses the body after =>. Past the arrow the lambda is
// committed, so body failures are fatal.
func (p *Parser) finishLambda(sp source.Span, lambda *ast.LambdaExpr) (source.Span, ast.Expression, bool, error) {
	if p.peekTok(sp, "{") {
		rest, block, err := p.parseBlock(sp)
		if err != nil {
			return sp, nil, false, cut(err)
		}
		lambda.Body = block
		return rest, lambda, true, nil
	}
	rest, body, err := p.parseExpression(sp)
	if err != nil {
		return sp, nil, false, cut(err)
	}
	lambda.ExprBody = body
	return rest, lambda, true, nil
}
