package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// parseExpression is the entry point for full expressions. The
// precedence chain runs assignment > conditional > null-coalescing >
// logical > bitwise > equality > relational/is/as/switch > shift >
// additive > multiplicative > range > unary > postfix > primary.
func (p *Parser) parseExpression(sp source.Span) (source.Span, ast.Expression, error) {
	return p.parseAssignment(sp)
}

// assignmentOps in longest-match-first order.
var assignmentOps = []ast.AssignOp{
	ast.AssignShiftRU, ast.AssignShiftL, ast.AssignShiftR,
	ast.AssignCoalesce, ast.AssignAdd, ast.AssignSub, ast.AssignMul,
	ast.AssignDiv, ast.AssignMod, ast.AssignAnd, ast.AssignOr,
	ast.AssignXor, ast.AssignSimple,
}

func (p *Parser) parseAssignment(sp source.Span) (source.Span, ast.Expression, error) {
	sp = p.ws(sp)

	if rest, lambda, ok, err := p.tryLambda(sp); err != nil {
		return sp, nil, err
	} else if ok {
		return rest, lambda, nil
	}
	if rest, query, ok := p.tryQuery(sp); ok {
		return rest, query, nil
	}
	if rest, err := p.kw(sp, "throw"); err == nil {
		rest, operand, err := p.parseAssignment(rest)
		if err != nil {
			return sp, nil, err
		}
		return rest, &ast.ThrowExpr{Operand: operand}, nil
	}

	rest, left, err := p.parseConditional(sp)
	if err != nil {
		return sp, nil, err
	}
	after := p.ws(rest)
	for _, op := range assignmentOps {
		var matched source.Span
		var merr error
		if op == ast.AssignSimple {
			// Reject ==, => and the compound forms already tried.
			matched, merr = p.opTok(after, "=", "=>")
		} else {
			matched, merr = p.opTok(after, string(op), "")
		}
		if merr != nil {
			continue
		}
		next, value, err := p.parseAssignment(matched)
		if err != nil {
			return sp, nil, err
		}
		return next, &ast.AssignmentExpr{Target: left, Op: op, Value: value}, nil
	}
	return rest, left, nil
}

func (p *Parser) parseConditional(sp source.Span) (source.Span, ast.Expression, error) {
	rest, cond, err := p.parseCoalesce(sp)
	if err != nil {
		return sp, nil, err
	}
	after := p.ws(rest)
	// A lone ? starts a conditional; ?. ?[ and ?? are postfix and
	// coalescing forms handled elsewhere.
	if after.First() != '?' {
		return rest, cond, nil
	}
	switch after.Byte(1) {
	case '.', '[', '?':
		return rest, cond, nil
	}
	thenSp, thenExpr, err := p.parseAssignment(after.Advance(1))
	if err != nil {
		if isFatal(err) {
			return sp, nil, err
		}
		return rest, cond, nil
	}
	colonSp, err := p.tok(thenSp, ":")
	if err != nil {
		return rest, cond, nil
	}
	elseSp, elseExpr, err := p.parseAssignment(colonSp)
	if err != nil {
		return sp, nil, err
	}
	return elseSp, &ast.ConditionalExpr{Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

func (p *Parser) parseCoalesce(sp source.Span) (source.Span, ast.Expression, error) {
	rest, left, err := p.parseLogicalOr(sp)
	if err != nil {
		return sp, nil, err
	}
	after, err2 := p.opTok(p.ws(rest), "??", "=")
	if err2 != nil {
		return rest, left, nil
	}
	// a ?? throw e: a throw expression is legal as the right operand.
	if kwRest, kerr := p.kw(p.ws(after), "throw"); kerr == nil {
		next, operand, err := p.parseAssignment(kwRest)
		if err != nil {
			return sp, nil, err
		}
		return next, &ast.BinaryExpr{Left: left, Op: ast.OpCoalesce, Right: &ast.ThrowExpr{Operand: operand}}, nil
	}
	// Right associative: a ?? b ?? c nests on the right.
	next, right, err := p.parseCoalesce(after)
	if err != nil {
		return sp, nil, err
	}
	return next, &ast.BinaryExpr{Left: left, Op: ast.OpCoalesce, Right: right}, nil
}

// binaryLevel builds a left-associative binary level over next. Each
// op entry carries the characters that must not follow the token, so
// & never bites into && or &=.
type binaryOp struct {
	text   string
	op     ast.BinaryOp
	reject string
}

func (p *Parser) binaryLevel(sp source.Span, ops []binaryOp, next parseFn[ast.Expression]) (source.Span, ast.Expression, error) {
	rest, left, err := next(sp)
	if err != nil {
		return sp, nil, err
	}
	for {
		after := p.ws(rest)
		var hit *binaryOp
		var matched source.Span
		for i := range ops {
			m, err := p.opTok(after, ops[i].text, ops[i].reject)
			if err == nil {
				hit = &ops[i]
				matched = m
				break
			}
		}
		if hit == nil {
			return rest, left, nil
		}
		nextSp, right, err := next(matched)
		if err != nil {
			if isFatal(err) {
				return sp, nil, err
			}
			return rest, left, nil
		}
		left = &ast.BinaryExpr{Left: left, Op: hit.op, Right: right}
		rest = nextSp
	}
}

func (p *Parser) parseLogicalOr(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{{"||", ast.OpLogicalOr, "="}}, p.parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{{"&&", ast.OpLogicalAnd, "="}}, p.parseBitOr)
}

func (p *Parser) parseBitOr(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{{"|", ast.OpBitOr, "|="}}, p.parseBitXor)
}

func (p *Parser) parseBitXor(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{{"^", ast.OpBitXor, "="}}, p.parseBitAnd)
}

func (p *Parser) parseBitAnd(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{{"&", ast.OpBitAnd, "&="}}, p.parseEquality)
}

func (p *Parser) parseEquality(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{
		{"==", ast.OpEqual, ""},
		{"!=", ast.OpNotEqual, ""},
	}, p.parseRelational)
}

// parseRelational handles <, <=, >, >= and the same-precedence
// postfix forms: is-pattern, as-cast, and switch expressions.
func (p *Parser) parseRelational(sp source.Span) (source.Span, ast.Expression, error) {
	rest, left, err := p.parseShift(sp)
	if err != nil {
		return sp, nil, err
	}
	for {
		after := p.ws(rest)

		if next, err := p.kw(after, "is"); err == nil {
			patSp, pat, err := p.parsePattern(next)
			if err != nil {
				if isFatal(err) {
					return sp, nil, err
				}
				return rest, left, nil
			}
			left = &ast.IsPatternExpr{Operand: left, Pattern: pat}
			rest = patSp
			continue
		}
		if next, err := p.kw(after, "as"); err == nil {
			typeSp, t, err := p.parseTypeInExpr(next)
			if err != nil {
				if isFatal(err) {
					return sp, nil, err
				}
				return rest, left, nil
			}
			left = &ast.AsExpr{Operand: left, Target: t}
			rest = typeSp
			continue
		}
		if next, err := p.kw(after, "switch"); err == nil && p.peekTok(next, "{") {
			armSp, arms, err := p.parseSwitchArms(next)
			if err != nil {
				return sp, nil, err
			}
			left = &ast.SwitchExpr{Scrutinee: left, Arms: arms}
			rest = armSp
			continue
		}

		var hit binaryOp
		var matched source.Span
		found := false
		for _, cand := range []binaryOp{
			{"<=", ast.OpLessEqual, ""},
			{">=", ast.OpGreaterEqual, ""},
			{"<", ast.OpLess, "<="},
			{">", ast.OpGreater, ">="},
		} {
			if m, err := p.opTok(after, cand.text, cand.reject); err == nil {
				hit = cand
				matched = m
				found = true
				break
			}
		}
		if !found {
			return rest, left, nil
		}
		nextSp, right, err := p.parseShift(matched)
		if err != nil {
			if isFatal(err) {
				return sp, nil, err
			}
			return rest, left, nil
		}
		left = &ast.BinaryExpr{Left: left, Op: hit.op, Right: right}
		rest = nextSp
	}
}

// parseSwitchArms parses the { pattern [when guard] => value, ... }
// tail of a switch expression.
func (p *Parser) parseSwitchArms(sp source.Span) (source.Span, []*ast.SwitchExprArm, error) {
	rest, err := p.tok(sp, "{")
	if err != nil {
		return sp, nil, err
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	var arms []*ast.SwitchExprArm
	for {
		after := p.ws(rest)
		if after.First() == '}' {
			return after.Advance(1), arms, nil
		}
		if after.EOF() {
			return sp, nil, cut(expect(after, "'}'"))
		}

		patSp, pat, err := p.parsePattern(after)
		if err != nil {
			return sp, nil, cut(err)
		}
		var when ast.Expression
		if next, err := p.contextualKw(p.ws(patSp), "when"); err == nil {
			whenSp, guard, err := p.parseExpression(next)
			if err != nil {
				return sp, nil, cut(err)
			}
			when = guard
			patSp = whenSp
		}
		arrowSp, err := p.tok(patSp, "=>")
		if err != nil {
			return sp, nil, cut(err)
		}
		valSp, value, err := p.parseExpression(arrowSp)
		if err != nil {
			return sp, nil, cut(err)
		}
		arms = append(arms, &ast.SwitchExprArm{Pattern: pat, When: when, Value: value})

		rest = p.ws(valSp)
		if rest.First() == ',' {
			rest = rest.Advance(1)
		}
	}
}

func (p *Parser) parseShift(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{
		{">>>", ast.OpShiftRightU, "="},
		{"<<", ast.OpShiftLeft, "="},
		{">>", ast.OpShiftRight, "="},
	}, p.parseAdditive)
}

func (p *Parser) parseAdditive(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{
		{"+", ast.OpAdd, "=+"},
		{"-", ast.OpSub, "=-"},
	}, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative(sp source.Span) (source.Span, ast.Expression, error) {
	return p.binaryLevel(sp, []binaryOp{
		{"*", ast.OpMul, "="},
		{"/", ast.OpDiv, "=/*"},
		{"%", ast.OpMod, "="},
	}, p.parseRange)
}

// parseRange handles low..high with either bound optional.
func (p *Parser) parseRange(sp source.Span) (source.Span, ast.Expression, error) {
	after := p.ws(sp)
	if after.HasPrefix("..") {
		rest := after.Advance(2)
		next, high, ok, err := opt(rest, p.parseUnary)
		if err != nil {
			return sp, nil, err
		}
		if ok {
			return next, &ast.RangeExpr{High: high}, nil
		}
		return rest, &ast.RangeExpr{}, nil
	}

	rest, low, err := p.parseUnary(sp)
	if err != nil {
		return sp, nil, err
	}
	after = p.ws(rest)
	if !after.HasPrefix("..") {
		return rest, low, nil
	}
	rest = after.Advance(2)
	next, high, ok, err := opt(rest, p.parseUnary)
	if err != nil {
		return sp, nil, err
	}
	if ok {
		return next, &ast.RangeExpr{Low: low, High: high}, nil
	}
	return rest, &ast.RangeExpr{Low: low}, nil
}

func (p *Parser) parseUnary(sp source.Span) (source.Span, ast.Expression, error) {
	sp = p.ws(sp)

	type prefix struct {
		text string
		op   ast.UnaryOp
	}
	for _, pre := range []prefix{
		{"++", ast.OpIncrement},
		{"--", ast.OpDecrement},
		{"+", ast.OpPlus},
		{"-", ast.OpNegate},
		{"!", ast.OpNot},
		{"~", ast.OpComplement},
		{"&", ast.OpAddressOf},
		{"*", ast.OpDereference},
	} {
		reject := ""
		if pre.text == "!" {
			reject = "="
		}
		if rest, err := p.opTok(sp, pre.text, reject); err == nil {
			next, operand, err := p.parseUnary(rest)
			if err != nil {
				return sp, nil, err
			}
			return next, &ast.UnaryExpr{Op: pre.op, Operand: operand}, nil
		}
	}

	if sp.First() == '^' && sp.Byte(1) != '=' {
		rest, operand, err := p.parseUnary(sp.Advance(1))
		if err != nil {
			return sp, nil, err
		}
		return rest, &ast.IndexFromEndExpr{Operand: operand}, nil
	}

	if rest, err := p.contextualKw(sp, "await"); err == nil {
		if next, operand, err := p.parseUnary(rest); err == nil {
			return next, &ast.AwaitExpr{Operand: operand}, nil
		}
	}

	if sp.First() == '(' {
		if rest, cast, ok := p.tryCast(sp); ok {
			return rest, cast, nil
		}
	}

	return p.parsePostfix(sp)
}

// tryCast speculatively parses (T)operand. A parenthesized type
// followed by ) commits to a cast only when what follows could not be
// a binary continuation: for target types that can only be type
// syntax (primitives, nullables, arrays, generics, tuples) any term
// start commits, while a bare identifier target additionally refuses
// + - & * so (x)-y stays a subtraction.
func (p *Parser) tryCast(sp source.Span) (source.Span, ast.Expression, bool) {
	inner, t, err := p.parseTypeInExpr(sp.Advance(1))
	if err != nil {
		return sp, nil, false
	}
	closeSp := p.ws(inner)
	if closeSp.First() != ')' {
		return sp, nil, false
	}
	afterClose := closeSp.Advance(1)

	if !p.castOperandFollows(afterClose, typeIsCertain(t)) {
		return sp, nil, false
	}
	rest, operand, err := p.parseUnary(afterClose)
	if err != nil {
		return sp, nil, false
	}
	return rest, &ast.CastExpr{Target: t, Operand: operand}, true
}

// typeIsCertain reports whether t cannot also read as an expression.
func typeIsCertain(t ast.TypeNode) bool {
	switch t := t.(type) {
	case *ast.PrimitiveType, *ast.DynamicType, *ast.TupleType, *ast.FunctionPointerType:
		return true
	case *ast.NullableType:
		return true
	case *ast.ArrayType:
		return true
	case *ast.PointerType:
		return true
	case *ast.RefType:
		return true
	case *ast.NamedType:
		return len(t.TypeArgs) > 0
	case *ast.InferredType:
		return false
	}
	return false
}

func (p *Parser) castOperandFollows(sp source.Span, certain bool) bool {
	sp = p.ws(sp)
	c := sp.First()
	switch {
	case c == 0:
		return false
	case isIdentStart(c) || c == '@':
		// Keywords that cannot start a term rule out the cast even
		// for certain target types: (x) is Foo, (x) as Foo.
		word, _ := peekWord(sp)
		switch word {
		case "is", "as", "switch", "in", "when", "and", "or", "equals",
			"into", "select", "where", "orderby":
			return false
		}
		return true
	case isDigit(c) || c == '"' || c == '\'' || c == '(' || c == '~' || c == '$':
		return true
	case c == '!' && sp.Byte(1) != '=':
		return true
	case certain && (c == '+' || c == '-' || c == '&' || c == '*'):
		return true
	}
	return false
}
