package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// parsePostfix parses a primary expression and its postfix chain:
// member access, null-conditional access, invocation, indexing,
// increment/decrement, and the null-forgiving bang.
func (p *Parser) parsePostfix(sp source.Span) (source.Span, ast.Expression, error) {
	rest, expr, err := p.parsePrimary(sp)
	if err != nil {
		return sp, nil, err
	}
	for {
		after := p.ws(rest)
		switch {
		case after.HasPrefix("?."):
			next, name, err := p.ident(after.Advance(2))
			if err != nil {
				return rest, expr, nil
			}
			expr = &ast.NullConditionalExpr{Target: expr, Member: name}
			rest = next
		case after.HasPrefix("?["):
			next, indexes, err := p.parseIndexList(after.Advance(1))
			if err != nil {
				return rest, expr, nil
			}
			expr = &ast.NullConditionalExpr{Target: expr, Indexes: indexes}
			rest = next
		case after.First() == '.' && !after.HasPrefix(".."):
			next, name, err := p.ident(after.Advance(1))
			if err != nil {
				return rest, expr, nil
			}
			access := &ast.MemberAccessExpr{Target: expr, Member: name}
			if argSp, args, ok := p.tryGenericArgs(next); ok {
				access.TypeArgs = args
				next = argSp
			}
			expr = access
			rest = next
		case after.First() == '(':
			next, args, err := p.parseArguments(after)
			if err != nil {
				if isFatal(err) {
					return sp, nil, err
				}
				return rest, expr, nil
			}
			expr = &ast.InvocationExpr{Callee: expr, Arguments: args}
			rest = next
		case after.First() == '[':
			next, indexes, err := p.parseIndexList(after)
			if err != nil {
				return rest, expr, nil
			}
			expr = &ast.ElementAccessExpr{Target: expr, Indexes: indexes}
			rest = next
		case after.HasPrefix("++"):
			expr = &ast.PostfixUnaryExpr{Operand: expr, Op: ast.OpIncrement}
			rest = after.Advance(2)
		case after.HasPrefix("--"):
			expr = &ast.PostfixUnaryExpr{Operand: expr, Op: ast.OpDecrement}
			rest = after.Advance(2)
		case after.First() == '!' && after.Byte(1) != '=':
			expr = &ast.PostfixUnaryExpr{Operand: expr, Op: ast.OpNullForgiving}
			rest = after.Advance(1)
		default:
			return rest, expr, nil
		}
	}
}

// parseIndexList parses [e1, e2, ...] starting at the bracket.
func (p *Parser) parseIndexList(sp source.Span) (source.Span, []ast.Expression, error) {
	rest, err := p.tok(sp, "[")
	if err != nil {
		return sp, nil, err
	}
	rest, indexes, err := commaSep(p, rest, p.parseExpression)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, "]")
	if err != nil {
		return sp, nil, err
	}
	return rest, indexes, nil
}

// tryGenericArgs speculatively parses <T, ...> after a name in
// expression position. The parse only commits when the closing > is
// followed by a token that cannot continue a comparison, so
// Foo < Bar stays a less-than.
func (p *Parser) tryGenericArgs(sp source.Span) (source.Span, []ast.TypeNode, bool) {
	if !p.peekTok(sp, "<") {
		return sp, nil, false
	}
	rest, args, err := p.parseTypeArgs(sp)
	if err != nil {
		return sp, nil, false
	}
	after := p.ws(rest)
	if after.EOF() {
		return rest, args, true
	}
	switch after.First() {
	case '(', ')', ']', '}', ':', ';', ',', '.', '?':
		return rest, args, true
	case '!', '=':
		if after.Byte(1) == '=' {
			return rest, args, true
		}
	}
	return sp, nil, false
}

// parseArguments parses (arg, ...) with named arguments, ref/out/in
// modifiers, and inline out-variable declarations.
func (p *Parser) parseArguments(sp source.Span) (source.Span, []*ast.Argument, error) {
	rest, err := p.tok(sp, "(")
	if err != nil {
		return sp, nil, err
	}

	rest = p.ws(rest)
	if rest.First() == ')' {
		return rest.Advance(1), nil, nil
	}
	rest, args, err := commaSep(p, rest, p.parseArgument)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, err
	}
	return rest, args, nil
}

func (p *Parser) parseArgument(sp source.Span) (source.Span, *ast.Argument, error) {
	arg := &ast.Argument{}
	rest := p.ws(sp)

	// name: value, where :: rules out a qualified name.
	if next, name, err := p.ident(rest); err == nil {
		after := p.ws(next)
		if after.First() == ':' && after.Byte(1) != ':' {
			arg.Name = name
			rest = after.Advance(1)
		}
	}

	for _, mod := range []string{"ref", "out", "in"} {
		if next, err := p.kw(rest, mod); err == nil {
			arg.Modifier = mod
			rest = next
			break
		}
	}

	if arg.Modifier == "out" {
		// out var x / out int x declares the variable inline.
		if typeSp, t, err := p.parseType(rest); err == nil {
			if nameSp, name, err := p.ident(typeSp); err == nil {
				after := p.ws(nameSp)
				if after.First() == ',' || after.First() == ')' {
					arg.OutType = t
					arg.Value = &ast.NameExpr{Parts: []string{name}}
					return nameSp, arg, nil
				}
			}
		}
	}

	rest, value, err := p.parseExpression(rest)
	if err != nil {
		return sp, nil, err
	}
	arg.Value = value
	return rest, arg, nil
}

func (p *Parser) parsePrimary(sp source.Span) (source.Span, ast.Expression, error) {
	sp = p.ws(sp)
	c := sp.First()

	switch {
	case c == '"' || c == '\'' || isDigit(c) ||
		sp.HasPrefix("@\"") || sp.HasPrefix("$\"") ||
		sp.HasPrefix("$@\"") || sp.HasPrefix("@$\""):
		return p.parseLiteral(sp)
	case c == '(':
		return p.parseParenOrTuple(sp)
	}

	word, _ := peekWord(sp)
	switch word {
	case "true", "false", "null":
		return p.parseLiteral(sp)
	case "this":
		rest, _ := p.kw(sp, "this")
		return rest, &ast.ThisExpr{}, nil
	case "base":
		rest, _ := p.kw(sp, "base")
		return rest, &ast.BaseExpr{}, nil
	case "new":
		rest, _ := p.kw(sp, "new")
		return p.parseNewExpr(rest)
	case "typeof":
		return p.parseTypeArgCall(sp, "typeof", func(t ast.TypeNode) ast.Expression {
			return &ast.TypeofExpr{Target: t}
		})
	case "sizeof":
		return p.parseTypeArgCall(sp, "sizeof", func(t ast.TypeNode) ast.Expression {
			return &ast.SizeofExpr{Target: t}
		})
	case "nameof":
		rest, _ := p.contextualKw(sp, "nameof")
		rest, err := p.tok(rest, "(")
		if err != nil {
			// nameof is contextual: fall through to a plain name.
			break
		}
		rest, target, err := p.parseExpression(rest)
		if err != nil {
			return sp, nil, err
		}
		rest, err = p.tok(rest, ")")
		if err != nil {
			return sp, nil, err
		}
		return rest, &ast.NameofExpr{Target: target}, nil
	case "default":
		rest, _ := p.kw(sp, "default")
		if p.peekTok(rest, "(") {
			openSp, _ := p.tok(rest, "(")
			typeSp, t, err := p.parseType(openSp)
			if err != nil {
				return sp, nil, err
			}
			closeSp, err := p.tok(typeSp, ")")
			if err != nil {
				return sp, nil, err
			}
			return closeSp, &ast.DefaultExpr{Target: t}, nil
		}
		return rest, &ast.DefaultExpr{}, nil
	case "stackalloc":
		rest, _ := p.kw(sp, "stackalloc")
		return p.parseStackalloc(rest)
	case "checked", "unchecked":
		rest, _ := p.kw(sp, word)
		if !p.peekTok(rest, "(") {
			break
		}
		rest, _ = p.tok(rest, "(")
		rest, operand, err := p.parseExpression(rest)
		if err != nil {
			return sp, nil, err
		}
		rest, err = p.tok(rest, ")")
		if err != nil {
			return sp, nil, err
		}
		return rest, &ast.CheckedExpr{Unchecked: word == "unchecked", Operand: operand}, nil
	}

	return p.parseNameExpr(sp)
}

// parseNameExpr parses a possibly global::-qualified dotted name with
// speculative generic arguments on the final segment.
func (p *Parser) parseNameExpr(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	global := false
	if rest, err := p.contextualKw(sp, "global"); err == nil {
		if after, err := p.tok(rest, "::"); err == nil {
			global = true
			sp = after
		}
	}
	rest, name, err := p.ident(sp)
	if err != nil {
		return start, nil, expect(start, "expression")
	}
	expr := &ast.NameExpr{Global: global, Parts: []string{name}}
	// Fold trailing .ident segments into one qualified name; type
	// arguments end the fold so the postfix loop owns what follows.
	// .. is a range operator, never a qualifier.
	for {
		if argSp, args, ok := p.tryGenericArgs(rest); ok {
			expr.TypeArgs = args
			rest = argSp
			break
		}
		after := p.ws(rest)
		if after.First() != '.' || after.HasPrefix("..") {
			break
		}
		next, seg, err := p.ident(after.Advance(1))
		if err != nil {
			break
		}
		expr.Parts = append(expr.Parts, seg)
		rest = next
	}
	return rest, expr, nil
}

func (p *Parser) parseTypeArgCall(sp source.Span, word string, build func(ast.TypeNode) ast.Expression) (source.Span, ast.Expression, error) {
	rest, err := p.kw(sp, word)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, "(")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, t, err := p.parseType(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, build(t), nil
}

// parseParenOrTuple parses ( expr ) as the bare inner expression, or
// ( e1, e2, ... ) as a tuple literal with optionally named elements.
// Lambdas over parenthesized parameter lists are tried earlier, casts
// later, so only grouping and tuples remain here.
func (p *Parser) parseParenOrTuple(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	rest, err := p.tok(sp, "(")
	if err != nil {
		return start, nil, err
	}

	rest, elems, err := commaSep(p, rest, p.parseTupleElement)
	if err != nil {
		return start, nil, err
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return start, nil, err
	}
	if len(elems) == 1 {
		if elems[0].Name != "" {
			return start, nil, expect(start, "expression")
		}
		// Grouping parentheses are not represented in the tree.
		return rest, elems[0].Value, nil
	}
	return rest, &ast.TupleExpr{Elements: elems}, nil
}

func (p *Parser) parseTupleElement(sp source.Span) (source.Span, ast.TupleElement, error) {
	elem := ast.TupleElement{}
	rest := p.ws(sp)
	if next, name, err := p.ident(rest); err == nil {
		after := p.ws(next)
		if after.First() == ':' && after.Byte(1) != ':' {
			elem.Name = name
			rest = after.Advance(1)
		}
	}
	rest, value, err := p.parseExpression(rest)
	if err != nil {
		return sp, ast.TupleElement{}, err
	}
	elem.Value = value
	return rest, elem, nil
}

// parseNewExpr parses everything after the new keyword: anonymous
// objects, target-typed new, object/array creation with optional
// initializers.
func (p *Parser) parseNewExpr(sp source.Span) (source.Span, ast.Expression, error) {
	after := p.ws(sp)

	if after.First() == '{' {
		return p.parseAnonymousObject(after)
	}

	out := &ast.NewExpr{}
	rest := sp
	if after.First() != '(' {
		typeSp, t, err := p.parseType(after)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Type = t
		rest = typeSp

		// Array creation lengths: new int[n], new int[n, m].
		if p.peekTok(rest, "[") {
			lenSp, lengths, err := p.parseIndexList(rest)
			if err == nil {
				out.ArrayLengths = lengths
				rest = lenSp
			}
		}
	}

	if p.peekTok(rest, "(") {
		argSp, args, err := p.parseArguments(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Arguments = args
		rest = argSp
	} else if out.Type == nil {
		return sp, nil, cut(expect(after, "type or argument list after new"))
	}

	if p.peekTok(rest, "{") {
		initSp, err := p.parseObjectOrCollectionInit(rest, out)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.HasInitializer = true
		rest = initSp
	}
	return rest, out, nil
}

// parseObjectOrCollectionInit fills out.ObjectInit or
// out.CollectionInit from a { ... } initializer. The first entry
// decides the flavor: Name = value entries make an object
// initializer, anything else a collection initializer.
func (p *Parser) parseObjectOrCollectionInit(sp source.Span, out *ast.NewExpr) (source.Span, error) {
	rest, err := p.tok(sp, "{")
	if err != nil {
		return sp, err
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			return rest.Advance(1), nil
		}
		if rest.EOF() {
			return sp, expect(rest, "'}'")
		}

		if next, m, ok := p.tryMemberInit(rest); ok {
			out.ObjectInit = append(out.ObjectInit, m)
			rest = next
		} else {
			next, elem, err := p.parseInitElement(rest)
			if err != nil {
				return sp, err
			}
			out.CollectionInit = append(out.CollectionInit, elem)
			rest = next
		}

		rest = p.ws(rest)
		if rest.First() == ',' {
			rest = rest.Advance(1)
		}
	}
}

func (p *Parser) tryMemberInit(sp source.Span) (source.Span, *ast.MemberInit, bool) {
	rest, name, err := p.ident(sp)
	if err != nil {
		return sp, nil, false
	}
	after, err := p.opTok(p.ws(rest), "=", "=>")
	if err != nil {
		return sp, nil, false
	}
	valSp, value, err := p.parseExpression(after)
	if err != nil {
		return sp, nil, false
	}
	return valSp, &ast.MemberInit{Name: name, Value: value}, true
}

// parseInitElement parses one collection-initializer element; nested
// { k, v } entries (dictionary style) surface as unnamed tuples.
func (p *Parser) parseInitElement(sp source.Span) (source.Span, ast.Expression, error) {
	rest := p.ws(sp)
	if rest.First() != '{' {
		return p.parseExpression(rest)
	}
	rest = rest.Advance(1)
	p.braceDepth++
	defer func() { p.braceDepth-- }()
	rest, elems, err := commaSep(p, rest, p.parseExpression)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, "}")
	if err != nil {
		return sp, nil, err
	}
	tuple := &ast.TupleExpr{}
	for _, e := range elems {
		tuple.Elements = append(tuple.Elements, ast.TupleElement{Value: e})
	}
	return rest, tuple, nil
}

// parseAnonymousObject parses the { Name = e, path.Member } body of
// new { ... }.
func (p *Parser) parseAnonymousObject(sp source.Span) (source.Span, ast.Expression, error) {
	rest, err := p.tok(sp, "{")
	if err != nil {
		return sp, nil, err
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	out := &ast.AnonymousObjectExpr{}
	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			return rest.Advance(1), out, nil
		}
		if rest.EOF() {
			return sp, nil, cut(expect(rest, "'}'"))
		}

		if next, m, ok := p.tryMemberInit(rest); ok {
			out.Members = append(out.Members, m)
			rest = next
		} else {
			next, value, err := p.parseExpression(rest)
			if err != nil {
				return sp, nil, cut(err)
			}
			out.Members = append(out.Members, &ast.MemberInit{Value: value})
			rest = next
		}

		rest = p.ws(rest)
		if rest.First() == ',' {
			rest = rest.Advance(1)
		}
	}
}

// parseStackalloc parses stackalloc T[n] { ... } and the implicit
// stackalloc[] { ... } form, positioned after the keyword.
func (p *Parser) parseStackalloc(sp source.Span) (source.Span, ast.Expression, error) {
	out := &ast.StackallocExpr{}
	rest := p.ws(sp)

	if rest.First() != '[' {
		typeSp, t, err := p.parseTypeCore(rest, false)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Element = t
		rest = typeSp
	}

	rest = p.ws(rest)
	if rest.First() == '[' {
		inner := p.ws(rest.Advance(1))
		if inner.First() == ']' {
			rest = inner.Advance(1)
		} else {
			countSp, count, err := p.parseExpression(inner)
			if err != nil {
				return sp, nil, cut(err)
			}
			closeSp, err := p.tok(countSp, "]")
			if err != nil {
				return sp, nil, cut(err)
			}
			out.Count = count
			rest = closeSp
		}
	}

	if p.peekTok(rest, "{") {
		openSp, _ := p.tok(rest, "{")
		p.braceDepth++
		elemSp, elems, err := commaSep(p, openSp, p.parseExpression)
		if err != nil {
			p.braceDepth--
			return sp, nil, cut(err)
		}
		closeSp, err := p.tok(elemSp, "}")
		p.braceDepth--
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Initializer = elems
		rest = closeSp
	}
	return rest, out, nil
}
