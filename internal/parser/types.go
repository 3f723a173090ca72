package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

var primitiveTypes = map[string]ast.PrimitiveKind{
	"void":    ast.PrimVoid,
	"bool":    ast.PrimBool,
	"byte":    ast.PrimByte,
	"sbyte":   ast.PrimSByte,
	"short":   ast.PrimShort,
	"ushort":  ast.PrimUShort,
	"int":     ast.PrimInt,
	"uint":    ast.PrimUInt,
	"long":    ast.PrimLong,
	"ulong":   ast.PrimULong,
	"nint":    ast.PrimNInt,
	"nuint":   ast.PrimNUInt,
	"float":   ast.PrimFloat,
	"double":  ast.PrimDouble,
	"decimal": ast.PrimDecimal,
	"char":    ast.PrimChar,
	"string":  ast.PrimString,
	"object":  ast.PrimObject,
}

// parseType parses type syntax in a declaration context, where ?, *,
// and [] suffixes are unambiguous.
func (p *Parser) parseType(sp source.Span) (source.Span, ast.TypeNode, error) {
	return p.parseTypeCtx(sp, false)
}

// parseTypeInExpr parses type syntax embedded in an expression (cast
// targets, is/as operands). Suffixes that collide with operators are
// only taken when their continuation cannot be an expression: x is
// X ? a : b keeps its conditional, while (x is X?) stays nullable.
func (p *Parser) parseTypeInExpr(sp source.Span) (source.Span, ast.TypeNode, error) {
	return p.parseTypeCtx(sp, true)
}

func (p *Parser) parseTypeCtx(sp source.Span, exprCtx bool) (source.Span, ast.TypeNode, error) {
	sp = p.ws(sp)
	if !exprCtx {
		if rest, err := p.kw(sp, "ref"); err == nil {
			readonly := false
			if after, err := p.kw(rest, "readonly"); err == nil {
				rest = after
				readonly = true
			}
			rest, elem, err := p.parseTypeCtx(rest, exprCtx)
			if err != nil {
				return sp, nil, err
			}
			return rest, &ast.RefType{Readonly: readonly, Element: elem}, nil
		}
	}

	rest, t, err := p.parseTypeCore(sp, exprCtx)
	if err != nil {
		return sp, nil, err
	}
	return p.parseTypeSuffixes(rest, t, exprCtx)
}

func (p *Parser) parseTypeSuffixes(sp source.Span, t ast.TypeNode, exprCtx bool) (source.Span, ast.TypeNode, error) {
	for {
		after := p.ws(sp)
		switch {
		case after.First() == '?' && !after.HasPrefix("??") && p.nullableAllowed(after.Advance(1), exprCtx):
			t = &ast.NullableType{Element: t}
			sp = after.Advance(1)
		case after.First() == '*' && !exprCtx:
			t = &ast.PointerType{Element: t}
			sp = after.Advance(1)
		case after.First() == '[':
			rest, rank, ok := p.arrayRank(after.Advance(1))
			if !ok {
				return sp, t, nil
			}
			t = &ast.ArrayType{Element: t, Rank: rank}
			sp = rest
		default:
			return sp, t, nil
		}
	}
}

// nullableAllowed restricts the nullable suffix in expression context
// to positions where a conditional operator could not continue, so
// x is X ? y : z parses the ? as a conditional.
func (p *Parser) nullableAllowed(after source.Span, exprCtx bool) bool {
	if !exprCtx {
		return true
	}
	next := p.ws(after)
	if next.EOF() {
		return true
	}
	switch next.First() {
	case ')', ']', ',', ';', '>', '{', '}', '=':
		return true
	}
	return false
}

// arrayRank parses the remainder of an array suffix after '[': only
// commas then ']'. Anything else (an index expression) is not a type
// suffix.
func (p *Parser) arrayRank(sp source.Span) (source.Span, int, bool) {
	rank := 1
	for {
		sp = p.ws(sp)
		switch sp.First() {
		case ',':
			rank++
			sp = sp.Advance(1)
		case ']':
			return sp.Advance(1), rank, true
		default:
			return sp, 0, false
		}
	}
}

func (p *Parser) parseTypeCore(sp source.Span, exprCtx bool) (source.Span, ast.TypeNode, error) {
	sp = p.ws(sp)
	if name, n := peekWord(sp); n > 0 {
		if kind, ok := primitiveTypes[name]; ok {
			return sp.Advance(n), &ast.PrimitiveType{Kind: kind}, nil
		}
		switch name {
		case "dynamic":
			return sp.Advance(n), &ast.DynamicType{}, nil
		case "var":
			return sp.Advance(n), &ast.InferredType{}, nil
		case "delegate":
			if rest, t, err := p.parseFunctionPointer(sp.Advance(n)); err == nil {
				return rest, t, nil
			}
			return sp, nil, expect(sp, "type")
		}
	}

	if sp.First() == '(' && !exprCtx {
		return p.parseTupleType(sp)
	}

	return p.parseNamedType(sp)
}

// peekWord returns the identifier-shaped word at sp and its length,
// or a zero length when none is there.
func peekWord(sp source.Span) (string, int) {
	if !isIdentStart(sp.First()) {
		return "", 0
	}
	n := 1
	for isIdentPart(sp.Byte(n)) {
		n++
	}
	return sp.Rest()[:n], n
}

func (p *Parser) parseNamedType(sp source.Span) (source.Span, ast.TypeNode, error) {
	start := sp
	global := false
	if rest, err := p.contextualKw(sp, "global"); err == nil {
		after, err := p.tok(rest, "::")
		if err != nil {
			return start, nil, expect(start, "type")
		}
		global = true
		sp = after
	}

	rest, name, err := p.ident(sp)
	if err != nil {
		return start, nil, expect(start, "type")
	}
	parts := []string{name}
	for {
		after := p.ws(rest)
		if after.First() != '.' || after.HasPrefix("..") {
			break
		}
		next, seg, err := p.ident(after.Advance(1))
		if err != nil {
			break
		}
		rest = next
		parts = append(parts, seg)
	}

	var typeArgs []ast.TypeNode
	if p.peekTok(rest, "<") {
		if next, args, err := p.parseTypeArgs(rest); err == nil {
			rest = next
			typeArgs = args
		}
	}
	return rest, &ast.NamedType{Global: global, Parts: parts, TypeArgs: typeArgs}, nil
}

// parseTypeArgs parses <T1, T2, ...>. Nested generics close one '>'
// at a time, so List<List<int>> needs no special shift handling.
func (p *Parser) parseTypeArgs(sp source.Span) (source.Span, []ast.TypeNode, error) {
	rest, err := p.tok(sp, "<")
	if err != nil {
		return sp, nil, err
	}
	rest, args, err := commaSep(p, rest, p.parseType)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.opTok(rest, ">", "=")
	if err != nil {
		return sp, nil, err
	}
	return rest, args, nil
}

func (p *Parser) parseTupleType(sp source.Span) (source.Span, ast.TypeNode, error) {
	start := sp
	rest, err := p.tok(sp, "(")
	if err != nil {
		return start, nil, err
	}
	var elems []ast.TupleTypeElement
	rest, elems, err = commaSep(p, rest, func(sp source.Span) (source.Span, ast.TupleTypeElement, error) {
		rest, t, err := p.parseType(sp)
		if err != nil {
			return sp, ast.TupleTypeElement{}, err
		}
		elem := ast.TupleTypeElement{Type: t}
		if after, name, err := p.ident(rest); err == nil {
			rest = after
			elem.Name = name
		}
		return rest, elem, nil
	})
	if err != nil {
		return start, nil, err
	}
	if len(elems) < 2 {
		return start, nil, expect(start, "tuple type with two or more elements")
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return start, nil, err
	}
	return rest, &ast.TupleType{Elements: elems}, nil
}

// parseFunctionPointer parses the remainder of delegate*<...> after
// the delegate keyword.
func (p *Parser) parseFunctionPointer(sp source.Span) (source.Span, ast.TypeNode, error) {
	rest, err := p.tok(sp, "*")
	if err != nil {
		return sp, nil, err
	}
	unmanaged := false
	if after, err := p.contextualKw(p.ws(rest), "unmanaged"); err == nil {
		unmanaged = true
		rest = after
	}
	rest, err = p.tok(rest, "<")
	if err != nil {
		return sp, nil, err
	}
	rest, params, err := commaSep(p, rest, p.parseType)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.opTok(rest, ">", "=")
	if err != nil {
		return sp, nil, err
	}
	return rest, &ast.FunctionPointerType{Unmanaged: unmanaged, Parameters: params}, nil
}
