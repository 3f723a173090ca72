package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// ===== Shared header pieces =====

// parseAttributeLists parses zero or more [..] attribute groups.
func (p *Parser) parseAttributeLists(sp source.Span) (source.Span, []*ast.AttributeList) {
	var lists []*ast.AttributeList
	for {
		rest, list, ok := p.tryAttributeList(sp)
		if !ok {
			return sp, lists
		}
		lists = append(lists, list)
		sp = rest
	}
}

func (p *Parser) tryAttributeList(sp source.Span) (source.Span, *ast.AttributeList, bool) {
	after := p.ws(sp)
	if after.First() != '[' {
		return sp, nil, false
	}
	rest := p.ws(after.Advance(1))

	list := &ast.AttributeList{}
	// Optional target: [assembly: ...], [return: ...].
	if next, word, err := p.ident(rest); err == nil {
		colon := p.ws(next)
		if colon.First() == ':' && colon.Byte(1) != ':' {
			list.Target = word
			rest = colon.Advance(1)
		}
	} else if next, err := p.kw(rest, "return"); err == nil {
		if colon := p.ws(next); colon.First() == ':' && colon.Byte(1) != ':' {
			list.Target = "return"
			rest = colon.Advance(1)
		}
	}

	rest, attrs, err := commaSep(p, rest, p.parseAttribute)
	if err != nil {
		return sp, nil, false
	}
	list.Attributes = attrs
	rest, err = p.tok(rest, "]")
	if err != nil {
		return sp, nil, false
	}
	return rest, list, true
}

func (p *Parser) parseAttribute(sp source.Span) (source.Span, *ast.Attribute, error) {
	rest, parts, err := p.dottedName(sp)
	if err != nil {
		return sp, nil, err
	}
	attr := &ast.Attribute{Name: parts}
	if p.peekTok(rest, "(") {
		openSp, _ := p.tok(rest, "(")
		openSp = p.ws(openSp)
		if openSp.First() != ')' {
			argSp, args, err := commaSep(p, openSp, p.parseAttributeArgument)
			if err != nil {
				return sp, nil, err
			}
			attr.Arguments = args
			openSp = argSp
		}
		closeSp, err := p.tok(openSp, ")")
		if err != nil {
			return sp, nil, err
		}
		rest = closeSp
	}
	return rest, attr, nil
}

// parseAttributeArgument accepts positional arguments plus both named
// forms, Name = value and name: value; named ones surface as
// assignments.
func (p *Parser) parseAttributeArgument(sp source.Span) (source.Span, ast.Expression, error) {
	if next, name, err := p.ident(p.ws(sp)); err == nil {
		sepSp, err := p.opTok(p.ws(next), "=", "=>")
		if err != nil {
			if colon := p.ws(next); colon.First() == ':' && colon.Byte(1) != ':' {
				sepSp, err = colon.Advance(1), nil
			}
		}
		if err == nil {
			valSp, value, err := p.parseExpression(sepSp)
			if err != nil {
				return sp, nil, err
			}
			return valSp, &ast.AssignmentExpr{
				Target: &ast.NameExpr{Parts: []string{name}},
				Op:     ast.AssignSimple,
				Value:  value,
			}, nil
		}
	}
	return p.parseExpression(sp)
}

var reservedModifiers = map[string]ast.Modifier{
	"public":    ast.ModPublic,
	"private":   ast.ModPrivate,
	"protected": ast.ModProtected,
	"internal":  ast.ModInternal,
	"static":    ast.ModStatic,
	"abstract":  ast.ModAbstract,
	"virtual":   ast.ModVirtual,
	"override":  ast.ModOverride,
	"sealed":    ast.ModSealed,
	"readonly":  ast.ModReadonly,
	"const":     ast.ModConst,
	"extern":    ast.ModExtern,
	"unsafe":    ast.ModUnsafe,
	"volatile":  ast.ModVolatile,
	"new":       ast.ModNew,
}

var contextualModifiers = map[string]ast.Modifier{
	"async":    ast.ModAsync,
	"partial":  ast.ModPartial,
	"required": ast.ModRequired,
	"file":     ast.ModFile,
}

// parseModifiers consumes a run of declaration modifiers. Contextual
// modifier words only count when another header word follows, so a
// field named async stays a field.
func (p *Parser) parseModifiers(sp source.Span) (source.Span, []ast.Modifier) {
	var mods []ast.Modifier
	for {
		after := p.ws(sp)
		word, n := peekWord(after)
		if n == 0 {
			return sp, mods
		}
		if m, ok := reservedModifiers[word]; ok {
			// new T(...) in a field initializer never reaches here;
			// a new modifier precedes another header word.
			mods = append(mods, m)
			sp = after.Advance(n)
			continue
		}
		if m, ok := contextualModifiers[word]; ok {
			next := p.ws(after.Advance(n))
			if w, _ := peekWord(next); w != "" || next.First() == '~' {
				mods = append(mods, m)
				sp = after.Advance(n)
				continue
			}
		}
		if word == "ref" {
			// ref struct / ref readonly struct declarations.
			next := p.ws(after.Advance(n))
			if w, _ := peekWord(next); w == "struct" || w == "readonly" || w == "partial" {
				mods = append(mods, ast.ModRef)
				sp = after.Advance(n)
				continue
			}
		}
		return sp, mods
	}
}

// parseTypeParams parses <[in|out] T, ...>.
func (p *Parser) parseTypeParams(sp source.Span) (source.Span, []*ast.TypeParameter, error) {
	rest, err := p.tok(sp, "<")
	if err != nil {
		return sp, nil, err
	}
	rest, params, err := commaSep(p, rest, func(sp source.Span) (source.Span, *ast.TypeParameter, error) {
		tp := &ast.TypeParameter{}
		rest, attrs := p.parseAttributeLists(sp)
		tp.Attributes = attrs
		for _, variance := range []string{"in", "out"} {
			if next, err := p.kw(rest, variance); err == nil {
				tp.Variance = variance
				rest = next
				break
			}
		}
		rest, name, err := p.ident(rest)
		if err != nil {
			return sp, nil, err
		}
		tp.Name = name
		return rest, tp, nil
	})
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.opTok(rest, ">", "=")
	if err != nil {
		return sp, nil, err
	}
	return rest, params, nil
}

// parseParameterList parses ( param, ... ).
func (p *Parser) parseParameterList(sp source.Span) (source.Span, []*ast.Parameter, error) {
	rest, err := p.tok(sp, "(")
	if err != nil {
		return sp, nil, err
	}

	rest = p.ws(rest)
	if rest.First() == ')' {
		return rest.Advance(1), nil, nil
	}
	rest, params, err := commaSep(p, rest, p.parseParameter)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, err
	}
	return rest, params, nil
}

func (p *Parser) parseParameter(sp source.Span) (source.Span, *ast.Parameter, error) {
	param := &ast.Parameter{}
	rest, attrs := p.parseAttributeLists(sp)
	param.Attributes = attrs

	for {
		matched := false
		for _, mod := range []string{"ref", "out", "in", "params", "this"} {
			if next, err := p.kw(p.ws(rest), mod); err == nil {
				param.Modifiers = append(param.Modifiers, mod)
				rest = next
				matched = true
				break
			}
		}
		if !matched {
			if next, err := p.contextualKw(p.ws(rest), "scoped"); err == nil {
				param.Modifiers = append(param.Modifiers, "scoped")
				rest = next
				continue
			}
			break
		}
	}

	rest, t, err := p.parseType(rest)
	if err != nil {
		return sp, nil, err
	}
	param.Type = t
	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, err
	}
	param.Name = name

	if eqSp, err := p.opTok(p.ws(rest), "=", "=>"); err == nil {
		valSp, value, err := p.parseExpression(eqSp)
		if err != nil {
			return sp, nil, err
		}
		param.Default = value
		rest = valSp
	}
	return rest, param, nil
}

// parseConstraintClauses parses zero or more where T : ... clauses.
func (p *Parser) parseConstraintClauses(sp source.Span) (source.Span, []*ast.ConstraintClause, error) {
	var clauses []*ast.ConstraintClause
	for {
		rest, err := p.contextualKw(p.ws(sp), "where")
		if err != nil {
			return sp, clauses, nil
		}
		rest, name, err := p.ident(rest)
		if err != nil {
			return sp, clauses, nil
		}
		rest, err = p.tok(rest, ":")
		if err != nil {
			return sp, clauses, nil
		}
		rest, cons, err := commaSep(p, rest, p.parseConstraint)
		if err != nil {
			return sp, nil, err
		}
		clauses = append(clauses, &ast.ConstraintClause{Name: name, Constraints: cons})
		sp = rest
	}
}

func (p *Parser) parseConstraint(sp source.Span) (source.Span, *ast.Constraint, error) {
	rest := p.ws(sp)
	word, _ := peekWord(rest)
	switch word {
	case "class", "struct", "default":
		next, _ := p.kw(rest, word)
		// class? allows nullable reference constraints.
		if word == "class" && p.peekTok(next, "?") {
			next, _ = p.tok(next, "?")
			return next, &ast.Constraint{Keyword: "class?"}, nil
		}
		return next, &ast.Constraint{Keyword: word}, nil
	case "notnull", "unmanaged":
		next, _ := p.contextualKw(rest, word)
		return next, &ast.Constraint{Keyword: word}, nil
	case "new":
		next, _ := p.kw(rest, "new")
		next, err := p.tok(next, "(")
		if err != nil {
			return sp, nil, err
		}
		next, err = p.tok(next, ")")
		if err != nil {
			return sp, nil, err
		}
		return next, &ast.Constraint{Keyword: "new()"}, nil
	}
	rest, t, err := p.parseType(rest)
	if err != nil {
		return sp, nil, err
	}
	return rest, &ast.Constraint{Type: t}, nil
}

// parseBaseTypes parses the : Base, IFace, ... clause.
func (p *Parser) parseBaseTypes(sp source.Span) (source.Span, []ast.TypeNode, error) {
	after := p.ws(sp)
	if after.First() != ':' || after.Byte(1) == ':' {
		return sp, nil, nil
	}
	rest, types, err := commaSep(p, after.Advance(1), p.parseType)
	if err != nil {
		return sp, nil, err
	}
	return rest, types, nil
}

// ===== Type declarations =====

// parseTypeDeclaration parses one type declaration including its
// attribute lists and modifiers.
func (p *Parser) parseTypeDeclaration(sp source.Span) (source.Span, ast.Declaration, error) {
	declStart := p.ws(sp).Offset()
	rest, attrs := p.parseAttributeLists(sp)
	rest, mods := p.parseModifiers(rest)
	return p.parseTypeDeclarationAfterHeader(rest, attrs, mods, declStart)
}

func (p *Parser) parseTypeDeclarationAfterHeader(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, declStart int) (source.Span, ast.Declaration, error) {
	word, _ := peekWord(p.ws(sp))
	switch word {
	case "class":
		return p.parseClassLike(sp, "class", attrs, mods, declStart)
	case "struct":
		return p.parseClassLike(sp, "struct", attrs, mods, declStart)
	case "interface":
		return p.parseClassLike(sp, "interface", attrs, mods, declStart)
	case "enum":
		return p.parseEnumDecl(sp, attrs, mods, declStart)
	case "delegate":
		return p.parseDelegateDecl(sp, attrs, mods, declStart)
	case "record":
		return p.parseRecordDecl(sp, attrs, mods, declStart)
	}
	return sp, nil, expect(sp, "type declaration")
}

// parseClassLike parses class, struct, and interface declarations,
// which share header and body shapes.
func (p *Parser) parseClassLike(sp source.Span, kind string, attrs []*ast.AttributeList, mods []ast.Modifier, declStart int) (source.Span, ast.Declaration, error) {
	rest, err := p.kw(p.ws(sp), kind)
	if err != nil {
		return sp, nil, err
	}
	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, cut(err)
	}

	var typeParams []*ast.TypeParameter
	if p.peekTok(rest, "<") {
		rest, typeParams, err = p.parseTypeParams(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
	}

	var primary []*ast.Parameter
	if kind != "interface" && p.peekTok(rest, "(") {
		rest, primary, err = p.parseParameterList(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
	}

	rest, bases, err := p.parseBaseTypes(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, constraints, err := p.parseConstraintClauses(rest)
	if err != nil {
		return sp, nil, cut(err)
	}

	p.ownPath = append(p.ownPath, name)
	rest, members, err := p.parseTypeBody(rest, name)
	p.ownPath = p.ownPath[:len(p.ownPath)-1]
	if err != nil {
		return sp, nil, cut(err)
	}
	p.recordSpan(kind, declStart, rest.Offset(), name)

	switch kind {
	case "struct":
		return rest, &ast.StructDecl{
			Attributes: attrs, Modifiers: mods, Name: name,
			TypeParams: typeParams, PrimaryParams: primary,
			BaseTypes: bases, Constraints: constraints, Members: members,
		}, nil
	case "interface":
		return rest, &ast.InterfaceDecl{
			Attributes: attrs, Modifiers: mods, Name: name,
			TypeParams: typeParams, BaseTypes: bases,
			Constraints: constraints, Members: members,
		}, nil
	default:
		return rest, &ast.ClassDecl{
			Attributes: attrs, Modifiers: mods, Name: name,
			TypeParams: typeParams, PrimaryParams: primary,
			BaseTypes: bases, Constraints: constraints, Members: members,
		}, nil
	}
}

// parseTypeBody parses { members } with member-level recovery: in
// lenient mode an unparseable member is skipped to the next ; at the
// member nesting level (consumed, nothing recorded) or up to the
// enclosing } (left in place), and parsing resumes with the next
// member.
func (p *Parser) parseTypeBody(sp source.Span, typeName string) (source.Span, []ast.Declaration, error) {
	rest, err := p.tok(sp, "{")
	if err != nil {
		return sp, nil, err
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	var members []ast.Declaration
	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			return rest.Advance(1), members, nil
		}
		if rest.EOF() {
			return sp, nil, cut(expect(rest, "'}'"))
		}

		next, member, err := p.parseMember(rest, typeName)
		if err != nil {
			if p.strict {
				return sp, nil, cut(err)
			}
			skipped, ok := p.skipToBoundary(rest)
			if !ok {
				return sp, nil, cut(expect(rest, "'}'"))
			}
			rest = skipped
			continue
		}
		members = append(members, member)
		rest = next
	}
}

// ===== Members =====

// parseMember parses one member of a class-like body. typeName names
// the enclosing type, which identifies constructors.
func (p *Parser) parseMember(sp source.Span, typeName string) (source.Span, ast.Declaration, error) {
	declStart := p.ws(sp).Offset()
	rest, attrs := p.parseAttributeLists(sp)
	rest, mods := p.parseModifiers(rest)
	after := p.ws(rest)

	// Destructor: ~Name() { ... }.
	if after.First() == '~' {
		return p.parseDestructor(after, attrs, declStart)
	}

	word, _ := peekWord(after)
	switch word {
	case "class", "struct", "interface", "enum", "delegate":
		return p.parseTypeDeclarationAfterHeader(after, attrs, mods, declStart)
	case "record":
		if p.recordFollows(after) {
			return p.parseTypeDeclarationAfterHeader(after, attrs, mods, declStart)
		}
	case "event":
		return p.parseEventDecl(after, attrs, mods)
	case "implicit", "explicit":
		return p.parseConversionOperator(after, attrs, mods, word == "implicit")
	}

	// Constructor: the member name equals the type name and an
	// argument list follows immediately.
	if word == typeName {
		if next, _, err := p.ident(after); err == nil && p.peekTok(next, "(") {
			return p.parseConstructor(after, attrs, mods, declStart)
		}
	}

	rest, retType, err := p.parseType(after)
	if err != nil {
		return sp, nil, expect(after, "member declaration")
	}

	if next, err := p.kw(p.ws(rest), "operator"); err == nil {
		return p.parseOperatorOverload(next, attrs, mods, retType)
	}

	if next, err := p.kw(p.ws(rest), "this"); err == nil {
		return p.parseIndexer(next, attrs, mods, retType, nil)
	}

	// Member name, possibly an explicit interface implementation
	// prefix (IFace.Member) and possibly generic.
	rest, names, err := p.dottedName(rest)
	if err != nil {
		return sp, nil, expect(rest, "member name")
	}
	explicitIface := names[:len(names)-1]
	name := names[len(names)-1]

	// IFace.this[...] indexers arrive as a dotted prefix with .this
	// still unconsumed, since this is reserved and dottedName stops.
	if dot := p.ws(rest); dot.First() == '.' {
		if next, err := p.kw(dot.Advance(1), "this"); err == nil {
			return p.parseIndexer(next, attrs, mods, retType, names)
		}
	}

	var typeParams []*ast.TypeParameter
	if p.peekTok(rest, "<") {
		if next, tps, err := p.parseTypeParams(rest); err == nil {
			typeParams = tps
			rest = next
		}
	}

	after = p.ws(rest)
	switch {
	case after.First() == '(':
		return p.parseMethodTail(after, &ast.MethodDecl{
			Attributes: attrs, Modifiers: mods, Return: retType,
			ExplicitInterface: explicitIface, Name: name, TypeParams: typeParams,
		}, declStart)
	case after.First() == '{' || after.HasPrefix("=>"):
		return p.parsePropertyTail(after, &ast.PropertyDecl{
			Attributes: attrs, Modifiers: mods, Type: retType,
			ExplicitInterface: explicitIface, Name: name,
		}, declStart)
	case len(explicitIface) == 0 && len(typeParams) == 0:
		return p.parseFieldTail(after, attrs, mods, retType, name)
	}
	return sp, nil, expect(after, "member body")
}

// recordFollows reports whether the contextual word record starts a
// record declaration rather than naming a type called record.
func (p *Parser) recordFollows(sp source.Span) bool {
	rest, err := p.contextualKw(p.ws(sp), "record")
	if err != nil {
		return false
	}
	word, _ := peekWord(p.ws(rest))
	if word == "class" || word == "struct" {
		return true
	}
	return p.peekIdent(rest)
}

func (p *Parser) parseMethodTail(sp source.Span, decl *ast.MethodDecl, declStart int) (source.Span, ast.Declaration, error) {
	rest, params, err := p.parseParameterList(sp)
	if err != nil {
		return sp, nil, err
	}
	decl.Parameters = params

	rest, constraints, err := p.parseConstraintClauses(rest)
	if err != nil {
		return sp, nil, err
	}
	decl.Constraints = constraints

	after := p.ws(rest)
	switch {
	case after.First() == '{':
		blockSp, block, err := p.parseBlock(after)
		if err != nil {
			return sp, nil, err
		}
		decl.Body = block
		rest = blockSp
	case after.HasPrefix("=>"):
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, err
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, err
		}
		decl.ExprBody = body
		rest = semiSp
	case after.First() == ';':
		rest = after.Advance(1)
	default:
		return sp, nil, expect(after, "method body")
	}
	p.recordSpan("method", declStart, rest.Offset(), decl.Name)
	return rest, decl, nil
}

func (p *Parser) parseConstructor(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, declStart int) (source.Span, ast.Declaration, error) {
	rest, name, err := p.ident(sp)
	if err != nil {
		return sp, nil, err
	}
	decl := &ast.ConstructorDecl{Attributes: attrs, Modifiers: mods, Name: name}

	rest, params, err := p.parseParameterList(rest)
	if err != nil {
		return sp, nil, err
	}
	decl.Parameters = params

	after := p.ws(rest)
	if after.First() == ':' && after.Byte(1) != ':' {
		initSp := p.ws(after.Advance(1))
		base := false
		if next, err := p.kw(initSp, "base"); err == nil {
			base = true
			initSp = next
		} else if next, err := p.kw(initSp, "this"); err == nil {
			initSp = next
		} else {
			return sp, nil, cut(expect(initSp, "base or this"))
		}
		argSp, args, err := p.parseArguments(initSp)
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.Initializer = &ast.ConstructorInitializer{Base: base, Arguments: args}
		rest = argSp
	}

	after = p.ws(rest)
	switch {
	case after.First() == '{':
		blockSp, block, err := p.parseBlock(after)
		if err != nil {
			return sp, nil, err
		}
		decl.Body = block
		rest = blockSp
	case after.HasPrefix("=>"):
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, err
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, err
		}
		decl.ExprBody = body
		rest = semiSp
	default:
		return sp, nil, expect(after, "constructor body")
	}

	// Constructors key on the owner path alone.
	p.recordSpan("ctor", declStart, rest.Offset(), "")
	return rest, decl, nil
}

func (p *Parser) parseDestructor(sp source.Span, attrs []*ast.AttributeList, declStart int) (source.Span, ast.Declaration, error) {
	rest := sp.Advance(1) // ~
	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, "(")
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, err
	}
	decl := &ast.DestructorDecl{Attributes: attrs, Name: name}

	after := p.ws(rest)
	switch {
	case after.First() == '{':
		blockSp, block, err := p.parseBlock(after)
		if err != nil {
			return sp, nil, err
		}
		decl.Body = block
		rest = blockSp
	case after.HasPrefix("=>"):
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, err
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, err
		}
		decl.ExprBody = body
		rest = semiSp
	default:
		return sp, nil, expect(after, "destructor body")
	}
	p.recordSpan("dtor", declStart, rest.Offset(), "")
	return rest, decl, nil
}

func (p *Parser) parseFieldTail(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, t ast.TypeNode, firstName string) (source.Span, ast.Declaration, error) {
	decl := &ast.FieldDecl{Attributes: attrs, Modifiers: mods, Type: t}
	first := &ast.VariableDeclarator{Name: firstName}

	rest := p.ws(sp)
	if eqSp, err := p.opTok(rest, "=", "=>"); err == nil {
		valSp, value, err := p.parseExpression(eqSp)
		if err != nil {
			return sp, nil, err
		}
		first.Value = value
		rest = p.ws(valSp)
	}
	decl.Declarators = append(decl.Declarators, first)

	for rest.First() == ',' {
		next, d, err := p.parseDeclarator(rest.Advance(1))
		if err != nil {
			return sp, nil, err
		}
		decl.Declarators = append(decl.Declarators, d)
		rest = p.ws(next)
	}

	semiSp, err := p.tok(rest, ";")
	if err != nil {
		return sp, nil, err
	}
	return semiSp, decl, nil
}

// parsePropertyTail parses accessor lists, expression bodies, and
// auto-property initializers after the property name.
func (p *Parser) parsePropertyTail(sp source.Span, decl *ast.PropertyDecl, declStart int) (source.Span, ast.Declaration, error) {
	after := p.ws(sp)

	if after.HasPrefix("=>") {
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, err
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, err
		}
		decl.ExprBody = body
		p.recordSpan("property", declStart, semiSp.Offset(), decl.Name)
		return semiSp, decl, nil
	}

	rest, accessors, err := p.parseAccessorList(after, []string{"get", "set", "init"})
	if err != nil {
		return sp, nil, err
	}
	decl.Accessors = accessors

	// Auto-property initializer: { get; set; } = value;
	if eqSp, err := p.opTok(p.ws(rest), "=", "=>"); err == nil {
		valSp, value, err := p.parseExpression(eqSp)
		if err != nil {
			return sp, nil, err
		}
		semiSp, err := p.tok(valSp, ";")
		if err != nil {
			return sp, nil, err
		}
		decl.Initializer = value
		rest = semiSp
	}
	p.recordSpan("property", declStart, rest.Offset(), decl.Name)
	return rest, decl, nil
}

// parseAccessorList parses { [attrs] [mods] kind (; | block | => e;) ... }.
func (p *Parser) parseAccessorList(sp source.Span, kinds []string) (source.Span, []*ast.Accessor, error) {
	rest, err := p.tok(sp, "{")
	if err != nil {
		return sp, nil, err
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	var accessors []*ast.Accessor
	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			return rest.Advance(1), accessors, nil
		}
		if rest.EOF() {
			return sp, nil, expect(rest, "'}'")
		}

		acc := &ast.Accessor{}
		var attrs []*ast.AttributeList
		rest, attrs = p.parseAttributeLists(rest)
		acc.Attributes = attrs
		var mods []ast.Modifier
		rest, mods = p.parseModifiers(rest)
		acc.Modifiers = mods

		word, n := peekWord(p.ws(rest))
		matched := false
		for _, kind := range kinds {
			if word == kind {
				acc.Kind = ast.AccessorKind(kind)
				rest = p.ws(rest).Advance(n)
				matched = true
				break
			}
		}
		if !matched {
			return sp, nil, expect(rest, "accessor")
		}

		after := p.ws(rest)
		switch {
		case after.First() == ';':
			rest = after.Advance(1)
		case after.First() == '{':
			blockSp, block, err := p.parseBlock(after)
			if err != nil {
				return sp, nil, err
			}
			acc.Body = block
			rest = blockSp
		case after.HasPrefix("=>"):
			bodySp, body, err := p.parseExpression(after.Advance(2))
			if err != nil {
				return sp, nil, err
			}
			semiSp, err := p.tok(bodySp, ";")
			if err != nil {
				return sp, nil, err
			}
			acc.ExprBody = body
			rest = semiSp
		default:
			return sp, nil, expect(after, "accessor body")
		}
		accessors = append(accessors, acc)
	}
}

func (p *Parser) parseIndexer(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, t ast.TypeNode, explicitIface []string) (source.Span, ast.Declaration, error) {
	decl := &ast.IndexerDecl{
		Attributes: attrs, Modifiers: mods, Type: t,
		ExplicitInterface: explicitIface,
	}

	rest, err := p.tok(sp, "[")
	if err != nil {
		return sp, nil, err
	}
	rest, params, err := commaSep(p, rest, p.parseParameter)
	if err != nil {
		return sp, nil, err
	}
	decl.Parameters = params
	rest, err = p.tok(rest, "]")
	if err != nil {
		return sp, nil, err
	}

	after := p.ws(rest)
	if after.HasPrefix("=>") {
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, err
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, err
		}
		decl.ExprBody = body
		return semiSp, decl, nil
	}

	rest, accessors, err := p.parseAccessorList(after, []string{"get", "set", "init"})
	if err != nil {
		return sp, nil, err
	}
	decl.Accessors = accessors
	return rest, decl, nil
}

func (p *Parser) parseEventDecl(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier) (source.Span, ast.Declaration, error) {
	rest, _ := p.kw(p.ws(sp), "event")
	decl := &ast.EventDecl{Attributes: attrs, Modifiers: mods}

	rest, t, err := p.parseType(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	decl.Type = t

	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, cut(err)
	}

	after := p.ws(rest)
	if after.First() == '{' {
		decl.Name = name
		accSp, accessors, err := p.parseAccessorList(after, []string{"add", "remove"})
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.Accessors = accessors
		return accSp, decl, nil
	}

	// Field-like event, possibly with more declarators.
	first := &ast.VariableDeclarator{Name: name}
	if eqSp, err := p.opTok(after, "=", "=>"); err == nil {
		valSp, value, err := p.parseExpression(eqSp)
		if err != nil {
			return sp, nil, cut(err)
		}
		first.Value = value
		after = p.ws(valSp)
	}
	decl.Declarators = append(decl.Declarators, first)
	for after.First() == ',' {
		next, d, err := p.parseDeclarator(after.Advance(1))
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.Declarators = append(decl.Declarators, d)
		after = p.ws(next)
	}
	semiSp, err := p.tok(after, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	return semiSp, decl, nil
}

// overloadableOperators in longest-match-first order.
var overloadableOperators = []string{
	">>>", "<<", ">>", "<=", ">=", "==", "!=", "++", "--",
	"+", "-", "!", "~", "*", "/", "%", "&", "|", "^", "<", ">",
}

func (p *Parser) parseOperatorOverload(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, ret ast.TypeNode) (source.Span, ast.Declaration, error) {
	decl := &ast.OperatorDecl{
		Attributes: attrs, Modifiers: mods,
		Kind: ast.OperatorOverload, Return: ret,
	}

	rest := p.ws(sp)
	matched := false
	for _, op := range overloadableOperators {
		if rest.HasPrefix(op) {
			decl.Operator = op
			rest = rest.Advance(len(op))
			matched = true
			break
		}
	}
	if !matched {
		// operator true / operator false.
		for _, word := range []string{"true", "false"} {
			if next, err := p.kw(rest, word); err == nil {
				decl.Operator = word
				rest = next
				matched = true
				break
			}
		}
	}
	if !matched {
		return sp, nil, cut(expect(rest, "overloadable operator"))
	}
	return p.parseOperatorBody(rest, decl)
}

func (p *Parser) parseConversionOperator(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, implicit bool) (source.Span, ast.Declaration, error) {
	word := "explicit"
	kind := ast.OperatorExplicit
	if implicit {
		word = "implicit"
		kind = ast.OperatorImplicit
	}
	rest, _ := p.kw(p.ws(sp), word)
	rest, err := p.kw(p.ws(rest), "operator")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, target, err := p.parseType(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	decl := &ast.OperatorDecl{
		Attributes: attrs, Modifiers: mods, Kind: kind, Return: target,
	}
	return p.parseOperatorBody(rest, decl)
}

func (p *Parser) parseOperatorBody(sp source.Span, decl *ast.OperatorDecl) (source.Span, ast.Declaration, error) {
	rest, params, err := p.parseParameterList(sp)
	if err != nil {
		return sp, nil, cut(err)
	}
	decl.Parameters = params

	after := p.ws(rest)
	switch {
	case after.First() == '{':
		blockSp, block, err := p.parseBlock(after)
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.Body = block
		return blockSp, decl, nil
	case after.HasPrefix("=>"):
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, cut(err)
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.ExprBody = body
		return semiSp, decl, nil
	case after.First() == ';':
		return after.Advance(1), decl, nil
	}
	return sp, nil, cut(expect(after, "operator body"))
}

// ===== Enums, delegates, records =====

func (p *Parser) parseEnumDecl(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, declStart int) (source.Span, ast.Declaration, error) {
	rest, _ := p.kw(p.ws(sp), "enum")
	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	decl := &ast.EnumDecl{Attributes: attrs, Modifiers: mods, Name: name}

	after := p.ws(rest)
	if after.First() == ':' && after.Byte(1) != ':' {
		typeSp, t, err := p.parseType(after.Advance(1))
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.Underlying = t
		rest = typeSp
	}

	rest, err = p.tok(rest, "{")
	if err != nil {
		return sp, nil, cut(err)
	}
	p.braceDepth++
	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			rest = rest.Advance(1)
			break
		}
		if rest.EOF() {
			p.braceDepth--
			return sp, nil, cut(expect(rest, "'}'"))
		}
		member := &ast.EnumMember{}
		var memberAttrs []*ast.AttributeList
		rest, memberAttrs = p.parseAttributeLists(rest)
		member.Attributes = memberAttrs
		next, memberName, err := p.ident(rest)
		if err != nil {
			p.braceDepth--
			return sp, nil, cut(err)
		}
		member.Name = memberName
		rest = next
		if eqSp, err := p.opTok(p.ws(rest), "=", "=>"); err == nil {
			valSp, value, err := p.parseExpression(eqSp)
			if err != nil {
				p.braceDepth--
				return sp, nil, cut(err)
			}
			member.Value = value
			rest = valSp
		}
		decl.Members = append(decl.Members, member)
		rest = p.ws(rest)
		if rest.First() == ',' {
			rest = rest.Advance(1)
		}
	}
	p.braceDepth--

	// Optional trailing semicolon.
	if semiSp, err := p.tok(rest, ";"); err == nil {
		rest = semiSp
	}
	p.recordSpan("enum", declStart, rest.Offset(), name)
	return rest, decl, nil
}

func (p *Parser) parseDelegateDecl(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, declStart int) (source.Span, ast.Declaration, error) {
	rest, _ := p.kw(p.ws(sp), "delegate")
	rest, ret, err := p.parseType(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	decl := &ast.DelegateDecl{
		Attributes: attrs, Modifiers: mods, Return: ret, Name: name,
	}

	if p.peekTok(rest, "<") {
		rest, decl.TypeParams, err = p.parseTypeParams(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
	}
	rest, decl.Parameters, err = p.parseParameterList(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, decl.Constraints, err = p.parseConstraintClauses(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, err = p.tok(rest, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	p.recordSpan("delegate", declStart, rest.Offset(), name)
	return rest, decl, nil
}

func (p *Parser) parseRecordDecl(sp source.Span, attrs []*ast.AttributeList, mods []ast.Modifier, declStart int) (source.Span, ast.Declaration, error) {
	rest, err := p.contextualKw(p.ws(sp), "record")
	if err != nil {
		return sp, nil, err
	}
	decl := &ast.RecordDecl{Attributes: attrs, Modifiers: mods}

	if next, err := p.kw(p.ws(rest), "struct"); err == nil {
		decl.IsStruct = true
		rest = next
	} else if next, err := p.kw(p.ws(rest), "class"); err == nil {
		rest = next
	}

	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	decl.Name = name

	if p.peekTok(rest, "<") {
		rest, decl.TypeParams, err = p.parseTypeParams(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
	}
	if p.peekTok(rest, "(") {
		rest, decl.Parameters, err = p.parseParameterList(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
	}
	rest, decl.BaseTypes, err = p.parseBaseTypes(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, decl.Constraints, err = p.parseConstraintClauses(rest)
	if err != nil {
		return sp, nil, cut(err)
	}

	after := p.ws(rest)
	switch {
	case after.First() == ';':
		rest = after.Advance(1)
	case after.First() == '{':
		p.ownPath = append(p.ownPath, name)
		bodySp, members, err := p.parseTypeBody(after, name)
		p.ownPath = p.ownPath[:len(p.ownPath)-1]
		if err != nil {
			return sp, nil, cut(err)
		}
		decl.Members = members
		rest = bodySp
	default:
		return sp, nil, cut(expect(after, "record body or ';'"))
	}
	p.recordSpan("record", declStart, rest.Offset(), name)
	return rest, decl, nil
}
