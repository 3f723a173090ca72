package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// ParseCompilationUnit parses a whole source file: global attributes,
// using directives, an optional file-scoped namespace, declarations,
// and top-level statements, in the usual order but tolerating
// interleaving. In lenient mode an unparseable top-level construct is
// skipped to the next boundary and parsing continues; in strict mode
// any failure, including trailing unconsumed input, fails the parse.
func (p *Parser) ParseCompilationUnit(input string) (*ast.CompilationUnit, error) {
	p.reset()
	sp := source.NewSpan(input)

	// A shebang line is trivia, like any # line.
	unit := &ast.CompilationUnit{}
	rest := p.ws(sp)

	var fileScoped bool
	for {
		rest = p.ws(rest)
		if rest.EOF() {
			break
		}

		next, item, err := p.parseTopLevelItem(rest, unit)
		if err != nil {
			if p.strict {
				return unit, cut(err)
			}
			// Keep what parsed and resume past the next boundary.
			skipped, ok := p.skipToBoundary(rest)
			if !ok {
				break
			}
			rest = skipped
			continue
		}
		switch item {
		case itemFileScopedNamespace:
			if fileScoped {
				if p.strict {
					return unit, cut(expect(rest, "single file-scoped namespace"))
				}
			} else {
				fileScoped = true
				p.nsPath = append(p.nsPath, unit.FileScopedNamespace.Name...)
			}
		}
		rest = next
	}

	if fileScoped {
		nsStart := 0
		p.recordSpan("namespace", nsStart, rest.Offset(), "")
		p.nsPath = nil
	}
	if p.strict && !p.ws(rest).EOF() {
		return unit, cut(expect(p.ws(rest), "end of input"))
	}
	return unit, nil
}

type topLevelItem int

const (
	itemOther topLevelItem = iota
	itemFileScopedNamespace
)

// parseTopLevelItem parses one top-level construct and attaches it to
// unit.
func (p *Parser) parseTopLevelItem(sp source.Span, unit *ast.CompilationUnit) (source.Span, topLevelItem, error) {
	rest := p.ws(sp)
	word, _ := peekWord(rest)

	switch word {
	case "using":
		if next, u, ok := p.tryUsingDirective(rest); ok {
			unit.Usings = append(unit.Usings, u)
			return next, itemOther, nil
		}
		// using (...) and using-declaration statements fall through
		// to the top-level statement path.

	case "global":
		if next, u, ok := p.tryUsingDirective(rest); ok {
			unit.Usings = append(unit.Usings, u)
			return next, itemOther, nil
		}

	case "namespace":
		next, decl, scoped, err := p.parseNamespace(rest)
		if err != nil {
			return sp, itemOther, err
		}
		if scoped != nil {
			unit.FileScopedNamespace = scoped
			return next, itemFileScopedNamespace, nil
		}
		unit.Declarations = append(unit.Declarations, decl)
		return next, itemOther, nil
	}

	// Global attribute lists: [assembly: ...], [module: ...].
	if rest.First() == '[' {
		if next, list, ok := p.tryAttributeList(rest); ok &&
			(list.Target == "assembly" || list.Target == "module") {
			unit.GlobalAttributes = append(unit.GlobalAttributes, list)
			return next, itemOther, nil
		}
	}

	if p.typeDeclarationFollows(rest) {
		next, decl, err := p.parseTypeDeclaration(rest)
		if err != nil {
			return sp, itemOther, err
		}
		unit.Declarations = append(unit.Declarations, decl)
		return next, itemOther, nil
	}

	next, stmt, err := p.parseStatement(rest)
	if err != nil {
		return sp, itemOther, err
	}
	unit.TopLevelStatements = append(unit.TopLevelStatements, stmt)
	return next, itemOther, nil
}

// typeDeclarationFollows peeks past attribute lists and modifiers for
// a type declaration keyword.
func (p *Parser) typeDeclarationFollows(sp source.Span) bool {
	rest := sp
	for {
		next, _, ok := p.tryAttributeList(rest)
		if !ok {
			break
		}
		rest = next
	}
	rest, _ = p.parseModifiers(rest)
	word, _ := peekWord(p.ws(rest))
	switch word {
	case "class", "struct", "interface", "enum", "delegate", "namespace":
		return true
	case "record":
		return p.recordFollows(p.ws(rest))
	}
	return false
}

// tryUsingDirective recognizes using directives without committing, so
// a using statement at the top level still parses as a statement:
//
//	using System;
//	using static System.Math;
//	using IntList = System.Collections.Generic.List;
//	global using System.Text;
func (p *Parser) tryUsingDirective(sp source.Span) (source.Span, *ast.UsingDirective, bool) {
	u := &ast.UsingDirective{}
	rest := p.ws(sp)

	if next, err := p.contextualKw(rest, "global"); err == nil {
		u.Global = true
		rest = next
	}
	rest, err := p.kw(p.ws(rest), "using")
	if err != nil {
		return sp, nil, false
	}

	if next, err := p.contextualKw(p.ws(rest), "static"); err == nil {
		u.Static = true
		rest = next
	}

	rest, parts, err := p.dottedName(rest)
	if err != nil {
		return sp, nil, false
	}

	// Alias form: using Name = Target;
	if !u.Static && len(parts) == 1 {
		if eqSp, err := p.opTok(p.ws(rest), "=", "=>"); err == nil {
			target, targetParts, err := p.dottedName(eqSp)
			if err != nil {
				return sp, nil, false
			}
			u.Alias = parts[0]
			parts = targetParts
			rest = target
		}
	}
	u.Target = parts

	semiSp, err := p.tok(rest, ";")
	if err != nil {
		return sp, nil, false
	}
	return semiSp, u, true
}

// parseNamespace parses both namespace forms. The file-scoped form
// (namespace A.B;) comes back as the third result; the block form as
// the second.
func (p *Parser) parseNamespace(sp source.Span) (source.Span, ast.Declaration, *ast.FileScopedNamespaceDecl, error) {
	declStart := p.ws(sp).Offset()
	rest, err := p.kw(p.ws(sp), "namespace")
	if err != nil {
		return sp, nil, nil, err
	}
	rest, parts, err := p.dottedName(rest)
	if err != nil {
		return sp, nil, nil, cut(err)
	}

	after := p.ws(rest)
	if after.First() == ';' {
		return after.Advance(1), nil, &ast.FileScopedNamespaceDecl{Name: parts}, nil
	}

	rest, err = p.tok(rest, "{")
	if err != nil {
		return sp, nil, nil, cut(err)
	}
	p.braceDepth++
	p.nsPath = append(p.nsPath, parts...)
	decl := &ast.NamespaceDecl{Name: parts}

	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			rest = rest.Advance(1)
			break
		}
		if rest.EOF() {
			p.nsPath = p.nsPath[:len(p.nsPath)-len(parts)]
			p.braceDepth--
			return sp, nil, nil, cut(expect(rest, "'}'"))
		}

		if next, u, ok := p.tryUsingDirective(rest); ok {
			decl.Usings = append(decl.Usings, u)
			rest = next
			continue
		}
		if word, _ := peekWord(rest); word == "namespace" {
			next, nested, scoped, err := p.parseNamespace(rest)
			if err != nil || scoped != nil {
				p.nsPath = p.nsPath[:len(p.nsPath)-len(parts)]
				p.braceDepth--
				if err == nil {
					err = expect(rest, "nested namespace body")
				}
				return sp, nil, nil, cut(err)
			}
			decl.Members = append(decl.Members, nested)
			rest = next
			continue
		}

		next, member, err := p.parseTypeDeclaration(rest)
		if err != nil {
			if p.strict || isFatal(err) {
				p.nsPath = p.nsPath[:len(p.nsPath)-len(parts)]
				p.braceDepth--
				return sp, nil, nil, cut(err)
			}
			skipped, ok := p.skipToBoundary(rest)
			if !ok {
				p.nsPath = p.nsPath[:len(p.nsPath)-len(parts)]
				p.braceDepth--
				return sp, nil, nil, cut(expect(rest, "'}'"))
			}
			rest = skipped
			continue
		}
		decl.Members = append(decl.Members, member)
		rest = next
	}

	p.recordSpan("namespace", declStart, rest.Offset(), "")
	p.nsPath = p.nsPath[:len(p.nsPath)-len(parts)]
	p.braceDepth--
	return rest, decl, nil, nil
}
