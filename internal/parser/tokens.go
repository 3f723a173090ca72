package parser

import (
	"github.com/bsharp-lang/bsharp/internal/source"
)

// reservedKeywords is the set of words that can never be identifiers.
// Contextual keywords (var, get, set, value, where, partial, record,
// global, ...) are deliberately absent; they parse as identifiers
// wherever the grammar does not claim them.
var reservedKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true,
	"break": true, "byte": true, "case": true, "catch": true,
	"char": true, "checked": true, "class": true, "const": true,
	"continue": true, "decimal": true, "default": true, "delegate": true,
	"do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true,
	"finally": true, "fixed": true, "float": true, "for": true,
	"foreach": true, "goto": true, "if": true, "implicit": true,
	"in": true, "int": true, "interface": true, "internal": true,
	"is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true,
	"out": true, "override": true, "params": true, "private": true,
	"protected": true, "public": true, "readonly": true, "ref": true,
	"return": true, "sbyte": true, "sealed": true, "short": true,
	"sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true,
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// tok matches the exact text t after leading trivia.
func (p *Parser) tok(sp source.Span, t string) (source.Span, error) {
	sp = p.ws(sp)
	if !sp.HasPrefix(t) {
		return sp, expect(sp, "'"+t+"'")
	}
	return sp.Advance(len(t)), nil
}

// peekTok reports whether t is next after leading trivia.
func (p *Parser) peekTok(sp source.Span, t string) bool {
	return p.ws(sp).HasPrefix(t)
}

// opTok matches t like tok but fails when the byte after the match is
// one of reject, so '=' does not bite into '==' or '=>'.
func (p *Parser) opTok(sp source.Span, t string, reject string) (source.Span, error) {
	sp = p.ws(sp)
	if !sp.HasPrefix(t) {
		return sp, expect(sp, "'"+t+"'")
	}
	next := sp.Byte(len(t))
	for i := 0; i < len(reject); i++ {
		if next == reject[i] {
			return sp, expect(sp, "'"+t+"'")
		}
	}
	return sp.Advance(len(t)), nil
}

// kw matches the reserved or contextual word w with a trailing word
// boundary, so kw("in") does not bite into "int".
func (p *Parser) kw(sp source.Span, w string) (source.Span, error) {
	sp = p.ws(sp)
	if !sp.HasPrefix(w) || isIdentPart(sp.Byte(len(w))) {
		return sp, expect(sp, "'"+w+"'")
	}
	return sp.Advance(len(w)), nil
}

// peekKw reports whether w is next, with a word boundary.
func (p *Parser) peekKw(sp source.Span, w string) bool {
	_, err := p.kw(sp, w)
	return err == nil
}

// ident parses an identifier. Reserved keywords are rejected; an @
// prefix makes any word an identifier.
func (p *Parser) ident(sp source.Span) (source.Span, string, error) {
	sp = p.ws(sp)
	verbatim := false
	start := sp
	if sp.First() == '@' {
		verbatim = true
		sp = sp.Advance(1)
	}
	if !isIdentStart(sp.First()) {
		return start, "", expect(start, "identifier")
	}
	n := 1
	for isIdentPart(sp.Byte(n)) {
		n++
	}
	name := sp.Rest()[:n]
	if !verbatim && reservedKeywords[name] {
		return start, "", expect(start, "identifier")
	}
	return sp.Advance(n), name, nil
}

// peekIdent reports whether an identifier is next, without consuming.
func (p *Parser) peekIdent(sp source.Span) bool {
	_, _, err := p.ident(sp)
	return err == nil
}

// contextualKw matches w only when used as a bare word, i.e. it is an
// identifier equal to w. Used for var/get/set/where/record and the
// other contextual keywords.
func (p *Parser) contextualKw(sp source.Span, w string) (source.Span, error) {
	sp = p.ws(sp)
	if !sp.HasPrefix(w) || isIdentPart(sp.Byte(len(w))) {
		return sp, expect(sp, "'"+w+"'")
	}
	return sp.Advance(len(w)), nil
}

// dottedName parses Ident ('.' Ident)+ segments.
func (p *Parser) dottedName(sp source.Span) (source.Span, []string, error) {
	rest, first, err := p.ident(sp)
	if err != nil {
		return sp, nil, err
	}
	parts := []string{first}
	for {
		after := p.ws(rest)
		if after.First() != '.' || after.HasPrefix("..") {
			return rest, parts, nil
		}
		next, name, err := p.ident(after.Advance(1))
		if err != nil {
			return rest, parts, nil
		}
		rest = next
		parts = append(parts, name)
	}
}
