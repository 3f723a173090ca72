package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// parseLiteral parses any literal form: numbers, strings in all five
// flavors, chars, booleans, and null. Escapes are decoded here, so
// literal nodes carry runtime values rather than source text.
func (p *Parser) parseLiteral(sp source.Span) (source.Span, ast.Expression, error) {
	sp = p.ws(sp)
	switch {
	case sp.First() == '"' || sp.HasPrefix("@\"") || sp.HasPrefix("$\"") ||
		sp.HasPrefix("$@\"") || sp.HasPrefix("@$\""):
		return p.parseStringLiteral(sp)
	case sp.First() == '\'':
		return p.parseCharLiteral(sp)
	case isDigit(sp.First()):
		return p.parseNumberLiteral(sp)
	}
	if rest, err := p.kw(sp, "true"); err == nil {
		return rest, &ast.LiteralExpr{Kind: ast.LitBool, Value: true}, nil
	}
	if rest, err := p.kw(sp, "false"); err == nil {
		return rest, &ast.LiteralExpr{Kind: ast.LitBool, Value: false}, nil
	}
	if rest, err := p.kw(sp, "null"); err == nil {
		return rest, &ast.LiteralExpr{Kind: ast.LitNull}, nil
	}
	return sp, nil, expect(sp, "literal")
}

// ===== Numbers =====

// scanDigits consumes digits of the given base plus underscore
// separators, returning the digits with separators stripped.
func scanDigits(sp source.Span, base int) (source.Span, string) {
	var b strings.Builder
	for {
		c := sp.First()
		switch {
		case c == '_':
			// Separator; must sit between digits, which the caller's
			// grammar position already guarantees for the leading edge.
			sp = sp.Advance(1)
		case base == 16 && isHexDigit(c),
			base == 10 && isDigit(c),
			base == 2 && (c == '0' || c == '1'):
			b.WriteByte(c)
			sp = sp.Advance(1)
		default:
			return sp, b.String()
		}
	}
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// integerSuffix consumes an optional u/l suffix combination.
func integerSuffix(sp source.Span) (source.Span, ast.IntegerSuffix) {
	hasU, hasL := false, false
	for {
		switch sp.First() {
		case 'u', 'U':
			if hasU {
				return sp, suffixOf(hasU, hasL)
			}
			hasU = true
			sp = sp.Advance(1)
		case 'l', 'L':
			if hasL {
				return sp, suffixOf(hasU, hasL)
			}
			hasL = true
			sp = sp.Advance(1)
		default:
			return sp, suffixOf(hasU, hasL)
		}
	}
}

func suffixOf(hasU, hasL bool) ast.IntegerSuffix {
	switch {
	case hasU && hasL:
		return ast.SuffixUL
	case hasU:
		return ast.SuffixU
	case hasL:
		return ast.SuffixL
	default:
		return ast.SuffixNone
	}
}

func intLiteral(text string, base int, suffix ast.IntegerSuffix, at source.Span) (*ast.LiteralExpr, error) {
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return nil, expect(at, "integer literal")
	}
	lit := &ast.LiteralExpr{Kind: ast.LitInteger, Suffix: suffix}
	if v > math.MaxInt64 {
		lit.Value = v
	} else {
		lit.Value = int64(v)
	}
	return lit, nil
}

func (p *Parser) parseNumberLiteral(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	if sp.HasPrefix("0x") || sp.HasPrefix("0X") {
		rest, digits := scanDigits(sp.Advance(2), 16)
		if digits == "" {
			return start, nil, expect(start, "hex digits")
		}
		rest, suffix := integerSuffix(rest)
		lit, err := intLiteral(digits, 16, suffix, start)
		if err != nil {
			return start, nil, err
		}
		return rest, lit, nil
	}
	if sp.HasPrefix("0b") || sp.HasPrefix("0B") {
		rest, digits := scanDigits(sp.Advance(2), 2)
		if digits == "" {
			return start, nil, expect(start, "binary digits")
		}
		rest, suffix := integerSuffix(rest)
		lit, err := intLiteral(digits, 2, suffix, start)
		if err != nil {
			return start, nil, err
		}
		return rest, lit, nil
	}

	rest, intPart := scanDigits(sp, 10)
	if intPart == "" {
		return start, nil, expect(start, "digits")
	}

	isFloat := false
	text := intPart
	// A dot only continues the number when a digit follows, so range
	// expressions like 1..5 keep their dots.
	if rest.First() == '.' && isDigit(rest.Byte(1)) {
		isFloat = true
		var frac string
		rest, frac = scanDigits(rest.Advance(1), 10)
		text += "." + frac
	}
	if rest.First() == 'e' || rest.First() == 'E' {
		expSp := rest.Advance(1)
		sign := ""
		if expSp.First() == '+' || expSp.First() == '-' {
			sign = string(expSp.First())
			expSp = expSp.Advance(1)
		}
		if isDigit(expSp.First()) {
			var exp string
			expSp, exp = scanDigits(expSp, 10)
			text += "e" + sign + exp
			rest = expSp
			isFloat = true
		}
	}

	switch rest.First() {
	case 'f', 'F', 'd', 'D':
		rest = rest.Advance(1)
		isFloat = true
	case 'm', 'M':
		return rest.Advance(1), &ast.LiteralExpr{Kind: ast.LitDecimal, Value: text}, nil
	}

	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return start, nil, expect(start, "numeric literal")
		}
		return rest, &ast.LiteralExpr{Kind: ast.LitFloat, Value: v}, nil
	}

	rest, suffix := integerSuffix(rest)
	lit, err := intLiteral(text, 10, suffix, start)
	if err != nil {
		return start, nil, err
	}
	return rest, lit, nil
}

// ===== Escapes =====

// decodeEscape decodes the escape sequence at sp, positioned on the
// backslash. It returns the decoded rune and the remaining input. An
// unknown or malformed escape is a recoverable failure of the whole
// literal, never a panic.
func decodeEscape(sp source.Span) (source.Span, rune, error) {
	if sp.First() != '\\' {
		return sp, 0, expect(sp, "escape sequence")
	}
	body := sp.Advance(1)
	switch body.First() {
	case '\'':
		return body.Advance(1), '\'', nil
	case '"':
		return body.Advance(1), '"', nil
	case '\\':
		return body.Advance(1), '\\', nil
	case '0':
		return body.Advance(1), 0, nil
	case 'a':
		return body.Advance(1), '\a', nil
	case 'b':
		return body.Advance(1), '\b', nil
	case 'e':
		return body.Advance(1), 0x1B, nil
	case 'f':
		return body.Advance(1), '\f', nil
	case 'n':
		return body.Advance(1), '\n', nil
	case 'r':
		return body.Advance(1), '\r', nil
	case 't':
		return body.Advance(1), '\t', nil
	case 'v':
		return body.Advance(1), '\v', nil
	case 'x':
		return decodeHexEscape(body.Advance(1), 1, 4)
	case 'u':
		return decodeHexEscape(body.Advance(1), 4, 4)
	case 'U':
		return decodeHexEscape(body.Advance(1), 8, 8)
	}
	return sp, 0, expect(sp, "valid escape sequence")
}

func decodeHexEscape(sp source.Span, min, max int) (source.Span, rune, error) {
	var v rune
	n := 0
	for n < max && isHexDigit(sp.Byte(n)) {
		v = v<<4 | rune(hexValue(sp.Byte(n)))
		n++
	}
	if n < min {
		return sp, 0, expect(sp, "hex digits in escape")
	}
	if v > 0x10FFFF {
		return sp, 0, expect(sp, "valid unicode scalar in escape")
	}
	return sp.Advance(n), v, nil
}

func hexValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

// ===== Chars =====

func (p *Parser) parseCharLiteral(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	if sp.First() != '\'' {
		return sp, nil, expect(sp, "char literal")
	}
	body := sp.Advance(1)
	var r rune
	if body.First() == '\\' {
		var err error
		body, r, err = decodeEscape(body)
		if err != nil {
			return start, nil, err
		}
	} else {
		if body.EOF() || body.First() == '\'' || body.First() == '\n' {
			return start, nil, expect(start, "char literal")
		}
		decoded, size := utf8.DecodeRuneInString(body.Rest())
		r = decoded
		body = body.Advance(size)
	}
	if body.First() != '\'' {
		return start, nil, expect(body, "closing '")
	}
	return body.Advance(1), &ast.LiteralExpr{Kind: ast.LitChar, Value: r}, nil
}

// ===== Strings =====

func (p *Parser) parseStringLiteral(sp source.Span) (source.Span, ast.Expression, error) {
	switch {
	case sp.HasPrefix("$@\"") || sp.HasPrefix("@$\""):
		return p.parseInterpolatedString(sp.Advance(2), true)
	case sp.HasPrefix("$\""):
		return p.parseInterpolatedString(sp.Advance(1), false)
	case sp.HasPrefix("@\""):
		return p.parseVerbatimString(sp)
	case sp.HasPrefix(`"""`):
		return p.parseRawString(sp)
	case sp.First() == '"':
		return p.parseRegularString(sp)
	}
	return sp, nil, expect(sp, "string literal")
}

// utf8Suffix wraps value in the right literal node depending on the
// presence of a u8 suffix. ""u8 yields an empty, non-nil byte slice.
func utf8Suffix(sp source.Span, value string) (source.Span, ast.Expression) {
	if sp.HasPrefix("u8") || sp.HasPrefix("U8") {
		return sp.Advance(2), &ast.LiteralExpr{Kind: ast.LitUtf8String, Value: []byte(value)}
	}
	return sp, &ast.LiteralExpr{Kind: ast.LitString, Value: value}
}

func (p *Parser) parseRegularString(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	sp = sp.Advance(1)
	var b strings.Builder
	for {
		switch {
		case sp.EOF() || sp.First() == '\n':
			return start, nil, expect(start, "closing \"")
		case sp.First() == '"':
			rest, lit := utf8Suffix(sp.Advance(1), b.String())
			return rest, lit, nil
		case sp.First() == '\\':
			next, r, err := decodeEscape(sp)
			if err != nil {
				return start, nil, err
			}
			b.WriteRune(r)
			sp = next
		default:
			b.WriteByte(sp.First())
			sp = sp.Advance(1)
		}
	}
}

func (p *Parser) parseVerbatimString(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	sp = sp.Advance(2) // @"
	var b strings.Builder
	for {
		switch {
		case sp.EOF():
			return start, nil, expect(start, "closing \"")
		case sp.HasPrefix(`""`):
			b.WriteByte('"')
			sp = sp.Advance(2)
		case sp.First() == '"':
			rest, lit := utf8Suffix(sp.Advance(1), b.String())
			return rest, lit, nil
		default:
			b.WriteByte(sp.First())
			sp = sp.Advance(1)
		}
	}
}

// parseRawString parses """...""" with any number of opening quotes
// three or more; the content ends at the first matching run. A
// leading newline directly after the opening quotes is stripped, and
// in the multi-line form the closing quotes' indentation is removed
// from every content line along with the final newline.
func (p *Parser) parseRawString(sp source.Span) (source.Span, ast.Expression, error) {
	start := sp
	quotes := 0
	for sp.First() == '"' {
		quotes++
		sp = sp.Advance(1)
	}
	closer := strings.Repeat(`"`, quotes)
	var b strings.Builder
	for {
		if sp.EOF() {
			return start, nil, expect(start, "closing "+closer)
		}
		if sp.HasPrefix(closer) && sp.Byte(quotes) != '"' {
			rest, lit := utf8Suffix(sp.Advance(quotes), trimRawContent(b.String()))
			return rest, lit, nil
		}
		b.WriteByte(sp.First())
		sp = sp.Advance(1)
	}
}

func trimRawContent(s string) string {
	s = strings.TrimPrefix(s, "\r\n")
	s = strings.TrimPrefix(s, "\n")
	i := strings.LastIndexByte(s, '\n')
	if i < 0 {
		return s
	}
	indent := s[i+1:]
	if strings.TrimSpace(indent) != "" {
		return s
	}
	s = strings.TrimSuffix(s[:i], "\r")
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for j, line := range lines {
		if t := strings.TrimPrefix(line, indent); t != line {
			lines[j] = t
		} else if strings.TrimSpace(line) == "" {
			// A blank line shorter than the indent empties out.
			lines[j] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// parseInterpolatedString parses $"..." (sp positioned on the opening
// quote). {{ and }} are brace escapes; each hole holds an expression
// with optional ,alignment and :format suffixes.
func (p *Parser) parseInterpolatedString(sp source.Span, verbatim bool) (source.Span, ast.Expression, error) {
	start := sp
	sp = sp.Advance(1)
	out := &ast.InterpolatedStringExpr{Verbatim: verbatim}
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			out.Parts = append(out.Parts, ast.InterpolatedPart{Text: text.String()})
			text.Reset()
		}
	}

	for {
		switch {
		case sp.EOF():
			return start, nil, expect(start, "closing \"")
		case !verbatim && sp.First() == '\n':
			return start, nil, expect(start, "closing \"")
		case verbatim && sp.HasPrefix(`""`):
			text.WriteByte('"')
			sp = sp.Advance(2)
		case sp.First() == '"':
			flush()
			return sp.Advance(1), out, nil
		case sp.HasPrefix("{{"):
			text.WriteByte('{')
			sp = sp.Advance(2)
		case sp.HasPrefix("}}"):
			text.WriteByte('}')
			sp = sp.Advance(2)
		case sp.First() == '{':
			flush()
			rest, part, err := p.parseInterpolationHole(sp.Advance(1))
			if err != nil {
				return start, nil, err
			}
			out.Parts = append(out.Parts, part)
			sp = rest
		case !verbatim && sp.First() == '\\':
			next, r, err := decodeEscape(sp)
			if err != nil {
				return start, nil, err
			}
			text.WriteRune(r)
			sp = next
		default:
			text.WriteByte(sp.First())
			sp = sp.Advance(1)
		}
	}
}

func (p *Parser) parseInterpolationHole(sp source.Span) (source.Span, ast.InterpolatedPart, error) {
	rest, expr, err := p.parseExpression(sp)
	if err != nil {
		return sp, ast.InterpolatedPart{}, err
	}
	part := ast.InterpolatedPart{Expr: expr}

	rest = p.ws(rest)
	if rest.First() == ',' {
		next, align, err := p.parseExpression(rest.Advance(1))
		if err != nil {
			return sp, ast.InterpolatedPart{}, err
		}
		part.Alignment = align
		rest = p.ws(next)
	}
	if rest.First() == ':' {
		rest = rest.Advance(1)
		var format strings.Builder
		for !rest.EOF() && rest.First() != '}' && rest.First() != '"' {
			format.WriteByte(rest.First())
			rest = rest.Advance(1)
		}
		part.Format = format.String()
	}
	if rest.First() != '}' {
		return sp, ast.InterpolatedPart{}, expect(rest, "'}'")
	}
	return rest.Advance(1), part, nil
}
