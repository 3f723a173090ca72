package parser

import (
	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// parseBlock parses { statements } and owns both the brace-depth
// accounting and statement-boundary recovery. In lenient mode a
// statement that fails to parse is skipped: the parser scans to the
// next ; at the same nesting level (consuming it) or up to the
// enclosing } (leaving it), then continues with the next statement.
// Strict mode propagates the failure instead.
func (p *Parser) parseBlock(sp source.Span) (source.Span, *ast.BlockStmt, error) {
	rest, err := p.tok(sp, "{")
	if err != nil {
		return sp, nil, err
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	block := &ast.BlockStmt{}
	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			return rest.Advance(1), block, nil
		}
		if rest.EOF() {
			return sp, nil, cut(expect(rest, "'}'"))
		}

		next, stmt, err := p.parseStatement(rest)
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
		block.Statements = append(block.Statements, stmt)
		rest = next
	}
}

// skipToBoundary advances past malformed input to a recovery point:
// just after the next ; at the current nesting level, or just before
// the enclosing } when the parser is inside one (braceDepth > 0). At
// brace depth zero a stray } is garbage and gets consumed. Bracket
// nesting and string/char/comment content are respected so boundaries
// inside them do not count. Returns false when input ends first.
func (p *Parser) skipToBoundary(sp source.Span) (source.Span, bool) {
	depth := 0
	for !sp.EOF() {
		switch sp.First() {
		case ';':
			if depth == 0 {
				return sp.Advance(1), true
			}
			sp = sp.Advance(1)
		case '{', '(', '[':
			depth++
			sp = sp.Advance(1)
		case ')', ']':
			if depth > 0 {
				depth--
			}
			sp = sp.Advance(1)
		case '}':
			if depth == 0 && p.braceDepth > 0 {
				return sp, true
			}
			if depth > 0 {
				depth--
			}
			sp = sp.Advance(1)
		case '"':
			sp = skipStringForRecovery(sp)
		case '\'':
			sp = skipCharForRecovery(sp)
		case '/':
			if sp.HasPrefix("//") {
				sp = skipToLineEnd(sp)
			} else if sp.HasPrefix("/*") {
				sp = skipBlockComment(sp)
			} else {
				sp = sp.Advance(1)
			}
		case '@':
			if sp.HasPrefix("@\"") {
				sp = skipVerbatimForRecovery(sp)
			} else {
				sp = sp.Advance(1)
			}
		default:
			sp = sp.Advance(1)
		}
	}
	return sp, false
}

func skipStringForRecovery(sp source.Span) source.Span {
	sp = sp.Advance(1)
	for !sp.EOF() {
		switch sp.First() {
		case '\\':
			if sp.Len() >= 2 {
				sp = sp.Advance(2)
			} else {
				return sp.Advance(1)
			}
		case '"', '\n':
			return sp.Advance(1)
		default:
			sp = sp.Advance(1)
		}
	}
	return sp
}

func skipCharForRecovery(sp source.Span) source.Span {
	sp = sp.Advance(1)
	for !sp.EOF() {
		switch sp.First() {
		case '\\':
			if sp.Len() >= 2 {
				sp = sp.Advance(2)
			} else {
				return sp.Advance(1)
			}
		case '\'', '\n':
			return sp.Advance(1)
		default:
			sp = sp.Advance(1)
		}
	}
	return sp
}

func skipVerbatimForRecovery(sp source.Span) source.Span {
	sp = sp.Advance(2)
	for !sp.EOF() {
		if sp.HasPrefix(`""`) {
			sp = sp.Advance(2)
			continue
		}
		if sp.First() == '"' {
			return sp.Advance(1)
		}
		sp = sp.Advance(1)
	}
	return sp
}

// parseStatement parses any single statement.
func (p *Parser) parseStatement(sp source.Span) (source.Span, ast.Statement, error) {
	sp = p.ws(sp)

	switch sp.First() {
	case '{':
		rest, block, err := p.parseBlock(sp)
		if err != nil {
			return sp, nil, err
		}
		return rest, block, nil
	case ';':
		return sp.Advance(1), &ast.EmptyStmt{}, nil
	case 0:
		return sp, nil, expect(sp, "statement")
	}

	word, _ := peekWord(sp)
	switch word {
	case "if":
		return p.parseIfStmt(sp)
	case "while":
		return p.parseWhileStmt(sp)
	case "do":
		return p.parseDoWhileStmt(sp)
	case "for":
		return p.parseForStmt(sp)
	case "foreach":
		return p.parseForEachStmt(sp)
	case "switch":
		return p.parseSwitchStmt(sp)
	case "try":
		return p.parseTryStmt(sp)
	case "return":
		return p.parseReturnStmt(sp)
	case "throw":
		return p.parseThrowStmt(sp)
	case "break":
		rest, _ := p.kw(sp, "break")
		rest, err := p.tok(rest, ";")
		if err != nil {
			return sp, nil, cut(err)
		}
		return rest, &ast.BreakStmt{}, nil
	case "continue":
		rest, _ := p.kw(sp, "continue")
		rest, err := p.tok(rest, ";")
		if err != nil {
			return sp, nil, cut(err)
		}
		return rest, &ast.ContinueStmt{}, nil
	case "goto":
		return p.parseGotoStmt(sp)
	case "using":
		return p.parseUsingStmt(sp)
	case "lock":
		return p.parseLockStmt(sp)
	case "fixed":
		return p.parseFixedStmt(sp)
	case "unsafe":
		rest, _ := p.kw(sp, "unsafe")
		if p.peekTok(rest, "{") {
			rest, block, err := p.parseBlock(rest)
			if err != nil {
				return sp, nil, cut(err)
			}
			return rest, &ast.UnsafeStmt{Body: block}, nil
		}
	case "checked", "unchecked":
		rest, _ := p.kw(sp, word)
		if p.peekTok(rest, "{") {
			rest, block, err := p.parseBlock(rest)
			if err != nil {
				return sp, nil, cut(err)
			}
			return rest, &ast.CheckedStmt{Unchecked: word == "unchecked", Body: block}, nil
		}
	case "await":
		// await foreach and await using are statement forms; a plain
		// await expression falls through to the expression path.
		next, _ := p.contextualKw(sp, "await")
		switch w, _ := peekWord(p.ws(next)); w {
		case "foreach":
			rest, stmt, err := p.parseForEachStmt(next)
			if err != nil {
				return sp, nil, err
			}
			stmt.(*ast.ForEachStmt).Await = true
			return rest, stmt, nil
		case "using":
			rest, stmt, err := p.parseUsingStmt(next)
			if err != nil {
				return sp, nil, err
			}
			stmt.(*ast.UsingStmt).Await = true
			return rest, stmt, nil
		}
	case "yield":
		if rest, stmt, ok, err := p.tryYieldStmt(sp); err != nil || ok {
			return rest, stmt, err
		}
	case "const":
		return p.parseLocalDeclStmt(sp, true)
	}

	// label: statement
	if rest, stmt, ok := p.tryLabeledStmt(sp); ok {
		return rest, stmt, nil
	}

	if rest, stmt, ok, err := p.tryLocalFunction(sp); err != nil {
		return sp, nil, err
	} else if ok {
		return rest, stmt, nil
	}

	if rest, stmt, ok := p.tryLocalDecl(sp); ok {
		return rest, stmt, nil
	}

	// Expression statement.
	rest, expr, err := p.parseExpression(sp)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, ";")
	if err != nil {
		return sp, nil, err
	}
	return rest, &ast.ExpressionStmt{Expr: expr}, nil
}

func (p *Parser) parseIfStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "if")
	rest, err := p.tok(rest, "(")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, cond, err := p.parseExpression(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, then, err := p.parseStatement(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out := &ast.IfStmt{Cond: cond, Then: then}
	if next, err := p.kw(p.ws(rest), "else"); err == nil {
		elseSp, els, err := p.parseStatement(next)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Else = els
		rest = elseSp
	}
	return rest, out, nil
}

func (p *Parser) parseWhileStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "while")
	rest, cond, err := p.parseParenExpr(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, body, err := p.parseStatement(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, &ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseParenExpr(sp source.Span) (source.Span, ast.Expression, error) {
	rest, err := p.tok(sp, "(")
	if err != nil {
		return sp, nil, err
	}
	rest, expr, err := p.parseExpression(rest)
	if err != nil {
		return sp, nil, err
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, err
	}
	return rest, expr, nil
}

func (p *Parser) parseDoWhileStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "do")
	rest, body, err := p.parseStatement(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, err = p.kw(p.ws(rest), "while")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, cond, err := p.parseParenExpr(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, err = p.tok(rest, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, &ast.DoWhileStmt{Body: body, Cond: cond}, nil
}

func (p *Parser) parseForStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "for")
	rest, err := p.tok(rest, "(")
	if err != nil {
		return sp, nil, cut(err)
	}
	out := &ast.ForStmt{}

	// Initializer: declaration, expression list, or empty.
	rest = p.ws(rest)
	if rest.First() != ';' {
		if next, decl, ok := p.tryLocalDecl(rest); ok {
			out.Init = decl
			rest = next
		} else {
			next, exprs, err := commaSep(p, rest, p.parseExpression)
			if err != nil {
				return sp, nil, cut(err)
			}
			if len(exprs) == 1 {
				out.Init = &ast.ExpressionStmt{Expr: exprs[0]}
			} else {
				// Multiple initializer expressions fold into a block
				// of expression statements.
				init := &ast.BlockStmt{}
				for _, e := range exprs {
					init.Statements = append(init.Statements, &ast.ExpressionStmt{Expr: e})
				}
				out.Init = init
			}
			next, err = p.tok(next, ";")
			if err != nil {
				return sp, nil, cut(err)
			}
			rest = next
		}
	} else {
		rest = rest.Advance(1)
	}

	// Condition.
	rest = p.ws(rest)
	if rest.First() != ';' {
		next, cond, err := p.parseExpression(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Cond = cond
		rest = next
	}
	rest, err = p.tok(rest, ";")
	if err != nil {
		return sp, nil, cut(err)
	}

	// Iterators.
	rest = p.ws(rest)
	if rest.First() != ')' {
		next, iters, err := commaSep(p, rest, p.parseExpression)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Iterators = iters
		rest = next
	}
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, cut(err)
	}

	rest, body, err := p.parseStatement(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out.Body = body
	return rest, out, nil
}

func (p *Parser) parseForEachStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "foreach")
	out := &ast.ForEachStmt{}

	rest, err := p.tok(rest, "(")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, t, err := p.parseType(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out.Type = t
	rest, name, err := p.ident(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out.Name = name
	rest, err = p.kw(p.ws(rest), "in")
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, src, err := p.parseExpression(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out.Source = src
	rest, err = p.tok(rest, ")")
	if err != nil {
		return sp, nil, cut(err)
	}

	rest, body, err := p.parseStatement(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out.Body = body
	return rest, out, nil
}

func (p *Parser) parseSwitchStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "switch")
	rest, scrutinee, err := p.parseParenExpr(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, err = p.tok(rest, "{")
	if err != nil {
		return sp, nil, cut(err)
	}
	p.braceDepth++
	defer func() { p.braceDepth-- }()

	out := &ast.SwitchStmt{Scrutinee: scrutinee}
	for {
		rest = p.ws(rest)
		if rest.First() == '}' {
			return rest.Advance(1), out, nil
		}
		if rest.EOF() {
			return sp, nil, cut(expect(rest, "'}'"))
		}
		next, section, err := p.parseSwitchSection(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Sections = append(out.Sections, section)
		rest = next
	}
}

func (p *Parser) parseSwitchSection(sp source.Span) (source.Span, *ast.SwitchSection, error) {
	section := &ast.SwitchSection{}
	rest := sp

	for {
		after := p.ws(rest)
		if next, err := p.kw(after, "case"); err == nil {
			patSp, pat, err := p.parsePattern(next)
			if err != nil {
				return sp, nil, err
			}
			label := &ast.SwitchLabel{Pattern: pat}
			if whenSp, err := p.contextualKw(p.ws(patSp), "when"); err == nil {
				guardSp, guard, err := p.parseExpression(whenSp)
				if err != nil {
					return sp, nil, err
				}
				label.When = guard
				patSp = guardSp
			}
			colonSp, err := p.tok(patSp, ":")
			if err != nil {
				return sp, nil, err
			}
			section.Labels = append(section.Labels, label)
			rest = colonSp
			continue
		}
		if next, err := p.kw(after, "default"); err == nil {
			colonSp, err := p.tok(next, ":")
			if err == nil {
				section.Labels = append(section.Labels, &ast.SwitchLabel{Default: true})
				rest = colonSp
				continue
			}
		}
		break
	}
	if len(section.Labels) == 0 {
		return sp, nil, expect(sp, "case or default label")
	}

	for {
		after := p.ws(rest)
		if after.First() == '}' || p.peekKw(after, "case") ||
			(p.peekKw(after, "default") && p.defaultIsLabel(after)) {
			return rest, section, nil
		}
		next, stmt, err := p.parseStatement(after)
		if err != nil {
			return sp, nil, err
		}
		section.Statements = append(section.Statements, stmt)
		rest = next
	}
}

// defaultIsLabel distinguishes the default: switch label from the
// default literal in expression position.
func (p *Parser) defaultIsLabel(sp source.Span) bool {
	rest, err := p.kw(sp, "default")
	if err != nil {
		return false
	}
	return p.peekTok(rest, ":")
}

func (p *Parser) parseTryStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "try")
	rest, body, err := p.parseBlock(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	out := &ast.TryStmt{Body: body}

	for {
		next, err := p.kw(p.ws(rest), "catch")
		if err != nil {
			break
		}
		clause := &ast.CatchClause{}
		if p.peekTok(next, "(") {
			openSp, _ := p.tok(next, "(")
			typeSp, t, err := p.parseType(openSp)
			if err != nil {
				return sp, nil, cut(err)
			}
			clause.Type = t
			if nameSp, name, err := p.ident(typeSp); err == nil {
				clause.Name = name
				typeSp = nameSp
			}
			closeSp, err := p.tok(typeSp, ")")
			if err != nil {
				return sp, nil, cut(err)
			}
			next = closeSp
		}
		if whenSp, err := p.contextualKw(p.ws(next), "when"); err == nil {
			filterSp, filter, err := p.parseParenExpr(whenSp)
			if err != nil {
				return sp, nil, cut(err)
			}
			clause.Filter = filter
			next = filterSp
		}
		blockSp, block, err := p.parseBlock(next)
		if err != nil {
			return sp, nil, cut(err)
		}
		clause.Body = block
		out.Catches = append(out.Catches, clause)
		rest = blockSp
	}

	if next, err := p.kw(p.ws(rest), "finally"); err == nil {
		blockSp, block, err := p.parseBlock(next)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Finally = block
		rest = blockSp
	}

	if len(out.Catches) == 0 && out.Finally == nil {
		return sp, nil, cut(expect(rest, "catch or finally"))
	}
	return rest, out, nil
}

func (p *Parser) parseReturnStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "return")
	out := &ast.ReturnStmt{}
	after := p.ws(rest)
	if after.First() != ';' {
		next, value, err := p.parseExpression(after)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Value = value
		rest = next
	}
	rest, err := p.tok(rest, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, out, nil
}

func (p *Parser) parseThrowStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "throw")
	out := &ast.ThrowStmt{}
	after := p.ws(rest)
	if after.First() != ';' {
		next, value, err := p.parseExpression(after)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Value = value
		rest = next
	}
	rest, err := p.tok(rest, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, out, nil
}

func (p *Parser) parseGotoStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "goto")
	out := &ast.GotoStmt{}

	if next, err := p.kw(p.ws(rest), "case"); err == nil {
		valSp, value, err := p.parseExpression(next)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.CaseValue = value
		rest = valSp
	} else if next, err := p.kw(p.ws(rest), "default"); err == nil {
		out.Default = true
		rest = next
	} else {
		next, label, err := p.ident(rest)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Label = label
		rest = next
	}
	rest, err := p.tok(rest, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, out, nil
}

// parseUsingStmt handles both using statements and using
// declarations, plus the await using form.
func (p *Parser) parseUsingStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "using")
	out := &ast.UsingStmt{}

	if !p.peekTok(rest, "(") {
		// using declaration: using T x = e;
		declSp, decl, ok := p.tryLocalDecl(rest)
		if !ok {
			return sp, nil, cut(expect(rest, "resource declaration"))
		}
		out.Declaration = decl.(*ast.LocalDeclStmt)
		return declSp, out, nil
	}

	openSp, _ := p.tok(rest, "(")
	inner := p.ws(openSp)

	if declSp, decl, ok := p.tryLocalDeclNoSemi(inner); ok && p.peekTok(declSp, ")") {
		out.Declaration = decl
		inner = declSp
	} else {
		exprSp, expr, err := p.parseExpression(inner)
		if err != nil {
			return sp, nil, cut(err)
		}
		out.Expr = expr
		inner = exprSp
	}
	closeSp, err := p.tok(inner, ")")
	if err != nil {
		return sp, nil, cut(err)
	}

	bodySp, body, err := p.parseStatement(closeSp)
	if err != nil {
		return sp, nil, cut(err)
	}
	out.Body = body
	return bodySp, out, nil
}

func (p *Parser) parseLockStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "lock")
	rest, expr, err := p.parseParenExpr(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	rest, body, err := p.parseStatement(rest)
	if err != nil {
		return sp, nil, cut(err)
	}
	return rest, &ast.LockStmt{Expr: expr, Body: body}, nil
}

func (p *Parser) parseFixedStmt(sp source.Span) (source.Span, ast.Statement, error) {
	rest, _ := p.kw(sp, "fixed")
	rest, err := p.tok(rest, "(")
	if err != nil {
		return sp, nil, cut(err)
	}
	declSp, decl, ok := p.tryLocalDeclNoSemi(rest)
	if !ok {
		return sp, nil, cut(expect(rest, "fixed declaration"))
	}
	closeSp, err := p.tok(declSp, ")")
	if err != nil {
		return sp, nil, cut(err)
	}
	bodySp, body, err := p.parseStatement(closeSp)
	if err != nil {
		return sp, nil, cut(err)
	}
	return bodySp, &ast.FixedStmt{Declaration: decl, Body: body}, nil
}

// tryYieldStmt recognizes yield return and yield break; a plain
// identifier named yield falls through to the expression statement.
func (p *Parser) tryYieldStmt(sp source.Span) (source.Span, ast.Statement, bool, error) {
	rest, err := p.contextualKw(sp, "yield")
	if err != nil {
		return sp, nil, false, nil
	}
	if next, err := p.kw(p.ws(rest), "break"); err == nil {
		semiSp, err := p.tok(next, ";")
		if err != nil {
			return sp, nil, false, cut(err)
		}
		return semiSp, &ast.YieldStmt{Break: true}, true, nil
	}
	next, err := p.kw(p.ws(rest), "return")
	if err != nil {
		return sp, nil, false, nil
	}
	valSp, value, err := p.parseExpression(next)
	if err != nil {
		return sp, nil, false, cut(err)
	}
	semiSp, err := p.tok(valSp, ";")
	if err != nil {
		return sp, nil, false, cut(err)
	}
	return semiSp, &ast.YieldStmt{Value: value}, true, nil
}

func (p *Parser) tryLabeledStmt(sp source.Span) (source.Span, ast.Statement, bool) {
	rest, name, err := p.ident(sp)
	if err != nil {
		return sp, nil, false
	}
	after := p.ws(rest)
	if after.First() != ':' || after.Byte(1) == ':' {
		return sp, nil, false
	}
	stmtSp, stmt, err := p.parseStatement(after.Advance(1))
	if err != nil {
		return sp, nil, false
	}
	return stmtSp, &ast.LabeledStmt{Label: name, Statement: stmt}, true
}

// tryLocalFunction recognizes local function declarations by their
// header shape: [modifiers] type name [<T>] ( ... ) followed by a
// block or =>.
func (p *Parser) tryLocalFunction(sp source.Span) (source.Span, ast.Statement, bool, error) {
	rest := sp
	var mods []ast.Modifier
	for {
		word, _ := peekWord(p.ws(rest))
		switch word {
		case "static", "async", "unsafe", "extern":
			next, _ := p.kw(p.ws(rest), word)
			mods = append(mods, ast.Modifier(word))
			rest = next
			continue
		}
		break
	}

	typeSp, ret, err := p.parseType(rest)
	if err != nil {
		return sp, nil, false, nil
	}
	nameSp, name, err := p.ident(typeSp)
	if err != nil {
		return sp, nil, false, nil
	}

	out := &ast.LocalFunctionStmt{Modifiers: mods, Return: ret, Name: name}

	if p.peekTok(nameSp, "<") {
		tpSp, tps, err := p.parseTypeParams(nameSp)
		if err != nil {
			return sp, nil, false, nil
		}
		out.TypeParams = tps
		nameSp = tpSp
	}
	if !p.peekTok(nameSp, "(") {
		return sp, nil, false, nil
	}
	paramSp, params, err := p.parseParameterList(nameSp)
	if err != nil {
		return sp, nil, false, nil
	}
	out.Parameters = params

	consSp, cons, err := p.parseConstraintClauses(paramSp)
	if err != nil {
		return sp, nil, false, nil
	}
	out.Constraints = cons

	after := p.ws(consSp)
	switch {
	case after.First() == '{':
		blockSp, block, err := p.parseBlock(after)
		if err != nil {
			return sp, nil, false, cut(err)
		}
		out.Body = block
		return blockSp, out, true, nil
	case after.HasPrefix("=>"):
		bodySp, body, err := p.parseExpression(after.Advance(2))
		if err != nil {
			return sp, nil, false, cut(err)
		}
		semiSp, err := p.tok(bodySp, ";")
		if err != nil {
			return sp, nil, false, cut(err)
		}
		out.ExprBody = body
		return semiSp, out, true, nil
	}
	return sp, nil, false, nil
}

// tryLocalDecl recognizes a local variable declaration ending in ;.
func (p *Parser) tryLocalDecl(sp source.Span) (source.Span, ast.Statement, bool) {
	rest, decl, ok := p.tryLocalDeclNoSemi(sp)
	if !ok {
		return sp, nil, false
	}
	semiSp, err := p.tok(rest, ";")
	if err != nil {
		return sp, nil, false
	}
	return semiSp, decl, true
}

func (p *Parser) parseLocalDeclStmt(sp source.Span, isConst bool) (source.Span, ast.Statement, error) {
	rest := sp
	if isConst {
		rest, _ = p.kw(sp, "const")
	}
	declSp, decl, ok := p.tryLocalDeclNoSemi(rest)
	if !ok {
		return sp, nil, cut(expect(rest, "declaration"))
	}
	decl.Const = isConst
	semiSp, err := p.tok(declSp, ";")
	if err != nil {
		return sp, nil, cut(err)
	}
	return semiSp, decl, nil
}

// tryLocalDeclNoSemi recognizes type declarator [, declarator]...
// without the trailing semicolon, shared by for initializers, using
// resources, and fixed statements.
func (p *Parser) tryLocalDeclNoSemi(sp source.Span) (source.Span, *ast.LocalDeclStmt, bool) {
	typeSp, t, err := p.parseType(sp)
	if err != nil {
		return sp, nil, false
	}
	declSp, decls, err := commaSep(p, typeSp, p.parseDeclarator)
	if err != nil {
		return sp, nil, false
	}
	// Require the shape to continue like a declaration so x.y() does
	// not read as a declaration of y.
	after := p.ws(declSp)
	switch after.First() {
	case ';', ')', ',':
	case '=':
		return sp, nil, false
	default:
		return sp, nil, false
	}
	return declSp, &ast.LocalDeclStmt{Type: t, Declarators: decls}, true
}

func (p *Parser) parseDeclarator(sp source.Span) (source.Span, *ast.VariableDeclarator, error) {
	rest, name, err := p.ident(sp)
	if err != nil {
		return sp, nil, err
	}
	out := &ast.VariableDeclarator{Name: name}
	if after, err := p.opTok(p.ws(rest), "=", "=>"); err == nil {
		valSp, value, err := p.parseExpression(after)
		if err != nil {
			return sp, nil, err
		}
		out.Value = value
		rest = valSp
	}
	return rest, out, nil
}
