package parser

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

func parseStmtString(t *testing.T, input string) ast.Statement {
	t.Helper()
	p := NewParser()
	rest, stmt, err := p.parseStatement(source.NewSpan(input))
	if err != nil {
		t.Fatalf("parseStatement(%q): %v", input, err)
	}
	if !p.ws(rest).EOF() {
		t.Fatalf("parseStatement(%q): trailing input %q", input, rest.Rest())
	}
	return stmt
}

func TestIfElseChain(t *testing.T) {
	stmt := parseStmtString(t, "if (x > 0) return x; else if (x < 0) return -x; else return 0;")
	ifs, ok := stmt.(*ast.IfStmt)
	if !ok {
		t.Fatalf("root = %T, want if", stmt)
	}
	nested, ok := ifs.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("else = %T, want chained if", ifs.Else)
	}
	if nested.Else == nil {
		t.Fatalf("inner else missing")
	}
}

func TestLoops(t *testing.T) {
	forStmt := parseStmtString(t, "for (int i = 0; i < 10; i++) sum += i;").(*ast.ForStmt)
	if _, ok := forStmt.Init.(*ast.LocalDeclStmt); !ok {
		t.Errorf("for init = %T, want local decl", forStmt.Init)
	}
	if forStmt.Cond == nil || len(forStmt.Iterators) != 1 {
		t.Errorf("for cond/iterators = %v/%d", forStmt.Cond, len(forStmt.Iterators))
	}

	empty := parseStmtString(t, "for (;;) { }").(*ast.ForStmt)
	if empty.Init != nil || empty.Cond != nil || len(empty.Iterators) != 0 {
		t.Errorf("for (;;) parts = %#v", empty)
	}

	each := parseStmtString(t, "foreach (var item in items) Use(item);").(*ast.ForEachStmt)
	if each.Name != "item" {
		t.Errorf("foreach name = %q, want item", each.Name)
	}
	if _, ok := each.Type.(*ast.InferredType); !ok {
		t.Errorf("foreach type = %T, want inferred", each.Type)
	}

	await := parseStmtString(t, "await foreach (var x in xs) { }").(*ast.ForEachStmt)
	if !await.Await {
		t.Errorf("await foreach not marked")
	}

	dowhile := parseStmtString(t, "do { } while (x);").(*ast.DoWhileStmt)
	if dowhile.Cond == nil {
		t.Errorf("do-while cond missing")
	}
}

func TestSwitchStatement(t *testing.T) {
	stmt := parseStmtString(t, `switch (x) {
		case 1:
		case 2:
			y = 1;
			break;
		case > 10 when x < 100:
			y = 2;
			break;
		default:
			y = 3;
			break;
	}`)
	sw := stmt.(*ast.SwitchStmt)
	if len(sw.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(sw.Sections))
	}
	if len(sw.Sections[0].Labels) != 2 {
		t.Errorf("section 0 labels = %d, want 2", len(sw.Sections[0].Labels))
	}
	guarded := sw.Sections[1].Labels[0]
	if guarded.When == nil {
		t.Errorf("section 1 label has no guard")
	}
	if !sw.Sections[2].Labels[0].Default {
		t.Errorf("section 2 label not default")
	}
}

func TestTryCatchFinally(t *testing.T) {
	stmt := parseStmtString(t, `try { Work(); }
		catch (IOException e) when (e.HResult != 0) { }
		catch { }
		finally { Done(); }`)
	try := stmt.(*ast.TryStmt)
	if len(try.Catches) != 2 {
		t.Fatalf("catches = %d, want 2", len(try.Catches))
	}
	if try.Catches[0].Name != "e" || try.Catches[0].Filter == nil {
		t.Errorf("catch 0 = %#v, want named filtered catch", try.Catches[0])
	}
	if try.Catches[1].Type != nil {
		t.Errorf("catch 1 has a type, want general catch")
	}
	if try.Finally == nil {
		t.Errorf("finally missing")
	}
}

func TestLocalDeclarations(t *testing.T) {
	decl := parseStmtString(t, "int a = 1, b = 2;").(*ast.LocalDeclStmt)
	if len(decl.Declarators) != 2 {
		t.Fatalf("declarators = %d, want 2", len(decl.Declarators))
	}

	inferred := parseStmtString(t, "var x = F();").(*ast.LocalDeclStmt)
	if _, ok := inferred.Type.(*ast.InferredType); !ok {
		t.Errorf("var decl type = %T, want inferred", inferred.Type)
	}

	konst := parseStmtString(t, "const int Max = 100;").(*ast.LocalDeclStmt)
	if !konst.Const {
		t.Errorf("const decl not marked const")
	}

	// x * y; declares y of pointer type rather than multiplying.
	ptr := parseStmtString(t, "x * y;").(*ast.LocalDeclStmt)
	if _, ok := ptr.Type.(*ast.PointerType); !ok {
		t.Errorf("x * y type = %T, want pointer", ptr.Type)
	}

	// A call is an expression statement, not a declaration.
	if _, ok := parseStmtString(t, "x.y();").(*ast.ExpressionStmt); !ok {
		t.Errorf("x.y(); did not parse as expression statement")
	}
}

func TestUsingStatements(t *testing.T) {
	stmt := parseStmtString(t, "using (var f = Open()) { }").(*ast.UsingStmt)
	if stmt.Declaration == nil || stmt.Body == nil {
		t.Fatalf("using statement = %#v, want declaration and body", stmt)
	}

	declForm := parseStmtString(t, "using var f = Open();").(*ast.UsingStmt)
	if declForm.Declaration == nil || declForm.Body != nil {
		t.Fatalf("using declaration = %#v, want bodyless declaration", declForm)
	}

	exprForm := parseStmtString(t, "using (stream) { }").(*ast.UsingStmt)
	if exprForm.Expr == nil {
		t.Fatalf("using (expr) = %#v, want expression resource", exprForm)
	}
}

func TestYieldStatements(t *testing.T) {
	ret := parseStmtString(t, "yield return x;").(*ast.YieldStmt)
	if ret.Break || ret.Value == nil {
		t.Errorf("yield return = %#v", ret)
	}
	brk := parseStmtString(t, "yield break;").(*ast.YieldStmt)
	if !brk.Break {
		t.Errorf("yield break not marked")
	}

	// yield as a plain identifier stays an expression statement.
	if _, ok := parseStmtString(t, "yield = 1;").(*ast.ExpressionStmt); !ok {
		t.Errorf("yield = 1; did not parse as expression statement")
	}
}

func TestGotoForms(t *testing.T) {
	label := parseStmtString(t, "goto done;").(*ast.GotoStmt)
	if label.Label != "done" {
		t.Errorf("goto label = %q", label.Label)
	}
	caseGoto := parseStmtString(t, "goto case 2;").(*ast.GotoStmt)
	if caseGoto.CaseValue == nil {
		t.Errorf("goto case value missing")
	}
	def := parseStmtString(t, "goto default;").(*ast.GotoStmt)
	if !def.Default {
		t.Errorf("goto default not marked")
	}
}

func TestLabeledStatement(t *testing.T) {
	stmt := parseStmtString(t, "retry: Connect();").(*ast.LabeledStmt)
	if stmt.Label != "retry" {
		t.Errorf("label = %q, want retry", stmt.Label)
	}
}

func TestLocalFunction(t *testing.T) {
	stmt := parseStmtString(t, "static int Add(int a, int b) => a + b;")
	fn, ok := stmt.(*ast.LocalFunctionStmt)
	if !ok {
		t.Fatalf("root = %T, want local function", stmt)
	}
	if fn.Name != "Add" || len(fn.Parameters) != 2 || fn.ExprBody == nil {
		t.Fatalf("local function = %#v", fn)
	}
	if !ast.HasModifier(fn.Modifiers, ast.ModStatic) {
		t.Errorf("static modifier missing")
	}

	generic := parseStmtString(t, "T Identity<T>(T v) where T : class { return v; }").(*ast.LocalFunctionStmt)
	if len(generic.TypeParams) != 1 || len(generic.Constraints) != 1 {
		t.Fatalf("generic local function = %#v", generic)
	}
}

func TestBlockRecoverySkipsBadStatement(t *testing.T) {
	p := NewParser()
	rest, block, err := p.parseBlock(source.NewSpan("{ int x = ; int y = 2; }"))
	if err != nil {
		t.Fatalf("parseBlock: %v", err)
	}
	if !p.ws(rest).EOF() {
		t.Fatalf("trailing input %q", rest.Rest())
	}
	if len(block.Statements) != 1 {
		t.Fatalf("statements = %d, want 1 after recovery", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.LocalDeclStmt); !ok {
		t.Errorf("surviving statement = %T, want local decl", block.Statements[0])
	}
}

func TestBlockRecoveryRespectsNesting(t *testing.T) {
	// The bad statement contains a braced initializer with its own
	// semicolon-free commas; recovery must skip the whole construct,
	// not resynchronize inside it.
	p := NewParser()
	_, block, err := p.parseBlock(source.NewSpan("{ bad bad bad (new[] { 1, 2 }; ok();) ; Fine(); }"))
	if err != nil {
		t.Fatalf("parseBlock: %v", err)
	}
	found := false
	for _, s := range block.Statements {
		if es, ok := s.(*ast.ExpressionStmt); ok {
			if inv, ok := es.Expr.(*ast.InvocationExpr); ok {
				if name, ok := inv.Callee.(*ast.NameExpr); ok && name.Parts[0] == "Fine" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("Fine() call lost during recovery: %#v", block.Statements)
	}
}

func TestStrictModePropagatesFailure(t *testing.T) {
	p := NewStrictParser()
	if _, _, err := p.parseBlock(source.NewSpan("{ int x = ; }")); err == nil {
		t.Fatalf("strict parseBlock succeeded on bad input")
	}

	// A committed if with no body is an error even though the prefix
	// up to the condition is well formed.
	if _, _, err := ParseStrict("if (x > 0)"); err == nil {
		t.Fatalf("strict parse of bodyless if succeeded")
	}
}

func TestCheckedAndUnsafeStatements(t *testing.T) {
	checked := parseStmtString(t, "checked { x++; }").(*ast.CheckedStmt)
	if checked.Unchecked {
		t.Errorf("checked marked unchecked")
	}
	unchecked := parseStmtString(t, "unchecked { x--; }").(*ast.CheckedStmt)
	if !unchecked.Unchecked {
		t.Errorf("unchecked not marked")
	}
	if _, ok := parseStmtString(t, "unsafe { }").(*ast.UnsafeStmt); !ok {
		t.Errorf("unsafe block did not parse")
	}
}
