package parser

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

func parseExprString(t *testing.T, input string) ast.Expression {
	t.Helper()
	p := NewParser()
	rest, expr, err := p.parseExpression(source.NewSpan(input))
	if err != nil {
		t.Fatalf("parseExpression(%q): %v", input, err)
	}
	if !p.ws(rest).EOF() {
		t.Fatalf("parseExpression(%q): trailing input %q", input, rest.Rest())
	}
	return expr
}

func TestBinaryPrecedence(t *testing.T) {
	expr := parseExprString(t, "a + b * c")
	add, ok := expr.(*ast.BinaryExpr)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("root = %T, want + binary", expr)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("right = %T, want * binary", add.Right)
	}
}

func TestBinaryLeftAssociativity(t *testing.T) {
	expr := parseExprString(t, "a - b - c")
	outer := expr.(*ast.BinaryExpr)
	if outer.Op != ast.OpSub {
		t.Fatalf("op = %v, want -", outer.Op)
	}
	if _, ok := outer.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("left = %T, want nested - binary", outer.Left)
	}
}

func TestCoalesceRightAssociativity(t *testing.T) {
	expr := parseExprString(t, "a ?? b ?? c")
	outer := expr.(*ast.BinaryExpr)
	if outer.Op != ast.OpCoalesce {
		t.Fatalf("op = %v, want ??", outer.Op)
	}
	if _, ok := outer.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("right = %T, want nested ?? binary", outer.Right)
	}
}

func TestCoalesceThrowExpression(t *testing.T) {
	expr := parseExprString(t, "a ?? throw new E()")
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpCoalesce {
		t.Fatalf("root = %T, want ?? binary", expr)
	}
	th, ok := bin.Right.(*ast.ThrowExpr)
	if !ok {
		t.Fatalf("right = %T, want throw", bin.Right)
	}
	if _, ok := th.Operand.(*ast.NewExpr); !ok {
		t.Errorf("throw operand = %T, want new", th.Operand)
	}
}

func TestQualifiedNames(t *testing.T) {
	name, ok := parseExprString(t, "System.Console.WriteLine").(*ast.NameExpr)
	if !ok || len(name.Parts) != 3 || name.Parts[2] != "WriteLine" {
		t.Fatalf("System.Console.WriteLine = %#v, want 3-part name", name)
	}

	// a..b is a range, never a qualified name.
	if _, ok := parseExprString(t, "a..b").(*ast.RangeExpr); !ok {
		t.Fatalf("a..b did not parse as a range")
	}

	// Type arguments bind to the final segment.
	call, ok := parseExprString(t, "Util.Max<int>(a, b)").(*ast.InvocationExpr)
	if !ok {
		t.Fatalf("Util.Max<int>(a, b) did not parse as invocation")
	}
	callee := call.Callee.(*ast.NameExpr)
	if len(callee.Parts) != 2 || len(callee.TypeArgs) != 1 {
		t.Fatalf("callee = %#v, want 2 parts and 1 type arg", callee)
	}
}

func TestAssignmentRightAssociativity(t *testing.T) {
	expr := parseExprString(t, "a = b = c")
	outer, ok := expr.(*ast.AssignmentExpr)
	if !ok {
		t.Fatalf("root = %T, want assignment", expr)
	}
	if _, ok := outer.Value.(*ast.AssignmentExpr); !ok {
		t.Fatalf("value = %T, want nested assignment", outer.Value)
	}
}

func TestCompoundAssignments(t *testing.T) {
	tests := []struct {
		input string
		op    ast.AssignOp
	}{
		{"x += 1", ast.AssignAdd},
		{"x <<= 2", ast.AssignShiftL},
		{"x >>>= 3", ast.AssignShiftRU},
		{"x ??= y", ast.AssignCoalesce},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExprString(t, tt.input)
			assign, ok := expr.(*ast.AssignmentExpr)
			if !ok {
				t.Fatalf("root = %T, want assignment", expr)
			}
			if assign.Op != tt.op {
				t.Errorf("op = %v, want %v", assign.Op, tt.op)
			}
		})
	}
}

func TestCastVersusParen(t *testing.T) {
	if expr := parseExprString(t, "(int)x"); true {
		cast, ok := expr.(*ast.CastExpr)
		if !ok {
			t.Fatalf("(int)x = %T, want cast", expr)
		}
		if _, ok := cast.Target.(*ast.PrimitiveType); !ok {
			t.Errorf("cast target = %T, want primitive", cast.Target)
		}
	}

	if expr := parseExprString(t, "(x)"); true {
		if _, ok := expr.(*ast.NameExpr); !ok {
			t.Fatalf("(x) = %T, want bare name", expr)
		}
	}

	// (x) + y must stay addition: a parenthesized name followed by a
	// binary operator is not a cast.
	if expr := parseExprString(t, "(x) + y"); true {
		bin, ok := expr.(*ast.BinaryExpr)
		if !ok || bin.Op != ast.OpAdd {
			t.Fatalf("(x) + y = %T, want + binary", expr)
		}
	}

	// A certain type commits even before a sign.
	if expr := parseExprString(t, "(int)-x"); true {
		if _, ok := expr.(*ast.CastExpr); !ok {
			t.Fatalf("(int)-x = %T, want cast", expr)
		}
	}
}

func TestConditionalVersusNullable(t *testing.T) {
	expr := parseExprString(t, "x is X ? global::X.Y.Z : default")
	cond, ok := expr.(*ast.ConditionalExpr)
	if !ok {
		t.Fatalf("root = %T, want conditional", expr)
	}
	is, ok := cond.Cond.(*ast.IsPatternExpr)
	if !ok {
		t.Fatalf("cond = %T, want is-pattern", cond.Cond)
	}
	if _, ok := is.Pattern.(*ast.TypePattern); !ok {
		t.Errorf("pattern = %T, want type pattern", is.Pattern)
	}
	name, ok := cond.Then.(*ast.NameExpr)
	if !ok || !name.Global || len(name.Parts) != 3 {
		t.Errorf("then = %#v, want global::X.Y.Z", cond.Then)
	}
	if _, ok := cond.Else.(*ast.DefaultExpr); !ok {
		t.Errorf("else = %T, want default", cond.Else)
	}
}

func TestIsNullableType(t *testing.T) {
	// At end of input the ? reads as a nullable type, not a conditional.
	expr := parseExprString(t, "x is int?")
	is := expr.(*ast.IsPatternExpr)
	tp := is.Pattern.(*ast.TypePattern)
	if _, ok := tp.Type.(*ast.NullableType); !ok {
		t.Fatalf("type = %T, want nullable", tp.Type)
	}
}

func TestSwitchExpression(t *testing.T) {
	expr := parseExprString(t, "x switch { 1 => 10, _ => 20 }")
	sw, ok := expr.(*ast.SwitchExpr)
	if !ok {
		t.Fatalf("root = %T, want switch expression", expr)
	}
	if len(sw.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(sw.Arms))
	}
	if _, ok := sw.Arms[0].Pattern.(*ast.ConstantPattern); !ok {
		t.Errorf("arm 0 pattern = %T, want constant", sw.Arms[0].Pattern)
	}
	if _, ok := sw.Arms[1].Pattern.(*ast.DiscardPattern); !ok {
		t.Errorf("arm 1 pattern = %T, want discard", sw.Arms[1].Pattern)
	}
}

func TestSwitchExpressionGuard(t *testing.T) {
	expr := parseExprString(t, "x switch { var n when n > 0 => n, _ => 0 }")
	sw := expr.(*ast.SwitchExpr)
	if sw.Arms[0].When == nil {
		t.Fatalf("arm 0 has no guard")
	}
}

func TestRangeExpressions(t *testing.T) {
	expr := parseExprString(t, "1..5")
	r, ok := expr.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("1..5 = %T, want range", expr)
	}
	if r.Low == nil || r.High == nil {
		t.Fatalf("bounds = %v..%v, want both set", r.Low, r.High)
	}

	open := parseExprString(t, "..").(*ast.RangeExpr)
	if open.Low != nil || open.High != nil {
		t.Fatalf(".. has bounds, want none")
	}
}

func TestIndexFromEnd(t *testing.T) {
	expr := parseExprString(t, "arr[1..^1]")
	access, ok := expr.(*ast.ElementAccessExpr)
	if !ok {
		t.Fatalf("root = %T, want element access", expr)
	}
	r, ok := access.Indexes[0].(*ast.RangeExpr)
	if !ok {
		t.Fatalf("index = %T, want range", access.Indexes[0])
	}
	if _, ok := r.High.(*ast.IndexFromEndExpr); !ok {
		t.Errorf("high = %T, want index-from-end", r.High)
	}
}

func TestPostfixChains(t *testing.T) {
	expr := parseExprString(t, "a.b.c(1).d[2]")
	access, ok := expr.(*ast.ElementAccessExpr)
	if !ok {
		t.Fatalf("root = %T, want element access", expr)
	}
	member, ok := access.Target.(*ast.MemberAccessExpr)
	if !ok || member.Member != "d" {
		t.Fatalf("target = %T, want .d access", access.Target)
	}
	if _, ok := member.Target.(*ast.InvocationExpr); !ok {
		t.Fatalf("inner = %T, want invocation", member.Target)
	}
}

func TestNullConditional(t *testing.T) {
	expr := parseExprString(t, "x?.Length")
	nc, ok := expr.(*ast.NullConditionalExpr)
	if !ok || nc.Member != "Length" {
		t.Fatalf("x?.Length = %T/%v, want null-conditional .Length", expr, expr)
	}

	elem := parseExprString(t, "x?[0]").(*ast.NullConditionalExpr)
	if elem.Member != "" || len(elem.Indexes) != 1 {
		t.Fatalf("x?[0] = %#v, want element form", elem)
	}
}

func TestNullForgiving(t *testing.T) {
	expr := parseExprString(t, "x!.y")
	member := expr.(*ast.MemberAccessExpr)
	post, ok := member.Target.(*ast.PostfixUnaryExpr)
	if !ok || post.Op != ast.OpNullForgiving {
		t.Fatalf("target = %T, want null-forgiving postfix", member.Target)
	}

	// != must never split into ! and =.
	if expr := parseExprString(t, "a != b"); true {
		bin, ok := expr.(*ast.BinaryExpr)
		if !ok || bin.Op != ast.OpNotEqual {
			t.Fatalf("a != b = %T, want != binary", expr)
		}
	}
}

func TestGenericInvocationDisambiguation(t *testing.T) {
	// Foo<int>(x) is a generic call.
	expr := parseExprString(t, "Foo<int>(x)")
	call, ok := expr.(*ast.InvocationExpr)
	if !ok {
		t.Fatalf("root = %T, want invocation", expr)
	}
	name := call.Callee.(*ast.NameExpr)
	if len(name.TypeArgs) != 1 {
		t.Fatalf("type args = %d, want 1", len(name.TypeArgs))
	}

	// a < b > c remains chained comparison, not a generic name.
	cmp := parseExprString(t, "a < b > c")
	bin, ok := cmp.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpGreater {
		t.Fatalf("a < b > c = %T %v, want > binary", cmp, cmp)
	}
}

func TestLambdaExpressions(t *testing.T) {
	expr := parseExprString(t, "(a, b) => a + b")
	lam, ok := expr.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("root = %T, want lambda", expr)
	}
	if len(lam.Parameters) != 2 || lam.ExprBody == nil {
		t.Fatalf("params = %d exprBody = %v", len(lam.Parameters), lam.ExprBody)
	}

	simple := parseExprString(t, "x => x * 2").(*ast.LambdaExpr)
	if len(simple.Parameters) != 1 || simple.Parameters[0].Name != "x" {
		t.Fatalf("simple lambda params = %#v", simple.Parameters)
	}

	async := parseExprString(t, "async () => await t").(*ast.LambdaExpr)
	if !async.Async {
		t.Fatalf("async lambda not marked async")
	}

	block := parseExprString(t, "() => { return 1; }").(*ast.LambdaExpr)
	if block.Body == nil {
		t.Fatalf("block lambda has no body")
	}
}

func TestParenExprIsNotLambda(t *testing.T) {
	// (a) alone stays a parenthesized name.
	if _, ok := parseExprString(t, "(a)").(*ast.NameExpr); !ok {
		t.Fatalf("(a) did not parse as a name")
	}
}

func TestNewExpressions(t *testing.T) {
	expr := parseExprString(t, "new List<int> { 1, 2 }")
	n, ok := expr.(*ast.NewExpr)
	if !ok {
		t.Fatalf("root = %T, want new", expr)
	}
	if len(n.CollectionInit) != 2 {
		t.Fatalf("collection init = %d, want 2", len(n.CollectionInit))
	}

	obj := parseExprString(t, "new Point(1, 2) { X = 3 }").(*ast.NewExpr)
	if len(obj.Arguments) != 2 || len(obj.ObjectInit) != 1 {
		t.Fatalf("args = %d inits = %d, want 2 and 1", len(obj.Arguments), len(obj.ObjectInit))
	}

	arr := parseExprString(t, "new int[10]").(*ast.NewExpr)
	if len(arr.ArrayLengths) != 1 {
		t.Fatalf("array lengths = %d, want 1", len(arr.ArrayLengths))
	}

	targetTyped := parseExprString(t, "new(1, 2)").(*ast.NewExpr)
	if targetTyped.Type != nil || len(targetTyped.Arguments) != 2 {
		t.Fatalf("target-typed new = %#v", targetTyped)
	}
}

func TestTupleExpression(t *testing.T) {
	expr := parseExprString(t, "(1, two: 2)")
	tup, ok := expr.(*ast.TupleExpr)
	if !ok {
		t.Fatalf("root = %T, want tuple", expr)
	}
	if len(tup.Elements) != 2 || tup.Elements[1].Name != "two" {
		t.Fatalf("elements = %#v", tup.Elements)
	}
}

func TestQueryExpression(t *testing.T) {
	expr := parseExprString(t, "from x in xs where x > 0 orderby x descending select x * 2")
	q, ok := expr.(*ast.QueryExpr)
	if !ok {
		t.Fatalf("root = %T, want query", expr)
	}
	if len(q.Clauses) != 4 {
		t.Fatalf("clauses = %d, want 4", len(q.Clauses))
	}
	ob, ok := q.Clauses[2].(*ast.OrderByClause)
	if !ok || !ob.Orderings[0].Descending {
		t.Fatalf("clause 2 = %T, want descending orderby", q.Clauses[2])
	}
	if _, ok := q.Clauses[3].(*ast.SelectClause); !ok {
		t.Fatalf("clause 3 = %T, want select", q.Clauses[3])
	}
}

func TestFromAsPlainIdentifier(t *testing.T) {
	// A variable named from must not start a query.
	expr := parseExprString(t, "from + 1")
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("from + 1 = %T, want + binary", expr)
	}
}

func TestAwaitExpression(t *testing.T) {
	expr := parseExprString(t, "await t.RunAsync()")
	if _, ok := expr.(*ast.AwaitExpr); !ok {
		t.Fatalf("root = %T, want await", expr)
	}

	// await as an ordinary identifier still works.
	name := parseExprString(t, "await")
	if _, ok := name.(*ast.NameExpr); !ok {
		t.Fatalf("bare await = %T, want name", name)
	}
}

func TestIsAsOperators(t *testing.T) {
	as, ok := parseExprString(t, "x as string").(*ast.AsExpr)
	if !ok {
		t.Fatalf("x as string did not parse as as-expression")
	}
	if _, ok := as.Target.(*ast.PrimitiveType); !ok {
		t.Errorf("as target = %T, want primitive", as.Target)
	}

	is := parseExprString(t, "x is > 10 and < 20").(*ast.IsPatternExpr)
	if _, ok := is.Pattern.(*ast.AndPattern); !ok {
		t.Errorf("pattern = %T, want and-pattern", is.Pattern)
	}
}

func TestTypeOperatorExpressions(t *testing.T) {
	if e := parseExprString(t, "typeof(int)"); true {
		if _, ok := e.(*ast.TypeofExpr); !ok {
			t.Errorf("typeof(int) = %T", e)
		}
	}
	if e := parseExprString(t, "sizeof(long)"); true {
		if _, ok := e.(*ast.SizeofExpr); !ok {
			t.Errorf("sizeof(long) = %T", e)
		}
	}
	if e := parseExprString(t, "nameof(x.y)"); true {
		if _, ok := e.(*ast.NameofExpr); !ok {
			t.Errorf("nameof(x.y) = %T", e)
		}
	}
	if e := parseExprString(t, "default(string)"); true {
		d, ok := e.(*ast.DefaultExpr)
		if !ok || d.Target == nil {
			t.Errorf("default(string) = %T", e)
		}
	}
}

func TestCommentsAreTrivia(t *testing.T) {
	expr := parseExprString(t, "a /* mid */ + // line\n b")
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("root = %T, want + binary", expr)
	}
}
