package vmir

import (
	"errors"
	"strings"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/parser"
)

func lowerUnit(t *testing.T, input string) *Module {
	t.Helper()
	unit, _, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mod, err := Lower("test", unit)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return mod
}

func lowerOne(t *testing.T, input string) *Function {
	t.Helper()
	mod := lowerUnit(t, input)
	if len(mod.Functions) != 1 {
		t.Fatalf("functions = %d, want 1", len(mod.Functions))
	}
	return mod.Functions[0]
}

func TestLowerExpressionBody(t *testing.T) {
	fn := lowerOne(t, "class C { int Add(int a, int b) => a + b; }")
	want := "func Add(a, b)\n" +
		"  r0 = load a\n" +
		"  r1 = load b\n" +
		"  r2 = add r0, r1\n" +
		"  ret r2\n"
	if fn.String() != want {
		t.Errorf("lowered:\n%s\nwant:\n%s", fn.String(), want)
	}
	if fn.Regs != 3 {
		t.Errorf("regs = %d, want 3", fn.Regs)
	}
}

func TestLowerIfReturn(t *testing.T) {
	fn := lowerOne(t, `class C {
		int Max(int a, int b) {
			if (a > b) { return a; }
			return b;
		}
	}`)
	want := "func Max(a, b)\n" +
		"  r0 = load a\n" +
		"  r1 = load b\n" +
		"  r2 = gt r0, r1\n" +
		"  br r2, L1, L2\n" +
		"L1:\n" +
		"  r3 = load a\n" +
		"  ret r3\n" +
		"L2:\n" +
		"  r4 = load b\n" +
		"  ret r4\n"
	if fn.String() != want {
		t.Errorf("lowered:\n%s\nwant:\n%s", fn.String(), want)
	}
}

func TestLowerWhileLoop(t *testing.T) {
	fn := lowerOne(t, `class C {
		int Sum(int n) {
			int s = 0;
			int i = 0;
			while (i < n) { s += i; i++; }
			return s;
		}
	}`)
	stores, branches, jumps := 0, 0, 0
	for _, in := range fn.Code {
		switch in.(type) {
		case StoreVar:
			stores++
		case Branch:
			branches++
		case Jump:
			jumps++
		}
	}
	if stores != 4 {
		t.Errorf("stores = %d, want 4\n%s", stores, fn)
	}
	if branches != 1 || jumps != 1 {
		t.Errorf("branches = %d, jumps = %d, want 1 and 1\n%s", branches, jumps, fn)
	}
	if !isRet(fn.Code[len(fn.Code)-1]) {
		t.Errorf("function does not end in ret:\n%s", fn)
	}
}

func TestLowerCallStatementDiscardsResult(t *testing.T) {
	fn := lowerOne(t, "class C { void Go() { Log(1); } }")
	want := "func Go()\n" +
		"  r0 = const 1\n" +
		"  call Log(r0)\n" +
		"  ret\n"
	if fn.String() != want {
		t.Errorf("lowered:\n%s\nwant:\n%s", fn.String(), want)
	}
}

func TestLowerDottedCallee(t *testing.T) {
	fn := lowerOne(t, `class C { void Go(string m) { Console.Out.WriteLine(m); } }`)
	out := fn.String()
	if !strings.Contains(out, "call Console.Out.WriteLine(r0)") {
		t.Errorf("lowered:\n%s", out)
	}
}

func TestLowerShortCircuit(t *testing.T) {
	fn := lowerOne(t, "class C { bool Both(bool p, bool q) => p && q; }")
	out := fn.String()
	if !strings.Contains(out, "br r0, L1, L2") {
		t.Errorf("missing short-circuit branch:\n%s", out)
	}
	if !strings.Contains(out, "ret r1") {
		t.Errorf("result register not returned:\n%s", out)
	}
}

func TestLowerConditional(t *testing.T) {
	fn := lowerOne(t, "class C { int Pick(bool c, int a, int b) => c ? a : b; }")
	out := fn.String()
	if !strings.Contains(out, "br r0, L1, L2") || !strings.Contains(out, "jmp L3") {
		t.Errorf("conditional shape wrong:\n%s", out)
	}
}

func TestLowerCompoundAssignment(t *testing.T) {
	fn := lowerOne(t, "class C { void Bump(int x) { x += 2; } }")
	want := "func Bump(x)\n" +
		"  r0 = const 2\n" +
		"  r1 = load x\n" +
		"  r2 = add r1, r0\n" +
		"  store x, r2\n" +
		"  ret\n"
	if fn.String() != want {
		t.Errorf("lowered:\n%s\nwant:\n%s", fn.String(), want)
	}
}

func TestLowerUnsupportedConstruct(t *testing.T) {
	unit, _, err := parser.Parse("class C { void R(int[] xs) { foreach (var x in xs) { } } }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Lower("test", unit)
	if err == nil {
		t.Fatalf("foreach lowered without error")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("error is %T, want CompileError", err)
	}
	if ce.Construct != "foreach statement" {
		t.Errorf("construct = %q", ce.Construct)
	}
	if !strings.HasPrefix(err.Error(), "R: ") {
		t.Errorf("error not wrapped with method name: %v", err)
	}
}

func TestLowerSkipsBodylessMethods(t *testing.T) {
	mod := lowerUnit(t, `interface I { void A(); }
		class C { void B() { } }`)
	if len(mod.Functions) != 1 || mod.Functions[0].Name != "B" {
		t.Fatalf("functions = %+v, want only B", mod.Functions)
	}
}

func TestLowerMethodDirect(t *testing.T) {
	unit, _, err := parser.Parse("class C { int Neg(int v) => -v; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	methods := ast.FindAll[*ast.MethodDecl](unit)
	if len(methods) != 1 {
		t.Fatalf("methods = %d", len(methods))
	}
	fn, err := LowerMethod(methods[0])
	if err != nil {
		t.Fatalf("LowerMethod: %v", err)
	}
	want := "func Neg(v)\n" +
		"  r0 = load v\n" +
		"  r1 = neg r0\n" +
		"  ret r1\n"
	if fn.String() != want {
		t.Errorf("lowered:\n%s\nwant:\n%s", fn.String(), want)
	}
}
