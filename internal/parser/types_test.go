package parser

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

func parseTypeString(t *testing.T, input string) ast.TypeNode {
	t.Helper()
	p := NewParser()
	rest, typ, err := p.parseType(source.NewSpan(input))
	if err != nil {
		t.Fatalf("parseType(%q): %v", input, err)
	}
	if !p.ws(rest).EOF() {
		t.Fatalf("parseType(%q): trailing input %q", input, rest.Rest())
	}
	return typ
}

func TestPrimitiveTypes(t *testing.T) {
	for input, kind := range map[string]ast.PrimitiveKind{
		"int":    ast.PrimInt,
		"string": ast.PrimString,
		"void":   ast.PrimVoid,
		"nuint":  ast.PrimNUInt,
	} {
		prim, ok := parseTypeString(t, input).(*ast.PrimitiveType)
		if !ok || prim.Kind != kind {
			t.Errorf("parseType(%q) = %#v, want primitive %v", input, prim, kind)
		}
	}
}

func TestCompositeTypes(t *testing.T) {
	nullable := parseTypeString(t, "int?").(*ast.NullableType)
	if _, ok := nullable.Element.(*ast.PrimitiveType); !ok {
		t.Errorf("nullable element = %T", nullable.Element)
	}

	arr := parseTypeString(t, "string[,]").(*ast.ArrayType)
	if arr.Rank != 2 {
		t.Errorf("rank = %d, want 2", arr.Rank)
	}

	jagged := parseTypeString(t, "int[][]").(*ast.ArrayType)
	if _, ok := jagged.Element.(*ast.ArrayType); !ok {
		t.Errorf("jagged element = %T, want array", jagged.Element)
	}

	ptr := parseTypeString(t, "byte*").(*ast.PointerType)
	if _, ok := ptr.Element.(*ast.PrimitiveType); !ok {
		t.Errorf("pointer element = %T", ptr.Element)
	}

	// Suffixes stack outward: int?[] is an array of nullable ints.
	mixed := parseTypeString(t, "int?[]").(*ast.ArrayType)
	if _, ok := mixed.Element.(*ast.NullableType); !ok {
		t.Errorf("int?[] element = %T, want nullable", mixed.Element)
	}
}

func TestNamedAndGenericTypes(t *testing.T) {
	named := parseTypeString(t, "System.Collections.Generic.List<int>").(*ast.NamedType)
	if len(named.Parts) != 4 || len(named.TypeArgs) != 1 {
		t.Fatalf("named = %#v", named)
	}

	nested := parseTypeString(t, "Dictionary<string, List<int>>").(*ast.NamedType)
	if len(nested.TypeArgs) != 2 {
		t.Fatalf("type args = %d, want 2", len(nested.TypeArgs))
	}
	inner, ok := nested.TypeArgs[1].(*ast.NamedType)
	if !ok || len(inner.TypeArgs) != 1 {
		t.Fatalf("inner arg = %#v, want List<int>", nested.TypeArgs[1])
	}

	global := parseTypeString(t, "global::System.String").(*ast.NamedType)
	if !global.Global || len(global.Parts) != 2 {
		t.Fatalf("global type = %#v", global)
	}
}

func TestTupleType(t *testing.T) {
	tup := parseTypeString(t, "(int Count, string Name)").(*ast.TupleType)
	if len(tup.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(tup.Elements))
	}
	if tup.Elements[0].Name != "Count" {
		t.Errorf("element 0 name = %q", tup.Elements[0].Name)
	}

	p := NewParser()
	if _, _, err := p.parseType(source.NewSpan("(int)")); err == nil {
		t.Errorf("single-element tuple type parsed, want failure")
	}
}

func TestFunctionPointerType(t *testing.T) {
	fp := parseTypeString(t, "delegate*<int, bool>").(*ast.FunctionPointerType)
	if fp.Unmanaged || len(fp.Parameters) != 2 {
		t.Fatalf("function pointer = %#v", fp)
	}
	un := parseTypeString(t, "delegate* unmanaged<void>").(*ast.FunctionPointerType)
	if !un.Unmanaged {
		t.Errorf("unmanaged flag missing")
	}
}

func TestRefTypes(t *testing.T) {
	ref := parseTypeString(t, "ref readonly int").(*ast.RefType)
	if !ref.Readonly {
		t.Errorf("readonly flag missing")
	}
}

func TestInferredAndDynamic(t *testing.T) {
	if _, ok := parseTypeString(t, "var").(*ast.InferredType); !ok {
		t.Errorf("var did not parse as inferred type")
	}
	if _, ok := parseTypeString(t, "dynamic").(*ast.DynamicType); !ok {
		t.Errorf("dynamic did not parse as dynamic type")
	}
}
