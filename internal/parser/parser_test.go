package parser

import (
	"strings"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"_foo123", "_foo123", true},
		{"camelCase rest", "camelCase", true},
		{"@class", "class", true},
		{"int", "", false},
		{"while", "", false},
		{"9lives", "", false},
	}
	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, name, err := p.ident(source.NewSpan(tt.input))
			if tt.ok != (err == nil) {
				t.Fatalf("ident(%q) err = %v, want ok=%v", tt.input, err, tt.ok)
			}
			if tt.ok && name != tt.want {
				t.Errorf("name = %q, want %q", name, tt.want)
			}
		})
	}
}

func TestUsingDirectives(t *testing.T) {
	unit, _, err := Parse(`
		using System;
		global using System.Text;
		using static System.Math;
		using IntList = System.Collections.Generic.List;
		class C { }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(unit.Usings) != 4 {
		t.Fatalf("usings = %d, want 4", len(unit.Usings))
	}
	if !unit.Usings[1].Global {
		t.Errorf("using 1 not global")
	}
	if !unit.Usings[2].Static {
		t.Errorf("using 2 not static")
	}
	alias := unit.Usings[3]
	if alias.Alias != "IntList" || len(alias.Target) != 4 {
		t.Errorf("alias using = %#v", alias)
	}
	if len(unit.Declarations) != 1 {
		t.Errorf("declarations = %d, want 1", len(unit.Declarations))
	}
}

func TestBlockNamespace(t *testing.T) {
	unit, spans, err := Parse(`namespace App.Core {
		using System;
		class Engine { void Run() { } }
		namespace Nested { class Inner { } }
	}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ns := unit.Declarations[0].(*ast.NamespaceDecl)
	if len(ns.Name) != 2 || len(ns.Usings) != 1 || len(ns.Members) != 2 {
		t.Fatalf("namespace = %#v", ns)
	}
	if _, ok := spans.Lookup("class::App.Core::Engine"); !ok {
		t.Errorf("missing span key class::App.Core::Engine; have %v", spans.Keys())
	}
	if _, ok := spans.Lookup("class::App.Core.Nested::Inner"); !ok {
		t.Errorf("missing nested namespace class key; have %v", spans.Keys())
	}
}

func TestFileScopedNamespace(t *testing.T) {
	unit, spans, err := Parse("namespace App;\nclass C { void F() { } }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if unit.FileScopedNamespace == nil || unit.FileScopedNamespace.Name[0] != "App" {
		t.Fatalf("file-scoped namespace = %#v", unit.FileScopedNamespace)
	}
	if _, ok := spans.Lookup("class::App::C"); !ok {
		t.Errorf("missing span key class::App::C; have %v", spans.Keys())
	}
	if _, ok := spans.Lookup("method::App::C::F"); !ok {
		t.Errorf("missing span key method::App::C::F; have %v", spans.Keys())
	}
}

func TestGlobalAttributes(t *testing.T) {
	unit, _, err := Parse(`[assembly: AssemblyVersion("1.0")]
		class C { }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(unit.GlobalAttributes) != 1 || unit.GlobalAttributes[0].Target != "assembly" {
		t.Fatalf("global attributes = %#v", unit.GlobalAttributes)
	}
}

func TestTopLevelStatements(t *testing.T) {
	unit, _, err := Parse(`
		using System;
		var total = 0;
		for (int i = 0; i < 5; i++) total += i;
		Console.WriteLine(total);`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(unit.TopLevelStatements) != 3 {
		t.Fatalf("top-level statements = %d, want 3", len(unit.TopLevelStatements))
	}
}

func TestShebangIsTrivia(t *testing.T) {
	unit, _, err := Parse("#!/usr/bin/env bsharp\nclass C { }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(unit.Declarations) != 1 {
		t.Fatalf("declarations = %d, want 1", len(unit.Declarations))
	}
}

func TestPreprocessorLinesAreTrivia(t *testing.T) {
	unit, _, err := Parse(`#define TRACE
class C {
#if TRACE
	void F() { }
#endif
}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cls := unit.Declarations[0].(*ast.ClassDecl)
	if len(cls.Members) != 1 {
		t.Fatalf("members = %d, want 1", len(cls.Members))
	}
}

func TestStrictRejectsTrailingInput(t *testing.T) {
	if _, _, err := ParseStrict("class C { } ???"); err == nil {
		t.Fatalf("strict parse accepted trailing garbage")
	}
	if _, _, err := ParseStrict("class C { }  \n\t"); err != nil {
		t.Fatalf("strict parse rejected trailing whitespace: %v", err)
	}
}

func TestLenientYieldsPrefix(t *testing.T) {
	unit, _, err := Parse("class C { } ???")
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if len(unit.Declarations) != 1 {
		t.Fatalf("declarations = %d, want 1", len(unit.Declarations))
	}
}

func TestLenientTopLevelRecovery(t *testing.T) {
	// Garbage between declarations is skipped past its ; boundary.
	unit, _, err := Parse("class A { } ??? ; class B { }")
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if len(unit.Declarations) != 2 {
		t.Fatalf("declarations = %d, want 2", len(unit.Declarations))
	}

	// With no enclosing brace open, a stray } is garbage rather than
	// a recovery boundary.
	unit, _, err = Parse("class A { } } ; class B { }")
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if len(unit.Declarations) != 2 {
		t.Fatalf("declarations = %d, want 2", len(unit.Declarations))
	}
}

// TestParseTotality feeds hostile inputs through both modes; the only
// requirement is that no input panics or loops.
func TestParseTotality(t *testing.T) {
	inputs := []string{
		"",
		";;;",
		"}}}{{{",
		"class",
		"class {",
		"class C { void F( }",
		"\"unterminated",
		"'",
		"/* unclosed comment",
		"@",
		"((((((((((",
		"x ?? ?? y",
		"new new new",
		"namespace",
		"namespace A.B {",
		"0x",
		"$\"{",
		"\x00\x01\x02",
		strings.Repeat("[", 2000),
		strings.Repeat("a.", 2000) + "b",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if unit, _, _ := Parse(input); unit == nil {
				t.Fatalf("lenient parse returned nil unit")
			}
			ParseStrict(input)
		})
	}
}

func TestSpanTableCollisions(t *testing.T) {
	_, spans, err := Parse("class C { void F() { } void F(int x) { } }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := spans.Lookup("method::C::F"); !ok {
		t.Errorf("missing first overload key")
	}
	if _, ok := spans.Lookup("method::C::F#2"); !ok {
		t.Errorf("missing #2 overload key; have %v", spans.Keys())
	}
}

func TestSpanTableRanges(t *testing.T) {
	input := "class C { }"
	_, spans, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, ok := spans.Lookup("class::C")
	if !ok {
		t.Fatalf("missing class::C; have %v", spans.Keys())
	}
	if r.Start != 0 || r.End != len(input) {
		t.Errorf("range = %v, want 0..%d", r, len(input))
	}
}

func TestSpanTableKeysSorted(t *testing.T) {
	_, spans, err := Parse("class B { } class A { } enum E { X }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	keys := spans.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
	if len(keys) != 3 {
		t.Fatalf("keys = %v, want 3 entries", keys)
	}
}

func TestParserReuse(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseCompilationUnit("class A { }"); err != nil {
		t.Fatalf("first parse: %v", err)
	}
	if _, err := p.ParseCompilationUnit("class B { }"); err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if _, ok := p.Spans().Lookup("class::A"); ok {
		t.Errorf("span table kept entries across parses")
	}
	if _, ok := p.Spans().Lookup("class::B"); !ok {
		t.Errorf("span table missing entry from last parse")
	}
}
