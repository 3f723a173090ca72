package parser

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

func parsePatternString(t *testing.T, input string) ast.Pattern {
	t.Helper()
	p := NewParser()
	rest, pat, err := p.parsePattern(source.NewSpan(input))
	if err != nil {
		t.Fatalf("parsePattern(%q): %v", input, err)
	}
	if !p.ws(rest).EOF() {
		t.Fatalf("parsePattern(%q): trailing input %q", input, rest.Rest())
	}
	return pat
}

func TestPatternKinds(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, pat ast.Pattern)
	}{
		{"42", func(t *testing.T, pat ast.Pattern) {
			if _, ok := pat.(*ast.ConstantPattern); !ok {
				t.Errorf("got %T, want constant", pat)
			}
		}},
		{"-1", func(t *testing.T, pat ast.Pattern) {
			if _, ok := pat.(*ast.ConstantPattern); !ok {
				t.Errorf("got %T, want constant", pat)
			}
		}},
		{"_", func(t *testing.T, pat ast.Pattern) {
			if _, ok := pat.(*ast.DiscardPattern); !ok {
				t.Errorf("got %T, want discard", pat)
			}
		}},
		{"var x", func(t *testing.T, pat ast.Pattern) {
			v, ok := pat.(*ast.VarPattern)
			if !ok || v.Designation.Name != "x" {
				t.Errorf("got %#v, want var x", pat)
			}
		}},
		{"> 10", func(t *testing.T, pat ast.Pattern) {
			r, ok := pat.(*ast.RelationalPattern)
			if !ok || r.Op != ast.OpGreater {
				t.Errorf("got %#v, want > relational", pat)
			}
		}},
		{"string s", func(t *testing.T, pat ast.Pattern) {
			tp, ok := pat.(*ast.TypePattern)
			if !ok || tp.Designation.Name != "s" {
				t.Errorf("got %#v, want typed binding", pat)
			}
		}},
		{"Shape", func(t *testing.T, pat ast.Pattern) {
			if _, ok := pat.(*ast.TypePattern); !ok {
				t.Errorf("got %T, want type test", pat)
			}
		}},
		{"Color.Red", func(t *testing.T, pat ast.Pattern) {
			// A dotted bare name reads as a constant (enum member).
			c, ok := pat.(*ast.ConstantPattern)
			if !ok {
				t.Fatalf("got %T, want constant", pat)
			}
			name, ok := c.Value.(*ast.NameExpr)
			if !ok || len(name.Parts) != 2 {
				t.Errorf("constant value = %#v, want Color.Red name", c.Value)
			}
		}},
		{"not null", func(t *testing.T, pat ast.Pattern) {
			n, ok := pat.(*ast.NotPattern)
			if !ok {
				t.Fatalf("got %T, want not", pat)
			}
			if _, ok := n.Operand.(*ast.ConstantPattern); !ok {
				t.Errorf("operand = %T, want null constant", n.Operand)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tt.check(t, parsePatternString(t, tt.input))
		})
	}
}

func TestCombinatorPrecedence(t *testing.T) {
	// and binds tighter than or.
	pat := parsePatternString(t, "> 0 and < 10 or 99")
	or, ok := pat.(*ast.OrPattern)
	if !ok {
		t.Fatalf("root = %T, want or", pat)
	}
	if _, ok := or.Left.(*ast.AndPattern); !ok {
		t.Fatalf("left = %T, want and", or.Left)
	}
}

func TestPropertyPattern(t *testing.T) {
	pat := parsePatternString(t, "Point { X: 0, Y: > 0 } p")
	prop, ok := pat.(*ast.PropertyPattern)
	if !ok {
		t.Fatalf("root = %T, want property pattern", pat)
	}
	if len(prop.Subpatterns) != 2 {
		t.Fatalf("subpatterns = %d, want 2", len(prop.Subpatterns))
	}
	if prop.Subpatterns[0].Name != "X" {
		t.Errorf("subpattern 0 name = %q", prop.Subpatterns[0].Name)
	}
	if prop.Designation.Name != "p" {
		t.Errorf("designation = %#v, want p", prop.Designation)
	}
}

func TestPositionalPattern(t *testing.T) {
	pat := parsePatternString(t, "Point(0, var y)")
	pos, ok := pat.(*ast.PositionalPattern)
	if !ok {
		t.Fatalf("root = %T, want positional", pat)
	}
	if len(pos.Subpatterns) != 2 {
		t.Fatalf("subpatterns = %d, want 2", len(pos.Subpatterns))
	}

	// Untyped tuple form.
	bare := parsePatternString(t, "(1, 2)").(*ast.PositionalPattern)
	if len(bare.Subpatterns) != 2 {
		t.Fatalf("bare positional = %#v", bare)
	}
}

func TestListPattern(t *testing.T) {
	pat := parsePatternString(t, "[1, .., var last]")
	list, ok := pat.(*ast.ListPattern)
	if !ok {
		t.Fatalf("root = %T, want list", pat)
	}
	if len(list.Elements) != 3 {
		t.Fatalf("elements = %d, want 3", len(list.Elements))
	}
	if !list.Elements[1].Slice {
		t.Errorf("element 1 not a slice")
	}
	if _, ok := list.Elements[2].Pattern.(*ast.VarPattern); !ok {
		t.Errorf("element 2 = %T, want var", list.Elements[2].Pattern)
	}
}

func TestParenthesizedPattern(t *testing.T) {
	pat := parsePatternString(t, "(not null)")
	paren, ok := pat.(*ast.ParenthesizedPattern)
	if !ok {
		t.Fatalf("root = %T, want parenthesized", pat)
	}
	if _, ok := paren.Operand.(*ast.NotPattern); !ok {
		t.Errorf("operand = %T, want not", paren.Operand)
	}
}

func TestDesignationNeverBindsKeywords(t *testing.T) {
	// In "int x and > 0" the word and is a combinator, not a binding.
	pat := parsePatternString(t, "int x and > 0")
	and, ok := pat.(*ast.AndPattern)
	if !ok {
		t.Fatalf("root = %T, want and", pat)
	}
	tp := and.Left.(*ast.TypePattern)
	if tp.Designation.Name != "x" {
		t.Errorf("designation = %#v, want x", tp.Designation)
	}
}
