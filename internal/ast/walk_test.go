package ast

import "testing"

// buildSampleUnit constructs the tree for:
//
//	class C {
//	    int F(int x) { if (x > 0) return x; return -x; }
//	}
func buildSampleUnit() *CompilationUnit {
	body := &BlockStmt{
		Statements: []Statement{
			&IfStmt{
				Cond: &BinaryExpr{
					Left:  &NameExpr{Parts: []string{"x"}},
					Op:    OpGreater,
					Right: &LiteralExpr{Kind: LitInteger, Value: int64(0)},
				},
				Then: &ReturnStmt{Value: &NameExpr{Parts: []string{"x"}}},
			},
			&ReturnStmt{Value: &UnaryExpr{
				Op:      OpNegate,
				Operand: &NameExpr{Parts: []string{"x"}},
			}},
		},
	}
	method := &MethodDecl{
		Return: &PrimitiveType{Kind: PrimInt},
		Name:   "F",
		Parameters: []*Parameter{
			{Type: &PrimitiveType{Kind: PrimInt}, Name: "x"},
		},
		Body: body,
	}
	class := &ClassDecl{Name: "C", Members: []Declaration{method}}
	return &CompilationUnit{Declarations: []Declaration{class}}
}

func TestWalkVisitsAllNodes(t *testing.T) {
	unit := buildSampleUnit()

	visited := 0
	Walk(unit, func(Node) bool {
		visited++
		return true
	})
	// unit, class, method, return type, param, param type, body, if,
	// cond, cond.left, cond.right, then-return, then-value,
	// second return, negate, negate operand.
	if visited != 16 {
		t.Errorf("visited %d nodes, want 16", visited)
	}
}

func TestWalkPrunes(t *testing.T) {
	unit := buildSampleUnit()

	var afterBlock int
	Walk(unit, func(n Node) bool {
		if _, ok := n.(*BlockStmt); ok {
			return false
		}
		afterBlock++
		return true
	})
	// Everything below the method body is pruned.
	if afterBlock != 6 {
		t.Errorf("visited %d nodes with body pruned, want 6", afterBlock)
	}
}

func TestFindAll(t *testing.T) {
	unit := buildSampleUnit()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"returns", len(FindAll[*ReturnStmt](unit)), 2},
		{"names", len(FindAll[*NameExpr](unit)), 3},
		{"methods", len(FindAll[*MethodDecl](unit)), 1},
		{"classes", len(FindAll[*ClassDecl](unit)), 1},
		{"while loops", len(FindAll[*WhileStmt](unit)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("found %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestFindAllPreorder(t *testing.T) {
	unit := buildSampleUnit()

	names := FindAll[*NameExpr](unit)
	if len(names) != 3 {
		t.Fatalf("found %d names, want 3", len(names))
	}
	for i, n := range names {
		if n.Parts[0] != "x" {
			t.Errorf("name %d = %v, want x", i, n.Parts)
		}
	}
}

func TestCount(t *testing.T) {
	unit := buildSampleUnit()
	if got := Count[*IfStmt](unit); got != 1 {
		t.Errorf("Count[*IfStmt] = %d, want 1", got)
	}
	if got := Count[*PrimitiveType](unit); got != 2 {
		t.Errorf("Count[*PrimitiveType] = %d, want 2", got)
	}
}

func TestHasModifier(t *testing.T) {
	mods := []Modifier{ModPublic, ModStatic}
	if !HasModifier(mods, ModStatic) {
		t.Error("expected static to be present")
	}
	if HasModifier(mods, ModAbstract) {
		t.Error("did not expect abstract")
	}
}
