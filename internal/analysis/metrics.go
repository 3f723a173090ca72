package analysis

import (
	"math"

	"github.com/bsharp-lang/bsharp/internal/ast"
)

// ABC holds assignment, branch (call), and condition counts for one
// function body.
type ABC struct {
	Assignments int
	Branches    int
	Conditions  int
}

// Magnitude returns the ABC size, the euclidean norm of the three
// counts.
func (a ABC) Magnitude() float64 {
	return math.Sqrt(float64(a.Assignments*a.Assignments +
		a.Branches*a.Branches + a.Conditions*a.Conditions))
}

// FunctionMetrics are the measurements for one executable member.
// Local functions and lambdas nested in the body count toward the
// enclosing member.
type FunctionMetrics struct {
	Symbol     *Symbol
	Statements int // statement nodes, blocks and empties excluded
	Branches   int // branching constructs
	Cyclomatic int // 1 + decision points
	ABC        ABC
}

// Metrics measures every method, constructor, and property accessor
// body in the unit, in source order.
func Metrics(unit *ast.CompilationUnit) []*FunctionMetrics {
	var out []*FunctionMetrics
	for _, s := range Symbols(unit) {
		var roots []ast.Node
		switch d := s.Decl.(type) {
		case *ast.MethodDecl:
			roots = bodyRoots(d.Body, d.ExprBody)
		case *ast.ConstructorDecl:
			roots = bodyRoots(d.Body, d.ExprBody)
		case *ast.DestructorDecl:
			roots = bodyRoots(d.Body, d.ExprBody)
		case *ast.PropertyDecl:
			roots = bodyRoots(nil, d.ExprBody)
			for _, a := range d.Accessors {
				roots = append(roots, bodyRoots(a.Body, a.ExprBody)...)
			}
		default:
			continue
		}
		if len(roots) == 0 {
			continue // abstract, interface, or auto member
		}
		m := &FunctionMetrics{Symbol: s, Cyclomatic: 1}
		for _, root := range roots {
			measure(root, m)
		}
		out = append(out, m)
	}
	return out
}

func bodyRoots(body *ast.BlockStmt, exprBody ast.Expression) []ast.Node {
	var out []ast.Node
	if body != nil {
		out = append(out, body)
	}
	if exprBody != nil {
		out = append(out, exprBody)
	}
	return out
}

func measure(root ast.Node, m *FunctionMetrics) {
	ast.Walk(root, func(n ast.Node) bool {
		if s, ok := n.(ast.Statement); ok {
			switch s.(type) {
			case *ast.BlockStmt, *ast.EmptyStmt:
			default:
				m.Statements++
			}
		}
		switch n := n.(type) {
		case *ast.IfStmt, *ast.ConditionalExpr:
			m.Branches++
			m.Cyclomatic++
		case *ast.SwitchStmt, *ast.SwitchExpr, *ast.TryStmt:
			// Labels, arms, and catch clauses carry the decision counts.
			m.Branches++
		case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.ForEachStmt:
			m.Branches++
			m.Cyclomatic++
		case *ast.CatchClause:
			m.Cyclomatic++
			m.ABC.Conditions++
		case *ast.SwitchLabel:
			if !n.Default {
				m.Cyclomatic++
				m.ABC.Conditions++
			}
		case *ast.SwitchExprArm:
			m.Cyclomatic++
			m.ABC.Conditions++
		case *ast.IsPatternExpr:
			m.ABC.Conditions++
		case *ast.AssignmentExpr:
			m.ABC.Assignments++
		case *ast.VariableDeclarator:
			if n.Value != nil {
				m.ABC.Assignments++
			}
		case *ast.UnaryExpr:
			if n.Op == ast.OpIncrement || n.Op == ast.OpDecrement {
				m.ABC.Assignments++
			}
		case *ast.PostfixUnaryExpr:
			if n.Op == ast.OpIncrement || n.Op == ast.OpDecrement {
				m.ABC.Assignments++
			}
		case *ast.InvocationExpr, *ast.NewExpr:
			m.ABC.Branches++
		case *ast.BinaryExpr:
			switch n.Op {
			case ast.OpLogicalAnd, ast.OpLogicalOr, ast.OpCoalesce:
				m.Cyclomatic++
				m.ABC.Conditions++
			case ast.OpEqual, ast.OpNotEqual, ast.OpLess, ast.OpGreater,
				ast.OpLessEqual, ast.OpGreaterEqual:
				m.ABC.Conditions++
			}
		}
		return true
	})
}
