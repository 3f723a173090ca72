package ast

// BlockStmt is a { ... } statement sequence.
type BlockStmt struct {
	Statements []Statement
}

func (s *BlockStmt) Children() []Node {
	out := make([]Node, len(s.Statements))
	for i, st := range s.Statements {
		out[i] = st
	}
	return out
}
func (s *BlockStmt) statementNode() {}

// IfStmt is if (cond) then [else els].
type IfStmt struct {
	Cond Expression
	Then Statement
	Else Statement // nil when absent
}

func (s *IfStmt) Children() []Node {
	out := []Node{s.Cond, s.Then}
	return appendStmt(out, s.Else)
}
func (s *IfStmt) statementNode() {}

// WhileStmt is while (cond) body.
type WhileStmt struct {
	Cond Expression
	Body Statement
}

func (s *WhileStmt) Children() []Node { return []Node{s.Cond, s.Body} }
func (s *WhileStmt) statementNode()   {}

// DoWhileStmt is do body while (cond);.
type DoWhileStmt struct {
	Body Statement
	Cond Expression
}

func (s *DoWhileStmt) Children() []Node { return []Node{s.Body, s.Cond} }
func (s *DoWhileStmt) statementNode()   {}

// ForStmt is the three-part for loop. Init is a LocalDeclStmt or an
// ExpressionStmt; every part is optional.
type ForStmt struct {
	Init      Statement
	Cond      Expression
	Iterators []Expression
	Body      Statement
}

func (s *ForStmt) Children() []Node {
	var out []Node
	out = appendStmt(out, s.Init)
	out = appendExpr(out, s.Cond)
	for _, it := range s.Iterators {
		out = append(out, it)
	}
	return append(out, s.Body)
}
func (s *ForStmt) statementNode() {}

// ForEachStmt is foreach ([await] T name in source) body.
type ForEachStmt struct {
	Await  bool
	Type   TypeNode
	Name   string
	Source Expression
	Body   Statement
}

func (s *ForEachStmt) Children() []Node {
	return []Node{s.Type, s.Source, s.Body}
}
func (s *ForEachStmt) statementNode() {}

// CatchClause is one catch arm of a try statement. Type and Name are
// nil/empty for a general catch; Filter is the optional when clause.
type CatchClause struct {
	Type   TypeNode
	Name   string
	Filter Expression
	Body   *BlockStmt
}

func (c *CatchClause) Children() []Node {
	var out []Node
	out = appendType(out, c.Type)
	out = appendExpr(out, c.Filter)
	return append(out, c.Body)
}

// TryStmt is try body catch... [finally].
type TryStmt struct {
	Body    *BlockStmt
	Catches []*CatchClause
	Finally *BlockStmt
}

func (s *TryStmt) Children() []Node {
	out := []Node{s.Body}
	for _, c := range s.Catches {
		out = append(out, c)
	}
	if s.Finally != nil {
		out = append(out, s.Finally)
	}
	return out
}
func (s *TryStmt) statementNode() {}

// SwitchLabel is one case/default label of a switch section.
type SwitchLabel struct {
	Default bool
	Pattern Pattern    // nil for default
	When    Expression // optional guard
}

func (l *SwitchLabel) Children() []Node {
	var out []Node
	out = appendNode(out, nodeOrNil(l.Pattern))
	return appendExpr(out, l.When)
}

func nodeOrNil(p Pattern) Node {
	if p == nil {
		return nil
	}
	return p
}

// SwitchSection is a run of labels followed by statements.
type SwitchSection struct {
	Labels     []*SwitchLabel
	Statements []Statement
}

func (s *SwitchSection) Children() []Node {
	var out []Node
	for _, l := range s.Labels {
		out = append(out, l)
	}
	for _, st := range s.Statements {
		out = append(out, st)
	}
	return out
}

// SwitchStmt is switch (scrutinee) { sections }.
type SwitchStmt struct {
	Scrutinee Expression
	Sections  []*SwitchSection
}

func (s *SwitchStmt) Children() []Node {
	out := []Node{s.Scrutinee}
	for _, sec := range s.Sections {
		out = append(out, sec)
	}
	return out
}
func (s *SwitchStmt) statementNode() {}

// ReturnStmt is return [value];.
type ReturnStmt struct {
	Value Expression
}

func (s *ReturnStmt) Children() []Node { return appendExpr(nil, s.Value) }
func (s *ReturnStmt) statementNode()   {}

// ThrowStmt is throw [value]; with nil Value for a bare rethrow.
type ThrowStmt struct {
	Value Expression
}

func (s *ThrowStmt) Children() []Node { return appendExpr(nil, s.Value) }
func (s *ThrowStmt) statementNode()   {}

// BreakStmt is break;.
type BreakStmt struct{}

func (s *BreakStmt) Children() []Node { return nil }
func (s *BreakStmt) statementNode()   {}

// ContinueStmt is continue;.
type ContinueStmt struct{}

func (s *ContinueStmt) Children() []Node { return nil }
func (s *ContinueStmt) statementNode()   {}

// GotoStmt covers goto label, goto case value, and goto default.
type GotoStmt struct {
	Label     string
	CaseValue Expression
	Default   bool
}

func (s *GotoStmt) Children() []Node { return appendExpr(nil, s.CaseValue) }
func (s *GotoStmt) statementNode()   {}

// VariableDeclarator is one name [= value] of a declaration.
type VariableDeclarator struct {
	Name  string
	Value Expression
}

func (d *VariableDeclarator) Children() []Node { return appendExpr(nil, d.Value) }

// LocalDeclStmt is a local variable declaration, possibly const,
// possibly with several declarators.
type LocalDeclStmt struct {
	Const       bool
	Type        TypeNode
	Declarators []*VariableDeclarator
}

func (s *LocalDeclStmt) Children() []Node {
	out := []Node{s.Type}
	for _, d := range s.Declarators {
		out = append(out, d)
	}
	return out
}
func (s *LocalDeclStmt) statementNode() {}

// ExpressionStmt is expr;.
type ExpressionStmt struct {
	Expr Expression
}

func (s *ExpressionStmt) Children() []Node { return []Node{s.Expr} }
func (s *ExpressionStmt) statementNode()   {}

// UsingStmt covers both the statement form using (resource) body and
// the declaration form using T x = e;. Exactly one of Declaration and
// Expr is set; Body is nil for the declaration form.
type UsingStmt struct {
	Await       bool
	Declaration *LocalDeclStmt
	Expr        Expression
	Body        Statement
}

func (s *UsingStmt) Children() []Node {
	var out []Node
	if s.Declaration != nil {
		out = append(out, s.Declaration)
	}
	out = appendExpr(out, s.Expr)
	return appendStmt(out, s.Body)
}
func (s *UsingStmt) statementNode() {}

// LockStmt is lock (expr) body.
type LockStmt struct {
	Expr Expression
	Body Statement
}

func (s *LockStmt) Children() []Node { return []Node{s.Expr, s.Body} }
func (s *LockStmt) statementNode()   {}

// FixedStmt is fixed (T* p = expr) body.
type FixedStmt struct {
	Declaration *LocalDeclStmt
	Body        Statement
}

func (s *FixedStmt) Children() []Node { return []Node{s.Declaration, s.Body} }
func (s *FixedStmt) statementNode()   {}

// UnsafeStmt is unsafe { ... }.
type UnsafeStmt struct {
	Body *BlockStmt
}

func (s *UnsafeStmt) Children() []Node { return []Node{s.Body} }
func (s *UnsafeStmt) statementNode()   {}

// CheckedStmt is checked { ... } or unchecked { ... }.
type CheckedStmt struct {
	Unchecked bool
	Body      *BlockStmt
}

func (s *CheckedStmt) Children() []Node { return []Node{s.Body} }
func (s *CheckedStmt) statementNode()   {}

// YieldStmt is yield return value; or yield break;.
type YieldStmt struct {
	Break bool
	Value Expression
}

func (s *YieldStmt) Children() []Node { return appendExpr(nil, s.Value) }
func (s *YieldStmt) statementNode()   {}

// EmptyStmt is a bare ;.
type EmptyStmt struct{}

func (s *EmptyStmt) Children() []Node { return nil }
func (s *EmptyStmt) statementNode()   {}

// LabeledStmt is label: stmt.
type LabeledStmt struct {
	Label     string
	Statement Statement
}

func (s *LabeledStmt) Children() []Node { return []Node{s.Statement} }
func (s *LabeledStmt) statementNode()   {}

// LocalFunctionStmt is a function declared inside a method body.
// Exactly one of Body and ExprBody is set.
type LocalFunctionStmt struct {
	Modifiers   []Modifier
	Return      TypeNode
	Name        string
	TypeParams  []*TypeParameter
	Parameters  []*Parameter
	Constraints []*ConstraintClause
	Body        *BlockStmt
	ExprBody    Expression
}

func (s *LocalFunctionStmt) Children() []Node {
	out := []Node{s.Return}
	for _, p := range s.Parameters {
		out = append(out, p)
	}
	if s.Body != nil {
		out = append(out, s.Body)
	}
	return appendExpr(out, s.ExprBody)
}
func (s *LocalFunctionStmt) statementNode() {}
