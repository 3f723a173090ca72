package ast

// BinaryOp identifies a binary operator.
type BinaryOp string

// Binary operators in increasing precedence order groups.
const (
	OpCoalesce     BinaryOp = "??"
	OpLogicalOr    BinaryOp = "||"
	OpLogicalAnd   BinaryOp = "&&"
	OpBitOr        BinaryOp = "|"
	OpBitXor       BinaryOp = "^"
	OpBitAnd       BinaryOp = "&"
	OpEqual        BinaryOp = "=="
	OpNotEqual     BinaryOp = "!="
	OpLess         BinaryOp = "<"
	OpGreater      BinaryOp = ">"
	OpLessEqual    BinaryOp = "<="
	OpGreaterEqual BinaryOp = ">="
	OpShiftLeft    BinaryOp = "<<"
	OpShiftRight   BinaryOp = ">>"
	OpShiftRightU  BinaryOp = ">>>"
	OpAdd          BinaryOp = "+"
	OpSub          BinaryOp = "-"
	OpMul          BinaryOp = "*"
	OpDiv          BinaryOp = "/"
	OpMod          BinaryOp = "%"
)

// UnaryOp identifies a prefix or postfix unary operator.
type UnaryOp string

// Unary operators.
const (
	OpPlus          UnaryOp = "+"
	OpNegate        UnaryOp = "-"
	OpNot           UnaryOp = "!"
	OpComplement    UnaryOp = "~"
	OpIncrement     UnaryOp = "++"
	OpDecrement     UnaryOp = "--"
	OpAddressOf     UnaryOp = "&"
	OpDereference   UnaryOp = "*"
	OpNullForgiving UnaryOp = "!" // postfix only; node kind disambiguates from OpNot
)

// AssignOp identifies an assignment operator.
type AssignOp string

// Assignment operators.
const (
	AssignSimple     AssignOp = "="
	AssignAdd        AssignOp = "+="
	AssignSub        AssignOp = "-="
	AssignMul        AssignOp = "*="
	AssignDiv        AssignOp = "/="
	AssignMod        AssignOp = "%="
	AssignAnd        AssignOp = "&="
	AssignOr         AssignOp = "|="
	AssignXor        AssignOp = "^="
	AssignShiftL     AssignOp = "<<="
	AssignShiftR     AssignOp = ">>="
	AssignShiftRU    AssignOp = ">>>="
	AssignCoalesce   AssignOp = "??="
)

// NameExpr is a possibly qualified identifier reference such as
// Console or global::System.Console, optionally with explicit type
// arguments (Method<int> in invocation position).
type NameExpr struct {
	Global   bool
	Parts    []string
	TypeArgs []TypeNode
}

func (e *NameExpr) Children() []Node {
	out := make([]Node, len(e.TypeArgs))
	for i, t := range e.TypeArgs {
		out[i] = t
	}
	return out
}
func (e *NameExpr) expressionNode() {}

// LiteralKind identifies the kind of a literal expression.
type LiteralKind int

// Literal kinds. The parser decodes escapes eagerly, so Value carries
// the final runtime value, not source text; decimal literals are the
// exception and carry their exact digits as a string.
const (
	LitInteger    LiteralKind = iota // Value: int64 or uint64 when out of int64 range
	LitFloat                         // Value: float64
	LitDecimal                       // Value: string (exact digits, suffix stripped)
	LitString                        // Value: string (escapes decoded)
	LitUtf8String                    // Value: []byte
	LitChar                          // Value: rune
	LitBool                          // Value: bool
	LitNull                          // Value: nil
)

// IntegerSuffix records the integer literal suffix for overload-style
// type selection downstream.
type IntegerSuffix int

// Integer literal suffixes.
const (
	SuffixNone IntegerSuffix = iota
	SuffixU
	SuffixL
	SuffixUL
)

// LiteralExpr is a literal constant.
type LiteralExpr struct {
	Kind   LiteralKind
	Value  interface{}
	Suffix IntegerSuffix // integers only
}

func (e *LiteralExpr) Children() []Node { return nil }
func (e *LiteralExpr) expressionNode()  {}

// InterpolatedPart is one segment of an interpolated string: either
// literal text or an embedded expression with optional alignment and
// format specifier.
type InterpolatedPart struct {
	Text      string // literal segment; empty when Expr is set
	Expr      Expression
	Alignment Expression // after a comma, may be nil
	Format    string     // after a colon, may be empty
}

// InterpolatedStringExpr is a $"..." string with embedded expressions.
type InterpolatedStringExpr struct {
	Verbatim bool // $@"..." / @$"..."
	Parts    []InterpolatedPart
}

func (e *InterpolatedStringExpr) Children() []Node {
	var out []Node
	for _, p := range e.Parts {
		out = appendExpr(out, p.Expr)
		out = appendExpr(out, p.Alignment)
	}
	return out
}
func (e *InterpolatedStringExpr) expressionNode() {}

// ThisExpr is the this keyword.
type ThisExpr struct{}

func (e *ThisExpr) Children() []Node { return nil }
func (e *ThisExpr) expressionNode()  {}

// BaseExpr is the base keyword.
type BaseExpr struct{}

func (e *BaseExpr) Children() []Node { return nil }
func (e *BaseExpr) expressionNode()  {}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	Left  Expression
	Op    BinaryOp
	Right Expression
}

func (e *BinaryExpr) Children() []Node { return []Node{e.Left, e.Right} }
func (e *BinaryExpr) expressionNode()  {}

// UnaryExpr applies a prefix unary operator.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
}

func (e *UnaryExpr) Children() []Node { return []Node{e.Operand} }
func (e *UnaryExpr) expressionNode()  {}

// PostfixUnaryExpr applies a postfix operator: x++, x--, or the
// null-forgiving x!.
type PostfixUnaryExpr struct {
	Operand Expression
	Op      UnaryOp
}

func (e *PostfixUnaryExpr) Children() []Node { return []Node{e.Operand} }
func (e *PostfixUnaryExpr) expressionNode()  {}

// AssignmentExpr is a simple or compound assignment. Assignment is
// right associative, so a = b = c nests on the right.
type AssignmentExpr struct {
	Target Expression
	Op     AssignOp
	Value  Expression
}

func (e *AssignmentExpr) Children() []Node { return []Node{e.Target, e.Value} }
func (e *AssignmentExpr) expressionNode()  {}

// ConditionalExpr is cond ? then : else.
type ConditionalExpr struct {
	Cond Expression
	Then Expression
	Else Expression
}

func (e *ConditionalExpr) Children() []Node { return []Node{e.Cond, e.Then, e.Else} }
func (e *ConditionalExpr) expressionNode()  {}

// CastExpr is (T)operand.
type CastExpr struct {
	Target  TypeNode
	Operand Expression
}

func (e *CastExpr) Children() []Node { return []Node{e.Target, e.Operand} }
func (e *CastExpr) expressionNode()  {}

// AsExpr is operand as T.
type AsExpr struct {
	Operand Expression
	Target  TypeNode
}

func (e *AsExpr) Children() []Node { return []Node{e.Operand, e.Target} }
func (e *AsExpr) expressionNode()  {}

// IsPatternExpr is operand is pattern, covering both the plain type
// test and full pattern matching.
type IsPatternExpr struct {
	Operand Expression
	Pattern Pattern
}

func (e *IsPatternExpr) Children() []Node { return []Node{e.Operand, e.Pattern} }
func (e *IsPatternExpr) expressionNode()  {}

// SwitchExprArm is one pattern => value arm of a switch expression.
type SwitchExprArm struct {
	Pattern Pattern
	When    Expression // optional guard, may be nil
	Value   Expression
}

func (a *SwitchExprArm) Children() []Node {
	out := []Node{a.Pattern}
	out = appendExpr(out, a.When)
	return append(out, a.Value)
}

// SwitchExpr is scrutinee switch { arm, ... }.
type SwitchExpr struct {
	Scrutinee Expression
	Arms      []*SwitchExprArm
}

func (e *SwitchExpr) Children() []Node {
	out := []Node{e.Scrutinee}
	for _, a := range e.Arms {
		out = append(out, a)
	}
	return out
}
func (e *SwitchExpr) expressionNode() {}

// Argument is one invocation argument, optionally named and optionally
// carrying a ref/out/in modifier. An out argument may declare its
// variable inline via OutType.
type Argument struct {
	Name     string // named argument, empty otherwise
	Modifier string // "ref", "out", "in", or empty
	OutType  TypeNode
	Value    Expression
}

func (a *Argument) Children() []Node {
	var out []Node
	out = appendType(out, a.OutType)
	return appendExpr(out, a.Value)
}

// InvocationExpr is callee(args...).
type InvocationExpr struct {
	Callee    Expression
	Arguments []*Argument
}

func (e *InvocationExpr) Children() []Node {
	out := []Node{e.Callee}
	for _, a := range e.Arguments {
		out = append(out, a)
	}
	return out
}
func (e *InvocationExpr) expressionNode() {}

// ElementAccessExpr is target[indexes...].
type ElementAccessExpr struct {
	Target  Expression
	Indexes []Expression
}

func (e *ElementAccessExpr) Children() []Node {
	out := []Node{e.Target}
	for _, i := range e.Indexes {
		out = append(out, i)
	}
	return out
}
func (e *ElementAccessExpr) expressionNode() {}

// MemberAccessExpr is target.Member, optionally with explicit type
// arguments (target.Method<T>).
type MemberAccessExpr struct {
	Target   Expression
	Member   string
	TypeArgs []TypeNode
}

func (e *MemberAccessExpr) Children() []Node {
	out := []Node{e.Target}
	for _, t := range e.TypeArgs {
		out = append(out, t)
	}
	return out
}
func (e *MemberAccessExpr) expressionNode() {}

// NullConditionalExpr is the null-propagating access target?.Member or
// target?[indexes]. Member is empty for the element form.
type NullConditionalExpr struct {
	Target  Expression
	Member  string
	Indexes []Expression
}

func (e *NullConditionalExpr) Children() []Node {
	out := []Node{e.Target}
	for _, i := range e.Indexes {
		out = append(out, i)
	}
	return out
}
func (e *NullConditionalExpr) expressionNode() {}

// MemberInit is one Name = Value entry of an object initializer.
type MemberInit struct {
	Name  string
	Value Expression
}

func (m *MemberInit) Children() []Node { return []Node{m.Value} }

// NewExpr is object creation: new T(args) { inits }, target-typed
// new(args), or array creation new T[len] { elems }.
type NewExpr struct {
	Type           TypeNode // nil for target-typed new(...)
	Arguments      []*Argument
	ArrayLengths   []Expression // array creation dimension lengths
	ObjectInit     []*MemberInit
	CollectionInit []Expression
	HasInitializer bool // distinguishes new T() {} from new T()
}

func (e *NewExpr) Children() []Node {
	var out []Node
	out = appendType(out, e.Type)
	for _, a := range e.Arguments {
		out = append(out, a)
	}
	for _, l := range e.ArrayLengths {
		out = append(out, l)
	}
	for _, m := range e.ObjectInit {
		out = append(out, m)
	}
	for _, c := range e.CollectionInit {
		out = append(out, c)
	}
	return out
}
func (e *NewExpr) expressionNode() {}

// AnonymousObjectExpr is new { Name = value, member.Path }.
type AnonymousObjectExpr struct {
	Members []*MemberInit // Name may be empty for projection members
}

func (e *AnonymousObjectExpr) Children() []Node {
	out := make([]Node, len(e.Members))
	for i, m := range e.Members {
		out[i] = m
	}
	return out
}
func (e *AnonymousObjectExpr) expressionNode() {}

// LambdaParameter is one lambda parameter, optionally typed.
type LambdaParameter struct {
	Modifier string // "ref", "out", "in", or empty
	Type     TypeNode
	Name     string
}

// LambdaExpr is x => e, (a, b) => e, delegate(...) {...}, and the
// block-bodied forms. Exactly one of Body and ExprBody is set.
type LambdaExpr struct {
	Async      bool
	IsDelegate bool // delegate {...} syntax
	Parameters []*LambdaParameter
	ExprBody   Expression
	Body       *BlockStmt
}

func (e *LambdaExpr) Children() []Node {
	var out []Node
	for _, p := range e.Parameters {
		out = appendType(out, p.Type)
	}
	out = appendExpr(out, e.ExprBody)
	if e.Body != nil {
		out = append(out, e.Body)
	}
	return out
}
func (e *LambdaExpr) expressionNode() {}

// TupleElement is one element of a tuple literal, optionally named.
type TupleElement struct {
	Name  string
	Value Expression
}

// TupleExpr is (a, b) or (x: 1, y: 2) with at least two elements.
type TupleExpr struct {
	Elements []TupleElement
}

func (e *TupleExpr) Children() []Node {
	out := make([]Node, len(e.Elements))
	for i, el := range e.Elements {
		out[i] = el.Value
	}
	return out
}
func (e *TupleExpr) expressionNode() {}

// RangeExpr is low..high with either bound optional.
type RangeExpr struct {
	Low  Expression
	High Expression
}

func (e *RangeExpr) Children() []Node {
	var out []Node
	out = appendExpr(out, e.Low)
	return appendExpr(out, e.High)
}
func (e *RangeExpr) expressionNode() {}

// IndexFromEndExpr is ^operand.
type IndexFromEndExpr struct {
	Operand Expression
}

func (e *IndexFromEndExpr) Children() []Node { return []Node{e.Operand} }
func (e *IndexFromEndExpr) expressionNode()  {}

// AwaitExpr is await operand.
type AwaitExpr struct {
	Operand Expression
}

func (e *AwaitExpr) Children() []Node { return []Node{e.Operand} }
func (e *AwaitExpr) expressionNode()  {}

// ThrowExpr is throw operand in expression position.
type ThrowExpr struct {
	Operand Expression
}

func (e *ThrowExpr) Children() []Node { return []Node{e.Operand} }
func (e *ThrowExpr) expressionNode()  {}

// TypeofExpr is typeof(T).
type TypeofExpr struct {
	Target TypeNode
}

func (e *TypeofExpr) Children() []Node { return []Node{e.Target} }
func (e *TypeofExpr) expressionNode()  {}

// SizeofExpr is sizeof(T).
type SizeofExpr struct {
	Target TypeNode
}

func (e *SizeofExpr) Children() []Node { return []Node{e.Target} }
func (e *SizeofExpr) expressionNode()  {}

// NameofExpr is nameof(expr).
type NameofExpr struct {
	Target Expression
}

func (e *NameofExpr) Children() []Node { return []Node{e.Target} }
func (e *NameofExpr) expressionNode()  {}

// DefaultExpr is default(T) or the bare default literal (Target nil).
type DefaultExpr struct {
	Target TypeNode
}

func (e *DefaultExpr) Children() []Node {
	return appendType(nil, e.Target)
}
func (e *DefaultExpr) expressionNode() {}

// StackallocExpr is stackalloc T[count] with an optional initializer.
type StackallocExpr struct {
	Element     TypeNode // nil for stackalloc[] { ... }
	Count       Expression
	Initializer []Expression
}

func (e *StackallocExpr) Children() []Node {
	var out []Node
	out = appendType(out, e.Element)
	out = appendExpr(out, e.Count)
	for _, i := range e.Initializer {
		out = append(out, i)
	}
	return out
}
func (e *StackallocExpr) expressionNode() {}

// CheckedExpr is checked(e) or unchecked(e).
type CheckedExpr struct {
	Unchecked bool
	Operand   Expression
}

func (e *CheckedExpr) Children() []Node { return []Node{e.Operand} }
func (e *CheckedExpr) expressionNode()  {}

// ParenthesizedExpr wrapping is not represented: (x) parses to x.

// QueryClause is one clause of a LINQ query expression.
type QueryClause interface {
	Node
	queryClauseNode()
}

// FromClause is from [T] name in source.
type FromClause struct {
	Type   TypeNode // optional
	Name   string
	Source Expression
}

func (c *FromClause) Children() []Node {
	var out []Node
	out = appendType(out, c.Type)
	return append(out, c.Source)
}
func (c *FromClause) queryClauseNode() {}

// LetClause is let name = value.
type LetClause struct {
	Name  string
	Value Expression
}

func (c *LetClause) Children() []Node { return []Node{c.Value} }
func (c *LetClause) queryClauseNode() {}

// WhereClause is where cond.
type WhereClause struct {
	Cond Expression
}

func (c *WhereClause) Children() []Node { return []Node{c.Cond} }
func (c *WhereClause) queryClauseNode() {}

// JoinClause is join name in source on left equals right [into group].
type JoinClause struct {
	Type   TypeNode
	Name   string
	Source Expression
	Left   Expression
	Right  Expression
	Into   string // group join, empty otherwise
}

func (c *JoinClause) Children() []Node {
	var out []Node
	out = appendType(out, c.Type)
	return append(out, c.Source, c.Left, c.Right)
}
func (c *JoinClause) queryClauseNode() {}

// Ordering is one key of an orderby clause.
type Ordering struct {
	Key        Expression
	Descending bool
}

// OrderByClause is orderby k1 [descending], k2 ....
type OrderByClause struct {
	Orderings []Ordering
}

func (c *OrderByClause) Children() []Node {
	out := make([]Node, len(c.Orderings))
	for i, o := range c.Orderings {
		out[i] = o.Key
	}
	return out
}
func (c *OrderByClause) queryClauseNode() {}

// SelectClause is select value [into name].
type SelectClause struct {
	Value Expression
	Into  string
}

func (c *SelectClause) Children() []Node { return []Node{c.Value} }
func (c *SelectClause) queryClauseNode() {}

// GroupClause is group value by key [into name].
type GroupClause struct {
	Value Expression
	Key   Expression
	Into  string
}

func (c *GroupClause) Children() []Node { return []Node{c.Value, c.Key} }
func (c *GroupClause) queryClauseNode() {}

// QueryExpr is a LINQ query expression. The first clause is always a
// FromClause; the last is a SelectClause or GroupClause, possibly with
// a continuation re-entering the clause list.
type QueryExpr struct {
	Clauses []QueryClause
}

func (e *QueryExpr) Children() []Node {
	out := make([]Node, len(e.Clauses))
	for i, c := range e.Clauses {
		out[i] = c
	}
	return out
}
func (e *QueryExpr) expressionNode() {}
