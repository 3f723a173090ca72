package ast

// Parameter is one formal parameter of a method, constructor,
// indexer, delegate, or primary constructor.
type Parameter struct {
	Attributes []*AttributeList
	Modifiers  []string // "ref", "out", "in", "params", "this", "scoped"
	Type       TypeNode
	Name       string
	Default    Expression // nil when absent
}

func (p *Parameter) Children() []Node {
	out := attributeNodes(p.Attributes)
	out = appendType(out, p.Type)
	return appendExpr(out, p.Default)
}

// TypeParameter is one generic type parameter, optionally with a
// variance annotation.
type TypeParameter struct {
	Attributes []*AttributeList
	Variance   string // "in", "out", or empty
	Name       string
}

func (t *TypeParameter) Children() []Node { return attributeNodes(t.Attributes) }

// Constraint is one entry of a where clause: a type constraint or one
// of the keyword constraints (class, struct, notnull, unmanaged,
// default, new()).
type Constraint struct {
	Keyword string   // empty for a type constraint
	Type    TypeNode // nil for keyword constraints
}

func (c *Constraint) Children() []Node { return appendType(nil, c.Type) }

// ConstraintClause is where T : constraints.
type ConstraintClause struct {
	Name        string
	Constraints []*Constraint
}

func (c *ConstraintClause) Children() []Node {
	out := make([]Node, len(c.Constraints))
	for i, con := range c.Constraints {
		out[i] = con
	}
	return out
}

// ClassDecl is a class declaration, optionally with a primary
// constructor parameter list.
type ClassDecl struct {
	Attributes    []*AttributeList
	Modifiers     []Modifier
	Name          string
	TypeParams    []*TypeParameter
	PrimaryParams []*Parameter // nil when no primary constructor
	BaseTypes     []TypeNode
	Constraints   []*ConstraintClause
	Members       []Declaration
}

func (d *ClassDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	for _, tp := range d.TypeParams {
		out = append(out, tp)
	}
	for _, p := range d.PrimaryParams {
		out = append(out, p)
	}
	for _, b := range d.BaseTypes {
		out = append(out, b)
	}
	for _, c := range d.Constraints {
		out = append(out, c)
	}
	for _, m := range d.Members {
		out = append(out, m)
	}
	return out
}
func (d *ClassDecl) declarationNode() {}

// StructDecl is a struct declaration.
type StructDecl struct {
	Attributes    []*AttributeList
	Modifiers     []Modifier
	Name          string
	TypeParams    []*TypeParameter
	PrimaryParams []*Parameter
	BaseTypes     []TypeNode
	Constraints   []*ConstraintClause
	Members       []Declaration
}

func (d *StructDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	for _, tp := range d.TypeParams {
		out = append(out, tp)
	}
	for _, p := range d.PrimaryParams {
		out = append(out, p)
	}
	for _, b := range d.BaseTypes {
		out = append(out, b)
	}
	for _, c := range d.Constraints {
		out = append(out, c)
	}
	for _, m := range d.Members {
		out = append(out, m)
	}
	return out
}
func (d *StructDecl) declarationNode() {}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	Attributes  []*AttributeList
	Modifiers   []Modifier
	Name        string
	TypeParams  []*TypeParameter
	BaseTypes   []TypeNode
	Constraints []*ConstraintClause
	Members     []Declaration
}

func (d *InterfaceDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	for _, tp := range d.TypeParams {
		out = append(out, tp)
	}
	for _, b := range d.BaseTypes {
		out = append(out, b)
	}
	for _, c := range d.Constraints {
		out = append(out, c)
	}
	for _, m := range d.Members {
		out = append(out, m)
	}
	return out
}
func (d *InterfaceDecl) declarationNode() {}

// RecordDecl is a record class or record struct, positional or
// nominal, with an optional body.
type RecordDecl struct {
	Attributes  []*AttributeList
	Modifiers   []Modifier
	IsStruct    bool
	Name        string
	TypeParams  []*TypeParameter
	Parameters  []*Parameter // positional record parameters
	BaseTypes   []TypeNode
	Constraints []*ConstraintClause
	Members     []Declaration
}

func (d *RecordDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	for _, tp := range d.TypeParams {
		out = append(out, tp)
	}
	for _, p := range d.Parameters {
		out = append(out, p)
	}
	for _, b := range d.BaseTypes {
		out = append(out, b)
	}
	for _, c := range d.Constraints {
		out = append(out, c)
	}
	for _, m := range d.Members {
		out = append(out, m)
	}
	return out
}
func (d *RecordDecl) declarationNode() {}

// EnumMember is one named constant of an enum.
type EnumMember struct {
	Attributes []*AttributeList
	Name       string
	Value      Expression // nil when implicit
}

func (m *EnumMember) Children() []Node {
	out := attributeNodes(m.Attributes)
	return appendExpr(out, m.Value)
}

// EnumDecl is an enum declaration with an optional underlying type.
type EnumDecl struct {
	Attributes []*AttributeList
	Modifiers  []Modifier
	Name       string
	Underlying TypeNode // nil when defaulted
	Members    []*EnumMember
}

func (d *EnumDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = appendType(out, d.Underlying)
	for _, m := range d.Members {
		out = append(out, m)
	}
	return out
}
func (d *EnumDecl) declarationNode() {}

// DelegateDecl is a delegate type declaration.
type DelegateDecl struct {
	Attributes  []*AttributeList
	Modifiers   []Modifier
	Return      TypeNode
	Name        string
	TypeParams  []*TypeParameter
	Parameters  []*Parameter
	Constraints []*ConstraintClause
}

func (d *DelegateDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Return)
	for _, tp := range d.TypeParams {
		out = append(out, tp)
	}
	for _, p := range d.Parameters {
		out = append(out, p)
	}
	for _, c := range d.Constraints {
		out = append(out, c)
	}
	return out
}
func (d *DelegateDecl) declarationNode() {}

// MethodDecl is a method member. Interface methods and abstract
// methods have neither Body nor ExprBody; otherwise exactly one is
// set. ExplicitInterface carries the dotted prefix of an explicit
// interface implementation, empty for ordinary methods.
type MethodDecl struct {
	Attributes        []*AttributeList
	Modifiers         []Modifier
	Return            TypeNode
	ExplicitInterface []string
	Name              string
	TypeParams        []*TypeParameter
	Parameters        []*Parameter
	Constraints       []*ConstraintClause
	Body              *BlockStmt
	ExprBody          Expression
}

func (d *MethodDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Return)
	for _, tp := range d.TypeParams {
		out = append(out, tp)
	}
	for _, p := range d.Parameters {
		out = append(out, p)
	}
	for _, c := range d.Constraints {
		out = append(out, c)
	}
	if d.Body != nil {
		out = append(out, d.Body)
	}
	return appendExpr(out, d.ExprBody)
}
func (d *MethodDecl) declarationNode() {}

// ConstructorInitializer is the : base(args) or : this(args) suffix
// of a constructor header.
type ConstructorInitializer struct {
	Base      bool // false means this(...)
	Arguments []*Argument
}

func (c *ConstructorInitializer) Children() []Node {
	out := make([]Node, len(c.Arguments))
	for i, a := range c.Arguments {
		out[i] = a
	}
	return out
}

// ConstructorDecl is an instance or static constructor.
type ConstructorDecl struct {
	Attributes  []*AttributeList
	Modifiers   []Modifier
	Name        string
	Parameters  []*Parameter
	Initializer *ConstructorInitializer
	Body        *BlockStmt
	ExprBody    Expression
}

func (d *ConstructorDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	for _, p := range d.Parameters {
		out = append(out, p)
	}
	if d.Initializer != nil {
		out = append(out, d.Initializer)
	}
	if d.Body != nil {
		out = append(out, d.Body)
	}
	return appendExpr(out, d.ExprBody)
}
func (d *ConstructorDecl) declarationNode() {}

// DestructorDecl is a finalizer, ~Name() body.
type DestructorDecl struct {
	Attributes []*AttributeList
	Name       string
	Body       *BlockStmt
	ExprBody   Expression
}

func (d *DestructorDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	if d.Body != nil {
		out = append(out, d.Body)
	}
	return appendExpr(out, d.ExprBody)
}
func (d *DestructorDecl) declarationNode() {}

// FieldDecl is a field member, possibly with several declarators.
type FieldDecl struct {
	Attributes  []*AttributeList
	Modifiers   []Modifier
	Type        TypeNode
	Declarators []*VariableDeclarator
}

func (d *FieldDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Type)
	for _, dec := range d.Declarators {
		out = append(out, dec)
	}
	return out
}
func (d *FieldDecl) declarationNode() {}

// AccessorKind identifies a property/indexer/event accessor.
type AccessorKind string

// Accessor kinds.
const (
	AccessorGet    AccessorKind = "get"
	AccessorSet    AccessorKind = "set"
	AccessorInit   AccessorKind = "init"
	AccessorAdd    AccessorKind = "add"
	AccessorRemove AccessorKind = "remove"
)

// Accessor is one accessor of a property, indexer, or event. An auto
// accessor has neither Body nor ExprBody.
type Accessor struct {
	Attributes []*AttributeList
	Modifiers  []Modifier
	Kind       AccessorKind
	Body       *BlockStmt
	ExprBody   Expression
}

func (a *Accessor) Children() []Node {
	out := attributeNodes(a.Attributes)
	if a.Body != nil {
		out = append(out, a.Body)
	}
	return appendExpr(out, a.ExprBody)
}

// PropertyDecl is a property member. ExprBody is the => form standing
// in for a lone getter; Initializer is the trailing = value of an
// auto-property.
type PropertyDecl struct {
	Attributes        []*AttributeList
	Modifiers         []Modifier
	Type              TypeNode
	ExplicitInterface []string
	Name              string
	Accessors         []*Accessor
	ExprBody          Expression
	Initializer       Expression
}

func (d *PropertyDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Type)
	for _, a := range d.Accessors {
		out = append(out, a)
	}
	out = appendExpr(out, d.ExprBody)
	return appendExpr(out, d.Initializer)
}
func (d *PropertyDecl) declarationNode() {}

// IndexerDecl is this[params] with accessors.
type IndexerDecl struct {
	Attributes        []*AttributeList
	Modifiers         []Modifier
	Type              TypeNode
	ExplicitInterface []string
	Parameters        []*Parameter
	Accessors         []*Accessor
	ExprBody          Expression
}

func (d *IndexerDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Type)
	for _, p := range d.Parameters {
		out = append(out, p)
	}
	for _, a := range d.Accessors {
		out = append(out, a)
	}
	return appendExpr(out, d.ExprBody)
}
func (d *IndexerDecl) declarationNode() {}

// EventDecl is an event member, either field-like (declarators) or
// with explicit add/remove accessors.
type EventDecl struct {
	Attributes  []*AttributeList
	Modifiers   []Modifier
	Type        TypeNode
	Declarators []*VariableDeclarator
	Name        string // accessor form only
	Accessors   []*Accessor
}

func (d *EventDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Type)
	for _, dec := range d.Declarators {
		out = append(out, dec)
	}
	for _, a := range d.Accessors {
		out = append(out, a)
	}
	return out
}
func (d *EventDecl) declarationNode() {}

// OperatorDeclKind distinguishes operator member forms.
type OperatorDeclKind int

// Operator declaration forms.
const (
	OperatorOverload OperatorDeclKind = iota // operator +, operator ==, ...
	OperatorImplicit                         // implicit operator T
	OperatorExplicit                         // explicit operator T
)

// OperatorDecl is an operator or conversion operator member.
type OperatorDecl struct {
	Attributes []*AttributeList
	Modifiers  []Modifier
	Kind       OperatorDeclKind
	Return     TypeNode // conversion target for implicit/explicit
	Operator   string   // token text for overloads, empty for conversions
	Parameters []*Parameter
	Body       *BlockStmt
	ExprBody   Expression
}

func (d *OperatorDecl) Children() []Node {
	out := attributeNodes(d.Attributes)
	out = append(out, d.Return)
	for _, p := range d.Parameters {
		out = append(out, p)
	}
	if d.Body != nil {
		out = append(out, d.Body)
	}
	return appendExpr(out, d.ExprBody)
}
func (d *OperatorDecl) declarationNode() {}
