// Package ast defines the syntax tree for the bsharp front end. Nodes
// form closed polymorphic families (expressions, statements,
// declarations, types, patterns) under a common Node interface.
// Ownership is strictly tree shaped: every node exclusively owns its
// children, nodes are built once during parsing and never mutated, and
// cross references are represented as identifiers only.
//
// Instead of a visitor interface per concern, every node exposes its
// children generically through Children; the package-level Walk and
// FindAll build tree queries on top of that.
package ast

// Node is the base interface for all syntax tree nodes.
type Node interface {
	// Children returns the node's direct children in source order.
	// Leaf nodes return nil.
	Children() []Node
}

// Expression is the marker interface for expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Statement is the marker interface for statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Declaration is the marker interface for declaration nodes
// (namespaces, types, and type members).
type Declaration interface {
	Node
	declarationNode()
}

// TypeNode is the marker interface for type syntax nodes.
type TypeNode interface {
	Node
	typeNode()
}

// Pattern is the marker interface for pattern nodes, shared between
// 'is' expressions and switch arms.
type Pattern interface {
	Node
	patternNode()
}

// Modifier is a declaration modifier keyword.
type Modifier string

// Declaration modifiers recognized by the parser.
const (
	ModPublic    Modifier = "public"
	ModPrivate   Modifier = "private"
	ModProtected Modifier = "protected"
	ModInternal  Modifier = "internal"
	ModStatic    Modifier = "static"
	ModAbstract  Modifier = "abstract"
	ModVirtual   Modifier = "virtual"
	ModOverride  Modifier = "override"
	ModSealed    Modifier = "sealed"
	ModReadonly  Modifier = "readonly"
	ModConst     Modifier = "const"
	ModAsync     Modifier = "async"
	ModPartial   Modifier = "partial"
	ModExtern    Modifier = "extern"
	ModUnsafe    Modifier = "unsafe"
	ModVolatile  Modifier = "volatile"
	ModNew       Modifier = "new"
	ModRequired  Modifier = "required"
	ModFile      Modifier = "file"
	ModRef       Modifier = "ref"
)

// HasModifier reports whether mods contains m.
func HasModifier(mods []Modifier, m Modifier) bool {
	for _, have := range mods {
		if have == m {
			return true
		}
	}
	return false
}

// CompilationUnit is the root node for a single parsed source file: a
// sequence of global attributes, using directives, an optional
// file-scoped namespace, top-level declarations, and top-level
// statements.
type CompilationUnit struct {
	GlobalAttributes    []*AttributeList
	Usings              []*UsingDirective
	FileScopedNamespace *FileScopedNamespaceDecl
	Declarations        []Declaration
	TopLevelStatements  []Statement
}

func (c *CompilationUnit) Children() []Node {
	var out []Node
	for _, a := range c.GlobalAttributes {
		out = append(out, a)
	}
	for _, u := range c.Usings {
		out = append(out, u)
	}
	if c.FileScopedNamespace != nil {
		out = append(out, c.FileScopedNamespace)
	}
	for _, d := range c.Declarations {
		out = append(out, d)
	}
	for _, s := range c.TopLevelStatements {
		out = append(out, s)
	}
	return out
}

// UsingDirective is a single using import, optionally global, static,
// or aliased.
type UsingDirective struct {
	Global bool
	Static bool
	Alias  string   // empty unless the alias form
	Target []string // dotted name segments
}

func (u *UsingDirective) Children() []Node { return nil }
func (u *UsingDirective) declarationNode() {}

// NamespaceDecl is a block-scoped namespace declaration.
type NamespaceDecl struct {
	Name    []string
	Usings  []*UsingDirective
	Members []Declaration
}

func (n *NamespaceDecl) Children() []Node {
	var out []Node
	for _, u := range n.Usings {
		out = append(out, u)
	}
	for _, m := range n.Members {
		out = append(out, m)
	}
	return out
}
func (n *NamespaceDecl) declarationNode() {}

// FileScopedNamespaceDecl is a file-scoped namespace directive; the
// members it scopes live on the enclosing CompilationUnit.
type FileScopedNamespaceDecl struct {
	Name []string
}

func (n *FileScopedNamespaceDecl) Children() []Node { return nil }
func (n *FileScopedNamespaceDecl) declarationNode() {}

// AttributeList is one bracketed attribute group, e.g.
// [Obsolete, Serializable] or [assembly: AssemblyVersion("1.0")].
type AttributeList struct {
	Target     string // "assembly", "module", "return", ... or empty
	Attributes []*Attribute
}

func (a *AttributeList) Children() []Node {
	out := make([]Node, len(a.Attributes))
	for i, at := range a.Attributes {
		out[i] = at
	}
	return out
}

// Attribute is a single attribute with optional arguments.
type Attribute struct {
	Name      []string
	Arguments []Expression
}

func (a *Attribute) Children() []Node {
	out := make([]Node, len(a.Arguments))
	for i, e := range a.Arguments {
		out[i] = e
	}
	return out
}

func attributeNodes(lists []*AttributeList) []Node {
	var out []Node
	for _, l := range lists {
		out = append(out, l)
	}
	return out
}

func appendNode(out []Node, n Node) []Node {
	if n == nil {
		return out
	}
	return append(out, n)
}

func appendExpr(out []Node, e Expression) []Node {
	if e == nil {
		return out
	}
	return append(out, e)
}

func appendStmt(out []Node, s Statement) []Node {
	if s == nil {
		return out
	}
	return append(out, s)
}

func appendType(out []Node, t TypeNode) []Node {
	if t == nil {
		return out
	}
	return append(out, t)
}
