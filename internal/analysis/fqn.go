// Package analysis computes symbol listings and size metrics over
// parsed trees. It consumes only the tree and the span table key
// scheme; nothing here touches source text.
package analysis

import (
	"fmt"
	"strings"

	"github.com/bsharp-lang/bsharp/internal/ast"
)

// Symbol is one declared entity with its fully qualified path. Key
// follows the span table scheme (kind::namespace::owner::name with
// empty segments omitted and #n suffixes on collisions), so a symbol
// listing can be joined against the table built during parsing.
type Symbol struct {
	Kind      string // "class", "method", "ctor", "property", ...
	Namespace string // dotted enclosing namespace, may be empty
	Owner     string // dotted enclosing type path, may be empty
	Name      string // empty for constructors and destructors
	Key       string
	Decl      ast.Declaration
}

// FQN returns the human-readable qualified name: namespace, owner
// path, and member name joined with dots.
func (s *Symbol) FQN() string {
	var parts []string
	for _, seg := range []string{s.Namespace, s.Owner, s.Name} {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, ".")
}

// Symbols lists every type and member declaration in the unit in
// source order.
func Symbols(unit *ast.CompilationUnit) []*Symbol {
	c := &collector{taken: make(map[string]int)}
	if unit.FileScopedNamespace != nil {
		c.ns = unit.FileScopedNamespace.Name
	}
	for _, d := range unit.Declarations {
		c.declaration(d)
	}
	return c.out
}

type collector struct {
	ns    []string
	owner []string
	taken map[string]int
	out   []*Symbol
}

func (c *collector) add(kind, name string, decl ast.Declaration) *Symbol {
	s := &Symbol{
		Kind:      kind,
		Namespace: strings.Join(c.ns, "."),
		Owner:     strings.Join(c.owner, "."),
		Name:      name,
		Decl:      decl,
	}
	parts := []string{kind}
	for _, seg := range []string{s.Namespace, s.Owner, s.Name} {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	key := strings.Join(parts, "::")
	c.taken[key]++
	if n := c.taken[key]; n > 1 {
		key = fmt.Sprintf("%s#%d", key, n)
	}
	s.Key = key
	c.out = append(c.out, s)
	return s
}

func (c *collector) declaration(d ast.Declaration) {
	switch d := d.(type) {
	case *ast.NamespaceDecl:
		c.ns = append(c.ns, d.Name...)
		for _, m := range d.Members {
			c.declaration(m)
		}
		c.ns = c.ns[:len(c.ns)-len(d.Name)]
	case *ast.ClassDecl:
		c.typeDecl("class", d.Name, d, d.Members)
	case *ast.StructDecl:
		c.typeDecl("struct", d.Name, d, d.Members)
	case *ast.InterfaceDecl:
		c.typeDecl("interface", d.Name, d, d.Members)
	case *ast.RecordDecl:
		c.typeDecl("record", d.Name, d, d.Members)
	case *ast.EnumDecl:
		c.add("enum", d.Name, d)
	case *ast.DelegateDecl:
		c.add("delegate", d.Name, d)
	case *ast.MethodDecl:
		c.add("method", d.Name, d)
	case *ast.ConstructorDecl:
		c.add("ctor", "", d)
	case *ast.DestructorDecl:
		c.add("dtor", "", d)
	case *ast.PropertyDecl:
		c.add("property", d.Name, d)
	}
}

func (c *collector) typeDecl(kind, name string, d ast.Declaration, members []ast.Declaration) {
	c.add(kind, name, d)
	c.owner = append(c.owner, name)
	for _, m := range members {
		c.declaration(m)
	}
	c.owner = c.owner[:len(c.owner)-1]
}
