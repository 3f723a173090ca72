package ast

// Designation is the variable binding trailing a pattern: a name, a
// discard, or absent (the zero value).
type Designation struct {
	Discard bool
	Name    string
}

// Present reports whether the pattern carries any designation.
func (d Designation) Present() bool { return d.Discard || d.Name != "" }

// TypePattern matches a type test, optionally binding: x is string s.
type TypePattern struct {
	Type        TypeNode
	Designation Designation
}

func (p *TypePattern) Children() []Node { return []Node{p.Type} }
func (p *TypePattern) patternNode()     {}

// ConstantPattern matches a constant expression: case 42, case "a".
type ConstantPattern struct {
	Value Expression
}

func (p *ConstantPattern) Children() []Node { return []Node{p.Value} }
func (p *ConstantPattern) patternNode()     {}

// VarPattern binds unconditionally: case var x.
type VarPattern struct {
	Designation Designation
}

func (p *VarPattern) Children() []Node { return nil }
func (p *VarPattern) patternNode()     {}

// DiscardPattern is the lone underscore.
type DiscardPattern struct{}

func (p *DiscardPattern) Children() []Node { return nil }
func (p *DiscardPattern) patternNode()     {}

// RelationalPattern is a comparison against a constant: > 0, <= 10.
type RelationalPattern struct {
	Op    BinaryOp
	Value Expression
}

func (p *RelationalPattern) Children() []Node { return []Node{p.Value} }
func (p *RelationalPattern) patternNode()     {}

// AndPattern is left and right.
type AndPattern struct {
	Left  Pattern
	Right Pattern
}

func (p *AndPattern) Children() []Node { return []Node{p.Left, p.Right} }
func (p *AndPattern) patternNode()     {}

// OrPattern is left or right.
type OrPattern struct {
	Left  Pattern
	Right Pattern
}

func (p *OrPattern) Children() []Node { return []Node{p.Left, p.Right} }
func (p *OrPattern) patternNode()     {}

// NotPattern is not operand.
type NotPattern struct {
	Operand Pattern
}

func (p *NotPattern) Children() []Node { return []Node{p.Operand} }
func (p *NotPattern) patternNode()     {}

// PropertySubpattern is one Name: pattern entry of a property pattern.
type PropertySubpattern struct {
	Name    string
	Pattern Pattern
}

func (p *PropertySubpattern) Children() []Node { return []Node{p.Pattern} }

// PropertyPattern is [Type] { Name: pat, ... } [designation].
type PropertyPattern struct {
	Type        TypeNode // nil when omitted
	Subpatterns []*PropertySubpattern
	Designation Designation
}

func (p *PropertyPattern) Children() []Node {
	var out []Node
	out = appendType(out, p.Type)
	for _, s := range p.Subpatterns {
		out = append(out, s)
	}
	return out
}
func (p *PropertyPattern) patternNode() {}

// PositionalPattern is [Type] (pat, ...) [{ props }] [designation].
type PositionalPattern struct {
	Type        TypeNode
	Subpatterns []Pattern
	Properties  []*PropertySubpattern
	Designation Designation
}

func (p *PositionalPattern) Children() []Node {
	var out []Node
	out = appendType(out, p.Type)
	for _, s := range p.Subpatterns {
		out = append(out, s)
	}
	for _, pr := range p.Properties {
		out = append(out, pr)
	}
	return out
}
func (p *PositionalPattern) patternNode() {}

// ListPatternElement is one element of a list pattern; Slice marks a
// .. element whose Pattern (optional) binds the slice.
type ListPatternElement struct {
	Slice   bool
	Pattern Pattern // nil for a bare ..
}

// ListPattern is [pat, .., pat] [designation].
type ListPattern struct {
	Elements    []ListPatternElement
	Designation Designation
}

func (p *ListPattern) Children() []Node {
	var out []Node
	for _, e := range p.Elements {
		if e.Pattern != nil {
			out = append(out, e.Pattern)
		}
	}
	return out
}
func (p *ListPattern) patternNode() {}

// ParenthesizedPattern preserves explicit grouping of pattern
// combinators.
type ParenthesizedPattern struct {
	Operand Pattern
}

func (p *ParenthesizedPattern) Children() []Node { return []Node{p.Operand} }
func (p *ParenthesizedPattern) patternNode()     {}
