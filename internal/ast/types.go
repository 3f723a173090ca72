package ast

// PrimitiveKind identifies a built-in value type keyword.
type PrimitiveKind int

// Built-in type keywords.
const (
	PrimVoid PrimitiveKind = iota
	PrimBool
	PrimByte
	PrimSByte
	PrimShort
	PrimUShort
	PrimInt
	PrimUInt
	PrimLong
	PrimULong
	PrimNInt
	PrimNUInt
	PrimFloat
	PrimDouble
	PrimDecimal
	PrimChar
	PrimString
	PrimObject
)

var primitiveNames = map[PrimitiveKind]string{
	PrimVoid:    "void",
	PrimBool:    "bool",
	PrimByte:    "byte",
	PrimSByte:   "sbyte",
	PrimShort:   "short",
	PrimUShort:  "ushort",
	PrimInt:     "int",
	PrimUInt:    "uint",
	PrimLong:    "long",
	PrimULong:   "ulong",
	PrimNInt:    "nint",
	PrimNUInt:   "nuint",
	PrimFloat:   "float",
	PrimDouble:  "double",
	PrimDecimal: "decimal",
	PrimChar:    "char",
	PrimString:  "string",
	PrimObject:  "object",
}

func (k PrimitiveKind) String() string { return primitiveNames[k] }

// PrimitiveType is a built-in type keyword such as int or string.
type PrimitiveType struct {
	Kind PrimitiveKind
}

func (t *PrimitiveType) Children() []Node { return nil }
func (t *PrimitiveType) typeNode()        {}

// DynamicType is the dynamic keyword used as a type.
type DynamicType struct{}

func (t *DynamicType) Children() []Node { return nil }
func (t *DynamicType) typeNode()        {}

// InferredType is the var keyword used in a declaration position.
type InferredType struct{}

func (t *InferredType) Children() []Node { return nil }
func (t *InferredType) typeNode()        {}

// NamedType is a possibly qualified, possibly generic type reference
// such as List<int> or global::System.Collections.Generic.Dictionary.
type NamedType struct {
	Global   bool // carried a global:: qualifier
	Parts    []string
	TypeArgs []TypeNode
}

func (t *NamedType) Children() []Node {
	out := make([]Node, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		out[i] = a
	}
	return out
}
func (t *NamedType) typeNode() {}

// ArrayType is an array over an element type. Rank is the number of
// commas plus one, so int[,] has rank 2. Jagged arrays nest ArrayType.
type ArrayType struct {
	Element TypeNode
	Rank    int
}

func (t *ArrayType) Children() []Node { return []Node{t.Element} }
func (t *ArrayType) typeNode()        {}

// NullableType is T? for any element type.
type NullableType struct {
	Element TypeNode
}

func (t *NullableType) Children() []Node { return []Node{t.Element} }
func (t *NullableType) typeNode()        {}

// PointerType is T* in unsafe code.
type PointerType struct {
	Element TypeNode
}

func (t *PointerType) Children() []Node { return []Node{t.Element} }
func (t *PointerType) typeNode()        {}

// RefType is a ref or ref readonly return/local type.
type RefType struct {
	Readonly bool
	Element  TypeNode
}

func (t *RefType) Children() []Node { return []Node{t.Element} }
func (t *RefType) typeNode()        {}

// TupleTypeElement is one element of a tuple type, optionally named.
type TupleTypeElement struct {
	Name string // empty when unnamed
	Type TypeNode
}

// TupleType is (T1, T2, ...) with at least two elements.
type TupleType struct {
	Elements []TupleTypeElement
}

func (t *TupleType) Children() []Node {
	out := make([]Node, len(t.Elements))
	for i, e := range t.Elements {
		out[i] = e.Type
	}
	return out
}
func (t *TupleType) typeNode() {}

// FunctionPointerType is delegate*<T1, ..., TRet>, optionally with an
// unmanaged calling convention.
type FunctionPointerType struct {
	Unmanaged  bool
	Parameters []TypeNode // last element is the return type
}

func (t *FunctionPointerType) Children() []Node {
	out := make([]Node, len(t.Parameters))
	for i, p := range t.Parameters {
		out[i] = p
	}
	return out
}
func (t *FunctionPointerType) typeNode() {}
