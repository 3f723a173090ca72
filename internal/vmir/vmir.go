// Package vmir defines a small register-based IR and a lowering pass
// from the syntax tree. Values live in numbered virtual registers,
// locals are addressed by name, and control flow is flat jumps between
// labels. Lowering covers the straight-line and structured-control
// subset of the language; everything else is an explicit CompileError.
package vmir

import (
	"fmt"
	"strconv"
	"strings"
)

// Reg is a virtual register number.
type Reg int

// NoReg marks an absent register operand, e.g. a discarded call
// result or a bare return.
const NoReg Reg = -1

func (r Reg) String() string {
	if r == NoReg {
		return "_"
	}
	return fmt.Sprintf("r%d", int(r))
}

// ConstKind classifies a constant operand.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
	ConstNull
)

// Const is an immediate operand.
type Const struct {
	Kind    ConstKind
	Int64   int64
	Float64 float64
	Bool    bool
	Str     string
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int64, 10)
	case ConstFloat:
		return strconv.FormatFloat(c.Float64, 'g', -1, 64)
	case ConstBool:
		return strconv.FormatBool(c.Bool)
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstNull:
		return "null"
	default:
		return "?"
	}
}

// Module bundles the functions lowered from one compilation unit.
type Module struct {
	Name      string
	Functions []*Function
}

func (m *Module) String() string {
	var b strings.Builder
	for i, f := range m.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.String())
	}
	return b.String()
}

// Function is a flat instruction list with labels as pseudo
// instructions. Regs is the number of virtual registers used.
type Function struct {
	Name   string
	Params []string
	Regs   int
	Code   []Instr
}

func (f *Function) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s)\n", f.Name, strings.Join(f.Params, ", "))
	for _, in := range f.Code {
		if _, ok := in.(Label); ok {
			fmt.Fprintf(&b, "%s\n", in)
		} else {
			fmt.Fprintf(&b, "  %s\n", in)
		}
	}
	return b.String()
}

// Instr is one IR instruction.
type Instr interface {
	Op() string
	String() string
}

// LoadConst loads an immediate into a register.
type LoadConst struct {
	Dst   Reg
	Const Const
}

func (LoadConst) Op() string       { return "const" }
func (i LoadConst) String() string { return fmt.Sprintf("%s = const %s", i.Dst, i.Const) }

// LoadVar reads a named local or parameter.
type LoadVar struct {
	Dst  Reg
	Name string
}

func (LoadVar) Op() string       { return "load" }
func (i LoadVar) String() string { return fmt.Sprintf("%s = load %s", i.Dst, i.Name) }

// StoreVar writes a register into a named local or parameter.
type StoreVar struct {
	Name string
	Src  Reg
}

func (StoreVar) Op() string       { return "store" }
func (i StoreVar) String() string { return fmt.Sprintf("store %s, %s", i.Name, i.Src) }

// Mov copies between registers.
type Mov struct{ Dst, Src Reg }

func (Mov) Op() string       { return "mov" }
func (i Mov) String() string { return fmt.Sprintf("%s = mov %s", i.Dst, i.Src) }

// Bin applies a binary operation. Kind is the mnemonic (add, sub,
// eq, lt, ...).
type Bin struct {
	Dst  Reg
	Kind string
	LHS  Reg
	RHS  Reg
}

func (i Bin) Op() string     { return i.Kind }
func (i Bin) String() string { return fmt.Sprintf("%s = %s %s, %s", i.Dst, i.Kind, i.LHS, i.RHS) }

// Un applies a unary operation (neg, not, com).
type Un struct {
	Dst  Reg
	Kind string
	Src  Reg
}

func (i Un) Op() string     { return i.Kind }
func (i Un) String() string { return fmt.Sprintf("%s = %s %s", i.Dst, i.Kind, i.Src) }

// Call invokes a named callee. Dst is NoReg when the result is
// discarded.
type Call struct {
	Dst    Reg
	Callee string
	Args   []Reg
}

func (Call) Op() string { return "call" }
func (i Call) String() string {
	args := make([]string, len(i.Args))
	for n, a := range i.Args {
		args[n] = a.String()
	}
	call := fmt.Sprintf("call %s(%s)", i.Callee, strings.Join(args, ", "))
	if i.Dst == NoReg {
		return call
	}
	return fmt.Sprintf("%s = %s", i.Dst, call)
}

// Jump transfers control to a label.
type Jump struct{ Target string }

func (Jump) Op() string       { return "jmp" }
func (i Jump) String() string { return fmt.Sprintf("jmp %s", i.Target) }

// Branch jumps to True when Cond is nonzero, otherwise to False.
type Branch struct {
	Cond  Reg
	True  string
	False string
}

func (Branch) Op() string       { return "br" }
func (i Branch) String() string { return fmt.Sprintf("br %s, %s, %s", i.Cond, i.True, i.False) }

// Label is a jump target pseudo instruction.
type Label struct{ Name string }

func (Label) Op() string       { return "label" }
func (i Label) String() string { return i.Name + ":" }

// Ret returns from the function, with a value unless Src is NoReg.
type Ret struct{ Src Reg }

func (Ret) Op() string { return "ret" }
func (i Ret) String() string {
	if i.Src == NoReg {
		return "ret"
	}
	return fmt.Sprintf("ret %s", i.Src)
}
