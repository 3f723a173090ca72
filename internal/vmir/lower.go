package vmir

import (
	"fmt"
	"strings"

	"github.com/bsharp-lang/bsharp/internal/ast"
)

// CompileError reports a construct the IR cannot express.
type CompileError struct {
	Construct string
}

func (e *CompileError) Error() string {
	return "vmir: cannot lower " + e.Construct
}

func unsupported(n ast.Node) error {
	return &CompileError{Construct: describe(n)}
}

func describe(n ast.Node) string {
	switch n.(type) {
	case *ast.AwaitExpr:
		return "await expression"
	case *ast.LambdaExpr:
		return "lambda expression"
	case *ast.NewExpr:
		return "object creation"
	case *ast.SwitchExpr:
		return "switch expression"
	case *ast.SwitchStmt:
		return "switch statement"
	case *ast.TryStmt:
		return "try statement"
	case *ast.ForEachStmt:
		return "foreach statement"
	case *ast.ThrowStmt, *ast.ThrowExpr:
		return "throw"
	case *ast.IsPatternExpr:
		return "pattern match"
	case *ast.CastExpr, *ast.AsExpr:
		return "cast"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
	}
}

var binKinds = map[ast.BinaryOp]string{
	ast.OpAdd:          "add",
	ast.OpSub:          "sub",
	ast.OpMul:          "mul",
	ast.OpDiv:          "div",
	ast.OpMod:          "mod",
	ast.OpBitAnd:       "and",
	ast.OpBitOr:        "or",
	ast.OpBitXor:       "xor",
	ast.OpShiftLeft:    "shl",
	ast.OpShiftRight:   "shr",
	ast.OpShiftRightU:  "shru",
	ast.OpEqual:        "eq",
	ast.OpNotEqual:     "ne",
	ast.OpLess:         "lt",
	ast.OpGreater:      "gt",
	ast.OpLessEqual:    "le",
	ast.OpGreaterEqual: "ge",
}

var compoundKinds = map[ast.AssignOp]string{
	ast.AssignAdd:     "add",
	ast.AssignSub:     "sub",
	ast.AssignMul:     "mul",
	ast.AssignDiv:     "div",
	ast.AssignMod:     "mod",
	ast.AssignAnd:     "and",
	ast.AssignOr:      "or",
	ast.AssignXor:     "xor",
	ast.AssignShiftL:  "shl",
	ast.AssignShiftR:  "shr",
	ast.AssignShiftRU: "shru",
}

// Lower lowers every method with a body in the unit. The first
// construct the IR cannot express fails the whole lowering, wrapped
// with the offending method's name.
func Lower(name string, unit *ast.CompilationUnit) (*Module, error) {
	mod := &Module{Name: name}
	for _, m := range ast.FindAll[*ast.MethodDecl](unit) {
		if m.Body == nil && m.ExprBody == nil {
			continue
		}
		fn, err := LowerMethod(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Name, err)
		}
		mod.Functions = append(mod.Functions, fn)
	}
	return mod, nil
}

// LowerMethod lowers one method body into a function.
func LowerMethod(m *ast.MethodDecl) (*Function, error) {
	l := &lowerer{fn: &Function{Name: m.Name}}
	for _, p := range m.Parameters {
		l.fn.Params = append(l.fn.Params, p.Name)
	}
	switch {
	case m.Body != nil:
		if err := l.stmt(m.Body); err != nil {
			return nil, err
		}
	case m.ExprBody != nil:
		r, err := l.expr(m.ExprBody)
		if err != nil {
			return nil, err
		}
		l.emit(Ret{Src: r})
	}
	if n := len(l.fn.Code); n == 0 || !isRet(l.fn.Code[n-1]) {
		l.emit(Ret{Src: NoReg})
	}
	l.fn.Regs = int(l.next)
	return l.fn, nil
}

func isRet(i Instr) bool {
	_, ok := i.(Ret)
	return ok
}

type loop struct {
	breakTo    string
	continueTo string
}

type lowerer struct {
	fn     *Function
	next   Reg
	labels int
	loops  []loop
}

func (l *lowerer) reg() Reg {
	r := l.next
	l.next++
	return r
}

func (l *lowerer) label() string {
	l.labels++
	return fmt.Sprintf("L%d", l.labels)
}

func (l *lowerer) emit(i Instr) { l.fn.Code = append(l.fn.Code, i) }

func (l *lowerer) stmt(s ast.Statement) error {
	switch s := s.(type) {
	case *ast.BlockStmt:
		for _, inner := range s.Statements {
			if err := l.stmt(inner); err != nil {
				return err
			}
		}
		return nil
	case *ast.EmptyStmt:
		return nil
	case *ast.LocalDeclStmt:
		for _, d := range s.Declarators {
			if d.Value == nil {
				continue
			}
			r, err := l.expr(d.Value)
			if err != nil {
				return err
			}
			l.emit(StoreVar{Name: d.Name, Src: r})
		}
		return nil
	case *ast.ExpressionStmt:
		return l.exprStmt(s.Expr)
	case *ast.IfStmt:
		return l.ifStmt(s)
	case *ast.WhileStmt:
		return l.whileStmt(s)
	case *ast.DoWhileStmt:
		return l.doWhileStmt(s)
	case *ast.ForStmt:
		return l.forStmt(s)
	case *ast.ReturnStmt:
		if s.Value == nil {
			l.emit(Ret{Src: NoReg})
			return nil
		}
		r, err := l.expr(s.Value)
		if err != nil {
			return err
		}
		l.emit(Ret{Src: r})
		return nil
	case *ast.BreakStmt:
		if len(l.loops) == 0 {
			return unsupported(s)
		}
		l.emit(Jump{Target: l.loops[len(l.loops)-1].breakTo})
		return nil
	case *ast.ContinueStmt:
		if len(l.loops) == 0 {
			return unsupported(s)
		}
		l.emit(Jump{Target: l.loops[len(l.loops)-1].continueTo})
		return nil
	default:
		return unsupported(s)
	}
}

// exprStmt lowers an expression for effect; call results are
// discarded rather than moved into a register.
func (l *lowerer) exprStmt(e ast.Expression) error {
	if call, ok := e.(*ast.InvocationExpr); ok {
		_, err := l.call(call, true)
		return err
	}
	_, err := l.expr(e)
	return err
}

func (l *lowerer) ifStmt(s *ast.IfStmt) error {
	cond, err := l.expr(s.Cond)
	if err != nil {
		return err
	}
	thenL, endL := l.label(), l.label()
	elseL := endL
	if s.Else != nil {
		elseL = l.label()
	}
	l.emit(Branch{Cond: cond, True: thenL, False: elseL})
	l.emit(Label{Name: thenL})
	if err := l.stmt(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		l.emit(Jump{Target: endL})
		l.emit(Label{Name: elseL})
		if err := l.stmt(s.Else); err != nil {
			return err
		}
	}
	l.emit(Label{Name: endL})
	return nil
}

func (l *lowerer) whileStmt(s *ast.WhileStmt) error {
	headL, bodyL, endL := l.label(), l.label(), l.label()
	l.emit(Label{Name: headL})
	cond, err := l.expr(s.Cond)
	if err != nil {
		return err
	}
	l.emit(Branch{Cond: cond, True: bodyL, False: endL})
	l.emit(Label{Name: bodyL})
	l.loops = append(l.loops, loop{breakTo: endL, continueTo: headL})
	err = l.stmt(s.Body)
	l.loops = l.loops[:len(l.loops)-1]
	if err != nil {
		return err
	}
	l.emit(Jump{Target: headL})
	l.emit(Label{Name: endL})
	return nil
}

func (l *lowerer) doWhileStmt(s *ast.DoWhileStmt) error {
	bodyL, condL, endL := l.label(), l.label(), l.label()
	l.emit(Label{Name: bodyL})
	l.loops = append(l.loops, loop{breakTo: endL, continueTo: condL})
	err := l.stmt(s.Body)
	l.loops = l.loops[:len(l.loops)-1]
	if err != nil {
		return err
	}
	l.emit(Label{Name: condL})
	cond, err := l.expr(s.Cond)
	if err != nil {
		return err
	}
	l.emit(Branch{Cond: cond, True: bodyL, False: endL})
	l.emit(Label{Name: endL})
	return nil
}

func (l *lowerer) forStmt(s *ast.ForStmt) error {
	if s.Init != nil {
		if err := l.stmt(s.Init); err != nil {
			return err
		}
	}
	headL, bodyL, stepL, endL := l.label(), l.label(), l.label(), l.label()
	l.emit(Label{Name: headL})
	if s.Cond != nil {
		cond, err := l.expr(s.Cond)
		if err != nil {
			return err
		}
		l.emit(Branch{Cond: cond, True: bodyL, False: endL})
		l.emit(Label{Name: bodyL})
	}
	l.loops = append(l.loops, loop{breakTo: endL, continueTo: stepL})
	err := l.stmt(s.Body)
	l.loops = l.loops[:len(l.loops)-1]
	if err != nil {
		return err
	}
	l.emit(Label{Name: stepL})
	for _, it := range s.Iterators {
		if err := l.exprStmt(it); err != nil {
			return err
		}
	}
	l.emit(Jump{Target: headL})
	l.emit(Label{Name: endL})
	return nil
}

func (l *lowerer) expr(e ast.Expression) (Reg, error) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return l.literal(e)
	case *ast.NameExpr:
		if e.Global || len(e.Parts) != 1 || len(e.TypeArgs) != 0 {
			return NoReg, unsupported(e)
		}
		dst := l.reg()
		l.emit(LoadVar{Dst: dst, Name: e.Parts[0]})
		return dst, nil
	case *ast.BinaryExpr:
		return l.binary(e)
	case *ast.UnaryExpr:
		return l.unary(e)
	case *ast.PostfixUnaryExpr:
		return l.postfix(e)
	case *ast.AssignmentExpr:
		return l.assign(e)
	case *ast.ConditionalExpr:
		return l.conditional(e)
	case *ast.InvocationExpr:
		return l.call(e, false)
	default:
		return NoReg, unsupported(e)
	}
}

func (l *lowerer) literal(e *ast.LiteralExpr) (Reg, error) {
	var c Const
	switch e.Kind {
	case ast.LitInteger:
		v, ok := e.Value.(int64)
		if !ok {
			return NoReg, unsupported(e) // out of int64 range
		}
		c = Const{Kind: ConstInt, Int64: v}
	case ast.LitFloat:
		c = Const{Kind: ConstFloat, Float64: e.Value.(float64)}
	case ast.LitBool:
		c = Const{Kind: ConstBool, Bool: e.Value.(bool)}
	case ast.LitString:
		c = Const{Kind: ConstString, Str: e.Value.(string)}
	case ast.LitChar:
		c = Const{Kind: ConstInt, Int64: int64(e.Value.(rune))}
	case ast.LitNull:
		c = Const{Kind: ConstNull}
	default:
		return NoReg, unsupported(e)
	}
	dst := l.reg()
	l.emit(LoadConst{Dst: dst, Const: c})
	return dst, nil
}

func (l *lowerer) binary(e *ast.BinaryExpr) (Reg, error) {
	if e.Op == ast.OpLogicalAnd || e.Op == ast.OpLogicalOr {
		return l.shortCircuit(e)
	}
	kind, ok := binKinds[e.Op]
	if !ok {
		return NoReg, unsupported(e)
	}
	lhs, err := l.expr(e.Left)
	if err != nil {
		return NoReg, err
	}
	rhs, err := l.expr(e.Right)
	if err != nil {
		return NoReg, err
	}
	dst := l.reg()
	l.emit(Bin{Dst: dst, Kind: kind, LHS: lhs, RHS: rhs})
	return dst, nil
}

// shortCircuit lowers && and || with branches so the right operand
// only evaluates when it has to.
func (l *lowerer) shortCircuit(e *ast.BinaryExpr) (Reg, error) {
	lhs, err := l.expr(e.Left)
	if err != nil {
		return NoReg, err
	}
	dst := l.reg()
	l.emit(Mov{Dst: dst, Src: lhs})
	rhsL, endL := l.label(), l.label()
	if e.Op == ast.OpLogicalAnd {
		l.emit(Branch{Cond: lhs, True: rhsL, False: endL})
	} else {
		l.emit(Branch{Cond: lhs, True: endL, False: rhsL})
	}
	l.emit(Label{Name: rhsL})
	rhs, err := l.expr(e.Right)
	if err != nil {
		return NoReg, err
	}
	l.emit(Mov{Dst: dst, Src: rhs})
	l.emit(Label{Name: endL})
	return dst, nil
}

func (l *lowerer) unary(e *ast.UnaryExpr) (Reg, error) {
	if e.Op == ast.OpIncrement || e.Op == ast.OpDecrement {
		next, _, err := l.stepVar(e.Operand, e.Op)
		return next, err
	}
	src, err := l.expr(e.Operand)
	if err != nil {
		return NoReg, err
	}
	var kind string
	switch e.Op {
	case ast.OpPlus:
		return src, nil
	case ast.OpNegate:
		kind = "neg"
	case ast.OpNot:
		kind = "not"
	case ast.OpComplement:
		kind = "com"
	default:
		return NoReg, unsupported(e)
	}
	dst := l.reg()
	l.emit(Un{Dst: dst, Kind: kind, Src: src})
	return dst, nil
}

func (l *lowerer) postfix(e *ast.PostfixUnaryExpr) (Reg, error) {
	switch e.Op {
	case ast.OpIncrement, ast.OpDecrement:
		_, old, err := l.stepVar(e.Operand, e.Op)
		return old, err
	case ast.OpNullForgiving:
		return l.expr(e.Operand)
	default:
		return NoReg, unsupported(e)
	}
}

// stepVar lowers ++/-- on a simple variable, returning the stepped
// and the original register.
func (l *lowerer) stepVar(target ast.Expression, op ast.UnaryOp) (next, old Reg, err error) {
	name, ok := simpleName(target)
	if !ok {
		return NoReg, NoReg, unsupported(target)
	}
	old = l.reg()
	l.emit(LoadVar{Dst: old, Name: name})
	one := l.reg()
	l.emit(LoadConst{Dst: one, Const: Const{Kind: ConstInt, Int64: 1}})
	kind := "add"
	if op == ast.OpDecrement {
		kind = "sub"
	}
	next = l.reg()
	l.emit(Bin{Dst: next, Kind: kind, LHS: old, RHS: one})
	l.emit(StoreVar{Name: name, Src: next})
	return next, old, nil
}

func (l *lowerer) assign(e *ast.AssignmentExpr) (Reg, error) {
	name, ok := simpleName(e.Target)
	if !ok {
		return NoReg, unsupported(e.Target)
	}
	val, err := l.expr(e.Value)
	if err != nil {
		return NoReg, err
	}
	if e.Op == ast.AssignSimple {
		l.emit(StoreVar{Name: name, Src: val})
		return val, nil
	}
	kind, ok := compoundKinds[e.Op]
	if !ok {
		return NoReg, unsupported(e)
	}
	cur := l.reg()
	l.emit(LoadVar{Dst: cur, Name: name})
	dst := l.reg()
	l.emit(Bin{Dst: dst, Kind: kind, LHS: cur, RHS: val})
	l.emit(StoreVar{Name: name, Src: dst})
	return dst, nil
}

func (l *lowerer) conditional(e *ast.ConditionalExpr) (Reg, error) {
	cond, err := l.expr(e.Cond)
	if err != nil {
		return NoReg, err
	}
	dst := l.reg()
	thenL, elseL, endL := l.label(), l.label(), l.label()
	l.emit(Branch{Cond: cond, True: thenL, False: elseL})
	l.emit(Label{Name: thenL})
	thenR, err := l.expr(e.Then)
	if err != nil {
		return NoReg, err
	}
	l.emit(Mov{Dst: dst, Src: thenR})
	l.emit(Jump{Target: endL})
	l.emit(Label{Name: elseL})
	elseR, err := l.expr(e.Else)
	if err != nil {
		return NoReg, err
	}
	l.emit(Mov{Dst: dst, Src: elseR})
	l.emit(Label{Name: endL})
	return dst, nil
}

func (l *lowerer) call(e *ast.InvocationExpr, discard bool) (Reg, error) {
	callee, ok := calleeName(e.Callee)
	if !ok {
		return NoReg, unsupported(e.Callee)
	}
	var args []Reg
	for _, a := range e.Arguments {
		if a.Name != "" || a.Modifier != "" {
			return NoReg, unsupported(e)
		}
		r, err := l.expr(a.Value)
		if err != nil {
			return NoReg, err
		}
		args = append(args, r)
	}
	dst := NoReg
	if !discard {
		dst = l.reg()
	}
	l.emit(Call{Dst: dst, Callee: callee, Args: args})
	return dst, nil
}

// simpleName extracts a bare single-segment variable reference.
func simpleName(e ast.Expression) (string, bool) {
	n, ok := e.(*ast.NameExpr)
	if !ok || n.Global || len(n.Parts) != 1 || len(n.TypeArgs) != 0 {
		return "", false
	}
	return n.Parts[0], true
}

// calleeName flattens a dotted callee into one name. Only plain
// identifier chains qualify; computed receivers do not.
func calleeName(e ast.Expression) (string, bool) {
	switch e := e.(type) {
	case *ast.NameExpr:
		if e.Global {
			return "", false
		}
		return strings.Join(e.Parts, "."), true
	case *ast.MemberAccessExpr:
		prefix, ok := calleeName(e.Target)
		if !ok {
			return "", false
		}
		return prefix + "." + e.Member, true
	default:
		return "", false
	}
}
