package exprs

import (
	"errors"
	"fmt"

	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

// ErrInvalidOperation is returned when operands do not fit an operation.
var ErrInvalidOperation = errors.New("invalid operation")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

func NewConstant(value any, t *types.Type) *Constant {
	return &Constant{
		Value: value,
		T:     t,
	}
}

func NewVariable(name string, t *types.Type) *Variable {
	return &Variable{
		Name: name,
		T:    t,
	}
}

func NewLabel(name string, t *types.Type) *Label {
	if t == nil {
		t = types.Void
	}
	return &Label{
		Name: name,
		T:    t,
	}
}

// Assignable reports whether e can be the target of an assignment.
func Assignable(e Expr) bool {
	switch e := e.(type) {
	case *Variable, *Captured:
		return true
	case *Index:
		return true
	case *Member:
		return e.Member.Kind == types.MemberField || e.Member.Kind == types.MemberProperty
	}
	return false
}

func NewAssign(target, value Expr) (*Assign, error) {
	if !Assignable(target) {
		return nil, invalid("%T is not assignable", target)
	}
	if !value.Type().AssignableTo(target.Type()) {
		return nil, invalid("cannot assign %s to %s", value.Type(), target.Type())
	}
	return &Assign{
		Target: target,
		Value:  value,
	}, nil
}

func checkArgs(params []types.Param, args []Expr) error {
	if len(params) != len(args) {
		return invalid("expected %d arguments, got %d", len(params), len(args))
	}
	for i, p := range params {
		pt := p.Type
		if pt.IsByRef() {
			if !Assignable(args[i]) || args[i].Type() != pt.Elem() {
				return invalid("argument %d must be an assignable %s", i, pt.Elem())
			}
			continue
		}
		if !args[i].Type().AssignableTo(pt) {
			return invalid("argument %d: cannot use %s as %s", i, args[i].Type(), pt)
		}
	}
	return nil
}

func NewCall(instance Expr, method *types.Member, args ...Expr) (*Call, error) {
	if method.IsGeneric() {
		return nil, invalid("generic method %s is not instantiated", method.Name)
	}
	if instance == nil && !method.Static {
		return nil, invalid("instance method %s requires a receiver", method.Name)
	}
	if instance != nil && method.Static {
		return nil, invalid("static method %s called with a receiver", method.Name)
	}
	if err := checkArgs(method.Params, args); err != nil {
		return nil, err
	}
	return &Call{
		Instance: instance,
		Method:   method,
		Args:     args,
	}, nil
}

// NewRuntimeCall calls op. For ops taking a type operand, t is the result type.
func NewRuntimeCall(op runtimes.Op, t *types.Type, args ...Expr) (*RuntimeCall, error) {
	sig, err := op.Signature()
	if err != nil {
		return nil, err
	}
	if len(sig.Params) != len(args) {
		return nil, invalid("%s expects %d arguments, got %d", op, len(sig.Params), len(args))
	}
	for i, p := range sig.Params {
		if !args[i].Type().AssignableTo(p) {
			return nil, invalid("%s argument %d: cannot use %s as %s", op, i, args[i].Type(), p)
		}
	}
	if t == nil || !op.TypeOperand() {
		t = sig.Result
	}
	return &RuntimeCall{
		Op:   op,
		Args: args,
		T:    t,
	}, nil
}

func NewNew(ctor *types.Member, args ...Expr) (*New, error) {
	if ctor.Kind != types.MemberConstructor {
		return nil, invalid("%s is not a constructor", ctor.Name)
	}
	if err := checkArgs(ctor.Params, args); err != nil {
		return nil, err
	}
	return &New{
		Constructor: ctor,
		Args:        args,
	}, nil
}

func NewNewArray(elem *types.Type, items ...Expr) (*NewArray, error) {
	for i, item := range items {
		if !item.Type().AssignableTo(elem) {
			return nil, invalid("array item %d: cannot use %s as %s", i, item.Type(), elem)
		}
	}
	return &NewArray{
		Elem:  elem,
		Items: items,
	}, nil
}

// NewArrayIndex reads element index of an array.
func NewArrayIndex(target, index Expr) (*Index, error) {
	if target.Type().Kind() != types.KindArray {
		return nil, invalid("%s is not an array", target.Type())
	}
	if !index.Type().Kind().IsInteger() {
		return nil, invalid("array index must be an integer, got %s", index.Type())
	}
	return &Index{
		Target: target,
		Args:   []Expr{index},
		T:      target.Type().Elem(),
	}, nil
}

// NewIndex reads through an indexer property.
func NewIndex(target Expr, indexer *types.Member, args ...Expr) (*Index, error) {
	if indexer.Kind != types.MemberProperty || len(indexer.Params) == 0 {
		return nil, invalid("%s is not an indexer", indexer.Name)
	}
	if err := checkArgs(indexer.Params, args); err != nil {
		return nil, err
	}
	return &Index{
		Target:  target,
		Indexer: indexer,
		Args:    args,
		T:       indexer.Type,
	}, nil
}

func NewMember(target Expr, member *types.Member) (*Member, error) {
	switch member.Kind {
	case types.MemberField, types.MemberProperty:
	default:
		return nil, invalid("%s is not a property or field", member.Name)
	}
	if len(member.Params) > 0 {
		return nil, invalid("%s requires index arguments", member.Name)
	}
	if target == nil && !member.Static {
		return nil, invalid("%s is not static", member.Name)
	}
	return &Member{
		Target: target,
		Member: member,
	}, nil
}

func NewBinary(op BinaryOp, left, right Expr) (*Binary, error) {
	lt, rt := left.Type(), right.Type()
	switch {
	case op == AndAlso || op == OrElse:
		if lt != types.Bool || rt != types.Bool {
			return nil, invalid("operator %s requires bool operands, got %s and %s", op, lt, rt)
		}
		return &Binary{Op: op, Left: left, Right: right, T: types.Bool}, nil

	case op == Equal || op == NotEqual:
		if lt != rt && !lt.AssignableTo(rt) && !rt.AssignableTo(lt) {
			return nil, invalid("operator %s not defined for %s and %s", op, lt, rt)
		}
		return &Binary{Op: op, Left: left, Right: right, T: types.Bool}, nil

	case op.IsComparison():
		if lt != rt || !lt.IsNumeric() {
			return nil, invalid("operator %s not defined for %s and %s", op, lt, rt)
		}
		return &Binary{Op: op, Left: left, Right: right, T: types.Bool}, nil

	case op == LeftShift || op == RightShift:
		if !lt.Kind().IsInteger() || rt != types.Int {
			return nil, invalid("operator %s not defined for %s and %s", op, lt, rt)
		}
		return &Binary{Op: op, Left: left, Right: right, T: lt}, nil

	case op.IsBitwise():
		if lt != rt || !(lt.Kind().IsInteger() || lt == types.Bool) {
			return nil, invalid("operator %s not defined for %s and %s", op, lt, rt)
		}
		return &Binary{Op: op, Left: left, Right: right, T: lt}, nil

	case op == Add && lt == types.String && rt == types.String:
		return &Binary{Op: op, Left: left, Right: right, T: types.String}, nil

	case op.IsArithmetic():
		if lt != rt || !lt.IsNumeric() {
			return nil, invalid("operator %s not defined for %s and %s", op, lt, rt)
		}
		return &Binary{Op: op, Left: left, Right: right, T: lt}, nil
	}
	return nil, invalid("unknown binary operator %d", op)
}

func NewUnary(op UnaryOp, operand Expr) (*Unary, error) {
	t := operand.Type()
	switch op {
	case Not:
		if t != types.Bool {
			return nil, invalid("operator ! not defined for %s", t)
		}
	case Negate:
		if !t.IsNumeric() {
			return nil, invalid("operator - not defined for %s", t)
		}
	case OnesComplement:
		if !t.Kind().IsInteger() {
			return nil, invalid("operator ^ not defined for %s", t)
		}
	case PreIncrementAssign, PreDecrementAssign, PostIncrementAssign, PostDecrementAssign:
		if !t.IsNumeric() {
			return nil, invalid("operator %s not defined for %s", op, t)
		}
		if !Assignable(operand) {
			return nil, invalid("operand of %s is not assignable", op)
		}
	default:
		return nil, invalid("unknown unary operator %d", op)
	}
	return &Unary{
		Op:      op,
		Operand: operand,
		T:       t,
	}, nil
}

// Convertible reports whether NewConvert accepts a conversion from t to u.
func Convertible(t, u *types.Type) bool {
	switch {
	case t == u:
		return true
	case t.IsVoid() || u.IsVoid():
		return false
	case t.AssignableTo(u) || u.AssignableTo(t):
		// boxing, unboxing, up and down casts
		return true
	case t.Kind() == types.KindAny || u.Kind() == types.KindAny:
		return true
	}
	numericLike := func(x *types.Type) bool {
		return x.IsNumeric() || x.IsEnum()
	}
	if numericLike(t) && numericLike(u) {
		return true
	}
	if t.Kind() == types.KindInterface || u.Kind() == types.KindInterface {
		return true
	}
	return false
}

func NewConvert(operand Expr, t *types.Type) (*Convert, error) {
	if !Convertible(operand.Type(), t) {
		return nil, invalid("no conversion from %s to %s", operand.Type(), t)
	}
	return &Convert{
		Operand: operand,
		T:       t,
	}, nil
}

// ConvertIfNeeded converts e to t unless it already has type t.
func ConvertIfNeeded(e Expr, t *types.Type) (Expr, error) {
	if e.Type() == t {
		return e, nil
	}
	return NewConvert(e, t)
}

func NewTypeIs(operand Expr, target *types.Type) *TypeIs {
	return &TypeIs{
		Operand: operand,
		Target:  target,
	}
}

// NewBlock returns a block typed by its last expression, void if empty.
func NewBlock(vars []*Variable, list ...Expr) *Block {
	t := types.Void
	if len(list) > 0 {
		t = list[len(list)-1].Type()
	}
	return &Block{
		Vars:  vars,
		Exprs: list,
		T:     t,
	}
}

// NewTypedBlock returns a block of type t; a void t discards the last value.
func NewTypedBlock(t *types.Type, vars []*Variable, list ...Expr) (*Block, error) {
	if !t.IsVoid() {
		if len(list) == 0 {
			return nil, invalid("block of type %s has no value", t)
		}
		if last := list[len(list)-1].Type(); !last.AssignableTo(t) {
			return nil, invalid("block of type %s ends with %s", t, last)
		}
	}
	return &Block{
		Vars:  vars,
		Exprs: list,
		T:     t,
	}, nil
}

func NewLabelMark(label *Label, def Expr) (*LabelMark, error) {
	if def == nil {
		if !label.T.IsVoid() {
			def = &Default{T: label.T}
		}
	} else if !def.Type().AssignableTo(label.T) {
		return nil, invalid("label %s of type %s with default %s", label.Name, label.T, def.Type())
	}
	return &LabelMark{
		Label:   label,
		Default: def,
	}, nil
}

func NewGoto(kind GotoKind, label *Label, value Expr) (*Goto, error) {
	if value == nil && !label.T.IsVoid() {
		return nil, invalid("jump to %s requires a %s value", label.Name, label.T)
	}
	if value != nil && !label.T.IsVoid() && !value.Type().AssignableTo(label.T) {
		return nil, invalid("jump to %s of type %s with %s", label.Name, label.T, value.Type())
	}
	return &Goto{
		Kind:  kind,
		Label: label,
		Value: value,
	}, nil
}

func NewLoop(body Expr, brk, cont *Label) *Loop {
	return &Loop{
		Body:     body,
		Break:    brk,
		Continue: cont,
	}
}

// NewConditional builds a conditional; a nil Else means no else branch.
// The result is void unless both branches share a type.
func NewConditional(test, then, els Expr) (*Conditional, error) {
	if test.Type() != types.Bool {
		return nil, invalid("condition must be bool, got %s", test.Type())
	}
	t := types.Void
	if els != nil && then.Type() == els.Type() {
		t = then.Type()
	}
	return &Conditional{
		Test: test,
		Then: then,
		Else: els,
		T:    t,
	}, nil
}

func NewTry(body Expr, catches []Catch, finally Expr) (*Try, error) {
	if len(catches) == 0 && finally == nil {
		return nil, invalid("try requires a catch or a finally")
	}
	for _, c := range catches {
		if !c.ErrType.AssignableTo(types.Error) {
			return nil, invalid("%s is not an error type", c.ErrType)
		}
	}
	return &Try{
		Body:    body,
		Catches: catches,
		Finally: finally,
		T:       types.Void,
	}, nil
}

func NewSwitch(value Expr, cases []Case, def Expr, ignoreCase bool) *Switch {
	return &Switch{
		Value:      value,
		Cases:      cases,
		Default:    def,
		IgnoreCase: ignoreCase,
		T:          types.Void,
	}
}

func NewLambda(name string, params []*Variable, body Expr, result *types.Type) (*Lambda, error) {
	if result == nil {
		result = types.Void
	}
	if !result.IsVoid() && !body.Type().AssignableTo(result) {
		return nil, invalid("lambda %s returns %s, body is %s", name, result, body.Type())
	}
	return &Lambda{
		Name:   name,
		Params: params,
		Body:   body,
		Result: result,
	}, nil
}

func NewThrow(value Expr) (*Throw, error) {
	if value != nil && !value.Type().AssignableTo(types.Error) && value.Type().Kind() != types.KindAny {
		return nil, invalid("cannot throw %s", value.Type())
	}
	return &Throw{
		Value: value,
	}, nil
}
