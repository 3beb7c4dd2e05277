// Package exprs is the statically typed expression tree produced by the compiler.
package exprs

import (
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

type Expr interface {
	Type() *types.Type
	expr()
}

type Constant struct {
	Value any
	T     *types.Type
}

// Default is the zero value of T.
type Default struct {
	T *types.Type
}

// Empty is a no-op of type void.
type Empty struct{}

// Variable is a local variable or a parameter. Compared by identity.
type Variable struct {
	Name string
	T    *types.Type
}

// Captured is a host variable bound at compile time.
type Captured struct {
	Name string
	// Ref is the host handle of the variable.
	Ref any
	T   *types.Type
}

type Assign struct {
	Target Expr
	Value  Expr
}

// Call invokes a method. Instance is nil for static methods.
type Call struct {
	Instance Expr
	Method   *types.Member
	Args     []Expr
}

// RuntimeCall invokes a runtime-support operation.
type RuntimeCall struct {
	Op   runtimes.Op
	Args []Expr
	T    *types.Type
}

type New struct {
	Constructor *types.Member
	Args        []Expr
}

type NewArray struct {
	Elem  *types.Type
	Items []Expr
}

// Index reads an element. Indexer is nil for array element access.
type Index struct {
	Target  Expr
	Indexer *types.Member
	Args    []Expr
	T       *types.Type
}

// Member reads a property or field. Target is nil for static members.
type Member struct {
	Target Expr
	Member *types.Member
}

type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	T     *types.Type
}

type Unary struct {
	Op      UnaryOp
	Operand Expr
	T       *types.Type
}

type Convert struct {
	Operand Expr
	T       *types.Type
}

type TypeIs struct {
	Operand Expr
	Target  *types.Type
}

type Block struct {
	Vars  []*Variable
	Exprs []Expr
	T     *types.Type
}

// Label is a jump target. Compared by identity.
type Label struct {
	Name string
	T    *types.Type
}

// LabelMark places a label. Default is the value when reached by fallthrough.
type LabelMark struct {
	Label   *Label
	Default Expr
}

type GotoKind uint8

const (
	GotoJump GotoKind = iota
	GotoBreak
	GotoContinue
	GotoReturn
)

type Goto struct {
	Kind  GotoKind
	Label *Label
	Value Expr
}

// Loop runs Body until a jump to Break. Continue may be nil.
type Loop struct {
	Body     Expr
	Break    *Label
	Continue *Label
}

type Conditional struct {
	Test Expr
	Then Expr
	Else Expr
	T    *types.Type
}

type Catch struct {
	ErrType *types.Type
	// Var is nil when the caught value is not bound.
	Var  *Variable
	Body Expr
}

type Try struct {
	Body    Expr
	Catches []Catch
	Finally Expr
	T       *types.Type
}

type Case struct {
	Tests []Expr
	Body  Expr
}

// Switch compares Value against each case test; IgnoreCase selects the
// case-insensitive runtime comparer.
type Switch struct {
	Value      Expr
	Cases      []Case
	Default    Expr
	IgnoreCase bool
	T          *types.Type
}

type Lambda struct {
	Name   string
	Params []*Variable
	Body   Expr
	Result *types.Type
}

// Throw raises Value; a nil Value rethrows the error being handled.
type Throw struct {
	Value Expr
}

func (c *Constant) Type() *types.Type    { return c.T }
func (d *Default) Type() *types.Type     { return d.T }
func (*Empty) Type() *types.Type         { return types.Void }
func (v *Variable) Type() *types.Type    { return v.T }
func (c *Captured) Type() *types.Type    { return c.T }
func (a *Assign) Type() *types.Type      { return a.Target.Type() }
func (c *Call) Type() *types.Type        { return c.Method.Result() }
func (r *RuntimeCall) Type() *types.Type { return r.T }
func (n *New) Type() *types.Type         { return n.Constructor.Owner }
func (n *NewArray) Type() *types.Type    { return types.ArrayOf(n.Elem) }
func (i *Index) Type() *types.Type       { return i.T }
func (m *Member) Type() *types.Type      { return m.Member.Result() }
func (b *Binary) Type() *types.Type      { return b.T }
func (u *Unary) Type() *types.Type       { return u.T }
func (c *Convert) Type() *types.Type     { return c.T }
func (*TypeIs) Type() *types.Type        { return types.Bool }
func (b *Block) Type() *types.Type       { return b.T }
func (l *LabelMark) Type() *types.Type   { return l.Label.T }
func (*Goto) Type() *types.Type          { return types.Void }
func (l *Loop) Type() *types.Type {
	if l.Break == nil {
		return types.Void
	}
	return l.Break.T
}
func (c *Conditional) Type() *types.Type { return c.T }
func (t *Try) Type() *types.Type         { return t.T }
func (s *Switch) Type() *types.Type      { return s.T }
func (l *Lambda) Type() *types.Type {
	in := make([]*types.Type, len(l.Params))
	for i, p := range l.Params {
		in[i] = p.T
	}
	return types.FuncOf(in, l.Result)
}
func (*Throw) Type() *types.Type { return types.Void }

func (*Constant) expr()    {}
func (*Default) expr()     {}
func (*Empty) expr()       {}
func (*Variable) expr()    {}
func (*Captured) expr()    {}
func (*Assign) expr()      {}
func (*Call) expr()        {}
func (*RuntimeCall) expr() {}
func (*New) expr()         {}
func (*NewArray) expr()    {}
func (*Index) expr()       {}
func (*Member) expr()      {}
func (*Binary) expr()      {}
func (*Unary) expr()       {}
func (*Convert) expr()     {}
func (*TypeIs) expr()      {}
func (*Block) expr()       {}
func (*LabelMark) expr()   {}
func (*Goto) expr()        {}
func (*Loop) expr()        {}
func (*Conditional) expr() {}
func (*Try) expr()         {}
func (*Switch) expr()      {}
func (*Lambda) expr()      {}
func (*Throw) expr()       {}
