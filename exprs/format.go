package exprs

import (
	"fmt"
	"strings"
)

// Format renders e as an indented s-expression.
func Format(e Expr) string {
	p := &printer{}
	p.print(e)
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.b.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteString("\n")
}

func (p *printer) nested(head string, children ...Expr) {
	p.line("(%s", head)
	p.indent++
	for _, c := range children {
		if c == nil {
			p.line("nil")
			continue
		}
		p.print(c)
	}
	p.indent--
	p.line(")")
}

func varList(vars []*Variable) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.Name + ":" + v.T.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (p *printer) print(e Expr) {
	switch e := e.(type) {
	case *Constant:
		if s, ok := e.Value.(string); ok {
			p.line("(const %q %s)", s, e.T)
		} else {
			p.line("(const %v %s)", e.Value, e.T)
		}
	case *Default:
		p.line("(default %s)", e.T)
	case *Empty:
		p.line("(empty)")
	case *Variable:
		p.line("(var %s %s)", e.Name, e.T)
	case *Captured:
		p.line("(captured %s %s)", e.Name, e.T)
	case *Assign:
		p.nested("assign", e.Target, e.Value)
	case *Call:
		args := append([]Expr(nil), e.Args...)
		if e.Instance != nil {
			args = append([]Expr{e.Instance}, args...)
		}
		p.nested("call "+e.Method.String(), args...)
	case *RuntimeCall:
		p.nested(fmt.Sprintf("runtime %s %s", e.Op, e.T), e.Args...)
	case *New:
		p.nested("new "+e.Constructor.Owner.String(), e.Args...)
	case *NewArray:
		p.nested("array "+e.Elem.String(), e.Items...)
	case *Index:
		head := "index " + e.T.String()
		if e.Indexer != nil {
			head = "index " + e.Indexer.String()
		}
		p.nested(head, append([]Expr{e.Target}, e.Args...)...)
	case *Member:
		if e.Target == nil {
			p.line("(member %s)", e.Member)
		} else {
			p.nested("member "+e.Member.String(), e.Target)
		}
	case *Binary:
		p.nested(fmt.Sprintf("binary %s %s", e.Op, e.T), e.Left, e.Right)
	case *Unary:
		p.nested(fmt.Sprintf("unary %s %s", e.Op, e.T), e.Operand)
	case *Convert:
		p.nested("convert "+e.T.String(), e.Operand)
	case *TypeIs:
		p.nested("typeis "+e.Target.String(), e.Operand)
	case *Block:
		p.nested(fmt.Sprintf("block %s %s", e.T, varList(e.Vars)), e.Exprs...)
	case *LabelMark:
		if e.Default == nil {
			p.line("(label %s)", e.Label.Name)
		} else {
			p.nested("label "+e.Label.Name, e.Default)
		}
	case *Goto:
		kind := [...]string{"goto", "break", "continue", "return"}[e.Kind]
		if e.Value == nil {
			p.line("(%s %s)", kind, e.Label.Name)
		} else {
			p.nested(kind+" "+e.Label.Name, e.Value)
		}
	case *Loop:
		head := "loop"
		if e.Break != nil {
			head += " break=" + e.Break.Name
		}
		if e.Continue != nil {
			head += " continue=" + e.Continue.Name
		}
		p.nested(head, e.Body)
	case *Conditional:
		if e.Else == nil {
			p.nested("if "+e.T.String(), e.Test, e.Then)
		} else {
			p.nested("if "+e.T.String(), e.Test, e.Then, e.Else)
		}
	case *Try:
		p.line("(try")
		p.indent++
		p.print(e.Body)
		for _, c := range e.Catches {
			head := "catch " + c.ErrType.String()
			if c.Var != nil {
				head += " " + c.Var.Name
			}
			p.nested(head, c.Body)
		}
		if e.Finally != nil {
			p.nested("finally", e.Finally)
		}
		p.indent--
		p.line(")")
	case *Switch:
		head := "switch"
		if e.IgnoreCase {
			head += " ignorecase"
		}
		p.line("(%s", head)
		p.indent++
		p.print(e.Value)
		for _, c := range e.Cases {
			p.nested("case", append(append([]Expr(nil), c.Tests...), c.Body)...)
		}
		if e.Default != nil {
			p.nested("default", e.Default)
		}
		p.indent--
		p.line(")")
	case *Lambda:
		p.nested(fmt.Sprintf("lambda %s %s %s", e.Name, varList(e.Params), e.Result), e.Body)
	case *Throw:
		if e.Value == nil {
			p.line("(rethrow)")
		} else {
			p.nested("throw", e.Value)
		}
	default:
		p.line("(? %T)", e)
	}
}
