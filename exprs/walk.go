package exprs

// Children returns the direct sub-expressions of e in evaluation order.
func Children(e Expr) []Expr {
	var ret []Expr
	add := func(es ...Expr) {
		for _, e := range es {
			if e != nil {
				ret = append(ret, e)
			}
		}
	}
	switch e := e.(type) {
	case *Assign:
		add(e.Target, e.Value)
	case *Call:
		add(e.Instance)
		add(e.Args...)
	case *RuntimeCall:
		add(e.Args...)
	case *New:
		add(e.Args...)
	case *NewArray:
		add(e.Items...)
	case *Index:
		add(e.Target)
		add(e.Args...)
	case *Member:
		add(e.Target)
	case *Binary:
		add(e.Left, e.Right)
	case *Unary:
		add(e.Operand)
	case *Convert:
		add(e.Operand)
	case *TypeIs:
		add(e.Operand)
	case *Block:
		add(e.Exprs...)
	case *LabelMark:
		add(e.Default)
	case *Goto:
		add(e.Value)
	case *Loop:
		add(e.Body)
	case *Conditional:
		add(e.Test, e.Then, e.Else)
	case *Try:
		add(e.Body)
		for _, c := range e.Catches {
			add(c.Body)
		}
		add(e.Finally)
	case *Switch:
		add(e.Value)
		for _, c := range e.Cases {
			add(c.Tests...)
			add(c.Body)
		}
		add(e.Default)
	case *Lambda:
		add(e.Body)
	case *Throw:
		add(e.Value)
	}
	return ret
}

// Walk calls f for e and its descendants in depth-first order.
// Returning false from f skips the children of that node.
func Walk(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, f)
	}
}

// Find returns every node of type T under e, including e itself.
func Find[T Expr](e Expr) []T {
	var ret []T
	Walk(e, func(e Expr) bool {
		if t, ok := e.(T); ok {
			ret = append(ret, t)
		}
		return true
	})
	return ret
}
