package asts

// Inspect traverses the tree rooted at node in depth-first order. If f
// returns false the children of the node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) {
		return
	}
	if !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct children of a node in source order.
func Children(node Node) (ret []Node) {
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if !isNil(n) {
				ret = append(ret, n)
			}
		}
	}

	switch n := node.(type) {

	case *ScriptBlock:
		add(paramBlock(n.Params), block(n.Begin), block(n.Process), block(n.Body))
	case *ParamBlock:
		for _, p := range n.Params {
			add(p)
		}
	case *Parameter:
	case *StatementBlock:
		for _, s := range n.Statements {
			add(s)
		}

	case *Assignment:
		add(n.Left, n.Right)
	case *Pipeline:
		for _, e := range n.Elements {
			add(e)
		}
	case *If:
		for _, c := range n.Clauses {
			add(c.Cond, block(c.Body))
		}
		add(block(n.Else))
	case *While:
		add(n.Cond, block(n.Body))
	case *DoWhile:
		add(block(n.Body), n.Cond)
	case *DoUntil:
		add(block(n.Body), n.Cond)
	case *For:
		add(n.Init, n.Cond, n.Iter, block(n.Body))
	case *ForEach:
		add(variable(n.Variable), n.Source, block(n.Body))
	case *Switch:
		add(n.Cond)
		for _, c := range n.Clauses {
			add(c.Value, block(c.Body))
		}
		add(block(n.Default))
	case *Catch:
		add(block(n.Body))
	case *Try:
		add(block(n.Body))
		for _, c := range n.Catches {
			add(c)
		}
		add(block(n.Finally))
	case *Throw:
		add(n.Value)
	case *Return:
		add(n.Value)
	case *Exit:
		add(n.Value)
	case *Command:
		for _, arg := range n.Args {
			add(arg)
		}
	case *BlockStatement:
		add(block(n.Body))
	case *FunctionDefinition:
		if n.Body != nil {
			add(n.Body)
		}
	case *Trap:
		add(block(n.Body))

	case *ExpandableString:
		for _, e := range n.Nested {
			add(e)
		}
	case *Convert:
		add(n.Child)
	case *Binary:
		add(n.Left, n.Right)
	case *Unary:
		add(n.Child)
	case *MemberAccess:
		add(n.Target, n.Member)
	case *InvokeMember:
		add(n.Target, n.Member)
		for _, arg := range n.Args {
			add(arg)
		}
	case *Index:
		add(n.Target, n.Index)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			add(e)
		}
	case *ArrayExpr:
		add(block(n.Body))
	case *Hashtable:
		for _, kv := range n.Pairs {
			add(kv.Key, kv.Value)
		}
	case *Paren:
		add(n.Inner)
	case *SubExpr:
		add(block(n.Body))
	case *ScriptBlockExpr:
		if n.Block != nil {
			add(n.Block)
		}

	}

	return
}

// typed nil pointers must not leak into the child list as non-nil interfaces

func block(b *StatementBlock) Node {
	if b == nil {
		return nil
	}
	return b
}

func paramBlock(b *ParamBlock) Node {
	if b == nil {
		return nil
	}
	return b
}

func variable(v *Variable) Node {
	if v == nil {
		return nil
	}
	return v
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *ScriptBlock:
		return n == nil
	case *StatementBlock:
		return n == nil
	case *ScriptBlockExpr:
		return n == nil
	case *Variable:
		return n == nil
	case *Catch:
		return n == nil
	}
	return false
}
