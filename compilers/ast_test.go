package compilers

import (
	"testing"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

func at(line int) asts.Span {
	return asts.Span{
		Line:   line,
		Column: 1,
	}
}

func script(stmts ...asts.Statement) *asts.ScriptBlock {
	return &asts.ScriptBlock{
		Body: stmtBlock(stmts...),
	}
}

func withParams(block *asts.ScriptBlock, params ...*asts.Parameter) *asts.ScriptBlock {
	block.Params = &asts.ParamBlock{
		Params: params,
	}
	return block
}

func decl(name string, typeName string) *asts.Parameter {
	p := &asts.Parameter{
		Name: name,
	}
	if typeName != "" {
		p.Type = &asts.TypeName{Name: typeName}
	}
	return p
}

func stmtBlock(stmts ...asts.Statement) *asts.StatementBlock {
	return &asts.StatementBlock{
		Statements: stmts,
	}
}

func ref(name string) *asts.Variable {
	return &asts.Variable{
		Name: name,
	}
}

func refAt(line int, name string) *asts.Variable {
	return &asts.Variable{
		Span: at(line),
		Name: name,
	}
}

func num(n int) *asts.Constant {
	return &asts.Constant{
		Value: n,
	}
}

func text(s string) *asts.StringConstant {
	return &asts.StringConstant{
		Value: s,
	}
}

func op(o asts.BinaryOp, left, right asts.Expr) *asts.Binary {
	return &asts.Binary{
		Op:    o,
		Left:  left,
		Right: right,
	}
}

func typeLit(name string, args ...string) *asts.TypeLiteral {
	t := &asts.TypeName{
		Name: name,
	}
	for _, arg := range args {
		t.Args = append(t.Args, &asts.TypeName{Name: arg})
	}
	return &asts.TypeLiteral{
		Type: t,
	}
}

func invoke(target asts.Expr, name string, args ...asts.Expr) *asts.InvokeMember {
	return &asts.InvokeMember{
		Target: target,
		Member: text(name),
		Args:   args,
	}
}

func access(target asts.Expr, name string) *asts.MemberAccess {
	return &asts.MemberAccess{
		Target: target,
		Member: text(name),
	}
}

func closureOf(block *asts.ScriptBlock) *asts.ScriptBlockExpr {
	return &asts.ScriptBlockExpr{
		Block: block,
	}
}

func assign(name string, value asts.Statement) *asts.Assignment {
	return &asts.Assignment{
		Left:  ref(name),
		Op:    asts.AssignEquals,
		Right: value,
	}
}

func funcType(result *types.Type, params ...*types.Type) *types.Type {
	return types.FuncOf(params, result)
}

func mustCompile(t *testing.T, c *Compiler, block *asts.ScriptBlock, opts Options) *exprs.Lambda {
	t.Helper()
	lambda, err := c.Compile(block, opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return lambda
}
