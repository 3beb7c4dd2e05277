package binders

import (
	"testing"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

type fakeHost struct {
	compiled  int
	probes    int
	committed []*exprs.Lambda
	reported  []diags.ID
	// probe returns the lambda result for a probe, or nil to fail it.
	probe func(params []*types.Type, result *types.Type) *types.Type
}

var _ Host = new(fakeHost)

func (f *fakeHost) CompileArgument(node asts.Expr) (exprs.Expr, error) {
	f.compiled++
	switch node := node.(type) {
	case *asts.StringConstant:
		return exprs.NewConstant(node.Value, types.String), nil
	case *asts.Constant:
		return exprs.NewConstant(node.Value, types.Int), nil
	case *asts.Variable:
		if node.Name == "missing" {
			return &exprs.Empty{}, nil
		}
	}
	return exprs.NewVariable("x", types.Any), nil
}

func (f *fakeHost) ProbeClosure(block *asts.ScriptBlock, params []*types.Type, result *types.Type) (*exprs.Lambda, error) {
	f.probes++
	ret := f.probe(params, result)
	if ret == nil {
		return nil, nil
	}
	vars := make([]*exprs.Variable, len(params))
	for i, p := range params {
		vars[i] = exprs.NewVariable(block.Params.Params[i].Name, p)
	}
	return exprs.NewLambda("", vars, &exprs.Default{T: ret}, ret)
}

func (f *fakeHost) CommitClosure(lambda *exprs.Lambda) {
	f.committed = append(f.committed, lambda)
}

func (f *fakeHost) Poisoned(expr exprs.Expr) bool {
	_, ok := expr.(*exprs.Empty)
	return ok
}

func (f *fakeHost) Report(span asts.Span, id diags.ID, message string) error {
	f.reported = append(f.reported, id)
	return nil
}

func closure(params ...string) *asts.ScriptBlockExpr {
	block := &asts.ScriptBlock{
		Params: &asts.ParamBlock{},
		Body: &asts.StatementBlock{
			Statements: []asts.Statement{
				&asts.Variable{Name: "x"},
			},
		},
	}
	for _, p := range params {
		block.Params.Params = append(block.Params.Params, &asts.Parameter{Name: p})
	}
	return &asts.ScriptBlockExpr{
		Block: block,
	}
}

func method(name string, result *types.Type, params ...*types.Type) *types.Member {
	m := &types.Member{
		Kind: types.MemberMethod,
		Name: name,
		Type: result,
	}
	for _, p := range params {
		m.Params = append(m.Params, types.Param{Type: p})
	}
	return m
}

func TestDeclarationOrder(t *testing.T) {
	first := method("Put", types.Int, types.Any)
	second := method("Put", types.String, types.Any)
	recv := types.NewStruct("test", "Box").AddMembers(first, second)
	binder := New(types.NewRegistry(), nil, nil)
	host := &fakeHost{}
	for i := 0; i < 3; i++ {
		res, err := binder.BindMethod(host, Call{
			Instance: exprs.NewVariable("b", recv),
			Receiver: recv,
			Name:     "put",
			Args:     NewArguments([]asts.Expr{&asts.Constant{Value: 1}}),
		})
		if err != nil {
			t.Fatal(err)
		}
		if !res.OK() || res.Member != first {
			t.Fatalf("got %v", res.Member)
		}
	}
}

func TestPlainArgumentCompiledOnce(t *testing.T) {
	recv := types.NewStruct("test", "Box").AddMembers(
		method("Put", types.Void, types.String, types.String),
		method("Put", types.Void, types.Int, types.String),
	)
	binder := New(types.NewRegistry(), nil, nil)
	host := &fakeHost{}
	res, err := binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("b", recv),
		Receiver: recv,
		Name:     "Put",
		Args: NewArguments([]asts.Expr{
			&asts.Constant{Value: 1},
			&asts.StringConstant{Value: "a"},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("got %v", res.ID)
	}
	if res.Member.Params[0].Type != types.Int {
		t.Fatalf("got %v", res.Member)
	}
	if host.compiled != 2 {
		t.Fatalf("got %d", host.compiled)
	}
}

func TestNameAndArgumentMismatch(t *testing.T) {
	recv := types.NewStruct("test", "Box").AddMembers(
		method("Put", types.Void, types.Int),
	)
	binder := New(types.NewRegistry(), nil, nil)
	host := &fakeHost{}

	res, err := binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("b", recv),
		Receiver: recv,
		Name:     "Take",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberNameMatch {
		t.Fatalf("got %v", res.ID)
	}

	res, err = binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("b", recv),
		Receiver: recv,
		Name:     "Put",
		Args:     NewArguments([]asts.Expr{&asts.StringConstant{Value: "a"}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberArgumentMatch {
		t.Fatalf("got %v", res.ID)
	}

	// static lookups do not see instance methods
	res, err = binder.BindMethod(host, Call{
		Receiver: recv,
		Name:     "Put",
		Args:     NewArguments([]asts.Expr{&asts.Constant{Value: 1}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberNameMatch {
		t.Fatalf("got %v", res.ID)
	}
}

func TestPoisonedArgument(t *testing.T) {
	recv := types.NewStruct("test", "Box").AddMembers(
		method("Put", types.Void, types.Int),
		method("Put", types.Void, types.String),
	)
	binder := New(types.NewRegistry(), nil, nil)
	host := &fakeHost{}
	res, err := binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("b", recv),
		Receiver: recv,
		Name:     "Put",
		Args:     NewArguments([]asts.Expr{&asts.Variable{Name: "missing"}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || !res.Poisoned {
		t.Fatalf("got %+v", res)
	}
	if res.ID == diags.NoMemberArgumentMatch {
		t.Fatalf("got %v", res.ID)
	}
	if host.compiled != 1 {
		t.Fatalf("got %d", host.compiled)
	}

	// unknown names are still reported
	res, err = binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("b", recv),
		Receiver: recv,
		Name:     "Take",
		Args:     NewArguments([]asts.Expr{&asts.Variable{Name: "missing"}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Poisoned || res.ID != diags.NoMemberNameMatch {
		t.Fatalf("got %+v", res)
	}
}

func TestGenericConflict(t *testing.T) {
	tp := types.NewTypeParam("T")
	same := &types.Member{
		Kind:       types.MemberMethod,
		Name:       "Same",
		Static:     true,
		TypeParams: []*types.Type{tp},
		Type:       tp,
		Params: []types.Param{
			{Name: "a", Type: tp},
			{Name: "b", Type: tp},
		},
	}
	recv := types.NewStruct("test", "Util").AddMembers(same)
	binder := New(types.NewRegistry(), nil, nil)

	res, err := binder.BindMethod(&fakeHost{}, Call{
		Receiver: recv,
		Name:     "Same",
		Args: NewArguments([]asts.Expr{
			&asts.Constant{Value: 1},
			&asts.StringConstant{Value: "a"},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberArgumentMatch {
		t.Fatalf("got %v", res.ID)
	}

	res, err = binder.BindMethod(&fakeHost{}, Call{
		Receiver: recv,
		Name:     "Same",
		Args: NewArguments([]asts.Expr{
			&asts.Constant{Value: 1},
			&asts.Constant{Value: 2},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Expr.Type() != types.Int {
		t.Fatalf("got %v", res.Expr)
	}
	if res.Member.Definition() != same {
		t.Fatal("expected instantiation of Same")
	}
}

func TestExplicitGenerics(t *testing.T) {
	tp := types.NewTypeParam("T")
	recv := types.NewStruct("test", "Util").AddMembers(&types.Member{
		Kind:       types.MemberMethod,
		Name:       "Make",
		Static:     true,
		TypeParams: []*types.Type{tp},
		Type:       types.ArrayOf(tp),
	})
	binder := New(types.NewRegistry(), nil, nil)
	res, err := binder.BindMethod(&fakeHost{}, Call{
		Receiver: recv,
		Name:     "Make",
		Generics: []*types.Type{types.String},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Expr.Type() != types.ArrayOf(types.String) {
		t.Fatalf("got %v", res.Expr)
	}

	res, err = binder.BindMethod(&fakeHost{}, Call{
		Receiver: recv,
		Name:     "Make",
		Generics: []*types.Type{types.String, types.Int},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberArgumentMatch {
		t.Fatalf("got %v", res.ID)
	}
}

func TestExtensionFallback(t *testing.T) {
	xs := exprs.NewVariable("xs", types.ArrayOf(types.Int))

	binder := New(types.NewRegistry(), []string{"SEQ"}, nil)
	res, err := binder.BindMethod(&fakeHost{}, Call{
		Instance: xs,
		Receiver: xs.T,
		Name:     "ToArray",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("got %v", res.ID)
	}
	if res.Expr.Type() != types.ArrayOf(types.Int) {
		t.Fatalf("got %v", res.Expr.Type())
	}
	call := res.Expr.(*exprs.Call)
	if call.Instance != nil || len(call.Args) != 1 {
		t.Fatalf("got %v", exprs.Format(call))
	}

	// namespace not allowed
	binder = New(types.NewRegistry(), nil, nil)
	res, err = binder.BindMethod(&fakeHost{}, Call{
		Instance: xs,
		Receiver: xs.T,
		Name:     "ToArray",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberNameMatch {
		t.Fatalf("got %v", res.ID)
	}
}

func TestClosureInference(t *testing.T) {
	xs := exprs.NewVariable("xs", types.ArrayOf(types.Int))
	binder := New(types.NewRegistry(), []string{"seq"}, nil)
	host := &fakeHost{
		probe: func(params []*types.Type, result *types.Type) *types.Type {
			if result != nil {
				return result
			}
			return types.String
		},
	}
	res, err := binder.BindMethod(host, Call{
		Instance: xs,
		Receiver: xs.T,
		Name:     "select",
		Args:     NewArguments([]asts.Expr{closure("x")}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("got %v", res.ID)
	}
	want, _ := types.Seq.Instantiate(types.String)
	if res.Expr.Type() != want {
		t.Fatalf("got %v", res.Expr.Type())
	}
	if len(host.committed) != 1 {
		t.Fatalf("got %d", len(host.committed))
	}
	if host.committed[0].Params[0].T != types.Int {
		t.Fatalf("got %v", host.committed[0].Params[0].T)
	}
}

func TestProbeFailureFallsThrough(t *testing.T) {
	byInt := method("Run", types.Int, types.FuncOf([]*types.Type{types.Int}, types.Int))
	byString := method("Run", types.String, types.FuncOf([]*types.Type{types.String}, types.String))
	recv := types.NewStruct("test", "Runner").AddMembers(byInt, byString)
	binder := New(types.NewRegistry(), nil, nil)
	host := &fakeHost{
		probe: func(params []*types.Type, result *types.Type) *types.Type {
			if params[0] == types.Int {
				return nil
			}
			return result
		},
	}
	arg := NewArguments([]asts.Expr{closure("s")})
	res, err := binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("r", recv),
		Receiver: recv,
		Name:     "Run",
		Args:     arg,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Member != byString {
		t.Fatalf("got %v", res.Member)
	}
	if len(host.reported) != 0 {
		t.Fatalf("probe diagnostics surfaced: %v", host.reported)
	}
	if len(host.committed) != 1 {
		t.Fatalf("got %d", len(host.committed))
	}

	// memoized per signature
	probes := host.probes
	if _, err := binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("r", recv),
		Receiver: recv,
		Name:     "Run",
		Args:     arg,
	}); err != nil {
		t.Fatal(err)
	}
	if host.probes != probes {
		t.Fatalf("got %d probes", host.probes-probes)
	}
}

func TestClosureArity(t *testing.T) {
	recv := types.NewStruct("test", "Runner").AddMembers(
		method("Run", types.Void, types.FuncOf([]*types.Type{types.Int, types.Int}, types.Int)),
		method("Run", types.Void, types.Int),
	)
	binder := New(types.NewRegistry(), nil, nil)
	host := &fakeHost{
		probe: func(params []*types.Type, result *types.Type) *types.Type {
			return result
		},
	}
	res, err := binder.BindMethod(host, Call{
		Instance: exprs.NewVariable("r", recv),
		Receiver: recv,
		Name:     "Run",
		Args:     NewArguments([]asts.Expr{closure("a")}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.ID != diags.NoMemberArgumentMatch {
		t.Fatalf("got %v", res.ID)
	}
	if host.probes != 0 || host.compiled != 0 {
		t.Fatalf("got %d probes, %d compiles", host.probes, host.compiled)
	}
}

func TestVoidDelegateRejectsValueReturn(t *testing.T) {
	recv := types.NewStruct("test", "Runner").AddMembers(
		method("Run", types.Void, types.FuncOf([]*types.Type{types.Int}, nil)),
	)
	block := closure("a")
	block.Block.Body.Statements = []asts.Statement{
		&asts.Return{Value: &asts.Constant{Value: 1}},
	}
	host := &fakeHost{
		probe: func(params []*types.Type, result *types.Type) *types.Type {
			return types.Void
		},
	}
	res, err := New(types.NewRegistry(), nil, nil).BindMethod(host, Call{
		Instance: exprs.NewVariable("r", recv),
		Receiver: recv,
		Name:     "Run",
		Args:     NewArguments([]asts.Expr{block}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() {
		t.Fatal("should reject")
	}
	if host.probes != 0 {
		t.Fatalf("got %d", host.probes)
	}
}

func TestBindConstructor(t *testing.T) {
	point := types.NewStruct("test", "Point")
	byAny := &types.Member{Kind: types.MemberConstructor, Name: "new", Static: true, Params: []types.Param{{Type: types.Any}}}
	byInt := &types.Member{Kind: types.MemberConstructor, Name: "new", Static: true, Params: []types.Param{{Type: types.Int}}}
	point.AddMembers(byAny, byInt)
	binder := New(types.NewRegistry(), nil, nil)

	res := binder.BindConstructor(point, []exprs.Expr{exprs.NewConstant(1, types.Int)})
	if !res.OK() || res.Member != byInt {
		t.Fatalf("got %v", res.Member)
	}
	res = binder.BindConstructor(point, []exprs.Expr{exprs.NewConstant("a", types.String)})
	if !res.OK() || res.Member != byAny {
		t.Fatalf("got %v", res.Member)
	}
	if _, ok := res.Expr.(*exprs.New).Args[0].(*exprs.Convert); !ok {
		t.Fatal("expected conversion to parameter type")
	}
	res = binder.BindConstructor(point, nil)
	if res.OK() || res.ID != diags.NoMemberArgumentMatch {
		t.Fatalf("got %v", res.ID)
	}
	res = binder.BindConstructor(types.NewStruct("test", "Empty"), nil)
	if res.OK() || res.ID != diags.MissingMember {
		t.Fatalf("got %v", res.ID)
	}
}
