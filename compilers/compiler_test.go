package compilers

import (
	"errors"
	"testing"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

func diagsOf(t *testing.T, err error) diags.Errors {
	t.Helper()
	var errs diags.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected diagnostics, got %v", err)
	}
	return errs
}

func TestImplicitReturnWithSignature(t *testing.T) {
	c := New(Config{})
	block := withParams(
		script(op(asts.OpPlus, ref("x"), num(1))),
		decl("x", ""),
	)
	lambda := mustCompile(t, c, block, Options{
		Signature: funcType(types.Int, types.Int),
	})
	if lambda.Result != types.Int {
		t.Fatalf("got %v", lambda.Result)
	}
	if lambda.Type() != funcType(types.Int, types.Int) {
		t.Fatalf("got %v", lambda.Type())
	}
	if len(exprs.Find[*exprs.LabelMark](lambda)) != 0 {
		t.Fatalf("implicit return should not need a label:\n%s", exprs.Format(lambda))
	}
	if len(lambda.Params) != 1 || lambda.Params[0].T != types.Int {
		t.Fatalf("got %v", lambda.Params)
	}
}

func TestNoImplicitReturnForVoid(t *testing.T) {
	c := New(Config{})
	block := withParams(
		script(op(asts.OpPlus, ref("x"), num(1))),
		decl("x", ""),
	)
	lambda := mustCompile(t, c, block, Options{
		Signature: funcType(types.Void, types.Int),
	})
	if !lambda.Result.IsVoid() {
		t.Fatalf("got %v", lambda.Result)
	}
	marks := exprs.Find[*exprs.LabelMark](lambda)
	if len(marks) != 1 || !marks[0].Label.T.IsVoid() {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
}

func TestNoImplicitReturnWithoutSignature(t *testing.T) {
	c := New(Config{})
	lambda := mustCompile(t, c, script(num(1)), Options{})
	if !lambda.Result.IsVoid() {
		t.Fatalf("got %v", lambda.Result)
	}
}

func TestInferredResultFromReturn(t *testing.T) {
	c := New(Config{})
	lambda := mustCompile(t, c, script(
		&asts.Return{Value: num(5)},
	), Options{})
	if lambda.Result != types.Int {
		t.Fatalf("got %v", lambda.Result)
	}
	if len(exprs.Find[*exprs.Goto](lambda)) != 1 {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
}

func TestDeclaredParameterTypes(t *testing.T) {
	c := New(Config{})
	lambda := mustCompile(t, c, withParams(
		script(&asts.Return{Value: ref("name")}),
		decl("name", "string"),
		decl("rest", ""),
	), Options{})
	if lambda.Params[0].T != types.String || lambda.Params[1].T != types.Any {
		t.Fatalf("got %v %v", lambda.Params[0].T, lambda.Params[1].T)
	}
	if lambda.Result != types.String {
		t.Fatalf("got %v", lambda.Result)
	}
}

func TestParameterCountMismatch(t *testing.T) {
	c := New(Config{})
	_, err := c.Compile(script(num(1)), Options{
		Signature: funcType(types.Int, types.Int),
	})
	errs := diagsOf(t, err)
	if len(errs) != 1 || errs[0].ID != diags.MissingRequiredElement {
		t.Fatalf("got %v", errs)
	}
}

func TestErrorsCappedInSourceOrder(t *testing.T) {
	c := New(Config{})
	_, err := c.Compile(script(
		refAt(1, "a"),
		refAt(2, "b"),
		refAt(3, "c"),
		refAt(4, "d"),
	), Options{})
	errs := diagsOf(t, err)
	if len(errs) != diags.Limit {
		t.Fatalf("got %d: %v", len(errs), errs)
	}
	for i, e := range errs {
		if e.ID != diags.InvalidVariableReference {
			t.Fatalf("got %v", e)
		}
		if e.Span.Line != i+1 {
			t.Fatalf("got line %d at %d", e.Span.Line, i)
		}
	}
}

func TestErrorsBelowCap(t *testing.T) {
	c := New(Config{})
	_, err := c.Compile(script(
		refAt(1, "a"),
		num(1),
		refAt(3, "b"),
	), Options{})
	errs := diagsOf(t, err)
	if len(errs) != 2 {
		t.Fatalf("got %v", errs)
	}
}

func TestPoisonedOperandsReportOnce(t *testing.T) {
	c := New(Config{})
	_, err := c.Compile(script(
		op(asts.OpPlus, op(asts.OpMinus, refAt(1, "missing"), num(1)), num(2)),
	), Options{})
	errs := diagsOf(t, err)
	if len(errs) != 1 || errs[0].ID != diags.InvalidVariableReference {
		t.Fatalf("got %v", errs)
	}
}

func TestPoisonedArgumentReportsOnce(t *testing.T) {
	sinkType := types.NewStruct("test", "Sink").AddMembers(
		&types.Member{
			Kind:   types.MemberMethod,
			Name:   "Put",
			Type:   types.Int,
			Params: []types.Param{{Name: "v", Type: types.Int}},
		},
		&types.Member{
			Kind:   types.MemberMethod,
			Name:   "Put",
			Type:   types.Int,
			Params: []types.Param{{Name: "v", Type: types.String}},
		},
	)
	sink := &Variable{Name: "sink", Type: sinkType, Cell: new(any)}
	c := New(Config{})
	_, err := c.Compile(script(
		invoke(ref("sink"), "Put", refAt(1, "a")),
		refAt(2, "b"),
		refAt(3, "c"),
		refAt(4, "d"),
	), Options{
		Variables: []*Variable{sink},
	})
	errs := diagsOf(t, err)
	if len(errs) != diags.Limit {
		t.Fatalf("got %d: %v", len(errs), errs)
	}
	for i, e := range errs {
		if e.ID != diags.InvalidVariableReference || e.Span.Line != i+1 {
			t.Fatalf("got %v at %d", e, i)
		}
	}
}

func TestNonFuncSignature(t *testing.T) {
	c := New(Config{})
	_, err := c.Compile(script(num(1)), Options{
		Signature: types.Int,
	})
	errs := diagsOf(t, err)
	if len(errs) != 1 || errs[0].ID != diags.InvalidOperation {
		t.Fatalf("got %v", errs)
	}
}

func TestBeginBlockUnsupported(t *testing.T) {
	c := New(Config{})
	block := script(num(1))
	block.Begin = stmtBlock()
	_, err := c.Compile(block, Options{})
	errs := diagsOf(t, err)
	if !errs.Has(diags.UnsupportedConstruct) {
		t.Fatalf("got %v", errs)
	}
}

func TestCapturedAndGlobalVariables(t *testing.T) {
	global := &Variable{
		Name: "Home",
		Type: types.String,
		Cell: new(string),
	}
	c := New(Config{
		Globals: []*Variable{global},
	})
	local := &Variable{
		Name: "count",
		Type: types.Int,
		Cell: new(int),
	}
	dynamic := &Variable{
		Name: "anything",
		Cell: new(any),
	}
	lambda := mustCompile(t, c, script(
		ref("HOME"),
		ref("Count"),
		ref("anything"),
		ref("home"),
	), Options{
		Variables: []*Variable{local, dynamic},
	})

	captured := exprs.Find[*exprs.Captured](lambda)
	if len(captured) != 4 {
		t.Fatalf("got %d", len(captured))
	}
	if captured[0] != captured[3] {
		t.Fatal("one wrapper per variable expected")
	}
	if captured[0].T != types.String || captured[1].T != types.Int || captured[2].T != types.Any {
		t.Fatalf("got %v %v %v", captured[0].T, captured[1].T, captured[2].T)
	}
	if captured[1].Ref != local.Cell {
		t.Fatal("cell not threaded")
	}

	// wrappers are reused across compilations
	again := mustCompile(t, c, script(ref("home")), Options{})
	if exprs.Find[*exprs.Captured](again)[0] != captured[0] {
		t.Fatal("wrapper not cached")
	}
	if n, _ := c.caches.Len(); n != 3 {
		t.Fatalf("got %d", n)
	}
}

func TestExecutionContext(t *testing.T) {
	c := New(Config{})
	lambda := mustCompile(t, c, script(
		&asts.Return{Value: ref("executioncontext")},
	), Options{
		Context:     42,
		ContextType: types.Int,
	})
	if lambda.Result != types.Int {
		t.Fatalf("got %v", lambda.Result)
	}
	found := false
	for _, c := range exprs.Find[*exprs.Constant](lambda) {
		if c.Value == 42 {
			found = true
		}
	}
	if !found {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
}

func TestConstantsAndNull(t *testing.T) {
	c := New(Config{})
	lambda := mustCompile(t, c, script(
		&asts.Return{Value: ref("true")},
	), Options{})
	if lambda.Result != types.Bool {
		t.Fatalf("got %v", lambda.Result)
	}

	lambda = mustCompile(t, c, script(
		assign("x", num(1)),
		assign("x", ref("null")),
		&asts.Return{Value: ref("x")},
	), Options{})
	if lambda.Result != types.Int {
		t.Fatalf("got %v", lambda.Result)
	}
	if len(exprs.Find[*exprs.Default](lambda)) == 0 {
		t.Fatalf("null assignment should reset to the zero value:\n%s", exprs.Format(lambda))
	}
}
