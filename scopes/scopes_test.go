package scopes

import (
	"testing"

	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

func TestShadowDoesNotLeak(t *testing.T) {
	vars := NewVariables()
	outer, existed := vars.GetOrCreate("x", types.Int)
	if existed {
		t.Fatal("should be new")
	}

	release := vars.NewScope()
	inner, _ := vars.GetOrCreate("y", types.String)
	if got, ok := vars.Lookup("X"); !ok || got != outer {
		t.Fatal("outer variable should be visible case-insensitively")
	}
	if got, _ := vars.GetOrCreate("x", types.String); got != outer || got.T != types.Int {
		t.Fatal("existing type should be kept")
	}
	if len(vars.Locals()) != 1 || vars.Locals()[0] != inner {
		t.Fatalf("got %v", vars.Locals())
	}
	release()
	release()

	if _, ok := vars.Lookup("y"); ok {
		t.Fatal("inner variable leaked")
	}
	if vars.Depth() != 1 {
		t.Fatalf("got %d", vars.Depth())
	}
}

func TestParams(t *testing.T) {
	vars := NewVariables()
	p := exprs.NewVariable("p", types.Int)
	release := vars.NewScope(p)
	defer release()
	if got, ok := vars.Lookup("P"); !ok || got != p {
		t.Fatal("param not found")
	}
	if len(vars.Params()) != 1 || len(vars.Locals()) != 0 {
		t.Fatal("bad frame")
	}
	v, existed := vars.GetOrCreate("dyn", nil)
	if existed || v.T != types.Any {
		t.Fatalf("got %v", v.T)
	}
}

func TestCurrentItem(t *testing.T) {
	vars := NewVariables()
	if _, ok := vars.CurrentItem(); ok {
		t.Fatal("should be unset")
	}

	release1 := vars.NewScope()
	intItem := vars.SetCurrentItem(types.Int)
	if intItem.Name != "$_" {
		t.Fatalf("got %s", intItem.Name)
	}

	release2 := vars.NewScope()
	if same := vars.SetCurrentItem(types.Int); same != intItem {
		t.Fatal("same type should reuse the ancestor slot")
	}

	release3 := vars.NewScope()
	strItem := vars.SetCurrentItem(types.String)
	if strItem == intItem || strItem.Name != "$__1" {
		t.Fatalf("got %s", strItem.Name)
	}
	if got, _ := vars.CurrentItem(); got != strItem {
		t.Fatal("nearest slot should win")
	}
	if intItem.T != types.Int {
		t.Fatal("ancestor slot mutated")
	}
	release3()

	if got, _ := vars.CurrentItem(); got != intItem {
		t.Fatal("ancestor slot should be restored")
	}
	release2()
	release1()
	if _, ok := vars.CurrentItem(); ok {
		t.Fatal("slot leaked")
	}
}

func TestLoops(t *testing.T) {
	loops := NewLoops()
	if loops.Break() != nil || loops.Continue() != nil {
		t.Fatal("no loop yet")
	}
	release := loops.NewScope()
	outerBreak := loops.Break()
	inner := loops.NewScope()
	if loops.Break() == outerBreak {
		t.Fatal("inner loop should have its own labels")
	}
	inner()
	if loops.Break() != outerBreak {
		t.Fatal("outer labels not restored")
	}
	release()
	if loops.Break() != nil {
		t.Fatal("loop leaked")
	}
}

func TestReturnsInferred(t *testing.T) {
	returns := NewReturns()
	release := returns.NewScope(nil)
	defer release()

	label := returns.ReturnLabel(types.Int)
	if label.T != types.Int || returns.Type() != types.Int {
		t.Fatalf("got %v", label.T)
	}
	if again := returns.ReturnLabel(types.String); again != label {
		t.Fatal("label should be fixed")
	}
	body, err := returns.WithReturn([]exprs.Expr{&exprs.Empty{}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 2 {
		t.Fatalf("got %d", len(body))
	}
	mark, ok := body[1].(*exprs.LabelMark)
	if !ok || mark.Label != label {
		t.Fatalf("got %T", body[1])
	}
}

func TestReturnsImplicit(t *testing.T) {
	returns := NewReturns()
	release := returns.NewScope(types.Int)
	defer release()
	body, err := returns.WithReturn([]exprs.Expr{exprs.NewConstant(1, types.Int)}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || returns.Requested() {
		t.Fatal("implicit return should not add a label")
	}
}

func TestReturnsVoid(t *testing.T) {
	returns := NewReturns()
	release := returns.NewScope(nil)
	body, err := returns.WithReturn([]exprs.Expr{exprs.NewConstant(1, types.Int)}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 2 || !returns.Type().IsVoid() {
		t.Fatalf("got %v", returns.Type())
	}
	release()

	nested := returns.NewScope(types.String)
	if returns.Type() != types.String {
		t.Fatal("nested scope should be independent")
	}
	nested()
}
