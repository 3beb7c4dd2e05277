package compilers

import (
	"testing"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

func closeOver(t *testing.T, def *types.Type, args ...*types.Type) *types.Type {
	t.Helper()
	ret, err := def.Instantiate(args...)
	if err != nil {
		t.Fatal(err)
	}
	return ret
}

func compileReturn(c *Compiler, value asts.Expr, vars ...*Variable) (*exprs.Lambda, error) {
	return c.Compile(script(
		&asts.Return{Value: value},
	), Options{
		Variables: vars,
	})
}

func TestIndexerPriority(t *testing.T) {
	listOfString := closeOver(t, types.List, types.String)
	mapOfStringInt := closeOver(t, types.Map, types.String, types.Int)
	seqOfInt := closeOver(t, types.Seq, types.Int)

	for _, c := range []struct {
		name   string
		t      *types.Type
		index  asts.Expr
		result *types.Type
		// key is the indexer parameter type, nil for array and sequence access
		key         *types.Type
		elementAt   bool
		arrayAccess bool
	}{
		{
			name:        "array",
			t:           types.ArrayOf(types.Int),
			index:       num(0),
			result:      types.Int,
			arrayAccess: true,
		},
		{
			name: "list before map",
			t: types.NewStruct("test", "Names").Implement(
				mapOfStringInt, listOfString,
			),
			index:  num(0),
			result: types.String,
			key:    types.Int,
		},
		{
			name: "map before untyped map",
			t: types.NewStruct("test", "Counts").Implement(
				types.UntypedMap, mapOfStringInt,
			),
			index:  text("a"),
			result: types.Int,
			key:    types.String,
		},
		{
			name: "sequence before untyped list",
			t: types.NewStruct("test", "Stream").Implement(
				types.UntypedList, seqOfInt,
			),
			index:     num(1),
			result:    types.Int,
			elementAt: true,
		},
		{
			name: "untyped list before untyped map",
			t: types.NewStruct("test", "Bag").Implement(
				types.UntypedMap, types.UntypedList,
			),
			index:  num(1),
			result: types.Any,
			key:    types.Int,
		},
		{
			name:   "untyped map",
			t:      types.Hashtable,
			index:  text("a"),
			result: types.Any,
			key:    types.Any,
		},
	} {
		x := &Variable{Name: "x", Type: c.t, Cell: new(any)}
		lambda, err := compileReturn(New(Config{}), &asts.Index{
			Target: ref("x"),
			Index:  c.index,
		}, x)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if lambda.Result != c.result {
			t.Fatalf("%s: got %v", c.name, lambda.Result)
		}

		if c.elementAt {
			calls := exprs.Find[*exprs.Call](lambda)
			if len(calls) != 1 || calls[0].Method.Name != "ElementAt" {
				t.Fatalf("%s: got\n%s", c.name, exprs.Format(lambda))
			}
			continue
		}

		indexes := exprs.Find[*exprs.Index](lambda)
		if len(indexes) != 1 {
			t.Fatalf("%s: got\n%s", c.name, exprs.Format(lambda))
		}
		idx := indexes[0]
		if c.arrayAccess {
			if idx.Indexer != nil {
				t.Fatalf("%s: got %v", c.name, idx.Indexer)
			}
			continue
		}
		if idx.Indexer == nil || idx.Indexer.Params[0].Type != c.key {
			t.Fatalf("%s: got\n%s", c.name, exprs.Format(lambda))
		}
	}
}

func TestUnknownIndexer(t *testing.T) {
	x := &Variable{Name: "x", Type: types.Int, Cell: new(int)}
	_, err := compileReturn(New(Config{}), &asts.Index{
		Target: ref("x"),
		Index:  num(0),
	}, x)
	errs := diagsOf(t, err)
	if len(errs) != 1 || errs[0].ID != diags.MissingMember {
		t.Fatalf("got %v", errs)
	}
}

func TestMemberAccess(t *testing.T) {
	gadget := types.NewStruct("test", "Gadget").AddMembers(
		&types.Member{Kind: types.MemberField, Name: "size", Type: types.Int64},
		&types.Member{Kind: types.MemberProperty, Name: "Size", Type: types.Int},
		&types.Member{Kind: types.MemberField, Name: "Label", Type: types.String},
		&types.Member{Kind: types.MemberField, Name: "Version", Type: types.String, Static: true},
	)
	catalog := types.NewRegistry()
	catalog.Register(gadget)
	g := &Variable{Name: "g", Type: gadget, Cell: new(any)}

	for _, c := range []struct {
		name   string
		node   *asts.MemberAccess
		kind   types.MemberKind
		result *types.Type
		id     diags.ID
	}{
		{
			name:   "property before field",
			node:   access(ref("g"), "SIZE"),
			kind:   types.MemberProperty,
			result: types.Int,
		},
		{
			name:   "case-insensitive field",
			node:   access(ref("g"), "label"),
			kind:   types.MemberField,
			result: types.String,
		},
		{
			name: "static",
			node: &asts.MemberAccess{
				Target: typeLit("Gadget"),
				Member: text("version"),
				Static: true,
			},
			kind:   types.MemberField,
			result: types.String,
		},
		{
			name: "static member through instance",
			node: access(ref("g"), "Version"),
			id:   diags.MissingMember,
		},
		{
			name: "instance member through type",
			node: &asts.MemberAccess{
				Target: typeLit("Gadget"),
				Member: text("Size"),
				Static: true,
			},
			id: diags.MissingMember,
		},
		{
			name: "static access without a type",
			node: &asts.MemberAccess{
				Target: ref("g"),
				Member: text("Version"),
				Static: true,
			},
			id: diags.MissingType,
		},
	} {
		lambda, err := compileReturn(New(Config{Catalog: catalog}), c.node, g)
		if c.id != "" {
			errs := diagsOf(t, err)
			if len(errs) != 1 || errs[0].ID != c.id {
				t.Fatalf("%s: got %v", c.name, errs)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if lambda.Result != c.result {
			t.Fatalf("%s: got %v", c.name, lambda.Result)
		}
		members := exprs.Find[*exprs.Member](lambda)
		if len(members) != 1 || members[0].Member.Kind != c.kind {
			t.Fatalf("%s: got\n%s", c.name, exprs.Format(lambda))
		}
	}
}

func TestExpandableString(t *testing.T) {
	n := &Variable{Name: "n", Type: types.Int, Cell: new(int)}
	v := &Variable{Name: "v", Cell: new(any)}

	lambda, err := compileReturn(New(Config{}), &asts.ExpandableString{
		Segments: []string{"{n} ", " and ", ""},
		Nested:   []asts.Expr{ref("n"), ref("v")},
	}, n, v)
	if err != nil {
		t.Fatal(err)
	}
	if lambda.Result != types.String {
		t.Fatalf("got %v", lambda.Result)
	}
	formats := runtimeCalls(lambda, runtimes.Format)
	if len(formats) != 1 {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
	format, ok := formats[0].Args[0].(*exprs.Constant)
	if !ok || format.Value != "{{n}} {0} and {1}" {
		t.Fatalf("got %v", formats[0].Args[0])
	}
	var toText int
	for _, call := range runtimeCalls(lambda, runtimes.ConvertTo) {
		if call.T == types.String {
			toText++
		}
	}
	if toText != 2 {
		t.Fatalf("got %d\n%s", toText, exprs.Format(lambda))
	}
}

func TestExpandableStringWithoutParts(t *testing.T) {
	lambda, err := compileReturn(New(Config{}), &asts.ExpandableString{
		Segments: []string{"plain"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(runtimeCalls(lambda, runtimes.Format)) != 0 {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
	consts := exprs.Find[*exprs.Constant](lambda)
	found := false
	for _, c := range consts {
		if c.Value == "plain" {
			found = true
		}
	}
	if !found {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
}

func TestExpandableStringUndefinedPart(t *testing.T) {
	_, err := compileReturn(New(Config{}), &asts.ExpandableString{
		Segments: []string{"a ", ""},
		Nested:   []asts.Expr{refAt(1, "missing")},
	})
	errs := diagsOf(t, err)
	if len(errs) != 1 || errs[0].ID != diags.InvalidVariableReference {
		t.Fatalf("got %v", errs)
	}
}

func TestArrayLiterals(t *testing.T) {
	items := &Variable{Name: "items", Type: types.ArrayOf(types.Int), Cell: new(any)}
	for _, c := range []struct {
		name     string
		node     asts.Expr
		result   *types.Type
		newArray int
	}{
		{
			name:     "uniform",
			node:     &asts.ArrayLiteral{Elements: []asts.Expr{num(1), num(2)}},
			result:   types.ArrayOf(types.Int),
			newArray: 1,
		},
		{
			name:     "mixed",
			node:     &asts.ArrayLiteral{Elements: []asts.Expr{num(1), text("a")}},
			result:   types.ArrayOf(types.Any),
			newArray: 1,
		},
		{
			name:     "empty @()",
			node:     &asts.ArrayExpr{Body: stmtBlock()},
			result:   types.ArrayOf(types.Any),
			newArray: 1,
		},
		{
			name:     "@() keeps an array",
			node:     &asts.ArrayExpr{Body: stmtBlock(ref("items"))},
			result:   types.ArrayOf(types.Int),
			newArray: 0,
		},
		{
			name:     "@() wraps a single value",
			node:     &asts.ArrayExpr{Body: stmtBlock(num(1))},
			result:   types.ArrayOf(types.Int),
			newArray: 1,
		},
		{
			name:     "@() collects statements",
			node:     &asts.ArrayExpr{Body: stmtBlock(num(1), text("a"))},
			result:   types.ArrayOf(types.Any),
			newArray: 1,
		},
	} {
		lambda, err := compileReturn(New(Config{}), c.node, items)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if lambda.Result != c.result {
			t.Fatalf("%s: got %v", c.name, lambda.Result)
		}
		if n := len(exprs.Find[*exprs.NewArray](lambda)); n != c.newArray {
			t.Fatalf("%s: got %d\n%s", c.name, n, exprs.Format(lambda))
		}
	}
}

func TestArrayExprCollectsIntoTemps(t *testing.T) {
	lambda, err := compileReturn(New(Config{}), &asts.ArrayExpr{
		Body: stmtBlock(num(1), text("a"), num(2)),
	})
	if err != nil {
		t.Fatal(err)
	}
	arrays := exprs.Find[*exprs.NewArray](lambda)
	if len(arrays) != 1 || len(arrays[0].Items) != 3 {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
	for _, item := range arrays[0].Items {
		if _, ok := item.(*exprs.Variable); !ok {
			t.Fatalf("got %T", item)
		}
	}
}

func TestHashtableLiteral(t *testing.T) {
	lambda, err := compileReturn(New(Config{}), &asts.Hashtable{
		Pairs: []asts.KeyValue{
			{Key: text("a"), Value: num(1)},
			{Key: text("B"), Value: text("x")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if lambda.Result != types.Hashtable {
		t.Fatalf("got %v", lambda.Result)
	}
	if len(exprs.Find[*exprs.New](lambda)) != 1 {
		t.Fatalf("got\n%s", exprs.Format(lambda))
	}
	adds := 0
	for _, call := range exprs.Find[*exprs.Call](lambda) {
		if call.Method.Name == "Add" {
			if call.Args[0].Type() != types.Any || call.Args[1].Type() != types.Any {
				t.Fatalf("got\n%s", exprs.Format(lambda))
			}
			adds++
		}
	}
	if adds != 2 {
		t.Fatalf("got %d", adds)
	}
}

func TestHashtableUndefinedValue(t *testing.T) {
	_, err := compileReturn(New(Config{}), &asts.Hashtable{
		Pairs: []asts.KeyValue{
			{Key: text("a"), Value: refAt(1, "missing")},
			{Key: text("b"), Value: num(1)},
		},
	})
	errs := diagsOf(t, err)
	if len(errs) != 1 || errs[0].ID != diags.InvalidVariableReference {
		t.Fatalf("got %v", errs)
	}
}
