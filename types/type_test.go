package types

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestArrayCapabilities(t *testing.T) {
	arr := ArrayOf(Int)
	if arr != ArrayOf(Int) {
		t.Fatal("array types not interned")
	}
	seq := FindGenericInterface(arr, Seq)
	if seq == nil {
		t.Fatal("array does not implement Seq")
	}
	if seq.Args()[0] != Int {
		t.Fatalf("got %v", seq)
	}
	list := FindGenericInterface(arr, List)
	if list == nil || list.Args()[0] != Int {
		t.Fatalf("got %v", list)
	}
	if !arr.AssignableTo(UntypedList) {
		t.Fatal("array should be an untyped list")
	}
	if !arr.AssignableTo(seq) {
		t.Fatal("array should be assignable to its Seq")
	}
	if arr.String() != "int[]" {
		t.Fatalf("got %s", arr)
	}
}

func TestInstantiate(t *testing.T) {
	a, err := List.Instantiate(String)
	if err != nil {
		t.Fatal(err)
	}
	b, err := List.Instantiate(String)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("instantiations not interned")
	}
	if a.String() != "List[string]" {
		t.Fatalf("got %s", a)
	}
	items := a.FindMembers("item")
	if len(items) != 1 {
		t.Fatalf("got %v", items)
	}
	if items[0].Type != String {
		t.Fatalf("got %v", items[0].Type)
	}
	seq := FindGenericInterface(a, Seq)
	if seq == nil || seq.Args()[0] != String {
		t.Fatalf("got %v", seq)
	}
	begin := seq.FindMembers("Begin")
	if len(begin) != 1 {
		t.Fatalf("got %v", begin)
	}
	cursor := begin[0].Type
	if cursor.Definition() != Cursor || cursor.Args()[0] != String {
		t.Fatalf("got %v", cursor)
	}
	if len(cursor.FindMembers("Dispose")) != 1 {
		t.Fatal("cursor should inherit Dispose")
	}

	if _, err := List.Instantiate(String, Int); err == nil {
		t.Fatal("should fail")
	}
	if _, err := Int.Instantiate(String); err == nil {
		t.Fatal("should fail")
	}
}

func TestFuncFamilies(t *testing.T) {
	f, err := Func.Instantiate(Int, Bool)
	if err != nil {
		t.Fatal(err)
	}
	if f != FuncOf([]*Type{Int}, Bool) {
		t.Fatal("not interned")
	}
	if f.String() != "Func[int,bool]" {
		t.Fatalf("got %s", f)
	}
	a, err := Action.Instantiate(String)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Out().IsVoid() {
		t.Fatalf("got %v", a.Out())
	}
	if a.String() != "Action[string]" {
		t.Fatalf("got %s", a)
	}
	if _, err := Func.Instantiate(); err == nil {
		t.Fatal("should fail")
	}
}

func TestSubstitute(t *testing.T) {
	p := NewTypeParam("T")
	fn := FuncOf([]*Type{ArrayOf(p)}, instantiate(Seq, []*Type{p}))
	if !fn.ContainsTypeParams() {
		t.Fatal("should contain type params")
	}
	got := Substitute(fn, map[*Type]*Type{p: String})
	want := FuncOf([]*Type{ArrayOf(String)}, instantiate(Seq, []*Type{String}))
	if got != want {
		t.Fatalf("got %v", got)
	}
	if got.ContainsTypeParams() {
		t.Fatal("should be closed")
	}
}

func TestAssignable(t *testing.T) {
	custom := NewStruct("test", "CustomError").Extend(Error)
	if !custom.AssignableTo(Error) {
		t.Fatal("should be assignable to base")
	}
	if Error.AssignableTo(custom) {
		t.Fatal("should not be assignable to derived")
	}
	if !ExitError.AssignableTo(Error) {
		t.Fatal("exit should be an error")
	}
	if Int.AssignableTo(Int64) {
		t.Fatal("numeric widening is a conversion")
	}
	if !Int.AssignableTo(Any) {
		t.Fatal("everything is assignable to any")
	}
	if Void.AssignableTo(Any) {
		t.Fatal("void is not a value")
	}
	if Any.AssignableTo(Int) {
		t.Fatal("any needs conversion")
	}
}

func TestMemberInstantiate(t *testing.T) {
	var sel *Member
	for _, m := range Sequences.Members() {
		if m.Name == "Select" {
			sel = m
		}
	}
	if sel == nil {
		t.Fatal("no Select")
	}
	closed, err := sel.Instantiate(Int, String)
	if err != nil {
		t.Fatal(err)
	}
	if closed.IsGeneric() {
		t.Fatal("should be closed")
	}
	if closed.Definition() != sel {
		t.Fatal("bad definition")
	}
	if closed.Params[1].Type != FuncOf([]*Type{Int}, String) {
		t.Fatalf("got %v", closed.Params[1].Type)
	}
	if closed.Result().String() != "Seq[string]" {
		t.Fatalf("got %v", closed.Result())
	}
	if _, err := sel.Instantiate(Int, sel.TypeParams[1]); err == nil {
		t.Fatal("should reject open arguments")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"int", "INT", "Object", "double", "seq.sequences", "list"} {
		if _, err := r.LookupType(name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	_, err := r.LookupType("NoSuchType")
	if !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("got %v", err)
	}
	if len(r.ExtensionMembers()) == 0 {
		t.Fatal("expected sequence extensions")
	}
	for _, m := range r.ExtensionMembers() {
		if !m.Extension || !m.Static {
			t.Fatalf("bad extension %v", m)
		}
	}
}

type testPoint struct {
	X, Y   int
	hidden bool
}

func (p *testPoint) Sum() int {
	return p.X + p.Y
}

func (p *testPoint) Scale(f float64) (*testPoint, error) {
	return p, nil
}

func TestFromReflectType(t *testing.T) {
	pt := FromReflectType(reflect.TypeFor[testPoint]())
	if pt != FromReflectType(reflect.TypeFor[*testPoint]()) {
		t.Fatal("pointer and struct should share a type")
	}
	if pt.Kind() != KindStruct {
		t.Fatalf("got %v", pt.Kind())
	}
	if len(pt.FindMembers("x")) != 1 {
		t.Fatal("field not found")
	}
	if len(pt.FindMembers("hidden")) != 0 {
		t.Fatal("unexported field exposed")
	}
	sum := pt.FindMembers("sum")
	if len(sum) != 1 || sum[0].Type != Int {
		t.Fatalf("got %v", sum)
	}
	scale := pt.FindMembers("Scale")
	if len(scale) != 1 || scale[0].Type != pt || scale[0].Params[0].Type != Float64 {
		t.Fatalf("got %v", scale)
	}

	d := FromReflectType(reflect.TypeFor[time.Duration]())
	if !d.IsEnum() || d.Underlying() != Int64 {
		t.Fatalf("got %v", d)
	}
	if FromReflectType(reflect.TypeFor[[]string]()) != ArrayOf(String) {
		t.Fatal("slices are arrays")
	}
	m := FromReflectType(reflect.TypeFor[map[string]int]())
	if FindGenericInterface(m, Map) == nil {
		t.Fatal("maps implement Map")
	}
	if FromReflectType(reflect.TypeFor[error]()) != Error {
		t.Fatal("error maps to the root error type")
	}
}
