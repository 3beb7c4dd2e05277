package configs

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

var testSchema = `
str?: string
list?: [...int]
`

func TestLoaderAssignFirst(t *testing.T) {
	loader := NewLoader([]string{"test.cue", "test2.cue"}, testSchema)
	if err := loader.Err(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(loader.Paths(), []string{"test.cue", "test2.cue"}) {
		t.Fatalf("got %v", loader.Paths())
	}

	var str string
	if err := loader.AssignFirst("str", &str); err != nil {
		t.Fatal(err)
	}
	if str != "bar" {
		t.Fatalf("got %q", str)
	}

	var list []int
	if err := loader.AssignFirst("list", &list); err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", list); str != "[1 2 3]" {
		t.Fatalf("got %s", str)
	}

	if err := loader.AssignFirst("not", &list); !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}

	// wrong shape
	var n int
	if err := loader.AssignFirst("str", &n); err == nil {
		t.Fatal("should error")
	}
}

func TestDecode(t *testing.T) {
	loader := NewLoader([]string{"test.cue", "test2.cue"}, testSchema)

	strs, err := Collect[string](loader, "str")
	if err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}

	strs = strs[:0]
	for str := range All[string](loader, "str") {
		strs = append(strs, str)
		break
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar]" {
		t.Fatalf("got %q", str)
	}

	if str := First[string](loader, "str"); str != "bar" {
		t.Fatalf("got %v", str)
	}
	if list := First[[]int](loader, "missing"); list != nil {
		t.Fatalf("got %v", list)
	}

	if _, err := Collect[int](loader, "str"); err == nil {
		t.Fatal("should error")
	}
}

func TestUnknownField(t *testing.T) {
	loader := NewLoader([]string{"bad.cue"}, testSchema)
	if err := loader.Err(); err == nil {
		t.Fatal("should error")
	}
	var str string
	if err := loader.AssignFirst("unknown_field", &str); err == nil {
		t.Fatal("should error")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("should panic")
		}
	}()
	First[string](loader, "str")
}

func TestMissingFile(t *testing.T) {
	loader := NewLoader([]string{"no-such-file.cue"}, "")
	if err := loader.Err(); err == nil {
		t.Fatal("should error")
	}
}
