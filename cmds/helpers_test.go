package cmds

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestVar(t *testing.T) {
	e := NewExecutor()
	n := VarOn[int](e, "n")
	d := VarOn[time.Duration](e, "timeout")
	if err := e.Execute([]string{"n", "42", "timeout", "1.5s"}); err != nil {
		t.Fatal(err)
	}
	if *n != 42 || *d != 1500*time.Millisecond {
		t.Fatalf("got %v %v", *n, *d)
	}
	if err := e.Execute([]string{"n."}); err != nil {
		t.Fatal(err)
	}
	if *n != 0 {
		t.Fatalf("got %d", *n)
	}
	if err := e.Execute([]string{"n"}); err == nil {
		t.Fatal("missing value should fail")
	}
}

func TestSwitch(t *testing.T) {
	e := NewExecutor()
	on := SwitchOn(e, "-watch")
	if err := e.Execute([]string{"-watch"}); err != nil {
		t.Fatal(err)
	}
	if !*on {
		t.Fatal("should be set")
	}
	if err := e.Execute([]string{"!-watch"}); err != nil {
		t.Fatal(err)
	}
	if *on {
		t.Fatal("should be unset")
	}
}

func TestCollect(t *testing.T) {
	e := NewExecutor()
	list := CollectOn[string](e, "-config")
	if err := e.Execute([]string{"-config", "a.cue", "-config", "b.cue"}); err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", *list); str != "[a.cue b.cue]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type Level string
	e := NewExecutor()
	v := VarOn[Level](e, "level")
	if err := e.Execute([]string{"level", "debug"}); err != nil {
		t.Fatal(err)
	}
	if *v != "debug" {
		t.Fatalf("got %s", *v)
	}
}

func TestHelpersUsage(t *testing.T) {
	e := NewExecutor()
	VarOn[string](e, "name")
	SwitchOn(e, "-v")
	CollectOn[string](e, "-I")
	buf := new(bytes.Buffer)
	e.WriteUsage(buf)
	for _, want := range []string{
		"name <value>\n",
		"name.\treset name",
		"!-v\tunset -v",
		"-I <value>\trepeatable",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in\n%s", want, buf.String())
		}
	}
}

func TestGlobalHelpers(t *testing.T) {
	v := Var[int]("TestGlobalHelpers")
	GlobalExecutor.MustExecute([]string{"TestGlobalHelpers", "7"})
	if *v != 7 {
		t.Fatalf("got %d", *v)
	}
}
