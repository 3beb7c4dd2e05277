package cmds

// Var defines `name <value>` on the global executor.
func Var[T any](name string) *T {
	return VarOn[T](GlobalExecutor, name)
}

// VarOn defines `name <value>` storing into the returned variable, and
// `name.` resetting it to zero.
func VarOn[T any](e *Executor, name string) *T {
	value := new(T)
	e.Define(name, Func(func(v T) {
		*value = v
	}).Args("value"))
	e.Define(name+".", Func(func() {
		var zero T
		*value = zero
	}).Desc("reset "+name))
	return value
}

// Switch defines a boolean flag on the global executor.
func Switch(name string) *bool {
	return SwitchOn(GlobalExecutor, name)
}

// SwitchOn defines `name` setting the returned flag and `!name` clearing it.
func SwitchOn(e *Executor, name string) *bool {
	value := new(bool)
	e.Define(name, Func(func() {
		*value = true
	}))
	e.Define("!"+name, Func(func() {
		*value = false
	}).Desc("unset "+name))
	return value
}

// Collect defines a repeatable `name <value>` on the global executor.
func Collect[T any](name string) *[]T {
	return CollectOn[T](GlobalExecutor, name)
}

func CollectOn[T any](e *Executor, name string) *[]T {
	values := new([]T)
	e.Define(name, Func(func(v T) {
		*values = append(*values, v)
	}).Args("value").Desc("repeatable"))
	return values
}
