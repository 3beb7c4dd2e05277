// Package runtimes declares the runtime-support operations compiled code calls.
// Implementations are supplied by the backend; only names and static
// signatures are fixed here.
package runtimes

import (
	"fmt"

	"github.com/reusee/tailambda/types"
)

type Op string

const (
	// IsTrue(value any) bool
	IsTrue Op = "IsTrue"
	// ConvertTo(value any, target type) T
	ConvertTo Op = "ConvertTo"
	// TryConvertTo(value any, target type) T, the zero value on failure
	TryConvertTo Op = "TryConvertTo"
	// ConvertAllTo(values any, target type) T[]
	ConvertAllTo Op = "ConvertAllTo"
	// Compare(a any, b any, ignoreCase bool) int
	Compare Op = "Compare"
	// Like(value string, pattern string, ignoreCase bool) bool
	Like Op = "Like"
	// Match(value string, pattern string, ignoreCase bool) bool
	Match Op = "Match"
	// Replace(value string, pattern string, replacement string, ignoreCase bool) string
	Replace Op = "Replace"
	// Split(value string, pattern string, ignoreCase bool) string[]
	Split Op = "Split"
	// Join(separator string, values string[]) string
	Join Op = "Join"
	// Format(format string, args any[]) string
	Format Op = "Format"
	// Range(from int, to int) int[]
	Range Op = "Range"
	// Begin(source any) any
	Begin Op = "Begin"
	// Advance(cursor any) bool
	Advance Op = "Advance"
	// Current(cursor any) any
	Current Op = "Current"
	// Dispose(value any)
	Dispose Op = "Dispose"
	// LockEnter(value any)
	LockEnter Op = "LockEnter"
	// LockExit(value any)
	LockExit Op = "LockExit"
)

type Signature struct {
	Params []*types.Type
	// Result is Any for ops whose result type is their type operand.
	Result *types.Type
}

func sig(result *types.Type, params ...*types.Type) Signature {
	return Signature{
		Params: params,
		Result: result,
	}
}

var signatures = map[Op]Signature{
	IsTrue:       sig(types.Bool, types.Any),
	ConvertTo:    sig(types.Any, types.Any, types.TypeValue),
	TryConvertTo: sig(types.Any, types.Any, types.TypeValue),
	ConvertAllTo: sig(types.Any, types.Any, types.TypeValue),
	Compare:      sig(types.Int, types.Any, types.Any, types.Bool),
	Like:         sig(types.Bool, types.String, types.String, types.Bool),
	Match:        sig(types.Bool, types.String, types.String, types.Bool),
	Replace:      sig(types.String, types.String, types.String, types.String, types.Bool),
	Split:        sig(types.ArrayOf(types.String), types.String, types.String, types.Bool),
	Join:         sig(types.String, types.String, types.ArrayOf(types.String)),
	Format:       sig(types.String, types.String, types.ArrayOf(types.Any)),
	Range:        sig(types.ArrayOf(types.Int), types.Int, types.Int),
	Begin:        sig(types.Any, types.Any),
	Advance:      sig(types.Bool, types.Any),
	Current:      sig(types.Any, types.Any),
	Dispose:      sig(types.Void, types.Any),
	LockEnter:    sig(types.Void, types.Any),
	LockExit:     sig(types.Void, types.Any),
}

// Ops returns every declared operation.
func Ops() []Op {
	return []Op{
		IsTrue, ConvertTo, TryConvertTo, ConvertAllTo, Compare,
		Like, Match, Replace, Split, Join, Format, Range,
		Begin, Advance, Current, Dispose, LockEnter, LockExit,
	}
}

func (o Op) Signature() (Signature, error) {
	s, ok := signatures[o]
	if !ok {
		return Signature{}, fmt.Errorf("unknown runtime operation: %s", string(o))
	}
	return s, nil
}

// TypeOperand reports whether the result type of o is given by its type operand.
func (o Op) TypeOperand() bool {
	switch o {
	case ConvertTo, TryConvertTo, ConvertAllTo:
		return true
	}
	return false
}
