package names

import (
	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of a name, used as the key for every
// case-insensitive lookup.
func Fold(name string) string {
	// cases.Caser is stateful, one per call
	return cases.Fold().String(name)
}

func Equal(a, b string) bool {
	if a == b {
		return true
	}
	return Fold(a) == Fold(b)
}
