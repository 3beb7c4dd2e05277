package configs

import (
	"errors"
	"fmt"
	"iter"
)

// Collect decodes path from every file defining it, in precedence order.
func Collect[T any](loader Loader, path string) (ret []T, err error) {
	for value, err := range loader.IterCueValues(path) {
		if err != nil {
			return nil, err
		}
		var v T
		if err := value.Decode(&v); err != nil {
			return nil, wrap(fmt.Errorf("decode %s: %w", path, err))
		}
		ret = append(ret, v)
	}
	return
}

// All is Collect as an iterator for providers, which cannot return errors.
// It panics on failures; check Loader.Err first to report bad files.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		values, err := Collect[T](loader, path)
		if err != nil {
			panic(err)
		}
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

// First returns the value of the first file defining path, or the zero
// value when none does. Like All it panics on failures.
func First[T any](loader Loader, path string) (ret T) {
	if err := loader.AssignFirst(path, &ret); err != nil && !errors.Is(err, ErrValueNotFound) {
		panic(err)
	}
	return
}
