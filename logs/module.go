// Package logs provides the slog logger and per-compilation log context.
package logs

import (
	"context"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

// Span identifies a unit of work in log records.
type Span string

type spanKey struct{}

var SpanKey spanKey

type sourceKey struct{}

// WithSource records the script being compiled; records logged with the
// returned context carry it.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func SourceOf(ctx context.Context) (string, bool) {
	source, ok := ctx.Value(sourceKey{}).(string)
	return source, ok
}
