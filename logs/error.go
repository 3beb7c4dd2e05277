package logs

import (
	"context"
	"errors"
	"fmt"
)

// WrapContext annotates err with the span and source recorded in ctx.
func WrapContext(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if v := ctx.Value(SpanKey); v != nil {
		err = errors.Join(err, fmt.Errorf("span: %s", v.(Span)))
	}
	if source, ok := SourceOf(ctx); ok {
		err = fmt.Errorf("%s: %w", source, err)
	}
	return err
}
