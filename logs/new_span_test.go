package logs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestNewSpan(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		newSpan NewSpan,
		logger Logger,
	) {
		// after the logger is built, so setup records stay out of buf
		level.Set(slog.LevelDebug)
		defer level.Set(slog.LevelInfo)

		ctx := WithSource(context.Background(), "a.star")
		ctx1, span1 := newSpan(ctx, "watch")
		ctx2, span2 := newSpan(ctx1, "compile")
		logger.InfoContext(ctx2, "compiled")

		lines := strings.Split(buf.String(), "\n")
		if !strings.Contains(lines[0], "logs.span="+string(span1)) ||
			strings.Contains(lines[0], "parent=") {
			t.Fatalf("got %v", lines[0])
		}
		if !strings.Contains(lines[1], "logs.span="+string(span2)) ||
			!strings.Contains(lines[1], "parent="+string(span1)) {
			t.Fatalf("got %v", lines[1])
		}
		if !strings.Contains(lines[2], "source=a.star") {
			t.Fatalf("got %v", lines[2])
		}

		err := WrapContext(ctx2, errors.New("boom"))
		if !strings.HasPrefix(err.Error(), "a.star: boom") ||
			!strings.Contains(err.Error(), "span: "+string(span2)) {
			t.Fatalf("got %v", err)
		}
		if WrapContext(ctx2, nil) != nil {
			t.Fatal("nil should stay nil")
		}
	})
}
