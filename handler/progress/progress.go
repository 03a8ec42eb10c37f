package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

var _ slog.Handler = (*progressHandler)(nil)

type progressHandler struct {
	handler slog.Handler
	out     io.Writer
	mu      *sync.Mutex
}

// New returns a handler printing one line per icon record to out. Level checks, attrs and groups go to h.
func New(out io.Writer, h slog.Handler) slog.Handler {
	return &progressHandler{
		handler: h,
		out:     out,
		mu:      &sync.Mutex{},
	}
}

func (h *progressHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *progressHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	var file, cause string
	r.Attrs(func(attr slog.Attr) bool {
		switch attr.Key {
		case "file":
			file = attr.Value.String()
		case "error":
			cause = attr.Value.String()
		}
		return true
	})
	switch r.Message {
	case "wrote icon":
		return h.writeLine(fmt.Sprintf("  %s Created %s", green("✅"), file))
	case "failed to write icon":
		return h.writeLine(fmt.Sprintf("  %s Failed to create %s: %s", red("❌"), file, cause))
	case "skipped icon":
		return h.writeLine(gray(fmt.Sprintf("  ⏭ Skipped %s", file)))
	}
	return nil
}

func (h *progressHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &progressHandler{handler: h.handler.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *progressHandler) WithGroup(name string) slog.Handler {
	return &progressHandler{handler: h.handler.WithGroup(name), out: h.out, mu: h.mu}
}

func (h *progressHandler) writeLine(s string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, s+"\n")
	return err
}
