package render

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/session"
)

// WalkerOption configures a Walker.
type WalkerOption func(*walkerConfig)

type walkerConfig struct {
	logger *slog.Logger
}

// WithWalkerLogger sets the logger receiving contained handler errors.
func WithWalkerLogger(logger *slog.Logger) WalkerOption {
	return func(cfg *walkerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Walker interprets an element tree through a dispatch table. Handler errors
// are logged and the failing node renders as the zero value, so one bad node
// never aborts the page.
type Walker[T any] struct {
	table  Table[T]
	logger *slog.Logger
}

// NewWalker returns a walker over table.
func NewWalker[T any](table Table[T], opts ...WalkerOption) *Walker[T] {
	cfg := walkerConfig{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Walker[T]{table: table, logger: cfg.logger}
}

// Context is the per-render state handed to every handler: the request
// context, the session the tree is rendered against and the render options.
type Context[T any] struct {
	context.Context
	Session *session.Session
	Options RenderOptions

	walker *Walker[T]
}

// NewContext binds the walker to one render pass.
func (w *Walker[T]) NewContext(ctx context.Context, s *session.Session, opts RenderOptions) *Context[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context[T]{Context: ctx, Session: s, Options: opts, walker: w}
}

// Render renders el through the walker bound to c.
func (c *Context[T]) Render(el *element.Element) T {
	return c.walker.Render(c, el)
}

// RenderList renders elements in order.
func (c *Context[T]) RenderList(elements []*element.Element) []T {
	return c.walker.RenderList(c, elements)
}

// Render dispatches el to its handler. Children of non self-rendering roles
// are rendered first and passed in; self-rendering roles get nil and read
// el.Children themselves. A nil element renders the zero value.
func (w *Walker[T]) Render(c *Context[T], el *element.Element) T {
	var zero T
	if el == nil {
		return zero
	}
	handler := w.table.Resolve(el.Role)
	if handler == nil {
		w.logger.WarnContext(c, "render: no handler for role", "role", el.Role, "id", el.ID)
		return zero
	}

	var children []T
	if !el.Role.SelfRendering() {
		children = w.RenderList(c, el.Children)
	}

	out, err := handler(c, el, children)
	if err != nil {
		w.logger.ErrorContext(c, "render: element failed", "role", el.Role, "id", el.ID, "error", err)
		return zero
	}
	return out
}

// RenderList renders elements in order. Nil elements are skipped.
func (w *Walker[T]) RenderList(c *Context[T], elements []*element.Element) []T {
	if len(elements) == 0 {
		return nil
	}
	out := make([]T, 0, len(elements))
	for _, el := range elements {
		if el == nil {
			continue
		}
		out = append(out, w.Render(c, el))
	}
	return out
}
