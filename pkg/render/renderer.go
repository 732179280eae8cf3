package render

import (
	"context"

	"github.com/goliatone/go-surveygen/pkg/session"
)

// Renderer turns the current state of a session into a byte representation
// (HTML page, terminal transcript, JSON answers).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, s *session.Session, options RenderOptions) ([]byte, error)
}
