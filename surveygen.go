// Package surveygen turns declarative survey documents into rendered,
// stateful surveys. The root package re-exports the common entry points;
// the pkg/ packages hold the element model, validation, wizard, session and
// renderers.
package surveygen

import (
	"context"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/session"
)

// Document aliases element.Document.
type Document = element.Document

// RenderOptions describes per-request render instructions such as hidden
// fields, the form action and the theme.
type RenderOptions = render.RenderOptions

// Session aliases session.Session.
type Session = session.Session

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the document at source and renders a fresh session with
// the default HTML renderer. It is the simplest entry point for callers that
// just want a page.
func GenerateHTML(ctx context.Context, source element.Source, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Source: source})
}

// ParseDocument decodes a JSON or YAML survey document.
func ParseDocument(data []byte, format element.Format) (Document, error) {
	return element.Parse(data, format)
}

// NewSession starts a session over doc.
func NewSession(doc Document, options ...session.Option) (*Session, error) {
	return session.New(doc, options...)
}
