package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/i18n"
)

// RenderOptions describe per-request data renderers use to customise their
// output without touching the session.
type RenderOptions struct {
	// Action is the URL forms post to. Empty posts back to the current page.
	Action string
	// HiddenFields are emitted inside the survey form (session id, CSRF).
	HiddenFields map[string]string
	// Groups restricts rendering to the named item groups, in document
	// order. Empty renders every group.
	Groups []string
	// Errors merges externally produced field messages (for example from a
	// submission backend) with the session's own validation issues. Keys
	// that match no field are shown as form-level errors.
	Errors map[string][]string
	// Notifications are shown as toasts. Nil falls back to the session's
	// pending notifications without draining them.
	Notifications []action.Notification
	// Theme carries the resolved go-theme configuration.
	Theme *theme.RendererConfig
	// Locale, Translator and OnMissing localize built-in labels.
	Locale     string
	Translator i18n.Translator
	OnMissing  i18n.MissingTranslationHandler
}
