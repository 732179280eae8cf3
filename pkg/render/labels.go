package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/i18n"
)

// Translation keys of built-in labels.
const (
	KeyPrevLabel     = "survey.prev"
	KeyNextLabel     = "survey.next"
	KeySubmitLabel   = "survey.submit"
	KeySubmitting    = "survey.submitting"
	KeyCompleteTitle = "survey.complete"
	KeyProgressCount = "survey.progress.count"
	KeyChooseAction  = "survey.choose"
	KeyNotifications = "survey.notifications"
)

var defaultLabels = map[string]string{
	KeyPrevLabel:     "Previous",
	KeyNextLabel:     "Next",
	KeySubmitLabel:   "Submit",
	KeySubmitting:    "Submitting...",
	KeyCompleteTitle: "Done",
	KeyProgressCount: "%d / %d",
	KeyChooseAction:  "What next?",
	KeyNotifications: "Notifications",
}

// DefaultLabel returns the built-in English text for a label key.
func DefaultLabel(key string) string {
	return defaultLabels[key]
}

// Label returns explicit when set, otherwise the translated built-in label.
func Label(opts RenderOptions, key, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	fallback := defaultLabels[key]
	if opts.Translator == nil && opts.OnMissing == nil {
		return fallback
	}
	return i18n.Translate(opts.Locale, key, fallback, opts.Translator, opts.OnMissing)
}

// Labelf formats a built-in label whose text interpolates args, such as the
// progress count.
func Labelf(opts RenderOptions, key string, args ...any) string {
	fallback := fmt.Sprintf(defaultLabels[key], args...)
	if opts.Translator == nil && opts.OnMissing == nil {
		return fallback
	}
	return i18n.Translate(opts.Locale, key, fallback, opts.Translator, opts.OnMissing, args...)
}

// ButtonLabel resolves the label of a button element, falling back to the
// built-in label of navigation roles.
func ButtonLabel(opts RenderOptions, el *element.Element) string {
	if el == nil {
		return ""
	}
	switch el.Role {
	case element.RolePrevButton:
		return Label(opts, KeyPrevLabel, el.Label)
	case element.RoleNextButton:
		return Label(opts, KeyNextLabel, el.Label)
	case element.RoleSubmitButton:
		return Label(opts, KeySubmitLabel, el.Label)
	}
	if el.Label != "" {
		return el.Label
	}
	return el.Content
}
