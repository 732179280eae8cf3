package validation

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-surveygen/pkg/i18n"
)

// Rule keys, shared with element.ErrorMessages.
const (
	RuleType      = "type"
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleMinSelect = "minSelect"
	RuleMaxSelect = "maxSelect"
	RuleMin       = "min"
	RuleMax       = "max"
	RulePattern   = "pattern"
	RuleManual    = "manual"
)

// MessageKey returns the translation key of a rule ("validation.required").
func MessageKey(rule string) string {
	return "validation." + rule
}

var defaultMessages = map[string]string{
	RuleType:      "Expected a %s value",
	RuleRequired:  "This field is required",
	RuleMinLength: "Enter at least %v characters",
	RuleMaxLength: "Enter no more than %v characters",
	RuleMinSelect: "Select at least %v options",
	RuleMaxSelect: "Select no more than %v options",
	RuleMin:       "Must be %v or more",
	RuleMax:       "Must be %v or less",
	RulePattern:   "Invalid format",
}

// DefaultMessages returns a copy of the built-in English messages keyed by
// rule. Formats take the rule bound as their single argument.
func DefaultMessages() map[string]string {
	out := make(map[string]string, len(defaultMessages))
	for key, value := range defaultMessages {
		out[key] = value
	}
	return out
}

type messages struct {
	locale     string
	translator i18n.Translator
	onMissing  i18n.MissingTranslationHandler
	overrides  map[string]string
}

// format resolves the message for a rule: the field's errorMessages override
// wins, then the translator, then the built-in default.
func (m messages) format(rule, override string, arg any) string {
	if override != "" {
		return override
	}
	format := defaultMessages[rule]
	if custom, ok := m.overrides[rule]; ok && custom != "" {
		format = custom
	}
	fallback := format
	var args []any
	if arg != nil {
		args = []any{arg}
		fallback = fmt.Sprintf(format, arg)
	}
	if m.translator == nil && m.onMissing == nil {
		return fallback
	}
	return i18n.Translate(m.locale, MessageKey(rule), fallback, m.translator, m.onMissing, args...)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
