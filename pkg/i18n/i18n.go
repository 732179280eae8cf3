// Package i18n holds the translation seam shared by the validation compiler
// (rule messages) and the renderers (button labels, progress text).
package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a key is
// looked up without a configured Translator.
var ErrMissingTranslator = errors.New("i18n: translator not configured")

// Translator resolves a message key for a locale. Args are the values the
// message interpolates, in order.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. Returning "" falls back to the default text.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Catalog is a static locale -> key -> format table. Formats use fmt verbs.
type Catalog map[string]map[string]string

// Translate implements Translator.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	messages, ok := c[locale]
	if !ok {
		if base, _, found := strings.Cut(locale, "-"); found {
			messages, ok = c[base]
		}
	}
	if !ok {
		return "", fmt.Errorf("i18n: locale %q not found", locale)
	}
	format, ok := messages[key]
	if !ok || strings.TrimSpace(format) == "" {
		return "", fmt.Errorf("i18n: key %q not found for locale %q", key, locale)
	}
	if len(args) == 0 {
		return format, nil
	}
	return fmt.Sprintf(format, args...), nil
}

// Translate resolves key through t, falling back to fallback (already
// formatted) when the translator is absent or fails.
func Translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			if out := onMissing(locale, key, args, ErrMissingTranslator); out != "" {
				return out
			}
		}
		return orKey(fallback, key)
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if err == nil {
		err = fmt.Errorf("i18n: empty translation for %q", key)
	}

	if onMissing != nil {
		if out := onMissing(locale, key, args, err); out != "" {
			return out
		}
	}
	return orKey(fallback, key)
}

func orKey(fallback, key string) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
