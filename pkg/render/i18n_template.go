package render

import (
	"strings"

	"github.com/goliatone/go-surveygen/pkg/i18n"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey selects the key holding the locale when templates pass a map
	// instead of a raw locale string. Defaults to "locale".
	LocaleKey string
	// FuncName renames the translate helper.
	FuncName string
	// OnMissing picks the text shown for untranslated keys. The default falls
	// back to the built-in label, then to the key itself.
	OnMissing i18n.MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers for the template engine (see
// gotemplate.WithTemplateFunc):
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//
// localeSrc is a locale string such as "es" or a map holding one under
// cfg.LocaleKey.
func TemplateI18nFuncs(t i18n.Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = func(_, key string, _ []any, _ error) string {
			if label := DefaultLabel(key); label != "" {
				return label
			}
			return key
		}
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := resolveLocale(localeSrc, localeKey)
			if t == nil {
				return onMissing(locale, key, params, i18n.ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(localeSrc any) string {
			return resolveLocale(localeSrc, localeKey)
		},
	}
}

func resolveLocale(src any, key string) string {
	switch data := src.(type) {
	case string:
		return data
	case map[string]string:
		return data[key]
	case map[string]any:
		locale, _ := data[key].(string)
		return locale
	}
	return ""
}
