package element

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Style status keys.
const (
	StatusDefault  = "default"
	StatusActive   = "active"
	StatusDisabled = "disabled"
	StatusError    = "error"
)

// Style maps a visual status to its declarations.
type Style map[string]StyleItem

// StyleItem holds base declarations plus pseudo-selector overrides such as
// ":hover".
type StyleItem struct {
	Base   map[string]any            `json:"base,omitempty" yaml:"base,omitempty"`
	Pseudo map[string]map[string]any `json:"pseudo,omitempty" yaml:"pseudo,omitempty"`
}

// Inline renders the base declarations of a status as an inline CSS string.
// Keys are emitted in sorted order; camelCase properties become kebab-case.
func (s Style) Inline(status string) string {
	if len(s) == 0 {
		return ""
	}
	item, ok := s[status]
	if !ok || len(item.Base) == 0 {
		return ""
	}
	return Declarations(item.Base)
}

// Declarations formats a property map as "a: b; c: d".
func Declarations(props map[string]any) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := cssValue(key, props[key])
		if value == "" {
			continue
		}
		parts = append(parts, kebabCase(key)+": "+value)
	}
	return strings.Join(parts, "; ")
}

func cssValue(key string, raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int:
		return numericCSS(key, float64(v))
	case float64:
		return numericCSS(key, v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

var unitless = map[string]struct{}{
	"opacity":    {},
	"zIndex":     {},
	"fontWeight": {},
	"lineHeight": {},
	"flexGrow":   {},
	"flexShrink": {},
	"order":      {},
}

func numericCSS(key string, value float64) string {
	formatted := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", value), "0"), ".")
	if _, ok := unitless[key]; ok || value == 0 {
		return formatted
	}
	return formatted + "px"
}

func kebabCase(in string) string {
	if strings.HasPrefix(in, "--") {
		return in
	}
	var b strings.Builder
	for i, r := range in {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
