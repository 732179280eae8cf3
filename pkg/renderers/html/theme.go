package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Default palette exposed as CSS custom properties. Theme CSS vars override
// individual entries.
var defaultCSSVars = map[string]string{
	"--sg-primary":      "#00CB46",
	"--sg-primary-dark": "#00B33E",
	"--sg-error":        "#DC2626",
}

type rendererTheme struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"css_vars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	vars := copyStringMap(defaultCSSVars)
	ctx := rendererTheme{}
	if cfg != nil {
		ctx.Name = cfg.Theme
		ctx.Variant = cfg.Variant
		ctx.Tokens = copyStringMap(cfg.Tokens)
		for key, value := range cfg.CSSVars {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if !strings.HasPrefix(key, "--") {
				key = "--" + key
			}
			vars[key] = value
		}
	}
	ctx.CSSVars = vars
	ctx.CSSVarsStyle = cssVarsStyle(vars)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(vars[key])
		if value == "" {
			continue
		}
		parts = append(parts, key+": "+value)
	}
	return strings.Join(parts, "; ")
}
