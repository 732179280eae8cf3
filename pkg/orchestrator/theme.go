package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveygen/pkg/renderers/html"
)

var partialTemplates = []string{
	"container",
	"text",
	"progress_bar",
	"step_indicator",
	"survey_form",
	"form",
	"single_choice",
	"multiple_choice",
	"text_input",
	"rating",
	"option",
	"button",
	"actions",
	"complete_page",
}

// defaultThemeFallbacks maps every element partial key to the embedded html
// template, so themes only list the templates they replace.
func defaultThemeFallbacks() map[string]string {
	out := make(map[string]string, len(partialTemplates))
	for _, name := range partialTemplates {
		out[html.PartialPrefix+name] = "templates/" + name
	}
	return out
}

// ThemeConfig selects a theme through the configured selector and flattens
// the selection into renderer configuration. It returns nil when no selector
// is configured.
func (o *Orchestrator) ThemeConfig(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig merges the manifest with its selected variant: variant
// tokens, templates and asset files override the base ones.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	partials := copyStringMap(fallbacks)
	tokens := map[string]string{}
	assets := map[string]string{}
	prefix := ""

	if m := selection.Manifest; m != nil {
		mergeInto(tokens, m.Tokens)
		mergeInto(partials, m.Templates)
		mergeInto(assets, m.Assets.Files)
		prefix = m.Assets.Prefix
		if v, ok := m.Variants[selection.Variant]; ok {
			mergeInto(tokens, v.Tokens)
			mergeInto(partials, v.Templates)
			mergeInto(assets, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		cssVars[key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, assets),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + file
	}
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
