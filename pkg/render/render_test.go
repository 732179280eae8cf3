package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/i18n"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/session"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, *session.Session, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_DefaultAndLookup(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("html"))
	registry.MustRegister(namedRenderer("tui"))

	if err := registry.Register(namedRenderer("html")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	got, err := registry.Get("")
	if err != nil || got.Name() != "html" {
		t.Fatalf("expected first renderer as default, got %v, %v", got, err)
	}
	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if registry.MustGet("").Name() != "tui" {
		t.Fatalf("expected tui default")
	}
	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload(t *testing.T) {
	mapped := render.MapErrorPayload([]string{"email", "tags"}, map[string][]string{
		"email":            {" Email taken ", "Email taken"},
		"/body/tags/0":     {"Tag unknown"},
		"$.answers.tags":   {"Too many"},
		"non_field_errors": {"Try again later"},
		"ghost":            {"Lost field"},
		"":                 {"  "},
	})

	wantFields := map[string][]string{
		"email": {"Email taken"},
		"tags":  {"Tag unknown", "Too many"},
	}
	sorted := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(wantFields, mapped.Fields, sorted); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Lost field", "Try again later"}, mapped.Form, sorted); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionErrors_MergesRecordedIssues(t *testing.T) {
	survey := &element.Element{Role: element.RoleSurveyForm, Children: []*element.Element{
		{Role: element.RoleTextInput, Name: "email", Required: true},
	}}
	doc := element.Document{Body: element.Body{Items: element.Groups{{Name: "survey", Elements: []*element.Element{survey}}}}}
	s, err := session.New(doc)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Form.Validate()
	s.Form.SetError("captcha", "Captcha expired")

	mapped := render.SessionErrors(s, render.RenderOptions{Errors: map[string][]string{"email": {"Email taken"}}})
	if diff := cmp.Diff([]string{"This field is required", "Email taken"}, mapped.For("email")); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Captcha expired"}, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" keep ": "1", "": "x"},
		render.CSRFToken("_csrf", "tok"),
		render.SessionID("abc"),
		render.Hidden("  ", "skip"),
	)
	want := []render.HiddenField{
		{Name: "_csrf", Value: "tok"},
		{Name: "_session", Value: "abc"},
		{Name: "keep", Value: "1"},
	}
	if diff := cmp.Diff(want, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLabels(t *testing.T) {
	opts := render.RenderOptions{}
	if got := render.ButtonLabel(opts, &element.Element{Role: element.RoleNextButton}); got != "Next" {
		t.Fatalf("unexpected default label %q", got)
	}
	if got := render.ButtonLabel(opts, &element.Element{Role: element.RoleSubmitButton, Label: "Send"}); got != "Send" {
		t.Fatalf("explicit label must win, got %q", got)
	}

	opts.Locale = "ko"
	opts.Translator = i18n.Catalog{"ko": {render.KeyPrevLabel: "이전"}}
	if got := render.ButtonLabel(opts, &element.Element{Role: element.RolePrevButton}); got != "이전" {
		t.Fatalf("unexpected translated label %q", got)
	}
	if got := render.Label(opts, render.KeySubmitLabel, ""); got != "Submit" {
		t.Fatalf("missing translation must fall back, got %q", got)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(i18n.Catalog{"es": {"greeting": "Hola %s"}}, render.TemplateI18nConfig{})
	translate := funcs["translate"].(func(any, string, ...any) string)
	current := funcs["current_locale"].(func(any) string)

	if got := translate("es", "greeting", "Ada"); got != "Hola Ada" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := translate(map[string]any{"locale": "es"}, "greeting", "Bo"); got != "Hola Bo" {
		t.Fatalf("unexpected translation from map %q", got)
	}
	if got := translate("de", render.KeyNextLabel); got != "Next" {
		t.Fatalf("missing key must fall back to the built-in label, got %q", got)
	}
	if got := translate("de", "unknown.key"); got != "unknown.key" {
		t.Fatalf("missing key without label must return the key, got %q", got)
	}
	if got := current(map[string]string{"locale": "pt"}); got != "pt" {
		t.Fatalf("unexpected locale %q", got)
	}
}

func TestSelectGroups(t *testing.T) {
	groups := element.Groups{{Name: "header"}, {Name: "survey"}, {Name: "footer"}}
	got := render.SelectGroups(groups, []string{"footer", "header", "nope"})
	if diff := cmp.Diff([]string{"header", "footer"}, got.Names()); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if len(render.SelectGroups(groups, nil)) != 3 {
		t.Fatalf("empty selection keeps every group")
	}
}
