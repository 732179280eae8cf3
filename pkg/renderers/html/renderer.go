package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/i18n"
	"github.com/goliatone/go-surveygen/pkg/render"
	rendertemplate "github.com/goliatone/go-surveygen/pkg/render/template"
	gotemplate "github.com/goliatone/go-surveygen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-surveygen/pkg/session"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	logger           *slog.Logger
	stylesheetURL    string
	omitStylesheet   bool
	translator       i18n.Translator
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must hold the same templates/*.tmpl names as the embedded one.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy replaces the sanitizer applied to authored text, descriptions and
// complete page messages. The default is bluemonday's UGC policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithTranslator exposes t to templates through the translate helper, so
// theme partials can localize their own text. Element labels are translated
// through RenderOptions.Translator.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithLogger sets the logger receiving contained element errors.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStylesheetURL links the stylesheet instead of inlining the embedded one.
// A theme AssetURL resolving StylesheetName takes precedence.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = strings.TrimSpace(url)
	}
}

// WithoutStylesheet omits the built-in stylesheet entirely.
func WithoutStylesheet() Option {
	return func(cfg *config) {
		cfg.omitStylesheet = true
	}
}

// Renderer renders a session as a server-side HTML page. Buttons post an
// _action value so the server can dispatch the same actions the document
// declares.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	policy        *bluemonday.Policy
	walker        *render.Walker[string]
	stylesheet    string
	stylesheetURL string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	r := &Renderer{
		templates:     templates,
		policy:        cfg.policy,
		stylesheetURL: cfg.stylesheetURL,
	}
	if !cfg.omitStylesheet {
		r.stylesheet = defaultStylesheet()
	}
	r.walker = render.NewWalker(r.table(), render.WithWalkerLogger(cfg.logger))
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render renders the selected item groups of the session document as one
// page. Once the session has submitted, a document holding a complete page
// renders only that page.
func (r *Renderer) Render(ctx context.Context, s *session.Session, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	if s == nil {
		return nil, errors.New("html renderer: session is required")
	}

	c := r.walker.NewContext(ctx, s, opts)
	doc := s.Document()

	var sections []map[string]any
	if s.Submitted() {
		if page := findRole(doc, element.RoleCompletePage); page != nil {
			sections = append(sections, map[string]any{
				"name": "complete",
				"html": c.Render(page),
			})
		}
	}
	if sections == nil {
		for _, group := range render.SelectGroups(doc.Body.Items, opts.Groups) {
			sections = append(sections, map[string]any{
				"name": group.Name,
				"html": strings.Join(c.RenderList(group.Elements), ""),
			})
		}
	}

	notifications := opts.Notifications
	if notifications == nil {
		notifications = s.Notifications().Peek()
	}

	data := map[string]any{
		"lang":          langOf(opts.Locale),
		"title":         pageTitle(s),
		"body_style":    doc.Body.Style.Inline(element.StatusDefault),
		"theme":         buildThemeContext(opts.Theme),
		"sections":      sections,
		"notifications": notifications,
	}
	if url := r.stylesheetHref(opts); url != "" {
		data["stylesheet_url"] = url
	} else if r.stylesheet != "" {
		data["stylesheet"] = r.stylesheet
	}

	result, err := r.templates.RenderTemplate("templates/page", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) stylesheetHref(opts render.RenderOptions) string {
	if opts.Theme != nil && opts.Theme.AssetURL != nil {
		if url := strings.TrimSpace(opts.Theme.AssetURL(StylesheetName)); url != "" {
			return url
		}
	}
	return r.stylesheetURL
}

// PartialPrefix namespaces theme partial keys. A theme whose templates map
// "survey.text_input" to another template name replaces that element
// template.
const PartialPrefix = "survey."

func (r *Renderer) render(c *walkContext, name string, data map[string]any) (string, error) {
	template := "templates/" + name
	if c != nil && c.Options.Theme != nil {
		if partial := strings.TrimSpace(c.Options.Theme.Partials[PartialPrefix+name]); partial != "" {
			template = strings.TrimSuffix(partial, ".tmpl")
		}
	}
	out, err := r.templates.RenderTemplate(template, data)
	if err != nil {
		return "", fmt.Errorf("html renderer: %s: %w", name, err)
	}
	return out, nil
}

func pageTitle(s *session.Session) string {
	if survey := s.SurveyForm(); survey != nil {
		if title := strings.TrimSpace(survey.Title); title != "" {
			return title
		}
	}
	return "Survey"
}

func langOf(locale string) string {
	if locale = strings.TrimSpace(locale); locale != "" {
		return locale
	}
	return "en"
}

func findRole(doc element.Document, role element.Role) *element.Element {
	var found *element.Element
	doc.Walk(func(el *element.Element, _ string) bool {
		if found != nil {
			return false
		}
		if el.Role == role {
			found = el
			return false
		}
		return true
	})
	return found
}
