// Package session is the explicit render context of one survey document: the
// compiled schema, answers, wizard cursor and action dispatcher shared by the
// walker and the renderers. Nothing here is process-wide; every session owns
// its state and resets it on Teardown.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/form"
	"github.com/goliatone/go-surveygen/pkg/i18n"
	"github.com/goliatone/go-surveygen/pkg/validation"
	"github.com/goliatone/go-surveygen/pkg/wizard"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	id            string
	logger        *slog.Logger
	onSubmit      action.SubmitFunc
	notifier      action.Notifier
	validationOps []validation.Option
	locale        string
	translator    i18n.Translator
	clock         func() time.Time
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// WithLogger sets the logger passed down to the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnSubmit registers the callback receiving answers of a valid submit.
func WithOnSubmit(fn action.SubmitFunc) Option {
	return func(c *config) {
		c.onSubmit = fn
	}
}

// WithNotifier forwards notifications to n in addition to the session buffer.
func WithNotifier(n action.Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithTranslator localizes validation messages.
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(c *config) {
		c.translator = t
		c.locale = locale
	}
}

// WithValidationOptions forwards options to the schema compiler.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(c *config) {
		c.validationOps = append(c.validationOps, opts...)
	}
}

// WithClock overrides the time source used for StartedAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.clock = now
		}
	}
}

// Session ties one document to its form state and navigation.
type Session struct {
	id        string
	doc       element.Document
	survey    *element.Element
	schema    *validation.Schema
	startedAt time.Time

	Form       *form.Form
	Wizard     *wizard.Wizard
	Dispatcher *action.Dispatcher

	notifications *action.Collector
	logger        *slog.Logger

	mu        sync.RWMutex
	torn      bool
	submitted bool
}

// New compiles the survey form of doc and returns a session positioned on
// its first step. Configuration errors (bad patterns, malformed rules, an
// invalid multi-step layout) fail here.
func New(doc element.Document, opts ...Option) (*Session, error) {
	cfg := config{
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	survey := doc.SurveyForm()
	var children []*element.Element
	if survey != nil {
		children = survey.Children
	}

	validationOps := cfg.validationOps
	if cfg.translator != nil {
		validationOps = append([]validation.Option{validation.WithTranslator(cfg.translator, cfg.locale)}, validationOps...)
	}
	schema, err := validation.BuildSchema(children, validationOps...)
	if err != nil {
		return nil, fmt.Errorf("session: build schema: %w", err)
	}

	s := &Session{
		id:            cfg.id,
		doc:           doc,
		survey:        survey,
		schema:        schema,
		startedAt:     cfg.clock(),
		notifications: &action.Collector{},
		logger:        cfg.logger.With("session", cfg.id),
	}
	s.Form = form.New(schema, validation.BuildDefaults(children))

	if survey != nil && survey.TotalSteps > 1 {
		s.Wizard, err = wizard.New(survey, s.Form)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	} else {
		s.Wizard = wizard.Single(survey, s.Form)
	}

	var notifier action.Notifier = s.notifications
	if cfg.notifier != nil {
		notifier = fanout{s.notifications, cfg.notifier}
	}
	onSubmit := func(ctx context.Context, answers validation.Values) error {
		if cfg.onSubmit != nil {
			if err := cfg.onSubmit(ctx, answers); err != nil {
				return err
			}
		}
		s.mu.Lock()
		s.submitted = true
		s.mu.Unlock()
		return nil
	}
	s.Dispatcher = action.NewDispatcher(s.Form, s.Wizard,
		action.WithLogger(s.logger),
		action.WithNotifier(notifier),
		action.WithOnSubmit(onSubmit),
	)
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Document returns the document the session was built from.
func (s *Session) Document() element.Document { return s.doc }

// SurveyForm returns the survey form node, or nil when the document has none.
func (s *Session) SurveyForm() *element.Element { return s.survey }

// Schema returns the compiled validation schema.
func (s *Session) Schema() *validation.Schema { return s.schema }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Notifications returns the notification buffer renderers drain.
func (s *Session) Notifications() *action.Collector { return s.notifications }

// Dispatch runs act through the session dispatcher. A torn down session
// ignores actions until Restore reopens it.
func (s *Session) Dispatch(ctx context.Context, act element.Action) action.Result {
	if s.Closed() {
		s.logger.Warn("session: action after teardown ignored", "action", fmt.Sprintf("%T", act))
		return action.Result{}
	}
	return s.Dispatcher.Dispatch(ctx, act)
}

// Submitted reports whether a submit succeeded.
func (s *Session) Submitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitted
}

// Closed reports whether Teardown ran.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.torn
}

// Teardown resets the wizard cursor, the answers and the notification
// buffer so nothing leaks into the next rendered document.
func (s *Session) Teardown() {
	s.Wizard.Teardown()
	s.Form.Reset()
	s.Dispatcher.ResetStatus()
	s.notifications.Drain()

	s.mu.Lock()
	s.torn = true
	s.submitted = false
	s.mu.Unlock()
}

// Progress summarizes how many fields of the current step are answered.
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

// Progress computes answered / total over the current step fields, with the
// percentage rounded and clamped to 0..100.
func (s *Session) Progress() Progress {
	names := s.Wizard.State().CurrentFieldNames
	p := Progress{Total: len(names)}
	for _, name := range names {
		if s.Form.Answered(name) {
			p.Answered++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Answered) / float64(p.Total) * 100))
	}
	p.Percent = min(100, max(0, p.Percent))
	return p
}

type fanout []action.Notifier

func (f fanout) Notify(ctx context.Context, n action.Notification) {
	for _, target := range f {
		target.Notify(ctx, n)
	}
}
