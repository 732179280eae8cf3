// Package server exposes the survey catalog over HTTP. Each survey is served
// at /surveys/{id}: GET renders the current step, POST applies answers and
// dispatches the posted action. Session state survives between requests
// through a session.Store keyed by a cookie.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	gotemplatepkg "github.com/goliatone/go-template"
	"github.com/google/uuid"

	"github.com/goliatone/go-surveygen/internal/catalog"
	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	rendertemplate "github.com/goliatone/go-surveygen/pkg/render/template"
	"github.com/goliatone/go-surveygen/pkg/session"
	"github.com/goliatone/go-surveygen/pkg/submission"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

const (
	// DefaultCookieName carries the session id of one survey.
	DefaultCookieName = "surveygen_session"
	// ActionField names the posted action value.
	ActionField = "_action"
	// SessionField is the hidden session id fallback for cookie-less clients.
	SessionField = "_session"

	basePath = "/surveys"
)

var (
	htmlMediaType = contenttype.NewMediaType("text/html")
	jsonMediaType = contenttype.NewMediaType("application/json")
	formMediaType = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartType = contenttype.NewMediaType("multipart/form-data")

	// HTML first so clients without an Accept header get pages.
	responseMediaTypes = []contenttype.MediaType{htmlMediaType, jsonMediaType}
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Catalog is the document source the server reads from.
type Catalog interface {
	Entry(id string) (catalog.Entry, error)
	List() []catalog.Entry
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the session store. Defaults to an in-memory store.
func WithStore(store session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSink stores a payload for every successful submit.
func WithSink(sink submission.Sink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithOrchestrator sets the orchestrator used to build sessions and render
// pages.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		if orch != nil {
			s.orch = orch
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name = strings.TrimSpace(name); name != "" {
			s.cookieName = name
		}
	}
}

// WithSessionTTL sets the session cookie lifetime. Zero issues session
// cookies.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.ttl = ttl
	}
}

// WithRenderer names the registered renderer used for HTML responses.
func WithRenderer(name string) Option {
	return func(s *Server) {
		s.renderer = name
	}
}

// WithLocale sets the locale passed to renderers.
func WithLocale(locale string) Option {
	return func(s *Server) {
		s.locale = locale
	}
}

// WithClock overrides time.Now for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server serves survey sessions over HTTP.
type Server struct {
	catalog    Catalog
	store      session.Store
	sink       submission.Sink
	orch       *orchestrator.Orchestrator
	logger     *slog.Logger
	cookieName string
	ttl        time.Duration
	renderer   string
	locale     string
	now        func() time.Time
	templates  rendertemplate.TemplateRenderer
	mux        *http.ServeMux
}

// New builds a server over cat.
func New(cat Catalog, options ...Option) (*Server, error) {
	if cat == nil {
		return nil, errors.New("server: catalog is required")
	}
	s := &Server{
		catalog:    cat,
		logger:     slog.Default(),
		cookieName: DefaultCookieName,
		now:        time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.orch == nil {
		s.orch = orchestrator.New(orchestrator.WithLogger(s.logger))
	}

	engine, err := gotemplatepkg.NewRenderer(
		gotemplatepkg.WithFS(templatesFS),
		gotemplatepkg.WithExtension(".tmpl"),
		gotemplatepkg.WithGlobalData(map[string]any{"base": basePath}),
	)
	if err != nil {
		return nil, fmt.Errorf("server: templates: %w", err)
	}
	engine.RegisterPreHook(s.stampPage)
	s.templates = engine

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET "+basePath, s.handleList)
	s.mux.HandleFunc("GET "+basePath+"/{id}", s.handleGet)
	s.mux.HandleFunc("POST "+basePath+"/{id}", s.handlePost)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.List()
	surveys := make([]surveyRef, len(entries))
	for i, entry := range entries {
		surveys[i] = surveyRef{ID: entry.ID, Title: entry.Title}
	}

	if s.wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"surveys": surveys})
		return
	}

	items := make([]map[string]any, len(surveys))
	for i, ref := range surveys {
		items[i] = map[string]any{"id": ref.ID, "title": ref.Title}
	}
	page, err := s.templates.RenderTemplate("templates/index", map[string]any{
		"surveys": items,
	})
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("server: render index: %w", err))
		return
	}
	writeBody(w, http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// stampPage adds the render time to map view data.
func (s *Server) stampPage(ctx *gotemplatepkg.HookContext) error {
	if data, ok := ctx.Data.(map[string]any); ok {
		data["generated_at"] = s.now().UTC().Format(time.RFC3339)
	}
	return nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	sess, err := s.resumeSession(w, r, entry, r.URL.Query().Get(SessionField))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.Save(r.Context(), sess.Snapshot()); err != nil {
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("server: save session: %w", err))
		return
	}
	s.respond(w, r, sess, nil)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}

	in, err := decodeInput(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUnsupportedMedia) {
			status = http.StatusUnsupportedMediaType
		}
		s.fail(w, r, status, err)
		return
	}

	sess, err := s.resumeSession(w, r, entry, in.sessionID)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	ctx := r.Context()
	var result *action.Result
	if inputErrors := applyValues(sess, in); len(inputErrors) > 0 {
		for field, message := range inputErrors {
			sess.Form.SetError(field, message)
		}
	} else {
		act := resolveAction(sess, in.action)
		res := sess.Dispatch(ctx, act)
		result = &res
		s.logger.Debug("server: dispatched",
			"survey", entry.ID,
			"session", sess.ID(),
			"action", act.Handler(),
			"handled", res.Handled,
		)
	}

	if err := s.store.Save(ctx, sess.Snapshot()); err != nil {
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("server: save session: %w", err))
		return
	}
	s.respond(w, r, sess, result)
}

func (s *Server) entry(w http.ResponseWriter, r *http.Request) (catalog.Entry, bool) {
	id := r.PathValue("id")
	entry, err := s.catalog.Entry(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return catalog.Entry{}, false
	}
	return entry, true
}

// resumeSession restores the session named by the cookie, or by the fallback
// id when no cookie is present, and starts a fresh one when neither resolves
// to a stored snapshot of this survey.
func (s *Server) resumeSession(w http.ResponseWriter, r *http.Request, entry catalog.Entry, fallback string) (*session.Session, error) {
	ctx := r.Context()

	id := fallback
	if cookie, err := r.Cookie(s.cookieName); err == nil && cookie.Value != "" {
		id = cookie.Value
	}

	if id != "" && ownsSession(entry.ID, id) {
		snap, err := s.store.Load(ctx, id)
		switch {
		case err == nil:
			sess, err := s.newSession(ctx, entry, id)
			if err != nil {
				return nil, err
			}
			sess.Restore(snap)
			s.setCookie(w, entry.ID, id)
			return sess, nil
		case !errors.Is(err, session.ErrNotFound):
			return nil, fmt.Errorf("server: load session: %w", err)
		}
	}

	id = entry.ID + ":" + uuid.NewString()
	sess, err := s.newSession(ctx, entry, id)
	if err != nil {
		return nil, err
	}
	s.setCookie(w, entry.ID, id)
	return sess, nil
}

func (s *Server) newSession(ctx context.Context, entry catalog.Entry, id string) (*session.Session, error) {
	var sess *session.Session
	onSubmit := func(ctx context.Context, answers validation.Values) error {
		return s.storeSubmission(ctx, entry.ID, sess, answers)
	}

	doc := entry.Document
	sess, err := s.orch.NewSession(ctx, orchestrator.Request{Document: &doc},
		session.WithID(id),
		session.WithLogger(s.logger),
		session.WithOnSubmit(onSubmit),
	)
	if err != nil {
		return nil, fmt.Errorf("server: survey %q: %w", entry.ID, err)
	}
	return sess, nil
}

func (s *Server) storeSubmission(ctx context.Context, surveyID string, sess *session.Session, answers validation.Values) error {
	if s.sink == nil {
		s.logger.Info("server: submission received", "survey", surveyID, "session", sess.ID())
		return nil
	}
	payload := submission.NewPayload(surveyID, sess.ID(), answers, sess.StartedAt(), s.now())
	if err := s.sink.Store(ctx, payload); err != nil {
		return fmt.Errorf("server: store submission: %w", err)
	}
	s.logger.Info("server: submission stored", "survey", surveyID, "session", sess.ID(), "duration", payload.DurationSeconds)
	return nil
}

func (s *Server) setCookie(w http.ResponseWriter, surveyID, id string) {
	cookie := &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     basePath + "/" + surveyID,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.ttl > 0 {
		cookie.MaxAge = int(s.ttl / time.Second)
	}
	http.SetCookie(w, cookie)
}

func (s *Server) wantsJSON(r *http.Request) bool {
	if r.Header.Get("Accept") == "" {
		return false
	}
	mediaType, _, err := contenttype.GetAcceptableMediaType(r, responseMediaTypes)
	if err != nil {
		return false
	}
	return mediaType.Matches(jsonMediaType)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("server: request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("server: request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	if s.wantsJSON(r) {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	http.Error(w, http.StatusText(status), status)
}

// ownsSession reports whether id was issued for surveyID, so a cookie from
// one survey never restores into another.
func ownsSession(surveyID, id string) bool {
	rest, ok := strings.CutPrefix(id, surveyID+":")
	return ok && rest != ""
}

type surveyRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
