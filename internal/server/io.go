package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/elnormous/contenttype"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/session"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

const maxBodyBytes = 1 << 20

var errUnsupportedMedia = errors.New("server: unsupported content type")

// input is a decoded POST body. Form posts carry raw strings typed later
// against the field definitions; JSON bodies carry typed values.
type input struct {
	raw       map[string][]string
	typed     map[string]any
	action    string
	sessionID string
	form      bool
}

// jsonInput is the JSON POST body.
type jsonInput struct {
	Values  map[string]any `json:"values"`
	Action  string         `json:"action"`
	Session string         `json:"session"`
}

func decodeInput(w http.ResponseWriter, r *http.Request) (input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if r.Header.Get("Content-Type") != "" {
		mediaType, err := contenttype.GetMediaType(r)
		if err != nil {
			return input{}, fmt.Errorf("%w: %v", errUnsupportedMedia, err)
		}
		switch {
		case mediaType.Matches(jsonMediaType):
			var body jsonInput
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				return input{}, fmt.Errorf("server: decode json body: %w", err)
			}
			return input{typed: body.Values, action: body.Action, sessionID: body.Session}, nil
		case mediaType.Matches(multipartType):
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
				return input{}, fmt.Errorf("server: parse multipart form: %w", err)
			}
		case mediaType.Matches(formMediaType):
		default:
			return input{}, fmt.Errorf("%w: %s", errUnsupportedMedia, mediaType.String())
		}
	}

	if err := r.ParseForm(); err != nil {
		return input{}, fmt.Errorf("server: parse form: %w", err)
	}
	raw := make(map[string][]string, len(r.PostForm))
	for key, values := range r.PostForm {
		raw[strings.TrimSuffix(key, "[]")] = append(raw[strings.TrimSuffix(key, "[]")], values...)
	}
	return input{
		raw:       raw,
		action:    r.PostForm.Get(ActionField),
		sessionID: r.PostForm.Get(SessionField),
		form:      true,
	}, nil
}

// applyValues writes every posted answer through the form so values are
// normalized and re-validated. Array fields of the current step missing from
// a form post are cleared, since browsers omit unchecked boxes. The returned
// map holds fields whose raw input could not be typed.
func applyValues(sess *session.Session, in input) map[string]string {
	current := sess.Wizard.State().CurrentFieldNames
	problems := map[string]string{}

	for _, def := range sess.Schema().Fields() {
		var (
			value any
			err   error
		)
		switch {
		case !in.form:
			v, ok := in.typed[def.Name]
			if !ok {
				continue
			}
			value = v
		default:
			raw, ok := in.raw[def.Name]
			if !ok {
				if def.Type != element.ValueArray || !slices.Contains(current, def.Name) {
					continue
				}
			}
			value, err = validation.Coerce(def.Type, raw)
			if err != nil {
				problems[def.Name] = strings.TrimPrefix(err.Error(), "validation: ")
				continue
			}
		}
		if err := sess.Form.SetValue(def.Name, value); err != nil {
			problems[def.Name] = err.Error()
		}
	}
	return problems
}

// resolveAction decodes the posted action. An empty action, as sent when a
// form is submitted with the enter key, advances the wizard or submits on
// the last step.
func resolveAction(sess *session.Session, raw string) element.Action {
	if strings.TrimSpace(raw) == "" {
		if sess.Wizard.State().IsLastStep {
			return element.Submit{}
		}
		return element.GoNextStep{}
	}
	return action.Decode(sess.Document(), raw)
}

// stateView is the JSON representation of a session.
type stateView struct {
	SessionID     string                `json:"sessionId"`
	Step          int                   `json:"step"`
	TotalSteps    int                   `json:"totalSteps"`
	IsLastStep    bool                  `json:"isLastStep"`
	CurrentFields []string              `json:"currentFields"`
	Values        validation.Values     `json:"values"`
	Errors        map[string][]string   `json:"errors,omitempty"`
	Progress      session.Progress      `json:"progress"`
	Status        action.SubmitStatus   `json:"status"`
	Submitted     bool                  `json:"submitted"`
	Notifications []action.Notification `json:"notifications,omitempty"`
	Result        *resultView           `json:"result,omitempty"`
}

type resultView struct {
	Handled bool  `json:"handled"`
	Valid   *bool `json:"valid,omitempty"`
	Value   any   `json:"value,omitempty"`
}

func newStateView(sess *session.Session, result *action.Result) stateView {
	state := sess.Wizard.State()
	total := 1
	if survey := sess.SurveyForm(); survey != nil && survey.TotalSteps > 1 {
		total = survey.TotalSteps
	}
	fields := state.CurrentFieldNames
	if fields == nil {
		fields = []string{}
	}
	view := stateView{
		SessionID:     sess.ID(),
		Step:          state.CurrentStep,
		TotalSteps:    total,
		IsLastStep:    state.IsLastStep,
		CurrentFields: fields,
		Values:        sess.Form.Values(),
		Errors:        sess.Form.Errors().Messages(),
		Progress:      sess.Progress(),
		Status:        sess.Dispatcher.Status(),
		Submitted:     sess.Submitted(),
		Notifications: sess.Notifications().Drain(),
	}
	if result != nil {
		view.Result = &resultView{Handled: result.Handled, Valid: result.Valid, Value: result.Value}
	}
	return view
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *session.Session, result *action.Result) {
	if s.wantsJSON(r) {
		writeJSON(w, http.StatusOK, newStateView(sess, result))
		return
	}

	out, err := s.orch.Generate(r.Context(), orchestrator.Request{
		Session:  sess,
		Renderer: s.renderer,
		Options: render.RenderOptions{
			Action: r.URL.Path,
			Locale: s.locale,
		},
	})
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("server: render: %w", err))
		return
	}
	sess.Notifications().Drain()
	writeBody(w, http.StatusOK, s.contentType(), out)
}

func (s *Server) contentType() string {
	name := s.renderer
	if name == "" {
		name = s.orch.DefaultRenderer()
	}
	if renderer, err := s.orch.Registry().Get(name); err == nil {
		return renderer.ContentType()
	}
	return "text/html; charset=utf-8"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeBody(w, status, jsonMediaType.String(), data)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
