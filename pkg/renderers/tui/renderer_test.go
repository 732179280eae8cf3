package tui

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/session"
	"github.com/goliatone/go-surveygen/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) output() string {
	return strings.Join(s.infoMessages, "\n")
}

func newRenderer(t *testing.T, driver *stubDriver, opts ...Option) *Renderer {
	t.Helper()
	opts = append([]Option{WithPromptDriver(driver), WithOutput(&bytes.Buffer{})}, opts...)
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func wizardSession(t *testing.T) *session.Session {
	t.Helper()
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "survey.json"))
	return testsupport.NewSession(t, doc)
}

const singleStepSurvey = `{
  "body": {"items": {"main": [
    {"role": "surveyForm", "children": [
      {"role": "multipleChoice", "name": "drinks", "title": "Drinks",
        "validation": {"type": "array", "minSelect": 1},
        "children": [
          {"role": "option", "value": "tea", "label": "Tea"},
          {"role": "option", "value": "coffee", "label": "Coffee"}
        ]},
      {"role": "textInput", "name": "name", "label": "Your name", "validation": {"type": "string", "maxLength": 5}}
    ]}
  ]}}
}`

func TestRenderer_WalksWizardUntilSubmit(t *testing.T) {
	driver := &stubDriver{
		// color=Green, score=4, then Submit out of [Previous, Submit].
		selectIdx: []int{1, 3, 1},
		textAreas: []string{"", "Lovely"},
	}
	r := newRenderer(t, driver)
	s := wizardSession(t)

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"color":"green","comment":"Lovely","score":4}`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if !s.Submitted() {
		t.Fatalf("expected session to be submitted")
	}

	wantPrompts := []string{"Favourite color", "How was it?", "Anything else?", "Anything else?", "What next?"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}

	log := driver.output()
	for _, fragment := range []string{
		"Customer survey",
		"0 / 2",
		"About you",
		"Coffee survey",
		"This field is required",
		"Your answers were submitted!",
		"Thanks for your time",
		"We read every answer.",
		"Back home (/)",
	} {
		if !strings.Contains(log, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, log)
		}
	}
	if strings.Contains(log, "alert(1)") || strings.Contains(log, "<b>") {
		t.Fatalf("expected markup to be stripped\n%s", log)
	}
}

func TestRenderer_SingleStepConfirmsSubmit(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{}, {0, 1}, {0, 1}},
		inputs:   []string{"Adalovelace", "Ada", "Ada"},
		confirm:  []bool{false, true},
	}
	r := newRenderer(t, driver, WithOutputFormat(OutputFormatPrettyText))
	s := testsupport.NewSession(t, testsupport.MustParseDocument(t, singleStepSurvey))

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "drinks[0]=tea\ndrinks[1]=coffee\nname=Ada\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if driver.confirmPos != 2 {
		t.Fatalf("expected two confirmations, got %d", driver.confirmPos)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderer_FormOutputAndTransformer(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{1}},
		inputs:   []string{"Bo"},
		confirm:  []bool{true},
	}
	r := newRenderer(t, driver,
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["source"] = "cli"
			return values, nil
		}),
	)
	s := testsupport.NewSession(t, testsupport.MustParseDocument(t, singleStepSurvey))

	out, err := r.Render(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "drinks%5B%5D=coffee&name=Bo&source=cli"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{}
	r := newRenderer(t, driver)
	s := wizardSession(t)

	if _, err := r.Render(context.Background(), s, render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error to abort rendering")
	}
	if s.Submitted() {
		t.Fatalf("expected session to stay open")
	}
}

func TestRenderer_Preconditions(t *testing.T) {
	r := newRenderer(t, &stubDriver{})
	if _, err := r.Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error without session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, wizardSession(t), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if r.Name() != Name || r.ContentType() != "application/json" {
		t.Fatalf("unexpected renderer identity %q %q", r.Name(), r.ContentType())
	}
}
