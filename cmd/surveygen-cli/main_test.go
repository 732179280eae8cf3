package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-surveygen/pkg/submission"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render", filepath.Join("testdata", "feedback.yaml"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<title>Feedback</title>") || !strings.Contains(out, `name="email"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}

	target := filepath.Join(t.TempDir(), "out.html")
	if _, err := execute(t, "render", filepath.Join("testdata", "feedback.yaml"), "--out", target); err != nil {
		t.Fatalf("render to file: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil || !strings.Contains(string(data), "Tell us what you think") {
		t.Fatalf("expected rendered file, got %v", err)
	}

	if _, err := execute(t, "render", filepath.Join("testdata", "feedback.yaml"), "--renderer", "pdf"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestSourceCommands_RejectMalformedURL(t *testing.T) {
	for _, command := range []string{"render", "run"} {
		_, err := execute(t, command, "http://exa mple.com/survey.json")
		if err == nil || !strings.Contains(err.Error(), "invalid URL") {
			t.Fatalf("%s: expected invalid URL error, got %v", command, err)
		}
	}
}

func TestLintCommand(t *testing.T) {
	out, err := execute(t, "lint", filepath.Join("testdata", "feedback.yaml"))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if out != filepath.Join("testdata", "feedback.yaml")+": ok\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "lint", "--json", filepath.Join("testdata", "feedback.yaml"), filepath.Join("testdata", "broken.json"))
	if err == nil {
		t.Fatalf("expected lint failure")
	}
	var reports []lintReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode reports: %v\n%s", err, out)
	}
	if len(reports) != 2 || !reports[0].Valid || reports[1].Valid || len(reports[1].Issues) == 0 {
		t.Fatalf("unexpected reports %+v", reports)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	if schema["title"] != "Survey document" {
		t.Fatalf("unexpected schema title %v", schema["title"])
	}
}

func TestSubmissionsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "answers.db")
	sink, err := submission.OpenSQLite(db)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	payload := submission.NewPayload("feedback", "s-1", validation.Values{"score": float64(3)}, started, started.Add(time.Minute))
	if err := sink.Store(context.Background(), payload); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out, err := execute(t, "submissions", "feedback", "--db", db)
	if err != nil {
		t.Fatalf("submissions: %v", err)
	}
	var got submission.Payload
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode payload: %v\n%s", err, out)
	}
	if got.SessionID != "s-1" || got.DurationSeconds != 60 || got.Answers["score"] != float64(3) {
		t.Fatalf("unexpected payload %+v", got)
	}

	if _, err := execute(t, "submissions", "feedback"); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestSurveyID(t *testing.T) {
	cases := map[string]string{
		"surveys/feedback.yaml":                 "feedback",
		"onboarding.json":                       "onboarding",
		"https://example.com/s/coffee.json?v=2": "coffee",
	}
	for input, want := range cases {
		if got := surveyID(input); got != want {
			t.Fatalf("surveyID(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	if _, err := execute(t, "schema", "--log-format", "xml"); err == nil {
		t.Fatalf("expected invalid log format error")
	}
}
