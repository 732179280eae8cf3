package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/internal/logging"
)

func TestNew_LoadsDocuments(t *testing.T) {
	c, err := New(context.Background(), "testdata", WithLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if diff := cmp.Diff([]string{"feedback", "onboarding"}, c.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	entry, err := c.Entry("feedback")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Title != "Feedback" || entry.Path != filepath.Join("testdata", "feedback.yaml") {
		t.Fatalf("unexpected entry %+v", entry)
	}

	doc, err := c.Get("onboarding")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if survey := doc.SurveyForm(); survey == nil || len(survey.Children) != 2 {
		t.Fatalf("unexpected onboarding document")
	}
	if c.List()[1].Title != "onboarding" {
		t.Fatalf("expected id fallback title, got %q", c.List()[1].Title)
	}

	if _, err := c.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(context.Background(), " "); err == nil {
		t.Fatalf("expected error without directory")
	}
	if _, err := New(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, filepath.Join("testdata", "feedback.yaml"), filepath.Join(dir, "feedback.yaml"))

	reloaded := make(chan struct{}, 8)
	c, err := New(context.Background(), dir,
		WithLogger(logging.Nop()),
		WithDebounce(20*time.Millisecond),
		WithOnReload(func() { reloaded <- struct{}{} }),
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	deadline := time.After(5 * time.Second)
	for {
		copyFile(t, filepath.Join("testdata", "onboarding.json"), filepath.Join(dir, "onboarding.json"))
		select {
		case <-reloaded:
		case <-time.After(200 * time.Millisecond):
			continue
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
		if len(c.IDs()) == 2 {
			break
		}
	}

	if diff := cmp.Diff([]string{"feedback", "onboarding"}, c.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func copyFile(t *testing.T, from, to string) {
	t.Helper()
	data, err := os.ReadFile(from)
	if err != nil {
		t.Fatalf("read %s: %v", from, err)
	}
	if err := os.WriteFile(to, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", to, err)
	}
}
