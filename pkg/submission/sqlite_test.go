package submission_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-surveygen/pkg/submission"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

func openSink(t *testing.T) *submission.SQLiteSink {
	t.Helper()

	sink, err := submission.OpenSQLite(filepath.Join(t.TempDir(), "answers.db"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	t.Cleanup(func() {
		if err := sink.Close(); err != nil {
			t.Errorf("close sink: %v", err)
		}
	})
	return sink
}

func TestSQLiteSink_StoreAndList(t *testing.T) {
	ctx := context.Background()
	sink := openSink(t)

	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := submission.NewPayload("coffee", "s-1", validation.Values{
		"color": "green",
		"score": 4.0,
		"tags":  []any{"a", "b"},
	}, started, started.Add(90*time.Second))
	first.ID = "p-1"
	second := submission.NewPayload("coffee", "s-2", validation.Values{"color": "red"}, started, started.Add(2*time.Minute))
	other := submission.NewPayload("tea", "s-3", validation.Values{"kind": "green"}, started, started.Add(time.Minute))

	for _, p := range []submission.Payload{first, second, other} {
		if err := sink.Store(ctx, p); err != nil {
			t.Fatalf("store: %v", err)
		}
	}

	got, err := sink.List(ctx, "coffee")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(got))
	}
	if got[1].ID == "" {
		t.Fatalf("expected generated id")
	}
	second.ID = got[1].ID

	want := []submission.Payload{first, second}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if got[0].DurationSeconds != 90 {
		t.Fatalf("expected 90s duration, got %d", got[0].DurationSeconds)
	}
}

func TestSQLiteSink_RequiresSurveyID(t *testing.T) {
	sink := openSink(t)
	if err := sink.Store(context.Background(), submission.Payload{}); err == nil {
		t.Fatalf("expected error without survey id")
	}
	if _, err := submission.OpenSQLite(""); err == nil {
		t.Fatalf("expected error without path")
	}
	if _, err := submission.NewSQLiteSink(nil); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestNewPayload_ClampsDuration(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := submission.NewPayload("s", "", nil, now, now.Add(-time.Minute))
	if p.DurationSeconds != 0 {
		t.Fatalf("expected clamped duration, got %d", p.DurationSeconds)
	}

	var called bool
	sink := submission.SinkFunc(func(_ context.Context, got submission.Payload) error {
		called = got.SurveyID == "s"
		return nil
	})
	if err := sink.Store(context.Background(), p); err != nil || !called {
		t.Fatalf("expected sink func to receive payload, err=%v", err)
	}
}
