package action_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/form"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

type fakeStepper struct {
	step  int
	moves int
}

func (s *fakeStepper) Next(context.Context) (bool, error) {
	s.step++
	s.moves++
	return true, nil
}

func (s *fakeStepper) Prev() bool {
	if s.step == 0 {
		return false
	}
	s.step--
	return true
}

func (s *fakeStepper) CurrentStep() int { return s.step }

func newFixture(t *testing.T, opts ...action.Option) (*action.Dispatcher, *form.Form, *fakeStepper, *bytes.Buffer) {
	t.Helper()
	tree := []*element.Element{
		{Role: element.RoleTextInput, Name: "email", Required: true},
		{Role: element.RoleMultipleChoice, Name: "tags"},
	}
	schema, err := validation.BuildSchema(tree)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	f := form.New(schema, validation.BuildDefaults(tree))
	stepper := &fakeStepper{}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	opts = append([]action.Option{action.WithLogger(logger)}, opts...)
	return action.NewDispatcher(f, stepper, opts...), f, stepper, &logs
}

func TestDispatch_UnknownActionIsNoop(t *testing.T) {
	d, f, stepper, logs := newFixture(t)
	_ = f.SetValue("email", "a@b.c")
	before := f.Snapshot()

	res := d.DispatchNamed(context.Background(), "openModal", "x")
	if res.Handled || res.Value != nil || res.Valid != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if diff := cmp.Diff(before, f.Snapshot()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
	if stepper.moves != 0 {
		t.Fatalf("stepper must not move")
	}
	if !strings.Contains(logs.String(), "openModal") {
		t.Fatalf("expected unknown action to be logged, got %q", logs.String())
	}
}

func TestDispatch_InvalidArgumentsAreNoop(t *testing.T) {
	d, f, _, logs := newFixture(t)
	res := d.DispatchNamed(context.Background(), element.HandlerSetError, "email")
	if res.Handled {
		t.Fatalf("expected invalid action to be unhandled")
	}
	if len(f.Errors()) != 0 {
		t.Fatalf("expected no errors recorded")
	}
	if !strings.Contains(logs.String(), "invalid arguments") {
		t.Fatalf("expected invalid action log, got %q", logs.String())
	}
}

func TestDispatch_FormActions(t *testing.T) {
	d, f, _, _ := newFixture(t)
	ctx := context.Background()

	d.Dispatch(ctx, element.SetValue{Name: "tags", Value: []string{"x"}})
	res := d.Dispatch(ctx, element.GetValue{Name: "tags"})
	if diff := cmp.Diff([]any{"x"}, res.Value); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	d.Dispatch(ctx, element.SetError{Name: "email", Message: "taken"})
	if got := f.FieldErrors("email"); len(got) != 1 || got[0].Message != "taken" {
		t.Fatalf("unexpected errors %+v", got)
	}
	d.Dispatch(ctx, element.ClearErrors{})
	if len(f.Errors()) != 0 {
		t.Fatalf("expected errors cleared")
	}

	res = d.Dispatch(ctx, element.Validate{Name: "email"})
	if res.Valid == nil || *res.Valid {
		t.Fatalf("expected email to be invalid, got %+v", res)
	}

	d.Dispatch(ctx, element.Reset{})
	if diff := cmp.Diff(validation.Values{"email": nil, "tags": []any{}}, f.Values()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_Navigation(t *testing.T) {
	d, _, stepper, _ := newFixture(t)
	ctx := context.Background()

	if res := d.Dispatch(ctx, element.GoPrevStep{}); res.Valid == nil || *res.Valid {
		t.Fatalf("prev on step 0 must not move")
	}
	d.Dispatch(ctx, element.GoNextStep{})
	if res := d.Dispatch(ctx, element.GetCurrentStep{}); res.Value != 1 {
		t.Fatalf("expected step 1, got %v", res.Value)
	}
	if stepper.step != 1 {
		t.Fatalf("stepper not advanced")
	}
}

func TestDispatch_SubmitFailureNotifiesFirstError(t *testing.T) {
	collector := &action.Collector{}
	called := false
	d, _, _, logs := newFixture(t,
		action.WithNotifier(collector),
		action.WithOnSubmit(func(context.Context, validation.Values) error {
			called = true
			return nil
		}),
	)

	res := d.Dispatch(context.Background(), element.Submit{})
	if res.Valid == nil || *res.Valid {
		t.Fatalf("expected invalid submit")
	}
	if called {
		t.Fatalf("callback must not run on invalid form")
	}
	want := []action.Notification{{Level: action.LevelError, Message: "This field is required"}}
	if diff := cmp.Diff(want, collector.Drain()); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if d.Status() != action.StatusError {
		t.Fatalf("expected error status, got %s", d.Status())
	}
	if !strings.Contains(logs.String(), "submit validation failed") {
		t.Fatalf("expected failure log, got %q", logs.String())
	}
}

func TestDispatch_SubmitSuccess(t *testing.T) {
	collector := &action.Collector{}
	var got validation.Values
	d, f, _, _ := newFixture(t,
		action.WithNotifier(collector),
		action.WithSubmitMessages("Thanks!", ""),
		action.WithOnSubmit(func(_ context.Context, answers validation.Values) error {
			got = answers
			return nil
		}),
	)
	_ = f.SetValue("email", "a@b.c")

	res := d.Dispatch(context.Background(), element.Submit{})
	if res.Valid == nil || !*res.Valid {
		t.Fatalf("expected valid submit")
	}
	if diff := cmp.Diff(validation.Values{"email": "a@b.c", "tags": []any{}}, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	want := []action.Notification{{Level: action.LevelSuccess, Message: "Thanks!"}}
	if diff := cmp.Diff(want, collector.Drain()); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if d.Status() != action.StatusSuccess {
		t.Fatalf("expected success status, got %s", d.Status())
	}
}

func TestDispatch_SubmitCallbackError(t *testing.T) {
	collector := &action.Collector{}
	d, f, _, _ := newFixture(t,
		action.WithNotifier(collector),
		action.WithOnSubmit(func(context.Context, validation.Values) error {
			return errors.New("store down")
		}),
	)
	_ = f.SetValue("email", "a@b.c")

	res := d.Dispatch(context.Background(), element.Submit{})
	if res.Valid == nil || *res.Valid {
		t.Fatalf("expected failed submit")
	}
	want := []action.Notification{{Level: action.LevelError, Message: action.DefaultFailureMessage}}
	if diff := cmp.Diff(want, collector.Drain()); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}
