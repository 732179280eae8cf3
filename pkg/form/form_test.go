package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/form"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

func newForm(t *testing.T) *form.Form {
	t.Helper()
	minLen := 2
	tree := []*element.Element{
		{Role: element.RoleTextInput, Name: "name", Required: true, Validation: &element.Validation{MinLength: &minLen}},
		{Role: element.RoleMultipleChoice, Name: "tags"},
		{Role: element.RoleRating, Name: "score"},
	}
	schema, err := validation.BuildSchema(tree)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return form.New(schema, validation.BuildDefaults(tree))
}

func TestForm_SetValueNormalizesAndRevalidates(t *testing.T) {
	f := newForm(t)

	if err := f.SetValue("tags", []string{"a", "b"}); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	if err := f.SetValue("score", 4); err != nil {
		t.Fatalf("set score: %v", err)
	}
	if err := f.SetValue("name", "x"); err != nil {
		t.Fatalf("set name: %v", err)
	}

	want := validation.Values{"name": "x", "tags": []any{"a", "b"}, "score": 4.0}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got := f.FieldErrors("name"); len(got) != 1 || got[0].Rule != validation.RuleMinLength {
		t.Fatalf("expected minLength issue, got %+v", got)
	}

	if err := f.SetValue("name", "xy"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if got := f.FieldErrors("name"); len(got) != 0 {
		t.Fatalf("expected issues cleared, got %+v", got)
	}
}

func TestForm_SetValueUnknownField(t *testing.T) {
	f := newForm(t)
	if err := f.SetValue("missing", "x"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestForm_ValidateSubsetKeepsOtherErrors(t *testing.T) {
	f := newForm(t)
	f.SetError("score", "bad score")

	if f.Validate("name") {
		t.Fatalf("expected name to fail")
	}
	if diff := cmp.Diff([]string{"name", "score"}, f.Errors().Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if f.Validate() {
		t.Fatalf("expected whole form to fail")
	}
	// full validation replaces the manual score issue
	if diff := cmp.Diff([]string{"name"}, f.Errors().Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_ErrorsOrderOutsideSchema(t *testing.T) {
	f := newForm(t)
	f.SetError("zeta", "z")
	f.SetError("captcha", "expired")
	f.SetError("score", "bad score")
	f.SetError("alpha", "a")

	want := []string{"score", "alpha", "captcha", "zeta"}
	for range 20 {
		if diff := cmp.Diff(want, f.Errors().Fields()); diff != "" {
			t.Fatalf("fields mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestForm_ResetAndClear(t *testing.T) {
	f := newForm(t)
	_ = f.SetValue("name", "y")
	f.SetError("name", "taken")
	f.ClearErrors("name")
	if len(f.Errors()) != 0 {
		t.Fatalf("expected no errors after clear")
	}

	f.SetError("tags", "nope")
	f.Reset()
	want := validation.Values{"name": nil, "tags": []any{}, "score": nil}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(f.Errors()) != 0 {
		t.Fatalf("expected reset to clear errors")
	}
}

func TestForm_Answered(t *testing.T) {
	f := newForm(t)
	if f.Answered("tags") {
		t.Fatalf("empty array must count as unanswered")
	}
	_ = f.SetValue("name", "  ")
	if f.Answered("name") {
		t.Fatalf("blank string must count as unanswered")
	}
	_ = f.SetValue("score", 3)
	if !f.Answered("score") {
		t.Fatalf("expected score answered")
	}
}

func TestForm_SnapshotRestore(t *testing.T) {
	f := newForm(t)
	_ = f.SetValue("name", "ada")
	_ = f.SetValue("tags", []string{"go"})
	f.SetError("score", "later")
	snap := f.Snapshot()

	other := newForm(t)
	snap.Values["ghost"] = "dropped"
	other.Restore(snap)

	want := validation.Values{"name": "ada", "tags": []any{"go"}, "score": nil}
	if diff := cmp.Diff(want, other.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got := other.FieldErrors("score"); len(got) != 1 || got[0].Message != "later" {
		t.Fatalf("expected restored issue, got %+v", got)
	}
}
