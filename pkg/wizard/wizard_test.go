package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/wizard"
)

func stepNode(step int, fields ...string) *element.Element {
	node := &element.Element{Role: element.RoleContainer, FormStep: element.StepOf(step)}
	for _, name := range fields {
		node.Children = append(node.Children, &element.Element{Role: element.RoleTextInput, Name: name, Required: true})
	}
	return node
}

func actionsNode() *element.Element {
	return &element.Element{
		Role: element.RoleContainer,
		Children: []*element.Element{
			{Role: element.RolePrevButton, Label: "Back"},
			{Role: element.RoleNextButton, Label: "Continue"},
			{Role: element.RoleSubmitButton, Label: "Send"},
		},
	}
}

func threeStepForm() *element.Element {
	return &element.Element{
		Role:       element.RoleSurveyForm,
		TotalSteps: 3,
		Children: []*element.Element{
			stepNode(0, "a"),
			stepNode(1, "b"),
			stepNode(2, "c"),
			actionsNode(),
		},
	}
}

func labels(el *element.Element) []string {
	if el == nil {
		return nil
	}
	out := make([]string, 0, len(el.Children))
	for _, child := range el.Children {
		out = append(out, child.Label)
	}
	return out
}

func TestWizard_NavigatesWithinBounds(t *testing.T) {
	w, err := wizard.New(threeStepForm(), wizard.ValidatorFunc(func(...string) bool { return true }))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	ctx := context.Background()

	if w.Prev() {
		t.Fatalf("prev on step 0 must be a no-op")
	}
	if got := w.State(); got.CurrentStep != 0 || got.IsLastStep {
		t.Fatalf("unexpected initial state %+v", got)
	}

	for i := 0; i < 5; i++ {
		if _, err := w.Next(ctx); err != nil {
			t.Fatalf("next: %v", err)
		}
		state := w.State()
		if state.CurrentStep > 2 {
			t.Fatalf("advanced past the last step: %+v", state)
		}
		if state.IsLastStep != (state.CurrentStep == 2) {
			t.Fatalf("isLastStep mismatch at step %d", state.CurrentStep)
		}
	}

	want := wizard.State{CurrentStep: 2, CurrentFieldNames: []string{"c"}, IsLastStep: true}
	if diff := cmp.Diff(want, w.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestWizard_NextValidatesCurrentStepOnly(t *testing.T) {
	var seen [][]string
	valid := false
	w, err := wizard.New(threeStepForm(), wizard.ValidatorFunc(func(names ...string) bool {
		seen = append(seen, names)
		return valid
	}))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}

	moved, err := w.Next(context.Background())
	if err != nil || moved {
		t.Fatalf("expected to stay on invalid step, moved=%v err=%v", moved, err)
	}
	valid = true
	if moved, _ := w.Next(context.Background()); !moved {
		t.Fatalf("expected to advance")
	}

	if diff := cmp.Diff([][]string{{"a"}, {"a"}}, seen); diff != "" {
		t.Fatalf("validated fields mismatch (-want +got):\n%s", diff)
	}
}

func TestWizard_ContentOnlyStepAdvancesUnconditionally(t *testing.T) {
	form := &element.Element{
		Role:       element.RoleSurveyForm,
		TotalSteps: 2,
		Children: []*element.Element{
			{Role: element.RoleText, Content: "welcome", FormStep: element.StepOf(0)},
			stepNode(1, "b"),
			actionsNode(),
		},
	}
	w, err := wizard.New(form, wizard.ValidatorFunc(func(...string) bool {
		t.Fatalf("validator must not run for a step without fields")
		return false
	}))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	if moved, _ := w.Next(context.Background()); !moved {
		t.Fatalf("expected content-only step to advance")
	}
}

func TestWizard_VisibleActions(t *testing.T) {
	w, err := wizard.New(threeStepForm(), wizard.ValidatorFunc(func(...string) bool { return true }))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	ctx := context.Background()

	if diff := cmp.Diff([]string{"Continue"}, labels(w.VisibleActions())); diff != "" {
		t.Fatalf("step 0 actions mismatch (-want +got):\n%s", diff)
	}
	_, _ = w.Next(ctx)
	if diff := cmp.Diff([]string{"Back", "Continue"}, labels(w.VisibleActions())); diff != "" {
		t.Fatalf("step 1 actions mismatch (-want +got):\n%s", diff)
	}
	_, _ = w.Next(ctx)
	if diff := cmp.Diff([]string{"Back", "Send"}, labels(w.VisibleActions())); diff != "" {
		t.Fatalf("last step actions mismatch (-want +got):\n%s", diff)
	}
	if got := len(w.Layout().Actions.Children); got != 3 {
		t.Fatalf("actions node must not be mutated, has %d children", got)
	}
}

func TestWizard_ContentAndSteps(t *testing.T) {
	w, err := wizard.New(threeStepForm(), wizard.ValidatorFunc(func(...string) bool { return true }))
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	_, _ = w.Next(context.Background())

	content := w.Content()
	if len(content) != 1 || content[0].Children[0].Name != "b" {
		t.Fatalf("unexpected step content %+v", content)
	}
	want := []wizard.StepStatus{wizard.StepCompleted, wizard.StepCurrent, wizard.StepPending}
	if diff := cmp.Diff(want, w.Steps()); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestWizard_TeardownAndGoTo(t *testing.T) {
	w, err := wizard.New(threeStepForm(), nil)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	w.GoTo(9)
	if got := w.State(); got.CurrentStep != 2 || !got.IsLastStep {
		t.Fatalf("expected clamp to last step, got %+v", got)
	}

	w.Teardown()
	if diff := cmp.Diff(wizard.State{}, w.State()); diff != "" {
		t.Fatalf("teardown mismatch (-want +got):\n%s", diff)
	}
}

func TestWizard_Single(t *testing.T) {
	form := &element.Element{
		Role: element.RoleSurveyForm,
		Children: []*element.Element{
			{Role: element.RoleTextInput, Name: "a"},
			{Role: element.RoleRating, Name: "b"},
			{Role: element.RoleSubmitButton},
		},
	}
	w := wizard.Single(form, nil)
	state := w.State()
	if !state.IsLastStep || state.CurrentStep != 0 {
		t.Fatalf("unexpected single state %+v", state)
	}
	if diff := cmp.Diff([]string{"a", "b"}, state.CurrentFieldNames); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if len(w.Content()) != 3 || w.VisibleActions() != nil {
		t.Fatalf("single wizard renders every child and owns no actions node")
	}
	if moved, _ := w.Next(context.Background()); moved {
		t.Fatalf("single wizard never advances")
	}
}

func TestPartition_RejectsInvalidLayouts(t *testing.T) {
	cases := map[string]*element.Element{
		"untagged content": {Role: element.RoleSurveyForm, Children: []*element.Element{
			{Role: element.RoleText}, actionsNode(),
		}},
		"short actions": {Role: element.RoleSurveyForm, Children: []*element.Element{
			stepNode(0), {Role: element.RoleContainer, Children: []*element.Element{{Role: element.RoleNextButton}}},
		}},
		"gap": {Role: element.RoleSurveyForm, Children: []*element.Element{
			stepNode(0), stepNode(2), actionsNode(),
		}},
		"beyond totalSteps": {Role: element.RoleSurveyForm, TotalSteps: 2, Children: []*element.Element{
			stepNode(0), stepNode(1), stepNode(2), actionsNode(),
		}},
		"no content": {Role: element.RoleSurveyForm, Children: []*element.Element{actionsNode()}},
	}
	for name, form := range cases {
		if _, err := wizard.Partition(form); !errors.Is(err, wizard.ErrInvalidLayout) {
			t.Fatalf("%s: expected ErrInvalidLayout, got %v", name, err)
		}
	}
}
