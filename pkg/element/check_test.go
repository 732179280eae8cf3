package element_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-surveygen/pkg/element"
)

func TestCheck_ReportsStructuralProblems(t *testing.T) {
	raw := `{"body": {"items": {"survey": [
	  {"role": "surveyForm", "children": [
	    {"role": "textInput"},
	    {"role": "singleChoice", "name": "color"},
	    {"role": "carousel"},
	    {"role": "button", "event": {"type": "onClick", "handler": "navigate"}},
	    {"role": "button", "event": {"type": "onClick", "handler": "getValue"}}
	  ]},
	  {"role": "surveyForm"}
	]}}}`

	doc, err := element.ParseJSON([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	problems := element.Check(doc)

	expect := []struct {
		path     string
		severity element.Severity
		contains string
	}{
		{"/body/items/survey/0/children/0", element.SeverityError, "requires a name"},
		{"/body/items/survey/0/children/1", element.SeverityWarning, "no options"},
		{"/body/items/survey/0/children/2", element.SeverityWarning, "unknown role"},
		{"/body/items/survey/0/children/3/event", element.SeverityWarning, "unknown action"},
		{"/body/items/survey/0/children/4/event", element.SeverityError, "getValue"},
		{"/body/items/survey/1", element.SeverityError, "only one surveyForm"},
	}
	if len(problems) != len(expect) {
		t.Fatalf("expected %d problems, got %d: %v", len(expect), len(problems), problems)
	}
	for i, want := range expect {
		got := problems[i]
		if got.Path != want.path || got.Severity != want.severity || !strings.Contains(got.Message, want.contains) {
			t.Fatalf("problem %d mismatch: want %+v, got %+v", i, want, got)
		}
	}
	if !element.HasErrors(problems) {
		t.Fatalf("expected HasErrors to report true")
	}
}

func TestCheck_WarnsWithoutSurveyForm(t *testing.T) {
	doc, err := element.ParseJSON([]byte(`{"body": {"items": {"header": [{"role": "text", "content": "hi"}]}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	problems := element.Check(doc)
	if len(problems) != 1 || problems[0].Severity != element.SeverityWarning {
		t.Fatalf("expected a single warning, got %v", problems)
	}
	if element.HasErrors(problems) {
		t.Fatalf("warnings must not count as errors")
	}
}

func TestRole_Classification(t *testing.T) {
	if !element.RoleRating.IsInput() || !element.RoleRating.SelfRendering() {
		t.Fatalf("rating must be an input and self-rendering")
	}
	if element.RoleTextInput.SelfRendering() {
		t.Fatalf("textInput is not self-rendering")
	}
	if !element.RoleSurveyForm.SelfRendering() || element.RoleSurveyForm.IsInput() {
		t.Fatalf("surveyForm is self-rendering and not an input")
	}
	if element.Role("carousel").Known() {
		t.Fatalf("carousel must not be known")
	}
	if len(element.Roles()) != 16 {
		t.Fatalf("expected 16 roles, got %d", len(element.Roles()))
	}
}

func TestActionOf_ImplicitNavigation(t *testing.T) {
	act, ok := element.ActionOf(&element.Element{Role: element.RoleNextButton})
	if !ok {
		t.Fatalf("expected implicit action")
	}
	if _, isNext := act.(element.GoNextStep); !isNext {
		t.Fatalf("expected GoNextStep, got %#v", act)
	}
	if _, ok := element.ActionOf(&element.Element{Role: element.RoleText}); ok {
		t.Fatalf("text must not carry an action")
	}
}

func TestJSONSchema_DefinesElement(t *testing.T) {
	schema := element.JSONSchema()
	if schema.ID != element.SchemaID {
		t.Fatalf("unexpected schema id %q", schema.ID)
	}
	if _, ok := schema.Definitions["Element"]; !ok {
		t.Fatalf("expected Element definition")
	}
	if _, ok := schema.Definitions["Document"]; !ok {
		t.Fatalf("expected Document definition")
	}
}
