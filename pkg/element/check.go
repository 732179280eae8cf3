package element

import "fmt"

// Severity grades a Problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is a structural issue found in a parsed document.
type Problem struct {
	Path     string   `json:"path"`
	ID       string   `json:"id,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %s", p.Severity, p.Path, p.Message)
}

// Check reports structural problems. Documents with problems still render:
// unknown roles degrade to containers, unnamed inputs are skipped and bad
// handlers are ignored at dispatch time. Check exists so tooling can surface
// those degradations before a document ships.
func Check(doc Document) []Problem {
	var (
		problems []Problem
		forms    int
	)
	add := func(el *Element, path string, sev Severity, format string, args ...any) {
		problems = append(problems, Problem{
			Path:     path,
			ID:       el.ID,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	var visit func(el *Element, path string, parent Role)
	visit = func(el *Element, path string, parent Role) {
		if el == nil {
			add(&Element{}, path, SeverityWarning, "null element is ignored")
			return
		}
		if !el.Role.Known() {
			add(el, path, SeverityWarning, "unknown role %q renders as container", el.Role)
		}
		if el.Role.IsInput() && el.Name == "" {
			add(el, path, SeverityError, "%s requires a name", el.Role)
		}
		if el.Role == RoleSurveyForm {
			forms++
			if forms > 1 {
				add(el, path, SeverityError, "only one surveyForm is allowed per document")
			}
		}
		if el.Role == RoleOption && parent != RoleSingleChoice && parent != RoleMultipleChoice {
			add(el, path, SeverityWarning, "option outside a choice element is ignored")
		}
		if (el.Role == RoleSingleChoice || el.Role == RoleMultipleChoice) && len(el.Options()) == 0 {
			add(el, path, SeverityWarning, "%s has no options", el.Role)
		}
		if el.FormStep != nil && *el.FormStep < 0 {
			add(el, path, SeverityError, "formStep must not be negative")
		}
		if el.Event != nil {
			checkAction(el, path+"/event", el.Event.Action, add)
		}
		for i, ca := range el.Actions {
			if ca.Action != nil {
				checkAction(el, fmt.Sprintf("%s/actions/%d", path, i), ca.Action, add)
			}
		}
		for i, child := range el.Children {
			visit(child, fmt.Sprintf("%s/children/%d", path, i), el.Role)
		}
	}

	for _, group := range doc.Body.Items {
		for i, el := range group.Elements {
			visit(el, fmt.Sprintf("/body/items/%s/%d", group.Name, i), "")
		}
	}
	if forms == 0 {
		problems = append(problems, Problem{
			Path:     "/body",
			Severity: SeverityWarning,
			Message:  "document has no surveyForm",
		})
	}
	return problems
}

func checkAction(el *Element, path string, act Action, add func(*Element, string, Severity, string, ...any)) {
	switch a := act.(type) {
	case Unknown:
		add(el, path, SeverityWarning, "unknown action %q is ignored", a.Name)
	case Invalid:
		add(el, path, SeverityError, "action %q: %v", a.Name, a.Err)
	}
}

// HasErrors reports whether any problem has error severity.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
