package render

import "github.com/goliatone/go-surveygen/pkg/element"

// Handler renders one element. For self-rendering roles children is nil and
// the handler reads el.Children itself; for every other role children holds
// the already rendered child outputs in order.
type Handler[T any] func(c *Context[T], el *element.Element, children []T) (T, error)

// Table maps each role of the closed set to a handler. A nil entry resolves
// to Container; Fallback handles roles outside the set and also defaults to
// Container.
type Table[T any] struct {
	Container      Handler[T]
	Text           Handler[T]
	ProgressBar    Handler[T]
	StepIndicator  Handler[T]
	SurveyForm     Handler[T]
	Form           Handler[T]
	SingleChoice   Handler[T]
	MultipleChoice Handler[T]
	TextInput      Handler[T]
	Rating         Handler[T]
	Option         Handler[T]
	Button         Handler[T]
	PrevButton     Handler[T]
	NextButton     Handler[T]
	SubmitButton   Handler[T]
	CompletePage   Handler[T]

	Fallback Handler[T]
}

// Resolve returns the handler of role.
func (t Table[T]) Resolve(role element.Role) Handler[T] {
	if h := t.lookup(role); h != nil {
		return h
	}
	if !role.Known() && t.Fallback != nil {
		return t.Fallback
	}
	return t.Container
}

func (t Table[T]) lookup(role element.Role) Handler[T] {
	switch role {
	case element.RoleContainer:
		return t.Container
	case element.RoleText:
		return t.Text
	case element.RoleProgressBar:
		return t.ProgressBar
	case element.RoleStepIndicator:
		return t.StepIndicator
	case element.RoleSurveyForm:
		return t.SurveyForm
	case element.RoleForm:
		return t.Form
	case element.RoleSingleChoice:
		return t.SingleChoice
	case element.RoleMultipleChoice:
		return t.MultipleChoice
	case element.RoleTextInput:
		return t.TextInput
	case element.RoleRating:
		return t.Rating
	case element.RoleOption:
		return t.Option
	case element.RoleButton:
		return t.Button
	case element.RolePrevButton:
		return t.PrevButton
	case element.RoleNextButton:
		return t.NextButton
	case element.RoleSubmitButton:
		return t.SubmitButton
	case element.RoleCompletePage:
		return t.CompletePage
	default:
		return nil
	}
}

// Missing lists the known roles without a dedicated handler.
func (t Table[T]) Missing() []element.Role {
	var out []element.Role
	for _, role := range element.Roles() {
		if t.lookup(role) == nil {
			out = append(out, role)
		}
	}
	return out
}
