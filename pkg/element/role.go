package element

import "strings"

// Role tags an Element with the renderer and semantics it selects.
type Role string

const (
	RoleContainer      Role = "container"
	RoleText           Role = "text"
	RoleProgressBar    Role = "progressBar"
	RoleStepIndicator  Role = "stepIndicator"
	RoleSurveyForm     Role = "surveyForm"
	RoleForm           Role = "form"
	RoleSingleChoice   Role = "singleChoice"
	RoleMultipleChoice Role = "multipleChoice"
	RoleTextInput      Role = "textInput"
	RoleRating         Role = "rating"
	RoleOption         Role = "option"
	RoleButton         Role = "button"
	RolePrevButton     Role = "prevButton"
	RoleNextButton     Role = "nextButton"
	RoleSubmitButton   Role = "submitButton"
	RoleCompletePage   Role = "completePage"
)

var knownRoles = []Role{
	RoleContainer,
	RoleText,
	RoleProgressBar,
	RoleStepIndicator,
	RoleSurveyForm,
	RoleForm,
	RoleSingleChoice,
	RoleMultipleChoice,
	RoleTextInput,
	RoleRating,
	RoleOption,
	RoleButton,
	RolePrevButton,
	RoleNextButton,
	RoleSubmitButton,
	RoleCompletePage,
}

// Roles returns the closed set of roles in declaration order.
func Roles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// Known reports whether the role belongs to the closed set.
func (r Role) Known() bool {
	for _, candidate := range knownRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsInput reports whether the role binds a form field.
func (r Role) IsInput() bool {
	switch r {
	case RoleSingleChoice, RoleMultipleChoice, RoleTextInput, RoleRating:
		return true
	default:
		return false
	}
}

// SelfRendering reports whether the role interprets its own children instead
// of receiving them pre-rendered by the walker.
func (r Role) SelfRendering() bool {
	switch r {
	case RoleSurveyForm, RoleSingleChoice, RoleMultipleChoice, RoleRating:
		return true
	default:
		return false
	}
}

// IsButton reports whether the role renders a clickable control.
func (r Role) IsButton() bool {
	switch r {
	case RoleButton, RolePrevButton, RoleNextButton, RoleSubmitButton:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

func normalizeRole(raw string) Role {
	return Role(strings.TrimSpace(raw))
}
