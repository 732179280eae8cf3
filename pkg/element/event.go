package element

import (
	"errors"
	"fmt"
	"strings"
)

// Event binds a DOM-style event kind to a named action. The handler and args
// are resolved into Action once, when the document is parsed.
type Event struct {
	Type    string `json:"type" yaml:"type" jsonschema:"example=onClick,example=onChange"`
	Handler string `json:"handler" yaml:"handler"`
	Args    []any  `json:"args,omitempty" yaml:"args,omitempty"`

	Action Action `json:"-" yaml:"-"`
}

// Handler names understood by the dispatcher.
const (
	HandlerSetValue       = "setValue"
	HandlerGetValue       = "getValue"
	HandlerSetError       = "setError"
	HandlerClearErrors    = "clearErrors"
	HandlerReset          = "reset"
	HandlerSubmit         = "submit"
	HandlerValidate       = "validate"
	HandlerGoPrevStep     = "goPrevStep"
	HandlerGoNextStep     = "goNextStep"
	HandlerGetCurrentStep = "getCurrentStep"
)

// ErrActionArgs reports a known handler referenced with unusable arguments.
var ErrActionArgs = errors.New("element: invalid action arguments")

// Action is the closed set of operations an event can trigger. Each variant
// carries its own typed payload.
type Action interface {
	Handler() string
	isAction()
}

type (
	// SetValue assigns Value to the field Name.
	SetValue struct {
		Name  string
		Value any
	}
	// GetValue reads the field Name.
	GetValue struct{ Name string }
	// SetError records a manual error on the field Name.
	SetError struct {
		Name    string
		Message string
	}
	// ClearErrors drops errors for Name, or for every field when Name is empty.
	ClearErrors struct{ Name string }
	// Reset restores default values and clears errors.
	Reset struct{}
	// Submit validates the whole form and reports the answers.
	Submit struct{}
	// Validate validates Name, or the whole form when Name is empty.
	Validate struct{ Name string }
	// GoPrevStep moves the wizard one step back.
	GoPrevStep struct{}
	// GoNextStep validates the current step and moves forward.
	GoNextStep struct{}
	// GetCurrentStep reads the wizard cursor.
	GetCurrentStep struct{}
	// Unknown is a handler name outside the vocabulary.
	Unknown struct {
		Name string
		Args []any
	}
	// Invalid is a known handler whose arguments could not be resolved.
	Invalid struct {
		Name string
		Args []any
		Err  error
	}
)

func (SetValue) Handler() string       { return HandlerSetValue }
func (GetValue) Handler() string       { return HandlerGetValue }
func (SetError) Handler() string       { return HandlerSetError }
func (ClearErrors) Handler() string    { return HandlerClearErrors }
func (Reset) Handler() string          { return HandlerReset }
func (Submit) Handler() string         { return HandlerSubmit }
func (Validate) Handler() string       { return HandlerValidate }
func (GoPrevStep) Handler() string     { return HandlerGoPrevStep }
func (GoNextStep) Handler() string     { return HandlerGoNextStep }
func (GetCurrentStep) Handler() string { return HandlerGetCurrentStep }
func (a Unknown) Handler() string      { return a.Name }
func (a Invalid) Handler() string      { return a.Name }

func (SetValue) isAction()       {}
func (GetValue) isAction()       {}
func (SetError) isAction()       {}
func (ClearErrors) isAction()    {}
func (Reset) isAction()          {}
func (Submit) isAction()         {}
func (Validate) isAction()       {}
func (GoPrevStep) isAction()     {}
func (GoNextStep) isAction()     {}
func (GetCurrentStep) isAction() {}
func (Unknown) isAction()        {}
func (Invalid) isAction()        {}

// ParseAction resolves a handler name and its raw arguments into an Action.
// Names outside the vocabulary resolve to Unknown without error. Known names
// with unusable arguments return ErrActionArgs.
func ParseAction(handler string, args []any) (Action, error) {
	name := strings.TrimSpace(handler)
	switch name {
	case HandlerSetValue:
		field, err := stringArg(name, args, 0, true)
		if err != nil {
			return nil, err
		}
		var value any
		if len(args) > 1 {
			value = args[1]
		}
		return SetValue{Name: field, Value: value}, nil
	case HandlerGetValue:
		field, err := stringArg(name, args, 0, true)
		if err != nil {
			return nil, err
		}
		return GetValue{Name: field}, nil
	case HandlerSetError:
		field, err := stringArg(name, args, 0, true)
		if err != nil {
			return nil, err
		}
		message, err := stringArg(name, args, 1, true)
		if err != nil {
			return nil, err
		}
		return SetError{Name: field, Message: message}, nil
	case HandlerClearErrors:
		field, err := stringArg(name, args, 0, false)
		if err != nil {
			return nil, err
		}
		return ClearErrors{Name: field}, nil
	case HandlerReset:
		return Reset{}, nil
	case HandlerSubmit:
		return Submit{}, nil
	case HandlerValidate:
		field, err := stringArg(name, args, 0, false)
		if err != nil {
			return nil, err
		}
		return Validate{Name: field}, nil
	case HandlerGoPrevStep:
		return GoPrevStep{}, nil
	case HandlerGoNextStep:
		return GoNextStep{}, nil
	case HandlerGetCurrentStep:
		return GetCurrentStep{}, nil
	default:
		return Unknown{Name: name, Args: args}, nil
	}
}

// ResolveAction is ParseAction folding argument errors into an Invalid
// variant so a bad reference never fails document parsing.
func ResolveAction(handler string, args []any) Action {
	act, err := ParseAction(handler, args)
	if err != nil {
		return Invalid{Name: strings.TrimSpace(handler), Args: args, Err: err}
	}
	return act
}

// ImplicitAction returns the action a navigation button triggers when it
// declares no event of its own.
func ImplicitAction(role Role) (Action, bool) {
	switch role {
	case RolePrevButton:
		return GoPrevStep{}, true
	case RoleNextButton:
		return GoNextStep{}, true
	case RoleSubmitButton:
		return Submit{}, true
	default:
		return nil, false
	}
}

// ActionOf returns the action an element triggers, if any.
func ActionOf(el *Element) (Action, bool) {
	if el == nil {
		return nil, false
	}
	if el.Event != nil {
		if el.Event.Action != nil {
			return el.Event.Action, true
		}
		return ResolveAction(el.Event.Handler, el.Event.Args), true
	}
	return ImplicitAction(el.Role)
}

func stringArg(handler string, args []any, idx int, required bool) (string, error) {
	if idx >= len(args) || args[idx] == nil {
		if required {
			return "", fmt.Errorf("%w: %s expects argument %d", ErrActionArgs, handler, idx+1)
		}
		return "", nil
	}
	value, ok := args[idx].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s argument %d must be a string, got %T", ErrActionArgs, handler, idx+1, args[idx])
	}
	value = strings.TrimSpace(value)
	if required && value == "" {
		return "", fmt.Errorf("%w: %s argument %d is empty", ErrActionArgs, handler, idx+1)
	}
	return value, nil
}
