package element

// Element is a node of the declarative survey document. Elements are treated
// as immutable once a document has been parsed: sessions, the walker and the
// validation compiler all read them without copying.
type Element struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" jsonschema:"description=HTML tag hint for text elements such as p or h2"`
	Role Role   `json:"role" yaml:"role"`

	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Content     string `json:"content,omitempty" yaml:"content,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`

	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Multiline   bool   `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Rows        int    `json:"rows,omitempty" yaml:"rows,omitempty"`

	MaxRating  int    `json:"maxRating,omitempty" yaml:"maxRating,omitempty"`
	LeftLabel  string `json:"leftLabel,omitempty" yaml:"leftLabel,omitempty"`
	RightLabel string `json:"rightLabel,omitempty" yaml:"rightLabel,omitempty"`

	ShowPercentage bool   `json:"showPercentage,omitempty" yaml:"showPercentage,omitempty"`
	ShowCount      bool   `json:"showCount,omitempty" yaml:"showCount,omitempty"`
	Sticky         string `json:"sticky,omitempty" yaml:"sticky,omitempty"`

	TotalSteps int      `json:"totalSteps,omitempty" yaml:"totalSteps,omitempty"`
	Labels     []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	FormStep   *int     `json:"formStep,omitempty" yaml:"formStep,omitempty"`

	LoadingLabel string           `json:"loadingLabel,omitempty" yaml:"loadingLabel,omitempty"`
	ButtonType   string           `json:"buttonType,omitempty" yaml:"buttonType,omitempty" jsonschema:"enum=submit,enum=reset,enum=button"`
	Message      string           `json:"message,omitempty" yaml:"message,omitempty"`
	Actions      []CompleteAction `json:"actions,omitempty" yaml:"actions,omitempty"`

	ClassName string `json:"className,omitempty" yaml:"className,omitempty"`
	Gap       string `json:"gap,omitempty" yaml:"gap,omitempty" jsonschema:"enum=sm,enum=md,enum=lg"`
	Style     Style  `json:"style,omitempty" yaml:"style,omitempty"`

	Event      *Event      `json:"event,omitempty" yaml:"event,omitempty"`
	Validation *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Children   []*Element  `json:"children,omitempty" yaml:"children,omitempty"`
}

// CompleteAction is a follow-up link or button shown on a complete page.
type CompleteAction struct {
	Label   string `json:"label" yaml:"label"`
	OnClick string `json:"onClick,omitempty" yaml:"onClick,omitempty"`
	Href    string `json:"href,omitempty" yaml:"href,omitempty"`
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty" jsonschema:"enum=primary,enum=secondary"`

	// Action is OnClick resolved at parse time.
	Action Action `json:"-" yaml:"-"`
}

// ValueType is the answer type a field validates against.
type ValueType string

const (
	ValueString  ValueType = "string"
	ValueNumber  ValueType = "number"
	ValueArray   ValueType = "array"
	ValueBoolean ValueType = "boolean"
)

// Validation is the authored rule attached to an input element.
type Validation struct {
	Type      ValueType `json:"type,omitempty" yaml:"type,omitempty" jsonschema:"enum=string,enum=number,enum=array,enum=boolean"`
	Required  bool      `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinSelect *int      `json:"minSelect,omitempty" yaml:"minSelect,omitempty"`
	MaxSelect *int      `json:"maxSelect,omitempty" yaml:"maxSelect,omitempty"`
	Min       *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   *string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	ErrorMessages ErrorMessages `json:"errorMessages,omitempty" yaml:"errorMessages,omitempty"`
}

// ErrorMessages overrides the default message of individual rules.
type ErrorMessages struct {
	Required  string `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength string `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength string `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinSelect string `json:"minSelect,omitempty" yaml:"minSelect,omitempty"`
	MaxSelect string `json:"maxSelect,omitempty" yaml:"maxSelect,omitempty"`
	Min       string `json:"min,omitempty" yaml:"min,omitempty"`
	Max       string `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Lookup returns the override for the given rule key.
func (m ErrorMessages) Lookup(rule string) string {
	switch rule {
	case "required":
		return m.Required
	case "minLength":
		return m.MinLength
	case "maxLength":
		return m.MaxLength
	case "minSelect":
		return m.MinSelect
	case "maxSelect":
		return m.MaxSelect
	case "min":
		return m.Min
	case "max":
		return m.Max
	case "pattern":
		return m.Pattern
	default:
		return ""
	}
}

// HasStep reports whether the element carries a formStep tag.
func (e *Element) HasStep() bool {
	return e != nil && e.FormStep != nil
}

// Step returns the formStep tag, or -1 when the element is untagged.
func (e *Element) Step() int {
	if !e.HasStep() {
		return -1
	}
	return *e.FormStep
}

// IsField reports whether the element binds a named form field.
func (e *Element) IsField() bool {
	return e != nil && e.Role.IsInput() && e.Name != ""
}

// WithChildren returns a shallow copy of the element carrying the given
// children. The receiver is left untouched.
func (e *Element) WithChildren(children []*Element) *Element {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Children = children
	return &clone
}

// Options returns the option children of a choice element in order.
func (e *Element) Options() []*Element {
	if e == nil {
		return nil
	}
	out := make([]*Element, 0, len(e.Children))
	for _, child := range e.Children {
		if child != nil && child.Role == RoleOption {
			out = append(out, child)
		}
	}
	return out
}

// OptionLabel returns the option label, falling back to its value.
func (e *Element) OptionLabel() string {
	if e == nil {
		return ""
	}
	if e.Label != "" {
		return e.Label
	}
	return e.Value
}

// StepOf returns a pointer to step for building documents in code.
func StepOf(step int) *int {
	return &step
}
