package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/i18n"
)

// Values maps field names to answers. Strings answer single choice and text
// fields, []any of strings answer multiple choice, numbers answer ratings,
// nil means unanswered.
type Values map[string]any

// Clone returns a shallow copy with array answers copied.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		if arr, ok := value.([]any); ok {
			value = append([]any{}, arr...)
		}
		out[key] = value
	}
	return out
}

// Option configures Compile.
type Option func(*messages)

// WithTranslator localizes default rule messages.
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(m *messages) {
		m.translator = t
		m.locale = locale
	}
}

// WithMissingTranslationHandler customizes missing message behaviour.
func WithMissingTranslationHandler(fn i18n.MissingTranslationHandler) Option {
	return func(m *messages) {
		m.onMissing = fn
	}
}

// WithMessages overrides built-in message formats by rule key.
func WithMessages(formats map[string]string) Option {
	return func(m *messages) {
		if len(formats) == 0 {
			return
		}
		if m.overrides == nil {
			m.overrides = make(map[string]string, len(formats))
		}
		for key, value := range formats {
			m.overrides[key] = value
		}
	}
}

// Schema is the compiled rule set of a form.
type Schema struct {
	fields []*compiledField
	index  map[string]*compiledField
}

type compiledField struct {
	def      FieldDefinition
	pattern  *regexp.Regexp
	messages messages
}

// BuildSchema collects fields from children and compiles them.
func BuildSchema(children []*element.Element, opts ...Option) (*Schema, error) {
	return Compile(CollectFields(children), opts...)
}

// Compile checks every definition and composes its validators. Configuration
// errors fail here, never during validation.
func Compile(defs []FieldDefinition, opts ...Option) (*Schema, error) {
	var msgs messages
	for _, opt := range opts {
		if opt != nil {
			opt(&msgs)
		}
	}

	schema := &Schema{
		fields: make([]*compiledField, 0, len(defs)),
		index:  make(map[string]*compiledField, len(defs)),
	}
	for _, def := range defs {
		if err := def.Check(); err != nil {
			return nil, err
		}
		if _, exists := schema.index[def.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, def.Name)
		}
		field := &compiledField{def: def, messages: msgs}
		if def.Rule != nil && def.Rule.Pattern != nil {
			re, err := compilePattern(*def.Rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", def.Name, err)
			}
			field.pattern = re
		}
		schema.fields = append(schema.fields, field)
		schema.index[def.Name] = field
	}
	return schema, nil
}

// Fields returns the compiled definitions in tree order.
func (s *Schema) Fields() []FieldDefinition {
	if s == nil {
		return nil
	}
	out := make([]FieldDefinition, 0, len(s.fields))
	for _, field := range s.fields {
		out = append(out, field.def)
	}
	return out
}

// Field returns the definition of name.
func (s *Schema) Field(name string) (FieldDefinition, bool) {
	if s == nil {
		return FieldDefinition{}, false
	}
	field, ok := s.index[name]
	if !ok {
		return FieldDefinition{}, false
	}
	return field.def, true
}

// Names returns every field name in tree order.
func (s *Schema) Names() []string {
	return FieldNames(s.Fields())
}

// Validate runs the rules of the named fields, or of every field when names
// is empty. Unknown names are ignored.
func (s *Schema) Validate(values Values, names ...string) Errors {
	if s == nil {
		return nil
	}
	targets := s.fields
	if len(names) > 0 {
		wanted := make(map[string]struct{}, len(names))
		for _, name := range names {
			wanted[name] = struct{}{}
		}
		targets = targets[:0:0]
		for _, field := range s.fields {
			if _, ok := wanted[field.def.Name]; ok {
				targets = append(targets, field)
			}
		}
	}

	var out Errors
	for _, field := range targets {
		out = append(out, field.validate(values[field.def.Name])...)
	}
	return out
}

// ValidateField runs the rules of a single field.
func (s *Schema) ValidateField(name string, value any) Errors {
	if s == nil {
		return nil
	}
	field, ok := s.index[name]
	if !ok {
		return nil
	}
	return field.validate(value)
}

// validate composes the checks in a fixed order: type constraints on
// present values, widening to optional/nullable, the required refinement,
// then the pattern refinement.
func (f *compiledField) validate(value any) Errors {
	var issues Errors
	add := func(rule string, arg any) {
		issues = append(issues, Issue{
			Field:   f.def.Name,
			Rule:    rule,
			Message: f.messages.format(rule, f.override(rule), arg),
		})
	}

	if value != nil {
		if !matchesType(f.def.Type, value) {
			add(RuleType, string(f.def.Type))
			return issues
		}
		f.constraints(value, add)
	}

	if f.def.Required && IsEmpty(value) {
		add(RuleRequired, nil)
	}

	if f.pattern != nil {
		if s, ok := value.(string); ok && s != "" && !f.pattern.MatchString(s) {
			add(RulePattern, nil)
		}
	}
	return issues
}

func (f *compiledField) override(rule string) string {
	if f.def.Rule == nil {
		return ""
	}
	return f.def.Rule.ErrorMessages.Lookup(rule)
}

func (f *compiledField) constraints(value any, add func(string, any)) {
	rule := f.def.Rule
	if rule == nil {
		return
	}
	switch f.def.Type {
	case TypeString:
		length := len([]rune(value.(string)))
		if rule.MinLength != nil && length < *rule.MinLength {
			add(RuleMinLength, *rule.MinLength)
		}
		if rule.MaxLength != nil && length > *rule.MaxLength {
			add(RuleMaxLength, *rule.MaxLength)
		}
	case TypeArray:
		count, _ := arrayLen(value)
		if rule.MinSelect != nil && count < *rule.MinSelect {
			add(RuleMinSelect, *rule.MinSelect)
		}
		if rule.MaxSelect != nil && count > *rule.MaxSelect {
			add(RuleMaxSelect, *rule.MaxSelect)
		}
	case TypeNumber:
		n, _ := NumberOf(value)
		if rule.Min != nil && n < *rule.Min {
			add(RuleMin, formatNumber(*rule.Min))
		}
		if rule.Max != nil && n > *rule.Max {
			add(RuleMax, formatNumber(*rule.Max))
		}
	}
}

// IsEmpty reports whether a value counts as unanswered: nil, a blank
// string or an empty array.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}
