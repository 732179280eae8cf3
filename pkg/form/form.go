// Package form holds the answer and error state of one survey form. Values
// are normalized to the field type on write and every write re-validates the
// touched field, so errors always reflect the latest answers.
package form

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/goliatone/go-surveygen/pkg/validation"
)

// ErrUnknownField is returned when writing a name the schema does not define.
var ErrUnknownField = errors.New("form: unknown field")

// Form stores answers and validation issues for a compiled schema.
type Form struct {
	mu       sync.RWMutex
	schema   *validation.Schema
	defaults validation.Values
	values   validation.Values
	errors   map[string]validation.Errors
}

// New builds a form initialised with defaults.
func New(schema *validation.Schema, defaults validation.Values) *Form {
	f := &Form{
		schema:   schema,
		defaults: defaults.Clone(),
	}
	if f.defaults == nil {
		f.defaults = validation.DefaultsFor(schema.Fields())
	}
	f.values = f.defaults.Clone()
	f.errors = make(map[string]validation.Errors)
	return f
}

// Schema returns the compiled schema backing the form.
func (f *Form) Schema() *validation.Schema {
	return f.schema
}

// SetValue writes an answer and re-validates the field.
func (f *Form) SetValue(name string, value any) error {
	def, ok := f.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	value = validation.Normalize(def.Type, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	f.setIssues(name, f.schema.ValidateField(name, value))
	return nil
}

// Value returns the current answer for name.
func (f *Form) Value(name string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[name]
	return v, ok
}

// Values returns a copy of every answer.
func (f *Form) Values() validation.Values {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values.Clone()
}

// SetError records a manual issue on a field.
func (f *Form) SetError(name, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[name] = append(f.errors[name], validation.Issue{
		Field:   name,
		Rule:    validation.RuleManual,
		Message: message,
	})
}

// ClearErrors drops issues for the given fields, or all issues when no names
// are given.
func (f *Form) ClearErrors(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(names) == 0 {
		f.errors = make(map[string]validation.Errors)
		return
	}
	for _, name := range names {
		delete(f.errors, name)
	}
}

// Reset restores defaults and clears every issue.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = f.defaults.Clone()
	f.errors = make(map[string]validation.Errors)
}

// Validate runs the rules for names (every field when empty), replaces their
// recorded issues and reports whether they all passed.
func (f *Form) Validate(names ...string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	targets := names
	if len(targets) == 0 {
		targets = f.schema.Names()
	}
	issues := f.schema.Validate(f.values, targets...)
	for _, name := range targets {
		f.setIssues(name, issues.Field(name))
	}
	return issues.Empty()
}

// Errors returns every recorded issue in field order.
func (f *Form) Errors() validation.Errors {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out validation.Errors
	seen := make(map[string]struct{}, len(f.errors))
	for _, name := range f.schema.Names() {
		out = append(out, f.errors[name]...)
		seen[name] = struct{}{}
	}
	// manual errors may target names outside the schema; those follow in
	// name order
	for _, name := range slices.Sorted(maps.Keys(f.errors)) {
		if _, ok := seen[name]; !ok {
			out = append(out, f.errors[name]...)
		}
	}
	return out
}

// FieldErrors returns the issues recorded for name.
func (f *Form) FieldErrors(name string) validation.Errors {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append(validation.Errors(nil), f.errors[name]...)
}

// Answered reports whether a field holds a non-empty answer.
func (f *Form) Answered(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !validation.IsEmpty(f.values[name])
}

func (f *Form) setIssues(name string, issues validation.Errors) {
	if len(issues) == 0 {
		delete(f.errors, name)
		return
	}
	f.errors[name] = issues
}
