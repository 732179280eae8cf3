package form

import "github.com/goliatone/go-surveygen/pkg/validation"

// Snapshot is the serializable state of a form.
type Snapshot struct {
	Values validation.Values `json:"values"`
	Errors validation.Errors `json:"errors,omitempty"`
}

// Snapshot captures answers and issues.
func (f *Form) Snapshot() Snapshot {
	return Snapshot{Values: f.Values(), Errors: f.Errors()}
}

// Restore replaces the form state with snap. Answers for names the schema no
// longer defines are dropped; missing answers fall back to defaults.
func (f *Form) Restore(snap Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = f.defaults.Clone()
	for name, value := range snap.Values {
		def, ok := f.schema.Field(name)
		if !ok {
			continue
		}
		f.values[name] = validation.Normalize(def.Type, value)
	}
	f.errors = make(map[string]validation.Errors)
	for _, issue := range snap.Errors {
		f.errors[issue.Field] = append(f.errors[issue.Field], issue)
	}
}
