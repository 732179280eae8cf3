package validation

import "github.com/goliatone/go-surveygen/pkg/element"

// BuildDefaults returns the initial answer of every field under children:
// an empty array for array fields and nil for everything else, so an
// untouched field stays distinguishable from one typed then cleared.
func BuildDefaults(children []*element.Element) Values {
	return DefaultsFor(CollectFields(children))
}

// DefaultsFor builds defaults from already collected definitions.
func DefaultsFor(defs []FieldDefinition) Values {
	out := make(Values, len(defs))
	for _, def := range defs {
		out[def.Name] = DefaultValue(def.Type)
	}
	return out
}

// DefaultValue returns the unanswered value of a field type.
func DefaultValue(t FieldType) any {
	if t == TypeArray {
		return []any{}
	}
	return nil
}
