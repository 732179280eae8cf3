package element

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the reflected document meta-schema.
const SchemaID = "https://goliatone.github.io/go-surveygen/document.schema.json"

// JSONSchema reflects the document meta-schema (draft 2020-12) from the Go
// types. Groups and roles are patched in by hand because their wire shape
// differs from their Go representation.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		Mapper:                    mapSchemaType,
	}
	schema := r.Reflect(&Document{})
	// Element is only reachable through the hand-written Groups mapping.
	for name, def := range r.Reflect(&Element{}).Definitions {
		if _, ok := schema.Definitions[name]; !ok {
			schema.Definitions[name] = def
		}
	}
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Survey document"
	return schema
}

// JSONSchemaBytes returns the meta-schema encoded as indented JSON.
func JSONSchemaBytes() ([]byte, error) {
	return json.MarshalIndent(JSONSchema(), "", "  ")
}

var (
	groupsType = reflect.TypeOf(Groups{})
	roleType   = reflect.TypeOf(Role(""))
)

func mapSchemaType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case groupsType:
		return &jsonschema.Schema{
			Type: "object",
			AdditionalProperties: &jsonschema.Schema{
				Type:  "array",
				Items: &jsonschema.Schema{Ref: "#/$defs/Element"},
			},
		}
	case roleType:
		// Unknown roles are accepted and degrade to containers, so the
		// closed set is documented as examples rather than enforced.
		examples := make([]any, 0, len(knownRoles))
		for _, role := range knownRoles {
			examples = append(examples, string(role))
		}
		return &jsonschema.Schema{
			Type:      "string",
			MinLength: ptrUint64(1),
			Examples:  examples,
		}
	}
	return nil
}

func ptrUint64(v uint64) *uint64 {
	return &v
}
