package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/element"
)

var (
	// ErrInvalidRule marks a validation config that cannot be compiled.
	ErrInvalidRule = errors.New("validation: invalid rule")
	// ErrInvalidPattern marks a missing or unparsable pattern.
	ErrInvalidPattern = errors.New("validation: invalid pattern")
	// ErrDuplicateField marks two input elements sharing a name.
	ErrDuplicateField = errors.New("validation: duplicate field")
)

// FieldType is the answer type of a field.
type FieldType = element.ValueType

const (
	TypeString  = element.ValueString
	TypeNumber  = element.ValueNumber
	TypeArray   = element.ValueArray
	TypeBoolean = element.ValueBoolean
)

// FieldDefinition describes one form-bound element. It is derived from the
// tree and never authored directly.
type FieldDefinition struct {
	Name     string
	Type     FieldType
	Required bool
	// Rule is the authored validation block, nil when the element has none.
	Rule *element.Validation
	// Element is the source node.
	Element *element.Element
}

// TypeOf returns the field type implied by an input role.
func TypeOf(role element.Role) (FieldType, bool) {
	switch role {
	case element.RoleSingleChoice, element.RoleTextInput:
		return TypeString, true
	case element.RoleMultipleChoice:
		return TypeArray, true
	case element.RoleRating:
		return TypeNumber, true
	default:
		return "", false
	}
}

// CollectFields walks children depth-first and returns one definition per
// named input element. Input elements are not descended into; their children
// are options owned by the renderer.
func CollectFields(children []*element.Element) []FieldDefinition {
	var out []FieldDefinition
	var visit func(nodes []*element.Element)
	visit = func(nodes []*element.Element) {
		for _, node := range nodes {
			if node == nil {
				continue
			}
			if node.Role.IsInput() {
				if node.Name == "" {
					continue
				}
				fieldType, _ := TypeOf(node.Role)
				required := node.Required
				if node.Validation != nil && node.Validation.Required {
					required = true
				}
				out = append(out, FieldDefinition{
					Name:     node.Name,
					Type:     fieldType,
					Required: required,
					Rule:     node.Validation,
					Element:  node,
				})
				continue
			}
			if len(node.Children) > 0 {
				visit(node.Children)
			}
		}
	}
	visit(children)
	return out
}

// FieldNames returns the names of the definitions in order.
func FieldNames(defs []FieldDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, def := range defs {
		out = append(out, def.Name)
	}
	return out
}

// Check rejects malformed validation configs.
func (d FieldDefinition) Check() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: field name is required", ErrInvalidRule)
	}
	switch d.Type {
	case TypeString, TypeNumber, TypeArray, TypeBoolean:
	default:
		return fmt.Errorf("%w: field %q has unsupported type %q", ErrInvalidRule, d.Name, d.Type)
	}

	rule := d.Rule
	if rule == nil {
		return nil
	}
	if rule.Type != "" && rule.Type != d.Type {
		return fmt.Errorf("%w: field %q declares type %q but its element is %q", ErrInvalidRule, d.Name, rule.Type, d.Type)
	}

	if err := checkBounds(d.Name, "minLength", "maxLength", rule.MinLength, rule.MaxLength); err != nil {
		return err
	}
	if err := checkBounds(d.Name, "minSelect", "maxSelect", rule.MinSelect, rule.MaxSelect); err != nil {
		return err
	}
	if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
		return fmt.Errorf("%w: field %q has min %v greater than max %v", ErrInvalidRule, d.Name, *rule.Min, *rule.Max)
	}

	var misplaced []string
	if d.Type != TypeString {
		if rule.MinLength != nil || rule.MaxLength != nil {
			misplaced = append(misplaced, "minLength/maxLength")
		}
		if rule.Pattern != nil {
			misplaced = append(misplaced, "pattern")
		}
	}
	if d.Type != TypeArray && (rule.MinSelect != nil || rule.MaxSelect != nil) {
		misplaced = append(misplaced, "minSelect/maxSelect")
	}
	if d.Type != TypeNumber && (rule.Min != nil || rule.Max != nil) {
		misplaced = append(misplaced, "min/max")
	}
	if len(misplaced) > 0 {
		return fmt.Errorf("%w: field %q of type %s does not support %s", ErrInvalidRule, d.Name, d.Type, strings.Join(misplaced, ", "))
	}

	if rule.Pattern != nil {
		if _, err := compilePattern(*rule.Pattern); err != nil {
			return fmt.Errorf("field %q: %w", d.Name, err)
		}
	}
	return nil
}

func checkBounds(field, minKey, maxKey string, lo, hi *int) error {
	if lo != nil && *lo < 0 {
		return fmt.Errorf("%w: field %q has negative %s", ErrInvalidRule, field, minKey)
	}
	if hi != nil && *hi < 0 {
		return fmt.Errorf("%w: field %q has negative %s", ErrInvalidRule, field, maxKey)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%w: field %q has %s %d greater than %s %d", ErrInvalidRule, field, minKey, *lo, maxKey, *hi)
	}
	return nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: pattern is empty", ErrInvalidPattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}
