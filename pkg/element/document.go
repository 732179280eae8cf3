package element

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed survey document.
type Document struct {
	Body Body `json:"body" yaml:"body"`
}

// Body holds page level style plus the named element groups.
type Body struct {
	Style Style  `json:"style,omitempty" yaml:"style,omitempty"`
	Items Groups `json:"items,omitempty" yaml:"items,omitempty"`
}

// Group is one named entry of body.items.
type Group struct {
	Name     string
	Elements []*Element
}

// Groups keeps body.items in document order. JSON objects and YAML mappings
// are decoded key by key so "header" renders before "survey" when authored
// that way.
type Groups []Group

// Get returns the elements of the named group.
func (g Groups) Get(name string) ([]*Element, bool) {
	for _, group := range g {
		if group.Name == name {
			return group.Elements, true
		}
	}
	return nil, false
}

// Names returns the group names in order.
func (g Groups) Names() []string {
	out := make([]string, 0, len(g))
	for _, group := range g {
		out = append(out, group.Name)
	}
	return out
}

// UnmarshalJSON decodes an object while preserving key order.
func (g *Groups) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*g = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("element: decode items: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("element: items must be an object")
	}

	var out Groups
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("element: decode items: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("element: items key must be a string, got %T", tok)
		}
		var elements []*Element
		if err := dec.Decode(&elements); err != nil {
			return fmt.Errorf("element: decode items.%s: %w", key, err)
		}
		out = append(out, Group{Name: key, Elements: elements})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("element: decode items: %w", err)
	}

	*g = out
	return nil
}

// MarshalJSON encodes the groups as an object in order.
func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		elements := group.Elements
		if elements == nil {
			elements = []*Element{}
		}
		payload, err := json.Marshal(elements)
		if err != nil {
			return nil, err
		}
		buf.Write(payload)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a mapping node while preserving key order.
func (g *Groups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*g = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("element: items must be a mapping (line %d)", node.Line)
	}

	out := make(Groups, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var elements []*Element
		if err := valueNode.Decode(&elements); err != nil {
			return fmt.Errorf("element: decode items.%s: %w", keyNode.Value, err)
		}
		out = append(out, Group{Name: keyNode.Value, Elements: elements})
	}

	*g = out
	return nil
}

// MarshalYAML encodes the groups as an ordered mapping.
func (g Groups) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, group := range g {
		value := &yaml.Node{}
		if err := value.Encode(group.Elements); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: group.Name},
			value,
		)
	}
	return node, nil
}

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat infers the encoding from a file name or URL path, defaulting
// to JSON. Query strings and fragments of URLs are ignored.
func DetectFormat(name string) Format {
	if strings.Contains(name, "://") {
		if u, err := url.Parse(name); err == nil {
			name = u.Path
		}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a document in the given format and resolves its actions.
func Parse(data []byte, format Format) (Document, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatJSON, "":
		return ParseJSON(data)
	default:
		return Document{}, fmt.Errorf("element: unsupported format %q", format)
	}
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("element: parse json: %w", err)
	}
	doc.resolve()
	return doc, nil
}

// ParseYAML decodes a YAML document.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("element: parse yaml: %w", err)
	}
	doc.resolve()
	return doc, nil
}

// resolve normalizes roles and turns every event handler into an Action.
func (d *Document) resolve() {
	d.Walk(func(el *Element, _ string) bool {
		el.Role = normalizeRole(string(el.Role))
		if el.Event != nil {
			el.Event.Action = ResolveAction(el.Event.Handler, el.Event.Args)
		}
		for i := range el.Actions {
			if handler := strings.TrimSpace(el.Actions[i].OnClick); handler != "" {
				el.Actions[i].Action = ResolveAction(handler, nil)
			}
		}
		return true
	})
}

// Walk visits every element depth-first in document order. The callback
// receives a JSON-pointer-like path and returns false to skip the subtree.
func (d Document) Walk(fn func(el *Element, path string) bool) {
	for _, group := range d.Body.Items {
		for i, el := range group.Elements {
			walk(el, fmt.Sprintf("/body/items/%s/%d", group.Name, i), fn)
		}
	}
}

// WalkElements visits a list of elements depth-first.
func WalkElements(elements []*Element, fn func(el *Element, path string) bool) {
	for i, el := range elements {
		walk(el, fmt.Sprintf("/%d", i), fn)
	}
}

func walk(el *Element, path string, fn func(*Element, string) bool) {
	if el == nil {
		return
	}
	if !fn(el, path) {
		return
	}
	for i, child := range el.Children {
		walk(child, fmt.Sprintf("%s/children/%d", path, i), fn)
	}
}

// SurveyForm returns the first surveyForm element in document order.
func (d Document) SurveyForm() *Element {
	var found *Element
	d.Walk(func(el *Element, _ string) bool {
		if found != nil {
			return false
		}
		if el.Role == RoleSurveyForm {
			found = el
			return false
		}
		return true
	})
	return found
}

// Find returns the first element with the given id.
func (d Document) Find(id string) *Element {
	var found *Element
	d.Walk(func(el *Element, _ string) bool {
		if found != nil {
			return false
		}
		if el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}
