package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/element"
)

// Transformer patches a document before a session is built from it.
// Implementations receive a private copy and may mutate it freely.
type Transformer interface {
	Transform(ctx context.Context, doc *element.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *element.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *element.Document) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are matched by name, elements by id:
//
//	{
//	  "fields": {
//	    "email": {"title": "Work email", "required": true}
//	  },
//	  "elements": {
//	    "intro": {"content": "Welcome back"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Fields   map[string]jsonElementPatch `json:"fields"`
	Elements map[string]jsonElementPatch `json:"elements"`
}

type jsonElementPatch struct {
	Title       string `json:"title"`
	Label       string `json:"label"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	ClassName   string `json:"className"`
	Required    *bool  `json:"required"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied document. A
// patch naming a field or element the document lacks is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *element.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	byName := make(map[string][]*element.Element)
	byID := make(map[string][]*element.Element)
	doc.Walk(func(el *element.Element, _ string) bool {
		if el.IsField() {
			byName[el.Name] = append(byName[el.Name], el)
		}
		if el.ID != "" {
			byID[el.ID] = append(byID[el.ID], el)
		}
		return true
	})

	for name, patch := range t.document.Fields {
		targets, ok := byName[name]
		if !ok {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		for _, el := range targets {
			applyPatch(el, patch)
		}
	}
	for id, patch := range t.document.Elements {
		targets, ok := byID[id]
		if !ok {
			return fmt.Errorf("json preset transformer: element %q not found", id)
		}
		for _, el := range targets {
			applyPatch(el, patch)
		}
	}
	return nil
}

func applyPatch(el *element.Element, patch jsonElementPatch) {
	if patch.Title != "" {
		el.Title = patch.Title
	}
	if patch.Label != "" {
		el.Label = patch.Label
	}
	if patch.Content != "" {
		el.Content = patch.Content
	}
	if patch.Description != "" {
		el.Description = patch.Description
	}
	if patch.Placeholder != "" {
		el.Placeholder = patch.Placeholder
	}
	if strings.TrimSpace(patch.ClassName) != "" {
		el.ClassName = strings.TrimSpace(el.ClassName + " " + patch.ClassName)
	}
	if patch.Required != nil {
		el.Required = *patch.Required
		if el.Validation != nil {
			rule := *el.Validation
			rule.Required = *patch.Required
			el.Validation = &rule
		}
	}
}

// CloneDocument deep-copies the element tree of doc. Validation rules and
// events are copied by pointer; patches replace them instead of mutating.
func CloneDocument(doc element.Document) element.Document {
	out := doc
	out.Body.Items = make(element.Groups, len(doc.Body.Items))
	for i, group := range doc.Body.Items {
		out.Body.Items[i] = element.Group{Name: group.Name, Elements: cloneElements(group.Elements)}
	}
	return out
}

func cloneElements(elements []*element.Element) []*element.Element {
	if elements == nil {
		return nil
	}
	out := make([]*element.Element, len(elements))
	for i, el := range elements {
		if el == nil {
			continue
		}
		clone := *el
		clone.Labels = append([]string(nil), el.Labels...)
		clone.Actions = append([]element.CompleteAction(nil), el.Actions...)
		clone.Children = cloneElements(el.Children)
		out[i] = &clone
	}
	return out
}
