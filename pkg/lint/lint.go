// Package lint reports problems in survey documents before they ship: shape
// errors against the document meta-schema, structural problems of the
// element tree, validation rules that fail to compile and multi-step
// layouts the wizard rejects.
package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/validation"
	"github.com/goliatone/go-surveygen/pkg/wizard"
)

// Severity grades an Issue.
type Severity = element.Severity

const (
	SeverityError   = element.SeverityError
	SeverityWarning = element.SeverityWarning
)

// Issue is one finding. Path is a JSON pointer into the document; Field is
// set when the issue concerns a named form field.
type Issue struct {
	Path     string   `json:"path"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("%s %s (%s): %s", i.Severity, i.Path, i.Field, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", i.Severity, i.Path, i.Message)
}

// Result is the outcome of linting one document. Valid is false when any
// issue has error severity; warnings alone keep a document valid.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

var (
	metaSchemaOnce sync.Once
	metaSchema     *jsonschema.Schema
	metaSchemaErr  error
)

func compiledMetaSchema() (*jsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		raw, err := element.JSONSchemaBytes()
		if err != nil {
			metaSchemaErr = fmt.Errorf("lint: encode meta-schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			metaSchemaErr = fmt.Errorf("lint: decode meta-schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(element.SchemaID, doc); err != nil {
			metaSchemaErr = fmt.Errorf("lint: add meta-schema: %w", err)
			return
		}
		metaSchema, metaSchemaErr = c.Compile(element.SchemaID)
		if metaSchemaErr != nil {
			metaSchemaErr = fmt.Errorf("lint: compile meta-schema: %w", metaSchemaErr)
		}
	})
	return metaSchema, metaSchemaErr
}

// Document lints raw in the given format. The returned error covers failures
// of the linter itself; problems of the document are reported as issues.
func Document(raw []byte, format element.Format) (Result, error) {
	schema, err := compiledMetaSchema()
	if err != nil {
		return Result{}, err
	}

	var issues []Issue
	inst, err := decodeInstance(raw, format)
	if err != nil {
		issues = append(issues, Issue{Path: "/", Message: err.Error(), Severity: SeverityError})
		return finish(issues), nil
	}
	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return Result{}, fmt.Errorf("lint: validate: %w", err)
		}
		issues = append(issues, schemaIssues(verr)...)
	}

	doc, err := element.Parse(raw, format)
	if err != nil {
		issues = append(issues, Issue{Path: "/", Message: err.Error(), Severity: SeverityError})
		return finish(issues), nil
	}
	issues = append(issues, Parsed(doc)...)
	return finish(issues), nil
}

// Parsed runs the checks that need a parsed document: tree structure, field
// rules and the wizard layout.
func Parsed(doc element.Document) []Issue {
	var issues []Issue
	for _, p := range element.Check(doc) {
		issues = append(issues, Issue{Path: p.Path, Message: p.Message, Severity: p.Severity})
	}

	paths := make(map[*element.Element]string)
	doc.Walk(func(el *element.Element, path string) bool {
		paths[el] = path
		return true
	})

	survey := doc.SurveyForm()
	if survey == nil {
		return issues
	}
	issues = append(issues, fieldIssues(survey.Children, paths)...)

	if survey.TotalSteps > 1 {
		if _, err := wizard.Partition(survey); err != nil {
			issues = append(issues, Issue{Path: paths[survey], Message: err.Error(), Severity: SeverityError})
		}
	}
	return issues
}

// fieldIssues compiles every field on its own so one bad rule does not hide
// the next.
func fieldIssues(children []*element.Element, paths map[*element.Element]string) []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	for _, def := range validation.CollectFields(children) {
		path := paths[def.Element]
		if seen[def.Name] {
			issues = append(issues, Issue{
				Path:     path,
				Field:    def.Name,
				Message:  fmt.Sprintf("%v: %q", validation.ErrDuplicateField, def.Name),
				Severity: SeverityError,
			})
			continue
		}
		seen[def.Name] = true
		if _, err := validation.Compile([]validation.FieldDefinition{def}); err != nil {
			issues = append(issues, Issue{Path: path, Field: def.Name, Message: err.Error(), Severity: SeverityError})
		}
	}
	return issues
}

func decodeInstance(raw []byte, format element.Format) (any, error) {
	if format == element.FormatYAML {
		var tree any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		encoded, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		raw = encoded
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return inst, nil
}

var printer = message.NewPrinter(language.English)

func schemaIssues(verr *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var visit func(e *jsonschema.ValidationError)
	visit = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				visit(cause)
			}
			return
		}
		issues = append(issues, Issue{
			Path:     "/" + strings.Join(e.InstanceLocation, "/"),
			Message:  e.ErrorKind.LocalizedString(printer),
			Severity: SeverityError,
		})
	}
	visit(verr)
	return issues
}

func finish(issues []Issue) Result {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	valid := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			valid = false
			break
		}
	}
	if issues == nil {
		issues = []Issue{}
	}
	return Result{Valid: valid, Issues: issues}
}
