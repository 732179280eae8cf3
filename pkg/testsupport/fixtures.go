// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/session"
)

// LoadDocument reads a JSON or YAML survey fixture. The format follows the
// file extension.
func LoadDocument(t *testing.T, path string) element.Document {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	doc, err := element.Parse(data, element.DetectFormat(path))
	if err != nil {
		t.Fatalf("parse document %s: %v", path, err)
	}
	return doc
}

// MustParseDocument parses an inline JSON document.
func MustParseDocument(t *testing.T, raw string) element.Document {
	t.Helper()

	doc, err := element.ParseJSON([]byte(raw))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// NewSession builds a session over doc, failing the test on error.
func NewSession(t *testing.T, doc element.Document, opts ...session.Option) *session.Session {
	t.Helper()

	s, err := session.New(doc, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
