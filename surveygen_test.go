package surveygen_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	surveygen "github.com/goliatone/go-surveygen"
	"github.com/goliatone/go-surveygen/pkg/element"
)

func TestGenerateHTML(t *testing.T) {
	out, err := surveygen.GenerateHTML(context.Background(), element.SourceFromFile(filepath.Join("testdata", "feedback.yaml")))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "<title>Feedback</title>") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestNewLoader_FileSystem(t *testing.T) {
	loader := surveygen.NewLoader(element.WithFileSystem(os.DirFS("testdata")))
	doc, err := loader.Load(context.Background(), element.SourceFromFS("feedback.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.SurveyForm() == nil || doc.SurveyForm().Title != "Feedback" {
		t.Fatalf("unexpected document")
	}
}

func TestParseDocumentAndSession(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "feedback.yaml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc, err := surveygen.ParseDocument(raw, element.FormatYAML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, err := surveygen.NewSession(doc)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if got := s.Progress().Total; got != 2 {
		t.Fatalf("expected two fields, got %d", got)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(surveygen.EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
}
