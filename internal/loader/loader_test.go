package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/element"
)

const remoteSurvey = `body:
  items:
    main:
      - role: surveyForm
        title: Remote
        children:
          - role: textInput
            name: email
            required: true
`

func newHTTPLoader() *Loader {
	return New(element.NewLoaderOptions(element.WithHTTPFallback(0)))
}

func fieldNames(doc element.Document) []string {
	var names []string
	doc.Walk(func(el *element.Element, _ string) bool {
		if el.IsField() {
			names = append(names, el.Name)
		}
		return true
	})
	return names
}

func TestLoader_LoadsYAMLOverHTTPIgnoringQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/survey.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(remoteSurvey))
	}))
	defer srv.Close()

	src, err := element.ParseURLSource(srv.URL + "/survey.yaml?rev=2")
	if err != nil {
		t.Fatalf("url source: %v", err)
	}
	doc, err := newHTTPLoader().Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"email"}, fieldNames(doc)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_RejectsOversizedRemoteDocuments(t *testing.T) {
	// A valid YAML document whose last field sits past the size cap.
	padding := "# " + strings.Repeat("x", 1022) + "\n"
	var body strings.Builder
	body.WriteString("body:\n  items:\n    main:\n      - role: surveyForm\n        children:\n")
	for body.Len() <= maxRemoteDocument {
		body.WriteString(padding)
	}
	body.WriteString("          - role: textInput\n            name: lastfield\n            required: true\n")
	payload := body.String()

	cases := map[string]http.HandlerFunc{
		"declared length": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
			_, _ = w.Write([]byte(payload))
		},
		"chunked": func(w http.ResponseWriter, _ *http.Request) {
			flusher := w.(http.Flusher)
			for chunk := range slicesOf(payload, 64<<10) {
				_, _ = w.Write([]byte(chunk))
				flusher.Flush()
			}
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			src, err := element.ParseURLSource(srv.URL + "/big.yaml")
			if err != nil {
				t.Fatalf("url source: %v", err)
			}
			_, err = newHTTPLoader().Load(context.Background(), src)
			if err == nil || !strings.Contains(err.Error(), "exceeds") {
				t.Fatalf("expected size error, got %v", err)
			}
		})
	}
}

func TestLoader_HTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	src, err := element.ParseURLSource(srv.URL + "/survey.json")
	if err != nil {
		t.Fatalf("url source: %v", err)
	}
	if _, err := newHTTPLoader().Load(context.Background(), src); err == nil || !strings.Contains(err.Error(), "410") {
		t.Fatalf("expected status error, got %v", err)
	}

	offline := New(element.NewLoaderOptions())
	if _, err := offline.Load(context.Background(), src); err == nil {
		t.Fatalf("expected http disabled error")
	}
}

func TestLoader_FSAndBytes(t *testing.T) {
	files := fstest.MapFS{"surveys/remote.yaml": {Data: []byte(remoteSurvey)}}
	l := New(element.NewLoaderOptions(element.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), element.SourceFromFS("surveys/remote.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"email"}, fieldNames(doc)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, err := l.Load(context.Background(), element.SourceFromBytes("inline.yaml", []byte(remoteSurvey))); err != nil {
		t.Fatalf("load bytes: %v", err)
	}
	if _, err := l.Load(context.Background(), element.SourceFromFS("missing.yaml")); err == nil {
		t.Fatalf("expected missing fs file error")
	}
	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected nil source error")
	}
}

func slicesOf(s string, size int) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for len(s) > 0 {
			n := min(size, len(s))
			if !yield(s[:n]) {
				return
			}
			s = s[n:]
		}
	}
}
