package element

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind identifies where a document is read from.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindFS    SourceKind = "fs"
	SourceKindURL   SourceKind = "url"
	SourceKindBytes SourceKind = "bytes"
)

// Source identifies a survey document.
type Source interface {
	Kind() SourceKind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside the loader's
// fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// ParseURLSource validates raw as an absolute http(s) URL and returns a
// Source for it.
func ParseURLSource(raw string) (Source, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("element: empty URL source")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("element: invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("element: unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("element: URL %q has no host", raw)
	}
	return urlSource{raw: raw}, nil
}

// MustSourceFromURL is ParseURLSource for hard-coded URLs. It panics on
// invalid input.
func MustSourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err)
	}
	return src
}

// BytesSource carries an in-memory document.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) Location() string { return s.Name }
func (s BytesSource) Kind() SourceKind { return SourceKindBytes }

// SourceFromBytes wraps raw document bytes. The name only drives format
// detection ("survey.yaml" parses as YAML).
func SourceFromBytes(name string, data []byte) Source {
	return BytesSource{Name: name, Data: data}
}
