package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/goliatone/go-surveygen/pkg/element"
)

// maxRemoteDocument caps documents fetched over HTTP.
const maxRemoteDocument = 4 << 20

// Loader implements element.Loader by delegating to file, fs.FS, HTTP or
// in-memory strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ element.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options element.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load reads the source and parses it in the format implied by its location.
func (l *Loader) Load(ctx context.Context, src element.Source) (element.Document, error) {
	if src == nil {
		return element.Document{}, errors.New("loader: source is nil")
	}
	data, err := l.Read(ctx, src)
	if err != nil {
		return element.Document{}, err
	}
	doc, err := element.Parse(data, element.DetectFormat(src.Location()))
	if err != nil {
		return element.Document{}, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}
	return doc, nil
}

// Read returns the raw bytes behind a source.
func (l *Loader) Read(ctx context.Context, src element.Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind() {
	case element.SourceKindFile:
		return loadFile(src.Location())
	case element.SourceKindFS:
		return loadFromFS(l.fs, src.Location())
	case element.SourceKindURL:
		if !l.allowHTTP {
			return nil, errors.New("loader: http support disabled")
		}
		return loadHTTP(ctx, l.http, src.Location())
	case element.SourceKindBytes:
		bs, ok := src.(element.BytesSource)
		if !ok {
			return nil, errors.New("loader: bytes source has unexpected type")
		}
		return bs.Data, nil
	default:
		return nil, fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
}

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return data, nil
}

func loadFromFS(filesystem fs.FS, name string) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	data, err := fs.ReadFile(filesystem, name)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", name, err)
	}
	return data, nil
}

func loadHTTP(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("loader: fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxRemoteDocument {
		return nil, fmt.Errorf("loader: %s exceeds %d bytes", rawURL, maxRemoteDocument)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteDocument+1))
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", rawURL, err)
	}
	if len(data) > maxRemoteDocument {
		return nil, fmt.Errorf("loader: %s exceeds %d bytes", rawURL, maxRemoteDocument)
	}
	return data, nil
}
