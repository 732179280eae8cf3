// Package catalog serves the survey documents found in a directory and keeps
// them current as files change.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	internalLoader "github.com/goliatone/go-surveygen/internal/loader"
	"github.com/goliatone/go-surveygen/pkg/element"
)

// ErrNotFound is returned when no document is registered under an id.
var ErrNotFound = errors.New("catalog: survey not found")

const defaultDebounce = 100 * time.Millisecond

// Entry is one loaded survey document. The id is the file name without its
// extension.
type Entry struct {
	ID       string
	Path     string
	Title    string
	Document element.Document
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLoader overrides the loader used to read documents.
func WithLoader(loader element.Loader) Option {
	return func(c *Catalog) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithLogger sets the logger used for skipped documents and watch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce sets how long Watch waits for a burst of file events to
// settle before reloading. Zero reloads on every event.
func WithDebounce(d time.Duration) Option {
	return func(c *Catalog) {
		c.debounce = d
	}
}

// WithOnReload registers a callback invoked after every reload triggered by
// Watch.
func WithOnReload(fn func()) Option {
	return func(c *Catalog) {
		c.onReload = fn
	}
}

// Catalog holds the documents of one directory. It is safe for concurrent
// use.
type Catalog struct {
	dir      string
	loader   element.Loader
	logger   *slog.Logger
	debounce time.Duration
	onReload func()

	mu      sync.RWMutex
	entries map[string]Entry
}

// New loads every *.json, *.yaml and *.yml document in dir. Documents that
// fail to parse are logged and skipped.
func New(ctx context.Context, dir string, options ...Option) (*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("catalog: directory is required")
	}
	c := &Catalog{
		dir:      dir,
		logger:   slog.Default(),
		debounce: defaultDebounce,
		entries:  map[string]Entry{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.loader == nil {
		c.loader = internalLoader.New(element.NewLoaderOptions())
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir reports the watched directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Reload rescans the directory and atomically replaces the loaded set.
func (c *Catalog) Reload(ctx context.Context) error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", c.dir, err)
	}

	entries := make(map[string]Entry, len(files))
	for _, file := range files {
		if file.IsDir() || !isDocument(file.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(c.dir, file.Name())
		id := documentID(file.Name())
		if prev, ok := entries[id]; ok {
			c.logger.Warn("catalog: duplicate survey id", "id", id, "path", path, "kept", prev.Path)
			continue
		}
		doc, err := c.loader.Load(ctx, element.SourceFromFile(path))
		if err != nil {
			c.logger.Warn("catalog: skip document", "path", path, "error", err)
			continue
		}
		entries[id] = Entry{ID: id, Path: path, Title: titleOf(doc, id), Document: doc}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Debug("catalog: loaded", "dir", c.dir, "surveys", len(entries))
	return nil
}

// Get returns the document registered under id.
func (c *Catalog) Get(id string) (element.Document, error) {
	entry, err := c.Entry(id)
	if err != nil {
		return element.Document{}, err
	}
	return entry.Document, nil
}

// Entry returns the entry registered under id.
func (c *Catalog) Entry(id string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return entry, nil
}

// List returns every entry sorted by id.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the registered ids in sorted order.
func (c *Catalog) IDs() []string {
	entries := c.List()
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}

// Watch reloads the catalog whenever a document in the directory is created,
// written, removed or renamed. It blocks until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watcher: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()
	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", c.dir, err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isDocument(ev.Name) || ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if c.debounce <= 0 {
				c.reloadFromWatch(ctx)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				timer.Reset(c.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			c.reloadFromWatch(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("catalog: watch error", "error", err)
		}
	}
}

func (c *Catalog) reloadFromWatch(ctx context.Context) {
	if err := c.Reload(ctx); err != nil {
		c.logger.Error("catalog: reload failed", "error", err)
		return
	}
	c.logger.Info("catalog: reloaded", "surveys", len(c.IDs()))
	if c.onReload != nil {
		c.onReload()
	}
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return !strings.HasPrefix(filepath.Base(name), ".")
	default:
		return false
	}
}

func documentID(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func titleOf(doc element.Document, fallback string) string {
	if survey := doc.SurveyForm(); survey != nil {
		if title := strings.TrimSpace(survey.Title); title != "" {
			return title
		}
	}
	return fallback
}
