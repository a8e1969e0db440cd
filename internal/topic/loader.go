package topic

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
)

// extensions are tried in order when resolving a topic name.
var extensions = []string{".yaml", ".yml"}

// Loader resolves topic names to files and compiles them into Modules.
type Loader struct {
	sources []fs.FS
	version string
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDir adds a directory on disk as a topic source. Sources are searched
// in the order they were added.
func WithDir(dir string) LoaderOption {
	return func(l *Loader) {
		if dir != "" {
			l.sources = append(l.sources, os.DirFS(dir))
		}
	}
}

// WithFS adds an fs.FS (for example the embedded sample topics) as a source.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.sources = append(l.sources, fsys)
		}
	}
}

// WithVersion sets the running drillz version used for `requires` checks.
func WithVersion(v string) LoaderOption {
	return func(l *Loader) { l.version = v }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		version: DevVersion,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves name and compiles the topic. It returns ErrNoTopic for an
// empty name, *NotFoundError when no source has the file, and
// *MalformedError when the file violates the topic contract.
func (l *Loader) Load(ctx context.Context, name string) (*Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNoTopic
	}
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return nil, &NotFoundError{Name: name, Err: errors.New("invalid topic name")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, file, err := l.read(name)
	if err != nil {
		l.logger.Warn("topic not found", "topic", name, "error", err)
		return nil, &NotFoundError{Name: name, Err: err}
	}

	m, err := parseTopic(name, data, l.version)
	if err != nil {
		l.logger.Warn("topic malformed", "topic", name, "file", file, "error", err)
		return nil, &MalformedError{Name: name, Err: err}
	}

	l.logger.Info("topic loaded", "topic", name, "file", file, "tasks", len(m.Tasks))
	return m, nil
}

func (l *Loader) read(name string) ([]byte, string, error) {
	for _, src := range l.sources {
		for _, ext := range extensions {
			file := name + ext
			data, err := fs.ReadFile(src, file)
			if err == nil {
				return data, file, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, file, fmt.Errorf("read %s: %w", file, err)
			}
		}
	}
	return nil, "", fs.ErrNotExist
}

// List returns the sorted names of all topics across sources.
func (l *Loader) List() ([]string, error) {
	seen := make(map[string]bool)
	for _, src := range l.sources {
		entries, err := fs.ReadDir(src, ".")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("list topics: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := path.Ext(e.Name())
			for _, known := range extensions {
				if ext == known {
					seen[strings.TrimSuffix(e.Name(), ext)] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
