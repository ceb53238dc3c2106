package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrUnavailable wraps every failure to obtain a snapshot: network errors,
// non-2xx responses, missing files and undecodable documents.
var ErrUnavailable = errors.New("snapshot unavailable")

// Source yields the published snapshot.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// maxSnapshotBytes bounds how much of a response or file is read. Inline
// base64 images make real snapshots large.
const maxSnapshotBytes = 256 << 20

// HTTPSource fetches data.json over HTTP on every call.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for url. A nil client uses http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	snap, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return snap, nil
}

// FileSource reads data.json from disk. Once Watch has been called the
// decoded snapshot is cached until the file changes.
type FileSource struct {
	path   string
	logger *zap.Logger

	mu       sync.RWMutex
	cached   *Snapshot
	gen      uint64 // bumped by Invalidate
	watching bool
	watcher  *fsnotify.Watcher

	afterRead func() // test hook, runs between the file read and the cache write
}

// NewFileSource creates a source for the file at path.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.RLock()
	if s.cached != nil {
		snap := s.cached
		s.mu.RUnlock()
		return snap, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.path, err)
	}
	if s.afterRead != nil {
		s.afterRead()
	}

	// A change noticed while reading means data may already be stale.
	s.mu.Lock()
	if s.watching && s.gen == gen {
		s.cached = snap
	}
	s.mu.Unlock()
	return snap, nil
}

// Watch starts caching and invalidates the cache whenever the file is
// written, created, renamed or removed. The directory is watched rather
// than the file so editors that replace the file atomically are noticed.
// Watching stops when ctx is done or Close is called.
func (s *FileSource) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	s.mu.Lock()
	s.watcher = w
	s.watching = true
	s.mu.Unlock()

	go s.run(ctx, w)
	return nil
}

func (s *FileSource) run(ctx context.Context, w *fsnotify.Watcher) {
	name := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			s.logger.Debug("snapshot file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			s.Invalidate()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("snapshot watcher error", zap.Error(err))
		}
	}
}

// Invalidate drops the cached snapshot.
func (s *FileSource) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}

// Close stops watching.
func (s *FileSource) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.watching = false
	s.cached = nil
	s.gen++
	s.mu.Unlock()
	if w != nil {
		return w.Close()
	}
	return nil
}
