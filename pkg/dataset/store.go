// CLAUDE:SUMMARY Snapshot holder: publishes fully built Datasets through an atomic pointer, reloads on demand or when the source mtime changes.
package dataset

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Store owns the live Dataset. Queries read the current snapshot without
// locking; a reload builds a new Dataset aside and swaps the pointer.
type Store struct {
	src     SourceSpec
	current atomic.Pointer[Dataset]
	scanner *Scanner
	logger  *slog.Logger

	mu      sync.Mutex // serializes reloads
	modTime time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScanner makes Search use a parallel scanner.
func WithScanner(sc *Scanner) StoreOption {
	return func(s *Store) { s.scanner = sc }
}

// NewStore creates a store holding the empty dataset. Call Reload to load.
func NewStore(src SourceSpec, opts ...StoreOption) *Store {
	s := &Store{src: src.WithDefaults(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(Empty())
	return s
}

// OpenStore creates a store and performs the initial load. A failed load
// leaves the empty dataset in place; it is logged, not returned.
func OpenStore(src SourceSpec, opts ...StoreOption) *Store {
	s := NewStore(src, opts...)
	if err := s.Reload(); err != nil {
		s.logger.Error("initial dataset load failed, serving no data", "path", s.src.Path, "error", err)
	}
	return s
}

// Source returns the source the store loads from.
func (s *Store) Source() SourceSpec { return s.src }

// Current returns the live snapshot. It is never nil.
func (s *Store) Current() *Dataset { return s.current.Load() }

// Publish replaces the live snapshot.
func (s *Store) Publish(d *Dataset) {
	if d == nil {
		d = Empty()
	}
	s.current.Store(d)
}

// Reload loads the source again and publishes it. On failure the previous
// snapshot stays live and the error is returned.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Recorded even when the load fails so Watch does not retry a broken
	// file until it changes again.
	if fi, err := os.Stat(s.src.Path); err == nil {
		s.modTime = fi.ModTime()
	}

	start := time.Now()
	d, err := Load(s.src)
	if err != nil {
		return err
	}

	old := s.current.Swap(d)
	s.logger.Info("dataset loaded",
		"path", s.src.Path,
		"rows", d.Len(),
		"previous_rows", old.Len(),
		"skipped", d.Skipped(),
		"columns", d.Schema().Len(),
		"duration", time.Since(start),
	)
	return nil
}

// Search runs a query against the current snapshot.
func (s *Store) Search(term string) (*Result, error) {
	d := s.Current()
	if s.scanner != nil {
		return s.scanner.Search(d, term)
	}
	return d.Search(term)
}

// Watch polls the source modification time every interval and reloads when
// it changes, until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.changed() {
				continue
			}
			s.logger.Info("source changed, reloading dataset", "path", s.src.Path)
			if err := s.Reload(); err != nil {
				s.logger.Error("reload failed, keeping previous dataset", "path", s.src.Path, "error", err)
			}
		}
	}
}

func (s *Store) changed() bool {
	fi, err := os.Stat(s.src.Path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !fi.ModTime().Equal(s.modTime)
}
