package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"finitefield.org/media-web/internal/metrics"
)

const defaultReloadDebounce = 250 * time.Millisecond

// fileDocument is the on-disk layout of a catalog file.
type fileDocument struct {
	Movies []Record `yaml:"movies"`
}

// LoadFile reads and validates a YAML catalog file.
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(doc.Movies) == 0 {
		return nil, fmt.Errorf("%w: %s contains no movies", ErrInvalidRecord, path)
	}
	if err := Validate(doc.Movies); err != nil {
		return nil, err
	}
	return doc.Movies, nil
}

// FileOption customises a FileSource.
type FileOption func(*FileSource)

// WithLogger sets the logger used for reload events.
func WithLogger(logger *zap.Logger) FileOption {
	return func(s *FileSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebounce overrides how long the watcher waits for writes to settle before reloading.
func WithDebounce(d time.Duration) FileOption {
	return func(s *FileSource) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// FileSource publishes records from a YAML file and republishes them when the file changes.
// A failed reload keeps the last good snapshot.
type FileSource struct {
	path     string
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.RWMutex
	current Snapshot

	watcher   *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewFileSource loads path once and returns a source serving its records.
// Call Watch to follow later edits.
func NewFileSource(path string, opts ...FileOption) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s := &FileSource{
		path:     filepath.Clean(abs),
		logger:   zap.NewNop(),
		debounce: defaultReloadDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute catalog file path.
func (s *FileSource) Path() string { return s.path }

// Snapshot returns the latest published record set.
func (s *FileSource) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

// Reload re-reads the file and publishes a new snapshot with the next version.
func (s *FileSource) Reload() error {
	records, err := LoadFile(s.path)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, err := NewSnapshot(s.current.Version()+1, records)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		return err
	}
	s.current = snapshot
	metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()
	metrics.CatalogRecords.Set(float64(snapshot.Len()))
	s.logger.Info("catalog loaded",
		zap.String("path", s.path),
		zap.Uint64("version", snapshot.Version()),
		zap.Int("records", snapshot.Len()),
	)
	return nil
}

// Watch starts following the catalog file. The parent directory is watched so
// editors that replace the file on save are picked up.
func (s *FileSource) Watch() error {
	if s.watcher != nil {
		return errors.New("catalog: watcher already started")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("catalog: watch %s: %w", s.path, err)
	}
	s.watcher = watcher
	s.wg.Add(1)
	go s.watchLoop()
	s.logger.Info("catalog watcher started", zap.String("path", s.path))
	return nil
}

func (s *FileSource) watchLoop() {
	defer s.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("catalog reload failed; keeping previous records",
					zap.String("path", s.path),
					zap.Error(err),
				)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (s *FileSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.wg.Wait()
	})
	return err
}
