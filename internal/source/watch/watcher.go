// Package watch rebuilds the index when the document directory changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
)

// DefaultDebounce coalesces bursts of file events into a single rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Reindexer rebuilds and republishes the index.
type Reindexer interface {
	Reindex(ctx context.Context) (ingest.Report, error)
}

// Filter reports whether a changed file is a document.
type Filter func(name string) bool

// Watcher triggers a debounced Reindex on document create, write, remove and
// rename events in one directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	filter   Filter
	target   Reindexer
	logger   *zap.Logger
}

// New creates a watcher. filter may be nil to accept every non-hidden file.
func New(dir string, debounce time.Duration, filter Filter, target Reindexer, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{dir: dir, debounce: debounce, filter: filter, target: target, logger: logger}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck // best effort on shutdown

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching source directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.logger.Debug("Source changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				timer.Reset(w.debounce)
			}
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(werr))
		case <-timer.C:
			if w.rebuild(ctx) {
				timer.Reset(w.debounce)
			}
		}
	}
}

// rebuild runs one Reindex and reports whether it should be retried.
func (w *Watcher) rebuild(ctx context.Context) bool {
	report, err := w.target.Reindex(ctx)
	switch {
	case errors.Is(err, domain.ErrReindexInProgress):
		return true
	case err != nil:
		w.logger.Error("Reindex after change failed", zap.Error(err))
	default:
		w.logger.Info("Reindexed after change",
			zap.Int("indexed", report.Indexed()),
			zap.Int("skipped", report.Skipped()),
		)
	}
	return false
}

// relevant reports whether ev can change the document set.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	return w.filter == nil || w.filter(ev.Name)
}
