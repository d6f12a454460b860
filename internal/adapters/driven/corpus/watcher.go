// Package corpus watches the corpus directory for shard file changes.
package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Watcher triggers shard reloads when CSV files under the corpus
// directory change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func(ctx context.Context, filename string)
}

// NewWatcher creates a watcher over dir. onChange receives the base
// filename of every created or rewritten CSV file.
func NewWatcher(dir string, onChange func(ctx context.Context, filename string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{fsw: fsw, onChange: onChange}, nil
}

// Start consumes events until the context is cancelled or the watcher
// is closed. Call it on its own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	logger.Debug("Corpus watcher started")
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.EqualFold(filepath.Ext(name), ".csv") {
				continue
			}
			logger.Info("Corpus file changed: %s", name)
			w.onChange(ctx, name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Corpus watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
