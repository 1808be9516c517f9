package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/skeincare/internal/logger"
	"github.com/yildizm/skeincare/internal/store"
	"github.com/yildizm/skeincare/internal/updater"
)

// catalogWatcher turns file system events in the catalogs directory into
// catalogChangedMsg values for the event loop
type catalogWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	logger  *logger.Logger
}

// newCatalogWatcher watches dir for brand file changes. The directory must exist.
func newCatalogWatcher(dir string, log *logger.Logger) (*catalogWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalogs directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalogs path is not a directory: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log.DebugWithFields("watching catalogs", []logger.Field{logger.Path(dir)})
	return &catalogWatcher{watcher: watcher, dir: dir, logger: log}, nil
}

// next blocks until a brand file changes. It returns nil once the watcher is closed.
func (w *catalogWatcher) next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if brand, relevant := BrandEvent(event); relevant {
					return catalogChangedMsg{brand: brand}
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrorMsg{err: err}
			}
		}
	}
}

// Close stops the watcher
func (w *catalogWatcher) Close() {
	if err := w.watcher.Close(); err != nil {
		w.logger.WarnWithFields("failed to close watcher", []logger.Field{logger.Error(err)})
	}
}

// BrandEvent maps an event to the brand it touches. Chmod-only events and
// files that are not brand files are ignored.
func BrandEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	return store.BrandFromPath(event.Name)
}

// checkForUpdate runs one release check off the event loop
func checkForUpdate(checker *updater.Checker, current, skip string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := checker.Check(ctx, current, skip)
		return updateCheckedMsg{result: result, err: err}
	}
}
