package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexanderramin/gantt/internal/repository"
)

// DefaultDebounce applies when a zero window is given.
const DefaultDebounce = 300 * time.Millisecond

// ChangeEvent describes the last filesystem event of a debounced burst.
type ChangeEvent struct {
	Path       string
	ChangeType string // create, write, remove, rename
}

// FileWatcher watches one file. It watches the parent directory so that
// editors which save by rename-and-replace are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(ChangeEvent)
}

func NewFileWatcher(path string, debounce time.Duration, onChange func(ChangeEvent)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run blocks until ctx is cancelled or the watcher fails.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	fire := make(chan struct{}, 1)
	var last ChangeEvent
	debouncer := NewDebouncer(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fire:
			if w.onChange != nil {
				w.onChange(last)
			}
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			change := opToChangeType(event.Op)
			if change == "" {
				continue
			}
			last = ChangeEvent{Path: event.Name, ChangeType: change}
			debouncer.Trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}

// WatchSource reloads src after every debounced change and hands the
// result to onLoad. Removal events are skipped; the file usually comes
// back with the next create. Load errors are passed on, not fatal.
func WatchSource(ctx context.Context, src repository.TaskSource, debounce time.Duration, logger *slog.Logger, onLoad func(*repository.Snapshot, error)) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w, err := NewFileWatcher(src.Path(), debounce, func(ev ChangeEvent) {
		if ev.ChangeType == "remove" {
			logger.Debug("task source removed", "path", ev.Path)
			return
		}
		snap, err := src.Load(ctx)
		if err != nil {
			logger.Warn("reloading task source failed", "path", ev.Path, "error", err)
		} else {
			logger.Info("task source reloaded", "path", ev.Path, "change", ev.ChangeType, "tasks", len(snap.Tasks))
		}
		onLoad(snap, err)
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
