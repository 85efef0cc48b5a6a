package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with each debounced change. A returned error is logged
// and watching continues.
type Handler func(ctx context.Context, event FileEvent) error

// FileWatcher watches a single file.
type FileWatcher struct {
	opts Options
}

// New creates a FileWatcher.
func New(opts Options) *FileWatcher {
	return &FileWatcher{opts: opts.WithDefaults()}
}

// Run watches path until ctx is done, calling handle for every debounced
// change. It returns nil on cancellation and an error only when watching
// cannot start.
func (w *FileWatcher) Run(ctx context.Context, path string, handle Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	if _, err := os.Stat(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	deb := NewDebouncer(w.opts.DebounceWindow)
	defer deb.Stop()

	source, err := w.startSource(ctx, abs, deb)
	if err != nil {
		return err
	}
	defer source.close()

	slog.Info("catalog_watch_started",
		slog.String("path", abs),
		slog.String("mode", source.mode))

	for {
		select {
		case <-ctx.Done():
			<-source.done
			return nil
		case batch, ok := <-deb.Output():
			if !ok {
				return nil
			}
			for _, ev := range batch {
				if err := handle(ctx, ev); err != nil {
					slog.Warn("catalog_watch_handler_failed",
						slog.String("path", ev.Path),
						slog.String("op", ev.Operation.String()),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}

// eventSource feeds a debouncer until closed or ctx is done.
type eventSource struct {
	mode  string
	done  chan struct{}
	close func()
}

func (w *FileWatcher) startSource(ctx context.Context, abs string, deb *Debouncer) (*eventSource, error) {
	if !w.opts.ForcePolling {
		src, err := startNotify(ctx, abs, deb)
		if err == nil {
			return src, nil
		}
		slog.Warn("fsnotify_unavailable_polling",
			slog.String("path", abs),
			slog.String("error", err.Error()))
	}
	return startPolling(ctx, abs, w.opts.PollInterval, deb), nil
}

func startNotify(ctx context.Context, abs string, deb *Debouncer) (*eventSource, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if op, ok := translate(ev.Op); ok {
					deb.Add(FileEvent{Path: abs, Operation: op, Timestamp: time.Now()})
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Warn("fsnotify_error", slog.String("error", err.Error()))
			}
		}
	}()

	return &eventSource{
		mode: "fsnotify",
		done: done,
		close: func() {
			_ = fsw.Close()
			<-done
		},
	}, nil
}

func translate(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpModify, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpDelete, true
	default:
		return 0, false
	}
}

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}

func startPolling(ctx context.Context, abs string, interval time.Duration, deb *Debouncer) *eventSource {
	done := make(chan struct{})
	stop := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := stat(abs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				cur := stat(abs)
				var op Operation
				switch {
				case cur == last:
					continue
				case !last.exists:
					op = OpCreate
				case !cur.exists:
					op = OpDelete
				default:
					op = OpModify
				}
				last = cur
				deb.Add(FileEvent{Path: abs, Operation: op, Timestamp: time.Now()})
			}
		}
	}()

	return &eventSource{
		mode: "polling",
		done: done,
		close: func() {
			select {
			case <-stop:
			default:
				close(stop)
			}
			<-done
		},
	}
}
