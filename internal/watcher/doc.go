// Package watcher notices edits to the catalog file and reports them after
// a quiet period.
//
// The directory holding the file is watched with fsnotify so that editors
// which save by rename are seen. Bursts of events are coalesced by a
// Debouncer. When fsnotify is unavailable the file is polled instead.
//
//	w := watcher.New(watcher.DefaultOptions())
//	err := w.Run(ctx, "projects.json", func(ctx context.Context, ev watcher.FileEvent) error {
//	    return holder.Reload(ctx)
//	})
package watcher
