// Package store persists small string values under string keys: the
// browser's bookmarks list and theme preference. Two backends are
// available, SQLite (default) and a flock-guarded JSON file.
package store

import (
	"context"
	"fmt"
	"strings"
)

// KV is a string key/value store shared by every playground process.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Update atomically replaces the value of key with fn's result.
	// fn receives the current value and whether it exists.
	Update(ctx context.Context, key string, fn func(old string, ok bool) (string, error)) error
	// Close releases the store.
	Close() error
}

// Backend names a KV implementation.
type Backend string

const (
	// BackendSQLite stores keys in a SQLite table (WAL mode, pure Go driver).
	BackendSQLite Backend = "sqlite"
	// BackendFile stores keys in one JSON object guarded by a lock file.
	BackendFile Backend = "file"
)

// Open creates the KV for backend at path. An empty path with the sqlite
// backend opens an in-memory database.
func Open(backend, path string) (KV, error) {
	switch Backend(strings.ToLower(backend)) {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (valid options: sqlite, file)", backend)
	}
}
