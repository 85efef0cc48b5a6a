package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	perrors "github.com/openplayground/catalog/internal/errors"
)

// lockRetryDelay is how often a blocked lock attempt is retried.
const lockRetryDelay = 10 * time.Millisecond

// FileKV implements KV as one JSON object on disk. Every operation takes
// an exclusive lock on <path>.lock, so several processes can share the
// file. Writes go to a temp file that is renamed over the original.
type FileKV struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

var _ KV = (*FileKV)(nil)

// OpenFile prepares a file store at path. The file is created on first write.
func OpenFile(path string) (*FileKV, error) {
	if path == "" {
		return nil, perrors.StorageError("file storage needs a path", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileKV{path: path, lock: flock.New(path + ".lock")}, nil
}

// withLock runs fn while holding both the in-process mutex and the file lock.
func (f *FileKV) withLock(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return perrors.New(perrors.ErrCodeStorageLocked, "state file is locked by another process", err).
				WithDetail("path", f.path)
		}
		return perrors.StorageError("failed to acquire lock", err)
	}
	if !locked {
		return perrors.New(perrors.ErrCodeStorageLocked, "state file is locked by another process", nil).
			WithDetail("path", f.path)
	}
	defer func() { _ = f.lock.Unlock() }()

	return fn()
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, perrors.StorageError("failed to read state file", err)
	}
	m := map[string]string{}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, perrors.StorageError("state file is corrupt", err).WithDetail("path", f.path)
	}
	return m, nil
}

func (f *FileKV) write(m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return perrors.StorageError("failed to write state file", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return perrors.StorageError("failed to save state file", err)
	}
	return nil
}

// Get implements KV.
func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := f.withLock(ctx, func() error {
		m, err := f.read()
		if err != nil {
			return err
		}
		value, ok = m[key]
		return nil
	})
	return value, ok, err
}

// Set implements KV.
func (f *FileKV) Set(ctx context.Context, key, value string) error {
	return f.Update(ctx, key, func(string, bool) (string, error) { return value, nil })
}

// Delete implements KV.
func (f *FileKV) Delete(ctx context.Context, key string) error {
	return f.withLock(ctx, func() error {
		m, err := f.read()
		if err != nil {
			return err
		}
		if _, ok := m[key]; !ok {
			return nil
		}
		delete(m, key)
		return f.write(m)
	})
}

// Update implements KV.
func (f *FileKV) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	return f.withLock(ctx, func() error {
		m, err := f.read()
		if err != nil {
			return err
		}
		old, ok := m[key]
		value, err := fn(old, ok)
		if err != nil {
			return err
		}
		m[key] = value
		return f.write(m)
	})
}

// Close implements KV. The lock is only held during operations.
func (f *FileKV) Close() error {
	return nil
}
