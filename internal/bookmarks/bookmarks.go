// Package bookmarks keeps the user's bookmarked projects in a store.KV.
package bookmarks

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/openplayground/catalog/internal/catalog"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/store"
)

// Key is the store key holding the bookmark list.
const Key = "bookmarks"

// Toast messages shown after a toggle.
const (
	AddedMessage   = "Added to bookmarks"
	RemovedMessage = "Removed from bookmarks"
)

// Message returns the toast text for the state a toggle produced.
func Message(bookmarked bool) string {
	if bookmarked {
		return AddedMessage
	}
	return RemovedMessage
}

// Bookmark is one saved project.
type Bookmark struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"added_at"`
}

// Store is the bookmark capability handed to renderers and surfaces.
type Store interface {
	IsBookmarked(id string) bool
	Toggle(id string) (bool, error)
	List() ([]Bookmark, error)
}

// Lookup resolves a project id to its record.
type Lookup func(id string) (*catalog.Project, bool)

// KVStore implements Store over a store.KV.
type KVStore struct {
	kv     store.KV
	ctx    context.Context
	lookup Lookup
	now    func() time.Time
}

var _ Store = (*KVStore)(nil)

// New creates a bookmark store. ctx bounds every storage call. lookup may
// be nil; when set, new bookmarks record the project's title and category.
func New(ctx context.Context, kv store.KV, lookup Lookup) *KVStore {
	return &KVStore{kv: kv, ctx: ctx, lookup: lookup, now: time.Now}
}

func (s *KVStore) describe(id string) Bookmark {
	b := Bookmark{ID: id, Title: id}
	if s.lookup != nil {
		if p, ok := s.lookup(id); ok {
			b.Title = p.Title
			b.Category = p.Category
		}
	}
	b.AddedAt = s.now().UTC()
	return b
}

func decode(raw string, ok bool) ([]Bookmark, error) {
	if !ok || raw == "" {
		return []Bookmark{}, nil
	}
	var list []Bookmark
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, perrors.StorageError("bookmark list is corrupt", err)
	}
	return list, nil
}

// List returns bookmarks in the order they were added.
func (s *KVStore) List() ([]Bookmark, error) {
	raw, ok, err := s.kv.Get(s.ctx, Key)
	if err != nil {
		return nil, err
	}
	return decode(raw, ok)
}

// IsBookmarked reports whether id is bookmarked. Storage errors count as
// not bookmarked and are logged.
func (s *KVStore) IsBookmarked(id string) bool {
	list, err := s.List()
	if err != nil {
		slog.Warn("bookmark_lookup_failed", slog.String("id", id), slog.String("error", err.Error()))
		return false
	}
	return slices.ContainsFunc(list, func(b Bookmark) bool { return b.ID == id })
}

// Set returns a lookup over a snapshot of the current bookmarks, for
// rendering many cards with one storage read.
func (s *KVStore) Set() (Snapshot, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, len(list))
	for _, b := range list {
		snap[b.ID] = struct{}{}
	}
	return snap, nil
}

// Toggle adds id when absent and removes it when present. It returns the
// new state.
func (s *KVStore) Toggle(id string) (bool, error) {
	var added bool
	err := s.kv.Update(s.ctx, Key, func(raw string, ok bool) (string, error) {
		list, err := decode(raw, ok)
		if err != nil {
			return "", err
		}
		i := slices.IndexFunc(list, func(b Bookmark) bool { return b.ID == id })
		if i >= 0 {
			list = slices.Delete(list, i, i+1)
			added = false
		} else {
			list = append(list, s.describe(id))
			added = true
		}
		data, err := json.Marshal(list)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		return false, err
	}
	slog.Info("bookmark_toggled", slog.String("id", id), slog.Bool("bookmarked", added))
	return added, nil
}

// Snapshot is a read-only set of bookmarked ids.
type Snapshot map[string]struct{}

// IsBookmarked implements shell.Bookmarks.
func (s Snapshot) IsBookmarked(id string) bool {
	_, ok := s[id]
	return ok
}
