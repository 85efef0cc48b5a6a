// Package theme stores the light/dark preference.
package theme

import (
	"context"
	"strings"

	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/store"
)

// Key is the store key holding the theme.
const Key = "theme"

// Theme is a color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used when nothing valid is stored.
const Default = Light

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidTheme, "unknown theme \""+s+"\"", nil).
		WithSuggestion("Use light or dark.")
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Preference reads and writes the theme in a store.KV.
type Preference struct {
	kv store.KV
}

// New creates a Preference over kv.
func New(kv store.KV) *Preference {
	return &Preference{kv: kv}
}

// Get returns the stored theme, or Default when missing or invalid.
func (p *Preference) Get(ctx context.Context) (Theme, error) {
	raw, ok, err := p.kv.Get(ctx, Key)
	if err != nil {
		return Default, err
	}
	if !ok {
		return Default, nil
	}
	t, err := Parse(raw)
	if err != nil {
		return Default, nil
	}
	return t, nil
}

// Set stores t.
func (p *Preference) Set(ctx context.Context, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	return p.kv.Set(ctx, Key, string(t))
}

// Toggle flips the stored theme and returns the new one.
func (p *Preference) Toggle(ctx context.Context) (Theme, error) {
	var next Theme
	err := p.kv.Update(ctx, Key, func(old string, ok bool) (string, error) {
		cur, err := Parse(old)
		if !ok || err != nil {
			cur = Default
		}
		next = cur.Opposite()
		return string(next), nil
	})
	if err != nil {
		return "", err
	}
	return next, nil
}
