package preflight

import (
	"context"
	"errors"
	"fmt"

	"github.com/openplayground/catalog/internal/catalog"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/store"
)

// probeKey is written and removed by CheckStorage.
const probeKey = "preflight_probe"

// CheckCatalog loads the catalog at path.
func (c *Checker) CheckCatalog(path string) CheckResult {
	result := CheckResult{
		Name:     "catalog",
		Required: true,
		Details:  path,
	}

	cat, err := catalog.Load(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		var e *perrors.Error
		if errors.As(err, &e) && e.Suggestion != "" {
			result.Details = path + ": " + e.Suggestion
		}
		return result
	}

	// "all" is always present.
	categories := len(cat.Categories()) - 1
	if cat.Len() == 0 {
		result.Status = StatusWarn
		result.Message = "catalog is empty"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%d projects in %d categories", cat.Len(), categories)
	return result
}

// CheckStorage opens the store and round-trips a probe value.
func (c *Checker) CheckStorage(ctx context.Context, backend, path string) CheckResult {
	result := CheckResult{
		Name:     "storage",
		Required: true,
		Details:  fmt.Sprintf("%s at %s", backend, path),
	}

	kv, err := store.Open(backend, path)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot open: %v", err)
		return result
	}
	defer func() { _ = kv.Close() }()

	if err := kv.Set(ctx, probeKey, "ok"); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot write: %v", err)
		return result
	}
	got, ok, err := kv.Get(ctx, probeKey)
	_ = kv.Delete(ctx, probeKey)
	if err != nil || !ok || got != "ok" {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("read back failed: %v", err)
		return result
	}

	result.Status = StatusPass
	result.Message = backend + " OK"
	return result
}
