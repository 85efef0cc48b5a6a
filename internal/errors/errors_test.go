package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unwrap_PreservesCause(t *testing.T) {
	// Given: an underlying read error
	cause := errors.New("open projects.json: no such file or directory")

	// When: wrapping it as a catalog load error
	err := CatalogLoadError("projects.json", cause)

	// Then: the cause is reachable through the chain
	require.NotNil(t, err)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Unable to load projects", err.Message)
	assert.Equal(t, "projects.json", err.Details["path"])
}

func TestError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{"config", ErrCodeConfigInvalid, "bad page size", "[ERR_102_CONFIG_INVALID] bad page size"},
		{"io", ErrCodeCatalogNotFound, "missing", "[ERR_201_CATALOG_NOT_FOUND] missing"},
		{"validation", ErrCodeInvalidSort, "unknown sort", "[ERR_402_INVALID_SORT] unknown sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, tt.message, nil).Error())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	a := New(ErrCodeProjectNotFound, "no project a", nil)
	b := New(ErrCodeProjectNotFound, "no project b", nil)
	c := New(ErrCodeInvalidTheme, "bad theme", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		code     string
		category Category
		severity Severity
	}{
		{ErrCodeConfigNotFound, CategoryConfig, SeverityError},
		{ErrCodeCatalogCorrupt, CategoryIO, SeverityFatal},
		{ErrCodeStorageLocked, CategoryIO, SeverityWarning},
		{ErrCodeDuplicateID, CategoryValidation, SeverityError},
		{ErrCodeRankingFailed, CategoryInternal, SeverityError},
		{"bad", CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "x", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestIsRetryable_OnlyLockedStorage(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeStorageLocked, "locked", nil)))
	assert.False(t, IsRetryable(New(ErrCodeStorageFailed, "failed", nil)))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestGetCode_FindsWrappedError(t *testing.T) {
	inner := New(ErrCodeInvalidPage, "page must be positive", nil)
	outer := fmt.Errorf("render: %w", inner)

	assert.Equal(t, ErrCodeInvalidPage, GetCode(outer))
	assert.Equal(t, CategoryValidation, GetCategory(outer))
	assert.Empty(t, GetCode(errors.New("plain")))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeCatalogCorrupt, "corrupt", nil)))
	assert.False(t, IsFatal(ValidationError("x", nil)))
}
