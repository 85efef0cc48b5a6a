// Package mcp exposes the catalog over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/openplayground/catalog/internal/errors"
)

// Custom MCP error codes.
const (
	// ErrCodeCatalogUnavailable indicates the catalog could not be loaded.
	ErrCodeCatalogUnavailable = -32001

	// ErrCodeStorageUnavailable indicates bookmarks or theme storage failed.
	ErrCodeStorageUnavailable = -32002

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32003

	// ErrCodeNotFound indicates an unknown project or resource.
	ErrCodeNotFound = -32004

	// Standard JSON-RPC error codes.
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	var pe *perrors.Error
	if errors.As(err, &pe) {
		return mapCatalogError(pe)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

func mapCatalogError(e *perrors.Error) *MCPError {
	message := e.Message
	if e.Suggestion != "" {
		message = fmt.Sprintf("%s %s", e.Message, e.Suggestion)
	}

	switch e.Code {
	case perrors.ErrCodeProjectNotFound:
		return &MCPError{Code: ErrCodeNotFound, Message: message}
	case perrors.ErrCodeCatalogNotFound, perrors.ErrCodeCatalogCorrupt:
		return &MCPError{Code: ErrCodeCatalogUnavailable, Message: message}
	case perrors.ErrCodeStorageFailed, perrors.ErrCodeStorageLocked:
		return &MCPError{Code: ErrCodeStorageUnavailable, Message: message}
	}

	if e.Category == perrors.CategoryValidation {
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	}
	return &MCPError{Code: ErrCodeInternalError, Message: message}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("Tool '%s' not found.", name)}
}

// NewNotFoundError creates an error for an unknown project id.
func NewNotFoundError(id string) *MCPError {
	return &MCPError{Code: ErrCodeNotFound, Message: fmt.Sprintf("Project '%s' not found.", id)}
}
