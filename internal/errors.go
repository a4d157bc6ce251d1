package internal

import (
	"errors"
	"fmt"
)

// ErrMessageNotFound is returned when a lookup by local id matches no row
var ErrMessageNotFound = errors.New("message not found")

// StorageError represents errors locating or opening the message store
type StorageError struct {
	Path string
	Op   string // "stat", "scan", "open", "ping"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// QueryError represents a failure reported by the query layer
type QueryError struct {
	Op  string // "count", "list", "get", "talkers", "schema"
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error [%s]: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading or validating configuration
type ConfigError struct {
	Path string // config file, or the setting name for validation errors
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
