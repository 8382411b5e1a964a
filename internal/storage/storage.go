package storage

import (
	"context"
	"io"
)

// Storage defines the interface for avatar file storage operations.
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get retrieves a file from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file at the given path; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// Exists checks if a file exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the file
	GetURL(ctx context.Context, path string) (string, error)

	// GetSize returns the size of a file in bytes
	GetSize(ctx context.Context, path string) (int64, error)
}

// Config holds storage configuration.
type Config struct {
	BasePath string // Local directory files are written under
	BaseURL  string // Public URL prefix
}

// NewStorage creates the storage backend. Only local disk is supported:
// the deployment stores avatars next to the server process.
func NewStorage(cfg Config) (Storage, error) {
	return NewLocalStorage(cfg)
}
