// Package storage holds the blob stores that back the media library. Objects
// live in a flat namespace keyed by file name; every backend can turn a name
// into the public URL the website uses.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ahamhfc/aham-cms-api/internal/config"
)

var (
	// ErrInvalidName is returned for names that would escape the flat namespace.
	ErrInvalidName = errors.New("invalid object name")
	// ErrExists is returned by Put when name is already taken.
	ErrExists = errors.New("object already exists")
)

// Storage is a flat blob store for encoded media files.
type Storage interface {
	// Put creates the object and never replaces an existing one: a taken name
	// fails with ErrExists. A failed Put leaves nothing behind under name.
	Put(ctx context.Context, name string, r io.Reader, contentType string) (*Object, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error

	// List returns every stored object.
	List(ctx context.Context) ([]Object, error)

	// URL returns the public URL the object is served from.
	URL(name string) string
}

// Object describes a stored file.
type Object struct {
	Name string
	// Size is the stored size in bytes
	Size int64
	// Checksum is the hex SHA-256 of the contents; empty when the backend does not report it
	Checksum string
	ModTime  time.Time
}

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStorage(cfg.StoragePath, cfg.UploadsURLPath)
	case config.StorageS3:
		return NewS3Storage(ctx, S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
