package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Delete and Exists when no object is stored
// under the given key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage is the interface to the key-addressed blob store holding
// cover images.
type ObjectStorage interface {
	// Upload stores an object and returns its key and public URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Exists reports whether an object is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an object by its key. Returns ErrObjectNotFound when
	// the key does not exist.
	Delete(ctx context.Context, key string) error
}

// UploadInput holds the parameters for uploading an object.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}
