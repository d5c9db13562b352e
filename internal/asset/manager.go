// Package asset manages flower cover images in the object store: key
// derivation, uploads, and URL-based deletion. Document writes and image
// writes hit two different stores with no shared transaction, so callers own
// the compensation logic.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Qwwn/capstone-sangar/internal/storage"
	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"
)

// CoverManager handles cover image lifecycle against the object store.
type CoverManager struct {
	store storage.ObjectStorage
}

// NewCoverManager creates a new cover asset manager.
func NewCoverManager(store storage.ObjectStorage) *CoverManager {
	return &CoverManager{store: store}
}

// UploadInput holds the parameters for uploading a cover image.
type UploadInput struct {
	FlowerID    string
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Upload stores the cover under a key derived from the flower id and the
// original filename, and returns the public URL.
func (m *CoverManager) Upload(ctx context.Context, input *UploadInput) (string, error) {
	key := fmt.Sprintf("%s_%s", input.FlowerID, input.Filename)

	result, err := m.store.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Data:        input.Data,
	})
	if err != nil {
		return "", fmt.Errorf("upload cover %s: %w", key, err)
	}

	return result.URL, nil
}

// Delete removes the object referenced by an existing cover URL. The storage
// key is the last path segment of the URL. A missing object maps to NotFound.
func (m *CoverManager) Delete(ctx context.Context, coverURL string) error {
	key := KeyFromURL(coverURL)
	if key == "" {
		return apperrors.InvalidInput("cover URL has no object key")
	}

	if err := m.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return apperrors.NotFoundMsg(fmt.Sprintf("cover object %s not found", key))
		}
		return fmt.Errorf("delete cover %s: %w", key, err)
	}

	return nil
}

// KeyFromURL extracts the object key from a cover URL: everything after the
// last slash.
func KeyFromURL(coverURL string) string {
	if idx := strings.LastIndex(coverURL, "/"); idx >= 0 {
		return coverURL[idx+1:]
	}
	return coverURL
}
