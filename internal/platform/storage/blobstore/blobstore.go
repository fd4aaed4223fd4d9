// Package blobstore defines persistence contracts for opaque media objects.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates a requested media object is missing.
var ErrNotFound = errors.New("media object not found")

// Store persists opaque media objects keyed by storage ID.
type Store interface {
	// Put writes one object, replacing any previous content.
	Put(ctx context.Context, storageID string, contentType string, content io.Reader) error
	// Open returns the object content and its content type.
	Open(ctx context.Context, storageID string) (io.ReadCloser, string, error)
	// Exists reports whether an object is present.
	Exists(ctx context.Context, storageID string) (bool, error)
	// Delete removes one object. Deleting a missing object is not an error.
	Delete(ctx context.Context, storageID string) error
}
