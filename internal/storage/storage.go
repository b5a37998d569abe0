package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound reports that no blob exists under the requested key
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the opaque byte-storage collaborator keyed by a locator
// string. Delete is idempotent: removing a missing key is not an error.
type BlobStore interface {
	Write(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}
