// Package storage puts league media (photo wall uploads, sponsor logos) in
// an S3-compatible bucket and hands out their public URLs.
package storage

import (
	"context"
	"io"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// ObjectInfo describes one stored object, as returned by List.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type FileStore interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// List returns every object under prefix, following pagination.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// GetPublicURL maps a key to its public URL. Empty when no public base
	// is configured.
	GetPublicURL(key string) string
}
