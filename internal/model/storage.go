package model

import (
	"context"
	"io"
)

// Storage archives scanned images in object storage.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}
