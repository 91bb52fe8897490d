package storage

import (
	"context"
	"io"
)

// ObjectRepository defines the interface for receipt object storage
type ObjectRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	DeleteByURL(ctx context.Context, objectURL string) error
	GenerateURL(objectPath string) string
}
