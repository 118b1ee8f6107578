package storage

import (
	"context"
	"time"
)

// Storage is the object-store collaborator used for invoice PDFs and leave
// documents. Upload returns a durable URL; SignedURL returns a short-lived
// retrieval URL that expires after ttl.
//
//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
