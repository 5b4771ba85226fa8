package storage

import (
	"context"
	"io"
	"time"
)

// ReceiptRepository abstracts object storage for transaction receipt images.
// Objects are private; access goes through short-lived presigned URLs.
type ReceiptRepository interface {
	// Upload stores an object and returns its object path
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)

	// Delete removes an object
	Delete(ctx context.Context, objectPath string) error

	// GeneratePresignedURL generates a presigned GET URL for temporary access
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
