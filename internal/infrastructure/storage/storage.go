// Package storage archives raw documents in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage is the subset of object storage operations the application needs
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// PriceListKey builds the archive key of a price list imported by a shop at the given time
func PriceListKey(shopID uuid.UUID, at time.Time) string {
	name := fmt.Sprintf("%s.yaml", at.UTC().Format("20060102T150405.000000000Z"))
	return path.Join("price-lists", shopID.String(), name)
}
