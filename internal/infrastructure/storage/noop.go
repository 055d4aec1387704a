package storage

import (
	"context"
	"time"
)

var _ ObjectStorage = NoopObjectStorage{}

// NoopObjectStorage is used when storage is disabled. Uploads are discarded.
type NoopObjectStorage struct{}

// Upload discards data
func (NoopObjectStorage) Upload(_ context.Context, storageKey string, _ []byte, _ string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	return nil
}

// GenerateDownloadURL returns an empty URL since nothing is stored
func (NoopObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, _ time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	return "", time.Time{}, nil
}

// ObjectExists is always false
func (NoopObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errEmptyKey
	}
	return false, nil
}

// DeleteObject does nothing
func (NoopObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	return nil
}
