package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Archive stores the raw image of every detection in object storage,
// keyed by detection id. It is optional infrastructure: a nil *Archive
// disables archiving and never fails an analysis request.
type Archive struct {
	backend ObjectStorage
}

// NewArchive constructs an Archive for the provided backend.
func NewArchive(backend ObjectStorage) *Archive {
	return &Archive{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	return a.backend.EnsureBucket(ctx)
}

// SaveImage writes a detection's decoded image under a stable key.
func (a *Archive) SaveImage(ctx context.Context, detectionID string, image []byte) error {
	key := imageKey(detectionID)
	return a.backend.Put(ctx, key, bytes.NewReader(image), int64(len(image)), "image/jpeg")
}

// RemoveImage deletes the archived image of a detection.
func (a *Archive) RemoveImage(ctx context.Context, detectionID string) error {
	return a.backend.Delete(ctx, imageKey(detectionID))
}

// Bucket returns the configured bucket name.
func (a *Archive) Bucket() string {
	return a.backend.Bucket()
}

func imageKey(detectionID string) string {
	return fmt.Sprintf("detections/%s.jpg", detectionID)
}
