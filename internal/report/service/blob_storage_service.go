// Package service provides technical services for report file storage.
package service

import (
	"context"
	"io"

	"gocloud.dev/blob"

	// Blob drivers registered by URL scheme: file://, s3://, and mem:// for tests.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// FileStorage defines operations for storing and retrieving report file bytes.
// Keys are opaque to callers; the storage layer never interprets them.
type FileStorage interface {
	// Save writes the reader's bytes under the key with the given content type.
	Save(ctx context.Context, key, contentType string, r io.Reader) error

	// Open returns a reader for the bytes stored under the key.
	// The caller must close the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the bytes stored under the key.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying bucket.
	Close() error
}

// blobFileStorage implements FileStorage on a gocloud.dev blob bucket.
type blobFileStorage struct {
	bucket *blob.Bucket
}

// NewBlobFileStorage opens the bucket identified by the URL
// (e.g. file:///var/lib/medrecord/reports, s3://medrecord-reports?region=us-east-1).
func NewBlobFileStorage(ctx context.Context, bucketURL string) (FileStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open blob bucket")
	}
	return &blobFileStorage{bucket: bucket}, nil
}

// Save writes the reader's bytes under the key.
func (s *blobFileStorage) Save(ctx context.Context, key, contentType string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return apperrors.Wrap(err, "failed to open blob writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		// Abort the write on copy failure; Close would otherwise commit a partial object.
		_ = w.Close()
		return apperrors.Wrap(err, "failed to write blob")
	}

	if err := w.Close(); err != nil {
		return apperrors.Wrap(err, "failed to commit blob")
	}
	return nil
}

// Open returns a reader for the bytes stored under the key.
func (s *blobFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open blob reader")
	}
	return r, nil
}

// Delete removes the bytes stored under the key.
func (s *blobFileStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return apperrors.Wrap(err, "failed to delete blob")
	}
	return nil
}

// Close releases the underlying bucket.
func (s *blobFileStorage) Close() error {
	return s.bucket.Close()
}
