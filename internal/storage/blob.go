// Package storage wraps the blob store used for audit export artifacts.
// The bucket is addressed by a gocloud URL (s3://..., file://...), so the
// same code serves S3-compatible stores in production and a local directory
// in development.
package storage

import (
	"context"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// for local development
	_ "gocloud.dev/blob/s3blob"   // s3:// for production
)

// Store is a thin handle over one bucket.  It exposes only the two
// operations the export pipeline needs: durable writes and time-limited
// signed GET URLs.
type Store struct {
	bucket *blob.Bucket
}

// Open opens the bucket at the given URL.  The caller owns the returned
// Store and must Close it.
func Open(ctx context.Context, bucketURL string) (*Store, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &Store{bucket: b}, nil
}

// NewWithBucket wraps an already opened bucket.  Tests use this with
// memblob.
func NewWithBucket(b *blob.Bucket) *Store { return &Store{bucket: b} }

// Put writes data under key with the given content type.  The write is
// atomic from the reader's perspective: the key is absent until the upload
// completes.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
}

// SignedGetURL returns a time-limited URL from which the object can be
// downloaded without credentials.
func (s *Store) SignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{Expiry: ttl, Method: "GET"})
}

// Close releases the bucket handle.
func (s *Store) Close() error { return s.bucket.Close() }
