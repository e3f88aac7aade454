package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestPutWritesObjectWithContentType(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	store := NewWithBucket(bucket)

	ctx := context.Background()
	err := store.Put(ctx, "exports/a.csv", []byte("\"Action\"\n"), "text/csv")
	require.NoError(t, err)

	data, err := bucket.ReadAll(ctx, "exports/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "\"Action\"\n", string(data))

	attrs, err := bucket.Attributes(ctx, "exports/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", attrs.ContentType)
}

func TestPutOverwritesExistingKey(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	store := NewWithBucket(bucket)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "k", []byte("one"), "text/plain"))
	require.NoError(t, store.Put(ctx, "k", []byte("two"), "text/plain"))

	data, err := bucket.ReadAll(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "bogus://nope")
	assert.Error(t, err)
}
