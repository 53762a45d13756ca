package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"shop/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newTestStore(t *testing.T, cfg *config.StorageConfig) *blobImageStore {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return newBlobImageStore(bucket, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBlobImageStore_Put(t *testing.T) {
	store := newTestStore(t, &config.StorageConfig{
		KeyPrefix:     "/items/",
		PublicBaseURL: "https://cdn.example.com/",
	})
	ctx := context.Background()

	stored, err := store.Put(ctx, "Photo.JPG", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Key, "items/"))
	assert.True(t, strings.HasSuffix(stored.Key, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+stored.Key, stored.URL)

	data, err := store.bucket.ReadAll(ctx, stored.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	attrs, err := store.bucket.Attributes(ctx, stored.Key)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", attrs.ContentType)
}

func TestBlobImageStore_PutUniqueKeys(t *testing.T) {
	store := newTestStore(t, &config.StorageConfig{})
	ctx := context.Background()

	first, err := store.Put(ctx, "a.png", "image/png", []byte("a"))
	require.NoError(t, err)
	second, err := store.Put(ctx, "a.png", "image/png", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.False(t, strings.Contains(first.Key, "/"))
}

func TestBlobImageStore_Delete(t *testing.T) {
	store := newTestStore(t, &config.StorageConfig{})
	ctx := context.Background()

	stored, err := store.Put(ctx, "a.png", "image/png", []byte("a"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, stored.Key))

	exists, err := store.bucket.Exists(ctx, stored.Key)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Delete(ctx, stored.Key), "deleting a missing object succeeds")
}
