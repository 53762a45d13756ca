// Package storage keeps item images in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets for local development
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets for tests
	"gocloud.dev/gcerrors"

	"shop/config"
	"shop/internal/domain/service"
)

const defaultBucketURL = "mem://"

type blobImageStore struct {
	bucket        *blob.Bucket
	keyPrefix     string
	publicBaseURL string
	logger        *slog.Logger
}

// ImageStoreParams holds dependencies for ImageStore, injected by Fx
type ImageStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewImageStore opens the configured bucket and closes it on shutdown.
func NewImageStore(params ImageStoreParams) (service.ImageStore, error) {
	cfg := params.Config.Storage
	if cfg == nil {
		cfg = &config.StorageConfig{}
	}

	bucketURL := cfg.BucketURL
	if bucketURL == "" {
		params.Logger.Warn("Storage bucket not configured, images are kept in memory")
		bucketURL = defaultBucketURL
	}

	bucket, err := blob.OpenBucket(context.Background(), bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			params.Logger.Info("Closing image bucket")

			return bucket.Close()
		},
	})

	return newBlobImageStore(bucket, cfg, params.Logger), nil
}

func newBlobImageStore(bucket *blob.Bucket, cfg *config.StorageConfig, logger *slog.Logger) *blobImageStore {
	return &blobImageStore{
		bucket:        bucket,
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}
}

// Put writes data under a fresh key that keeps the extension of originalName.
func (s *blobImageStore) Put(ctx context.Context, originalName, contentType string, data []byte) (*service.StoredImage, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate image key")
	}

	key := id.String() + strings.ToLower(path.Ext(originalName))
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}

	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return nil, errors.Wrapf(err, "failed to write image %s", key)
	}

	s.logger.DebugContext(ctx, "Image stored",
		slog.String("key", key),
		slog.Int("size", len(data)),
	)

	return &service.StoredImage{Key: key, URL: s.publicBaseURL + "/" + key}, nil
}

// Delete removes the object; a missing object is not an error.
func (s *blobImageStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && !isNotFound(err) {
		return errors.Wrapf(err, "failed to delete image %s", key)
	}

	return nil
}

func isNotFound(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
