package service

import "context"

// StoredImage locates an uploaded image.
type StoredImage struct {
	Key string
	URL string
}

// ImageStore keeps item image bytes outside of the database.
type ImageStore interface {
	Put(ctx context.Context, originalName, contentType string, data []byte) (*StoredImage, error)
	Delete(ctx context.Context, key string) error
}
