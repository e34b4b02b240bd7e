package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kurin/blazer/b2"

	"dataroom/internal/config"
)

// b2Storage implements Storage on a private Backblaze B2 bucket.
type b2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
}

// NewB2 authorizes against B2 and opens the configured bucket.
func NewB2(cfg config.B2Config) (Storage, error) {
	if cfg.KeyID == "" || cfg.ApplicationKey == "" {
		return nil, fmt.Errorf("b2 credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("b2 bucket is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := b2.NewClient(ctx, cfg.KeyID, cfg.ApplicationKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open b2 bucket %s: %w", cfg.Bucket, err)
	}
	return &b2Storage{client: client, bucket: bucket}, nil
}

// Put streams r into a new B2 object. The writer uploads in chunks, so Size is informational.
func (s *b2Storage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	w := s.bucket.Object(key).NewWriter(ctx).WithAttrs(&b2.Attrs{
		ContentType: opt.ContentType,
		Info:        opt.Metadata,
	})

	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return ObjectInfo{}, fmt.Errorf("write b2 object: %w", err)
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("close b2 writer: %w", err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens a streaming reader on the object.
func (s *b2Storage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj := s.bucket.Object(key)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, ObjectInfo{}, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:          key,
		Size:         attrs.Size,
		ETag:         attrs.SHA1,
		ContentType:  attrs.ContentType,
		LastModified: attrs.LastModified,
		Metadata:     attrs.Info,
	}
	return obj.NewReader(ctx), info, nil
}

// Delete removes the object; a missing object is not an error.
func (s *b2Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return fmt.Errorf("delete b2 object: %w", err)
	}
	return nil
}

// PresignGet returns an authorized download URL valid for expiry.
func (s *b2Storage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.bucket.Object(key).AuthURL(ctx, expiry, "")
	if err != nil {
		return "", fmt.Errorf("sign b2 url: %w", err)
	}
	return u.String(), nil
}
