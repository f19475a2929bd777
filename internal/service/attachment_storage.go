package service

import (
	"context"
	"io"
	"net/url"
	"time"

	"vetcare-backend/pkg/apperror"

	"github.com/minio/minio-go/v7"
)

var ErrStorageDisabled = apperror.New(apperror.KindInternal, "attachment storage is not configured")

// AttachmentStorage stores record attachments in an object store.
type AttachmentStorage interface {
	Enabled() bool
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key, fileName string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinioStorage(client *minio.Client, bucket string, expiry time.Duration) AttachmentStorage {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &minioStorage{client: client, bucket: bucket, expiry: expiry}
}

func (s *minioStorage) Enabled() bool {
	return true
}

func (s *minioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PresignedURL returns a time-limited download link that saves under fileName.
func (s *minioStorage) PresignedURL(ctx context.Context, key, fileName string) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", `attachment; filename="`+fileName+`"`)
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *minioStorage) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

type disabledStorage struct{}

// NewDisabledStorage is used when no object store is configured.
func NewDisabledStorage() AttachmentStorage {
	return disabledStorage{}
}

func (disabledStorage) Enabled() bool {
	return false
}

func (disabledStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return ErrStorageDisabled
}

func (disabledStorage) PresignedURL(ctx context.Context, key, fileName string) (string, error) {
	return "", ErrStorageDisabled
}

// Delete succeeds so hard deletes still work without storage.
func (disabledStorage) Delete(ctx context.Context, keys ...string) error {
	return nil
}
