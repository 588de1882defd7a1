package miniorepo

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pkg = "minioRepo/"

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// repository stores document content in an S3-compatible bucket. Object keys
// double as blob references in document records.
type repository struct {
	client *minio.Client
	bucket string
}

func NewRepository(ctx context.Context, cfg Config) (*repository, error) {
	op := pkg + "NewRepository"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &repository{client: client, bucket: cfg.Bucket}, nil
}

func (r *repository) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	op := pkg + "Put"

	_, err := r.client.PutObject(ctx, r.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return key, nil
}

func (r *repository) PresignGet(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	op := pkg + "PresignGet"

	u, err := r.client.PresignedGetObject(ctx, r.bucket, ref, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return u.String(), nil
}

func (r *repository) Delete(ctx context.Context, ref string) error {
	op := pkg + "Delete"

	if err := r.client.RemoveObject(ctx, r.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
