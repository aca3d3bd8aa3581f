package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"youtube-trends/shared/config"
	"youtube-trends/shared/monitoring"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store stores objects in an S3-compatible bucket (AWS S3, MinIO, ...).
type S3Store struct {
	client *minio.Client
	bucket string
}

func NewS3Store(cfg *config.StorageConfig) (*S3Store, error) {
	// Static keys when configured, otherwise the usual AWS_* environment chain.
	creds := credentials.NewEnvAWS()
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	secure := true
	if cfg.UseSSL != nil {
		secure = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client for %s: %w", cfg.Endpoint, err)
	}

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	monitoring.RecordStorageOperation("put", err)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", s.Location(key), err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		monitoring.RecordStorageOperation("get", err)
		return nil, fmt.Errorf("failed to get %s: %w", s.Location(key), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	monitoring.RecordStorageOperation("get", err)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", s.Location(key), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Location(key), err)
	}
	return data, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			monitoring.RecordStorageOperation("list", obj.Err)
			return nil, fmt.Errorf("failed to list %s: %w", s.Location(prefix), obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	monitoring.RecordStorageOperation("list", nil)
	return keys, nil
}

func (s *S3Store) Delete(ctx context.Context, keys []string) error {
	for _, key := range keys {
		err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
		monitoring.RecordStorageOperation("delete", err)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.Location(key), err)
		}
	}
	return nil
}

func (s *S3Store) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
