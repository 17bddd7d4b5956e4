package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioConfig holds the object storage connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore writes photos into an S3 compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioStore connects and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioStore, error) {
	log := logger.Named("MinioStore")
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("Bucket already exists", zap.String("bucket", cfg.Bucket))
	} else {
		log.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, logger: log}, nil
}

func (s *MinioStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("key", name), zap.Error(err))
		return fmt.Errorf("failed to upload object %s: %w", name, err)
	}
	s.logger.Info("Photo uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return nil
}
