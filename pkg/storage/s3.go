package storage

import (
	"context"
	"fmt"
	"strings"

	"backoffice/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// s3API is the part of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store writes objects to an S3 compatible bucket (AWS, MinIO, R2).
type S3Store struct {
	client     s3API
	bucket     string
	publicBase string
	log        *zap.Logger
}

func NewS3Store(ctx context.Context, cfg utils.StorageConfig, log *zap.Logger) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	})

	publicBase := cfg.PublicURL
	if publicBase == "" || strings.HasPrefix(publicBase, "/") {
		publicBase = strings.TrimRight(cfg.S3.Endpoint, "/") + "/" + cfg.S3.Bucket
	}

	return newS3Store(client, cfg.S3.Bucket, publicBase, log), nil
}

func newS3Store(client s3API, bucket, publicBase string, log *zap.Logger) *S3Store {
	return &S3Store{
		client:     client,
		bucket:     bucket,
		publicBase: publicBase,
		log:        log.With(zap.String("storage", "s3"), zap.String("bucket", bucket)),
	}
}

func (s *S3Store) Store(ctx context.Context, namespace string, file *File) (string, error) {
	key := objectKey(namespace, file)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file.Body,
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.log.Error("Failed to put object", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	return publicURL(s.publicBase, key)
}
