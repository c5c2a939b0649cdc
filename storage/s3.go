// Package storage persists uploaded files in S3 compatible object stores.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	shop "github.com/goliatone/go-shop"
)

// Config holds the object store connection options. AccessKey and SecretKey
// are optional: when empty the default AWS credential chain is used, which is
// what you want on EC2 or ECS. BaseEndpoint points at MinIO or another S3
// compatible store during development.
type Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	// PresignTTL bounds how long download links stay valid
	PresignTTL time.Duration
}

// Uploader stores files and hands out presigned download links.
type Uploader struct {
	client  *s3.Client
	presign *s3.PresignClient
	cfg     Config
	logger  shop.Logger
}

// NewUploader builds the S3 client from the given config.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, goerrors.New("object storage requires a bucket", goerrors.CategoryBadInput)
	}
	if cfg.PresignTTL == 0 {
		cfg.PresignTTL = 15 * time.Minute
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load object storage config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		client:  client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		logger:  shop.DefaultLogger(),
	}, nil
}

// WithLogger overrides the default logger
func (u *Uploader) WithLogger(logger shop.Logger) *Uploader {
	u.logger = logger
	return u
}

// Upload stores the content under a generated key and returns the key and a
// presigned URL for it. The original filename survives as the key suffix so
// downloads keep a recognizable name. folder is an optional prefix.
func (u *Uploader) Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, string, error) {
	key := ObjectKey(folder, filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", goerrors.Wrap(err, goerrors.CategoryOperation, "failed to store file").
			WithMetadata(map[string]any{"key": key})
	}

	u.logger.Debug("stored object key=%s", key)

	url, err := u.PresignedURL(ctx, key)
	if err != nil {
		return "", "", err
	}

	return key, url, nil
}

// PresignedURL returns a time limited download link for an existing object.
func (u *Uploader) PresignedURL(ctx context.Context, key string) (string, error) {
	req, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(u.cfg.PresignTTL))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "failed to presign download").
			WithMetadata(map[string]any{"key": key})
	}

	return req.URL, nil
}

// ObjectKey namespaces uploads under a folder prefix with a random component
// so two files with the same name never collide. Path separators in the
// inputs are stripped, only the final name segment is kept.
func ObjectKey(folder, filename string) string {
	if folder == "" {
		folder = "uploads"
	}
	folder = path.Base(strings.ReplaceAll(folder, "\\", "/"))

	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "-")

	return fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), base)
}
