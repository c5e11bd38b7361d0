package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures S3Storage.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string // set for MinIO and other S3-compatible stores
	AccessKey    string
	SecretKey    string
	PresignTTL   time.Duration
}

// S3Storage keeps files in a bucket under <category>/<name> and serves them
// through presigned GET URLs.
type S3Storage struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewS3Storage builds an S3 client from cfg. Static credentials are used when
// given, otherwise the default AWS credential chain.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &S3Storage{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
	}, nil
}

func (s *S3Storage) key(category Category, name string) (string, error) {
	if _, ok := ParseCategory(string(category)); !ok {
		return "", fmt.Errorf("unknown category %q", category)
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	return string(category) + "/" + name, nil
}

// Save uploads r as a new object.
func (s *S3Storage) Save(ctx context.Context, category Category, name string, r io.Reader, size int64, contentType string) error {
	key, err := s.key(category, name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Locate checks the object exists and returns a presigned GET URL for it.
func (s *S3Storage) Locate(ctx context.Context, category Category, name string) (Location, error) {
	key, err := s.key(category, name)
	if err != nil {
		return Location{}, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return Location{}, ErrNotFound
		}
		return Location{}, fmt.Errorf("head object %s: %w", key, err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return Location{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return Location{URL: req.URL}, nil
}

// Remove deletes the object.
func (s *S3Storage) Remove(ctx context.Context, category Category, name string) error {
	key, err := s.key(category, name)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
