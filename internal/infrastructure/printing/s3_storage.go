package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3StorageConfig configures an S3-compatible bucket (AWS S3, MinIO, RustFS)
type S3StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	KeyPrefix         string
	PresignExpiration time.Duration
	Logger            *zap.Logger
}

// s3API is the subset of the S3 client used by S3Storage
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3Storage stores documents in an S3-compatible bucket and hands out
// presigned download URLs.
type S3Storage struct {
	client            s3API
	presign           func(ctx context.Context, key string, expires time.Duration) (string, error)
	bucket            string
	keyPrefix         string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// NewS3Storage validates cfg and builds the S3 client
func NewS3Storage(cfg *S3StorageConfig) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})
	presignClient := s3.NewPresignClient(client)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	expiration := cfg.PresignExpiration
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}

	s := &S3Storage{
		client:            client,
		bucket:            cfg.Bucket,
		keyPrefix:         strings.Trim(cfg.KeyPrefix, "/"),
		presignExpiration: expiration,
		logger:            logger,
	}
	s.presign = func(ctx context.Context, key string, expires time.Duration) (string, error) {
		req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(expires))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
	return s, nil
}

// normalizeEndpoint adds the scheme to a bare host:port endpoint
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads the document and returns a presigned download URL
func (s *S3Storage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := validateStoreRequest(req); err != nil {
		return nil, err
	}

	key := s.objectKey(storagePath(time.Now(), req.FileName))
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to upload document", err)
	}

	downloadURL, err := s.presign(ctx, key, s.presignExpiration)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to presign download URL", err)
	}

	s.logger.Info("document uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.Data)))

	return &StoreResult{
		Path: key,
		URL:  downloadURL,
		Size: int64(len(req.Data)),
	}, nil
}

// Get downloads a stored document by key
func (s *S3Storage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" || containsDotDot(path) {
		return nil, NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, NewRenderError(ErrCodeStorageFailed, "document not found", errors.Join(fs.ErrNotExist, err))
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to download document", err)
	}
	return out.Body, nil
}

// Delete removes a stored document
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete document", err)
	}
	return nil
}

func (s *S3Storage) objectKey(relativePath string) string {
	if s.keyPrefix == "" {
		return relativePath
	}
	return s.keyPrefix + "/" + relativePath
}

var _ PDFStorage = (*S3Storage)(nil)
