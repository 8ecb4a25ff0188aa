package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/inkpress/core/internal/config"
)

// Storage persists an uploaded object and reports its public URL.
type Storage interface {
	Name() string
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

// NewStorage builds the backend selected by upload.driver.
func NewStorage(cfg *appcfg.AppConfig) (Storage, error) {
	switch cfg.Upload.Driver {
	case appcfg.UploadS3:
		return NewS3Storage(cfg.Upload.S3)
	default:
		return NewLocalStorage(filepath.Join(cfg.StaticDir(), uploadDir), cfg.Upload.PublicBaseURL), nil
	}
}

// LocalStorage writes objects below dir and serves them at /uploads.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStorage) Name() string { return appcfg.UploadLocal }

// Dir is the directory objects are written to.
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Put(_ context.Context, key string, payload []byte, _ string) (string, error) {
	name := safeName(key)
	if name == "" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), payload, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + uploadDir + "/" + name, nil
}

// S3Storage writes objects to an S3-compatible bucket.
type S3Storage struct {
	client       *s3.Client
	bucket       string
	prefix       string
	publicPrefix string
}

func NewS3Storage(opts appcfg.S3Config) (*S3Storage, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || region == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSuffix(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	// Custom endpoints (minio, r2) generally only speak path-style.
	pathStyle := opts.PathStyle || endpoint != ""

	s3Opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: pathStyle,
	}
	if endpoint != "" {
		s3Opts.BaseEndpoint = aws.String(endpoint)
	}

	publicPrefix := strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/")
	switch {
	case publicPrefix != "":
	case endpoint != "":
		publicPrefix = endpoint + "/" + bucket
	default:
		publicPrefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Storage{
		client:       s3.New(s3Opts),
		bucket:       bucket,
		prefix:       normalizeObjectKey(opts.Prefix),
		publicPrefix: publicPrefix,
	}, nil
}

func (s *S3Storage) Name() string { return appcfg.UploadS3 }

func (s *S3Storage) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	objectKey := normalizeObjectKey(key)
	if s.prefix != "" {
		objectKey = s.prefix + "/" + objectKey
	}
	if objectKey == "" {
		return "", fmt.Errorf("invalid s3 object key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return s.publicPrefix + "/" + objectKey, nil
}
