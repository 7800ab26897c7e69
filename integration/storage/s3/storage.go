package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/ssgi18n/core/storage"
)

// Compile-time check that S3Storage implements storage.Storage interface
var _ storage.Storage = (*S3Storage)(nil)

// S3Client defines the interface for S3 operations used by S3Storage.
type S3Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
}

// S3Storage publishes site artifacts to Amazon S3 and S3-compatible services.
type S3Storage struct {
	client         S3Client
	bucket         string
	region         string
	prefix         string // key prefix every artifact is stored under
	endpoint       string // custom endpoint for S3-compatible services
	baseURL        string // CDN or public URL base
	forcePathStyle bool
	cacheControl   string
	uploadTimeout  time.Duration
}

// Config contains configuration for S3 publishing.
type Config struct {
	Bucket         string `env:"SSG_S3_BUCKET"`
	Region         string `env:"SSG_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"SSG_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"SSG_S3_SECRET_KEY"`
	Endpoint       string `env:"SSG_S3_ENDPOINT"`  // MinIO, Wasabi, R2
	Prefix         string `env:"SSG_S3_PREFIX"`    // e.g. "site/"
	BaseURL        string `env:"SSG_S3_BASE_URL"`  // auto-generated if empty
	ForcePathStyle bool   `env:"SSG_S3_PATH_STYLE"` // required for MinIO
	CacheControl   string `env:"SSG_S3_CACHE_CONTROL"`
}

// Option configures S3Storage.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
	uploadTimeout   time.Duration
}

// WithS3Client sets a pre-configured S3 client. Tests pass mocks here.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithUploadTimeout bounds each upload. Without it the caller's context
// deadline applies.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.uploadTimeout = timeout
	}
}

// New creates an S3 publisher.
func New(ctx context.Context, cfg Config, opts ...Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", storage.ErrInvalidConfig)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		// Static credentials when given, else the default chain (env, IAM role).
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if strings.Contains(prefix, "..") {
		return nil, fmt.Errorf("%w: prefix %q", storage.ErrInvalidConfig, cfg.Prefix)
	}

	return &S3Storage{
		client:         client,
		bucket:         cfg.Bucket,
		region:         cfg.Region,
		prefix:         prefix,
		endpoint:       cfg.Endpoint,
		baseURL:        cfg.BaseURL,
		forcePathStyle: cfg.ForcePathStyle,
		cacheControl:   cfg.CacheControl,
		uploadTimeout:  o.uploadTimeout,
	}, nil
}

func (s *S3Storage) key(p string) (string, error) {
	rel, err := storage.CleanPath(p)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, p)
	}
	if s.prefix == "" {
		return rel, nil
	}
	return path.Join(s.prefix, rel), nil
}

// Put uploads one artifact.
func (s *S3Storage) Put(ctx context.Context, p string, body io.Reader, contentType string) error {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	key, err := s.key(p)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = storage.ContentType(key)
	}

	in := &s3aws.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if s.cacheControl != "" {
		in.CacheControl = aws.String(s.cacheControl)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return classifyS3Error(err, "upload file")
	}
	return nil
}

// Remove deletes one artifact. Existence is checked first so a missing key
// reports storage.ErrFileNotFound.
func (s *S3Storage) Remove(ctx context.Context, p string) error {
	key, err := s.key(p)
	if err != nil {
		return err
	}

	_, err = s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err, "check file")
	}

	_, err = s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err, "delete file")
	}
	return nil
}

// URL returns the public URL of an artifact:
// - custom BaseURL: base + key
// - S3-compatible endpoint: path-style or virtual-hosted-style
// - AWS S3: standard AWS URL
func (s *S3Storage) URL(p string) string {
	key, err := s.key(p)
	if err != nil {
		key = strings.TrimPrefix(p, "/")
	}

	if s.baseURL != "" {
		return strings.TrimSuffix(s.baseURL, "/") + "/" + key
	}

	if s.endpoint != "" {
		endpoint := strings.TrimSuffix(s.endpoint, "/")
		protocol := "https://"
		if after, ok := strings.CutPrefix(endpoint, "http://"); ok {
			protocol = "http://"
			endpoint = after
		} else if after, ok := strings.CutPrefix(endpoint, "https://"); ok {
			endpoint = after
		}

		if s.forcePathStyle {
			return fmt.Sprintf("%s%s/%s/%s", protocol, endpoint, s.bucket, key)
		}
		return fmt.Sprintf("%s%s.%s/%s", protocol, s.bucket, endpoint, key)
	}

	if s.forcePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.region, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
