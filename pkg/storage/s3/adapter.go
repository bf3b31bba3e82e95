// Package s3 provides an S3-compatible adapter for the storage provider
// interface. Works with AWS S3 and MinIO.
package s3

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-hclog"

	"github.com/edstack/relay/pkg/storage"
)

const defaultExpiry = 15 * time.Minute

// Adapter implements storage.Provider using presigned S3 PUT URLs.
type Adapter struct {
	presigner presignAPI
	cfg       *Config
	logger    hclog.Logger
}

var _ storage.Provider = (*Adapter)(nil)

// presignAPI is the slice of the presign client the adapter uses.
type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error)
}

// v4PresignedRequest mirrors the fields of the SDK's PresignedHTTPRequest
// the adapter needs.
type v4PresignedRequest struct {
	URL          string
	Method       string
	SignedHeader http.Header
}

// Config contains configuration for the S3 storage adapter.
type Config struct {
	Endpoint      string        // Custom endpoint URL (empty for AWS S3)
	Region        string        // AWS region
	Bucket        string        // Bucket name
	AccessKey     string        // Access key ID
	SecretKey     string        // Secret access key
	PublicBaseURL string        // Base URL for public object access (optional)
	Expiry        time.Duration // Signed URL lifetime (default: 15m)
	Logger        hclog.Logger  // Logger (optional)
}

// Validate validates the S3 configuration.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	return nil
}

// NewAdapter creates a new S3 storage adapter.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 configuration: %w", err)
	}
	if cfg.Expiry == 0 {
		cfg.Expiry = defaultExpiry
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	awsCfg, err := createAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Force path-style addressing for MinIO
			o.UsePathStyle = true
		}
	})

	return &Adapter{
		presigner: &sdkPresigner{client: s3.NewPresignClient(client)},
		cfg:       cfg,
		logger:    cfg.Logger.Named("s3-storage"),
	}, nil
}

// createAWSConfig creates AWS SDK configuration from adapter config.
func createAWSConfig(cfg *Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(context.Background(), opts...)
}

// SignUpload presigns a PutObject request for the given key.
func (a *Adapter) SignUpload(ctx context.Context, key string) (*storage.SignedUpload, error) {
	req, err := a.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.cfg.Expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	a.logger.Debug("presigned upload url created", "bucket", a.cfg.Bucket, "key", key)

	return &storage.SignedUpload{
		SignedURL: req.URL,
		Path:      key,
	}, nil
}

// PublicURL returns the public object URL for a path. Uses the configured
// public base URL when set, otherwise the path-style endpoint URL.
func (a *Adapter) PublicURL(path string) string {
	if a.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(a.cfg.PublicBaseURL, "/") + "/" + path
	}
	if a.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s",
			strings.TrimSuffix(a.cfg.Endpoint, "/"), a.cfg.Bucket, path)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		a.cfg.Bucket, a.cfg.Region, path)
}

// Bucket returns the configured bucket name.
func (a *Adapter) Bucket() string {
	return a.cfg.Bucket
}

// sdkPresigner adapts the SDK presign client to presignAPI.
type sdkPresigner struct {
	client *s3.PresignClient
}

func (p *sdkPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &v4PresignedRequest{
		URL:          req.URL,
		Method:       req.Method,
		SignedHeader: req.SignedHeader,
	}, nil
}
