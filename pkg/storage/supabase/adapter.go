// Package supabase provides a Supabase Storage adapter for the storage
// provider interface.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/edstack/relay/pkg/storage"
	"github.com/edstack/relay/pkg/upstream"
)

// Adapter implements storage.Provider against the Supabase Storage API.
type Adapter struct {
	endpoint   string
	serviceKey string
	bucket     string
	httpClient *http.Client
	logger     hclog.Logger
}

var _ storage.Provider = (*Adapter)(nil)

// Config contains configuration for the Supabase storage adapter.
type Config struct {
	Endpoint   string        // Project URL (e.g. "https://xyz.supabase.co")
	ServiceKey string        // Service role key
	Bucket     string        // Bucket name
	Timeout    time.Duration // HTTP timeout (default: 30s)
	Logger     hclog.Logger  // Logger (optional)
}

// NewAdapter creates a new Supabase storage adapter.
func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("service key is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Adapter{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: cfg.Logger.Named("supabase-storage"),
	}, nil
}

// SignUpload requests a signed upload URL for the given object key from the
// Storage API. The returned URL permits exactly one upload.
func (a *Adapter) SignUpload(ctx context.Context, key string) (*storage.SignedUpload, error) {
	signURL := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s",
		a.endpoint, a.bucket, escapePath(key))

	req, err := http.NewRequestWithContext(ctx, "POST", signURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.serviceKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.NewError("supabase", resp.StatusCode, respBody)
	}

	// The Storage API answers with a relative URL carrying the capability
	// token as a query parameter.
	var signResp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &signResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if signResp.URL == "" {
		return nil, fmt.Errorf("no signed url in response")
	}

	a.logger.Debug("signed upload url created", "bucket", a.bucket, "key", key)

	return &storage.SignedUpload{
		SignedURL: a.endpoint + "/storage/v1" + signResp.URL,
		Token:     tokenFromURL(signResp.URL),
		Path:      key,
	}, nil
}

// PublicURL returns the public object URL for a path in the bucket.
func (a *Adapter) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		a.endpoint, a.bucket, escapePath(path))
}

// Bucket returns the configured bucket name.
func (a *Adapter) Bucket() string {
	return a.bucket
}

// escapePath percent-encodes each path segment while keeping separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// tokenFromURL extracts the token query parameter from a signed URL.
func tokenFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}
