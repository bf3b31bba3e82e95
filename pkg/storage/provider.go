// Package storage defines the object storage provider interface used by the
// materials endpoints. Adapters live in subpackages (supabase, s3).
package storage

import "context"

// SignedUpload is a one-shot capability for a direct client-to-storage
// upload. The upload itself happens out-of-band against SignedURL.
type SignedUpload struct {
	// SignedURL is the time-limited URL the client uploads to.
	SignedURL string `json:"signedUrl"`

	// Token is the capability token, when the backend issues one separately
	// from the URL (Supabase does; S3 embeds it in the URL query).
	Token string `json:"token,omitempty"`

	// Path is the object key the upload will be stored under.
	Path string `json:"path"`
}

// Provider mints signed upload URLs and resolves public URLs for a single
// fixed bucket. Implementations are safe for concurrent use.
type Provider interface {
	// SignUpload requests a time-limited signed upload URL for the given
	// object key.
	SignUpload(ctx context.Context, key string) (*SignedUpload, error)

	// PublicURL returns the publicly resolvable URL for an object path.
	// Pure lookup, no side effects.
	PublicURL(path string) string

	// Bucket returns the bucket name the provider operates on.
	Bucket() string
}
