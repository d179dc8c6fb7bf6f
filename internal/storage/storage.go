// Package storage wraps the object storage bucket: upload-by-path for
// avatars, banners, icons and post images, plus time-limited signed URLs for
// video lesson delivery.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// Storage errors.
var (
	// ErrSigningUnavailable means no bucket is configured or the credentials
	// cannot sign URLs; the HTTP layer maps it to 501.
	ErrSigningUnavailable = errors.New("signed URL issuing is not available")
	ErrPathRequired       = errors.New("object path is required")
)

// Service issues uploads and signed URLs against the configured bucket.
type Service struct {
	bucket    *gcs.BucketHandle
	signedTTL time.Duration
}

// NewService obtains the bucket handle from the Firebase app. A nil app or an
// unset bucket yields a Service that reports ErrSigningUnavailable on use, so
// the rest of the API keeps working without object storage configured.
func NewService(ctx context.Context, app *firebase.App, bucketName string, signedTTL time.Duration) (*Service, error) {
	if signedTTL <= 0 {
		signedTTL = 15 * time.Minute
	}
	svc := &Service{signedTTL: signedTTL}

	if app == nil || bucketName == "" {
		return svc, nil
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage bucket '%s': %w", bucketName, err)
	}
	svc.bucket = bucket

	return svc, nil
}

// Upload writes the reader's content to the given object path and returns the
// stored path. No resumable-upload or checksum contract is relied upon.
func (s *Service) Upload(ctx context.Context, path string, contentType string, r io.Reader) (string, error) {
	if s.bucket == nil {
		return "", ErrSigningUnavailable
	}
	if path == "" {
		return "", ErrPathRequired
	}

	w := s.bucket.Object(path).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload object '%s': %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload of object '%s': %w", path, err)
	}

	return path, nil
}

// SignedURL issues a time-limited GET URL for the given object path.
func (s *Service) SignedURL(path string) (string, error) {
	if s.bucket == nil {
		return "", ErrSigningUnavailable
	}
	if path == "" {
		return "", ErrPathRequired
	}

	url, err := s.bucket.SignedURL(path, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().UTC().Add(s.signedTTL),
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for object '%s': %w", path, err)
	}
	return url, nil
}

// TTL returns the signed URL lifetime, used as the cache expiry.
func (s *Service) TTL() time.Duration {
	return s.signedTTL
}
