// Package storage keeps donation photos in Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// GCSImageStore uploads images into one bucket
type GCSImageStore struct {
	client *storage.Client
	bucket string
	log    *zap.Logger
}

// NewGCSImageStore creates a store for bucket. An empty credentialsFile uses
// application default credentials.
func NewGCSImageStore(ctx context.Context, bucket, credentialsFile string, log *zap.Logger) (*GCSImageStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", credentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSImageStore{client: client, bucket: bucket, log: log}, nil
}

// Upload writes the image and returns its public URL
func (s *GCSImageStore) Upload(ctx context.Context, donationID, fileName, contentType string, r io.Reader) (string, error) {
	name := objectName(donationID, fileName)

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to copy %s to GCS object %s: %w", fileName, name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", name, err)
	}

	s.log.Info("✅ Image uploaded",
		zap.String("donation_id", donationID),
		zap.String("object", name),
	)
	return publicURL(s.bucket, name), nil
}

// Close releases the client
func (s *GCSImageStore) Close() error {
	return s.client.Close()
}

// objectName places each image under its donation with a random name
func objectName(donationID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("donations/%s/%s%s", donationID, uuid.NewString(), ext)
}

func publicURL(bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, bucket, (&url.URL{Path: object}).EscapedPath())
}
