package imagehost

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/blogforge/blogd/models"
)

// MinioOptions configures an S3 compatible bucket.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base images are served from; defaults to the endpoint.
	PublicURL string
}

// Minio stores images in a MinIO (or any S3 compatible) bucket.
type Minio struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinio creates a client for the configured bucket.
func NewMinio(opts MinioOptions) (*Minio, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio configuration: %w", err)
	}
	return &Minio{client: client, bucket: opts.Bucket, baseURL: publicBase(opts)}, nil
}

func publicBase(opts MinioOptions) string {
	if opts.PublicURL != "" {
		return strings.TrimRight(opts.PublicURL, "/")
	}
	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + opts.Endpoint
}

// objectURL is where a stored object can be fetched from.
func (m *Minio) objectURL(object string) string {
	return m.baseURL + "/" + m.bucket + "/" + object
}

// Upload implements Host.
func (m *Minio) Upload(ctx context.Context, localPath string) (models.Image, error) {
	ext := strings.ToLower(filepath.Ext(localPath))
	object := uuid.NewString() + ext
	_, err := m.client.FPutObject(ctx, m.bucket, object, localPath, minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(ext),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return models.Image{URL: m.objectURL(object), PublicID: object}, nil
}

// Delete implements Host.
func (m *Minio) Delete(ctx context.Context, publicID string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	return nil
}
