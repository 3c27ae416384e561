// Package imagehost talks to the external service that holds uploaded images.
package imagehost

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/models"
)

var (
	// ErrUpload wraps every failure to store an image on the host.
	ErrUpload = errors.New("image upload failed")
	// ErrDelete wraps every failure to remove an image from the host.
	ErrDelete = errors.New("image delete failed")
)

// Host is the two-operation contract of the hosted image store.
type Host interface {
	// Upload sends the local file and returns where it is served from.
	Upload(ctx context.Context, localPath string) (models.Image, error)
	// Delete removes a previously uploaded image by its public id.
	Delete(ctx context.Context, publicID string) error
}

// New builds the host selected by IMAGE_HOST.
func New(cfg config.AppConfig) (Host, error) {
	switch cfg.ImageHost {
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	case "minio":
		return NewMinio(MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown image host %q", cfg.ImageHost)
	}
}
