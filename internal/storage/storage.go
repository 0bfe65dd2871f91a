package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/streamtube/streamtube/internal/config"
)

// Storage is the media host: profile images are uploaded from a local
// temporary path and served by URL. Deletes are best-effort; callers must
// never fail a request on a delete error.
type Storage struct {
	client     *minio.Client
	bucketName string
	baseURL    string
}

// Asset identifies an uploaded object and its public URL. ObjectName is kept
// so the asset can be deleted when replaced.
type Asset struct {
	URL        string `json:"url"`
	ObjectName string `json:"object_name"`
}

// New creates a new storage client
func New(cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
		baseURL:    fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName),
	}, nil
}

// UploadFile uploads a local file and returns its asset descriptor. The
// object name is random; the original filename only contributes its
// extension.
func (s *Storage) UploadFile(ctx context.Context, localPath string) (*Asset, error) {
	objectName := fmt.Sprintf("images/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(localPath)))
	contentType := getContentType(localPath)

	_, err := s.client.FPutObject(ctx, s.bucketName, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &Asset{
		URL:        s.publicURL(objectName),
		ObjectName: objectName,
	}, nil
}

// Remove deletes an object from storage
func (s *Storage) Remove(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (s *Storage) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, objectName)
}

// getContentType returns the content type based on file extension
func getContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
