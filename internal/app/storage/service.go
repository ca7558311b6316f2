package storage

import (
	"context"
	"time"
)

// PresignedURLDuration is the validity window for presigned upload and download URLs.
const PresignedURLDuration = 1 * time.Hour

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// UploadDescriptor is a presigned upload target handed to a client.
type UploadDescriptor struct {
	URL       string
	ObjectKey string
}

// Service defines the public interface for the file storage service.
type Service interface {
	// CreateUploadDescriptor generates a presigned PUT URL and object key for
	// a user upload. The URL is valid for PresignedURLDuration.
	CreateUploadDescriptor(ctx context.Context, userID, filename string) (UploadDescriptor, error)

	// PresignDownload generates a presigned GET URL for the given object key.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)
}

// NewService is the factory function for Service.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewService(cfg ServiceConfig) (Service, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
