package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
)

// GCSEvidenceStorage implements port.EvidenceStorage on Google Cloud
// Storage. Objects use the same cases/<record-id>/ layout as the local
// backend so either can be swapped in via config.
type GCSEvidenceStorage struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// NewGCSEvidenceStorage creates a new GCS-backed evidence storage. When
// credentialsPath is empty, application default credentials are used.
func NewGCSEvidenceStorage(ctx context.Context, bucket, credentialsPath string, logger *zap.Logger) (*GCSEvidenceStorage, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", credentialsPath)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSEvidenceStorage{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Upload writes the evidence content to the bucket.
func (s *GCSEvidenceStorage) Upload(ctx context.Context, in port.UploadInput) (*port.StoredObject, error) {
	path := objectPath(in.RecordID, in.FileName)

	obj := s.client.Bucket(s.bucket).Object(path)
	writer := obj.NewWriter(ctx)
	writer.ContentType = in.ContentType
	writer.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := writer.Write(in.Content); err != nil {
		_ = writer.Close()
		s.logger.Error("Failed to write GCS object",
			zap.String("object", path),
			zap.Error(err))
		return nil, fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer for %s: %w", path, err)
	}

	s.logger.Debug("Evidence object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("object", path))

	return &port.StoredObject{
		Ref:         fmt.Sprintf("gs://%s/%s", s.bucket, path),
		StoragePath: path,
		ContentType: in.ContentType,
		SizeBytes:   int64(len(in.Content)),
	}, nil
}

// Remove deletes one stored object. Removing a missing object succeeds.
func (s *GCSEvidenceStorage) Remove(ctx context.Context, storagePath string) error {
	err := s.client.Bucket(s.bucket).Object(storagePath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to delete GCS object",
			zap.String("object", storagePath),
			zap.Error(err))
		return fmt.Errorf("failed to delete object %s: %w", storagePath, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSEvidenceStorage) Close() error {
	return s.client.Close()
}

// Verify interface compliance
var _ port.EvidenceStorage = (*GCSEvidenceStorage)(nil)
