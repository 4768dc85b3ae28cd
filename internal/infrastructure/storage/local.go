package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
)

// LocalEvidenceStorage implements port.EvidenceStorage on the local
// filesystem. Objects are laid out as cases/<record-id>/<uuid>_<name>.
type LocalEvidenceStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalEvidenceStorage creates a new LocalEvidenceStorage
func NewLocalEvidenceStorage(baseDir string, logger *zap.Logger) port.EvidenceStorage {
	return &LocalEvidenceStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Upload writes the evidence content under the case's directory.
func (s *LocalEvidenceStorage) Upload(ctx context.Context, in port.UploadInput) (*port.StoredObject, error) {
	relPath := objectPath(in.RecordID, in.FileName)
	fullPath := filepath.Join(s.baseDir, relPath)

	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create evidence directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, in.Content, 0644); err != nil {
		s.logger.Error("Failed to write evidence file",
			zap.String("path", fullPath),
			zap.Error(err))
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Evidence file saved",
		zap.String("path", relPath),
		zap.Int("size", len(in.Content)))

	return &port.StoredObject{
		Ref:         "file://" + relPath,
		StoragePath: relPath,
		ContentType: in.ContentType,
		SizeBytes:   int64(len(in.Content)),
	}, nil
}

// Remove deletes one stored object. Removing a missing object succeeds.
func (s *LocalEvidenceStorage) Remove(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.baseDir, storagePath)

	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to delete evidence file",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// validatePath checks that the path stays within baseDir
func (s *LocalEvidenceStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}

// objectPath builds the storage-relative path for an evidence object.
// The uuid prefix keeps repeated uploads of the same filename distinct.
func objectPath(recordID, fileName string) string {
	safe := filepath.Base(strings.TrimSpace(fileName))
	return filepath.Join("cases", recordID, uuid.NewString()+"_"+safe)
}

// Verify interface compliance
var _ port.EvidenceStorage = (*LocalEvidenceStorage)(nil)
