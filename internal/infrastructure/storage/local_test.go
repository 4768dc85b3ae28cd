package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/port"
)

func TestLocalEvidenceStorage_Upload(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	store := NewLocalEvidenceStorage(tempDir, logger)

	t.Run("stores content under the case directory", func(t *testing.T) {
		obj, err := store.Upload(context.Background(), port.UploadInput{
			RecordID:    "case-1",
			FileName:    "Clearance Form.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4"),
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(obj.StoragePath, filepath.Join("cases", "case-1")+string(filepath.Separator)))
		assert.True(t, strings.HasSuffix(obj.StoragePath, "_Clearance Form.pdf"))
		assert.Equal(t, "file://"+obj.StoragePath, obj.Ref)
		assert.Equal(t, int64(8), obj.SizeBytes)

		content, err := os.ReadFile(filepath.Join(tempDir, obj.StoragePath))
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), content)
	})

	t.Run("repeated uploads of the same name stay distinct", func(t *testing.T) {
		first, err := store.Upload(context.Background(), port.UploadInput{
			RecordID: "case-2",
			FileName: "letter.pdf",
			Content:  []byte("one"),
		})
		require.NoError(t, err)

		second, err := store.Upload(context.Background(), port.UploadInput{
			RecordID: "case-2",
			FileName: "letter.pdf",
			Content:  []byte("two"),
		})
		require.NoError(t, err)

		assert.NotEqual(t, first.StoragePath, second.StoragePath)
	})

	t.Run("strips directory components from the file name", func(t *testing.T) {
		obj, err := store.Upload(context.Background(), port.UploadInput{
			RecordID: "case-3",
			FileName: "../../../etc/passwd",
			Content:  []byte("data"),
		})

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(obj.StoragePath, "_passwd"))
		assert.FileExists(t, filepath.Join(tempDir, obj.StoragePath))
	})
}

func TestLocalEvidenceStorage_Remove(t *testing.T) {
	tempDir := t.TempDir()
	logger, _ := zap.NewDevelopment()
	store := NewLocalEvidenceStorage(tempDir, logger)

	t.Run("deletes a stored object", func(t *testing.T) {
		obj, err := store.Upload(context.Background(), port.UploadInput{
			RecordID: "case-1",
			FileName: "exit checklist.pdf",
			Content:  []byte("data"),
		})
		require.NoError(t, err)

		require.NoError(t, store.Remove(context.Background(), obj.StoragePath))
		assert.NoFileExists(t, filepath.Join(tempDir, obj.StoragePath))
	})

	t.Run("removing a missing object succeeds", func(t *testing.T) {
		assert.NoError(t, store.Remove(context.Background(), "cases/case-1/gone.pdf"))
	})

	t.Run("rejects paths escaping the base directory", func(t *testing.T) {
		err := store.Remove(context.Background(), "../outside.txt")
		assert.Error(t, err)
	})
}
