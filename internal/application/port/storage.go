package port

import "context"

// UploadInput carries one evidence file into storage.
type UploadInput struct {
	RecordID      string
	EmployeeEmail string
	FileName      string
	ContentType   string
	Content       []byte
}

// StoredObject describes where an uploaded evidence file landed.
type StoredObject struct {
	Ref         string // download URL or opaque reference
	StoragePath string // backend path used for deletion
	ContentType string
	SizeBytes   int64
}

// EvidenceStorage defines evidence file storage operations. Remove is
// best-effort cleanup: callers may swallow its error after logging.
type EvidenceStorage interface {
	Upload(ctx context.Context, in UploadInput) (*StoredObject, error)
	Remove(ctx context.Context, storagePath string) error
}
