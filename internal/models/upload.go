package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadRecord is one audited Update call.
type UploadRecord struct {
	ID uuid.UUID `json:"id" db:"id"`

	Bucket string `json:"bucket" db:"bucket"`

	Key string `json:"key" db:"object_key"`

	SHA256 string `json:"sha256" db:"sha256"`

	ContentType ContentType `json:"content_type" db:"content_type"`

	SizeBytes int64 `json:"size_bytes" db:"size_bytes"`

	// Updated is false when the stored bytes already matched.
	Updated bool `json:"updated" db:"updated"`

	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// NewUploadRecord stamps a record with a time-ordered ID.
func NewUploadRecord(bucket, key, digest string, ct ContentType, size int, updated bool) (UploadRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return UploadRecord{}, err
	}

	return UploadRecord{
		ID:          id,
		Bucket:      bucket,
		Key:         key,
		SHA256:      digest,
		ContentType: ct,
		SizeBytes:   int64(size),
		Updated:     updated,
		RecordedAt:  time.Now().UTC(),
	}, nil
}
