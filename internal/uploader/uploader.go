// Package uploader writes payloads to an object store only when they differ
// from what is already stored under the same key.
package uploader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "object-updater/internal/errors"
	"object-updater/internal/models"
	"object-updater/internal/objectstore"
)

// Recorder receives an audit record after every write. Unchanged objects
// produce no record.
type Recorder interface {
	RecordUpload(ctx context.Context, rec models.UploadRecord) error
}

// UploadError is returned when the write step fails. It matches
// apperrors.ErrUploadFailed and carries no store cause.
type UploadError struct {
	Bucket string
	Key    string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s %s/%s", apperrors.ErrUploadFailed, e.Bucket, e.Key)
}

func (e *UploadError) Is(target error) bool {
	return target == apperrors.ErrUploadFailed
}

// Uploader performs read-compare-write against a single bucket. It holds no
// mutable state and is safe for concurrent use; calls for the same key are
// not serialized (see Serialized).
type Uploader struct {
	store    objectstore.FileStorer
	bucket   string
	logger   zerolog.Logger
	recorder Recorder
}

type Option func(*Uploader)

func WithLogger(logger zerolog.Logger) Option {
	return func(u *Uploader) {
		u.logger = logger
	}
}

func WithRecorder(r Recorder) Option {
	return func(u *Uploader) {
		u.recorder = r
	}
}

func New(store objectstore.FileStorer, bucket string, opts ...Option) (*Uploader, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required: %w", apperrors.ErrInvalidInput)
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required: %w", apperrors.ErrInvalidInput)
	}

	u := &Uploader{
		store:  store,
		bucket: bucket,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}

	return u, nil
}

func (u *Uploader) Bucket() string {
	return u.bucket
}

// Update stores payload at key unless the stored object is byte-identical.
// It reports whether a write happened. A missing or unreadable object counts
// as nothing stored, so the first write for a key always proceeds.
func (u *Uploader) Update(ctx context.Context, payload []byte, key string, contentType models.ContentType) (bool, error) {
	digest := Digest(payload)
	log := u.logger.With().
		Str("bucket", u.bucket).
		Str("key", key).
		Str("content_type", contentType.String()).
		Logger()

	existing := u.read(ctx, key)
	switch existing.state {
	case readAbsent:
		log.Debug().Msg("no stored object")
	case readFailed:
		log.Warn().Err(existing.err).Msg("read failed, treating stored object as empty")
	}

	if !existing.differs(payload) {
		log.Debug().Str("sha256", digest).Msg("stored object unchanged")
		return false, nil
	}

	mime, _ := contentType.MIME()
	if err := u.store.Upload(ctx, bytes.NewReader(payload), u.bucket, key, mime); err != nil {
		log.Error().Err(err).Msg("upload failed")
		return false, &UploadError{Bucket: u.bucket, Key: key}
	}

	log.Info().Str("sha256", digest).Int("size", len(payload)).Msg("object updated")
	u.record(ctx, log, key, digest, contentType, len(payload))

	return true, nil
}

func (u *Uploader) read(ctx context.Context, key string) readResult {
	body, err := u.store.Download(ctx, u.bucket, key)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return readResult{state: readAbsent}
		}
		return readResult{state: readFailed, err: err}
	}

	return readResult{state: readFound, body: body}
}

func (u *Uploader) record(ctx context.Context, log zerolog.Logger, key, digest string, ct models.ContentType, size int) {
	if u.recorder == nil {
		return
	}

	rec, err := models.NewUploadRecord(u.bucket, key, digest, ct, size, true)
	if err == nil {
		err = u.recorder.RecordUpload(ctx, rec)
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to record upload")
	}
}

// Digest is the hex sha256 of payload, used in logs and audit records.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
