package postgresdb

import (
	"context"
	"errors"
	"fmt"

	"object-updater/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoUploads = errors.New("no uploads recorded")

const schema = `
	CREATE TABLE IF NOT EXISTS object_uploads (
		id           UUID PRIMARY KEY,
		bucket       TEXT NOT NULL,
		object_key   TEXT NOT NULL,
		sha256       TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size_bytes   BIGINT NOT NULL,
		updated      BOOLEAN NOT NULL,
		recorded_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS object_uploads_key_idx
		ON object_uploads (bucket, object_key, recorded_at DESC);
	`

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		return nil, fmt.Errorf("ERROR: database connection string is required")
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("ERROR: unable to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("ERROR: unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ERROR: unable to ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ERROR: unable to create object_uploads table: %w", err)
	}
	return nil
}

func (s *Store) RecordUpload(ctx context.Context, rec models.UploadRecord) error {

	sql := `
		INSERT INTO object_uploads (id, bucket, object_key, sha256, content_type, size_bytes, updated, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

	_, err := s.Pool.Exec(
		ctx,
		sql,
		rec.ID,
		rec.Bucket,
		rec.Key,
		rec.SHA256,
		rec.ContentType.String(),
		rec.SizeBytes,
		rec.Updated,
		rec.RecordedAt,
	)

	if err != nil {
		return fmt.Errorf("ERROR: failed to record upload of %s/%s: %w", rec.Bucket, rec.Key, err)
	}

	return nil
}

// LatestUpload returns the most recent record for the key.
func (s *Store) LatestUpload(ctx context.Context, bucket, key string) (*models.UploadRecord, error) {

	var rec models.UploadRecord

	// convert to tag after scanning
	var contentType string

	sql := `
        SELECT id, bucket, object_key, sha256, content_type, size_bytes, updated, recorded_at
        FROM object_uploads
        WHERE bucket = $1 AND object_key = $2
        ORDER BY recorded_at DESC
        LIMIT 1
        `

	err := s.Pool.QueryRow(
		ctx,
		sql,
		bucket,
		key,
	).Scan(
		&rec.ID,
		&rec.Bucket,
		&rec.Key,
		&rec.SHA256,
		&contentType,
		&rec.SizeBytes,
		&rec.Updated,
		&rec.RecordedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, ErrNoUploads)
	}
	if err != nil {
		return nil, fmt.Errorf("ERROR: failed to retrieve upload record: %w", err)
	}

	ct, err := models.ParseContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("ERROR: database contains invalid content type string: %w", err)
	}
	rec.ContentType = ct

	return &rec, nil
}
