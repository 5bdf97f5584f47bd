package core

import (
	"context"

	"github.com/unimoghub/manuals/internal/models"
)

// Store defines all persistence operations the service needs.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type Store interface {
	// UpsertManual inserts the metadata row or, when the filename already
	// exists, updates it in place; ID and CreatedAt are replaced with the
	// stored row's values.
	UpsertManual(ctx context.Context, m *models.Manual) error
	GetManualByID(ctx context.Context, id string) (*models.Manual, error)
	GetManualByFilename(ctx context.Context, filename string) (*models.Manual, error)
	ListManuals(ctx context.Context) ([]models.Manual, error)
	UpdateManualChunkCount(ctx context.Context, id string, count int) error
	DeleteManual(ctx context.Context, id string) error

	InsertManualChunks(ctx context.Context, chunks []models.ManualChunk) error
	DeleteChunksByManual(ctx context.Context, manualID string) error
	GetChunksByManual(ctx context.Context, manualID string) ([]models.ManualChunk, error)

	SearchManualChunks(ctx context.Context, queryVec []float32, manualID string, limit int) ([]models.ManualChunk, error)

	Close() error
}

// ObjectStore defines interactions with S3 or any object storage.
// Abstract so AWS can be swapped for MinIO, GCP, etc.
type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
