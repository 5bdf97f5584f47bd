package models

import (
	"time"
)

// Manual represents one processed manual PDF (the document-metadata row).
type Manual struct {
	ID          string    `db:"id" json:"id"`
	Filename    string    `db:"filename" json:"filename"` // unique object key in the manuals bucket
	Title       string    `db:"title" json:"title"`
	ModelCodes  []string  `db:"model_codes" json:"model_codes"` // e.g. U1700, 406, FLU-419
	YearRange   string    `db:"year_range" json:"year_range,omitempty"`
	Category    string    `db:"category" json:"category"` // operator | service | parts | ...
	PageCount   int       `db:"page_count" json:"page_count"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	ChunkCount  int       `db:"chunk_count" json:"chunk_count"`
	UploadedBy  string    `db:"uploaded_by" json:"uploaded_by"`
	ProcessedAt time.Time `db:"processed_at" json:"processed_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ManualChunk is the unit of retrieval: one embedded text segment of a manual.
type ManualChunk struct {
	ID           string    `db:"id" json:"id"`
	ManualID     string    `db:"manual_id" json:"manual_id"`
	ChunkIndex   int       `db:"chunk_index" json:"chunk_index"` // 0-based, gap-free per manual
	Content      string    `db:"content" json:"content"`
	ContentType  string    `db:"content_type" json:"content_type"` // text | table | diagram_caption | procedure
	PageNumber   int       `db:"page_number" json:"page_number"`
	SectionTitle string    `db:"section_title" json:"section_title,omitempty"`
	Embedding    []float32 `db:"embedding" json:"-"` // pgvector column
	TokenCount   int       `db:"token_count" json:"token_count"` // estimate, see ingest.EstimateTokens
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
