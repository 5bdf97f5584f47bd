package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/unimoghub/manuals/internal/config"
	"github.com/unimoghub/manuals/internal/core"
	"github.com/unimoghub/manuals/internal/models"
)

type StoreClient struct {
	db *sql.DB
}

func NewStoreClient(ctx context.Context, cfg *config.Config) (core.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &StoreClient{db: db}, nil
}

func (c *StoreClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// UpsertManual inserts or replaces the metadata row keyed by filename. The
// stored id and created_at win on conflict and are copied back into m.
func (c *StoreClient) UpsertManual(ctx context.Context, m *models.Manual) error {
	if m == nil {
		return errors.New("nil manual")
	}
	codes, err := json.Marshal(m.ModelCodes)
	if err != nil {
		return fmt.Errorf("encode model codes: %w", err)
	}
	const q = `
		INSERT INTO manual_metadata
			(id, filename, title, model_codes, year_range, category,
			 page_count, file_size, chunk_count, uploaded_by, processed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, COALESCE($11, now()))
		ON CONFLICT (filename) DO UPDATE SET
			title        = EXCLUDED.title,
			model_codes  = EXCLUDED.model_codes,
			year_range   = EXCLUDED.year_range,
			category     = EXCLUDED.category,
			page_count   = EXCLUDED.page_count,
			file_size    = EXCLUDED.file_size,
			uploaded_by  = EXCLUDED.uploaded_by,
			processed_at = EXCLUDED.processed_at
		RETURNING id, created_at
	`
	return c.db.QueryRowContext(ctx, q,
		m.ID, m.Filename, m.Title, codes, nullString(m.YearRange), m.Category,
		m.PageCount, m.FileSize, m.UploadedBy, m.ProcessedAt, m.CreatedAt,
	).Scan(&m.ID, &m.CreatedAt)
}

func (c *StoreClient) GetManualByID(ctx context.Context, id string) (*models.Manual, error) {
	return c.getManual(ctx, `WHERE id = $1`, id)
}

func (c *StoreClient) GetManualByFilename(ctx context.Context, filename string) (*models.Manual, error) {
	return c.getManual(ctx, `WHERE filename = $1`, filename)
}

func (c *StoreClient) getManual(ctx context.Context, where string, arg any) (*models.Manual, error) {
	q := `
		SELECT id, filename, title, model_codes, year_range, category,
		       page_count, file_size, chunk_count, uploaded_by, processed_at, created_at
		FROM manual_metadata ` + where
	var (
		m         models.Manual
		codes     []byte
		yearRange sql.NullString
	)
	err := c.db.QueryRowContext(ctx, q, arg).Scan(
		&m.ID, &m.Filename, &m.Title, &codes, &yearRange, &m.Category,
		&m.PageCount, &m.FileSize, &m.ChunkCount, &m.UploadedBy, &m.ProcessedAt, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(codes, &m.ModelCodes); err != nil {
		return nil, fmt.Errorf("decode model codes: %w", err)
	}
	m.YearRange = yearRange.String
	return &m, nil
}

func (c *StoreClient) ListManuals(ctx context.Context) ([]models.Manual, error) {
	const q = `
		SELECT id, filename, title, model_codes, year_range, category,
		       page_count, file_size, chunk_count, uploaded_by, processed_at, created_at
		FROM manual_metadata
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Manual
	for rows.Next() {
		var (
			m         models.Manual
			codes     []byte
			yearRange sql.NullString
		)
		if err := rows.Scan(
			&m.ID, &m.Filename, &m.Title, &codes, &yearRange, &m.Category,
			&m.PageCount, &m.FileSize, &m.ChunkCount, &m.UploadedBy, &m.ProcessedAt, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(codes, &m.ModelCodes); err != nil {
			return nil, fmt.Errorf("decode model codes: %w", err)
		}
		m.YearRange = yearRange.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *StoreClient) UpdateManualChunkCount(ctx context.Context, id string, count int) error {
	const q = `
		UPDATE manual_metadata
		SET chunk_count = $2, processed_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, count)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("manual not found: %s", id)
	}
	return nil
}

func (c *StoreClient) DeleteManual(ctx context.Context, id string) error {
	// Chunks cascade via the manual_id foreign key.
	const q = `DELETE FROM manual_metadata WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("manual not found: %s", id)
	}
	return nil
}

// InsertManualChunks inserts one batch of chunks in a single transaction.
func (c *StoreClient) InsertManualChunks(ctx context.Context, chunks []models.ManualChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO manual_chunks
			(id, manual_id, chunk_index, content, content_type,
			 page_number, section_title, embedding, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		vec := pgvector.NewVector(ch.Embedding)
		meta, err := json.Marshal(map[string]int{"tokens": ch.TokenCount})
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.ManualID, ch.ChunkIndex, ch.Content, ch.ContentType,
			ch.PageNumber, nullString(ch.SectionTitle), vec, meta, ch.CreatedAt,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (c *StoreClient) DeleteChunksByManual(ctx context.Context, manualID string) error {
	const q = `DELETE FROM manual_chunks WHERE manual_id = $1`
	_, err := c.db.ExecContext(ctx, q, manualID)
	return err
}

func (c *StoreClient) GetChunksByManual(ctx context.Context, manualID string) ([]models.ManualChunk, error) {
	const q = `
		SELECT id, manual_id, chunk_index, content, content_type,
		       page_number, section_title, embedding, metadata, created_at
		FROM manual_chunks
		WHERE manual_id = $1
		ORDER BY chunk_index ASC
	`
	rows, err := c.db.QueryContext(ctx, q, manualID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

// SearchManualChunks finds the top-k chunks nearest to a query embedding,
// optionally restricted to one manual.
func (c *StoreClient) SearchManualChunks(ctx context.Context, queryVec []float32, manualID string, limit int) ([]models.ManualChunk, error) {
	vec := pgvector.NewVector(queryVec)

	var (
		rows *sql.Rows
		err  error
	)
	if manualID != "" {
		const q = `
			SELECT id, manual_id, chunk_index, content, content_type,
			       page_number, section_title, embedding, metadata, created_at
			FROM manual_chunks
			WHERE manual_id = $1
			ORDER BY embedding <=> $2
			LIMIT $3
		`
		rows, err = c.db.QueryContext(ctx, q, manualID, vec, limit)
	} else {
		const q = `
			SELECT id, manual_id, chunk_index, content, content_type,
			       page_number, section_title, embedding, metadata, created_at
			FROM manual_chunks
			ORDER BY embedding <=> $1
			LIMIT $2
		`
		rows, err = c.db.QueryContext(ctx, q, vec, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

func scanChunks(rows *sql.Rows) ([]models.ManualChunk, error) {
	var out []models.ManualChunk
	for rows.Next() {
		var (
			ch      models.ManualChunk
			section sql.NullString
			emb     pgvector.Vector
			meta    []byte
		)
		if err := rows.Scan(
			&ch.ID, &ch.ManualID, &ch.ChunkIndex, &ch.Content, &ch.ContentType,
			&ch.PageNumber, &section, &emb, &meta, &ch.CreatedAt,
		); err != nil {
			return nil, err
		}
		ch.SectionTitle = section.String
		ch.Embedding = emb.Slice()
		var m struct {
			Tokens int `json:"tokens"`
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &m); err == nil {
				ch.TokenCount = m.Tokens
			}
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
