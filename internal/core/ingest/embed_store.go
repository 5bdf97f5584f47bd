package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unimoghub/manuals/internal/core"
	"github.com/unimoghub/manuals/internal/models"
)

// embedAndPersist embeds each chunk in order, one provider call at a time,
// buffering rows and flushing them in groups of BatchSize. A provider failure
// aborts the run; batches already flushed are not rolled back. Returns the
// number of rows persisted.
func (p *Pipeline) embedAndPersist(ctx context.Context, manualID string, chunks []Chunk) (int, error) {
	batch := make([]models.ManualChunk, 0, p.cfg.BatchSize)
	inserted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.store.InsertManualChunks(ctx, batch); err != nil {
			return fmt.Errorf("%w: insert %d chunks: %v", core.ErrPersistence, len(batch), err)
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, c := range chunks {
		vecs, err := p.embedder.EmbedTexts(ctx, []string{c.Text})
		if err != nil {
			return inserted, fmt.Errorf("%w: chunk %d: %v", core.ErrEmbedding, c.Index, err)
		}
		if len(vecs) != 1 || len(vecs[0]) == 0 {
			return inserted, fmt.Errorf("%w: chunk %d: malformed embedding response", core.ErrEmbedding, c.Index)
		}

		batch = append(batch, models.ManualChunk{
			ID:           uuid.NewString(),
			ManualID:     manualID,
			ChunkIndex:   c.Index,
			Content:      c.Text,
			ContentType:  string(c.ContentType),
			PageNumber:   c.Page,
			SectionTitle: c.SectionTitle,
			Embedding:    vecs[0],
			TokenCount:   c.TokenCount,
			CreatedAt:    time.Now(),
		})

		if len(batch) >= p.cfg.BatchSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}

	if err := flush(); err != nil {
		return inserted, err
	}
	return inserted, nil
}
