package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unimoghub/manuals/internal/core"
	"github.com/unimoghub/manuals/internal/models"
)

// Pipeline runs one manual through load -> extract -> chunk -> embed -> persist.
// Each invocation owns its own state; multiple manuals are processed by
// invoking Process concurrently (see Worker).
type Pipeline struct {
	store     core.Store
	objects   core.ObjectStore
	embedder  core.EmbeddingProvider
	extractor Extractor
	cfg       Config
}

func NewPipeline(store core.Store, objects core.ObjectStore, embedder core.EmbeddingProvider, extractor Extractor, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	if extractor == nil {
		extractor = NewPDFExtractor(cfg)
	}
	return &Pipeline{
		store:     store,
		objects:   objects,
		embedder:  embedder,
		extractor: extractor,
		cfg:       cfg,
	}
}

// Process is strictly sequential: download, extract, chunk, then embed and
// persist in order. Every stage fails fast; the caller records the failed
// status. Reprocessing the same filename replaces the prior chunk set.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	data, err := p.objects.GetFile(ctx, req.Bucket, req.Filename)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", req.Bucket, req.Filename, err)
	}

	units, err := p.extractor.Extract(data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", req.Filename, err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("extract %s: %w: no text content", req.Filename, core.ErrParse)
	}

	chunks := SplitUnits(units, p.cfg)

	manual, err := p.upsertMetadata(ctx, req, units, chunks, int64(len(data)))
	if err != nil {
		return nil, err
	}

	// Idempotent reprocess: drop any chunk set from a previous run before
	// inserting the new one.
	if err := p.store.DeleteChunksByManual(ctx, manual.ID); err != nil {
		return nil, fmt.Errorf("%w: clear chunks for %s: %v", core.ErrPersistence, manual.ID, err)
	}

	inserted, err := p.embedAndPersist(ctx, manual.ID, chunks)
	if err != nil {
		return nil, err
	}

	if err := p.store.UpdateManualChunkCount(ctx, manual.ID, inserted); err != nil {
		return nil, fmt.Errorf("%w: record chunk count: %v", core.ErrPersistence, err)
	}

	return &Result{
		ManualID:      manual.ID,
		Title:         manual.Title,
		Pages:         manual.PageCount,
		ChunksCreated: inserted,
		ModelCodes:    manual.ModelCodes,
		Category:      manual.Category,
	}, nil
}

// upsertMetadata writes the document-level row before chunk insertion so the
// parent record exists for chunks to reference. Caller-supplied metadata wins;
// blanks are derived from the filename and the first page of text.
func (p *Pipeline) upsertMetadata(ctx context.Context, req Request, units []Unit, chunks []Chunk, size int64) (*models.Manual, error) {
	firstPage := ""
	if len(units) > 0 {
		firstPage = units[0].Text
	}

	title := req.Title
	if title == "" {
		title = TitleFromFilename(req.Filename)
	}
	codes := req.ModelCodes
	if len(codes) == 0 {
		codes = ExtractModelCodes(firstPage + " " + req.Filename)
	}
	yearRange := req.YearRange
	if yearRange == "" {
		yearRange = ExtractYearRange(firstPage)
	}
	category := req.Category
	if category == "" {
		category = CategorizeManual(req.Filename, firstPage)
	}

	pageCount := 0
	for _, c := range chunks {
		if c.Page > pageCount {
			pageCount = c.Page
		}
	}

	manual := &models.Manual{
		ID:          uuid.NewString(),
		Filename:    req.Filename,
		Title:       title,
		ModelCodes:  codes,
		YearRange:   yearRange,
		Category:    category,
		PageCount:   pageCount,
		FileSize:    size,
		UploadedBy:  req.UploadedBy,
		ProcessedAt: time.Now(),
		CreatedAt:   time.Now(),
	}

	if err := p.store.UpsertManual(ctx, manual); err != nil {
		return nil, fmt.Errorf("%w: save manual metadata: %v", core.ErrPersistence, err)
	}
	return manual, nil
}
