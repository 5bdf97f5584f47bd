package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimoghub/manuals/internal/core"
	"github.com/unimoghub/manuals/internal/models"
)

type fakeStore struct {
	manual       *models.Manual
	chunks       []models.ManualChunk
	insertCalls  []int // batch sizes in call order
	deleteCalls  int
	chunkCount   int
	insertErrors map[int]error // keyed by call ordinal, 0-based
}

func (s *fakeStore) UpsertManual(ctx context.Context, m *models.Manual) error {
	s.manual = m
	return nil
}

func (s *fakeStore) GetManualByID(ctx context.Context, id string) (*models.Manual, error) {
	return s.manual, nil
}

func (s *fakeStore) GetManualByFilename(ctx context.Context, filename string) (*models.Manual, error) {
	return s.manual, nil
}

func (s *fakeStore) ListManuals(ctx context.Context) ([]models.Manual, error) { return nil, nil }

func (s *fakeStore) UpdateManualChunkCount(ctx context.Context, id string, count int) error {
	s.chunkCount = count
	return nil
}

func (s *fakeStore) DeleteManual(ctx context.Context, id string) error { return nil }

func (s *fakeStore) InsertManualChunks(ctx context.Context, chunks []models.ManualChunk) error {
	call := len(s.insertCalls)
	s.insertCalls = append(s.insertCalls, len(chunks))
	if err := s.insertErrors[call]; err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *fakeStore) DeleteChunksByManual(ctx context.Context, manualID string) error {
	s.deleteCalls++
	s.chunks = nil
	return nil
}

func (s *fakeStore) GetChunksByManual(ctx context.Context, manualID string) ([]models.ManualChunk, error) {
	return s.chunks, nil
}

func (s *fakeStore) SearchManualChunks(ctx context.Context, queryVec []float32, manualID string, limit int) ([]models.ManualChunk, error) {
	return nil, nil
}

func (s *fakeStore) Close() error { return nil }

type fakeObjects struct {
	data []byte
	err  error
}

func (o *fakeObjects) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	return "", nil
}

func (o *fakeObjects) DeleteFile(ctx context.Context, bucket, key string) error { return nil }

func (o *fakeObjects) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	return o.data, o.err
}

// fakeEmbedder returns a fixed vector per text, failing on the Nth call
// (1-based) when failOn is set.
type fakeEmbedder struct {
	calls  int
	failOn int
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.failOn > 0 && e.calls == e.failOn {
		return nil, errors.New("provider unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeExtractor ignores the file bytes and returns canned units.
type fakeExtractor struct {
	units []Unit
	err   error
}

func (e *fakeExtractor) Extract(data []byte) ([]Unit, error) { return e.units, e.err }

func smallUnits(n int) []Unit {
	units := make([]Unit, n)
	for i := range units {
		units[i] = Unit{
			Text:         fmt.Sprintf("unit %d torque values for the portal hubs", i),
			Page:         i + 1,
			SectionTitle: "TORQUE",
			ContentType:  TypeText,
		}
	}
	return units
}

func newTestPipeline(store *fakeStore, objects *fakeObjects, embedder *fakeEmbedder, ex Extractor) *Pipeline {
	return NewPipeline(store, objects, embedder, ex, DefaultConfig())
}

func TestProcessHappyPath(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	ex := &fakeExtractor{units: smallUnits(3)}
	p := newTestPipeline(store, &fakeObjects{data: []byte("pdfbytes")}, embedder, ex)

	res, err := p.Process(context.Background(), Request{
		Bucket:   "manuals",
		Filename: "U1700-workshop-manual.pdf",
	})

	require.NoError(t, err)
	require.NotNil(t, store.manual)

	assert.Equal(t, store.manual.ID, res.ManualID)
	assert.Equal(t, "U1700 workshop manual", res.Title)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 3, res.ChunksCreated)
	assert.Contains(t, res.ModelCodes, "U1700")
	assert.Equal(t, "workshop", res.Category)

	require.Len(t, store.chunks, 3)
	for i, c := range store.chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, store.manual.ID, c.ManualID)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, c.Embedding)
		assert.Equal(t, "TORQUE", c.SectionTitle)
		assert.Positive(t, c.TokenCount)
	}
	assert.Equal(t, 3, store.chunkCount)
	assert.Equal(t, 3, embedder.calls, "one provider call per chunk")
}

func TestProcessMissingObjectWritesNothing(t *testing.T) {
	store := &fakeStore{}
	objects := &fakeObjects{err: fmt.Errorf("%w: no such key", core.ErrNotFound)}
	p := newTestPipeline(store, objects, &fakeEmbedder{}, &fakeExtractor{})

	res, err := p.Process(context.Background(), Request{Bucket: "manuals", Filename: "missing.pdf"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Nil(t, res)
	assert.Nil(t, store.manual)
	assert.Empty(t, store.chunks)
}

func TestProcessNoTextContent(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &fakeObjects{data: []byte("x")}, &fakeEmbedder{}, &fakeExtractor{})

	_, err := p.Process(context.Background(), Request{Bucket: "manuals", Filename: "blank.pdf"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrParse)
	assert.Nil(t, store.manual)
}

func TestProcessFlushesInBatches(t *testing.T) {
	store := &fakeStore{}
	ex := &fakeExtractor{units: smallUnits(25)}
	p := newTestPipeline(store, &fakeObjects{data: []byte("x")}, &fakeEmbedder{}, ex)

	res, err := p.Process(context.Background(), Request{Bucket: "manuals", Filename: "m.pdf"})

	require.NoError(t, err)
	assert.Equal(t, 25, res.ChunksCreated)
	assert.Equal(t, []int{10, 10, 5}, store.insertCalls)
	assert.Len(t, store.chunks, 25)
}

func TestProcessEmbedFailureKeepsFlushedBatches(t *testing.T) {
	// Failure embedding chunk 15 of 40: the first full batch of 10 is
	// already on disk, chunks 10-14 were buffered only, nothing after 15
	// was attempted.
	store := &fakeStore{}
	embedder := &fakeEmbedder{failOn: 16}
	ex := &fakeExtractor{units: smallUnits(40)}
	p := newTestPipeline(store, &fakeObjects{data: []byte("x")}, embedder, ex)

	res, err := p.Process(context.Background(), Request{Bucket: "manuals", Filename: "m.pdf"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmbedding)
	assert.Contains(t, err.Error(), "chunk 15")
	assert.Nil(t, res)

	assert.Equal(t, []int{10}, store.insertCalls)
	require.Len(t, store.chunks, 10)
	assert.Equal(t, 9, store.chunks[9].ChunkIndex)
	assert.Equal(t, 0, store.chunkCount, "chunk count untouched on failure")
}

func TestProcessClearsPriorChunksBeforeInsert(t *testing.T) {
	store := &fakeStore{}
	ex := &fakeExtractor{units: smallUnits(4)}
	objects := &fakeObjects{data: []byte("x")}
	p := newTestPipeline(store, objects, &fakeEmbedder{}, ex)

	_, err := p.Process(context.Background(), Request{Bucket: "manuals", Filename: "m.pdf"})
	require.NoError(t, err)
	_, err = p.Process(context.Background(), Request{Bucket: "manuals", Filename: "m.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 2, store.deleteCalls)
	assert.Len(t, store.chunks, 4, "reprocessing replaces, not appends")
}

func TestProcessCallerMetadataWins(t *testing.T) {
	store := &fakeStore{}
	ex := &fakeExtractor{units: smallUnits(1)}
	p := newTestPipeline(store, &fakeObjects{data: []byte("x")}, &fakeEmbedder{}, ex)

	res, err := p.Process(context.Background(), Request{
		Bucket:     "manuals",
		Filename:   "scan0042.pdf",
		Title:      "U406 Hydraulics Supplement",
		ModelCodes: []string{"U406"},
		YearRange:  "1971-1975",
		Category:   "hydraulic",
	})

	require.NoError(t, err)
	assert.Equal(t, "U406 Hydraulics Supplement", res.Title)
	assert.Equal(t, []string{"U406"}, res.ModelCodes)
	assert.Equal(t, "hydraulic", res.Category)
	assert.Equal(t, "1971-1975", store.manual.YearRange)
}

func TestProcessInsertFailureSurfacesPersistenceError(t *testing.T) {
	store := &fakeStore{insertErrors: map[int]error{0: errors.New("connection reset")}}
	ex := &fakeExtractor{units: smallUnits(2)}
	p := newTestPipeline(store, &fakeObjects{data: []byte("x")}, &fakeEmbedder{}, ex)

	_, err := p.Process(context.Background(), Request{Bucket: "manuals", Filename: "m.pdf"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.Empty(t, store.chunks)
}

func TestProcessRequiresFilename(t *testing.T) {
	p := newTestPipeline(&fakeStore{}, &fakeObjects{}, &fakeEmbedder{}, &fakeExtractor{})
	_, err := p.Process(context.Background(), Request{Bucket: "manuals"})
	require.Error(t, err)
}
