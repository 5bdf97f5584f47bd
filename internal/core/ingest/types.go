package ingest

import "context"

// TextRun is one positioned text-rendering operation from a page, in the
// order the PDF presents them. Not persisted; consumed by the unit builder.
type TextRun struct {
	Text string
	Page int
	Y    float64
}

// Unit is a section-delimited block of page text before budget splitting.
type Unit struct {
	Text         string
	Page         int
	SectionTitle string
	ContentType  ContentType
}

// Chunk is the final retrieval segment handed to the embed+persist stage.
//
// Index is the zero-based, gap-free position of the chunk within the manual.
type Chunk struct {
	Index        int
	Text         string
	Page         int
	SectionTitle string
	ContentType  ContentType
	TokenCount   int
}

// Request carries everything needed to process one manual. Caller-supplied
// metadata fields are optional; blanks are filled from the extracted text.
type Request struct {
	Bucket     string
	Filename   string
	Title      string
	ModelCodes []string
	YearRange  string
	Category   string
	UploadedBy string
}

// Result is the confirmation payload returned on success.
type Result struct {
	ManualID      string   `json:"manual_id"`
	Title         string   `json:"title"`
	Pages         int      `json:"pages"`
	ChunksCreated int      `json:"chunks_created"`
	ModelCodes    []string `json:"model_codes"`
	Category      string   `json:"category"`
}

// Extractor converts raw document bytes into ordered text units.
type Extractor interface {
	Extract(data []byte) ([]Unit, error)
}

// Ingestor is the processing surface handlers depend on.
type Ingestor interface {
	Process(ctx context.Context, req Request) (*Result, error)
	Enqueue(req Request)
}
