package core

import "errors"

// Pipeline error taxonomy. Stages wrap these with %w so callers can
// select behavior with errors.Is without depending on stage internals.
var (
	ErrNotFound     = errors.New("source object not found")
	ErrAccessDenied = errors.New("access to source object denied")
	ErrParse        = errors.New("document could not be parsed")
	ErrEmbedding    = errors.New("embedding provider failed")
	ErrPersistence  = errors.New("datastore write failed")
)
