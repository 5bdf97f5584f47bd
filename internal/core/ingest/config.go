package ingest

// Config tunes the manual-processing pipeline.
//
// TokenBudget:    max estimated tokens per emitted chunk (e.g., 512).
// OverlapBudget:  token overlap between consecutive windows of a split unit (e.g., 100).
// BatchSize:      how many chunk rows to buffer before one insert (e.g., 10).
// HeadingGap:     vertical-position jump treated as a section boundary.
// MinUnitChars:   accumulated text required before a boundary emits a unit.
// MinWindowWords: split windows at or below this word count are discarded.
type Config struct {
	TokenBudget    int
	OverlapBudget  int
	BatchSize      int
	HeadingGap     float64
	MinUnitChars   int
	MinWindowWords int
}

// DefaultConfig returns the tuning used for the production manuals bucket.
func DefaultConfig() Config {
	return Config{
		TokenBudget:    512,
		OverlapBudget:  100,
		BatchSize:      10,
		HeadingGap:     20.0,
		MinUnitChars:   100,
		MinWindowWords: 50,
	}
}

// withDefaults fills zero-valued fields so a partially built Config
// (common in tests) still behaves sensibly.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TokenBudget <= 0 {
		c.TokenBudget = d.TokenBudget
	}
	if c.OverlapBudget < 0 || c.OverlapBudget >= c.TokenBudget {
		c.OverlapBudget = d.OverlapBudget
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.HeadingGap <= 0 {
		c.HeadingGap = d.HeadingGap
	}
	if c.MinUnitChars <= 0 {
		c.MinUnitChars = d.MinUnitChars
	}
	if c.MinWindowWords <= 0 {
		c.MinWindowWords = d.MinWindowWords
	}
	return c
}
