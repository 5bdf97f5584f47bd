package ingest

import (
	"fmt"
	"math"
	"strings"
)

// tokensPerWord is a deterministic proxy for a real tokenizer; English
// technical prose averages roughly 1.3 tokens per whitespace word.
const tokensPerWord = 1.3

// EstimateTokens returns ceil(word_count * 1.3) for whitespace-delimited words.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * tokensPerWord))
}

// SplitUnits enforces the token budget over extracted units. Units within
// budget pass through as a single chunk; oversized units are split into
// overlapping word windows. Chunk indices are assigned sequentially from 0
// in emission order across the whole document.
func SplitUnits(units []Unit, cfg Config) []Chunk {
	cfg = cfg.withDefaults()

	window := int(math.Floor(float64(cfg.TokenBudget) / tokensPerWord))
	overlap := int(math.Floor(float64(cfg.OverlapBudget) / tokensPerWord))
	step := window - overlap
	if step <= 0 {
		step = window
	}

	var chunks []Chunk
	for _, u := range units {
		words := strings.Fields(u.Text)
		if EstimateTokens(u.Text) <= cfg.TokenBudget {
			chunks = append(chunks, Chunk{
				Text:         u.Text,
				Page:         u.Page,
				SectionTitle: u.SectionTitle,
				ContentType:  u.ContentType,
				TokenCount:   EstimateTokens(u.Text),
			})
			continue
		}

		part := 0
		for i := 0; i < len(words); i += step {
			end := i + window
			if end > len(words) {
				end = len(words)
			}
			part++
			if end-i <= cfg.MinWindowWords {
				continue
			}
			text := strings.Join(words[i:end], " ")
			title := u.SectionTitle
			if title != "" {
				title = fmt.Sprintf("%s (Part %d)", title, part)
			}
			chunks = append(chunks, Chunk{
				Text:         text,
				Page:         u.Page,
				SectionTitle: title,
				ContentType:  u.ContentType,
				TokenCount:   EstimateTokens(text),
			})
		}
	}

	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}
