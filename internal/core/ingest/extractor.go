package ingest

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/unimoghub/manuals/internal/core"
)

// yLineEpsilon separates "same line" from "new line" when comparing
// run positions within a unit.
const yLineEpsilon = 0.5

// PDFExtractor converts a manual PDF into ordered, section-delimited text
// units with page numbers and content-type tags.
type PDFExtractor struct {
	cfg Config
}

func NewPDFExtractor(cfg Config) *PDFExtractor {
	return &PDFExtractor{cfg: cfg.withDefaults()}
}

var _ Extractor = (*PDFExtractor)(nil)

// Extract parses the document page by page. A corrupt or unsupported file
// fails with core.ErrParse and no partial results.
func (e *PDFExtractor) Extract(data []byte) (units []Unit, err error) {
	// The parser panics on some malformed files; fold those into ErrParse.
	defer func() {
		if r := recover(); r != nil {
			units = nil
			err = fmt.Errorf("%w: %v", core.ErrParse, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParse, err)
	}

	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		runs := make([]TextRun, 0, len(content.Text))
		for _, t := range content.Text {
			runs = append(runs, TextRun{Text: t.S, Page: pageNum, Y: t.Y})
		}
		units = append(units, extractPageUnits(runs, pageNum, e.cfg)...)
	}
	return units, nil
}

// extractPageUnits walks one page's runs in presentation order. A vertical
// jump larger than HeadingGap is treated as a section boundary: if enough
// text has accumulated it is emitted as a unit tagged with the section title
// that was active when it began, and the jumping run's text becomes the new
// section title. Smaller vertical movement starts a new line inside the
// accumulator; same-line runs are joined with a space. Any non-empty
// remainder is flushed at end of page.
func extractPageUnits(runs []TextRun, pageNum int, cfg Config) []Unit {
	var (
		units   []Unit
		acc     strings.Builder
		section string
		curY    float64
		lastY   float64
		haveY   bool
	)

	flush := func() {
		text := strings.TrimSpace(acc.String())
		acc.Reset()
		if text == "" {
			return
		}
		units = append(units, Unit{
			Text:         text,
			Page:         pageNum,
			SectionTitle: section,
			ContentType:  DetectContentType(text),
		})
	}

	for _, run := range runs {
		text := strings.TrimSpace(run.Text)
		if text == "" {
			continue
		}

		if !haveY || math.Abs(run.Y-curY) > cfg.HeadingGap {
			if acc.Len() > cfg.MinUnitChars {
				flush()
			}
			section = text
			curY = run.Y
			haveY = true
		}

		if acc.Len() > 0 {
			if math.Abs(run.Y-lastY) > yLineEpsilon {
				acc.WriteByte('\n')
			} else {
				acc.WriteByte(' ')
			}
		}
		acc.WriteString(text)
		lastY = run.Y
	}

	flush()
	return units
}
