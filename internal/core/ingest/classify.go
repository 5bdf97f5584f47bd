package ingest

import (
	"regexp"
	"strings"
)

// ContentType classifies what kind of manual content a chunk holds.
type ContentType string

const (
	TypeText           ContentType = "text"
	TypeTable          ContentType = "table"
	TypeDiagramCaption ContentType = "diagram_caption"
	TypeProcedure      ContentType = "procedure"
)

var (
	diagramCaptionRe = regexp.MustCompile(`(?i)^(Figure|Fig\.|Diagram|Chart)`)
	procedureLineRe  = regexp.MustCompile(`(?m)^(Step \d|\d+\.)`)
)

// DetectContentType classifies a text unit. Rules apply in priority order;
// the result is a pure function of the text.
func DetectContentType(text string) ContentType {
	switch {
	case isTable(text):
		return TypeTable
	case isDiagramCaption(text):
		return TypeDiagramCaption
	case isProcedure(text):
		return TypeProcedure
	default:
		return TypeText
	}
}

// isTable treats more than four pipe delimiters as tabular content
// (five or more pipe-separated columns).
func isTable(text string) bool {
	return strings.Count(text, "|") > 4
}

func isDiagramCaption(text string) bool {
	return diagramCaptionRe.MatchString(text)
}

// isProcedure matches step lists: a line starting "Step <n>" or "<n>.",
// and the text must span multiple lines.
func isProcedure(text string) bool {
	return procedureLineRe.MatchString(text) && strings.Contains(text, "\n")
}
