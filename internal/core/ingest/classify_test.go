package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ContentType
	}{
		{
			name: "plain prose",
			text: "The portal axles give the Unimog its ground clearance.",
			want: TypeText,
		},
		{
			name: "five pipe delimiters is a table",
			text: "A|B|C|D|E|F",
			want: TypeTable,
		},
		{
			name: "four pipe delimiters is not a table",
			text: "A|B|C|D|E",
			want: TypeText,
		},
		{
			name: "figure caption",
			text: "Figure 12: Transfer case oil flow",
			want: TypeDiagramCaption,
		},
		{
			name: "fig abbreviation case-insensitive",
			text: "fig. 3 hydraulic schematic",
			want: TypeDiagramCaption,
		},
		{
			name: "chart prefix",
			text: "Chart of torque values",
			want: TypeDiagramCaption,
		},
		{
			name: "step lines across multiple lines",
			text: "Step 1: Remove bolt\nStep 2: Lift cover",
			want: TypeProcedure,
		},
		{
			name: "numbered list across multiple lines",
			text: "1. Drain the oil\n2. Replace the filter",
			want: TypeProcedure,
		},
		{
			name: "step text on a single line is not a procedure",
			text: "Step 1: Remove bolt",
			want: TypeText,
		},
		{
			name: "table wins over procedure",
			text: "1. a|b|c|d|e|f\n2. next row",
			want: TypeTable,
		},
		{
			name: "caption wins over procedure",
			text: "Figure 1\n1. legend item\n2. legend item",
			want: TypeDiagramCaption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.text))
		})
	}
}

func TestDetectContentTypeIsDeterministic(t *testing.T) {
	text := "Step 1: Remove bolt\nStep 2: Lift cover"
	first := DetectContentType(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectContentType(text))
	}
}
