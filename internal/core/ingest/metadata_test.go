package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractModelCodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"u series", "Workshop manual for the U1700L and the U5023", []string{"U1700L", "U5023"}},
		{"404 variant", "Unimog 404.1 radio truck", []string{"404.1"}},
		{"series numbers", "Covers models 406 and 421 chassis", []string{"406", "421"}},
		{"ugn and flu", "UGN platform, also sold as the FLU-419 SEE", []string{"419", "UGN", "FLU-419"}},
		{"duplicates dropped", "U1300 and again U1300", []string{"U1300"}},
		{"nothing", "General lubrication notes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractModelCodes(tt.text))
		})
	}
}

func TestExtractYearRange(t *testing.T) {
	assert.Equal(t, "1975", ExtractYearRange("Production began in 1975."))
	assert.Equal(t, "1966-1989", ExtractYearRange("Built 1966 through 1989, facelift in 1975"))
	assert.Equal(t, "1988", ExtractYearRange("1988 1988 1988"))
	assert.Equal(t, "", ExtractYearRange("no years here, not even 1492 or 2077"))
}

func TestCategorizeManual(t *testing.T) {
	tests := []struct {
		filename string
		content  string
		want     string
	}{
		{"u1700-operator-manual.pdf", "", "operator"},
		{"unimog.pdf", "Owner handbook for daily checks", "operator"},
		{"service-repair-404.pdf", "", "service"},
		{"parts-catalog.pdf", "", "parts"},
		{"u406.pdf", "Workshop procedures", "workshop"},
		{"specs.pdf", "Technical specification sheet", "technical"},
		{"u421.pdf", "wiring diagrams front loom", "electrical"},
		{"u421.pdf", "gearbox overhaul", "transmission"},
		{"u421.pdf", "portal axle teardown", "drivetrain"},
		{"unknown.pdf", "miscellaneous notes", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeManual(tt.filename, tt.content),
			"%s / %s", tt.filename, tt.content)
	}
}

func TestCategorizeManualFirstMatchWins(t *testing.T) {
	// "operator" outranks "engine" even when both appear.
	assert.Equal(t, "operator", CategorizeManual("engine.pdf", "operator guide"))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "u1700 workshop manual", TitleFromFilename("u1700-workshop_manual.pdf"))
	assert.Equal(t, "axle guide", TitleFromFilename("axle guide.PDF"))
	assert.Equal(t, "readme", TitleFromFilename("readme"))
}
