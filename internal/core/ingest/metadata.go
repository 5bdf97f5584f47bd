package ingest

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Heuristics for deriving manual metadata from the filename and the first
// page of text, used when the caller supplies none.

var modelCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`U\d{3,4}[A-Z]?`), // U1700, U5023B
	regexp.MustCompile(`404[.\s]?\d*`),   // 404, 404.1
	regexp.MustCompile(`\b40[6-9]\b`),
	regexp.MustCompile(`\b41[1-9]\b`),
	regexp.MustCompile(`\b42[1-9]\b`),
	regexp.MustCompile(`\b43[0-9]\b`),
	regexp.MustCompile(`UGN`),
	regexp.MustCompile(`FLU-419`),
}

var yearRe = regexp.MustCompile(`\b(19[5-9]\d|20[0-2]\d)\b`)

// ExtractModelCodes pulls Unimog model designations out of text.
// Duplicates are dropped; first-seen order is preserved.
func ExtractModelCodes(text string) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, re := range modelCodePatterns {
		for _, m := range re.FindAllString(text, -1) {
			code := strings.Join(strings.Fields(m), " ")
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// ExtractYearRange finds model years between 1950 and 2029 and returns
// "YYYY" for a single year or "YYYY-YYYY" for a span. Empty if none found.
func ExtractYearRange(text string) string {
	matches := yearRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	seen := make(map[int]bool)
	var years []int
	for _, m := range matches {
		y, _ := strconv.Atoi(m)
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	if len(years) == 1 {
		return strconv.Itoa(years[0])
	}
	return strconv.Itoa(years[0]) + "-" + strconv.Itoa(years[len(years)-1])
}

var categoryKeywords = []struct {
	keywords []string
	category string
}{
	{[]string{"operator", "owner"}, "operator"},
	{[]string{"service", "repair"}, "service"},
	{[]string{"parts", "catalog"}, "parts"},
	{[]string{"workshop"}, "workshop"},
	{[]string{"technical", "specification"}, "technical"},
	{[]string{"maintenance"}, "maintenance"},
	{[]string{"electrical", "wiring"}, "electrical"},
	{[]string{"hydraulic"}, "hydraulic"},
	{[]string{"engine"}, "engine"},
	{[]string{"transmission", "gearbox"}, "transmission"},
	{[]string{"axle", "differential"}, "drivetrain"},
}

// CategorizeManual picks a category from filename and content keywords,
// first match wins; "general" when nothing matches.
func CategorizeManual(filename, content string) string {
	combined := strings.ToLower(filename + " " + content)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(combined, kw) {
				return entry.category
			}
		}
	}
	return "general"
}

// TitleFromFilename derives a display title: strip the .pdf extension and
// replace separators with spaces.
func TitleFromFilename(filename string) string {
	title := filename
	if i := strings.LastIndex(strings.ToLower(title), ".pdf"); i >= 0 {
		title = title[:i]
	}
	title = strings.ReplaceAll(title, "-", " ")
	title = strings.ReplaceAll(title, "_", " ")
	return strings.TrimSpace(title)
}
