package itinerary

import (
	"regexp"
	"strings"
)

// Delimiter separates activities within one day.
const Delimiter = "+"

var dayPrefix = regexp.MustCompile(`(?i)^day\s*\d+\s*:\s*`)

// Line is one itinerary day decomposed into activity queries.
type Line struct {
	// Number is the zero-based position among non-empty lines.
	Number     int
	Raw        string
	Activities []string
}

// Parse splits text into non-empty lines, strips an optional "Day N:" prefix
// and splits the remainder on Delimiter.
func Parse(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lines = append(lines, Line{
			Number:     len(lines),
			Raw:        trimmed,
			Activities: SplitActivities(StripDayPrefix(trimmed)),
		})
	}
	return lines
}

// StripDayPrefix removes a leading "Day <digits>:" label, case-insensitively.
func StripDayPrefix(line string) string {
	return dayPrefix.ReplaceAllString(strings.TrimSpace(line), "")
}

// SplitActivities splits on Delimiter, trimming and dropping empty parts.
func SplitActivities(text string) []string {
	var out []string
	for _, part := range strings.Split(text, Delimiter) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
