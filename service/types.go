package service

import (
	"time"

	"github.com/viant/voucher/matching"
)

// ResolveRequest defines inputs for itinerary resolution.
type ResolveRequest struct {
	Itinerary string
	Start     time.Time
	// Title overrides the configured voucher title.
	Title string
}

// MatchResponse reports the outcome of a single query.
type MatchResponse struct {
	Query     string        `json:"query"`
	Matched   bool          `json:"matched"`
	Label     string        `json:"label,omitempty"`
	Output    string        `json:"output,omitempty"`
	Score     float64       `json:"score"`
	Pass      matching.Pass `json:"pass"`
	Threshold float64       `json:"threshold"`
}

// CatalogInfo summarizes the loaded catalog.
type CatalogInfo struct {
	Entries  int       `json:"entries"`
	Model    string    `json:"model,omitempty"`
	Labels   []string  `json:"labels,omitempty"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
}

// Format selects a voucher encoding.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "", "text", "txt", ".txt":
		return FormatText, true
	case "pdf", ".pdf":
		return FormatPDF, true
	}
	return "", false
}
