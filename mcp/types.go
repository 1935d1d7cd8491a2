package mcp

import "github.com/viant/voucher/service"

type ResolveInput struct {
	Itinerary string `json:"itinerary"`
	// StartDate accepts 2006-01-02 or 02-Jan-2006; defaults to today.
	StartDate string `json:"startDate,omitempty"`
	Title     string `json:"title,omitempty"`
}

type ResolveRow struct {
	Date      string   `json:"date"`
	Text      string   `json:"text"`
	Unmatched []string `json:"unmatched,omitempty"`
}

type ResolveOutput struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Rows  []ResolveRow `json:"rows"`
	Text  string       `json:"text"`
}

type MatchInput struct {
	Query string `json:"query"`
}

type MatchOutput = service.MatchResponse

type CatalogInput struct {
	Labels bool `json:"labels,omitempty"`
}

type CatalogOutput = service.CatalogInfo

type ReloadInput struct{}

type ReloadOutput struct {
	Entries int    `json:"entries"`
	Model   string `json:"model,omitempty"`
}
