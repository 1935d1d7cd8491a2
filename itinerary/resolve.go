package itinerary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/viant/voucher/catalog"
	"github.com/viant/voucher/matching"
	"github.com/viant/voucher/voucher"
)

// PlaceholderPrefix precedes the query of an unmatched activity.
const PlaceholderPrefix = "⚠️ No match found for: "

// Placeholder returns the visible marker for an unmatched activity.
func Placeholder(query string) string {
	return PlaceholderPrefix + query
}

// Resolver assembles vouchers from itinerary text.
type Resolver struct {
	matcher *matching.Matcher
	title   string
}

// NewResolver creates a resolver; an empty title uses voucher.DefaultTitle.
func NewResolver(matcher *matching.Matcher, title string) *Resolver {
	return &Resolver{matcher: matcher, title: title}
}

// Resolve turns itinerary text into a voucher document with one row per
// non-empty line dated start + line number days. Unmatched activities become
// placeholders; an empty catalog or any other matching error aborts.
func (r *Resolver) Resolve(ctx context.Context, idx *catalog.Index, start time.Time, text string) (*voucher.Document, error) {
	if idx.Len() == 0 {
		return nil, matching.ErrEmptyCatalog
	}
	doc := voucher.New(r.title)
	doc.ID = voucher.ReferenceID(start, text)
	for _, line := range Parse(text) {
		row := voucher.Row{Date: start.AddDate(0, 0, line.Number)}
		parts := make([]string, 0, len(line.Activities))
		for _, query := range line.Activities {
			activity, err := r.resolveActivity(ctx, idx, query)
			if err != nil {
				return nil, err
			}
			row.Activities = append(row.Activities, *activity)
			parts = append(parts, activity.Text)
		}
		row.Text = strings.Join(parts, "\n")
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

func (r *Resolver) resolveActivity(ctx context.Context, idx *catalog.Index, query string) (*voucher.Activity, error) {
	res, err := r.matcher.Match(ctx, idx, query)
	if err != nil {
		if !errors.Is(err, matching.ErrNoMatch) {
			return nil, err
		}
		activity := &voucher.Activity{Query: query, Pass: string(matching.PassNone), Text: Placeholder(query)}
		if res != nil {
			activity.Score = res.Score
		}
		return activity, nil
	}
	return &voucher.Activity{
		Query:   query,
		Matched: true,
		Label:   res.Label,
		City:    res.City,
		Score:   res.Score,
		Pass:    string(res.Pass),
		Text:    res.Output,
	}, nil
}

// Resolve is a convenience wrapper around Resolver.Resolve with the default title.
func Resolve(ctx context.Context, matcher *matching.Matcher, idx *catalog.Index, start time.Time, text string) (*voucher.Document, error) {
	return NewResolver(matcher, "").Resolve(ctx, idx, start, text)
}
