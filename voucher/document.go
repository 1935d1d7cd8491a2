package voucher

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar format printed on vouchers, e.g. 01-Jan-2024.
const DateLayout = "02-Jan-2006"

// DefaultTitle is used when a document has no title.
const DefaultTitle = "Service Voucher"

// Activity records how one itinerary activity was resolved.
type Activity struct {
	Query   string  `json:"query"`
	Matched bool    `json:"matched"`
	Label   string  `json:"label,omitempty"`
	City    string  `json:"city,omitempty"`
	Score   float64 `json:"score"`
	Pass    string  `json:"pass"`
	Text    string  `json:"text"`
}

// Row is one voucher day.
type Row struct {
	Date       time.Time  `json:"-"`
	Text       string     `json:"text"`
	Activities []Activity `json:"activities,omitempty"`
}

// DateText returns the row date in DateLayout.
func (r *Row) DateText() string {
	return r.Date.Format(DateLayout)
}

// Unmatched returns the number of activities without a catalog match.
func (r *Row) Unmatched() int {
	count := 0
	for _, a := range r.Activities {
		if !a.Matched {
			count++
		}
	}
	return count
}

// Cities returns the distinct cities of matched activities in order.
func (r *Row) Cities() []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range r.Activities {
		if !a.Matched || a.City == "" || seen[a.City] {
			continue
		}
		seen[a.City] = true
		out = append(out, a.City)
	}
	return out
}

// Document is an ordered sequence of dated rows.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// New creates an empty document with a random ID.
func New(title string) *Document {
	if title == "" {
		title = DefaultTitle
	}
	return &Document{ID: uuid.NewString(), Title: title}
}

// ReferenceID derives a stable document ID from the itinerary input so that
// resolving the same input twice yields the same reference.
func ReferenceID(start time.Time, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(start.Format(DateLayout)+"\n"+text)).String()
}

// Pairs returns (date, text) pairs in row order.
func (d *Document) Pairs() [][2]string {
	out := make([][2]string, len(d.Rows))
	for i := range d.Rows {
		out[i] = [2]string{d.Rows[i].DateText(), d.Rows[i].Text}
	}
	return out
}
