package catalog

import "strings"

// Row is a single tabular record as produced by a catalog source.
type Row struct {
	Label       string
	Description string
	Output      string
	// Extra holds the remaining non-empty columns keyed by header.
	Extra map[string]string
}

// CityColumns lists the normalized headers that carry the city of an entry.
var CityColumns = []string{"city / tour / transfer", "city"}

// Entry is an immutable catalog record with its label embedding.
type Entry struct {
	Label       string
	Description string
	Output      string
	Vector      []float32
	// Extra holds the remaining source columns keyed by header.
	Extra map[string]string
}

// City returns the first non-empty Extra value whose header is one of CityColumns.
func (e *Entry) City() string {
	for _, column := range CityColumns {
		for name, value := range e.Extra {
			if NormalizeColumn(name) == column && value != "" {
				return value
			}
		}
	}
	return ""
}

// FormattedOutput returns the text rendered into a voucher for this entry.
func (e *Entry) FormattedOutput() string {
	return e.Output
}

// NormalizeColumn trims, collapses internal whitespace and lower-cases a header name
// so that "  Tour   Description " and "tour description" compare equal.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func newEntry(row Row) (Entry, bool) {
	label := strings.TrimSpace(row.Label)
	if label == "" {
		return Entry{}, false
	}
	entry := Entry{
		Label:       label,
		Description: strings.TrimSpace(row.Description),
		Output:      strings.TrimSpace(row.Output),
		Extra:       cloneExtra(row.Extra),
	}
	if entry.Output == "" {
		entry.Output = entry.Description
	}
	if entry.Output == "" {
		entry.Output = entry.Label
	}
	return entry, true
}

func cloneExtra(extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(extra))
	for k, v := range extra {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func cloneVector(vec []float32) []float32 {
	if vec == nil {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
