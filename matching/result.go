package matching

// Pass identifies which matching stage produced a result.
type Pass string

const (
	PassSubstring Pass = "substring"
	PassSemantic  Pass = "semantic"
	PassNone      Pass = "none"
)

// Result is the outcome of matching one query.
type Result struct {
	Query   string  `json:"query"`
	Matched bool    `json:"matched"`
	Label   string  `json:"label,omitempty"`
	Output  string  `json:"output,omitempty"`
	City    string  `json:"city,omitempty"`
	Score   float64 `json:"score"`
	Pass    Pass    `json:"pass"`
	// Index is the catalog position of the matched entry, -1 when unmatched.
	Index int `json:"index"`
}
