package voucher

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes the document as plain text: a date header followed by the
// combined activity text of each day.
func WriteText(w io.Writer, doc *Document) error {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	if doc.ID != "" {
		b.WriteString("Ref: ")
		b.WriteString(doc.ID)
		b.WriteString("\n")
	}
	for i := range doc.Rows {
		row := &doc.Rows[i]
		b.WriteString("\n")
		b.WriteString(row.DateText())
		b.WriteString("\n")
		b.WriteString(row.Text)
		b.WriteString("\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("voucher: write text: %w", err)
	}
	return nil
}
