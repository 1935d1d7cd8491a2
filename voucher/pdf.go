package voucher

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// PDFRenderer renders a Document into an A4 PDF using core fonts.
type PDFRenderer struct {
	Font     string
	FontSize float64
	Footer   string
}

// NewPDFRenderer returns a renderer with Helvetica 11pt.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Font: "Helvetica", FontSize: 11}
}

// Render writes doc as PDF to w.
func (r *PDFRenderer) Render(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	if r.Footer != "" {
		footer := toWindows1252(r.Footer)
		pdf.SetFooterFunc(func() {
			pdf.SetY(-12)
			pdf.SetFont(r.Font, "I", 8)
			pdf.CellFormat(0, 8, footer, "", 0, "C", false, 0, "")
		})
	}
	pdf.AddPage()

	pdf.SetFont(r.Font, "B", r.FontSize+5)
	pdf.CellFormat(0, 10, toWindows1252(doc.Title), "", 1, "C", false, 0, "")
	if doc.ID != "" {
		pdf.SetFont(r.Font, "", r.FontSize-2)
		pdf.CellFormat(0, 6, "Ref: "+doc.ID, "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	for i := range doc.Rows {
		row := &doc.Rows[i]
		pdf.SetFont(r.Font, "B", r.FontSize+1)
		pdf.CellFormat(0, 8, fmt.Sprintf("Day %d - %s", i+1, row.DateText()), "B", 1, "L", false, 0, "")
		pdf.SetFont(r.Font, "", r.FontSize)
		if cities := row.Cities(); len(cities) > 0 {
			pdf.CellFormat(0, 6, toWindows1252("City/Tour/Transfer: "+strings.Join(cities, ", ")), "", 1, "L", false, 0, "")
		}
		pdf.MultiCell(0, 6, toWindows1252(row.Text), "", "L", false)
		pdf.Ln(4)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("voucher: render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("voucher: write pdf: %w", err)
	}
	return nil
}

// toWindows1252 transcodes text to the single-byte encoding of the PDF core
// fonts; runes outside the code page (emoji included) are replaced.
func toWindows1252(text string) string {
	out, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).String(text)
	if err != nil {
		return text
	}
	return out
}
