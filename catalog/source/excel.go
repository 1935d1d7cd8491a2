package source

import (
	"bytes"
	"fmt"

	"github.com/viant/voucher/catalog"
	"github.com/xuri/excelize/v2"
)

// Excel reads catalog rows from an .xlsx workbook. The first row of the sheet
// is the header. An empty sheet name selects the first sheet.
func Excel(data []byte, sheet string, columns Columns) ([]catalog.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", catalog.ErrInvalidCatalog)
		}
		sheet = sheets[0]
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("source: read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", catalog.ErrInvalidCatalog, sheet)
	}
	l, err := columns.resolve(records[0])
	if err != nil {
		return nil, err
	}
	return l.rows(records[1:]), nil
}
