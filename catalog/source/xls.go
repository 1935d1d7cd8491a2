package source

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/viant/voucher/catalog"
)

// XLS reads catalog rows from a legacy .xls workbook.
func XLS(data []byte, sheet string, columns Columns) ([]catalog.Row, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("source: open xls: %w", err)
	}
	for i := 0; i < wb.GetNumberSheets(); i++ {
		ws, err := wb.GetSheet(i)
		if err != nil || ws == nil {
			continue
		}
		if sheet != "" && ws.GetName() != sheet {
			continue
		}
		rows := ws.GetRows()
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: sheet %q is empty", catalog.ErrInvalidCatalog, ws.GetName())
		}
		records := make([][]string, len(rows))
		for r, row := range rows {
			records[r] = xlsRowValues(row.GetCols())
		}
		l, err := columns.resolve(records[0])
		if err != nil {
			return nil, err
		}
		return l.rows(records[1:]), nil
	}
	if sheet != "" {
		return nil, fmt.Errorf("%w: sheet %q not found", catalog.ErrInvalidCatalog, sheet)
	}
	return nil, fmt.Errorf("%w: workbook has no sheets", catalog.ErrInvalidCatalog)
}

func xlsRowValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				val = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				val = strconv.FormatInt(in, 10)
			}
		}
		out = append(out, val)
	}
	return out
}
