package source

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/voucher/catalog"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

func TestExcel(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{
		{"City / Tour / Transfer", "  PARTICULAR ", "Tour Description", "Formatted Output"},
		{"Cairo", "Pyramids Tour", "Visit Giza", "Giza Pyramids full-day tour"},
		{"Cairo", "", "orphan description", ""},
		{"Aswan", "Felucca Ride", "Sail the Nile", ""},
	})
	rows, err := Excel(data, "", Columns{})
	if err != nil {
		t.Fatalf("excel: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Label != "Pyramids Tour" || rows[0].Output != "Giza Pyramids full-day tour" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[0].Extra["City / Tour / Transfer"] != "Cairo" {
		t.Fatalf("expected extra column, got %+v", rows[0].Extra)
	}
	if rows[1].Description != "Sail the Nile" || rows[1].Output != "" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestExcel_MissingColumn(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{{"Name", "Text"}, {"a", "b"}})
	_, err := Excel(data, "", Columns{})
	if !errors.Is(err, catalog.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestExcel_CustomColumns(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{{"Activity", "Voucher Text"}, {"Desert Safari", "4x4 dune safari"}})
	rows, err := Excel(data, "", Columns{Label: "activity", Output: "voucher text"})
	if err != nil {
		t.Fatalf("excel: %v", err)
	}
	if len(rows) != 1 || rows[0].Output != "4x4 dune safari" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestLoader_LoadURL(t *testing.T) {
	data := writeWorkbook(t, [][]interface{}{
		{"Particular", "Tour Description"},
		{"Nile Dinner Cruise", "Evening cruise with dinner"},
	})
	location := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := os.WriteFile(location, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := New().Load(context.Background(), Config{URL: location})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != "Nile Dinner Cruise" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	other := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(other, []byte("a,b"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New().Load(context.Background(), Config{URL: other}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestSQL(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", "file:"+location)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE tours (particular TEXT, tour_description TEXT, city TEXT)`,
		`INSERT INTO tours VALUES ('Pyramids Tour', 'Visit Giza', 'Cairo')`,
		`INSERT INTO tours VALUES ('Luxor Temple', NULL, 'Luxor')`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("exec %s: %v", stmt, err)
		}
	}
	_ = db.Close()

	rows, err := SQL(ctx, SQLTable{DSN: location, Table: "tours", Columns: Columns{Description: "tour_description"}})
	if err != nil {
		t.Fatalf("sql: %v", err)
	}
	if len(rows) != 2 || rows[0].Description != "Visit Giza" || rows[1].Description != "" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[1].Extra["city"] != "Luxor" {
		t.Fatalf("expected extra city, got %+v", rows[1].Extra)
	}
	if _, err := SQL(ctx, SQLTable{DSN: location, Table: "tours; DROP TABLE tours"}); err == nil {
		t.Fatalf("expected invalid table error")
	}
}

func TestDetectDriver(t *testing.T) {
	testCases := []struct {
		dsn    string
		expect string
		ok     bool
	}{
		{dsn: "postgres://u:p@localhost/db", expect: "postgres", ok: true},
		{dsn: "user:pass@tcp(localhost:3306)/db", expect: "mysql", ok: true},
		{dsn: "bigquery://project/dataset", expect: "bigquery", ok: true},
		{dsn: "/tmp/catalog.db", expect: "sqlite", ok: true},
		{dsn: "", ok: false},
		{dsn: "unknown", ok: false},
	}
	for _, testCase := range testCases {
		actual, ok := DetectDriver(testCase.dsn)
		if actual != testCase.expect || ok != testCase.ok {
			t.Errorf("%q: expected %q/%v, got %q/%v", testCase.dsn, testCase.expect, testCase.ok, actual, ok)
		}
	}
}
