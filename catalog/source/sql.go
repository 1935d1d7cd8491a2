package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/viant/bigquery"
	"github.com/viant/voucher/catalog"
	"github.com/viant/voucher/db/sqliteutil"
	_ "modernc.org/sqlite"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.$]*$`)

// SQLTable describes a catalog stored in a database table.
type SQLTable struct {
	Driver  string  `yaml:"driver,omitempty" json:"driver,omitempty"`
	DSN     string  `yaml:"dsn" json:"dsn"`
	Table   string  `yaml:"table" json:"table"`
	Columns Columns `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// DetectDriver infers the database/sql driver name from a DSN.
func DetectDriver(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", false
	}
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", true
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql", true
	case strings.HasPrefix(lower, "bigquery://"), strings.HasPrefix(lower, "bigquery:"), strings.HasPrefix(lower, "bq://"):
		return "bigquery", true
	case strings.HasPrefix(lower, "file:"), lower == ":memory:", strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".db"):
		return "sqlite", true
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return "mysql", true
	}
	return "", false
}

// SQL opens the table's database and reads its rows.
func SQL(ctx context.Context, table SQLTable) ([]catalog.Row, error) {
	driver := table.Driver
	if driver == "" {
		var ok bool
		if driver, ok = DetectDriver(table.DSN); !ok {
			return nil, fmt.Errorf("source: unable to detect driver from dsn")
		}
	}
	dsn := table.DSN
	switch driver {
	case "sqlite":
		dsn = sqliteutil.Pragmas{BusyTimeoutMS: 5000}.Apply(sqliteutil.DSN(dsn))
	case "mysql":
		dsn = strings.TrimPrefix(dsn, "mysql://")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", driver, err)
	}
	defer db.Close()
	return Query(ctx, db, table.Table, table.Columns)
}

// Query selects the catalog columns from table on an open connection.
func Query(ctx context.Context, db *sql.DB, table string, columns Columns) ([]catalog.Row, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("source: invalid table name %q", table)
	}
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("source: query %s: %w", table, err)
	}
	defer rows.Close()
	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	l, err := columns.resolve(header)
	if err != nil {
		return nil, err
	}
	var records [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("source: scan %s: %w", table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = v.String
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return l.rows(records), nil
}
