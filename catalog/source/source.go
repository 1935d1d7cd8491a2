// Package source loads catalog rows from spreadsheets and database tables.
package source

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
	"github.com/viant/voucher/catalog"
)

// Config selects a catalog source. URL names a spreadsheet (local path, file://,
// gs:// or s3://); SQL names a database table. URL wins when both are set.
type Config struct {
	URL     string    `yaml:"url,omitempty" json:"url,omitempty"`
	Sheet   string    `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Columns Columns   `yaml:"columns,omitempty" json:"columns,omitempty"`
	SQL     *SQLTable `yaml:"sql,omitempty" json:"sql,omitempty"`
}

// Loader reads catalog rows.
type Loader struct {
	fs afs.Service
}

// New creates a Loader backed by the default AFS service.
func New() *Loader {
	return &Loader{fs: afs.New()}
}

// Load reads rows as configured.
func (l *Loader) Load(ctx context.Context, cfg Config) ([]catalog.Row, error) {
	switch {
	case cfg.URL != "":
		return l.LoadURL(ctx, cfg.URL, cfg.Sheet, cfg.Columns)
	case cfg.SQL != nil:
		table := *cfg.SQL
		if table.Columns == (Columns{}) {
			table.Columns = cfg.Columns
		}
		return SQL(ctx, table)
	}
	return nil, fmt.Errorf("source: no catalog url or sql table configured")
}

// LoadURL downloads a workbook and parses it by extension.
func (l *Loader) LoadURL(ctx context.Context, URL, sheet string, columns Columns) ([]catalog.Row, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("source: download %s: %w", URL, err)
	}
	switch ext := strings.ToLower(path.Ext(url.Path(URL))); ext {
	case ".xlsx", ".xlsm":
		return Excel(data, sheet, columns)
	case ".xls":
		return XLS(data, sheet, columns)
	default:
		return nil, fmt.Errorf("source: unsupported catalog format %q", ext)
	}
}
