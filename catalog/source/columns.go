package source

import (
	"fmt"
	"strings"

	"github.com/viant/voucher/catalog"
)

// Default header names of the voucher reference sheet.
const (
	DefaultLabelColumn       = "Particular"
	DefaultDescriptionColumn = "Tour Description"
	DefaultOutputColumn      = "Formatted Output"
)

// Columns names the header cells that hold catalog fields.
// Header matching ignores case and surrounding or repeated whitespace.
type Columns struct {
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Output      string `yaml:"output,omitempty" json:"output,omitempty"`
}

// DefaultColumns returns the standard voucher sheet headers.
func DefaultColumns() Columns {
	return Columns{
		Label:       DefaultLabelColumn,
		Description: DefaultDescriptionColumn,
		Output:      DefaultOutputColumn,
	}
}

func (c Columns) withDefaults() Columns {
	def := DefaultColumns()
	if strings.TrimSpace(c.Label) == "" {
		c.Label = def.Label
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = def.Description
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = def.Output
	}
	return c
}

// layout holds resolved column positions; -1 means absent.
type layout struct {
	label, description, output int
	header                     []string
}

func (c Columns) resolve(header []string) (*layout, error) {
	c = c.withDefaults()
	l := &layout{label: -1, description: -1, output: -1, header: header}
	want := map[string]*int{
		catalog.NormalizeColumn(c.Label):       &l.label,
		catalog.NormalizeColumn(c.Description): &l.description,
		catalog.NormalizeColumn(c.Output):      &l.output,
	}
	for i, name := range header {
		if pos, ok := want[catalog.NormalizeColumn(name)]; ok && *pos == -1 {
			*pos = i
		}
	}
	if l.label == -1 {
		return nil, fmt.Errorf("%w: missing column %q", catalog.ErrInvalidCatalog, c.Label)
	}
	if l.description == -1 && l.output == -1 {
		return nil, fmt.Errorf("%w: missing column %q", catalog.ErrInvalidCatalog, c.Description)
	}
	return l, nil
}

func (l *layout) row(values []string) catalog.Row {
	cell := func(i int) string {
		if i < 0 || i >= len(values) {
			return ""
		}
		return strings.TrimSpace(values[i])
	}
	row := catalog.Row{
		Label:       cell(l.label),
		Description: cell(l.description),
		Output:      cell(l.output),
	}
	for i, name := range l.header {
		if i == l.label || i == l.description || i == l.output || name == "" {
			continue
		}
		if v := cell(i); v != "" {
			if row.Extra == nil {
				row.Extra = map[string]string{}
			}
			row.Extra[name] = v
		}
	}
	return row
}

func (l *layout) rows(records [][]string) []catalog.Row {
	out := make([]catalog.Row, 0, len(records))
	for _, values := range records {
		row := l.row(values)
		if row.Label == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}
