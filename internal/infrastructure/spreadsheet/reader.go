package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/payout/backend/internal/domain/payout"
	"github.com/payout/backend/internal/domain/shared"
	"github.com/xuri/excelize/v2"
)

// Reader parses uploaded xlsx workbooks into raw tables. Only the first
// sheet is read; the first row is the header and maps each cell below it to
// a trimmed column name.
type Reader struct{}

// NewReader creates a new Reader
func NewReader() *Reader {
	return &Reader{}
}

// Read parses the workbook into a Table, preserving row order. An empty
// sheet yields an empty table, not an error; datasets validate their own
// required columns.
func (r *Reader) Read(src io.Reader) (*payout.Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, shared.ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &payout.Table{}, nil
	}

	header := rows[0]
	table := &payout.Table{Columns: make([]string, 0, len(header))}
	for _, col := range header {
		table.Columns = append(table.Columns, strings.TrimSpace(col))
	}

	for _, cells := range rows[1:] {
		row := make(payout.RawRow, len(table.Columns))
		for i, col := range table.Columns {
			if col == "" {
				continue
			}
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
