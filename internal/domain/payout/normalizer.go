package payout

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var brandCaser = cases.Title(language.Und)

// CanonicalBrand trims and title-cases a brand name so near-duplicate
// spellings (" nike ", "NIKE", "Nike") collapse into one grouping key.
func CanonicalBrand(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return brandCaser.String(strings.ToLower(name))
}

// NormalizeTable returns a cleaned copy of the table: column names are
// trimmed of surrounding whitespace, fully-empty rows are dropped and brand
// cells are canonicalized. The input table is not mutated.
func NormalizeTable(t *Table) *Table {
	clean := &Table{Columns: make([]string, 0, len(t.Columns))}
	rename := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		trimmed := strings.TrimSpace(col)
		rename[col] = trimmed
		clean.Columns = append(clean.Columns, trimmed)
	}

	for _, row := range t.Rows {
		if row.IsEmpty() {
			continue
		}
		out := make(RawRow, len(row))
		for col, v := range row {
			name := col
			if renamed, ok := rename[col]; ok {
				name = renamed
			} else {
				name = strings.TrimSpace(col)
			}
			if name == ColBrand {
				v = CanonicalBrand(v)
			}
			out[name] = v
		}
		clean.Rows = append(clean.Rows, out)
	}
	return clean
}
