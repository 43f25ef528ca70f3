package payout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/payout/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Recognized column names after header normalization. Sales exports carry
// the product name in name_ar, inventory exports in name_en; both come from
// the same POS vendor and are matched by trimmed column name.
const (
	ColBranchName        = "branch_name"
	ColBrand             = "brand"
	ColSalesProductName  = "name_ar"
	ColBarcode           = "barcode"
	ColQuantity          = "quantity"
	ColTotal             = "total"
	ColInvProductName    = "name_en"
	ColBarcodes          = "barcodes"
	ColSalePrice         = "sale_price"
	ColAvailableQuantity = "available_quantity"
)

// RawRow holds one worksheet row keyed by normalized column name.
// Accessors return typed defaults for absent or malformed cells; dirty
// spreadsheet exports must not abort the run (structural problems are
// caught at dataset level instead).
type RawRow map[string]string

// String returns the trimmed cell value, or "" when the column is absent.
func (r RawRow) String(col string) string {
	return strings.TrimSpace(r[col])
}

// Int returns the cell parsed as an integer. Values exported as decimals
// ("5.0") are truncated; anything unparsable counts as zero.
func (r RawRow) Int(col string) int64 {
	raw := r.String(col)
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return d.IntPart()
	}
	return 0
}

// Decimal returns the cell parsed as a decimal number, or zero when absent
// or malformed.
func (r RawRow) Decimal(col string) decimal.Decimal {
	raw := r.String(col)
	if raw == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return d
	}
	return decimal.Zero
}

// IsEmpty reports whether every cell of the row is empty or whitespace.
func (r RawRow) IsEmpty() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table is an ordered set of raw rows together with the columns the source
// worksheet actually declared. Column presence matters: reconciliation
// behaves differently when quantity or barcode is missing entirely.
type Table struct {
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SalesRecord is one row of the sales transaction log. ID is a stable row
// identifier assigned at ingestion; records are not unique by content, so
// reconciliation removal is tracked by ID, never by value.
type SalesRecord struct {
	ID          int
	BranchName  string
	Brand       string
	ProductName string
	Barcode     string
	Quantity    int64
	Total       decimal.Decimal
}

// IsRefund reports whether the record reverses an earlier sale.
func (r SalesRecord) IsRefund() bool {
	return r.Quantity < 0
}

// InventoryRecord is one row of the inventory snapshot. Never mutated after
// ingestion; only filtered by brand.
type InventoryRecord struct {
	ID                int
	BranchName        string
	Brand             string
	ProductName       string
	Barcodes          string
	SalePrice         decimal.Decimal
	AvailableQuantity int64
}

// Value returns the stock value of this row (quantity times unit price).
func (r InventoryRecord) Value() decimal.Decimal {
	return r.SalePrice.Mul(decimal.NewFromInt(r.AvailableQuantity))
}

// SalesDataset is the typed sales table plus column-presence flags carried
// through to the reconciler.
type SalesDataset struct {
	Records     []SalesRecord
	HasQuantity bool
	HasBarcode  bool
}

// InventoryDataset is the typed inventory table.
type InventoryDataset struct {
	Records []InventoryRecord
}

// BuildSalesDataset converts a normalized table into typed sales records.
// The brand column is required for any non-empty dataset: without it no
// grouping is possible and the whole run fails.
func BuildSalesDataset(t *Table) (*SalesDataset, error) {
	if len(t.Rows) > 0 && !t.HasColumn(ColBrand) {
		return nil, missingColumn("sales", ColBrand)
	}

	ds := &SalesDataset{
		Records:     make([]SalesRecord, 0, len(t.Rows)),
		HasQuantity: t.HasColumn(ColQuantity),
		HasBarcode:  t.HasColumn(ColBarcode),
	}
	for i, row := range t.Rows {
		ds.Records = append(ds.Records, SalesRecord{
			ID:          i,
			BranchName:  row.String(ColBranchName),
			Brand:       row.String(ColBrand),
			ProductName: row.String(ColSalesProductName),
			Barcode:     row.String(ColBarcode),
			Quantity:    row.Int(ColQuantity),
			Total:       row.Decimal(ColTotal),
		})
	}
	return ds, nil
}

// BuildInventoryDataset converts a normalized table into typed inventory
// records. Like sales, a non-empty dataset must declare a brand column.
func BuildInventoryDataset(t *Table) (*InventoryDataset, error) {
	if len(t.Rows) > 0 && !t.HasColumn(ColBrand) {
		return nil, missingColumn("inventory", ColBrand)
	}

	ds := &InventoryDataset{Records: make([]InventoryRecord, 0, len(t.Rows))}
	for i, row := range t.Rows {
		ds.Records = append(ds.Records, InventoryRecord{
			ID:                i,
			BranchName:        row.String(ColBranchName),
			Brand:             row.String(ColBrand),
			ProductName:       row.String(ColInvProductName),
			Barcodes:          row.String(ColBarcodes),
			SalePrice:         row.Decimal(ColSalePrice),
			AvailableQuantity: row.Int(ColAvailableQuantity),
		})
	}
	return ds, nil
}

func missingColumn(dataset, column string) *shared.DomainError {
	return shared.NewDomainError("MISSING_COLUMN",
		fmt.Sprintf("%s data is missing required column %q", dataset, column))
}
