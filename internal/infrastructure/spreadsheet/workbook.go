package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/payout/backend/internal/domain/payout"
	"github.com/xuri/excelize/v2"
)

// Excel caps sheet names at 31 characters; long brand names get truncated
// so the suffix always survives.
const maxSheetNameLen = 31

const defaultSheetName = "Sheet1"

// Renderer turns report records into styled xlsx workbooks: bold header and
// total rows, auto-fit column widths. It holds no state and is safe for
// concurrent use.
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// BrandWorkbook renders one brand's workbook with three sheets: sales
// details, inventory and the settlement report.
func (r *Renderer) BrandWorkbook(rep *payout.BrandReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	bold, err := boldStyle(f)
	if err != nil {
		return nil, err
	}

	if err := r.salesDetailsSheet(f, bold, rep); err != nil {
		return nil, err
	}
	if err := r.inventorySheet(f, bold, rep); err != nil {
		return nil, err
	}
	if err := r.reportSheet(f, bold, rep); err != nil {
		return nil, err
	}

	return finish(f)
}

// SummaryWorkbook renders the cross-brand summary workbook.
func (r *Renderer) SummaryWorkbook(summary *payout.SummaryReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	bold, err := boldStyle(f)
	if err != nil {
		return nil, err
	}

	rows := []labelValue{
		{"Branch Name:", summary.BranchName},
		{"Payout Period", summary.PayoutCycle},
		{"Brands Count:", summary.BrandCount},
		{"", ""},
		{"Best Selling Size:", summary.BestSellingSize},
		{"Best Selling Product:", strings.Join(summary.BestSellingProducts, ", ")},
		{"", ""},
		{"Total Inventory Quantities:", summary.InventoryQuantity},
		{"Total Inventory Stock Price:", summary.InventoryValue.InexactFloat64()},
		{"", ""},
		{"Total Sales (Products Quantities):", summary.SalesQuantity},
		{"Total Sales (Money):", summary.SalesMoney.InexactFloat64()},
		{"Total Deductions:", summary.TotalDeductions.InexactFloat64()},
		{"Total Sales After Deductions:", summary.AfterDeductions.InexactFloat64()},
		{"", ""},
	}
	rows = append(rows, rankingRows("Top 3 Sizes:", summary.TopSizes)...)
	rows = append(rows, labelValue{"", ""})
	rows = append(rows, rankingRows("Top 3 Products:", summary.TopProducts)...)

	if err := labelValueSheet(f, bold, "Summary Report", rows); err != nil {
		return nil, err
	}

	return finish(f)
}

func (r *Renderer) salesDetailsSheet(f *excelize.File, bold int, rep *payout.BrandReport) error {
	name := sheetName(rep.Brand, "Sales Details")
	ws, err := newSheet(f, name)
	if err != nil {
		return err
	}

	if err := ws.writeRow([]interface{}{"Branch Name", "Brand Name", "Product Name", "Barcode", "Quantity", "Price"}); err != nil {
		return err
	}
	if err := ws.boldRow(1, bold); err != nil {
		return err
	}

	var totalQty int64
	totalPrice := rep.SalesMoney
	for _, rec := range rep.Sales {
		totalQty += rec.Quantity
		if err := ws.writeRow([]interface{}{
			rec.BranchName,
			rec.Brand,
			rec.ProductName,
			rec.Barcode,
			rec.Quantity,
			rec.Total.InexactFloat64(),
		}); err != nil {
			return err
		}
	}

	if err := ws.writeRow([]interface{}{
		"", "", "", "",
		fmt.Sprintf("Total=%d", totalQty),
		fmt.Sprintf("Total=%s", totalPrice),
	}); err != nil {
		return err
	}
	if err := ws.boldRow(ws.row, bold); err != nil {
		return err
	}

	return ws.fit()
}

func (r *Renderer) inventorySheet(f *excelize.File, bold int, rep *payout.BrandReport) error {
	name := sheetName(rep.Brand, "Inventory")
	ws, err := newSheet(f, name)
	if err != nil {
		return err
	}

	if err := ws.writeRow([]interface{}{"Branch Name", "Brand", "Product Name", "Barcodes", "Product Price", "Available Quantity"}); err != nil {
		return err
	}
	if err := ws.boldRow(1, bold); err != nil {
		return err
	}

	for _, rec := range rep.Inventory {
		if err := ws.writeRow([]interface{}{
			rec.BranchName,
			rec.Brand,
			rec.ProductName,
			rec.Barcodes,
			rec.SalePrice.InexactFloat64(),
			rec.AvailableQuantity,
		}); err != nil {
			return err
		}
	}

	return ws.fit()
}

func (r *Renderer) reportSheet(f *excelize.File, bold int, rep *payout.BrandReport) error {
	rows := []labelValue{
		{"Branch Name:", rep.BranchName},
		{"", ""},
		{"Brand Name:", rep.Brand},
		{"", ""},
		{"Brand Deal:", rep.DealDescription},
		{"", ""},
		{"Payout Period", rep.PayoutCycle},
		{"", ""},
		{"Best Selling Size:", rep.BestSellingSize},
		{"Best Selling Product:", strings.Join(rep.BestSellingProducts, ", ")},
		{"", ""},
		{"Total Brand Inventory Quantities:", rep.InventoryQuantity},
		{"Total Brand Inventory Stock Price:", rep.InventoryValue.InexactFloat64()},
		{"", ""},
		{"Total Sales (Products Quantities):", rep.SalesQuantity},
		{"Total sales (Money):", rep.SalesMoney.InexactFloat64()},
		{"Total Sales After Percentage", rep.AfterPercentage.InexactFloat64()},
		{"Total Sales After Rent:", rep.AfterRent.InexactFloat64()},
	}
	return labelValueSheet(f, bold, sheetName(rep.Brand, "Report"), rows)
}

type labelValue struct {
	label string
	value interface{}
}

func rankingRows(label string, entries []payout.RankedEntry) []labelValue {
	rows := []labelValue{{label, ""}}
	for _, e := range entries {
		rows = append(rows, labelValue{"", e.String()})
	}
	return rows
}

// labelValueSheet writes a two-column report sheet with every non-empty
// label in column A set bold.
func labelValueSheet(f *excelize.File, bold int, name string, rows []labelValue) error {
	ws, err := newSheet(f, name)
	if err != nil {
		return err
	}

	for _, lv := range rows {
		if err := ws.writeRow([]interface{}{lv.label, lv.value}); err != nil {
			return err
		}
		if lv.label != "" {
			cell, err := excelize.CoordinatesToCellName(1, ws.row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(name, cell, cell, bold); err != nil {
				return err
			}
		}
	}

	return ws.fit()
}

// sheet tracks the cursor row and observed cell widths of one worksheet.
type sheet struct {
	f      *excelize.File
	name   string
	row    int
	widths []float64
}

func newSheet(f *excelize.File, name string) (*sheet, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	return &sheet{f: f, name: name}, nil
}

func (s *sheet) writeRow(values []interface{}) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %q: %w", s.row, s.name, err)
	}
	for i, v := range values {
		w := float64(len(fmt.Sprint(v))) + 2
		for len(s.widths) <= i {
			s.widths = append(s.widths, 0)
		}
		if w > s.widths[i] {
			s.widths[i] = w
		}
	}
	return nil
}

func (s *sheet) boldRow(row, style int) error {
	if len(s.widths) == 0 {
		return nil
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(s.widths), row)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(s.name, first, last, style)
}

// fit sets each column's width to the widest value seen, capped so one long
// product name cannot blow up the layout.
func (s *sheet) fit() error {
	const maxWidth = 60
	for i, w := range s.widths {
		if w > maxWidth {
			w = maxWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := s.f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func boldStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("create bold style: %w", err)
	}
	return style, nil
}

func finish(f *excelize.File) ([]byte, error) {
	if err := f.DeleteSheet(defaultSheetName); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Characters excelize rejects in sheet names.
var sheetNameSanitizer = strings.NewReplacer(
	":", "-", "?", "-", "*", "-", "[", "-", "]", "-", "/", "-", "\\", "-",
)

func sheetName(brand, suffix string) string {
	brand = sheetNameSanitizer.Replace(brand)
	name := brand + " " + suffix
	if len([]rune(name)) <= maxSheetNameLen {
		return name
	}
	keep := maxSheetNameLen - len([]rune(suffix)) - 1
	if keep < 1 {
		return suffix
	}
	return string([]rune(brand)[:keep]) + " " + suffix
}
