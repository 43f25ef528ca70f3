package payout

import "github.com/shopspring/decimal"

// topRankingSize is how many entries the summary rankings carry.
const topRankingSize = 3

// SummaryReport aggregates the whole dataset across brands. Totals use the
// unfiltered row sets, so rows whose brand cell is empty still count here
// even though they never get a per-brand report.
type SummaryReport struct {
	BranchName          string
	PayoutCycle         string
	BrandCount          int
	BestSellingSize     string
	BestSellingProducts []string
	TopSizes            []RankedEntry
	TopProducts         []RankedEntry
	InventoryQuantity   int64
	InventoryValue      decimal.Decimal
	SalesQuantity       int64
	SalesMoney          decimal.Decimal
	// TotalDeductions sums each brand's own percentage-then-rent deduction
	// over its own subtotal. Brands carry different terms, so this is not
	// one global percentage applied to the grand total.
	TotalDeductions decimal.Decimal
	AfterDeductions decimal.Decimal
}

// Summarize computes the dataset-wide settlement summary over
// post-reconciliation sales rows and the inventory snapshot.
func Summarize(sales []SalesRecord, inventory []InventoryRecord, settings Settings) *SummaryReport {
	invQty, invValue := inventoryTotals(inventory)
	salesQty, salesMoney := salesTotals(sales)

	reports := Aggregate(sales, inventory, settings)
	deductions := decimal.Zero
	for _, rep := range reports {
		deductions = deductions.Add(rep.Deductions())
	}

	branch := ""
	if len(sales) > 0 {
		branch = sales[0].BranchName
	}

	return &SummaryReport{
		BranchName:          branch,
		PayoutCycle:         settings.PayoutCycle,
		BrandCount:          len(reports),
		BestSellingSize:     BestSellingSize(sales),
		BestSellingProducts: BestSellingProducts(sales),
		TopSizes:            TopSizes(sales, topRankingSize),
		TopProducts:         TopProducts(sales, topRankingSize),
		InventoryQuantity:   invQty,
		InventoryValue:      invValue,
		SalesQuantity:       salesQty,
		SalesMoney:          salesMoney,
		TotalDeductions:     deductions,
		AfterDeductions:     salesMoney.Sub(deductions),
	}
}
