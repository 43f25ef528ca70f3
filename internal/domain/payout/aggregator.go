package payout

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// BrandReport is the per-brand settlement record consumed by the workbook
// renderer. It carries the brand's filtered rows so the renderer can emit
// the detail sheets without re-filtering.
type BrandReport struct {
	Brand               string
	BranchName          string
	DealDescription     string
	PayoutCycle         string
	BestSellingSize     string
	BestSellingProducts []string
	InventoryQuantity   int64
	InventoryValue      decimal.Decimal
	SalesQuantity       int64
	SalesMoney          decimal.Decimal
	AfterPercentage     decimal.Decimal
	AfterRent           decimal.Decimal
	Sales               []SalesRecord
	Inventory           []InventoryRecord
}

// Deductions returns the total amount withheld from this brand's sales.
func (r *BrandReport) Deductions() decimal.Decimal {
	return r.SalesMoney.Sub(r.AfterRent)
}

// brandsInOrder lists the distinct non-empty brands of the sales rows by
// first appearance. Rows with an empty brand cell cannot be settled with a
// partner and are left to the cross-brand summary.
func brandsInOrder(records []SalesRecord) []string {
	seen := make(map[string]struct{})
	var brands []string
	for _, rec := range records {
		if rec.Brand == "" {
			continue
		}
		if _, ok := seen[rec.Brand]; ok {
			continue
		}
		seen[rec.Brand] = struct{}{}
		brands = append(brands, rec.Brand)
	}
	return brands
}

func filterSales(records []SalesRecord, brand string) []SalesRecord {
	var out []SalesRecord
	for _, rec := range records {
		if rec.Brand == brand {
			out = append(out, rec)
		}
	}
	return out
}

func filterInventory(records []InventoryRecord, brand string) []InventoryRecord {
	var out []InventoryRecord
	for _, rec := range records {
		if rec.Brand == brand {
			out = append(out, rec)
		}
	}
	return out
}

func salesTotals(records []SalesRecord) (int64, decimal.Decimal) {
	var qty int64
	money := decimal.Zero
	for _, rec := range records {
		qty += rec.Quantity
		money = money.Add(rec.Total)
	}
	return qty, money
}

// inventoryTotals sums quantity and stock value. Value is row-wise
// quantity*price summed, never sum(quantity)*sum(price).
func inventoryTotals(records []InventoryRecord) (int64, decimal.Decimal) {
	var qty int64
	value := decimal.Zero
	for _, rec := range records {
		qty += rec.AvailableQuantity
		value = value.Add(rec.Value())
	}
	return qty, value
}

// applyDeal deducts the percentage first, then the rent. The order is part
// of the settlement contract with brand partners.
func applyDeal(salesMoney decimal.Decimal, deal BrandDeal) (afterPercentage, afterRent decimal.Decimal) {
	afterPercentage = salesMoney.Sub(salesMoney.Mul(deal.Percentage).Div(oneHundred))
	afterRent = afterPercentage.Sub(deal.Rent)
	return afterPercentage, afterRent
}

// Aggregate partitions post-reconciliation sales and the inventory snapshot
// by brand and computes one report per brand that still has sales rows,
// ordered by the brand's first appearance in the sales data.
func Aggregate(sales []SalesRecord, inventory []InventoryRecord, settings Settings) []*BrandReport {
	var reports []*BrandReport
	for _, brand := range brandsInOrder(sales) {
		brandSales := filterSales(sales, brand)
		if len(brandSales) == 0 {
			continue
		}
		brandInventory := filterInventory(inventory, brand)

		invQty, invValue := inventoryTotals(brandInventory)
		salesQty, salesMoney := salesTotals(brandSales)

		deal := settings.DealFor(brand)
		afterPercentage, afterRent := applyDeal(salesMoney, deal)

		reports = append(reports, &BrandReport{
			Brand:               brand,
			BranchName:          brandSales[0].BranchName,
			DealDescription:     deal.Description(),
			PayoutCycle:         settings.PayoutCycle,
			BestSellingSize:     BestSellingSize(brandSales),
			BestSellingProducts: BestSellingProducts(brandSales),
			InventoryQuantity:   invQty,
			InventoryValue:      invValue,
			SalesQuantity:       salesQty,
			SalesMoney:          salesMoney,
			AfterPercentage:     afterPercentage,
			AfterRent:           afterRent,
			Sales:               brandSales,
			Inventory:           brandInventory,
		})
	}
	return reports
}
