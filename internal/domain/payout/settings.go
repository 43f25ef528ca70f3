package payout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BrandDeal holds the revenue-sharing terms agreed with one brand partner:
// a percentage of sales money (0-100) and a fixed rent amount, both
// deducted from the brand's sales total, percentage first.
type BrandDeal struct {
	Percentage decimal.Decimal
	Rent       decimal.Decimal
}

// IsZero reports whether no deduction applies.
func (d BrandDeal) IsZero() bool {
	return d.Percentage.IsZero() && d.Rent.IsZero()
}

// Description renders the human-readable deal line printed on report
// sheets. Both terms nonzero: "<rent> + <percentage>% deducted from sales";
// a single nonzero term is described alone; no deal yields "".
func (d BrandDeal) Description() string {
	switch {
	case !d.Rent.IsZero() && !d.Percentage.IsZero():
		return fmt.Sprintf("%s + %s%% deducted from sales", d.Rent, d.Percentage)
	case !d.Percentage.IsZero():
		return fmt.Sprintf("%s%% deducted from sales", d.Percentage)
	case !d.Rent.IsZero():
		return fmt.Sprintf("%s deducted from sales", d.Rent)
	default:
		return ""
	}
}

// Settings carries everything the operator supplies for a run. It is built
// once by the caller and passed by value into the pipeline; the pipeline
// never reads ambient state.
type Settings struct {
	// PayoutCycle labels the settlement period. Carried through to the
	// reports, never used in computation.
	PayoutCycle string
	// Deals maps canonical brand name to its terms.
	Deals map[string]BrandDeal
}

// DealFor returns the deal for a brand, defaulting to no deduction for
// brands absent from the mapping.
func (s Settings) DealFor(brand string) BrandDeal {
	return s.Deals[brand]
}
