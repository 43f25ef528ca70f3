package payout

import (
	"fmt"
	"sort"
	"strings"
)

// RankedEntry is one row of a top-N ranking.
type RankedEntry struct {
	Name     string
	Quantity int64
}

// String formats the entry the way it appears on report sheets.
func (e RankedEntry) String() string {
	return fmt.Sprintf("%s (%d units)", e.Name, e.Quantity)
}

// quantityTally accumulates summed quantities per key while remembering
// insertion order. Ties are always resolved in favor of the key inserted
// first; iteration-order-dependent winners would make reports flap between
// runs on identical input.
type quantityTally struct {
	keys   []string
	totals map[string]int64
}

func newQuantityTally() *quantityTally {
	return &quantityTally{totals: make(map[string]int64)}
}

func (t *quantityTally) add(key string, qty int64) {
	if _, seen := t.totals[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.totals[key] += qty
}

// max returns the first-inserted key holding the maximum summed quantity.
func (t *quantityTally) max() (string, int64) {
	var (
		bestKey string
		bestQty int64
		found   bool
	)
	for _, k := range t.keys {
		if !found || t.totals[k] > bestQty {
			bestKey, bestQty, found = k, t.totals[k], true
		}
	}
	return bestKey, bestQty
}

// leaders returns every key tied for the maximum, in insertion order.
func (t *quantityTally) leaders() []string {
	if len(t.keys) == 0 {
		return nil
	}
	_, bestQty := t.max()
	var out []string
	for _, k := range t.keys {
		if t.totals[k] == bestQty {
			out = append(out, k)
		}
	}
	return out
}

// top returns the n highest entries by summed quantity, descending. Equal
// quantities keep insertion order.
func (t *quantityTally) top(n int) []RankedEntry {
	entries := make([]RankedEntry, 0, len(t.keys))
	for _, k := range t.keys {
		entries = append(entries, RankedEntry{Name: k, Quantity: t.totals[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Quantity > entries[j].Quantity
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// SizeToken extracts the size suffix from a free-text product name: the
// substring after the last hyphen, trimmed. Names without a hyphen, or with
// nothing after the last one, yield "".
func SizeToken(productName string) string {
	idx := strings.LastIndex(productName, "-")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(productName[idx+1:])
}

func sizeTally(records []SalesRecord) *quantityTally {
	tally := newQuantityTally()
	for _, rec := range records {
		token := SizeToken(rec.ProductName)
		if token == "" {
			continue
		}
		tally.add(token, rec.Quantity)
	}
	return tally
}

func productTally(records []SalesRecord) *quantityTally {
	tally := newQuantityTally()
	for _, rec := range records {
		if rec.ProductName == "" {
			continue
		}
		tally.add(rec.ProductName, rec.Quantity)
	}
	return tally
}

// BestSellingSize returns the size token with the highest summed quantity,
// or "" when no product name encodes a size.
func BestSellingSize(records []SalesRecord) string {
	size, _ := sizeTally(records).max()
	return size
}

// BestSellingProducts returns every product name tied for the highest
// summed quantity. The result is one-or-many: callers must not assume a
// single winner.
func BestSellingProducts(records []SalesRecord) []string {
	return productTally(records).leaders()
}

// TopProducts returns the n best-selling product names with their summed
// quantities, descending.
func TopProducts(records []SalesRecord, n int) []RankedEntry {
	return productTally(records).top(n)
}

// TopSizes returns the n best-selling size tokens with their summed
// quantities, descending.
func TopSizes(records []SalesRecord, n int) []RankedEntry {
	return sizeTally(records).top(n)
}
