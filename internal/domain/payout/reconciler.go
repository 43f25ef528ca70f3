package payout

// ReconcileResult is the outcome of refund reconciliation. RemovedCount
// counts refunds plus the originals they consumed; a gap between
// 2*RefundCount and RemovedCount means some refunds had no matching sale,
// which is tolerated and reported, not an error.
type ReconcileResult struct {
	Records      []SalesRecord
	RefundCount  int
	RemovedCount int
}

// Reconcile removes refund rows together with the one original sale each of
// them reverses.
//
// A refund (negative quantity) consumes the first not-yet-consumed,
// positive-quantity row with the same barcode, the same brand and a
// quantity exactly equal to the refund's absolute quantity. Refunds are
// processed in original row order and ties among candidates are broken by
// row order, so the matching is deterministic at-most-one-to-one. A refund
// with no match is still dropped on its own.
//
// When the dataset lacks a quantity or barcode column entirely there is
// nothing to match on and the input is returned unchanged.
func Reconcile(ds *SalesDataset) *ReconcileResult {
	if !ds.HasQuantity || !ds.HasBarcode {
		return &ReconcileResult{Records: ds.Records}
	}

	var refunds []SalesRecord
	for _, rec := range ds.Records {
		if rec.IsRefund() {
			refunds = append(refunds, rec)
		}
	}
	if len(refunds) == 0 {
		return &ReconcileResult{Records: ds.Records}
	}

	removed := make(map[int]struct{}, 2*len(refunds))
	for _, refund := range refunds {
		removed[refund.ID] = struct{}{}
		want := -refund.Quantity

		for _, cand := range ds.Records {
			if _, gone := removed[cand.ID]; gone {
				continue
			}
			if cand.Quantity <= 0 {
				continue
			}
			if cand.Barcode == refund.Barcode && cand.Brand == refund.Brand && cand.Quantity == want {
				removed[cand.ID] = struct{}{}
				break
			}
		}
	}

	surviving := make([]SalesRecord, 0, len(ds.Records)-len(removed))
	for _, rec := range ds.Records {
		if _, gone := removed[rec.ID]; gone {
			continue
		}
		surviving = append(surviving, rec)
	}

	return &ReconcileResult{
		Records:      surviving,
		RefundCount:  len(refunds),
		RemovedCount: len(removed),
	}
}
