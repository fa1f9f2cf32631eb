package dataset

import (
	"strings"
)

// RealizedUnitPrice computes the actual per-unit price paid for a record.
// Returns ok=false when quantity is zero, where the price is undefined.
// Division by a signed quantity is intentional: returns are filtered
// downstream, not here.
func RealizedUnitPrice(r Record) (price float64, ok bool) {
	if r.Quantity == 0 {
		return 0, false
	}
	return r.TotalSales / r.Quantity, true
}

// DiscountPct computes the discount percentage versus RRP for a record.
// Positive values mean selling below RRP, negative above. Returns ok=false
// when RRP is absent or zero, or when the realized price is undefined.
func DiscountPct(r Record) (pct float64, ok bool) {
	if !r.HasRRP() {
		return 0, false
	}
	realized, ok := RealizedUnitPrice(r)
	if !ok {
		return 0, false
	}
	return (*r.RRP - realized) / *r.RRP * 100, true
}

// MatchesSupplier reports whether a record belongs to the named supplier.
// Matching is a case-insensitive substring test: source data spells supplier
// names inconsistently, so exact matching would silently drop records.
func MatchesSupplier(r Record, name string) bool {
	if name == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Supplier), strings.ToLower(name))
}

// FilterValid returns a new snapshot with invalid transactions removed.
// With both flags false (the analysis default) only strictly positive
// quantity and sales survive. The input snapshot is never mutated.
func FilterValid(s Snapshot, allowNegatives, allowZeros bool) Snapshot {
	out := Snapshot{
		Source:      s.Source,
		LoadedAt:    s.LoadedAt,
		SkippedRows: s.SkippedRows,
	}
	out.Records = make([]Record, 0, len(s.Records))
	for _, r := range s.Records {
		if !allowNegatives && r.IsReturn() {
			continue
		}
		if !allowZeros && r.IsZero() {
			continue
		}
		out.Records = append(out.Records, r)
	}
	return out
}

// FilterSupplier returns a new snapshot restricted to records matching the
// named supplier. An empty name returns a copy of the full snapshot.
func FilterSupplier(s Snapshot, name string) Snapshot {
	out := Snapshot{
		Source:      s.Source,
		LoadedAt:    s.LoadedAt,
		SkippedRows: s.SkippedRows,
	}
	out.Records = make([]Record, 0, len(s.Records))
	for _, r := range s.Records {
		if MatchesSupplier(r, name) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
