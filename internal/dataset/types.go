package dataset

import (
	"time"
)

// Record represents a single point-of-sale transaction from the raw snapshot.
// Quantity and TotalSales are signed: negative values are returns/refunds and
// zero-quantity rows carry no economic meaning. Filtering happens downstream,
// not at load time.
type Record struct {
	Store         string     `json:"store"`
	ItemCode      int64      `json:"item_code"`
	Barcode       string     `json:"barcode,omitempty"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Department    string     `json:"department"`
	SubDepartment string     `json:"sub_department"`
	Section       string     `json:"section"`
	Quantity      float64    `json:"quantity"`
	TotalSales    float64    `json:"total_sales"`
	RRP           *float64   `json:"rrp,omitempty"`
	Supplier      string     `json:"supplier"`
	SaleDate      time.Time  `json:"sale_date"`
}

// HasRRP reports whether the record carries a usable recommended retail price.
func (r Record) HasRRP() bool {
	return r.RRP != nil && *r.RRP != 0
}

// IsReturn reports whether the record represents a return/refund.
func (r Record) IsReturn() bool {
	return r.Quantity < 0 || r.TotalSales < 0
}

// IsZero reports whether the record has a zero quantity or zero sales value.
func (r Record) IsZero() bool {
	return r.Quantity == 0 || r.TotalSales == 0
}

// Snapshot is an immutable in-memory view of the transaction dataset.
// It is built once by the loader and shared read-only across concurrent
// analyses; all filtering operations return a new Snapshot.
type Snapshot struct {
	Records     []Record  `json:"records"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
	SkippedRows int       `json:"skipped_rows"`
}

// Len returns the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Records)
}

// IsEmpty reports whether the snapshot contains no records.
func (s Snapshot) IsEmpty() bool {
	return len(s.Records) == 0
}

// DateRange returns the earliest and latest sale dates in the snapshot.
// Both zero values are returned for an empty snapshot.
func (s Snapshot) DateRange() (start, end time.Time) {
	for _, r := range s.Records {
		if start.IsZero() || r.SaleDate.Before(start) {
			start = r.SaleDate
		}
		if end.IsZero() || r.SaleDate.After(end) {
			end = r.SaleDate
		}
	}
	return start, end
}

// UniqueStores returns the number of distinct store names.
func (s Snapshot) UniqueStores() int {
	seen := make(map[string]struct{})
	for _, r := range s.Records {
		seen[r.Store] = struct{}{}
	}
	return len(seen)
}

// UniqueSuppliers returns the number of distinct supplier names.
func (s Snapshot) UniqueSuppliers() int {
	seen := make(map[string]struct{})
	for _, r := range s.Records {
		seen[r.Supplier] = struct{}{}
	}
	return len(seen)
}

// UniqueItems returns the number of distinct item codes.
func (s Snapshot) UniqueItems() int {
	seen := make(map[int64]struct{})
	for _, r := range s.Records {
		seen[r.ItemCode] = struct{}{}
	}
	return len(seen)
}
