package models

import "time"

// Product is a read-only snapshot of a catalog item at pricing time.
// Cost and ExpiryDate are optional; nil means the value is unknown, which the
// engine treats as "no floor constraint" and "no expiry urgency" respectively.
type Product struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Category   string     `json:"category,omitempty"`
	StoreID    string     `json:"storeId,omitempty"`
	Price      float64    `json:"price"`
	Cost       *float64   `json:"cost,omitempty"`
	StockLevel int        `json:"stockLevel"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// HasCost reports whether a positive unit cost is known.
func (p *Product) HasCost() bool { return p.Cost != nil && *p.Cost > 0 }

// SalesRecord is one immutable sales transaction for a product.
type SalesRecord struct {
	ProductID string    `json:"productId"`
	StoreID   string    `json:"storeId,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Revenue   float64   `json:"revenue"`
	Date      time.Time `json:"date"`
}

// SaleEvent is the wire form of a POS transaction flowing through the ingest
// pipeline before it becomes a stored SalesRecord.
type SaleEvent struct {
	ProductID string  `json:"productId"`
	StoreID   string  `json:"storeId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Revenue   float64 `json:"revenue"`
	Timestamp int64   `json:"ts"` // unix seconds
}

// Record converts the event to a SalesRecord with recomputed revenue.
// The stored revenue figure is kept by the ingest handler only for the
// data-quality mismatch check; quantity*unitPrice is canonical.
func (e *SaleEvent) Record() SalesRecord {
	return SalesRecord{
		ProductID: e.ProductID,
		StoreID:   e.StoreID,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice,
		Revenue:   float64(e.Quantity) * e.UnitPrice,
		Date:      time.Unix(e.Timestamp, 0).UTC(),
	}
}
