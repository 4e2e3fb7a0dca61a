package models

import (
	"fmt"
	"time"

	xutil "ShelfPulse/pkg/util"
)

// Requests for pricing HTTP endpoints. Defined in domain for consistency and reuse.

// ProductPayload is the inline product snapshot accepted by pricing/forecast
// requests. Validation rejects malformed shapes up front; the engine itself
// never errors on missing optional fields.
type ProductPayload struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	StoreID    string   `json:"storeId"`
	Price      float64  `json:"price" validate:"required,gt=0"`
	Cost       *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	StockLevel int      `json:"stockLevel" validate:"gte=0"`
	ExpiryDate string   `json:"expiryDate,omitempty"`
}

// Model converts the payload to a Product snapshot. ExpiryDate accepts
// RFC 3339 or a bare calendar date.
func (p *ProductPayload) Model() (*Product, error) {
	product := &Product{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		StoreID:    p.StoreID,
		Price:      p.Price,
		Cost:       p.Cost,
		StockLevel: p.StockLevel,
	}
	if p.ExpiryDate != "" {
		t, ok := xutil.ParseTime(p.ExpiryDate)
		if !ok {
			var err error
			t, err = time.Parse("2006-01-02", p.ExpiryDate)
			if err != nil {
				return nil, fmt.Errorf("invalid expiryDate %q: %w", p.ExpiryDate, err)
			}
		}
		product.ExpiryDate = &t
	}
	return product, nil
}

// CompetitorPayload is a peer product price supplied inline on pricing calls.
type CompetitorPayload struct {
	ID    string  `json:"id"`
	Price float64 `json:"price" validate:"gte=0"`
}

type PricingRequest struct {
	Product     ProductPayload      `json:"product" validate:"required"`
	Competitors []CompetitorPayload `json:"competitors,omitempty" validate:"omitempty,dive"`
	Market      MarketConditions    `json:"marketConditions,omitempty"`
	DaysBack    int                 `json:"daysBack" default:"90" validate:"gte=1,lte=365"`
}

type ForecastRequest struct {
	Product   ProductPayload `json:"product" validate:"required"`
	Timeframe string         `json:"timeframe" default:"7d" validate:"oneof=7d 30d"`
	DaysBack  int            `json:"daysBack" default:"90" validate:"gte=1,lte=365"`
}

type RunPredictionsRequest struct {
	StoreID  string `json:"storeId"`
	DaysBack int    `json:"daysBack" default:"90" validate:"gte=1,lte=365"`
}

type PredictionHistoryRequest struct {
	ProductID string `query:"product_id" json:"productId" validate:"required"`
	Limit     int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=500"`
}
