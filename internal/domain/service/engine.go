package service

import (
	"context"

	"ShelfPulse/internal/domain/models"
)

// DemandScorer reduces a product's sales history to one scalar in [0,1]
// representing relative demand strength. Implementations never fail; data
// quality issues degrade to the neutral score 0.5.
type DemandScorer interface {
	Score(product *models.Product, history []models.SalesRecord) float64
}

// PricingEngine combines demand, expiry urgency, competitive positioning and
// seasonality into one bounded price recommendation with rationale.
type PricingEngine interface {
	Recommend(product *models.Product, history []models.SalesRecord, competitors []models.Product, market models.MarketConditions) models.PricingResult
}

// DemandForecaster produces the short-horizon unit forecast and the
// trend-based price suggestion used by batch prediction runs.
type DemandForecaster interface {
	ForecastDemand(product *models.Product, history []models.SalesRecord, timeframe string) models.DemandForecast
	SuggestPrice(product *models.Product, history []models.SalesRecord) models.PriceOptimization
}

// CompetitorSource supplies peer price snapshots when the caller does not
// provide them inline. Implementations must degrade to an empty slice on
// lookup failure rather than failing the pricing call.
type CompetitorSource interface {
	Competitors(ctx context.Context, category string, excludeID string) []models.Product
}
