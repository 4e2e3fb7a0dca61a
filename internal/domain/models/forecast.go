package models

import "time"

// Prediction types and timeframe labels.
const (
	PredictionTypeDemand = "demand"
	PredictionTypePrice  = "price"

	TimeframeWeek  = "7d"
	TimeframeMonth = "30d"
)

// Trend labels for DemandForecast.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Forecast algorithm tags, kept in prediction metadata so the fallback path
// is distinguishable from the regression path downstream.
const (
	AlgorithmLinearRegression = "linear_regression"
	AlgorithmMovingAverage    = "moving_average"
	AlgorithmNoData           = "no_data"
)

// DemandForecast is the short-horizon unit forecast for one product.
// CurrentValue is the observed units in the trailing window, PredictedValue
// the forecast units for the next window. Confidence is on a 0-100 scale.
type DemandForecast struct {
	ProductID      string  `json:"productId"`
	CurrentValue   float64 `json:"currentValue"`
	PredictedValue float64 `json:"predictedValue"`
	Confidence     float64 `json:"confidence"`
	Timeframe      string  `json:"timeframe"`
	Trend          string  `json:"trend"`
	GrowthRate     float64 `json:"growthRate"`
	Algorithm      string  `json:"algorithm"`
}

// PriceOptimization is the 30-day price-trend suggestion derived from the
// same regression as the demand forecast.
type PriceOptimization struct {
	ProductID      string  `json:"productId"`
	CurrentValue   float64 `json:"currentValue"`
	PredictedValue float64 `json:"predictedValue"`
	Confidence     float64 `json:"confidence"`
	Timeframe      string  `json:"timeframe"`
	Algorithm      string  `json:"algorithm"`
}

// PredictionRecord is the persisted form of a forecast or price suggestion.
type PredictionRecord struct {
	ID             string    `json:"id,omitempty"`
	ProductID      string    `json:"productId"`
	Type           string    `json:"type"`
	CurrentValue   float64   `json:"currentValue"`
	PredictedValue float64   `json:"predictedValue"`
	Confidence     float64   `json:"confidence"`
	Timeframe      string    `json:"timeframe"`
	Algorithm      string    `json:"algorithm"`
	CreatedAt      time.Time `json:"createdAt"`
}
