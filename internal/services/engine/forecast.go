package engine

import (
	"math"

	"ShelfPulse/internal/domain/models"
	domsvc "ShelfPulse/internal/domain/service"
)

// ForecastEngine produces the regression-based short-horizon unit forecast
// and the slope-based price suggestion used by batch prediction runs. Like
// the other engines it is pure and degrades instead of failing: thin history
// falls back to a moving average, empty history to a zero forecast.
type ForecastEngine struct{}

func NewForecastEngine() *ForecastEngine { return &ForecastEngine{} }

// ForecastDemand predicts units sold over the next window from the trailing
// history. Confidence is on a 0-100 scale, driven by the regression R² on the
// primary path and fixed on the fallback paths.
func (e *ForecastEngine) ForecastDemand(product *models.Product, history []models.SalesRecord, timeframe string) models.DemandForecast {
	if timeframe == "" {
		timeframe = models.TimeframeWeek
	}

	sorted := sortByDate(history)
	current := float64(sumQuantity(recentWindow(sorted, ForecastWindow)))

	forecast := models.DemandForecast{
		ProductID:    productID(product),
		CurrentValue: current,
		Timeframe:    timeframe,
		Trend:        models.TrendStable,
	}

	fit, ok := quantityFit(sorted)
	switch {
	case ok:
		predicted := 0.0
		lastIdx := float64(len(sorted) - 1)
		for i := 1; i <= ForecastWindow; i++ {
			v := fit.At(lastIdx + float64(i))
			if v > 0 {
				predicted += v
			}
		}
		forecast.PredictedValue = math.Round(predicted)
		forecast.Confidence = clamp(ForecastConfidenceBase+fit.R2*ForecastConfidenceR2, ForecastConfidenceBase, ForecastConfidenceMax)
		forecast.Algorithm = models.AlgorithmLinearRegression
		forecast.Trend = trendLabel(fit.Slope)

	case len(sorted) > 0:
		avgDaily := float64(sumQuantity(sorted)) / float64(len(sorted))
		forecast.PredictedValue = math.Round(avgDaily * ForecastWindow)
		forecast.Confidence = ForecastConfidenceAvg
		forecast.Algorithm = models.AlgorithmMovingAverage

	default:
		forecast.PredictedValue = 0
		forecast.Confidence = ForecastConfidenceBase
		forecast.Algorithm = models.AlgorithmNoData
	}

	if current > 0 {
		forecast.GrowthRate = round2((forecast.PredictedValue - current) / current)
	}
	return forecast
}

// SuggestPrice derives a 30-day price adjustment from the demand trend slope.
// Its confidence is the demand-forecast confidence discounted, since it is
// one derivation further from the data.
func (e *ForecastEngine) SuggestPrice(product *models.Product, history []models.SalesRecord) models.PriceOptimization {
	sorted := sortByDate(history)

	suggested := product.Price
	algorithm := models.AlgorithmNoData
	demandConfidence := ForecastConfidenceBase

	fit, ok := quantityFit(sorted)
	switch {
	case ok:
		if fit.Slope > PriceTrendSlopeUp {
			suggested = product.Price * PriceTrendUpMultiplier
		} else if fit.Slope < PriceTrendSlopeDown {
			suggested = product.Price * PriceTrendDownMult
		}
		demandConfidence = clamp(ForecastConfidenceBase+fit.R2*ForecastConfidenceR2, ForecastConfidenceBase, ForecastConfidenceMax)
		algorithm = models.AlgorithmLinearRegression
	case len(sorted) > 0:
		demandConfidence = ForecastConfidenceAvg
		algorithm = models.AlgorithmMovingAverage
	}

	return models.PriceOptimization{
		ProductID:      productID(product),
		CurrentValue:   product.Price,
		PredictedValue: round2(suggested),
		Confidence:     math.Round(demandConfidence * PriceConfidenceDiscount),
		Timeframe:      models.TimeframeMonth,
		Algorithm:      algorithm,
	}
}

// quantityFit fits (index, quantity) pairs; requires at least 3 points.
func quantityFit(sorted []models.SalesRecord) (linearFit, bool) {
	if len(sorted) < MinRecordsTrend {
		return linearFit{}, false
	}
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, r := range sorted {
		xs[i] = float64(i)
		ys[i] = float64(r.Quantity)
	}
	return fitLine(xs, ys)
}

func recentWindow(sorted []models.SalesRecord, n int) []models.SalesRecord {
	if len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}

func trendLabel(slope float64) string {
	switch {
	case slope > PriceTrendSlopeUp:
		return models.TrendIncreasing
	case slope < PriceTrendSlopeDown:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func productID(p *models.Product) string {
	if p == nil {
		return ""
	}
	return p.ID
}

var _ domsvc.DemandForecaster = (*ForecastEngine)(nil)
