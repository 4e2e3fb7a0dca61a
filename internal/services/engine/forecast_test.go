package engine

import (
	"testing"

	"ShelfPulse/internal/domain/models"
)

func TestForecastDemandLinearTrend(t *testing.T) {
	e := NewForecastEngine()
	product := &models.Product{ID: "p-1", Price: 10}
	history := dailyHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	got := e.ForecastDemand(product, history, models.TimeframeWeek)

	if got.Algorithm != models.AlgorithmLinearRegression {
		t.Fatalf("algorithm = %q, want %q", got.Algorithm, models.AlgorithmLinearRegression)
	}
	if got.CurrentValue != 49 {
		t.Fatalf("current = %v, want 49", got.CurrentValue)
	}
	// Fit is y = x+1; the next seven indices 10..16 sum to 98.
	if got.PredictedValue != 98 {
		t.Fatalf("predicted = %v, want 98", got.PredictedValue)
	}
	if got.Confidence != ForecastConfidenceMax {
		t.Fatalf("confidence = %v, want %v", got.Confidence, ForecastConfidenceMax)
	}
	if got.Trend != models.TrendIncreasing {
		t.Fatalf("trend = %q, want %q", got.Trend, models.TrendIncreasing)
	}
	if got.GrowthRate != 1.0 {
		t.Fatalf("growth = %v, want 1.0", got.GrowthRate)
	}
}

func TestForecastDemandFloorsNegativePoints(t *testing.T) {
	e := NewForecastEngine()
	history := dailyHistory(6, 5, 4, 3, 2, 1, 0)

	got := e.ForecastDemand(&models.Product{ID: "p-1"}, history, models.TimeframeWeek)

	// The fitted line is already negative at every forecast index.
	if got.PredictedValue != 0 {
		t.Fatalf("predicted = %v, want 0", got.PredictedValue)
	}
	if got.Trend != models.TrendDecreasing {
		t.Fatalf("trend = %q, want %q", got.Trend, models.TrendDecreasing)
	}
	if got.GrowthRate != -1 {
		t.Fatalf("growth = %v, want -1", got.GrowthRate)
	}
}

func TestForecastDemandFlatSeries(t *testing.T) {
	e := NewForecastEngine()
	history := dailyHistory(5, 5, 5, 5, 5, 5, 5)

	got := e.ForecastDemand(&models.Product{ID: "p-1"}, history, models.TimeframeWeek)

	if got.PredictedValue != 35 || got.CurrentValue != 35 {
		t.Fatalf("predicted/current = %v/%v, want 35/35", got.PredictedValue, got.CurrentValue)
	}
	if got.Trend != models.TrendStable {
		t.Fatalf("trend = %q, want %q", got.Trend, models.TrendStable)
	}
	if got.GrowthRate != 0 {
		t.Fatalf("growth = %v, want 0", got.GrowthRate)
	}
}

func TestForecastDemandMovingAverageFallback(t *testing.T) {
	e := NewForecastEngine()
	history := dailyHistory(3, 5)

	got := e.ForecastDemand(&models.Product{ID: "p-1"}, history, models.TimeframeWeek)

	if got.Algorithm != models.AlgorithmMovingAverage {
		t.Fatalf("algorithm = %q, want %q", got.Algorithm, models.AlgorithmMovingAverage)
	}
	// avg daily 4 units over a 7-day window
	if got.PredictedValue != 28 {
		t.Fatalf("predicted = %v, want 28", got.PredictedValue)
	}
	if got.Confidence != ForecastConfidenceAvg {
		t.Fatalf("confidence = %v, want %v", got.Confidence, ForecastConfidenceAvg)
	}
	if got.GrowthRate != 2.5 {
		t.Fatalf("growth = %v, want 2.5", got.GrowthRate)
	}
}

func TestForecastDemandNoData(t *testing.T) {
	e := NewForecastEngine()

	got := e.ForecastDemand(&models.Product{ID: "p-1"}, nil, "")

	if got.Algorithm != models.AlgorithmNoData {
		t.Fatalf("algorithm = %q, want %q", got.Algorithm, models.AlgorithmNoData)
	}
	if got.PredictedValue != 0 || got.CurrentValue != 0 || got.GrowthRate != 0 {
		t.Fatalf("want zero forecast, got %+v", got)
	}
	if got.Confidence != ForecastConfidenceBase {
		t.Fatalf("confidence = %v, want %v", got.Confidence, ForecastConfidenceBase)
	}
	if got.Timeframe != models.TimeframeWeek {
		t.Fatalf("timeframe = %q, want default %q", got.Timeframe, models.TimeframeWeek)
	}
}

func TestSuggestPriceTrendBands(t *testing.T) {
	e := NewForecastEngine()
	product := &models.Product{ID: "p-1", Price: 100}

	rising := e.SuggestPrice(product, dailyHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	if rising.PredictedValue != 105 {
		t.Fatalf("rising suggestion = %v, want 105", rising.PredictedValue)
	}
	if rising.Confidence != 76 {
		t.Fatalf("rising confidence = %v, want 76", rising.Confidence)
	}
	if rising.Timeframe != models.TimeframeMonth {
		t.Fatalf("timeframe = %q, want %q", rising.Timeframe, models.TimeframeMonth)
	}

	falling := e.SuggestPrice(product, dailyHistory(10, 9, 8, 7, 6, 5, 4, 3, 2, 1))
	if falling.PredictedValue != 97 {
		t.Fatalf("falling suggestion = %v, want 97", falling.PredictedValue)
	}

	flat := e.SuggestPrice(product, dailyHistory(5, 5, 5, 5, 5))
	if flat.PredictedValue != 100 {
		t.Fatalf("flat suggestion = %v, want unchanged 100", flat.PredictedValue)
	}
}

func TestSuggestPriceFallbacks(t *testing.T) {
	e := NewForecastEngine()
	product := &models.Product{ID: "p-1", Price: 50}

	thin := e.SuggestPrice(product, dailyHistory(2, 4))
	if thin.Algorithm != models.AlgorithmMovingAverage {
		t.Fatalf("thin algorithm = %q, want %q", thin.Algorithm, models.AlgorithmMovingAverage)
	}
	if thin.PredictedValue != 50 || thin.Confidence != 32 {
		t.Fatalf("thin suggestion = %v conf %v, want 50 conf 32", thin.PredictedValue, thin.Confidence)
	}

	empty := e.SuggestPrice(product, nil)
	if empty.Algorithm != models.AlgorithmNoData {
		t.Fatalf("empty algorithm = %q, want %q", empty.Algorithm, models.AlgorithmNoData)
	}
	if empty.PredictedValue != 50 || empty.Confidence != 16 {
		t.Fatalf("empty suggestion = %v conf %v, want 50 conf 16", empty.PredictedValue, empty.Confidence)
	}
}
