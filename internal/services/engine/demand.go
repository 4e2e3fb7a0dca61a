package engine

import (
	"sort"

	"ShelfPulse/internal/domain/models"
	domsvc "ShelfPulse/internal/domain/service"
)

// DemandScorer reduces a sales-history series to a scalar in [0,1].
// It is a pure function over its inputs and never fails: anything the math
// cannot handle degrades to the neutral score.
type DemandScorer struct{}

func NewDemandScorer() *DemandScorer { return &DemandScorer{} }

// Score computes the weighted composite demand score for a product.
// History may arrive in any order; it is sorted ascending by date first.
func (s *DemandScorer) Score(product *models.Product, history []models.SalesRecord) float64 {
	if product == nil || len(history) < MinRecordsDemand {
		return NeutralScore
	}

	sorted := sortByDate(history)

	score := WeightTrend*trendScore(sorted) +
		WeightSeasonality*seasonalityScore(sorted) +
		WeightVelocity*velocityScore(sorted) +
		WeightStockout*stockoutScore(product.StockLevel, sorted)

	return clamp(score, 0, 1)
}

// sortByDate returns a date-ascending copy; the input is never mutated.
func sortByDate(history []models.SalesRecord) []models.SalesRecord {
	sorted := make([]models.SalesRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// trendScore fits an OLS line to (index, quantity) and maps the normalized
// slope into [0,1]. 0.5 is flat; above 0.5 means quantities are rising.
func trendScore(sorted []models.SalesRecord) float64 {
	if len(sorted) < MinRecordsTrend {
		return NeutralScore
	}

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, r := range sorted {
		xs[i] = float64(i)
		ys[i] = float64(r.Quantity)
	}

	fit, ok := fitLine(xs, ys)
	if !ok {
		return NeutralScore
	}

	scale := float64(sorted[len(sorted)-1].Quantity) / TrendQtyScale
	if scale < 1 {
		scale = 1
	}
	normalized := clamp(fit.Slope/scale, -1, 1)
	return (normalized + 1) / 2
}

// seasonalityScore measures day-to-day variability of sales volume. Higher
// coefficient of variation across calendar days means stronger seasonality.
func seasonalityScore(sorted []models.SalesRecord) float64 {
	if len(sorted) < MinRecordsSeasonality {
		return NeutralScore
	}

	byDay := make(map[string]float64)
	for _, r := range sorted {
		byDay[r.Date.Format("2006-01-02")] += float64(r.Quantity)
	}

	daily := make([]float64, 0, len(byDay))
	for _, q := range byDay {
		daily = append(daily, q)
	}

	return clamp(coefficientOfVariation(daily)*SeasonalityCVMultiple, 0, 1)
}

// velocityScore compares units sold in the most recent 7 records against the
// prior 7, mapping relative growth into [0,1].
func velocityScore(sorted []models.SalesRecord) float64 {
	if len(sorted) < MinRecordsVelocity {
		return NeutralScore
	}

	recent := sumQuantity(sorted[len(sorted)-VelocityWindow:])
	priorStart := len(sorted) - 2*VelocityWindow
	if priorStart < 0 {
		priorStart = 0
	}
	prior := sumQuantity(sorted[priorStart : len(sorted)-VelocityWindow])

	if prior == 0 {
		if recent > 0 {
			return VelocityGrowthScore
		}
		return VelocityNoSalesScore
	}

	growth := float64(recent-prior) / float64(prior)
	return clamp((growth+1)/2, 0, 1)
}

// stockoutScore estimates sell-out risk from days of supply at the recent
// sales rate. Zero recent sales means supply is effectively unbounded.
func stockoutScore(stockLevel int, sorted []models.SalesRecord) float64 {
	if len(sorted) < MinRecordsStockout {
		return NeutralScore
	}

	recent := sorted[len(sorted)-VelocityWindow:]
	avgDaily := float64(sumQuantity(recent)) / float64(len(recent))
	if avgDaily <= 0 {
		return StockoutHealthyScore
	}

	daysOfSupply := float64(stockLevel) / avgDaily
	switch {
	case daysOfSupply <= StockoutCriticalDays:
		return StockoutCriticalScore
	case daysOfSupply <= StockoutLowDays:
		return StockoutLowScore
	case daysOfSupply <= StockoutModerateDays:
		return StockoutModerateScore
	default:
		return StockoutHealthyScore
	}
}

func sumQuantity(records []models.SalesRecord) int {
	total := 0
	for _, r := range records {
		total += r.Quantity
	}
	return total
}

var _ domsvc.DemandScorer = (*DemandScorer)(nil)
