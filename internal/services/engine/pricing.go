package engine

import (
	"fmt"
	"math"
	"time"

	"ShelfPulse/internal/domain/models"
	domsvc "ShelfPulse/internal/domain/service"
)

// PricingEngine combines the demand score with expiry urgency, competitive
// positioning and seasonality into one bounded recommendation. All inputs are
// caller-supplied snapshots; the engine holds no state and never fails on
// missing optional data.
type PricingEngine struct {
	scorer domsvc.DemandScorer
}

func NewPricingEngine(scorer domsvc.DemandScorer) *PricingEngine {
	return &PricingEngine{scorer: scorer}
}

// Recommend computes a pricing recommendation. The clock is read exactly once
// so repeated calls with identical inputs within the same instant are
// bit-identical.
func (e *PricingEngine) Recommend(product *models.Product, history []models.SalesRecord, competitors []models.Product, market models.MarketConditions) models.PricingResult {
	return e.recommendAt(time.Now().UTC(), product, history, competitors, market)
}

func (e *PricingEngine) recommendAt(now time.Time, product *models.Product, history []models.SalesRecord, competitors []models.Product, _ models.MarketConditions) models.PricingResult {
	basePrice := product.Price

	factors := models.PricingFactors{
		DemandScore:       e.scorer.Score(product, history),
		ExpiryUrgency:     expiryUrgency(now, product.ExpiryDate),
		CompetitionFactor: competitionFactor(basePrice, competitors),
		SeasonalityFactor: seasonalityFactor(now, history),
	}

	multiplier := 1.0
	strategy := models.StrategyDemandBased
	tags := make([]string, 0, 4)

	switch {
	case factors.DemandScore > DemandHighThreshold:
		multiplier *= DemandHighMultiplier
		tags = append(tags, models.FactorHighDemand)
	case factors.DemandScore > DemandMediumThreshold:
		multiplier *= DemandMediumMult
		tags = append(tags, models.FactorMediumDemand)
	default:
		multiplier *= DemandLowMultiplier
		tags = append(tags, models.FactorLowDemand)
	}

	switch {
	case factors.ExpiryUrgency > ExpiryUrgentThreshold:
		multiplier *= ExpiryUrgentMultiplier
		tags = append(tags, models.FactorUrgentExpiry)
		strategy = models.StrategyExpiryBased
	case factors.ExpiryUrgency > ExpiryNearThreshold:
		multiplier *= ExpiryNearMultiplier
		tags = append(tags, models.FactorApproachingExpiry)
	}

	multiplier *= factors.CompetitionFactor
	if factors.CompetitionFactor < TagCompetitiveBelow {
		tags = append(tags, models.FactorCompetitivePricing)
	} else if factors.CompetitionFactor > TagPremiumAbove {
		tags = append(tags, models.FactorPremiumPositioning)
	}

	multiplier *= factors.SeasonalityFactor
	if factors.SeasonalityFactor > TagSeasonalPeak {
		tags = append(tags, models.FactorSeasonalPeak)
	} else if factors.SeasonalityFactor < TagSeasonalLow {
		tags = append(tags, models.FactorSeasonalLow)
	}

	// Strategy refinement: an urgent-expiry product that is also in high
	// demand is a hybrid case; a pure competition-driven adjustment without
	// expiry pressure is competitive.
	if strategy == models.StrategyExpiryBased && factors.DemandScore > DemandHighThreshold {
		strategy = models.StrategyHybrid
	} else if strategy == models.StrategyDemandBased && factors.CompetitionFactor != 1.0 {
		strategy = models.StrategyCompetitive
	}

	recommended := clampPrice(basePrice*multiplier, basePrice, product)
	change := recommended - basePrice
	changePct := 0.0
	if basePrice > 0 {
		changePct = change / basePrice * 100
	}

	return models.PricingResult{
		ProductID:        product.ID,
		CurrentPrice:     basePrice,
		RecommendedPrice: recommended,
		PriceChange:      round2(change),
		ChangePercentage: round2(changePct),
		Confidence:       pricingConfidence(len(history), factors, product),
		Strategy:         strategy,
		Factors:          tags,
		Explanation:      explain(strategy, changePct),
		Metadata:         factors,
	}
}

// expiryUrgency maps days until expiry into [0,1]. No expiry date means no
// urgency at all; a past date means the product is already expired.
func expiryUrgency(now time.Time, expiry *time.Time) float64 {
	if expiry == nil {
		return 0
	}
	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	switch {
	case days <= 0:
		return 1.0
	case days <= 3:
		return ExpiryUrgency3d
	case days <= 7:
		return ExpiryUrgency7d
	case days <= 14:
		return ExpiryUrgency14d
	case days <= 30:
		return ExpiryUrgency30d
	default:
		return ExpiryUrgencyFar
	}
}

// competitionFactor compares the product's price to the mean of its peers.
// No usable competitor prices means a neutral 1.0.
func competitionFactor(ownPrice float64, competitors []models.Product) float64 {
	prices := make([]float64, 0, len(competitors))
	for _, c := range competitors {
		if c.Price > 0 {
			prices = append(prices, c.Price)
		}
	}
	if len(prices) == 0 || ownPrice <= 0 {
		return 1.0
	}

	ratio := ownPrice / mean(prices)
	switch {
	case ratio > CompetitionHighRatio:
		return CompetitionDiscountHard
	case ratio > CompetitionAboveRatio:
		return CompetitionDiscountSoft
	case ratio < CompetitionLowRatio:
		return CompetitionPremiumHard
	case ratio < CompetitionBelowRatio:
		return CompetitionPremiumSoft
	default:
		return 1.0
	}
}

// seasonalityFactor compares the current calendar month's sales volume to the
// yearly average. Requires a long history; otherwise neutral.
func seasonalityFactor(now time.Time, history []models.SalesRecord) float64 {
	if len(history) < MinRecordsYearly {
		return 1.0
	}

	var monthly [12]float64
	for _, r := range history {
		monthly[int(r.Date.Month())-1] += float64(r.Quantity)
	}

	total := 0.0
	for _, q := range monthly {
		total += q
	}
	yearlyAverage := total / 12
	if yearlyAverage == 0 {
		return 1.0
	}

	ratio := monthly[int(now.Month())-1] / yearlyAverage
	switch {
	case ratio > SeasonPeakRatio:
		return SeasonPeakFactor
	case ratio > SeasonHighRatio:
		return SeasonHighFactor
	case ratio < SeasonTroughRatio:
		return SeasonTroughFactor
	case ratio < SeasonLowRatio:
		return SeasonLowFactor
	default:
		return 1.0
	}
}

// clampPrice bounds the raw recommendation to [cost*1.1, price*2]. A missing
// cost means no floor constraint, never a zero floor.
func clampPrice(raw, basePrice float64, product *models.Product) float64 {
	upper := basePrice * PriceCeilingMultiple
	lower := 0.0
	if product.HasCost() {
		lower = *product.Cost * PriceFloorCostMultiple
	}
	if lower > upper {
		lower = upper
	}
	return round2(clamp(raw, lower, upper))
}

// pricingConfidence grows with history depth and with each signal that
// actually contributed, capped below full certainty.
func pricingConfidence(historyLen int, factors models.PricingFactors, product *models.Product) float64 {
	confidence := ConfidenceBase
	switch {
	case historyLen >= ConfidenceRichRecords:
		confidence += ConfidenceRich
	case historyLen >= ConfidenceMedRecords:
		confidence += ConfidenceMedium
	case historyLen >= ConfidenceThinRecords:
		confidence += ConfidenceThin
	}
	if factors.DemandScore != NeutralScore {
		confidence += ConfidenceSignalBonus
	}
	if factors.ExpiryUrgency > 0 {
		confidence += ConfidenceSignalBonus
	}
	if product.ExpiryDate != nil {
		confidence += ConfidenceSignalBonus
	}
	return round2(clamp(confidence, 0, MaxConfidence))
}

// explain renders the human-readable rationale from strategy, direction and
// magnitude of change.
func explain(strategy string, changePct float64) string {
	abs := math.Abs(changePct)
	if abs < 0.005 {
		return "No price change recommended; the current price is aligned with demand and market conditions."
	}

	direction := "increase"
	if changePct < 0 {
		direction = "decrease"
	}

	magnitude := "slight"
	switch {
	case abs > MagnitudeModerateMax:
		magnitude = "significant"
	case abs >= MagnitudeSlightMax:
		magnitude = "moderate"
	}

	switch strategy {
	case models.StrategyExpiryBased:
		return fmt.Sprintf("Approaching expiry drives a %s price %s of %.1f%% to clear remaining stock before shelf life ends.", magnitude, direction, abs)
	case models.StrategyHybrid:
		return fmt.Sprintf("Strong demand combined with expiry pressure suggests a %s price %s of %.1f%%, balancing sell-through against margin.", magnitude, direction, abs)
	case models.StrategyCompetitive:
		return fmt.Sprintf("Competitor positioning suggests a %s price %s of %.1f%% to stay aligned with category peers.", magnitude, direction, abs)
	default:
		return fmt.Sprintf("Current demand patterns support a %s price %s of %.1f%%.", magnitude, direction, abs)
	}
}

var _ domsvc.PricingEngine = (*PricingEngine)(nil)
