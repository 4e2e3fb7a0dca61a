package models

// Pricing strategies reported in PricingResult.
const (
	StrategyDemandBased = "demand_based"
	StrategyExpiryBased = "expiry_based"
	StrategyHybrid      = "hybrid"
	StrategyCompetitive = "competitive"
)

// Factor tags explaining which pricing rules fired.
const (
	FactorHighDemand         = "high_demand"
	FactorMediumDemand       = "medium_demand"
	FactorLowDemand          = "low_demand"
	FactorUrgentExpiry       = "urgent_expiry"
	FactorApproachingExpiry  = "approaching_expiry"
	FactorCompetitivePricing = "competitive_pricing"
	FactorPremiumPositioning = "premium_positioning"
	FactorSeasonalPeak       = "seasonal_peak"
	FactorSeasonalLow        = "seasonal_low"
)

// PricingFactors carries the four raw sub-factor scores behind a
// recommendation. Serialized as PricingResult metadata for consumers.
type PricingFactors struct {
	DemandScore       float64 `json:"demandScore"`
	ExpiryUrgency     float64 `json:"expiryUrgency"`
	CompetitionFactor float64 `json:"competitionFactor"`
	SeasonalityFactor float64 `json:"seasonalityFactor"`
}

// PricingResult is the immutable output of a dynamic-pricing call.
type PricingResult struct {
	ProductID        string         `json:"productId"`
	CurrentPrice     float64        `json:"currentPrice"`
	RecommendedPrice float64        `json:"recommendedPrice"`
	PriceChange      float64        `json:"priceChange"`
	ChangePercentage float64        `json:"changePercentage"`
	Confidence       float64        `json:"confidence"`
	Strategy         string         `json:"strategy"`
	Factors          []string       `json:"factors"`
	Explanation      string         `json:"explanation"`
	Metadata         PricingFactors `json:"metadata"`
}

// MarketConditions is accepted on pricing requests for forward compatibility.
// The engine currently does not act on it.
type MarketConditions map[string]any
