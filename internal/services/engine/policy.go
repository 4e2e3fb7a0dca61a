package engine

// Policy knobs for the demand, pricing and forecast engines. These are tuning
// constants, not derived values; keep them here so behavior stays centrally
// adjustable and testable in isolation.

// Demand sub-score weights. Must sum to 1.
const (
	WeightTrend       = 0.40
	WeightSeasonality = 0.25
	WeightVelocity    = 0.20
	WeightStockout    = 0.15
)

// Minimum history lengths per sub-score. Below the minimum a sub-score
// returns the neutral 0.5.
const (
	MinRecordsDemand      = 5
	MinRecordsTrend       = 3
	MinRecordsSeasonality = 30
	MinRecordsVelocity    = 7
	MinRecordsStockout    = 7
	MinRecordsYearly      = 90
)

// NeutralScore is the demand score for insufficient or degenerate history.
const NeutralScore = 0.5

// Trend slope normalization: slope is divided by max(1, lastQty/TrendQtyScale).
const TrendQtyScale = 10.0

// Velocity window and no-baseline scores.
const (
	VelocityWindow        = 7
	VelocityGrowthScore   = 0.8 // recent sales, no prior baseline
	VelocityNoSalesScore  = 0.2 // no sales at all in either window
	SeasonalityCVMultiple = 2.0
)

// Stock-out risk bands in days of supply.
const (
	StockoutCriticalDays  = 3
	StockoutLowDays       = 7
	StockoutModerateDays  = 14
	StockoutCriticalScore = 0.9
	StockoutLowScore      = 0.7
	StockoutModerateScore = 0.5
	StockoutHealthyScore  = 0.3
)

// Expiry urgency bands in days until expiry.
const (
	ExpiryUrgency3d  = 0.9
	ExpiryUrgency7d  = 0.7
	ExpiryUrgency14d = 0.5
	ExpiryUrgency30d = 0.3
	ExpiryUrgencyFar = 0.1
)

// Competition factor bands keyed on own-price / mean competitor price.
const (
	CompetitionHighRatio    = 1.2
	CompetitionAboveRatio   = 1.1
	CompetitionBelowRatio   = 0.9
	CompetitionLowRatio     = 0.8
	CompetitionDiscountHard = 0.9
	CompetitionDiscountSoft = 0.95
	CompetitionPremiumHard  = 1.1
	CompetitionPremiumSoft  = 1.05
)

// Seasonality factor bands keyed on current month vs yearly average.
const (
	SeasonPeakRatio    = 1.5
	SeasonHighRatio    = 1.2
	SeasonLowRatio     = 0.85
	SeasonTroughRatio  = 0.7
	SeasonPeakFactor   = 1.15
	SeasonHighFactor   = 1.08
	SeasonLowFactor    = 0.95
	SeasonTroughFactor = 0.9
)

// Factor-tag thresholds on the applied multipliers.
const (
	TagCompetitiveBelow = 0.95
	TagPremiumAbove     = 1.05
	TagSeasonalPeak     = 1.1
	TagSeasonalLow      = 0.9
)

// Demand multiplier bands. The medium band starts strictly above the neutral
// score so data-starved products get the conservative markdown path.
const (
	DemandHighThreshold   = 0.7
	DemandMediumThreshold = 0.5
	DemandHighMultiplier  = 1.15
	DemandMediumMult      = 1.05
	DemandLowMultiplier   = 0.95
)

// Expiry multiplier bands.
const (
	ExpiryUrgentThreshold  = 0.8
	ExpiryNearThreshold    = 0.5
	ExpiryUrgentMultiplier = 0.7
	ExpiryNearMultiplier   = 0.85
)

// Recommended price bounds relative to cost and current price.
const (
	PriceFloorCostMultiple = 1.1
	PriceCeilingMultiple   = 2.0
)

// Pricing confidence ladder, capped at MaxConfidence (never full certainty).
const (
	ConfidenceBase        = 0.5
	ConfidenceRich        = 0.3 // >= ConfidenceRichRecords sales records
	ConfidenceMedium      = 0.2 // >= ConfidenceMediumRecords
	ConfidenceThin        = 0.1 // >= ConfidenceThinRecords
	ConfidenceRichRecords = 100
	ConfidenceMedRecords  = 30
	ConfidenceThinRecords = 10
	ConfidenceSignalBonus = 0.1
	MaxConfidence         = 0.95
)

// Explanation magnitude bands on absolute change percentage.
const (
	MagnitudeSlightMax   = 5.0
	MagnitudeModerateMax = 15.0
)

// Forecast engine knobs. Confidence on this path is a 0-100 scale.
const (
	ForecastWindow          = 7
	ForecastHistoryDays     = 90
	ForecastConfidenceBase  = 20.0
	ForecastConfidenceR2    = 75.0
	ForecastConfidenceMax   = 95.0
	ForecastConfidenceAvg   = 40.0
	PriceTrendSlopeUp       = 0.1
	PriceTrendSlopeDown     = -0.1
	PriceTrendUpMultiplier  = 1.05
	PriceTrendDownMult      = 0.97
	PriceConfidenceDiscount = 0.8
)
