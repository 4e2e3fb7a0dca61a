package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"ShelfPulse/internal/domain/models"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64     { return &v }
func timePtr(t time.Time) *time.Time  { return &t }
func newPricingEngine() *PricingEngine { return NewPricingEngine(NewDemandScorer()) }

func hasFactor(result models.PricingResult, tag string) bool {
	for _, f := range result.Factors {
		if f == tag {
			return true
		}
	}
	return false
}

func TestRecommendNoHistory(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{ID: "p-1", Price: 100, Cost: floatPtr(60)}

	got := e.recommendAt(fixedNow, product, nil, nil, nil)

	if got.RecommendedPrice != 95 {
		t.Fatalf("recommended = %v, want 95", got.RecommendedPrice)
	}
	if got.PriceChange != -5 || got.ChangePercentage != -5 {
		t.Fatalf("change = %v (%v%%), want -5 (-5%%)", got.PriceChange, got.ChangePercentage)
	}
	if got.Strategy != models.StrategyDemandBased {
		t.Fatalf("strategy = %q, want %q", got.Strategy, models.StrategyDemandBased)
	}
	if got.Confidence != ConfidenceBase {
		t.Fatalf("confidence = %v, want %v", got.Confidence, ConfidenceBase)
	}
	if !hasFactor(got, models.FactorLowDemand) {
		t.Fatalf("factors = %v, want %q present", got.Factors, models.FactorLowDemand)
	}
}

func TestRecommendUrgentExpiry(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{
		ID:         "p-1",
		Price:      100,
		Cost:       floatPtr(60),
		ExpiryDate: timePtr(fixedNow.Add(24 * time.Hour)),
	}

	got := e.recommendAt(fixedNow, product, nil, nil, nil)

	if got.Metadata.ExpiryUrgency != ExpiryUrgency3d {
		t.Fatalf("urgency = %v, want %v", got.Metadata.ExpiryUrgency, ExpiryUrgency3d)
	}
	// 100 * 0.95 * 0.7 = 66.5, above the 66.00 floor.
	if got.RecommendedPrice != 66.5 {
		t.Fatalf("recommended = %v, want 66.5", got.RecommendedPrice)
	}
	if got.Strategy != models.StrategyExpiryBased {
		t.Fatalf("strategy = %q, want %q", got.Strategy, models.StrategyExpiryBased)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", got.Confidence)
	}
	if !hasFactor(got, models.FactorUrgentExpiry) {
		t.Fatalf("factors = %v, want %q present", got.Factors, models.FactorUrgentExpiry)
	}
}

func TestRecommendCostFloor(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{
		ID:         "p-1",
		Price:      100,
		Cost:       floatPtr(90),
		ExpiryDate: timePtr(fixedNow.Add(24 * time.Hour)),
	}

	got := e.recommendAt(fixedNow, product, nil, nil, nil)

	// Raw recommendation 66.5 is below cost*1.1 = 99.
	if got.RecommendedPrice != 99 {
		t.Fatalf("recommended = %v, want floor 99", got.RecommendedPrice)
	}
}

func TestRecommendNoCostNoFloor(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{
		ID:         "p-1",
		Price:      100,
		ExpiryDate: timePtr(fixedNow.Add(24 * time.Hour)),
	}

	got := e.recommendAt(fixedNow, product, nil, nil, nil)
	if got.RecommendedPrice != 66.5 {
		t.Fatalf("recommended = %v, want 66.5 with no cost floor", got.RecommendedPrice)
	}
}

func TestRecommendCompetitivePositioning(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{ID: "p-1", Price: 100}
	competitors := []models.Product{{Price: 80}, {Price: 80}, {Price: 80}}

	got := e.recommendAt(fixedNow, product, nil, competitors, nil)

	// ratio 100/80 = 1.25 lands in the hard-discount band.
	if got.Metadata.CompetitionFactor != CompetitionDiscountHard {
		t.Fatalf("competition = %v, want %v", got.Metadata.CompetitionFactor, CompetitionDiscountHard)
	}
	if got.Strategy != models.StrategyCompetitive {
		t.Fatalf("strategy = %q, want %q", got.Strategy, models.StrategyCompetitive)
	}
	if got.RecommendedPrice != 85.5 {
		t.Fatalf("recommended = %v, want 85.5", got.RecommendedPrice)
	}
	if !hasFactor(got, models.FactorCompetitivePricing) {
		t.Fatalf("factors = %v, want %q present", got.Factors, models.FactorCompetitivePricing)
	}
}

func TestRecommendHybridStrategy(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{
		ID:         "p-1",
		Price:      100,
		StockLevel: 100,
		ExpiryDate: timePtr(fixedNow.Add(24 * time.Hour)),
	}
	history := dailyHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	got := e.recommendAt(fixedNow, product, history, nil, nil)

	if got.Metadata.DemandScore <= DemandHighThreshold {
		t.Fatalf("demand score = %v, want > %v", got.Metadata.DemandScore, DemandHighThreshold)
	}
	if got.Strategy != models.StrategyHybrid {
		t.Fatalf("strategy = %q, want %q", got.Strategy, models.StrategyHybrid)
	}
	// 100 * 1.15 * 0.7 = 80.5
	if got.RecommendedPrice != 80.5 {
		t.Fatalf("recommended = %v, want 80.5", got.RecommendedPrice)
	}
	if !hasFactor(got, models.FactorHighDemand) || !hasFactor(got, models.FactorUrgentExpiry) {
		t.Fatalf("factors = %v, want high demand and urgent expiry", got.Factors)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want 0.9", got.Confidence)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	e := newPricingEngine()
	product := &models.Product{ID: "p-1", Price: 49.99, Cost: floatPtr(20), StockLevel: 30}
	history := dailyHistory(3, 1, 4, 1, 5, 9, 2, 6)
	competitors := []models.Product{{Price: 45}, {Price: 55}}

	a := e.recommendAt(fixedNow, product, history, competitors, nil)
	b := e.recommendAt(fixedNow, product, history, competitors, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different results:\n%+v\n%+v", a, b)
	}
}

func TestExpiryUrgencyBands(t *testing.T) {
	cases := []struct {
		hours float64
		want  float64
	}{
		{-24, 1.0},
		{24, ExpiryUrgency3d},
		{6 * 24, ExpiryUrgency7d},
		{12 * 24, ExpiryUrgency14d},
		{25 * 24, ExpiryUrgency30d},
		{90 * 24, ExpiryUrgencyFar},
	}
	for _, c := range cases {
		expiry := fixedNow.Add(time.Duration(c.hours * float64(time.Hour)))
		if got := expiryUrgency(fixedNow, &expiry); got != c.want {
			t.Fatalf("hours=%v: urgency = %v, want %v", c.hours, got, c.want)
		}
	}
	if got := expiryUrgency(fixedNow, nil); got != 0 {
		t.Fatalf("nil expiry urgency = %v, want 0", got)
	}
}

func TestCompetitionFactorBands(t *testing.T) {
	cases := []struct {
		own   float64
		peers []float64
		want  float64
	}{
		{own: 100, peers: nil, want: 1.0},
		{own: 100, peers: []float64{0, -5}, want: 1.0}, // unusable prices filtered out
		{own: 100, peers: []float64{100}, want: 1.0},
		{own: 125, peers: []float64{100}, want: CompetitionDiscountHard},
		{own: 115, peers: []float64{100}, want: CompetitionDiscountSoft},
		{own: 75, peers: []float64{100}, want: CompetitionPremiumHard},
		{own: 85, peers: []float64{100}, want: CompetitionPremiumSoft},
	}
	for _, c := range cases {
		competitors := make([]models.Product, len(c.peers))
		for i, p := range c.peers {
			competitors[i] = models.Product{Price: p}
		}
		if got := competitionFactor(c.own, competitors); got != c.want {
			t.Fatalf("own=%v peers=%v: factor = %v, want %v", c.own, c.peers, got, c.want)
		}
	}
}

func TestSeasonalityFactorShortHistory(t *testing.T) {
	history := dailyHistory(make([]int, MinRecordsYearly-1)...)
	if got := seasonalityFactor(fixedNow, history); got != 1.0 {
		t.Fatalf("short-history factor = %v, want 1.0", got)
	}
}

func TestSeasonalityFactorPeakMonth(t *testing.T) {
	// Ten records of quantity 10 in every month, plus an extra hundred units
	// in June: June total 200 vs yearly average 108.33, ratio > 1.5.
	var history []models.SalesRecord
	for m := time.January; m <= time.December; m++ {
		for d := 0; d < 10; d++ {
			history = append(history, models.SalesRecord{
				Quantity: 10,
				Date:     time.Date(2025, m, d+1, 0, 0, 0, 0, time.UTC),
			})
		}
	}
	history = append(history, models.SalesRecord{
		Quantity: 100,
		Date:     time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
	})

	if got := seasonalityFactor(fixedNow, history); got != SeasonPeakFactor {
		t.Fatalf("peak-month factor = %v, want %v", got, SeasonPeakFactor)
	}
}

func TestClampPriceBounds(t *testing.T) {
	withCost := &models.Product{Price: 100, Cost: floatPtr(60)}
	if got := clampPrice(500, 100, withCost); got != 200 {
		t.Fatalf("ceiling clamp = %v, want 200", got)
	}
	if got := clampPrice(10, 100, withCost); got != 66 {
		t.Fatalf("floor clamp = %v, want 66", got)
	}

	// Floor above ceiling collapses to the ceiling.
	highCost := &models.Product{Price: 100, Cost: floatPtr(300)}
	if got := clampPrice(10, 100, highCost); got != 200 {
		t.Fatalf("inverted-bounds clamp = %v, want 200", got)
	}

	noCost := &models.Product{Price: 100}
	if got := clampPrice(10, 100, noCost); got != 10 {
		t.Fatalf("no-cost clamp = %v, want 10", got)
	}
}

func TestPricingConfidenceLadder(t *testing.T) {
	neutral := models.PricingFactors{DemandScore: NeutralScore}
	product := &models.Product{Price: 10}

	cases := []struct {
		records int
		want    float64
	}{
		{0, 0.5},
		{ConfidenceThinRecords, 0.6},
		{ConfidenceMedRecords, 0.7},
		{ConfidenceRichRecords, 0.8},
	}
	for _, c := range cases {
		if got := pricingConfidence(c.records, neutral, product); got != c.want {
			t.Fatalf("records=%d: confidence = %v, want %v", c.records, got, c.want)
		}
	}

	// Every bonus at once still caps below full certainty.
	expiry := fixedNow.Add(time.Hour)
	loaded := models.PricingFactors{DemandScore: 0.9, ExpiryUrgency: 0.9}
	withExpiry := &models.Product{Price: 10, ExpiryDate: &expiry}
	if got := pricingConfidence(200, loaded, withExpiry); got != MaxConfidence {
		t.Fatalf("loaded confidence = %v, want cap %v", got, MaxConfidence)
	}
}

func TestExplainMessages(t *testing.T) {
	if got := explain(models.StrategyDemandBased, 0); !strings.Contains(got, "No price change") {
		t.Fatalf("zero-change explanation = %q", got)
	}
	if got := explain(models.StrategyDemandBased, 6); !strings.Contains(got, "moderate price increase") {
		t.Fatalf("explanation = %q, want moderate increase", got)
	}
	if got := explain(models.StrategyExpiryBased, -20); !strings.Contains(got, "significant price decrease") {
		t.Fatalf("explanation = %q, want significant decrease", got)
	}
	if got := explain(models.StrategyCompetitive, -3); !strings.Contains(got, "slight price decrease") {
		t.Fatalf("explanation = %q, want slight decrease", got)
	}
}
