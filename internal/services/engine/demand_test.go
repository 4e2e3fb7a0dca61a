package engine

import (
	"testing"
	"time"

	"ShelfPulse/internal/domain/models"
)

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// dailyHistory builds one record per day with quantities from qtys, dated
// consecutively from testStart.
func dailyHistory(qtys ...int) []models.SalesRecord {
	records := make([]models.SalesRecord, len(qtys))
	for i, q := range qtys {
		records[i] = models.SalesRecord{
			ProductID: "p-1",
			Quantity:  q,
			UnitPrice: 2.5,
			Revenue:   float64(q) * 2.5,
			Date:      testStart.AddDate(0, 0, i),
		}
	}
	return records
}

func testProduct(stock int) *models.Product {
	return &models.Product{ID: "p-1", Price: 10, StockLevel: stock}
}

func TestScoreInsufficientHistoryIsNeutral(t *testing.T) {
	s := NewDemandScorer()
	for n := 0; n < MinRecordsDemand; n++ {
		qtys := make([]int, n)
		for i := range qtys {
			qtys[i] = i + 1
		}
		if got := s.Score(testProduct(10), dailyHistory(qtys...)); got != NeutralScore {
			t.Fatalf("n=%d: score = %v, want exactly %v", n, got, NeutralScore)
		}
	}
}

func TestScoreNilProductIsNeutral(t *testing.T) {
	s := NewDemandScorer()
	if got := s.Score(nil, dailyHistory(1, 2, 3, 4, 5, 6)); got != NeutralScore {
		t.Fatalf("score = %v, want %v", got, NeutralScore)
	}
}

func TestScoreRisingSales(t *testing.T) {
	// Quantities rising linearly 1..10 over 10 consecutive days.
	s := NewDemandScorer()
	history := dailyHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	if got := trendScore(sortByDate(history)); got <= 0.5 {
		t.Fatalf("trend score = %v, want > 0.5 for a positive slope", got)
	}
	if got := s.Score(testProduct(100), history); got <= 0.5 {
		t.Fatalf("score = %v, want > 0.5 for rising sales", got)
	}
}

func TestScoreDecliningSales(t *testing.T) {
	s := NewDemandScorer()
	history := dailyHistory(10, 9, 8, 7, 6, 5, 4, 3, 2, 1)
	if got := s.Score(testProduct(500), history); got >= 0.5 {
		t.Fatalf("score = %v, want < 0.5 for declining sales", got)
	}
}

func TestScoreAlwaysBounded(t *testing.T) {
	s := NewDemandScorer()
	cases := [][]models.SalesRecord{
		dailyHistory(0, 0, 0, 0, 0, 0, 0, 0),
		dailyHistory(1000, 1, 1000, 1, 1000, 1, 1000, 1, 1000, 1),
		dailyHistory(1, 1, 1, 1, 1, 1, 1),
	}
	for i, history := range cases {
		got := s.Score(testProduct(0), history)
		if got < 0 || got > 1 {
			t.Fatalf("case %d: score %v out of [0,1]", i, got)
		}
	}
}

func TestScoreSortsUnorderedInput(t *testing.T) {
	s := NewDemandScorer()
	ordered := dailyHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	shuffled := make([]models.SalesRecord, len(ordered))
	copy(shuffled, ordered)
	for i, j := range []int{7, 2, 9, 0, 5, 1, 8, 3, 6, 4} {
		shuffled[i] = ordered[j]
	}

	want := s.Score(testProduct(50), ordered)
	got := s.Score(testProduct(50), shuffled)
	if got != want {
		t.Fatalf("unordered input scored %v, ordered scored %v", got, want)
	}
	// input slice must not be reordered
	if !shuffled[0].Date.Equal(ordered[7].Date) {
		t.Fatalf("input slice was mutated")
	}
}

func TestTrendScoreFlatSeries(t *testing.T) {
	sorted := sortByDate(dailyHistory(5, 5, 5, 5, 5))
	if got := trendScore(sorted); got != 0.5 {
		t.Fatalf("flat trend score = %v, want 0.5", got)
	}
}

func TestVelocityScoreNoPriorBaseline(t *testing.T) {
	// Exactly 7 records: prior window is empty, recent sales exist.
	sorted := sortByDate(dailyHistory(1, 1, 1, 1, 1, 1, 1))
	if got := velocityScore(sorted); got != VelocityGrowthScore {
		t.Fatalf("velocity = %v, want %v", got, VelocityGrowthScore)
	}

	sorted = sortByDate(dailyHistory(0, 0, 0, 0, 0, 0, 0))
	if got := velocityScore(sorted); got != VelocityNoSalesScore {
		t.Fatalf("velocity with no sales = %v, want %v", got, VelocityNoSalesScore)
	}
}

func TestVelocityScoreGrowth(t *testing.T) {
	// prior 7 sum = 7, recent 7 sum = 14: growth = 1.0 maps to 1.0.
	sorted := sortByDate(dailyHistory(1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2))
	if got := velocityScore(sorted); got != 1.0 {
		t.Fatalf("velocity = %v, want 1.0", got)
	}
}

func TestStockoutScoreBands(t *testing.T) {
	// avg daily sales over recent 7 records = 2.
	sorted := sortByDate(dailyHistory(2, 2, 2, 2, 2, 2, 2))
	cases := []struct {
		stock int
		want  float64
	}{
		{stock: 4, want: StockoutCriticalScore},  // 2 days of supply
		{stock: 12, want: StockoutLowScore},      // 6 days
		{stock: 24, want: StockoutModerateScore}, // 12 days
		{stock: 100, want: StockoutHealthyScore}, // 50 days
	}
	for _, c := range cases {
		if got := stockoutScore(c.stock, sorted); got != c.want {
			t.Fatalf("stock=%d: score = %v, want %v", c.stock, got, c.want)
		}
	}
}

func TestStockoutScoreZeroSales(t *testing.T) {
	sorted := sortByDate(dailyHistory(0, 0, 0, 0, 0, 0, 0))
	if got := stockoutScore(50, sorted); got != StockoutHealthyScore {
		t.Fatalf("zero-rate score = %v, want %v", got, StockoutHealthyScore)
	}
}

func TestSeasonalityScoreRequiresLongHistory(t *testing.T) {
	qtys := make([]int, MinRecordsSeasonality-1)
	for i := range qtys {
		qtys[i] = i % 5
	}
	if got := seasonalityScore(sortByDate(dailyHistory(qtys...))); got != NeutralScore {
		t.Fatalf("short-history seasonality = %v, want %v", got, NeutralScore)
	}
}

func TestSeasonalityScoreVariability(t *testing.T) {
	// Constant daily volume: cv = 0.
	flat := make([]int, 40)
	for i := range flat {
		flat[i] = 3
	}
	if got := seasonalityScore(sortByDate(dailyHistory(flat...))); got != 0 {
		t.Fatalf("flat seasonality = %v, want 0", got)
	}

	// Strongly alternating volume clamps at 1.
	spiky := make([]int, 40)
	for i := range spiky {
		if i%2 == 0 {
			spiky[i] = 20
		}
	}
	if got := seasonalityScore(sortByDate(dailyHistory(spiky...))); got != 1 {
		t.Fatalf("spiky seasonality = %v, want 1", got)
	}
}
