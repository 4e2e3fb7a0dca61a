package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShelfPulse/internal/domain/models"
	"ShelfPulse/internal/services/engine"
)

func newPricingUseCase(sales *fakeSalesStore, preds *fakePredictionStore, peers *fakePeers, m *fakeMetrics) *PricingUseCase {
	eng := engine.NewPricingEngine(engine.NewDemandScorer())
	return NewPricingUseCase(eng, sales, preds, peers, m, testLogger())
}

func pricingReq(price float64) *models.PricingRequest {
	return &models.PricingRequest{
		Product: models.ProductPayload{
			ID:         "sku-1",
			Category:   "dairy",
			Price:      price,
			StockLevel: 40,
		},
		DaysBack: 90,
	}
}

func TestPriceRejectsInvalidExpiry(t *testing.T) {
	uc := newPricingUseCase(&fakeSalesStore{}, &fakePredictionStore{}, &fakePeers{}, newFakeMetrics())

	req := pricingReq(100)
	req.Product.ExpiryDate = "not-a-date"

	_, err := uc.Price(context.Background(), req)
	require.Error(t, err)
}

func TestPriceNoHistoryPersistsRecommendation(t *testing.T) {
	preds := &fakePredictionStore{}
	m := newFakeMetrics()
	uc := newPricingUseCase(&fakeSalesStore{}, preds, &fakePeers{}, m)

	res, err := uc.Price(context.Background(), pricingReq(100))
	require.NoError(t, err)

	assert.Equal(t, 95.0, res.RecommendedPrice)
	assert.Equal(t, models.StrategyDemandBased, res.Strategy)

	saved := preds.savedRecords()
	require.Len(t, saved, 1)
	assert.Equal(t, "sku-1", saved[0].ProductID)
	assert.Equal(t, models.PredictionTypePrice, saved[0].Type)
	assert.Equal(t, models.StrategyDemandBased, saved[0].Algorithm)
	assert.Equal(t, models.TimeframeWeek, saved[0].Timeframe)
	assert.Equal(t, 95.0, saved[0].PredictedValue)
	assert.Equal(t, 95.0, m.prices["sku-1"])
}

func TestPriceHistoryFailureDegrades(t *testing.T) {
	sales := &fakeSalesStore{err: errors.New("ch down")}
	m := newFakeMetrics()
	uc := newPricingUseCase(sales, &fakePredictionStore{}, &fakePeers{}, m)

	res, err := uc.Price(context.Background(), pricingReq(100))
	require.NoError(t, err)

	assert.Equal(t, 95.0, res.RecommendedPrice)
	assert.Equal(t, 1, m.errorCount("history_fetch"))
}

func TestPriceInlineCompetitorsPreferred(t *testing.T) {
	// The peer source returns expensive peers; the inline set must win.
	peers := &fakePeers{peers: []models.Product{{ID: "x", Price: 500}}}
	uc := newPricingUseCase(&fakeSalesStore{}, &fakePredictionStore{}, peers, newFakeMetrics())

	req := pricingReq(100)
	req.Competitors = []models.CompetitorPayload{
		{ID: "c1", Price: 80},
		{ID: "c2", Price: 80},
		{ID: "c3", Price: 80},
	}

	res, err := uc.Price(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 85.5, res.RecommendedPrice)
	assert.Equal(t, models.StrategyCompetitive, res.Strategy)
	assert.Zero(t, peers.calls)
}

func TestPricePeerSourceByCategory(t *testing.T) {
	peers := &fakePeers{peers: []models.Product{
		{ID: "c1", Price: 80},
		{ID: "c2", Price: 80},
		{ID: "c3", Price: 80},
	}}
	uc := newPricingUseCase(&fakeSalesStore{}, &fakePredictionStore{}, peers, newFakeMetrics())

	res, err := uc.Price(context.Background(), pricingReq(100))
	require.NoError(t, err)

	assert.Equal(t, 85.5, res.RecommendedPrice)
	assert.Equal(t, 1, peers.calls)
	assert.Equal(t, "dairy", peers.lastCategory)
	assert.Equal(t, "sku-1", peers.lastExclude)
}

func TestPricePersistFailureNonFatal(t *testing.T) {
	preds := &fakePredictionStore{err: errSaveFailed}
	m := newFakeMetrics()
	uc := newPricingUseCase(&fakeSalesStore{}, preds, &fakePeers{}, m)

	res, err := uc.Price(context.Background(), pricingReq(100))
	require.NoError(t, err)

	assert.Equal(t, 95.0, res.RecommendedPrice)
	assert.Equal(t, 1, m.errorCount("prediction_save"))
}
