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

func newForecastUseCase(sales *fakeSalesStore, preds *fakePredictionStore, catalog *fakeCatalog, m *fakeMetrics) *ForecastUseCase {
	return NewForecastUseCase(engine.NewForecastEngine(), sales, preds, catalog, m, testLogger(), 2)
}

func forecastReq(id string) *models.ForecastRequest {
	return &models.ForecastRequest{
		Product:   models.ProductPayload{ID: id, Price: 100, StockLevel: 40},
		Timeframe: models.TimeframeWeek,
		DaysBack:  90,
	}
}

func TestForecastSavesDemandRecord(t *testing.T) {
	sales := &fakeSalesStore{history: map[string][]models.SalesRecord{
		"sku-1": dailySales("sku-1", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	}}
	preds := &fakePredictionStore{}
	uc := newForecastUseCase(sales, preds, &fakeCatalog{}, newFakeMetrics())

	res, err := uc.Forecast(context.Background(), forecastReq("sku-1"))
	require.NoError(t, err)

	assert.Equal(t, 49.0, res.CurrentValue)
	assert.Equal(t, 98.0, res.PredictedValue)
	assert.Equal(t, models.TrendIncreasing, res.Trend)
	assert.Equal(t, models.AlgorithmLinearRegression, res.Algorithm)

	saved := preds.savedRecords()
	require.Len(t, saved, 1)
	assert.Equal(t, models.PredictionTypeDemand, saved[0].Type)
	assert.Equal(t, 98.0, saved[0].PredictedValue)
	assert.Equal(t, models.TimeframeWeek, saved[0].Timeframe)
}

func TestForecastHistoryFailureDegrades(t *testing.T) {
	sales := &fakeSalesStore{err: errors.New("ch down")}
	m := newFakeMetrics()
	uc := newForecastUseCase(sales, &fakePredictionStore{}, &fakeCatalog{}, m)

	res, err := uc.Forecast(context.Background(), forecastReq("sku-1"))
	require.NoError(t, err)

	assert.Equal(t, models.AlgorithmNoData, res.Algorithm)
	assert.Equal(t, 1, m.errorCount("history_fetch"))
}

func TestRunPredictionsCountsSavedAndFailed(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		{ID: "p1", Price: 10},
		{ID: "p2", Price: 20},
		{ID: "p3", Price: 30},
	}}
	preds := &fakePredictionStore{failFor: map[string]bool{"p2": true}}
	m := newFakeMetrics()
	uc := newForecastUseCase(&fakeSalesStore{}, preds, catalog, m)

	res, err := uc.RunPredictions(context.Background(), &models.RunPredictionsRequest{DaysBack: 90})
	require.NoError(t, err)

	// Two records per product: a demand forecast and a price suggestion.
	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 4, res.Saved)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 1, m.latencies["prediction_run"])
	assert.Len(t, preds.savedRecords(), 4)
}

func TestRunPredictionsEmptyCatalog(t *testing.T) {
	uc := newForecastUseCase(&fakeSalesStore{}, &fakePredictionStore{}, &fakeCatalog{}, newFakeMetrics())

	res, err := uc.RunPredictions(context.Background(), &models.RunPredictionsRequest{DaysBack: 90})
	require.NoError(t, err)

	assert.Zero(t, res.Products)
	assert.Zero(t, res.Saved)
	assert.Zero(t, res.Failed)
}

func TestRunPredictionsCatalogError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	uc := newForecastUseCase(&fakeSalesStore{}, &fakePredictionStore{}, catalog, newFakeMetrics())

	_, err := uc.RunPredictions(context.Background(), &models.RunPredictionsRequest{DaysBack: 90})
	require.Error(t, err)
}

func TestRunPredictionsFiltersByStore(t *testing.T) {
	catalog := &fakeCatalog{products: []models.Product{
		{ID: "p1", StoreID: "store-1", Price: 10},
		{ID: "p2", StoreID: "store-2", Price: 20},
	}}
	preds := &fakePredictionStore{}
	uc := newForecastUseCase(&fakeSalesStore{}, preds, catalog, newFakeMetrics())

	res, err := uc.RunPredictions(context.Background(), &models.RunPredictionsRequest{StoreID: "store-1", DaysBack: 90})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Products)
	assert.Equal(t, 2, res.Saved)
}

func TestPredictionHistoryPassthrough(t *testing.T) {
	preds := &fakePredictionStore{records: []models.PredictionRecord{
		{ProductID: "sku-1", Type: models.PredictionTypeDemand},
		{ProductID: "sku-1", Type: models.PredictionTypePrice},
		{ProductID: "other", Type: models.PredictionTypeDemand},
	}}
	uc := newForecastUseCase(&fakeSalesStore{}, preds, &fakeCatalog{}, newFakeMetrics())

	records, err := uc.History(context.Background(), &models.PredictionHistoryRequest{ProductID: "sku-1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	preds.err = errors.New("ch down")
	_, err = uc.History(context.Background(), &models.PredictionHistoryRequest{ProductID: "sku-1", Limit: 10})
	require.Error(t, err)
}
