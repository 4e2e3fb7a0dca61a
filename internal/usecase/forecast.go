package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ShelfPulse/internal/domain/models"
	drepo "ShelfPulse/internal/domain/repository"
	domsvc "ShelfPulse/internal/domain/service"
	"ShelfPulse/pkg/logger"
)

// ForecastUseCase provides business logic for demand forecasts and batch
// prediction runs over a store's catalog.
type ForecastUseCase struct {
	engine      domsvc.DemandForecaster
	sales       drepo.SalesStore
	predictions drepo.PredictionStore
	catalog     drepo.ProductCatalog
	metrics     drepo.Metrics
	log         *logger.Logger
	workers     int
}

func NewForecastUseCase(
	engine domsvc.DemandForecaster,
	sales drepo.SalesStore,
	predictions drepo.PredictionStore,
	catalog drepo.ProductCatalog,
	metrics drepo.Metrics,
	log *logger.Logger,
	workers int,
) *ForecastUseCase {
	if workers <= 0 {
		workers = 4
	}
	return &ForecastUseCase{
		engine:      engine,
		sales:       sales,
		predictions: predictions,
		catalog:     catalog,
		metrics:     metrics,
		log:         log,
		workers:     workers,
	}
}

func (uc *ForecastUseCase) Forecast(ctx context.Context, req *models.ForecastRequest) (*models.DemandForecast, error) {
	product, err := req.Product.Model()
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}

	history, err := uc.sales.GetSalesHistory(ctx, product.ID, req.DaysBack)
	if err != nil {
		uc.metrics.RecordError("history_fetch")
		uc.log.Warn("forecast: sales history unavailable",
			logger.String("product_id", product.ID),
			logger.Error(err))
		history = nil
	}

	forecast := uc.engine.ForecastDemand(product, history, req.Timeframe)
	uc.save(ctx, &models.PredictionRecord{
		ProductID:      forecast.ProductID,
		Type:           models.PredictionTypeDemand,
		CurrentValue:   forecast.CurrentValue,
		PredictedValue: forecast.PredictedValue,
		Confidence:     forecast.Confidence,
		Timeframe:      forecast.Timeframe,
		Algorithm:      forecast.Algorithm,
		CreatedAt:      time.Now().UTC(),
	})
	return &forecast, nil
}

// RunPredictionsResult summarizes one batch run.
type RunPredictionsResult struct {
	StoreID  string        `json:"storeId,omitempty"`
	Products int           `json:"products"`
	Saved    int           `json:"saved"`
	Failed   int           `json:"failed"`
	Elapsed  time.Duration `json:"elapsedNs"`
}

// RunPredictions computes and persists a demand forecast and a price
// suggestion for every product in the store's catalog. Products are fanned
// out to a fixed worker pool; one product failing never aborts the run.
func (uc *ForecastUseCase) RunPredictions(ctx context.Context, req *models.RunPredictionsRequest) (*RunPredictionsResult, error) {
	products, err := uc.catalog.ListProducts(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	start := time.Now()
	jobs := make(chan models.Product)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		saved  int
		failed int
	)

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for product := range jobs {
				s, f := uc.predictProduct(ctx, product, req.DaysBack)
				mu.Lock()
				saved += s
				failed += f
				mu.Unlock()
			}
		}()
	}

	for _, p := range products {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	uc.metrics.RecordLatency("prediction_run", elapsed.Seconds())
	uc.log.Info("predictions: batch run complete",
		logger.String("store_id", req.StoreID),
		logger.Int("products", len(products)),
		logger.Int("saved", saved),
		logger.Int("failed", failed),
		logger.Duration("elapsed", elapsed))

	return &RunPredictionsResult{
		StoreID:  req.StoreID,
		Products: len(products),
		Saved:    saved,
		Failed:   failed,
		Elapsed:  elapsed,
	}, nil
}

// predictProduct produces the demand and price records for one product,
// returning (saved, failed) counts.
func (uc *ForecastUseCase) predictProduct(ctx context.Context, product models.Product, daysBack int) (int, int) {
	history, err := uc.sales.GetSalesHistory(ctx, product.ID, daysBack)
	if err != nil {
		uc.metrics.RecordError("history_fetch")
		history = nil
	}

	forecast := uc.engine.ForecastDemand(&product, history, models.TimeframeWeek)
	suggestion := uc.engine.SuggestPrice(&product, history)
	now := time.Now().UTC()

	records := []*models.PredictionRecord{
		{
			ProductID:      product.ID,
			Type:           models.PredictionTypeDemand,
			CurrentValue:   forecast.CurrentValue,
			PredictedValue: forecast.PredictedValue,
			Confidence:     forecast.Confidence,
			Timeframe:      forecast.Timeframe,
			Algorithm:      forecast.Algorithm,
			CreatedAt:      now,
		},
		{
			ProductID:      product.ID,
			Type:           models.PredictionTypePrice,
			CurrentValue:   suggestion.CurrentValue,
			PredictedValue: suggestion.PredictedValue,
			Confidence:     suggestion.Confidence,
			Timeframe:      suggestion.Timeframe,
			Algorithm:      suggestion.Algorithm,
			CreatedAt:      now,
		},
	}

	saved := 0
	for _, rec := range records {
		if _, err := uc.predictions.SavePrediction(ctx, rec); err != nil {
			uc.metrics.RecordError("prediction_save")
			uc.log.Warn("predictions: save failed",
				logger.String("product_id", product.ID),
				logger.String("type", rec.Type),
				logger.Error(err))
			continue
		}
		saved++
	}
	return saved, len(records) - saved
}

// History returns persisted predictions for one product, most recent first.
func (uc *ForecastUseCase) History(ctx context.Context, req *models.PredictionHistoryRequest) ([]models.PredictionRecord, error) {
	records, err := uc.predictions.PredictionHistory(ctx, req.ProductID, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("prediction history: %w", err)
	}
	return records, nil
}

func (uc *ForecastUseCase) save(ctx context.Context, rec *models.PredictionRecord) {
	if uc.predictions == nil {
		return
	}
	if _, err := uc.predictions.SavePrediction(ctx, rec); err != nil {
		uc.metrics.RecordError("prediction_save")
		uc.log.Warn("forecast: failed to persist prediction",
			logger.String("product_id", rec.ProductID),
			logger.Error(err))
	}
}
