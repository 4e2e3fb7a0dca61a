package usecase

import (
	"context"
	"fmt"
	"time"

	"ShelfPulse/internal/domain/models"
	drepo "ShelfPulse/internal/domain/repository"
	domsvc "ShelfPulse/internal/domain/service"
	"ShelfPulse/pkg/logger"
)

// PricingUseCase provides business logic for price recommendations. It
// assembles the product snapshot, sales history and competitor set, runs the
// pricing engine and persists the outcome. Only invalid input fails a call;
// missing history or market data degrades to a lower-confidence result.
type PricingUseCase struct {
	engine      domsvc.PricingEngine
	sales       drepo.SalesStore
	predictions drepo.PredictionStore
	peers       domsvc.CompetitorSource
	metrics     drepo.Metrics
	log         *logger.Logger
}

func NewPricingUseCase(
	engine domsvc.PricingEngine,
	sales drepo.SalesStore,
	predictions drepo.PredictionStore,
	peers domsvc.CompetitorSource,
	metrics drepo.Metrics,
	log *logger.Logger,
) *PricingUseCase {
	return &PricingUseCase{
		engine:      engine,
		sales:       sales,
		predictions: predictions,
		peers:       peers,
		metrics:     metrics,
		log:         log,
	}
}

func (uc *PricingUseCase) Price(ctx context.Context, req *models.PricingRequest) (*models.PricingResult, error) {
	product, err := req.Product.Model()
	if err != nil {
		return nil, fmt.Errorf("pricing request: %w", err)
	}

	history := uc.history(ctx, product.ID, req.DaysBack)
	competitors := uc.competitors(ctx, product, req.Competitors)

	start := time.Now()
	result := uc.engine.Recommend(product, history, competitors, req.Market)
	uc.metrics.RecordLatency("pricing_compute", time.Since(start).Seconds())
	uc.metrics.RecordRecommendedPrice(product.ID, result.RecommendedPrice)

	uc.persist(ctx, &result)
	return &result, nil
}

// history loads the trailing sales window. A store failure degrades to an
// empty history so the engine falls back to its neutral paths.
func (uc *PricingUseCase) history(ctx context.Context, productID string, daysBack int) []models.SalesRecord {
	history, err := uc.sales.GetSalesHistory(ctx, productID, daysBack)
	if err != nil {
		uc.metrics.RecordError("history_fetch")
		uc.log.Warn("pricing: sales history unavailable",
			logger.String("product_id", productID),
			logger.Error(err))
		return nil
	}
	return history
}

// competitors prefers the inline payload; without one it consults the
// configured peer source by category.
func (uc *PricingUseCase) competitors(ctx context.Context, product *models.Product, inline []models.CompetitorPayload) []models.Product {
	if len(inline) > 0 {
		peers := make([]models.Product, 0, len(inline))
		for _, c := range inline {
			peers = append(peers, models.Product{ID: c.ID, Price: c.Price})
		}
		return peers
	}
	if uc.peers == nil {
		return nil
	}
	return uc.peers.Competitors(ctx, product.Category, product.ID)
}

// persist records the recommendation for history queries. Persistence
// failure never invalidates an already computed result.
func (uc *PricingUseCase) persist(ctx context.Context, result *models.PricingResult) {
	if uc.predictions == nil {
		return
	}
	_, err := uc.predictions.SavePrediction(ctx, &models.PredictionRecord{
		ProductID:      result.ProductID,
		Type:           models.PredictionTypePrice,
		CurrentValue:   result.CurrentPrice,
		PredictedValue: result.RecommendedPrice,
		Confidence:     result.Confidence,
		Timeframe:      models.TimeframeWeek,
		Algorithm:      result.Strategy,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		uc.metrics.RecordError("prediction_save")
		uc.log.Warn("pricing: failed to persist recommendation",
			logger.String("product_id", result.ProductID),
			logger.Error(err))
	}
}
