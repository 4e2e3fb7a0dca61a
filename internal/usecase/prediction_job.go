package usecase

import (
	"context"
	"fmt"

	"ShelfPulse/internal/domain/models"
	"ShelfPulse/pkg/logger"
	"ShelfPulse/pkg/queue"
)

// PredictionJobType is the queue message type for batch prediction runs.
const PredictionJobType = "prediction_run"

// PredictionJob runs catalog-wide prediction batches off the job queue so
// the HTTP endpoint can return immediately.
type PredictionJob struct {
	forecasts *ForecastUseCase
	log       *logger.Logger
}

func NewPredictionJob(forecasts *ForecastUseCase, log *logger.Logger) *PredictionJob {
	return &PredictionJob{forecasts: forecasts, log: log}
}

func (j *PredictionJob) Name() string { return "prediction-runner" }

func (j *PredictionJob) Type() string { return PredictionJobType }

func (j *PredictionJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[models.RunPredictionsRequest](payload)
	if err != nil {
		return fmt.Errorf("prediction job payload: %w", err)
	}
	if req.DaysBack <= 0 {
		req.DaysBack = 90
	}

	result, err := j.forecasts.RunPredictions(ctx, req)
	if err != nil {
		return fmt.Errorf("prediction run: %w", err)
	}

	j.log.Info("prediction job finished",
		logger.String("store_id", req.StoreID),
		logger.Int("products", result.Products),
		logger.Int("saved", result.Saved))
	return nil
}

var _ queue.Job = (*PredictionJob)(nil)
