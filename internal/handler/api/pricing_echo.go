package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "ShelfPulse/internal/domain/models"
	drepo "ShelfPulse/internal/domain/repository"
	icache "ShelfPulse/internal/service/cache"
	"ShelfPulse/internal/service/metrics"
	"ShelfPulse/internal/service/ratelimit"
	"ShelfPulse/internal/usecase"
	xhttp "ShelfPulse/pkg/http"
	xlogger "ShelfPulse/pkg/logger"
	"ShelfPulse/pkg/queue"

	"github.com/labstack/echo/v4"
)

// PricingEchoHandler implements the pricing and forecast HTTP API.
type PricingEchoHandler struct {
	logger    *xlogger.Logger
	pricing   *usecase.PricingUseCase
	forecasts *usecase.ForecastUseCase
	jobs      queue.QueueService
	sales     drepo.SalesStore
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
}

func NewPricingEchoHandler(
	logger *xlogger.Logger,
	pricing *usecase.PricingUseCase,
	forecasts *usecase.ForecastUseCase,
	jobs queue.QueueService,
	sales drepo.SalesStore,
) *PricingEchoHandler {
	metrics.Register()
	return &PricingEchoHandler{
		logger:    logger,
		pricing:   pricing,
		forecasts: forecasts,
		jobs:      jobs,
		sales:     sales,
		rl:        ratelimit.New(),
	}
}

// SetCache enables response caching for the forecast endpoints.
func (h *PricingEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *PricingEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/pricing", h.Price)
	g.POST("/forecast", h.Forecast)
	g.POST("/predictions/run", h.RunPredictions)
	g.GET("/predictions/history", h.PredictionHistory)
	g.GET("/health", h.Health)
}

func (h *PricingEchoHandler) Price(c echo.Context) error {
	start := time.Now()
	endpoint := "pricing"
	defer func() { metrics.PricingLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":pricing", 20, 10) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	req := &models.PricingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.pricing.Price(c.Request().Context(), req)
	if err != nil {
		metrics.PricingErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("pricing usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricingEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	endpoint := "forecast"
	defer func() { metrics.PricingLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "forecast:" + req.Product.ID + ":" + req.Timeframe
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("forecast cache_get_error", xlogger.Error(err))
		} else if ok {
			var cached models.DemandForecast
			if err := json.Unmarshal(b, &cached); err == nil {
				return xhttp.SuccessResponse(c, &cached)
			}
		}
	}

	res, err := h.forecasts.Forecast(c.Request().Context(), req)
	if err != nil {
		metrics.PricingErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 60*time.Second); err != nil {
				h.logger.Warn("forecast cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricingEchoHandler) RunPredictions(c echo.Context) error {
	start := time.Now()
	endpoint := "predictions_run"
	defer func() { metrics.PricingLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RunPredictionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// With a job queue the run is asynchronous; otherwise it executes inline.
	if h.jobs != nil {
		if err := h.jobs.PublishMessage(c.Request().Context(), usecase.PredictionJobType, req); err != nil {
			metrics.PricingErrors.WithLabelValues(endpoint).Inc()
			h.logger.Error("predictions enqueue error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{
			"status":  "queued",
			"storeId": req.StoreID,
		})
	}

	res, err := h.forecasts.RunPredictions(c.Request().Context(), req)
	if err != nil {
		metrics.PricingErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("predictions run error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricingEchoHandler) PredictionHistory(c echo.Context) error {
	start := time.Now()
	endpoint := "predictions_history"
	defer func() { metrics.PricingLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PredictionHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	records, err := h.forecasts.History(c.Request().Context(), req)
	if err != nil {
		metrics.PricingErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("prediction history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, records, int64(len(records)))
}

func (h *PricingEchoHandler) Health(c echo.Context) error {
	if h.sales != nil {
		if err := h.sales.Health(c.Request().Context()); err != nil {
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"sales":  err.Error(),
			})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
