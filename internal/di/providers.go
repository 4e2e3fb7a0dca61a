package di

import (
	"context"
	"fmt"
	"time"

	"ShelfPulse/internal/domain/repository"
	domsvc "ShelfPulse/internal/domain/service"
	"ShelfPulse/internal/handler/api"
	mid "ShelfPulse/internal/middleware"
	internalrepo "ShelfPulse/internal/repository"
	icache "ShelfPulse/internal/service/cache"
	"ShelfPulse/internal/service/posfeed"
	"ShelfPulse/internal/services/engine"
	"ShelfPulse/internal/services/market"
	"ShelfPulse/internal/usecase"
	pkgch "ShelfPulse/pkg/clickhouse"
	"ShelfPulse/pkg/config"
	pkgkafka "ShelfPulse/pkg/kafka"
	"ShelfPulse/pkg/logger"
	"ShelfPulse/pkg/metrics"
	"ShelfPulse/pkg/queue"
	"ShelfPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// database exists. Table DDL is owned by the individual stores.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSalesStore creates the ClickHouse sales store and its table.
func ProvideSalesStore(chClient *pkgch.Client, cfg *config.Config) (repository.SalesStore, error) {
	store := internalrepo.NewClickHouseSalesStore(chClient.DB(), cfg.SalesTable())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("sales store init: %w", err)
	}
	return store, nil
}

// ProvidePredictionStore creates the ClickHouse prediction store.
func ProvidePredictionStore(chClient *pkgch.Client, cfg *config.Config, log *logger.Logger) (repository.PredictionStore, error) {
	store := internalrepo.NewCHPredictionStore(chClient.DB(), cfg.PredictionsTable())
	store.SetLogger(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("prediction store init: %w", err)
	}
	return store, nil
}

// ProvideProductCatalog creates the ClickHouse product catalog.
func ProvideProductCatalog(chClient *pkgch.Client, cfg *config.Config) (repository.ProductCatalog, error) {
	catalog := internalrepo.NewCHProductCatalog(chClient.DB(), cfg.ProductsTable())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := catalog.Init(ctx); err != nil {
		return nil, fmt.Errorf("product catalog init: %w", err)
	}
	return catalog, nil
}

// ProvideSalesPublisher creates the Kafka sale event publisher.
func ProvideSalesPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaSalesPublisher(producer, cfg.Kafka.Topic)
}

// ProvidePosFeedStream creates the POS WebSocket gateway stream.
func ProvidePosFeedStream(cfg *config.Config, log *logger.Logger) repository.SaleStream {
	return posfeed.New(
		cfg.PosFeed.APIKey,
		cfg.PosFeed.WebSocketURL,
		cfg.PosFeed.Stores,
		cfg.PosFeed.ReconnectDelay,
		cfg.PosFeed.PingInterval,
		log,
	)
}

// ProvideSaleProcessor creates the sale routing use case.
func ProvideSaleProcessor(
	pub repository.Publisher,
	store repository.SalesStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SaleProcessor {
	return usecase.NewSaleProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideSaleCollector creates the sale collector use case.
func ProvideSaleCollector(
	stream repository.SaleStream,
	processor *usecase.SaleProcessor,
	m repository.Metrics,
) *usecase.SaleCollector {
	// Throttle and buffer between the POS feed and the backend
	pipe := mid.NewIngestPipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewSaleCollector(stream, processor, m, pipe)
}

// ProvideKafkaSalesHandler registers the handler for the sales topic.
func ProvideKafkaSalesHandler(store repository.SalesStore, m repository.Metrics, cfg *config.Config, log *logger.Logger) *usecase.KafkaSalesHandler {
	return usecase.NewKafkaSalesHandler(cfg.Kafka.Topic, store, m, log)
}

// ProvideDemandScorer creates the demand scoring engine.
func ProvideDemandScorer() domsvc.DemandScorer {
	return engine.NewDemandScorer()
}

// ProvidePricingEngine creates the price recommendation engine.
func ProvidePricingEngine(scorer domsvc.DemandScorer) domsvc.PricingEngine {
	return engine.NewPricingEngine(scorer)
}

// ProvideForecastEngine creates the demand forecasting engine.
func ProvideForecastEngine() domsvc.DemandForecaster {
	return engine.NewForecastEngine()
}

// ProvideCompetitorSource selects the peer price source: the external
// market API when configured, the own catalog otherwise.
func ProvideCompetitorSource(cfg *config.Config, catalog repository.ProductCatalog, log *logger.Logger) domsvc.CompetitorSource {
	if cfg.Market.BaseURL != "" {
		return market.NewPriceFeed(market.Config{
			BaseURL:        cfg.Market.BaseURL,
			APIKey:         cfg.Market.APIKey,
			Timeout:        cfg.Market.Timeout,
			CacheTTL:       cfg.Market.CacheTTL,
			RequestsPerSec: cfg.Market.RequestsPerSec,
			Burst:          cfg.Market.Burst,
			MaxPeers:       cfg.Market.MaxPeers,
		}, log)
	}
	return market.NewCatalogPeers(catalog, cfg.Market.MaxPeers, log)
}

// ProvidePricingUseCase creates the pricing use case.
func ProvidePricingUseCase(
	eng domsvc.PricingEngine,
	sales repository.SalesStore,
	predictions repository.PredictionStore,
	peers domsvc.CompetitorSource,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.PricingUseCase {
	return usecase.NewPricingUseCase(eng, sales, predictions, peers, m, log)
}

// ProvideForecastUseCase creates the forecast use case.
func ProvideForecastUseCase(
	eng domsvc.DemandForecaster,
	sales repository.SalesStore,
	predictions repository.PredictionStore,
	catalog repository.ProductCatalog,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(eng, sales, predictions, catalog, m, log, cfg.Pricing.Workers)
}

// ProvideJobQueue creates the Redis-backed job queue with the prediction
// runner registered. Returns nil when Redis is disabled; callers fall back
// to inline execution.
func ProvideJobQueue(cfg *config.Config, log *logger.Logger, forecasts *usecase.ForecastUseCase) (queue.QueueService, error) {
	if !cfg.Redis.Enabled || !cfg.Redis.Queue.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	q := queue.NewRedisQueue(log, &queue.QueueConfig{
		Workers:    cfg.Redis.Queue.Workers,
		QueueSize:  cfg.Redis.Queue.QueueSize,
		RetryLimit: cfg.Redis.Queue.RetryLimit,
		RetryDelay: cfg.Redis.Queue.RetryDelay,
	}, client, queue.ModeProducerConsumer, queue.WithKeyPrefix("shelfpulse:queue"))

	q.RegisterJob(usecase.NewPredictionJob(forecasts, log))

	if err := q.Start(); err != nil {
		return nil, fmt.Errorf("job queue start: %w", err)
	}
	return q, nil
}

// ProvideResponseCache creates the forecast response cache. Redis when
// enabled, an in-process TTL cache otherwise.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvidePricingHandler creates the HTTP handler for pricing endpoints.
func ProvidePricingHandler(
	log *logger.Logger,
	pricing *usecase.PricingUseCase,
	forecasts *usecase.ForecastUseCase,
	jobs queue.QueueService,
	sales repository.SalesStore,
	respCache icache.BytesCache,
) *api.PricingEchoHandler {
	h := api.NewPricingEchoHandler(log, pricing, forecasts, jobs, sales)
	h.SetCache(respCache)
	return h
}

// kafkaLogPublisher ships aggregated error logs to a Kafka topic.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	collector *usecase.SaleCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSalesHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	handler *api.PricingEchoHandler,
	jobs queue.QueueService,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil {
		log.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".errors",
			Publisher:      kafkaLogPublisher{producer},
		})
	}
	app := server.New(cfg, log, collector, consumer, kh, chClient, jobs)
	app.SetHTTPHandler(handler)
	if collector != nil {
		app.SaleProc = collector.Processor()
	}
	return app
}
