//go:build wireinject
// +build wireinject

package di

import (
	"ShelfPulse/pkg/config"
	"ShelfPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideSalesStore,
		ProvidePredictionStore,
		ProvideProductCatalog,
		ProvideSalesPublisher,
		ProvidePosFeedStream,

		// Engines
		ProvideDemandScorer,
		ProvidePricingEngine,
		ProvideForecastEngine,
		ProvideCompetitorSource,

		// Use cases
		ProvideSaleProcessor,
		ProvideSaleCollector,
		ProvideKafkaSalesHandler,
		ProvidePricingUseCase,
		ProvideForecastUseCase,

		// Queue, cache, HTTP
		ProvideJobQueue,
		ProvideResponseCache,
		ProvidePricingHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
