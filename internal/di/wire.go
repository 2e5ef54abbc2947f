//go:build wireinject
// +build wireinject

package di

import (
	"CardScout/pkg/config"
	"CardScout/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Backends
		ProvideRecordStore,
		ProvideClickHouseClient,
		ProvideObservationStore,
		ProvideEventPublisher,
		ProvideRedisCache,
		ProvideSearchCache,

		// Marketplaces
		ProvideEbay,
		ProvideRegistry,
		ProvideGrader,

		// Use cases
		ProvideWeights,
		ProvideMarketService,
		ProvideDealFinder,
		ProvideURLEvaluator,
		ProvideRecords,
		ProvideHub,
		ProvideAlertChecker,

		// HTTP
		ProvideLimiter,
		ProvideHandlers,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
