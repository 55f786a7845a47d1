//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SignalLab/pkg/config"
	"SignalLab/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideMarketStore,
		ProvideResponseCache,
		ProvideKafkaProducer,
		ProvideResultPublisher,

		// Domain services and use cases
		ProvideOracle,
		ProvideEnricher,
		ProvideScanParams,
		ProvideScanner,
		ProvideReportBuilder,
		ProvideScanJobHandler,

		// Transports
		ProvideKafkaConsumer,
		ProvideScheduler,
		ProvideRateLimiter,
		ProvideDependencies,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
