//go:build wireinject
// +build wireinject

package di

import (
	"FitPrice/pkg/config"
	"FitPrice/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Run identity and ambient stack
		ProvideRunID,
		ProvideLogger,
		ProvideMetrics,

		// Repositories
		ProvideRecordSource,
		ProvideOutputWriter,

		// Signal backends
		ProvideElasticityEstimator,
		ProvideDemandForecaster,

		// Use cases
		ProvideEngine,
		ProvidePricingPipeline,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
