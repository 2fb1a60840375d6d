//go:build wireinject
// +build wireinject

package di

import (
	"SentiGauge/pkg/config"
	"SentiGauge/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheService,
		ProvideSeriesSource,
		ProvideIndexUseCase,
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
