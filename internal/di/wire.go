//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/emmott-systems/soporte-api/internal/app"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		ConfigSet,
		ObservabilitySet,
		RuntimeInfraSet,
		RepositorySet,
		SecuritySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	)
	return nil, nil
}

func InitializeMigrationRunner() (*MigrationRunner, error) {
	wire.Build(
		ConfigSet,
		provideOpenDB,
		NewMigrationRunner,
	)
	return nil, nil
}
