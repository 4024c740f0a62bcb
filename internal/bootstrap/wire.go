//go:build wireinject

package bootstrap

import (
	"context"

	httpserver "projectchart-service/internal/infrastructure/http"
	"projectchart-service/internal/infrastructure/worker"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideStorage,
	ProvideStores,
	ProvideHistoryProvider,
	ProvideRenderer,
	ProvideChartService,
)

// InitAPI builds the HTTP server and its cleanup.
func InitAPI(ctx context.Context) (*httpserver.Server, func(), error) {
	wire.Build(
		infraSet,
		ProvideServer,
	)
	return nil, nil, nil
}

// InitWorker builds the history sync worker and its cleanup.
func InitWorker(ctx context.Context) (*worker.SyncWorker, func(), error) {
	wire.Build(
		infraSet,
		ProvideSyncWorker,
	)
	return nil, nil, nil
}
