package httpserver

import (
	"time"

	"projectchart-service/internal/application"
	"projectchart-service/internal/infrastructure/memcache"
	"projectchart-service/internal/infrastructure/provider"
	"projectchart-service/internal/infrastructure/render"
)

// NewInMemoryService wires a ChartService over in-process storage and the
// synthetic provider, for handler tests and local demos.
func NewInMemoryService() (*application.ChartService, *memcache.HistoryRepo) {
	repo := memcache.NewHistoryRepo()
	svc := application.NewChartService(repo, provider.NewFake(60000), memcache.NewSessionStore(time.Hour),
		application.WithCache(memcache.NewHistoryCache(time.Minute)),
		application.WithRenderer(render.NewPNGRenderer(640, 320)),
	)
	return svc, repo
}
