package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"projectchart-service/internal/application"
	"projectchart-service/internal/config"
	httpserver "projectchart-service/internal/infrastructure/http"
	"projectchart-service/internal/infrastructure/httpx"
	"projectchart-service/internal/infrastructure/logx"
	"projectchart-service/internal/infrastructure/memcache"
	"projectchart-service/internal/infrastructure/pg"
	"projectchart-service/internal/infrastructure/provider"
	redisstore "projectchart-service/internal/infrastructure/redis"
	"projectchart-service/internal/infrastructure/render"
	"projectchart-service/internal/infrastructure/sqlite"
	"projectchart-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg")

// Storage is the history persistence selected by STORAGE.
type Storage struct {
	Repo application.HistoryRepo
	UoW  application.UnitOfWork
	Ping func(context.Context) error
}

// Stores holds the session, cache and lock backends selected by CACHE_BACKEND.
type Stores struct {
	Sessions application.SessionStore
	Cache    application.HistoryCache
	Lock     worker.Locker
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideStorage(ctx context.Context, log *zap.Logger, cfg config.Config) (Storage, func(), error) {
	switch cfg.Storage {
	case "pg":
		if cfg.DatabaseURL == "" {
			return Storage{}, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Storage{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Storage{
			Repo: pg.NewHistoryRepo(db, log),
			UoW:  &pg.UnitOfWork{Pool: db.Pool},
			Ping: db.Ping,
		}, cleanup, nil
	case "sqlite":
		repo, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing sqlite")
			_ = repo.Close()
		}
		return Storage{Repo: repo, UoW: application.NoopUoW{}, Ping: repo.Ping}, cleanup, nil
	case "memory":
		repo := memcache.NewHistoryRepo()
		return Storage{Repo: repo, UoW: application.NoopUoW{}, Ping: repo.Ping}, func() {}, nil
	default:
		return Storage{}, func() {}, fmt.Errorf("unsupported STORAGE=%q", cfg.Storage)
	}
}

func ProvideRedisClient(cfg config.Config) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return client, func() { _ = client.Close() }, nil
}

func ProvideStores(cfg config.Config) (Stores, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		client, cleanup, err := ProvideRedisClient(cfg)
		if err != nil {
			return Stores{}, func() {}, err
		}
		return Stores{
			Sessions: redisstore.NewSessionStore(client, cfg.SessionTTL),
			Cache:    redisstore.NewHistoryCache(client, cfg.HistoryCacheTTL),
			Lock:     redisstore.NewSyncLock(client, 2*cfg.ProviderTimeout+cfg.RequestTimeout),
		}, cleanup, nil
	case "memory":
		return Stores{
			Sessions: memcache.NewSessionStore(cfg.SessionTTL),
			Cache:    memcache.NewHistoryCache(cfg.HistoryCacheTTL),
			Lock:     redisstore.NoopLock{},
		}, func() {}, nil
	default:
		return Stores{}, func() {}, fmt.Errorf("unsupported CACHE_BACKEND=%q", cfg.CacheBackend)
	}
}

func ProvideHistoryProvider(cfg config.Config, log *zap.Logger) (application.HistoryProvider, error) {
	switch cfg.Provider {
	case "http":
		return &provider.HistoryAPIProvider{
			BaseURL: cfg.ProviderBaseURL,
			APIKey:  cfg.ProviderAPIKey,
			Client:  &http.Client{Timeout: cfg.ProviderTimeout},
			Log:     httpx.ZapLogger{L: log},
		}, nil
	case "fake":
		return provider.NewFake(60000), nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

func ProvideRenderer() application.SnapshotRenderer { return render.NewPNGRenderer(0, 0) }

func ProvideChartService(st Storage, hp application.HistoryProvider, stores Stores, r application.SnapshotRenderer, log *zap.Logger) *application.ChartService {
	return application.NewChartService(st.Repo, hp, stores.Sessions,
		application.WithCache(stores.Cache),
		application.WithRenderer(r),
		application.WithUnitOfWork(st.UoW),
		application.WithLogger(log),
	)
}

func ProvideServer(svc *application.ChartService, st Storage, cfg config.Config) *httpserver.Server {
	srv := httpserver.NewServer(svc)
	srv.SetReadyCheck(st.Ping)
	srv.SetCORSOrigins(cfg.CORSOrigins)
	srv.SetRequestTimeout(cfg.RequestTimeout)
	return srv
}

func ProvideSyncWorker(svc *application.ChartService, stores Stores, cfg config.Config, log *zap.Logger) *worker.SyncWorker {
	return &worker.SyncWorker{
		Syncer:   svc,
		Lock:     stores.Lock,
		Tickers:  cfg.SyncTickers,
		Schedule: cfg.SyncCron,
		Timeout:  2 * cfg.ProviderTimeout,
		Log:      log.With(zap.String("component", "sync_worker")),
	}
}
