package main

import (
	"context"
	"os/signal"
	"syscall"

	"projectchart-service/internal/bootstrap"
	"projectchart-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, cleanup, err := bootstrap.InitWorker(ctx)
	if err != nil {
		log.Fatal("init worker", zap.Error(err))
	}
	defer cleanup()

	// fill storage right away instead of waiting for the first tick
	w.RunOnce(ctx)
	if err := w.Start(ctx); err != nil {
		log.Error("sync worker exited", zap.Error(err))
	}
}
