package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/config"
	"github.com/meikuraledutech/nodegraph/internal/ctxlog"
	"github.com/meikuraledutech/nodegraph/internal/telemetry"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/meikuraledutech/nodegraph/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := ctxlog.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer tp.Shutdown(ctx)

	var store nodegraph.Store
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
	} else {
		logger.Warn("database url is not set, graphs are kept in memory")
		store = nodegraph.NewMemoryStore()
	}

	app := newApp(store, nodes.NewRegistry(), cfg, logger, tp.Tracer())
	logger.Info("listening", "addr", cfg.Server.Addr)
	log.Fatal(app.Listen(cfg.Server.Addr))
}
