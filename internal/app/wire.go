package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/kvstore"
	"meal-planner/internal/llm"
	"meal-planner/internal/logger"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/storage"
)

type components struct {
	substrate    kvstore.Substrate
	textGen      llm.TextGenerator
	metricsStore *metrics.Store
}

// New builds an App from configuration. The caller must Close it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)

	comps, closers, err := build(ctx, cfg, log)
	if err != nil {
		closeAll(closers, log)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collectors := metrics.MustNewCollectors(registry)
	recorder := metrics.NewRecorder(comps.metricsStore, collectors, log.Named("metrics"))

	store := storage.NewStore(kvstore.NewAdapter(comps.substrate, log.Named("kvstore")), log.Named("storage"))
	mealPlanner := planner.NewPlanner(comps.textGen, recorder, log.Named("planner"), cfg.Generator.UseMock)

	a := NewApp(store, mealPlanner, comps.metricsStore, log)
	a.registry = registry
	a.pushURL = cfg.Metrics.PushgatewayURL
	a.pushJob = cfg.Metrics.Job
	a.closers = closers
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, log *zap.Logger) (components, []func() error, error) {
	var (
		comps   components
		closers []func() error
	)

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := database.NewDB(cfg.Storage.SQLitePath, log.Named("database"))
		if err != nil {
			return comps, closers, fmt.Errorf("failed to initialize database: %w", err)
		}
		closers = append(closers, db.Close)
		comps.substrate = kvstore.NewSQLiteSubstrate(db.SQL)
		comps.metricsStore = metrics.NewStore(db.SQL)
	case config.DriverRedis:
		sub, err := kvstore.NewRedisSubstrate(ctx, kvstore.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return comps, closers, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, sub.Close)
		comps.substrate = sub
	case config.DriverMemory:
		comps.substrate = kvstore.NewMemorySubstrate()
	default:
		return comps, closers, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if !cfg.Generator.UseMock {
		gen, err := llm.NewTextGenerator(ctx, cfg)
		if err != nil {
			return comps, closers, fmt.Errorf("failed to initialize text generator: %w", err)
		}
		if c, ok := gen.(llm.Closer); ok {
			closers = append(closers, c.Close)
		}
		comps.textGen = gen
	}

	return comps, closers, nil
}

func closeAll(closers []func() error, log *zap.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Warn("Failed to release resource", zap.Error(err))
		}
	}
}
