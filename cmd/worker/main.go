package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"userstore-etl/internal/config"
	"userstore-etl/internal/domains/person/repository"
	"userstore-etl/internal/etl"
	infracache "userstore-etl/internal/infrastructure/cache"
	"userstore-etl/internal/infrastructure/database"
	"userstore-etl/internal/infrastructure/source"
	"userstore-etl/internal/infrastructure/storage"
	"userstore-etl/pkg/cache"
	"userstore-etl/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(cfg.App.Environment)

	workerCfg := loadWorkerConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	pipeline := buildPipeline(ctx, cfg, db)

	handlers := &HandlerRegistry{
		runPipeline: NewRunPipelineHandler(pipeline),
	}

	srv := setupAsynqServer(workerCfg, handlers)
	scheduler := setupScheduler(workerCfg, cfg.Job)

	waitForShutdown(srv, scheduler)
}

func buildPipeline(ctx context.Context, cfg *config.Config, db *database.PostgresDB) *etl.Pipeline {
	var c cache.Cache = cache.NewNoop()
	if cfg.Redis.Host != "" {
		rc := infracache.NewRedisCache(cfg.Redis)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, continuing without cache")
		} else {
			c = rc
		}
	}

	repo := repository.NewPostgresRepository(db.Pool, c)
	pipeline := etl.NewPipeline(etl.NewExtractor(source.NewClient(cfg.Source)), repo)

	if cfg.Dump.Enabled {
		if cfg.Dump.MinIO.Endpoint != "" {
			if sink, err := storage.NewMinioSink(cfg.Dump.MinIO); err != nil {
				log.Warn().Err(err).Msg("MinIO unavailable, falling back to local dump")
				pipeline.WithDumpSink(storage.NewFileSink(cfg.Dump.Dir))
			} else {
				pipeline.WithDumpSink(sink)
			}
		} else {
			pipeline.WithDumpSink(storage.NewFileSink(cfg.Dump.Dir))
		}
	}

	if cfg.Export.Format != "" {
		pipeline.WithExport(cfg.Export.Format, cfg.Export.Dir)
	}

	return pipeline
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Gracefully stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("Stopped")
}
