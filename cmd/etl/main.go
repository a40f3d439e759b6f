package main

import (
	"context"
	"flag"
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
	count := flag.Int("count", 10, "number of records to fetch")
	format := flag.String("format", "", "also export the transformed batch: csv, json or xlsx")
	dump := flag.Bool("dump", false, "dump the raw extracted batch for debugging")
	flag.Parse()

	// .env is a development convenience; production uses real env vars.
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(cfg.App.Environment)

	if *count <= 0 {
		log.Fatal().Int("count", *count).Msg("count must be a positive integer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	repo := repository.NewPostgresRepository(db.Pool, buildCache(ctx, cfg))

	pipeline := etl.NewPipeline(etl.NewExtractor(source.NewClient(cfg.Source)), repo)

	if *dump || cfg.Dump.Enabled {
		if sink := buildDumpSink(cfg); sink != nil {
			pipeline.WithDumpSink(sink)
		}
	}

	exportFormat := cfg.Export.Format
	if *format != "" {
		exportFormat = *format
	}
	if exportFormat != "" {
		pipeline.WithExport(exportFormat, cfg.Export.Dir)
	}

	stats, err := pipeline.Run(ctx, *count)
	if err != nil {
		log.Fatal().Err(err).Object("stats", stats).Msg("Pipeline failed")
	}

	log.Info().Object("stats", stats).Msg("Done")
}

func buildCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.Redis.Host == "" {
		return cache.NewNoop()
	}

	rc := infracache.NewRedisCache(cfg.Redis)
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, continuing without cache")
		return cache.NewNoop()
	}
	return rc
}

func buildDumpSink(cfg *config.Config) storage.DumpSink {
	if cfg.Dump.MinIO.Endpoint != "" {
		sink, err := storage.NewMinioSink(cfg.Dump.MinIO)
		if err != nil {
			log.Warn().Err(err).Msg("MinIO unavailable, falling back to local dump")
			return storage.NewFileSink(cfg.Dump.Dir)
		}
		return sink
	}
	return storage.NewFileSink(cfg.Dump.Dir)
}
