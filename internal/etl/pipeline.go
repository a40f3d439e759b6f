package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"userstore-etl/internal/domains/person"
	"userstore-etl/internal/infrastructure/export"
	"userstore-etl/internal/infrastructure/storage"
)

// Pipeline composes extract, transform and load into one sequential,
// single-writer run. Stages share nothing but the batch passed between
// them; a load failure never undoes extraction or transform, which have
// no persisted side effects.
type Pipeline struct {
	extractor Extractor
	repo      person.Repository
	sink      storage.DumpSink

	exportFormat string
	exportDir    string
}

func NewPipeline(extractor Extractor, repo person.Repository) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		repo:      repo,
	}
}

// WithDumpSink enables dumping the raw extracted batch before the
// transform stage. Dump failures are logged, never fatal.
func (p *Pipeline) WithDumpSink(sink storage.DumpSink) *Pipeline {
	p.sink = sink
	return p
}

// WithExport writes the transformed batch to a timestamped file before
// loading. A debugging aid like the raw dump; failures are logged,
// never fatal.
func (p *Pipeline) WithExport(format, dir string) *Pipeline {
	p.exportFormat = format
	p.exportDir = dir
	return p
}

// Run executes one extract -> transform -> load pass for count records.
// It short-circuits with a no-op outcome when extraction or transform
// yields nothing.
func (p *Pipeline) Run(ctx context.Context, count int) (*Stats, error) {
	stats := &Stats{}

	log.Info().Int("count", count).Msg("Pipeline starting")

	raws, err := p.extractor.Extract(ctx, count)
	if err != nil {
		return stats, fmt.Errorf("extract: %w", err)
	}
	stats.extracted.Store(int64(len(raws)))

	if len(raws) == 0 {
		log.Info().Msg("Nothing extracted, stopping")
		return stats, nil
	}

	p.dump(ctx, raws)

	people := person.TransformBatch(raws)
	stats.transformed.Store(int64(len(people)))
	stats.dropped.Store(int64(len(raws) - len(people)))

	if len(people) == 0 {
		log.Warn().Int64("dropped", stats.Dropped()).Msg("No records survived transform, stopping")
		return stats, nil
	}

	if p.exportFormat != "" {
		if _, err := export.Write(people, p.exportFormat, p.exportDir); err != nil {
			log.Warn().Err(err).Str("format", p.exportFormat).Msg("Export failed")
		}
	}

	loaded, err := p.repo.Load(ctx, people)
	if err != nil {
		return stats, fmt.Errorf("load: %w", err)
	}
	stats.loaded.Store(int64(loaded))
	stats.skipped.Store(int64(len(people) - loaded))

	log.Info().Object("stats", stats).Msg("Pipeline complete")
	return stats, nil
}

func (p *Pipeline) dump(ctx context.Context, raws []person.RawPerson) {
	if p.sink == nil {
		return
	}

	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Raw dump marshal failed")
		return
	}

	name := fmt.Sprintf("raw_data_%s.json", time.Now().Format("20060102_150405"))
	if err := p.sink.Dump(ctx, name, data); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("Raw dump failed")
	}
}
