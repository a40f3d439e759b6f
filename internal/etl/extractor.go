package etl

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"userstore-etl/internal/domains/person"
)

// MaxBatchSize is the largest number of records the source serves in a
// single request.
const MaxBatchSize = 5000

// Fetcher issues one bounded request against the source.
type Fetcher interface {
	// Fetch returns exactly n raw records on success, 1 <= n <= MaxBatchSize.
	Fetch(ctx context.Context, n int) ([]person.RawPerson, error)
}

// Extractor retrieves an arbitrary number of raw records by splitting
// the request into source-sized batches.
type Extractor interface {
	Extract(ctx context.Context, count int) ([]person.RawPerson, error)
}

type batchExtractor struct {
	fetcher Fetcher
}

func NewExtractor(f Fetcher) Extractor {
	return &batchExtractor{fetcher: f}
}

// Extract issues count/MaxBatchSize full requests plus one remainder
// request, concatenating results in request order. Each request gets a
// single attempt; the first failure aborts the whole extraction, so a
// successful return always has exactly count records.
func (e *batchExtractor) Extract(ctx context.Context, count int) ([]person.RawPerson, error) {
	if count <= 0 {
		return nil, nil
	}

	full := count / MaxBatchSize
	remainder := count % MaxBatchSize
	batches := full
	if remainder > 0 {
		batches++
	}

	results := make([]person.RawPerson, 0, count)
	batch := 0

	fetch := func(n int) error {
		batch++
		records, err := e.fetcher.Fetch(ctx, n)
		if err != nil {
			return fmt.Errorf("batch %d/%d (%d records): %w", batch, batches, n, err)
		}
		results = append(results, records...)
		log.Info().Int("batch", batch).Int("batches", batches).Int("records", len(records)).Msg("Batch extracted")
		return nil
	}

	for i := 0; i < full; i++ {
		if err := fetch(MaxBatchSize); err != nil {
			return nil, err
		}
	}
	if remainder > 0 {
		if err := fetch(remainder); err != nil {
			return nil, err
		}
	}

	return results, nil
}
