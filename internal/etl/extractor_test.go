package etl

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userstore-etl/internal/domains/person"
)

// fakeFetcher records the size of every request and serves synthetic
// records, optionally failing on a chosen request.
type fakeFetcher struct {
	requests []int
	failOn   int // 1-based request index, 0 means never fail
}

func (f *fakeFetcher) Fetch(_ context.Context, n int) ([]person.RawPerson, error) {
	f.requests = append(f.requests, n)
	if f.failOn > 0 && len(f.requests) == f.failOn {
		return nil, errors.New("source unavailable")
	}

	records := make([]person.RawPerson, n)
	for i := range records {
		records[i].Email = fmt.Sprintf("user%d@example.com", i)
	}
	return records, nil
}

func TestExtractSingleBatch(t *testing.T) {
	fetcher := &fakeFetcher{}
	raws, err := NewExtractor(fetcher).Extract(context.Background(), 100)

	require.NoError(t, err)
	assert.Len(t, raws, 100)
	assert.Equal(t, []int{100}, fetcher.requests)
}

func TestExtractExactCapIsOneRequest(t *testing.T) {
	fetcher := &fakeFetcher{}
	raws, err := NewExtractor(fetcher).Extract(context.Background(), MaxBatchSize)

	require.NoError(t, err)
	assert.Len(t, raws, MaxBatchSize)
	assert.Equal(t, []int{MaxBatchSize}, fetcher.requests)
}

func TestExtractSplitsIntoCappedBatches(t *testing.T) {
	fetcher := &fakeFetcher{}
	raws, err := NewExtractor(fetcher).Extract(context.Background(), 12000)

	require.NoError(t, err)
	assert.Len(t, raws, 12000)
	assert.Equal(t, []int{5000, 5000, 2000}, fetcher.requests)
}

func TestExtractMultipleOfCapHasNoRemainderRequest(t *testing.T) {
	fetcher := &fakeFetcher{}
	raws, err := NewExtractor(fetcher).Extract(context.Background(), 10000)

	require.NoError(t, err)
	assert.Len(t, raws, 10000)
	assert.Equal(t, []int{5000, 5000}, fetcher.requests)
}

func TestExtractZeroCount(t *testing.T) {
	fetcher := &fakeFetcher{}
	raws, err := NewExtractor(fetcher).Extract(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, raws)
	assert.Empty(t, fetcher.requests)
}

func TestExtractAbortsOnFirstFailure(t *testing.T) {
	fetcher := &fakeFetcher{failOn: 2}
	raws, err := NewExtractor(fetcher).Extract(context.Background(), 12000)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2/3")
	assert.Nil(t, raws)
	assert.Equal(t, []int{5000, 5000}, fetcher.requests)
}
