package etl

import (
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Stats counts records per pipeline stage. Counters are atomic so a
// scheduled run and a status probe can read them concurrently.
type Stats struct {
	extracted   atomic.Int64
	transformed atomic.Int64
	dropped     atomic.Int64
	loaded      atomic.Int64
	skipped     atomic.Int64
}

// Extracted returns the number of raw records retrieved from the source.
func (s *Stats) Extracted() int64 { return s.extracted.Load() }

// Transformed returns the number of records that survived normalization.
func (s *Stats) Transformed() int64 { return s.transformed.Load() }

// Dropped returns the number of records rejected during transform.
func (s *Stats) Dropped() int64 { return s.dropped.Load() }

// Loaded returns the number of records persisted.
func (s *Stats) Loaded() int64 { return s.loaded.Load() }

// Skipped returns the number of transformed records not persisted,
// whether duplicates or rolled-back failures.
func (s *Stats) Skipped() int64 { return s.skipped.Load() }

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (s *Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("extracted", s.Extracted()).
		Int64("transformed", s.Transformed()).
		Int64("dropped", s.Dropped()).
		Int64("loaded", s.Loaded()).
		Int64("skipped", s.Skipped())
}

type statsJSON struct {
	Extracted   int64 `json:"extracted"`
	Transformed int64 `json:"transformed"`
	Dropped     int64 `json:"dropped"`
	Loaded      int64 `json:"loaded"`
	Skipped     int64 `json:"skipped"`
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		Extracted:   s.Extracted(),
		Transformed: s.Transformed(),
		Dropped:     s.Dropped(),
		Loaded:      s.Loaded(),
		Skipped:     s.Skipped(),
	})
}
