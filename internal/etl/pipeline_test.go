package etl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userstore-etl/internal/domains/person"
)

type stubExtractor struct {
	raws []person.RawPerson
	err  error
}

func (s *stubExtractor) Extract(context.Context, int) ([]person.RawPerson, error) {
	return s.raws, s.err
}

type stubRepository struct {
	loaded int
	err    error
	calls  int
	got    []person.Person
}

func (s *stubRepository) Load(_ context.Context, people []person.Person) (int, error) {
	s.calls++
	s.got = people
	return s.loaded, s.err
}

type memorySink struct {
	names []string
	data  [][]byte
}

func (m *memorySink) Dump(_ context.Context, name string, data []byte) error {
	m.names = append(m.names, name)
	m.data = append(m.data, data)
	return nil
}

func rawRecord(email string) person.RawPerson {
	return person.RawPerson{
		Name:  person.RawName{First: "Test", Last: "User"},
		Email: email,
		Login: person.RawLogin{UUID: "11111111-2222-3333-4444-555555555555"},
		DOB:   person.RawDate{Date: "1990-06-15T12:00:00.000Z", Age: 36},
		Location: person.RawLocation{
			Country:     "Spain",
			Coordinates: person.RawCoordinates{Latitude: "1.5", Longitude: "2.5"},
		},
		ID: person.RawIdentifier{Name: "DNI", Value: "X-" + email},
	}
}

func TestRunFullPass(t *testing.T) {
	good := rawRecord("a@example.com")
	bad := rawRecord("b@example.com")
	bad.ID.Value = ""

	extractor := &stubExtractor{raws: []person.RawPerson{good, bad}}
	repo := &stubRepository{loaded: 1}
	sink := &memorySink{}

	stats, err := NewPipeline(extractor, repo).WithDumpSink(sink).Run(context.Background(), 2)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Extracted())
	assert.EqualValues(t, 1, stats.Transformed())
	assert.EqualValues(t, 1, stats.Dropped())
	assert.EqualValues(t, 1, stats.Loaded())
	assert.EqualValues(t, 0, stats.Skipped())

	require.Equal(t, 1, repo.calls)
	require.Len(t, repo.got, 1)
	assert.Equal(t, "a@example.com", repo.got[0].Email)

	require.Len(t, sink.names, 1)
	assert.Regexp(t, `^raw_data_\d{8}_\d{6}\.json$`, sink.names[0])
	assert.Contains(t, string(sink.data[0]), "a@example.com")
}

func TestRunCountsDuplicatesAsSkipped(t *testing.T) {
	extractor := &stubExtractor{raws: []person.RawPerson{
		rawRecord("a@example.com"),
		rawRecord("b@example.com"),
		rawRecord("c@example.com"),
	}}
	repo := &stubRepository{loaded: 1}

	stats, err := NewPipeline(extractor, repo).Run(context.Background(), 3)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.Transformed())
	assert.EqualValues(t, 1, stats.Loaded())
	assert.EqualValues(t, 2, stats.Skipped())
}

func TestRunStopsWhenNothingExtracted(t *testing.T) {
	repo := &stubRepository{}

	stats, err := NewPipeline(&stubExtractor{}, repo).Run(context.Background(), 10)
	require.NoError(t, err)

	assert.EqualValues(t, 0, stats.Extracted())
	assert.Zero(t, repo.calls)
}

func TestRunStopsWhenNothingSurvivesTransform(t *testing.T) {
	bad := rawRecord("a@example.com")
	bad.Login.UUID = ""

	repo := &stubRepository{}
	stats, err := NewPipeline(&stubExtractor{raws: []person.RawPerson{bad}}, repo).Run(context.Background(), 1)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.Extracted())
	assert.EqualValues(t, 0, stats.Transformed())
	assert.EqualValues(t, 1, stats.Dropped())
	assert.Zero(t, repo.calls)
}

func TestRunWrapsExtractError(t *testing.T) {
	extractor := &stubExtractor{err: errors.New("boom")}
	repo := &stubRepository{}

	_, err := NewPipeline(extractor, repo).Run(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract: ")
	assert.Zero(t, repo.calls)
}

func TestRunWrapsLoadError(t *testing.T) {
	extractor := &stubExtractor{raws: []person.RawPerson{rawRecord("a@example.com")}}
	repo := &stubRepository{err: person.ErrDatabaseUnavailable}

	_, err := NewPipeline(extractor, repo).Run(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load: ")
	assert.ErrorIs(t, err, person.ErrDatabaseUnavailable)
}
