package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"userstore-etl/internal/domains/person"
)

func sampleBatch() []person.Person {
	return []person.Person{
		{
			UUID:       "11111111-2222-3333-4444-555555555555",
			FirstName:  "Lucia",
			LastName:   "Fernandez",
			Email:      "lucia@example.com",
			DOB:        time.Date(1993, 7, 20, 0, 0, 0, 0, time.UTC),
			Age:        32,
			Generation: "millennial",
			Country:    "Spain",
			Latitude:   -34.6037,
			Longitude:  58.3816,
			DNIName:    "DNI",
			DNIValue:   "12345678-Z",
		},
		{
			UUID:      "66666666-7777-8888-9999-000000000000",
			FirstName: "Jon",
			LastName:  "Snow",
			Email:     "jon@example.com",
			Country:   "United Kingdom",
			DNIName:   "NINO",
			DNIValue:  "QQ123456C",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(sampleBatch(), "csv", dir)
	require.NoError(t, err)
	assert.Regexp(t, `users_\d{8}_\d{6}\.csv$`, path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, header, rows[0])
	assert.Equal(t, "lucia@example.com", rows[1][5])
	assert.Equal(t, "millennial", rows[1][10])
	assert.Equal(t, "-34.6037", rows[1][17])
	assert.Equal(t, "jon@example.com", rows[2][5])
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(sampleBatch(), "json", dir)
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []person.Person
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Lucia", decoded[0].FirstName)
	assert.Equal(t, "QQ123456C", decoded[1].DNIValue)
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(sampleBatch(), "xlsx", dir)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "uuid", rows[0][0])
	assert.Equal(t, "lucia@example.com", rows[1][5])
}

func TestWriteUnsupportedFormat(t *testing.T) {
	_, err := Write(sampleBatch(), "parquet", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
