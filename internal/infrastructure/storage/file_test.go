package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	sink := NewFileSink(dir)

	err := sink.Dump(context.Background(), "raw_data_20260830_100000.json", []byte(`[{"email":"a@example.com"}]`))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "raw_data_20260830_100000.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"email":"a@example.com"}]`, string(data))
}
