package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopIsAlwaysAMiss(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "country:Spain", "some-id", time.Hour))

	var id string
	found, err := c.Get(ctx, "country:Spain", &id)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, id)

	require.NoError(t, c.Delete(ctx, "country:Spain"))
	require.NoError(t, c.Ping(ctx))
}
