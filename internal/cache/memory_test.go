package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository()
	repo.now = func() time.Time { return clock }

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	clock = clock.Add(time.Minute)
	_, err = repo.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set(ctx, "forever", []byte("x"), 0))
	require.NoError(t, repo.Delete(ctx, "forever"))
	_, err = repo.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrNotFound)
}
