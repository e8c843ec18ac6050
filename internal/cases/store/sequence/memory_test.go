package sequence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNextIncrements(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		got, err := store.Next(ctx, "BFC", 2026)
		require.NoError(t, err)
		require.Equal(t, i, got)
	}
}

func TestCountersAreIndependent(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	_, err := store.Next(ctx, "BFC", 2026)
	require.NoError(t, err)

	leeds, err := store.Next(ctx, "LFC", 2026)
	require.NoError(t, err)
	require.Equal(t, int64(1), leeds)

	nextYear, err := store.Next(ctx, "BFC", 2027)
	require.NoError(t, err)
	require.Equal(t, int64(1), nextYear)
}

func TestNextConcurrent(t *testing.T) {
	store := NewInMemory()
	const n = 200

	results := make(chan int64, n)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := store.Next(ctx, "BFC", 2026)
			if err != nil {
				return err
			}
			results <- v
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		require.False(t, seen[v], "value %d issued twice", v)
		seen[v] = true
	}
	require.Len(t, seen, n)
	require.True(t, seen[int64(n)])
}
