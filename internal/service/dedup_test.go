package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryDedup_SuppressesWithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	d := NewMemoryDedupStore(clock.Now)
	ctx := context.Background()

	first, err := d.FirstSeen(ctx, "u1", "view", "sr-1", 30*time.Minute)
	require.NoError(t, err)
	require.True(t, first)

	first, err = d.FirstSeen(ctx, "u1", "view", "sr-1", 30*time.Minute)
	require.NoError(t, err)
	require.False(t, first)

	// Different actor, resource type or resource each get their own key.
	for _, args := range [][3]string{
		{"u2", "view", "sr-1"},
		{"u1", "favorite", "sr-1"},
		{"u1", "view", "sr-2"},
	} {
		first, err = d.FirstSeen(ctx, args[0], args[1], args[2], 30*time.Minute)
		require.NoError(t, err)
		require.True(t, first, "%v", args)
	}
}

func TestMemoryDedup_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	d := NewMemoryDedupStore(clock.Now)
	ctx := context.Background()

	first, err := d.FirstSeen(ctx, "u1", "view", "sr-1", 30*time.Minute)
	require.NoError(t, err)
	require.True(t, first)

	clock.Advance(29 * time.Minute)
	first, err = d.FirstSeen(ctx, "u1", "view", "sr-1", 30*time.Minute)
	require.NoError(t, err)
	require.False(t, first)

	clock.Advance(2 * time.Minute)
	first, err = d.FirstSeen(ctx, "u1", "view", "sr-1", 30*time.Minute)
	require.NoError(t, err)
	require.True(t, first)
}

func TestMemoryDedup_ResetDropsAllMarks(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	d := NewMemoryDedupStore(clock.Now)
	ctx := context.Background()

	_, err := d.FirstSeen(ctx, "u1", "view", "sr-1", time.Hour)
	require.NoError(t, err)
	d.Reset()

	first, err := d.FirstSeen(ctx, "u1", "view", "sr-1", time.Hour)
	require.NoError(t, err)
	require.True(t, first)
}
