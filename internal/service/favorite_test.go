package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

func TestToggleFavorite_TogglesAcrossWindows(t *testing.T) {
	f := newFixture()
	f.putUser(t, "owner-1", model.RoleOwner)
	f.putShowroom(t, "sr-1", "owner-2", model.StatusApproved, nil)
	ctx := context.Background()

	on, err := f.engagement.ToggleFavorite(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.True(t, on)

	f.clock.Advance(3 * time.Second)
	on, err = f.engagement.ToggleFavorite(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.False(t, on)
}

// A rapid double tap inside the debounce window does not flip the mark
// back; the second call reports the state the first one produced.
func TestToggleFavorite_DebouncedRepeatIsNoOp(t *testing.T) {
	f := newFixture()
	f.putUser(t, "owner-1", model.RoleOwner)
	f.putShowroom(t, "sr-1", "owner-2", model.StatusApproved, nil)
	ctx := context.Background()

	on, err := f.engagement.ToggleFavorite(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.True(t, on)

	on, err = f.engagement.ToggleFavorite(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.True(t, on)

	var exists bool
	err = f.store.RunTransaction(ctx, func(tx store.Tx) error {
		var txErr error
		exists, txErr = f.favorites.ExistsTx(tx, "owner-1", "sr-1")
		return txErr
	})
	require.NoError(t, err)
	require.True(t, exists)
}

func TestToggleFavorite_DeletedShowroomNotFound(t *testing.T) {
	f := newFixture()
	f.putUser(t, "owner-1", model.RoleOwner)
	f.putShowroom(t, "sr-1", "owner-2", model.StatusDeleted, nil)

	_, err := f.engagement.ToggleFavorite(context.Background(), owner(), "sr-1")
	require.True(t, repository.IsCode(err, repository.CodeShowroomNotFound))
}

func TestToggleFavorite_LockedActorBlocked(t *testing.T) {
	f := newFixture()
	f.putLockedUser(t, "owner-1")
	f.putShowroom(t, "sr-1", "owner-2", model.StatusApproved, nil)

	_, err := f.engagement.ToggleFavorite(context.Background(), owner(), "sr-1")
	require.True(t, repository.IsCode(err, repository.CodeUserNotFound))
}

func TestRecordView_CountsOncePerWindow(t *testing.T) {
	f := newFixture()
	f.putShowroom(t, "sr-1", "owner-2", model.StatusApproved, nil)
	ctx := context.Background()

	counted, err := f.engagement.RecordView(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, 1, f.getShowroom(t, "sr-1").ViewCount)

	counted, err = f.engagement.RecordView(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, 1, f.getShowroom(t, "sr-1").ViewCount)
}

func TestRecordView_CountsAgainAfterWindow(t *testing.T) {
	f := newFixture()
	f.putShowroom(t, "sr-1", "owner-2", model.StatusApproved, nil)
	ctx := context.Background()

	_, err := f.engagement.RecordView(ctx, owner(), "sr-1")
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)
	counted, err := f.engagement.RecordView(ctx, owner(), "sr-1")
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, 2, f.getShowroom(t, "sr-1").ViewCount)
}

func TestRecordView_DistinctViewersEachCount(t *testing.T) {
	f := newFixture()
	f.putShowroom(t, "sr-1", "owner-2", model.StatusApproved, nil)
	ctx := context.Background()

	for _, uid := range []string{"u1", "u2", "u3"} {
		counted, err := f.engagement.RecordView(ctx, model.Actor{UID: uid, Role: model.RoleOwner}, "sr-1")
		require.NoError(t, err)
		require.True(t, counted)
	}
	require.Equal(t, 3, f.getShowroom(t, "sr-1").ViewCount)
}
