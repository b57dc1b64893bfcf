package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
)

func seedPending(t *testing.T, f *fixture, n int) []string {
	t.Helper()
	base := f.clock.Now()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("sr-%03d", i)
		at := base.Add(-time.Duration(i) * time.Minute)
		f.putShowroom(t, id, "owner-1", model.StatusPending, map[string]any{
			"submittedAt": at,
		})
		ids = append(ids, id)
	}
	return ids
}

func listParams(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func TestModerationList_WalksAllPagesWithoutGapsOrDuplicates(t *testing.T) {
	f := newFixture()
	want := seedPending(t, f, 25) // already in submittedAt desc order

	var got []string
	params := listParams("status", "pending", "limit", "10")
	for {
		page, err := f.moderation.List(context.Background(), params, admin())
		require.NoError(t, err)
		for _, dto := range page.Showrooms {
			got = append(got, dto.ID)
		}
		if !page.Meta.HasMore {
			require.Nil(t, page.Meta.NextCursor)
			require.Equal(t, PagingEnd, page.Meta.Paging)
			break
		}
		require.NotNil(t, page.Meta.NextCursor)
		require.Equal(t, PagingCursor, page.Meta.Paging)
		params = listParams("status", "pending", "limit", "10", "cursor", *page.Meta.NextCursor)
	}
	require.Equal(t, want, got)
}

func TestModerationList_TieBreakIsDocumentIDAscending(t *testing.T) {
	f := newFixture()
	at := f.clock.Now()
	// Same submittedAt for every row: only the ID tie-break orders them.
	for _, id := range []string{"sr-c", "sr-a", "sr-b"} {
		f.putShowroom(t, id, "owner-1", model.StatusPending, map[string]any{"submittedAt": at})
	}

	page, err := f.moderation.List(context.Background(), listParams("status", "pending", "limit", "2"), admin())
	require.NoError(t, err)
	require.Equal(t, []string{"sr-a", "sr-b"}, []string{page.Showrooms[0].ID, page.Showrooms[1].ID})
	require.True(t, page.Meta.HasMore)

	page, err = f.moderation.List(context.Background(),
		listParams("status", "pending", "limit", "2", "cursor", *page.Meta.NextCursor), admin())
	require.NoError(t, err)
	require.Len(t, page.Showrooms, 1)
	require.Equal(t, "sr-c", page.Showrooms[0].ID)
	require.False(t, page.Meta.HasMore)
}

func TestModerationList_DefaultLimitIsTwenty(t *testing.T) {
	f := newFixture()
	seedPending(t, f, 25)

	page, err := f.moderation.List(context.Background(), listParams("status", "pending"), admin())
	require.NoError(t, err)
	require.Len(t, page.Showrooms, 20)
	require.True(t, page.Meta.HasMore)
}

func TestModerationList_LimitBounds(t *testing.T) {
	f := newFixture()
	seedPending(t, f, 3)

	for _, bad := range []string{"0", "101", "-5", "abc", ""} {
		_, err := f.moderation.List(context.Background(), listParams("status", "pending", "limit", bad), admin())
		require.True(t, repository.IsCode(err, repository.CodeQueryInvalid), "limit=%q", bad)
	}

	page, err := f.moderation.List(context.Background(), listParams("status", "pending", "limit", "100"), admin())
	require.NoError(t, err)
	require.Len(t, page.Showrooms, 3)
}

func TestModerationList_RequiresAdmin(t *testing.T) {
	f := newFixture()
	_, err := f.moderation.List(context.Background(), listParams("status", "pending"), owner())
	require.True(t, repository.IsCode(err, repository.CodeForbidden))
}

func TestModerationList_RejectsUnknownParameters(t *testing.T) {
	f := newFixture()
	_, err := f.moderation.List(context.Background(),
		listParams("status", "pending", "sort", "name"), admin())
	require.True(t, repository.IsCode(err, repository.CodeQueryInvalid))
}

func TestModerationList_StatusValidation(t *testing.T) {
	f := newFixture()

	_, err := f.moderation.List(context.Background(), listParams(), admin())
	require.True(t, repository.IsCode(err, repository.CodeQueryInvalid))

	_, err = f.moderation.List(context.Background(), listParams("status", "published"), admin())
	require.True(t, repository.IsCode(err, repository.CodeQueryInvalid))
}

// Status validation runs before cursor decoding: a garbage cursor paired
// with a missing status reports the status problem, not the cursor one.
func TestModerationList_StatusCheckedBeforeCursor(t *testing.T) {
	f := newFixture()
	_, err := f.moderation.List(context.Background(), listParams("cursor", "!!garbage!!"), admin())
	require.True(t, repository.IsCode(err, repository.CodeQueryInvalid))
}

func TestModerationList_CursorScopeMismatchRejected(t *testing.T) {
	f := newFixture()
	seedPending(t, f, 5)

	page, err := f.moderation.List(context.Background(), listParams("status", "pending", "limit", "2"), admin())
	require.NoError(t, err)
	require.NotNil(t, page.Meta.NextCursor)

	// Replay a pending-scoped cursor against a different status filter.
	_, err = f.moderation.List(context.Background(),
		listParams("status", "rejected", "limit", "2", "cursor", *page.Meta.NextCursor), admin())
	require.True(t, repository.IsCode(err, repository.CodeCursorInvalid))
}

func TestModerationList_UnreadableCursorRejected(t *testing.T) {
	f := newFixture()
	_, err := f.moderation.List(context.Background(),
		listParams("status", "pending", "cursor", "not-base64!"), admin())
	require.True(t, repository.IsCode(err, repository.CodeCursorInvalid))
}

func TestModerationList_DTOOmitsInternalFields(t *testing.T) {
	f := newFixture()
	at := f.clock.Now()
	f.putShowroom(t, "sr-1", "owner-1", model.StatusPending, map[string]any{
		"submittedAt":    at,
		"nameNormalized": "showroom sr-1",
		"pendingSnapshot": map[string]any{
			"name": "Renamed",
		},
	})

	page, err := f.moderation.List(context.Background(), listParams("status", "pending"), admin())
	require.NoError(t, err)
	require.Len(t, page.Showrooms, 1)
	dto := page.Showrooms[0]
	require.Equal(t, "sr-1", dto.ID)
	require.Equal(t, "owner-1", dto.OwnerUID)
	require.NotNil(t, dto.SubmittedAt)
	require.True(t, dto.SubmittedAt.Equal(at))
}
