package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
)

func TestReview_RequiresAdmin(t *testing.T) {
	f := newFixture()
	f.putUser(t, "owner-1", model.RoleOwner)
	f.putShowroom(t, "sr-1", "owner-1", model.StatusPending, nil)

	_, err := f.svc.Approve(context.Background(), "sr-1", owner())
	require.True(t, repository.IsCode(err, repository.CodeForbidden))

	_, err = f.svc.Reject(context.Background(), "sr-1", owner())
	require.True(t, repository.IsCode(err, repository.CodeForbidden))
}

func TestApprove_PendingBecomesApproved(t *testing.T) {
	f := newFixture()
	f.putUser(t, "admin-1", model.RoleAdmin)
	f.putShowroom(t, "sr-1", "owner-1", model.StatusPending, nil)

	f.clock.Advance(time.Hour)
	reviewTime := f.clock.Now()

	sr, err := f.svc.Approve(context.Background(), "sr-1", admin())
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, sr.Status)
	require.NotNil(t, sr.ReviewedAt)
	require.True(t, sr.ReviewedAt.Equal(reviewTime))
	require.NotNil(t, sr.ReviewedBy)
	require.Equal(t, "admin-1", sr.ReviewedBy.UID)
	require.Equal(t, model.RoleAdmin, sr.ReviewedBy.Role)
	require.Len(t, sr.EditHistory, 1)
	require.Equal(t, "approve", sr.EditHistory[0].Action)
	require.Equal(t, model.StatusPending, sr.EditHistory[0].StatusBefore)
	require.Equal(t, model.StatusApproved, sr.EditHistory[0].StatusAfter)
}

func TestReject_KeepsDocumentAndAllowsResubmit(t *testing.T) {
	f := newFixture()
	f.putUser(t, "admin-1", model.RoleAdmin)
	f.putUser(t, "owner-1", model.RoleOwner)
	f.putShowroom(t, "sr-1", "owner-1", model.StatusPending, nil)

	sr, err := f.svc.Reject(context.Background(), "sr-1", admin())
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, sr.Status)

	sr, err = f.svc.Submit(context.Background(), "sr-1", owner())
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, sr.Status)
	require.Len(t, sr.EditHistory, 2)
}

func TestApprove_FoldsPendingSnapshot(t *testing.T) {
	f := newFixture()
	f.putUser(t, "admin-1", model.RoleAdmin)
	f.putShowroom(t, "sr-1", "owner-1", model.StatusPending, map[string]any{
		"name":      "Old Name",
		"editCount": 3,
		"pendingSnapshot": map[string]any{
			"name": "New Name",
			"city": "Busan",
		},
	})

	sr, err := f.svc.Approve(context.Background(), "sr-1", admin())
	require.NoError(t, err)
	require.Equal(t, "New Name", sr.Name)
	require.Equal(t, "Busan", sr.City)
	require.Nil(t, sr.PendingSnapshot)
	require.Equal(t, 4, sr.EditCount)
}

func TestReject_LeavesPendingSnapshotStaged(t *testing.T) {
	f := newFixture()
	f.putUser(t, "admin-1", model.RoleAdmin)
	f.putShowroom(t, "sr-1", "owner-1", model.StatusPending, map[string]any{
		"name":            "Old Name",
		"pendingSnapshot": map[string]any{"name": "New Name"},
	})

	sr, err := f.svc.Reject(context.Background(), "sr-1", admin())
	require.NoError(t, err)
	require.Equal(t, "Old Name", sr.Name)
	require.Equal(t, map[string]any{"name": "New Name"}, sr.PendingSnapshot)
}

func TestReview_WrongStatusConflicts(t *testing.T) {
	f := newFixture()
	f.putUser(t, "admin-1", model.RoleAdmin)
	f.putShowroom(t, "sr-draft", "owner-1", model.StatusDraft, nil)
	f.putShowroom(t, "sr-deleted", "owner-1", model.StatusDeleted, nil)

	_, err := f.svc.Approve(context.Background(), "sr-draft", admin())
	require.True(t, repository.IsCode(err, repository.CodeStateConflict))

	_, err = f.svc.Reject(context.Background(), "sr-deleted", admin())
	require.True(t, repository.IsCode(err, repository.CodeStateConflict))
}
