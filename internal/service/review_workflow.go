package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/lifecycle"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// Approve accepts a pending showroom. Admin only. When the showroom
// carries a pending snapshot of staged edits, approval folds the snapshot
// into the document, clears it and counts one edit. reviewedAt and the
// reviewer snapshot are written with the transaction commit time.
func (s *ShowroomService) Approve(ctx context.Context, showroomID string, actor model.Actor) (*model.Showroom, error) {
	return s.review(ctx, showroomID, actor, lifecycle.ActionApprove)
}

// Reject declines a pending showroom. Admin only. The owner may resubmit
// later; rejection keeps the document and its history intact.
func (s *ShowroomService) Reject(ctx context.Context, showroomID string, actor model.Actor) (*model.Showroom, error) {
	return s.review(ctx, showroomID, actor, lifecycle.ActionReject)
}

func (s *ShowroomService) review(ctx context.Context, showroomID string, actor model.Actor, action lifecycle.Action) (*model.Showroom, error) {
	if !actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}

	var before, after model.Status
	var ownerUID string

	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		if err := s.users.AssertWritableTx(tx, actor.UID); err != nil {
			return err
		}
		sr, err := s.showrooms.GetTx(tx, showroomID)
		if err != nil {
			return err
		}
		next, err := lifecycle.Transition(sr.Status, action)
		if err != nil {
			return err
		}
		before, after, ownerUID = sr.Status, next, sr.OwnerUID

		fields := map[string]any{
			"status":     string(next),
			"reviewedAt": store.ServerTimestamp,
			"updatedAt":  store.ServerTimestamp,
			"reviewedBy": map[string]any{
				"uid":  actor.UID,
				"role": actor.Role,
			},
			"editHistory": repository.AppendHistory(sr, lifecycle.HistoryEntry(action, sr.Status, next)),
		}
		if action == lifecycle.ActionApprove && len(sr.PendingSnapshot) > 0 {
			for k, v := range sr.PendingSnapshot {
				fields[k] = v
			}
			fields["pendingSnapshot"] = nil
			fields["editCount"] = sr.EditCount + 1
		}
		s.showrooms.UpdateTx(tx, sr.ID, fields)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("showroom reviewed",
		zap.String("showroom_id", showroomID),
		zap.String("action", string(action)),
		zap.String("admin_uid", actor.UID))
	s.publishStatus(ctx, showroomID, ownerUID, action, before, after, actor)
	return s.showrooms.Get(ctx, showroomID)
}
