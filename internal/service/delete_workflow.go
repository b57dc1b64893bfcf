package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/lifecycle"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// SoftDelete marks a showroom deleted. The record is never physically
// removed: it stays for audit and feeds the recreate cooldown. Owners may
// delete their own showrooms; admins may delete any. Deleting an already
// deleted showroom is a state conflict, which also makes concurrent
// double deletes idempotent at the caller level.
func (s *ShowroomService) SoftDelete(ctx context.Context, showroomID string, actor model.Actor) (*model.Showroom, error) {
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
		if sr.OwnerUID != actor.UID && !actor.IsAdmin() {
			return repository.ErrForbidden
		}
		next, err := lifecycle.Transition(sr.Status, lifecycle.ActionDelete)
		if err != nil {
			return err
		}
		before, after, ownerUID = sr.Status, next, sr.OwnerUID
		s.showrooms.UpdateTx(tx, sr.ID, map[string]any{
			"status":      string(next),
			"deletedAt":   store.ServerTimestamp,
			"updatedAt":   store.ServerTimestamp,
			"editHistory": repository.AppendHistory(sr, lifecycle.HistoryEntry(lifecycle.ActionDelete, sr.Status, next)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("showroom soft deleted",
		zap.String("showroom_id", showroomID),
		zap.String("owner_uid", ownerUID),
		zap.String("actor_uid", actor.UID))
	s.publishStatus(ctx, showroomID, ownerUID, lifecycle.ActionDelete, before, after, actor)
	return s.showrooms.Get(ctx, showroomID)
}
