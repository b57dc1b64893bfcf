package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/lifecycle"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/queue"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// EventPublisher emits domain events after a transaction commits. Broker
// delivery is best effort; implementations log failures and never block
// the request flow.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev queue.ShowroomStatusChangedEvent)
	PublishAccountDeleted(ctx context.Context, ev queue.AccountDeletedEvent)
}

// ShowroomService orchestrates the showroom lifecycle workflows: create,
// submit, approve, reject and soft delete. Every mutation runs the write
// guard and the transition inside one store transaction; events publish
// only after commit.
type ShowroomService struct {
	store     store.Store
	users     *repository.UserRepo
	showrooms *repository.ShowroomRepo
	publisher EventPublisher
	cooldown  time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewShowroomService wires the lifecycle workflows. publisher may be nil
// (events skipped); a nil clock uses wall time.
func NewShowroomService(s store.Store, users *repository.UserRepo, showrooms *repository.ShowroomRepo, publisher EventPublisher, cooldown time.Duration, now func() time.Time, logger *zap.Logger) *ShowroomService {
	if s == nil || users == nil || showrooms == nil {
		panic("nil dependency passed to NewShowroomService")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShowroomService{
		store:     s,
		users:     users,
		showrooms: showrooms,
		publisher: publisher,
		cooldown:  cooldown,
		now:       now,
		logger:    logger,
	}
}

// Submit moves the actor's showroom from draft or rejected into pending
// review. The whole transition runs in one transaction: write guard,
// existence, ownership, status legality, then the status flip with
// submittedAt and updatedAt resolved to the commit time. submittedAt is
// re-set on resubmission, not preserved. No push or analytics calls
// happen here; collaborators react to the published event.
func (s *ShowroomService) Submit(ctx context.Context, showroomID string, actor model.Actor) (*model.Showroom, error) {
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
		if sr.OwnerUID != actor.UID {
			return repository.ErrForbidden
		}
		next, err := lifecycle.Transition(sr.Status, lifecycle.ActionSubmit)
		if err != nil {
			return err
		}
		before, after, ownerUID = sr.Status, next, sr.OwnerUID
		s.showrooms.UpdateTx(tx, sr.ID, map[string]any{
			"status":      string(next),
			"submittedAt": store.ServerTimestamp,
			"updatedAt":   store.ServerTimestamp,
			"editHistory": repository.AppendHistory(sr, lifecycle.HistoryEntry(lifecycle.ActionSubmit, sr.Status, next)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("showroom submitted for review",
		zap.String("showroom_id", showroomID),
		zap.String("owner_uid", ownerUID))
	s.publishStatus(ctx, showroomID, ownerUID, lifecycle.ActionSubmit, before, after, actor)
	return s.showrooms.Get(ctx, showroomID)
}

func (s *ShowroomService) publishStatus(ctx context.Context, showroomID, ownerUID string, action lifecycle.Action, before, after model.Status, actor model.Actor) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishStatusChanged(ctx, queue.ShowroomStatusChangedEvent{
		ShowroomID:   showroomID,
		OwnerUID:     ownerUID,
		Action:       string(action),
		StatusBefore: string(before),
		StatusAfter:  string(after),
		ActorUID:     actor.UID,
		ActorRole:    actor.Role,
		OccurredAt:   s.now().UTC().Format(time.RFC3339Nano),
	})
}
