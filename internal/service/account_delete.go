package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/queue"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// Account deletion outcomes.
const (
	OutcomeBlocked          = "blocked"
	OutcomeDeleted          = "deleted"
	OutcomeAlreadyDeleted   = "already_deleted"
	OutcomeDeleteInProgress = "delete_in_progress"
)

// DeleteBlockers reports which resource classes prevent account deletion.
// All three checks run independently and are reported together.
type DeleteBlockers struct {
	Showrooms bool `json:"showrooms"`
	Lookbooks bool `json:"lookbooks"`
	Events    bool `json:"events"`
}

// DeleteOutcome is the result of one deleteAccount attempt.
type DeleteOutcome struct {
	Status   string          `json:"status"`
	Blockers *DeleteBlockers `json:"blockers,omitempty"`
}

// AccountService implements the account delete guard: a state machine
// over blocked, deleted, already_deleted and delete_in_progress that
// stays idempotent under concurrent double-delete attempts.
type AccountService struct {
	store     store.Store
	users     *repository.UserRepo
	showrooms *repository.ShowroomRepo
	ownership *repository.OwnershipRepo
	publisher EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewAccountService wires the delete guard. publisher may be nil.
func NewAccountService(s store.Store, users *repository.UserRepo, showrooms *repository.ShowroomRepo, ownership *repository.OwnershipRepo, publisher EventPublisher, now func() time.Time, logger *zap.Logger) *AccountService {
	if s == nil || users == nil || showrooms == nil || ownership == nil {
		panic("nil dependency passed to NewAccountService")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		store:     s,
		users:     users,
		showrooms: showrooms,
		ownership: ownership,
		publisher: publisher,
		now:       now,
		logger:    logger,
	}
}

// DeleteAccount attempts to delete the account. Lock acquisition and
// state classification happen in one transaction, so two racing calls
// cannot both proceed: the loser observes the lock and classifies by the
// final state it can see instead of reporting blocked. The blocker scan
// never leaves the lock held — a blocked outcome releases it before
// returning.
func (a *AccountService) DeleteAccount(ctx context.Context, uid string) (*DeleteOutcome, error) {
	var shortCircuit string
	err := a.store.RunTransaction(ctx, func(tx store.Tx) error {
		u, err := a.users.GetByUIDTx(tx, uid)
		if err != nil {
			return err
		}
		if u.IsDeleted {
			shortCircuit = OutcomeAlreadyDeleted
			return nil
		}
		if u.DeleteLock {
			shortCircuit = OutcomeDeleteInProgress
			return nil
		}
		a.users.AcquireDeleteLockTx(tx, uid)
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch shortCircuit {
	case OutcomeAlreadyDeleted:
		return &DeleteOutcome{Status: OutcomeAlreadyDeleted}, nil
	case OutcomeDeleteInProgress:
		// Another caller holds the lock. Re-read and classify by the
		// final observed state rather than guessing.
		return a.classifyConcurrent(ctx, uid)
	}

	blockers, blocked, err := a.scanBlockers(ctx, uid)
	if err != nil {
		if releaseErr := a.releaseLock(ctx, uid); releaseErr != nil {
			a.logger.Error("delete lock release failed after scan error",
				zap.String("uid", uid), zap.Error(releaseErr))
		}
		return nil, err
	}
	if blocked {
		if err := a.releaseLock(ctx, uid); err != nil {
			return nil, err
		}
		a.logger.Info("account deletion blocked",
			zap.String("uid", uid),
			zap.Bool("showrooms", blockers.Showrooms),
			zap.Bool("lookbooks", blockers.Lookbooks),
			zap.Bool("events", blockers.Events))
		return &DeleteOutcome{Status: OutcomeBlocked, Blockers: blockers}, nil
	}

	alreadyDone := false
	err = a.store.RunTransaction(ctx, func(tx store.Tx) error {
		u, err := a.users.GetByUIDTx(tx, uid)
		if err != nil {
			return err
		}
		if u.IsDeleted {
			alreadyDone = true
			return nil
		}
		a.users.MarkDeletedTx(tx, uid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if alreadyDone {
		return &DeleteOutcome{Status: OutcomeAlreadyDeleted}, nil
	}

	a.logger.Info("account deleted", zap.String("uid", uid))
	if a.publisher != nil {
		a.publisher.PublishAccountDeleted(ctx, queue.AccountDeletedEvent{
			UID:        uid,
			OccurredAt: a.now().UTC().Format(time.RFC3339Nano),
		})
	}
	return &DeleteOutcome{Status: OutcomeDeleted}, nil
}

// scanBlockers runs the three independent ownership probes and reports
// them together.
func (a *AccountService) scanBlockers(ctx context.Context, uid string) (*DeleteBlockers, bool, error) {
	showrooms, err := a.showrooms.HasNonDeletedByOwner(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	lookbooks, err := a.ownership.HasPublishedLookbooks(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	events, err := a.ownership.HasOwnedEvents(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	b := &DeleteBlockers{Showrooms: showrooms, Lookbooks: lookbooks, Events: events}
	return b, showrooms || lookbooks || events, nil
}

func (a *AccountService) releaseLock(ctx context.Context, uid string) error {
	return a.store.RunTransaction(ctx, func(tx store.Tx) error {
		a.users.ReleaseDeleteLockTx(tx, uid)
		return nil
	})
}

func (a *AccountService) classifyConcurrent(ctx context.Context, uid string) (*DeleteOutcome, error) {
	u, err := a.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted {
		return &DeleteOutcome{Status: OutcomeAlreadyDeleted}, nil
	}
	return &DeleteOutcome{Status: OutcomeDeleteInProgress}, nil
}
