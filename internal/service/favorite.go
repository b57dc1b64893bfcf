package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// Dedup resource types.
const (
	dedupFavorite = "favorite"
	dedupView     = "view"
)

// EngagementService handles favoriting and view counting. Both go through
// the injected dedup store: favorite toggles are debounced so a rapid
// double tap cannot flip the mark twice, and repeat views inside the
// suppression window are not counted.
type EngagementService struct {
	store       store.Store
	users       *repository.UserRepo
	showrooms   *repository.ShowroomRepo
	favorites   *repository.FavoriteRepo
	dedup       DedupStore
	favoriteTTL time.Duration
	viewTTL     time.Duration
	logger      *zap.Logger
}

// NewEngagementService wires favorite/view handling.
func NewEngagementService(s store.Store, users *repository.UserRepo, showrooms *repository.ShowroomRepo, favorites *repository.FavoriteRepo, dedup DedupStore, favoriteTTL, viewTTL time.Duration, logger *zap.Logger) *EngagementService {
	if s == nil || users == nil || showrooms == nil || favorites == nil || dedup == nil {
		panic("nil dependency passed to NewEngagementService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{
		store:       s,
		users:       users,
		showrooms:   showrooms,
		favorites:   favorites,
		dedup:       dedup,
		favoriteTTL: favoriteTTL,
		viewTTL:     viewTTL,
		logger:      logger,
	}
}

// ToggleFavorite flips the actor's favorite mark on a showroom. A repeat
// call inside the debounce window is a no-op that reports the current
// state. The guard and the toggle share one transaction.
func (e *EngagementService) ToggleFavorite(ctx context.Context, actor model.Actor, showroomID string) (bool, error) {
	first, err := e.dedup.FirstSeen(ctx, actor.UID, dedupFavorite, showroomID, e.favoriteTTL)
	if err != nil {
		return false, err
	}

	var favorited bool
	err = e.store.RunTransaction(ctx, func(tx store.Tx) error {
		if err := e.users.AssertWritableTx(tx, actor.UID); err != nil {
			return err
		}
		sr, err := e.showrooms.GetTx(tx, showroomID)
		if err != nil {
			return err
		}
		if sr.Status == model.StatusDeleted {
			return repository.ErrShowroomNotFound
		}
		exists, err := e.favorites.ExistsTx(tx, actor.UID, showroomID)
		if err != nil {
			return err
		}
		if !first {
			favorited = exists
			return nil
		}
		if exists {
			e.favorites.RemoveTx(tx, actor.UID, showroomID)
			favorited = false
		} else {
			e.favorites.SetTx(tx, actor.UID, showroomID)
			favorited = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// RecordView counts one view of a showroom per actor per suppression
// window. The returned boolean reports whether this call was counted.
func (e *EngagementService) RecordView(ctx context.Context, actor model.Actor, showroomID string) (bool, error) {
	first, err := e.dedup.FirstSeen(ctx, actor.UID, dedupView, showroomID, e.viewTTL)
	if err != nil {
		return false, err
	}
	if !first {
		return false, nil
	}

	err = e.store.RunTransaction(ctx, func(tx store.Tx) error {
		sr, err := e.showrooms.GetTx(tx, showroomID)
		if err != nil {
			return err
		}
		if sr.Status == model.StatusDeleted {
			return repository.ErrShowroomNotFound
		}
		e.showrooms.UpdateTx(tx, sr.ID, map[string]any{
			"viewCount": sr.ViewCount + 1,
		})
		return nil
	})
	if err != nil {
		return false, err
	}

	e.logger.Debug("view recorded",
		zap.String("showroom_id", showroomID),
		zap.String("actor_uid", actor.UID))
	return true, nil
}
