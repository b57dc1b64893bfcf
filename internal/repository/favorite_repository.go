package repository

import (
	"errors"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// FavoriteRepo persists user favorites of showrooms. The document ID is
// the (uid, showroomId) pair so a user can favorite a showroom at most
// once and toggling is a point read plus one write.
type FavoriteRepo struct {
	store store.Store
}

// NewFavoriteRepo constructs a FavoriteRepo over the given store.
func NewFavoriteRepo(s store.Store) *FavoriteRepo {
	if s == nil {
		panic("nil store passed to NewFavoriteRepo")
	}
	return &FavoriteRepo{store: s}
}

func favoriteID(uid, showroomID string) string {
	return uid + "_" + showroomID
}

// ExistsTx reports whether the user currently favorites the showroom.
func (r *FavoriteRepo) ExistsTx(tx store.Tx, uid, showroomID string) (bool, error) {
	_, err := tx.Get(CollectionFavorites, favoriteID(uid, showroomID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetTx stages creation of the favorite mark.
func (r *FavoriteRepo) SetTx(tx store.Tx, uid, showroomID string) {
	tx.Set(CollectionFavorites, favoriteID(uid, showroomID), map[string]any{
		"uid":        uid,
		"showroomId": showroomID,
		"createdAt":  store.ServerTimestamp,
	})
}

// RemoveTx stages removal of the favorite mark.
func (r *FavoriteRepo) RemoveTx(tx store.Tx, uid, showroomID string) {
	tx.Delete(CollectionFavorites, favoriteID(uid, showroomID))
}
