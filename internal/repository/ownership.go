package repository

import (
	"context"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// OwnershipRepo runs the cross-collection existence probes the account
// delete guard needs. Lookbooks and events are owned by external
// features; this core only asks whether blocking records exist, each via
// a limit-1 query.
type OwnershipRepo struct {
	store store.Store
}

// NewOwnershipRepo constructs an OwnershipRepo over the given store.
func NewOwnershipRepo(s store.Store) *OwnershipRepo {
	if s == nil {
		panic("nil store passed to NewOwnershipRepo")
	}
	return &OwnershipRepo{store: s}
}

// HasPublishedLookbooks reports whether the user has any published
// lookbook under canonical authorship. Draft lookbooks and reposts do not
// block account deletion.
func (r *OwnershipRepo) HasPublishedLookbooks(ctx context.Context, uid string) (bool, error) {
	q := store.NewQuery(CollectionLookbooks).
		Where("authorUid", store.OpEqual, uid).
		Where("status", store.OpEqual, "published").
		Where("isCanonical", store.OpEqual, true).
		Limit(1)
	docs, err := r.store.Run(ctx, q)
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// HasOwnedEvents reports whether the user owns any event record. Any
// owned event blocks account deletion regardless of its state.
func (r *OwnershipRepo) HasOwnedEvents(ctx context.Context, uid string) (bool, error) {
	q := store.NewQuery(CollectionEvents).
		Where("ownerUid", store.OpEqual, uid).
		Limit(1)
	docs, err := r.store.Run(ctx, q)
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}
