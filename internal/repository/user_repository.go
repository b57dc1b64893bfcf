package repository

import (
	"context"
	"errors"
	"time"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// UserRepo manages account documents and implements the write guard. The
// guard is the first check of every mutation path; its transactional
// variant runs inside the same transaction as the dependent write so there
// is no window between check and act.
type UserRepo struct {
	store store.Store
}

// NewUserRepo constructs a UserRepo over the given store.
func NewUserRepo(s store.Store) *UserRepo {
	if s == nil {
		panic("nil store passed to NewUserRepo")
	}
	return &UserRepo{store: s}
}

// GetByUID loads the user document. Returns ErrUserNotFound when absent.
func (r *UserRepo) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	doc, err := r.store.Get(ctx, CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

// GetByUIDTx is GetByUID inside a transaction.
func (r *UserRepo) GetByUIDTx(tx store.Tx, uid string) (*model.User, error) {
	doc, err := tx.Get(CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

// AssertWritable checks that the account may be mutated. Absent, deleted
// and delete-locked accounts all fail with ErrUserNotFound; the caller
// cannot tell a nonexistent account from one mid-deletion. This check
// without a transaction is advisory only and must be repeated via
// AssertWritableTx next to the dependent write.
func (r *UserRepo) AssertWritable(ctx context.Context, uid string) error {
	u, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return assertWritableUser(u)
}

// AssertWritableTx is the transactional write guard. It must run in the
// same transaction as any mutation it gates.
func (r *UserRepo) AssertWritableTx(tx store.Tx, uid string) error {
	u, err := r.GetByUIDTx(tx, uid)
	if err != nil {
		return err
	}
	return assertWritableUser(u)
}

func assertWritableUser(u *model.User) error {
	if u.IsDeleted || u.DeleteLock {
		return ErrUserNotFound
	}
	return nil
}

// AcquireDeleteLockTx stages acquisition of the delete lock. The caller
// has already classified the current state inside the same transaction.
func (r *UserRepo) AcquireDeleteLockTx(tx store.Tx, uid string) {
	tx.Update(CollectionUsers, uid, map[string]any{
		"deleteLock":   true,
		"deleteLockAt": store.ServerTimestamp,
	})
}

// ReleaseDeleteLockTx stages release of the delete lock without touching
// any other account state. Used when a blocked deletion backs out.
func (r *UserRepo) ReleaseDeleteLockTx(tx store.Tx, uid string) {
	tx.Update(CollectionUsers, uid, map[string]any{
		"deleteLock":   nil,
		"deleteLockAt": nil,
	})
}

// MarkDeletedTx stages completion of an account deletion: the deleted
// flag and timestamp are set and the lock is released in the same write,
// keeping the isDeleted-implies-unlocked invariant.
func (r *UserRepo) MarkDeletedTx(tx store.Tx, uid string) {
	tx.Update(CollectionUsers, uid, map[string]any{
		"isDeleted":    true,
		"deletedAt":    store.ServerTimestamp,
		"deleteLock":   nil,
		"deleteLockAt": nil,
	})
}

// Put stores a full user document keyed by uid. Used by fixtures and
// account provisioning.
func (r *UserRepo) Put(ctx context.Context, u *model.User) error {
	return r.store.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set(CollectionUsers, u.UID, userToDoc(u))
		return nil
	})
}

func userFromDoc(doc store.Document) *model.User {
	u := &model.User{
		UID:          doc.ID,
		Role:         docString(doc.Data, "role"),
		IsDeleted:    docBool(doc.Data, "isDeleted"),
		DeleteLock:   docBool(doc.Data, "deleteLock"),
		DeleteLockAt: docTime(doc.Data, "deleteLockAt"),
		DeletedAt:    docTime(doc.Data, "deletedAt"),
		CreatedAt:    docTime(doc.Data, "createdAt"),
	}
	return u
}

func userToDoc(u *model.User) map[string]any {
	data := map[string]any{
		"role":      u.Role,
		"isDeleted": u.IsDeleted,
	}
	if u.DeleteLock {
		data["deleteLock"] = true
	} else {
		data["deleteLock"] = nil
	}
	data["deleteLockAt"] = timeOrNil(u.DeleteLockAt)
	data["deletedAt"] = timeOrNil(u.DeletedAt)
	if u.CreatedAt != nil {
		data["createdAt"] = *u.CreatedAt
	} else {
		data["createdAt"] = store.ServerTimestamp
	}
	return data
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
