package model

import "time"

// User roles as carried in the auth token's role claim and stored on the
// user document.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// User represents an account record in the `users` collection. The uid is
// the document ID. DeleteLock marks a deletion in flight: while truthy the
// account is non-writable for every mutation, including its own
// sub-resources. IsDeleted=true always implies the lock has been released.
//
// Fields:
//  UID          – account identifier (document ID).
//  Role         – role name (owner, admin, ...).
//  IsDeleted    – whether the account completed deletion.
//  DeleteLock   – true while a delete attempt holds the account.
//  DeleteLockAt – when the current lock was acquired (stale-lock audit).
//  DeletedAt    – when deletion completed.
//  CreatedAt    – account creation time.
type User struct {
	UID          string
	Role         string
	IsDeleted    bool
	DeleteLock   bool
	DeleteLockAt *time.Time
	DeletedAt    *time.Time
	CreatedAt    *time.Time
}

// Actor identifies the authenticated caller of an operation, extracted
// from the verified token by the identity middleware.
type Actor struct {
	UID  string
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
