package model

import "time"

// Status is the lifecycle state of a showroom. Transitions between
// statuses are governed by the lifecycle package; no code mutates the
// field directly outside a store transaction.
type Status string

const (
	StatusDraft    Status = "draft"    // created by the owner, not yet submitted
	StatusPending  Status = "pending"  // submitted, waiting for admin review
	StatusApproved Status = "approved" // accepted by an admin
	StatusRejected Status = "rejected" // declined by an admin, may be resubmitted
	StatusDeleted  Status = "deleted"  // soft-deleted, terminal; the record persists
)

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusDeleted:
		return true
	}
	return false
}

// ActorSnapshot captures who performed a review at the moment it happened.
// It is stored on the showroom rather than joined at read time so the
// audit trail survives later role changes.
type ActorSnapshot struct {
	UID  string // reviewing user's uid
	Role string // reviewing user's role at review time
}

// EditEntry is one append-only audit record of a lifecycle transition.
// Entries are ordered by At and never rewritten.
type EditEntry struct {
	Action       string    // submit, approve, reject or delete
	At           time.Time // transaction commit time of the transition
	StatusBefore Status    // status the showroom left
	StatusAfter  Status    // status the showroom entered
}

// Showroom is the moderated listing whose lifecycle this service governs.
// Derived fields (NameNormalized, AddressNormalized, BrandsMap) exist for
// internal matching only and are stripped from every external response.
//
// Fields:
//  ID                – store-assigned document identifier.
//  OwnerUID          – uid of the owning user.
//  Status            – current lifecycle status.
//  Name, Type        – display name and showroom category.
//  Country, City     – location of the showroom.
//  Address           – free-form street address.
//  Brands            – brand names carried by the showroom.
//  SubmittedAt       – set on each successful submit (re-set on resubmit).
//  ReviewedAt        – set when an admin approves or rejects.
//  DeletedAt         – set on soft delete.
//  ReviewedBy        – actor snapshot of the reviewing admin.
//  EditCount         – monotonic count of content edits.
//  EditHistory       – append-only transition audit trail.
//  PendingSnapshot   – staged edits awaiting approval, folded in on approve.
//  ViewCount         – deduplicated view counter.
type Showroom struct {
	ID                string
	OwnerUID          string
	Status            Status
	Name              string
	Type              string
	Country           string
	City              string
	Address           string
	Brands            []string
	SubmittedAt       *time.Time
	ReviewedAt        *time.Time
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	ReviewedBy        *ActorSnapshot
	EditCount         int
	EditHistory       []EditEntry
	PendingSnapshot   map[string]any
	ViewCount         int
	NameNormalized    string
	AddressNormalized string
	BrandsMap         map[string]bool
}
