// Package queue defines the domain events published to the message broker
// and the background consumer reacting to them. Push notification and
// analytics collaborators subscribe to these queues; the core never calls
// them directly and never publishes from inside a store transaction.
package queue

// Queue names on the broker.
const (
	StatusChangedQueue  = "showroom.status.changed"
	AccountDeletedQueue = "account.deleted"
)

// ShowroomStatusChangedEvent is published after a lifecycle transition
// commits. It carries enough context for downstream consumers to notify
// the owner or record analytics without re-reading the primary store.
type ShowroomStatusChangedEvent struct {
	ShowroomID   string `json:"showroom_id"`
	OwnerUID     string `json:"owner_uid"`
	Action       string `json:"action"`
	StatusBefore string `json:"status_before"`
	StatusAfter  string `json:"status_after"`
	ActorUID     string `json:"actor_uid"`
	ActorRole    string `json:"actor_role"`
	OccurredAt   string `json:"occurred_at"`
}

// AccountDeletedEvent is published after an account deletion completes.
type AccountDeletedEvent struct {
	UID        string `json:"uid"`
	OccurredAt string `json:"occurred_at"`
}
