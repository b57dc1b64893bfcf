// Package lifecycle defines the showroom status state machine. It is the
// only place transition legality is encoded; workflows ask it for the next
// status and append the audit entry it produces inside their transaction.
package lifecycle

import (
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// Action names a lifecycle transition as recorded in editHistory.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

// transitions maps each action to the statuses it may leave and the
// status it enters. deleted is terminal: no action leaves it.
var transitions = map[Action]map[model.Status]model.Status{
	ActionSubmit: {
		model.StatusDraft:    model.StatusPending,
		model.StatusRejected: model.StatusPending,
	},
	ActionApprove: {
		model.StatusPending: model.StatusApproved,
	},
	ActionReject: {
		model.StatusPending: model.StatusRejected,
	},
	ActionDelete: {
		model.StatusDraft:    model.StatusDeleted,
		model.StatusPending:  model.StatusDeleted,
		model.StatusApproved: model.StatusDeleted,
		model.StatusRejected: model.StatusDeleted,
	},
}

// Transition returns the status entered by applying action from the given
// status, or a STATE_CONFLICT error when the transition is illegal.
func Transition(from model.Status, action Action) (model.Status, error) {
	next, ok := transitions[action][from]
	if !ok {
		return "", repository.StateConflict(string(action), string(from))
	}
	return next, nil
}

// CanTransition reports whether any action moves a showroom from one
// status to the other.
func CanTransition(from, to model.Status) bool {
	for _, byFrom := range transitions {
		if byFrom[from] == to {
			return true
		}
	}
	return false
}

// HistoryEntry builds the editHistory record for a transition as stored
// document data. The entry time is the pending server-timestamp sentinel
// so it resolves to the same commit instant as the status fields written
// alongside it.
func HistoryEntry(action Action, before, after model.Status) map[string]any {
	return map[string]any{
		"action":       string(action),
		"at":           store.ServerTimestamp,
		"statusBefore": string(before),
		"statusAfter":  string(after),
	}
}
