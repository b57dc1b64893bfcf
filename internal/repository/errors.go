// Package repository contains data access over the document store and the
// coded errors shared by every layer above it. Handlers translate codes
// into HTTP statuses; services return them untouched so the boundary sees
// exactly the codes listed here.
package repository

import (
	"errors"
	"fmt"
	"time"
)

// Error codes surfaced at the boundary. The write guard deliberately
// reports CodeUserNotFound for absent, deleted and delete-locked accounts
// alike so callers cannot probe account state.
const (
	CodeQueryInvalid     = "QUERY_INVALID"
	CodeCursorInvalid    = "CURSOR_INVALID"
	CodeShowroomNotFound = "SHOWROOM_NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeStateConflict    = "STATE_CONFLICT"
	CodeRecreateCooldown = "SHOWROOM_RECREATE_COOLDOWN"
)

// Error is a coded failure with optional machine-readable metadata.
// Callers match on Code via IsCode rather than on message text.
type Error struct {
	Code    string
	Message string
	Meta    map[string]any
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// IsCode reports whether err is (or wraps) a coded Error with the given
// code.
func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// ErrForbidden is returned when the caller lacks the role or ownership an
// operation requires.
var ErrForbidden = &Error{Code: CodeForbidden, Message: "forbidden"}

// ErrShowroomNotFound is returned when the addressed showroom document
// does not exist.
var ErrShowroomNotFound = &Error{Code: CodeShowroomNotFound, Message: "showroom not found"}

// ErrUserNotFound is returned by the write guard for accounts that are
// absent, deleted or locked by an in-flight deletion.
var ErrUserNotFound = &Error{Code: CodeUserNotFound, Message: "user not found"}

// QueryInvalid builds a QUERY_INVALID error describing the offending
// parameter.
func QueryInvalid(msg string) *Error {
	return &Error{Code: CodeQueryInvalid, Message: msg}
}

// CursorUnreadable marks a cursor token that could not be decoded at all.
func CursorUnreadable() *Error {
	return &Error{Code: CodeCursorInvalid, Message: "cursor unreadable"}
}

// CursorScopeMismatch marks a structurally valid cursor replayed against a
// query whose fingerprint does not match the one it was minted for.
func CursorScopeMismatch() *Error {
	return &Error{Code: CodeCursorInvalid, Message: "cursor scope mismatch"}
}

// StateConflict builds a STATE_CONFLICT error for an illegal lifecycle
// transition or an operation attempted in the wrong status.
func StateConflict(action, status string) *Error {
	return &Error{
		Code:    CodeStateConflict,
		Message: fmt.Sprintf("cannot %s showroom in status %s", action, status),
	}
}

// RecreateCooldown builds the conflict returned when an owner recreates a
// showroom before the cooldown window expires. nextAvailableAt tells the
// caller when creation becomes possible again.
func RecreateCooldown(nextAvailableAt time.Time) *Error {
	return &Error{
		Code:    CodeRecreateCooldown,
		Message: "showroom was recently deleted, recreation is on cooldown",
		Meta:    map[string]any{"nextAvailableAt": nextAvailableAt.UTC().Format(time.RFC3339Nano)},
	}
}
