package repository

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Moderation cursor wire format constants. The version tag makes the
// cursor a discriminated record: any token carrying an unknown version or
// mode fails closed instead of being misparsed by newer code.
const (
	cursorVersion   = 3
	cursorMode      = "moderation"
	cursorOrder     = "submittedAt"
	cursorDirection = "desc"
)

// ModerationCursor is the decoded form of the opaque pagination token.
// Besides the resume position (LastValue, ID) it embeds the fingerprint
// of the query it was minted for; replaying it against a query with a
// different status, mode, order field or direction is rejected.
type ModerationCursor struct {
	Version    int    `json:"v"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	OrderField string `json:"orderField"`
	Direction  string `json:"direction"`
	LastValue  string `json:"lastValue"`
	ID         string `json:"id"`
}

// NewModerationCursor mints a cursor resuming strictly after the row with
// the given submission time and document ID, scoped to one status filter.
func NewModerationCursor(status string, submittedAt time.Time, id string) ModerationCursor {
	return ModerationCursor{
		Version:    cursorVersion,
		Mode:       cursorMode,
		Status:     status,
		OrderField: cursorOrder,
		Direction:  cursorDirection,
		LastValue:  submittedAt.UTC().Format(time.RFC3339Nano),
		ID:         id,
	}
}

// Encode serializes the cursor to its opaque wire form,
// base64url(JSON).
func (c ModerationCursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(raw)
}

// SubmittedAt returns the resume timestamp carried in LastValue.
func (c ModerationCursor) SubmittedAt() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, c.LastValue)
	if err != nil {
		return time.Time{}, CursorUnreadable()
	}
	return t, nil
}

// DecodeModerationCursor parses an opaque token and validates it against
// the status filter of the query it is being replayed on. Malformed
// base64 or JSON, an unknown version or a missing resume position yield
// "cursor unreadable"; a readable cursor minted for a different filter
// set yields "cursor scope mismatch". Both surface CURSOR_INVALID.
func DecodeModerationCursor(token, status string) (ModerationCursor, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return ModerationCursor{}, CursorUnreadable()
	}
	var c ModerationCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return ModerationCursor{}, CursorUnreadable()
	}
	if c.Version != cursorVersion {
		return ModerationCursor{}, CursorUnreadable()
	}
	if c.ID == "" || c.LastValue == "" {
		return ModerationCursor{}, CursorUnreadable()
	}
	if _, err := c.SubmittedAt(); err != nil {
		return ModerationCursor{}, CursorUnreadable()
	}
	if c.Mode != cursorMode || c.Status != status || c.OrderField != cursorOrder || c.Direction != cursorDirection {
		return ModerationCursor{}, CursorScopeMismatch()
	}
	return c, nil
}
