package repository

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestModerationCursor_RoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)
	c := NewModerationCursor("pending", at, "sr-42")

	decoded, err := DecodeModerationCursor(c.Encode(), "pending")
	require.NoError(t, err)
	require.Equal(t, c, decoded)

	got, err := decoded.SubmittedAt()
	require.NoError(t, err)
	require.True(t, got.Equal(at))
}

func TestDecodeModerationCursor_Unreadable(t *testing.T) {
	cases := map[string]string{
		"not base64":  "%%%not-base64%%%",
		"not json":    base64.URLEncoding.EncodeToString([]byte("not json")),
		"empty token": base64.URLEncoding.EncodeToString([]byte("{}")),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeModerationCursor(token, "pending")
			require.True(t, IsCode(err, CodeCursorInvalid))
			require.EqualError(t, err, "CURSOR_INVALID: cursor unreadable")
		})
	}
}

func TestDecodeModerationCursor_UnknownVersionFailsClosed(t *testing.T) {
	c := NewModerationCursor("pending", time.Now().UTC(), "sr-1")
	c.Version = 2
	raw, _ := json.Marshal(c)
	token := base64.URLEncoding.EncodeToString(raw)

	_, err := DecodeModerationCursor(token, "pending")
	require.True(t, IsCode(err, CodeCursorInvalid))
	require.EqualError(t, err, "CURSOR_INVALID: cursor unreadable")
}

func TestDecodeModerationCursor_ScopeMismatch(t *testing.T) {
	at := time.Now().UTC()

	// Minted for pending, replayed against rejected.
	token := NewModerationCursor("pending", at, "sr-1").Encode()
	_, err := DecodeModerationCursor(token, "rejected")
	require.True(t, IsCode(err, CodeCursorInvalid))
	require.EqualError(t, err, "CURSOR_INVALID: cursor scope mismatch")

	// Tampered direction.
	c := NewModerationCursor("pending", at, "sr-1")
	c.Direction = "asc"
	_, err = DecodeModerationCursor(c.Encode(), "pending")
	require.EqualError(t, err, "CURSOR_INVALID: cursor scope mismatch")

	// Tampered mode.
	c = NewModerationCursor("pending", at, "sr-1")
	c.Mode = "feed"
	_, err = DecodeModerationCursor(c.Encode(), "pending")
	require.EqualError(t, err, "CURSOR_INVALID: cursor scope mismatch")
}

func TestDecodeModerationCursor_BadTimestamp(t *testing.T) {
	c := NewModerationCursor("pending", time.Now().UTC(), "sr-1")
	c.LastValue = "yesterday-ish"
	_, err := DecodeModerationCursor(c.Encode(), "pending")
	require.EqualError(t, err, "CURSOR_INVALID: cursor unreadable")
}
