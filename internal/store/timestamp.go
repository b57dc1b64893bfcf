package store

import "time"

// serverTimestamp is the pending server-timestamp sentinel type. A field
// written with this value is resolved by the engine to the transaction's
// commit time (or the write time for non-transactional Add), never the
// caller's wall clock. All sentinel fields staged in one transaction
// resolve to the same instant.
type serverTimestamp struct{}

// ServerTimestamp is the sentinel value recognized by the engine.
var ServerTimestamp = serverTimestamp{}

// IsServerTimestamp reports whether v is the pending timestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Clock supplies the commit time used to resolve ServerTimestamp values.
// Injecting it keeps timestamp resolution explicit and lets tests pin
// time deterministically.
type Clock func() time.Time
