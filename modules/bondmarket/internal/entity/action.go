package entity

import (
	"encoding/json"
	"time"
)

// Action is one historical transaction of interest fetched from the
// indexer. Immutable after ingestion; the whole set is replaced on refresh.
type Action struct {
	Type      string
	DateNanos int64
	Height    int64
	Memo      string // empty if the action carries no send memo

	// Pass-through fields retained for completeness, not interpreted.
	Inputs   json.RawMessage
	Outputs  json.RawMessage
	Pools    []string
	Status   string
	Metadata json.RawMessage
}

// CreatedAt converts the source nanosecond timestamp to a calendar instant.
func (a Action) CreatedAt() time.Time {
	return time.Unix(0, a.DateNanos)
}
