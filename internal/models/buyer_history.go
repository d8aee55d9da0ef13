package models

import (
	"time"

	"github.com/google/uuid"

	"lead-backend/internal/diff"
)

// History event kinds. The tagged kind keeps creation entries distinguishable
// from an edit that happens to touch a field literally named "Create".
const (
	HistoryEventCreated = "created"
	HistoryEventUpdated = "updated"
)

// BuyerHistory is one immutable audit-trail entry: the field-level diff of a
// single edit (or the creation sentinel) plus who and when. Rows are append
// only; nothing in the backend mutates or deletes them.
type BuyerHistory struct {
	ID        int64      `json:"id"`
	BuyerID   uuid.UUID  `json:"buyer_id"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
	EventType string     `json:"event_type"`
	Diff      diff.Entry `json:"diff"`
	ChangedAt time.Time  `json:"changed_at"`

	// Summary is the rendered "field: old → new, ..." line, filled on reads.
	Summary string `json:"summary,omitempty"`
}
