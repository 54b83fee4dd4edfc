package domain

import "time"

// HistoryEntry records one mutation against a map. Entries are append-only;
// they are removed only by the cascade when the owning map is deleted.
// PreviousState is an opaque JSON snapshot kept for potential undo.
type HistoryEntry struct {
	ID            string
	MapID         string
	UserID        string
	UserName      string
	Action        HistoryAction
	TargetType    NodeType
	TargetName    string
	Detail        string
	Timestamp     time.Time
	PreviousState string
}
