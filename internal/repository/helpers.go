package repository

import (
	"database/sql"
	"time"
)

// parseTime parses an RFC3339 string stored by the repositories. A zero time
// is returned for empty or malformed values rather than an error; timestamps
// are display metadata, not correctness-bearing state.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableString converts a *string to a driver value, mapping nil to SQL NULL.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a scanned sql.NullString back to a *string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
