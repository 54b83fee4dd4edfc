package domain

import "time"

// UnassignedMember is a person not yet placed under any category. It is
// destroyed when placed into a category (becoming a member OrgNode) or when
// explicitly removed.
type UnassignedMember struct {
	ID                string
	MapID             string
	Name              string
	IconURL           string
	ChatworkAccountID string
	CreatedAt         time.Time
}
