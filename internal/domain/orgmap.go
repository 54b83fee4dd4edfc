package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrgMap is one org chart. MemberCount is a denormalized cache of the number
// of member-type nodes owned by the map; every mutation that adds or removes
// member nodes keeps it consistent.
type OrgMap struct {
	ID          string
	Name        string
	CreatedBy   string
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateName checks that the map name is non-empty after trimming.
func (m *OrgMap) ValidateName() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("map name is required")
	}
	return nil
}

// ShareURL returns the public URL for the map: <origin>/map/<id>.
// Any holder of the URL has full read/edit access.
func (m *OrgMap) ShareURL(origin string) string {
	return fmt.Sprintf("%s/map/%s", strings.TrimRight(origin, "/"), m.ID)
}
