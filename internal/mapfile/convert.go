package mapfile

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/tree"
)

// Contents holds the domain objects produced from a map file, ready for
// persistence as one unit.
type Contents struct {
	Map        *domain.OrgMap
	Nodes      []*domain.OrgNode
	Unassigned []*domain.UnassignedMember
}

// Convert transforms a validated map file into domain objects with fresh ids.
// Call Validate first; Convert assumes the file is valid.
func Convert(f *MapFile, createdBy string) *Contents {
	now := time.Now().UTC()

	m := &domain.OrgMap{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(f.Name),
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var nodes []*domain.OrgNode
	for ci, c := range f.Categories {
		cat := &domain.OrgNode{
			ID:        uuid.New().String(),
			MapID:     m.ID,
			Type:      domain.NodeCategory,
			Name:      strings.TrimSpace(c.Name),
			Order:     ci,
			CreatedAt: now,
			UpdatedAt: now,
		}
		nodes = append(nodes, cat)

		for mi, entry := range c.Members {
			parentID := cat.ID
			nodes = append(nodes, &domain.OrgNode{
				ID:                uuid.New().String(),
				MapID:             m.ID,
				Type:              domain.NodeMember,
				Name:              strings.TrimSpace(entry.Name),
				Role:              entry.Role,
				IconURL:           entry.IconURL,
				ChatworkAccountID: entry.ChatworkAccountID,
				ParentID:          &parentID,
				Order:             mi,
				CreatedAt:         now,
				UpdatedAt:         now,
			})
			m.MemberCount++
		}
	}

	var pool []*domain.UnassignedMember
	for _, u := range f.Unassigned {
		pool = append(pool, &domain.UnassignedMember{
			ID:                uuid.New().String(),
			MapID:             m.ID,
			Name:              strings.TrimSpace(u.Name),
			IconURL:           u.IconURL,
			ChatworkAccountID: u.ChatworkAccountID,
			CreatedAt:         now,
		})
	}

	return &Contents{Map: m, Nodes: nodes, Unassigned: pool}
}

// Export renders a map and its contents as a map file. Categories and
// members come out in display order.
func Export(m *domain.OrgMap, nodes []*domain.OrgNode, pool []*domain.UnassignedMember) *MapFile {
	f := &MapFile{Version: Version, Name: m.Name}

	for _, root := range tree.Build(nodes) {
		if !root.IsCategory() {
			continue
		}
		entry := CategoryEntry{Name: root.Name}
		for _, child := range root.Children {
			if !child.IsMember() {
				continue
			}
			entry.Members = append(entry.Members, MemberEntry{
				Name:              child.Name,
				Role:              child.Role,
				IconURL:           child.IconURL,
				ChatworkAccountID: child.ChatworkAccountID,
			})
		}
		f.Categories = append(f.Categories, entry)
	}

	for _, u := range pool {
		f.Unassigned = append(f.Unassigned, PoolEntry{
			Name:              u.Name,
			IconURL:           u.IconURL,
			ChatworkAccountID: u.ChatworkAccountID,
		})
	}

	return f
}
