package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/torufuji/orgmap/internal/domain"
)

// Map options

type MapOption func(*domain.OrgMap)

func WithCreatedBy(user string) MapOption {
	return func(m *domain.OrgMap) {
		m.CreatedBy = user
	}
}

func WithMemberCount(n int) MapOption {
	return func(m *domain.OrgMap) {
		m.MemberCount = n
	}
}

func NewTestMap(name string, opts ...MapOption) *domain.OrgMap {
	now := time.Now().UTC()
	m := &domain.OrgMap{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: "test-user",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Node options

type NodeOption func(*domain.OrgNode)

func WithParentID(id string) NodeOption {
	return func(n *domain.OrgNode) {
		n.ParentID = &id
	}
}

func WithOrder(order int) NodeOption {
	return func(n *domain.OrgNode) {
		n.Order = order
	}
}

func WithRole(role string) NodeOption {
	return func(n *domain.OrgNode) {
		n.Role = role
	}
}

func WithChatworkAccountID(id string) NodeOption {
	return func(n *domain.OrgNode) {
		n.ChatworkAccountID = id
	}
}

// NewTestCategory builds a top-level category node for mapID.
func NewTestCategory(mapID, name string, opts ...NodeOption) *domain.OrgNode {
	now := time.Now().UTC()
	n := &domain.OrgNode{
		ID:        uuid.New().String(),
		MapID:     mapID,
		Type:      domain.NodeCategory,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTestMember builds a member node under categoryID.
func NewTestMember(mapID, categoryID, name string, opts ...NodeOption) *domain.OrgNode {
	now := time.Now().UTC()
	n := &domain.OrgNode{
		ID:        uuid.New().String(),
		MapID:     mapID,
		Type:      domain.NodeMember,
		Name:      name,
		ParentID:  &categoryID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTestUnassigned builds an unassigned pool member for mapID.
func NewTestUnassigned(mapID, name string) *domain.UnassignedMember {
	return &domain.UnassignedMember{
		ID:        uuid.New().String(),
		MapID:     mapID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
