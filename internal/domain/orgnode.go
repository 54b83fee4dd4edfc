package domain

import "time"

// OrgNode is a category or member entity in an org chart. A nil ParentID
// marks a top-level category; member nodes always hang under a category.
// Order is the position among siblings sharing the same ParentID.
type OrgNode struct {
	ID                string
	MapID             string
	Type              NodeType
	Name              string
	ParentID          *string
	Order             int
	Role              string // member only
	IconURL           string
	ChatworkAccountID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsCategory reports whether the node is a category.
func (n *OrgNode) IsCategory() bool { return n.Type == NodeCategory }

// IsMember reports whether the node is a member.
func (n *OrgNode) IsMember() bool { return n.Type == NodeMember }

// ValidParent reports whether parentID is an acceptable parent for a new node
// of the given type within nodes. A nil parent is valid only for categories;
// otherwise the parent must be an existing category node. Member nodes can
// never act as parents, which also rules out self-references and any depth
// beyond root → category → member.
func ValidParent(nodes []*OrgNode, childType NodeType, parentID *string) bool {
	if parentID == nil {
		return childType == NodeCategory
	}
	for _, n := range nodes {
		if n.ID == *parentID {
			return n.Type == NodeCategory
		}
	}
	return false
}

// NextOrder returns the append position for a new sibling under parentID:
// the current number of nodes sharing that parent. New nodes are always
// appended, never inserted mid-sequence.
func NextOrder(nodes []*OrgNode, parentID *string) int {
	count := 0
	for _, n := range nodes {
		if sameParent(n.ParentID, parentID) {
			count++
		}
	}
	return count
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
