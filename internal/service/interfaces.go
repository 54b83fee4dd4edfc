package service

import (
	"context"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/mapfile"
)

// Actor identifies who performs mutations; it is recorded on history entries.
type Actor struct {
	ID   string
	Name string
}

// Notifier is told after a mutation commits so watchers can reload. The watch
// hub satisfies this.
type Notifier interface {
	Notify(ctx context.Context, mapID string)
}

type MapService interface {
	Create(ctx context.Context, name, createdBy string) (*domain.OrgMap, error)
	GetByID(ctx context.Context, id string) (*domain.OrgMap, error)
	List(ctx context.Context) ([]*domain.OrgMap, error)
	Rename(ctx context.Context, id, newName string) error
	Duplicate(ctx context.Context, sourceID, newName string) (*domain.OrgMap, error)
	Delete(ctx context.Context, id string) error
	ShareURL(ctx context.Context, origin, mapID string) (string, error)
	// ImportFile persists a converted map file as a new map in one
	// transaction. No history is written; the file is the provenance.
	ImportFile(ctx context.Context, contents *mapfile.Contents) (*domain.OrgMap, error)
}

type NodeService interface {
	ListByMap(ctx context.Context, mapID string) ([]*domain.OrgNode, error)
	AddCategory(ctx context.Context, mapID, name string) (*domain.OrgNode, error)
	AddMember(ctx context.Context, mapID, categoryID, name, role, iconURL, chatworkAccountID string) (*domain.OrgNode, error)
	RenameCategory(ctx context.Context, mapID, id, newName string) error
	SetMemberRole(ctx context.Context, mapID, id, role string) error
	PlaceMember(ctx context.Context, mapID, unassignedID, categoryID string) (*domain.OrgNode, error)
	DeleteNode(ctx context.Context, mapID, id string) error
}

type UnassignedService interface {
	Add(ctx context.Context, mapID, name, iconURL, chatworkAccountID string) (*domain.UnassignedMember, error)
	List(ctx context.Context, mapID string) ([]*domain.UnassignedMember, error)
	Remove(ctx context.Context, mapID, id string) error
}

type HistoryService interface {
	List(ctx context.Context, mapID string, limit int) ([]*domain.HistoryEntry, error)
}

type ImportService interface {
	// ImportContacts pulls the contact directory and adds the selected
	// accounts to the map's unassigned pool. An empty accountIDs imports
	// every contact. Returns the number of members added.
	ImportContacts(ctx context.Context, mapID, token string, accountIDs []string) (int, error)
}
