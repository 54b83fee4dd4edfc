package repository

import (
	"context"

	"github.com/torufuji/orgmap/internal/domain"
)

type MapRepo interface {
	Create(ctx context.Context, m *domain.OrgMap) error
	GetByID(ctx context.Context, id string) (*domain.OrgMap, error)
	List(ctx context.Context) ([]*domain.OrgMap, error)
	Update(ctx context.Context, m *domain.OrgMap) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type NodeRepo interface {
	Create(ctx context.Context, n *domain.OrgNode) error
	GetByID(ctx context.Context, id string) (*domain.OrgNode, error)
	ListByMap(ctx context.Context, mapID string) ([]*domain.OrgNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.OrgNode, error)
	Update(ctx context.Context, n *domain.OrgNode) error
	Delete(ctx context.Context, id string) error
}

type UnassignedRepo interface {
	Create(ctx context.Context, m *domain.UnassignedMember) error
	GetByID(ctx context.Context, id string) (*domain.UnassignedMember, error)
	ListByMap(ctx context.Context, mapID string) ([]*domain.UnassignedMember, error)
	Delete(ctx context.Context, id string) error
}

type HistoryRepo interface {
	Create(ctx context.Context, e *domain.HistoryEntry) error
	ListByMap(ctx context.Context, mapID string, limit int) ([]*domain.HistoryEntry, error)
}
