package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/repository"
)

type nodeService struct {
	nodes    repository.NodeRepo
	uow      db.UnitOfWork
	actor    Actor
	notifier Notifier
	observer UseCaseObserver
}

// NewNodeService creates the mutation service for org nodes. Every mutation
// validates first, writes node + history + member-count bookkeeping in one
// transaction, and notifies watchers only after the commit.
func NewNodeService(nodes repository.NodeRepo, uow db.UnitOfWork, actor Actor, notifier Notifier, observers ...UseCaseObserver) NodeService {
	return &nodeService{
		nodes:    nodes,
		uow:      uow,
		actor:    actor,
		notifier: notifierOrNoop(notifier),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *nodeService) ListByMap(ctx context.Context, mapID string) ([]*domain.OrgNode, error) {
	return s.nodes.ListByMap(ctx, mapID)
}

func (s *nodeService) AddCategory(ctx context.Context, mapID, name string) (*domain.OrgNode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	var node *domain.OrgNode
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		if _, err := txMaps.GetByID(ctx, mapID); err != nil {
			return err
		}
		nodes, err := txNodes.ListByMap(ctx, mapID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		node = &domain.OrgNode{
			ID:        uuid.New().String(),
			MapID:     mapID,
			Type:      domain.NodeCategory,
			Name:      name,
			Order:     domain.NextOrder(nodes, nil),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := txNodes.Create(ctx, node); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, txHistory, mapID, domain.ActionAdd, domain.NodeCategory, name,
			fmt.Sprintf("added category %q", name)); err != nil {
			return err
		}
		return txMaps.Touch(ctx, mapID)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, mapID)
	return node, nil
}

func (s *nodeService) AddMember(ctx context.Context, mapID, categoryID, name, role, iconURL, chatworkAccountID string) (*domain.OrgNode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("member name is required")
	}

	var node *domain.OrgNode
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		nodes, err := txNodes.ListByMap(ctx, mapID)
		if err != nil {
			return err
		}
		if !domain.ValidParent(nodes, domain.NodeMember, &categoryID) {
			return fmt.Errorf("parent %q is not an existing category", categoryID)
		}

		now := time.Now().UTC()
		node = &domain.OrgNode{
			ID:                uuid.New().String(),
			MapID:             mapID,
			Type:              domain.NodeMember,
			Name:              name,
			ParentID:          &categoryID,
			Order:             domain.NextOrder(nodes, &categoryID),
			Role:              role,
			IconURL:           iconURL,
			ChatworkAccountID: chatworkAccountID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := txNodes.Create(ctx, node); err != nil {
			return err
		}
		if err := s.adjustMemberCount(ctx, txMaps, mapID, +1); err != nil {
			return err
		}
		return s.appendHistory(ctx, txHistory, mapID, domain.ActionAdd, domain.NodeMember, name,
			fmt.Sprintf("added member %q", name))
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, mapID)
	return node, nil
}

func (s *nodeService) RenameCategory(ctx context.Context, mapID, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("category name is required")
	}

	changed := false
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		n, err := s.nodeInMap(ctx, txNodes, mapID, id)
		if err != nil {
			return err
		}
		if !n.IsCategory() {
			return fmt.Errorf("node %q is not a category", id)
		}
		if n.Name == newName {
			return nil
		}

		oldName := n.Name
		n.Name = newName
		n.UpdatedAt = time.Now().UTC()
		if err := txNodes.Update(ctx, n); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, txHistory, mapID, domain.ActionRename, domain.NodeCategory, newName,
			fmt.Sprintf("renamed category %q to %q", oldName, newName)); err != nil {
			return err
		}
		changed = true
		return txMaps.Touch(ctx, mapID)
	})
	if err != nil {
		return err
	}
	if changed {
		s.notifier.Notify(ctx, mapID)
	}
	return nil
}

func (s *nodeService) SetMemberRole(ctx context.Context, mapID, id, role string) error {
	changed := false
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		n, err := s.nodeInMap(ctx, txNodes, mapID, id)
		if err != nil {
			return err
		}
		if !n.IsMember() {
			return fmt.Errorf("node %q is not a member", id)
		}
		if n.Role == role {
			return nil
		}

		n.Role = role
		n.UpdatedAt = time.Now().UTC()
		if err := txNodes.Update(ctx, n); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, txHistory, mapID, domain.ActionRename, domain.NodeMember, n.Name,
			fmt.Sprintf("set role of %q to %q", n.Name, role)); err != nil {
			return err
		}
		changed = true
		return txMaps.Touch(ctx, mapID)
	})
	if err != nil {
		return err
	}
	if changed {
		s.notifier.Notify(ctx, mapID)
	}
	return nil
}

// PlaceMember moves a pool member under a category: the node is created and
// the pool entry removed atomically.
func (s *nodeService) PlaceMember(ctx context.Context, mapID, unassignedID, categoryID string) (node *domain.OrgNode, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "place-member",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"map_id": mapID, "category_id": categoryID},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txUnassigned := repository.NewSQLiteUnassignedRepo(tx)
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		u, err := txUnassigned.GetByID(ctx, unassignedID)
		if err != nil {
			return err
		}
		if u.MapID != mapID {
			return fmt.Errorf("unassigned member %s: %w", unassignedID, repository.ErrNotFound)
		}
		nodes, err := txNodes.ListByMap(ctx, mapID)
		if err != nil {
			return err
		}
		if !domain.ValidParent(nodes, domain.NodeMember, &categoryID) {
			return fmt.Errorf("parent %q is not an existing category", categoryID)
		}

		now := time.Now().UTC()
		node = &domain.OrgNode{
			ID:                uuid.New().String(),
			MapID:             mapID,
			Type:              domain.NodeMember,
			Name:              u.Name,
			ParentID:          &categoryID,
			Order:             domain.NextOrder(nodes, &categoryID),
			IconURL:           u.IconURL,
			ChatworkAccountID: u.ChatworkAccountID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := txNodes.Create(ctx, node); err != nil {
			return err
		}
		if err := txUnassigned.Delete(ctx, u.ID); err != nil {
			return err
		}
		if err := s.adjustMemberCount(ctx, txMaps, mapID, +1); err != nil {
			return err
		}
		return s.appendHistory(ctx, txHistory, mapID, domain.ActionMove, domain.NodeMember, u.Name,
			fmt.Sprintf("placed %q from the unassigned pool", u.Name))
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, mapID)
	return node, nil
}

// DeleteNode removes a node; deleting a category removes its direct children
// with it. No history entry is recorded for deletions.
func (s *nodeService) DeleteNode(ctx context.Context, mapID, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "delete-node",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"map_id": mapID, "node_id": id},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)

		n, err := s.nodeInMap(ctx, txNodes, mapID, id)
		if err != nil {
			return err
		}

		removedMembers := 0
		if n.IsMember() {
			removedMembers = 1
		}
		if n.IsCategory() {
			children, err := txNodes.ListChildren(ctx, n.ID)
			if err != nil {
				return err
			}
			for _, child := range children {
				if child.IsMember() {
					removedMembers++
				}
				if err := txNodes.Delete(ctx, child.ID); err != nil {
					return err
				}
			}
		}
		if err := txNodes.Delete(ctx, n.ID); err != nil {
			return err
		}
		return s.adjustMemberCount(ctx, txMaps, mapID, -removedMembers)
	})
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, mapID)
	return nil
}

func (s *nodeService) nodeInMap(ctx context.Context, nodes repository.NodeRepo, mapID, id string) (*domain.OrgNode, error) {
	n, err := nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.MapID != mapID {
		return nil, fmt.Errorf("node %s: %w", id, repository.ErrNotFound)
	}
	return n, nil
}

// adjustMemberCount moves the denormalized count and the map's UpdatedAt
// together. The count never goes below zero.
func (s *nodeService) adjustMemberCount(ctx context.Context, maps repository.MapRepo, mapID string, delta int) error {
	m, err := maps.GetByID(ctx, mapID)
	if err != nil {
		return err
	}
	m.MemberCount += delta
	if m.MemberCount < 0 {
		m.MemberCount = 0
	}
	m.UpdatedAt = time.Now().UTC()
	return maps.Update(ctx, m)
}

func (s *nodeService) appendHistory(ctx context.Context, history repository.HistoryRepo, mapID string, action domain.HistoryAction, targetType domain.NodeType, targetName, detail string) error {
	return history.Create(ctx, &domain.HistoryEntry{
		ID:         uuid.New().String(),
		MapID:      mapID,
		UserID:     s.actor.ID,
		UserName:   s.actor.Name,
		Action:     action,
		TargetType: targetType,
		TargetName: targetName,
		Detail:     detail,
		Timestamp:  time.Now().UTC(),
	})
}
