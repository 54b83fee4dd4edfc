package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/mapfile"
	"github.com/torufuji/orgmap/internal/repository"
)

type mapService struct {
	maps     repository.MapRepo
	uow      db.UnitOfWork
	notifier Notifier
	observer UseCaseObserver
}

func NewMapService(maps repository.MapRepo, uow db.UnitOfWork, notifier Notifier, observers ...UseCaseObserver) MapService {
	return &mapService{
		maps:     maps,
		uow:      uow,
		notifier: notifierOrNoop(notifier),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *mapService) Create(ctx context.Context, name, createdBy string) (*domain.OrgMap, error) {
	now := time.Now().UTC()
	m := &domain.OrgMap{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.ValidateName(); err != nil {
		return nil, err
	}
	if err := s.maps.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *mapService) GetByID(ctx context.Context, id string) (*domain.OrgMap, error) {
	return s.maps.GetByID(ctx, id)
}

func (s *mapService) List(ctx context.Context) ([]*domain.OrgMap, error) {
	return s.maps.List(ctx)
}

func (s *mapService) Rename(ctx context.Context, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("map name is required")
	}

	m, err := s.maps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Name == newName {
		return nil
	}

	m.Name = newName
	m.UpdatedAt = time.Now().UTC()
	if err := s.maps.Update(ctx, m); err != nil {
		return err
	}
	s.notifier.Notify(ctx, id)
	return nil
}

// Duplicate deep-copies a map: nodes keep their structure and order under
// fresh ids, the unassigned pool is copied, history is not.
func (s *mapService) Duplicate(ctx context.Context, sourceID, newName string) (dup *domain.OrgMap, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "duplicate-map",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"source_map_id": sourceID},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txUnassigned := repository.NewSQLiteUnassignedRepo(tx)

		source, err := txMaps.GetByID(ctx, sourceID)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(newName)
		if name == "" {
			name = source.Name + " のコピー"
		}

		now := time.Now().UTC()
		dup = &domain.OrgMap{
			ID:          uuid.New().String(),
			Name:        name,
			CreatedBy:   source.CreatedBy,
			MemberCount: source.MemberCount,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := txMaps.Create(ctx, dup); err != nil {
			return err
		}

		nodes, err := txNodes.ListByMap(ctx, sourceID)
		if err != nil {
			return err
		}

		// Categories first so member ParentIDs can be remapped.
		idMap := make(map[string]string, len(nodes))
		for _, n := range nodes {
			idMap[n.ID] = uuid.New().String()
		}
		for _, pass := range []domain.NodeType{domain.NodeCategory, domain.NodeMember} {
			for _, n := range nodes {
				if n.Type != pass {
					continue
				}
				copied := *n
				copied.ID = idMap[n.ID]
				copied.MapID = dup.ID
				copied.CreatedAt = now
				copied.UpdatedAt = now
				if n.ParentID != nil {
					mapped, ok := idMap[*n.ParentID]
					if !ok {
						// Orphan in the source; drop it like the tree does.
						continue
					}
					copied.ParentID = &mapped
				}
				if err := txNodes.Create(ctx, &copied); err != nil {
					return err
				}
			}
		}

		pool, err := txUnassigned.ListByMap(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, u := range pool {
			copied := *u
			copied.ID = uuid.New().String()
			copied.MapID = dup.ID
			copied.CreatedAt = now
			if err := txUnassigned.Create(ctx, &copied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *mapService) ImportFile(ctx context.Context, contents *mapfile.Contents) (m *domain.OrgMap, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-map-file",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"nodes": len(contents.Nodes), "unassigned": len(contents.Unassigned)},
		})
	}()

	if err = contents.Map.ValidateName(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txNodes := repository.NewSQLiteNodeRepo(tx)
		txUnassigned := repository.NewSQLiteUnassignedRepo(tx)

		if err := txMaps.Create(ctx, contents.Map); err != nil {
			return err
		}
		// Convert emits categories before their members, so parent rows
		// always land first.
		for _, n := range contents.Nodes {
			if err := txNodes.Create(ctx, n); err != nil {
				return err
			}
		}
		for _, u := range contents.Unassigned {
			if err := txUnassigned.Create(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contents.Map, nil
}

func (s *mapService) Delete(ctx context.Context, id string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		if _, err := txMaps.GetByID(ctx, id); err != nil {
			return err
		}
		// Owned nodes, pool and history go with the map via FK cascade.
		return txMaps.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, id)
	return nil
}

func (s *mapService) ShareURL(ctx context.Context, origin, mapID string) (string, error) {
	m, err := s.maps.GetByID(ctx, mapID)
	if err != nil {
		return "", err
	}
	return m.ShareURL(origin), nil
}
