package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/repository"
)

type unassignedService struct {
	maps       repository.MapRepo
	unassigned repository.UnassignedRepo
	notifier   Notifier
}

func NewUnassignedService(maps repository.MapRepo, unassigned repository.UnassignedRepo, notifier Notifier) UnassignedService {
	return &unassignedService{
		maps:       maps,
		unassigned: unassigned,
		notifier:   notifierOrNoop(notifier),
	}
}

func (s *unassignedService) Add(ctx context.Context, mapID, name, iconURL, chatworkAccountID string) (*domain.UnassignedMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("member name is required")
	}
	if _, err := s.maps.GetByID(ctx, mapID); err != nil {
		return nil, err
	}

	u := &domain.UnassignedMember{
		ID:                uuid.New().String(),
		MapID:             mapID,
		Name:              name,
		IconURL:           iconURL,
		ChatworkAccountID: chatworkAccountID,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.unassigned.Create(ctx, u); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, mapID)
	return u, nil
}

func (s *unassignedService) List(ctx context.Context, mapID string) ([]*domain.UnassignedMember, error) {
	return s.unassigned.ListByMap(ctx, mapID)
}

func (s *unassignedService) Remove(ctx context.Context, mapID, id string) error {
	u, err := s.unassigned.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.MapID != mapID {
		return fmt.Errorf("unassigned member %s: %w", id, repository.ErrNotFound)
	}
	if err := s.unassigned.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, mapID)
	return nil
}
