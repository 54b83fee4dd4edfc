package service

import (
	"context"

	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/repository"
)

type historyService struct {
	history repository.HistoryRepo
}

func NewHistoryService(history repository.HistoryRepo) HistoryService {
	return &historyService{history: history}
}

func (s *historyService) List(ctx context.Context, mapID string, limit int) ([]*domain.HistoryEntry, error) {
	return s.history.ListByMap(ctx, mapID, limit)
}
