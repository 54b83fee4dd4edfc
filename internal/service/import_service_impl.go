package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/torufuji/orgmap/internal/chatwork"
	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
	"github.com/torufuji/orgmap/internal/repository"
)

type importService struct {
	client   chatwork.Client
	uow      db.UnitOfWork
	notifier Notifier
	observer UseCaseObserver
}

// NewImportService creates the contact-directory importer.
func NewImportService(client chatwork.Client, uow db.UnitOfWork, notifier Notifier, observers ...UseCaseObserver) ImportService {
	return &importService{
		client:   client,
		uow:      uow,
		notifier: notifierOrNoop(notifier),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportContacts(ctx context.Context, mapID, token string, accountIDs []string) (added int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-contacts",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"map_id": mapID, "added": added},
		})
	}()

	contacts, err := s.client.Contacts(ctx, token)
	if err != nil {
		return 0, err
	}

	selected := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		selected[id] = true
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaps := repository.NewSQLiteMapRepo(tx)
		txUnassigned := repository.NewSQLiteUnassignedRepo(tx)

		if _, err := txMaps.GetByID(ctx, mapID); err != nil {
			return err
		}
		pool, err := txUnassigned.ListByMap(ctx, mapID)
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(pool))
		for _, u := range pool {
			if u.ChatworkAccountID != "" {
				present[u.ChatworkAccountID] = true
			}
		}

		now := time.Now().UTC()
		for _, c := range contacts {
			accountID := strconv.Itoa(c.AccountID)
			if len(selected) > 0 && !selected[accountID] {
				continue
			}
			if present[accountID] {
				continue
			}
			u := &domain.UnassignedMember{
				ID:                uuid.New().String(),
				MapID:             mapID,
				Name:              c.Name,
				IconURL:           c.AvatarImageURL,
				ChatworkAccountID: accountID,
				CreatedAt:         now,
			}
			if err := txUnassigned.Create(ctx, u); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if added > 0 {
		s.notifier.Notify(ctx, mapID)
	}
	return added, nil
}
