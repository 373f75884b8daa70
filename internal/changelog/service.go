package changelog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Service exposes the owner-scoped history operations.
type Service interface {
	ListEntries(ctx context.Context, ownerID uuid.UUID) ([]EntryDTO, error)
	ClearEntries(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type entryStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ChangeLogEntry, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type service struct {
	repo entryStore
}

// NewService constructs the change log service.
func NewService(repo entryStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("changelog repository required")
	}
	return &service{repo: repo}, nil
}

// ListEntries returns the owner's history, most recent first.
func (s *service) ListEntries(ctx context.Context, ownerID uuid.UUID) ([]EntryDTO, error) {
	entries, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModels(entries), nil
}

// ClearEntries deletes the owner's history and returns the deleted count.
func (s *service) ClearEntries(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.repo.DeleteByOwner(ctx, ownerID)
}
