package changelog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Repository wraps change log persistence. Entries are append-only; the only
// destructive operation is the per-owner bulk clear.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append inserts one entry.
func (r *Repository) Append(ctx context.Context, entry *models.ChangeLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByOwner returns the owner's entries, most recent first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ChangeLogEntry, error) {
	var entries []models.ChangeLogEntry
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&entries).
		Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByOwner removes all of the owner's entries and returns how many rows
// were deleted.
func (r *Repository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.ChangeLogEntry{})
	return res.RowsAffected, res.Error
}
