package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// ErrVersionConflict is returned when a guarded write observed a version
// other than the one it read.
var ErrVersionConflict = errors.New("product version conflict")

// Repository wraps product persistence.
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

// Create inserts the product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without ownership filtering; callers resolve
// the missing-vs-foreign distinction themselves.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByOwner returns the owner's products in creation order.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&products).
		Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateGuarded writes the product's mutable fields only if the stored
// version still matches expectedVersion, bumping the version on success.
// Returns ErrVersionConflict when a concurrent write got there first.
func (r *Repository) UpdateGuarded(ctx context.Context, product *models.Product, expectedVersion int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Updates(map[string]any{
			"name":      product.Name,
			"price":     product.Price,
			"quantity":  product.Quantity,
			"image_url": product.ImageURL,
			"version":   expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	product.Version = expectedVersion + 1
	return nil
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
