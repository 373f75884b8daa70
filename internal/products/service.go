package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/changelog"
	"github.com/stockroomhq/stockroom-backend/internal/images"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

// Service is the product change engine. Every mutation appends its change
// log entries and saves the product in one transaction.
type Service interface {
	ListProducts(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    *images.Upload
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
	Image    *images.Upload
}

type imageResolver interface {
	PlaceholderURL() string
	Upload(ctx context.Context, upload images.Upload) (*images.Attachment, error)
	ObjectKeyFromURL(imageURL string) (string, bool)
}

type service struct {
	repo        *Repository
	logRepo     *changelog.Repository
	dbClient    *db.Client
	resolver    imageResolver
	cleanup     *images.CleanupPublisher
	metrics     *metrics.InventoryMetrics
	logg        *logger.Logger
	auditImages bool
}

// NewService constructs the change engine.
func NewService(
	repo *Repository,
	logRepo *changelog.Repository,
	dbClient *db.Client,
	resolver imageResolver,
	cleanup *images.CleanupPublisher,
	invMetrics *metrics.InventoryMetrics,
	logg *logger.Logger,
	auditImages bool,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logRepo == nil {
		return nil, fmt.Errorf("changelog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("image resolver required")
	}
	return &service{
		repo:        repo,
		logRepo:     logRepo,
		dbClient:    dbClient,
		resolver:    resolver,
		cleanup:     cleanup,
		metrics:     invMetrics,
		logg:        logg,
		auditImages: auditImages,
	}, nil
}

// ListProducts returns the caller's products.
func (s *service) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModels(products), nil
}

// CreateProduct persists a new product owned by the caller with a single
// created entry. When no image is supplied the placeholder is stored.
func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	imageURL := s.resolver.PlaceholderURL()
	var uploadedKey string
	if input.Image != nil {
		attachment, err := s.resolver.Upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		imageURL = attachment.SecureURL
		uploadedKey = attachment.ObjectKey
	}

	product := &models.Product{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(input.Name),
		Price:    input.Price.Round(2),
		Quantity: input.Quantity,
		ImageURL: imageURL,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}
		return s.appendChange(ctx, tx, product, changelog.Created{NewQuantity: product.Quantity})
	})
	if err != nil {
		// the committed row never existed, so the object is already orphaned
		s.cleanup.Publish(ctx, uploadedKey, images.CleanupReasonProductDeleted)
		return nil, err
	}

	s.metrics.IncMutation(changelog.Created{}.Action().String())
	return FromModel(product), nil
}

// UpdateProduct applies a partial patch. Fields are diffed against the
// stored row in a fixed order (image, name, price, quantity) and each real
// change appends its entry; the single guarded save and the entries commit
// together. A concurrent writer between read and save surfaces as a
// conflict.
func (s *service) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findOwned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Price != nil && !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	expectedVersion := product.Version

	var uploadedKey, uploadedURL, replacedURL string
	if input.Image != nil {
		attachment, err := s.resolver.Upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		uploadedKey = attachment.ObjectKey
		uploadedURL = attachment.SecureURL
		replacedURL = product.ImageURL
	}

	pending := &pendingChanges{}

	if uploadedURL != "" && uploadedURL != product.ImageURL {
		if s.auditImages {
			pending.add(changelog.ImageChanged{
				From:     product.ImageURL,
				To:       uploadedURL,
				Quantity: product.Quantity,
			}, product.Name)
		}
		product.ImageURL = uploadedURL
	}

	if input.Name != nil {
		newName := strings.TrimSpace(*input.Name)
		if newName != product.Name {
			// the rename entry snapshots the name the product had before
			// the patch; entries queued after it carry the new name
			pending.add(changelog.Renamed{
				From:     product.Name,
				To:       newName,
				Quantity: product.Quantity,
			}, product.Name)
			product.Name = newName
		}
	}

	if input.Price != nil {
		newPrice := input.Price.Round(2)
		if !newPrice.Equal(product.Price) {
			pending.add(changelog.Repriced{
				From:     product.Price,
				To:       newPrice,
				Quantity: product.Quantity,
			}, product.Name)
			product.Price = newPrice
		}
	}

	if input.Quantity != nil && *input.Quantity != product.Quantity {
		from, to := product.Quantity, *input.Quantity
		if to > from {
			pending.add(changelog.Restocked{From: from, To: to}, product.Name)
		} else {
			// a drop to zero is still a sale; only explicit deletion
			// records deleted
			pending.add(changelog.Sold{From: from, To: to}, product.Name)
		}
		product.Quantity = to
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateGuarded(ctx, product, expectedVersion); err != nil {
			return err
		}
		productID := product.ID
		for _, pc := range pending.changes {
			entry := pc.change.Flatten(product.OwnerID, &productID, pc.itemName)
			if err := s.logRepo.WithTx(tx).Append(ctx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// the new object is unreferenced whether the write conflicted or
		// failed outright
		s.cleanup.Publish(ctx, uploadedKey, images.CleanupReasonReplaced)
		if errors.Is(err, ErrVersionConflict) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product was modified concurrently")
		}
		return nil, err
	}

	if uploadedKey != "" && replacedURL != "" {
		if key, ok := s.resolver.ObjectKeyFromURL(replacedURL); ok {
			s.cleanup.Publish(ctx, key, images.CleanupReasonReplaced)
		}
	}
	for _, pc := range pending.changes {
		s.metrics.IncMutation(pc.change.Action().String())
	}

	return FromModel(product), nil
}

// DeleteProduct removes the product after appending its deleted entry.
func (s *service) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	product, err := s.findOwned(ctx, ownerID, productID)
	if err != nil {
		return err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.appendChange(ctx, tx, product, changelog.Deleted{From: product.Quantity}); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, product.ID)
	})
	if err != nil {
		return err
	}

	if key, ok := s.resolver.ObjectKeyFromURL(product.ImageURL); ok {
		s.cleanup.Publish(ctx, key, images.CleanupReasonProductDeleted)
	}
	s.metrics.IncMutation(changelog.Deleted{}.Action().String())
	return nil
}

// findOwned resolves the missing-vs-foreign distinction: an unknown id is
// not found, a known id under another owner is an authorization failure.
func (s *service) findOwned(ctx context.Context, ownerID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "product belongs to another user")
	}
	return product, nil
}

func (s *service) appendChange(ctx context.Context, tx *gorm.DB, product *models.Product, change changelog.Change) error {
	productID := product.ID
	entry := change.Flatten(product.OwnerID, &productID, product.Name)
	return s.logRepo.WithTx(tx).Append(ctx, &entry)
}

// pendingChange pairs a queued change with the product name at the moment
// it was queued, so a rename's entry records the pre-patch name while later
// entries in the same patch carry the new one.
type pendingChange struct {
	change   changelog.Change
	itemName string
}

type pendingChanges struct {
	changes []pendingChange
}

func (p *pendingChanges) add(change changelog.Change, itemName string) {
	p.changes = append(p.changes, pendingChange{change: change, itemName: itemName})
}
