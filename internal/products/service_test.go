package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/changelog"
	"github.com/stockroomhq/stockroom-backend/internal/images"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

const testPlaceholder = "/placeholder_crate.png"

type stubResolver struct {
	uploads int
	url     string
	key     string
}

func (s *stubResolver) PlaceholderURL() string { return testPlaceholder }

func (s *stubResolver) Upload(ctx context.Context, upload images.Upload) (*images.Attachment, error) {
	s.uploads++
	return &images.Attachment{SecureURL: s.url, ObjectKey: s.key}, nil
}

func (s *stubResolver) ObjectKeyFromURL(imageURL string) (string, bool) {
	return "", false
}

func newTestService(t *testing.T, conn *gorm.DB, auditImages bool) (Service, *Repository, *changelog.Repository) {
	t.Helper()
	repo := NewRepository(conn)
	logRepo := changelog.NewRepository(conn)
	svc, err := NewService(
		repo,
		logRepo,
		db.FromConn(conn),
		&stubResolver{url: "https://storage.googleapis.com/test/products/p.png", key: "products/p.png"},
		images.NewCleanupPublisher(nil, nil),
		metrics.NewInventoryMetrics(nil),
		nil,
		auditImages,
	)
	require.NoError(t, err)
	return svc, repo, logRepo
}

func mustCreateOwner(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	user := &models.User{
		Email:        "svc_test_" + uuid.NewString() + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, conn.Create(user).Error)
	return user.ID
}

func entriesFor(t *testing.T, logRepo *changelog.Repository, ownerID uuid.UUID) []models.ChangeLogEntry {
	t.Helper()
	entries, err := logRepo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	return entries
}

func TestCreateProduct_AppendsCreatedEntry(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)

	created, err := svc.CreateProduct(context.Background(), owner, CreateProductInput{
		Name:     "Potion",
		Price:    decimal.NewFromInt(15),
		Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Potion", created.Name)
	assert.Equal(t, 10, created.Quantity)
	assert.Equal(t, testPlaceholder, created.ImageURL)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.ChangeActionCreated, entries[0].Action)
	assert.Equal(t, 0, entries[0].PreviousQuantity)
	assert.Equal(t, 10, entries[0].NewQuantity)
	assert.Equal(t, "Potion", entries[0].ItemName)
}

func TestCreateProduct_RejectsInvalidInput(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, _ := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Name: "  ", Price: decimal.NewFromInt(1), Quantity: 1}},
		{"zero price", CreateProductInput{Name: "Potion", Price: decimal.Zero, Quantity: 1}},
		{"negative quantity", CreateProductInput{Name: "Potion", Price: decimal.NewFromInt(1), Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), owner, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestProductLifecycle_QuantityAndDeletion(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Potion",
		Price:    decimal.NewFromInt(15),
		Quantity: 10,
	})
	require.NoError(t, err)

	// sell down to 3
	qty := 3
	updated, err := svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	// restock to 20
	qty = 20
	updated, err = svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)

	require.NoError(t, svc.DeleteProduct(ctx, owner, created.ID))

	products, err := svc.ListProducts(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, products)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 4)

	byAction := map[enums.ChangeAction]models.ChangeLogEntry{}
	for _, e := range entries {
		byAction[e.Action] = e
	}

	sold := byAction[enums.ChangeActionSold]
	assert.Equal(t, 10, sold.PreviousQuantity)
	assert.Equal(t, 3, sold.NewQuantity)

	restocked := byAction[enums.ChangeActionRestocked]
	assert.Equal(t, 3, restocked.PreviousQuantity)
	assert.Equal(t, 20, restocked.NewQuantity)

	deleted := byAction[enums.ChangeActionDeleted]
	assert.Equal(t, 20, deleted.PreviousQuantity)
	assert.Equal(t, 0, deleted.NewQuantity)
}

func TestUpdateProduct_QuantityToZeroIsSold(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Candle",
		Price:    decimal.NewFromInt(30),
		Quantity: 4,
	})
	require.NoError(t, err)

	qty := 0
	_, err = svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{Quantity: &qty})
	require.NoError(t, err)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, enums.ChangeActionDeleted, e.Action)
	}
}

func TestUpdateProduct_RenameCarriesQuantityPair(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Boots",
		Price:    decimal.NewFromInt(80),
		Quantity: 7,
	})
	require.NoError(t, err)

	name := "Boots of Sneaking"
	updated, err := svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 7, updated.Quantity)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 2)

	var renamed *models.ChangeLogEntry
	for i := range entries {
		if entries[i].Action == enums.ChangeActionRenamed {
			renamed = &entries[i]
		}
	}
	require.NotNil(t, renamed)
	require.NotNil(t, renamed.OldValue)
	require.NotNil(t, renamed.NewValue)
	assert.Equal(t, "Boots", *renamed.OldValue)
	assert.Equal(t, name, *renamed.NewValue)
	// the snapshot keeps the name the product had before the rename
	assert.Equal(t, "Boots", renamed.ItemName)
	assert.Equal(t, 7, renamed.PreviousQuantity)
	assert.Equal(t, 7, renamed.NewQuantity)
}

func TestUpdateProduct_RepriceStringifiesValues(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Crystal",
		Price:    decimal.NewFromInt(55),
		Quantity: 15,
	})
	require.NoError(t, err)

	price := decimal.NewFromInt(60)
	_, err = svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 2)

	var repriced *models.ChangeLogEntry
	for i := range entries {
		if entries[i].Action == enums.ChangeActionNewPrice {
			repriced = &entries[i]
		}
	}
	require.NotNil(t, repriced)
	require.NotNil(t, repriced.OldValue)
	require.NotNil(t, repriced.NewValue)
	assert.Equal(t, "55", *repriced.OldValue)
	assert.Equal(t, "60", *repriced.NewValue)
	assert.Equal(t, 15, repriced.PreviousQuantity)
	assert.Equal(t, 15, repriced.NewQuantity)
}

func TestUpdateProduct_MultiFieldPatchAppendsPerFieldEntries(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Boom-Buddy",
		Price:    decimal.NewFromInt(10),
		Quantity: 50,
	})
	require.NoError(t, err)

	name := "Boom-Buddy Deluxe"
	price := decimal.NewFromInt(12)
	qty := 45
	_, err = svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{
		Name:     &name,
		Price:    &price,
		Quantity: &qty,
	})
	require.NoError(t, err)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 4)

	actions := map[enums.ChangeAction]models.ChangeLogEntry{}
	for _, e := range entries {
		actions[e.Action] = e
	}
	require.Contains(t, actions, enums.ChangeActionRenamed)
	require.Contains(t, actions, enums.ChangeActionNewPrice)
	require.Contains(t, actions, enums.ChangeActionSold)

	// name and price entries snapshot the pre-update quantity
	assert.Equal(t, 50, actions[enums.ChangeActionRenamed].PreviousQuantity)
	assert.Equal(t, 50, actions[enums.ChangeActionNewPrice].PreviousQuantity)
	assert.Equal(t, 50, actions[enums.ChangeActionSold].PreviousQuantity)
	assert.Equal(t, 45, actions[enums.ChangeActionSold].NewQuantity)

	// the rename entry keeps the old name; entries queued after the
	// rename in the same patch carry the new one
	assert.Equal(t, "Boom-Buddy", actions[enums.ChangeActionRenamed].ItemName)
	assert.Equal(t, name, actions[enums.ChangeActionNewPrice].ItemName)
	assert.Equal(t, name, actions[enums.ChangeActionSold].ItemName)
}

func TestOwnershipIsolation(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, _ := newTestService(t, conn, false)
	ownerA := mustCreateOwner(t, conn)
	ownerB := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ownerA, CreateProductInput{
		Name:     "Mana Potion",
		Price:    decimal.NewFromInt(15),
		Quantity: 200,
	})
	require.NoError(t, err)

	// unknown id reads as not found
	qty := 1
	_, err = svc.UpdateProduct(ctx, ownerB, uuid.New(), UpdateProductInput{Quantity: &qty})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// a known but foreign id is an authorization failure, not a 404
	_, err = svc.UpdateProduct(ctx, ownerB, created.ID, UpdateProductInput{Quantity: &qty})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	err = svc.DeleteProduct(ctx, ownerB, created.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	// B's listing never leaks A's products
	products, err := svc.ListProducts(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestUpdateProduct_NoChangesAppendsNothing(t *testing.T) {
	conn := setupTestDB(t)
	svc, _, logRepo := newTestService(t, conn, false)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Candle",
		Price:    decimal.NewFromInt(30),
		Quantity: 4,
	})
	require.NoError(t, err)

	sameName := "Candle"
	samePrice := decimal.NewFromInt(30)
	sameQty := 4
	_, err = svc.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{
		Name:     &sameName,
		Price:    &samePrice,
		Quantity: &sameQty,
	})
	require.NoError(t, err)

	entries := entriesFor(t, logRepo, owner)
	assert.Len(t, entries, 1) // only the created entry
}

func TestUpdateProduct_ImageChangeAuditedWhenEnabled(t *testing.T) {
	conn := setupTestDB(t)
	owner := mustCreateOwner(t, conn)
	ctx := context.Background()

	svcAudit, _, logRepo := newTestService(t, conn, true)

	created, err := svcAudit.CreateProduct(ctx, owner, CreateProductInput{
		Name:     "Candle",
		Price:    decimal.NewFromInt(30),
		Quantity: 4,
	})
	require.NoError(t, err)

	_, err = svcAudit.UpdateProduct(ctx, owner, created.ID, UpdateProductInput{
		Image: &images.Upload{TempPath: "unused-by-stub"},
	})
	require.NoError(t, err)

	entries := entriesFor(t, logRepo, owner)
	require.Len(t, entries, 2)

	var imageEntry *models.ChangeLogEntry
	for i := range entries {
		if entries[i].Action == enums.ChangeActionImageChanged {
			imageEntry = &entries[i]
		}
	}
	require.NotNil(t, imageEntry)
	require.NotNil(t, imageEntry.OldValue)
	assert.Equal(t, testPlaceholder, *imageEntry.OldValue)
}
