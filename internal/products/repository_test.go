package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

func seedProduct(t *testing.T, repo *Repository, ownerID uuid.UUID, name string, quantity int) *models.Product {
	t.Helper()
	row := &models.Product{
		OwnerID:  ownerID,
		Name:     name,
		Price:    decimal.NewFromInt(10),
		Quantity: quantity,
		ImageURL: "/placeholder_crate.png",
	}
	created, err := repo.Create(context.Background(), row)
	require.NoError(t, err)
	return created
}

func TestUpdateGuarded_BumpsVersion(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRepository(conn)
	owner := uuid.New()

	row := seedProduct(t, repo, owner, "Candle", 4)
	require.Equal(t, 0, row.Version)

	row.Quantity = 2
	require.NoError(t, repo.UpdateGuarded(context.Background(), row, 0))
	assert.Equal(t, 1, row.Version)

	stored, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, 2, stored.Quantity)
}

func TestUpdateGuarded_StaleVersionConflicts(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRepository(conn)
	owner := uuid.New()

	row := seedProduct(t, repo, owner, "Candle", 4)

	row.Quantity = 2
	require.NoError(t, repo.UpdateGuarded(context.Background(), row, 0))

	// a writer that read version 0 before the first save lost the race
	row.Quantity = 9
	err := repo.UpdateGuarded(context.Background(), row, 0)
	require.ErrorIs(t, err, ErrVersionConflict)

	stored, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)
}

func TestListByOwner_ScopesToOwner(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRepository(conn)
	ownerA := uuid.New()
	ownerB := uuid.New()

	seedProduct(t, repo, ownerA, "Candle", 4)
	seedProduct(t, repo, ownerA, "Boots", 80)
	seedProduct(t, repo, ownerB, "Crystal", 15)

	listA, err := repo.ListByOwner(context.Background(), ownerA)
	require.NoError(t, err)
	require.Len(t, listA, 2)
	for _, p := range listA {
		assert.Equal(t, ownerA, p.OwnerID)
	}

	listB, err := repo.ListByOwner(context.Background(), ownerB)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "Crystal", listB[0].Name)
}
