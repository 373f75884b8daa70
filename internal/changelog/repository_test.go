package changelog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS change_log_entries (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  product_id TEXT,
  item_name TEXT NOT NULL,
  previous_quantity INTEGER NOT NULL,
  new_quantity INTEGER NOT NULL,
  action TEXT NOT NULL,
  old_value TEXT,
  new_value TEXT,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)

	return conn
}

func appendEntry(t *testing.T, repo *Repository, ownerID uuid.UUID, itemName string, createdAt time.Time) {
	t.Helper()
	productID := uuid.New()
	entry := models.ChangeLogEntry{
		OwnerID:          ownerID,
		ProductID:        &productID,
		ItemName:         itemName,
		PreviousQuantity: 0,
		NewQuantity:      1,
		Action:           enums.ChangeActionCreated,
		CreatedAt:        createdAt,
	}
	require.NoError(t, repo.Append(context.Background(), &entry))
}

func TestListByOwner_MostRecentFirst(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRepository(conn)
	owner := uuid.New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(t, repo, owner, "first", base)
	appendEntry(t, repo, owner, "second", base.Add(time.Minute))
	appendEntry(t, repo, owner, "third", base.Add(2*time.Minute))

	entries, err := repo.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].ItemName)
	assert.Equal(t, "second", entries[1].ItemName)
	assert.Equal(t, "first", entries[2].ItemName)
}

func TestDeleteByOwner_CountsAndScopes(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRepository(conn)
	ownerA := uuid.New()
	ownerB := uuid.New()

	now := time.Now().UTC()
	appendEntry(t, repo, ownerA, "candle", now)
	appendEntry(t, repo, ownerA, "boots", now)
	appendEntry(t, repo, ownerB, "crystal", now)

	deleted, err := repo.DeleteByOwner(context.Background(), ownerA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.ListByOwner(context.Background(), ownerB)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "crystal", remaining[0].ItemName)

	// clearing an already-empty history reports zero
	deleted, err = repo.DeleteByOwner(context.Background(), ownerA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
