package changelog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

func TestFlatten_QuantityPairSemantics(t *testing.T) {
	owner := uuid.New()
	productID := uuid.New()

	t.Run("created starts from zero", func(t *testing.T) {
		row := Created{NewQuantity: 10}.Flatten(owner, &productID, "Potion")
		assert.Equal(t, enums.ChangeActionCreated, row.Action)
		assert.Equal(t, 0, row.PreviousQuantity)
		assert.Equal(t, 10, row.NewQuantity)
		assert.Nil(t, row.OldValue)
	})

	t.Run("deleted ends at zero", func(t *testing.T) {
		row := Deleted{From: 20}.Flatten(owner, &productID, "Potion")
		assert.Equal(t, 20, row.PreviousQuantity)
		assert.Equal(t, 0, row.NewQuantity)
	})

	t.Run("rename keeps quantity in both columns", func(t *testing.T) {
		row := Renamed{From: "Potion", To: "Elixir", Quantity: 7}.Flatten(owner, &productID, "Elixir")
		assert.Equal(t, 7, row.PreviousQuantity)
		assert.Equal(t, 7, row.NewQuantity)
		require.NotNil(t, row.OldValue)
		require.NotNil(t, row.NewValue)
		assert.Equal(t, "Potion", *row.OldValue)
		assert.Equal(t, "Elixir", *row.NewValue)
	})

	t.Run("reprice stringifies decimals", func(t *testing.T) {
		row := Repriced{
			From:     decimal.RequireFromString("15.5"),
			To:       decimal.NewFromInt(20),
			Quantity: 3,
		}.Flatten(owner, &productID, "Potion")
		assert.Equal(t, enums.ChangeActionNewPrice, row.Action)
		require.NotNil(t, row.OldValue)
		require.NotNil(t, row.NewValue)
		assert.Equal(t, "15.5", *row.OldValue)
		assert.Equal(t, "20", *row.NewValue)
		assert.Equal(t, 3, row.PreviousQuantity)
		assert.Equal(t, 3, row.NewQuantity)
	})

	t.Run("item name survives as a snapshot", func(t *testing.T) {
		row := Sold{From: 5, To: 2}.Flatten(owner, nil, "Potion")
		assert.Equal(t, "Potion", row.ItemName)
		assert.Nil(t, row.ProductID)
		assert.Equal(t, owner, row.OwnerID)
	})
}
