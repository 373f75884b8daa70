package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-backend/internal/client/settings"
	product "github.com/stockroomhq/stockroom-backend/internal/products"
)

func fixtureProducts() []product.ProductDTO {
	return []product.ProductDTO{
		{Name: "Everburn Candle", Price: 30, Quantity: 4},
		{Name: "Boots of Sneaking", Price: 80, Quantity: 80},
		{Name: "Crystal of Teleportation", Price: 55, Quantity: 15},
		{Name: "Healing Potion", Price: 15, Quantity: 140},
	}
}

func names(products []product.ProductDTO) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestDerive_SortOrders(t *testing.T) {
	cases := []struct {
		order string
		want  []string
	}{
		{SortQtyLowHigh, []string{"Everburn Candle", "Crystal of Teleportation", "Boots of Sneaking", "Healing Potion"}},
		{SortQtyHighLow, []string{"Healing Potion", "Boots of Sneaking", "Crystal of Teleportation", "Everburn Candle"}},
		{SortNameAZ, []string{"Boots of Sneaking", "Crystal of Teleportation", "Everburn Candle", "Healing Potion"}},
		{SortPriceLowHigh, []string{"Healing Potion", "Everburn Candle", "Crystal of Teleportation", "Boots of Sneaking"}},
		{SortPriceHighLow, []string{"Boots of Sneaking", "Crystal of Teleportation", "Everburn Candle", "Healing Potion"}},
	}
	for _, tc := range cases {
		t.Run(tc.order, func(t *testing.T) {
			cfg := settings.Defaults()
			cfg.SortOrder = tc.order
			got := Derive(fixtureProducts(), cfg)
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestDerive_NameZAIsReverseOfAZ(t *testing.T) {
	cfg := settings.Defaults()

	cfg.SortOrder = SortNameAZ
	asc := names(Derive(fixtureProducts(), cfg))

	cfg.SortOrder = SortNameZA
	desc := names(Derive(fixtureProducts(), cfg))

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestDerive_UnknownSortKeepsInputOrder(t *testing.T) {
	cfg := settings.Defaults()
	cfg.SortOrder = "mystery"
	got := Derive(fixtureProducts(), cfg)
	assert.Equal(t, names(fixtureProducts()), names(got))
}

func TestDerive_LowStockFilterIsStrict(t *testing.T) {
	cfg := settings.Defaults()
	cfg.ShowLowStockOnly = true
	cfg.LowStockThreshold = 15

	got := Derive(fixtureProducts(), cfg)

	// quantity 15 sits exactly at the threshold and stays out
	assert.Equal(t, []string{"Everburn Candle"}, names(got))
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	input := fixtureProducts()
	cfg := settings.Defaults()
	cfg.SortOrder = SortNameZA

	_ = Derive(input, cfg)

	assert.Equal(t, names(fixtureProducts()), names(input))
}

func TestLowStock_ScarcestFirst(t *testing.T) {
	products := []product.ProductDTO{
		{Name: "Crystal", Quantity: 15},
		{Name: "Candle", Quantity: 4},
		{Name: "Boots", Quantity: 2},
	}
	got := LowStock(products, 20)
	assert.Equal(t, []string{"Boots", "Candle", "Crystal"}, names(got))

	assert.Empty(t, LowStock(products, 1))
}

func TestIsLowStock(t *testing.T) {
	p := product.ProductDTO{Quantity: 5}
	assert.False(t, IsLowStock(p, 5))
	assert.True(t, IsLowStock(p, 6))
}
