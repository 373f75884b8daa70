package view

import (
	"sort"
	"strings"

	"github.com/stockroomhq/stockroom-backend/internal/client/settings"
	product "github.com/stockroomhq/stockroom-backend/internal/products"
)

// Sort keys understood by Derive. Anything else leaves the input order
// untouched.
const (
	SortQtyLowHigh   = "qtyLowHigh"
	SortQtyHighLow   = "qtyHighLow"
	SortNameAZ       = "nameAZ"
	SortNameZA       = "nameZA"
	SortPriceLowHigh = "priceLowHigh"
	SortPriceHighLow = "priceHighLow"
)

// Derive produces the display list for the inventory screen: optionally
// filtered to low-stock items, then sorted by the configured key. The input
// slice is never mutated and the result is deterministic for a given input.
func Derive(products []product.ProductDTO, cfg settings.Settings) []product.ProductDTO {
	out := make([]product.ProductDTO, 0, len(products))
	for _, p := range products {
		if cfg.ShowLowStockOnly && !IsLowStock(p, cfg.LowStockThreshold) {
			continue
		}
		out = append(out, p)
	}

	if less := comparatorFor(cfg.SortOrder); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// IsLowStock reports whether the product sits strictly below the threshold.
// A product exactly at the threshold is not low stock.
func IsLowStock(p product.ProductDTO, threshold int) bool {
	return p.Quantity < threshold
}

// LowStock returns the alert-panel list: every product below the threshold,
// scarcest first regardless of the configured sort order.
func LowStock(products []product.ProductDTO, threshold int) []product.ProductDTO {
	out := make([]product.ProductDTO, 0)
	for _, p := range products {
		if IsLowStock(p, threshold) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out
}

func comparatorFor(key string) func(a, b product.ProductDTO) bool {
	switch key {
	case SortQtyLowHigh:
		return func(a, b product.ProductDTO) bool { return a.Quantity < b.Quantity }
	case SortQtyHighLow:
		return func(a, b product.ProductDTO) bool { return a.Quantity > b.Quantity }
	case SortNameAZ:
		return func(a, b product.ProductDTO) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortNameZA:
		return func(a, b product.ProductDTO) bool {
			return strings.ToLower(a.Name) > strings.ToLower(b.Name)
		}
	case SortPriceLowHigh:
		return func(a, b product.ProductDTO) bool { return a.Price < b.Price }
	case SortPriceHighLow:
		return func(a, b product.ProductDTO) bool { return a.Price > b.Price }
	default:
		return nil
	}
}
