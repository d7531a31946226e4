package service

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// IsLowStock reports whether quantity is at or below threshold. Every
// low-stock count in the service goes through this function.
func IsLowStock(quantity, threshold float64) bool {
	return quantity <= threshold
}

// LowStockItems filters items down to the low-stock ones, keeping order.
func LowStockItems(items []models.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, 0)
	for _, it := range items {
		if IsLowStock(it.Quantity, it.ReorderThreshold) {
			out = append(out, it)
		}
	}
	return out
}

// ParseQuantity accepts a finite number or a numeric string and rejects
// everything else with utils.ErrInvalidQuantity.
func ParseQuantity(v any) (float64, error) {
	switch q := v.(type) {
	case nil, bool:
		return 0, utils.ErrInvalidQuantity
	case string:
		q = strings.TrimSpace(q)
		if q == "" {
			return 0, utils.ErrInvalidQuantity
		}
		v = q
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, utils.ErrInvalidQuantity
	}
	return f, nil
}
