package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/warung_api/internal/models"
)

const inventorySelect = `SELECT i.id, i.store_id, i.product_id, p.name AS product_name, p.description, p.unit,
	COALESCE(c.name, '') AS category_name, p.supplier_name, p.supplier_whatsapp,
	i.quantity, i.unit_price, i.reorder_threshold, i.reorder_quantity, i.updated_at
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	LEFT JOIN categories c ON c.id = p.category_id`

// InventoryRepository provides data access methods for inventory table.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListByStore returns every inventory row of the store joined with its
// product and category, ordered by product name.
func (r *InventoryRepository) ListByStore(ctx context.Context, storeID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.SelectContext(ctx, &items, inventorySelect+` WHERE i.store_id = $1 ORDER BY p.name`, storeID)
	return items, err
}

// GetByID returns one inventory row scoped to storeID.
func (r *InventoryRepository) GetByID(ctx context.Context, storeID, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, inventorySelect+` WHERE i.id = $1 AND i.store_id = $2`, id, storeID); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// ListByProductIDs returns the store's inventory rows for the given products.
func (r *InventoryRepository) ListByProductIDs(ctx context.Context, storeID string, productIDs []string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.SelectContext(ctx, &items,
		inventorySelect+` WHERE i.store_id = $1 AND i.product_id = ANY($2)`, storeID, pq.Array(productIDs))
	return items, err
}

// UpdateQuantity sets the absolute quantity of a store's inventory row.
func (r *InventoryRepository) UpdateQuantity(ctx context.Context, storeID, id string, quantity float64) error {
	const q = `UPDATE inventory SET quantity = $1, updated_at = NOW() WHERE id = $2 AND store_id = $3`
	return expectOne(r.db.ExecContext(ctx, q, quantity, id, storeID))
}
