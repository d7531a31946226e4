package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/database"
	"github.com/GTDGit/warung_api/internal/models"
)

// ProductRepository provides data access methods for products table.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateWithInventory inserts the product and its inventory row together.
// item.ProductID and item.StoreID are taken from p.
func (r *ProductRepository) CreateWithInventory(ctx context.Context, p *models.Product, item *models.InventoryItem) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.ProductID = p.ID
	item.StoreID = p.StoreID

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insertProduct = `INSERT INTO products (id, store_id, category_id, name, description, unit, cost_price,
			supplier_name, supplier_phone, supplier_whatsapp)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`
		if err := tx.QueryRowxContext(ctx, insertProduct,
			p.ID, p.StoreID, p.CategoryID, p.Name, p.Description, p.Unit, p.CostPrice,
			p.SupplierName, p.SupplierPhone, p.SupplierWhatsApp,
		).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}

		const insertInventory = `INSERT INTO inventory (id, store_id, product_id, quantity, unit_price,
			reorder_threshold, reorder_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING updated_at`
		return tx.QueryRowxContext(ctx, insertInventory,
			item.ID, item.StoreID, item.ProductID, item.Quantity, item.UnitPrice,
			item.ReorderThreshold, item.ReorderQuantity,
		).Scan(&item.UpdatedAt)
	})
}
