package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// CategoryRepository provides data access methods for categories table.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByStore returns the store's categories ordered by name.
func (r *CategoryRepository) ListByStore(ctx context.Context, storeID string) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.SelectContext(ctx, &cats,
		`SELECT id, store_id, name, created_at FROM categories WHERE store_id = $1 ORDER BY name`, storeID)
	return cats, err
}

// GetByID returns a category scoped to storeID.
func (r *CategoryRepository) GetByID(ctx context.Context, storeID, id string) (*models.Category, error) {
	var c models.Category
	err := r.db.GetContext(ctx, &c,
		`SELECT id, store_id, name, created_at FROM categories WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Create inserts a category. Names are unique per store.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO categories (id, store_id, name) VALUES ($1, $2, $3) RETURNING created_at`,
		c.ID, c.StoreID, c.Name).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicate
	}
	return err
}
