package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/models"
)

const customerColumns = `id, store_id, name, phone, address, telegram_chat_id, created_at`

// CustomerRepository provides data access methods for customers table.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// ListByStore returns the store's customers ordered by name.
func (r *CustomerRepository) ListByStore(ctx context.Context, storeID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.SelectContext(ctx, &customers,
		`SELECT `+customerColumns+` FROM customers WHERE store_id = $1 ORDER BY name`, storeID)
	return customers, err
}

// GetByPhone finds a customer of the store by phone.
func (r *CustomerRepository) GetByPhone(ctx context.Context, storeID, phone string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.GetContext(ctx, &c,
		`SELECT `+customerColumns+` FROM customers WHERE store_id = $1 AND phone = $2`, storeID, phone)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// upsertCustomer returns the store's customer with c.Phone, inserting c when
// none exists. An existing customer keeps its name unless it was empty.
func upsertCustomer(ctx context.Context, tx *sqlx.Tx, c *models.Customer) (*models.Customer, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	const q = `INSERT INTO customers (id, store_id, name, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (store_id, phone) DO UPDATE
		SET name = CASE WHEN customers.name = '' THEN EXCLUDED.name ELSE customers.name END
		RETURNING ` + customerColumns
	var out models.Customer
	if err := tx.GetContext(ctx, &out, q, c.ID, c.StoreID, c.Name, c.Phone, c.Address); err != nil {
		return nil, err
	}
	return &out, nil
}
