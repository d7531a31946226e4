package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/database"
	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

const orderSelect = `SELECT o.id, o.store_id, o.customer_id, c.name AS customer_name, c.phone AS customer_phone,
	o.total_amount, o.status, o.payment_status, o.notes, o.created_at, o.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

// OrderFilter narrows ListByStore. Empty Status means all statuses.
type OrderFilter struct {
	Status models.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository provides data access methods for orders and order_items tables.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListByStore returns the store's orders, newest first.
func (r *OrderRepository) ListByStore(ctx context.Context, storeID string, f OrderFilter) ([]models.Order, error) {
	query := orderSelect + ` WHERE o.store_id = $1`
	args := []any{storeID}
	if f.Status != "" {
		query += ` AND o.status = $2`
		args = append(args, f.Status)
	}
	query += ` ORDER BY o.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += ` LIMIT ` + placeholder(len(args)-1) + ` OFFSET ` + placeholder(len(args))
	}

	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// CountByStatus returns the number of orders per status for the store.
func (r *OrderRepository) CountByStatus(ctx context.Context, storeID string) (map[models.OrderStatus]int, error) {
	var rows []struct {
		Status models.OrderStatus `db:"status"`
		Count  int                `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM orders WHERE store_id = $1 GROUP BY status`, storeID)
	if err != nil {
		return nil, err
	}
	out := make(map[models.OrderStatus]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// ListSince returns the store's orders created at or after since, newest first.
func (r *OrderRepository) ListSince(ctx context.Context, storeID string, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders,
		orderSelect+` WHERE o.store_id = $1 AND o.created_at >= $2 ORDER BY o.created_at DESC`, storeID, since)
	return orders, err
}

// ListUnpaid returns the store's unpaid orders, oldest first.
func (r *OrderRepository) ListUnpaid(ctx context.Context, storeID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders,
		orderSelect+` WHERE o.store_id = $1 AND o.payment_status = $2 ORDER BY o.created_at`,
		storeID, models.PaymentStatusUnpaid)
	return orders, err
}

// GetByID returns an order with its customer fields.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.db.GetContext(ctx, &o, orderSelect+` WHERE o.id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ListItems returns the lines of an order.
func (r *OrderRepository) ListItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY product_name`, orderID)
	return items, err
}

// UpdateStatus moves an order from one status to another. The write only
// applies while the order still has status from, so concurrent updates
// cannot both succeed; a lost race yields utils.ErrNotFound.
func (r *OrderRepository) UpdateStatus(ctx context.Context, storeID, id string, from, to models.OrderStatus) error {
	const q = `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND store_id = $3 AND status = $4`
	return expectOne(r.db.ExecContext(ctx, q, to, id, storeID, from))
}

// UpdatePaymentStatus sets the payment status of a store's order.
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, storeID, id string, p models.PaymentStatus) error {
	const q = `UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2 AND store_id = $3`
	return expectOne(r.db.ExecContext(ctx, q, p, id, storeID))
}

// CreateWithItems finds or creates the customer by phone, then writes the
// order, its items and the inventory decrement, all in one transaction. If
// any product lacks stock nothing is written, the customer included, and
// utils.ErrInsufficientStock is returned. On success o carries the stored
// customer's id, name and phone.
func (r *OrderRepository) CreateWithItems(ctx context.Context, c *models.Customer, o *models.Order, items []models.OrderItem) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		customer, err := upsertCustomer(ctx, tx, c)
		if err != nil {
			return err
		}
		o.CustomerID = customer.ID
		o.CustomerName = customer.Name
		o.CustomerPhone = customer.Phone

		const insertOrder = `INSERT INTO orders (id, store_id, customer_id, total_amount, status, payment_status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
		if err := tx.QueryRowxContext(ctx, insertOrder,
			o.ID, o.StoreID, o.CustomerID, o.TotalAmount, o.Status, o.PaymentStatus, o.Notes,
		).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		const decrement = `UPDATE inventory SET quantity = quantity - $1, updated_at = NOW()
			WHERE store_id = $2 AND product_id = $3 AND quantity >= $1`
		for i := range items {
			it := &items[i]
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			it.OrderID = o.ID
			if _, err := tx.ExecContext(ctx, insertItem,
				it.ID, it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal,
			); err != nil {
				return err
			}
			err := expectOne(tx.ExecContext(ctx, decrement, it.Quantity, o.StoreID, it.ProductID))
			if errors.Is(err, utils.ErrNotFound) {
				return utils.ErrInsufficientStock
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
