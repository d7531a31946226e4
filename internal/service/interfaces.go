package service

import (
	"context"
	"time"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/repository"
	"github.com/GTDGit/warung_api/pkg/telegram"
)

// StoreStore is the store data the services need.
type StoreStore interface {
	GetByID(ctx context.Context, id string) (*models.Store, error)
	ListWithOwnerChat(ctx context.Context) ([]models.Store, error)
}

// UserStore is the user data the services need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	RegisterOwner(ctx context.Context, store *models.Store, user *models.User) error
}

// CategoryStore is the category data the services need.
type CategoryStore interface {
	ListByStore(ctx context.Context, storeID string) ([]models.Category, error)
	GetByID(ctx context.Context, storeID, id string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
}

// ProductStore creates products.
type ProductStore interface {
	CreateWithInventory(ctx context.Context, p *models.Product, item *models.InventoryItem) error
}

// InventoryStore is the inventory data the services need.
type InventoryStore interface {
	ListByStore(ctx context.Context, storeID string) ([]models.InventoryItem, error)
	GetByID(ctx context.Context, storeID, id string) (*models.InventoryItem, error)
	ListByProductIDs(ctx context.Context, storeID string, productIDs []string) ([]models.InventoryItem, error)
	UpdateQuantity(ctx context.Context, storeID, id string, quantity float64) error
}

// OrderStore is the order data the services need.
type OrderStore interface {
	ListByStore(ctx context.Context, storeID string, f repository.OrderFilter) ([]models.Order, error)
	CountByStatus(ctx context.Context, storeID string) (map[models.OrderStatus]int, error)
	ListSince(ctx context.Context, storeID string, since time.Time) ([]models.Order, error)
	ListUnpaid(ctx context.Context, storeID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, storeID, id string, from, to models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, storeID, id string, p models.PaymentStatus) error
	ListItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	CreateWithItems(ctx context.Context, c *models.Customer, o *models.Order, items []models.OrderItem) error
}

// CustomerStore is the customer data the services need.
type CustomerStore interface {
	ListByStore(ctx context.Context, storeID string) ([]models.Customer, error)
	GetByPhone(ctx context.Context, storeID, phone string) (*models.Customer, error)
}

// TemplateStore is the template data the services need.
type TemplateStore interface {
	GetByStore(ctx context.Context, storeID string) (*models.MessageTemplate, error)
	Upsert(ctx context.Context, storeID, text string) (*models.MessageTemplate, error)
}

// SummaryStore persists daily summaries.
type SummaryStore interface {
	Create(ctx context.Context, s *models.DailySummary) error
}

// StatsCache caches dashboard stats per store.
type StatsCache interface {
	Get(ctx context.Context, storeID string, dst any) error
	Set(ctx context.Context, storeID string, stats any) error
	Invalidate(ctx context.Context, storeID string) error
}

// TokenRevoker records and checks logged-out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Messenger sends bot messages.
type Messenger interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
}
