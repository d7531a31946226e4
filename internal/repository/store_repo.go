package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/models"
)

const storeColumns = `id, name, description, address, phone, owner_id, telegram_username,
	telegram_chat_id, created_at, updated_at`

// StoreRepository provides data access methods for stores table.
type StoreRepository struct {
	db *sqlx.DB
}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(db *sqlx.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// GetByID returns a store or utils.ErrNotFound.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var s models.Store
	err := r.db.GetContext(ctx, &s, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// ListWithOwnerChat returns stores whose owner has started the bot.
func (r *StoreRepository) ListWithOwnerChat(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.SelectContext(ctx, &stores,
		`SELECT `+storeColumns+` FROM stores WHERE telegram_chat_id IS NOT NULL AND telegram_chat_id <> '' ORDER BY created_at`)
	return stores, err
}

func insertStore(ctx context.Context, tx *sqlx.Tx, s *models.Store) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	const q = `INSERT INTO stores (id, name, description, address, phone, owner_id, telegram_username)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	return tx.QueryRowxContext(ctx, q, s.ID, s.Name, s.Description, s.Address, s.Phone, s.OwnerID, s.TelegramUsername).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}
