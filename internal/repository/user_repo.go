package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/database"
	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

const userColumns = `id, email, password_hash, name, store_id, role, telegram_username,
	is_active, created_at, updated_at`

// UserRepository provides data access methods for users table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail finds a user by login email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByID finds a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// RegisterOwner creates the store and its owner user in one transaction.
// A duplicate email yields utils.ErrEmailTaken and nothing is written.
func (r *UserRepository) RegisterOwner(ctx context.Context, store *models.Store, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if store.ID == "" {
		store.ID = uuid.NewString()
	}
	store.OwnerID = user.ID
	user.StoreID = store.ID

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertStore(ctx, tx, store); err != nil {
			return err
		}
		return insertUser(ctx, tx, user)
	})
	if isUniqueViolation(err) {
		return utils.ErrEmailTaken
	}
	return err
}

func insertUser(ctx context.Context, tx *sqlx.Tx, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleOwner
	}
	const q = `INSERT INTO users (id, email, password_hash, name, store_id, role, telegram_username, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	return tx.QueryRowxContext(ctx, q, u.ID, u.Email, u.PasswordHash, u.Name, u.StoreID, u.Role, u.TelegramUsername, u.IsActive).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}
