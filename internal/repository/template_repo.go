package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/models"
)

// TemplateRepository provides data access methods for customer_welcome_templates table.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByStore returns the store's saved template or utils.ErrNotFound.
func (r *TemplateRepository) GetByStore(ctx context.Context, storeID string) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	err := r.db.GetContext(ctx, &t,
		`SELECT id, store_id, template_text, created_at, updated_at
		FROM customer_welcome_templates WHERE store_id = $1`, storeID)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// Upsert saves the store's template, replacing any previous text.
func (r *TemplateRepository) Upsert(ctx context.Context, storeID, text string) (*models.MessageTemplate, error) {
	const q = `INSERT INTO customer_welcome_templates (id, store_id, template_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_id) DO UPDATE SET template_text = EXCLUDED.template_text, updated_at = NOW()
		RETURNING id, store_id, template_text, created_at, updated_at`
	var t models.MessageTemplate
	if err := r.db.GetContext(ctx, &t, q, uuid.NewString(), storeID, text); err != nil {
		return nil, err
	}
	return &t, nil
}
