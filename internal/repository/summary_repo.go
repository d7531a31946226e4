package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/warung_api/internal/models"
)

// SummaryRepository persists daily report snapshots.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new SummaryRepository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create inserts a daily summary.
func (r *SummaryRepository) Create(ctx context.Context, s *models.DailySummary) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.LowStockItems == nil {
		s.LowStockItems = []string{}
	}
	const q = `INSERT INTO daily_summaries (id, store_id, order_count, revenue, low_stock_items)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowxContext(ctx, q, s.ID, s.StoreID, s.OrderCount, s.Revenue, s.LowStockItems).Scan(&s.CreatedAt)
}
