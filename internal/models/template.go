package models

import (
	"time"

	"github.com/lib/pq"
)

// MessageTemplate is the store's customer welcome/promo text with
// {{placeholder}} tokens.
type MessageTemplate struct {
	ID           string    `db:"id" json:"id"`
	StoreID      string    `db:"store_id" json:"storeId"`
	TemplateText string    `db:"template_text" json:"templateText"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// DailySummary is the persisted copy of an end-of-day report.
type DailySummary struct {
	ID            string         `db:"id" json:"id"`
	StoreID       string         `db:"store_id" json:"storeId"`
	OrderCount    int            `db:"order_count" json:"orderCount"`
	Revenue       float64        `db:"revenue" json:"revenue"`
	LowStockItems pq.StringArray `db:"low_stock_items" json:"lowStockItems"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}
