package models

import "time"

// Category is a flat product grouping within a store.
type Category struct {
	ID        string    `db:"id" json:"id"`
	StoreID   string    `db:"store_id" json:"storeId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
