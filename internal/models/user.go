package models

import "time"

// RoleOwner is the only role the dashboard issues today.
const RoleOwner = "owner"

// User is a dashboard login. One owner user per store.
type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Name             string    `db:"name" json:"name"`
	StoreID          string    `db:"store_id" json:"storeId"`
	Role             string    `db:"role" json:"role"`
	TelegramUsername string    `db:"telegram_username" json:"telegramUsername"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
