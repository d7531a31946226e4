package models

import "time"

// Store is a single merchant tenant. Every other row is scoped by store id.
type Store struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Description      string    `db:"description" json:"description"`
	Address          string    `db:"address" json:"address"`
	Phone            string    `db:"phone" json:"phone"`
	OwnerID          string    `db:"owner_id" json:"ownerId"`
	TelegramUsername string    `db:"telegram_username" json:"telegramUsername"`
	TelegramChatID   *string   `db:"telegram_chat_id" json:"telegramChatId,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
