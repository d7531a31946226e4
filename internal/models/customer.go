package models

import "time"

// Customer buys from a store. Phone is unique within a store.
type Customer struct {
	ID             string    `db:"id" json:"id"`
	StoreID        string    `db:"store_id" json:"storeId"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"phone"`
	Address        string    `db:"address" json:"address"`
	TelegramChatID *string   `db:"telegram_chat_id" json:"telegramChatId,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
