package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// CustomerService lists customers and resolves their bot chats.
type CustomerService struct {
	customers   CustomerStore
	countryCode string
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(customers CustomerStore, countryCode string) *CustomerService {
	return &CustomerService{customers: customers, countryCode: countryCode}
}

// List returns the store's customers ordered by name.
func (s *CustomerService) List(ctx context.Context, sess models.Session, storeID string) ([]models.Customer, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	customers, err := s.customers.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// TelegramChatID returns the bot chat of the session store's customer with
// phone, or nil when the customer is unknown or has not started the bot.
func (s *CustomerService) TelegramChatID(ctx context.Context, sess models.Session, phone string) (*string, error) {
	if normalized, err := NormalizePhone(s.countryCode, phone); err == nil {
		phone = normalized
	}
	c, err := s.customers.GetByPhone(ctx, sess.StoreID, phone)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if c.TelegramChatID == nil || *c.TelegramChatID == "" {
		return nil, nil
	}
	return c.TelegramChatID, nil
}
