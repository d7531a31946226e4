package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
	"github.com/GTDGit/warung_api/pkg/telegram"
)

// ErrNoChat is returned when the recipient has not started the bot.
var ErrNoChat = errors.New("recipient has no telegram chat")

// NotificationService sends bot messages to customers and owners. Every
// failure is logged here; callers decide whether to count it.
type NotificationService struct {
	customerBot Messenger
	ownerBot    Messenger
	customers   CustomerStore
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(customerBot, ownerBot Messenger, customers CustomerStore) *NotificationService {
	return &NotificationService{customerBot: customerBot, ownerBot: ownerBot, customers: customers}
}

// DeliveredMessage is the text sent when an order is completed.
func DeliveredMessage(o *models.Order) string {
	return fmt.Sprintf("✅ *Order Delivered!*\n\nYour order #%s has been successfully delivered.\n\nThank you for shopping with us! 🎉", o.ShortID())
}

// NotifyDelivered tells the order's customer that it was delivered. It never
// fails the caller.
func (s *NotificationService) NotifyDelivered(ctx context.Context, o *models.Order) {
	logger := log.With().Str("order_id", o.ID).Str("store_id", o.StoreID).Logger()

	customer, err := s.customers.GetByPhone(ctx, o.StoreID, o.CustomerPhone)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			logger.Info().Msg("delivery notification skipped: customer not found")
			return
		}
		logger.Error().Err(err).Msg("delivery notification: customer lookup failed")
		return
	}
	if customer.TelegramChatID == nil || *customer.TelegramChatID == "" {
		logger.Info().Msg("delivery notification skipped: customer has no telegram chat")
		return
	}

	if err := s.SendToCustomer(ctx, *customer.TelegramChatID, DeliveredMessage(o)); err != nil {
		return
	}
	logger.Info().Msg("delivery notification sent")
}

// SendToCustomer sends text through the customer bot.
func (s *NotificationService) SendToCustomer(ctx context.Context, chatID, text string) error {
	return s.send(ctx, s.customerBot, "customer", telegram.SendMessageRequest{ChatID: chatID, Text: text})
}

// SendToOwner sends a message through the owner bot.
func (s *NotificationService) SendToOwner(ctx context.Context, req telegram.SendMessageRequest) error {
	return s.send(ctx, s.ownerBot, "owner", req)
}

func (s *NotificationService) send(ctx context.Context, bot Messenger, name string, req telegram.SendMessageRequest) error {
	if req.ChatID == "" {
		return ErrNoChat
	}
	if _, err := bot.SendMessage(ctx, req); err != nil {
		log.Error().Err(err).Str("bot", name).Str("chat_id", req.ChatID).Msg("telegram send failed")
		return err
	}
	return nil
}
