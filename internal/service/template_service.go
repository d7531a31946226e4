package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

// Placeholders lists the tokens the settings page offers.
var Placeholders = []string{
	PlaceholderShopName,
	PlaceholderShopPhone,
	PlaceholderShopAddress,
	PlaceholderCustomerName,
	PlaceholderCustomerPhone,
}

// TemplateView is the settings page payload.
type TemplateView struct {
	TemplateText string   `json:"templateText"`
	IsDefault    bool     `json:"isDefault"`
	Placeholders []string `json:"placeholders"`
}

// PromoRequest selects the customers to message. Empty Phones means all.
type PromoRequest struct {
	StoreID string   `json:"store_id" binding:"required"`
	Phones  []string `json:"phones"`
}

// PromoResult counts the outcome of a promo run.
type PromoResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// CustomerSender sends a text to a customer chat.
type CustomerSender interface {
	SendToCustomer(ctx context.Context, chatID, text string) error
}

// TemplateService manages the store's customer message template.
type TemplateService struct {
	templates   TemplateStore
	stores      StoreStore
	customers   CustomerStore
	sender      CustomerSender
	countryCode string
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(templates TemplateStore, stores StoreStore, customers CustomerStore, sender CustomerSender, countryCode string) *TemplateService {
	return &TemplateService{templates: templates, stores: stores, customers: customers, sender: sender, countryCode: countryCode}
}

// Get returns the saved template or the default one.
func (s *TemplateService) Get(ctx context.Context, sess models.Session, storeID string) (*TemplateView, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	text, isDefault, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &TemplateView{TemplateText: text, IsDefault: isDefault, Placeholders: Placeholders}, nil
}

// Save stores the template text.
func (s *TemplateService) Save(ctx context.Context, sess models.Session, storeID, text string) (*TemplateView, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, utils.ErrInvalidInput
	}
	t, err := s.templates.Upsert(ctx, storeID, text)
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return &TemplateView{TemplateText: t.TemplateText, Placeholders: Placeholders}, nil
}

// Preview renders text, or the current template when text is empty, with
// the store's details and a sample customer.
func (s *TemplateService) Preview(ctx context.Context, sess models.Session, storeID, text string) (string, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return "", err
	}
	if text == "" {
		var err error
		if text, _, err = s.load(ctx, storeID); err != nil {
			return "", err
		}
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return "", err
	}
	return Render(text, PreviewValues(store)), nil
}

// SendPromo renders the template for each selected customer and sends it to
// those with a bot chat. Send failures are counted, not returned.
func (s *TemplateService) SendPromo(ctx context.Context, sess models.Session, req PromoRequest) (*PromoResult, error) {
	if err := authorizeStore(sess, req.StoreID); err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	text, _, err := s.load(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.ListByStore(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	var selected map[string]bool
	if len(req.Phones) > 0 {
		selected = make(map[string]bool, len(req.Phones))
		for _, p := range req.Phones {
			if n, err := NormalizePhone(s.countryCode, p); err == nil {
				p = n
			}
			selected[p] = true
		}
	}

	res := &PromoResult{}
	for _, c := range customers {
		if selected != nil && !selected[c.Phone] {
			continue
		}
		if c.TelegramChatID == nil || *c.TelegramChatID == "" {
			res.Skipped++
			continue
		}
		v := StoreValues(store)
		v.CustomerName = c.Name
		v.CustomerPhone = c.Phone
		if err := s.sender.SendToCustomer(ctx, *c.TelegramChatID, Render(text, v)); err != nil {
			res.Failed++
			continue
		}
		res.Sent++
	}

	log.Info().
		Str("store_id", req.StoreID).
		Int("sent", res.Sent).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("promo sent")
	return res, nil
}

func (s *TemplateService) load(ctx context.Context, storeID string) (string, bool, error) {
	t, err := s.templates.GetByStore(ctx, storeID)
	if errors.Is(err, utils.ErrNotFound) {
		return DefaultTemplate, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get template: %w", err)
	}
	return t.TemplateText, false, nil
}
