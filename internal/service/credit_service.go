package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GTDGit/warung_api/internal/models"
)

// CreditService builds the credit page.
type CreditService struct {
	orders      OrderStore
	overdueDays int
	now         func() time.Time
}

// NewCreditService constructs a CreditService.
func NewCreditService(orders OrderStore, overdueDays int) *CreditService {
	return &CreditService{orders: orders, overdueDays: overdueDays, now: time.Now}
}

// Summary aggregates the store's unpaid orders by customer.
func (s *CreditService) Summary(ctx context.Context, sess models.Session, storeID string) (*CreditSummary, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	unpaid, err := s.orders.ListUnpaid(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list unpaid orders: %w", err)
	}
	summary := AggregateCredit(unpaid, s.now(), s.overdueDays)
	return &summary, nil
}
