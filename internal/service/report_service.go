package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/pkg/telegram"
)

// OwnerSender sends a message to a store owner.
type OwnerSender interface {
	SendToOwner(ctx context.Context, req telegram.SendMessageRequest) error
}

// ReportService builds the scheduled owner messages.
type ReportService struct {
	orders      OrderStore
	inventory   InventoryStore
	summaries   SummaryStore
	sender      OwnerSender
	currency    string
	overdueDays int
	loc         *time.Location
	now         func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(orders OrderStore, inventory InventoryStore, summaries SummaryStore, sender OwnerSender, currency string, overdueDays int, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		orders:      orders,
		inventory:   inventory,
		summaries:   summaries,
		sender:      sender,
		currency:    currency,
		overdueDays: overdueDays,
		loc:         loc,
		now:         time.Now,
	}
}

// DailyReport persists today's summary for store and sends it to the owner.
func (s *ReportService) DailyReport(ctx context.Context, store *models.Store) (*models.DailySummary, error) {
	now := s.now().In(s.loc)

	var (
		today []models.Order
		items []models.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		today, err = s.orders.ListSince(gctx, store.ID, StartOfDay(now, s.loc))
		return err
	})
	g.Go(func() (err error) {
		items, err = s.inventory.ListByStore(gctx, store.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load report data: %w", err)
	}

	low := LowStockItems(items)
	summary := &models.DailySummary{
		StoreID:       store.ID,
		OrderCount:    len(today),
		Revenue:       Revenue(today),
		LowStockItems: make([]string, 0, len(low)),
	}
	for _, it := range low {
		summary.LowStockItems = append(summary.LowStockItems, it.ProductName)
	}
	if err := s.summaries.Create(ctx, summary); err != nil {
		return nil, fmt.Errorf("save daily summary: %w", err)
	}

	if err := s.sendOwner(ctx, store, s.dailyReportText(now, summary), nil); err != nil {
		return summary, err
	}
	return summary, nil
}

// LowStockAlert sends one message per low-stock item with a button that
// opens a prefilled WhatsApp order to the supplier. It returns the number
// of alerts sent.
func (s *ReportService) LowStockAlert(ctx context.Context, store *models.Store) (int, error) {
	items, err := s.inventory.ListByStore(ctx, store.ID)
	if err != nil {
		return 0, fmt.Errorf("list inventory: %w", err)
	}

	sent := 0
	for _, it := range LowStockItems(items) {
		var markup *telegram.InlineKeyboardMarkup
		if it.SupplierWhatsApp != "" {
			order := fmt.Sprintf("Hello %s, please send %s %s of %s for %s.",
				fallback(it.SupplierName, "there"), formatQuantity(it.ReorderQuantity), it.Unit, it.ProductName, store.Name)
			markup = telegram.URLButton("📲 Order from supplier", telegram.WhatsAppLink(it.SupplierWhatsApp, order))
		}
		if err := s.sendOwner(ctx, store, s.lowStockText(it), markup); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// CreditReminder sends the owner the outstanding credit and overdue customers.
// Nothing is sent when no credit is outstanding.
func (s *ReportService) CreditReminder(ctx context.Context, store *models.Store) (bool, error) {
	unpaid, err := s.orders.ListUnpaid(ctx, store.ID)
	if err != nil {
		return false, fmt.Errorf("list unpaid orders: %w", err)
	}
	summary := AggregateCredit(unpaid, s.now(), s.overdueDays)
	if summary.TotalOutstanding == 0 {
		return false, nil
	}
	if err := s.sendOwner(ctx, store, s.creditText(summary), nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReportService) sendOwner(ctx context.Context, store *models.Store, text string, markup *telegram.InlineKeyboardMarkup) error {
	if store.TelegramChatID == nil || *store.TelegramChatID == "" {
		log.Debug().Str("store_id", store.ID).Msg("owner has no telegram chat, skipping")
		return ErrNoChat
	}
	return s.sender.SendToOwner(ctx, telegram.SendMessageRequest{
		ChatID:      *store.TelegramChatID,
		Text:        text,
		ReplyMarkup: markup,
	})
}

func (s *ReportService) dailyReportText(now time.Time, sum *models.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Daily Report - %s*\n\n", now.Format("02 January 2006"))
	if sum.OrderCount == 0 {
		b.WriteString("No orders today.\n")
	} else {
		b.WriteString("📈 *Quick Stats:*\n")
		fmt.Fprintf(&b, "• Orders: %d\n", sum.OrderCount)
		fmt.Fprintf(&b, "• Revenue: %s\n", formatMoney(s.currency, sum.Revenue))
	}
	if len(sum.LowStockItems) > 0 {
		fmt.Fprintf(&b, "\n⚠️ *Low stock (%d):*\n", len(sum.LowStockItems))
		for _, name := range sum.LowStockItems {
			fmt.Fprintf(&b, "• %s\n", name)
		}
	}
	return b.String()
}

func (s *ReportService) lowStockText(it models.InventoryItem) string {
	return fmt.Sprintf("⚠️ *Low Stock Alert*\n\n📦 %s\nCurrent: %s %s\nThreshold: %s %s\nSuggested reorder: %s %s",
		it.ProductName,
		formatQuantity(it.Quantity), it.Unit,
		formatQuantity(it.ReorderThreshold), it.Unit,
		formatQuantity(it.ReorderQuantity), it.Unit,
	)
}

func (s *ReportService) creditText(sum CreditSummary) string {
	var b strings.Builder
	b.WriteString("💳 *Credit Reminder*\n\n")
	fmt.Fprintf(&b, "Outstanding: %s from %d customers\n", formatMoney(s.currency, sum.TotalOutstanding), sum.CustomerCount)

	var overdue []CreditGroup
	for _, g := range sum.Groups {
		for _, o := range g.Orders {
			if o.Overdue {
				overdue = append(overdue, g)
				break
			}
		}
	}
	if len(overdue) > 0 {
		fmt.Fprintf(&b, "\n⏰ *Overdue (more than %d days):*\n", s.overdueDays)
		for _, g := range overdue {
			fmt.Fprintf(&b, "• %s (%s): %s, oldest %s\n",
				fallback(g.CustomerName, "Unknown"), g.CustomerPhone, formatMoney(s.currency, g.Total),
				humanize.RelTime(oldestOrder(g), s.now(), "ago", "from now"))
		}
	}
	return b.String()
}

func oldestOrder(g CreditGroup) time.Time {
	var oldest time.Time
	for _, o := range g.Orders {
		if oldest.IsZero() || o.CreatedAt.Before(oldest) {
			oldest = o.CreatedAt
		}
	}
	return oldest
}
