package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/warung_api/internal/cache"
	"github.com/GTDGit/warung_api/internal/models"
)

// LowStockEntry is one low-stock product on the dashboard.
type LowStockEntry struct {
	InventoryID string  `json:"inventoryId"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Threshold   float64 `json:"threshold"`
	Unit        string  `json:"unit"`
}

// DashboardStats is the dashboard page payload.
type DashboardStats struct {
	TodayOrders       int             `json:"todayOrders"`
	TodayRevenue      float64         `json:"todayRevenue"`
	PendingOrders     int             `json:"pendingOrders"`
	LowStockCount     int             `json:"lowStockCount"`
	LowStockItems     []LowStockEntry `json:"lowStockItems"`
	OutstandingCredit float64         `json:"outstandingCredit"`
	CreditCustomers   int             `json:"creditCustomers"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

// DashboardService computes the dashboard summary.
type DashboardService struct {
	orders    OrderStore
	inventory InventoryStore
	cache     StatsCache
	loc       *time.Location
	now       func() time.Time
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(orders OrderStore, inventory InventoryStore, cache StatsCache, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{orders: orders, inventory: inventory, cache: cache, loc: loc, now: time.Now}
}

// Stats returns today's figures, low stock and outstanding credit. The four
// reads run concurrently and the result is cached until the next write.
func (s *DashboardService) Stats(ctx context.Context, sess models.Session, storeID string) (*DashboardStats, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached DashboardStats
		err := s.cache.Get(ctx, storeID, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("store_id", storeID).Msg("dashboard stats cache read failed")
		}
	}

	var (
		today  []models.Order
		items  []models.InventoryItem
		unpaid []models.Order
		counts map[models.OrderStatus]int
	)
	now := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		today, err = s.orders.ListSince(gctx, storeID, StartOfDay(now, s.loc))
		return err
	})
	g.Go(func() (err error) {
		items, err = s.inventory.ListByStore(gctx, storeID)
		return err
	})
	g.Go(func() (err error) {
		unpaid, err = s.orders.ListUnpaid(gctx, storeID)
		return err
	})
	g.Go(func() (err error) {
		counts, err = s.orders.CountByStatus(gctx, storeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard data: %w", err)
	}

	stats := &DashboardStats{
		TodayOrders:       len(today),
		TodayRevenue:      Revenue(today),
		PendingOrders:     counts[models.OrderStatusPending],
		LowStockItems:     make([]LowStockEntry, 0),
		OutstandingCredit: OutstandingCredit(unpaid),
		GeneratedAt:       now,
	}
	for _, it := range LowStockItems(items) {
		stats.LowStockItems = append(stats.LowStockItems, LowStockEntry{
			InventoryID: it.ID,
			Name:        it.ProductName,
			Quantity:    it.Quantity,
			Threshold:   it.ReorderThreshold,
			Unit:        it.Unit,
		})
	}
	stats.LowStockCount = len(stats.LowStockItems)
	phones := make(map[string]struct{})
	for _, o := range unpaid {
		phones[o.CustomerPhone] = struct{}{}
	}
	stats.CreditCustomers = len(phones)

	if s.cache != nil {
		if err := s.cache.Set(ctx, storeID, stats); err != nil {
			log.Warn().Err(err).Str("store_id", storeID).Msg("dashboard stats cache write failed")
		}
	}
	return stats, nil
}

// Revenue sums the totals of orders that were not cancelled.
func Revenue(orders []models.Order) float64 {
	var total float64
	for _, o := range orders {
		if o.Status != models.OrderStatusCancelled {
			total += o.TotalAmount
		}
	}
	return total
}

// StartOfDay returns midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
