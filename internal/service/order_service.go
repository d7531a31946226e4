package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/repository"
	"github.com/GTDGit/warung_api/internal/sse"
	"github.com/GTDGit/warung_api/internal/utils"
)

// DeliveryNotifier sends the order-delivered message.
type DeliveryNotifier interface {
	NotifyDelivered(ctx context.Context, o *models.Order)
}

// ListOrdersParams filters and paginates the order list.
type ListOrdersParams struct {
	Status string
	Page   int
	Limit  int
}

// OrderList is the orders page payload.
type OrderList struct {
	Orders     []models.Order             `json:"orders"`
	Counts     map[models.OrderStatus]int `json:"counts"`
	Pagination *utils.Pagination          `json:"-"`
}

// PlaceOrderItem is one requested line.
type PlaceOrderItem struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest is a customer order submitted to a store.
type PlaceOrderRequest struct {
	CustomerName  string           `json:"customerName" binding:"required"`
	CustomerPhone string           `json:"customerPhone" binding:"required"`
	Address       string           `json:"address"`
	Items         []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
	IsCredit      bool             `json:"isCredit"`
	Notes         string           `json:"notes"`
}

// PlacedOrder is the created order with its lines.
type PlacedOrder struct {
	Order models.Order       `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// OrderDetail is one order with its lines and the statuses it may move to.
type OrderDetail struct {
	Order        models.Order         `json:"order"`
	Items        []models.OrderItem   `json:"items"`
	NextStatuses []models.OrderStatus `json:"nextStatuses"`
}

// OrderService handles order listing and status/payment changes.
type OrderService struct {
	orders      OrderStore
	inventory   InventoryStore
	stores      StoreStore
	delivery    DeliveryNotifier
	events      sse.StoreNotifier
	stats       StatsCache
	listLimit   int
	countryCode string
}

// NewOrderService constructs an OrderService.
func NewOrderService(
	orders OrderStore,
	inventory InventoryStore,
	stores StoreStore,
	delivery DeliveryNotifier,
	events sse.StoreNotifier,
	stats StatsCache,
	listLimit int,
	countryCode string,
) *OrderService {
	if events == nil {
		events = &sse.NopNotifier{}
	}
	if listLimit <= 0 {
		listLimit = 50
	}
	return &OrderService{
		orders:      orders,
		inventory:   inventory,
		stores:      stores,
		delivery:    delivery,
		events:      events,
		stats:       stats,
		listLimit:   listLimit,
		countryCode: countryCode,
	}
}

// List returns the store's orders, newest first, with per-status counts.
func (s *OrderService) List(ctx context.Context, sess models.Session, storeID string, p ListOrdersParams) (*OrderList, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(p.Status)))
	if status != "" && !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}
	if p.Limit <= 0 || p.Limit > s.listLimit {
		p.Limit = s.listLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	counts, err := s.orders.CountByStatus(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	orders, err := s.orders.ListByStore(ctx, storeID, repository.OrderFilter{
		Status: status,
		Limit:  p.Limit,
		Offset: (p.Page - 1) * p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}

	total := counts[status]
	if status == "" {
		total = 0
		for _, n := range counts {
			total += n
		}
	}

	return &OrderList{
		Orders:     orders,
		Counts:     counts,
		Pagination: utils.NewPagination(p.Page, p.Limit, total),
	}, nil
}

// Get returns one of the store's orders with its lines.
func (s *OrderService) Get(ctx context.Context, sess models.Session, storeID, orderID string) (*OrderDetail, error) {
	if err := authorizeStore(sess, storeID); err != nil {
		return nil, err
	}
	o, err := s.getOwnedOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.ListItems(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return &OrderDetail{Order: *o, Items: items, NextStatuses: NextStatuses(o.Status)}, nil
}

// UpdateStatus moves an order to status. Completing an order sends the
// delivery message; its failure does not undo the status change.
func (s *OrderService) UpdateStatus(ctx context.Context, sess models.Session, orderID, status string) (*models.Order, error) {
	to := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !to.Valid() {
		return nil, utils.ErrInvalidStatus
	}

	o, err := s.getOwnedOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, utils.ErrInvalidTransition
	}

	if err := s.orders.UpdateStatus(ctx, o.StoreID, o.ID, o.Status, to); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// status changed underneath us
			return nil, utils.ErrInvalidTransition
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	log.Info().
		Str("order_id", o.ID).
		Str("store_id", o.StoreID).
		Str("from", string(o.Status)).
		Str("to", string(to)).
		Msg("order status updated")

	o.Status = to
	o.UpdatedAt = time.Now()
	invalidateStats(ctx, s.stats, o.StoreID)
	s.events.NotifyOrderStatusChanged(o)

	if to == models.OrderStatusCompleted && s.delivery != nil {
		s.delivery.NotifyDelivered(ctx, o)
	}
	return o, nil
}

// UpdatePayment marks an order paid or unpaid.
func (s *OrderService) UpdatePayment(ctx context.Context, sess models.Session, orderID, payment string) (*models.Order, error) {
	p := models.PaymentStatus(strings.ToLower(strings.TrimSpace(payment)))
	if !p.Valid() {
		return nil, utils.ErrInvalidPayment
	}

	o, err := s.getOwnedOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == p {
		return o, nil
	}

	if err := s.orders.UpdatePaymentStatus(ctx, o.StoreID, o.ID, p); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	o.PaymentStatus = p
	o.UpdatedAt = time.Now()
	invalidateStats(ctx, s.stats, o.StoreID)
	s.events.NotifyOrderPaymentChanged(o)
	return o, nil
}

// PlaceOrder creates a customer order against the store's inventory. The
// total is the sum of quantity times the current unit price. Credit orders
// start unpaid.
func (s *OrderService) PlaceOrder(ctx context.Context, storeID string, req PlaceOrderRequest) (*PlacedOrder, error) {
	if len(req.Items) == 0 {
		return nil, utils.ErrEmptyOrder
	}
	phone, err := NormalizePhone(s.countryCode, req.CustomerPhone)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]float64, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 || math.IsNaN(it.Quantity) || math.IsInf(it.Quantity, 0) {
			return nil, utils.ErrInvalidQuantity
		}
		if _, seen := wanted[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		return nil, err
	}

	stock, err := s.inventory.ListByProductIDs(ctx, storeID, ids)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	byProduct := make(map[string]models.InventoryItem, len(stock))
	for _, inv := range stock {
		byProduct[inv.ProductID] = inv
	}

	items := make([]models.OrderItem, 0, len(ids))
	var total float64
	for _, id := range ids {
		inv, ok := byProduct[id]
		if !ok {
			return nil, utils.ErrNotFound
		}
		qty := wanted[id]
		if inv.Quantity < qty {
			return nil, utils.ErrInsufficientStock
		}
		subtotal := roundMoney(qty * inv.UnitPrice)
		items = append(items, models.OrderItem{
			ProductID:   id,
			ProductName: inv.ProductName,
			Quantity:    qty,
			UnitPrice:   inv.UnitPrice,
			Subtotal:    subtotal,
		})
		total += subtotal
	}

	payment := models.PaymentStatusPaid
	if req.IsCredit {
		payment = models.PaymentStatusUnpaid
	}
	customer := &models.Customer{
		StoreID: storeID,
		Name:    strings.TrimSpace(req.CustomerName),
		Phone:   phone,
		Address: strings.TrimSpace(req.Address),
	}
	o := &models.Order{
		StoreID:       storeID,
		TotalAmount:   roundMoney(total),
		Status:        models.OrderStatusPending,
		PaymentStatus: payment,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := s.orders.CreateWithItems(ctx, customer, o, items); err != nil {
		if errors.Is(err, utils.ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	log.Info().
		Str("order_id", o.ID).
		Str("store_id", storeID).
		Float64("total", o.TotalAmount).
		Bool("credit", req.IsCredit).
		Msg("order placed")

	invalidateStats(ctx, s.stats, storeID)
	s.events.NotifyOrderCreated(o)
	for _, it := range items {
		inv := byProduct[it.ProductID]
		inv.Quantity -= it.Quantity
		s.events.NotifyInventoryUpdated(&inv, IsLowStock(inv.Quantity, inv.ReorderThreshold))
	}

	return &PlacedOrder{Order: *o, Items: items}, nil
}

func (s *OrderService) getOwnedOrder(ctx context.Context, sess models.Session, orderID string) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.StoreID != sess.StoreID {
		return nil, utils.ErrForbiddenStore
	}
	return o, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
