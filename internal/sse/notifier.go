package sse

import (
	"time"

	"github.com/GTDGit/warung_api/internal/models"
)

// StoreNotifier is the interface services use to emit store events.
type StoreNotifier interface {
	NotifyOrderCreated(o *models.Order)
	NotifyOrderStatusChanged(o *models.Order)
	NotifyOrderPaymentChanged(o *models.Order)
	NotifyInventoryUpdated(item *models.InventoryItem, lowStock bool)
}

// HubNotifier implements StoreNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyOrderCreated(o *models.Order) {
	n.broadcastOrder(EventOrderCreated, o)
}

func (n *HubNotifier) NotifyOrderStatusChanged(o *models.Order) {
	n.broadcastOrder(EventOrderStatusChanged, o)
}

func (n *HubNotifier) NotifyOrderPaymentChanged(o *models.Order) {
	n.broadcastOrder(EventOrderPaymentChanged, o)
}

func (n *HubNotifier) NotifyInventoryUpdated(item *models.InventoryItem, lowStock bool) {
	if n.hub.ClientCount() == 0 {
		return
	}
	qty := item.Quantity
	n.hub.Broadcast(&StoreEvent{
		Event:       EventInventoryUpdated,
		StoreID:     item.StoreID,
		InventoryID: item.ID,
		Quantity:    &qty,
		IsLowStock:  &lowStock,
		Timestamp:   time.Now(),
	})
}

func (n *HubNotifier) broadcastOrder(eventType EventType, o *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	total := o.TotalAmount
	n.hub.Broadcast(&StoreEvent{
		Event:         eventType,
		StoreID:       o.StoreID,
		OrderID:       o.ID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   &total,
		Timestamp:     time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyOrderCreated(o *models.Order)                               {}
func (n *NopNotifier) NotifyOrderStatusChanged(o *models.Order)                         {}
func (n *NopNotifier) NotifyOrderPaymentChanged(o *models.Order)                        {}
func (n *NopNotifier) NotifyInventoryUpdated(item *models.InventoryItem, lowStock bool) {}
