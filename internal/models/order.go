package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentStatus tells whether the customer has paid. Unpaid orders are credit.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Valid reports whether p is paid or unpaid.
func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusPaid || p == PaymentStatusUnpaid
}

// Order is a customer order joined with the customer's name and phone.
type Order struct {
	ID            string        `db:"id" json:"orderId"`
	StoreID       string        `db:"store_id" json:"storeId"`
	CustomerID    string        `db:"customer_id" json:"customerId"`
	CustomerName  string        `db:"customer_name" json:"customerName"`
	CustomerPhone string        `db:"customer_phone" json:"customerPhone"`
	TotalAmount   float64       `db:"total_amount" json:"totalAmount"`
	Status        OrderStatus   `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	Notes         string        `db:"notes" json:"notes"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// ShortID is the first eight characters of the order id, used in messages.
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID          string  `db:"id" json:"id"`
	OrderID     string  `db:"order_id" json:"orderId"`
	ProductID   string  `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	Quantity    float64 `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}
