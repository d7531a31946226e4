package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

// OrderService is what OrderHandler needs from the order service.
type OrderService interface {
	List(ctx context.Context, sess models.Session, storeID string, p service.ListOrdersParams) (*service.OrderList, error)
	Get(ctx context.Context, sess models.Session, storeID, orderID string) (*service.OrderDetail, error)
	UpdateStatus(ctx context.Context, sess models.Session, orderID, status string) (*models.Order, error)
	UpdatePayment(ctx context.Context, sess models.Session, orderID, payment string) (*models.Order, error)
	PlaceOrder(ctx context.Context, storeID string, req service.PlaceOrderRequest) (*service.PlacedOrder, error)
}

// OrderHandler serves the owner's order endpoints and customer ordering.
type OrderHandler struct {
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/owner/orders/:store_id.
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.orders.List(c.Request.Context(), currentSession(c), c.Param("store_id"), service.ListOrdersParams{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Orders retrieved", res, res.Pagination)
}

// Get handles GET /api/owner/orders/:store_id/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	detail, err := h.orders.Get(c.Request.Context(), currentSession(c), c.Param("store_id"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order retrieved", detail)
}

// UpdateStatus handles PUT /api/owner/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.ErrInvalidStatus)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), currentSession(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order status updated", order)
}

// UpdatePayment handles PUT /api/owner/orders/:id/payment.
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.ErrInvalidPayment)
		return
	}

	order, err := h.orders.UpdatePayment(c.Request.Context(), currentSession(c), id, req.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Payment status updated", order)
}

// PlaceOrder handles POST /api/customer/order/:store_id.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	storeID := c.Param("store_id")
	if _, err := uuid.Parse(storeID); err != nil {
		respondError(c, utils.ErrNotFound)
		return
	}
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	placed, err := h.orders.PlaceOrder(c.Request.Context(), storeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Order placed", placed)
}

// orderID reads :id; malformed ids are reported as not found.
func orderID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, utils.ErrNotFound)
		return "", false
	}
	return id, true
}
