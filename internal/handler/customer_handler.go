package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

// CustomerService is what CustomerHandler needs from the customer service.
type CustomerService interface {
	List(ctx context.Context, sess models.Session, storeID string) ([]models.Customer, error)
	TelegramChatID(ctx context.Context, sess models.Session, phone string) (*string, error)
}

// PromoSender sends the store template to customers.
type PromoSender interface {
	SendPromo(ctx context.Context, sess models.Session, req service.PromoRequest) (*service.PromoResult, error)
}

// CustomerHandler serves customer listing, chat lookup and promos.
type CustomerHandler struct {
	customers CustomerService
	promos    PromoSender
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers CustomerService, promos PromoSender) *CustomerHandler {
	return &CustomerHandler{customers: customers, promos: promos}
}

// List handles GET /api/owner/customers/:store_id.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context(), currentSession(c), c.Param("store_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Customers retrieved", customers)
}

// TelegramChatID handles GET /api/owner/customer-telegram/:phone.
func (h *CustomerHandler) TelegramChatID(c *gin.Context) {
	chatID, err := h.customers.TelegramChatID(c.Request.Context(), currentSession(c), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Telegram chat retrieved", gin.H{"telegram_chat_id": chatID})
}

// SendPromo handles POST /api/owner/send-promo.
func (h *CustomerHandler) SendPromo(c *gin.Context) {
	var req service.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	res, err := h.promos.SendPromo(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Promo sent", res)
}
